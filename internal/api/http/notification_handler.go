package http

import (
	"net/http"
	"strconv"

	"rentloop-backend/internal/service"
)

type NotificationHandler struct {
	notifications service.NotificationService
}

func NewNotificationHandler(notifications service.NotificationService) *NotificationHandler {
	return &NotificationHandler{notifications: notifications}
}

func (h *NotificationHandler) List(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	var page, pageSize int32
	if p, err := strconv.ParseInt(q.Get("page"), 10, 32); err == nil {
		page = int32(p)
	}
	if ps, err := strconv.ParseInt(q.Get("page_size"), 10, 32); err == nil {
		pageSize = int32(ps)
	}
	notifications, total, err := h.notifications.GetNotifications(r.Context(), claimsFrom(r).UserID, page, pageSize)
	if err != nil {
		writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"notifications": notifications, "total": total})
}

func (h *NotificationHandler) MarkAsRead(w http.ResponseWriter, r *http.Request) {
	id, err := pathID(r)
	if err != nil {
		writeError(w, err)
		return
	}
	if err := h.notifications.MarkAsRead(r.Context(), claimsFrom(r).UserID, id); err != nil {
		writeError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
