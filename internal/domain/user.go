package domain

import "time"

type Role string

const (
	RoleRenter Role = "RENTER"
	RoleVendor Role = "VENDOR"
	RoleStaff  Role = "STAFF"
	RoleAdmin  Role = "ADMIN"
)

func (r Role) CanModerate() bool {
	return r == RoleStaff || r == RoleAdmin
}

type User struct {
	ID         int64     `json:"id"`
	Email      string    `json:"email"`
	Name       string    `json:"name"`
	Role       Role      `json:"role"`
	FraudScore int32     `json:"fraud_score"`
	Blocked    bool      `json:"blocked"`
	CreatedOn  time.Time `json:"created_on"`
}
