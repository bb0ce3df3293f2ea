package clock

import "time"

// Clock supplies current time so lateness and expiry computations can be
// pinned in tests.
type Clock interface {
	Now() time.Time
}

type realClock struct{}

func (realClock) Now() time.Time { return time.Now().UTC() }

// Real returns the wall clock in UTC.
func Real() Clock { return realClock{} }

// Fixed returns a clock frozen at t.
func Fixed(t time.Time) Clock { return fixedClock{t} }

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }
