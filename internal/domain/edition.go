package domain

import "time"

// Edition is one yearly run of the program. Routes always name the edition
// year explicitly; there is no implicit "current edition" lookup.
type Edition struct {
	ID           uint `json:"id"`
	Year         int  `json:"year"`
	SignupFormID uint `json:"signup_form_id"`
}

// Event is a scheduled venue session within an edition.
type Event struct {
	ID          uint      `json:"id"`
	EditionID   uint      `json:"edition_id"`
	Center      string    `json:"center"`
	IsLong      bool      `json:"is_long"`
	EventStart  time.Time `json:"event_start"`
	EventEnd    time.Time `json:"event_end"`
	SignupStart time.Time `json:"signup_start"`
	SignupEnd   time.Time `json:"signup_end"`
}

// IsOpenForSignup reports whether the event still accepts wishes at the
// given instant.
func (e *Event) IsOpenForSignup(now time.Time) bool {
	return e.SignupStart.Before(now) && !e.SignupEnd.Before(now) && e.EventEnd.After(now)
}
