package domain

import "time"

// MaxWishes is the number of ranked event choices an applicant may submit.
const MaxWishes = 3

// Applicant is a user's registration record for one edition. It is created
// lazily the first time the user opens the application form for that
// edition. An applicant is unique per (user, edition).
//
// No free-text field is stored on the review side to keep reviews GDPR-safe;
// staff annotate applications with predefined labels only.
type Applicant struct {
	ID        uint      `json:"id"`
	UserID    uint      `json:"user_id"`
	EditionID uint      `json:"edition_id"`
	User      User      `json:"user,omitempty"`
	Wishes    []Wish    `json:"wishes"`
	Labels    []Label   `json:"labels"`
	Answers   []Answer  `json:"answers,omitempty"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Status derives the applicant's overall status from its wishes. It is
// computed, never stored.
func (a *Applicant) Status() Status {
	statuses := make([]Status, len(a.Wishes))
	for i, w := range a.Wishes {
		statuses[i] = w.Status
	}

	return AggregateStatus(statuses)
}

// IsLocked reports whether the applicant may no longer edit her wishes,
// i.e. at least one wish has entered the review pipeline.
func (a *Applicant) IsLocked() bool {
	for _, w := range a.Wishes {
		if w.Status.Locks() {
			return true
		}
	}

	return false
}

// HasRejectedWishes reports whether any wish was rejected by the staff.
func (a *Applicant) HasRejectedWishes() bool {
	for _, w := range a.Wishes {
		if w.Status == StatusRejected {
			return true
		}
	}

	return false
}

// Wish is one ranked venue preference by an applicant. Order ranges over
// 1..MaxWishes, the lower the order the more preferred the event. A wish is
// unique per (applicant, event).
type Wish struct {
	ID          uint   `json:"id"`
	ApplicantID uint   `json:"applicant_id"`
	EventID     uint   `json:"event_id"`
	Event       Event  `json:"event,omitempty"`
	Order       int    `json:"order"`
	Status      Status `json:"status"`

	// Applicant is only populated when a wish is loaded on its own, for
	// ownership checks.
	Applicant *Applicant `json:"-"`
}

// Label is a predefined tag staff attach to applications during review.
// Labels carry no transition semantics.
type Label struct {
	ID      uint   `json:"id"`
	Display string `json:"display"`
}
