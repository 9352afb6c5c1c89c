// Package domain holds the entities of the Girls Can Code! application
// pipeline and the rules that derive an applicant's overall state from
// the per-wish review statuses.
package domain

import "fmt"

// Status is the review state of a single event wish.
type Status string

const (
	StatusIncomplete Status = "incomplete" // the candidate hasn't finished her registration yet
	StatusPending    Status = "pending"    // the candidate finished her registration
	StatusRejected   Status = "rejected"   // the application has been rejected
	StatusSelected   Status = "selected"   // the candidate has been selected for participation
	StatusAccepted   Status = "accepted"   // the candidate has been assigned to an event and emailed
	StatusConfirmed  Status = "confirmed"  // the candidate confirmed her participation
)

// statusPrecedence orders statuses for aggregation. When the wishes of a
// candidate carry separate statuses, the greatest one is displayed.
var statusPrecedence = map[Status]int{
	StatusRejected:   0,
	StatusIncomplete: 1,
	StatusPending:    2,
	StatusSelected:   3,
	StatusAccepted:   4,
	StatusConfirmed:  5,
}

// ParseStatus converts a raw string to a Status, returning an error for
// unknown values.
func ParseStatus(s string) (Status, error) {
	st := Status(s)
	if _, ok := statusPrecedence[st]; !ok {
		return "", fmt.Errorf("unknown wish status %q", s)
	}

	return st, nil
}

// AggregateStatus returns the highest-precedence status among the given
// wish statuses, or StatusIncomplete when the applicant has no wishes.
func AggregateStatus(statuses []Status) Status {
	result := StatusIncomplete
	best := -1

	for _, s := range statuses {
		if p, ok := statusPrecedence[s]; ok && p > best {
			best = p
			result = s
		}
	}

	return result
}

// Locks reports whether a wish in this status freezes the application.
// Only incomplete and rejected wishes leave the wish form editable.
func (s Status) Locks() bool {
	return s != StatusIncomplete && s != StatusRejected
}
