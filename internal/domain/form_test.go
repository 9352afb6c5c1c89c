package domain

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestAnswerIsValid(t *testing.T) {
	optional := Answer{
		Question: Question{FinallyRequired: false},
		Response: "",
	}
	assert.True(t, optional.IsValid())

	required := Answer{
		Question: Question{FinallyRequired: true},
	}

	required.Response = ""
	assert.False(t, required.IsValid())

	// An unchecked boolean serializes as "false" and doesn't count.
	required.Response = "false"
	assert.False(t, required.IsValid())

	required.Response = "Lyon"
	assert.True(t, required.IsValid())
}

func TestUserHasCompleteProfile(t *testing.T) {
	birthdate := time.Date(2008, 6, 1, 0, 0, 0, 0, time.UTC)

	user := User{
		Email:     "alice@example.com",
		FirstName: "Alice",
		LastName:  "Martin",
		Birthdate: &birthdate,
	}
	assert.True(t, user.HasCompleteProfile())

	user.Birthdate = nil
	assert.False(t, user.HasCompleteProfile())

	user.Birthdate = &birthdate
	user.FirstName = ""
	assert.False(t, user.HasCompleteProfile())
}

func TestEventIsOpenForSignup(t *testing.T) {
	now := time.Date(2026, 3, 15, 12, 0, 0, 0, time.UTC)

	event := Event{
		SignupStart: now.AddDate(0, -1, 0),
		SignupEnd:   now.AddDate(0, 1, 0),
		EventStart:  now.AddDate(0, 3, 0),
		EventEnd:    now.AddDate(0, 4, 0),
	}
	assert.True(t, event.IsOpenForSignup(now))

	closed := event
	closed.SignupEnd = now.AddDate(0, -1, 0).AddDate(0, 0, 15)
	assert.False(t, closed.IsOpenForSignup(now))

	notYetOpen := event
	notYetOpen.SignupStart = now.AddDate(0, 0, 1)
	assert.False(t, notYetOpen.IsOpenForSignup(now))

	over := event
	over.EventEnd = now.AddDate(0, 0, -1)
	assert.False(t, over.IsOpenForSignup(now))
}

func TestSubscriberUnsubscribeToken(t *testing.T) {
	sub := Subscriber{ID: 42, Email: "alice@example.com"}

	token := sub.UnsubscribeToken("secret")
	assert.Len(t, token, 32)

	// Deterministic for the same id and secret.
	assert.Equal(t, token, sub.UnsubscribeToken("secret"))

	// Different secret or id yields a different token.
	assert.NotEqual(t, token, sub.UnsubscribeToken("other-secret"))

	other := Subscriber{ID: 43}
	assert.NotEqual(t, token, other.UnsubscribeToken("secret"))
}
