package domain

import (
	"crypto/sha256"
	"encoding/hex"
	"strconv"
	"time"
)

// Subscriber is a confirmed newsletter subscription.
type Subscriber struct {
	ID           uint      `json:"id"`
	Email        string    `json:"email"`
	SubscribedAt time.Time `json:"subscribed_at"`
}

// UnsubscribeToken derives the token embedded in unsubscribe links. It only
// depends on the subscriber id and the server secret, so links stay valid
// for the lifetime of the subscription.
func (s *Subscriber) UnsubscribeToken(secret string) string {
	sum := sha256.Sum256([]byte(strconv.FormatUint(uint64(s.ID), 10) + secret))

	return hex.EncodeToString(sum[:])[:32]
}

// SubscriberVerification is a pending double-opt-in subscription. The row is
// promoted to a Subscriber once the emailed token is visited.
type SubscriberVerification struct {
	ID    uint   `json:"id"`
	Email string `json:"email"`
	Token string `json:"token"`
}
