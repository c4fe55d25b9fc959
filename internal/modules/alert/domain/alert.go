package domain

import (
	"errors"
	"time"
)

var (
	// ErrUnresolvedSubscriber is recorded when a subscribed id has no
	// subscriber record at dispatch time.
	ErrUnresolvedSubscriber = errors.New("subscriber not resolved")
	// ErrRemoteAPI is returned when the voice-call backend reports an
	// error status for an accepted request.
	ErrRemoteAPI = errors.New("call API returned error status")
)

// Alert is a persisted record of a fired trigger, kept for the alert
// history feed.
type Alert struct {
	ID       string    `json:"id"`
	ChatID   int64     `json:"chat_id"`
	ChatName string    `json:"chat_name,omitempty"`
	Rule     string    `json:"rule"`
	Text     string    `json:"text"`
	FiredAt  time.Time `json:"fired_at"`
}

// DeliveryFailure records one recipient attempt that did not go through.
type DeliveryFailure struct {
	SubscriberID int64
	Channel      ChannelType
	Err          error
}

// DeliveryReport aggregates the outcome of one dispatch fan-out. A report
// is always produced; individual failures never abort the dispatch.
type DeliveryReport struct {
	ChatID    int64
	Rule      string
	Attempted int // subscribers processed
	Delivered int // successful channel sends across all subscribers
	Failures  []DeliveryFailure
}
