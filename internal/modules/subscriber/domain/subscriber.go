package domain

import "errors"

// ErrInvalidPhone is returned when a phone number is not in E.164 form.
var ErrInvalidPhone = errors.New("invalid phone number")

// Subscriber is a registered alert recipient. The ID is the Telegram user
// id and never changes; the phone number enables the voice-call channel
// and may be set or cleared at any time.
type Subscriber struct {
	ID       int64  `json:"id"`
	Username string `json:"username,omitempty"`
	Phone    string `json:"phone,omitempty"`
}
