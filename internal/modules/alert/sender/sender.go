// Package sender holds the delivery channels the dispatch engine fans
// alerts out to: the in-app Telegram message (primary) and the voice call
// through an external call API (secondary).
package sender

import (
	"context"

	alertDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
	subscriberDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
)

// Notification is one alert addressed to one subscriber.
type Notification struct {
	Subscriber *subscriberDomain.Subscriber
	Text       string
}

// Sender delivers a notification over a single channel. Implementations
// are best-effort: an error means this one delivery failed, nothing more.
type Sender interface {
	Type() alertDomain.ChannelType
	Send(ctx context.Context, n Notification) error
}
