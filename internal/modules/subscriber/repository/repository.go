package repository

import (
	"context"
	"errors"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
)

// ErrNotFound is returned when no record exists for the requested subscriber.
var ErrNotFound = errors.New("subscriber not found")

// Repository defines the interface for subscriber data persistence
type Repository interface {
	GetSubscriber(ctx context.Context, subscriberID int64) (*domain.Subscriber, error)
	SaveSubscriber(ctx context.Context, subscriber *domain.Subscriber) error
	GetAllSubscribers(ctx context.Context) ([]*domain.Subscriber, error)
}
