package repository

import (
	"context"
	"errors"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
)

// ErrNotFound is returned when no record exists for the requested chat.
var ErrNotFound = errors.New("chat not found")

// Repository defines the interface for chat data persistence
type Repository interface {
	GetChat(ctx context.Context, chatID int64) (*domain.Chat, error)
	SaveChat(ctx context.Context, chat *domain.Chat) error
	GetAllChats(ctx context.Context) ([]*domain.Chat, error)
}
