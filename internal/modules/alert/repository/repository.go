package repository

import (
	"context"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
)

// Repository defines the interface for the fired-alert history log
type Repository interface {
	SaveAlert(ctx context.Context, alert *domain.Alert) error
	// GetAlerts returns up to limit alerts for the chat, newest first.
	GetAlerts(ctx context.Context, chatID int64, limit int) ([]*domain.Alert, error)
}
