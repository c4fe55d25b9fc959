package service

import (
	"context"
	"fmt"

	"github.com/gorilla/feeds"
	alertDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
	alertRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/repository"
	chatRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/repository"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

const historyLimit = 50

// Service generates RSS feeds of a chat's recently fired alerts
type Service struct {
	chats  chatRepo.Repository
	alerts alertRepo.Repository
}

// New creates a new feed service
func New(chats chatRepo.Repository, alerts alertRepo.Repository) *Service {
	return &Service{chats: chats, alerts: alerts}
}

// GenerateFeed builds the alert-history feed for one chat
func (s *Service) GenerateFeed(ctx context.Context, chatID int64, baseURL string) (*feeds.Feed, error) {
	chat, err := s.chats.GetChat(ctx, chatID)
	if err != nil {
		return nil, oops.With("chat_id", chatID, "context", "chat not found").Wrap(err)
	}

	alerts, err := s.alerts.GetAlerts(ctx, chatID, historyLimit)
	if err != nil {
		return nil, oops.With("chat_id", chatID, "context", "failed to get alert history").Wrap(err)
	}

	feedLink := fmt.Sprintf("%s/rss/%d", baseURL, chat.ID)
	feed := &feeds.Feed{
		Title:       fmt.Sprintf("%s - alert history", chat.Name),
		Link:        &feeds.Link{Href: feedLink},
		Description: fmt.Sprintf("Alerts fired in chat %s", chat.Name),
	}

	feed.Items = lo.Map(alerts, func(alert *alertDomain.Alert, _ int) *feeds.Item {
		return &feeds.Item{
			Id:          alert.ID,
			Title:       truncate(alert.Text, 100),
			Link:        &feeds.Link{Href: feedLink},
			Description: fmt.Sprintf("Rule %s matched: %s", alert.Rule, alert.Text),
			Created:     alert.FiredAt,
		}
	})

	if len(alerts) > 0 {
		feed.Updated = alerts[0].FiredAt
	}

	return feed, nil
}

func truncate(s string, maxLen int) string {
	if len(s) <= maxLen {
		return s
	}
	return s[:maxLen] + "..."
}
