package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
	alertRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/repository"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/sender"
	chatDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
	subscriberDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
	subscriberRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/repository"
	"github.com/samber/oops"
)

// SubscriberResolver resolves subscriber ids to records at dispatch time.
type SubscriberResolver interface {
	GetSubscriber(ctx context.Context, subscriberID int64) (*subscriberDomain.Subscriber, error)
}

// Service is the dispatch engine: it fans one fired alert out to every
// subscriber of the chat, over the message channel and, when a phone
// number is configured, the voice channel too.
type Service struct {
	subscribers SubscriberResolver
	repo        alertRepo.Repository
	senders     map[domain.ChannelType]sender.Sender
}

// New creates a new dispatch service
func New(subscribers SubscriberResolver, repo alertRepo.Repository, senders ...sender.Sender) *Service {
	senderMap := make(map[domain.ChannelType]sender.Sender)
	for _, s := range senders {
		senderMap[s.Type()] = s
	}

	return &Service{
		subscribers: subscribers,
		repo:        repo,
		senders:     senderMap,
	}
}

// Dispatch delivers the fired alert to every subscriber of the chat.
// Each recipient is processed independently: an unresolved record or a
// failed channel send is recorded in the report and the loop moves on.
// Dispatch never fails as a unit; there are no retries and no queueing.
func (s *Service) Dispatch(ctx context.Context, chat *chatDomain.Chat, rule chatDomain.Rule, text string) *domain.DeliveryReport {
	report := &domain.DeliveryReport{ChatID: chat.ID, Rule: rule.Pattern}
	alertText := fmt.Sprintf("Alert from chat %s: %s", chat.Name, text)

	alertsFired.Inc()

	for _, subscriberID := range chat.Subscribers {
		report.Attempted++

		subscriber, err := s.subscribers.GetSubscriber(ctx, subscriberID)
		if err != nil {
			if errors.Is(err, subscriberRepo.ErrNotFound) {
				err = oops.With("subscriber_id", subscriberID).Wrap(domain.ErrUnresolvedSubscriber)
			}
			report.Failures = append(report.Failures, domain.DeliveryFailure{
				SubscriberID: subscriberID,
				Channel:      domain.ChannelTypeMessage,
				Err:          err,
			})
			slog.Error("Failed to resolve subscriber", "chat_id", chat.ID, "subscriber_id", subscriberID, "error", err)
			continue
		}

		n := sender.Notification{Subscriber: subscriber, Text: alertText}

		s.deliver(ctx, domain.ChannelTypeMessage, n, report)
		if subscriber.Phone != "" {
			// Independent escalation attempt; its outcome does not
			// depend on the message send above.
			s.deliver(ctx, domain.ChannelTypeCall, n, report)
		}
	}

	s.record(ctx, chat, rule, text)
	return report
}

func (s *Service) deliver(ctx context.Context, channel domain.ChannelType, n sender.Notification, report *domain.DeliveryReport) {
	snd, ok := s.senders[channel]
	if !ok {
		slog.Warn("No sender for channel type", "channel", channel)
		return
	}

	if err := snd.Send(ctx, n); err != nil {
		report.Failures = append(report.Failures, domain.DeliveryFailure{
			SubscriberID: n.Subscriber.ID,
			Channel:      channel,
			Err:          err,
		})
		recordDelivery(channel.String(), "failure")
		slog.Error("Failed to deliver alert", "channel", channel, "subscriber_id", n.Subscriber.ID, "error", err)
		return
	}

	report.Delivered++
	recordDelivery(channel.String(), "success")
}

// record appends the fired alert to the history log. Log failures are not
// delivery failures and only get logged.
func (s *Service) record(ctx context.Context, chat *chatDomain.Chat, rule chatDomain.Rule, text string) {
	alert := &domain.Alert{
		ID:       uuid.NewString(),
		ChatID:   chat.ID,
		ChatName: chat.Name,
		Rule:     rule.Pattern,
		Text:     text,
		FiredAt:  time.Now(),
	}

	if err := s.repo.SaveAlert(ctx, alert); err != nil {
		slog.Error("Failed to record alert", "chat_id", chat.ID, "error", err)
	}
}
