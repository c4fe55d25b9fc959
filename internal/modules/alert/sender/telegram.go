package sender

import (
	"context"

	"github.com/go-telegram/bot"
	alertDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
	"github.com/samber/oops"
	"golang.org/x/time/rate"
)

// Telegram caps bots at roughly 30 messages per second across all chats.
const telegramSendRate = 30

// TelegramSender delivers alerts as private Telegram messages. Outbound
// sends go through a rate limiter so a large fan-out cannot trip the
// Telegram flood limits.
type TelegramSender struct {
	bot     *bot.Bot
	limiter *rate.Limiter
}

// NewTelegramSender creates the primary message channel sender
func NewTelegramSender() *TelegramSender {
	return &TelegramSender{
		limiter: rate.NewLimiter(rate.Limit(telegramSendRate), telegramSendRate),
	}
}

// SetBot sets the Telegram bot instance. The bot is constructed after the
// senders, so it is injected once the bot exists.
func (s *TelegramSender) SetBot(b *bot.Bot) {
	s.bot = b
}

// Type returns the channel type
func (s *TelegramSender) Type() alertDomain.ChannelType {
	return alertDomain.ChannelTypeMessage
}

// Send delivers the notification to the subscriber's private chat
func (s *TelegramSender) Send(ctx context.Context, n Notification) error {
	if s.bot == nil {
		return oops.Errorf("telegram sender: bot not initialized")
	}

	if err := s.limiter.Wait(ctx); err != nil {
		return oops.With("subscriber_id", n.Subscriber.ID).Wrap(err)
	}

	if _, err := s.bot.SendMessage(ctx, &bot.SendMessageParams{
		ChatID: n.Subscriber.ID,
		Text:   n.Text,
	}); err != nil {
		return oops.With("subscriber_id", n.Subscriber.ID).Wrap(err)
	}

	return nil
}
