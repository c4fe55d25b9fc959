package telegram

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"
	alertDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/sender"
	alertService "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/service"
	chatDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
	chatRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/repository"
	chatService "github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/service"
	subscriberDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
	subscriberRepo "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/repository"
	subscriberService "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/service"
	"github.com/reshetovitsme/chat-alert-bot/internal/shared/config"
	"github.com/samber/lo"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockChatRepo struct {
	chats map[int64]*chatDomain.Chat
}

func (m *mockChatRepo) GetChat(_ context.Context, chatID int64) (*chatDomain.Chat, error) {
	chat, ok := m.chats[chatID]
	if !ok {
		return nil, chatRepo.ErrNotFound
	}
	return chat, nil
}

func (m *mockChatRepo) SaveChat(_ context.Context, chat *chatDomain.Chat) error {
	m.chats[chat.ID] = chat
	return nil
}

func (m *mockChatRepo) GetAllChats(_ context.Context) ([]*chatDomain.Chat, error) {
	return lo.Values(m.chats), nil
}

type mockSubscriberRepo struct {
	subscribers map[int64]*subscriberDomain.Subscriber
}

func (m *mockSubscriberRepo) GetSubscriber(_ context.Context, subscriberID int64) (*subscriberDomain.Subscriber, error) {
	subscriber, ok := m.subscribers[subscriberID]
	if !ok {
		return nil, subscriberRepo.ErrNotFound
	}
	return subscriber, nil
}

func (m *mockSubscriberRepo) SaveSubscriber(_ context.Context, subscriber *subscriberDomain.Subscriber) error {
	m.subscribers[subscriber.ID] = subscriber
	return nil
}

func (m *mockSubscriberRepo) GetAllSubscribers(_ context.Context) ([]*subscriberDomain.Subscriber, error) {
	return lo.Values(m.subscribers), nil
}

type recordingSender struct {
	sent []sender.Notification
}

func (s *recordingSender) Type() alertDomain.ChannelType {
	return alertDomain.ChannelTypeMessage
}

func (s *recordingSender) Send(_ context.Context, n sender.Notification) error {
	s.sent = append(s.sent, n)
	return nil
}

type mockAlertLog struct {
	saved []*alertDomain.Alert
}

func (m *mockAlertLog) SaveAlert(_ context.Context, alert *alertDomain.Alert) error {
	m.saved = append(m.saved, alert)
	return nil
}

func (m *mockAlertLog) GetAlerts(_ context.Context, _ int64, _ int) ([]*alertDomain.Alert, error) {
	return nil, nil
}

func newMessageTestHandler(chats map[int64]*chatDomain.Chat) (*Handler, *recordingSender) {
	subs := &mockSubscriberRepo{subscribers: map[int64]*subscriberDomain.Subscriber{
		42: {ID: 42, Username: "oncall"},
	}}
	subSvc := subscriberService.New(subs)
	snd := &recordingSender{}
	dispatcher := alertService.New(subSvc, &mockAlertLog{}, snd)
	h := New(&config.Config{}, chatService.New(&mockChatRepo{chats: chats}), subSvc, dispatcher)
	return h, snd
}

// fakeBotAPI stands in for the Telegram API so replies can be observed.
func fakeBotAPI(t *testing.T, texts *[]string) *bot.Bot {
	t.Helper()

	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if text := r.FormValue("text"); text != "" {
			*texts = append(*texts, text)
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"ok":true,"result":{"message_id":1,"date":1,"chat":{"id":1,"type":"group"}}}`))
	}))
	t.Cleanup(srv.Close)

	b, err := bot.New("123:test", bot.WithSkipGetMe(), bot.WithServerURL(srv.URL))
	require.NoError(t, err)
	return b
}

func groupMessage(chatID int64, text string) *models.Message {
	return &models.Message{
		Chat: models.Chat{ID: chatID, Type: "group", Title: "ops"},
		Text: text,
	}
}

func TestProcessChatMessage_MutedChatNeverDispatches(t *testing.T) {
	h, snd := newMessageTestHandler(map[int64]*chatDomain.Chat{
		-100: {
			ID:          -100,
			Name:        "ops",
			Muted:       true,
			Rules:       []chatDomain.Rule{{Pattern: "urgent", Seq: 0}},
			Subscribers: []int64{42},
		},
	})

	// The mute gate sits before the reply, so no bot is needed.
	h.processChatMessage(context.Background(), nil, groupMessage(-100, "urgent: disk full"))

	assert.Empty(t, snd.sent)
}

func TestProcessChatMessage_MatchDispatchesAndReplies(t *testing.T) {
	h, snd := newMessageTestHandler(map[int64]*chatDomain.Chat{
		-100: {
			ID:          -100,
			Name:        "ops",
			Rules:       []chatDomain.Rule{{Pattern: "urgent", Seq: 0}},
			Subscribers: []int64{42},
		},
	})

	var replies []string
	b := fakeBotAPI(t, &replies)

	h.processChatMessage(context.Background(), b, groupMessage(-100, "urgent: disk full"))

	require.Len(t, snd.sent, 1)
	assert.Equal(t, int64(42), snd.sent[0].Subscriber.ID)
	assert.Equal(t, "Alert from chat ops: urgent: disk full", snd.sent[0].Text)

	require.Len(t, replies, 1)
	assert.Equal(t, "Alert triggered by regex urgent", replies[0])
}

func TestProcessChatMessage_NoMatchNoDispatch(t *testing.T) {
	h, snd := newMessageTestHandler(map[int64]*chatDomain.Chat{
		-100: {
			ID:          -100,
			Name:        "ops",
			Rules:       []chatDomain.Rule{{Pattern: "urgent", Seq: 0}},
			Subscribers: []int64{42},
		},
	})

	h.processChatMessage(context.Background(), nil, groupMessage(-100, "quiet day"))

	assert.Empty(t, snd.sent)
}

func TestCommandPrefixCollision_FallsThroughToMatcher(t *testing.T) {
	chats := map[int64]*chatDomain.Chat{
		-100: {
			ID:          -100,
			Name:        "ops",
			Rules:       []chatDomain.Rule{{Pattern: "urgent", Seq: 0}},
			Subscribers: []int64{42},
		},
	}
	h, snd := newMessageTestHandler(chats)

	var replies []string
	b := fakeBotAPI(t, &replies)

	// "/muted ..." lands on the "/mute" prefix handler but is not the
	// mute command; it must be treated as a plain message instead.
	h.handleMute(context.Background(), b, &models.Update{
		Message: groupMessage(-100, "/muted urgent alarms for tonight"),
	})

	assert.False(t, chats[-100].Muted)
	require.Len(t, snd.sent, 1)
	assert.Equal(t, int64(42), snd.sent[0].Subscriber.ID)
}

func TestMentionSuffixedCommand_Executes(t *testing.T) {
	chats := map[int64]*chatDomain.Chat{
		-100: {ID: -100, Name: "ops"},
	}
	h, snd := newMessageTestHandler(chats)

	var replies []string
	b := fakeBotAPI(t, &replies)

	h.handleMute(context.Background(), b, &models.Update{
		Message: groupMessage(-100, "/mute@alert_bot"),
	})

	assert.True(t, chats[-100].Muted)
	assert.Empty(t, snd.sent)
	require.Len(t, replies, 1)
	assert.Equal(t, "Muted.", replies[0])
}

func TestProcessChatMessage_UnknownChatIgnored(t *testing.T) {
	h, snd := newMessageTestHandler(map[int64]*chatDomain.Chat{})

	h.processChatMessage(context.Background(), nil, groupMessage(-200, "urgent: disk full"))

	assert.Empty(t, snd.sent)
}
