package sender

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	alertDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
	subscriberDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func notification(phone string) Notification {
	return Notification{
		Subscriber: &subscriberDomain.Subscriber{ID: 1, Phone: phone},
		Text:       "Alert from chat ops: server down",
	}
}

func TestVoiceCallSender_Send(t *testing.T) {
	var gotQuery map[string]string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotQuery = map[string]string{
			"public_key":  r.URL.Query().Get("public_key"),
			"campaign_id": r.URL.Query().Get("campaign_id"),
			"phone":       r.URL.Query().Get("phone"),
			"text":        r.URL.Query().Get("text"),
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{"status":"ok","call_id":123}`))
	}))
	defer server.Close()

	s := NewVoiceCallSender(server.URL, map[string]string{
		"public_key":  "pk",
		"campaign_id": "c1",
	}, time.Second)

	err := s.Send(context.Background(), notification("+79001234567"))
	require.NoError(t, err)

	assert.Equal(t, "pk", gotQuery["public_key"])
	assert.Equal(t, "c1", gotQuery["campaign_id"])
	assert.Equal(t, "+79001234567", gotQuery["phone"])
	assert.Equal(t, "Alert from chat ops: server down", gotQuery["text"])
}

func TestVoiceCallSender_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`{"status":"error","data":"no money"}`))
	}))
	defer server.Close()

	s := NewVoiceCallSender(server.URL, nil, time.Second)

	err := s.Send(context.Background(), notification("+79001234567"))
	assert.ErrorIs(t, err, alertDomain.ErrRemoteAPI)
}

func TestVoiceCallSender_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		time.Sleep(200 * time.Millisecond)
		w.Write([]byte(`{"status":"ok"}`))
	}))
	defer server.Close()

	s := NewVoiceCallSender(server.URL, nil, 20*time.Millisecond)

	err := s.Send(context.Background(), notification("+79001234567"))
	assert.Error(t, err)
}

func TestVoiceCallSender_NoPhone(t *testing.T) {
	s := NewVoiceCallSender("http://unused", nil, time.Second)

	err := s.Send(context.Background(), notification(""))
	assert.Error(t, err)
}

func TestVoiceCallSender_BadResponseBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.Write([]byte(`not json`))
	}))
	defer server.Close()

	s := NewVoiceCallSender(server.URL, nil, time.Second)

	err := s.Send(context.Background(), notification("+79001234567"))
	assert.Error(t, err)
}

func TestVoiceCallSender_Type(t *testing.T) {
	assert.Equal(t, alertDomain.ChannelTypeCall, NewVoiceCallSender("", nil, 0).Type())
	assert.Equal(t, alertDomain.ChannelTypeMessage, NewTelegramSender().Type())
}
