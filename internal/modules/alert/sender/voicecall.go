package sender

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	alertDomain "github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
	"github.com/samber/oops"
)

const defaultCallTimeout = 10 * time.Second

// VoiceCallSender delivers alerts as phone calls through an external call
// API. The API is a GET endpoint taking auth keys, the phone number and
// the text to read out; it answers with a JSON object whose "status"
// field is "error" on failure.
type VoiceCallSender struct {
	endpoint string
	params   map[string]string
	client   *http.Client
}

// NewVoiceCallSender creates the secondary voice channel sender. Params
// carry the backend-specific auth keys added to every request.
func NewVoiceCallSender(endpoint string, params map[string]string, timeout time.Duration) *VoiceCallSender {
	if timeout <= 0 {
		timeout = defaultCallTimeout
	}

	return &VoiceCallSender{
		endpoint: endpoint,
		params:   params,
		client:   &http.Client{Timeout: timeout},
	}
}

// Type returns the channel type
func (s *VoiceCallSender) Type() alertDomain.ChannelType {
	return alertDomain.ChannelTypeCall
}

// Send places a call to the subscriber's phone number. A timeout or an
// error status from the backend fails this one delivery only.
func (s *VoiceCallSender) Send(ctx context.Context, n Notification) error {
	if n.Subscriber.Phone == "" {
		return oops.With("subscriber_id", n.Subscriber.ID).Errorf("subscriber has no phone number")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.endpoint, nil)
	if err != nil {
		return oops.With("endpoint", s.endpoint).Wrap(err)
	}

	q := req.URL.Query()
	for key, value := range s.params {
		q.Set(key, value)
	}
	q.Set("phone", n.Subscriber.Phone)
	q.Set("text", n.Text)
	req.URL.RawQuery = q.Encode()

	resp, err := s.client.Do(req)
	if err != nil {
		return oops.With("subscriber_id", n.Subscriber.ID, "context", "call request failed").Wrap(err)
	}
	defer resp.Body.Close()

	var result map[string]any
	if err := json.NewDecoder(resp.Body).Decode(&result); err != nil {
		return oops.With("subscriber_id", n.Subscriber.ID, "http_status", resp.StatusCode, "context", "failed to decode call API response").Wrap(err)
	}

	if result["status"] == "error" {
		return oops.With("subscriber_id", n.Subscriber.ID, "response", result).Wrap(alertDomain.ErrRemoteAPI)
	}

	return nil
}
