package matcher

import (
	"testing"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rules(patterns ...string) []domain.Rule {
	out := make([]domain.Rule, len(patterns))
	for i, p := range patterns {
		out[i] = domain.Rule{Pattern: p, Seq: int64(i)}
	}
	return out
}

func TestMatch_EmptyRules(t *testing.T) {
	_, ok := Match(nil, "anything at all")
	assert.False(t, ok)

	_, ok = Match([]domain.Rule{}, "anything at all")
	assert.False(t, ok)
}

func TestMatch_FirstMatchWins(t *testing.T) {
	tests := []struct {
		name    string
		rules   []domain.Rule
		text    string
		want    string
		wantHit bool
	}{
		{
			name:    "substring search semantics",
			rules:   rules("urgent"),
			text:    "this is urgent, please look",
			want:    "urgent",
			wantHit: true,
		},
		{
			name:    "anchored pattern skipped mid-text",
			rules:   rules("^alert:"),
			text:    "not an alert: really",
			wantHit: false,
		},
		{
			name:    "second rule fires when first does not match",
			rules:   rules("urgent", "^alert:"),
			text:    "alert: server down",
			want:    "^alert:",
			wantHit: true,
		},
		{
			name:    "earliest rule wins when both match",
			rules:   rules("server", "down"),
			text:    "server down",
			want:    "server",
			wantHit: true,
		},
		{
			name:    "no rule matches",
			rules:   rules("urgent", "oncall"),
			text:    "quiet day",
			wantHit: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			rule, ok := Match(tt.rules, tt.text)
			require.Equal(t, tt.wantHit, ok)
			if tt.wantHit {
				assert.Equal(t, tt.want, rule.Pattern)
			}
		})
	}
}

func TestMatch_SeqOrderNotSliceOrder(t *testing.T) {
	// Rules arrive out of insertion order; Seq decides who wins.
	unsorted := []domain.Rule{
		{Pattern: "down", Seq: 5},
		{Pattern: "server", Seq: 1},
	}

	rule, ok := Match(unsorted, "server down")
	require.True(t, ok)
	assert.Equal(t, "server", rule.Pattern)
}

func TestMatch_CachedPatternStaysCorrect(t *testing.T) {
	// The same pattern is served from the compiled cache on repeat calls
	// and must keep both its hits and its misses.
	cached := rules("^alert:")

	rule, ok := Match(cached, "alert: first")
	require.True(t, ok)
	assert.Equal(t, "^alert:", rule.Pattern)

	rule, ok = Match(cached, "alert: second")
	require.True(t, ok)
	assert.Equal(t, "^alert:", rule.Pattern)

	_, ok = Match(cached, "no alert: here")
	assert.False(t, ok)
}

func TestMatch_MalformedStoredPatternIsSkipped(t *testing.T) {
	broken := []domain.Rule{
		{Pattern: "([unclosed", Seq: 0},
		{Pattern: "down", Seq: 1},
	}

	rule, ok := Match(broken, "server down")
	require.True(t, ok)
	assert.Equal(t, "down", rule.Pattern)
}
