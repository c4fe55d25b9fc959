package repository

import (
	"context"
	"testing"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileStorage_SaveAndGet(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	adder := int64(42)
	chat := &domain.Chat{
		ID:          -100500,
		AdderID:     &adder,
		Status:      domain.ChatStatusMember,
		Name:        "ops",
		Kind:        domain.ChatKindSupergroup,
		Subscribers: []int64{1, 2},
		Rules:       []domain.Rule{{Pattern: "urgent", Seq: 0}},
		NextRuleSeq: 1,
	}

	require.NoError(t, storage.SaveChat(ctx, chat))

	got, err := storage.GetChat(ctx, -100500)
	require.NoError(t, err)
	assert.Equal(t, chat, got)
}

func TestFileStorage_GetMissing(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)

	_, err = storage.GetChat(context.Background(), 1)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFileStorage_GetAllChats(t *testing.T) {
	storage, err := NewFileStorage(t.TempDir())
	require.NoError(t, err)
	ctx := context.Background()

	require.NoError(t, storage.SaveChat(ctx, &domain.Chat{ID: -1, Status: domain.ChatStatusMember}))
	require.NoError(t, storage.SaveChat(ctx, &domain.Chat{ID: -2, Status: domain.ChatStatusLeft}))

	chats, err := storage.GetAllChats(ctx)
	require.NoError(t, err)
	assert.Len(t, chats, 2)
}
