package service

import (
	"context"
	"testing"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/repository"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type mockRepository struct {
	subscribers map[int64]*domain.Subscriber
}

func newMockRepository() *mockRepository {
	return &mockRepository{subscribers: make(map[int64]*domain.Subscriber)}
}

func (m *mockRepository) GetSubscriber(_ context.Context, id int64) (*domain.Subscriber, error) {
	sub, ok := m.subscribers[id]
	if !ok {
		return nil, repository.ErrNotFound
	}
	copied := *sub
	return &copied, nil
}

func (m *mockRepository) SaveSubscriber(_ context.Context, sub *domain.Subscriber) error {
	copied := *sub
	m.subscribers[sub.ID] = &copied
	return nil
}

func (m *mockRepository) GetAllSubscribers(_ context.Context) ([]*domain.Subscriber, error) {
	var all []*domain.Subscriber
	for _, sub := range m.subscribers {
		all = append(all, sub)
	}
	return all, nil
}

func TestRegister_CreatesOnce(t *testing.T) {
	repo := newMockRepository()
	svc := New(repo)
	ctx := context.Background()

	sub, err := svc.Register(ctx, 42, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(42), sub.ID)
	assert.Equal(t, "alice", sub.Username)

	// Registering again must not wipe stored preferences.
	repo.subscribers[42].Phone = "+79001234567"
	sub, err = svc.Register(ctx, 42, "renamed")
	require.NoError(t, err)
	assert.Equal(t, "alice", sub.Username)
	assert.Equal(t, "+79001234567", sub.Phone)
}

func TestSetPhone(t *testing.T) {
	tests := []struct {
		name    string
		phone   string
		wantErr error
	}{
		{"valid e164", "+79001234567", nil},
		{"valid short", "+15550100", nil},
		{"missing plus", "79001234567", domain.ErrInvalidPhone},
		{"letters", "+7900abc4567", domain.ErrInvalidPhone},
		{"spaces", "+7 900 123 45 67", domain.ErrInvalidPhone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			repo := newMockRepository()
			repo.subscribers[1] = &domain.Subscriber{ID: 1, Username: "bob"}
			svc := New(repo)

			sub, err := svc.SetPhone(context.Background(), 1, tt.phone)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.phone, sub.Phone)
		})
	}
}

func TestSetPhone_EmptyClears(t *testing.T) {
	repo := newMockRepository()
	repo.subscribers[1] = &domain.Subscriber{ID: 1, Phone: "+79001234567"}
	svc := New(repo)

	sub, err := svc.SetPhone(context.Background(), 1, "")
	require.NoError(t, err)
	assert.Empty(t, sub.Phone)
}

func TestSetPhone_UnknownSubscriber(t *testing.T) {
	svc := New(newMockRepository())

	_, err := svc.SetPhone(context.Background(), 404, "+79001234567")
	assert.ErrorIs(t, err, repository.ErrNotFound)
}
