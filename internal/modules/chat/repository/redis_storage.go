package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
	"github.com/samber/oops"
)

// RedisStorage implements chat.Repository on top of a redis client.
// Records are stored as JSON values under chat:<id>.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage creates a new redis-backed chat repository
func NewRedisStorage(client *redis.Client) Repository {
	return &RedisStorage{client: client}
}

func chatKey(chatID int64) string {
	return fmt.Sprintf("chat:%d", chatID)
}

func (s *RedisStorage) GetChat(ctx context.Context, chatID int64) (*domain.Chat, error) {
	data, err := s.client.Get(ctx, chatKey(chatID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, oops.With("chat_id", chatID, "context", "failed to read chat").Wrap(err)
	}

	var chat domain.Chat
	if err := json.Unmarshal(data, &chat); err != nil {
		return nil, oops.With("chat_id", chatID, "context", "failed to unmarshal chat").Wrap(err)
	}

	return &chat, nil
}

func (s *RedisStorage) SaveChat(ctx context.Context, chat *domain.Chat) error {
	data, err := json.Marshal(chat)
	if err != nil {
		return oops.With("chat_id", chat.ID, "context", "failed to marshal chat").Wrap(err)
	}

	return s.client.Set(ctx, chatKey(chat.ID), data, 0).Err()
}

func (s *RedisStorage) GetAllChats(ctx context.Context) ([]*domain.Chat, error) {
	var chats []*domain.Chat
	iter := s.client.Scan(ctx, 0, "chat:*", 0).Iterator()

	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}

		var chat domain.Chat
		if err := json.Unmarshal(data, &chat); err != nil {
			continue
		}

		chats = append(chats, &chat)
	}

	return chats, iter.Err()
}
