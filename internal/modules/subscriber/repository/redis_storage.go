package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
	"github.com/samber/oops"
)

// RedisStorage implements subscriber.Repository on top of a redis client
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage creates a new redis-backed subscriber repository
func NewRedisStorage(client *redis.Client) Repository {
	return &RedisStorage{client: client}
}

func subscriberKey(subscriberID int64) string {
	return fmt.Sprintf("subscriber:%d", subscriberID)
}

func (s *RedisStorage) GetSubscriber(ctx context.Context, subscriberID int64) (*domain.Subscriber, error) {
	data, err := s.client.Get(ctx, subscriberKey(subscriberID)).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrNotFound
		}
		return nil, oops.With("subscriber_id", subscriberID, "context", "failed to read subscriber").Wrap(err)
	}

	var subscriber domain.Subscriber
	if err := json.Unmarshal(data, &subscriber); err != nil {
		return nil, oops.With("subscriber_id", subscriberID, "context", "failed to unmarshal subscriber").Wrap(err)
	}

	return &subscriber, nil
}

func (s *RedisStorage) SaveSubscriber(ctx context.Context, subscriber *domain.Subscriber) error {
	data, err := json.Marshal(subscriber)
	if err != nil {
		return oops.With("subscriber_id", subscriber.ID, "context", "failed to marshal subscriber").Wrap(err)
	}

	return s.client.Set(ctx, subscriberKey(subscriber.ID), data, 0).Err()
}

func (s *RedisStorage) GetAllSubscribers(ctx context.Context) ([]*domain.Subscriber, error) {
	var subscribers []*domain.Subscriber
	iter := s.client.Scan(ctx, 0, "subscriber:*", 0).Iterator()

	for iter.Next(ctx) {
		data, err := s.client.Get(ctx, iter.Val()).Bytes()
		if err != nil {
			continue
		}

		var subscriber domain.Subscriber
		if err := json.Unmarshal(data, &subscriber); err != nil {
			continue
		}

		subscribers = append(subscribers, &subscriber)
	}

	return subscribers, iter.Err()
}
