package repository

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// Alerts kept per chat in redis; older entries are trimmed away.
const redisHistoryLen = 200

// RedisStorage implements alert.Repository on top of a redis client.
// Each chat's history lives in a list under alerts:<chat_id>, newest
// entries pushed to the head.
type RedisStorage struct {
	client *redis.Client
}

// NewRedisStorage creates a new redis-backed alert log
func NewRedisStorage(client *redis.Client) Repository {
	return &RedisStorage{client: client}
}

func alertKey(chatID int64) string {
	return fmt.Sprintf("alerts:%d", chatID)
}

func (s *RedisStorage) SaveAlert(ctx context.Context, alert *domain.Alert) error {
	data, err := json.Marshal(alert)
	if err != nil {
		return oops.With("chat_id", alert.ChatID, "alert_id", alert.ID, "context", "failed to marshal alert").Wrap(err)
	}

	key := alertKey(alert.ChatID)
	pipe := s.client.TxPipeline()
	pipe.LPush(ctx, key, data)
	pipe.LTrim(ctx, key, 0, redisHistoryLen-1)
	_, err = pipe.Exec(ctx)
	return err
}

func (s *RedisStorage) GetAlerts(ctx context.Context, chatID int64, limit int) ([]*domain.Alert, error) {
	values, err := s.client.LRange(ctx, alertKey(chatID), 0, int64(limit)-1).Result()
	if err != nil {
		return nil, oops.With("chat_id", chatID, "context", "failed to read alert history").Wrap(err)
	}

	alerts := lo.FilterMap(values, func(value string, _ int) (*domain.Alert, bool) {
		var alert domain.Alert
		if err := json.Unmarshal([]byte(value), &alert); err != nil {
			return nil, false
		}
		return &alert, true
	})

	return alerts, nil
}
