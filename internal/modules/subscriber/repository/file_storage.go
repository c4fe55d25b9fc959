package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileStorage implements subscriber.Repository using the file system
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based subscriber repository
func NewFileStorage(basePath string) (Repository, error) {
	subscriberPath := filepath.Join(basePath, "subscribers")
	if err := os.MkdirAll(subscriberPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create subscribers directory").Wrap(err)
	}

	return &FileStorage{basePath: subscriberPath}, nil
}

func (s *FileStorage) GetSubscriber(_ context.Context, subscriberID int64) (*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.basePath, fmt.Sprintf("%d.json", subscriberID))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
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

func (s *FileStorage) SaveSubscriber(_ context.Context, subscriber *domain.Subscriber) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, fmt.Sprintf("%d.json", subscriber.ID))
	data, err := json.MarshalIndent(subscriber, "", "  ")
	if err != nil {
		return oops.With("subscriber_id", subscriber.ID, "context", "failed to marshal subscriber").Wrap(err)
	}

	return os.WriteFile(path, data, 0644)
}

func (s *FileStorage) GetAllSubscribers(_ context.Context) ([]*domain.Subscriber, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("base_path", s.basePath, "context", "failed to read subscribers directory").Wrap(err)
	}

	subscribers := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (*domain.Subscriber, bool) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			return nil, false
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			return nil, false
		}

		var subscriber domain.Subscriber
		if err := json.Unmarshal(data, &subscriber); err != nil {
			return nil, false
		}

		return &subscriber, true
	})

	return subscribers, nil
}
