package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
	"github.com/samber/lo"
	"github.com/samber/oops"
)

// FileStorage implements chat.Repository using the file system.
// Writes are whole-record and last-write-wins; callers needing stricter
// consistency must serialize access per chat themselves.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based chat repository
func NewFileStorage(basePath string) (Repository, error) {
	chatPath := filepath.Join(basePath, "chats")
	if err := os.MkdirAll(chatPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create chats directory").Wrap(err)
	}

	return &FileStorage{basePath: chatPath}, nil
}

func (s *FileStorage) GetChat(_ context.Context, chatID int64) (*domain.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	path := filepath.Join(s.basePath, fmt.Sprintf("%d.json", chatID))
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
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

func (s *FileStorage) SaveChat(_ context.Context, chat *domain.Chat) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	path := filepath.Join(s.basePath, fmt.Sprintf("%d.json", chat.ID))
	data, err := json.MarshalIndent(chat, "", "  ")
	if err != nil {
		return oops.With("chat_id", chat.ID, "context", "failed to marshal chat").Wrap(err)
	}

	return os.WriteFile(path, data, 0644)
}

func (s *FileStorage) GetAllChats(_ context.Context) ([]*domain.Chat, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	entries, err := os.ReadDir(s.basePath)
	if err != nil {
		return nil, oops.With("base_path", s.basePath, "context", "failed to read chats directory").Wrap(err)
	}

	chats := lo.FilterMap(entries, func(entry os.DirEntry, _ int) (*domain.Chat, bool) {
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			return nil, false
		}

		data, err := os.ReadFile(filepath.Join(s.basePath, entry.Name()))
		if err != nil {
			return nil, false
		}

		var chat domain.Chat
		if err := json.Unmarshal(data, &chat); err != nil {
			return nil, false
		}

		return &chat, true
	})

	return chats, nil
}
