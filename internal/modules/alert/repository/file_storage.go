package repository

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/alert/domain"
	"github.com/samber/oops"
)

// FileStorage implements alert.Repository using the file system. Alerts
// are stored per chat, one JSON file per alert named by the fired-at
// timestamp so directory order is chronological.
type FileStorage struct {
	basePath string
	mu       sync.RWMutex
}

// NewFileStorage creates a new file-based alert log
func NewFileStorage(basePath string) (Repository, error) {
	alertPath := filepath.Join(basePath, "alerts")
	if err := os.MkdirAll(alertPath, 0755); err != nil {
		return nil, oops.With("base_path", basePath, "context", "failed to create alerts directory").Wrap(err)
	}

	return &FileStorage{basePath: alertPath}, nil
}

func (s *FileStorage) SaveAlert(_ context.Context, alert *domain.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	alertDir := filepath.Join(s.basePath, fmt.Sprintf("%d", alert.ChatID))
	if err := os.MkdirAll(alertDir, 0755); err != nil {
		return oops.With("alert_dir", alertDir, "context", "failed to create alert directory").Wrap(err)
	}

	path := filepath.Join(alertDir, fmt.Sprintf("%d.json", alert.FiredAt.UnixNano()))
	data, err := json.MarshalIndent(alert, "", "  ")
	if err != nil {
		return oops.With("chat_id", alert.ChatID, "alert_id", alert.ID, "context", "failed to marshal alert").Wrap(err)
	}

	return os.WriteFile(path, data, 0644)
}

func (s *FileStorage) GetAlerts(_ context.Context, chatID int64, limit int) ([]*domain.Alert, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	alertDir := filepath.Join(s.basePath, fmt.Sprintf("%d", chatID))
	entries, err := os.ReadDir(alertDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []*domain.Alert{}, nil
		}
		return nil, oops.With("chat_id", chatID, "alert_dir", alertDir, "context", "failed to read alerts directory").Wrap(err)
	}

	var alerts []*domain.Alert
	count := 0
	for i := len(entries) - 1; i >= 0 && count < limit; i-- {
		entry := entries[i]
		if entry.IsDir() || filepath.Ext(entry.Name()) != ".json" {
			continue
		}

		data, err := os.ReadFile(filepath.Join(alertDir, entry.Name()))
		if err != nil {
			continue
		}

		var alert domain.Alert
		if err := json.Unmarshal(data, &alert); err != nil {
			continue
		}

		alerts = append(alerts, &alert)
		count++
	}

	return alerts, nil
}
