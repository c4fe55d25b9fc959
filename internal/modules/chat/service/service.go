package service

import (
	"context"
	"errors"
	"log/slog"
	"regexp"

	"github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/domain"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/chat/repository"
	"github.com/samber/oops"
)

// Service handles chat business logic: the membership state machine and
// the subscription/rule/mute commands.
type Service struct {
	repo repository.Repository
}

// New creates a new chat service
func New(repo repository.Repository) *Service {
	return &Service{repo: repo}
}

// GetChat retrieves a chat by ID
func (s *Service) GetChat(ctx context.Context, chatID int64) (*domain.Chat, error) {
	return s.repo.GetChat(ctx, chatID)
}

// GetAllChats retrieves all chats
func (s *Service) GetAllChats(ctx context.Context) ([]*domain.Chat, error) {
	return s.repo.GetAllChats(ctx)
}

// OnMembershipChange applies a my_chat_member transport event to the chat
// record, creating it on first contact. Name and kind always follow the
// event; the adder attribution follows first-adder-wins and is cleared on
// exiting statuses. Returns the updated record.
func (s *Service) OnMembershipChange(ctx context.Context, chatID, actorID int64, status domain.ChatStatus, name string, kind domain.ChatKind) (*domain.Chat, error) {
	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		if !errors.Is(err, repository.ErrNotFound) {
			return nil, err
		}
		chat = &domain.Chat{ID: chatID, Status: domain.ChatStatusMember}
	}

	chat.Name = name
	chat.Kind = kind
	chat.ApplyMembership(actorID, status)

	if err := s.repo.SaveChat(ctx, chat); err != nil {
		return nil, err
	}

	slog.Info("Chat membership updated", "chat_id", chatID, "status", status, "kind", kind)
	return chat, nil
}

// Subscribe adds a subscriber to the chat's alert list. Adding an already
// subscribed user is a no-op.
func (s *Service) Subscribe(ctx context.Context, chatID, subscriberID int64) error {
	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	if !chat.Subscribe(subscriberID) {
		return nil
	}

	return s.repo.SaveChat(ctx, chat)
}

// AddRule validates and stores a new trigger pattern. Malformed patterns
// are rejected here with ErrInvalidPattern so matching never has to deal
// with them. Duplicate patterns are ignored.
func (s *Service) AddRule(ctx context.Context, chatID int64, pattern string) (domain.Rule, error) {
	if _, err := regexp.Compile(pattern); err != nil {
		return domain.Rule{}, oops.With("pattern", pattern, "compile_error", err.Error()).Wrap(domain.ErrInvalidPattern)
	}

	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		return domain.Rule{}, err
	}

	// The rule set has no duplicates; re-adding a pattern is idempotent.
	for _, existing := range chat.Rules {
		if existing.Pattern == pattern {
			return existing, nil
		}
	}

	rule := chat.AddRule(pattern)
	if err := s.repo.SaveChat(ctx, chat); err != nil {
		return domain.Rule{}, err
	}

	return rule, nil
}

// ClearRules removes all trigger patterns from the chat.
func (s *Service) ClearRules(ctx context.Context, chatID int64) error {
	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	chat.Rules = nil
	return s.repo.SaveChat(ctx, chat)
}

// SetMuted toggles alert matching for the chat.
func (s *Service) SetMuted(ctx context.Context, chatID int64, muted bool) error {
	chat, err := s.repo.GetChat(ctx, chatID)
	if err != nil {
		return err
	}

	chat.Muted = muted
	return s.repo.SaveChat(ctx, chat)
}
