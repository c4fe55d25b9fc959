package service

import (
	"context"
	"errors"

	"github.com/go-playground/validator/v10"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/domain"
	"github.com/reshetovitsme/chat-alert-bot/internal/modules/subscriber/repository"
	"github.com/samber/oops"
)

// Service handles subscriber business logic
type Service struct {
	repo     repository.Repository
	validate *validator.Validate
}

// New creates a new subscriber service
func New(repo repository.Repository) *Service {
	return &Service{
		repo:     repo,
		validate: validator.New(),
	}
}

// GetSubscriber retrieves a subscriber by ID
func (s *Service) GetSubscriber(ctx context.Context, subscriberID int64) (*domain.Subscriber, error) {
	return s.repo.GetSubscriber(ctx, subscriberID)
}

// GetAllSubscribers retrieves all subscribers
func (s *Service) GetAllSubscribers(ctx context.Context) ([]*domain.Subscriber, error) {
	return s.repo.GetAllSubscribers(ctx)
}

// Register creates the subscriber record on first contact. Existing
// records are returned as-is: the identity is immutable and registration
// never overwrites contact preferences.
func (s *Service) Register(ctx context.Context, subscriberID int64, username string) (*domain.Subscriber, error) {
	subscriber, err := s.repo.GetSubscriber(ctx, subscriberID)
	if err == nil {
		return subscriber, nil
	}
	if !errors.Is(err, repository.ErrNotFound) {
		return nil, err
	}

	subscriber = &domain.Subscriber{ID: subscriberID, Username: username}
	if err := s.repo.SaveSubscriber(ctx, subscriber); err != nil {
		return nil, err
	}

	return subscriber, nil
}

// SetPhone sets or clears the subscriber's voice-call number. An empty
// phone clears the number and disables the voice channel. Non-empty
// numbers must be E.164.
func (s *Service) SetPhone(ctx context.Context, subscriberID int64, phone string) (*domain.Subscriber, error) {
	if phone != "" {
		if err := s.validate.Var(phone, "e164"); err != nil {
			return nil, oops.With("phone", phone).Wrap(domain.ErrInvalidPhone)
		}
	}

	subscriber, err := s.repo.GetSubscriber(ctx, subscriberID)
	if err != nil {
		return nil, err
	}

	subscriber.Phone = phone
	if err := s.repo.SaveSubscriber(ctx, subscriber); err != nil {
		return nil, err
	}

	return subscriber, nil
}
