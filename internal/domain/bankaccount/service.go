package bankaccount

import (
	"context"
	"errors"
)

// Service contains the business logic for linked-account operations
type Service struct {
	repo Repository
}

// NewService creates a new bank account service
func NewService(repo Repository) *Service {
	return &Service{repo: repo}
}

// CreateLinkedAccount persists one linked-account record after validation.
// It is invoked exactly once per successful linking run.
func (s *Service) CreateLinkedAccount(ctx context.Context, params CreateParams) (*BankAccount, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.Create(ctx, params)
}

// GetAccount retrieves a linked account by ID and verifies user ownership
func (s *Service) GetAccount(ctx context.Context, id, userID string) (*BankAccount, error) {
	account, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if account.UserID != userID {
		return nil, ErrForbidden
	}

	return account, nil
}

// GetByShareableID resolves a linked account from its shareable identifier.
// Ownership is deliberately not checked: shareable ids exist so other users
// can address an account as a transfer destination.
func (s *Service) GetByShareableID(ctx context.Context, shareableID string) (*BankAccount, error) {
	return s.repo.GetByShareableID(ctx, shareableID)
}

// ListAccountsByUserID retrieves all linked accounts for a specific user
func (s *Service) ListAccountsByUserID(ctx context.Context, userID string) ([]*BankAccount, error) {
	if userID == "" {
		return nil, errors.New("valid user ID is required")
	}
	return s.repo.ListByUserID(ctx, userID)
}
