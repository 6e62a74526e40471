package notification

import (
	"context"
	"log"
)

// Service contains the business logic for notification operations
type Service struct {
	repo      Repository
	messenger Messenger
}

// NewService creates a new notification service
func NewService(repo Repository, messenger Messenger) *Service {
	return &Service{repo: repo, messenger: messenger}
}

// RegisterDevice registers a device token for the authenticated user.
// If the token already belongs to another user, it is reassigned.
func (s *Service) RegisterDevice(ctx context.Context, params CreateDeviceTokenParams) (*DeviceToken, error) {
	if err := params.Validate(); err != nil {
		return nil, err
	}
	return s.repo.UpsertDeviceToken(ctx, params)
}

// NotifyUser sends a push notification to every active device of one user.
// Send failures are logged, not returned: pushes are best-effort and must
// never fail the operation that triggered them.
func (s *Service) NotifyUser(ctx context.Context, userID, title, body string, data map[string]string) {
	if s.messenger == nil || title == "" {
		return
	}

	tokens, err := s.activeTokens(ctx, userID)
	if err != nil || len(tokens) == 0 {
		return
	}

	if err := s.messenger.SendMulticast(ctx, tokens, title, body, data); err != nil {
		log.Printf("Error sending notification to user %s: %v", userID, err)
	}
}

// InvalidateAccounts tells the user's devices that their linked-account
// view is stale. Data-only, so the client reloads silently with no OS
// notification.
func (s *Service) InvalidateAccounts(ctx context.Context, userID string) {
	if s.messenger == nil {
		return
	}

	tokens, err := s.activeTokens(ctx, userID)
	if err != nil || len(tokens) == 0 {
		return
	}

	data := map[string]string{"action": "reload", "resource": "accounts"}
	if err := s.messenger.SendDataOnly(ctx, tokens, data); err != nil {
		log.Printf("Error sending accounts invalidation to user %s: %v", userID, err)
	}
}

func (s *Service) activeTokens(ctx context.Context, userID string) ([]string, error) {
	deviceTokens, err := s.repo.GetActiveTokensByUserID(ctx, userID)
	if err != nil {
		log.Printf("Error loading device tokens for user %s: %v", userID, err)
		return nil, err
	}

	tokens := make([]string, len(deviceTokens))
	for i, t := range deviceTokens {
		tokens[i] = t.Token
	}
	return tokens, nil
}
