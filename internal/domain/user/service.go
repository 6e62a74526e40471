package user

import (
	"context"
	"fmt"
	"log"

	"github.com/google/uuid"

	"horizon/internal/domain/linking"
	"horizon/internal/infrastructure/identity"
	"horizon/internal/infrastructure/processor"
)

// Service registers and resolves users across the identity provider, the
// payments processor, and the local store.
type Service struct {
	identity  identity.ClientInterface
	processor processor.ClientInterface
	repo      Repository
}

// NewService creates a new user service
func NewService(identityClient identity.ClientInterface, processorClient processor.ClientInterface, repo Repository) *Service {
	return &Service{
		identity:  identityClient,
		processor: processorClient,
		repo:      repo,
	}
}

// SignUp registers the account with the identity provider, creates the
// processor customer, persists the profile, and opens a session.
func (s *Service) SignUp(ctx context.Context, params SignUpParams) (*User, *identity.Session, error) {
	if err := params.Validate(); err != nil {
		return nil, nil, err
	}

	id := uuid.NewString()
	name := params.FirstName + " " + params.LastName

	account, err := s.identity.CreateAccount(ctx, id, params.Email, params.Password, name)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create identity account: %w", err)
	}

	customerURL, err := s.processor.CreateCustomer(ctx, processor.Customer{
		FirstName:   params.FirstName,
		LastName:    params.LastName,
		Email:       params.Email,
		Type:        "personal",
		Address1:    params.Address1,
		City:        params.City,
		State:       params.State,
		PostalCode:  params.PostalCode,
		DateOfBirth: params.DateOfBirth,
		SSN:         params.SSN,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create processor customer: %w", err)
	}

	customerID, err := linking.ExtractCustomerReference(customerURL)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to parse processor customer url: %w", err)
	}

	u, err := s.repo.Create(ctx, CreateParams{
		ID:                   id,
		IdentityID:           account.ID,
		Email:                params.Email,
		FirstName:            params.FirstName,
		LastName:             params.LastName,
		ProcessorCustomerURL: customerURL,
		ProcessorCustomerID:  customerID,
	})
	if err != nil {
		return nil, nil, fmt.Errorf("failed to persist user: %w", err)
	}

	session, err := s.identity.CreateEmailPasswordSession(ctx, params.Email, params.Password)
	if err != nil {
		// The account exists; the user can still sign in manually.
		log.Printf("User %s: signup session creation failed: %v", u.ID, err)
		return u, nil, nil
	}

	return u, session, nil
}

// SignIn opens an email/password session at the identity provider.
func (s *Service) SignIn(ctx context.Context, email, password string) (*identity.Session, error) {
	session, err := s.identity.CreateEmailPasswordSession(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("failed to create session: %w", err)
	}
	return session, nil
}

// SignOut invalidates the session at the identity provider.
func (s *Service) SignOut(ctx context.Context, sessionSecret string) error {
	return s.identity.DeleteSession(ctx, sessionSecret)
}

// CurrentUser resolves the profile owning a session secret. Returns
// identity.ErrUnauthorized when the session is invalid or expired.
func (s *Service) CurrentUser(ctx context.Context, sessionSecret string) (*User, error) {
	account, err := s.identity.GetAccount(ctx, sessionSecret)
	if err != nil {
		return nil, err
	}
	return s.repo.GetByIdentityID(ctx, account.ID)
}
