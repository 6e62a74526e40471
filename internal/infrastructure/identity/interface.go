package identity

import (
	"context"
)

// ClientInterface defines the methods required from the identity provider client
type ClientInterface interface {
	CreateAccount(ctx context.Context, id, email, password, name string) (*Account, error)
	CreateEmailPasswordSession(ctx context.Context, email, password string) (*Session, error)
	GetAccount(ctx context.Context, sessionSecret string) (*Account, error)
	DeleteSession(ctx context.Context, sessionSecret string) error
}
