package bankaccount

import "context"

// Repository defines the interface for linked-account persistence.
// Create is a single-row insert and is not idempotent: calling it twice
// with equivalent input creates two rows. Deduplication is the
// orchestrator's responsibility.
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*BankAccount, error)
	GetByID(ctx context.Context, id string) (*BankAccount, error)
	GetByShareableID(ctx context.Context, shareableID string) (*BankAccount, error)
	ListByUserID(ctx context.Context, userID string) ([]*BankAccount, error)
}
