package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"horizon/internal/domain/user"
)

// UserRepository implements the user.Repository interface for PostgreSQL
type UserRepository struct {
	db *DB
}

// NewUserRepository creates a new PostgreSQL user repository
func NewUserRepository(db *DB) *UserRepository {
	return &UserRepository{db: db}
}

// Create creates a new user
func (r *UserRepository) Create(ctx context.Context, params user.CreateParams) (*user.User, error) {
	query := `
		INSERT INTO users (id, identity_id, email, first_name, last_name, processor_customer_url, processor_customer_id)
		VALUES ($1, $2, $3, $4, $5, $6, $7)
		RETURNING id, identity_id, email, first_name, last_name, processor_customer_url, processor_customer_id, created_at
	`

	var u user.User
	err := r.db.QueryRowContext(
		ctx, query,
		params.ID, params.IdentityID, params.Email, params.FirstName, params.LastName,
		params.ProcessorCustomerURL, params.ProcessorCustomerID,
	).Scan(
		&u.ID, &u.IdentityID, &u.Email, &u.FirstName, &u.LastName,
		&u.ProcessorCustomerURL, &u.ProcessorCustomerID, &u.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	return &u, nil
}

// GetByID retrieves a user by their ID
func (r *UserRepository) GetByID(ctx context.Context, id string) (*user.User, error) {
	return r.getBy(ctx, "id", id)
}

// GetByIdentityID retrieves a user by their identity-provider account ID
func (r *UserRepository) GetByIdentityID(ctx context.Context, identityID string) (*user.User, error) {
	return r.getBy(ctx, "identity_id", identityID)
}

// GetByEmail retrieves a user by their email address
func (r *UserRepository) GetByEmail(ctx context.Context, email string) (*user.User, error) {
	return r.getBy(ctx, "email", email)
}

func (r *UserRepository) getBy(ctx context.Context, column, value string) (*user.User, error) {
	query := fmt.Sprintf(`
		SELECT id, identity_id, email, first_name, last_name, processor_customer_url, processor_customer_id, created_at
		FROM users
		WHERE %s = $1
	`, column)

	var u user.User
	err := r.db.QueryRowContext(ctx, query, value).Scan(
		&u.ID, &u.IdentityID, &u.Email, &u.FirstName, &u.LastName,
		&u.ProcessorCustomerURL, &u.ProcessorCustomerID, &u.CreatedAt,
	)
	if err == sql.ErrNoRows {
		return nil, user.ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to query user by %s: %w", column, err)
	}

	return &u, nil
}
