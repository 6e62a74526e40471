package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/google/uuid"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/infrastructure/crypto"
)

// BankAccountRepository implements the bankaccount.Repository interface for
// PostgreSQL. Access tokens are encrypted before they touch the database and
// decrypted on every read.
type BankAccountRepository struct {
	db        *DB
	encryptor *crypto.Encryptor
}

// NewBankAccountRepository creates a new PostgreSQL bank account repository
func NewBankAccountRepository(db *DB, encryptor *crypto.Encryptor) *BankAccountRepository {
	return &BankAccountRepository{db: db, encryptor: encryptor}
}

// Create inserts one linked-account row. It is a plain insert: two calls
// with equivalent input create two rows.
func (r *BankAccountRepository) Create(ctx context.Context, params bankaccount.CreateParams) (*bankaccount.BankAccount, error) {
	encryptedToken, err := r.encryptor.Encrypt(params.AccessToken)
	if err != nil {
		return nil, fmt.Errorf("failed to encrypt access token: %w", err)
	}

	query := `
		INSERT INTO bank_accounts (id, user_id, bank_id, account_id, access_token, funding_source_url, shareable_id, name, mask)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, user_id, bank_id, account_id, funding_source_url, shareable_id, name, mask, created_at
	`

	var acc bankaccount.BankAccount
	err = r.db.QueryRowContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.BankID, params.AccountID,
		encryptedToken, params.FundingSourceURL, params.ShareableID, params.Name, params.Mask,
	).Scan(
		&acc.ID, &acc.UserID, &acc.BankID, &acc.AccountID,
		&acc.FundingSourceURL, &acc.ShareableID, &acc.Name, &acc.Mask, &acc.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create bank account: %w", err)
	}

	acc.AccessToken = params.AccessToken
	return &acc, nil
}

// GetByID retrieves a linked account by its ID
func (r *BankAccountRepository) GetByID(ctx context.Context, id string) (*bankaccount.BankAccount, error) {
	query := `
		SELECT id, user_id, bank_id, account_id, access_token, funding_source_url, shareable_id, name, mask, created_at
		FROM bank_accounts
		WHERE id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, id))
}

// GetByShareableID retrieves a linked account by its shareable identifier
func (r *BankAccountRepository) GetByShareableID(ctx context.Context, shareableID string) (*bankaccount.BankAccount, error) {
	query := `
		SELECT id, user_id, bank_id, account_id, access_token, funding_source_url, shareable_id, name, mask, created_at
		FROM bank_accounts
		WHERE shareable_id = $1
	`
	return r.scanOne(r.db.QueryRowContext(ctx, query, shareableID))
}

// ListByUserID retrieves all linked accounts for a user, newest first
func (r *BankAccountRepository) ListByUserID(ctx context.Context, userID string) ([]*bankaccount.BankAccount, error) {
	query := `
		SELECT id, user_id, bank_id, account_id, access_token, funding_source_url, shareable_id, name, mask, created_at
		FROM bank_accounts
		WHERE user_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list bank accounts: %w", err)
	}
	defer rows.Close()

	var accounts []*bankaccount.BankAccount
	for rows.Next() {
		acc, err := r.scanRow(rows)
		if err != nil {
			return nil, err
		}
		accounts = append(accounts, acc)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate bank accounts: %w", err)
	}

	return accounts, nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *BankAccountRepository) scanOne(row rowScanner) (*bankaccount.BankAccount, error) {
	acc, err := r.scanRow(row)
	if err == sql.ErrNoRows {
		return nil, bankaccount.ErrNotFound
	}
	return acc, err
}

func (r *BankAccountRepository) scanRow(row rowScanner) (*bankaccount.BankAccount, error) {
	var acc bankaccount.BankAccount
	var encryptedToken string

	err := row.Scan(
		&acc.ID, &acc.UserID, &acc.BankID, &acc.AccountID, &encryptedToken,
		&acc.FundingSourceURL, &acc.ShareableID, &acc.Name, &acc.Mask, &acc.CreatedAt,
	)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("failed to scan bank account: %w", err)
	}

	acc.AccessToken, err = r.encryptor.Decrypt(encryptedToken)
	if err != nil {
		return nil, fmt.Errorf("failed to decrypt access token for account %s: %w", acc.ID, err)
	}

	return &acc, nil
}
