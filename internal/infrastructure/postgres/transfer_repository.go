package postgres

import (
	"context"
	"fmt"

	"horizon/internal/domain/transfer"
)

// TransferRepository implements the transfer.Repository interface for PostgreSQL
type TransferRepository struct {
	db *DB
}

// NewTransferRepository creates a new PostgreSQL transfer repository
func NewTransferRepository(db *DB) *TransferRepository {
	return &TransferRepository{db: db}
}

// Create records one initiated transfer
func (r *TransferRepository) Create(ctx context.Context, params transfer.CreateParams) (*transfer.Transfer, error) {
	query := `
		INSERT INTO transfers (id, sender_id, receiver_id, source_url, destination_url, transfer_url, amount, currency, note)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, sender_id, receiver_id, source_url, destination_url, transfer_url, amount, currency, note, created_at
	`

	var t transfer.Transfer
	err := r.db.QueryRowContext(
		ctx, query,
		params.ID, params.SenderID, params.ReceiverID, params.SourceURL, params.DestinationURL,
		params.TransferURL, params.Amount, params.Currency, params.Note,
	).Scan(
		&t.ID, &t.SenderID, &t.ReceiverID, &t.SourceURL, &t.DestinationURL,
		&t.TransferURL, &t.Amount, &t.Currency, &t.Note, &t.CreatedAt,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	return &t, nil
}

// ListByUserID retrieves transfers where the user is sender or receiver, newest first
func (r *TransferRepository) ListByUserID(ctx context.Context, userID string) ([]*transfer.Transfer, error) {
	query := `
		SELECT id, sender_id, receiver_id, source_url, destination_url, transfer_url, amount, currency, note, created_at
		FROM transfers
		WHERE sender_id = $1 OR receiver_id = $1
		ORDER BY created_at DESC
	`

	rows, err := r.db.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to list transfers: %w", err)
	}
	defer rows.Close()

	var transfers []*transfer.Transfer
	for rows.Next() {
		var t transfer.Transfer
		err := rows.Scan(
			&t.ID, &t.SenderID, &t.ReceiverID, &t.SourceURL, &t.DestinationURL,
			&t.TransferURL, &t.Amount, &t.Currency, &t.Note, &t.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan transfer: %w", err)
		}
		transfers = append(transfers, &t)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate transfers: %w", err)
	}

	return transfers, nil
}
