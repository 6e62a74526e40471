package postgres

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/google/uuid"

	"horizon/internal/domain/linking"
)

// OrphanRecord is one funding source that exists at the processor but has
// no corresponding linked-account row. These rows are written when
// persistence fails at the end of a linking run and are cleared by manual
// reconciliation.
type OrphanRecord struct {
	ID               string
	UserID           string
	FundingSourceURL string
	BankID           string
	AccountID        string
	Reason           string
	ResolvedAt       *time.Time
	CreatedAt        time.Time
}

// OrphanRepository implements the linking.OrphanStore interface for PostgreSQL
type OrphanRepository struct {
	db *DB
}

// NewOrphanRepository creates a new PostgreSQL orphan repository
func NewOrphanRepository(db *DB) *OrphanRepository {
	return &OrphanRepository{db: db}
}

// RecordOrphan writes one orphaned funding source for later reconciliation
func (r *OrphanRepository) RecordOrphan(ctx context.Context, params linking.OrphanParams) error {
	query := `
		INSERT INTO orphaned_funding_sources (id, user_id, funding_source_url, bank_id, account_id, reason)
		VALUES ($1, $2, $3, $4, $5, $6)
	`

	_, err := r.db.ExecContext(
		ctx, query,
		uuid.NewString(), params.UserID, params.FundingSourceURL,
		params.BankID, params.AccountID, params.Reason,
	)
	if err != nil {
		return fmt.Errorf("failed to record orphaned funding source: %w", err)
	}

	return nil
}

// ListUnresolved retrieves all orphaned funding sources awaiting reconciliation
func (r *OrphanRepository) ListUnresolved(ctx context.Context) ([]*OrphanRecord, error) {
	query := `
		SELECT id, user_id, funding_source_url, bank_id, account_id, reason, resolved_at, created_at
		FROM orphaned_funding_sources
		WHERE resolved_at IS NULL
		ORDER BY created_at ASC
	`

	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list orphaned funding sources: %w", err)
	}
	defer rows.Close()

	var records []*OrphanRecord
	for rows.Next() {
		var rec OrphanRecord
		var resolvedAt sql.NullTime
		err := rows.Scan(
			&rec.ID, &rec.UserID, &rec.FundingSourceURL,
			&rec.BankID, &rec.AccountID, &rec.Reason,
			&resolvedAt, &rec.CreatedAt,
		)
		if err != nil {
			return nil, fmt.Errorf("failed to scan orphaned funding source: %w", err)
		}
		if resolvedAt.Valid {
			rec.ResolvedAt = &resolvedAt.Time
		}
		records = append(records, &rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate orphaned funding sources: %w", err)
	}

	return records, nil
}

// Resolve marks one orphaned funding source as reconciled
func (r *OrphanRepository) Resolve(ctx context.Context, id string) error {
	query := `
		UPDATE orphaned_funding_sources
		SET resolved_at = NOW()
		WHERE id = $1 AND resolved_at IS NULL
	`

	result, err := r.db.ExecContext(ctx, query, id)
	if err != nil {
		return fmt.Errorf("failed to resolve orphaned funding source: %w", err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to read affected rows: %w", err)
	}
	if affected == 0 {
		return fmt.Errorf("no unresolved orphaned funding source with id %s", id)
	}

	return nil
}
