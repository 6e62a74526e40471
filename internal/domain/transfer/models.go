package transfer

import (
	"context"
	"errors"
	"time"

	"github.com/shopspring/decimal"
)

var (
	ErrInvalidAmount      = errors.New("transfer amount must be positive")
	ErrUnknownDestination = errors.New("no linked account for shareable id")
	ErrNoSourceAccount    = errors.New("sender has no linked account")
	ErrSelfTransfer       = errors.New("source and destination are the same funding source")
)

// Transfer is one completed ACH transfer between two funding sources.
type Transfer struct {
	ID             string          `json:"id"`
	SenderID       string          `json:"senderId"`
	ReceiverID     string          `json:"receiverId"`
	SourceURL      string          `json:"-"`
	DestinationURL string          `json:"-"`
	TransferURL    string          `json:"-"`
	Amount         decimal.Decimal `json:"amount"`
	Currency       string          `json:"currency"`
	Note           string          `json:"note"`
	CreatedAt      time.Time       `json:"createdAt"`
}

// CreateParams holds a persisted transfer row.
type CreateParams struct {
	ID             string
	SenderID       string
	ReceiverID     string
	SourceURL      string
	DestinationURL string
	TransferURL    string
	Amount         decimal.Decimal
	Currency       string
	Note           string
}

// Repository defines the interface for transfer persistence
type Repository interface {
	Create(ctx context.Context, params CreateParams) (*Transfer, error)
	ListByUserID(ctx context.Context, userID string) ([]*Transfer, error)
}
