package transfer

import (
	"context"
	"errors"
	"fmt"
	"log"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/infrastructure/processor"
)

const defaultCurrency = "USD"

// Service moves money between funding sources via the payments processor.
type Service struct {
	processor processor.ClientInterface
	accounts  *bankaccount.Service
	repo      Repository

	// notify is called after a transfer is persisted. Best-effort.
	notify func(ctx context.Context, t *Transfer)
}

// NewService creates a new transfer service
func NewService(processorClient processor.ClientInterface, accounts *bankaccount.Service, repo Repository) *Service {
	return &Service{
		processor: processorClient,
		accounts:  accounts,
		repo:      repo,
	}
}

// SetNotifier installs the post-transfer notification hook.
func (s *Service) SetNotifier(fn func(ctx context.Context, t *Transfer)) {
	s.notify = fn
}

// SendParams describes one requested transfer. The destination is
// addressed by the receiver's shareable identifier, never by raw account
// or funding-source references.
type SendParams struct {
	SenderID            string
	SenderAccountID     string
	ReceiverShareableID string
	Amount              decimal.Decimal
	Note                string
}

// Send resolves both funding sources, initiates the transfer with the
// processor, and persists the record.
func (s *Service) Send(ctx context.Context, params SendParams) (*Transfer, error) {
	if !params.Amount.IsPositive() {
		return nil, ErrInvalidAmount
	}

	source, err := s.accounts.GetAccount(ctx, params.SenderAccountID, params.SenderID)
	if err != nil {
		if errors.Is(err, bankaccount.ErrNotFound) {
			return nil, ErrNoSourceAccount
		}
		return nil, err
	}

	destination, err := s.accounts.GetByShareableID(ctx, params.ReceiverShareableID)
	if err != nil {
		if errors.Is(err, bankaccount.ErrNotFound) {
			return nil, ErrUnknownDestination
		}
		return nil, err
	}

	if source.FundingSourceURL == destination.FundingSourceURL {
		return nil, ErrSelfTransfer
	}

	transferURL, err := s.processor.CreateTransfer(ctx, source.FundingSourceURL, destination.FundingSourceURL, processor.TransferAmount{
		Currency: defaultCurrency,
		Value:    params.Amount.StringFixed(2),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to create transfer: %w", err)
	}

	record, err := s.repo.Create(ctx, CreateParams{
		ID:             uuid.NewString(),
		SenderID:       params.SenderID,
		ReceiverID:     destination.UserID,
		SourceURL:      source.FundingSourceURL,
		DestinationURL: destination.FundingSourceURL,
		TransferURL:    transferURL,
		Amount:         params.Amount,
		Currency:       defaultCurrency,
		Note:           params.Note,
	})
	if err != nil {
		// The transfer is already in flight at the processor; surface
		// the URL so the failure can be reconciled.
		log.Printf("WARNING transfer %s initiated but not persisted for user %s: %v", transferURL, params.SenderID, err)
		return nil, fmt.Errorf("failed to persist transfer %s: %w", transferURL, err)
	}

	if s.notify != nil {
		s.notify(ctx, record)
	}

	return record, nil
}

// History lists transfers where the user is sender or receiver.
func (s *Service) History(ctx context.Context, userID string) ([]*Transfer, error) {
	return s.repo.ListByUserID(ctx, userID)
}
