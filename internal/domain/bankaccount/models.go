package bankaccount

import (
	"errors"
	"time"
)

var (
	ErrNotFound  = errors.New("bank account not found")
	ErrForbidden = errors.New("bank account does not belong to user")
)

// BankAccount is one successfully linked external bank account.
// Rows are append-only: created once at the end of a successful linking
// run and never mutated afterwards.
type BankAccount struct {
	ID               string    `json:"id"`
	UserID           string    `json:"userId"`
	BankID           string    `json:"bankId"` // aggregator item identifier
	AccountID        string    `json:"accountId"`
	AccessToken      string    `json:"-"` // never serialized to the UI layer
	FundingSourceURL string    `json:"fundingSourceUrl"`
	ShareableID      string    `json:"shareableId"`
	Name             string    `json:"name"`
	Mask             string    `json:"mask"`
	CreatedAt        time.Time `json:"createdAt"`
}

// CreateParams holds the fields accumulated by a linking run.
type CreateParams struct {
	UserID           string
	BankID           string
	AccountID        string
	AccessToken      string
	FundingSourceURL string
	ShareableID      string
	Name             string
	Mask             string
}

// Validate checks that every required field of a link record is present.
func (p CreateParams) Validate() error {
	switch {
	case p.UserID == "":
		return errors.New("user id is required")
	case p.BankID == "":
		return errors.New("bank id is required")
	case p.AccountID == "":
		return errors.New("account id is required")
	case p.AccessToken == "":
		return errors.New("access token is required")
	case p.FundingSourceURL == "":
		return errors.New("funding source url is required")
	case p.ShareableID == "":
		return errors.New("shareable id is required")
	}
	return nil
}
