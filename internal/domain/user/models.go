package user

import (
	"errors"
	"time"
)

var (
	ErrNotFound      = errors.New("user not found")
	ErrInvalidParams = errors.New("invalid signup parameters")
)

// User is the local profile row backing an identity-provider account.
// ProcessorCustomerID is the user's customer reference at the payments
// processor, required before any account can be linked.
type User struct {
	ID                   string    `json:"id"`
	IdentityID           string    `json:"-"` // provider account id, internal reference
	Email                string    `json:"email"`
	FirstName            string    `json:"firstName"`
	LastName             string    `json:"lastName"`
	ProcessorCustomerURL string    `json:"-"`
	ProcessorCustomerID  string    `json:"-"`
	CreatedAt            time.Time `json:"createdAt"`
}

// SignUpParams holds everything needed to register a user with the
// identity provider and the payments processor.
type SignUpParams struct {
	Email       string
	Password    string
	FirstName   string
	LastName    string
	Address1    string
	City        string
	State       string
	PostalCode  string
	DateOfBirth string
	SSN         string
}

// Validate checks the fields both upstream providers require.
func (p SignUpParams) Validate() error {
	switch {
	case p.Email == "", p.Password == "", p.FirstName == "", p.LastName == "":
		return ErrInvalidParams
	case p.Address1 == "", p.City == "", p.State == "", p.PostalCode == "":
		return ErrInvalidParams
	case p.DateOfBirth == "", p.SSN == "":
		return ErrInvalidParams
	}
	return nil
}

// CreateParams is the persisted subset of a completed signup.
type CreateParams struct {
	ID                   string
	IdentityID           string
	Email                string
	FirstName            string
	LastName             string
	ProcessorCustomerURL string
	ProcessorCustomerID  string
}
