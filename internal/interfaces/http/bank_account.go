package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/shared/middleware"
)

type BankAccountHandler struct {
	accounts *bankaccount.Service
}

// NewBankAccountHandler creates a new bank account handler
func NewBankAccountHandler(accounts *bankaccount.Service) *BankAccountHandler {
	return &BankAccountHandler{accounts: accounts}
}

// SharedAccountResponse is the view of an account addressed by shareable id.
// It exposes only what a sender needs to pick a destination.
type SharedAccountResponse struct {
	ShareableID string `json:"shareableId"`
	Name        string `json:"name"`
	Mask        string `json:"mask"`
}

// HandleListAccounts returns the authenticated user's linked accounts
func (h *BankAccountHandler) HandleListAccounts(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	accounts, err := h.accounts.ListAccountsByUserID(r.Context(), u.ID)
	if err != nil {
		log.Printf("Error listing accounts for user %s: %v", u.ID, err)
		http.Error(w, "Failed to list accounts", http.StatusInternalServerError)
		return
	}
	if accounts == nil {
		accounts = []*bankaccount.BankAccount{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(accounts)
}

// HandleGetAccount returns one linked account owned by the authenticated user
func (h *BankAccountHandler) HandleGetAccount(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	account, err := h.accounts.GetAccount(r.Context(), r.PathValue("id"), u.ID)
	if err != nil {
		switch {
		case errors.Is(err, bankaccount.ErrNotFound):
			http.Error(w, "Account not found", http.StatusNotFound)
		case errors.Is(err, bankaccount.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("Error fetching account %s: %v", r.PathValue("id"), err)
			http.Error(w, "Failed to fetch account", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(account)
}

// HandleGetSharedAccount resolves a shareable id to a minimal account view.
// Any authenticated user may call this; it is how transfer destinations are
// discovered.
func (h *BankAccountHandler) HandleGetSharedAccount(w http.ResponseWriter, r *http.Request) {
	account, err := h.accounts.GetByShareableID(r.Context(), r.PathValue("shareableId"))
	if err != nil {
		if errors.Is(err, bankaccount.ErrNotFound) {
			http.Error(w, "Account not found", http.StatusNotFound)
			return
		}
		log.Printf("Error resolving shareable id: %v", err)
		http.Error(w, "Failed to resolve account", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(SharedAccountResponse{
		ShareableID: account.ShareableID,
		Name:        account.Name,
		Mask:        account.Mask,
	})
}
