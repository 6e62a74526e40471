package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"github.com/shopspring/decimal"

	"horizon/internal/domain/bankaccount"
	"horizon/internal/domain/transfer"
	"horizon/internal/shared/middleware"
)

type TransferHandler struct {
	transfers *transfer.Service
}

// NewTransferHandler creates a new transfer handler
func NewTransferHandler(transfers *transfer.Service) *TransferHandler {
	return &TransferHandler{transfers: transfers}
}

type SendTransferRequest struct {
	SenderAccountID     string `json:"senderAccountId"`
	ReceiverShareableID string `json:"receiverShareableId"`
	Amount              string `json:"amount"`
	Note                string `json:"note"`
}

// HandleSend initiates an ACH transfer to the account behind a shareable id
func (h *TransferHandler) HandleSend(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req SendTransferRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}

	amount, err := decimal.NewFromString(req.Amount)
	if err != nil {
		http.Error(w, "Invalid amount", http.StatusBadRequest)
		return
	}

	record, err := h.transfers.Send(r.Context(), transfer.SendParams{
		SenderID:            u.ID,
		SenderAccountID:     req.SenderAccountID,
		ReceiverShareableID: req.ReceiverShareableID,
		Amount:              amount,
		Note:                req.Note,
	})
	if err != nil {
		switch {
		case errors.Is(err, transfer.ErrInvalidAmount):
			http.Error(w, "Amount must be positive", http.StatusBadRequest)
		case errors.Is(err, transfer.ErrNoSourceAccount):
			http.Error(w, "Source account not found", http.StatusNotFound)
		case errors.Is(err, transfer.ErrUnknownDestination):
			http.Error(w, "No account for shareable id", http.StatusNotFound)
		case errors.Is(err, transfer.ErrSelfTransfer):
			http.Error(w, "Cannot transfer to the same account", http.StatusBadRequest)
		case errors.Is(err, bankaccount.ErrForbidden):
			http.Error(w, "Forbidden", http.StatusForbidden)
		default:
			log.Printf("Transfer failed for user %s: %v", u.ID, err)
			http.Error(w, "Failed to create transfer", http.StatusInternalServerError)
		}
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(record)
}

// HandleHistory lists the authenticated user's transfers
func (h *TransferHandler) HandleHistory(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	transfers, err := h.transfers.History(r.Context(), u.ID)
	if err != nil {
		log.Printf("Error listing transfers for user %s: %v", u.ID, err)
		http.Error(w, "Failed to list transfers", http.StatusInternalServerError)
		return
	}
	if transfers == nil {
		transfers = []*transfer.Transfer{}
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(transfers)
}
