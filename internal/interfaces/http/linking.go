package http

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"

	"horizon/internal/domain/linking"
	"horizon/internal/infrastructure/aggregator"
	"horizon/internal/shared/middleware"
)

type LinkingHandler struct {
	linking    *linking.Service
	aggregator aggregator.ClientInterface
}

// NewLinkingHandler creates a new linking handler
func NewLinkingHandler(linkingService *linking.Service, aggregatorClient aggregator.ClientInterface) *LinkingHandler {
	return &LinkingHandler{linking: linkingService, aggregator: aggregatorClient}
}

type LinkTokenResponse struct {
	LinkToken string `json:"linkToken"`
}

type LinkAccountRequest struct {
	PublicToken string `json:"publicToken"`
}

// HandleCreateLinkToken issues a short-lived token for the client-side
// aggregator widget
func (h *LinkingHandler) HandleCreateLinkToken(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	token, err := h.aggregator.CreateLinkToken(r.Context(), aggregator.LinkTokenUser{
		ClientUserID: u.ID,
		Name:         u.FirstName + " " + u.LastName,
	})
	if err != nil {
		log.Printf("Link token creation failed for user %s: %v", u.ID, err)
		http.Error(w, "Failed to create link token", http.StatusBadGateway)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	json.NewEncoder(w).Encode(LinkTokenResponse{LinkToken: token})
}

// HandleLinkAccount exchanges a public token and runs the linking pipeline
func (h *LinkingHandler) HandleLinkAccount(w http.ResponseWriter, r *http.Request) {
	u, ok := middleware.UserFromContext(r.Context())
	if !ok {
		http.Error(w, "Unauthorized", http.StatusUnauthorized)
		return
	}

	var req LinkAccountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "Invalid request body", http.StatusBadRequest)
		return
	}
	if req.PublicToken == "" {
		http.Error(w, "publicToken is required", http.StatusBadRequest)
		return
	}

	account, err := h.linking.LinkAccount(r.Context(), req.PublicToken, linking.UserRef{
		UserID:              u.ID,
		ProcessorCustomerID: u.ProcessorCustomerID,
	})
	if err != nil {
		writeLinkError(w, u.ID, err)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusCreated)
	json.NewEncoder(w).Encode(account)
}

// writeLinkError maps the linking error taxonomy to HTTP statuses. The step
// and kind stay server-side; the client only sees which phase failed.
func writeLinkError(w http.ResponseWriter, userID string, err error) {
	log.Printf("Account linking failed for user %s: %v", userID, err)

	switch {
	case linking.IsTimeout(err):
		http.Error(w, "Upstream provider timed out", http.StatusGatewayTimeout)
	case errors.Is(err, linking.ErrTokenExchange):
		http.Error(w, "Public token rejected", http.StatusBadRequest)
	case errors.Is(err, linking.ErrAccountFetch),
		errors.Is(err, linking.ErrProcessorToken),
		errors.Is(err, linking.ErrUpstreamAuthorization),
		errors.Is(err, linking.ErrUpstreamProvisioning):
		http.Error(w, "Upstream provider error", http.StatusBadGateway)
	case errors.Is(err, linking.ErrPersistence):
		http.Error(w, "Failed to save linked account", http.StatusInternalServerError)
	default:
		http.Error(w, "Failed to link account", http.StatusInternalServerError)
	}
}
