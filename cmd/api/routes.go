package main

import (
	"log"
	"net/http"

	"horizon/internal/shared/config"
	"horizon/internal/shared/middleware"
)

// SetupRoutes configures all HTTP routes and returns the final handler with middleware.
func SetupRoutes(deps *Dependencies, cfg *config.Config) http.Handler {
	mux := http.NewServeMux()

	// Health check
	mux.HandleFunc("GET /health", handleHealth)

	// Public auth routes
	mux.HandleFunc("POST /api/auth/signup", deps.AuthHandler.HandleSignUp)
	mux.HandleFunc("POST /api/auth/signin", deps.AuthHandler.HandleSignIn)
	mux.HandleFunc("POST /api/auth/signout", deps.AuthHandler.HandleSignOut)

	// Protected routes
	authMiddleware := middleware.Auth(deps.UserService)

	mux.Handle("GET /api/users/me", authMiddleware(http.HandlerFunc(deps.UserHandler.HandleMe)))

	mux.Handle("GET /api/bank-accounts", authMiddleware(http.HandlerFunc(deps.BankAccountHandler.HandleListAccounts)))
	mux.Handle("GET /api/bank-accounts/{id}", authMiddleware(http.HandlerFunc(deps.BankAccountHandler.HandleGetAccount)))
	mux.Handle("GET /api/bank-accounts/shared/{shareableId}", authMiddleware(http.HandlerFunc(deps.BankAccountHandler.HandleGetSharedAccount)))

	mux.Handle("POST /api/linking/token", authMiddleware(http.HandlerFunc(deps.LinkingHandler.HandleCreateLinkToken)))
	mux.Handle("POST /api/linking/link", authMiddleware(http.HandlerFunc(deps.LinkingHandler.HandleLinkAccount)))

	mux.Handle("POST /api/transfers", authMiddleware(http.HandlerFunc(deps.TransferHandler.HandleSend)))
	mux.Handle("GET /api/transfers", authMiddleware(http.HandlerFunc(deps.TransferHandler.HandleHistory)))

	mux.Handle("POST /api/notifications/register-device", authMiddleware(http.HandlerFunc(deps.NotificationHandler.HandleRegisterDevice)))

	// Apply global middleware
	handler := middleware.Logging(middleware.Telemetry(middleware.CORS(cfg.Server.AllowedHosts)(mux)))

	// Apply security middleware when TLS is enabled
	if cfg.TLS.Enabled {
		handler = middleware.HSTS(middleware.SecureCookies(handler))
		log.Println("TLS security middleware enabled (HSTS + SecureCookies)")
	}

	return handler
}

func handleHealth(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.Write([]byte(`{"status":"ok"}`))
}
