package api

import (
	"log/slog"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/stakeledger/internal/api/handler"
	"github.com/mcoot/stakeledger/internal/api/middleware"
	"github.com/mcoot/stakeledger/internal/services/auth"
	"github.com/mcoot/stakeledger/internal/services/cashgame"
	"github.com/mcoot/stakeledger/internal/services/tournament"
	"github.com/mcoot/stakeledger/internal/services/wallet"
)

// RouterConfig holds configuration for the API router
type RouterConfig struct {
	Logger        *slog.Logger
	AuthService   *auth.Service
	WalletService *wallet.Service
	CashGames     *cashgame.Controller
	Tournaments   *tournament.Controller
}

// NewRouter creates a new API router with all routes configured
func NewRouter(cfg RouterConfig) http.Handler {
	r := mux.NewRouter()

	identityHandler := handler.NewIdentityHandler(cfg.AuthService)
	tokenHandler := handler.NewTokenHandler(cfg.WalletService)
	gameHandler := handler.NewCashGameHandler(cfg.CashGames)
	tournamentHandler := handler.NewTournamentHandler(cfg.Tournaments)

	authMiddleware := middleware.Auth(cfg.AuthService)

	api := r.PathPrefix("/api/v1").Subrouter()
	api.Use(middleware.Recovery(cfg.Logger))
	api.Use(middleware.Logging(cfg.Logger))

	// Identity routes (no auth required for creating identities/logging in)
	api.HandleFunc("/identities/guest", identityHandler.CreateGuest).Methods(http.MethodPost)
	api.HandleFunc("/identities/register", identityHandler.Register).Methods(http.MethodPost)
	api.HandleFunc("/identities/login", identityHandler.Login).Methods(http.MethodPost)

	identities := api.PathPrefix("/identities").Subrouter()
	identities.Use(authMiddleware)
	identities.HandleFunc("/me", identityHandler.GetMe).Methods(http.MethodGet)
	identities.HandleFunc("/logout", identityHandler.Logout).Methods(http.MethodPost)

	tokens := api.PathPrefix("/tokens").Subrouter()
	tokens.Use(authMiddleware)
	tokens.HandleFunc("/faucet", tokenHandler.Faucet).Methods(http.MethodPost)
	tokens.HandleFunc("/{kind}/balance", tokenHandler.Balance).Methods(http.MethodGet)

	games := api.PathPrefix("/games").Subrouter()
	games.Use(authMiddleware)
	games.HandleFunc("", gameHandler.Create).Methods(http.MethodPost)
	games.HandleFunc("/{id}", gameHandler.Get).Methods(http.MethodGet)
	games.HandleFunc("/{id}", gameHandler.Close).Methods(http.MethodDelete)
	games.HandleFunc("/{id}/join", gameHandler.Join).Methods(http.MethodPost)
	games.HandleFunc("/{id}/add-chips", gameHandler.AddChips).Methods(http.MethodPost)
	games.HandleFunc("/{id}/status", gameHandler.SetStatus).Methods(http.MethodPost)
	games.HandleFunc("/{id}/settle", gameHandler.Settle).Methods(http.MethodPost)
	games.HandleFunc("/{id}/eject", gameHandler.Eject).Methods(http.MethodPost)
	games.HandleFunc("/{id}/refund", gameHandler.Refund).Methods(http.MethodPost)

	tournaments := api.PathPrefix("/tournaments").Subrouter()
	tournaments.Use(authMiddleware)
	tournaments.HandleFunc("", tournamentHandler.Create).Methods(http.MethodPost)
	tournaments.HandleFunc("/{id}", tournamentHandler.Get).Methods(http.MethodGet)
	tournaments.HandleFunc("/{id}", tournamentHandler.Close).Methods(http.MethodDelete)
	tournaments.HandleFunc("/{id}/receipts/{player}", tournamentHandler.GetReceipt).Methods(http.MethodGet)
	tournaments.HandleFunc("/{id}/nft-prizes", tournamentHandler.AddNFTPrize).Methods(http.MethodPost)
	tournaments.HandleFunc("/{id}/nft-prizes/{place}", tournamentHandler.GetNFTPrize).Methods(http.MethodGet)
	tournaments.HandleFunc("/{id}/nft-prizes/{place}", tournamentHandler.RemoveNFTPrize).Methods(http.MethodDelete)
	tournaments.HandleFunc("/{id}/payouts", tournamentHandler.UpdatePayouts).Methods(http.MethodPut)
	tournaments.HandleFunc("/{id}/registration/flip", tournamentHandler.FlipRegistration).Methods(http.MethodPost)
	tournaments.HandleFunc("/{id}/register", tournamentHandler.Register).Methods(http.MethodPost)
	tournaments.HandleFunc("/{id}/unregister", tournamentHandler.Unregister).Methods(http.MethodPost)
	tournaments.HandleFunc("/{id}/refund", tournamentHandler.Refund).Methods(http.MethodPost)
	tournaments.HandleFunc("/{id}/start", tournamentHandler.Start).Methods(http.MethodPost)
	tournaments.HandleFunc("/{id}/payout", tournamentHandler.Payout).Methods(http.MethodPost)

	api.HandleFunc("/payouts", handler.RecommendedPayouts).Methods(http.MethodGet)

	// Health check endpoint (no auth)
	api.HandleFunc("/health", healthHandler).Methods(http.MethodGet)

	return r
}

func healthHandler(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(`{"status":"ok"}`))
}
