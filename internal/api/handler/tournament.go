package handler

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/mcoot/stakeledger/internal/api/apierr"
	"github.com/mcoot/stakeledger/internal/api/middleware"
	"github.com/mcoot/stakeledger/internal/api/request"
	"github.com/mcoot/stakeledger/internal/api/response"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/services/tournament"
)

// TournamentHandler handles tournament endpoints
type TournamentHandler struct {
	tournaments *tournament.Controller
}

// NewTournamentHandler creates a new tournament handler
func NewTournamentHandler(tournaments *tournament.Controller) *TournamentHandler {
	return &TournamentHandler{tournaments: tournaments}
}

func tournamentID(r *http.Request) model.EntityID {
	return model.EntityID(mux.Vars(r)["id"])
}

func (h *TournamentHandler) writeTournament(w http.ResponseWriter, r *http.Request, status int, t *model.TournamentAccount) {
	balance, err := h.tournaments.VaultBalance(r.Context(), t.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, status, response.TournamentFromModel(t, balance))
}

func decodePlayer(w http.ResponseWriter, r *http.Request) (model.Address, bool) {
	var req request.PlayerRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return "", false
	}
	if req.Player == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("player is required"))
		return "", false
	}
	return model.Address(req.Player), true
}

// Create handles POST /api/v1/tournaments
func (h *TournamentHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.CreateTournamentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	transactor := model.Address(req.Transactor)
	if transactor == "" {
		transactor = session.Address
	}

	t, err := h.tournaments.CreateTournament(r.Context(), session.Signer(), tournament.CreateTournamentParams{
		Transactor:       transactor,
		TokenKind:        model.TokenKind(req.TokenKind),
		MaxPlayers:       req.MaxPlayers,
		EntryCost:        req.EntryCost,
		EntryFee:         req.EntryFee,
		Guarantee:        req.Guarantee,
		Payouts:          req.Payouts,
		RegistrationOpen: req.RegistrationOpen,
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeTournament(w, r, http.StatusCreated, t)
}

// Get handles GET /api/v1/tournaments/{id}
func (h *TournamentHandler) Get(w http.ResponseWriter, r *http.Request) {
	t, err := h.tournaments.GetTournament(r.Context(), tournamentID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeTournament(w, r, http.StatusOK, t)
}

// GetReceipt handles GET /api/v1/tournaments/{id}/receipts/{player}
func (h *TournamentHandler) GetReceipt(w http.ResponseWriter, r *http.Request) {
	receipt, err := h.tournaments.GetReceipt(r.Context(), tournamentID(r), model.Address(mux.Vars(r)["player"]))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ReceiptFromModel(receipt))
}

// GetNFTPrize handles GET /api/v1/tournaments/{id}/nft-prizes/{place}
func (h *TournamentHandler) GetNFTPrize(w http.ResponseWriter, r *http.Request) {
	place, ok := parsePlace(w, r)
	if !ok {
		return
	}
	prize, err := h.tournaments.GetNFTPrize(r.Context(), tournamentID(r), place)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, prize)
}

// AddNFTPrize handles POST /api/v1/tournaments/{id}/nft-prizes
func (h *TournamentHandler) AddNFTPrize(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.NFTPrizeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Mint == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("mint is required"))
		return
	}

	t, err := h.tournaments.AddNFTTournamentPrize(r.Context(), tournamentID(r), session.Signer(), req.Place, model.TokenKind(req.Mint))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeTournament(w, r, http.StatusOK, t)
}

// RemoveNFTPrize handles DELETE /api/v1/tournaments/{id}/nft-prizes/{place}?mint=
func (h *TournamentHandler) RemoveNFTPrize(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	place, ok := parsePlace(w, r)
	if !ok {
		return
	}
	mint := r.URL.Query().Get("mint")
	if mint == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("mint is required"))
		return
	}

	t, err := h.tournaments.RemoveNFTTournamentPrize(r.Context(), tournamentID(r), session.Signer(), place, model.TokenKind(mint))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeTournament(w, r, http.StatusOK, t)
}

// UpdatePayouts handles PUT /api/v1/tournaments/{id}/payouts
func (h *TournamentHandler) UpdatePayouts(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.UpdatePayoutsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	t, err := h.tournaments.UpdateTournamentPayouts(r.Context(), tournamentID(r), session.Signer(), req.Payouts)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeTournament(w, r, http.StatusOK, t)
}

// FlipRegistration handles POST /api/v1/tournaments/{id}/registration/flip
func (h *TournamentHandler) FlipRegistration(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	t, err := h.tournaments.FlipTournamentRegistration(r.Context(), tournamentID(r), session.Signer())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeTournament(w, r, http.StatusOK, t)
}

// Register handles POST /api/v1/tournaments/{id}/register
func (h *TournamentHandler) Register(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	receipt, err := h.tournaments.RegisterTournament(r.Context(), tournamentID(r), session.Signer())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.ReceiptFromModel(receipt))
}

// Unregister handles POST /api/v1/tournaments/{id}/unregister
func (h *TournamentHandler) Unregister(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	amount, err := h.tournaments.UnregisterTournament(r.Context(), tournamentID(r), session.Signer())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AmountResponse{Amount: amount})
}

// Refund handles POST /api/v1/tournaments/{id}/refund
func (h *TournamentHandler) Refund(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	player, ok := decodePlayer(w, r)
	if !ok {
		return
	}

	amount, err := h.tournaments.RefundTournament(r.Context(), tournamentID(r), session.Signer(), player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AmountResponse{Amount: amount})
}

// Start handles POST /api/v1/tournaments/{id}/start
func (h *TournamentHandler) Start(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	t, err := h.tournaments.StartTournament(r.Context(), tournamentID(r), session.Signer())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeTournament(w, r, http.StatusOK, t)
}

// Payout handles POST /api/v1/tournaments/{id}/payout
func (h *TournamentHandler) Payout(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	player, ok := decodePlayer(w, r)
	if !ok {
		return
	}

	result, err := h.tournaments.PayoutTournamentPlayer(r.Context(), tournamentID(r), session.Signer(), player)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, result)
}

// Close handles DELETE /api/v1/tournaments/{id}
func (h *TournamentHandler) Close(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	swept, err := h.tournaments.CloseTournament(r.Context(), tournamentID(r), session.Signer())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AmountResponse{Amount: swept})
}

func parsePlace(w http.ResponseWriter, r *http.Request) (uint16, bool) {
	place, err := strconv.ParseUint(mux.Vars(r)["place"], 10, 16)
	if err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("place must be a number"))
		return 0, false
	}
	return uint16(place), true
}
