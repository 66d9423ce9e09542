package handler

import (
	"encoding/json"
	"net/http"

	"github.com/gorilla/mux"

	"github.com/mcoot/stakeledger/internal/api/apierr"
	"github.com/mcoot/stakeledger/internal/api/middleware"
	"github.com/mcoot/stakeledger/internal/api/request"
	"github.com/mcoot/stakeledger/internal/api/response"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/services/cashgame"
)

// CashGameHandler handles cash game endpoints
type CashGameHandler struct {
	games *cashgame.Controller
}

// NewCashGameHandler creates a new cash game handler
func NewCashGameHandler(games *cashgame.Controller) *CashGameHandler {
	return &CashGameHandler{games: games}
}

func gameID(r *http.Request) model.EntityID {
	return model.EntityID(mux.Vars(r)["id"])
}

func (h *CashGameHandler) writeGame(w http.ResponseWriter, r *http.Request, status int, game *model.GameAccount) {
	balance, err := h.games.VaultBalance(r.Context(), game.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, status, response.GameFromModel(game, balance))
}

func (h *CashGameHandler) writeSettlement(w http.ResponseWriter, r *http.Request, game *model.GameAccount, payouts []cashgame.Payout) {
	balance, err := h.games.VaultBalance(r.Context(), game.ID)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	if payouts == nil {
		payouts = []cashgame.Payout{}
	}
	response.JSON(w, http.StatusOK, response.SettleResponse{
		Game:    response.GameFromModel(game, balance),
		Payouts: payouts,
	})
}

// Create handles POST /api/v1/games
func (h *CashGameHandler) Create(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.CreateGameRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.games.CreateGame(r.Context(), session.Signer(), cashgame.CreateGameParams{
		MaxPlayers: req.MaxPlayers,
		MinDeposit: req.MinDeposit,
		MaxDeposit: req.MaxDeposit,
		TokenKind:  model.TokenKind(req.TokenKind),
	})
	if err != nil {
		apierr.WriteError(w, err)
		return
	}

	h.writeGame(w, r, http.StatusCreated, game)
}

// Get handles GET /api/v1/games/{id}
func (h *CashGameHandler) Get(w http.ResponseWriter, r *http.Request) {
	game, err := h.games.GetGame(r.Context(), gameID(r))
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

// Join handles POST /api/v1/games/{id}/join
func (h *CashGameHandler) Join(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.games.JoinGame(r.Context(), gameID(r), session.Signer(), req.Amount)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

// AddChips handles POST /api/v1/games/{id}/add-chips
func (h *CashGameHandler) AddChips(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.AmountRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	game, err := h.games.AddChips(r.Context(), gameID(r), session.Signer(), req.Amount)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

// SetStatus handles POST /api/v1/games/{id}/status
func (h *CashGameHandler) SetStatus(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.SetStatusRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	status := model.GameStatus(req.Status)
	if status != model.GameStatusActive && status != model.GameStatusInactive {
		apierr.WriteError(w, apierr.NewInvalidRequestError("status must be active or inactive"))
		return
	}

	game, err := h.games.SetGameStatus(r.Context(), gameID(r), session.Signer(), status)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeGame(w, r, http.StatusOK, game)
}

// Settle handles POST /api/v1/games/{id}/settle
func (h *CashGameHandler) Settle(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.SettleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	adjustments := make([]model.Adjustment, len(req.Adjustments))
	for i, a := range req.Adjustments {
		op := model.SettleOpKind(a.Op)
		if op != model.SettleAdd && op != model.SettleSub {
			apierr.WriteError(w, apierr.NewInvalidRequestError("adjustment op must be add or sub"))
			return
		}
		adjustments[i] = model.Adjustment{Player: model.Address(a.Player), Op: op, Amount: a.Amount}
	}
	withdrawals := make([]model.Address, len(req.Withdrawals))
	for i, a := range req.Withdrawals {
		withdrawals[i] = model.Address(a)
	}

	game, payouts, err := h.games.Settle(r.Context(), gameID(r), session.Signer(), adjustments, withdrawals)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeSettlement(w, r, game, payouts)
}

// Eject handles POST /api/v1/games/{id}/eject
func (h *CashGameHandler) Eject(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.EjectRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}

	accounts := make([]model.Address, len(req.Accounts))
	for i, a := range req.Accounts {
		accounts[i] = model.Address(a)
	}

	game, payouts, err := h.games.EjectPlayers(r.Context(), gameID(r), session.Signer(), accounts, req.Amounts)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeSettlement(w, r, game, payouts)
}

// Refund handles POST /api/v1/games/{id}/refund
func (h *CashGameHandler) Refund(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.RefundRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.Player == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("player is required"))
		return
	}

	id := gameID(r)
	if err := h.games.RefundPlayer(r.Context(), id, session.Signer(), model.Address(req.Player), req.Amount); err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AmountResponse{Amount: req.Amount})
}

// Close handles DELETE /api/v1/games/{id}
func (h *CashGameHandler) Close(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	rake, err := h.games.CloseGame(r.Context(), gameID(r), session.Signer())
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.AmountResponse{Amount: rake})
}
