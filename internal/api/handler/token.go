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
	"github.com/mcoot/stakeledger/internal/services/wallet"
)

// TokenHandler handles custody balance endpoints
type TokenHandler struct {
	wallet *wallet.Service
}

// NewTokenHandler creates a new token handler
func NewTokenHandler(wallet *wallet.Service) *TokenHandler {
	return &TokenHandler{wallet: wallet}
}

// Faucet handles POST /api/v1/tokens/faucet
func (h *TokenHandler) Faucet(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())

	var req request.FaucetRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		apierr.WriteError(w, apierr.NewInvalidRequestError("invalid request body"))
		return
	}
	if req.TokenKind == "" {
		apierr.WriteError(w, apierr.NewInvalidRequestError("token_kind is required"))
		return
	}

	kind := model.TokenKind(req.TokenKind)
	if _, err := h.wallet.Faucet(r.Context(), session.Address, kind, req.Amount); err != nil {
		apierr.WriteError(w, err)
		return
	}
	h.writeBalance(w, r, session.Address, kind)
}

// Balance handles GET /api/v1/tokens/{kind}/balance
func (h *TokenHandler) Balance(w http.ResponseWriter, r *http.Request) {
	session := middleware.MustGetSession(r.Context())
	owner := session.Address
	if o := r.URL.Query().Get("owner"); o != "" {
		owner = model.Address(o)
	}
	h.writeBalance(w, r, owner, model.TokenKind(mux.Vars(r)["kind"]))
}

func (h *TokenHandler) writeBalance(w http.ResponseWriter, r *http.Request, owner model.Address, kind model.TokenKind) {
	account, amount, err := h.wallet.Balance(r.Context(), owner, kind)
	if err != nil {
		apierr.WriteError(w, err)
		return
	}
	response.JSON(w, http.StatusOK, response.Balance{
		Owner:     string(owner),
		TokenKind: string(kind),
		Account:   string(account),
		Amount:    amount,
	})
}
