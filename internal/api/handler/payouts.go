package handler

import (
	"net/http"
	"strconv"

	"github.com/mcoot/stakeledger/internal/api/apierr"
	"github.com/mcoot/stakeledger/internal/api/response"
	"github.com/mcoot/stakeledger/internal/payouts"
)

// RecommendedPayouts handles GET /api/v1/payouts?players=n
func RecommendedPayouts(w http.ResponseWriter, r *http.Request) {
	n, err := strconv.Atoi(r.URL.Query().Get("players"))
	if err != nil || n < 1 {
		apierr.WriteError(w, apierr.NewInvalidRequestError("players must be a positive number"))
		return
	}
	response.JSON(w, http.StatusOK, response.PayoutStructure{
		Players: n,
		Payouts: payouts.ForFieldSize(n),
	})
}
