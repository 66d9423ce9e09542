package apierr

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/services/auth"
	"github.com/mcoot/stakeledger/internal/services/wallet"
	"github.com/mcoot/stakeledger/internal/storage"
)

// APIError represents an API error response
type APIError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}

// ErrorResponse wraps an APIError
type ErrorResponse struct {
	Error APIError `json:"error"`
}

// Error codes
const (
	CodeInvalidRequest = "INVALID_REQUEST"
	CodeUnauthorized   = "UNAUTHORIZED"
	CodeInternalError  = "INTERNAL_ERROR"
	CodeConflict       = "CONCURRENT_UPDATE"

	// Custody
	CodeIncorrectTokenOwner               = "INCORRECT_TOKEN_OWNER"
	CodeInitialTokenAccountBalanceNonZero = "INITIAL_TOKEN_ACCOUNT_BALANCE_NON_ZERO"
	CodeNotEnoughFunds                    = "NOT_ENOUGH_FUNDS"
	CodeInvalidAddress                    = "INVALID_ADDRESS"
	CodeAccountNotEmpty                   = "ACCOUNT_NOT_EMPTY"

	// Cash games
	CodeGameFull            = "GAME_FULL"
	CodeAlreadyAtTable      = "ALREADY_AT_TABLE"
	CodeDepositTooSmall     = "DEPOSIT_TOO_SMALL"
	CodeDepositTooLarge     = "DEPOSIT_TOO_LARGE"
	CodeNotGameOwner        = "NOT_GAME_OWNER"
	CodeNotAtTable          = "NOT_AT_TABLE"
	CodeGameNotActive       = "GAME_NOT_ACTIVE"
	CodePlayersStillAtTable = "PLAYERS_STILL_AT_TABLE"
	CodeInvalidGameConfig   = "INVALID_GAME_CONFIG"

	// Tournaments
	CodeInvalidPayoutsArray               = "INVALID_PAYOUTS_ARRAY"
	CodeTournamentAlreadyStarted          = "TOURNAMENT_ALREADY_STARTED"
	CodeNotEnoughPlayersToStartTournament = "NOT_ENOUGH_PLAYERS_TO_START_TOURNAMENT"
	CodeTournamentNotStarted              = "TOURNAMENT_NOT_STARTED"
	CodeNFTsEscrowedInTournament          = "NFTS_ESCROWED_IN_TOURNAMENT"
	CodeNotTransactor                     = "NOT_TRANSACTOR"
	CodeInvalidPrizePlace                 = "INVALID_PRIZE_PLACE"

	// Arithmetic
	CodeUnderflow = "UNDERFLOW"
	CodeOverflow  = "OVERFLOW"

	// Lookups
	CodeGameNotFound       = "GAME_NOT_FOUND"
	CodeTournamentNotFound = "TOURNAMENT_NOT_FOUND"
	CodeReceiptNotFound    = "RECEIPT_NOT_FOUND"
	CodeNFTPrizeNotFound   = "NFT_PRIZE_NOT_FOUND"
	CodeIdentityNotFound   = "IDENTITY_NOT_FOUND"

	// Identities and wallet
	CodeUsernameExists     = "USERNAME_EXISTS"
	CodeInvalidCredentials = "INVALID_CREDENTIALS"
	CodeFaucetDisabled     = "FAUCET_DISABLED"
	CodeFaucetLimit        = "FAUCET_LIMIT"
)

// httpError combines an HTTP status code with an APIError
type httpError struct {
	status   int
	apiError APIError
}

// Error implements error interface
func (e *httpError) Error() string {
	return e.apiError.Message
}

// WriteError writes an error response to the response writer
func WriteError(w http.ResponseWriter, err error) {
	he := toHTTPError(err)
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(he.status)
	_ = json.NewEncoder(w).Encode(ErrorResponse{Error: he.apiError})
}

// mapping lists sentinel errors in match order
var mapping = []struct {
	err    error
	status int
	code   string
}{
	{model.ErrIncorrectTokenOwner, http.StatusForbidden, CodeIncorrectTokenOwner},
	{model.ErrInitialTokenAccountBalanceNonZero, http.StatusConflict, CodeInitialTokenAccountBalanceNonZero},
	{model.ErrNotEnoughFunds, http.StatusPaymentRequired, CodeNotEnoughFunds},
	{model.ErrInvalidAddress, http.StatusBadRequest, CodeInvalidAddress},
	{model.ErrAccountNotEmpty, http.StatusConflict, CodeAccountNotEmpty},

	{model.ErrGameFull, http.StatusConflict, CodeGameFull},
	{model.ErrAlreadyAtTable, http.StatusConflict, CodeAlreadyAtTable},
	{model.ErrDepositTooSmall, http.StatusUnprocessableEntity, CodeDepositTooSmall},
	{model.ErrDepositTooLarge, http.StatusUnprocessableEntity, CodeDepositTooLarge},
	{model.ErrNotGameOwner, http.StatusForbidden, CodeNotGameOwner},
	{model.ErrNotAtTable, http.StatusNotFound, CodeNotAtTable},
	{model.ErrGameNotActive, http.StatusConflict, CodeGameNotActive},
	{model.ErrPlayersStillAtTable, http.StatusConflict, CodePlayersStillAtTable},
	{model.ErrInvalidGameConfig, http.StatusBadRequest, CodeInvalidGameConfig},

	{model.ErrInvalidPayoutsArray, http.StatusBadRequest, CodeInvalidPayoutsArray},
	{model.ErrTournamentAlreadyStarted, http.StatusConflict, CodeTournamentAlreadyStarted},
	{model.ErrNotEnoughPlayersToStartTournament, http.StatusConflict, CodeNotEnoughPlayersToStartTournament},
	{model.ErrTournamentNotStarted, http.StatusConflict, CodeTournamentNotStarted},
	{model.ErrNFTsEscrowedInTournament, http.StatusConflict, CodeNFTsEscrowedInTournament},
	{model.ErrNotTransactor, http.StatusForbidden, CodeNotTransactor},
	{model.ErrInvalidPrizePlace, http.StatusBadRequest, CodeInvalidPrizePlace},

	{model.ErrUnderflow, http.StatusUnprocessableEntity, CodeUnderflow},
	{model.ErrOverflow, http.StatusUnprocessableEntity, CodeOverflow},

	{model.ErrGameNotFound, http.StatusNotFound, CodeGameNotFound},
	{model.ErrTournamentNotFound, http.StatusNotFound, CodeTournamentNotFound},
	{model.ErrReceiptNotFound, http.StatusNotFound, CodeReceiptNotFound},
	{model.ErrNFTPrizeNotFound, http.StatusNotFound, CodeNFTPrizeNotFound},
	{model.ErrIdentityNotFound, http.StatusNotFound, CodeIdentityNotFound},

	{storage.ErrConflict, http.StatusConflict, CodeConflict},

	{auth.ErrInvalidCredentials, http.StatusUnauthorized, CodeInvalidCredentials},
	{auth.ErrInvalidSession, http.StatusUnauthorized, CodeUnauthorized},
	{auth.ErrUsernameExists, http.StatusConflict, CodeUsernameExists},
	{auth.ErrInvalidUsername, http.StatusBadRequest, CodeInvalidRequest},

	{wallet.ErrFaucetDisabled, http.StatusForbidden, CodeFaucetDisabled},
	{wallet.ErrFaucetLimit, http.StatusBadRequest, CodeFaucetLimit},
}

// toHTTPError converts an error to an httpError
func toHTTPError(err error) *httpError {
	var he *httpError
	if errors.As(err, &he) {
		return he
	}

	for _, m := range mapping {
		if errors.Is(err, m.err) {
			return &httpError{m.status, APIError{m.code, m.err.Error()}}
		}
	}
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}

// NewInvalidRequestError creates an invalid request error
func NewInvalidRequestError(message string) error {
	return &httpError{http.StatusBadRequest, APIError{CodeInvalidRequest, message}}
}

// NewUnauthorizedError creates an unauthorized error
func NewUnauthorizedError() error {
	return &httpError{http.StatusUnauthorized, APIError{CodeUnauthorized, "Authentication required"}}
}

// NewInternalError creates an internal server error
func NewInternalError() error {
	return &httpError{http.StatusInternalServerError, APIError{CodeInternalError, "Internal server error"}}
}
