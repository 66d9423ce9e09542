package model

import "errors"

// Ledger errors. These are surfaced verbatim to callers and are never retried.
var (
	// Custody errors
	ErrIncorrectTokenOwner               = errors.New("token account is not owned by the signing authority")
	ErrInitialTokenAccountBalanceNonZero = errors.New("vault token account must start with a zero balance")
	ErrNotEnoughFunds                    = errors.New("not enough funds")
	ErrInvalidAddress                    = errors.New("invalid address")
	ErrAccountNotEmpty                   = errors.New("token account still holds funds")

	// Cash game errors
	ErrGameFull            = errors.New("game is full")
	ErrAlreadyAtTable      = errors.New("already at table")
	ErrDepositTooSmall     = errors.New("deposit too small")
	ErrDepositTooLarge     = errors.New("deposit too large")
	ErrNotGameOwner        = errors.New("not game owner")
	ErrNotAtTable          = errors.New("not at table")
	ErrGameNotActive       = errors.New("game not active")
	ErrPlayersStillAtTable = errors.New("players still at table")
	ErrInvalidGameConfig   = errors.New("invalid game configuration")

	// Tournament errors
	ErrInvalidPayoutsArray               = errors.New("payouts must sum to 1000")
	ErrTournamentAlreadyStarted          = errors.New("tournament already started")
	ErrNotEnoughPlayersToStartTournament = errors.New("not enough players to start tournament")
	ErrTournamentNotStarted              = errors.New("tournament not started")
	ErrNFTsEscrowedInTournament          = errors.New("nfts still escrowed in tournament")
	ErrNotTransactor                     = errors.New("caller is neither the tournament owner nor its transactor")
	ErrInvalidPrizePlace                 = errors.New("prize place must be at least 1")

	// Arithmetic errors
	ErrUnderflow = errors.New("arithmetic underflow")
	ErrOverflow  = errors.New("arithmetic overflow")

	// Lookup errors
	ErrGameNotFound         = errors.New("game not found")
	ErrTournamentNotFound   = errors.New("tournament not found")
	ErrReceiptNotFound      = errors.New("tournament registration not found")
	ErrNFTPrizeNotFound     = errors.New("nft prize not found")
	ErrTokenAccountNotFound = errors.New("token account not found")
	ErrIdentityNotFound     = errors.New("identity not found")
)
