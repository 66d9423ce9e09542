package request

// CreateGuestRequest is the request body for creating a guest identity
type CreateGuestRequest struct {
	DisplayName string `json:"display_name"`
}

// RegisterRequest is the request body for registering an identity
type RegisterRequest struct {
	Username    string `json:"username"`
	Password    string `json:"password"`
	DisplayName string `json:"display_name"`
}

// LoginRequest is the request body for logging in
type LoginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// FaucetRequest is the request body for minting development tokens
type FaucetRequest struct {
	TokenKind string `json:"token_kind"`
	Amount    uint64 `json:"amount"`
}

// CreateGameRequest is the request body for creating a cash game
type CreateGameRequest struct {
	MaxPlayers uint16 `json:"max_players"`
	MinDeposit uint64 `json:"min_deposit"`
	MaxDeposit uint64 `json:"max_deposit"`
	TokenKind  string `json:"token_kind"`
}

// AmountRequest is the request body for joining a game or adding chips
type AmountRequest struct {
	Amount uint64 `json:"amount"`
}

// SetStatusRequest is the request body for switching a game's status
type SetStatusRequest struct {
	Status string `json:"status"`
}

// Adjustment is one reported balance change
type Adjustment struct {
	Player string `json:"player"`
	Op     string `json:"op"` // "add" or "sub"
	Amount uint64 `json:"amount"`
}

// SettleRequest is the request body for settling a cash game
type SettleRequest struct {
	Adjustments []Adjustment `json:"adjustments"`
	Withdrawals []string     `json:"withdrawals"`
}

// EjectRequest is the request body for ejecting players with stated amounts
type EjectRequest struct {
	Accounts []string `json:"accounts"`
	Amounts  []uint64 `json:"amounts"`
}

// RefundRequest is the request body for an out-of-band refund
type RefundRequest struct {
	Player string `json:"player"`
	Amount uint64 `json:"amount,omitempty"`
}

// CreateTournamentRequest is the request body for creating a tournament
type CreateTournamentRequest struct {
	Transactor       string   `json:"transactor"`
	TokenKind        string   `json:"token_kind"`
	MaxPlayers       uint16   `json:"max_players"`
	EntryCost        uint64   `json:"entry_cost"`
	EntryFee         uint64   `json:"entry_fee"`
	Guarantee        uint64   `json:"guarantee"`
	Payouts          []uint16 `json:"payouts"`
	RegistrationOpen bool     `json:"registration_open"`
}

// NFTPrizeRequest is the request body for escrowing or returning an NFT prize
type NFTPrizeRequest struct {
	Place uint16 `json:"place"`
	Mint  string `json:"mint"`
}

// UpdatePayoutsRequest is the request body for replacing payouts
type UpdatePayoutsRequest struct {
	Payouts []uint16 `json:"payouts"`
}

// PlayerRequest is the request body naming a tournament participant
type PlayerRequest struct {
	Player string `json:"player"`
}
