package response

import (
	"time"

	"github.com/mcoot/stakeledger/internal/authority"
	"github.com/mcoot/stakeledger/internal/model"
	"github.com/mcoot/stakeledger/internal/services/auth"
	"github.com/mcoot/stakeledger/internal/services/cashgame"
	"github.com/mcoot/stakeledger/internal/services/tournament"
)

// Identity represents an identity in API responses
type Identity struct {
	Address     string `json:"address"`
	DisplayName string `json:"display_name"`
	IsGuest     bool   `json:"is_guest"`
}

// IdentityFromModel converts a model.Identity
func IdentityFromModel(i *model.Identity) Identity {
	return Identity{
		Address:     string(i.Address),
		DisplayName: i.DisplayName,
		IsGuest:     i.IsGuest,
	}
}

// AuthResponse is the response for authentication endpoints
type AuthResponse struct {
	Identity     Identity  `json:"identity"`
	SessionToken string    `json:"session_token"`
	ExpiresAt    time.Time `json:"expires_at"`
}

// AuthResponseFromSession creates an AuthResponse from a session
func AuthResponseFromSession(s *auth.Session) AuthResponse {
	return AuthResponse{
		Identity:     IdentityFromModel(&s.Identity),
		SessionToken: s.Token,
		ExpiresAt:    s.ExpiresAt,
	}
}

// Balance is a custody balance
type Balance struct {
	Owner     string `json:"owner"`
	TokenKind string `json:"token_kind"`
	Account   string `json:"account"`
	Amount    uint64 `json:"amount"`
}

// Seat is one seated player
type Seat struct {
	Player  string `json:"player"`
	Account string `json:"account"`
	Balance uint64 `json:"balance"`
	AddOn   uint64 `json:"add_on"`
}

// Game represents a cash game in API responses
type Game struct {
	ID             string    `json:"id"`
	Owner          string    `json:"owner"`
	VaultAuthority string    `json:"vault_authority"`
	VaultAccount   string    `json:"vault_account"`
	VaultBalance   uint64    `json:"vault_balance"`
	MinDeposit     uint64    `json:"min_deposit"`
	MaxDeposit     uint64    `json:"max_deposit"`
	MaxPlayers     uint16    `json:"max_players"`
	TokenKind      string    `json:"token_kind"`
	Status         string    `json:"status"`
	Seats          []Seat    `json:"seats"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// GameFromModel converts a model.GameAccount; vaultBalance is read separately
func GameFromModel(g *model.GameAccount, vaultBalance uint64) Game {
	vault := authority.VaultAddress(g.ID)
	seats := make([]Seat, len(g.Players))
	for i, p := range g.Players {
		seats[i] = Seat{
			Player:  string(p.Address),
			Account: string(authority.AssociatedAccount(p.Address, g.TokenKind)),
			Balance: p.Balance,
			AddOn:   p.AddOn,
		}
	}
	return Game{
		ID:             string(g.ID),
		Owner:          string(g.Owner),
		VaultAuthority: string(vault),
		VaultAccount:   string(authority.AssociatedAccount(vault, g.TokenKind)),
		VaultBalance:   vaultBalance,
		MinDeposit:     g.MinDeposit,
		MaxDeposit:     g.MaxDeposit,
		MaxPlayers:     g.MaxPlayers,
		TokenKind:      string(g.TokenKind),
		Status:         string(g.Status),
		Seats:          seats,
		CreatedAt:      g.CreatedAt,
		UpdatedAt:      g.UpdatedAt,
	}
}

// SettleResponse is the response for settle and eject
type SettleResponse struct {
	Game    Game              `json:"game"`
	Payouts []cashgame.Payout `json:"payouts"`
}

// AmountResponse reports a single amount moved, e.g. a refund or rake
type AmountResponse struct {
	Amount uint64 `json:"amount"`
}

// Tournament represents a tournament in API responses
type Tournament struct {
	ID                string    `json:"id"`
	Owner             string    `json:"owner"`
	Transactor        string    `json:"transactor"`
	VaultAuthority    string    `json:"vault_authority"`
	VaultAccount      string    `json:"vault_account"`
	VaultBalance      uint64    `json:"vault_balance"`
	TokenKind         string    `json:"token_kind"`
	EntryCost         uint64    `json:"entry_cost"`
	EntryFee          uint64    `json:"entry_fee"`
	Guarantee         uint64    `json:"guarantee"`
	Payouts           []uint16  `json:"payouts"`
	NFTPayouts        []uint16  `json:"nft_payouts"`
	MinPlayers        uint16    `json:"min_players"`
	MaxPlayers        uint16    `json:"max_players"`
	Players           uint16    `json:"players"`
	PlayersWithRebuys uint16    `json:"players_with_rebuys"`
	RegistrationOpen  bool      `json:"registration_open"`
	HasStarted        bool      `json:"has_started"`
	CreatedAt         time.Time `json:"created_at"`
	UpdatedAt         time.Time `json:"updated_at"`
}

// TournamentFromModel converts a model.TournamentAccount
func TournamentFromModel(t *model.TournamentAccount, vaultBalance uint64) Tournament {
	vault := authority.VaultAddress(t.ID)
	return Tournament{
		ID:                string(t.ID),
		Owner:             string(t.Owner),
		Transactor:        string(t.Transactor),
		VaultAuthority:    string(vault),
		VaultAccount:      string(authority.AssociatedAccount(vault, t.TokenKind)),
		VaultBalance:      vaultBalance,
		TokenKind:         string(t.TokenKind),
		EntryCost:         t.EntryCost,
		EntryFee:          t.EntryFee,
		Guarantee:         t.Guarantee,
		Payouts:           t.Payouts,
		NFTPayouts:        t.NFTPayouts,
		MinPlayers:        t.MinPlayers,
		MaxPlayers:        t.MaxPlayers,
		Players:           t.Players,
		PlayersWithRebuys: t.PlayersWithRebuys,
		RegistrationOpen:  t.RegistrationOpen,
		HasStarted:        t.HasStarted,
		CreatedAt:         t.CreatedAt,
		UpdatedAt:         t.UpdatedAt,
	}
}

// Receipt is a tournament registration
type Receipt struct {
	Tournament   string    `json:"tournament"`
	Player       string    `json:"player"`
	Rebuys       uint32    `json:"rebuys"`
	RegisteredAt time.Time `json:"registered_at"`
}

// ReceiptFromModel converts a model.TournamentPlayerAccount
func ReceiptFromModel(r *model.TournamentPlayerAccount) Receipt {
	return Receipt{
		Tournament:   string(r.Tournament),
		Player:       string(r.Player),
		Rebuys:       r.Rebuys,
		RegisteredAt: r.RegisteredAt,
	}
}

// BustResponse is the response for an elimination payout
type BustResponse = tournament.BustResult

// PayoutStructure is a recommended payout schedule
type PayoutStructure struct {
	Players int      `json:"players"`
	Payouts []uint16 `json:"payouts"`
}
