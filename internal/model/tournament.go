package model

import (
	"slices"
	"time"
)

// PayoutScale is the total of a complete payout schedule (per-mille shares)
const PayoutScale = 1000

// TournamentAccount is the ledger record for one tournament
type TournamentAccount struct {
	ID                EntityID           `json:"id"`
	Owner             Address            `json:"owner"`
	Transactor        Address            `json:"transactor"`
	TokenKind         TokenKind          `json:"token_kind"`
	EntryCost         uint64             `json:"entry_cost"`
	EntryFee          uint64             `json:"entry_fee"`
	Guarantee         uint64             `json:"guarantee"`
	Payouts           []uint16           `json:"payouts"`
	NFTPayouts        []uint16           `json:"nft_payouts"` // sorted, unique
	MinPlayers        uint16             `json:"min_players"`
	MaxPlayers        uint16             `json:"max_players"`
	Players           uint16             `json:"players"`
	PlayersWithRebuys uint16             `json:"players_with_rebuys"`
	Entries           map[Address]uint32 `json:"entries,omitempty"`
	RegistrationOpen  bool               `json:"registration_open"`
	HasStarted        bool               `json:"has_started"`
	CreatedAt         time.Time          `json:"created_at"`
	UpdatedAt         time.Time          `json:"updated_at"`
}

// HasNFTPlace reports whether an NFT prize is escrowed for the given place
func (t *TournamentAccount) HasNFTPlace(place uint16) bool {
	_, found := slices.BinarySearch(t.NFTPayouts, place)
	return found
}

// AddNFTPlace inserts place into the sorted NFT payout set
func (t *TournamentAccount) AddNFTPlace(place uint16) {
	i, found := slices.BinarySearch(t.NFTPayouts, place)
	if !found {
		t.NFTPayouts = slices.Insert(t.NFTPayouts, i, place)
	}
}

// RemoveNFTPlace removes place from the NFT payout set
func (t *TournamentAccount) RemoveNFTPlace(place uint16) {
	if i, found := slices.BinarySearch(t.NFTPayouts, place); found {
		t.NFTPayouts = slices.Delete(t.NFTPayouts, i, i+1)
	}
}

// TournamentPlayerAccount is the registration receipt of one participant.
// Its existence is the registration.
type TournamentPlayerAccount struct {
	Tournament       EntityID  `json:"tournament"`
	Player           Address   `json:"player"`
	PositionFinished uint16    `json:"position_finished"`
	HasBusted        bool      `json:"has_busted"`
	Rebuys           uint32    `json:"rebuys"`
	RegisteredAt     time.Time `json:"registered_at"`
}

// NFTPrize is the escrow record for the non-fungible prizes of one place
type NFTPrize struct {
	Tournament EntityID    `json:"tournament"`
	Place      uint16      `json:"place"`
	Mints      []TokenKind `json:"mints"`
}
