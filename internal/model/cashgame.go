package model

import "time"

// GameStatus selects how AddChips credits a seat
type GameStatus string

const (
	GameStatusInactive GameStatus = "inactive" // top-ups land in the seat balance
	GameStatusActive   GameStatus = "active"   // top-ups wait in add_on until the next settle
)

// SeatedPlayer is a participant's seat and live balance within a cash game
type SeatedPlayer struct {
	Address Address `json:"address"`
	Balance uint64  `json:"balance"`
	AddOn   uint64  `json:"add_on"`
}

// GameAccount is the ledger record for one cash game
type GameAccount struct {
	ID         EntityID       `json:"id"`
	Owner      Address        `json:"owner"`
	MinDeposit uint64         `json:"min_deposit"`
	MaxDeposit uint64         `json:"max_deposit"`
	MaxPlayers uint16         `json:"max_players"`
	TokenKind  TokenKind      `json:"token_kind"`
	Status     GameStatus     `json:"status"`
	Players    []SeatedPlayer `json:"players"` // seating order
	CreatedAt  time.Time      `json:"created_at"`
	UpdatedAt  time.Time      `json:"updated_at"`
}

// SeatIndex returns the seat position of the given address, or -1
func (g *GameAccount) SeatIndex(addr Address) int {
	for i := range g.Players {
		if g.Players[i].Address == addr {
			return i
		}
	}
	return -1
}

// GetSeat returns the seat for the given address, or nil if not seated
func (g *GameAccount) GetSeat(addr Address) *SeatedPlayer {
	if i := g.SeatIndex(addr); i >= 0 {
		return &g.Players[i]
	}
	return nil
}

// RemoveSeat drops the seat at index i, preserving seating order
func (g *GameAccount) RemoveSeat(i int) {
	g.Players = append(g.Players[:i], g.Players[i+1:]...)
}

// IsFull reports whether every seat is taken
func (g *GameAccount) IsFull() bool {
	return len(g.Players) >= int(g.MaxPlayers)
}

// Clone returns a deep copy of the game account
func (g *GameAccount) Clone() *GameAccount {
	c := *g
	c.Players = make([]SeatedPlayer, len(g.Players), max(len(g.Players), int(g.MaxPlayers)))
	copy(c.Players, g.Players)
	return &c
}

// SettleOpKind is the direction of a settlement adjustment
type SettleOpKind string

const (
	SettleAdd SettleOpKind = "add"
	SettleSub SettleOpKind = "sub"
)

// Adjustment is one externally reported balance change for a seated player
type Adjustment struct {
	Player Address      `json:"player"`
	Op     SettleOpKind `json:"op"`
	Amount uint64       `json:"amount"`
}
