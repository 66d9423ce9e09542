package model

// TokenAccount is a custody balance of one token kind held by one owner
type TokenAccount struct {
	Address Address   `json:"address"`
	Owner   Address   `json:"owner"`
	Kind    TokenKind `json:"kind"`
	Amount  uint64    `json:"amount"`
}
