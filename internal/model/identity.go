package model

import "time"

// Identity is a party that can sign ledger operations
type Identity struct {
	Address     Address   `json:"address"`
	DisplayName string    `json:"display_name"`
	IsGuest     bool      `json:"is_guest"` // true for identities without credentials
	CreatedAt   time.Time `json:"created_at"`
}

// Credential holds login data for a registered identity.
// Stored separately so password hashes never travel with sessions.
type Credential struct {
	Address      Address   `json:"address"`
	Username     string    `json:"username"` // immutable
	PasswordHash string    `json:"password_hash"`
	CreatedAt    time.Time `json:"created_at"`
}
