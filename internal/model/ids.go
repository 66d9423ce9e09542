package model

// Address identifies any party the ledger deals with: participants, owners,
// transactors, vault authorities and custody token accounts.
type Address string

// TokenKind names a fungible asset (or a single non-fungible mint).
type TokenKind string

// EntityID identifies a game or tournament account.
type EntityID string
