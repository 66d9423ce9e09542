package storage

import (
	"fmt"

	"github.com/mcoot/stakeledger/internal/model"
)

// Key prefix for all ledger data
const keyPrefix = "stakeledger"

// GameKey returns the key for a GameAccount
func GameKey(id model.EntityID) string {
	return fmt.Sprintf("%s:game:%s", keyPrefix, id)
}

// TournamentKey returns the key for a TournamentAccount
func TournamentKey(id model.EntityID) string {
	return fmt.Sprintf("%s:tournament:%s", keyPrefix, id)
}

// ReceiptKey returns the key for a TournamentPlayerAccount
func ReceiptKey(tournament model.EntityID, player model.Address) string {
	return fmt.Sprintf("%s:receipt:%s:%s", keyPrefix, tournament, player)
}

// NFTPrizeKey returns the key for the NFT escrow of one place
func NFTPrizeKey(tournament model.EntityID, place uint16) string {
	return fmt.Sprintf("%s:nft_prize:%s:%d", keyPrefix, tournament, place)
}

// TokenAccountKey returns the key for a custody TokenAccount
func TokenAccountKey(addr model.Address) string {
	return fmt.Sprintf("%s:token_account:%s", keyPrefix, addr)
}

// IdentityKey returns the key for an Identity
func IdentityKey(addr model.Address) string {
	return fmt.Sprintf("%s:identity:%s", keyPrefix, addr)
}

// CredentialKey returns the key for a Credential
func CredentialKey(addr model.Address) string {
	return fmt.Sprintf("%s:credential:%s", keyPrefix, addr)
}

// UsernameIndexKey returns the key for the username -> address index
func UsernameIndexKey(username string) string {
	return fmt.Sprintf("%s:idx:username:%s", keyPrefix, username)
}
