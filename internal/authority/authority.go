// Package authority derives the deterministic identities that sign for
// ledger-held funds. A vault authority has no private key: its address is a
// pure function of the owning entity's identifier, so any caller can
// recompute and verify it, while only ledger code holds the Signer value that
// authorizes transfers out of the vault.
package authority

import (
	"encoding/binary"
	"encoding/hex"

	"golang.org/x/crypto/blake2b"

	"github.com/mcoot/stakeledger/internal/model"
)

// Domain tags keep the derivations for different purposes disjoint
const (
	tagEntity     = "stakeledger/entity"
	tagVault      = "stakeledger/vault"
	tagEscrow     = "stakeledger/nft-escrow"
	tagAssociated = "stakeledger/associated-account"
)

// Signer authorizes movement of funds out of accounts it owns
type Signer interface {
	Address() model.Address
}

// identity is a caller whose signature has been verified upstream
type identity struct {
	addr model.Address
}

func (i identity) Address() model.Address { return i.addr }

// Identity wraps an authenticated caller address as a Signer
func Identity(addr model.Address) Signer {
	return identity{addr: addr}
}

// VaultSigner is the program signer for one game or tournament vault
type VaultSigner struct {
	entity model.EntityID
	addr   model.Address
}

// Vault returns the signer capability for the entity's vault
func Vault(entity model.EntityID) VaultSigner {
	return VaultSigner{entity: entity, addr: VaultAddress(entity)}
}

// Address returns the vault authority address
func (v VaultSigner) Address() model.Address { return v.addr }

// Entity returns the entity this signer acts for
func (v VaultSigner) Entity() model.EntityID { return v.entity }

// Escrow returns the signer capability for the NFT escrow of one paid place
func Escrow(entity model.EntityID, place uint16) Signer {
	return identity{addr: EscrowAddress(entity, place)}
}

// EntityID derives a collision-free entity identifier from its creator and a salt
func EntityID(creator model.Address, salt string) model.EntityID {
	return model.EntityID(derive(tagEntity, []byte(creator), []byte(salt)))
}

// VaultAddress derives the vault authority address of an entity
func VaultAddress(entity model.EntityID) model.Address {
	return model.Address(derive(tagVault, []byte(entity)))
}

// EscrowAddress derives the NFT escrow authority for a tournament place
func EscrowAddress(entity model.EntityID, place uint16) model.Address {
	var p [2]byte
	binary.LittleEndian.PutUint16(p[:], place)
	return model.Address(derive(tagEscrow, []byte(entity), p[:]))
}

// AssociatedAccount derives the custody token account of owner for kind
func AssociatedAccount(owner model.Address, kind model.TokenKind) model.Address {
	return model.Address(derive(tagAssociated, []byte(owner), []byte(kind)))
}

// Verify reports whether signer is the vault authority of entity
func Verify(signer Signer, entity model.EntityID) bool {
	return signer != nil && signer.Address() == VaultAddress(entity)
}

// derive hashes length-prefixed fields under a domain tag
func derive(tag string, fields ...[]byte) string {
	h, _ := blake2b.New256([]byte(tag)) // keys up to 64 bytes never fail
	var n [4]byte
	for _, f := range fields {
		binary.BigEndian.PutUint32(n[:], uint32(len(f)))
		h.Write(n[:])
		h.Write(f)
	}
	return hex.EncodeToString(h.Sum(nil))
}
