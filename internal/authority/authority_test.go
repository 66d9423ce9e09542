package authority

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/stakeledger/internal/model"
)

func TestVaultAddressIsDeterministic(t *testing.T) {
	a := VaultAddress("game-1")
	b := VaultAddress("game-1")

	assert.Equal(t, a, b)
	assert.Len(t, string(a), 64)
	assert.NotEqual(t, a, VaultAddress("game-2"))
}

func TestVaultSignerMatchesRecomputedAddress(t *testing.T) {
	signer := Vault("game-1")

	assert.Equal(t, VaultAddress("game-1"), signer.Address())
	assert.Equal(t, model.EntityID("game-1"), signer.Entity())
	assert.True(t, Verify(signer, "game-1"))
	assert.False(t, Verify(signer, "game-2"))
}

func TestIdentityIsNotAVaultAuthority(t *testing.T) {
	owner := Identity("owner-1")

	assert.Equal(t, model.Address("owner-1"), owner.Address())
	assert.False(t, Verify(owner, "game-1"))
	assert.False(t, Verify(nil, "game-1"))
}

func TestDerivationsAreDomainSeparated(t *testing.T) {
	// The same bytes fed to different derivations must not collide
	assert.NotEqual(t, string(VaultAddress("x")), string(EntityID("x", "")))
	assert.NotEqual(t, AssociatedAccount("a", "b"), AssociatedAccount("ab", ""))
	assert.NotEqual(t, EntityID("ab", "c"), EntityID("a", "bc"))
}

func TestEscrowAddressDependsOnPlace(t *testing.T) {
	first := EscrowAddress("tournament-1", 1)
	second := EscrowAddress("tournament-1", 2)

	assert.NotEqual(t, first, second)
	assert.Equal(t, first, Escrow("tournament-1", 1).Address())
}

func TestAssociatedAccountPerKind(t *testing.T) {
	usdc := AssociatedAccount("player-1", "usdc")
	bonk := AssociatedAccount("player-1", "bonk")

	assert.NotEqual(t, usdc, bonk)
	assert.Equal(t, usdc, AssociatedAccount("player-1", "usdc"))
}
