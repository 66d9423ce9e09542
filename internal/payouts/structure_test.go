package payouts

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/mcoot/stakeledger/internal/settlement"
)

func TestEveryTierSumsToOneThousand(t *testing.T) {
	for _, tier := range Tiers {
		assert.NoError(t, settlement.ValidatePayouts(tier.Payouts), "tier %d", tier.MaxPlayers)
	}
}

func TestTiersAreOrdered(t *testing.T) {
	for i := 1; i < len(Tiers); i++ {
		assert.Greater(t, Tiers[i].MaxPlayers, Tiers[i-1].MaxPlayers)
	}
}

func TestForFieldSize(t *testing.T) {
	assert.Equal(t, []uint16{1000}, ForFieldSize(2))
	assert.Equal(t, []uint16{700, 300}, ForFieldSize(3))
	assert.Equal(t, []uint16{700, 300}, ForFieldSize(10))
	assert.Len(t, ForFieldSize(11), 4)
	assert.Len(t, ForFieldSize(500), 20)
}

func TestForFieldSizeReturnsCopy(t *testing.T) {
	p := ForFieldSize(2)
	p[0] = 1

	assert.Equal(t, uint16(1000), Tiers[0].Payouts[0])
}
