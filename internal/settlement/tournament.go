package settlement

import (
	"github.com/mcoot/stakeledger/internal/model"
)

// ValidatePayouts checks that a payout schedule sums to exactly 1000
func ValidatePayouts(payouts []uint16) error {
	var sum uint64
	for _, p := range payouts {
		sum += uint64(p)
	}
	if sum != model.PayoutScale {
		return model.ErrInvalidPayoutsArray
	}
	return nil
}

// MinPlayers is the largest of the number of paid places, the highest NFT
// prize place, and 2.
func MinPlayers(payouts []uint16, nftPlaces []uint16) uint16 {
	minPlayers := uint16(2)
	if n := len(payouts); n > int(minPlayers) {
		minPlayers = uint16(min(n, int(^uint16(0))))
	}
	for _, place := range nftPlaces {
		minPlayers = max(minPlayers, place)
	}
	return minPlayers
}

// PrizePool is the larger of the collected entry costs and the guarantee
func PrizePool(entryCost uint64, playersWithRebuys uint16, guarantee uint64) (uint64, error) {
	collected, err := Mul(entryCost, uint64(playersWithRebuys))
	if err != nil {
		return 0, err
	}
	return max(collected, guarantee), nil
}

// InTheMoney reports whether every remaining player is guaranteed a paid
// place: registration must be closed and the paid places must cover them.
func InTheMoney(t *model.TournamentAccount) bool {
	return !t.RegistrationOpen && t.Players > 0 && len(t.Payouts) >= int(t.Players)
}

// PlacePayout is the share of pool paid to the given finishing place
// (1-based). The division truncates; the remainder stays in the vault and is
// swept to the owner when the tournament closes.
func PlacePayout(payouts []uint16, place uint16, pool uint64) (uint64, error) {
	if place == 0 || int(place) > len(payouts) {
		return 0, nil
	}
	return MulDiv(uint64(payouts[place-1]), pool, model.PayoutScale)
}

// BustPayout computes what busting a player out of t pays right now
func BustPayout(t *model.TournamentAccount) (uint64, error) {
	if !InTheMoney(t) {
		return 0, nil
	}
	pool, err := PrizePool(t.EntryCost, t.PlayersWithRebuys, t.Guarantee)
	if err != nil {
		return 0, err
	}
	return PlacePayout(t.Payouts, t.Players, pool)
}
