package settlement

import (
	"github.com/mcoot/stakeledger/internal/model"
)

// ApplyAdjustments applies each adjustment to the named seat in order.
// It works on a copy: on error the returned slice is nil and seats is untouched.
func ApplyAdjustments(seats []model.SeatedPlayer, adjustments []model.Adjustment) ([]model.SeatedPlayer, error) {
	out := make([]model.SeatedPlayer, len(seats))
	copy(out, seats)

	index := make(map[model.Address]int, len(out))
	for i, s := range out {
		index[s.Address] = i
	}

	for _, adj := range adjustments {
		i, ok := index[adj.Player]
		if !ok {
			return nil, model.ErrNotAtTable
		}
		var err error
		switch adj.Op {
		case model.SettleAdd:
			out[i].Balance, err = Add(out[i].Balance, adj.Amount)
		case model.SettleSub:
			out[i].Balance, err = Sub(out[i].Balance, adj.Amount)
		default:
			return nil, model.ErrInvalidGameConfig
		}
		if err != nil {
			return nil, err
		}
	}
	return out, nil
}

// ReconcileAddOns moves pending add-ons into balances, each clamped so the
// balance does not exceed maxDeposit. Leftover add-on stays pending.
func ReconcileAddOns(seats []model.SeatedPlayer, maxDeposit uint64) {
	for i := range seats {
		s := &seats[i]
		if s.AddOn == 0 || s.Balance >= maxDeposit {
			continue
		}
		toAdd := min(s.AddOn, maxDeposit-s.Balance)
		s.Balance += toAdd
		s.AddOn -= toAdd
	}
}

// SeatTotal is what a seat is owed on cash-out: balance plus pending add-on
func SeatTotal(s model.SeatedPlayer) (uint64, error) {
	return Add(s.Balance, s.AddOn)
}

// SeatsTotal sums every seat's balance and add-on
func SeatsTotal(seats []model.SeatedPlayer) (uint64, error) {
	var total uint64
	for _, s := range seats {
		owed, err := SeatTotal(s)
		if err != nil {
			return 0, err
		}
		if total, err = Add(total, owed); err != nil {
			return 0, err
		}
	}
	return total, nil
}
