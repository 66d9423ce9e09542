// Package payouts holds the recommended payout schedules by field size.
package payouts

import "slices"

// Tier is the schedule used for fields of up to MaxPlayers entrants
type Tier struct {
	MaxPlayers int
	Payouts    []uint16
}

// Tiers are ordered by field size. Every schedule sums to 1000.
var Tiers = []Tier{
	{MaxPlayers: 2, Payouts: []uint16{1000}},
	{MaxPlayers: 10, Payouts: []uint16{700, 300}},
	{MaxPlayers: 20, Payouts: []uint16{400, 250, 200, 150}},
	{MaxPlayers: 30, Payouts: []uint16{350, 220, 150, 110, 90, 80}},
	{MaxPlayers: 40, Payouts: []uint16{330, 200, 120, 90, 80, 70, 60, 50}},
	{MaxPlayers: 50, Payouts: []uint16{310, 190, 98, 88, 78, 68, 55, 44, 37, 32}},
	{MaxPlayers: 75, Payouts: []uint16{290, 175, 89, 79, 69, 59, 47, 35, 29, 23, 21, 21, 21, 21, 21}},
	{MaxPlayers: 100, Payouts: []uint16{
		280, 170, 84, 75, 65, 55, 43, 29, 26, 18, 18, 18, 18, 18, 18, 13, 13, 13, 13, 13,
	}},
}

// ForFieldSize returns the schedule for a field of n entrants.
// Fields larger than the last tier use the last tier's schedule.
func ForFieldSize(n int) []uint16 {
	for _, t := range Tiers {
		if n <= t.MaxPlayers {
			return slices.Clone(t.Payouts)
		}
	}
	return slices.Clone(Tiers[len(Tiers)-1].Payouts)
}
