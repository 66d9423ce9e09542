package cli

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/mcoot/stakeledger/internal/api/request"
)

func parseAmount(s string) (uint64, error) {
	amount, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid amount %q: must be a whole number of base units", s)
	}
	return amount, nil
}

// parseAdjustment parses "player:+50" or "player:-20"
func parseAdjustment(s string) (request.Adjustment, error) {
	i := strings.LastIndex(s, ":")
	if i <= 0 || i == len(s)-1 {
		return request.Adjustment{}, fmt.Errorf("invalid adjustment %q: expected player:+amount or player:-amount", s)
	}

	player, delta := s[:i], s[i+1:]
	op := "add"
	switch delta[0] {
	case '+':
		delta = delta[1:]
	case '-':
		op = "sub"
		delta = delta[1:]
	}

	amount, err := parseAmount(delta)
	if err != nil {
		return request.Adjustment{}, err
	}
	return request.Adjustment{Player: player, Op: op, Amount: amount}, nil
}

// parsePayouts parses a schedule like "500,300,200"
func parsePayouts(s string) ([]uint16, error) {
	if s == "" {
		return nil, nil
	}
	parts := strings.Split(s, ",")
	payouts := make([]uint16, len(parts))
	for i, p := range parts {
		v, err := strconv.ParseUint(strings.TrimSpace(p), 10, 16)
		if err != nil {
			return nil, fmt.Errorf("invalid payout share %q", p)
		}
		payouts[i] = uint16(v)
	}
	return payouts, nil
}

func parsePlace(s string) (uint16, error) {
	place, err := strconv.ParseUint(s, 10, 16)
	if err != nil || place == 0 {
		return 0, fmt.Errorf("invalid place %q: must be 1 or more", s)
	}
	return uint16(place), nil
}
