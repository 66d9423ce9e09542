package settlement

import (
	"math/bits"

	"github.com/mcoot/stakeledger/internal/model"
)

// Add returns a+b or ErrOverflow
func Add(a, b uint64) (uint64, error) {
	sum, carry := bits.Add64(a, b, 0)
	if carry != 0 {
		return 0, model.ErrOverflow
	}
	return sum, nil
}

// Sub returns a-b or ErrUnderflow
func Sub(a, b uint64) (uint64, error) {
	diff, borrow := bits.Sub64(a, b, 0)
	if borrow != 0 {
		return 0, model.ErrUnderflow
	}
	return diff, nil
}

// Mul returns a*b or ErrOverflow
func Mul(a, b uint64) (uint64, error) {
	hi, lo := bits.Mul64(a, b)
	if hi != 0 {
		return 0, model.ErrOverflow
	}
	return lo, nil
}

// MulDiv returns a*b/d truncated, using a 128-bit intermediate so that
// large pools cannot overflow before the division.
func MulDiv(a, b, d uint64) (uint64, error) {
	if d == 0 {
		return 0, model.ErrOverflow
	}
	hi, lo := bits.Mul64(a, b)
	if hi >= d {
		return 0, model.ErrOverflow
	}
	q, _ := bits.Div64(hi, lo, d)
	return q, nil
}
