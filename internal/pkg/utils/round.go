package utils

import (
	"math"
	"math/big"
	"strconv"
)

var hundred = big.NewRat(100, 1)

// Round2 rounds v to two decimal places, half away from zero. Rounding is
// done on the shortest decimal form of v, so 8.005 becomes 8.01 even though
// its binary value sits just below the half.
func Round2(v float64) float64 {
	if math.IsNaN(v) || math.IsInf(v, 0) || math.Abs(v) >= 1e15 {
		return v
	}
	r, ok := new(big.Rat).SetString(strconv.FormatFloat(v, 'f', -1, 64))
	if !ok {
		return math.Round(v*100) / 100
	}
	r.Mul(r, hundred)
	return FromHundredths(DivRoundHalfUp(r.Num().Int64(), r.Denom().Int64()))
}

// ToHundredths converts a two-decimal value to an exact integer count of
// hundredths.
func ToHundredths(v float64) int64 {
	return int64(math.Round(Round2(v) * 100))
}

// FromHundredths is the inverse of ToHundredths.
func FromHundredths(h int64) float64 {
	return float64(h) / 100
}

// DivRoundHalfUp returns num/den rounded half away from zero. den must be
// non-zero.
func DivRoundHalfUp(num, den int64) int64 {
	if den < 0 {
		num, den = -num, -den
	}
	neg := num < 0
	if neg {
		num = -num
	}
	q := (2*num + den) / (2 * den)
	if neg {
		return -q
	}
	return q
}

// Percentage returns part/whole*100 rounded to two decimals, or 0 when whole is 0.
func Percentage(part, whole int) float64 {
	if whole == 0 {
		return 0
	}
	return FromHundredths(DivRoundHalfUp(int64(part)*10000, int64(whole)))
}
