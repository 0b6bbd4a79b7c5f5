package parse

import (
	"math"
	"math/big"
)

// shiftSaturation caps the folded decimal shift; any shift this large is
// already far past the float64 range in either direction.
const shiftSaturation = int64(1) << 40

// number: integer fraction exponent
//
// The value is tagged int64 only when neither fraction nor exponent is
// present; otherwise it is a float64, even when the numeric value is
// integral.
func nextNumber(buf []byte, idx int) (int, interface{}) {
	intEnd := nextInteger(buf, idx)
	if intEnd == idx {
		return idx, nil
	}
	fracEnd := nextFraction(buf, intEnd)
	expEnd := nextExponent(buf, fracEnd)

	hasFraction := fracEnd != intEnd
	hasExponent := expEnd != fracEnd

	intValue := foldInteger(buf, idx, intEnd)
	if !hasFraction && !hasExponent {
		return intEnd, intValue
	}

	floatValue := float64(intValue)
	if hasFraction {
		// digits sit between the '.' at intEnd and fracEnd
		weight := int64(1)
		fraction := int64(0)
		for i := fracEnd - 1; i > intEnd; i-- {
			fraction += int64(buf[i]-'0') * weight
			weight *= 10
		}
		part := float64(fraction) / float64(weight)
		if buf[idx] == '-' {
			floatValue -= part
		} else {
			floatValue += part
		}
	}
	if hasExponent {
		floatValue = applyExponent(buf, fracEnd, expEnd, floatValue)
	}
	return expEnd, floatValue
}

// integer: digit | onenine digits | '-' digit | '-' onenine digits
func nextInteger(buf []byte, idx int) int {
	next := idx
	if next < len(buf) && buf[next] == '-' {
		next++
	}
	if next >= len(buf) || !isDigit(buf[next]) {
		return idx
	}
	if buf[next] == '0' {
		return next + 1
	}
	return nextDigits(buf, next)
}

// fraction: "" | '.' digits
func nextFraction(buf []byte, idx int) int {
	if idx < len(buf) && buf[idx] == '.' {
		if next := nextDigits(buf, idx+1); next != idx+1 {
			return next
		}
	}
	return idx
}

// exponent: "" | 'E' sign digits | 'e' sign digits
func nextExponent(buf []byte, idx int) int {
	if idx < len(buf) && (buf[idx] == 'E' || buf[idx] == 'e') {
		next := nextSign(buf, idx+1)
		if after := nextDigits(buf, next); after != next {
			return after
		}
	}
	return idx
}

// foldInteger accumulates the digit run right to left into a signed 64-bit
// value, applying the leading sign at the end. There is no overflow check:
// wraparound on runs past 19 digits is accepted boundary behavior, and the
// scalar entry points that need exact bounds check the folded value, not the
// text.
func foldInteger(buf []byte, start, end int) int64 {
	first := start
	if buf[first] == '-' {
		first++
	}
	value := int64(0)
	weight := int64(1)
	for i := end - 1; i >= first; i-- {
		value += int64(buf[i]-'0') * weight
		weight *= 10
	}
	if buf[start] == '-' {
		value = -value
	}
	return value
}

// applyExponent shifts the decimal point of value by the exponent spelled at
// buf[idx:end] ('E'/'e', optional sign, digit run). The run may be
// arbitrarily long, so the fold saturates: once the accumulated shift passes
// shiftSaturation the remaining digits cannot change the rescaled outcome.
func applyExponent(buf []byte, idx, end int, value float64) float64 {
	digits := idx + 1
	negate := false
	switch buf[digits] {
	case '-':
		negate = true
		digits++
	case '+':
		digits++
	}

	shift := int64(0)
	for i := digits; i < end; i++ {
		if shift >= shiftSaturation {
			break
		}
		shift = shift*10 + int64(buf[i]-'0')
	}
	if shift > shiftSaturation {
		shift = shiftSaturation
	}
	if negate {
		shift = -shift
	}
	return rescale(value, shift)
}

// rescale moves the decimal point of value by shift places. The
// multiplication goes through math/big, so exponents far beyond the native
// float64 range resolve to IEEE-754 saturation (signed infinity on overflow,
// signed zero on underflow) instead of NaN.
func rescale(value float64, shift int64) float64 {
	if shift == 0 || value == 0 || math.IsInf(value, 0) || math.IsNaN(value) {
		return value
	}
	// decimal magnitude after the shift, accurate to well under one place;
	// float64 spans roughly 1e-324 .. 1e308
	magnitude := float64(shift) + math.Log10(math.Abs(value))
	if magnitude > 350 {
		if value > 0 {
			return math.Inf(1)
		}
		return math.Inf(-1)
	}
	if magnitude < -350 {
		return math.Copysign(0, value)
	}

	exp := shift
	if exp < 0 {
		exp = -exp
	}
	scale := new(big.Float).SetPrec(128).SetInt(new(big.Int).Exp(big.NewInt(10), big.NewInt(exp), nil))
	f := new(big.Float).SetPrec(128).SetFloat64(value)
	if shift < 0 {
		f.Quo(f, scale)
	} else {
		f.Mul(f, scale)
	}
	out, _ := f.Float64()
	return out
}
