package syndication

import (
	"math"
	"strconv"
	"strings"
)

const radixDigits = "0123456789abcdefghijklmnopqrstuvwxyz"

// Token derives the opaque "token" query parameter the syndication endpoint
// expects for a post id. The value is id / 1e15 * π printed in base 36 the
// way a JavaScript engine prints numbers, with every '0' and '.' removed.
// The endpoint rejects anything else, so the digit generation below must
// match Number.prototype.toString(36) exactly.
func Token(id string) string {
	n, err := strconv.ParseFloat(id, 64)
	if err != nil {
		n = math.NaN()
	}
	s := formatRadix(n/1e15*math.Pi, 36)
	return strings.NewReplacer("0", "", ".", "").Replace(s)
}

// formatRadix prints value in the given radix, emitting only as many
// fractional digits as are needed to identify the double uniquely.
func formatRadix(value float64, radix int) string {
	switch {
	case math.IsNaN(value):
		return "NaN"
	case math.IsInf(value, 1):
		return "Infinity"
	case math.IsInf(value, -1):
		return "-Infinity"
	case value == 0:
		return "0"
	}

	negative := value < 0
	if negative {
		value = -value
	}
	r := float64(radix)

	integer := math.Floor(value)
	fraction := value - integer

	delta := 0.5 * (math.Nextafter(value, math.Inf(1)) - value)
	delta = math.Max(math.Nextafter(0, 1), delta)

	var frac []byte
	if fraction >= delta {
		frac = append(frac, '.')
		for {
			fraction *= r
			delta *= r
			digit := int(fraction)
			frac = append(frac, radixDigits[digit])
			fraction -= float64(digit)

			if fraction > 0.5 || (fraction == 0.5 && digit&1 == 1) {
				if fraction+delta > 1 {
					// Round up, propagating the carry through digits already written.
					for {
						last := len(frac) - 1
						if last == 0 {
							integer++
							break
						}
						d := strings.IndexByte(radixDigits, frac[last])
						if d+1 < radix {
							frac[last] = radixDigits[d+1]
							break
						}
						frac = frac[:last]
					}
					break
				}
			}
			if fraction < delta {
				break
			}
		}
		if len(frac) == 1 {
			frac = frac[:0]
		}
	}

	var digits []byte
	for exponent(integer/r) > 0 {
		integer /= r
		digits = append(digits, '0')
	}
	for {
		rem := math.Mod(integer, r)
		digits = append(digits, radixDigits[int(rem)])
		integer = (integer - rem) / r
		if integer <= 0 {
			break
		}
	}
	if negative {
		digits = append(digits, '-')
	}
	for i, j := 0, len(digits)-1; i < j; i, j = i+1, j-1 {
		digits[i], digits[j] = digits[j], digits[i]
	}

	return string(digits) + string(frac)
}

// exponent returns the binary exponent of v with the significand read as
// a 53-bit integer, so values at or above 2^53 report a positive exponent.
func exponent(v float64) int {
	bits := math.Float64bits(v)
	biased := int(bits>>52) & 0x7ff
	if biased == 0 {
		return 1 - 1075
	}
	return biased - 1075
}
