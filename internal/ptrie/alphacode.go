package ptrie

import "fmt"

const (
	alphaBase    = 36
	maxRefDigits = 8
)

// fromAlphaCode decodes a base-36 reference ("0"-"9", "A"-"Z"). Longer codes
// start after the range of all shorter ones, so "00" is 36.
func fromAlphaCode(s string) (int, error) {
	if s == "" {
		return 0, fmt.Errorf("empty reference")
	}
	if len(s) > maxRefDigits {
		return 0, fmt.Errorf("reference %q too long", s)
	}
	n := 0
	rng := alphaBase
	for places := 1; places < len(s); places++ {
		n += rng
		rng *= alphaBase
	}
	pow := 1
	for i := len(s) - 1; i >= 0; i-- {
		d, ok := alphaDigit(s[i])
		if !ok {
			return 0, fmt.Errorf("invalid reference %q", s)
		}
		n += d * pow
		pow *= alphaBase
	}
	return n, nil
}

func alphaDigit(c byte) (int, bool) {
	switch {
	case c >= '0' && c <= '9':
		return int(c - '0'), true
	case c >= 'A' && c <= 'Z':
		return int(c-'A') + 10, true
	default:
		return 0, false
	}
}

func isRefByte(c byte) bool {
	_, ok := alphaDigit(c)
	return ok
}
