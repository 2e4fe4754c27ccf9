package loadsheet

import (
	"math"
	"strconv"
	"strings"
)

// ParseTruncated parses s as a decimal number and truncates toward zero.
// Anything that does not parse to a finite int64 yields 0.
func ParseTruncated(s string) int64 {
	v, ok := parseTruncated(s)
	if !ok {
		return 0
	}
	return v
}

func parseTruncated(s string) (int64, bool) {
	s, ok := decimalLiteral(strings.TrimSpace(s))
	if !ok {
		return 0, false
	}

	f, err := strconv.ParseFloat(s, 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}

	t := math.Trunc(f)
	if t >= math.MaxInt64 || t < math.MinInt64 {
		return 0, false
	}
	return int64(t), true
}

// decimalLiteral rejects hexadecimal literals and removes underscores that
// sit between two digits ("1_000"). Any other underscore is invalid.
func decimalLiteral(s string) (string, bool) {
	unsigned := strings.TrimLeft(s, "+-")
	if len(unsigned) > 1 && unsigned[0] == '0' && (unsigned[1] == 'x' || unsigned[1] == 'X') {
		return "", false
	}
	if !strings.Contains(s, "_") {
		return s, true
	}

	var b strings.Builder
	for i := 0; i < len(s); i++ {
		if s[i] != '_' {
			b.WriteByte(s[i])
			continue
		}
		if i == 0 || i == len(s)-1 || !isDigit(s[i-1]) || !isDigit(s[i+1]) {
			return "", false
		}
	}
	return b.String(), true
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
