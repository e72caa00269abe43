package common

import (
	"fmt"
	"strings"
)

// FormatMoney formats a dollar amount with thousands separators, two decimals.
func FormatMoney(v float64) string {
	return "$" + groupThousands(fmt.Sprintf("%.2f", v))
}

// FormatWholeMoney formats a dollar amount with thousands separators, no decimals.
func FormatWholeMoney(v float64) string {
	return "$" + groupThousands(fmt.Sprintf("%.0f", v))
}

// FormatSignedPct formats a percentage with an explicit sign, two decimals.
func FormatSignedPct(v float64) string {
	return fmt.Sprintf("%+.2f%%", v)
}

// FormatRatio formats a price/value ratio with an "x" suffix.
func FormatRatio(v float64) string {
	return fmt.Sprintf("%.2fx", v)
}

// FormatCount formats a whole number with thousands separators.
func FormatCount(v float64) string {
	return groupThousands(fmt.Sprintf("%.0f", v))
}

// groupThousands inserts commas into the integer part of a formatted number.
func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}

	intPart := s
	fracPart := ""
	if idx := strings.IndexByte(s, '.'); idx >= 0 {
		intPart = s[:idx]
		fracPart = s[idx:]
	}

	var sb strings.Builder
	for i, r := range intPart {
		if i > 0 && (len(intPart)-i)%3 == 0 {
			sb.WriteByte(',')
		}
		sb.WriteRune(r)
	}

	out := sb.String() + fracPart
	if neg {
		return "-" + out
	}
	return out
}
