// Package format holds the display formatting shared by audit detail strings
// and the HTTP adapter: currency with a thousands separator, percentages, and
// short dates.
package format

import (
	"fmt"
	"strings"
	"time"
)

// Currency renders v as "$1,234.56" (two decimals, comma separators).
func Currency(v float64) string {
	s := fmt.Sprintf("%.2f", v)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	whole, frac, _ := strings.Cut(s, ".")
	out := groupThousands(whole) + "." + frac
	if neg {
		return "-$" + out
	}
	return "$" + out
}

// Amount renders v like Currency but drops the cents when they are zero,
// e.g. "$100,000" — the form used by the auto-decision threshold messages.
func Amount(v float64) string {
	s := Currency(v)
	return strings.TrimSuffix(s, ".00")
}

// Percent renders a fractional rate as a percentage with one decimal,
// e.g. 0.08 -> "8.0%".
func Percent(rate float64) string {
	return fmt.Sprintf("%.1f%%", rate*100)
}

// Date renders t as "Jan 2, 2006".
func Date(t time.Time) string {
	return t.Format("Jan 2, 2006")
}

func groupThousands(digits string) string {
	n := len(digits)
	if n <= 3 {
		return digits
	}
	var b strings.Builder
	head := n % 3
	if head > 0 {
		b.WriteString(digits[:head])
	}
	for i := head; i < n; i += 3 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(digits[i : i+3])
	}
	return b.String()
}
