// Package report turns a comparison result into artifacts: an HTML
// page, colored terminal text, JSON, or a msgpack payload for
// downstream tooling.
package report

import (
	"fmt"
	"math"
	"strings"

	"nastrandiff/internal/canon"
	"nastrandiff/internal/field"
)

// FormatFloat renders a real value the way solvers print it into a
// fixed-width field: plain decimal when it fits, scientific notation
// with the mantissa trimmed digit by digit when it does not.
func FormatFloat(f float64, width int) string {
	txt := ""
	remaining := width
	if f < 0 {
		txt = "-"
		remaining--
		f = -f
	}

	switch {
	case f >= math.Pow(10, float64(remaining-5)):
		s := fmt.Sprintf("%E", f)
		if !strings.Contains(s, ".") {
			s = strings.Replace(s, "E", ".E", 1)
		} else {
			s = trimMantissa(s, width-len(txt))
		}
		txt += s
	case f < 1e-99:
		txt += "0.0"
	case f < math.Pow(10, float64(4-remaining)):
		txt += trimMantissa(fmt.Sprintf("%.*E", remaining, f), width-len(txt))
	default:
		s := fmt.Sprintf("%.*g", remaining-1, f)
		if !strings.Contains(s, ".") {
			s = strings.TrimSpace(s) + "."
		}
		if len(s) > width-len(txt) {
			s = s[:width-len(txt)]
		}
		txt += s
	}

	if len(txt) < width {
		txt += strings.Repeat(" ", width-len(txt))
	}
	return txt
}

// trimMantissa drops mantissa digits in front of the exponent marker
// until the string fits. The decimal point is never dropped.
func trimMantissa(s string, width int) string {
	for len(s) > width {
		i := strings.Index(s, "E")
		if i <= 0 || s[i-1] < '0' || s[i-1] > '9' {
			break
		}
		s = s[:i-1] + s[i:]
	}
	return s
}

// FormatCard renders a canonical card in small-field layout for
// display: the type in the keyword slot, each field in an 8-column
// slot.
func FormatCard(c canon.Card) string {
	var b strings.Builder
	fmt.Fprintf(&b, "%-8s", c.Key.Type)
	for _, v := range c.Fields {
		b.WriteString(formatField(v))
	}
	return strings.TrimRight(b.String(), " ")
}

func formatField(v field.Value) string {
	switch v.Kind {
	case field.KindReal:
		return FormatFloat(v.Real, 8)
	case field.KindInt:
		return fmt.Sprintf("%-8d", v.Int)
	case field.KindBlank:
		return "        "
	default:
		return fmt.Sprintf("%-8s", v.Text)
	}
}
