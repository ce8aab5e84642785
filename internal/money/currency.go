package money

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/shopspring/decimal"
)

// Glyph prefixes every formatted amount.
const Glyph = "₹"

var ErrParse = errors.New("not a valid amount")

// ParseError reports a display string that does not hold a number once the
// glyph and grouping separators are removed.
type ParseError struct {
	Input string
	Err   error
}

func (e *ParseError) Error() string {
	if e.Err != nil && !errors.Is(e.Err, ErrParse) {
		return fmt.Sprintf("parse amount %q: %v: %v", e.Input, ErrParse, e.Err)
	}
	return fmt.Sprintf("parse amount %q: %v", e.Input, ErrParse)
}

func (e *ParseError) Unwrap() error { return ErrParse }

// Format renders amount with two decimals and lakh/crore digit grouping,
// e.g. 1234567.5 -> "₹12,34,567.50".
func Format(amount float64) string {
	if math.IsNaN(amount) || math.IsInf(amount, 0) {
		return Glyph + strconv.FormatFloat(amount, 'f', 2, 64)
	}

	fixed := decimal.NewFromFloat(amount).StringFixed(2)
	sign := ""
	if strings.HasPrefix(fixed, "-") {
		sign = "-"
		fixed = fixed[1:]
	}

	whole, frac, _ := strings.Cut(fixed, ".")
	return Glyph + sign + groupWhole(whole) + "." + frac
}

// groupWhole keeps the rightmost three digits together and splits the rest
// into pairs.
func groupWhole(whole string) string {
	if len(whole) <= 3 {
		return whole
	}

	head := whole[:len(whole)-3]
	tail := whole[len(whole)-3:]

	var b strings.Builder
	lead := len(head) % 2
	if lead > 0 {
		b.WriteString(head[:lead])
	}
	for i := lead; i < len(head); i += 2 {
		if b.Len() > 0 {
			b.WriteByte(',')
		}
		b.WriteString(head[i : i+2])
	}
	b.WriteByte(',')
	b.WriteString(tail)
	return b.String()
}

// Parse reverses Format. Any glyph, grouping commas and surrounding space are
// ignored; the remainder must be a plain decimal number.
func Parse(display string) (float64, error) {
	cleaned := strings.ReplaceAll(display, Glyph, "")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	cleaned = strings.TrimSpace(cleaned)
	if cleaned == "" {
		return 0, &ParseError{Input: display, Err: ErrParse}
	}

	d, err := decimal.NewFromString(cleaned)
	if err != nil {
		return 0, &ParseError{Input: display, Err: err}
	}
	return d.InexactFloat64(), nil
}
