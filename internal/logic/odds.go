package logic

import (
	"errors"
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

var ErrInvalidOdds = errors.New("invalid american odds")

var hundred = decimal.NewFromInt(100)

// ParseAmericanOdds parses "-110" or "+150". Values between -100 and +100
// are not valid American odds.
func ParseAmericanOdds(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	d, err := decimal.NewFromString(strings.TrimPrefix(s, "+"))
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidOdds, s)
	}
	if !d.IsInteger() || d.Abs().LessThan(hundred) {
		return decimal.Zero, fmt.Errorf("%w: %q", ErrInvalidOdds, s)
	}
	return d, nil
}

// ImpliedProbability converts American odds into the break-even win
// probability, rounded to four places. Empty odds yield nil.
func ImpliedProbability(odds string) (*float64, error) {
	if strings.TrimSpace(odds) == "" {
		return nil, nil
	}
	d, err := ParseAmericanOdds(odds)
	if err != nil {
		return nil, err
	}

	var p decimal.Decimal
	if d.IsNegative() {
		risk := d.Abs()
		p = risk.Div(risk.Add(hundred))
	} else {
		p = hundred.Div(d.Add(hundred))
	}
	f, _ := p.Round(4).Float64()
	return &f, nil
}
