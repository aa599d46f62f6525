package stk

import "github.com/shopspring/decimal"

// Percent is a ratio expressed in percent (5.56 means 5.56%). It keeps every
// digit, rounding happens in String.
type Percent struct{ value decimal.Decimal }

// Pct returns v as a Percent.
func Pct(v decimal.Decimal) Percent { return Percent{v} }

func (p Percent) Value() decimal.Decimal { return p.value }

func (p Percent) IsZero() bool { return p.value.IsZero() }

func (p Percent) Equal(q Percent) bool { return p.value.Equal(q.value) }

func (p Percent) String() string {
	return p.value.StringFixed(2) + "%"
}

// SignedString is String with an explicit sign, or "-" when it rounds to 0.
func (p Percent) SignedString() string {
	r := p.value.Round(2)
	switch {
	case r.IsZero():
		return "-"
	case r.IsPositive():
		return "+" + r.StringFixed(2) + "%"
	}
	return r.StringFixed(2) + "%"
}
