package stk

import (
	"context"
	"time"

	"github.com/shopspring/decimal"
)

// USD is a helper for test to create usd money from const
func USD(v float64) Money { return M(v, "USD") }

// NO is a helper for test to create money from const with no currency set
func NO(v float64) Money { return M(v, "") }

// decimalOf parses a decimal constant, panics if invalid.
func decimalOf(s string) decimal.Decimal { return decimal.RequireFromString(s) }

// d is a short for decimal.NewFromFloat in tables.
func d(v float64) decimal.Decimal { return decimal.NewFromFloat(v) }

// clock returns a fake clock starting at start and advancing one minute per call.
func clock(start time.Time) func() time.Time {
	now := start
	return func() time.Time {
		t := now
		now = now.Add(time.Minute)
		return t
	}
}

var day0 = time.Date(2025, time.March, 3, 10, 0, 0, 0, time.UTC)

// fakeQuotes is a PriceSource with fixed answers.
type fakeQuotes struct {
	prices    map[string]decimal.Decimal
	companies map[string]string
}

func (f *fakeQuotes) CurrentPrice(_ context.Context, ticker string) (decimal.Decimal, bool) {
	p, ok := f.prices[ticker]
	return p, ok
}

func (f *fakeQuotes) CompanyName(_ context.Context, ticker string) (string, bool) {
	c, ok := f.companies[ticker]
	return c, ok
}

func (f *fakeQuotes) CurrentPrices(ctx context.Context, tickers []string) map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal)
	for _, t := range tickers {
		if p, ok := f.CurrentPrice(ctx, t); ok {
			res[t] = p
		}
	}
	return res
}
