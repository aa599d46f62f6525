package renderer

import (
	"time"

	"github.com/etnz/stk"
)

// Holdings is the data of the holdings report.
// Numbers are kept in their exact types (Money, Quantity, Percent) so that
// templates can use their String and SignedString renderers.
type Holdings struct {
	Currency string
	// Date of the report, in the display location.
	Date      string
	Positions []Position
	// Invested is the purchase cost of all positions.
	Invested          stk.Money
	Value             stk.Money
	ProfitLoss        stk.Money
	ProfitLossPercent stk.Percent
}

// Position is a row of the holdings table.
type Position struct {
	Ticker            string
	Company           string
	Quantity          stk.Quantity
	PurchasePrice     stk.Money
	CurrentPrice      stk.Money
	Value             stk.Money
	ProfitLoss        stk.Money
	ProfitLossPercent stk.Percent
	LastUpdate        string
}

// NewHoldings collects the report data of h, with times shown in loc.
func NewHoldings(h *stk.Holdings, currency string, now time.Time, loc *time.Location) *Holdings {
	r := &Holdings{
		Currency:   currency,
		Date:       now.In(loc).Format(time.DateOnly),
		Positions:  make([]Position, 0, h.Len()),
		Invested:   stk.M(0, currency).Add(stk.TotalInvested(h)),
		Value:      stk.M(0, currency).Add(stk.PortfolioValue(h)),
		ProfitLoss: stk.M(0, currency).Add(stk.ProfitLoss(h)),
	}
	for p := range h.All() {
		r.Positions = append(r.Positions, Position{
			Ticker:            p.Ticker,
			Company:           cell(p.Company),
			Quantity:          p.Quantity,
			PurchasePrice:     p.PurchasePrice,
			CurrentPrice:      p.CurrentPrice,
			Value:             p.Value(),
			ProfitLoss:        p.ProfitLoss(),
			ProfitLossPercent: stk.ProfitLossPercent(p),
			LastUpdate:        p.LastUpdate.In(loc).Format(time.DateTime),
		})
	}
	if !r.Invested.IsZero() {
		ratio := r.ProfitLoss.Value().DivRound(r.Invested.Value(), 16).Shift(2)
		r.ProfitLossPercent = stk.Pct(ratio)
	}
	return r
}
