package stk

import (
	"iter"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
)

// NormalizeTicker returns the canonical form of a ticker: trimmed and upper case.
func NormalizeTicker(ticker string) string {
	return strings.ToUpper(strings.TrimSpace(ticker))
}

// Position is the holding of a single security.
//
// PurchasePrice is fixed when the position is opened, CurrentPrice is
// refreshed from quotes and never alters PurchasePrice.
type Position struct {
	Ticker        string
	Company       string
	Quantity      Quantity
	PurchasePrice Money
	CurrentPrice  Money
	LastUpdate    time.Time
	PurchaseDate  time.Time
}

// Value is the market value of the position at its current price.
func (p Position) Value() Money { return p.CurrentPrice.Mul(p.Quantity) }

// Cost is the amount paid to open the position.
func (p Position) Cost() Money { return p.PurchasePrice.Mul(p.Quantity) }

// ProfitLoss is the unrealized gain of the position. It is zero when the
// purchase price is unknown (zero).
func (p Position) ProfitLoss() Money {
	if p.PurchasePrice.IsZero() {
		return M(0, p.CurrentPrice.Currency())
	}
	return p.Value().Sub(p.Cost())
}

// ProfitLossPercent returns (current-purchase)/purchase in percent, or
// exactly 0 when the purchase price is zero.
func ProfitLossPercent(p Position) Percent {
	if p.PurchasePrice.IsZero() {
		return Percent{}
	}
	ratio := p.CurrentPrice.Value().Sub(p.PurchasePrice.Value()).
		DivRound(p.PurchasePrice.Value(), 16).
		Mul(decimal.NewFromInt(100))
	return Pct(ratio)
}

func (p Position) in(currency string) Position {
	p.PurchasePrice = p.PurchasePrice.In(currency)
	p.CurrentPrice = p.CurrentPrice.In(currency)
	return p
}

// Holdings is the set of open positions, at most one per ticker, kept in
// acquisition order.
type Holdings struct {
	positions []Position
}

// NewHoldings creates holdings from a list of positions. Later duplicates
// of a ticker are ignored.
func NewHoldings(positions ...Position) Holdings {
	var h Holdings
	for _, p := range positions {
		if !h.Has(p.Ticker) {
			h.positions = append(h.positions, p)
		}
	}
	return h
}

// Len returns the number of positions.
func (h *Holdings) Len() int { return len(h.positions) }

// All returns an iterator over all positions in acquisition order.
func (h *Holdings) All() iter.Seq[Position] { return slices.Values(h.positions) }

// Positions returns a copy of all positions.
func (h *Holdings) Positions() []Position { return slices.Clone(h.positions) }

// Tickers returns the held tickers in acquisition order.
func (h *Holdings) Tickers() []string {
	tickers := make([]string, 0, len(h.positions))
	for _, p := range h.positions {
		tickers = append(tickers, p.Ticker)
	}
	return tickers
}

func (h *Holdings) index(ticker string) int {
	return slices.IndexFunc(h.positions, func(p Position) bool { return p.Ticker == ticker })
}

// Has reports whether ticker is held.
func (h *Holdings) Has(ticker string) bool { return h.index(ticker) >= 0 }

// Get returns the position for ticker.
func (h *Holdings) Get(ticker string) (Position, bool) {
	i := h.index(ticker)
	if i < 0 {
		return Position{}, false
	}
	return h.positions[i], true
}

func (h *Holdings) insert(p Position) { h.positions = append(h.positions, p) }

func (h *Holdings) remove(ticker string) {
	h.positions = slices.DeleteFunc(h.positions, func(p Position) bool { return p.Ticker == ticker })
}

func (h *Holdings) set(p Position) {
	if i := h.index(p.Ticker); i >= 0 {
		h.positions[i] = p
	}
}

func (h *Holdings) in(currency string) {
	for i, p := range h.positions {
		h.positions[i] = p.in(currency)
	}
}

// PortfolioValue is the market value of all positions.
func PortfolioValue(h *Holdings) Money {
	var sum Money
	for p := range h.All() {
		sum = sum.Add(p.Value())
	}
	return sum
}

// TotalInvested is the purchase cost of all open positions.
func TotalInvested(h *Holdings) Money {
	var sum Money
	for p := range h.All() {
		sum = sum.Add(p.Cost())
	}
	return sum
}

// ProfitLoss is the unrealized gain over all positions.
func ProfitLoss(h *Holdings) Money {
	var sum Money
	for p := range h.All() {
		sum = sum.Add(p.ProfitLoss())
	}
	return sum
}

// TotalValue is the wallet balance plus the market value of all positions.
func TotalValue(w *Wallet, h *Holdings) Money {
	return w.Balance.Add(PortfolioValue(h))
}
