package stk

import (
	"fmt"
	"time"

	"github.com/etnz/stk/date"
	"github.com/shopspring/decimal"
)

// DefaultInitialDeposit is the amount credited to a wallet created on first run.
const DefaultInitialDeposit = 1000

// State is everything the tracker persists: the wallet and the holdings.
//
// Every operation either applies completely or returns an error and leaves
// the state untouched.
type State struct {
	Wallet   Wallet
	Holdings Holdings
}

// NewState returns an empty state: no cash, no positions.
func NewState(currency string) *State {
	return &State{Wallet: NewWallet(currency)}
}

// DefaultState returns the state of a first run: a wallet funded with an
// initial deposit and no positions.
func DefaultState(currency string, at time.Time) *State {
	s := NewState(currency)
	s.Wallet.append(NewDeposit(at, M(DefaultInitialDeposit, currency)))
	return s
}

// Currency returns the state currency.
func (s *State) Currency() string { return s.Wallet.Currency() }

func (s *State) money(v decimal.Decimal) Money { return M(v, s.Currency()) }

// Deposit credits amount to the wallet.
func (s *State) Deposit(at time.Time, amount decimal.Decimal) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("cannot deposit %s: %w", amount, ErrInvalidAmount)
	}
	tx := NewDeposit(at, s.money(amount))
	s.Wallet.append(tx)
	return tx, nil
}

// Withdraw debits amount from the wallet.
func (s *State) Withdraw(at time.Time, amount decimal.Decimal) (Transaction, error) {
	if !amount.IsPositive() {
		return Transaction{}, fmt.Errorf("cannot withdraw %s: %w", amount, ErrInvalidAmount)
	}
	if amount.GreaterThan(s.Wallet.Balance.Value()) {
		return Transaction{}, fmt.Errorf("cannot withdraw %s, balance is %s: %w", s.money(amount), s.Wallet.Balance, ErrInsufficientFunds)
	}
	tx := NewWithdrawal(at, s.money(amount))
	s.Wallet.append(tx)
	return tx, nil
}

// RecordBuy opens a new position of quantity shares of ticker at unitPrice
// and debits the cost from the wallet.
func (s *State) RecordBuy(at time.Time, ticker, company string, quantity, unitPrice decimal.Decimal) (Transaction, error) {
	ticker = NormalizeTicker(ticker)
	if ticker == "" {
		return Transaction{}, ErrInvalidTicker
	}
	if !quantity.IsPositive() || !quantity.IsInteger() {
		return Transaction{}, fmt.Errorf("cannot buy %s shares of %s: %w", quantity, ticker, ErrInvalidQuantity)
	}
	if !unitPrice.IsPositive() {
		return Transaction{}, fmt.Errorf("cannot buy %s at %s: %w", ticker, unitPrice, ErrInvalidPrice)
	}
	if s.Holdings.Has(ticker) {
		return Transaction{}, fmt.Errorf("cannot buy %s: %w", ticker, ErrDuplicateTicker)
	}
	price, qty := s.money(unitPrice), Q(quantity)
	if cost := price.Mul(qty); cost.GreaterThan(s.Wallet.Balance) {
		return Transaction{}, fmt.Errorf("cannot buy %s %s for %s, balance is %s: %w", qty, ticker, cost, s.Wallet.Balance, ErrInsufficientFunds)
	}

	tx := NewBuy(at, ticker, qty, price)
	s.Wallet.append(tx)
	s.Holdings.insert(Position{
		Ticker:        ticker,
		Company:       company,
		Quantity:      qty,
		PurchasePrice: price,
		CurrentPrice:  price,
		LastUpdate:    at,
		PurchaseDate:  at,
	})
	return tx, nil
}

// RecordSell closes the position on ticker, selling all its shares at
// unitPrice, and credits the proceeds to the wallet.
func (s *State) RecordSell(at time.Time, ticker string, unitPrice decimal.Decimal) (Transaction, error) {
	ticker = NormalizeTicker(ticker)
	if !unitPrice.IsPositive() {
		return Transaction{}, fmt.Errorf("cannot sell %s at %s: %w", ticker, unitPrice, ErrInvalidPrice)
	}
	pos, ok := s.Holdings.Get(ticker)
	if !ok {
		return Transaction{}, fmt.Errorf("cannot sell %s: %w", ticker, ErrNotHeld)
	}
	tx := NewSell(at, ticker, pos.Quantity, s.money(unitPrice))
	s.Wallet.append(tx)
	s.Holdings.remove(ticker)
	return tx, nil
}

// RefreshPrice sets the current price of a held position.
func (s *State) RefreshPrice(at time.Time, ticker string, price decimal.Decimal) (Position, error) {
	ticker = NormalizeTicker(ticker)
	if !price.IsPositive() {
		return Position{}, fmt.Errorf("cannot update %s to %s: %w", ticker, price, ErrInvalidPrice)
	}
	pos, ok := s.Holdings.Get(ticker)
	if !ok {
		return Position{}, fmt.Errorf("cannot update %s: %w", ticker, ErrNotHeld)
	}
	pos.CurrentPrice = s.money(price)
	pos.LastUpdate = at
	s.Holdings.set(pos)
	return pos, nil
}

// RemovePosition drops a position without any cash movement.
func (s *State) RemovePosition(ticker string) (Position, error) {
	ticker = NormalizeTicker(ticker)
	pos, ok := s.Holdings.Get(ticker)
	if !ok {
		return Position{}, fmt.Errorf("cannot remove %s: %w", ticker, ErrNotHeld)
	}
	s.Holdings.remove(ticker)
	return pos, nil
}

// Clear resets the state to an empty wallet and no positions.
func (s *State) Clear() {
	*s = *NewState(s.Currency())
}

// TotalValue is the wallet balance plus the market value of the holdings.
func (s *State) TotalValue() Money { return TotalValue(&s.Wallet, &s.Holdings) }

// HistoryRow is a line of the detailed transaction history.
type HistoryRow struct {
	Transaction
	RunningBalance Money
	PortfolioValue Money // at current prices
	TotalValue     Money
}

// History returns one row per transaction in chronological order, with the
// running balance and the total value using the current portfolio value.
func (s *State) History() []HistoryRow {
	portfolio := PortfolioValue(&s.Holdings)
	sorted := s.Wallet.Sorted()
	rows := make([]HistoryRow, 0, len(sorted))
	running := M(0, s.Currency())
	for _, tx := range sorted {
		running = running.Add(tx.Amount)
		rows = append(rows, HistoryRow{
			Transaction:    tx,
			RunningBalance: running,
			PortfolioValue: portfolio,
			TotalValue:     running.Add(portfolio),
		})
	}
	return rows
}

// ChartPoint is a point of the balance chart.
type ChartPoint struct {
	Day     date.Date
	Balance Money
	Total   Money // balance plus current portfolio value
}

// BalanceChart returns a point per transaction and a final point for today
// holding the live balance and total value. If the last transaction happened
// today, its point is replaced by the live one.
func (s *State) BalanceChart(today date.Date, loc *time.Location) []ChartPoint {
	live := ChartPoint{Day: today, Balance: s.Wallet.Balance, Total: s.TotalValue()}
	if len(s.Wallet.Transactions) == 0 {
		return []ChartPoint{live}
	}
	portfolio := PortfolioValue(&s.Holdings)
	series := s.Wallet.RunningBalanceSeries()
	points := make([]ChartPoint, 0, len(series)+1)
	for _, bp := range series {
		points = append(points, ChartPoint{
			Day:     date.Of(bp.Date.In(loc)),
			Balance: bp.Balance,
			Total:   bp.Balance.Add(portfolio),
		})
	}
	if last := len(points) - 1; points[last].Day == today {
		points[last] = live
	} else {
		points = append(points, live)
	}
	return points
}

// in tags every amount of the state with currency.
func (s *State) in(currency string) {
	s.Wallet.in(currency)
	s.Holdings.in(currency)
}
