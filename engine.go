package stk

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"
)

// PriceSource gives live prices and company names. Lookups never fail: a
// missing result is reported by the boolean.
type PriceSource interface {
	CurrentPrice(ctx context.Context, ticker string) (decimal.Decimal, bool)
	CompanyName(ctx context.Context, ticker string) (string, bool)
	CurrentPrices(ctx context.Context, tickers []string) map[string]decimal.Decimal
}

// Engine applies ledger operations to a persisted State. Each operation is a
// single load, mutate, save cycle: the state is saved only if the operation
// succeeds.
//
// Two mutations running at the same time against the same Store may lose
// one of them; callers run them one after the other. A save failing between
// the wallet and the portfolio writes leaves a ledger entry without its
// position change, see Store.
type Engine struct {
	store  Store
	quotes PriceSource
	now    func() time.Time
	log    zerolog.Logger
}

// EngineOption configures an Engine.
type EngineOption func(*Engine)

// WithClock sets the clock used to date transactions.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) { e.now = now }
}

// WithLogger sets the engine logger.
func WithLogger(l zerolog.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}

// NewEngine returns an Engine on store. quotes may be nil, in which case
// every operation needing a live price must be given an explicit one.
func NewEngine(store Store, quotes PriceSource, opts ...EngineOption) *Engine {
	e := &Engine{store: store, quotes: quotes, now: time.Now, log: log.Logger}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// State loads the current state. The ledger is not checked, use
// Wallet.Check to detect a divergence.
func (e *Engine) State(ctx context.Context) (*State, error) {
	return e.store.Load(ctx)
}

// update loads the state, applies f and saves the result if f succeeds.
// A ledger whose balance diverged is never mutated.
func (e *Engine) update(ctx context.Context, f func(s *State, at time.Time) error) error {
	s, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	if err := s.Wallet.Check(); err != nil {
		return err
	}
	if err := f(s, e.now()); err != nil {
		return err
	}
	return e.store.Save(ctx, s)
}

// Deposit credits amount to the wallet.
func (e *Engine) Deposit(ctx context.Context, amount decimal.Decimal) (tx Transaction, err error) {
	err = e.update(ctx, func(s *State, at time.Time) (err error) {
		tx, err = s.Deposit(at, amount)
		return
	})
	if err == nil {
		e.log.Info().Str("amount", tx.Amount.String()).Msg("deposit")
	}
	return
}

// Withdraw debits amount from the wallet.
func (e *Engine) Withdraw(ctx context.Context, amount decimal.Decimal) (tx Transaction, err error) {
	err = e.update(ctx, func(s *State, at time.Time) (err error) {
		tx, err = s.Withdraw(at, amount)
		return
	})
	if err == nil {
		e.log.Info().Str("amount", tx.Amount.Neg().String()).Msg("withdrawal")
	}
	return
}

// Order describes a purchase. A zero Price buys at the live price, an
// empty Company is looked up.
type Order struct {
	Ticker   string
	Quantity decimal.Decimal
	Price    decimal.Decimal
	Company  string
}

// Buy opens a position. Without an explicit price the ticker is validated
// by fetching its live price: a ticker without price is unknown.
func (e *Engine) Buy(ctx context.Context, o Order) (tx Transaction, err error) {
	ticker := NormalizeTicker(o.Ticker)
	if ticker == "" {
		return Transaction{}, ErrInvalidTicker
	}
	price := o.Price
	if price.IsZero() {
		if e.quotes == nil {
			return Transaction{}, fmt.Errorf("cannot buy %s: %w", ticker, ErrNoPrice)
		}
		p, ok := e.quotes.CurrentPrice(ctx, ticker)
		if !ok {
			return Transaction{}, fmt.Errorf("cannot buy %s: %w", ticker, ErrUnknownTicker)
		}
		price = p
	}
	company := o.Company
	if company == "" && e.quotes != nil {
		company, _ = e.quotes.CompanyName(ctx, ticker)
	}

	err = e.update(ctx, func(s *State, at time.Time) (err error) {
		tx, err = s.RecordBuy(at, ticker, company, o.Quantity, price)
		return
	})
	if err == nil {
		e.log.Info().Str("ticker", ticker).Str("quantity", tx.Quantity.String()).Str("price", tx.UnitPrice.String()).Msg("buy")
	}
	return
}

// Sell closes the position on ticker at price, or at the live price if
// price is zero.
func (e *Engine) Sell(ctx context.Context, ticker string, price decimal.Decimal) (tx Transaction, err error) {
	ticker = NormalizeTicker(ticker)
	if price.IsZero() {
		s, err := e.store.Load(ctx)
		if err != nil {
			return Transaction{}, err
		}
		if !s.Holdings.Has(ticker) {
			return Transaction{}, fmt.Errorf("cannot sell %s: %w", ticker, ErrNotHeld)
		}
		if price, err = e.livePrice(ctx, ticker); err != nil {
			return Transaction{}, fmt.Errorf("cannot sell %s: %w", ticker, err)
		}
	}
	err = e.update(ctx, func(s *State, at time.Time) (err error) {
		tx, err = s.RecordSell(at, ticker, price)
		return
	})
	if err == nil {
		e.log.Info().Str("ticker", ticker).Str("proceeds", tx.Amount.String()).Msg("sell")
	}
	return
}

func (e *Engine) livePrice(ctx context.Context, ticker string) (decimal.Decimal, error) {
	if e.quotes == nil {
		return decimal.Zero, ErrNoPrice
	}
	p, ok := e.quotes.CurrentPrice(ctx, ticker)
	if !ok {
		return decimal.Zero, ErrNoPrice
	}
	return p, nil
}

// Refresh updates the current price of a held position from the live price.
func (e *Engine) Refresh(ctx context.Context, ticker string) (pos Position, err error) {
	ticker = NormalizeTicker(ticker)
	s, err := e.store.Load(ctx)
	if err != nil {
		return Position{}, err
	}
	if !s.Holdings.Has(ticker) {
		return Position{}, fmt.Errorf("cannot refresh %s: %w", ticker, ErrNotHeld)
	}
	price, err := e.livePrice(ctx, ticker)
	if err != nil {
		return Position{}, fmt.Errorf("cannot refresh %s: %w", ticker, err)
	}
	err = e.update(ctx, func(s *State, at time.Time) (err error) {
		pos, err = s.RefreshPrice(at, ticker, price)
		return
	})
	return
}

// RefreshAll fetches the live price of every held position at once and
// applies them in a single save. Positions without a live price keep their
// last price and are returned in missing.
func (e *Engine) RefreshAll(ctx context.Context) (updated []Position, missing []string, err error) {
	s, err := e.store.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	tickers := s.Holdings.Tickers()
	if len(tickers) == 0 {
		return nil, nil, nil
	}
	if e.quotes == nil {
		return nil, tickers, nil
	}
	prices := e.quotes.CurrentPrices(ctx, tickers)

	err = e.update(ctx, func(s *State, at time.Time) error {
		updated, missing = nil, nil
		for _, ticker := range s.Holdings.Tickers() {
			price, ok := prices[ticker]
			if !ok {
				missing = append(missing, ticker)
				continue
			}
			pos, err := s.RefreshPrice(at, ticker, price)
			if err != nil {
				return err
			}
			updated = append(updated, pos)
		}
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	for _, ticker := range missing {
		e.log.Warn().Str("ticker", ticker).Msg("no live price, keeping last price")
	}
	e.log.Info().Int("updated", len(updated)).Int("missing", len(missing)).Msg("prices refreshed")
	return updated, missing, nil
}

// RemovePosition drops a position without any cash movement.
func (e *Engine) RemovePosition(ctx context.Context, ticker string) (pos Position, err error) {
	err = e.update(ctx, func(s *State, _ time.Time) (err error) {
		pos, err = s.RemovePosition(ticker)
		return
	})
	if err == nil {
		e.log.Info().Str("ticker", pos.Ticker).Msg("position removed")
	}
	return
}

// Clear resets the wallet and the holdings. It is allowed on a diverged
// ledger, as a way out of it.
func (e *Engine) Clear(ctx context.Context) error {
	s, err := e.store.Load(ctx)
	if err != nil {
		return err
	}
	s.Clear()
	if err := e.store.Save(ctx, s); err != nil {
		return err
	}
	e.log.Info().Msg("wallet and holdings cleared")
	return nil
}
