package renderer

import (
	"time"

	"github.com/etnz/stk"
)

// Wallet is the data of the wallet summary.
type Wallet struct {
	Currency       string
	Date           string
	Balance        stk.Money
	PortfolioValue stk.Money
	ProfitLoss     stk.Money
	TotalValue     stk.Money

	// Ledger totals, all positive.
	Deposited    stk.Money
	Withdrawn    stk.Money
	Invested     stk.Money
	Sold         stk.Money
	Transactions int
}

// NewWallet collects the summary data of a state.
func NewWallet(s *stk.State, now time.Time, loc *time.Location) *Wallet {
	cur := s.Currency()
	zero := stk.M(0, cur)
	return &Wallet{
		Currency:       cur,
		Date:           now.In(loc).Format(time.DateOnly),
		Balance:        s.Wallet.Balance,
		PortfolioValue: zero.Add(stk.PortfolioValue(&s.Holdings)),
		ProfitLoss:     zero.Add(stk.ProfitLoss(&s.Holdings)),
		TotalValue:     zero.Add(s.TotalValue()),
		Deposited:      s.Wallet.TotalDeposited(),
		Withdrawn:      s.Wallet.TotalWithdrawn(),
		Invested:       s.Wallet.TotalInvested(),
		Sold:           s.Wallet.TotalSold(),
		Transactions:   len(s.Wallet.Transactions),
	}
}
