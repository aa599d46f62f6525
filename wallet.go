package stk

import (
	"fmt"
	"iter"
	"slices"
	"time"
)

// Wallet is a cash balance and the ledger of transactions that produced it.
//
// The balance always equals the sum of all transaction amounts. Transactions
// are never modified nor deleted once appended.
type Wallet struct {
	Balance      Money
	Transactions []Transaction
}

// NewWallet creates an empty wallet.
func NewWallet(currency string) Wallet {
	return Wallet{Balance: M(0, currency), Transactions: make([]Transaction, 0)}
}

// Currency returns the wallet currency.
func (w *Wallet) Currency() string { return w.Balance.Currency() }

// append records tx and updates the balance accordingly.
func (w *Wallet) append(tx Transaction) {
	w.Transactions = append(w.Transactions, tx)
	w.Balance = w.Balance.Add(tx.Amount)
}

// Sorted returns the transactions in chronological order. Transactions on
// the same instant keep their insertion order.
func (w *Wallet) Sorted() []Transaction {
	sorted := slices.Clone(w.Transactions)
	slices.SortStableFunc(sorted, func(a, b Transaction) int { return a.Date.Compare(b.Date) })
	return sorted
}

// Sum returns the sum of all transaction amounts.
func (w *Wallet) Sum() Money {
	sum := M(0, w.Currency())
	for _, tx := range w.Transactions {
		sum = sum.Add(tx.Amount)
	}
	return sum
}

// Check verifies that the balance matches the ledger.
func (w *Wallet) Check() error {
	if sum := w.Sum(); !sum.Value().Equal(w.Balance.Value()) {
		return fmt.Errorf("balance is %s but transactions sum to %s: %w", w.Balance, sum, ErrLedgerDiverged)
	}
	return nil
}

// Of returns an iterator over the transactions of the given kinds, in
// insertion order. No kind means all transactions.
func (w *Wallet) Of(kinds ...Kind) iter.Seq[Transaction] {
	return func(yield func(Transaction) bool) {
		for _, tx := range w.Transactions {
			if len(kinds) > 0 && !slices.Contains(kinds, tx.Kind) {
				continue
			}
			if !yield(tx) {
				return
			}
		}
	}
}

// total returns the absolute value of the sum of the transactions of a kind.
func (w *Wallet) total(kind Kind) Money {
	sum := M(0, w.Currency())
	for tx := range w.Of(kind) {
		sum = sum.Add(tx.Amount)
	}
	return sum.Abs()
}

// TotalDeposited is the sum of all deposits.
func (w *Wallet) TotalDeposited() Money { return w.total(KindDeposit) }

// TotalWithdrawn is the sum of all withdrawals, as a positive amount.
func (w *Wallet) TotalWithdrawn() Money { return w.total(KindWithdrawal) }

// TotalInvested is the sum of all purchase costs, as a positive amount.
func (w *Wallet) TotalInvested() Money { return w.total(KindBuy) }

// TotalSold is the sum of all sale proceeds.
func (w *Wallet) TotalSold() Money { return w.total(KindSell) }

// BalancePoint is the wallet balance right after a transaction.
type BalancePoint struct {
	Date    time.Time
	Kind    Kind
	Amount  Money
	Balance Money
}

// RunningBalanceSeries returns the cumulative balance after each
// transaction, in chronological order. The last point equals the wallet
// balance.
func (w *Wallet) RunningBalanceSeries() []BalancePoint {
	sorted := w.Sorted()
	series := make([]BalancePoint, 0, len(sorted))
	running := M(0, w.Currency())
	for _, tx := range sorted {
		running = running.Add(tx.Amount)
		series = append(series, BalancePoint{Date: tx.Date, Kind: tx.Kind, Amount: tx.Amount, Balance: running})
	}
	return series
}

// in tags every amount of the wallet with currency.
func (w *Wallet) in(currency string) {
	w.Balance = w.Balance.In(currency)
	for i, tx := range w.Transactions {
		w.Transactions[i] = tx.in(currency)
	}
}
