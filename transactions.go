package stk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Kind is a typed string for identifying transaction kinds.
type Kind string

// Transaction kinds recorded in a wallet.
const (
	KindDeposit    Kind = "deposit"
	KindWithdrawal Kind = "withdrawal"
	KindBuy        Kind = "buy"
	KindSell       Kind = "sell"
)

// Valid reports whether k is one of the known kinds.
func (k Kind) Valid() bool {
	switch k {
	case KindDeposit, KindWithdrawal, KindBuy, KindSell:
		return true
	}
	return false
}

// Transaction is a single signed cash movement of the wallet.
//
// Deposits and sale proceeds are positive, withdrawals and purchase costs
// are negative. Buy and sell transactions also carry the ticker, the number
// of shares and the unit price of the trade.
type Transaction struct {
	ID        string
	Date      time.Time
	Kind      Kind
	Amount    Money
	Ticker    string
	Quantity  Quantity
	UnitPrice Money
}

func newTransaction(kind Kind, at time.Time, amount Money) Transaction {
	return Transaction{
		ID:        uuid.NewString(),
		Date:      at,
		Kind:      kind,
		Amount:    amount,
		UnitPrice: M(0, amount.Currency()),
	}
}

// NewDeposit creates a deposit of amount.
func NewDeposit(at time.Time, amount Money) Transaction {
	return newTransaction(KindDeposit, at, amount)
}

// NewWithdrawal creates a withdrawal of amount, recorded as a negative amount.
func NewWithdrawal(at time.Time, amount Money) Transaction {
	return newTransaction(KindWithdrawal, at, amount.Neg())
}

// NewBuy creates the purchase of quantity shares of ticker at unitPrice.
// The recorded amount is the negated cost.
func NewBuy(at time.Time, ticker string, quantity Quantity, unitPrice Money) Transaction {
	tx := newTransaction(KindBuy, at, unitPrice.Mul(quantity).Neg())
	tx.Ticker, tx.Quantity, tx.UnitPrice = ticker, quantity, unitPrice
	return tx
}

// NewSell creates the sale of quantity shares of ticker at unitPrice.
// The recorded amount is the proceeds.
func NewSell(at time.Time, ticker string, quantity Quantity, unitPrice Money) Transaction {
	tx := newTransaction(KindSell, at, unitPrice.Mul(quantity))
	tx.Ticker, tx.Quantity, tx.UnitPrice = ticker, quantity, unitPrice
	return tx
}

// Equal reports whether two transactions are identical, dates are compared
// as instants.
func (t Transaction) Equal(o Transaction) bool {
	return t.ID == o.ID &&
		t.Date.Equal(o.Date) &&
		t.Kind == o.Kind &&
		t.Amount.Equal(o.Amount) &&
		t.Ticker == o.Ticker &&
		t.Quantity.Equal(o.Quantity) &&
		t.UnitPrice.Equal(o.UnitPrice)
}

func (t Transaction) String() string {
	if t.Ticker == "" {
		return fmt.Sprintf("%s %s %s", t.Date.Format(time.DateTime), t.Kind, t.Amount.SignedString())
	}
	return fmt.Sprintf("%s %s %s %s x %s = %s", t.Date.Format(time.DateTime), t.Kind, t.Ticker, t.Quantity, t.UnitPrice, t.Amount.SignedString())
}

// in returns a copy of t with all amounts tagged with currency.
func (t Transaction) in(currency string) Transaction {
	t.Amount = t.Amount.In(currency)
	t.UnitPrice = t.UnitPrice.In(currency)
	return t
}

// MarshalJSON implements the json.Marshaler interface for Transaction.
//
// Field names follow the wallet format written by earlier versions of the
// tracker: the kind is stored as "type" and the unit price as "price".
func (t Transaction) MarshalJSON() ([]byte, error) {
	var w orderedObject
	w.SetNonZero("id", t.ID)
	w.Set("date", t.Date.Format(time.RFC3339Nano))
	w.Set("type", t.Kind)
	w.Set("amount", t.Amount)
	w.SetNonZero("ticker", t.Ticker)
	if !t.Quantity.IsZero() {
		w.Set("quantity", t.Quantity)
	}
	if !t.UnitPrice.IsZero() {
		w.Set("price", t.UnitPrice)
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Transaction.
// Decoded amounts carry no currency, the wallet assigns it.
func (t *Transaction) UnmarshalJSON(data []byte) error {
	var temp struct {
		ID       string          `json:"id"`
		Date     time.Time       `json:"date"`
		Type     Kind            `json:"type"`
		Amount   decimal.Decimal `json:"amount"`
		Ticker   string          `json:"ticker"`
		Quantity decimal.Decimal `json:"quantity"`
		Price    decimal.Decimal `json:"price"`
	}
	if err := json.Unmarshal(data, &temp); err != nil {
		return err
	}
	if !temp.Type.Valid() {
		return fmt.Errorf("unknown transaction type %q", temp.Type)
	}
	*t = Transaction{
		ID:        temp.ID,
		Date:      temp.Date,
		Kind:      temp.Type,
		Amount:    M(temp.Amount, ""),
		Ticker:    temp.Ticker,
		Quantity:  Q(temp.Quantity),
		UnitPrice: M(temp.Price, ""),
	}
	return nil
}
