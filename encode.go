package stk

import (
	"encoding/json"
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// This file contains the JSON encoding of the persisted values: the wallet
// under the "wallet" key, and the list of positions under the "portfolio" key.
//
// The layout is the one a browser version of the tracker keeps in its local
// storage, so that values can be moved from one to the other:
//
//	wallet    -> {"balance": 1500, "transactions": [{"date": ..., "type": "deposit", "amount": 1000}, ...]}
//	portfolio -> [{"ticker": "AAPL", "company": "Apple Inc", "quantity": 10, "purchasePrice": 180, ...}]
//
// Numbers are read as exact decimals. A wallet written with binary floating
// point drift, such as a balance of 0.30000000000000004 for deposits of 0.1
// and 0.2, does not match its transactions and is reported as diverged by
// Wallet.Check; the Engine then refuses to mutate it until it is cleared.

// jwallet is the wallet object as read from storage.
type jwallet struct {
	Currency     string          `json:"currency,omitempty"`
	Balance      decimal.Decimal `json:"balance"`
	Transactions []Transaction   `json:"transactions"`
}

// EncodeWallet returns the JSON representation of w.
func EncodeWallet(w *Wallet) ([]byte, error) {
	var jw orderedObject
	jw.SetNonZero("currency", w.Currency())
	jw.Set("balance", w.Balance)
	txs := w.Transactions
	if txs == nil {
		txs = []Transaction{}
	}
	jw.Set("transactions", txs)
	return jw.MarshalJSON()
}

// DecodeWallet parses a wallet. Amounts are tagged with the stored currency,
// or with currency if none was stored.
func DecodeWallet(data []byte, currency string) (Wallet, error) {
	var jw jwallet
	if err := json.Unmarshal(data, &jw); err != nil {
		return Wallet{}, fmt.Errorf("invalid wallet: %w", err)
	}
	if jw.Currency != "" {
		currency = jw.Currency
	}
	w := Wallet{Balance: M(jw.Balance, currency), Transactions: jw.Transactions}
	if w.Transactions == nil {
		w.Transactions = make([]Transaction, 0)
	}
	w.in(currency)
	return w, nil
}

// jposition is a position as read from storage. Profit is derived and
// ignored on read.
type jposition struct {
	Ticker        string          `json:"ticker"`
	Company       string          `json:"company"`
	Quantity      decimal.Decimal `json:"quantity"`
	PurchasePrice decimal.Decimal `json:"purchasePrice"`
	CurrentPrice  decimal.Decimal `json:"currentPrice"`
	LastUpdate    *time.Time      `json:"lastUpdate,omitempty"`
	PurchaseDate  *time.Time      `json:"purchaseDate,omitempty"`
}

// MarshalJSON implements the json.Marshaler interface for Position.
func (p Position) MarshalJSON() ([]byte, error) {
	var w orderedObject
	w.Set("ticker", p.Ticker)
	w.Set("company", p.Company)
	w.Set("quantity", p.Quantity)
	w.Set("purchasePrice", p.PurchasePrice)
	w.Set("currentPrice", p.CurrentPrice)
	w.Set("profit", p.ProfitLoss())
	if !p.LastUpdate.IsZero() {
		w.Set("lastUpdate", p.LastUpdate.Format(time.RFC3339Nano))
	}
	if !p.PurchaseDate.IsZero() {
		w.Set("purchaseDate", p.PurchaseDate.Format(time.RFC3339Nano))
	}
	return w.MarshalJSON()
}

// UnmarshalJSON implements the json.Unmarshaler interface for Position.
func (p *Position) UnmarshalJSON(data []byte) error {
	var jp jposition
	if err := json.Unmarshal(data, &jp); err != nil {
		return err
	}
	*p = Position{
		Ticker:        NormalizeTicker(jp.Ticker),
		Company:       jp.Company,
		Quantity:      Q(jp.Quantity),
		PurchasePrice: M(jp.PurchasePrice, ""),
		CurrentPrice:  M(jp.CurrentPrice, ""),
	}
	if jp.LastUpdate != nil {
		p.LastUpdate = *jp.LastUpdate
	}
	if jp.PurchaseDate != nil {
		p.PurchaseDate = *jp.PurchaseDate
	}
	return nil
}

// EncodeHoldings returns the JSON list of positions.
func EncodeHoldings(h *Holdings) ([]byte, error) {
	positions := h.Positions()
	if positions == nil {
		positions = []Position{}
	}
	return json.Marshal(positions)
}

// DecodeHoldings parses a list of positions, amounts are tagged with currency.
func DecodeHoldings(data []byte, currency string) (Holdings, error) {
	var positions []Position
	if err := json.Unmarshal(data, &positions); err != nil {
		return Holdings{}, fmt.Errorf("invalid portfolio: %w", err)
	}
	h := NewHoldings(positions...)
	h.in(currency)
	return h, nil
}
