package stk

import (
	"encoding/csv"
	"io"
	"time"
)

// ExportCSV writes s as a spreadsheet in three sections separated by an
// empty line: the holdings, a summary, and the transaction history with the
// balance after each transaction. Amounts are plain numbers with 2 decimals
// in the wallet currency; times are in loc.
func (s *State) ExportCSV(w io.Writer, loc *time.Location) error {
	cw := csv.NewWriter(w)
	currency := s.Currency()
	num := func(m Money) string { return m.Value().StringFixed(2) }
	stamp := func(t time.Time) string {
		if t.IsZero() {
			return ""
		}
		return t.In(loc).Format(time.DateTime)
	}

	cw.Write([]string{"Ticker", "Company", "Quantity", "Purchase Price", "Current Price", "Profit/Loss", "Profit/Loss %", "Last Update"})
	for p := range s.Holdings.All() {
		cw.Write([]string{
			p.Ticker,
			p.Company,
			p.Quantity.String(),
			num(p.PurchasePrice),
			num(p.CurrentPrice),
			num(p.ProfitLoss()),
			ProfitLossPercent(p).Value().StringFixed(2),
			stamp(p.LastUpdate),
		})
	}

	cw.Write(nil)
	cw.Write([]string{"Summary", currency})
	cw.Write([]string{"Balance", num(s.Wallet.Balance)})
	cw.Write([]string{"Total Invested", num(TotalInvested(&s.Holdings))})
	cw.Write([]string{"Current Value", num(PortfolioValue(&s.Holdings))})
	cw.Write([]string{"Total Profit/Loss", num(ProfitLoss(&s.Holdings))})

	cw.Write(nil)
	cw.Write([]string{"Date", "Type", "Ticker", "Quantity", "Unit Price", "Amount", "Balance After"})
	for _, row := range s.History() {
		var quantity, price string
		if !row.Quantity.IsZero() {
			quantity = row.Quantity.String()
		}
		if !row.UnitPrice.IsZero() {
			price = num(row.UnitPrice)
		}
		cw.Write([]string{
			stamp(row.Date),
			string(row.Kind),
			row.Ticker,
			quantity,
			price,
			num(row.Amount),
			num(row.RunningBalance),
		})
	}

	cw.Flush()
	return cw.Error()
}
