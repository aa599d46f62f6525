package renderer

import (
	"bytes"
	"time"

	"github.com/etnz/stk"
	md "github.com/nao1215/markdown"
)

// HistoryMarkdown renders the detailed transaction history, oldest first.
func HistoryMarkdown(rows []stk.HistoryRow, loc *time.Location) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H1("Transaction History")

	if len(rows) == 0 {
		doc.PlainText("No transactions.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{
			md.AlignLeft,
			md.AlignLeft,
			md.AlignLeft,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
			md.AlignRight,
		},
		Header: []string{"Date", "Type", "Ticker", "Quantity", "Price", "Amount", "Balance", "Total Value"},
		Rows:   [][]string{},
	}
	for _, r := range rows {
		qty, price := "", ""
		if r.Ticker != "" {
			qty, price = r.Quantity.String(), r.UnitPrice.String()
		}
		table.Rows = append(table.Rows, []string{
			r.Date.In(loc).Format("2006-01-02 15:04"),
			string(r.Kind),
			r.Ticker,
			qty,
			price,
			r.Amount.SignedString(),
			r.RunningBalance.String(),
			r.TotalValue.String(),
		})
	}
	doc.Table(table)
	return doc.String()
}
