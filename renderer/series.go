package renderer

import (
	"bytes"
	"fmt"

	"github.com/etnz/stk"
	"github.com/etnz/stk/quote"
	md "github.com/nao1215/markdown"
)

// SeriesMarkdown renders the price history of ticker, followed by the change
// between the first and the last close.
func SeriesMarkdown(ticker, currency string, s quote.Series) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2(ticker)

	first, last, percent, ok := s.Change()
	if !ok {
		doc.PlainText("No price history available.")
		return doc.String()
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight},
		Header:    []string{"Date", "Close"},
		Rows:      [][]string{},
	}
	for i, day := range s.Dates {
		table.Rows = append(table.Rows, []string{day, stk.M(s.Prices[i], currency).String()})
	}
	doc.Table(table)
	doc.PlainText(fmt.Sprintf("From %s to %s: %s over %d points.",
		stk.M(first, currency), stk.M(last, currency), stk.Pct(percent).SignedString(), s.Len()))
	return doc.String()
}
