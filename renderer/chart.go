package renderer

import (
	"bytes"
	"strings"

	"github.com/etnz/stk"
	md "github.com/nao1215/markdown"
)

const barWidth = 30

// BalanceChartMarkdown renders the balance chart as a table with a bar per
// point, scaled on the largest total value.
func BalanceChartMarkdown(points []stk.ChartPoint) string {
	var buf bytes.Buffer
	doc := md.NewMarkdown(&buf)
	doc.H2("Balance Chart")

	var top stk.Money
	for _, p := range points {
		if p.Total.GreaterThan(top) {
			top = p.Total
		}
	}

	table := md.TableSet{
		Alignment: []md.TableAlignment{md.AlignLeft, md.AlignRight, md.AlignRight, md.AlignLeft},
		Header:    []string{"Date", "Balance", "Total Value", "Chart"},
		Rows:      [][]string{},
	}
	for _, p := range points {
		table.Rows = append(table.Rows, []string{
			p.Day.String(),
			p.Balance.String(),
			p.Total.String(),
			bar(p.Total, top),
		})
	}
	doc.Table(table)
	return doc.String()
}

// bar draws v relative to top, empty for non positive values.
func bar(v, top stk.Money) string {
	if !v.IsPositive() || !top.IsPositive() {
		return ""
	}
	n := int(v.Value().Mul(stk.Q(barWidth).Value()).Div(top.Value()).Round(0).IntPart())
	return strings.Repeat("#", max(n, 1))
}
