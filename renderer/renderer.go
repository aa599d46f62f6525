// Package renderer turns wallet, holdings and quote data into markdown.
//
// Reports with a fixed layout are text/template files embedded in the
// binary, split into partials. Tabular listings are built with the
// markdown builder.
package renderer

import (
	"embed"
	"fmt"
	"io/fs"
	"strings"
	"text/template"
)

//go:embed templates/*.md
var embedded embed.FS

var templates = mustSub(embedded, "templates")

func mustSub(fsys fs.FS, dir string) fs.FS {
	sub, err := fs.Sub(fsys, dir)
	if err != nil {
		panic(err)
	}
	return sub
}

// RenderHoldings renders the holdings report to a markdown string.
func RenderHoldings(h *Holdings) string {
	partials := map[string]string{
		"holdings_title":     "holdings_title.md",
		"holdings_positions": "holdings_positions.md",
		"holdings_totals":    "holdings_totals.md",
	}
	return renderTemplate("holdings", "holdings.md", partials, h)
}

// RenderWallet renders the wallet summary to a markdown string.
func RenderWallet(w *Wallet) string {
	partials := map[string]string{
		"wallet_title":   "wallet_title.md",
		"wallet_summary": "wallet_summary.md",
		"wallet_totals":  "wallet_totals.md",
	}
	// An empty wallet has no ledger totals to show.
	if w.Transactions == 0 {
		partials["wallet_totals"] = ""
	}
	return renderTemplate("wallet", "wallet.md", partials, w)
}

// renderTemplate is a generic utility to render a main template that depends on several partials.
func renderTemplate(templateName, mainFile string, partials map[string]string, data any) string {
	mainContent, err := fs.ReadFile(templates, mainFile)
	if err != nil {
		return fmt.Sprintf("error reading main template %q: %v", mainFile, err)
	}

	tmpl, err := template.New(templateName).Parse(string(mainContent))
	if err != nil {
		return fmt.Sprintf("error parsing main template %q: %v", mainFile, err)
	}

	for name, file := range partials {
		var content []byte
		// An empty file name is a valid case, resulting in an empty template.
		if file != "" {
			content, err = fs.ReadFile(templates, file)
			if err != nil {
				return fmt.Sprintf("error reading partial template %q: %v", file, err)
			}
		}
		if _, err := tmpl.New(name).Parse(string(content)); err != nil {
			return fmt.Sprintf("error parsing partial template %q for %q: %v", file, name, err)
		}
	}

	var b strings.Builder
	if err := tmpl.ExecuteTemplate(&b, templateName, data); err != nil {
		return fmt.Sprintf("error executing template %q: %v", templateName, err)
	}
	return b.String()
}

// cell escapes text so that it fits in a single table cell.
func cell(s string) string {
	s = strings.ReplaceAll(s, "|", `\|`)
	return strings.Join(strings.Fields(s), " ")
}
