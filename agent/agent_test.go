package agent

import (
	"bytes"
	"context"
	"strings"
	"testing"
	"time"

	"github.com/etnz/stk"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"google.golang.org/genai"
)

var day0 = time.Date(2025, 3, 3, 10, 0, 0, 0, time.UTC)

type fakeQuotes map[string]decimal.Decimal

func (f fakeQuotes) CurrentPrice(_ context.Context, ticker string) (decimal.Decimal, bool) {
	p, ok := f[ticker]
	return p, ok
}

func (f fakeQuotes) CompanyName(_ context.Context, ticker string) (string, bool) {
	if _, ok := f[ticker]; !ok {
		return "", false
	}
	return ticker + " Corp", true
}

func (f fakeQuotes) CurrentPrices(ctx context.Context, tickers []string) map[string]decimal.Decimal {
	res := make(map[string]decimal.Decimal)
	for _, t := range tickers {
		if p, ok := f.CurrentPrice(ctx, t); ok {
			res[t] = p
		}
	}
	return res
}

func newToolbox(t *testing.T) *Toolbox {
	t.Helper()
	now := func() time.Time { return day0 }
	quotes := fakeQuotes{"AAPL": decimal.NewFromInt(190)}
	store := stk.NewStore(&stk.MemoryBackend{}, stk.WithCurrency("USD"), stk.WithStoreClock(now), stk.WithStoreLogger(zerolog.Nop()))
	engine := stk.NewEngine(store, quotes, stk.WithClock(now), stk.WithLogger(zerolog.Nop()))
	if _, err := engine.Buy(context.Background(), stk.Order{Ticker: "AAPL", Quantity: decimal.NewFromInt(2), Price: decimal.NewFromInt(180)}); err != nil {
		t.Fatalf("Buy failed: %v", err)
	}
	return &Toolbox{Engine: engine, Quotes: quotes, Now: now, Loc: time.UTC}
}

func call(t *testing.T, lib Library, name string, args map[string]any) (string, string) {
	t.Helper()
	resp := lib(context.Background(), &genai.FunctionCall{ID: "1", Name: name, Args: args})
	if resp.ID != "1" || resp.Name != name {
		t.Errorf("response to %s has id %q and name %q", name, resp.ID, resp.Name)
	}
	out, _ := resp.Response["output"].(string)
	msg, _ := resp.Response["error"].(string)
	return out, msg
}

func TestToolbox(t *testing.T) {
	tb := newToolbox(t)
	lib := NewLibrary(tb.Functions())

	testCases := []struct {
		name    string
		args    map[string]any
		want    string // in the output
		wantErr string // in the error
	}{
		{name: "Wallet", want: "| Balance | $640.00 |"},
		{name: "Holdings", want: "AAPL Corp"},
		{name: "History", want: "AAPL"},
		{name: "Quote", args: map[string]any{"ticker": " aapl "}, want: "AAPL (AAPL Corp): 190"},
		{name: "Quote", args: map[string]any{"ticker": "MSFT"}, wantErr: "ticker not found"},
		{name: "Quote", args: map[string]any{"ticker": 12}, wantErr: "not a string"},
		{name: "Quote", args: map[string]any{}, wantErr: "ticker is missing"},
		{name: "Topic", args: map[string]any{"topic": "wallet"}, want: "# Wallet"},
		{name: "Topic", args: map[string]any{"topic": "nope"}, wantErr: "not found"},
		{name: "Unknown", wantErr: "unknown function Unknown"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			out, msg := call(t, lib, tc.name, tc.args)
			if tc.wantErr != "" {
				if !strings.Contains(msg, tc.wantErr) {
					t.Errorf("error = %q, want it to contain %q", msg, tc.wantErr)
				}
				return
			}
			if msg != "" {
				t.Fatalf("unexpected error: %s", msg)
			}
			if !strings.Contains(out, tc.want) {
				t.Errorf("output does not contain %q:\n%s", tc.want, out)
			}
		})
	}
}

func TestDeclarations(t *testing.T) {
	tb := newToolbox(t)
	decls := NewDeclarations(tb.Functions())
	seen := make(map[string]bool)
	for _, d := range decls {
		if d.Description == "" {
			t.Errorf("%s has no description", d.Name)
		}
		if seen[d.Name] {
			t.Errorf("%s is declared twice", d.Name)
		}
		seen[d.Name] = true
	}
	if len(seen) != 5 {
		t.Errorf("got %d declarations, want 5", len(seen))
	}

	acc := NewAccountant(tb)
	if got := len(acc.Config.Tools[0].FunctionDeclarations); got != 5 {
		t.Errorf("accountant has %d tools, want 5", got)
	}
	f := newFacilitator(acc, NewTrader())
	if got := len(f.Config.Tools[0].FunctionDeclarations); got != 2 {
		t.Errorf("facilitator knows %d experts, want 2", got)
	}
}

func TestExpertCallWithoutQuestion(t *testing.T) {
	e := NewTrader()
	for _, args := range []map[string]any{{}, {"question": 3}} {
		resp := e.Call(context.Background(), "7", args)
		if _, ok := resp.Response["error"]; !ok {
			t.Errorf("Call(%v) = %v, want an error", args, resp.Response)
		}
	}
	if _, err := e.Ask(context.Background(), &genai.Part{Text: "hi"}); err == nil {
		t.Error("Ask on a stopped expert = nil error, want one")
	}
}

func TestRunBye(t *testing.T) {
	var out bytes.Buffer
	a := New(&out, strings.NewReader(""), nil, NewTrader())
	a.Facilitator.chat = &genai.Chat{} // never used: no question is asked.
	if err := a.Run(context.Background(), nil, "", "bye", "ignored"); err != nil {
		t.Fatalf("Run() unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), prompt+"bye") {
		t.Errorf("unexpected session:\n%s", out.String())
	}

	out.Reset()
	a = New(&out, strings.NewReader("\n"), nil)
	a.Facilitator.chat = &genai.Chat{}
	if err := a.Run(context.Background(), nil); err != nil {
		t.Fatalf("Run() at end of input unexpected error: %v", err)
	}
}
