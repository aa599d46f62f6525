package stk

import (
	"bytes"
	"encoding/csv"
	"slices"
	"strings"
	"testing"
	"time"
)

func TestExportCSV(t *testing.T) {
	s := DefaultState("USD", day0)
	if _, err := s.RecordBuy(day0.Add(time.Hour), "AAPL", "Apple, Inc", d(10), d(50)); err != nil {
		t.Fatal(err)
	}
	if _, err := s.RefreshPrice(day0.Add(2*time.Hour), "AAPL", d(60)); err != nil {
		t.Fatal(err)
	}

	var buf bytes.Buffer
	if err := s.ExportCSV(&buf, time.UTC); err != nil {
		t.Fatalf("ExportCSV() unexpected error: %v", err)
	}
	if !strings.Contains(buf.String(), "\n\nSummary,USD\n") {
		t.Errorf("sections are not separated by an empty line:\n%s", buf.String())
	}

	r := csv.NewReader(&buf)
	r.FieldsPerRecord = -1
	got, err := r.ReadAll()
	if err != nil {
		t.Fatalf("exported CSV does not parse: %v", err)
	}
	want := [][]string{
		{"Ticker", "Company", "Quantity", "Purchase Price", "Current Price", "Profit/Loss", "Profit/Loss %", "Last Update"},
		{"AAPL", "Apple, Inc", "10", "50.00", "60.00", "100.00", "20.00", "2025-03-03 12:00:00"},
		{"Summary", "USD"},
		{"Balance", "500.00"},
		{"Total Invested", "500.00"},
		{"Current Value", "600.00"},
		{"Total Profit/Loss", "100.00"},
		{"Date", "Type", "Ticker", "Quantity", "Unit Price", "Amount", "Balance After"},
		{"2025-03-03 10:00:00", "deposit", "", "", "", "1000.00", "1000.00"},
		{"2025-03-03 11:00:00", "buy", "AAPL", "10", "50.00", "-500.00", "500.00"},
	}
	if len(got) != len(want) {
		t.Fatalf("got %d records, want %d:\n%v", len(got), len(want), got)
	}
	for i := range want {
		if !slices.Equal(got[i], want[i]) {
			t.Errorf("record %d = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestExportCSVEmpty(t *testing.T) {
	var buf bytes.Buffer
	if err := NewState("USD").ExportCSV(&buf, time.UTC); err != nil {
		t.Fatalf("ExportCSV() unexpected error: %v", err)
	}
	lines := strings.Split(strings.TrimSpace(buf.String()), "\n")
	if lines[0] != "Ticker,Company,Quantity,Purchase Price,Current Price,Profit/Loss,Profit/Loss %,Last Update" || lines[1] != "" {
		t.Errorf("holdings section of an empty state:\n%s", buf.String())
	}
	if last := lines[len(lines)-1]; last != "Date,Type,Ticker,Quantity,Unit Price,Amount,Balance After" {
		t.Errorf("last line = %q, want the history header", last)
	}
}
