package quote

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/etnz/stk/date"
	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
)

// fakeGateway serves canned answers keyed by "endpoint symbol".
type fakeGateway struct {
	answers map[string]string
	status  map[string]int
	calls   atomic.Int32
	last    atomic.Value // url.Values of the last request
}

func (g *fakeGateway) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	g.calls.Add(1)
	q := r.URL.Query()
	g.last.Store(q)
	key := q.Get("endpoint") + " " + q.Get("symbol")
	if code, ok := g.status[key]; ok {
		w.WriteHeader(code)
		fmt.Fprintf(w, `{"error":"API request failed with status %d"}`, code)
		return
	}
	body, ok := g.answers[key]
	if !ok {
		w.WriteHeader(http.StatusNotFound)
		return
	}
	w.Header().Set("Content-Type", "application/json")
	fmt.Fprint(w, body)
}

func newTestClient(t *testing.T, g http.Handler) *Client {
	t.Helper()
	srv := httptest.NewServer(g)
	t.Cleanup(srv.Close)
	return New(srv.URL+"/quote-data", WithDelay(0), WithLogger(zerolog.Nop()))
}

func TestCurrentPrice(t *testing.T) {
	testCases := []struct {
		name      string
		body      string
		status    int
		want      string // "" means no result
		wantCalls int32
	}{
		{name: "price", body: `{"symbol":"AAPL","price":"182.52"}`, want: "182.52", wantCalls: 1},
		{name: "close fallback", body: `{"symbol":"AAPL","close":"181.00"}`, want: "181", wantCalls: 1},
		{name: "empty price falls back", body: `{"price":"","close":"3.5"}`, want: "3.5", wantCalls: 1},
		{name: "numeric price", body: `{"price":12.25}`, want: "12.25", wantCalls: 1},
		{name: "error envelope", body: `{"code":404,"message":"symbol not found","status":"error"}`, wantCalls: 1},
		{name: "missing price", body: `{"symbol":"AAPL"}`, wantCalls: 1},
		{name: "invalid price", body: `{"price":"n/a"}`, wantCalls: 1},
		{name: "rate limited", status: http.StatusTooManyRequests, wantCalls: 3},
		{name: "bad key", status: http.StatusUnauthorized, wantCalls: 3},
		{name: "server error", status: http.StatusInternalServerError, wantCalls: 3},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			g := &fakeGateway{answers: map[string]string{"quote AAPL": tc.body}}
			if tc.status != 0 {
				g.status = map[string]int{"quote AAPL": tc.status}
			}
			c := newTestClient(t, g)
			got, ok := c.CurrentPrice(context.Background(), " aapl ")
			if tc.want == "" {
				if ok {
					t.Errorf("CurrentPrice() = %v, want no result", got)
				}
			} else if !ok || !got.Equal(decimal.RequireFromString(tc.want)) {
				t.Errorf("CurrentPrice() = %v, %v, want %v", got, ok, tc.want)
			}
			if got := g.calls.Load(); got != tc.wantCalls {
				t.Errorf("gateway called %d times, want %d", got, tc.wantCalls)
			}
		})
	}
}

// flaky fails a fixed number of times before answering.
type flaky struct {
	failures int32
	calls    atomic.Int32
	body     string
}

func (f *flaky) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	if f.calls.Add(1) <= f.failures {
		w.WriteHeader(http.StatusServiceUnavailable)
		return
	}
	fmt.Fprint(w, f.body)
}

func TestRetry(t *testing.T) {
	f := &flaky{failures: 2, body: `{"price":"10"}`}
	c := newTestClient(t, f)
	if _, ok := c.CurrentPrice(context.Background(), "X"); !ok {
		t.Errorf("CurrentPrice() failed after two transient errors")
	}
	if got := f.calls.Load(); got != 3 {
		t.Errorf("gateway called %d times, want 3", got)
	}

	f = &flaky{failures: 3, body: `{"price":"10"}`}
	c = newTestClient(t, f)
	if _, ok := c.CurrentPrice(context.Background(), "X"); ok {
		t.Errorf("CurrentPrice() succeeded after three errors")
	}
}

func TestValidateTicker(t *testing.T) {
	g := &fakeGateway{answers: map[string]string{"quote AAPL": `{"price":"1"}`}}
	c := newTestClient(t, g)
	if !c.ValidateTicker(context.Background(), "aapl") {
		t.Errorf("ValidateTicker(aapl) = false, want true")
	}
	if c.ValidateTicker(context.Background(), "nope") {
		t.Errorf("ValidateTicker(nope) = true, want false")
	}
}

func TestCurrentPrices(t *testing.T) {
	g := &fakeGateway{answers: map[string]string{
		"quote AAPL": `{"price":"1"}`,
		"quote MSFT": `{"price":"2"}`,
		"quote BAD":  `{"status":"error","message":"nope"}`,
	}}
	c := newTestClient(t, g)
	got := c.CurrentPrices(context.Background(), []string{"AAPL", "msft", "BAD"})
	if len(got) != 2 || !got["AAPL"].Equal(decimal.NewFromInt(1)) || !got["MSFT"].Equal(decimal.NewFromInt(2)) {
		t.Errorf("CurrentPrices() = %v, want AAPL:1 MSFT:2", got)
	}
}

const aaplSeries = `{
	"meta": {"symbol": "AAPL", "interval": "1day"},
	"values": [
		{"datetime": "2025-03-05", "close": "182.00"},
		{"datetime": "2025-03-04", "close": "181.50"},
		{"datetime": "2025-03-03", "close": "180.00"}
	],
	"status": "ok"
}`

func TestHistoricalData(t *testing.T) {
	g := &fakeGateway{answers: map[string]string{
		"time_series AAPL": aaplSeries,
		"time_series BAD":  `{"values":[{"datetime":"2025-03-05","close":"1"},{"datetime":"2025-03-04","close":"oops"}]}`,
		"time_series NONE": `{"meta":{},"values":[]}`,
		"time_series ERR":  `{"status":"error","message":"invalid interval"}`,
	}}
	c := newTestClient(t, g)
	ctx := context.Background()

	s, ok := c.HistoricalData(ctx, "aapl", "1day", 3)
	if !ok {
		t.Fatalf("HistoricalData(AAPL) no result")
	}
	if got, want := strings.Join(s.Dates, ","), "2025-03-03,2025-03-04,2025-03-05"; got != want {
		t.Errorf("dates = %s, want %s", got, want)
	}
	if !s.Prices[0].Equal(decimal.NewFromInt(180)) || !s.Prices[2].Equal(decimal.NewFromInt(182)) {
		t.Errorf("prices = %v, want chronological order", s.Prices)
	}
	if q := g.last.Load().(url.Values); q.Get("interval") != "1day" || q.Get("outputsize") != "3" {
		t.Errorf("query = %v, want interval and outputsize forwarded", q)
	}
	first, last, pct, ok := s.Change()
	if !ok || !first.Equal(decimal.NewFromInt(180)) || !last.Equal(decimal.NewFromInt(182)) || pct.StringFixed(2) != "1.11" {
		t.Errorf("Change() = %v %v %v %v", first, last, pct, ok)
	}

	for _, ticker := range []string{"BAD", "NONE", "ERR", "UNKNOWN"} {
		if s, ok := c.HistoricalData(ctx, ticker, "", 0); ok {
			t.Errorf("HistoricalData(%s) = %v, want no result", ticker, s)
		}
	}
}

func TestMultipleHistoricalData(t *testing.T) {
	g := &fakeGateway{answers: map[string]string{
		"time_series AAPL,MSFT,BAD": `{
			"AAPL": ` + aaplSeries + `,
			"MSFT": {"values": [{"datetime": "2025-03-05", "close": "400"}]},
			"BAD": {"status": "error", "message": "not found"}
		}`,
		"time_series AAPL": aaplSeries,
	}}
	c := newTestClient(t, g)
	ctx := context.Background()

	got := c.MultipleHistoricalData(ctx, []string{"aapl", "MSFT", "BAD", "AAPL"})
	if len(got) != 3 {
		t.Fatalf("len = %d, want 3", len(got))
	}
	if got["AAPL"] == nil || got["AAPL"].Len() != 3 {
		t.Errorf("AAPL = %v, want 3 points", got["AAPL"])
	}
	if got["MSFT"] == nil || got["MSFT"].Len() != 1 {
		t.Errorf("MSFT = %v, want 1 point", got["MSFT"])
	}
	if got["BAD"] != nil {
		t.Errorf("BAD = %v, want nil", got["BAD"])
	}

	single := c.MultipleHistoricalData(ctx, []string{"AAPL"})
	if single["AAPL"] == nil || single["AAPL"].Len() != 3 {
		t.Errorf("single AAPL = %v, want 3 points", single["AAPL"])
	}

	down := newTestClient(t, &fakeGateway{status: map[string]int{"time_series AAPL,MSFT,BAD": http.StatusTooManyRequests}})
	failed := down.MultipleHistoricalData(ctx, []string{"AAPL", "MSFT", "BAD"})
	for ticker, s := range failed {
		if s != nil {
			t.Errorf("%s = %v after a transport failure, want nil", ticker, s)
		}
	}
}

func TestHistoricalPrice(t *testing.T) {
	g := &fakeGateway{answers: map[string]string{
		"time_series AAPL": `{"values":[{"datetime":"2025-03-04","close":"181.50"}]}`,
	}}
	c := newTestClient(t, g)
	day := date.New(2025, 3, 4)
	got, ok := c.HistoricalPrice(context.Background(), "AAPL", day)
	if !ok || !got.Equal(decimal.RequireFromString("181.5")) {
		t.Errorf("HistoricalPrice() = %v, %v, want 181.5", got, ok)
	}
	q := g.last.Load().(url.Values)
	if q.Get("start_date") != "2025-03-04" || q.Get("end_date") != "2025-03-04" {
		t.Errorf("query = %v, want start and end on 2025-03-04", q)
	}
}

func TestCompanyName(t *testing.T) {
	g := &fakeGateway{answers: map[string]string{
		"quote AAPL": `{"name":"<b>Apple</b> Inc","price":"1"}`,
		"quote ATT":  `{"name":"AT&T Inc."}`,
	}}
	c := newTestClient(t, g)
	ctx := context.Background()

	name, ok := c.CompanyName(ctx, "aapl")
	if !ok || name != "Apple Inc" {
		t.Errorf("CompanyName(aapl) = %q, %v, want Apple Inc", name, ok)
	}
	calls := g.calls.Load()
	if name, _ := c.CompanyName(ctx, "AAPL"); name != "Apple Inc" || g.calls.Load() != calls {
		t.Errorf("CompanyName(AAPL) not served from cache")
	}
	if name, _ := c.CompanyName(ctx, "ATT"); name != "AT&T Inc." {
		t.Errorf("CompanyName(ATT) = %q, want AT&T Inc.", name)
	}

	down := &fakeGateway{status: map[string]int{"quote GONE": http.StatusInternalServerError}}
	if _, ok := newTestClient(t, down).CompanyName(ctx, "GONE"); ok {
		t.Errorf("CompanyName(GONE) found a name")
	}
	if got := down.calls.Load(); got != 6 {
		t.Errorf("gateway called %d times, want 6", got)
	}
}

func TestCancelledContext(t *testing.T) {
	g := &fakeGateway{answers: map[string]string{"quote AAPL": `{"price":"1"}`}}
	c := newTestClient(t, g)
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, ok := c.CurrentPrice(ctx, "AAPL"); ok {
		t.Errorf("CurrentPrice() returned a price on a cancelled context")
	}
}
