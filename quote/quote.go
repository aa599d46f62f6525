package quote

import (
	"context"
	"fmt"
	"html"
	"net/url"
	"slices"
	"strconv"
	"strings"
	"sync"

	"github.com/etnz/stk/date"
	"github.com/shopspring/decimal"
)

// Series is a price history in chronological order: Prices[i] is the close
// price on Dates[i].
type Series struct {
	Dates  []string
	Prices []decimal.Decimal
}

// Len returns the number of points.
func (s Series) Len() int { return len(s.Dates) }

// Change returns the first and last price, and the last relative to the first
// in percent. ok is false if the series is empty.
func (s Series) Change() (first, last, percent decimal.Decimal, ok bool) {
	if len(s.Prices) == 0 {
		return decimal.Zero, decimal.Zero, decimal.Zero, false
	}
	first, last = s.Prices[0], s.Prices[len(s.Prices)-1]
	if !first.IsZero() {
		percent = last.Sub(first).DivRound(first, 16).Mul(decimal.NewFromInt(100))
	}
	return first, last, percent, true
}

func normalize(ticker string) string { return strings.ToUpper(strings.TrimSpace(ticker)) }

// CurrentPrice returns the live price of ticker. The "price" field of the
// quote is used, or "close" when it is missing.
func (c *Client) CurrentPrice(ctx context.Context, ticker string) (decimal.Decimal, bool) {
	ticker = normalize(ticker)
	jobj, err := c.call(ctx, "quote", url.Values{"symbol": {ticker}})
	if err != nil {
		c.failed(err, "current price", ticker)
		return decimal.Zero, false
	}
	if msg, isErr := upstreamError(jobj); isErr {
		c.log.Warn().Str("ticker", ticker).Str("message", msg).Msg("quote rejected by upstream")
		return decimal.Zero, false
	}
	jprice := field(jobj, "$.price")
	if s, ok := jprice.(string); jprice == nil || ok && s == "" {
		jprice = field(jobj, "$.close")
	}
	if jprice == nil {
		c.log.Warn().Str("ticker", ticker).Msg("no price in quote")
		return decimal.Zero, false
	}
	price, ok := toDecimal(jprice)
	if !ok {
		c.log.Warn().Str("ticker", ticker).Any("price", jprice).Msg("invalid price in quote")
		return decimal.Zero, false
	}
	return price, true
}

// ValidateTicker reports whether ticker has a live price.
func (c *Client) ValidateTicker(ctx context.Context, ticker string) bool {
	_, ok := c.CurrentPrice(ctx, ticker)
	return ok
}

// CurrentPrices looks up the live price of every ticker concurrently. The
// result only contains the tickers that have one.
func (c *Client) CurrentPrices(ctx context.Context, tickers []string) map[string]decimal.Decimal {
	var (
		mu     sync.Mutex
		wg     sync.WaitGroup
		prices = make(map[string]decimal.Decimal, len(tickers))
	)
	for _, ticker := range tickers {
		wg.Add(1)
		go func(ticker string) {
			defer wg.Done()
			price, ok := c.CurrentPrice(ctx, ticker)
			if !ok {
				return
			}
			mu.Lock()
			prices[ticker] = price
			mu.Unlock()
		}(normalize(ticker))
	}
	wg.Wait()
	return prices
}

// CompanyName returns the company name of ticker, stripped of any markup.
// Names are cached for the life of the client.
func (c *Client) CompanyName(ctx context.Context, ticker string) (string, bool) {
	ticker = normalize(ticker)
	if name, ok := c.names.Get(ticker); ok {
		return name.(string), true
	}
	var (
		jobj any
		err  error
	)
	// one more attempt on top of the transport retries.
	for range 2 {
		if jobj, err = c.call(ctx, "quote", url.Values{"symbol": {ticker}}); err == nil || ctx.Err() != nil {
			break
		}
	}
	if err != nil {
		c.failed(err, "company name", ticker)
		return "", false
	}
	if _, isErr := upstreamError(jobj); isErr {
		return "", false
	}
	name := strings.TrimSpace(html.UnescapeString(c.policy.Sanitize(stringField(jobj, "$.name"))))
	if name == "" {
		return "", false
	}
	c.names.SetDefault(ticker, name)
	return name, true
}

// HistoricalData returns outputSize close prices of ticker sampled at
// interval (e.g. "1day", "1week", "1h"). A single malformed price
// invalidates the whole series.
func (c *Client) HistoricalData(ctx context.Context, ticker, interval string, outputSize int) (Series, bool) {
	ticker = normalize(ticker)
	if interval == "" {
		interval = "1day"
	}
	if outputSize <= 0 {
		outputSize = 30
	}
	jobj, err := c.call(ctx, "time_series", url.Values{
		"symbol":     {ticker},
		"interval":   {interval},
		"outputsize": {strconv.Itoa(outputSize)},
	})
	if err != nil {
		c.failed(err, "historical data", ticker)
		return Series{}, false
	}
	s, err := parseSeries(jobj)
	if err != nil {
		c.log.Warn().Err(err).Str("ticker", ticker).Msg("no historical data")
		return Series{}, false
	}
	return s, true
}

// MultipleHistoricalData returns the last 30 daily close prices of each
// ticker in a single request. Tickers without valid data map to nil.
func (c *Client) MultipleHistoricalData(ctx context.Context, tickers []string) map[string]*Series {
	clean := make([]string, 0, len(tickers))
	for _, t := range tickers {
		if t = normalize(t); t != "" && !slices.Contains(clean, t) {
			clean = append(clean, t)
		}
	}
	result := make(map[string]*Series, len(clean))
	for _, t := range clean {
		result[t] = nil
	}
	switch len(clean) {
	case 0:
		return result
	case 1:
		// the upstream does not key the response of a single symbol.
		if s, ok := c.HistoricalData(ctx, clean[0], "1day", 30); ok {
			result[clean[0]] = &s
		}
		return result
	}

	jobj, err := c.call(ctx, "time_series", url.Values{
		"symbol":     {strings.Join(clean, ",")},
		"interval":   {"1day"},
		"outputsize": {"30"},
	})
	if err != nil {
		c.failed(err, "historical data", strings.Join(clean, ","))
		return result
	}
	byTicker, _ := jobj.(map[string]any)
	for _, t := range clean {
		s, err := parseSeries(byTicker[t])
		if err != nil {
			c.log.Warn().Err(err).Str("ticker", t).Msg("no historical data")
			continue
		}
		result[t] = &s
	}
	return result
}

// HistoricalPrice returns the close price of ticker on day.
func (c *Client) HistoricalPrice(ctx context.Context, ticker string, day date.Date) (decimal.Decimal, bool) {
	ticker = normalize(ticker)
	jobj, err := c.call(ctx, "time_series", url.Values{
		"symbol":     {ticker},
		"interval":   {"1day"},
		"start_date": {day.String()},
		"end_date":   {day.String()},
	})
	if err != nil {
		c.failed(err, "historical price", ticker)
		return decimal.Zero, false
	}
	if msg, isErr := upstreamError(jobj); isErr {
		c.log.Warn().Str("ticker", ticker).Stringer("day", day).Str("message", msg).Msg("historical price rejected by upstream")
		return decimal.Zero, false
	}
	values := list(jobj, "$.values")
	if len(values) == 0 {
		c.log.Warn().Str("ticker", ticker).Stringer("day", day).Msg("no historical price")
		return decimal.Zero, false
	}
	price, ok := toDecimal(field(values[0], "$.close"))
	if !ok {
		c.log.Warn().Str("ticker", ticker).Stringer("day", day).Msg("invalid historical price")
		return decimal.Zero, false
	}
	return price, true
}

// parseSeries reads a time_series response, whose values are newest first.
func parseSeries(jobj any) (Series, error) {
	if jobj == nil {
		return Series{}, fmt.Errorf("missing response")
	}
	if msg, isErr := upstreamError(jobj); isErr {
		return Series{}, fmt.Errorf("upstream error: %s", msg)
	}
	values := list(jobj, "$.values")
	if len(values) == 0 {
		return Series{}, fmt.Errorf("no values")
	}
	s := Series{
		Dates:  make([]string, len(values)),
		Prices: make([]decimal.Decimal, len(values)),
	}
	for i, v := range values {
		j := len(values) - 1 - i
		s.Dates[j] = stringField(v, "$.datetime")
		price, ok := toDecimal(field(v, "$.close"))
		if !ok {
			return Series{}, fmt.Errorf("invalid price %v on %q", field(v, "$.close"), s.Dates[j])
		}
		s.Prices[j] = price
	}
	return s, nil
}
