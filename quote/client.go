// Package quote is a client for the quote gateway.
//
// Every lookup returns a result and a boolean: failures of any kind (error
// envelope, missing or malformed field, HTTP status, network) are logged and
// reported as "no result", they are never returned as errors.
package quote

import (
	"context"
	"errors"
	"net/http"
	"net/url"
	"time"

	"github.com/microcosm-cc/bluemonday"
	"github.com/patrickmn/go-cache"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultGatewayURL is the address of a gateway started with "stk serve".
const DefaultGatewayURL = "http://localhost:8888/quote-data"

const (
	defaultRetries = 2
	defaultDelay   = 100 * time.Millisecond
)

// Client queries the quote gateway.
type Client struct {
	gateway string
	http    *http.Client
	retries int
	delay   time.Duration
	limiter *rate.Limiter // nil means unlimited
	names   *cache.Cache
	policy  *bluemonday.Policy
	log     zerolog.Logger
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient sets the http client used to reach the gateway.
func WithHTTPClient(h *http.Client) Option { return func(c *Client) { c.http = h } }

// WithRetries sets how many times a failed request is attempted again.
func WithRetries(n int) Option { return func(c *Client) { c.retries = n } }

// WithDelay sets the pause applied after each request.
func WithDelay(d time.Duration) Option { return func(c *Client) { c.delay = d } }

// WithRequestsPerMinute spaces requests to at most n per minute. Zero or
// less disables the limit.
func WithRequestsPerMinute(n int) Option {
	return func(c *Client) {
		if n <= 0 {
			c.limiter = nil
			return
		}
		c.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(n)), n)
	}
}

// WithLogger sets the client logger.
func WithLogger(l zerolog.Logger) Option { return func(c *Client) { c.log = l } }

// New returns a Client for the gateway at gatewayURL.
func New(gatewayURL string, opts ...Option) *Client {
	if gatewayURL == "" {
		gatewayURL = DefaultGatewayURL
	}
	c := &Client{
		gateway: gatewayURL,
		http:    &http.Client{Timeout: 10 * time.Second},
		retries: defaultRetries,
		delay:   defaultDelay,
		names:   cache.New(24*time.Hour, time.Hour),
		policy:  bluemonday.StrictPolicy(),
		log:     log.Logger,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// call requests endpoint with params through the gateway. The request is
// attempted up to 1+retries times, then the delay is applied before the
// response is returned.
func (c *Client) call(ctx context.Context, endpoint string, params url.Values) (any, error) {
	q := url.Values{"endpoint": {endpoint}}
	for k, v := range params {
		q[k] = v
	}
	addr := c.gateway + "?" + q.Encode()

	var jobj any
	var err error
	for attempt := 0; attempt <= c.retries; attempt++ {
		if c.limiter != nil {
			if err = c.limiter.Wait(ctx); err != nil {
				return nil, err
			}
		}
		jobj, err = jwget(ctx, c.http, addr)
		if err == nil || ctx.Err() != nil {
			break
		}
		c.log.Debug().Err(err).Str("endpoint", endpoint).Int("attempt", attempt+1).Msg("request failed")
	}
	if err != nil {
		return nil, err
	}
	if err := sleep(ctx, c.delay); err != nil {
		return nil, err
	}
	return jobj, nil
}

func sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return nil
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-t.C:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// failed logs a request failure, telling apart the common upstream statuses.
func (c *Client) failed(err error, what, ticker string) {
	level, hint, status := zerolog.ErrorLevel, "", 0
	var se *StatusError
	if errors.As(err, &se) {
		status = se.Code
		switch se.Code {
		case http.StatusTooManyRequests:
			level, hint = zerolog.WarnLevel, "rate limit exceeded, try again in a few seconds"
		case http.StatusUnauthorized:
			hint = "API key invalid or expired"
		case http.StatusNotFound:
			level, hint = zerolog.WarnLevel, "ticker not found"
		}
	}
	ev := c.log.WithLevel(level).Err(err).Str("ticker", ticker)
	if status != 0 {
		ev = ev.Int("status", status)
	}
	if hint != "" {
		ev = ev.Str("hint", hint)
	}
	ev.Msgf("cannot get %s", what)
}
