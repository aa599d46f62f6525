// Package gateway implements the quote gateway: a stateless HTTP proxy that
// forwards quote requests to the upstream API and injects the API key, so
// that the key never reaches the clients.
//
//	GET /quote-data?endpoint=quote&symbol=AAPL
//
// is forwarded to
//
//	GET https://api.twelvedata.com/quote?symbol=AAPL&apikey=...
package gateway

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

// DefaultUpstreamURL is the base URL of the quote API.
const DefaultUpstreamURL = "https://api.twelvedata.com"

// Path is where the gateway answers.
const Path = "/quote-data"

// Config of a Gateway.
type Config struct {
	APIKey            string        // empty answers every request with 500
	UpstreamURL       string        // defaults to DefaultUpstreamURL
	RequestsPerSecond float64       // zero or less disables rate limiting
	Timeout           time.Duration // upstream request timeout, defaults to 15s
}

// Gateway is the http.Handler of the quote gateway.
type Gateway struct {
	cfg     Config
	client  *http.Client
	limiter *rate.Limiter
	log     zerolog.Logger
	router  chi.Router
}

// Option configures a Gateway.
type Option func(*Gateway)

// WithHTTPClient sets the client used to reach the upstream.
func WithHTTPClient(c *http.Client) Option { return func(g *Gateway) { g.client = c } }

// WithLogger sets the gateway logger.
func WithLogger(l zerolog.Logger) Option { return func(g *Gateway) { g.log = l } }

// New returns a Gateway for cfg.
func New(cfg Config, opts ...Option) *Gateway {
	if cfg.UpstreamURL == "" {
		cfg.UpstreamURL = DefaultUpstreamURL
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = 15 * time.Second
	}
	g := &Gateway{
		cfg:    cfg,
		client: &http.Client{Timeout: cfg.Timeout},
		log:    log.Logger,
	}
	if cfg.RequestsPerSecond > 0 {
		burst := max(1, int(cfg.RequestsPerSecond))
		g.limiter = rate.NewLimiter(rate.Limit(cfg.RequestsPerSecond), burst)
	}
	for _, opt := range opts {
		opt(g)
	}

	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(g.requestLogger)
	r.Use(cors)
	r.Use(g.rateLimit)
	r.Get(Path, g.quoteData)
	r.Options(Path, func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusNoContent) })
	g.router = r
	return g
}

func (g *Gateway) ServeHTTP(w http.ResponseWriter, r *http.Request) { g.router.ServeHTTP(w, r) }

func cors(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Access-Control-Allow-Origin", "*")
		w.Header().Set("Access-Control-Allow-Methods", "GET, OPTIONS")
		w.Header().Set("Access-Control-Allow-Headers", "Accept, Content-Type")
		next.ServeHTTP(w, r)
	})
}

func (g *Gateway) rateLimit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if g.limiter != nil && !g.limiter.Allow() {
			g.log.Warn().Str("path", r.URL.Path).Msg("rate limit exceeded")
			writeError(w, http.StatusTooManyRequests, http.StatusText(http.StatusTooManyRequests))
			return
		}
		next.ServeHTTP(w, r)
	})
}

func (g *Gateway) requestLogger(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)
		g.log.Info().
			Str("method", r.Method).
			Str("endpoint", r.URL.Query().Get("endpoint")).
			Str("symbol", r.URL.Query().Get("symbol")).
			Int("status", ww.Status()).
			Dur("elapsed", time.Since(start)).
			Msg("quote-data")
	})
}

// quoteData forwards the request to the upstream endpoint.
func (g *Gateway) quoteData(w http.ResponseWriter, r *http.Request) {
	if g.cfg.APIKey == "" {
		writeError(w, http.StatusInternalServerError, "API key not configured")
		return
	}
	params := r.URL.Query()
	endpoint := params.Get("endpoint")
	if endpoint == "" {
		writeError(w, http.StatusBadRequest, "Endpoint parameter is required")
		return
	}
	params.Del("endpoint")
	params.Set("apikey", g.cfg.APIKey)
	addr := strings.TrimSuffix(g.cfg.UpstreamURL, "/") + "/" + url.PathEscape(endpoint) + "?" + params.Encode()

	status, body, err := g.fetch(r.Context(), addr)
	if err != nil {
		g.log.Error().Err(err).Str("endpoint", endpoint).Msg("cannot fetch from upstream")
		writeError(w, http.StatusInternalServerError, "Failed to fetch data from API")
		return
	}
	if status < 200 || status >= 300 {
		writeError(w, status, fmt.Sprintf("API request failed with status %d", status))
		return
	}
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	w.Write(body)
}

// fetch gets addr and returns its status and body. The body of a successful
// response must be valid JSON.
func (g *Gateway) fetch(ctx context.Context, addr string) (int, []byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, addr, nil)
	if err != nil {
		return 0, nil, err
	}
	resp, err := g.client.Do(req)
	if err != nil {
		// the key is part of the URL, keep it out of the logs.
		var uerr *url.Error
		if errors.As(err, &uerr) {
			err = uerr.Err
		}
		return 0, nil, err
	}
	defer resp.Body.Close()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return 0, nil, err
	}
	if resp.StatusCode >= 200 && resp.StatusCode < 300 && !json.Valid(body) {
		return 0, nil, fmt.Errorf("upstream answered invalid JSON")
	}
	return resp.StatusCode, body, nil
}

func writeError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	body, _ := json.Marshal(map[string]string{"error": msg})
	w.WriteHeader(status)
	w.Write(body)
}

// ListenAndServe serves h on addr until ctx is cancelled, then shuts the
// server down gracefully.
func ListenAndServe(ctx context.Context, addr string, h http.Handler) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           h,
		ReadHeaderTimeout: 10 * time.Second,
	}
	errc := make(chan error, 1)
	go func() { errc <- srv.ListenAndServe() }()
	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			return err
		}
		return nil
	}
}
