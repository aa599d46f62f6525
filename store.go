package stk

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

// Keys under which the state is persisted in a Backend.
const (
	KeyWallet    = "wallet"
	KeyPortfolio = "portfolio"
)

// Backend is a minimal key/value storage, the equivalent of a browser local
// storage: string keys mapped to JSON documents.
type Backend interface {
	// Get returns the value stored under key, and false if there is none.
	Get(ctx context.Context, key string) ([]byte, bool, error)
	// Put stores value under key, replacing any previous value.
	Put(ctx context.Context, key string, value []byte) error
}

// Store loads and saves the whole State.
type Store interface {
	Load(ctx context.Context) (*State, error)
	Save(ctx context.Context, s *State) error
}

// StoreOption configures a Store created by NewStore.
type StoreOption func(*kvStore)

// WithCurrency sets the currency of a wallet that does not store one.
func WithCurrency(currency string) StoreOption {
	return func(s *kvStore) { s.currency = currency }
}

// WithStoreClock sets the clock used to date the initial deposit of a new wallet.
func WithStoreClock(now func() time.Time) StoreOption {
	return func(s *kvStore) { s.now = now }
}

// WithStoreLogger sets the logger used to report reset values.
func WithStoreLogger(l zerolog.Logger) StoreOption {
	return func(s *kvStore) { s.log = l }
}

// NewStore returns a Store persisting the state in backend.
//
// A missing wallet is created with the default initial deposit, a missing
// portfolio is created empty, and both are persisted right away. A value
// that cannot be decoded is reset to an empty default and persisted again.
func NewStore(backend Backend, opts ...StoreOption) Store {
	s := &kvStore{backend: backend, currency: DefaultCurrency, now: time.Now, log: log.Logger}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type kvStore struct {
	backend  Backend
	currency string
	now      func() time.Time
	log      zerolog.Logger
}

func (s *kvStore) Load(ctx context.Context) (*State, error) {
	state := NewState(s.currency)

	data, ok, err := s.backend.Get(ctx, KeyWallet)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", KeyWallet, err)
	}
	switch {
	case !ok:
		s.log.Info().Str("key", KeyWallet).Msg("no wallet stored, initializing with default")
		state.Wallet = DefaultState(s.currency, s.now()).Wallet
		if err := s.putWallet(ctx, &state.Wallet); err != nil {
			return nil, err
		}
	default:
		w, err := DecodeWallet(data, s.currency)
		if err != nil {
			s.log.Error().Err(err).Str("key", KeyWallet).Msg("resetting unreadable wallet")
			w = NewWallet(s.currency)
			if err := s.putWallet(ctx, &w); err != nil {
				return nil, err
			}
		}
		state.Wallet = w
	}

	data, ok, err = s.backend.Get(ctx, KeyPortfolio)
	if err != nil {
		return nil, fmt.Errorf("cannot read %q: %w", KeyPortfolio, err)
	}
	var h Holdings
	if ok {
		h, err = DecodeHoldings(data, state.Currency())
		if err != nil {
			s.log.Error().Err(err).Str("key", KeyPortfolio).Msg("resetting unreadable portfolio")
		}
	}
	if !ok || err != nil {
		if !ok {
			s.log.Info().Str("key", KeyPortfolio).Msg("no portfolio stored, initializing empty")
		}
		h = Holdings{}
		if err := s.putHoldings(ctx, &h); err != nil {
			return nil, err
		}
	}
	state.Holdings = h
	return state, nil
}

// Save writes the wallet, then the portfolio. The two keys are not written
// atomically: if the second write fails, the ledger holds a buy or sell
// whose position change is lost, it never holds a position that was not
// paid for.
func (s *kvStore) Save(ctx context.Context, state *State) error {
	if err := s.putWallet(ctx, &state.Wallet); err != nil {
		return err
	}
	return s.putHoldings(ctx, &state.Holdings)
}

func (s *kvStore) putWallet(ctx context.Context, w *Wallet) error {
	data, err := EncodeWallet(w)
	if err != nil {
		return fmt.Errorf("cannot encode %q: %w", KeyWallet, err)
	}
	if err := s.backend.Put(ctx, KeyWallet, data); err != nil {
		return fmt.Errorf("cannot write %q: %w", KeyWallet, err)
	}
	return nil
}

func (s *kvStore) putHoldings(ctx context.Context, h *Holdings) error {
	data, err := EncodeHoldings(h)
	if err != nil {
		return fmt.Errorf("cannot encode %q: %w", KeyPortfolio, err)
	}
	if err := s.backend.Put(ctx, KeyPortfolio, data); err != nil {
		return fmt.Errorf("cannot write %q: %w", KeyPortfolio, err)
	}
	return nil
}

// MemoryBackend is a Backend kept in memory. Its zero value is ready to use.
type MemoryBackend struct {
	mu     sync.Mutex
	values map[string][]byte
}

func (m *MemoryBackend) Get(_ context.Context, key string) ([]byte, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	v, ok := m.values[key]
	return slices.Clone(v), ok, nil
}

func (m *MemoryBackend) Put(_ context.Context, key string, value []byte) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.values == nil {
		m.values = make(map[string][]byte)
	}
	m.values[key] = slices.Clone(value)
	return nil
}

// Keys returns the stored keys in sorted order.
func (m *MemoryBackend) Keys() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	return slices.Sorted(maps.Keys(m.values))
}
