package printer

import (
	"context"
	"errors"
	"net"
	"strconv"
	"strings"
	"sync"
	"time"

	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

// ManagerConfig is the connection policy of a Manager.
type ManagerConfig struct {
	DefaultPort        int
	CharWidth          int
	MaxAttempts        int
	AttemptTimeout     time.Duration
	RetryDelay         time.Duration
	RemoveSpecialChars bool
}

// DefaultManagerConfig returns the stock policy: port 9100, 48 columns,
// 4 attempts of 5s each, 1s apart.
func DefaultManagerConfig() ManagerConfig {
	return ManagerConfig{
		DefaultPort:        9100,
		CharWidth:          DefaultWidth,
		MaxAttempts:        4,
		AttemptTimeout:     5 * time.Second,
		RetryDelay:         time.Second,
		RemoveSpecialChars: true,
	}
}

// ManagerOption customizes a Manager.
type ManagerOption func(*Manager)

// WithSleep replaces the wait between liveness attempts.
func WithSleep(fn func(ctx context.Context, d time.Duration) error) ManagerOption {
	return func(m *Manager) {
		m.sleep = fn
	}
}

// WithAttemptHook registers a callback invoked after every liveness attempt.
func WithAttemptHook(fn func(ok bool)) ManagerOption {
	return func(m *Manager) {
		m.onAttempt = fn
	}
}

// Manager maps printer addresses to live handles. A handle is probed once,
// when first acquired, and then served from cache for the life of the process.
type Manager struct {
	connector Connector
	cfg       ManagerConfig
	filter    *TextFilter
	logger    *zap.Logger

	mu      sync.RWMutex
	handles map[string]*Handle
	group   singleflight.Group

	sleep     func(ctx context.Context, d time.Duration) error
	onAttempt func(ok bool)
}

// NewManager creates a Manager that builds transports with connector.
func NewManager(connector Connector, cfg ManagerConfig, logger *zap.Logger, opts ...ManagerOption) *Manager {
	def := DefaultManagerConfig()
	if cfg.DefaultPort <= 0 {
		cfg.DefaultPort = def.DefaultPort
	}
	if cfg.CharWidth <= 0 {
		cfg.CharWidth = def.CharWidth
	}
	if cfg.MaxAttempts <= 0 {
		cfg.MaxAttempts = def.MaxAttempts
	}
	if cfg.AttemptTimeout <= 0 {
		cfg.AttemptTimeout = def.AttemptTimeout
	}
	if cfg.RetryDelay < 0 {
		cfg.RetryDelay = 0
	}
	if logger == nil {
		logger = zap.NewNop()
	}

	m := &Manager{
		connector: connector,
		cfg:       cfg,
		filter:    NewTextFilter(cfg.RemoveSpecialChars),
		logger:    logger.Named("printer"),
		handles:   make(map[string]*Handle),
		sleep:     sleepContext,
		onAttempt: func(bool) {},
	}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// Config returns the effective policy.
func (m *Manager) Config() ManagerConfig {
	return m.cfg
}

// ResolveAddress normalizes "host" or "host:port" into the cache key "host:port".
func (m *Manager) ResolveAddress(address string) (string, error) {
	address = strings.TrimSpace(address)
	if address == "" {
		return "", ErrNoAddress
	}

	host, port, err := net.SplitHostPort(address)
	if err != nil {
		// bare host or IPv6 literal without a port
		host = strings.Trim(address, "[]")
		port = strconv.Itoa(m.cfg.DefaultPort)
	}
	if host == "" {
		return "", ErrNoAddress
	}
	if port == "" {
		port = strconv.Itoa(m.cfg.DefaultPort)
	}
	return net.JoinHostPort(host, port), nil
}

// Acquire returns the cached handle for address, connecting first if needed.
// Concurrent first acquisitions of one address share a single connection
// attempt, which runs detached from any one caller's cancellation and is
// bounded by the retry policy. A caller whose ctx ends stops waiting and gets
// ctx.Err(). On failure nothing is cached and a *ConnectionError is returned.
func (m *Manager) Acquire(ctx context.Context, address string) (*Handle, error) {
	key, err := m.ResolveAddress(address)
	if err != nil {
		return nil, err
	}

	if h, ok := m.lookup(key); ok {
		return h, nil
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	shared := context.WithoutCancel(ctx)
	ch := m.group.DoChan(key, func() (interface{}, error) {
		if h, ok := m.lookup(key); ok {
			return h, nil
		}
		h, err := m.connect(shared, key)
		if err != nil {
			return nil, err
		}
		m.mu.Lock()
		m.handles[key] = h
		m.mu.Unlock()
		return h, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Handle), nil
	case <-ctx.Done():
		return nil, ctx.Err()
	}
}

// Len returns the number of cached handles.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.handles)
}

// Reset drops every cached handle.
func (m *Manager) Reset() {
	m.mu.Lock()
	defer m.mu.Unlock()
	for key, h := range m.handles {
		_ = h.printer.Close()
		delete(m.handles, key)
	}
}

func (m *Manager) lookup(key string) (*Handle, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	h, ok := m.handles[key]
	return h, ok
}

func (m *Manager) connect(ctx context.Context, key string) (*Handle, error) {
	p := m.connector.Connect(key)

	var lastErr error
	attempts := 0
	for attempts < m.cfg.MaxAttempts {
		attempts++

		ok, err := m.probe(ctx, p)
		m.onAttempt(ok)
		if ok {
			m.logger.Debug("printer connected", zap.String("address", key), zap.Int("attempt", attempts))
			return newHandle(key, p, m.cfg.CharWidth, m.filter), nil
		}
		if err == nil {
			err = ErrNotReady
		}
		lastErr = err
		m.logger.Warn("printer connection attempt failed",
			zap.String("address", key),
			zap.Int("attempt", attempts),
			zap.Int("max_attempts", m.cfg.MaxAttempts),
			zap.Error(err),
		)

		if attempts < m.cfg.MaxAttempts {
			if err := m.sleep(ctx, m.cfg.RetryDelay); err != nil {
				lastErr = err
				break
			}
		}
	}

	_ = p.Close()
	return nil, &ConnectionError{Address: key, Attempts: attempts, Err: lastErr}
}

func (m *Manager) probe(ctx context.Context, p Printer) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, m.cfg.AttemptTimeout)
	defer cancel()

	type result struct {
		ok  bool
		err error
	}
	done := make(chan result, 1)
	go func() {
		ok, err := p.IsConnected(ctx)
		done <- result{ok, err}
	}()

	select {
	case r := <-done:
		return r.ok, r.err
	case <-ctx.Done():
		if errors.Is(ctx.Err(), context.DeadlineExceeded) {
			return false, errors.New("printer: liveness probe timed out")
		}
		return false, ctx.Err()
	}
}

func sleepContext(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
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
