package session

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"go.uber.org/zap"

	"Streamflix/internal/catalog"
	"Streamflix/internal/query"
)

const (
	DefaultTTL           = 30 * time.Minute
	DefaultSweepInterval = time.Minute
)

type Config struct {
	Debounce time.Duration
	TTL      time.Duration
	Clock    query.Clock
	Now      func() time.Time
	Registry prometheus.Registerer
	Log      *zap.Logger
}

// Manager owns every live session.
type Manager struct {
	store  *catalog.Store
	engine *query.Engine
	cfg    Config
	active prometheus.Gauge

	mu sync.RWMutex
	m  map[string]*Session
}

func NewManager(store *catalog.Store, engine *query.Engine, cfg Config) *Manager {
	if cfg.Debounce <= 0 {
		cfg.Debounce = query.DefaultDebounce
	}
	if cfg.TTL <= 0 {
		cfg.TTL = DefaultTTL
	}
	if cfg.Clock == nil {
		cfg.Clock = query.RealClock
	}
	if cfg.Now == nil {
		cfg.Now = time.Now
	}
	if cfg.Log == nil {
		cfg.Log = zap.NewNop()
	}

	m := &Manager{
		store:  store,
		engine: engine,
		cfg:    cfg,
		m:      map[string]*Session{},
		active: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "catalog_sessions_active",
			Help: "Live browse sessions",
		}),
	}
	if cfg.Registry != nil {
		cfg.Registry.MustRegister(m.active)
	}
	return m
}

func (m *Manager) Create() *Session {
	s := New(uuid.NewString(), m.store, m.engine.NewStream(m.cfg.Debounce, m.cfg.Clock), m.cfg.Now())

	m.mu.Lock()
	m.m[s.ID] = s
	n := len(m.m)
	m.mu.Unlock()

	m.active.Set(float64(n))
	return s
}

// Get returns the session and marks it as used.
func (m *Manager) Get(id string) (*Session, bool) {
	m.mu.RLock()
	s, ok := m.m[id]
	m.mu.RUnlock()

	if ok {
		s.touch(m.cfg.Now())
	}
	return s, ok
}

func (m *Manager) Delete(id string) bool {
	m.mu.Lock()
	s, ok := m.m[id]
	delete(m.m, id)
	n := len(m.m)
	m.mu.Unlock()

	if ok {
		s.Close()
		m.active.Set(float64(n))
	}
	return ok
}

func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.m)
}

// Sweep drops sessions idle for longer than the TTL and returns how many.
func (m *Manager) Sweep(now time.Time) int {
	cutoff := now.Add(-m.cfg.TTL)

	m.mu.Lock()
	var expired []*Session
	for id, s := range m.m {
		if s.idleSince().Before(cutoff) {
			expired = append(expired, s)
			delete(m.m, id)
		}
	}
	n := len(m.m)
	m.mu.Unlock()

	for _, s := range expired {
		s.Close()
	}
	m.active.Set(float64(n))
	return len(expired)
}

// Run sweeps on every tick until ctx is done.
func (m *Manager) Run(ctx context.Context, every time.Duration) error {
	if every <= 0 {
		every = DefaultSweepInterval
	}
	t := time.NewTicker(every)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-t.C:
			if n := m.Sweep(m.cfg.Now()); n > 0 {
				m.cfg.Log.Info("sessions expired", zap.Int("count", n), zap.Int("active", m.Len()))
			}
		}
	}
}
