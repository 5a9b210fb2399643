package system

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"sync"
	"time"

	"github.com/zeusync/forcezone/internal/core/observability/log"
	"github.com/zeusync/forcezone/internal/core/systems"
)

var (
	ErrSystemExists   = errors.New("system already registered")
	ErrSystemNotFound = errors.New("system not found")
	ErrNilSystem      = errors.New("system is nil")
)

// Manager runs registered systems once per step in descending priority.
// Registration order breaks ties.
type Manager struct {
	mu      sync.RWMutex
	systems []systems.System
	byName  map[string]systems.System
	metrics map[string]*systems.Metrics
	logger  log.Log
}

func NewManager(logger log.Log) *Manager {
	if logger == nil {
		logger = log.NewNop()
	}
	return &Manager{
		byName:  make(map[string]systems.System),
		metrics: make(map[string]*systems.Metrics),
		logger:  logger.With(log.String("component", "system-manager")),
	}
}

func (m *Manager) RegisterSystem(s systems.System) error {
	if s == nil {
		return ErrNilSystem
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[s.Name()]; ok {
		return fmt.Errorf("%s: %w", s.Name(), ErrSystemExists)
	}
	m.byName[s.Name()] = s
	m.metrics[s.Name()] = &systems.Metrics{}
	m.systems = append(m.systems, s)
	sort.SliceStable(m.systems, func(i, j int) bool {
		return m.systems[i].Priority() > m.systems[j].Priority()
	})
	return nil
}

func (m *Manager) UnregisterSystem(name string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if _, ok := m.byName[name]; !ok {
		return fmt.Errorf("%s: %w", name, ErrSystemNotFound)
	}
	delete(m.byName, name)
	delete(m.metrics, name)
	for i, s := range m.systems {
		if s.Name() == name {
			m.systems = append(m.systems[:i], m.systems[i+1:]...)
			break
		}
	}
	return nil
}

func (m *Manager) GetSystem(name string) (systems.System, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.byName[name]
	return s, ok
}

// GetExecutionOrder lists system names in the order Update runs them.
func (m *Manager) GetExecutionOrder() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	names := make([]string, len(m.systems))
	for i, s := range m.systems {
		names[i] = s.Name()
	}
	return names
}

func (m *Manager) InitializeAll(ctx context.Context) error {
	for _, s := range m.snapshot() {
		if err := s.Initialize(ctx); err != nil {
			return fmt.Errorf("initialize %s: %w", s.Name(), err)
		}
	}
	return nil
}

// ShutdownAll stops systems in reverse execution order and joins errors.
func (m *Manager) ShutdownAll(ctx context.Context) error {
	list := m.snapshot()
	var all error
	for i := len(list) - 1; i >= 0; i-- {
		if err := list[i].Shutdown(ctx); err != nil {
			all = errors.Join(all, fmt.Errorf("shutdown %s: %w", list[i].Name(), err))
		}
	}
	return all
}

// Update runs every system. A failing system does not stop the step; all
// errors are joined.
func (m *Manager) Update(deltaTime float64, now time.Duration) error {
	var all error
	for _, s := range m.snapshot() {
		start := time.Now()
		err := s.Update(deltaTime, now)
		m.record(s.Name(), time.Since(start), err)
		if err != nil {
			m.logger.Error("system update failed", log.String("system", s.Name()), log.Error(err))
			all = errors.Join(all, fmt.Errorf("%s: %w", s.Name(), err))
		}
	}
	return all
}

func (m *Manager) GetSystemMetrics(name string) (systems.Metrics, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	mm, ok := m.metrics[name]
	if !ok {
		return systems.Metrics{}, false
	}
	return *mm, true
}

func (m *Manager) snapshot() []systems.System {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]systems.System, len(m.systems))
	copy(out, m.systems)
	return out
}

func (m *Manager) record(name string, took time.Duration, err error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if mm, ok := m.metrics[name]; ok {
		mm.Record(took, err)
	}
}
