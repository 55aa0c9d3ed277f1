package store

import (
	"context"
	"sync"

	"github.com/AhmedTrigui137/DevMasters-Nasa-Hackathon/internal/domain"
)

// Memory is a thread-safe in-memory point store, keyed by point ID.
// ReadAll returns points in insertion order; overwriting an existing ID
// keeps its original position. Memory never returns a storage error.
type Memory struct {
	mu    sync.RWMutex
	data  map[string]domain.EnvironmentalPoint
	order []string
}

// NewMemory creates a Memory store pre-populated with seed.
func NewMemory(seed ...domain.EnvironmentalPoint) *Memory {
	m := &Memory{data: make(map[string]domain.EnvironmentalPoint, len(seed))}
	for _, p := range seed {
		m.put(p)
	}
	return m
}

// ReadAll returns a copy of every stored point in insertion order.
func (m *Memory) ReadAll(_ context.Context) ([]domain.EnvironmentalPoint, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]domain.EnvironmentalPoint, 0, len(m.order))
	for _, id := range m.order {
		out = append(out, m.data[id])
	}
	return out, nil
}

// Write upserts p by ID and returns the stored point.
func (m *Memory) Write(_ context.Context, p domain.EnvironmentalPoint) (domain.EnvironmentalPoint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.put(p)
	return p, nil
}

// Count returns the number of stored points.
func (m *Memory) Count() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.data)
}

func (m *Memory) put(p domain.EnvironmentalPoint) {
	if _, ok := m.data[p.ID]; !ok {
		m.order = append(m.order, p.ID)
	}
	m.data[p.ID] = p
}
