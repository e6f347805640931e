package cache

import (
	"context"
	"sync"
	"time"

	"github.com/fhuszti/image-optimiser-go/internal/model"
	"github.com/fhuszti/image-optimiser-go/internal/port"
)

// Memory is the in-process probe cache used when redis is not configured.
type Memory struct {
	mu        sync.Mutex
	set       model.EncoderSet
	expiresAt time.Time
	now       func() time.Time
}

// compile-time check: *Memory must satisfy port.ProbeCache
var _ port.ProbeCache = (*Memory)(nil)

func NewMemory() *Memory {
	return &Memory{now: time.Now}
}

func (m *Memory) GetProbe(_ context.Context) (model.EncoderSet, bool, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.set == nil || !m.now().Before(m.expiresAt) {
		return nil, false, nil
	}
	return copySet(m.set), true, nil
}

func (m *Memory) SetProbe(_ context.Context, set model.EncoderSet, ttl time.Duration) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = copySet(set)
	m.expiresAt = m.now().Add(ttl)
	return nil
}

func (m *Memory) DeleteProbe(_ context.Context) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.set = nil
	return nil
}

func copySet(in model.EncoderSet) model.EncoderSet {
	out := make(model.EncoderSet, len(in))
	for k, v := range in {
		out[k] = v
	}
	return out
}
