package catalog

import (
	"context"
	"math/rand/v2"
	"time"
)

// Memory serves a Dataset in-process, delaying every call to imitate a
// network round trip.
type Memory struct {
	data    Dataset
	latency time.Duration
	jitter  time.Duration
}

// NewMemory builds a Memory source. Each call waits latency plus a random
// amount in [0, jitter).
func NewMemory(data Dataset, latency, jitter time.Duration) *Memory {
	if latency < 0 {
		latency = 0
	}
	if jitter < 0 {
		jitter = 0
	}
	return &Memory{data: data, latency: latency, jitter: jitter}
}

// Items returns the dataset rows matching f.
func (m *Memory) Items(ctx context.Context, f Filters) ([]Item, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return m.data.Query(f), nil
}

// CategoryOptions returns the category facet values.
func (m *Memory) CategoryOptions(ctx context.Context) ([]string, error) {
	return m.options(ctx, FacetCategory)
}

// StatusOptions returns the status facet values.
func (m *Memory) StatusOptions(ctx context.Context) ([]string, error) {
	return m.options(ctx, FacetStatus)
}

// PlatformOptions returns the platform facet values.
func (m *Memory) PlatformOptions(ctx context.Context) ([]string, error) {
	return m.options(ctx, FacetPlatform)
}

func (m *Memory) options(ctx context.Context, facet Facet) ([]string, error) {
	if err := m.wait(ctx); err != nil {
		return nil, err
	}
	return m.data.Options(facet), nil
}

func (m *Memory) wait(ctx context.Context) error {
	d := m.latency
	if m.jitter > 0 {
		d += rand.N(m.jitter)
	}
	if d <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
