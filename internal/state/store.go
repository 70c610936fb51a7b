package state

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"github.com/sourcegraph/conc/panics"
	"go.uber.org/zap"

	"github.com/five82/shelf/internal/catalog"
)

// DataSource supplies items and facet options to a ListStore.
// Implementations must return promptly once ctx is cancelled; Close waits
// for every outstanding call.
type DataSource interface {
	Items(ctx context.Context, filters catalog.Filters) ([]catalog.Item, error)
	CategoryOptions(ctx context.Context) ([]string, error)
	StatusOptions(ctx context.Context) ([]string, error)
	PlatformOptions(ctx context.Context) ([]string, error)
}

// FacetOptions holds the selectable values of each categorical filter.
type FacetOptions struct {
	Category []string
	Status   []string
	Platform []string
}

// Get returns the option list for facet.
func (o FacetOptions) Get(facet catalog.Facet) []string {
	switch facet {
	case catalog.FacetCategory:
		return o.Category
	case catalog.FacetStatus:
		return o.Status
	case catalog.FacetPlatform:
		return o.Platform
	default:
		return nil
	}
}

func (o FacetOptions) clone() FacetOptions {
	return FacetOptions{
		Category: catalog.CloneStrings(o.Category),
		Status:   catalog.CloneStrings(o.Status),
		Platform: catalog.CloneStrings(o.Platform),
	}
}

// FetchError records a failed item fetch and the filters it was issued for.
type FetchError struct {
	Filters catalog.Filters
	Err     error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("load items: %v", e.Err)
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Snapshot is a read-only view of the store.
type Snapshot struct {
	Filters             catalog.Filters
	Items               []catalog.Item
	Loading             bool
	Err                 error
	Facets              FacetOptions
	LastUpdated         time.Time
	ConsecutiveFailures int
}

// HasActiveFilters reports whether any text filter is set.
func (s Snapshot) HasActiveFilters() bool {
	return s.Filters.HasActive()
}

// Option configures a ListStore.
type Option func(*ListStore)

// WithLogger sets the store logger. The default discards everything.
func WithLogger(logger *zap.Logger) Option {
	return func(s *ListStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// WithFetchTimeout bounds every DataSource call. Zero means no bound.
func WithFetchTimeout(d time.Duration) Option {
	return func(s *ListStore) {
		if d > 0 {
			s.fetchTimeout = d
		}
	}
}

type fetchToken struct {
	seq     uint64
	filters catalog.Filters
}

// ListStore keeps an item list consistent with the current filters.
type ListStore struct {
	src          DataSource
	logger       *zap.Logger
	fetchTimeout time.Duration

	ctx    context.Context
	cancel context.CancelFunc

	mu          sync.Mutex
	snapshot    Snapshot
	seq         uint64
	initialized bool
	closed      bool
	subs        map[uint64]chan struct{}
	nextSub     uint64

	inflight conc.WaitGroup
}

// New builds a store reading from src. Nothing is fetched until Initialize,
// Refresh or a filter operation is called.
func New(src DataSource, opts ...Option) *ListStore {
	ctx, cancel := context.WithCancel(context.Background())
	s := &ListStore{
		src:    src,
		logger: zap.NewNop(),
		ctx:    ctx,
		cancel: cancel,
		subs:   make(map[uint64]chan struct{}),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Initialize loads the three facet option lists. Only the first call has an
// effect. Each list is published as soon as it arrives; failures are logged
// and leave that list unchanged.
func (s *ListStore) Initialize() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed || s.initialized {
		return
	}
	s.initialized = true

	s.inflight.Go(func() { s.loadFacet(catalog.FacetCategory, s.src.CategoryOptions) })
	s.inflight.Go(func() { s.loadFacet(catalog.FacetStatus, s.src.StatusOptions) })
	s.inflight.Go(func() { s.loadFacet(catalog.FacetPlatform, s.src.PlatformOptions) })
}

// UpdateFilter sets one filter field and refetches.
func (s *ListStore) UpdateFilter(field catalog.Field, value string) {
	s.mutate(func(f catalog.Filters) catalog.Filters { return f.Update(field, value) })
}

// ClearFilters restores the default filters and refetches.
func (s *ListStore) ClearFilters() {
	s.mutate(func(f catalog.Filters) catalog.Filters { return f.Reset() })
}

// ToggleSwitch flips the toggle filter and refetches.
func (s *ListStore) ToggleSwitch() {
	s.mutate(func(f catalog.Filters) catalog.Filters { return f.Flip() })
}

// Refresh re-issues the fetch for the current filters. It is the retry path
// after a failure and the first item load after construction.
func (s *ListStore) Refresh() {
	s.mutate(func(f catalog.Filters) catalog.Filters { return f })
}

// Snapshot returns a copy of the current state.
func (s *ListStore) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := s.snapshot
	snap.Items = catalog.CloneItems(s.snapshot.Items)
	snap.Facets = s.snapshot.Facets.clone()
	return snap
}

// Filters returns the current filter snapshot.
func (s *ListStore) Filters() catalog.Filters {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Filters
}

// Items returns a copy of the last applied item list.
func (s *ListStore) Items() []catalog.Item {
	s.mu.Lock()
	defer s.mu.Unlock()
	return catalog.CloneItems(s.snapshot.Items)
}

// Loading reports whether the fetch for the current filters is outstanding.
func (s *ListStore) Loading() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Loading
}

// Err returns the failure of the latest fetch, or nil.
func (s *ListStore) Err() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Err
}

// Facets returns a copy of the loaded facet options.
func (s *ListStore) Facets() FacetOptions {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.snapshot.Facets.clone()
}

// Subscribe returns a channel that receives a value after every state
// change. Notifications coalesce: a slow reader sees one pending signal, not
// a backlog, and should read Snapshot on wake-up. The channel is closed by
// the returned cancel func or by Close.
func (s *ListStore) Subscribe() (<-chan struct{}, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	ch := make(chan struct{}, 1)
	if s.closed {
		close(ch)
		return ch, func() {}
	}
	id := s.nextSub
	s.nextSub++
	s.subs[id] = ch

	var once sync.Once
	return ch, func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			if sub, ok := s.subs[id]; ok {
				delete(s.subs, id)
				close(sub)
			}
		})
	}
}

// Wait blocks until every fetch issued so far has settled. It must not be
// called concurrently with operations that issue new fetches.
func (s *ListStore) Wait() {
	s.inflight.Wait()
}

// Close cancels outstanding fetches, closes subscriptions and waits for the
// fetch goroutines to exit. Later operations are no-ops.
func (s *ListStore) Close() {
	s.mu.Lock()
	if s.closed {
		s.mu.Unlock()
		return
	}
	s.closed = true
	s.cancel()
	for id, ch := range s.subs {
		delete(s.subs, id)
		close(ch)
	}
	s.mu.Unlock()

	s.inflight.Wait()
}

// mutate applies fn to the filters and starts the refetch protocol: mark
// loading, clear the error, capture a token and fetch in the background.
func (s *ListStore) mutate(fn func(catalog.Filters) catalog.Filters) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.closed {
		return
	}

	s.snapshot.Filters = fn(s.snapshot.Filters)
	s.snapshot.Loading = true
	s.snapshot.Err = nil
	s.seq++
	token := fetchToken{seq: s.seq, filters: s.snapshot.Filters}
	s.publishLocked()

	s.logger.Debug("fetch issued",
		zap.Uint64("seq", token.seq),
		zap.Stringer("filters", token.filters),
	)
	s.inflight.Go(func() { s.fetchItems(token) })
}

func (s *ListStore) fetchItems(token fetchToken) {
	ctx, cancel := s.callContext()
	defer cancel()

	var items []catalog.Item
	err := guard(func() (err error) {
		items, err = s.src.Items(ctx, token.filters)
		return err
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if token.seq != s.seq {
		s.logger.Debug("stale fetch discarded",
			zap.Uint64("seq", token.seq),
			zap.Uint64("latest", s.seq),
			zap.Bool("failed", err != nil),
		)
		return
	}

	s.snapshot.Loading = false
	s.snapshot.LastUpdated = time.Now()
	if err != nil {
		s.snapshot.Err = &FetchError{Filters: token.filters, Err: err}
		s.snapshot.ConsecutiveFailures++
		s.logger.Warn("fetch failed",
			zap.Uint64("seq", token.seq),
			zap.Stringer("filters", token.filters),
			zap.Int("consecutive_failures", s.snapshot.ConsecutiveFailures),
			zap.Error(err),
		)
	} else {
		s.snapshot.Items = catalog.CloneItems(items)
		s.snapshot.ConsecutiveFailures = 0
		s.logger.Debug("fetch applied",
			zap.Uint64("seq", token.seq),
			zap.Int("items", len(items)),
		)
	}
	s.publishLocked()
}

func (s *ListStore) loadFacet(facet catalog.Facet, load func(context.Context) ([]string, error)) {
	ctx, cancel := s.callContext()
	defer cancel()

	var values []string
	err := guard(func() (err error) {
		values, err = load(ctx)
		return err
	})

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.closed {
		return
	}
	if err != nil {
		s.logger.Warn("facet options unavailable",
			zap.Stringer("facet", facet),
			zap.Error(err),
		)
		return
	}

	values = catalog.CloneStrings(values)
	switch facet {
	case catalog.FacetCategory:
		s.snapshot.Facets.Category = values
	case catalog.FacetStatus:
		s.snapshot.Facets.Status = values
	case catalog.FacetPlatform:
		s.snapshot.Facets.Platform = values
	}
	s.publishLocked()
}

func (s *ListStore) callContext() (context.Context, context.CancelFunc) {
	if s.fetchTimeout > 0 {
		return context.WithTimeout(s.ctx, s.fetchTimeout)
	}
	return context.WithCancel(s.ctx)
}

func (s *ListStore) publishLocked() {
	for _, ch := range s.subs {
		select {
		case ch <- struct{}{}:
		default:
		}
	}
}

// guard runs fn, turning a panic into an error.
func guard(fn func() error) error {
	var err error
	var pc panics.Catcher
	pc.Try(func() { err = fn() })
	if r := pc.Recovered(); r != nil {
		return r.AsError()
	}
	return err
}
