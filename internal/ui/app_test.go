package ui

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/five82/shelf/internal/catalog"
	"github.com/five82/shelf/internal/prefs"
	"github.com/five82/shelf/internal/state"
)

// countingSource counts item fetches so tests can observe store operations
// without racing the fetch goroutine.
type countingSource struct {
	*catalog.Memory
	fetches atomic.Int32
}

func (s *countingSource) Items(ctx context.Context, f catalog.Filters) ([]catalog.Item, error) {
	s.fetches.Add(1)
	return s.Memory.Items(ctx, f)
}

func newTestModel(t *testing.T, opts Options) (Model, *state.ListStore) {
	t.Helper()
	m, store, _ := newCountingModel(t, opts)
	return m, store
}

func newCountingModel(t *testing.T, opts Options) (Model, *state.ListStore, *countingSource) {
	t.Helper()
	src := &countingSource{Memory: catalog.NewMemory(catalog.Builtin(), 0, 0)}
	store := state.New(src)
	t.Cleanup(store.Close)

	store.Initialize()
	store.Refresh()
	store.Wait()

	opts.Store = store
	if opts.PrefsPath == "" {
		opts.PrefsPath = filepath.Join(t.TempDir(), "prefs.toml")
	}
	m := New(opts)
	t.Cleanup(m.unsubscribe)
	m = update(t, m, tea.WindowSizeMsg{Width: 120, Height: 30})
	return m, store, src
}

func update(t *testing.T, m Model, msg tea.Msg) Model {
	t.Helper()
	next, _ := m.Update(msg)
	return next.(Model)
}

func press(t *testing.T, m Model, keys string) Model {
	t.Helper()
	for _, r := range keys {
		m = update(t, m, tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}})
	}
	return m
}

// settle waits for outstanding fetches and feeds the change to the model.
func settle(t *testing.T, m Model, store *state.ListStore) Model {
	t.Helper()
	store.Wait()
	return update(t, m, storeChangedMsg{})
}

func TestModel_InitialView(t *testing.T) {
	m, _ := newTestModel(t, Options{})

	if got := len(m.table.rows); got != 9 {
		t.Fatalf("rows = %d, want 9", got)
	}
	out := m.View()
	for _, want := range []string{"shelf", "Catalog", "(9)", "Angular", "Ativo"} {
		if !strings.Contains(out, want) {
			t.Fatalf("View() missing %q", want)
		}
	}
}

func TestModel_FacetCycling(t *testing.T) {
	m, store := newTestModel(t, Options{})

	m = settle(t, press(t, m, "c"), store)
	if got := m.snapshot.Filters.Category; got != "Frontend" {
		t.Fatalf("Category = %q, want Frontend", got)
	}
	m = settle(t, press(t, m, "cc"), store)
	if got := m.snapshot.Filters.Category; got != "Fullstack" {
		t.Fatalf("Category = %q, want Fullstack", got)
	}
	m = settle(t, press(t, m, "c"), store)
	if got := m.snapshot.Filters.Category; got != "" {
		t.Fatalf("Category = %q, want cleared", got)
	}

	m = settle(t, press(t, m, "p"), store)
	if got := m.snapshot.Filters.Platform; got != "Web" {
		t.Fatalf("Platform = %q, want Web", got)
	}
}

func TestModel_FacetWithoutOptionsShowsNotice(t *testing.T) {
	store := state.New(catalog.NewMemory(catalog.Dataset{Items: catalog.Builtin().Items}, 0, 0))
	defer store.Close()
	store.Refresh()
	store.Wait()

	m := New(Options{Store: store, PrefsPath: filepath.Join(t.TempDir(), "p.toml")})
	defer m.unsubscribe()
	m = update(t, m, tea.WindowSizeMsg{Width: 100, Height: 20})

	m = press(t, m, "s")
	if !strings.Contains(m.notice, "status options not loaded") {
		t.Fatalf("notice = %q", m.notice)
	}
	if got := store.Filters().Status; got != "" {
		t.Fatalf("Status = %q, want unchanged", got)
	}
}

func TestModel_ToggleClearAndRetry(t *testing.T) {
	m, store, src := newCountingModel(t, Options{})

	m = settle(t, press(t, m, "t"), store)
	if m.snapshot.Filters.Toggle != catalog.ToggleInactive || len(m.table.rows) != 3 {
		t.Fatalf("after toggle: %s, %d rows", m.snapshot.Filters, len(m.table.rows))
	}

	m = settle(t, press(t, m, "c"), store)
	m = settle(t, press(t, m, "x"), store)
	if m.snapshot.Filters != (catalog.Filters{}) {
		t.Fatalf("after clear: %s, want defaults", m.snapshot.Filters)
	}

	before := src.fetches.Load()
	m = settle(t, press(t, m, "r"), store)
	if got := src.fetches.Load(); got != before+1 {
		t.Fatalf("fetches = %d, want %d after retry", got, before+1)
	}
	if m.snapshot.Loading || len(m.table.rows) != 9 {
		t.Fatalf("after retry: loading=%v rows=%d", m.snapshot.Loading, len(m.table.rows))
	}
}

func TestModel_SearchDebounceCommitsLatest(t *testing.T) {
	m, store := newTestModel(t, Options{Debounce: 50_000_000})

	m = press(t, m, "/")
	if !m.search.active {
		t.Fatalf("search not active after /")
	}
	m = press(t, m, "re")
	if m.search.seq != 2 {
		t.Fatalf("seq = %d, want 2", m.search.seq)
	}

	m = update(t, m, searchDebounceMsg{seq: 1, value: "r"})
	if got := store.Filters().SearchTerm; got != "" {
		t.Fatalf("stale debounce tick committed %q", got)
	}

	m = update(t, m, searchDebounceMsg{seq: 2, value: "re"})
	m = settle(t, m, store)
	if got := m.snapshot.Filters.SearchTerm; got != "re" {
		t.Fatalf("SearchTerm = %q, want re", got)
	}
	// React and Express match; search input keeps focus until enter/esc.
	if len(m.table.rows) != 2 || !m.search.active {
		t.Fatalf("rows = %v, active = %v", names(m.table.rows), m.search.active)
	}
}

func TestModel_SearchEnterCommitsImmediately(t *testing.T) {
	m, store := newTestModel(t, Options{Debounce: 50_000_000})

	m = press(t, m, "/vu")
	m = update(t, m, tea.KeyMsg{Type: tea.KeyEnter})
	if m.search.active {
		t.Fatalf("search still active after enter")
	}
	if got := store.Filters().SearchTerm; got != "vu" {
		t.Fatalf("SearchTerm = %q, want vu", got)
	}
	pending := m.search.seq - 1
	m = settle(t, update(t, m, searchDebounceMsg{seq: pending, value: "v"}), store)
	if got := m.snapshot.Filters.SearchTerm; got != "vu" {
		t.Fatalf("late debounce tick overrode enter: %q", got)
	}
}

func TestModel_ZeroDebounceCommitsPerKeystroke(t *testing.T) {
	m, store := newTestModel(t, Options{})
	m = press(t, m, "/n")
	if got := store.Filters().SearchTerm; got != "n" {
		t.Fatalf("SearchTerm = %q, want n", got)
	}
	settle(t, m, store)
}

func TestModel_ThemeAndSortPersist(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prefs.toml")
	m, _ := newTestModel(t, Options{PrefsPath: path, Prefs: prefs.Default()})

	m = press(t, m, "T")
	m = press(t, m, "oO")

	got, err := prefs.Load(path)
	if err != nil {
		t.Fatalf("prefs.Load: %v", err)
	}
	want := prefs.Prefs{Theme: "Kanagawa", SortColumn: "category", SortOrder: prefs.SortDesc}
	if got != want {
		t.Fatalf("prefs = %+v, want %+v", got, want)
	}
	if m.table.rows[0].Category != "Fullstack" {
		t.Fatalf("first row %+v, want a Fullstack item first", m.table.rows[0])
	}
}

func TestModel_HelpOverlay(t *testing.T) {
	m, store := newTestModel(t, Options{})
	m = press(t, m, "?")
	if !m.showHelp || !strings.Contains(m.View(), "Shortcuts") {
		t.Fatalf("help overlay not shown")
	}
	m = press(t, m, "c")
	if m.showHelp {
		t.Fatalf("help overlay still shown")
	}
	if store.Filters().Category != "" {
		t.Fatalf("key that closed help also acted")
	}
}

func TestModel_StoreClosedQuits(t *testing.T) {
	m, _ := newTestModel(t, Options{})
	_, cmd := m.Update(storeClosedMsg{})
	if cmd == nil {
		t.Fatalf("storeClosedMsg returned no command")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("storeClosedMsg did not quit")
	}
}

func TestWaitForStore(t *testing.T) {
	ch := make(chan struct{}, 1)
	ch <- struct{}{}
	if _, ok := waitForStore(ch)().(storeChangedMsg); !ok {
		t.Fatalf("want storeChangedMsg")
	}
	close(ch)
	if _, ok := waitForStore(ch)().(storeClosedMsg); !ok {
		t.Fatalf("want storeClosedMsg")
	}
}

func TestModel_LogView(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "shelf.log")
	line := `{"level":"warn","timestamp":"2026-03-01T10:20:30.123Z","message":"fetch failed","seq":7}` + "\n"
	if err := os.WriteFile(logPath, []byte(line), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}

	m, _ := newTestModel(t, Options{LogPath: logPath})
	next, cmd := m.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("L")})
	m = next.(Model)
	if m.current != viewLogs || cmd == nil {
		t.Fatalf("L did not open the log view")
	}

	m = update(t, m, loadLogsCmd(logPath)())
	if len(m.logs.entries) != 1 {
		t.Fatalf("entries = %d, want 1", len(m.logs.entries))
	}
	out := m.View()
	for _, want := range []string{"(1)", "WARN", "fetch", "failed", "seq=7"} {
		if !strings.Contains(out, want) {
			t.Fatalf("log view missing %q", want)
		}
	}

	footer := m.renderFooter()
	for _, want := range []string{"esc", "back", "j/k", "scroll", "shelf.log"} {
		if !strings.Contains(footer, want) {
			t.Fatalf("log view footer missing %q", want)
		}
	}

	stale := m.logs.gen - 1
	if _, cmd := m.Update(logTickMsg{gen: stale}); cmd != nil {
		t.Fatalf("stale log tick scheduled more work")
	}

	m = update(t, m, tea.KeyMsg{Type: tea.KeyEsc})
	if m.current != viewCatalog {
		t.Fatalf("esc did not return to the catalog")
	}
}
