package app

import (
	"context"
	"fmt"
	"io"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/five82/shelf/internal/state"
)

// printPlain waits for the current fetch to settle and writes the result as
// a text table.
func printPlain(ctx context.Context, out io.Writer, store *state.ListStore) error {
	snap, err := waitSettled(ctx, store)
	if err != nil {
		return err
	}

	fmt.Fprintf(out, "filters: %s\n", snap.Filters)
	if snap.Err != nil {
		return snap.Err
	}
	if len(snap.Items) == 0 {
		fmt.Fprintln(out, "no items match")
		return nil
	}

	rows := make([][]string, 0, len(snap.Items))
	for _, it := range snap.Items {
		rows = append(rows, []string{it.Name, it.Category, it.Status, it.Platform})
	}
	t := table.New().
		Border(lipgloss.NormalBorder()).
		Headers("Name", "Category", "Status", "Platform").
		Rows(rows...)
	fmt.Fprintln(out, t.String())
	fmt.Fprintf(out, "%d items\n", len(snap.Items))
	return nil
}

// waitSettled blocks until no fetch is outstanding and returns that state.
func waitSettled(ctx context.Context, store *state.ListStore) (state.Snapshot, error) {
	changes, unsubscribe := store.Subscribe()
	defer unsubscribe()

	for {
		snap := store.Snapshot()
		if !snap.Loading {
			return snap, nil
		}
		select {
		case <-ctx.Done():
			return snap, ctx.Err()
		case _, ok := <-changes:
			if !ok {
				return store.Snapshot(), nil
			}
		}
	}
}
