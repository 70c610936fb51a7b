package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/shelf/internal/app"
	"github.com/five82/shelf/internal/catalog"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override shelf config path (optional)")
	prefsPath := flag.String("prefs", "", "override prefs path (optional)")
	search := flag.String("search", "", "initial name search")
	category := flag.String("category", "", "initial category filter")
	status := flag.String("status", "", "initial status filter")
	platform := flag.String("platform", "", "initial platform filter")
	inactive := flag.Bool("inactive", false, "start with the toggle on Inativo")
	plain := flag.Bool("plain", false, "print the filtered list and exit")
	flag.Parse()

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	seed := catalog.Filters{
		SearchTerm: *search,
		Category:   *category,
		Status:     *status,
		Platform:   *platform,
	}
	if *inactive {
		seed.Toggle = catalog.ToggleInactive
	}

	opts := app.Options{
		ConfigPath: *configPath,
		PrefsPath:  *prefsPath,
		Seed:       seed,
		Plain:      *plain,
	}
	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "shelf: %v\n", err)
		return 1
	}
	return 0
}
