package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/five82/roster/internal/app"
	"github.com/five82/roster/internal/config"
	"github.com/five82/roster/internal/mirror"
	"github.com/five82/roster/internal/sheets"
)

func main() {
	os.Exit(run())
}

func run() int {
	configPath := flag.String("config", "", "override config path (optional)")
	pollSeconds := flag.Int("poll", 0, "refresh interval in seconds (optional, defaults to 3s)")
	printScript := flag.Bool("print-script", false, "print the Apps Script write endpoint for the configured sheet and exit")
	flag.Parse()

	if *printScript {
		return writeScript(*configPath)
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	opts := app.Options{ConfigPath: *configPath}
	if poll := *pollSeconds; poll > 0 {
		opts.PollEvery = poll
	}

	if err := app.Run(ctx, opts); err != nil {
		fmt.Fprintf(os.Stderr, "roster: %v\n", err)
		return 1
	}
	return 0
}

func writeScript(configPath string) int {
	cfg, err := config.Load(configPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roster: load config: %v\n", err)
		return 1
	}
	id, err := sheets.ExtractSpreadsheetID(cfg.SpreadsheetURL)
	if err != nil {
		fmt.Fprintf(os.Stderr, "roster: %v\n", err)
		return 1
	}
	fmt.Print(mirror.AppsScript(id))
	return 0
}
