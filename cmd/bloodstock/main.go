package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"os/signal"

	"github.com/urfave/cli/v2"
)

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	if err := newApp().RunContext(ctx, os.Args); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
	}
}

func newApp() *cli.App {
	return &cli.App{
		Name:   "bloodstock",
		Usage:  "Find nearby blood banks with stock of a blood group (eRaktKosh India)",
		Flags:  searchFlags(),
		Action: searchAction,
		Commands: []*cli.Command{
			searchCommand(),
			groupsCommand(),
			serveCommand(),
		},
	}
}

func newLogger(debug bool) *slog.Logger {
	if !debug {
		return slog.New(slog.DiscardHandler)
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}))
}
