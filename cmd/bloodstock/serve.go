package main

import (
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/bloodstock/bloodstock/internal/bloodstock"
	"github.com/bloodstock/bloodstock/pkg/api"
	"github.com/go-chi/httplog/v2"
	"github.com/urfave/cli/v2"
)

func serveCommand() *cli.Command {
	return &cli.Command{
		Name:  "serve",
		Usage: "Serve nearby blood stock searches as JSON over HTTP",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:  "port",
				Usage: "HTTP server port",
				Value: 8080,
			},
			&cli.StringFlag{
				Name:  "endpoint",
				Usage: "eRaktKosh nearby blood bank endpoint",
				Value: api.DefaultEndpoint,
			},
			&cli.DurationFlag{
				Name:  "timeout",
				Usage: "Upstream request timeout",
				Value: api.DefaultTimeout,
			},
		},
		Action: serveAction,
	}
}

func serveAction(c *cli.Context) error {
	logger := httplog.NewLogger("bloodstock", httplog.Options{
		JSON:            false,
		LogLevel:        slog.LevelDebug,
		Concise:         true,
		QuietDownPeriod: 10 * time.Second,
	})

	client := api.NewBloodStockAPI(
		api.WithEndpoint(c.String("endpoint")),
		api.WithTimeout(c.Duration("timeout")),
	)
	searcher := bloodstock.NewSearcher(client, logger.Logger)
	geocoder := bloodstock.NewNominatimGeocoder(bloodstock.DefaultNominatimServer)
	r := bloodstock.NewRouter(searcher, geocoder, logger)

	addr := fmt.Sprintf("127.0.0.1:%d", c.Int("port"))
	logger.Info("Starting server", "addr", addr)
	return http.ListenAndServe(addr, r)
}
