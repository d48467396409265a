package main

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/bloodstock/bloodstock/internal/bloodstock"
	"github.com/bloodstock/bloodstock/pkg/api"
	"github.com/urfave/cli/v2"
)

func searchFlags() []cli.Flag {
	return []cli.Flag{
		&cli.Float64Flag{
			Name:  "lat",
			Usage: "Latitude of the location",
		},
		&cli.Float64Flag{
			Name:  "long",
			Usage: "Longitude of the location",
		},
		&cli.StringFlag{
			Name:    "bg",
			Aliases: []string{"blood-group"},
			Usage:   "Blood group (" + api.ValidBloodGroups() + ")",
		},
		&cli.StringFlag{
			Name:     "location",
			Usage:    "Place name to search near, instead of coordinates",
			Required: false,
		},
		&cli.StringFlag{
			Name:  "endpoint",
			Usage: "eRaktKosh nearby blood bank endpoint",
			Value: api.DefaultEndpoint,
		},
		&cli.DurationFlag{
			Name:  "timeout",
			Usage: "Request timeout",
			Value: api.DefaultTimeout,
		},
		&cli.BoolFlag{
			Name:  "debug",
			Usage: "Log debug output to stderr",
		},
	}
}

func searchCommand() *cli.Command {
	return &cli.Command{
		Name:   "search",
		Usage:  "Search nearby blood banks with stock, prompting for missing values",
		Flags:  searchFlags(),
		Action: searchAction,
	}
}

func searchAction(c *cli.Context) error {
	ctx := c.Context
	out := c.App.Writer
	presenter := bloodstock.NewPresenter(out)
	prompter := bloodstock.NewPrompter(c.App.Reader, out)

	req, interactive, err := searchRequest(ctx, c, prompter)
	if errors.Is(err, bloodstock.ErrCancelled) {
		printCancelled(out)
		return nil
	}
	if err != nil {
		return err
	}

	client := api.NewBloodStockAPI(
		api.WithEndpoint(c.String("endpoint")),
		api.WithTimeout(c.Duration("timeout")),
	)
	searcher := bloodstock.NewSearcher(client, newLogger(c.Bool("debug")))

	presenter.Searching(req)
	res := searcher.Search(ctx, req)
	if ctx.Err() != nil {
		printCancelled(out)
		return nil
	}
	presenter.Render(res)

	if interactive {
		presenter.Separator()
		if err := prompter.WaitForEnter(ctx); errors.Is(err, bloodstock.ErrCancelled) && ctx.Err() != nil {
			printCancelled(out)
		}
	}
	return nil
}

// searchRequest builds the request from flags and prompts for whatever is
// missing. It reports whether any prompting happened.
func searchRequest(ctx context.Context, c *cli.Context, prompter *bloodstock.Prompter) (api.SearchRequest, bool, error) {
	hasCoords := c.String("location") != "" || (c.IsSet("lat") && c.IsSet("long"))
	if !hasCoords && !c.IsSet("bg") {
		req, err := prompter.Collect(ctx)
		return req, true, err
	}

	var req api.SearchRequest
	interactive := false
	banner := func() {
		if !interactive {
			prompter.Banner()
			interactive = true
		}
	}

	switch {
	case c.String("location") != "":
		loc, err := bloodstock.NewNominatimGeocoder(bloodstock.DefaultNominatimServer).Geocode(c.String("location"))
		if err != nil {
			return req, false, err
		}
		fmt.Fprintln(c.App.Writer, "Location found:", loc.DisplayName)
		req.Latitude, req.Longitude = loc.Latitude, loc.Longitude
	case hasCoords:
		req.Latitude, req.Longitude = c.Float64("lat"), c.Float64("long")
		if err := api.ValidateLatitude(req.Latitude); err != nil {
			return req, false, err
		}
		if err := api.ValidateLongitude(req.Longitude); err != nil {
			return req, false, err
		}
	default:
		banner()
		var err error
		if req.Latitude, err = prompter.Latitude(ctx); err != nil {
			return req, true, err
		}
		if req.Longitude, err = prompter.Longitude(ctx); err != nil {
			return req, true, err
		}
	}

	if c.IsSet("bg") {
		bg, err := api.ParseBloodGroup(c.String("bg"))
		if err != nil {
			return req, interactive, err
		}
		req.BloodGroup = bg
	} else {
		banner()
		bg, err := prompter.BloodGroup(ctx)
		if err != nil {
			return req, true, err
		}
		req.BloodGroup = bg
	}

	return req, interactive, nil
}

func printCancelled(out io.Writer) {
	fmt.Fprintln(out, "\n\nSearch cancelled by user.")
}
