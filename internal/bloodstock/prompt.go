package bloodstock

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"sync"

	"github.com/bloodstock/bloodstock/pkg/api"
)

// ErrCancelled is returned when the user interrupts or closes input while
// being prompted.
var ErrCancelled = errors.New("search cancelled by user")

// Prompter collects search parameters interactively. Input is read by a
// single background goroutine so a pending read can be abandoned when ctx
// is cancelled.
type Prompter struct {
	in    io.Reader
	out   io.Writer
	lines chan string
	once  sync.Once
}

func NewPrompter(in io.Reader, out io.Writer) *Prompter {
	return &Prompter{
		in:    in,
		out:   out,
		lines: make(chan string),
	}
}

// Banner prints the introduction shown before the prompts.
func (p *Prompter) Banner() {
	fmt.Fprintf(p.out, "\n%s\n", rule(narrowRule))
	fmt.Fprintln(p.out, "BLOOD STOCK FINDER - eRaktKosh India")
	fmt.Fprintf(p.out, "%s\n", rule(narrowRule))
	fmt.Fprintln(p.out, "\nThis tool helps you find nearby blood banks with available stock.")
	fmt.Fprintf(p.out, "\nValid Blood Groups: %s\n", api.ValidBloodGroups())
	fmt.Fprintln(p.out, strings.Repeat("-", narrowRule))
}

// Collect prompts for latitude, longitude and blood group until each is valid.
func (p *Prompter) Collect(ctx context.Context) (api.SearchRequest, error) {
	p.Banner()

	lat, err := p.Latitude(ctx)
	if err != nil {
		return api.SearchRequest{}, err
	}
	lng, err := p.Longitude(ctx)
	if err != nil {
		return api.SearchRequest{}, err
	}
	bg, err := p.BloodGroup(ctx)
	if err != nil {
		return api.SearchRequest{}, err
	}

	return api.SearchRequest{Latitude: lat, Longitude: lng, BloodGroup: bg}, nil
}

func (p *Prompter) Latitude(ctx context.Context) (float64, error) {
	return p.coordinate(ctx,
		"\nEnter Latitude (e.g., 19.0760 for Mumbai): ",
		"latitude",
		api.ValidateLatitude,
		"Latitude must be between -90 and 90",
	)
}

func (p *Prompter) Longitude(ctx context.Context) (float64, error) {
	return p.coordinate(ctx,
		"Enter Longitude (e.g., 72.8777 for Mumbai): ",
		"longitude",
		api.ValidateLongitude,
		"Longitude must be between -180 and 180",
	)
}

func (p *Prompter) BloodGroup(ctx context.Context) (api.BloodGroup, error) {
	for {
		line, err := p.readLine(ctx, fmt.Sprintf("Enter Blood Group (%s): ", api.ValidBloodGroups()))
		if err != nil {
			return "", err
		}
		bg, err := api.ParseBloodGroup(line)
		if err == nil {
			return bg, nil
		}
		fmt.Fprintf(p.out, "Invalid blood group. Please enter one of: %s\n", api.ValidBloodGroups())
	}
}

// WaitForEnter blocks until the user acknowledges the results.
func (p *Prompter) WaitForEnter(ctx context.Context) error {
	_, err := p.readLine(ctx, "Press Enter to exit...")
	return err
}

func (p *Prompter) coordinate(ctx context.Context, prompt, name string, validate func(float64) error, rangeMsg string) (float64, error) {
	for {
		line, err := p.readLine(ctx, prompt)
		if err != nil {
			return 0, err
		}
		v, err := strconv.ParseFloat(line, 64)
		if err != nil {
			fmt.Fprintf(p.out, "Please enter a valid number for %s\n", name)
			continue
		}
		if err := validate(v); err != nil {
			fmt.Fprintln(p.out, rangeMsg)
			continue
		}
		return v, nil
	}
}

func (p *Prompter) readLine(ctx context.Context, prompt string) (string, error) {
	p.once.Do(func() { go p.scan() })

	fmt.Fprint(p.out, prompt)
	select {
	case <-ctx.Done():
		return "", ErrCancelled
	case line, ok := <-p.lines:
		if !ok {
			return "", ErrCancelled
		}
		return strings.TrimSpace(line), nil
	}
}

func (p *Prompter) scan() {
	defer close(p.lines)
	scanner := bufio.NewScanner(p.in)
	for scanner.Scan() {
		p.lines <- scanner.Text()
	}
}
