package bloodstock

import (
	"bytes"
	"context"
	"errors"
	"io"
	"strings"
	"testing"
	"time"

	"github.com/bloodstock/bloodstock/pkg/api"
)

func TestPrompter_Collect(t *testing.T) {
	input := strings.Join([]string{
		"91",   // out of range
		"-90",  // boundary, accepted
		"abc",  // not a number
		"181",  // out of range
		"180",  // boundary, accepted
		"C+",   // unknown group
		" o- ", // accepted after normalization
	}, "\n") + "\n"

	var out bytes.Buffer
	req, err := NewPrompter(strings.NewReader(input), &out).Collect(context.Background())
	if err != nil {
		t.Fatalf("Collect() failed: %v", err)
	}

	expected := api.SearchRequest{Latitude: -90, Longitude: 180, BloodGroup: api.ONegative}
	if req != expected {
		t.Errorf("Collect() = %+v, expected %+v", req, expected)
	}

	messages := []string{
		"BLOOD STOCK FINDER",
		"Latitude must be between -90 and 90",
		"Please enter a valid number for longitude",
		"Longitude must be between -180 and 180",
		"Invalid blood group. Please enter one of: A+, A-, B+, B-, O+, O-, AB+, AB-",
	}
	for _, m := range messages {
		if !strings.Contains(out.String(), m) {
			t.Errorf("Output missing %q", m)
		}
	}
}

func TestPrompter_Coordinates(t *testing.T) {
	tests := []struct {
		input    string
		latitude bool
		expected float64
		rejected int
	}{
		{"90\n", true, 90, 0},
		{"-91\n90.5\n45.5\n", true, 45.5, 2},
		{"NaN\n0\n", true, 0, 1},
		{"-180\n", false, -180, 0},
		{"180.0001\n1e1\n", false, 10, 1},
		{"\n  72.8777  \n", false, 72.8777, 1},
	}

	for _, test := range tests {
		var out bytes.Buffer
		p := NewPrompter(strings.NewReader(test.input), &out)

		var v float64
		var err error
		if test.latitude {
			v, err = p.Latitude(context.Background())
		} else {
			v, err = p.Longitude(context.Background())
		}
		if err != nil {
			t.Errorf("input %q: unexpected error %v", test.input, err)
			continue
		}
		if v != test.expected {
			t.Errorf("input %q: got %g, expected %g", test.input, v, test.expected)
		}

		rejected := strings.Count(out.String(), "must be between") + strings.Count(out.String(), "valid number")
		if rejected != test.rejected {
			t.Errorf("input %q: %d rejections, expected %d", test.input, rejected, test.rejected)
		}
	}
}

func TestPrompter_EndOfInputCancels(t *testing.T) {
	var out bytes.Buffer
	_, err := NewPrompter(strings.NewReader("12.5\n"), &out).Collect(context.Background())
	if !errors.Is(err, ErrCancelled) {
		t.Errorf("Expected ErrCancelled, got %v", err)
	}
}

func TestPrompter_ContextCancels(t *testing.T) {
	r, w := io.Pipe()
	t.Cleanup(func() { w.Close() })

	ctx, cancel := context.WithCancel(context.Background())
	p := NewPrompter(r, io.Discard)

	done := make(chan error, 1)
	go func() {
		_, err := p.BloodGroup(ctx)
		done <- err
	}()
	cancel()

	select {
	case err := <-done:
		if !errors.Is(err, ErrCancelled) {
			t.Errorf("Expected ErrCancelled, got %v", err)
		}
	case <-time.After(2 * time.Second):
		t.Fatal("BloodGroup() did not return after cancellation")
	}
}

func TestPrompter_WaitForEnter(t *testing.T) {
	var out bytes.Buffer
	p := NewPrompter(strings.NewReader("\n"), &out)
	if err := p.WaitForEnter(context.Background()); err != nil {
		t.Errorf("WaitForEnter() unexpected error: %v", err)
	}
	if !strings.Contains(out.String(), "Press Enter to exit...") {
		t.Errorf("Unexpected output %q", out.String())
	}
}
