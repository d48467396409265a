package bloodstock

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/bloodstock/bloodstock/pkg/api"
	"github.com/go-chi/httplog/v2"
)

type fakeGeocoder struct {
	loc Location
	err error
}

func (g *fakeGeocoder) Geocode(name string) (Location, error) {
	return g.loc, g.err
}

func newTestRouter(f Fetcher, g Geocoder) http.Handler {
	logger := httplog.NewLogger("bloodstock-test", httplog.Options{
		LogLevel: slog.LevelError,
		Concise:  true,
	})
	return NewRouter(NewSearcher(f, slog.New(slog.DiscardHandler)), g, logger)
}

func get(t *testing.T, h http.Handler, target string) (*httptest.ResponseRecorder, stockResponse) {
	t.Helper()
	req := httptest.NewRequest(http.MethodGet, target, nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	var resp stockResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid JSON body %q: %v", rr.Body.String(), err)
	}
	return rr, resp
}

func TestNearbyStockHandler_OK(t *testing.T) {
	f := &fakeFetcher{body: `{"success":true,"count":1,"data":[{"hospitalName":"AIIMS Blood Bank","distance":1.8,"stock":"67 Units"}],"source":"api"}`}
	h := newTestRouter(f, &fakeGeocoder{})

	// Unescaped "+" arrives as a space.
	rr, resp := get(t, h, "/api/nearby-blood-stock?lat=28.567&long=77.21&bg=A+")
	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d body: %s", rr.Code, rr.Body.String())
	}
	if ct := rr.Header().Get("Content-Type"); ct != "application/json" {
		t.Errorf("Expected JSON content type, got %q", ct)
	}
	if !resp.Success || resp.Count != 1 || resp.Outcome != OutcomeFound {
		t.Errorf("Unexpected response %+v", resp)
	}
	if resp.Data[0].HospitalName != "AIIMS Blood Bank" || resp.Data[0].Distance != "1.80 km" {
		t.Errorf("Unexpected record %+v", resp.Data[0])
	}
	if f.bg != api.APositive || f.lat != 28.567 || f.lng != 77.21 {
		t.Errorf("Fetcher called with (%g, %g, %s)", f.lat, f.lng, f.bg)
	}
}

func TestNearbyStockHandler_Outcomes(t *testing.T) {
	tests := []struct {
		name    string
		fetcher *fakeFetcher
		status  int
		success bool
		outcome Outcome
		message string
	}{
		{"no stock", &fakeFetcher{body: `[]`}, http.StatusOK, true, OutcomeNoStock, "No blood banks found with O- blood stock nearby."},
		{"api error", &fakeFetcher{body: `{"status":"error","message":"down"}`}, http.StatusOK, false, OutcomeAPIError, "API Error: down"},
		{"upstream failure", &fakeFetcher{err: fmt.Errorf("%w: unexpected status code: 500", api.ErrTransportFailure)}, http.StatusBadGateway, false, OutcomeFailed, "Connection Error: failed to fetch data: unexpected status code: 500"},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			h := newTestRouter(test.fetcher, &fakeGeocoder{})
			rr, resp := get(t, h, "/api/nearby-blood-stock?lat=18.53&long=73.87&bg=O-")

			if rr.Code != test.status {
				t.Errorf("Expected status %d, got %d", test.status, rr.Code)
			}
			if resp.Success != test.success || resp.Outcome != test.outcome || resp.Message != test.message {
				t.Errorf("Unexpected response %+v", resp)
			}
			if resp.Count != 0 {
				t.Errorf("Expected count 0, got %d", resp.Count)
			}
			if !strings.Contains(rr.Body.String(), `"data":[]`) {
				t.Errorf("Expected an empty data list, got %s", rr.Body.String())
			}
		})
	}
}

func TestNearbyStockHandler_BadRequests(t *testing.T) {
	targets := []string{
		"/api/nearby-blood-stock?lat=19&long=72",
		"/api/nearby-blood-stock?lat=19&long=72&bg=C%2B",
		"/api/nearby-blood-stock?long=72&bg=O%2B",
		"/api/nearby-blood-stock?lat=19&long=east&bg=O%2B",
		"/api/nearby-blood-stock?lat=91&long=72&bg=O%2B",
		"/api/nearby-blood-stock?lat=19&long=181&bg=O%2B",
	}

	for _, target := range targets {
		f := &fakeFetcher{body: `[]`}
		rr, resp := get(t, newTestRouter(f, &fakeGeocoder{}), target)
		if rr.Code != http.StatusBadRequest {
			t.Errorf("%s: expected 400, got %d", target, rr.Code)
		}
		if resp.Success || resp.Message == "" {
			t.Errorf("%s: unexpected response %+v", target, resp)
		}
		if f.calls != 0 {
			t.Errorf("%s: fetcher must not be called", target)
		}
	}
}

func TestNearbyStockHandler_Location(t *testing.T) {
	f := &fakeFetcher{body: `[{"name":"Ruby Hall Clinic Blood Bank"}]`}
	g := &fakeGeocoder{loc: Location{Latitude: 18.5204, Longitude: 73.8567, DisplayName: "Pune"}}

	rr, resp := get(t, newTestRouter(f, g), "/api/nearby-blood-stock?location=Pune&bg=ab%2B")
	if rr.Code != http.StatusOK || resp.Count != 1 {
		t.Fatalf("status: %d body: %s", rr.Code, rr.Body.String())
	}
	if f.lat != 18.5204 || f.lng != 73.8567 || f.bg != api.ABPositive {
		t.Errorf("Fetcher called with (%g, %g, %s)", f.lat, f.lng, f.bg)
	}

	notFound := &fakeGeocoder{err: errors.New("no results found for location: Atlantis")}
	rr, _ = get(t, newTestRouter(f, notFound), "/api/nearby-blood-stock?location=Atlantis&bg=O%2B")
	if rr.Code != http.StatusNotFound {
		t.Errorf("Expected 404 for an unknown location, got %d", rr.Code)
	}
}

func TestBloodGroupsHandler(t *testing.T) {
	h := newTestRouter(&fakeFetcher{}, &fakeGeocoder{})
	req := httptest.NewRequest(http.MethodGet, "/api/blood-groups", nil)
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	if rr.Code != http.StatusOK {
		t.Fatalf("status: %d", rr.Code)
	}
	var groups []bloodGroupResponse
	if err := json.Unmarshal(rr.Body.Bytes(), &groups); err != nil {
		t.Fatalf("invalid JSON: %v", err)
	}
	if len(groups) != 8 || groups[0].BloodGroup != "A+" || groups[0].Code != 11 || groups[7].Code != 18 {
		t.Errorf("Unexpected blood groups %+v", groups)
	}
}

func TestRepairBloodGroup(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"O+", "O+"},
		{"O ", "O+"},
		{"ab ", "ab+"},
		{" A-", "A-"},
		{"B- ", "B-"},
		{"", ""},
		{"   ", ""},
		{"AB-", "AB-"},
	}

	for _, test := range tests {
		if result := repairBloodGroup(test.input); result != test.expected {
			t.Errorf("repairBloodGroup(%q) = %q, expected %q", test.input, result, test.expected)
		}
	}
}
