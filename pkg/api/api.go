// Package api provides types and functions to interact with the eRaktKosh
// blood bank API, fetch nearby blood stock and normalize its responses.
package api

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"net/url"
	"strconv"
	"time"
)

const (
	DefaultEndpoint = "https://www.eraktkosh.in/BLDAHIMS/bloodbank/nearbyBB.cnt"
	DefaultTimeout  = 30 * time.Second
	NearbyStockMode = "GETNEARBYSTOCK"
)

// Headers sent with every request, matching a desktop browser.
var defaultHeaders = map[string]string{
	"User-Agent":      "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36",
	"Accept":          "application/json, text/plain, */*",
	"Accept-Language": "en-US,en;q=0.9",
	"Referer":         "https://www.eraktkosh.in/",
	"Origin":          "https://www.eraktkosh.in",
}

// BloodStockAPI provides methods to fetch blood stock data from eRaktKosh.
type BloodStockAPI struct {
	endpoint   string
	httpClient *http.Client
}

// Option configures a BloodStockAPI.
type Option func(*BloodStockAPI)

// WithEndpoint overrides the nearby blood bank endpoint.
func WithEndpoint(endpoint string) Option {
	return func(api *BloodStockAPI) {
		api.endpoint = endpoint
	}
}

// WithTimeout sets the request timeout.
func WithTimeout(timeout time.Duration) Option {
	return func(api *BloodStockAPI) {
		api.httpClient.Timeout = timeout
	}
}

// WithHTTPClient replaces the underlying HTTP client.
func WithHTTPClient(client *http.Client) Option {
	return func(api *BloodStockAPI) {
		api.httpClient = client
	}
}

// NewBloodStockAPI creates a new BloodStockAPI client with default settings.
func NewBloodStockAPI(opts ...Option) *BloodStockAPI {
	api := &BloodStockAPI{
		endpoint: DefaultEndpoint,
		httpClient: &http.Client{
			Timeout: DefaultTimeout,
		},
	}
	for _, opt := range opts {
		opt(api)
	}
	return api
}

// Endpoint returns the URL requests are sent to.
func (api *BloodStockAPI) Endpoint() string {
	return api.endpoint
}

// FetchNearbyStock queries blood banks near the given coordinates holding stock
// of bg and returns the decoded, unnormalized JSON body.
func (api *BloodStockAPI) FetchNearbyStock(ctx context.Context, lat, lng float64, bg BloodGroup) (any, error) {
	if !bg.Valid() {
		return nil, &InvalidBloodGroupError{Input: string(bg)}
	}

	u, err := url.Parse(api.endpoint)
	if err != nil {
		return nil, fmt.Errorf("error parsing endpoint: %w", err)
	}
	q := u.Query()
	q.Set("hmode", NearbyStockMode)
	q.Set("lat", strconv.FormatFloat(lat, 'f', -1, 64))
	q.Set("long", strconv.FormatFloat(lng, 'f', -1, 64))
	q.Set("bg", strconv.Itoa(bg.Code()))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), http.NoBody)
	if err != nil {
		return nil, fmt.Errorf("error creating request: %w", err)
	}
	for k, v := range defaultHeaders {
		req.Header.Set(k, v)
	}

	resp, err := api.httpClient.Do(req)
	if err != nil {
		return nil, transportError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, fmt.Errorf("%w: unexpected status code: %d", ErrTransportFailure, resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, transportError(err)
	}

	var raw any
	if err := json.Unmarshal(body, &raw); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformedResponse, err)
	}

	return raw, nil
}

// NearbyStock fetches and normalizes blood banks with stock for req.
// An empty slice with a nil error means no stock was found.
func (api *BloodStockAPI) NearbyStock(ctx context.Context, req SearchRequest) ([]BloodBankRecord, error) {
	raw, err := api.FetchNearbyStock(ctx, req.Latitude, req.Longitude, req.BloodGroup)
	if err != nil {
		return nil, err
	}
	if err := CheckStatus(raw); err != nil {
		return nil, err
	}
	return Normalize(raw, req), nil
}

func transportError(err error) error {
	var netErr net.Error
	if errors.Is(err, context.DeadlineExceeded) || (errors.As(err, &netErr) && netErr.Timeout()) {
		return fmt.Errorf("%w: %w", ErrTransportTimeout, err)
	}
	return fmt.Errorf("%w: %w", ErrTransportFailure, err)
}
