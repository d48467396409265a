package bloodstock

import (
	"context"
	"errors"
	"log/slog"

	"github.com/bloodstock/bloodstock/pkg/api"
)

// Outcome tags how a search ended. Every outcome other than OutcomeFound
// carries an empty record list.
type Outcome string

const (
	OutcomeFound    Outcome = "found"
	OutcomeNoStock  Outcome = "no-stock"
	OutcomeAPIError Outcome = "api-error"
	OutcomeFailed   Outcome = "failed"
)

// Fetcher returns the raw API response for a nearby stock query.
type Fetcher interface {
	FetchNearbyStock(ctx context.Context, lat, lng float64, bg api.BloodGroup) (any, error)
}

// Result of a single search. Err is set for OutcomeAPIError and OutcomeFailed.
type Result struct {
	Request api.SearchRequest
	Records []api.BloodBankRecord
	Outcome Outcome
	Err     error
}

// Success reports whether the search completed, with or without stock.
func (r Result) Success() bool {
	return r.Outcome == OutcomeFound || r.Outcome == OutcomeNoStock
}

type Searcher struct {
	fetcher Fetcher
	log     *slog.Logger
}

func NewSearcher(fetcher Fetcher, logger *slog.Logger) *Searcher {
	return &Searcher{
		fetcher: fetcher,
		log:     logger,
	}
}

// Search runs one request and resolves every failure into the result.
func (s *Searcher) Search(ctx context.Context, req api.SearchRequest) Result {
	res := Result{Request: req}

	s.log.Debug("Fetching nearby blood stock",
		"blood_group", req.BloodGroup.String(),
		"code", req.BloodGroup.Code(),
		"latitude", req.Latitude,
		"longitude", req.Longitude,
	)
	raw, err := s.fetcher.FetchNearbyStock(ctx, req.Latitude, req.Longitude, req.BloodGroup)
	if err != nil {
		s.log.Debug("Fetch failed", "error", err)
		res.Outcome = OutcomeFailed
		res.Err = err
		return res
	}
	s.log.Debug("API response received, processing")

	if err := api.CheckStatus(raw); err != nil {
		s.log.Debug("API reported an error", "error", err)
		res.Outcome = OutcomeAPIError
		res.Err = err
		return res
	}

	res.Records = api.Normalize(raw, req)
	if len(res.Records) == 0 {
		res.Outcome = OutcomeNoStock
		return res
	}

	s.log.Debug("Blood banks found", "count", len(res.Records))
	res.Outcome = OutcomeFound
	return res
}

// ErrorMessage renders a failed result the way it is shown to users.
func ErrorMessage(err error) string {
	var apiErr *api.APIError
	switch {
	case err == nil:
		return "Unexpected Error: " + api.UnknownAPIError
	case errors.As(err, &apiErr):
		return "API Error: " + apiErr.Message
	case errors.Is(err, api.ErrTransportTimeout):
		return "Connection Error: Request timed out. Please try again."
	case errors.Is(err, api.ErrTransportFailure):
		return "Connection Error: " + err.Error()
	case errors.Is(err, api.ErrMalformedResponse):
		return "Error: Invalid response from API. Please try again later."
	case errors.Is(err, api.ErrInvalidBloodGroup):
		return "Error: " + err.Error()
	default:
		return "Unexpected Error: " + err.Error()
	}
}
