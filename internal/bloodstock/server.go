package bloodstock

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"
	"unicode"

	"github.com/bloodstock/bloodstock/pkg/api"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/httplog/v2"
	"github.com/go-chi/httprate"
)

const requestsPerMinute = 20

type stockResponse struct {
	Success bool                  `json:"success"`
	Count   int                   `json:"count"`
	Outcome Outcome               `json:"outcome,omitempty"`
	Data    []api.BloodBankRecord `json:"data"`
	Message string                `json:"message,omitempty"`
}

type bloodGroupResponse struct {
	BloodGroup string `json:"bloodGroup"`
	Code       int    `json:"code"`
}

type handler struct {
	searcher *Searcher
	geocoder Geocoder
	log      *slog.Logger
}

// NewRouter exposes searches as JSON under /api.
func NewRouter(searcher *Searcher, geocoder Geocoder, logger *httplog.Logger) http.Handler {
	h := &handler{
		searcher: searcher,
		geocoder: geocoder,
		log:      logger.Logger,
	}

	r := chi.NewRouter()
	r.Use(middleware.RealIP)
	r.Use(httplog.RequestLogger(logger))
	r.Use(middleware.Recoverer)
	r.Use(httprate.LimitByIP(requestsPerMinute, time.Minute))

	r.Get("/api/blood-groups", h.bloodGroups)
	r.Get("/api/nearby-blood-stock", h.nearbyStock)

	return r
}

func (h *handler) bloodGroups(w http.ResponseWriter, r *http.Request) {
	groups := api.BloodGroups()
	resp := make([]bloodGroupResponse, 0, len(groups))
	for _, bg := range groups {
		resp = append(resp, bloodGroupResponse{BloodGroup: bg.String(), Code: bg.Code()})
	}
	h.writeJSON(w, http.StatusOK, resp)
}

func (h *handler) nearbyStock(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query()

	bg, err := api.ParseBloodGroup(repairBloodGroup(query.Get("bg")))
	if err != nil {
		h.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	var lat, lng float64
	if location := query.Get("location"); location != "" {
		loc, err := h.geocoder.Geocode(location)
		if err != nil {
			h.fail(w, http.StatusNotFound, err.Error())
			return
		}
		lat, lng = loc.Latitude, loc.Longitude
	} else {
		lat, err = strconv.ParseFloat(query.Get("lat"), 64)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "Invalid latitude value")
			return
		}
		lng, err = strconv.ParseFloat(query.Get("long"), 64)
		if err != nil {
			h.fail(w, http.StatusBadRequest, "Invalid longitude value")
			return
		}
	}

	req, err := api.NewSearchRequest(lat, lng, bg.String())
	if err != nil {
		h.fail(w, http.StatusBadRequest, err.Error())
		return
	}

	res := h.searcher.Search(r.Context(), req)
	resp := stockResponse{
		Success: res.Success(),
		Count:   len(res.Records),
		Outcome: res.Outcome,
		Data:    res.Records,
	}
	if resp.Data == nil {
		resp.Data = []api.BloodBankRecord{}
	}

	status := http.StatusOK
	switch res.Outcome {
	case OutcomeNoStock:
		resp.Message = fmt.Sprintf("No blood banks found with %s blood stock nearby.", bg)
	case OutcomeAPIError:
		resp.Message = ErrorMessage(res.Err)
	case OutcomeFailed:
		status = http.StatusBadGateway
		resp.Message = ErrorMessage(res.Err)
	}

	h.writeJSON(w, status, resp)
}

func (h *handler) fail(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, stockResponse{
		Success: false,
		Data:    []api.BloodBankRecord{},
		Message: msg,
	})
}

func (h *handler) writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		h.log.Error("Error encoding response", "error", err)
	}
}

// repairBloodGroup restores a trailing "+" that arrived as a space because
// it was not escaped in the query string ("O " for "O+").
func repairBloodGroup(s string) string {
	s = strings.TrimLeftFunc(s, unicode.IsSpace)
	trimmed := strings.TrimRightFunc(s, unicode.IsSpace)
	if trimmed != s && trimmed != "" && !strings.HasSuffix(trimmed, "+") && !strings.HasSuffix(trimmed, "-") {
		return trimmed + "+"
	}
	return trimmed
}
