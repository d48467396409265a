package api

import (
	"encoding/json"
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/tkrajina/gpxgo/gpx"
)

const (
	NotAvailable     = "N/A"
	DefaultComponent = "Whole Blood"
	DefaultStock     = "Available"

	maxHospitalNameLen = 40
	maxAddressLen      = 50
	ellipsis           = "..."
	metersPerKm        = 1000.0
)

// Keys that may hold the list of blood banks, in priority order.
var recordListKeys = []string{"data", "result", "bloodBanks", "records", "nearbyBB"}

// Keys that mark a bare object as a blood bank record by itself.
var singleRecordKeys = []string{"hospitalName", "bbName", "name"}

// Alternate source field names per output attribute, in priority order.
var (
	hospitalNameKeys = []string{"hospitalName", "bbName", "name", "bloodBankName"}
	distanceKeys     = []string{"distance", "dist", "distanceKm"}
	addressKeys      = []string{"address", "addr", "location"}
	contactKeys      = []string{"contactNo", "contact", "phone", "mobile"}
	componentKeys    = []string{"componentName", "bloodComponent", "component"}
	stockKeys        = []string{"stock", "quantity", "units", "availableUnits"}
	latitudeKeys     = []string{"latitude", "lat"}
	longitudeKeys    = []string{"longitude", "long", "lng"}
)

var (
	statusKeys      = []string{"status", "Status"}
	messageKeys     = []string{"message", "Message", "msg"}
	failureStatuses = []string{"error", "failed", "failure", "0"}
)

// CheckStatus returns an *APIError when raw is an object whose status field
// reports a failure. Any other shape passes.
func CheckStatus(raw any) error {
	obj, ok := raw.(map[string]any)
	if !ok {
		return nil
	}
	status, ok := lookup(obj, statusKeys)
	if !ok {
		return nil
	}
	if !slices.Contains(failureStatuses, strings.ToLower(text(status))) {
		return nil
	}

	msg := UnknownAPIError
	if m, ok := lookup(obj, messageKeys); ok {
		msg = text(m)
	}
	return &APIError{Status: text(status), Message: msg}
}

// Normalize extracts blood bank records from any of the response shapes the
// API is known to produce. It never fails: unrecognized shapes yield no records.
func Normalize(raw any, req SearchRequest) []BloodBankRecord {
	entries := recordList(raw)
	records := make([]BloodBankRecord, 0, len(entries))
	for _, e := range entries {
		entry, ok := e.(map[string]any)
		if !ok {
			continue
		}
		records = append(records, normalizeEntry(entry, len(records)+1, req))
	}
	return records
}

func recordList(raw any) []any {
	switch v := raw.(type) {
	case []any:
		return v
	case map[string]any:
		for _, key := range recordListKeys {
			if list, ok := v[key].([]any); ok {
				return list
			}
		}
		if _, hasStatus := v["status"]; hasStatus {
			return nil
		}
		for _, key := range singleRecordKeys {
			if _, ok := v[key]; ok {
				return []any{v}
			}
		}
	}
	return nil
}

func normalizeEntry(entry map[string]any, seq int, req SearchRequest) BloodBankRecord {
	return BloodBankRecord{
		SequenceNumber: seq,
		HospitalName:   truncate(field(entry, hospitalNameKeys, NotAvailable), maxHospitalNameLen),
		Distance:       distance(entry, req),
		Address:        truncate(field(entry, addressKeys, NotAvailable), maxAddressLen),
		Contact:        field(entry, contactKeys, NotAvailable),
		Component:      field(entry, componentKeys, DefaultComponent),
		Stock:          field(entry, stockKeys, DefaultStock),
	}
}

func field(entry map[string]any, keys []string, def string) string {
	if v, ok := lookup(entry, keys); ok {
		return text(v)
	}
	return def
}

// distance formats a numeric distance in km. Text values pass through as
// sent. Without a distance field it falls back to the haversine distance
// from the request coordinates when the entry carries its own.
func distance(entry map[string]any, req SearchRequest) string {
	if v, ok := lookup(entry, distanceKeys); ok {
		if km, ok := number(v); ok {
			return formatKm(km)
		}
		return text(v)
	}

	lat, okLat := coordinate(entry, latitudeKeys)
	lng, okLng := coordinate(entry, longitudeKeys)
	if !okLat || !okLng {
		return NotAvailable
	}
	meters := gpx.Distance2D(req.Latitude, req.Longitude, lat, lng, true)
	return formatKm(meters / metersPerKm)
}

func formatKm(km float64) string {
	return fmt.Sprintf("%.2f km", km)
}

func coordinate(entry map[string]any, keys []string) (float64, bool) {
	v, ok := lookup(entry, keys)
	if !ok {
		return 0, false
	}
	if f, ok := number(v); ok {
		return f, true
	}
	if s, ok := v.(string); ok {
		f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
		return f, err == nil
	}
	return 0, false
}

// lookup returns the first value among keys that is present and not empty.
func lookup(obj map[string]any, keys []string) (any, bool) {
	for _, key := range keys {
		v, ok := obj[key]
		if !ok || v == nil {
			continue
		}
		if s, isString := v.(string); isString && s == "" {
			continue
		}
		return v, true
	}
	return nil, false
}

func number(v any) (float64, bool) {
	switch t := v.(type) {
	case float64:
		return t, true
	case float32:
		return float64(t), true
	case int:
		return float64(t), true
	case int64:
		return float64(t), true
	case json.Number:
		f, err := t.Float64()
		if err != nil {
			return 0, false
		}
		return f, true
	default:
		return 0, false
	}
}

func text(v any) string {
	switch t := v.(type) {
	case string:
		return t
	case float64:
		return strconv.FormatFloat(t, 'f', -1, 64)
	case json.Number:
		return t.String()
	case bool:
		return strconv.FormatBool(t)
	case nil:
		return ""
	default:
		return fmt.Sprint(t)
	}
}

func truncate(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit]) + ellipsis
}
