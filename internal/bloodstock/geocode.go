package bloodstock

import (
	"fmt"
	"strconv"

	"github.com/bloodstock/bloodstock/pkg/api"
	"github.com/muesli/gominatim"
)

const DefaultNominatimServer = "https://nominatim.openstreetmap.org/"

// Location is a geocoded place.
type Location struct {
	Latitude    float64
	Longitude   float64
	DisplayName string
}

// Geocoder resolves a place name to coordinates.
type Geocoder interface {
	Geocode(name string) (Location, error)
}

// NominatimGeocoder resolves place names with OpenStreetMap Nominatim.
type NominatimGeocoder struct {
	server string
}

func NewNominatimGeocoder(server string) *NominatimGeocoder {
	return &NominatimGeocoder{server: server}
}

func (g *NominatimGeocoder) Geocode(name string) (Location, error) {
	gominatim.SetServer(g.server)
	qry := gominatim.SearchQuery{
		Q: name,
	}

	results, err := qry.Get()
	if err != nil {
		return Location{}, fmt.Errorf("geocoding error: %w", err)
	}
	if len(results) == 0 {
		return Location{}, fmt.Errorf("no results found for location: %s", name)
	}

	return searchResultToLocation(results[0])
}

func searchResultToLocation(result gominatim.SearchResult) (Location, error) {
	lat, err := strconv.ParseFloat(result.Lat, 64)
	if err != nil {
		return Location{}, fmt.Errorf("error parsing latitude: %w", err)
	}
	lng, err := strconv.ParseFloat(result.Lon, 64)
	if err != nil {
		return Location{}, fmt.Errorf("error parsing longitude: %w", err)
	}
	if err := api.ValidateLatitude(lat); err != nil {
		return Location{}, err
	}
	if err := api.ValidateLongitude(lng); err != nil {
		return Location{}, err
	}

	return Location{Latitude: lat, Longitude: lng, DisplayName: result.DisplayName}, nil
}
