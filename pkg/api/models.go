package api

import (
	"fmt"
	"math"
)

const (
	MinLatitude  = -90.0
	MaxLatitude  = 90.0
	MinLongitude = -180.0
	MaxLongitude = 180.0
)

// SearchRequest is a single nearby stock query.
type SearchRequest struct {
	Latitude   float64    `json:"latitude"`
	Longitude  float64    `json:"longitude"`
	BloodGroup BloodGroup `json:"bloodGroup"`
}

// NewSearchRequest validates the coordinates and blood group and builds a request.
func NewSearchRequest(lat, lng float64, bloodGroup string) (SearchRequest, error) {
	if err := ValidateLatitude(lat); err != nil {
		return SearchRequest{}, err
	}
	if err := ValidateLongitude(lng); err != nil {
		return SearchRequest{}, err
	}
	bg, err := ParseBloodGroup(bloodGroup)
	if err != nil {
		return SearchRequest{}, err
	}
	return SearchRequest{Latitude: lat, Longitude: lng, BloodGroup: bg}, nil
}

// ValidateLatitude checks lat is within [-90, 90].
func ValidateLatitude(lat float64) error {
	if math.IsNaN(lat) || lat < MinLatitude || lat > MaxLatitude {
		return fmt.Errorf("latitude must be between %g and %g", MinLatitude, MaxLatitude)
	}
	return nil
}

// ValidateLongitude checks lng is within [-180, 180].
func ValidateLongitude(lng float64) error {
	if math.IsNaN(lng) || lng < MinLongitude || lng > MaxLongitude {
		return fmt.Errorf("longitude must be between %g and %g", MinLongitude, MaxLongitude)
	}
	return nil
}

// BloodBankRecord is one normalized blood bank entry.
type BloodBankRecord struct {
	SequenceNumber int    `json:"sno"`
	HospitalName   string `json:"hospital"`
	Distance       string `json:"distance"`
	Address        string `json:"address"`
	Contact        string `json:"contact"`
	Component      string `json:"component"`
	Stock          string `json:"stock"`
}
