package api

import (
	"fmt"
	"strings"
)

// BloodGroup is an ABO/Rh blood group label as accepted by the eRaktKosh API.
type BloodGroup string

const (
	APositive  BloodGroup = "A+"
	ANegative  BloodGroup = "A-"
	BPositive  BloodGroup = "B+"
	BNegative  BloodGroup = "B-"
	OPositive  BloodGroup = "O+"
	ONegative  BloodGroup = "O-"
	ABPositive BloodGroup = "AB+"
	ABNegative BloodGroup = "AB-"
)

var bloodGroups = []BloodGroup{
	APositive, ANegative,
	BPositive, BNegative,
	OPositive, ONegative,
	ABPositive, ABNegative,
}

var bloodGroupCodes = map[BloodGroup]int{
	APositive:  11,
	ANegative:  12,
	BPositive:  13,
	BNegative:  14,
	OPositive:  15,
	ONegative:  16,
	ABPositive: 17,
	ABNegative: 18,
}

// BloodGroups returns every known blood group in code order.
func BloodGroups() []BloodGroup {
	groups := make([]BloodGroup, len(bloodGroups))
	copy(groups, bloodGroups)
	return groups
}

// ValidBloodGroups returns the known labels joined for display, e.g. "A+, A-, ...".
func ValidBloodGroups() string {
	labels := make([]string, len(bloodGroups))
	for i, bg := range bloodGroups {
		labels[i] = string(bg)
	}
	return strings.Join(labels, ", ")
}

// ParseBloodGroup normalizes s (trimmed, case-insensitive) into a known blood group.
func ParseBloodGroup(s string) (BloodGroup, error) {
	bg := BloodGroup(strings.ToUpper(strings.TrimSpace(s)))
	if _, ok := bloodGroupCodes[bg]; !ok {
		return "", &InvalidBloodGroupError{Input: s}
	}
	return bg, nil
}

// Code returns the numeric identifier the API uses for the group, or 0 if unknown.
func (bg BloodGroup) Code() int {
	return bloodGroupCodes[bg]
}

// Valid reports whether bg is one of the eight known groups.
func (bg BloodGroup) Valid() bool {
	_, ok := bloodGroupCodes[bg]
	return ok
}

func (bg BloodGroup) String() string {
	return string(bg)
}

// BloodGroupCode maps a blood group string straight to its API code.
func BloodGroupCode(s string) (int, error) {
	bg, err := ParseBloodGroup(s)
	if err != nil {
		return 0, err
	}
	return bg.Code(), nil
}

// InvalidBloodGroupError is returned when a label is not one of the known groups.
type InvalidBloodGroupError struct {
	Input string
}

func (e *InvalidBloodGroupError) Error() string {
	return fmt.Sprintf("invalid blood group: %s. Valid options: %s", e.Input, ValidBloodGroups())
}

func (e *InvalidBloodGroupError) Unwrap() error {
	return ErrInvalidBloodGroup
}
