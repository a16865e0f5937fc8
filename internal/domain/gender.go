package domain

import (
	"errors"
	"fmt"
	"strings"
)

// ErrUnknownGender is returned when a gender string is neither male nor female
var ErrUnknownGender = errors.New("unknown gender")

// Gender is the closed set of genders the inference rules distinguish
type Gender string

const (
	GenderMale   Gender = "male"
	GenderFemale Gender = "female"
)

// ParseGender parses a case-insensitive gender string
func ParseGender(s string) (Gender, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "male", "m":
		return GenderMale, nil
	case "female", "f":
		return GenderFemale, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownGender, s)
}

// String returns the display form used in reports
func (g Gender) String() string {
	switch g {
	case GenderMale:
		return "Male"
	case GenderFemale:
		return "Female"
	}
	return "undefined"
}
