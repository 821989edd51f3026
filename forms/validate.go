// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"strings"
)

// LegacyRequiredFields are the fields the single-page livestock form demanded
// before saving
var LegacyRequiredFields = []string{
	"numberOfCows",
	"breedsOfCows",
	"numberOfMilkingCows",
	"numberOfDryCows",
	"numberOfCowCalvesAndHeifers",
	"numberOfBuffaloes",
	"breedsOfBuffaloes",
	"numberOfMilkingBuffaloes",
	"numberOfDryBuffaloes",
	"numberOfBuffaloCalvesAndHeifers",
}

// ValidationError names every required field left blank
type ValidationError struct {
	Missing []string
}

func (e *ValidationError) Error() string {
	return "please fill in all required fields: " + strings.Join(e.Missing, ", ")
}

// CheckRequired returns a *ValidationError listing every LegacyRequiredFields
// entry that is absent or blank in values, or nil when all are present
func CheckRequired(values map[string]string) error {
	var missing []string
	for _, name := range LegacyRequiredFields {
		if blank(values[name]) {
			missing = append(missing, name)
		}
	}
	if len(missing) > 0 {
		return &ValidationError{Missing: missing}
	}
	return nil
}

// LegacyValues flattens the two species forms into the single-page field
// names. The breed fields list the breeds that have a count.
func LegacyValues(cow, buffalo HerdForm) map[string]string {
	return map[string]string{
		"numberOfCows":                    cow.Total,
		"breedsOfCows":                    enteredBreeds(cow),
		"numberOfMilkingCows":             cow.Milking,
		"numberOfDryCows":                 cow.Dry,
		"numberOfCowCalvesAndHeifers":     cow.CalvesHeifers,
		"numberOfBuffaloes":               buffalo.Total,
		"breedsOfBuffaloes":               enteredBreeds(buffalo),
		"numberOfMilkingBuffaloes":        buffalo.Milking,
		"numberOfDryBuffaloes":            buffalo.Dry,
		"numberOfBuffaloCalvesAndHeifers": buffalo.CalvesHeifers,
	}
}

func enteredBreeds(f HerdForm) string {
	var names []string
	for _, b := range f.Breeds {
		if !blank(b.Name) && !blank(b.Count) {
			names = append(names, strings.TrimSpace(b.Name))
		}
	}
	return strings.Join(names, ", ")
}
