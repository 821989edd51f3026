// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package forms

import (
	"fmt"
	"slices"
	"strconv"
	"strings"

	"github.com/danielhkuo/dairy-survey/models"
)

// Field names of the four numeric herd fields
const (
	FieldTotal         = "total"
	FieldMilking       = "milking"
	FieldDry           = "dry"
	FieldCalvesHeifers = "calvesHeifers"
)

// NumericFields lists the herd fields in display order
var NumericFields = []string{FieldTotal, FieldMilking, FieldDry, FieldCalvesHeifers}

// Breed is one row of the breed table. Both values are raw user input.
type Breed struct {
	Name  string
	Count string
}

// HerdForm is the editable state of one species form. Every value is the
// raw text the user typed; blank means not entered.
type HerdForm struct {
	Total         string
	Milking       string
	Dry           string
	CalvesHeifers string
	Breeds        []Breed
}

var knownBreeds = map[models.Species][]string{
	models.SpeciesCow:     {"HF", "Jersey", "Gir", "Sahiwal", "Crossbred", "Other"},
	models.SpeciesBuffalo: {"Murrah", "Mehsana", "Jaffarabadi", "Surti", "Other"},
}

// KnownBreeds returns the breed names a species form starts with
func KnownBreeds(species models.Species) []string {
	return append([]string(nil), knownBreeds[species]...)
}

// NewHerdForm returns a blank form with one empty row per known breed
func NewHerdForm(species models.Species) HerdForm {
	var f HerdForm
	for _, name := range knownBreeds[species] {
		f.Breeds = append(f.Breeds, Breed{Name: name})
	}
	return f
}

// Field returns the raw value of a numeric field
func (f HerdForm) Field(name string) (string, error) {
	switch name {
	case FieldTotal:
		return f.Total, nil
	case FieldMilking:
		return f.Milking, nil
	case FieldDry:
		return f.Dry, nil
	case FieldCalvesHeifers:
		return f.CalvesHeifers, nil
	}
	return "", fmt.Errorf("unknown field %q", name)
}

// SetField sets a numeric field by name
func (f *HerdForm) SetField(name, value string) error {
	switch name {
	case FieldTotal:
		f.Total = value
	case FieldMilking:
		f.Milking = value
	case FieldDry:
		f.Dry = value
	case FieldCalvesHeifers:
		f.CalvesHeifers = value
	default:
		return fmt.Errorf("unknown field %q", name)
	}
	return nil
}

// SetBreed sets the count of the named breed, adding a row if needed
func (f *HerdForm) SetBreed(name, count string) {
	for i := range f.Breeds {
		if f.Breeds[i].Name == name {
			f.Breeds[i].Count = count
			return
		}
	}
	f.Breeds = append(f.Breeds, Breed{Name: name, Count: count})
}

func (f HerdForm) numeric() []string {
	return []string{f.Total, f.Milking, f.Dry, f.CalvesHeifers}
}

func blank(s string) bool {
	return strings.TrimSpace(s) == ""
}

// Progress is the share of the eight numeric fields across both forms that
// are non-blank, as a whole percentage rounded down
func Progress(cow, buffalo HerdForm) int {
	fields := append(cow.numeric(), buffalo.numeric()...)
	filled := 0
	for _, v := range fields {
		if !blank(v) {
			filled++
		}
	}
	return filled * 100 / len(fields)
}

// HasAnyCount reports whether any numeric field was entered
func HasAnyCount(f HerdForm) bool {
	for _, v := range f.numeric() {
		if !blank(v) {
			return true
		}
	}
	return false
}

// parseCount reads an integer, treating blank or malformed input as 0
func parseCount(s string) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		return 0
	}
	return n
}

// Payload builds the request body for a form. Breeds are included only when
// both name and count were entered.
func Payload(f HerdForm) models.HerdRecordRequest {
	req := models.HerdRecordRequest{
		Total:         parseCount(f.Total),
		Milking:       parseCount(f.Milking),
		Dry:           parseCount(f.Dry),
		CalvesHeifers: parseCount(f.CalvesHeifers),
		Breeds:        map[string]int{},
	}
	for _, b := range f.Breeds {
		if blank(b.Name) || blank(b.Count) {
			continue
		}
		req.Breeds[strings.TrimSpace(b.Name)] = parseCount(b.Count)
	}
	return req
}

// FromRecord fills a form from a stored record. Numbers are stringified and
// each known breed takes its count from the record, or blank when absent.
// Breeds in the record that the form does not list are appended.
func FromRecord(species models.Species, rec models.HerdRecord) HerdForm {
	f := HerdForm{
		Total:         strconv.Itoa(rec.Total),
		Milking:       strconv.Itoa(rec.Milking),
		Dry:           strconv.Itoa(rec.Dry),
		CalvesHeifers: strconv.Itoa(rec.CalvesHeifers),
	}

	listed := make(map[string]bool)
	for _, name := range knownBreeds[species] {
		listed[name] = true
		b := Breed{Name: name}
		if n, ok := rec.Breeds[name]; ok {
			b.Count = strconv.Itoa(n)
		}
		f.Breeds = append(f.Breeds, b)
	}

	var extra []string
	for name := range rec.Breeds {
		if !listed[name] {
			extra = append(extra, name)
		}
	}
	slices.Sort(extra)
	for _, name := range extra {
		f.Breeds = append(f.Breeds, Breed{Name: name, Count: strconv.Itoa(rec.Breeds[name])})
	}
	return f
}
