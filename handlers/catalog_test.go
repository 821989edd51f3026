// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/danielhkuo/dairy-survey/models"
	"github.com/danielhkuo/dairy-survey/testutil"
)

func TestSections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewCatalogHandler(db)

	w := httptest.NewRecorder()
	handler.Sections(w, testutil.MakeRequest("GET", "/api/sections", nil, nil))

	testutil.AssertStatus(t, w, http.StatusOK)

	var sections []models.Section
	testutil.AssertJSON(t, w, &sections)

	if len(sections) != 8 {
		t.Fatalf("Expected 8 seeded sections, got %d", len(sections))
	}
	if sections[0].Name != "Infrastructure" {
		t.Errorf("Expected first section 'Infrastructure', got '%s'", sections[0].Name)
	}
	if len(sections[0].Subsections) != 6 {
		t.Errorf("Expected 6 infrastructure subsections, got %d", len(sections[0].Subsections))
	}
	for _, ss := range sections[0].Subsections {
		if ss.Section.ID != sections[0].ID {
			t.Errorf("Subsection %d carries section %d, want %d", ss.ID, ss.Section.ID, sections[0].ID)
		}
	}
	if len(sections[1].Subsections) != 0 {
		t.Errorf("Expected no subsections under '%s', got %d", sections[1].Name, len(sections[1].Subsections))
	}
}

func TestSubsections(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewCatalogHandler(db)

	tests := []struct {
		name           string
		sectionID      string
		expectedStatus int
		expectedCount  int
	}{
		{"infrastructure", "1", http.StatusOK, 6},
		{"section without subsections", "2", http.StatusOK, 0},
		{"unknown section", "99", http.StatusNotFound, 0},
		{"malformed id", "one", http.StatusBadRequest, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/sections/"+tt.sectionID+"/subsections", nil, nil)
			req.SetPathValue("id", tt.sectionID)
			w := httptest.NewRecorder()

			handler.Subsections(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code != http.StatusOK {
				return
			}
			var subsections []models.Subsection
			testutil.AssertJSON(t, w, &subsections)
			if len(subsections) != tt.expectedCount {
				t.Errorf("Expected %d subsections, got %d", tt.expectedCount, len(subsections))
			}
			if tt.expectedCount > 0 && subsections[0].Name != "CATTLE SHED FLOORING" {
				t.Errorf("Expected subsections in seeded order, first was '%s'", subsections[0].Name)
			}
		})
	}
}

func TestScoreDescriptions(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewCatalogHandler(db)

	_, err := db.Exec(`INSERT INTO subsection (id, section_id, name) VALUES (100, 2, 'GREEN FODDER')`)
	if err != nil {
		t.Fatalf("Failed to insert subsection: %v", err)
	}

	tests := []struct {
		name           string
		subsectionID   string
		expectedStatus int
		expectedCount  int
	}{
		{"seeded rubric", "1", http.StatusOK, 3},
		{"subsection without rubric", "100", http.StatusOK, 0},
		{"unknown subsection", "999", http.StatusNotFound, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/subsections/"+tt.subsectionID+"/score-descriptions", nil, nil)
			req.SetPathValue("id", tt.subsectionID)
			w := httptest.NewRecorder()

			handler.ScoreDescriptions(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code != http.StatusOK {
				return
			}
			var descriptions []models.ScoreDescription
			testutil.AssertJSON(t, w, &descriptions)
			if len(descriptions) != tt.expectedCount {
				t.Fatalf("Expected %d descriptions, got %d", tt.expectedCount, len(descriptions))
			}
			for i, d := range descriptions {
				if d.ScoreValue != i+1 {
					t.Errorf("Expected descriptions ordered by value, position %d has %d", i, d.ScoreValue)
				}
			}
		})
	}
}

func TestScoreDescription(t *testing.T) {
	db := testutil.SetupTestDB(t)
	handler := NewCatalogHandler(db)

	tests := []struct {
		name           string
		subsectionID   string
		value          string
		expectedStatus int
	}{
		{"good practice", "2", "3", http.StatusOK},
		{"bad practice", "2", "1", http.StatusOK},
		{"value out of range", "2", "4", http.StatusBadRequest},
		{"value not a number", "2", "good", http.StatusBadRequest},
		{"unknown subsection", "999", "1", http.StatusNotFound},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := testutil.MakeRequest("GET", "/api/subsections/"+tt.subsectionID+"/score-descriptions/"+tt.value, nil, nil)
			req.SetPathValue("id", tt.subsectionID)
			req.SetPathValue("value", tt.value)
			w := httptest.NewRecorder()

			handler.ScoreDescription(w, req)

			testutil.AssertStatus(t, w, tt.expectedStatus)
			if w.Code == http.StatusOK {
				var d models.ScoreDescription
				testutil.AssertJSON(t, w, &d)
				if d.Description == "" {
					t.Error("Expected non-empty description")
				}
			}
		})
	}
}
