// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"

	"github.com/danielhkuo/dairy-survey/middleware"
	"github.com/danielhkuo/dairy-survey/models"
)

// CatalogHandler serves the read-only assessment catalog: sections,
// subsections and the rubric text for each score value.
type CatalogHandler struct {
	db  *sql.DB
}

func NewCatalogHandler(db *sql.DB) *CatalogHandler {
	return &CatalogHandler{db: db}
}

func (h *CatalogHandler) loadSubsections(where string, args ...any) ([]models.Subsection, error) {
	rows, err := h.db.Query(`
		SELECT ss.id, ss.name, ss.description, s.id, s.name
		FROM subsection ss
		JOIN section s ON s.id = ss.section_id
		`+where+`
		ORDER BY s.id, ss.sort_order, ss.id
	`, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subsections := []models.Subsection{}
	for rows.Next() {
		var ss models.Subsection
		if err := rows.Scan(&ss.ID, &ss.Name, &ss.Description, &ss.Section.ID, &ss.Section.Name); err != nil {
			return nil, err
		}
		subsections = append(subsections, ss)
	}
	return subsections, rows.Err()
}

// Sections handles GET /api/sections
func (h *CatalogHandler) Sections(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT id, name FROM section ORDER BY id`)
	if err != nil {
		slog.Error("failed to query sections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	sections := []models.Section{}
	index := make(map[int64]int)
	for rows.Next() {
		var s models.Section
		if err := rows.Scan(&s.ID, &s.Name); err != nil {
			rows.Close()
			slog.Error("failed to scan section", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		index[s.ID] = len(sections)
		sections = append(sections, s)
	}
	rows.Close()
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate sections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	subsections, err := h.loadSubsections("")
	if err != nil {
		slog.Error("failed to query subsections", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	for _, ss := range subsections {
		if i, ok := index[ss.Section.ID]; ok {
			sections[i].Subsections = append(sections[i].Subsections, ss)
		}
	}

	middleware.JSONResponse(w, http.StatusOK, sections)
}

// Subsections handles GET /api/sections/{id}/subsections
func (h *CatalogHandler) Subsections(w http.ResponseWriter, r *http.Request) {
	sectionID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "section id must be a positive integer")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM section WHERE id = $1)`, sectionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check section", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Section not found")
		return
	}

	subsections, err := h.loadSubsections("WHERE ss.section_id = $1", sectionID)
	if err != nil {
		slog.Error("failed to query subsections", "error", err, "section_id", sectionID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, subsections)
}

// ScoreDescriptions handles GET /api/subsections/{id}/score-descriptions
func (h *CatalogHandler) ScoreDescriptions(w http.ResponseWriter, r *http.Request) {
	subsectionID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "subsection id must be a positive integer")
		return
	}

	var exists bool
	err := h.db.QueryRow(`SELECT EXISTS(SELECT 1 FROM subsection WHERE id = $1)`, subsectionID).Scan(&exists)
	if err != nil {
		slog.Error("failed to check subsection", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "Subsection not found")
		return
	}

	rows, err := h.db.Query(`
		SELECT subsection_id, score_value, description
		FROM score_description
		WHERE subsection_id = $1
		ORDER BY score_value
	`, subsectionID)
	if err != nil {
		slog.Error("failed to query score descriptions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	descriptions := []models.ScoreDescription{}
	for rows.Next() {
		var d models.ScoreDescription
		if err := rows.Scan(&d.SubsectionID, &d.ScoreValue, &d.Description); err != nil {
			slog.Error("failed to scan score description", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		descriptions = append(descriptions, d)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate score descriptions", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, descriptions)
}

// ScoreDescription handles GET /api/subsections/{id}/score-descriptions/{value}
func (h *CatalogHandler) ScoreDescription(w http.ResponseWriter, r *http.Request) {
	subsectionID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "subsection id must be a positive integer")
		return
	}

	value, err := strconv.Atoi(r.PathValue("value"))
	if err != nil || !models.ValidScore(value) {
		middleware.ErrorResponse(w, http.StatusBadRequest, "value must be 1, 2 or 3")
		return
	}

	d := models.ScoreDescription{SubsectionID: subsectionID, ScoreValue: value}
	err = h.db.QueryRow(`
		SELECT description FROM score_description
		WHERE subsection_id = $1 AND score_value = $2
	`, subsectionID, value).Scan(&d.Description)

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Score description not found")
		return
	}
	if err != nil {
		slog.Error("failed to query score description", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, d)
}
