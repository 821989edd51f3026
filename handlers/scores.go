// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/danielhkuo/dairy-survey/middleware"
	"github.com/danielhkuo/dairy-survey/models"
)

type ScoreHandler struct {
	db  *sql.DB
}

func NewScoreHandler(db *sql.DB) *ScoreHandler {
	return &ScoreHandler{db: db}
}

const scoreSelect = `
	SELECT sc.id, sc.user_id, sc.subsection_id, ss.section_id, sc.score_value, sc.updated_at
	FROM score sc
	JOIN subsection ss ON ss.id = sc.subsection_id
`

func (h *ScoreHandler) queryScores(w http.ResponseWriter, where string, args ...any) {
	rows, err := h.db.Query(scoreSelect+where+` ORDER BY sc.user_id, ss.section_id, ss.sort_order, sc.subsection_id`, args...)
	if err != nil {
		slog.Error("failed to query scores", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	scores := []models.ScoreRecord{}
	for rows.Next() {
		var s models.ScoreRecord
		if err := rows.Scan(&s.ID, &s.UserID, &s.SubsectionID, &s.SectionID, &s.ScoreValue, &s.UpdatedAt); err != nil {
			slog.Error("failed to scan score", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		scores = append(scores, s)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate scores", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, scores)
}

// List handles GET /api/scores
func (h *ScoreHandler) List(w http.ResponseWriter, r *http.Request) {
	h.queryScores(w, "")
}

// UserScores handles GET /api/users/{userId}/scores with optional ?sectionId=
func (h *ScoreHandler) UserScores(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId must be a positive integer")
		return
	}

	raw := r.URL.Query().Get("sectionId")
	if raw == "" {
		h.queryScores(w, "WHERE sc.user_id = $1", userID)
		return
	}

	sectionID, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || sectionID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "sectionId must be a positive integer")
		return
	}
	h.queryScores(w, "WHERE sc.user_id = $1 AND ss.section_id = $2", userID, sectionID)
}

// UserSubsectionScores handles GET /api/users/{userId}/subsections/{id}/scores
func (h *ScoreHandler) UserSubsectionScores(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId must be a positive integer")
		return
	}
	subsectionID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "subsection id must be a positive integer")
		return
	}

	h.queryScores(w, "WHERE sc.user_id = $1 AND sc.subsection_id = $2", userID, subsectionID)
}

// Submit handles POST /api/scores.
// One score per user and subsection: a repeat submission replaces the value
// and responds 200 instead of 201.
func (h *ScoreHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.SubmitScoreRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	exists, err := userExists(h.db, req.UserID)
	if err != nil {
		slog.Error("failed to check user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if !exists {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}

	record := models.ScoreRecord{
		UserID:       req.UserID,
		SubsectionID: req.SubsectionID,
		ScoreValue:   req.ScoreValue,
		UpdatedAt:    time.Now().UTC(),
	}

	err = h.db.QueryRow(`SELECT section_id FROM subsection WHERE id = $1`, req.SubsectionID).Scan(&record.SectionID)
	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusNotFound, "Subsection not found")
		return
	}
	if err != nil {
		slog.Error("failed to query subsection", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	// Begin transaction for UPSERT
	tx, err := h.db.Begin()
	if err != nil {
		slog.Error("failed to begin transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer tx.Rollback()

	var existingID int64
	err = tx.QueryRow(`
		SELECT id FROM score WHERE user_id = $1 AND subsection_id = $2
	`, req.UserID, req.SubsectionID).Scan(&existingID)
	if err != nil && err != sql.ErrNoRows {
		slog.Error("failed to query existing score", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	isUpdate := err == nil

	err = tx.QueryRow(`
		INSERT INTO score (user_id, subsection_id, score_value, updated_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (user_id, subsection_id)
		DO UPDATE SET score_value = excluded.score_value, updated_at = excluded.updated_at
		RETURNING id
	`, record.UserID, record.SubsectionID, record.ScoreValue, record.UpdatedAt).Scan(&record.ID)
	if err != nil {
		slog.Error("failed to upsert score", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	if err := tx.Commit(); err != nil {
		slog.Error("failed to commit transaction", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save score")
		return
	}

	slog.Info("score submitted",
		"user_id", record.UserID,
		"subsection_id", record.SubsectionID,
		"score_value", record.ScoreValue,
		"is_update", isUpdate,
	)

	status := http.StatusCreated
	if isUpdate {
		status = http.StatusOK
	}
	middleware.JSONResponse(w, status, record)
}
