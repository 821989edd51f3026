// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/danielhkuo/dairy-survey/middleware"
	"github.com/danielhkuo/dairy-survey/models"
)

// HerdHandler serves the herd record endpoints of a single species
type HerdHandler struct {
	db      *sql.DB
	species models.Species
}

func NewHerdHandler(db *sql.DB, species models.Species) *HerdHandler {
	return &HerdHandler{db: db, species: species}
}

const herdColumns = `id, user_id, total, milking, dry, calves_heifers, breeds, updated_at`

func scanHerdRecord(row rowScanner) (models.HerdRecord, error) {
	var rec models.HerdRecord
	var breeds string
	err := row.Scan(&rec.ID, &rec.UserID, &rec.Total, &rec.Milking, &rec.Dry,
		&rec.CalvesHeifers, &breeds, &rec.UpdatedAt)
	if err != nil {
		return rec, err
	}
	rec.Breeds = map[string]int{}
	if breeds != "" {
		if err := json.Unmarshal([]byte(breeds), &rec.Breeds); err != nil {
			return rec, fmt.Errorf("failed to decode breeds for record %d: %w", rec.ID, err)
		}
	}
	return rec, nil
}

func encodeBreeds(breeds map[string]int) (string, error) {
	if len(breeds) == 0 {
		return "{}", nil
	}
	b, err := json.Marshal(breeds)
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (h *HerdHandler) queryRecords(w http.ResponseWriter, query string, args ...any) {
	rows, err := h.db.Query(query, args...)
	if err != nil {
		slog.Error("failed to query herd records", "error", err, "species", h.species)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	records := []models.HerdRecord{}
	for rows.Next() {
		rec, err := scanHerdRecord(rows)
		if err != nil {
			slog.Error("failed to scan herd record", "error", err, "species", h.species)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		records = append(records, rec)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate herd records", "error", err, "species", h.species)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, records)
}

// List handles GET /{species}/list
func (h *HerdHandler) List(w http.ResponseWriter, r *http.Request) {
	h.queryRecords(w, `
		SELECT `+herdColumns+` FROM herd_record WHERE species = $1 ORDER BY id
	`, string(h.species))
}

// ByUser handles GET /{species}/user/{userId}
// Responds 200 with an empty list when the user has no record.
func (h *HerdHandler) ByUser(w http.ResponseWriter, r *http.Request) {
	userID, ok := pathID(r, "userId")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId must be a positive integer")
		return
	}

	h.queryRecords(w, `
		SELECT `+herdColumns+` FROM herd_record WHERE species = $1 AND user_id = $2 ORDER BY id
	`, string(h.species), userID)
}

// Create handles POST /{species}/info
func (h *HerdHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.HerdRecordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	if req.UserID <= 0 {
		middleware.ErrorResponse(w, http.StatusBadRequest, "userId is required")
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

	breeds, err := encodeBreeds(req.Breeds)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid breeds")
		return
	}

	rec := models.HerdRecord{
		UserID:        req.UserID,
		Total:         req.Total,
		Milking:       req.Milking,
		Dry:           req.Dry,
		CalvesHeifers: req.CalvesHeifers,
		Breeds:        req.Breeds,
		UpdatedAt:     time.Now().UTC(),
	}
	if rec.Breeds == nil {
		rec.Breeds = map[string]int{}
	}

	err = h.db.QueryRow(`
		INSERT INTO herd_record (species, user_id, total, milking, dry, calves_heifers, breeds, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id
	`, string(h.species), rec.UserID, rec.Total, rec.Milking, rec.Dry, rec.CalvesHeifers, breeds, rec.UpdatedAt).Scan(&rec.ID)

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict,
				fmt.Sprintf("User already has a %s record; update it instead", h.species.Singular()))
			return
		}
		slog.Error("failed to insert herd record", "error", err, "species", h.species)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save herd record")
		return
	}

	slog.Info("herd record created", "species", h.species, "record_id", rec.ID, "user_id", rec.UserID)

	middleware.JSONResponse(w, http.StatusCreated, rec)
}

// Update handles PUT /{species}/info/{id}
func (h *HerdHandler) Update(w http.ResponseWriter, r *http.Request) {
	recordID, ok := pathID(r, "id")
	if !ok {
		middleware.ErrorResponse(w, http.StatusBadRequest, "id must be a positive integer")
		return
	}

	var req models.HerdRecordRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}
	if err := middleware.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	breeds, err := encodeBreeds(req.Breeds)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid breeds")
		return
	}

	result, err := h.db.Exec(`
		UPDATE herd_record
		SET total = $1, milking = $2, dry = $3, calves_heifers = $4, breeds = $5, updated_at = $6
		WHERE id = $7 AND species = $8
	`, req.Total, req.Milking, req.Dry, req.CalvesHeifers, breeds, time.Now().UTC(), recordID, string(h.species))

	if err != nil {
		slog.Error("failed to update herd record", "error", err, "record_id", recordID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to save herd record")
		return
	}

	affected, err := result.RowsAffected()
	if err != nil {
		slog.Error("failed to read rows affected", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	if affected == 0 {
		middleware.ErrorResponse(w, http.StatusNotFound, "Herd record not found")
		return
	}

	rec, err := scanHerdRecord(h.db.QueryRow(`
		SELECT `+herdColumns+` FROM herd_record WHERE id = $1
	`, recordID))
	if err != nil {
		slog.Error("failed to reload herd record", "error", err, "record_id", recordID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	slog.Info("herd record updated", "species", h.species, "record_id", rec.ID, "user_id", rec.UserID)

	middleware.JSONResponse(w, http.StatusOK, rec)
}
