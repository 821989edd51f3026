// Copyright (c) 2025 Daniel Kuo.
// Source-available; no permission granted to use, copy, modify, or distribute. See LICENSE.

package handlers

import (
	"database/sql"
	"errors"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/danielhkuo/dairy-survey/auth"
	"github.com/danielhkuo/dairy-survey/cliparse"
	"github.com/danielhkuo/dairy-survey/middleware"
	"github.com/danielhkuo/dairy-survey/models"
)

type UserHandler struct {
	db  *sql.DB
	cfg cliparse.Config
}

func NewUserHandler(db *sql.DB, cfg cliparse.Config) *UserHandler {
	return &UserHandler{db: db, cfg: cfg}
}

const userColumns = `id, registration_id, first_name, surname, gender, dob, phone,
	state, district, block, village, latitude, longitude, created_at`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanUser(row rowScanner) (models.User, string, error) {
	var u models.User
	var lat, lng sql.NullFloat64
	var hash string
	err := row.Scan(&u.ID, &u.RegistrationID, &u.FirstName, &u.Surname, &u.Gender, &u.DOB,
		&u.Phone, &u.State, &u.District, &u.Block, &u.Village, &lat, &lng, &u.CreatedAt, &hash)
	if err != nil {
		return u, "", err
	}
	if lat.Valid {
		u.Latitude = &lat.Float64
	}
	if lng.Valid {
		u.Longitude = &lng.Float64
	}
	return u, hash, nil
}

// Register handles POST /auth/register
func (h *UserHandler) Register(w http.ResponseWriter, r *http.Request) {
	var req models.RegisterRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Phone = strings.TrimSpace(req.Phone)
	req.FirstName = strings.TrimSpace(req.FirstName)
	if err := middleware.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	hash, err := auth.HashPassword(req.Password)
	if err != nil {
		slog.Error("failed to hash password", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	user := models.User{
		RegistrationID: auth.GenerateRegistrationID(req.Phone, h.cfg.RegistrationSalt),
		FirstName:      req.FirstName,
		Surname:        req.Surname,
		Gender:         req.Gender,
		DOB:            req.DOB,
		Phone:          req.Phone,
		State:          req.State,
		District:       req.District,
		Block:          req.Block,
		Village:        req.Village,
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		CreatedAt:      time.Now().UTC(),
	}

	err = h.db.QueryRow(`
		INSERT INTO users (registration_id, first_name, surname, gender, dob, phone, password_hash,
			state, district, block, village, latitude, longitude, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14)
		RETURNING id
	`, user.RegistrationID, user.FirstName, user.Surname, user.Gender, user.DOB, user.Phone, hash,
		user.State, user.District, user.Block, user.Village, user.Latitude, user.Longitude, user.CreatedAt,
	).Scan(&user.ID)

	if err != nil {
		if isUniqueViolation(err) {
			middleware.ErrorResponse(w, http.StatusConflict, "Phone number already registered")
			return
		}
		slog.Error("failed to insert user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to register user")
		return
	}

	slog.Info("user registered", "user_id", user.ID, "registration_id", user.RegistrationID)

	middleware.JSONResponse(w, http.StatusCreated, user)
}

// Login handles POST /auth/login
func (h *UserHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest
	if err := middleware.ParseJSONBody(r, &req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, "Invalid JSON")
		return
	}

	req.Phone = strings.TrimSpace(req.Phone)
	if err := middleware.Validate(req); err != nil {
		middleware.ErrorResponse(w, http.StatusBadRequest, err.Error())
		return
	}

	user, hash, err := scanUser(h.db.QueryRow(`
		SELECT `+userColumns+`, password_hash FROM users WHERE phone = $1
	`, req.Phone))

	if err == sql.ErrNoRows {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidCredentials.Error())
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	if err := auth.CheckPassword(hash, req.Password); err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, err.Error())
		return
	}

	token, err := auth.IssueToken(user.ID, user.Phone, h.cfg.JWTSecret, h.cfg.TokenTTL)
	if err != nil {
		slog.Error("failed to issue token", "error", err, "user_id", user.ID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Failed to log in")
		return
	}

	slog.Info("user logged in", "user_id", user.ID)

	middleware.JSONResponse(w, http.StatusOK, models.LoginResponse{
		Token: token,
		User:  user,
	})
}

// Me handles GET /auth/me (requires Authorization: Bearer <token>)
func (h *UserHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := bearerToken(r)
	if token == "" {
		middleware.ErrorResponse(w, http.StatusUnauthorized, "Authorization header required")
		return
	}

	userID, err := auth.ParseToken(token, h.cfg.JWTSecret)
	if err != nil {
		middleware.ErrorResponse(w, http.StatusUnauthorized, auth.ErrInvalidToken.Error())
		return
	}

	user, _, err := scanUser(h.db.QueryRow(`
		SELECT `+userColumns+`, password_hash FROM users WHERE id = $1
	`, userID))

	if errors.Is(err, sql.ErrNoRows) {
		middleware.ErrorResponse(w, http.StatusNotFound, "User not found")
		return
	}
	if err != nil {
		slog.Error("failed to query user", "error", err, "user_id", userID)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, user)
}

// ListUsers handles GET /auth/user/list
func (h *UserHandler) ListUsers(w http.ResponseWriter, r *http.Request) {
	rows, err := h.db.Query(`SELECT ` + userColumns + `, password_hash FROM users ORDER BY id`)
	if err != nil {
		slog.Error("failed to query users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}
	defer rows.Close()

	users := []models.User{}
	for rows.Next() {
		user, _, err := scanUser(rows)
		if err != nil {
			slog.Error("failed to scan user", "error", err)
			middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
			return
		}
		users = append(users, user)
	}
	if err := rows.Err(); err != nil {
		slog.Error("failed to iterate users", "error", err)
		middleware.ErrorResponse(w, http.StatusInternalServerError, "Database error")
		return
	}

	middleware.JSONResponse(w, http.StatusOK, users)
}
