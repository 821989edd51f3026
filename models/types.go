package models

import "time"

// Species identifies which herd a record belongs to. The value doubles as
// the REST path segment (/cows/..., /buffaloes/...).
type Species string

const (
	SpeciesCow     Species = "cows"
	SpeciesBuffalo Species = "buffaloes"
)

// AllSpecies lists species in the order forms render them.
var AllSpecies = []Species{SpeciesCow, SpeciesBuffalo}

// Valid reports whether s is a known species.
func (s Species) Valid() bool {
	return s == SpeciesCow || s == SpeciesBuffalo
}

// Singular returns the human label ("cow", "buffalo").
func (s Species) Singular() string {
	switch s {
	case SpeciesCow:
		return "cow"
	case SpeciesBuffalo:
		return "buffalo"
	}
	return string(s)
}

// Score values
const (
	ScoreBad              = 1
	ScoreNeedsImprovement = 2
	ScoreGood             = 3
)

// ValidScore reports whether v is one of the three rubric tiers.
func ValidScore(v int) bool {
	return v >= ScoreBad && v <= ScoreGood
}

// Request types

type RegisterRequest struct {
	FirstName string   `json:"firstName" validate:"required,max=100"`
	Surname   string   `json:"surname" validate:"max=100"`
	Gender    string   `json:"gender" validate:"omitempty,oneof=male female other"`
	DOB       string   `json:"dob"`
	Phone     string   `json:"phone" validate:"required,min=6,max=20"`
	Password  string   `json:"password" validate:"required,min=6"`
	State     string   `json:"state"`
	District  string   `json:"district"`
	Block     string   `json:"block"`
	Village   string   `json:"village"`
	Latitude  *float64 `json:"latitude,omitempty" validate:"omitempty,gte=-90,lte=90"`
	Longitude *float64 `json:"longitude,omitempty" validate:"omitempty,gte=-180,lte=180"`
}

type LoginRequest struct {
	Phone    string `json:"phone" validate:"required"`
	Password string `json:"password" validate:"required"`
}

// HerdRecordRequest is the body of POST /{species}/info and PUT /{species}/info/{id}.
// UserID is only read on create.
type HerdRecordRequest struct {
	UserID        int64          `json:"userId,omitempty"`
	Total         int            `json:"total" validate:"gte=0"`
	Milking       int            `json:"milking" validate:"gte=0"`
	Dry           int            `json:"dry" validate:"gte=0"`
	CalvesHeifers int            `json:"calvesHeifers" validate:"gte=0"`
	Breeds        map[string]int `json:"breeds" validate:"dive,keys,required,endkeys,gte=0"`
}

type SubmitScoreRequest struct {
	UserID       int64 `json:"userId" validate:"required,gt=0"`
	SubsectionID int64 `json:"subsectionId" validate:"required,gt=0"`
	ScoreValue   int   `json:"scoreValue" validate:"oneof=1 2 3"`
}

// Response types

type LoginResponse struct {
	Token string `json:"token"`
	User  User   `json:"user"`
}

// Domain types

type User struct {
	ID             int64     `json:"id"`
	RegistrationID string    `json:"registrationId"`
	FirstName      string    `json:"firstName"`
	Surname        string    `json:"surname"`
	Gender         string    `json:"gender,omitempty"`
	DOB            string    `json:"dob,omitempty"`
	Phone          string    `json:"phone"`
	State          string    `json:"state,omitempty"`
	District       string    `json:"district,omitempty"`
	Block          string    `json:"block,omitempty"`
	Village        string    `json:"village,omitempty"`
	Latitude       *float64  `json:"latitude,omitempty"`
	Longitude      *float64  `json:"longitude,omitempty"`
	CreatedAt      time.Time `json:"createdAt"`
}

// HasLocation reports whether the user registered with a location fix.
func (u User) HasLocation() bool {
	return u.Latitude != nil && u.Longitude != nil
}

type HerdRecord struct {
	ID            int64          `json:"id"`
	UserID        int64          `json:"userId"`
	Total         int            `json:"total"`
	Milking       int            `json:"milking"`
	Dry           int            `json:"dry"`
	CalvesHeifers int            `json:"calvesHeifers"`
	Breeds        map[string]int `json:"breeds"`
	UpdatedAt     time.Time      `json:"updatedAt"`
}

type Section struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Subsections []Subsection `json:"subsections,omitempty"`
}

// SectionRef is the compact section embedded in a Subsection.
type SectionRef struct {
	ID   int64  `json:"id"`
	Name string `json:"name"`
}

type Subsection struct {
	ID          int64      `json:"id"`
	Name        string     `json:"name"`
	Description string     `json:"description,omitempty"`
	Section     SectionRef `json:"section"`
}

type ScoreDescription struct {
	SubsectionID int64  `json:"subsectionId"`
	ScoreValue   int    `json:"scoreValue"`
	Description  string `json:"description"`
}

// ScoreRecord is the canonical shape of a submitted score. Servers in the
// wild have returned several variants; see client.ParseScoreRecords.
type ScoreRecord struct {
	ID           int64     `json:"id"`
	UserID       int64     `json:"userId"`
	SubsectionID int64     `json:"subsectionId"`
	SectionID    int64     `json:"sectionId"`
	ScoreValue   int       `json:"scoreValue"`
	UpdatedAt    time.Time `json:"updatedAt"`
}

// Error response

type ErrorResponse struct {
	Error   string `json:"error"`
	Message string `json:"message,omitempty"`
}
