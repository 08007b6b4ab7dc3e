package dto

import "github.com/unicen/alumni-registry/internal/app/models"

// RegisterGraduateRequest represents a graduate self-registration request
type RegisterGraduateRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Password       string `json:"password" binding:"required,min=8"`
	Career         string `json:"career" binding:"required"`
	GraduationYear int    `json:"graduationYear" binding:"required,gte=1950,lte=2100"`
	City           string `json:"city" binding:"required"`
	Country        string `json:"country" binding:"required"`

	Institution          *string `json:"institution,omitempty"`
	Workplace            *string `json:"workplace,omitempty"`
	PracticeArea         *string `json:"practiceArea,omitempty"`
	WorkSector           *string `json:"workSector,omitempty"`
	UniversityAffiliated *bool   `json:"universityAffiliated,omitempty"`
	AffiliationAreas     *string `json:"affiliationAreas,omitempty"`
	ProjectInterest      *bool   `json:"projectInterest,omitempty"`
	Biography            *string `json:"biography,omitempty"`
	LinkedInURL          *string `json:"linkedinUrl,omitempty"`
}

// RegisterGraduateResponse is the minimal confirmation payload returned on
// successful registration
type RegisterGraduateResponse struct {
	ID        int64  `json:"id"`
	FirstName string `json:"firstName"`
	LastName  string `json:"lastName"`
	Email     string `json:"email"`
}

// UpdateProfileRequest represents a graduate profile update. Coordinates may
// be set directly from a map selection; when present both are required.
type UpdateProfileRequest struct {
	FirstName      string `json:"firstName" binding:"required"`
	LastName       string `json:"lastName" binding:"required"`
	Email          string `json:"email" binding:"required,email"`
	Career         string `json:"career" binding:"required"`
	GraduationYear int    `json:"graduationYear" binding:"required,gte=1950,lte=2100"`
	City           string `json:"city" binding:"required"`
	Country        string `json:"country" binding:"required"`

	Institution          *string  `json:"institution,omitempty"`
	Workplace            *string  `json:"workplace,omitempty"`
	PracticeArea         *string  `json:"practiceArea,omitempty"`
	WorkSector           *string  `json:"workSector,omitempty"`
	UniversityAffiliated *bool    `json:"universityAffiliated,omitempty"`
	AffiliationAreas     *string  `json:"affiliationAreas,omitempty"`
	ProjectInterest      *bool    `json:"projectInterest,omitempty"`
	Biography            *string  `json:"biography,omitempty"`
	LinkedInURL          *string  `json:"linkedinUrl,omitempty"`
	Latitude             *float64 `json:"latitude,omitempty"`
	Longitude            *float64 `json:"longitude,omitempty"`
}

// UpdateStatusRequest represents an administrator's moderation decision
type UpdateStatusRequest struct {
	Status       string  `json:"status" binding:"required,oneof=approved rejected"`
	Observations *string `json:"observations,omitempty"`
}

// MapGraduate is the projection of an approved graduate for the world map
type MapGraduate struct {
	ID             int64   `json:"id"`
	FirstName      string  `json:"firstName"`
	LastName       string  `json:"lastName"`
	Career         string  `json:"career"`
	GraduationYear int     `json:"graduationYear"`
	City           string  `json:"city"`
	Country        string  `json:"country"`
	Institution    *string `json:"institution,omitempty"`
	PhotoURL       *string `json:"photoUrl,omitempty"`
	LinkedInURL    *string `json:"linkedinUrl,omitempty"`
	Latitude       float64 `json:"latitude"`
	Longitude      float64 `json:"longitude"`
}

// PhotoUploadResponse reports where an uploaded profile photo was stored
type PhotoUploadResponse struct {
	PhotoURL string `json:"photoUrl"`
}

// NewMapGraduate projects a graduate onto its map representation. The
// caller must ensure coordinates are present.
func NewMapGraduate(g *models.Graduate) MapGraduate {
	return MapGraduate{
		ID:             g.ID,
		FirstName:      g.FirstName,
		LastName:       g.LastName,
		Career:         g.Career,
		GraduationYear: g.GraduationYear,
		City:           g.City,
		Country:        g.Country,
		Institution:    g.Institution,
		PhotoURL:       g.PhotoURL,
		LinkedInURL:    g.LinkedInURL,
		Latitude:       *g.Latitude,
		Longitude:      *g.Longitude,
	}
}
