package models

import (
	"time"
)

// Graduate defines the graduate model based on the 'graduates' table
type Graduate struct {
	ID             int64  `json:"id" db:"id" example:"1"`
	FirstName      string `json:"firstName" db:"first_name" example:"Maria"`
	LastName       string `json:"lastName" db:"last_name" example:"Gonzalez"`
	Email          string `json:"email" db:"email" example:"maria@example.com"`
	Password       string `json:"-" db:"password"` // bcrypt hash, excluded from JSON
	Career         string `json:"career" db:"career" example:"Systems Engineering"`
	GraduationYear int    `json:"graduationYear" db:"graduation_year" example:"2015"`

	// Location. City and country are required free text at registration;
	// coordinates are filled in by geocoding on approval or by a direct
	// map selection, and are expected to be both present or both absent.
	City      string   `json:"city" db:"city" example:"Tandil"`
	Country   string   `json:"country" db:"country" example:"Argentina"`
	Latitude  *float64 `json:"latitude,omitempty" db:"latitude" example:"-37.3217"`
	Longitude *float64 `json:"longitude,omitempty" db:"longitude" example:"-59.1332"`

	Institution *string `json:"institution,omitempty" db:"institution"`

	// Employment context, all optional
	Workplace            *string `json:"workplace,omitempty" db:"workplace"`
	PracticeArea         *string `json:"practiceArea,omitempty" db:"practice_area"`
	WorkSector           *string `json:"workSector,omitempty" db:"work_sector"`
	UniversityAffiliated *bool   `json:"universityAffiliated,omitempty" db:"university_affiliated"`
	AffiliationAreas     *string `json:"affiliationAreas,omitempty" db:"affiliation_areas"`
	ProjectInterest      *bool   `json:"projectInterest,omitempty" db:"project_interest"`

	// Presentation
	Biography   *string `json:"biography,omitempty" db:"biography"`
	PhotoURL    *string `json:"photoUrl,omitempty" db:"photo_url"`
	LinkedInURL *string `json:"linkedinUrl,omitempty" db:"linkedin_url"`

	// Moderation
	Status            GraduateStatus `json:"status" db:"status" example:"pending"`
	AdminObservations *string        `json:"adminObservations,omitempty" db:"admin_observations"`

	CreatedAt time.Time `json:"createdAt" db:"created_at"`
	UpdatedAt time.Time `json:"updatedAt" db:"updated_at"`
}

// HasCoordinates reports whether both latitude and longitude are set
func (g *Graduate) HasCoordinates() bool {
	return g.Latitude != nil && g.Longitude != nil
}

// FullName returns the graduate's display name for emails
func (g *Graduate) FullName() string {
	return g.FirstName + " " + g.LastName
}
