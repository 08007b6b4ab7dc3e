package models

// GraduateStatus defines the moderation state of a graduate record
type GraduateStatus string

const (
	StatusPending  GraduateStatus = "pending"
	StatusApproved GraduateStatus = "approved"
	StatusRejected GraduateStatus = "rejected"
)

// IsValid reports whether the status is one of the enumerated values
func (s GraduateStatus) IsValid() bool {
	switch s {
	case StatusPending, StatusApproved, StatusRejected:
		return true
	}
	return false
}

// PrincipalType distinguishes who a bearer token was issued to
type PrincipalType string

const (
	PrincipalAdmin    PrincipalType = "ADMIN"
	PrincipalGraduate PrincipalType = "GRADUATE"
)

// PracticeArea is the fixed category list for a graduate's field of practice
type PracticeArea string

const (
	PracticeAreaEngineering PracticeArea = "Agricultural, Engineering and Materials Sciences"
	PracticeAreaHealth      PracticeArea = "Biological and Health Sciences"
	PracticeAreaExact       PracticeArea = "Exact and Natural Sciences"
	PracticeAreaSocial      PracticeArea = "Social Sciences and Humanities"
)

// PracticeAreas lists every valid practice area
var PracticeAreas = []PracticeArea{
	PracticeAreaEngineering,
	PracticeAreaHealth,
	PracticeAreaExact,
	PracticeAreaSocial,
}

// IsValid reports whether the practice area is one of the enumerated values
func (a PracticeArea) IsValid() bool {
	for _, area := range PracticeAreas {
		if a == area {
			return true
		}
	}
	return false
}

// WorkSector is the fixed category list for a graduate's employment sector
type WorkSector string

const (
	SectorPrivateEmployed     WorkSector = "Private sector - Employed"
	SectorPrivateIndependent  WorkSector = "Private sector - Independent"
	SectorPrivateCooperative  WorkSector = "Private sector - Cooperative"
	SectorPublicInternational WorkSector = "Public sector - International"
	SectorPublicNational      WorkSector = "Public sector - National"
	SectorPublicProvincial    WorkSector = "Public sector - Provincial"
	SectorPublicLocal         WorkSector = "Public sector - Local"
)

// WorkSectors lists every valid work sector
var WorkSectors = []WorkSector{
	SectorPrivateEmployed,
	SectorPrivateIndependent,
	SectorPrivateCooperative,
	SectorPublicInternational,
	SectorPublicNational,
	SectorPublicProvincial,
	SectorPublicLocal,
}

// IsValid reports whether the work sector is one of the enumerated values
func (s WorkSector) IsValid() bool {
	for _, sector := range WorkSectors {
		if s == sector {
			return true
		}
	}
	return false
}
