package dto

import "github.com/extracenter/backend/internal/app/models"

// CenterRef is a lightweight center reference used inside roster entries
type CenterRef struct {
	ID   int64  `json:"id" example:"10"`
	Name string `json:"name" example:"Sunrise Learning Center"`
}

// RosterEntry is one distinct student in an aggregated roster, together with
// every center of the caller the student is connected through.
type RosterEntry struct {
	Student          *models.User `json:"student"`
	ConnectedCenters []CenterRef  `json:"connectedCenters"`
}

// RosterResponse is the aggregated roster of a teacher across all centers
// they manage or teach at. Warnings lists centers that could not be read;
// their students are simply absent from the entries.
type RosterResponse struct {
	Entries  []RosterEntry `json:"entries"`
	Warnings []string      `json:"warnings,omitempty"`
}
