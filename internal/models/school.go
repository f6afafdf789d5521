package models

import (
	"strings"
	"time"
)

// SchoolLocation is the slice of a school profile joined onto campaigns.
type SchoolLocation struct {
	City    string `json:"city"`
	Country string `json:"country"`
}

func (l SchoolLocation) String() string {
	parts := make([]string, 0, 2)
	for _, p := range []string{l.City, l.Country} {
		if p = strings.TrimSpace(p); p != "" {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// StudentCounts keeps Total equal to Male + Female; only the store recomputes it.
type StudentCounts struct {
	Male   int `firestore:"male" json:"male"`
	Female int `firestore:"female" json:"female"`
	Total  int `firestore:"total" json:"total"`
}

// TeacherCounts keeps Total equal to SteamInvolved + NonSteamInvolved.
type TeacherCounts struct {
	SteamInvolved    int `firestore:"steamInvolved" json:"steamInvolved"`
	NonSteamInvolved int `firestore:"nonSteamInvolved" json:"nonSteamInvolved"`
	Total            int `firestore:"total" json:"total"`
}

// SchoolData holds headcounts and is stored in schoolData/{schoolId}.
type SchoolData struct {
	SchoolID     string        `firestore:"schoolId" json:"schoolId"`
	SchoolName   string        `firestore:"schoolName" json:"schoolName"`
	ContactEmail string        `firestore:"contactEmail" json:"contactEmail"`
	ContactPhone string        `firestore:"contactPhone" json:"contactPhone"`
	Address      string        `firestore:"address" json:"address"`
	Students     StudentCounts `firestore:"students" json:"students"`
	Teachers     TeacherCounts `firestore:"teachers" json:"teachers"`
	CreatedAt    time.Time     `firestore:"createdAt" json:"createdAt"`
	UpdatedAt    time.Time     `firestore:"updatedAt" json:"updatedAt"`
}

// SchoolDataSnapshot is the first write of a calendar month into schoolDataHistory.
type SchoolDataSnapshot struct {
	SchoolID  string        `firestore:"schoolId" json:"schoolId"`
	Month     string        `firestore:"month" json:"month"` // YYYY-MM
	Students  StudentCounts `firestore:"students" json:"students"`
	Teachers  TeacherCounts `firestore:"teachers" json:"teachers"`
	CreatedAt time.Time     `firestore:"createdAt" json:"createdAt"`
}

// MonthKey formats t as the history key for its calendar month.
func MonthKey(t time.Time) string {
	return t.UTC().Format("2006-01")
}

// DefaultSchoolData is written the first time a school's data is read.
func DefaultSchoolData(schoolID string, now time.Time) *SchoolData {
	return &SchoolData{
		SchoolID:  schoolID,
		CreatedAt: now,
		UpdatedAt: now,
	}
}
