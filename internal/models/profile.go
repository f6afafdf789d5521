package models

import "time"

// SchoolProfile is the canonical school identity and contact record (schoolProfiles/{schoolId}).
type SchoolProfile struct {
	SchoolID      string    `firestore:"schoolId" json:"schoolId"`
	SchoolName    string    `firestore:"schoolName" json:"schoolName"`
	PrincipalName string    `firestore:"principalName" json:"principalName"`
	ContactEmail  string    `firestore:"contactEmail" json:"contactEmail"`
	ContactPhone  string    `firestore:"contactPhone" json:"contactPhone"`
	Address       string    `firestore:"address" json:"address"`
	City          string    `firestore:"city" json:"city"`
	Country       string    `firestore:"country" json:"country"`
	Website       string    `firestore:"website" json:"website"`
	Description   string    `firestore:"description" json:"description"`
	MigratedFrom  string    `firestore:"migratedFrom,omitempty" json:"-"`
	CreatedAt     time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt     time.Time `firestore:"updatedAt" json:"updatedAt"`
}

func (p *SchoolProfile) Location() SchoolLocation {
	return SchoolLocation{City: p.City, Country: p.Country}
}

func DefaultSchoolProfile(schoolID, email string, now time.Time) *SchoolProfile {
	return &SchoolProfile{
		SchoolID:     schoolID,
		ContactEmail: email,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}

// SchoolProfileFromLegacy converts a document from the legacy schools collection,
// which used contactName and phone for what the profile calls principalName and contactPhone.
func SchoolProfileFromLegacy(doc RawDocument, now time.Time) *SchoolProfile {
	data := doc.Data
	return &SchoolProfile{
		SchoolID:      doc.ID,
		SchoolName:    docString(data, "name", "schoolName"),
		PrincipalName: docString(data, "principalName", "contactName"),
		ContactEmail:  docString(data, "contactEmail", "email"),
		ContactPhone:  docString(data, "contactPhone", "phone"),
		Address:       docString(data, "address"),
		City:          docString(data, "city"),
		Country:       docString(data, "country"),
		Website:       docString(data, "website"),
		Description:   docString(data, "description"),
		MigratedFrom:  "schools",
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}
