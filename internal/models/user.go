package models

import (
	"time"
)

const DefaultRole = "School Administrator"

type User struct {
	UID         string    `firestore:"uid" json:"uid"`
	Email       string    `firestore:"email" json:"email"`
	DisplayName string    `firestore:"displayName" json:"displayName"`
	Role        string    `firestore:"role" json:"role"`
	SchoolID    string    `firestore:"schoolId" json:"schoolId"`
	CreatedAt   time.Time `firestore:"createdAt" json:"createdAt"`
	UpdatedAt   time.Time `firestore:"updatedAt" json:"updatedAt"`
}

// OwnerSchoolID is the school the user acts for; accounts created before
// schoolId existed act for the school keyed by their own uid.
func (u *User) OwnerSchoolID() string {
	if u.SchoolID != "" {
		return u.SchoolID
	}
	return u.UID
}
