package dto

type RegisterRequest struct {
	DisplayName string `json:"displayName" validate:"max=120"`
	Role        string `json:"role" validate:"max=60"`
	// SchoolID is optional and must equal the caller's uid when set.
	SchoolID    string `json:"schoolId" validate:"max=128"`
}
