package dto

type StudentCountsPatch struct {
	Male   *int `json:"male,omitempty" validate:"omitempty,gte=0"`
	Female *int `json:"female,omitempty" validate:"omitempty,gte=0"`
}

type TeacherCountsPatch struct {
	SteamInvolved    *int `json:"steamInvolved,omitempty" validate:"omitempty,gte=0"`
	NonSteamInvolved *int `json:"nonSteamInvolved,omitempty" validate:"omitempty,gte=0"`
}

// SchoolDataUpdate is a partial write; totals are derived and cannot be set directly.
type SchoolDataUpdate struct {
	SchoolName   *string             `json:"schoolName,omitempty" validate:"omitempty,max=200"`
	ContactEmail *string             `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone *string             `json:"contactPhone,omitempty" validate:"omitempty,max=40"`
	Address      *string             `json:"address,omitempty" validate:"omitempty,max=300"`
	Students     *StudentCountsPatch `json:"students,omitempty"`
	Teachers     *TeacherCountsPatch `json:"teachers,omitempty"`
}

type SchoolProfileUpdate struct {
	SchoolName    *string `json:"schoolName,omitempty" validate:"omitempty,max=200"`
	PrincipalName *string `json:"principalName,omitempty" validate:"omitempty,max=200"`
	ContactEmail  *string `json:"contactEmail,omitempty" validate:"omitempty,email"`
	ContactPhone  *string `json:"contactPhone,omitempty" validate:"omitempty,max=40"`
	Address       *string `json:"address,omitempty" validate:"omitempty,max=300"`
	City          *string `json:"city,omitempty" validate:"omitempty,max=100"`
	Country       *string `json:"country,omitempty" validate:"omitempty,max=100"`
	Website       *string `json:"website,omitempty" validate:"omitempty,url"`
	Description   *string `json:"description,omitempty" validate:"omitempty,max=2000"`
}

type NotificationSettingsUpdate struct {
	EmailDonations       *bool `json:"emailDonations,omitempty"`
	EmailCampaignUpdates *bool `json:"emailCampaignUpdates,omitempty"`
	EmailWeeklySummary   *bool `json:"emailWeeklySummary,omitempty"`
	PushEnabled          *bool `json:"pushEnabled,omitempty"`
}

type Growth struct {
	Current  int    `json:"current"`
	Previous int    `json:"previous"`
	Percent  int    `json:"percent"`
	Label    string `json:"label"`
}

type SchoolStats struct {
	SchoolID        string  `json:"schoolId"`
	Month           string  `json:"month"`
	Students        Growth  `json:"students"`
	Teachers        Growth  `json:"teachers"`
	CampaignCount   int     `json:"campaignCount"`
	ActiveCampaigns int     `json:"activeCampaigns"`
	TotalRaised     float64 `json:"totalRaised"`
}
