package services

import (
	"errors"
	"testing"
	"time"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/pkg/helpers"
)

func newSchoolTestService(store *fakeSchoolStore, campaigns *fakeCampaignLister) *schoolService {
	if campaigns == nil {
		campaigns = &fakeCampaignLister{}
	}
	svc := NewSchoolService(store, &fakeOwners{}, campaigns)
	svc.clockNow = func() time.Time { return fixedNow }
	return svc
}

func TestSchoolUpdateRecomputesTotalsAndWritesHistoryOnce(t *testing.T) {
	store := newFakeSchoolStore()
	store.data["s1"] = &models.SchoolData{
		SchoolID: "s1",
		Students: models.StudentCounts{Male: 5, Female: 7, Total: 12},
	}
	svc := newSchoolTestService(store, nil)
	ctx := helpers.TestCtx()

	got, err := svc.Update(ctx, "s1", dto.SchoolDataUpdate{
		Students: &dto.StudentCountsPatch{Male: helpers.Ptr(10)},
	})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.Students != (models.StudentCounts{Male: 10, Female: 7, Total: 17}) {
		t.Fatalf("unexpected students: %+v", got.Students)
	}
	if store.historyCalls != 1 {
		t.Fatalf("expected one history record, got %d", store.historyCalls)
	}
	if _, ok := store.history["s1_2025-03"]; !ok {
		t.Fatalf("expected history keyed by month, got %v", store.history)
	}

	if _, err := svc.Update(ctx, "s1", dto.SchoolDataUpdate{
		Teachers: &dto.TeacherCountsPatch{SteamInvolved: helpers.Ptr(3)},
	}); err != nil {
		t.Fatalf("second Update error: %v", err)
	}
	if store.historyCalls != 1 {
		t.Fatalf("second update in the same month must not write history, got %d", store.historyCalls)
	}
	if store.history["s1_2025-03"].Students.Male != 10 {
		t.Fatal("history snapshot must keep the first write")
	}
	if store.data["s1"].Teachers.Total != 3 {
		t.Fatalf("expected teacher total 3, got %+v", store.data["s1"].Teachers)
	}
}

func TestSchoolUpdateHistoryFailureDoesNotFail(t *testing.T) {
	store := newFakeSchoolStore()
	store.historyErr = errors.New("history down")
	svc := newSchoolTestService(store, nil)

	got, err := svc.Update(helpers.TestCtx(), "s1", dto.SchoolDataUpdate{SchoolName: helpers.Ptr("Hill School")})
	if err != nil {
		t.Fatalf("Update error: %v", err)
	}
	if got.SchoolName != "Hill School" {
		t.Fatalf("unexpected school data: %+v", got)
	}
}

func TestSchoolUpdateRejectsNegativeCounts(t *testing.T) {
	svc := newSchoolTestService(newFakeSchoolStore(), nil)

	_, err := svc.Update(helpers.TestCtx(), "s1", dto.SchoolDataUpdate{
		Students: &dto.StudentCountsPatch{Female: helpers.Ptr(-1)},
	})
	var ve *errs.ValidationError
	if !errors.As(err, &ve) {
		t.Fatalf("expected validation error, got %v", err)
	}
}

func TestSchoolGetWritesDefault(t *testing.T) {
	store := newFakeSchoolStore()
	svc := newSchoolTestService(store, nil)

	got, err := svc.Get(helpers.TestCtx(), "s9")
	if err != nil {
		t.Fatalf("Get error: %v", err)
	}
	if got.SchoolID != "s9" || got.Students.Total != 0 {
		t.Fatalf("unexpected default: %+v", got)
	}
	if _, ok := store.data["s9"]; !ok {
		t.Fatal("default should be persisted")
	}
}

func TestSchoolStats(t *testing.T) {
	store := newFakeSchoolStore()
	store.data["s1"] = &models.SchoolData{
		SchoolID: "s1",
		Students: models.StudentCounts{Total: 80},
		Teachers: models.TeacherCounts{Total: 6},
	}
	// fixedNow is 31 March; previous month must be February
	store.history["s1_2025-02"] = &models.SchoolDataSnapshot{
		Students: models.StudentCounts{Total: 100},
		Teachers: models.TeacherCounts{Total: 6},
	}
	campaigns := &fakeCampaignLister{campaigns: []models.Campaign{
		{Status: models.CampaignActive, AmountRaised: 100},
		{Status: models.CampaignDraft, AmountRaised: 0},
		{Status: models.CampaignCompleted, AmountRaised: 50.5},
	}}
	svc := newSchoolTestService(store, campaigns)

	got, err := svc.Stats(helpers.TestCtx(), "s1")
	if err != nil {
		t.Fatalf("Stats error: %v", err)
	}
	if got.Students.Percent != -20 || got.Students.Label != "↓ 20% vs last month" {
		t.Fatalf("unexpected student growth: %+v", got.Students)
	}
	if got.Teachers.Percent != 0 || got.Teachers.Label != "→ 0% vs last month" {
		t.Fatalf("unexpected teacher growth: %+v", got.Teachers)
	}
	if got.CampaignCount != 3 || got.ActiveCampaigns != 1 || got.TotalRaised != 150.5 {
		t.Fatalf("unexpected campaign totals: %+v", got)
	}
	if campaigns.owner != "s1" {
		t.Fatalf("expected campaigns listed for s1, got %q", campaigns.owner)
	}
}

func TestCalculatePercentageChange(t *testing.T) {
	tests := []struct {
		current, previous, want int
	}{
		{0, 0, 0},
		{5, 0, 100},
		{80, 100, -20},
		{125, 100, 25},
		{1, 3, -67},
		{3, 2, 50},
	}
	for _, tt := range tests {
		if got := calculatePercentageChange(tt.current, tt.previous); got != tt.want {
			t.Fatalf("calculatePercentageChange(%d, %d) = %d, want %d", tt.current, tt.previous, got, tt.want)
		}
	}
}

func TestFormatGrowthString(t *testing.T) {
	tests := map[int]string{
		0:   "→ 0% vs last month",
		25:  "↑ 25% vs last month",
		-10: "↓ 10% vs last month",
	}
	for pct, want := range tests {
		if got := formatGrowthString(pct); got != want {
			t.Fatalf("formatGrowthString(%d) = %q, want %q", pct, got, want)
		}
	}
}
