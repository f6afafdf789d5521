package services

import (
	"context"
	"errors"
	"fmt"
	"math"
	"time"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type schoolSSStore interface {
	Get(ctx context.Context, schoolID string) (*models.SchoolData, error)
	Save(ctx context.Context, d *models.SchoolData) error
	AppendHistory(ctx context.Context, snap *models.SchoolDataSnapshot) (bool, error)
	GetHistory(ctx context.Context, schoolID, month string) (*models.SchoolDataSnapshot, error)
}

type campaignLister interface {
	List(ctx context.Context, ownerID string) ([]models.Campaign, error)
}

type schoolService struct {
	store     schoolSSStore
	owners    ownerResolver
	campaigns campaignLister
	clockNow  func() time.Time
}

func NewSchoolService(store schoolSSStore, owners ownerResolver, campaigns campaignLister) *schoolService {
	return &schoolService{
		store:     store,
		owners:    owners,
		campaigns: campaigns,
		clockNow:  time.Now,
	}
}

func (s *schoolService) Get(ctx context.Context, uid string) (*models.SchoolData, error) {
	schoolID, err := s.owners.OwnerSchoolID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.ensure(ctx, schoolID)
}

// Update merges the supplied fields. Headcount totals are recomputed from the
// parts held after the merge, and the first update of each month is kept as
// that month's history snapshot.
func (s *schoolService) Update(ctx context.Context, uid string, req dto.SchoolDataUpdate) (*models.SchoolData, error) {
	log := logger.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	schoolID, err := s.owners.OwnerSchoolID(ctx, uid)
	if err != nil {
		return nil, err
	}
	data, err := s.ensure(ctx, schoolID)
	if err != nil {
		return nil, err
	}

	applySchoolDataUpdate(data, req)
	now := s.clockNow().UTC()
	data.UpdatedAt = now

	if err := s.store.Save(ctx, data); err != nil {
		log.Error("failed to save school data", "school_id", schoolID, "error", err)
		return nil, err
	}

	wrote, err := s.store.AppendHistory(ctx, &models.SchoolDataSnapshot{
		SchoolID:  schoolID,
		Month:     models.MonthKey(now),
		Students:  data.Students,
		Teachers:  data.Teachers,
		CreatedAt: now,
	})
	if err != nil {
		// history only feeds growth figures
		log.Warn("failed to append school history", "school_id", schoolID, "error", err)
	} else if wrote {
		log.Info("school history recorded", "school_id", schoolID, "month", models.MonthKey(now))
	}

	return s.store.Get(ctx, schoolID)
}

// Stats compares current headcounts with last month's snapshot and sums the school's campaigns.
func (s *schoolService) Stats(ctx context.Context, uid string) (dto.SchoolStats, error) {
	var out dto.SchoolStats

	schoolID, err := s.owners.OwnerSchoolID(ctx, uid)
	if err != nil {
		return out, err
	}
	data, err := s.ensure(ctx, schoolID)
	if err != nil {
		return out, err
	}

	now := s.clockNow().UTC()
	prevMonth := models.MonthKey(time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC).AddDate(0, -1, 0))

	var prevStudents, prevTeachers int
	prev, err := s.store.GetHistory(ctx, schoolID, prevMonth)
	if err != nil {
		var nf *errs.NotFoundError
		if !errors.As(err, &nf) {
			return out, err
		}
	} else {
		prevStudents, prevTeachers = prev.Students.Total, prev.Teachers.Total
	}

	campaigns, err := s.campaigns.List(ctx, schoolID)
	if err != nil {
		return out, err
	}

	out.SchoolID = schoolID
	out.Month = models.MonthKey(now)
	out.Students = growth(data.Students.Total, prevStudents)
	out.Teachers = growth(data.Teachers.Total, prevTeachers)
	out.CampaignCount = len(campaigns)
	for _, c := range campaigns {
		if c.Status == models.CampaignActive {
			out.ActiveCampaigns++
		}
		out.TotalRaised += c.AmountRaised
	}
	return out, nil
}

func (s *schoolService) ensure(ctx context.Context, schoolID string) (*models.SchoolData, error) {
	data, err := s.store.Get(ctx, schoolID)
	if err == nil {
		return data, nil
	}
	var nf *errs.NotFoundError
	if !errors.As(err, &nf) {
		return nil, err
	}

	data = models.DefaultSchoolData(schoolID, s.clockNow().UTC())
	if err := s.store.Save(ctx, data); err != nil {
		logger.FromContext(ctx).Error("failed to create default school data", "school_id", schoolID, "error", err)
		return nil, err
	}
	return data, nil
}

func applySchoolDataUpdate(data *models.SchoolData, req dto.SchoolDataUpdate) {
	if req.SchoolName != nil {
		data.SchoolName = *req.SchoolName
	}
	if req.ContactEmail != nil {
		data.ContactEmail = *req.ContactEmail
	}
	if req.ContactPhone != nil {
		data.ContactPhone = *req.ContactPhone
	}
	if req.Address != nil {
		data.Address = *req.Address
	}
	if st := req.Students; st != nil {
		if st.Male != nil {
			data.Students.Male = *st.Male
		}
		if st.Female != nil {
			data.Students.Female = *st.Female
		}
	}
	if te := req.Teachers; te != nil {
		if te.SteamInvolved != nil {
			data.Teachers.SteamInvolved = *te.SteamInvolved
		}
		if te.NonSteamInvolved != nil {
			data.Teachers.NonSteamInvolved = *te.NonSteamInvolved
		}
	}
	data.Students.Total = data.Students.Male + data.Students.Female
	data.Teachers.Total = data.Teachers.SteamInvolved + data.Teachers.NonSteamInvolved
}

func growth(current, previous int) dto.Growth {
	pct := calculatePercentageChange(current, previous)
	return dto.Growth{
		Current:  current,
		Previous: previous,
		Percent:  pct,
		Label:    formatGrowthString(pct),
	}
}

// calculatePercentageChange rounds half up. With no previous value any
// current value counts as 100% growth.
func calculatePercentageChange(current, previous int) int {
	if previous == 0 {
		if current > 0 {
			return 100
		}
		return 0
	}
	change := float64(current-previous) / float64(previous) * 100
	return int(math.Floor(change + 0.5))
}

func formatGrowthString(pct int) string {
	switch {
	case pct > 0:
		return fmt.Sprintf("↑ %d%% vs last month", pct)
	case pct < 0:
		return fmt.Sprintf("↓ %d%% vs last month", -pct)
	default:
		return "→ 0% vs last month"
	}
}
