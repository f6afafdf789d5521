package services

import (
	"context"
	"errors"
	"time"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type profilePSStore interface {
	Get(ctx context.Context, schoolID string) (*models.SchoolProfile, error)
	Create(ctx context.Context, p *models.SchoolProfile) error
	Update(ctx context.Context, schoolID string, fields map[string]any) error
	GetLegacy(ctx context.Context, schoolID string) (*models.RawDocument, error)
	ForEachLegacy(ctx context.Context, handle func(models.RawDocument) error) error
}

type locationInvalidator interface {
	Invalidate(schoolID string)
}

// profileService treats schoolProfiles as canonical. A school with no profile
// is seeded from the legacy schools collection, then from a blank default.
type profileService struct {
	store    profilePSStore
	owners   ownerResolver
	cache    locationInvalidator
	clockNow func() time.Time
}

func NewProfileService(store profilePSStore, owners ownerResolver, cache locationInvalidator) *profileService {
	return &profileService{
		store:    store,
		owners:   owners,
		cache:    cache,
		clockNow: time.Now,
	}
}

func (s *profileService) Get(ctx context.Context, uid string) (*models.SchoolProfile, error) {
	schoolID, err := s.owners.OwnerSchoolID(ctx, uid)
	if err != nil {
		return nil, err
	}
	return s.ensure(ctx, schoolID)
}

func (s *profileService) Update(ctx context.Context, uid string, req dto.SchoolProfileUpdate) (*models.SchoolProfile, error) {
	log := logger.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	schoolID, err := s.owners.OwnerSchoolID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if _, err := s.ensure(ctx, schoolID); err != nil {
		return nil, err
	}

	fields := map[string]any{}
	setString(fields, "schoolName", req.SchoolName)
	setString(fields, "principalName", req.PrincipalName)
	setString(fields, "contactEmail", req.ContactEmail)
	setString(fields, "contactPhone", req.ContactPhone)
	setString(fields, "address", req.Address)
	setString(fields, "city", req.City)
	setString(fields, "country", req.Country)
	setString(fields, "website", req.Website)
	setString(fields, "description", req.Description)

	if len(fields) > 0 {
		if err := s.store.Update(ctx, schoolID, fields); err != nil {
			log.Error("failed to update school profile", "school_id", schoolID, "error", err)
			return nil, err
		}
		s.cache.Invalidate(schoolID)
		log.Info("school profile updated", "school_id", schoolID, "fields", len(fields))
	}

	return s.store.Get(ctx, schoolID)
}

// Location resolves a school's display location without writing anything.
// A school with no profile and no legacy record has an empty location.
func (s *profileService) Location(ctx context.Context, schoolID string) (models.SchoolLocation, error) {
	var nf *errs.NotFoundError

	p, err := s.store.Get(ctx, schoolID)
	if err == nil {
		return p.Location(), nil
	}
	if !errors.As(err, &nf) {
		return models.SchoolLocation{}, err
	}

	legacy, err := s.store.GetLegacy(ctx, schoolID)
	if err == nil {
		return models.SchoolProfileFromLegacy(*legacy, s.clockNow()).Location(), nil
	}
	if errors.As(err, &nf) {
		return models.SchoolLocation{}, nil
	}
	return models.SchoolLocation{}, err
}

// MigrateLegacy copies every legacy school without a profile into schoolProfiles.
func (s *profileService) MigrateLegacy(ctx context.Context) (migrated, skipped int, err error) {
	log := logger.FromContext(ctx)

	err = s.store.ForEachLegacy(ctx, func(doc models.RawDocument) error {
		p := models.SchoolProfileFromLegacy(doc, s.clockNow().UTC())
		if err := s.store.Create(ctx, p); err != nil {
			var exists *errs.AlreadyExistsError
			if errors.As(err, &exists) {
				skipped++
				return nil
			}
			return err
		}
		s.cache.Invalidate(doc.ID)
		migrated++
		log.Debug("school migrated", "school_id", doc.ID)
		return nil
	})
	if err != nil {
		log.Error("school migration failed", "migrated", migrated, "error", err)
		return migrated, skipped, err
	}
	log.Info("school migration finished", "migrated", migrated, "skipped", skipped)
	return migrated, skipped, nil
}

func (s *profileService) ensure(ctx context.Context, schoolID string) (*models.SchoolProfile, error) {
	log := logger.FromContext(ctx)
	var nf *errs.NotFoundError

	p, err := s.store.Get(ctx, schoolID)
	if err == nil {
		return p, nil
	}
	if !errors.As(err, &nf) {
		return nil, err
	}

	now := s.clockNow().UTC()
	legacy, err := s.store.GetLegacy(ctx, schoolID)
	switch {
	case err == nil:
		p = models.SchoolProfileFromLegacy(*legacy, now)
		log.Info("seeding school profile from legacy record", "school_id", schoolID)
	case errors.As(err, &nf):
		p = models.DefaultSchoolProfile(schoolID, "", now)
	default:
		return nil, err
	}

	if err := s.store.Create(ctx, p); err != nil {
		var exists *errs.AlreadyExistsError
		if errors.As(err, &exists) {
			// created concurrently
			return s.store.Get(ctx, schoolID)
		}
		log.Error("failed to create school profile", "school_id", schoolID, "error", err)
		return nil, err
	}
	return p, nil
}

func setString(fields map[string]any, key string, v *string) {
	if v != nil {
		fields[key] = *v
	}
}
