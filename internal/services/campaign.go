package services

import (
	"context"
	"errors"
	"sort"
	"strings"
	"sync"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/pkg/helpers"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type campaignCSStore interface {
	Create(ctx context.Context, doc *models.CampaignDocument) (string, error)
	Get(ctx context.Context, id string) (*models.RawDocument, error)
	List(ctx context.Context, ownerID string) ([]models.RawDocument, error)
	Watch(ctx context.Context, ownerID string, handle func([]models.RawDocument) error) error
	Update(ctx context.Context, id string, fields map[string]any) error
	Delete(ctx context.Context, id string) error
}

// schoolLocator resolves a school id to its display location.
type schoolLocator interface {
	Location(ctx context.Context, schoolID string) (models.SchoolLocation, error)
}

type locationCache interface {
	Get(schoolID string) (models.SchoolLocation, bool)
	Add(schoolID string, loc models.SchoolLocation)
}

type ownerResolver interface {
	OwnerSchoolID(ctx context.Context, uid string) (string, error)
}

const locationLookupConcurrency = 8

type campaignService struct {
	store    campaignCSStore
	schools  schoolLocator
	cache    locationCache
	owners   ownerResolver
	currency string
	duration time.Duration
	clockNow func() time.Time
}

func NewCampaignService(store campaignCSStore, schools schoolLocator, cache locationCache, owners ownerResolver, currency string, duration time.Duration) *campaignService {
	if currency == "" {
		currency = models.DefaultCurrency
	}
	return &campaignService{
		store:    store,
		schools:  schools,
		cache:    cache,
		owners:   owners,
		currency: strings.ToUpper(currency),
		duration: duration,
		clockNow: time.Now,
	}
}

// Subscribe delivers the full, normalized campaign set on every change until ctx
// is cancelled or deliver returns an error. An empty ownerID means all campaigns.
func (s *campaignService) Subscribe(ctx context.Context, ownerID string, deliver func([]models.Campaign) error) error {
	log := logger.FromContext(ctx)
	log.Info("campaign subscription started", "owner_id", ownerID)

	err := s.store.Watch(ctx, ownerID, func(docs []models.RawDocument) error {
		return deliver(s.normalize(ctx, ownerID, docs))
	})
	if err != nil {
		log.Error("campaign subscription ended with error", "owner_id", ownerID, "error", err)
		return err
	}

	log.Info("campaign subscription closed", "owner_id", ownerID)
	return nil
}

func (s *campaignService) List(ctx context.Context, ownerID string) ([]models.Campaign, error) {
	docs, err := s.store.List(ctx, ownerID)
	if err != nil {
		logger.FromContext(ctx).Error("failed to list campaigns", "owner_id", ownerID, "error", err)
		return nil, err
	}
	return s.normalize(ctx, ownerID, docs), nil
}

// GetByID returns nil without error when the campaign does not exist.
func (s *campaignService) GetByID(ctx context.Context, id string) (*models.Campaign, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return nil, nil
		}
		logger.FromContext(ctx).Error("failed to get campaign", "campaign_id", id, "error", err)
		return nil, err
	}

	out := s.normalize(ctx, "", []models.RawDocument{*doc})
	return &out[0], nil
}

func (s *campaignService) Create(ctx context.Context, uid string, req dto.CreateCampaignRequest) (*models.Campaign, error) {
	log := logger.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	name, err := resolveName(req.Title, req.Name)
	if err != nil {
		return nil, err
	}

	owner, err := s.owners.OwnerSchoolID(ctx, uid)
	if err != nil {
		return nil, err
	}
	locations := s.resolveLocations(ctx, []string{owner})
	location := models.UnknownLocation
	if loc, ok := locations[owner]; ok && loc.String() != "" {
		location = loc.String()
	}

	currency := strings.ToUpper(req.Currency)
	if currency == "" {
		currency = s.currency
	}
	category := strings.TrimSpace(req.Category)
	if category == "" {
		category = models.DefaultCampaignCategory
	}

	now := s.clockNow().UTC()
	doc := &models.CampaignDocument{
		Name:            strings.TrimSpace(name),
		Description:     req.Description,
		Category:        category,
		DonationTarget:  req.DonationTarget,
		Goal:            req.DonationTarget,
		AmountRaised:    0,
		Status:          string(models.CampaignDraft),
		Currency:        currency,
		MediaURL:        req.MediaURL,
		AdditionalMedia: append([]string{}, req.AdditionalMedia...),
		SchoolID:        owner,
		Location:        location,
		Featured:        req.Featured,
		CreatedAt:       now,
		UpdatedAt:       now,
		StartDate:       now,
		EndDate:         now.Add(s.duration),
	}

	id, err := s.store.Create(ctx, doc)
	if err != nil {
		log.Error("failed to create campaign", "school_id", owner, "error", err)
		return nil, err
	}

	loc := locations[owner]
	campaign := models.CampaignFromDocument(doc.Raw(id), &loc)
	log.Info("campaign created", "campaign_id", id, "school_id", owner)
	return &campaign, nil
}

// Update writes only the supplied fields, enforcing ownership and the status
// lifecycle, and returns the campaign as stored afterwards.
func (s *campaignService) Update(ctx context.Context, uid, id string, req dto.UpdateCampaignRequest) (*models.Campaign, error) {
	log := logger.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return nil, err
	}
	current, err := s.ownedCampaign(ctx, uid, id)
	if err != nil {
		return nil, err
	}

	fields := map[string]any{}
	if req.Title != nil || req.Name != nil {
		name, err := resolveName(helpers.Value(req.Title), helpers.Value(req.Name))
		if err != nil {
			return nil, err
		}
		fields["name"] = strings.TrimSpace(name)
	}
	if req.Description != nil {
		fields["description"] = *req.Description
	}
	if req.Category != nil {
		fields["category"] = *req.Category
	}
	if req.DonationTarget != nil {
		fields["donationTarget"] = *req.DonationTarget
		fields["goal"] = *req.DonationTarget
	}
	if req.MediaURL != nil {
		fields["mediaUrl"] = *req.MediaURL
	}
	if req.AdditionalMedia != nil {
		fields["additionalMedia"] = *req.AdditionalMedia
	}
	if req.Featured != nil {
		fields["featured"] = *req.Featured
	}
	if req.Status != nil {
		next, ok := models.ParseCampaignStatus(*req.Status)
		if !ok {
			return nil, errs.NewValidationError("status must be one of draft, active, completed")
		}
		prev := models.CampaignFromDocument(*current, nil).Status
		if !prev.CanTransitionTo(next) {
			return nil, errs.NewInvalidTransitionError(string(prev), string(next))
		}
		fields["status"] = string(next)
	}

	if len(fields) > 0 {
		fields["updatedAt"] = s.clockNow().UTC()
		if err := s.store.Update(ctx, id, fields); err != nil {
			log.Error("failed to update campaign", "campaign_id", id, "error", err)
			return nil, err
		}
	}

	doc, err := s.store.Get(ctx, id)
	if err != nil {
		log.Error("failed to re-read campaign after update", "campaign_id", id, "error", err)
		return nil, err
	}
	out := s.normalize(ctx, "", []models.RawDocument{*doc})
	log.Info("campaign updated", "campaign_id", id, "fields", len(fields))
	return &out[0], nil
}

// Delete removes the campaign only; payment records are left in place.
// Deleting a campaign that no longer exists succeeds.
func (s *campaignService) Delete(ctx context.Context, uid, id string) error {
	log := logger.FromContext(ctx)

	if _, err := s.ownedCampaign(ctx, uid, id); err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return nil
		}
		return err
	}
	if err := s.store.Delete(ctx, id); err != nil {
		log.Error("failed to delete campaign", "campaign_id", id, "error", err)
		return err
	}
	log.Info("campaign deleted", "campaign_id", id)
	return nil
}

func (s *campaignService) ownedCampaign(ctx context.Context, uid, id string) (*models.RawDocument, error) {
	doc, err := s.store.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	owner, err := s.owners.OwnerSchoolID(ctx, uid)
	if err != nil {
		return nil, err
	}
	if models.CampaignSchoolID(*doc) != owner {
		return nil, errs.NewForbiddenError("campaign belongs to another school")
	}
	return doc, nil
}

// normalize filters to ownerID (when set), joins school locations and sorts by
// creation time, newest first.
func (s *campaignService) normalize(ctx context.Context, ownerID string, docs []models.RawDocument) []models.Campaign {
	kept := make([]models.RawDocument, 0, len(docs))
	ids := make([]string, 0, len(docs))
	seen := map[string]bool{}
	for _, d := range docs {
		schoolID := models.CampaignSchoolID(d)
		if ownerID != "" && schoolID != ownerID {
			continue
		}
		kept = append(kept, d)
		if schoolID != "" && !seen[schoolID] {
			seen[schoolID] = true
			ids = append(ids, schoolID)
		}
	}

	locations := s.resolveLocations(ctx, ids)

	out := make([]models.Campaign, 0, len(kept))
	for _, d := range kept {
		var loc *models.SchoolLocation
		if l, ok := locations[models.CampaignSchoolID(d)]; ok {
			loc = &l
		}
		out = append(out, models.CampaignFromDocument(d, loc))
	}

	sort.SliceStable(out, func(i, j int) bool {
		return out[i].CreatedAt.After(out[j].CreatedAt)
	})
	return out
}

// resolveLocations looks each distinct school up once, through the cache.
// Lookup failures are logged and the school is left out so the campaign's own
// location is used instead.
func (s *campaignService) resolveLocations(ctx context.Context, schoolIDs []string) map[string]models.SchoolLocation {
	out := make(map[string]models.SchoolLocation, len(schoolIDs))
	var missing []string
	for _, id := range schoolIDs {
		if id == "" {
			continue
		}
		if loc, ok := s.cache.Get(id); ok {
			out[id] = loc
			continue
		}
		missing = append(missing, id)
	}
	if len(missing) == 0 {
		return out
	}

	log := logger.FromContext(ctx)
	var mu sync.Mutex
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(locationLookupConcurrency)
	for _, id := range missing {
		g.Go(func() error {
			loc, err := s.schools.Location(gctx, id)
			if err != nil {
				log.Warn("school location lookup failed", "school_id", id, "error", err)
				return nil
			}
			s.cache.Add(id, loc)
			mu.Lock()
			out[id] = loc
			mu.Unlock()
			return nil
		})
	}
	_ = g.Wait()
	return out
}

// resolveName accepts title as an alias for name. Supplying both with
// different values is ambiguous and rejected.
func resolveName(title, name string) (string, error) {
	title, name = strings.TrimSpace(title), strings.TrimSpace(name)
	if title != "" && name != "" && title != name {
		return "", errs.NewValidationError("title and name must match when both are supplied")
	}
	if n := helpers.FirstNonEmpty(name, title); n != "" {
		return n, nil
	}
	return "", errs.NewValidationError("name is required")
}
