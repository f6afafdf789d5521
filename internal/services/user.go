package services

import (
	"context"
	"errors"
	"strings"
	"time"

	"firebase.google.com/go/v4/auth"

	"github.com/GregMSThompson/schoolfund-backend/internal/dto"
	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
	"github.com/GregMSThompson/schoolfund-backend/pkg/helpers"
	"github.com/GregMSThompson/schoolfund-backend/pkg/logger"
)

type userUSStore interface {
	CreateUser(ctx context.Context, user *models.User) error
	GetUser(ctx context.Context, uid string) (*models.User, error)
}

// identityProvider is satisfied by *auth.Client.
type identityProvider interface {
	GetUser(ctx context.Context, uid string) (*auth.UserRecord, error)
}

type userService struct {
	Store    userUSStore
	Identity identityProvider
	clockNow func() time.Time
}

func NewUserService(store userUSStore, identity identityProvider) *userService {
	return &userService{
		Store:    store,
		Identity: identity,
		clockNow: time.Now,
	}
}

// Register mirrors the identity provider's record for uid into users/{uid}.
func (s *userService) Register(ctx context.Context, uid string, req dto.RegisterRequest) (*models.User, error) {
	// Get logger from context - already has uid, request_id, method, path
	log := logger.FromContext(ctx)

	if err := validateStruct(req); err != nil {
		return nil, err
	}

	// An account only ever manages the school keyed by its own uid.
	schoolID := helpers.FirstNonEmpty(strings.TrimSpace(req.SchoolID), uid)
	if schoolID != uid {
		log.Warn("registration for another school rejected", "school_id", schoolID)
		return nil, errs.NewForbiddenError("schoolId must match the authenticated account")
	}

	record, err := s.Identity.GetUser(ctx, uid)
	if err != nil {
		log.Error("failed to read identity record", "error", err)
		return nil, errs.NewExternalServiceError("firebase", "failed to read account", false, err)
	}

	now := s.clockNow().UTC()
	user := &models.User{
		UID:         uid,
		Email:       record.Email,
		DisplayName: helpers.FirstNonEmpty(strings.TrimSpace(req.DisplayName), record.DisplayName),
		Role:        helpers.FirstNonEmpty(strings.TrimSpace(req.Role), models.DefaultRole),
		SchoolID:    schoolID,
		CreatedAt:   now,
		UpdatedAt:   now,
	}

	if err := s.Store.CreateUser(ctx, user); err != nil {
		log.Error("failed to create user in store", "error", err)
		return nil, err
	}

	log.Info("user registered", "school_id", user.SchoolID, "role", user.Role)
	log.Debug("user registered with full details", "user", user)
	return user, nil
}

func (s *userService) Me(ctx context.Context, uid string) (*models.User, error) {
	user, err := s.Store.GetUser(ctx, uid)
	if err != nil {
		logger.FromContext(ctx).Warn("failed to load user", "error", err)
		return nil, err
	}
	return user, nil
}

// OwnerSchoolID returns the school uid acts for. Unregistered accounts act for
// the school keyed by their own uid.
func (s *userService) OwnerSchoolID(ctx context.Context, uid string) (string, error) {
	if uid == "" {
		return "", errs.NewForbiddenError("authentication required")
	}
	user, err := s.Store.GetUser(ctx, uid)
	if err != nil {
		var nf *errs.NotFoundError
		if errors.As(err, &nf) {
			return uid, nil
		}
		return "", err
	}
	return user.OwnerSchoolID(), nil
}
