package store

import (
	"context"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/GregMSThompson/schoolfund-backend/internal/errs"
	"github.com/GregMSThompson/schoolfund-backend/internal/models"
)

type userStore struct {
	client *firestore.Client
}

func NewUserStore(client *firestore.Client) *userStore {
	return &userStore{client: client}
}

func (s *userStore) doc(uid string) *firestore.DocumentRef {
	return s.client.Collection("users").Doc(uid)
}

// CreateUser writes users/{uid} once; a second registration is AlreadyExists.
func (s *userStore) CreateUser(ctx context.Context, user *models.User) error {
	_, err := s.doc(user.UID).Create(ctx, user)
	switch {
	case err == nil:
		return nil
	case status.Code(err) == codes.AlreadyExists:
		return errs.NewAlreadyExistsError("user already registered")
	default:
		return errs.NewDatabaseError("create", "failed to create user", err)
	}
}

func (s *userStore) GetUser(ctx context.Context, uid string) (*models.User, error) {
	snap, err := s.doc(uid).Get(ctx)
	if status.Code(err) == codes.NotFound {
		return nil, errs.NewNotFoundError("user not found")
	}
	if err != nil {
		return nil, errs.NewDatabaseError("read", "failed to get user", err)
	}

	user := new(models.User)
	if err := snap.DataTo(user); err != nil {
		return nil, errs.NewDatabaseError("read", "failed to parse user", err)
	}
	// documents written by older clients carry no uid field
	if user.UID == "" {
		user.UID = snap.Ref.ID
	}
	return user, nil
}
