package users

import (
	"context"
	"fmt"

	pkgerrors "github.com/angelmondragon/storefront-backend/pkg/errors"
	"github.com/angelmondragon/storefront-backend/pkg/logger"
	"github.com/google/uuid"
)

// Service exposes the admin user operations.
type Service interface {
	Delete(ctx context.Context, actorID, userID uuid.UUID) error
}

type service struct {
	repo *Repository
	logg *logger.Logger
}

// NewService constructs the users service.
func NewService(repo *Repository, logg *logger.Logger) (Service, error) {
	if repo == nil {
		return nil, fmt.Errorf("users repository required")
	}
	if logg == nil {
		return nil, fmt.Errorf("logger required")
	}
	return &service{repo: repo, logg: logg}, nil
}

// Delete removes a user and everything they own. Admins cannot delete themselves.
func (s *service) Delete(ctx context.Context, actorID, userID uuid.UUID) error {
	if userID == uuid.Nil {
		return pkgerrors.New(pkgerrors.CodeValidation, "user id is required")
	}
	if actorID == userID {
		return pkgerrors.New(pkgerrors.CodeValidation, "admins cannot delete their own account")
	}
	removed, err := s.repo.Delete(ctx, userID)
	if err != nil {
		return pkgerrors.Wrap(pkgerrors.CodeDependency, err, "delete user")
	}
	if !removed {
		return pkgerrors.New(pkgerrors.CodeNotFound, "user not found")
	}
	s.logg.Info(s.logg.WithField(ctx, "deleted_user_id", userID.String()), "user.deleted")
	return nil
}
