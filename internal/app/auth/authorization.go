// Package auth provides click-level authorization checks used by services.
package auth

import (
	"context"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
)

// RoleFinder looks up a user's role within a click
type RoleFinder interface {
	FindRole(ctx context.Context, clickID, userID int64) (models.MembershipRole, bool, error)
}

// AuthorizationService answers membership and admin questions for clicks
type AuthorizationService struct {
	roles RoleFinder
}

// NewAuthorizationService creates a new AuthorizationService
func NewAuthorizationService(roles RoleFinder) *AuthorizationService {
	return &AuthorizationService{roles: roles}
}

// RequireMember returns the user's role, or ErrPermissionDenied when the
// user does not belong to the click.
func (s *AuthorizationService) RequireMember(ctx context.Context, clickID, userID int64) (models.MembershipRole, error) {
	role, ok, err := s.roles.FindRole(ctx, clickID, userID)
	if err != nil {
		return "", err
	}
	if !ok {
		return "", apperrors.ErrPermissionDenied
	}
	return role, nil
}

// RequireAdmin returns ErrPermissionDenied unless the user is an admin of
// the click.
func (s *AuthorizationService) RequireAdmin(ctx context.Context, clickID, userID int64) error {
	role, err := s.RequireMember(ctx, clickID, userID)
	if err != nil {
		return err
	}
	if role != models.RoleAdmin {
		return apperrors.ErrPermissionDenied
	}
	return nil
}
