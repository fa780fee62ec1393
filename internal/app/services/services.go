// Package services contains the application's business logic. Each service
// depends on narrow store interfaces so persistence can be swapped in tests.
package services

import (
	clickauth "github.com/clicksapp/clicks/internal/app/auth"
	"github.com/clicksapp/clicks/internal/app/repositories"
	"github.com/clicksapp/clicks/internal/pkg/auth"
	"github.com/clicksapp/clicks/internal/pkg/filestorage"
)

// Services bundles all service instances for dependency injection
type Services struct {
	Auth     AuthService
	Clicks   ClickService
	Profiles ProfileService
}

// NewServices wires all services to the concrete repositories
func NewServices(repos *repositories.Repositories, jwtService *auth.JWTService, storage filestorage.FileStorage) *Services {
	authz := clickauth.NewAuthorizationService(repos.Memberships)

	return &Services{
		Auth:     NewAuthService(repos.Users, repos.Profiles, repos.Tokens, jwtService),
		Clicks:   NewClickService(repos.Clicks, repos.Memberships, authz),
		Profiles: NewProfileService(repos.Profiles, repos.Files, storage),
	}
}
