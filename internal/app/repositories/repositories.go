package repositories

import (
	"github.com/jackc/pgx/v5/pgxpool"
)

// Repositories bundles all repository instances for dependency injection
type Repositories struct {
	Users       *UserRepository
	Profiles    *ProfileRepository
	Clicks      *ClickRepository
	Memberships *MembershipRepository
	Tokens      *TokenRepository
	Files       *FileRepository
}

// NewRepositories creates all repositories sharing the given connection pool
func NewRepositories(db *pgxpool.Pool) *Repositories {
	return &Repositories{
		Users:       NewUserRepository(db),
		Profiles:    NewProfileRepository(db),
		Clicks:      NewClickRepository(db),
		Memberships: NewMembershipRepository(db),
		Tokens:      NewTokenRepository(db),
		Files:       NewFileRepository(db),
	}
}
