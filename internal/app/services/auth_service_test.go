package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/app/models/dto"
	"github.com/clicksapp/clicks/internal/app/repositories"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
	"github.com/clicksapp/clicks/internal/pkg/auth"
)

type fakeUserStore struct {
	users  map[int64]*models.User
	nextID int64
}

func newFakeUserStore() *fakeUserStore {
	return &fakeUserStore{users: make(map[int64]*models.User), nextID: 1}
}

func (f *fakeUserStore) Create(ctx context.Context, user *models.User) (int64, error) {
	for _, existing := range f.users {
		if existing.Email == user.Email {
			return 0, apperrors.ErrEmailAlreadyExists
		}
	}
	user.ID = f.nextID
	f.nextID++
	user.CreatedAt = time.Now()
	user.UpdatedAt = user.CreatedAt
	f.users[user.ID] = user
	return user.ID, nil
}

func (f *fakeUserStore) FindByID(ctx context.Context, id int64) (*models.User, error) {
	user, ok := f.users[id]
	if !ok {
		return nil, apperrors.ErrUserNotFound
	}
	return user, nil
}

func (f *fakeUserStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	for _, user := range f.users {
		if user.Email == email {
			return user, nil
		}
	}
	return nil, apperrors.ErrUserNotFound
}

func (f *fakeUserStore) EmailExists(ctx context.Context, email string) (bool, error) {
	_, err := f.FindByEmail(ctx, email)
	if err != nil {
		return false, nil
	}
	return true, nil
}

func (f *fakeUserStore) UpdateLastLogin(ctx context.Context, userID int64) error {
	user, ok := f.users[userID]
	if !ok {
		return apperrors.ErrUserNotFound
	}
	now := time.Now()
	user.LastLoginAt = &now
	return nil
}

type fakeTokenStore struct {
	tokens map[string]*repositories.RefreshToken
	nextID int64
}

func newFakeTokenStore() *fakeTokenStore {
	return &fakeTokenStore{tokens: make(map[string]*repositories.RefreshToken), nextID: 1}
}

func (f *fakeTokenStore) Create(ctx context.Context, userID int64, token string, expiresAt time.Time) error {
	f.tokens[token] = &repositories.RefreshToken{
		ID:        f.nextID,
		UserID:    userID,
		Token:     token,
		ExpiresAt: expiresAt,
		CreatedAt: time.Now(),
	}
	f.nextID++
	return nil
}

func (f *fakeTokenStore) FindByToken(ctx context.Context, token string) (*repositories.RefreshToken, error) {
	rt, ok := f.tokens[token]
	if !ok {
		return nil, apperrors.ErrTokenNotFound
	}
	return rt, nil
}

func (f *fakeTokenStore) Revoke(ctx context.Context, token string) error {
	rt, ok := f.tokens[token]
	if !ok {
		return apperrors.ErrTokenNotFound
	}
	rt.Revoked = true
	return nil
}

func (f *fakeTokenStore) RevokeAllForUser(ctx context.Context, userID int64) error {
	for _, rt := range f.tokens {
		if rt.UserID == userID {
			rt.Revoked = true
		}
	}
	return nil
}

type fakeProfileStore struct {
	profiles  map[int64]*models.Profile
	usernames map[string]int64
}

func newFakeProfileStore() *fakeProfileStore {
	return &fakeProfileStore{
		profiles:  make(map[int64]*models.Profile),
		usernames: make(map[string]int64),
	}
}

func (f *fakeProfileStore) FindByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	profile, ok := f.profiles[userID]
	if !ok {
		return nil, apperrors.ErrResourceNotFound
	}
	return profile, nil
}

func (f *fakeProfileStore) Update(ctx context.Context, profile *models.Profile) error {
	stored, ok := f.profiles[profile.UserID]
	if !ok {
		f.profiles[profile.UserID] = profile
		stored = profile
	}
	stored.DisplayName = profile.DisplayName
	stored.Username = profile.Username
	stored.Bio = profile.Bio
	stored.Location = profile.Location
	stored.Website = profile.Website
	stored.Twitter = profile.Twitter
	stored.Instagram = profile.Instagram
	stored.UpdatedAt = time.Now()
	if profile.Username != nil {
		f.usernames[*profile.Username] = profile.UserID
	}
	return nil
}

func (f *fakeProfileStore) UpdateAvatar(ctx context.Context, userID int64, fileID int64) error {
	profile, ok := f.profiles[userID]
	if !ok {
		profile = &models.Profile{UserID: userID}
		f.profiles[userID] = profile
	}
	profile.AvatarFileID = &fileID
	return nil
}

func (f *fakeProfileStore) UsernameExists(ctx context.Context, username string, excludeUserID int64) (bool, error) {
	owner, ok := f.usernames[username]
	return ok && owner != excludeUserID, nil
}

func newTestAuthService() (AuthService, *fakeUserStore, *fakeTokenStore) {
	users := newFakeUserStore()
	tokens := newFakeTokenStore()
	jwtService := auth.NewJWTService(auth.JWTConfig{
		SecretKey:       "test-secret",
		AccessTokenExp:  time.Hour,
		RefreshTokenExp: 24 * time.Hour,
		TokenIssuer:     "clicks.test",
	})
	svc := NewAuthService(users, newFakeProfileStore(), tokens, jwtService)
	return svc, users, tokens
}

func TestRegister(t *testing.T) {
	ctx := context.Background()

	t.Run("creates account and returns tokens", func(t *testing.T) {
		svc, users, tokens := newTestAuthService()

		resp, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "Alice@Example.com",
			Password: "password123",
		})

		require.NoError(t, err)
		assert.Equal(t, "alice@example.com", resp.User.Email)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.NotEmpty(t, resp.Token.RefreshToken)
		assert.Equal(t, "Bearer", resp.Token.TokenType)
		assert.Len(t, users.users, 1)
		assert.Len(t, tokens.tokens, 1)

		// Stored password must be hashed
		stored := users.users[resp.User.ID]
		assert.NotEqual(t, "password123", stored.Password)
	})

	t.Run("rejects duplicate email", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "alice@example.com", Password: "password123"})
		require.NoError(t, err)

		_, err = svc.Register(ctx, &dto.RegisterRequest{Email: "alice@example.com", Password: "password123"})
		assert.ErrorIs(t, err, apperrors.ErrEmailAlreadyExists)
	})

	t.Run("rejects short password", func(t *testing.T) {
		svc, users, _ := newTestAuthService()

		_, err := svc.Register(ctx, &dto.RegisterRequest{Email: "alice@example.com", Password: "short"})

		var verr *apperrors.ValidationError
		require.ErrorAs(t, err, &verr)
		assert.Contains(t, verr.Fields, "password")
		assert.Empty(t, users.users)
	})
}

func TestLogin(t *testing.T) {
	ctx := context.Background()

	register := func(t *testing.T, svc AuthService) *dto.AuthResponse {
		t.Helper()
		resp, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)
		return resp
	}

	t.Run("valid credentials succeed", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		register(t, svc)

		resp, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "password123"})

		require.NoError(t, err)
		assert.NotEmpty(t, resp.Token.AccessToken)
		assert.NotNil(t, users.users[resp.User.ID].LastLoginAt)
	})

	t.Run("wrong password is rejected", func(t *testing.T) {
		svc, _, _ := newTestAuthService()
		register(t, svc)

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "wrong-password"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("unknown email gets the same error as wrong password", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "nobody@example.com", Password: "password123"})

		assert.ErrorIs(t, err, apperrors.ErrInvalidCredentials)
	})

	t.Run("disabled account is rejected", func(t *testing.T) {
		svc, users, _ := newTestAuthService()
		registered := register(t, svc)
		users.users[registered.User.ID].IsActive = false

		_, err := svc.Login(ctx, &dto.LoginRequest{Email: "alice@example.com", Password: "password123"})

		assert.ErrorIs(t, err, apperrors.ErrAccountDisabled)
	})
}

func TestRefreshToken(t *testing.T) {
	ctx := context.Background()

	t.Run("valid token yields a new pair and revokes the old", func(t *testing.T) {
		svc, _, tokens := newTestAuthService()
		registered, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		resp, err := svc.RefreshToken(ctx, registered.Token.RefreshToken)

		require.NoError(t, err)
		assert.NotEqual(t, registered.Token.RefreshToken, resp.RefreshToken)
		assert.True(t, tokens.tokens[registered.Token.RefreshToken].Revoked)
	})

	t.Run("revoked token is rejected", func(t *testing.T) {
		svc, _, _ := newTestAuthService()
		registered, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		require.NoError(t, svc.Logout(ctx, registered.Token.RefreshToken))

		_, err = svc.RefreshToken(ctx, registered.Token.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenRevoked)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		svc, _, tokens := newTestAuthService()
		registered, err := svc.Register(ctx, &dto.RegisterRequest{
			Email:    "alice@example.com",
			Password: "password123",
		})
		require.NoError(t, err)

		tokens.tokens[registered.Token.RefreshToken].ExpiresAt = time.Now().Add(-time.Minute)

		_, err = svc.RefreshToken(ctx, registered.Token.RefreshToken)
		assert.ErrorIs(t, err, apperrors.ErrTokenExpired)
	})

	t.Run("unknown token is rejected", func(t *testing.T) {
		svc, _, _ := newTestAuthService()

		_, err := svc.RefreshToken(ctx, "not-a-token")

		assert.ErrorIs(t, err, apperrors.ErrTokenInvalid)
	})
}
