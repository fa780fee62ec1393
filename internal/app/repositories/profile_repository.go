package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
	"github.com/clicksapp/clicks/internal/pkg/dberrors"
)

// ProfileRepository handles database operations for user profiles
type ProfileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewProfileRepository creates a new ProfileRepository
func NewProfileRepository(db *pgxpool.Pool) *ProfileRepository {
	return &ProfileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// FindByUserID retrieves a profile with its avatar file, if any
func (r *ProfileRepository) FindByUserID(ctx context.Context, userID int64) (*models.Profile, error) {
	query := `
		SELECT
			p.user_id, p.display_name, p.username, p.bio, p.location,
			p.website, p.twitter, p.instagram, p.avatar_file_id,
			p.created_at, p.updated_at,
			f.id, f.file_name, f.file_path, f.file_url, f.file_size, f.file_type
		FROM profiles p
		LEFT JOIN files f ON f.id = p.avatar_file_id
		WHERE p.user_id = $1
	`

	var profile models.Profile
	var fileID *int64
	var fileName, filePath, fileURL, fileType *string
	var fileSize *int64

	err := r.db.QueryRow(ctx, query, userID).Scan(
		&profile.UserID,
		&profile.DisplayName,
		&profile.Username,
		&profile.Bio,
		&profile.Location,
		&profile.Website,
		&profile.Twitter,
		&profile.Instagram,
		&profile.AvatarFileID,
		&profile.CreatedAt,
		&profile.UpdatedAt,
		&fileID,
		&fileName,
		&filePath,
		&fileURL,
		&fileSize,
		&fileType,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving profile: %w", err)
	}

	if fileID != nil {
		profile.AvatarFile = &models.File{
			ID:       *fileID,
			FileName: derefString(fileName),
			FilePath: derefString(filePath),
			FileURL:  derefString(fileURL),
			FileSize: derefInt64(fileSize),
			FileType: derefString(fileType),
		}
	}

	return &profile, nil
}

// Update writes the full profile form. Nil pointer fields clear the
// corresponding column to NULL.
func (r *ProfileRepository) Update(ctx context.Context, profile *models.Profile) error {
	sql, args, err := r.sb.Update("profiles").
		Set("display_name", profile.DisplayName).
		Set("username", profile.Username).
		Set("bio", profile.Bio).
		Set("location", profile.Location).
		Set("website", profile.Website).
		Set("twitter", profile.Twitter).
		Set("instagram", profile.Instagram).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": profile.UserID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		if dberrors.IsDuplicateConstraintError(err, "profiles_username_key") {
			return apperrors.ErrUsernameTaken
		}
		return fmt.Errorf("error updating profile: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// UpdateAvatar points the profile at a new avatar file
func (r *ProfileRepository) UpdateAvatar(ctx context.Context, userID int64, fileID int64) error {
	sql, args, err := r.sb.Update("profiles").
		Set("avatar_file_id", fileID).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating avatar: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// UsernameExists checks whether a username is taken by another user
func (r *ProfileRepository) UsernameExists(ctx context.Context, username string, excludeUserID int64) (bool, error) {
	sql, args, err := r.sb.Select("1").
		From("profiles").
		Where(squirrel.Eq{"username": username}).
		Where(squirrel.NotEq{"user_id": excludeUserID}).
		Limit(1).
		ToSql()
	if err != nil {
		return false, fmt.Errorf("error building SQL: %w", err)
	}

	var exists int
	err = r.db.QueryRow(ctx, sql, args...).Scan(&exists)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return false, nil
		}
		return false, fmt.Errorf("error executing query: %w", err)
	}

	return true, nil
}

func derefString(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

func derefInt64(i *int64) int64 {
	if i == nil {
		return 0
	}
	return *i
}
