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
)

// MembershipRepository handles database operations for click memberships
type MembershipRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewMembershipRepository creates a new MembershipRepository
func NewMembershipRepository(db *pgxpool.Pool) *MembershipRepository {
	return &MembershipRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// AddMembers inserts member rows for the given users. Users that already
// belong to the click are skipped. Returns the number of rows inserted.
func (r *MembershipRepository) AddMembers(ctx context.Context, clickID int64, userIDs []int64, role models.MembershipRole) (int64, error) {
	if len(userIDs) == 0 {
		return 0, nil
	}

	builder := r.sb.Insert("memberships").
		Columns("click_id", "user_id", "role")
	for _, userID := range userIDs {
		builder = builder.Values(clickID, userID, role)
	}
	sql, args, err := builder.
		Suffix("ON CONFLICT (click_id, user_id) DO NOTHING").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return 0, fmt.Errorf("error adding members: %w", err)
	}

	return result.RowsAffected(), nil
}

// FindByClickID lists a click's members with their profile basics,
// admins first, then by join time.
func (r *MembershipRepository) FindByClickID(ctx context.Context, clickID int64) ([]*models.Membership, error) {
	query := `
		SELECT
			m.id, m.click_id, m.user_id, m.role, m.joined_at,
			u.email,
			p.display_name, p.username,
			f.file_url
		FROM memberships m
		JOIN users u ON u.id = m.user_id
		LEFT JOIN profiles p ON p.user_id = m.user_id
		LEFT JOIN files f ON f.id = p.avatar_file_id
		WHERE m.click_id = $1
		ORDER BY (m.role = 'admin') DESC, m.joined_at ASC
	`

	rows, err := r.db.Query(ctx, query, clickID)
	if err != nil {
		return nil, fmt.Errorf("error listing members: %w", err)
	}
	defer rows.Close()

	var members []*models.Membership
	for rows.Next() {
		var m models.Membership
		var email string
		var displayName, username, avatarURL *string
		err := rows.Scan(
			&m.ID, &m.ClickID, &m.UserID, &m.Role, &m.JoinedAt,
			&email, &displayName, &username, &avatarURL,
		)
		if err != nil {
			return nil, fmt.Errorf("error scanning member: %w", err)
		}
		m.User = &models.User{ID: m.UserID, Email: email}
		m.Profile = &models.Profile{
			UserID:      m.UserID,
			DisplayName: displayName,
			Username:    username,
		}
		if avatarURL != nil {
			m.Profile.AvatarFile = &models.File{FileURL: *avatarURL}
		}
		members = append(members, &m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating members: %w", err)
	}

	return members, nil
}

// FindRole returns the user's role in the click, or false if not a member
func (r *MembershipRepository) FindRole(ctx context.Context, clickID, userID int64) (models.MembershipRole, bool, error) {
	sql, args, err := r.sb.Select("role").
		From("memberships").
		Where(squirrel.Eq{"click_id": clickID, "user_id": userID}).
		ToSql()
	if err != nil {
		return "", false, fmt.Errorf("error building SQL: %w", err)
	}

	var role models.MembershipRole
	err = r.db.QueryRow(ctx, sql, args...).Scan(&role)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return "", false, nil
		}
		return "", false, fmt.Errorf("error retrieving role: %w", err)
	}

	return role, true, nil
}

// CountAdmins returns the number of admins in a click
func (r *MembershipRepository) CountAdmins(ctx context.Context, clickID int64) (int, error) {
	sql, args, err := r.sb.Select("COUNT(*)").
		From("memberships").
		Where(squirrel.Eq{"click_id": clickID, "role": models.RoleAdmin}).
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	var count int
	if err := r.db.QueryRow(ctx, sql, args...).Scan(&count); err != nil {
		return 0, fmt.Errorf("error counting admins: %w", err)
	}

	return count, nil
}

// Remove deletes a user's membership from a click
func (r *MembershipRepository) Remove(ctx context.Context, clickID, userID int64) error {
	sql, args, err := r.sb.Delete("memberships").
		Where(squirrel.Eq{"click_id": clickID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error removing member: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}

// UpdateRole changes a member's role within a click
func (r *MembershipRepository) UpdateRole(ctx context.Context, clickID, userID int64, role models.MembershipRole) error {
	sql, args, err := r.sb.Update("memberships").
		Set("role", role).
		Where(squirrel.Eq{"click_id": clickID, "user_id": userID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating role: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrResourceNotFound
	}

	return nil
}
