package repositories

import (
	"context"
	"errors"
	"fmt"

	"github.com/Masterminds/squirrel"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/clicksapp/clicks/internal/app/models"
	"github.com/clicksapp/clicks/internal/db"
	"github.com/clicksapp/clicks/internal/pkg/apperrors"
	"github.com/clicksapp/clicks/internal/pkg/dberrors"
)

// ClickRepository handles database operations for clicks
type ClickRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewClickRepository creates a new ClickRepository
func NewClickRepository(db *pgxpool.Pool) *ClickRepository {
	return &ClickRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// errDuplicateRequestID signals that the click's client request id was
// already used by a committed click.
var errDuplicateRequestID = errors.New("duplicate client request id")

// CreateWithAdmin inserts the click and its creator's admin membership in a
// single transaction. If the click's client request id was already used, the
// previously created click is returned instead of a duplicate.
func (r *ClickRepository) CreateWithAdmin(ctx context.Context, click *models.Click) (*models.Click, error) {
	err := db.WithTransaction(ctx, r.db, func(ctx context.Context, tx pgx.Tx) error {
		query := `
			INSERT INTO clicks (name, description, created_by, client_request_id,
				schedule_frequency, schedule_day, schedule_time)
			VALUES ($1, $2, $3, $4, $5, $6, $7)
			RETURNING id, created_at, updated_at
		`

		err := tx.QueryRow(ctx, query,
			click.Name,
			click.Description,
			click.CreatedBy,
			click.ClientRequestID,
			click.ScheduleFrequency,
			click.ScheduleDay,
			click.ScheduleTime,
		).Scan(&click.ID, &click.CreatedAt, &click.UpdatedAt)
		if err != nil {
			if dberrors.IsDuplicateConstraintError(err, "clicks_client_request_id_key") {
				return errDuplicateRequestID
			}
			return fmt.Errorf("error creating click: %w", err)
		}

		_, err = tx.Exec(ctx,
			`INSERT INTO memberships (click_id, user_id, role) VALUES ($1, $2, $3)`,
			click.ID, click.CreatedBy, models.RoleAdmin,
		)
		if err != nil {
			return fmt.Errorf("error creating admin membership: %w", err)
		}

		return nil
	})
	if err != nil {
		if errors.Is(err, errDuplicateRequestID) {
			return r.findByClientRequestID(ctx, *click.ClientRequestID)
		}
		return nil, err
	}

	return click, nil
}

func (r *ClickRepository) findByClientRequestID(ctx context.Context, requestID string) (*models.Click, error) {
	query := clickSelectColumns + `
		FROM clicks c
		WHERE c.client_request_id = $1
	`

	var click models.Click
	err := r.db.QueryRow(ctx, query, requestID).Scan(clickScanTargets(&click)...)
	if err != nil {
		return nil, fmt.Errorf("error retrieving click by request id: %w", err)
	}

	return &click, nil
}

const clickSelectColumns = `
		SELECT c.id, c.name, c.description, c.created_by, c.client_request_id,
			c.schedule_frequency, c.schedule_day, c.schedule_time,
			c.created_at, c.updated_at`

func clickScanTargets(click *models.Click) []interface{} {
	return []interface{}{
		&click.ID,
		&click.Name,
		&click.Description,
		&click.CreatedBy,
		&click.ClientRequestID,
		&click.ScheduleFrequency,
		&click.ScheduleDay,
		&click.ScheduleTime,
		&click.CreatedAt,
		&click.UpdatedAt,
	}
}

// FindByID retrieves a click by ID together with its member count
func (r *ClickRepository) FindByID(ctx context.Context, id int64) (*models.Click, error) {
	query := clickSelectColumns + `,
			(SELECT COUNT(*) FROM memberships m WHERE m.click_id = c.id) AS member_count
		FROM clicks c
		WHERE c.id = $1
	`

	var click models.Click
	targets := append(clickScanTargets(&click), &click.MemberCount)
	err := r.db.QueryRow(ctx, query, id).Scan(targets...)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrClickNotFound
		}
		return nil, fmt.Errorf("error retrieving click: %w", err)
	}

	return &click, nil
}

// FindAllForUser lists the clicks the user belongs to, most recent first.
// The search term matches against the click name, case insensitively.
func (r *ClickRepository) FindAllForUser(ctx context.Context, userID int64, search *string, offset, limit int) ([]*models.Click, int64, error) {
	query := clickSelectColumns + `,
			(SELECT COUNT(*) FROM memberships mc WHERE mc.click_id = c.id) AS member_count,
			COUNT(*) OVER() AS total_count
		FROM clicks c
		JOIN memberships m ON m.click_id = c.id AND m.user_id = $1
	`

	args := []interface{}{userID}
	if search != nil && *search != "" {
		query += ` WHERE c.name ILIKE $2`
		args = append(args, "%"+*search+"%")
	}
	query += fmt.Sprintf(`
		ORDER BY c.created_at DESC
		LIMIT $%d OFFSET $%d
	`, len(args)+1, len(args)+2)
	args = append(args, limit, offset)

	rows, err := r.db.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("error listing clicks: %w", err)
	}
	defer rows.Close()

	var clicks []*models.Click
	var total int64
	for rows.Next() {
		var click models.Click
		targets := append(clickScanTargets(&click), &click.MemberCount, &total)
		if err := rows.Scan(targets...); err != nil {
			return nil, 0, fmt.Errorf("error scanning click: %w", err)
		}
		clicks = append(clicks, &click)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("error iterating clicks: %w", err)
	}

	return clicks, total, nil
}

// Update modifies a click's name, description and schedule
func (r *ClickRepository) Update(ctx context.Context, click *models.Click) error {
	sql, args, err := r.sb.Update("clicks").
		Set("name", click.Name).
		Set("description", click.Description).
		Set("schedule_frequency", click.ScheduleFrequency).
		Set("schedule_day", click.ScheduleDay).
		Set("schedule_time", click.ScheduleTime).
		Set("updated_at", squirrel.Expr("NOW()")).
		Where(squirrel.Eq{"id": click.ID}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error updating click: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrClickNotFound
	}

	return nil
}

// Delete removes a click. Memberships are removed by the foreign key cascade.
func (r *ClickRepository) Delete(ctx context.Context, id int64) error {
	sql, args, err := r.sb.Delete("clicks").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("error building SQL: %w", err)
	}

	result, err := r.db.Exec(ctx, sql, args...)
	if err != nil {
		return fmt.Errorf("error deleting click: %w", err)
	}
	if result.RowsAffected() == 0 {
		return apperrors.ErrClickNotFound
	}

	return nil
}
