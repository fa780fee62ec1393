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

// FileRepository handles database operations for uploaded files
type FileRepository struct {
	db *pgxpool.Pool
	sb squirrel.StatementBuilderType
}

// NewFileRepository creates a new FileRepository
func NewFileRepository(db *pgxpool.Pool) *FileRepository {
	return &FileRepository{
		db: db,
		sb: squirrel.StatementBuilder.PlaceholderFormat(squirrel.Dollar),
	}
}

// Create records an uploaded file
func (r *FileRepository) Create(ctx context.Context, file *models.File) (int64, error) {
	sql, args, err := r.sb.Insert("files").
		Columns("file_name", "file_path", "file_url", "file_size", "file_type", "uploaded_by").
		Values(file.FileName, file.FilePath, file.FileURL, file.FileSize, file.FileType, file.UploadedBy).
		Suffix("RETURNING id, created_at, updated_at").
		ToSql()
	if err != nil {
		return 0, fmt.Errorf("error building SQL: %w", err)
	}

	err = r.db.QueryRow(ctx, sql, args...).Scan(&file.ID, &file.CreatedAt, &file.UpdatedAt)
	if err != nil {
		return 0, fmt.Errorf("error creating file record: %w", err)
	}

	return file.ID, nil
}

// FindByID retrieves a file record by ID
func (r *FileRepository) FindByID(ctx context.Context, id int64) (*models.File, error) {
	sql, args, err := r.sb.Select("id", "file_name", "file_path", "file_url", "file_size", "file_type", "uploaded_by", "created_at", "updated_at").
		From("files").
		Where(squirrel.Eq{"id": id}).
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("error building SQL: %w", err)
	}

	var file models.File
	err = r.db.QueryRow(ctx, sql, args...).Scan(
		&file.ID, &file.FileName, &file.FilePath, &file.FileURL,
		&file.FileSize, &file.FileType, &file.UploadedBy,
		&file.CreatedAt, &file.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.ErrResourceNotFound
		}
		return nil, fmt.Errorf("error retrieving file: %w", err)
	}

	return &file, nil
}
