package repository

import (
	"context"
	"errors"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"pawshome/internal/models"
)

var (
	ErrMediaNotFound = errors.New("media item not found")
	ErrMediaLocked   = errors.New("media item locked")
)

type MediaRepository struct {
	pool *pgxpool.Pool
}

func NewMediaRepository(pool *pgxpool.Pool) *MediaRepository {
	return &MediaRepository{pool: pool}
}

const mediaColumns = `
	id, uploaded_by, object_key, file_name, format, size_bytes,
	deleted, deleted_at, deleted_by, locked, locked_reason, locked_at, locked_by,
	created_at, updated_at
`

func (r *MediaRepository) Create(ctx context.Context, item models.MediaItem) error {
	const query = `
		INSERT INTO media_items (
			id, uploaded_by, object_key, file_name, format, size_bytes, created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		item.ID,
		item.UploadedBy,
		item.ObjectKey,
		item.FileName,
		item.Format,
		item.SizeBytes,
	)
	return err
}

func (r *MediaRepository) GetByID(ctx context.Context, id string) (models.MediaItem, error) {
	const query = `SELECT ` + mediaColumns + ` FROM media_items WHERE id = $1`

	item, err := scanMedia(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.MediaItem{}, ErrMediaNotFound
		}
		return models.MediaItem{}, err
	}
	return item, nil
}

func (r *MediaRepository) List(ctx context.Context, includeTrashed bool, limit, offset int) ([]models.MediaItem, error) {
	query := `SELECT ` + mediaColumns + ` FROM media_items`
	if !includeTrashed {
		query += ` WHERE deleted = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MediaItem
	for rows.Next() {
		item, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MediaRepository) GetByIDs(ctx context.Context, ids []string) ([]models.MediaItem, error) {
	const query = `SELECT ` + mediaColumns + ` FROM media_items WHERE id = ANY($1)`

	rows, err := r.pool.Query(ctx, query, ids)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MediaItem
	for rows.Next() {
		item, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func (r *MediaRepository) Stats(ctx context.Context) (models.MediaStats, error) {
	const query = `
		SELECT COUNT(*),
		       COALESCE(SUM(size_bytes), 0),
		       COUNT(*) FILTER (WHERE deleted),
		       COUNT(*) FILTER (WHERE locked)
		FROM media_items
	`

	row := r.pool.QueryRow(ctx, query)
	var stats models.MediaStats
	if err := row.Scan(&stats.Total, &stats.TotalBytes, &stats.TrashedCount, &stats.LockedCount); err != nil {
		return models.MediaStats{}, err
	}
	return stats, nil
}

func (r *MediaRepository) SetTrashed(ctx context.Context, id string, by string) error {
	const query = `
		UPDATE media_items
		SET deleted = true, deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
		WHERE id = $1 AND locked = false
	`
	cmd, err := r.pool.Exec(ctx, query, id, by)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMediaLocked
	}
	return nil
}

func (r *MediaRepository) ClearTrashed(ctx context.Context, id string) error {
	const query = `
		UPDATE media_items
		SET deleted = false, deleted_at = NULL, deleted_by = NULL, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMediaNotFound
	}
	return nil
}

func (r *MediaRepository) SetLocked(ctx context.Context, id string, reason string, by string) error {
	const query = `
		UPDATE media_items
		SET locked = true, locked_reason = $2, locked_at = NOW(), locked_by = $3, updated_at = NOW()
		WHERE id = $1 AND locked = false
	`
	_, err := r.pool.Exec(ctx, query, id, reason, by)
	return err
}

func (r *MediaRepository) ClearLocked(ctx context.Context, id string) error {
	const query = `
		UPDATE media_items
		SET locked = false, locked_reason = NULL, locked_at = NULL, locked_by = NULL, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMediaNotFound
	}
	return nil
}

func (r *MediaRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM media_items WHERE id = $1 AND locked = false`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrMediaLocked
	}
	return nil
}

func (r *MediaRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.MediaItem, error) {
	const query = `SELECT ` + mediaColumns + `
		FROM media_items
		WHERE deleted = true AND locked = false AND deleted_at < $1
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var items []models.MediaItem
	for rows.Next() {
		item, err := scanMedia(rows)
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	return items, rows.Err()
}

func scanMedia(row pgx.Row) (models.MediaItem, error) {
	var item models.MediaItem
	err := row.Scan(
		&item.ID,
		&item.UploadedBy,
		&item.ObjectKey,
		&item.FileName,
		&item.Format,
		&item.SizeBytes,
		&item.Deleted,
		&item.DeletedAt,
		&item.DeletedBy,
		&item.Locked,
		&item.LockedReason,
		&item.LockedAt,
		&item.LockedBy,
		&item.CreatedAt,
		&item.UpdatedAt,
	)
	return item, err
}
