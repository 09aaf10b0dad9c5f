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
	ErrCatNotFound = errors.New("cat not found")
	ErrCatLocked   = errors.New("cat locked")
)

type CatRepository struct {
	pool *pgxpool.Pool
}

func NewCatRepository(pool *pgxpool.Pool) *CatRepository {
	return &CatRepository{pool: pool}
}

const catColumns = `
	id, name, breed, age_months, sex, description, status, featured, photo_ids,
	deleted, deleted_at, deleted_by, locked, locked_reason, locked_at, locked_by,
	created_at, updated_at
`

func (r *CatRepository) Create(ctx context.Context, cat models.Cat) error {
	const query = `
		INSERT INTO cats (
			id, name, breed, age_months, sex, description, status, featured, photo_ids,
			created_at, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, NOW(), NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		cat.ID,
		cat.Name,
		cat.Breed,
		cat.AgeMonths,
		cat.Sex,
		cat.Description,
		cat.Status,
		cat.Featured,
		cat.PhotoIDs,
	)
	return err
}

func (r *CatRepository) Update(ctx context.Context, cat models.Cat) error {
	const query = `
		UPDATE cats
		SET name = $2, breed = $3, age_months = $4, sex = $5, description = $6,
		    status = $7, featured = $8, photo_ids = $9, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query,
		cat.ID,
		cat.Name,
		cat.Breed,
		cat.AgeMonths,
		cat.Sex,
		cat.Description,
		cat.Status,
		cat.Featured,
		cat.PhotoIDs,
	)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCatNotFound
	}
	return nil
}

func (r *CatRepository) GetByID(ctx context.Context, id string) (models.Cat, error) {
	const query = `SELECT ` + catColumns + ` FROM cats WHERE id = $1`

	cat, err := scanCat(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return models.Cat{}, ErrCatNotFound
		}
		return models.Cat{}, err
	}
	return cat, nil
}

func (r *CatRepository) List(ctx context.Context, includeTrashed bool, limit, offset int) ([]models.Cat, error) {
	query := `SELECT ` + catColumns + ` FROM cats`
	if !includeTrashed {
		query += ` WHERE deleted = false`
	}
	query += ` ORDER BY created_at DESC LIMIT $1 OFFSET $2`

	rows, err := r.pool.Query(ctx, query, limit, offset)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Cat
	for rows.Next() {
		cat, err := scanCat(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

// SetTrashed flips the soft-delete flag. The locked guard sits in the
// predicate so a concurrent lock cannot be overwritten by a stale trash.
func (r *CatRepository) SetTrashed(ctx context.Context, id string, by string) error {
	const query = `
		UPDATE cats
		SET deleted = true, deleted_at = NOW(), deleted_by = $2, updated_at = NOW()
		WHERE id = $1 AND locked = false
	`
	cmd, err := r.pool.Exec(ctx, query, id, by)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCatLocked
	}
	return nil
}

func (r *CatRepository) ClearTrashed(ctx context.Context, id string) error {
	const query = `
		UPDATE cats
		SET deleted = false, deleted_at = NULL, deleted_by = NULL, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCatNotFound
	}
	return nil
}

func (r *CatRepository) SetLocked(ctx context.Context, id string, reason string, by string) error {
	const query = `
		UPDATE cats
		SET locked = true, locked_reason = $2, locked_at = NOW(), locked_by = $3, updated_at = NOW()
		WHERE id = $1 AND locked = false
	`
	_, err := r.pool.Exec(ctx, query, id, reason, by)
	return err
}

func (r *CatRepository) ClearLocked(ctx context.Context, id string) error {
	const query = `
		UPDATE cats
		SET locked = false, locked_reason = NULL, locked_at = NULL, locked_by = NULL, updated_at = NOW()
		WHERE id = $1
	`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCatNotFound
	}
	return nil
}

func (r *CatRepository) Delete(ctx context.Context, id string) error {
	const query = `DELETE FROM cats WHERE id = $1 AND locked = false`
	cmd, err := r.pool.Exec(ctx, query, id)
	if err != nil {
		return err
	}
	if cmd.RowsAffected() == 0 {
		return ErrCatLocked
	}
	return nil
}

// ListTrashedBefore feeds the retention purge: unlocked records whose trash
// timestamp is older than the cutoff.
func (r *CatRepository) ListTrashedBefore(ctx context.Context, cutoff time.Time) ([]models.Cat, error) {
	const query = `SELECT ` + catColumns + `
		FROM cats
		WHERE deleted = true AND locked = false AND deleted_at < $1
	`

	rows, err := r.pool.Query(ctx, query, cutoff)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var cats []models.Cat
	for rows.Next() {
		cat, err := scanCat(rows)
		if err != nil {
			return nil, err
		}
		cats = append(cats, cat)
	}
	return cats, rows.Err()
}

func scanCat(row pgx.Row) (models.Cat, error) {
	var cat models.Cat
	err := row.Scan(
		&cat.ID,
		&cat.Name,
		&cat.Breed,
		&cat.AgeMonths,
		&cat.Sex,
		&cat.Description,
		&cat.Status,
		&cat.Featured,
		&cat.PhotoIDs,
		&cat.Deleted,
		&cat.DeletedAt,
		&cat.DeletedBy,
		&cat.Locked,
		&cat.LockedReason,
		&cat.LockedAt,
		&cat.LockedBy,
		&cat.CreatedAt,
		&cat.UpdatedAt,
	)
	return cat, err
}
