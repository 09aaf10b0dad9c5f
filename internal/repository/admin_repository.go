package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"
)

// AdminRepository backs the second step of the admin gate: membership in the
// admins table, keyed by user id.
type AdminRepository struct {
	pool *pgxpool.Pool
}

func NewAdminRepository(pool *pgxpool.Pool) *AdminRepository {
	return &AdminRepository{pool: pool}
}

func (r *AdminRepository) Exists(ctx context.Context, uid string) (bool, error) {
	const query = `SELECT EXISTS (SELECT 1 FROM admins WHERE uid = $1)`
	row := r.pool.QueryRow(ctx, query, uid)
	var exists bool
	if err := row.Scan(&exists); err != nil {
		return false, err
	}
	return exists, nil
}

func (r *AdminRepository) Add(ctx context.Context, uid string, grantedBy string) error {
	const query = `
		INSERT INTO admins (uid, granted_by, granted_at)
		VALUES ($1, $2, NOW())
		ON CONFLICT (uid) DO NOTHING
	`
	_, err := r.pool.Exec(ctx, query, uid, grantedBy)
	return err
}

func (r *AdminRepository) Remove(ctx context.Context, uid string) error {
	const query = `DELETE FROM admins WHERE uid = $1`
	_, err := r.pool.Exec(ctx, query, uid)
	return err
}
