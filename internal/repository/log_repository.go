package repository

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5/pgxpool"

	"pawshome/internal/models"
)

type LogRepository struct {
	pool *pgxpool.Pool
}

func NewLogRepository(pool *pgxpool.Pool) *LogRepository {
	return &LogRepository{pool: pool}
}

func (r *LogRepository) Insert(ctx context.Context, entry models.LogEntry) error {
	const query = `
		INSERT INTO activity_logs (
			id, level, actor, action, entity, entity_id, detail, archived, created_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, false, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		entry.ID,
		entry.Level,
		entry.Actor,
		entry.Action,
		entry.Entity,
		entry.EntityID,
		entry.Detail,
	)
	return err
}

func (r *LogRepository) List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	var (
		conds []string
		args  []any
	)

	add := func(cond string, value any) {
		args = append(args, value)
		conds = append(conds, fmt.Sprintf(cond, len(args)))
	}

	if filter.Level != "" {
		add("level = $%d", filter.Level)
	}
	if filter.Action != "" {
		add("action = $%d", filter.Action)
	}
	if filter.Entity != "" {
		add("entity = $%d", filter.Entity)
	}
	if filter.Archived != nil {
		add("archived = $%d", *filter.Archived)
	}
	if filter.Before != nil {
		add("created_at < $%d", *filter.Before)
	}

	query := `
		SELECT id, level, actor, action, entity, entity_id, detail, archived, created_at
		FROM activity_logs
	`
	if len(conds) > 0 {
		query += " WHERE " + strings.Join(conds, " AND ")
	}

	limit := filter.Limit
	if limit <= 0 || limit > 500 {
		limit = 100
	}
	args = append(args, limit)
	query += fmt.Sprintf(" ORDER BY created_at DESC LIMIT $%d", len(args))
	args = append(args, filter.Offset)
	query += fmt.Sprintf(" OFFSET $%d", len(args))

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var entries []models.LogEntry
	for rows.Next() {
		var entry models.LogEntry
		if err := rows.Scan(
			&entry.ID,
			&entry.Level,
			&entry.Actor,
			&entry.Action,
			&entry.Entity,
			&entry.EntityID,
			&entry.Detail,
			&entry.Archived,
			&entry.CreatedAt,
		); err != nil {
			return nil, err
		}
		entries = append(entries, entry)
	}
	return entries, rows.Err()
}

func (r *LogRepository) CountUnarchived(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM activity_logs WHERE archived = false`
	row := r.pool.QueryRow(ctx, query)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}

// MarkArchived stamps a batch of entries after their export object has been
// written, returning how many rows it touched.
func (r *LogRepository) MarkArchived(ctx context.Context, ids []string) (int64, error) {
	const query = `UPDATE activity_logs SET archived = true WHERE id = ANY($1)`
	cmd, err := r.pool.Exec(ctx, query, ids)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *LogRepository) DeleteArchived(ctx context.Context, batchSize int) (int64, error) {
	const query = `
		DELETE FROM activity_logs
		WHERE id IN (
			SELECT id FROM activity_logs WHERE archived = true LIMIT $1
		)
	`
	cmd, err := r.pool.Exec(ctx, query, batchSize)
	if err != nil {
		return 0, err
	}
	return cmd.RowsAffected(), nil
}

func (r *LogRepository) CountArchived(ctx context.Context) (int, error) {
	const query = `SELECT COUNT(*) FROM activity_logs WHERE archived = true`
	row := r.pool.QueryRow(ctx, query)
	var count int
	if err := row.Scan(&count); err != nil {
		return 0, err
	}
	return count, nil
}
