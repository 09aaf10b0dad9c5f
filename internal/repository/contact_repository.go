package repository

import (
	"context"

	"github.com/jackc/pgx/v5/pgxpool"

	"pawshome/internal/models"
)

type ContactRepository struct {
	pool *pgxpool.Pool
}

func NewContactRepository(pool *pgxpool.Pool) *ContactRepository {
	return &ContactRepository{pool: pool}
}

func (r *ContactRepository) Create(ctx context.Context, msg models.ContactMessage) error {
	const query = `
		INSERT INTO contact_messages (
			id, name, email, message, ip_address, created_at
		) VALUES (
			$1, $2, $3, $4, $5, NOW()
		)
	`

	_, err := r.pool.Exec(ctx, query,
		msg.ID,
		msg.Name,
		msg.Email,
		msg.Message,
		msg.IPAddress,
	)
	return err
}

func (r *ContactRepository) GetByID(ctx context.Context, id string) (models.ContactMessage, error) {
	const query = `
		SELECT id, name, email, message, ip_address, created_at
		FROM contact_messages WHERE id = $1
	`

	row := r.pool.QueryRow(ctx, query, id)
	var msg models.ContactMessage
	if err := row.Scan(
		&msg.ID,
		&msg.Name,
		&msg.Email,
		&msg.Message,
		&msg.IPAddress,
		&msg.CreatedAt,
	); err != nil {
		return models.ContactMessage{}, err
	}
	return msg, nil
}
