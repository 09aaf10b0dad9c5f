package service

import (
	"context"
	"strings"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pawshome/internal/config"
	"pawshome/internal/ids"
	"pawshome/internal/models"
	"pawshome/internal/repository"
)

type ContactService struct {
	messages *repository.ContactRepository
	queue    *redis.Client
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewContactService(
	messages *repository.ContactRepository,
	queue *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *ContactService {
	return &ContactService{
		messages: messages,
		queue:    queue,
		cfg:      cfg,
		log:      log,
	}
}

func (s *ContactService) Submit(ctx context.Context, msg models.ContactMessage) (string, error) {
	msg.Name = strings.TrimSpace(msg.Name)
	msg.Email = strings.TrimSpace(strings.ToLower(msg.Email))
	msg.Message = strings.TrimSpace(msg.Message)
	if msg.Name == "" || msg.Email == "" || msg.Message == "" || !strings.Contains(msg.Email, "@") {
		return "", ErrValidation
	}

	msg.ID = ids.New()
	if err := s.messages.Create(ctx, msg); err != nil {
		return "", err
	}

	// Delivery happens in the worker; a queue hiccup only delays the email,
	// the message itself is already persisted.
	if err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Queue.Stream,
		Values: map[string]any{
			"type":      TaskContactEmail,
			"messageId": msg.ID,
		},
	}).Err(); err != nil {
		s.log.Error().Err(err).Str("message_id", msg.ID).Msg("enqueue contact email failed")
	}

	return msg.ID, nil
}
