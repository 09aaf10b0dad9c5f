package service

import (
	"context"
	"errors"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pawshome/internal/config"
	"pawshome/internal/ids"
	"pawshome/internal/jobs"
	"pawshome/internal/models"
	"pawshome/internal/repository"
)

const (
	TaskArchiveLogs    = "archive-logs"
	TaskDeleteArchived = "delete-archived-logs"
	TaskContactEmail   = "contact-email"
)

type LogService struct {
	logs  *repository.LogRepository
	jobs  *jobs.Store
	queue *redis.Client
	cfg   *config.AppConfig
	log   zerolog.Logger
}

func NewLogService(
	logs *repository.LogRepository,
	jobStore *jobs.Store,
	queue *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *LogService {
	return &LogService{
		logs:  logs,
		jobs:  jobStore,
		queue: queue,
		cfg:   cfg,
		log:   log,
	}
}

// Record writes an activity entry. Failures are logged, never propagated:
// audit writes must not fail the mutation they describe.
func (s *LogService) Record(ctx context.Context, actor, action, entity, entityID, detail string) {
	entry := models.LogEntry{
		ID:       ids.New(),
		Level:    "info",
		Actor:    actor,
		Action:   action,
		Entity:   entity,
		EntityID: entityID,
		Detail:   detail,
	}
	if err := s.logs.Insert(ctx, entry); err != nil {
		s.log.Error().Err(err).Str("action", action).Str("entity", entity).Msg("activity log write failed")
	}
}

func (s *LogService) List(ctx context.Context, filter models.LogFilter) ([]models.LogEntry, error) {
	return s.logs.List(ctx, filter)
}

// StartArchive enqueues an archive run and returns its operation id
// immediately; progress is polled via Operation.
func (s *LogService) StartArchive(ctx context.Context, actor string) (string, error) {
	return s.enqueue(ctx, TaskArchiveLogs, actor)
}

func (s *LogService) StartDeleteArchived(ctx context.Context, actor string) (string, error) {
	return s.enqueue(ctx, TaskDeleteArchived, actor)
}

func (s *LogService) Operation(ctx context.Context, operationID string) (models.Job, error) {
	if operationID == "" {
		return models.Job{}, ErrValidation
	}
	job, err := s.jobs.Get(ctx, operationID)
	if err != nil {
		if errors.Is(err, jobs.ErrJobNotFound) {
			return models.Job{}, ErrNotFound
		}
		return models.Job{}, err
	}
	return job, nil
}

func (s *LogService) enqueue(ctx context.Context, taskType string, actor string) (string, error) {
	operationID := ids.New()

	if err := s.jobs.Create(ctx, operationID, taskType); err != nil {
		return "", err
	}

	if err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Queue.Stream,
		Values: map[string]any{
			"type":        taskType,
			"operationId": operationID,
			"actor":       actor,
		},
	}).Err(); err != nil {
		return "", err
	}

	s.Record(ctx, actor, taskType, "logs", operationID, "")
	return operationID, nil
}
