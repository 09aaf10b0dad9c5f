package jobs

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"pawshome/internal/models"
)

var ErrJobNotFound = errors.New("job not found")

const jobTTL = 24 * time.Hour

// Store keeps fire-and-poll job state in redis hashes keyed by operation id.
// The API writes the initial running record, the worker advances it, and
// clients poll until it leaves the running state.
type Store struct {
	client *redis.Client
}

func NewStore(client *redis.Client) *Store {
	return &Store{client: client}
}

func key(id string) string {
	return "job:" + id
}

func (s *Store) Create(ctx context.Context, id string, jobType string) error {
	pipe := s.client.Pipeline()
	pipe.HSet(ctx, key(id), map[string]any{
		"type":     jobType,
		"status":   string(models.JobStatusRunning),
		"progress": 0,
	})
	pipe.Expire(ctx, key(id), jobTTL)
	_, err := pipe.Exec(ctx)
	return err
}

func (s *Store) SetProgress(ctx context.Context, id string, progress int) error {
	return s.client.HSet(ctx, key(id), "progress", progress).Err()
}

func (s *Store) Succeed(ctx context.Context, id string, result string) error {
	return s.client.HSet(ctx, key(id), map[string]any{
		"status":   string(models.JobStatusSucceeded),
		"progress": 100,
		"result":   result,
	}).Err()
}

func (s *Store) Fail(ctx context.Context, id string, cause error) error {
	return s.client.HSet(ctx, key(id), map[string]any{
		"status": string(models.JobStatusFailed),
		"error":  cause.Error(),
	}).Err()
}

func (s *Store) Get(ctx context.Context, id string) (models.Job, error) {
	fields, err := s.client.HGetAll(ctx, key(id)).Result()
	if err != nil {
		return models.Job{}, err
	}
	if len(fields) == 0 {
		return models.Job{}, ErrJobNotFound
	}

	job := models.Job{
		ID:     id,
		Type:   fields["type"],
		Status: models.JobStatus(fields["status"]),
		Result: fields["result"],
		Error:  fields["error"],
	}
	if _, err := fmt.Sscanf(fields["progress"], "%d", &job.Progress); err != nil {
		job.Progress = 0
	}
	return job, nil
}
