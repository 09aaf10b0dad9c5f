package tasks

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"pawshome/internal/jobs"
	"pawshome/internal/mail"
	"pawshome/internal/models"
	"pawshome/internal/repository"
	"pawshome/internal/storage"
)

const (
	deleteBatchSize  = 500
	archiveRetention = 180 * 24 * time.Hour
)

// Processor executes the long-running tasks the API fires and polls:
// log archival, archived-log deletion, archive grooming, and contact email
// delivery. Job state lands in the jobs store keyed by operation id.
type Processor struct {
	logs    *repository.LogRepository
	contact *repository.ContactRepository
	jobs    *jobs.Store
	store   *storage.ObjectStore
	mailer  *mail.Mailer
	logger  zerolog.Logger
}

func NewProcessor(
	logs *repository.LogRepository,
	contact *repository.ContactRepository,
	jobStore *jobs.Store,
	store *storage.ObjectStore,
	mailer *mail.Mailer,
	logger zerolog.Logger,
) *Processor {
	return &Processor{
		logs:    logs,
		contact: contact,
		jobs:    jobStore,
		store:   store,
		mailer:  mailer,
		logger:  logger,
	}
}

type taskPayload struct {
	Type        string `json:"type"`
	OperationID string `json:"operationId"`
	Actor       string `json:"actor"`
	MessageID   string `json:"messageId"`
}

func (p *Processor) Handle(ctx context.Context, msg redis.XMessage) error {
	var payload taskPayload
	if err := decodePayload(msg.Values, &payload); err != nil {
		return fmt.Errorf("decode payload: %w", err)
	}

	switch payload.Type {
	case "archive-logs":
		return p.runTracked(ctx, payload.OperationID, p.archiveLogs)
	case "delete-archived-logs":
		return p.runTracked(ctx, payload.OperationID, p.deleteArchived)
	case "groom-archives":
		return p.groomArchives(ctx)
	case "contact-email":
		return p.sendContactEmail(ctx, payload.MessageID)
	default:
		p.logger.Warn().Str("type", payload.Type).Msg("unknown task type")
		return nil
	}
}

func decodePayload(values map[string]interface{}, out *taskPayload) error {
	raw, err := json.Marshal(values)
	if err != nil {
		return err
	}
	return json.Unmarshal(raw, out)
}

func (p *Processor) runTracked(ctx context.Context, operationID string, run func(ctx context.Context, operationID string) (string, error)) error {
	if operationID == "" {
		return fmt.Errorf("missing operation id")
	}

	result, err := run(ctx, operationID)
	if err != nil {
		p.logger.Error().Err(err).Str("operation_id", operationID).Msg("task failed")
		if jerr := p.jobs.Fail(ctx, operationID, err); jerr != nil {
			p.logger.Error().Err(jerr).Str("operation_id", operationID).Msg("record failure failed")
		}
		// Failure is recorded on the job; do not redeliver.
		return nil
	}

	return p.jobs.Succeed(ctx, operationID, result)
}

// archiveLogs exports every unarchived entry to a JSON object in the bucket,
// then flags the rows. The export object is written before any row is
// touched, so a crash mid-run leaves rows unarchived and the run repeatable.
func (p *Processor) archiveLogs(ctx context.Context, operationID string) (string, error) {
	total, err := p.logs.CountUnarchived(ctx)
	if err != nil {
		return "", fmt.Errorf("count unarchived: %w", err)
	}
	if total == 0 {
		return "no entries to archive", nil
	}

	archived := false
	filter := models.LogFilter{Archived: &archived, Limit: 500}

	var exported []models.LogEntry
	for {
		batch, err := p.logs.List(ctx, filter)
		if err != nil {
			return "", fmt.Errorf("list unarchived: %w", err)
		}
		if len(batch) == 0 {
			break
		}
		exported = append(exported, batch...)
		filter.Offset += len(batch)

		progress := len(exported) * 50 / total
		if err := p.jobs.SetProgress(ctx, operationID, progress); err != nil {
			p.logger.Warn().Err(err).Msg("progress update failed")
		}
	}

	payload, err := json.Marshal(exported)
	if err != nil {
		return "", fmt.Errorf("encode archive: %w", err)
	}

	objectKey := fmt.Sprintf("archives/logs-%s.json", time.Now().UTC().Format("20060102-150405"))
	if _, err := p.store.Put(ctx, objectKey, bytes.NewReader(payload), int64(len(payload)), "application/json"); err != nil {
		return "", fmt.Errorf("write archive object: %w", err)
	}

	if err := p.jobs.SetProgress(ctx, operationID, 75); err != nil {
		p.logger.Warn().Err(err).Msg("progress update failed")
	}

	ids := make([]string, len(exported))
	for i, entry := range exported {
		ids[i] = entry.ID
	}
	marked, err := p.logs.MarkArchived(ctx, ids)
	if err != nil {
		return "", fmt.Errorf("mark archived: %w", err)
	}

	return fmt.Sprintf("archived %d entries to %s", marked, objectKey), nil
}

func (p *Processor) deleteArchived(ctx context.Context, operationID string) (string, error) {
	total, err := p.logs.CountArchived(ctx)
	if err != nil {
		return "", fmt.Errorf("count archived: %w", err)
	}
	if total == 0 {
		return "no archived entries", nil
	}

	var deleted int64
	for {
		n, err := p.logs.DeleteArchived(ctx, deleteBatchSize)
		if err != nil {
			return "", fmt.Errorf("delete archived batch: %w", err)
		}
		if n == 0 {
			break
		}
		deleted += n

		progress := int(deleted) * 100 / total
		if progress > 99 {
			progress = 99
		}
		if err := p.jobs.SetProgress(ctx, operationID, progress); err != nil {
			p.logger.Warn().Err(err).Msg("progress update failed")
		}
	}

	return fmt.Sprintf("deleted %d archived entries", deleted), nil
}

func (p *Processor) groomArchives(ctx context.Context) error {
	cutoff := time.Now().Add(-archiveRetention)

	var removed int
	err := p.store.ListPrefix(ctx, "archives/", func(key string, lastModified time.Time) error {
		if lastModified.After(cutoff) {
			return nil
		}
		if err := p.store.Remove(ctx, key); err != nil {
			p.logger.Error().Err(err).Str("object_key", key).Msg("remove stale archive failed")
			return nil
		}
		removed++
		return nil
	})
	if err != nil {
		return err
	}

	if removed > 0 {
		p.logger.Info().Int("removed", removed).Msg("stale archives groomed")
	}
	return nil
}

func (p *Processor) sendContactEmail(ctx context.Context, messageID string) error {
	if messageID == "" {
		return fmt.Errorf("missing message id")
	}

	msg, err := p.contact.GetByID(ctx, messageID)
	if err != nil {
		return fmt.Errorf("load contact message: %w", err)
	}

	if err := p.mailer.SendContactMessage(msg); err != nil {
		return fmt.Errorf("deliver contact message %s: %w", messageID, err)
	}

	p.logger.Info().Str("message_id", messageID).Msg("contact email delivered")
	return nil
}
