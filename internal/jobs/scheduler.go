package jobs

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/robfig/cron/v3"
	"github.com/rs/zerolog"

	"pawshome/internal/config"
	"pawshome/internal/repository"
	"pawshome/internal/storage"
)

// Scheduler runs the recurring maintenance of the trash bin and the archive
// queue from inside the API process.
type Scheduler struct {
	cron     *cron.Cron
	cats     *repository.CatRepository
	media    *repository.MediaRepository
	sessions *repository.SessionRepository
	store    *storage.ObjectStore
	queue    *redis.Client
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewScheduler(
	cats *repository.CatRepository,
	media *repository.MediaRepository,
	sessions *repository.SessionRepository,
	store *storage.ObjectStore,
	queue *redis.Client,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *Scheduler {
	return &Scheduler{
		cron:     cron.New(cron.WithSeconds()),
		cats:     cats,
		media:    media,
		sessions: sessions,
		store:    store,
		queue:    queue,
		cfg:      cfg,
		log:      log,
	}
}

func (s *Scheduler) Start() error {
	if _, err := s.cron.AddFunc("0 0 3 * * *", s.purgeExpiredTrash); err != nil {
		return err
	}
	if _, err := s.cron.AddFunc("0 0 * * * *", s.enqueueArchiveGroom); err != nil { // hourly
		return err
	}
	if _, err := s.cron.AddFunc("0 30 * * * *", s.sweepExpiredSessions); err != nil {
		return err
	}

	s.cron.Start()
	return nil
}

// Stop waits for in-flight jobs to finish, up to a bound.
func (s *Scheduler) Stop() {
	select {
	case <-s.cron.Stop().Done():
	case <-time.After(5 * time.Second):
		s.log.Warn().Msg("scheduler stop timed out")
	}
}

// purgeExpiredTrash permanently removes records that have sat in the trash
// past the retention window. Locked records are excluded by the repository
// queries, matching the lifecycle guard.
func (s *Scheduler) purgeExpiredTrash() {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	cutoff := time.Now().AddDate(0, 0, -s.cfg.Trash.RetentionDays)

	cats, err := s.cats.ListTrashedBefore(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("list expired trashed cats failed")
	}
	for _, cat := range cats {
		if err := s.cats.Delete(ctx, cat.ID); err != nil {
			s.log.Error().Err(err).Str("cat_id", cat.ID).Msg("retention purge cat failed")
		}
	}

	items, err := s.media.ListTrashedBefore(ctx, cutoff)
	if err != nil {
		s.log.Error().Err(err).Msg("list expired trashed media failed")
	}
	for _, item := range items {
		if err := s.media.Delete(ctx, item.ID); err != nil {
			s.log.Error().Err(err).Str("media_id", item.ID).Msg("retention purge media failed")
			continue
		}
		if err := s.store.Remove(ctx, item.ObjectKey); err != nil {
			s.log.Error().Err(err).Str("object_key", item.ObjectKey).Msg("retention purge object failed")
		}
	}

	if len(cats) > 0 || len(items) > 0 {
		s.log.Info().Int("cats", len(cats)).Int("media", len(items)).Msg("retention purge completed")
	}
}

func (s *Scheduler) sweepExpiredSessions() {
	ctx, cancel := context.WithTimeout(context.Background(), time.Minute)
	defer cancel()

	removed, err := s.sessions.DeleteExpired(ctx)
	if err != nil {
		s.log.Error().Err(err).Msg("expired session sweep failed")
		return
	}
	if removed > 0 {
		s.log.Info().Int64("removed", removed).Msg("expired sessions swept")
	}
}

func (s *Scheduler) enqueueArchiveGroom() {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.queue.XAdd(ctx, &redis.XAddArgs{
		Stream: s.cfg.Queue.Stream,
		Values: map[string]any{"type": "groom-archives"},
	}).Err(); err != nil {
		s.log.Error().Err(err).Msg("enqueue archive groom failed")
	}
}
