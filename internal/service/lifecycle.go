package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"pawshome/internal/models"
	"pawshome/internal/repository"
)

type CatLifecycleStore interface {
	GetByID(ctx context.Context, id string) (models.Cat, error)
	SetTrashed(ctx context.Context, id string, by string) error
	ClearTrashed(ctx context.Context, id string) error
	SetLocked(ctx context.Context, id string, reason string, by string) error
	ClearLocked(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type MediaLifecycleStore interface {
	GetByID(ctx context.Context, id string) (models.MediaItem, error)
	SetTrashed(ctx context.Context, id string, by string) error
	ClearTrashed(ctx context.Context, id string) error
	SetLocked(ctx context.Context, id string, reason string, by string) error
	ClearLocked(ctx context.Context, id string) error
	Delete(ctx context.Context, id string) error
}

type ObjectRemover interface {
	Remove(ctx context.Context, objectKey string) error
}

type ActivityRecorder interface {
	Record(ctx context.Context, actor, action, entity, entityID, detail string)
}

// LifecycleService owns the active -> trashed -> (restored | purged) and
// unlocked <-> locked transitions for cats and media items. Trash and lock
// are idempotent: repeating them on a record already in the target state is
// success without mutation. A locked record never moves to trashed and is
// never purged.
type LifecycleService struct {
	cats     CatLifecycleStore
	media    MediaLifecycleStore
	objects  ObjectRemover
	activity ActivityRecorder
	log      zerolog.Logger
}

func NewLifecycleService(
	cats CatLifecycleStore,
	media MediaLifecycleStore,
	objects ObjectRemover,
	activity ActivityRecorder,
	log zerolog.Logger,
) *LifecycleService {
	return &LifecycleService{
		cats:     cats,
		media:    media,
		objects:  objects,
		activity: activity,
		log:      log,
	}
}

func (s *LifecycleService) TrashCat(ctx context.Context, id string, actor string) error {
	cat, err := s.getCat(ctx, id)
	if err != nil {
		return err
	}
	if cat.Locked {
		return ErrLockedConflict
	}
	if cat.Deleted {
		return nil
	}

	if err := s.cats.SetTrashed(ctx, id, actor); err != nil {
		if errors.Is(err, repository.ErrCatLocked) {
			return ErrLockedConflict
		}
		return err
	}

	s.activity.Record(ctx, actor, "trash", "cat", id, cat.Name)
	return nil
}

func (s *LifecycleService) RestoreCat(ctx context.Context, id string, actor string) error {
	cat, err := s.getCat(ctx, id)
	if err != nil {
		return err
	}
	if !cat.Deleted {
		return nil
	}

	if err := s.cats.ClearTrashed(ctx, id); err != nil {
		return s.mapCatErr(err)
	}

	s.activity.Record(ctx, actor, "restore", "cat", id, cat.Name)
	return nil
}

func (s *LifecycleService) PurgeCat(ctx context.Context, id string, actor string) error {
	cat, err := s.getCat(ctx, id)
	if err != nil {
		return err
	}
	if cat.Locked {
		return ErrLockedConflict
	}

	if err := s.cats.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrCatLocked) {
			return ErrLockedConflict
		}
		return err
	}

	s.activity.Record(ctx, actor, "purge", "cat", id, cat.Name)
	return nil
}

func (s *LifecycleService) LockCat(ctx context.Context, id string, reason string, actor string) (models.Cat, error) {
	if strings.TrimSpace(reason) == "" {
		return models.Cat{}, ErrValidation
	}

	cat, err := s.getCat(ctx, id)
	if err != nil {
		return models.Cat{}, err
	}
	if cat.Locked {
		return cat, nil
	}

	if err := s.cats.SetLocked(ctx, id, reason, actor); err != nil {
		return models.Cat{}, err
	}

	s.activity.Record(ctx, actor, "lock", "cat", id, reason)
	return s.getCat(ctx, id)
}

func (s *LifecycleService) UnlockCat(ctx context.Context, id string, actor string) error {
	if _, err := s.getCat(ctx, id); err != nil {
		return err
	}

	if err := s.cats.ClearLocked(ctx, id); err != nil {
		return s.mapCatErr(err)
	}

	s.activity.Record(ctx, actor, "unlock", "cat", id, "")
	return nil
}

func (s *LifecycleService) TrashMedia(ctx context.Context, id string, actor string) error {
	item, err := s.getMedia(ctx, id)
	if err != nil {
		return err
	}
	if item.Locked {
		return ErrLockedConflict
	}
	if item.Deleted {
		return nil
	}

	if err := s.media.SetTrashed(ctx, id, actor); err != nil {
		if errors.Is(err, repository.ErrMediaLocked) {
			return ErrLockedConflict
		}
		return err
	}

	s.activity.Record(ctx, actor, "trash", "media", id, item.FileName)
	return nil
}

func (s *LifecycleService) RestoreMedia(ctx context.Context, id string, actor string) error {
	item, err := s.getMedia(ctx, id)
	if err != nil {
		return err
	}
	if !item.Deleted {
		return nil
	}

	if err := s.media.ClearTrashed(ctx, id); err != nil {
		return s.mapMediaErr(err)
	}

	s.activity.Record(ctx, actor, "restore", "media", id, item.FileName)
	return nil
}

// PurgeMedia removes the record and its backing object. The row goes first;
// a failed object removal afterwards leaves an orphan in the bucket, which is
// logged and swept later rather than surfaced to the caller.
func (s *LifecycleService) PurgeMedia(ctx context.Context, id string, actor string) error {
	item, err := s.getMedia(ctx, id)
	if err != nil {
		return err
	}
	if item.Locked {
		return ErrLockedConflict
	}

	if err := s.media.Delete(ctx, id); err != nil {
		if errors.Is(err, repository.ErrMediaLocked) {
			return ErrLockedConflict
		}
		return err
	}

	if err := s.objects.Remove(ctx, item.ObjectKey); err != nil {
		s.log.Error().Err(err).Str("media_id", id).Str("object_key", item.ObjectKey).Msg("remove backing object failed")
	}

	s.activity.Record(ctx, actor, "purge", "media", id, item.FileName)
	return nil
}

func (s *LifecycleService) LockMedia(ctx context.Context, id string, reason string, actor string) (models.MediaItem, error) {
	if strings.TrimSpace(reason) == "" {
		return models.MediaItem{}, ErrValidation
	}

	item, err := s.getMedia(ctx, id)
	if err != nil {
		return models.MediaItem{}, err
	}
	if item.Locked {
		return item, nil
	}

	if err := s.media.SetLocked(ctx, id, reason, actor); err != nil {
		return models.MediaItem{}, err
	}

	s.activity.Record(ctx, actor, "lock", "media", id, reason)
	return s.getMedia(ctx, id)
}

func (s *LifecycleService) UnlockMedia(ctx context.Context, id string, actor string) error {
	if _, err := s.getMedia(ctx, id); err != nil {
		return err
	}

	if err := s.media.ClearLocked(ctx, id); err != nil {
		return s.mapMediaErr(err)
	}

	s.activity.Record(ctx, actor, "unlock", "media", id, "")
	return nil
}

func (s *LifecycleService) getCat(ctx context.Context, id string) (models.Cat, error) {
	if id == "" {
		return models.Cat{}, ErrValidation
	}
	cat, err := s.cats.GetByID(ctx, id)
	if err != nil {
		return models.Cat{}, s.mapCatErr(err)
	}
	return cat, nil
}

func (s *LifecycleService) getMedia(ctx context.Context, id string) (models.MediaItem, error) {
	if id == "" {
		return models.MediaItem{}, ErrValidation
	}
	item, err := s.media.GetByID(ctx, id)
	if err != nil {
		return models.MediaItem{}, s.mapMediaErr(err)
	}
	return item, nil
}

func (s *LifecycleService) mapCatErr(err error) error {
	if errors.Is(err, repository.ErrCatNotFound) {
		return ErrNotFound
	}
	return err
}

func (s *LifecycleService) mapMediaErr(err error) error {
	if errors.Is(err, repository.ErrMediaNotFound) {
		return ErrNotFound
	}
	return err
}
