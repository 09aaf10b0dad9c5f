package service

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"path"
	"time"

	"github.com/rs/zerolog"

	"pawshome/internal/config"
	"pawshome/internal/ids"
	"pawshome/internal/media/sniffer"
	"pawshome/internal/media/svg"
	"pawshome/internal/models"
	"pawshome/internal/repository"
	"pawshome/internal/storage"
)

type UploadInput struct {
	Actor    string
	File     multipart.File
	Header   *multipart.FileHeader
	FileName string
}

type UploadResult struct {
	Item models.MediaItem
	URL  string
}

type UploadService struct {
	media    *repository.MediaRepository
	store    *storage.ObjectStore
	activity ActivityRecorder
	cfg      *config.AppConfig
	log      zerolog.Logger
}

func NewUploadService(
	media *repository.MediaRepository,
	store *storage.ObjectStore,
	activity ActivityRecorder,
	cfg *config.AppConfig,
	log zerolog.Logger,
) *UploadService {
	return &UploadService{
		media:    media,
		store:    store,
		activity: activity,
		cfg:      cfg,
		log:      log,
	}
}

func (s *UploadService) Upload(ctx context.Context, input UploadInput) (UploadResult, error) {
	if input.File == nil || input.Header == nil {
		return UploadResult{}, ErrValidation
	}

	data, err := io.ReadAll(input.File)
	if err != nil {
		return UploadResult{}, fmt.Errorf("read file: %w", err)
	}
	if len(data) == 0 {
		return UploadResult{}, ErrValidation
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	result, err := sniffer.DetectHead(head)
	if err != nil {
		if errors.Is(err, sniffer.ErrUnknownType) {
			return UploadResult{}, ErrValidation
		}
		return UploadResult{}, fmt.Errorf("detect type: %w", err)
	}

	declared := sniffer.MimeTypeFromHTTP(http.Header(input.Header.Header))
	if declared != "" && declared != result.MIME {
		return UploadResult{}, ErrValidation
	}

	if result.Type == sniffer.TypeSVG {
		clean, err := svg.Sanitize(data)
		if err != nil {
			return UploadResult{}, fmt.Errorf("sanitize svg: %w", err)
		}
		data = clean
	}

	mediaID := ids.New()
	objectKey := buildObjectKey(mediaID, string(result.Type))

	size, err := s.store.Put(ctx, objectKey, bytes.NewReader(data), int64(len(data)), result.MIME)
	if err != nil {
		return UploadResult{}, fmt.Errorf("store object: %w", err)
	}

	fileName := input.FileName
	if fileName == "" {
		fileName = input.Header.Filename
	}

	item := models.MediaItem{
		ID:         mediaID,
		UploadedBy: input.Actor,
		ObjectKey:  objectKey,
		FileName:   fileName,
		Format:     string(result.Type),
		SizeBytes:  size,
	}
	now := time.Now().UTC()
	item.CreatedAt = now
	item.UpdatedAt = now

	if err := s.media.Create(ctx, item); err != nil {
		// The row is authoritative; without it the object is unreachable.
		if rmErr := s.store.Remove(ctx, objectKey); rmErr != nil {
			s.log.Error().Err(rmErr).Str("object_key", objectKey).Msg("cleanup after failed insert")
		}
		return UploadResult{}, fmt.Errorf("save metadata: %w", err)
	}

	s.activity.Record(ctx, input.Actor, "upload", "media", mediaID, fileName)

	return UploadResult{
		Item: item,
		URL:  s.store.PublicURL(objectKey),
	}, nil
}

// Validate reports which of the given media records have lost their backing
// object in the bucket.
func (s *UploadService) Validate(ctx context.Context, mediaIDs []string) (map[string]bool, error) {
	if len(mediaIDs) == 0 {
		return nil, ErrValidation
	}

	items, err := s.media.GetByIDs(ctx, mediaIDs)
	if err != nil {
		return nil, err
	}

	found := make(map[string]bool, len(mediaIDs))
	for _, item := range items {
		exists, err := s.store.Exists(ctx, item.ObjectKey)
		if err != nil {
			s.log.Warn().Err(err).Str("media_id", item.ID).Msg("object stat failed")
			continue
		}
		found[item.ID] = exists
	}
	for _, id := range mediaIDs {
		if _, ok := found[id]; !ok {
			found[id] = false
		}
	}
	return found, nil
}

func buildObjectKey(mediaID string, ext string) string {
	datePrefix := time.Now().UTC().Format("2006/01/02")
	return path.Join(datePrefix, fmt.Sprintf("%s.%s", mediaID, ext))
}
