package service

import (
	"context"
	"errors"
	"strings"

	"github.com/rs/zerolog"

	"pawshome/internal/ids"
	"pawshome/internal/models"
	"pawshome/internal/repository"
)

type CatService struct {
	cats     *repository.CatRepository
	activity ActivityRecorder
	log      zerolog.Logger
}

func NewCatService(cats *repository.CatRepository, activity ActivityRecorder, log zerolog.Logger) *CatService {
	return &CatService{
		cats:     cats,
		activity: activity,
		log:      log,
	}
}

type CatInput struct {
	Name        string
	Breed       string
	AgeMonths   int
	Sex         string
	Description string
	Status      string
	Featured    bool
	PhotoIDs    []string
}

func (s *CatService) Create(ctx context.Context, input CatInput, actor string) (models.Cat, error) {
	cat, err := catFromInput(input)
	if err != nil {
		return models.Cat{}, err
	}
	cat.ID = ids.New()

	if err := s.cats.Create(ctx, cat); err != nil {
		return models.Cat{}, err
	}

	s.activity.Record(ctx, actor, "create", "cat", cat.ID, cat.Name)
	return s.cats.GetByID(ctx, cat.ID)
}

func (s *CatService) Update(ctx context.Context, id string, input CatInput, actor string) (models.Cat, error) {
	if id == "" {
		return models.Cat{}, ErrValidation
	}

	cat, err := catFromInput(input)
	if err != nil {
		return models.Cat{}, err
	}
	cat.ID = id

	if err := s.cats.Update(ctx, cat); err != nil {
		if errors.Is(err, repository.ErrCatNotFound) {
			return models.Cat{}, ErrNotFound
		}
		return models.Cat{}, err
	}

	s.activity.Record(ctx, actor, "update", "cat", id, cat.Name)
	return s.cats.GetByID(ctx, id)
}

func (s *CatService) Get(ctx context.Context, id string) (models.Cat, error) {
	cat, err := s.cats.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrCatNotFound) {
			return models.Cat{}, ErrNotFound
		}
		return models.Cat{}, err
	}
	return cat, nil
}

func (s *CatService) List(ctx context.Context, includeTrashed bool, limit, offset int) ([]models.Cat, error) {
	return s.cats.List(ctx, includeTrashed, limit, offset)
}

func catFromInput(input CatInput) (models.Cat, error) {
	input.Name = strings.TrimSpace(input.Name)
	if input.Name == "" {
		return models.Cat{}, ErrValidation
	}

	status := models.CatStatus(input.Status)
	switch status {
	case "":
		status = models.CatStatusAvailable
	case models.CatStatusAvailable, models.CatStatusPending, models.CatStatusAdopted:
	default:
		return models.Cat{}, ErrValidation
	}

	return models.Cat{
		Name:        input.Name,
		Breed:       input.Breed,
		AgeMonths:   input.AgeMonths,
		Sex:         input.Sex,
		Description: input.Description,
		Status:      status,
		Featured:    input.Featured,
		PhotoIDs:    input.PhotoIDs,
	}, nil
}
