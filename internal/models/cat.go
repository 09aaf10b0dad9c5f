package models

import "time"

type CatStatus string

const (
	CatStatusAvailable CatStatus = "available"
	CatStatusPending   CatStatus = "pending"
	CatStatusAdopted   CatStatus = "adopted"
)

type Cat struct {
	ID          string
	Name        string
	Breed       string
	AgeMonths   int
	Sex         string
	Description string
	Status      CatStatus
	Featured    bool
	PhotoIDs    []string
	Lifecycle
	CreatedAt time.Time
	UpdatedAt time.Time
}
