package models

import "time"

type MediaItem struct {
	ID         string
	UploadedBy string
	ObjectKey  string
	FileName   string
	Format     string
	SizeBytes  int64
	Lifecycle
	CreatedAt time.Time
	UpdatedAt time.Time
}

type MediaStats struct {
	Total        int
	TotalBytes   int64
	TrashedCount int
	LockedCount  int
}
