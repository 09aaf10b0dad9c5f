package models

import "time"

// Lifecycle carries the trash and lock state shared by cats and media items.
// A locked record must never be trashed or purged.
type Lifecycle struct {
	Deleted      bool
	DeletedAt    *time.Time
	DeletedBy    *string
	Locked       bool
	LockedReason *string
	LockedAt     *time.Time
	LockedBy     *string
}
