package models

import "time"

type LogEntry struct {
	ID        string
	Level     string
	Actor     string
	Action    string
	Entity    string
	EntityID  string
	Detail    string
	Archived  bool
	CreatedAt time.Time
}

type LogFilter struct {
	Level    string
	Action   string
	Entity   string
	Archived *bool
	Before   *time.Time
	Limit    int
	Offset   int
}
