package models

import "time"

type ContactMessage struct {
	ID        string
	Name      string
	Email     string
	Message   string
	IPAddress string
	CreatedAt time.Time
}
