package domain

import (
	"strings"
	"time"
)

type Event struct {
	ID          string    `json:"_id" bson:"_id"`
	Title       string    `json:"title" bson:"title"`
	Description string    `json:"description" bson:"description"`
	Location    string    `json:"location" bson:"location"`
	ClubName    string    `json:"clubName" bson:"club_name"`
	Date        string    `json:"date" bson:"date"`
	Time        string    `json:"time" bson:"time"`
	CreatedAt   time.Time `json:"createdAt" bson:"created_at"`
}

// Normalize trims surrounding whitespace from every text field.
func (e *Event) Normalize() {
	e.Title = strings.TrimSpace(e.Title)
	e.Description = strings.TrimSpace(e.Description)
	e.Location = strings.TrimSpace(e.Location)
	e.ClubName = strings.TrimSpace(e.ClubName)
	e.Date = strings.TrimSpace(e.Date)
	e.Time = strings.TrimSpace(e.Time)
}

// Validate requires all six text fields to be non-empty after trimming.
func (e *Event) Validate() error {
	fields := []struct {
		name  string
		value string
	}{
		{"title", e.Title},
		{"description", e.Description},
		{"location", e.Location},
		{"clubName", e.ClubName},
		{"date", e.Date},
		{"time", e.Time},
	}

	var missing []string
	for _, f := range fields {
		if strings.TrimSpace(f.value) == "" {
			missing = append(missing, f.name)
		}
	}
	if len(missing) > 0 {
		return NewValidationError("Incomplete event details", missing...)
	}
	return nil
}
