package postgres

import (
	"context"
	"database/sql"
	"time"

	"github.com/google/uuid"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/repository"
)

type eventRepository struct {
	db *sql.DB
}

func NewEventRepository(db *sql.DB) repository.EventRepository {
	return &eventRepository{db: db}
}

func (r *eventRepository) Create(ctx context.Context, e *domain.Event) error {
	if e.ID == "" {
		e.ID = uuid.NewString()
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}
	query := `INSERT INTO events (id, title, description, location, club_name, date, time, created_at)
	          VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.db.ExecContext(ctx, query, e.ID, e.Title, e.Description, e.Location, e.ClubName, e.Date, e.Time, e.CreatedAt)
	return err
}

func (r *eventRepository) List(ctx context.Context) ([]domain.Event, error) {
	query := `SELECT id, title, description, location, club_name, date, time, created_at FROM events ORDER BY created_at`
	rows, err := r.db.QueryContext(ctx, query)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	events := []domain.Event{}
	for rows.Next() {
		var e domain.Event
		if err := rows.Scan(&e.ID, &e.Title, &e.Description, &e.Location, &e.ClubName, &e.Date, &e.Time, &e.CreatedAt); err != nil {
			return nil, err
		}
		events = append(events, e)
	}
	return events, rows.Err()
}
