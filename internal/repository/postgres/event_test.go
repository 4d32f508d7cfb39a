package postgres_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/repository/postgres"
)

func TestEventRepository(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("an error '%s' was not expected when opening a stub database connection", err)
	}
	defer db.Close()

	repo := postgres.NewEventRepository(db)
	ctx := context.Background()

	e := &domain.Event{Title: "Open night", Description: "Bring a friend", Location: "Hall", ClubName: "Chess", Date: "2024-06-01", Time: "18:00"}
	mock.ExpectExec("INSERT INTO events").
		WithArgs(sqlmock.AnyArg(), "Open night", "Bring a friend", "Hall", "Chess", "2024-06-01", "18:00", sqlmock.AnyArg()).
		WillReturnResult(sqlmock.NewResult(1, 1))
	require.NoError(t, repo.Create(ctx, e))
	assert.NotEmpty(t, e.ID)

	mock.ExpectQuery("FROM events ORDER BY created_at").
		WillReturnRows(sqlmock.NewRows([]string{"id", "title", "description", "location", "club_name", "date", "time", "created_at"}).
			AddRow(e.ID, e.Title, e.Description, e.Location, e.ClubName, e.Date, e.Time, time.Now()))
	events, err := repo.List(ctx)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Open night", events[0].Title)

	assert.NoError(t, mock.ExpectationsWereMet())
}
