package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsphere-backend/internal/domain"
	"clubsphere-backend/internal/repository/memory"
)

func TestEventService(t *testing.T) {
	store, err := memory.NewStore()
	require.NoError(t, err)
	svc := NewEventService(store.EventRepository)
	ctx := context.Background()

	t.Run("Missing time stores nothing", func(t *testing.T) {
		_, err := svc.CreateEvent(ctx, &domain.Event{
			Title: "Open night", Description: "Bring a board", Location: "Hall",
			ClubName: "Chess", Date: "2026-11-01", Time: "   ",
		})
		var ve *domain.ValidationError
		require.True(t, errors.As(err, &ve))
		assert.Equal(t, []string{"time"}, ve.Fields)

		events, err := svc.ListEvents(ctx)
		require.NoError(t, err)
		assert.Empty(t, events)
	})

	t.Run("Create", func(t *testing.T) {
		created, err := svc.CreateEvent(ctx, &domain.Event{
			ID: "client-supplied", Title: " Open night ", Description: "Bring a board", Location: "Hall",
			ClubName: "Chess", Date: "2026-11-01", Time: "18:00",
		})
		require.NoError(t, err)
		assert.NotEmpty(t, created.ID)
		assert.NotEqual(t, "client-supplied", created.ID)
		assert.Equal(t, "Open night", created.Title)

		events, err := svc.ListEvents(ctx)
		require.NoError(t, err)
		require.Len(t, events, 1)
		assert.Equal(t, created.ID, events[0].ID)
	})
}
