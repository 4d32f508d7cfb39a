package scheduler

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"clubsphere-backend/internal/config"
	"clubsphere-backend/internal/jobs"
)

func newRunner(spec string) *jobs.JobRunner {
	cfg := &config.Config{Scheduler: config.SchedulerConfig{PendingRequestDigest: spec}}
	return jobs.NewJobRunner(nil, nil, nil, cfg)
}

func TestNewScheduler(t *testing.T) {
	t.Run("Daily digest", func(t *testing.T) {
		s, err := NewScheduler(newRunner("0 0 8 * * *"))
		require.NoError(t, err)

		next := s.Next()
		require.Len(t, next, 1)
		assert.Equal(t, 8, next[0].Hour())
		assert.Equal(t, 0, next[0].Minute())
		assert.Equal(t, time.UTC, next[0].Location())
	})

	t.Run("Invalid spec", func(t *testing.T) {
		_, err := NewScheduler(newRunner("every morning"))
		assert.Error(t, err)
	})

	t.Run("Five field spec needs seconds", func(t *testing.T) {
		_, err := NewScheduler(newRunner("0 8 * * *"))
		assert.Error(t, err)
	})
}

func TestScheduler_StartStop(t *testing.T) {
	s, err := NewScheduler(newRunner("0 0 8 * * *"))
	require.NoError(t, err)

	assert.False(t, s.IsRunning())
	s.Start()
	assert.True(t, s.IsRunning())
	s.Stop()
	assert.False(t, s.IsRunning())
}
