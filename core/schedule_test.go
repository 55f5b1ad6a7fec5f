package core

import (
	"testing"
	"time"

	"github.com/robfig/cron/v3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"
)

type countingSweeper struct{ calls int }

func (s *countingSweeper) Sweep() { s.calls++ }

func TestScheduleSweep_Daily(t *testing.T) {
	c := cron.New(cron.WithLocation(time.UTC))

	id, err := ScheduleSweep(c, "", &countingSweeper{}, nil)
	require.NoError(t, err)

	entry := c.Entry(id)
	require.True(t, entry.Valid())

	from := time.Date(2024, 3, 1, 12, 30, 0, 0, time.UTC)
	assert.WithinDuration(t, time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC), entry.Schedule.Next(from), 0)

	from = time.Date(2024, 3, 2, 0, 59, 0, 0, time.UTC)
	assert.WithinDuration(t, time.Date(2024, 3, 2, 1, 0, 0, 0, time.UTC), entry.Schedule.Next(from), 0)
}

func TestScheduleSweep_BadSpec(t *testing.T) {
	_, err := ScheduleSweep(cron.New(), "every tuesday", &countingSweeper{}, nil)
	assert.Error(t, err)
}

func TestSweepJob_Run(t *testing.T) {
	obs, logs := observer.New(zapcore.InfoLevel)
	sweeper := &countingSweeper{}

	SweepJob{Sweeper: sweeper, Logger: zap.New(obs)}.Run()
	SweepJob{Sweeper: sweeper}.Run()

	assert.Equal(t, 2, sweeper.calls)
	assert.Equal(t, 1, logs.FilterMessage("running clean on expiring media links").Len())
}

func TestSweepJob_PurgesStore(t *testing.T) {
	clock := newTestClock()
	s := NewExpiringStore[string](StoreConfig{Now: clock.Now})
	s.Put("A")
	clock.Advance(2 * time.Minute)

	SweepJob{Sweeper: s}.Run()
	assert.Equal(t, 0, s.Len())
}
