package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingSweeper struct {
	calls chan struct{}
}

func (s *countingSweeper) Sweep(ctx context.Context) (int, error) {
	select {
	case s.calls <- struct{}{}:
	default:
	}
	return 0, nil
}

func TestReminderScheduler_RunsSweeps(t *testing.T) {
	sweeper := &countingSweeper{calls: make(chan struct{}, 1)}
	scheduler := NewReminderScheduler(sweeper, "@every 1s")
	ctx := context.Background()

	require.NoError(t, scheduler.Start(ctx))
	defer scheduler.Stop(ctx)

	select {
	case <-sweeper.calls:
	case <-time.After(5 * time.Second):
		t.Fatal("sweep was not scheduled")
	}

	assert.Error(t, scheduler.Start(ctx))
}

func TestReminderScheduler_InvalidSpec(t *testing.T) {
	scheduler := NewReminderScheduler(&countingSweeper{calls: make(chan struct{}, 1)}, "every now and then")
	assert.Error(t, scheduler.Start(context.Background()))

	// stopping a scheduler that never started is a no-op
	scheduler.Stop(context.Background())
}
