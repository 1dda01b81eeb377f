package scheduler

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduleEvery(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	var runs atomic.Int32
	id, err := s.ScheduleEvery("sitemap-rebuild", 20*time.Millisecond, func() { runs.Add(1) })
	require.NoError(t, err)
	assert.NotEmpty(t, id)

	ctx := context.Background()
	s.Start(ctx)
	assert.Eventually(t, func() bool { return runs.Load() >= 2 }, 2*time.Second, 10*time.Millisecond)
	require.NoError(t, s.Stop(ctx))
}

func TestScheduleEveryRejectsNonPositiveInterval(t *testing.T) {
	s, err := New()
	require.NoError(t, err)

	_, err = s.ScheduleEvery("sitemap-rebuild", 0, func() {})
	assert.Error(t, err)
}
