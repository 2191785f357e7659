package jobs

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countingCleaner struct {
	calls int32
}

func (c *countingCleaner) CleanupExpiredTokens() error {
	atomic.AddInt32(&c.calls, 1)
	return nil
}

func TestTokenCleanupJobRunsOnInterval(t *testing.T) {
	cleaner := &countingCleaner{}
	job := NewTokenCleanupJob(cleaner, 10*time.Millisecond)

	job.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cleaner.calls) >= 2
	}, 2*time.Second, 5*time.Millisecond)
	job.Stop()
}

func TestTokenCleanupJobStops(t *testing.T) {
	cleaner := &countingCleaner{}
	job := NewTokenCleanupJob(cleaner, 10*time.Millisecond)

	job.Start()
	require.Eventually(t, func() bool {
		return atomic.LoadInt32(&cleaner.calls) >= 1
	}, 2*time.Second, 5*time.Millisecond)
	job.Stop()

	calls := atomic.LoadInt32(&cleaner.calls)
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, calls, atomic.LoadInt32(&cleaner.calls), "no runs after Stop")
}
