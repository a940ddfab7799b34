package notification

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeCleaner struct {
	calls atomic.Int32
	age   atomic.Int64
	err   error
}

func (f *fakeCleaner) DeleteReadOlderThan(_ context.Context, age time.Duration) (int64, error) {
	f.calls.Add(1)
	f.age.Store(int64(age))
	return 3, f.err
}

func TestCleanupService_Run(t *testing.T) {
	repo := &fakeCleaner{}
	svc := NewCleanupService(repo, 90, time.Hour, nil)

	n, err := svc.Run(context.Background())
	require.NoError(t, err)
	assert.EqualValues(t, 3, n)
	assert.Equal(t, 90*24*time.Hour, time.Duration(repo.age.Load()))

	repo.err = errors.New("db down")
	_, err = svc.Run(context.Background())
	assert.Error(t, err)
}

func TestCleanupService_ScheduleStops(t *testing.T) {
	repo := &fakeCleaner{}
	svc := NewCleanupService(repo, 1, 10*time.Millisecond, nil)

	stop := svc.Schedule(context.Background())
	require.Eventually(t, func() bool { return repo.calls.Load() >= 2 }, time.Second, 5*time.Millisecond)

	stop()
	stop()

	after := repo.calls.Load()
	time.Sleep(30 * time.Millisecond)
	assert.Equal(t, after, repo.calls.Load())
}
