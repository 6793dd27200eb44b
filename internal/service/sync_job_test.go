package service

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/getdiced/cardmirror/internal/logger"
	"github.com/getdiced/cardmirror/models"
)

type countingSyncService struct {
	calls atomic.Int64
}

func (c *countingSyncService) Sync(context.Context, SyncOptions) (models.SyncResult, error) {
	c.calls.Add(1)
	return models.SyncResult{}, nil
}

func (c *countingSyncService) Status(context.Context) (models.SyncStatus, error) {
	return models.SyncStatus{}, nil
}

func TestSyncJob_StartAndStop(t *testing.T) {
	svc := &countingSyncService{}
	job := NewSyncJob(svc, logger.Nop())

	job.Start(context.Background(), 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 2
	}, time.Second, 5*time.Millisecond, "ticker should fire repeatedly")

	job.Stop()
	after := svc.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load(), "no syncs after Stop")
}

func TestSyncJob_StopWithoutStart(t *testing.T) {
	job := NewSyncJob(&countingSyncService{}, logger.Nop())
	job.Stop()
}

func TestSyncJob_ContextCancellationStopsLoop(t *testing.T) {
	svc := &countingSyncService{}
	job := NewSyncJob(svc, logger.Nop())

	ctx, cancel := context.WithCancel(context.Background())
	job.Start(ctx, 10*time.Millisecond)

	assert.Eventually(t, func() bool {
		return svc.calls.Load() >= 1
	}, time.Second, 5*time.Millisecond)

	cancel()
	time.Sleep(30 * time.Millisecond)
	after := svc.calls.Load()
	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, after, svc.calls.Load(), "no syncs after context cancellation")
}
