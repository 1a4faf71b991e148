package worker_test

import (
	"context"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/elastiquality-search/internal/worker"
)

type loopWorker struct {
	*worker.BaseWorker
	ticks atomic.Int32
}

func newLoopWorker(name string) *loopWorker {
	return &loopWorker{BaseWorker: worker.NewBaseWorker(name, "group", zap.NewNop())}
}

func (w *loopWorker) Start(ctx context.Context) error {
	for {
		w.ticks.Add(1)
		if !w.Sleep(ctx, 5*time.Millisecond) {
			return nil
		}
	}
}

type stuckWorker struct {
	*worker.BaseWorker
}

func (w *stuckWorker) Start(context.Context) error {
	select {}
}

func TestWorkerManager_StartWithoutWorkers(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	assert.Error(t, m.Start(context.Background()))
}

func TestWorkerManager_StartAndStop(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	a := newLoopWorker("a")
	b := newLoopWorker("b")
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	assert.Eventually(t, func() bool {
		return a.ticks.Load() > 0 && b.ticks.Load() > 0
	}, time.Second, 5*time.Millisecond)

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
}

func TestWorkerManager_StopTimeout(t *testing.T) {
	m := worker.NewWorkerManager(zap.NewNop(), 20*time.Millisecond)
	m.Register(&stuckWorker{BaseWorker: worker.NewBaseWorker("stuck", "group", zap.NewNop())})

	require.NoError(t, m.Start(context.Background()))
	assert.Error(t, m.Stop())
}

func TestBaseWorker_StopIsIdempotent(t *testing.T) {
	w := worker.NewBaseWorker("w", "group", zap.NewNop())
	require.NoError(t, w.Stop())
	require.NoError(t, w.Stop())
	assert.True(t, w.IsStopped())
	assert.False(t, w.Sleep(context.Background(), time.Hour))
}
