package worker_test

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"go.uber.org/zap"

	"github.com/crime-dashboard/internal/worker"
)

// blockingWorker работает, пока его не остановят или не отменят контекст
type blockingWorker struct {
	*worker.BaseWorker
	started chan struct{}
	release chan struct{}
}

func newBlockingWorker(name string) *blockingWorker {
	return &blockingWorker{
		BaseWorker: worker.NewBaseWorker(name, "test-group", zap.NewNop()),
		started:    make(chan struct{}),
	}
}

func (w *blockingWorker) Start(ctx context.Context) error {
	close(w.started)
	if w.release != nil {
		<-w.release
		return nil
	}
	select {
	case <-w.StopChan():
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

func waitStarted(t *testing.T, w *blockingWorker) {
	t.Helper()
	select {
	case <-w.started:
	case <-time.After(time.Second):
		t.Fatalf("worker %s did not start", w.Name())
	}
}

func TestWorkerManager_StartStop(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	a, b := newBlockingWorker("a"), newBlockingWorker("b")
	m.Register(a)
	m.Register(b)

	require.NoError(t, m.Start(context.Background()))
	waitStarted(t, a)
	waitStarted(t, b)

	assert.Error(t, m.Start(context.Background()), "second start must fail")

	require.NoError(t, m.Stop())
	assert.True(t, a.IsStopped())
	assert.True(t, b.IsStopped())
}

func TestWorkerManager_NoWorkers(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := worker.NewWorkerManager(zap.NewNop(), 0)
	assert.Error(t, m.Start(context.Background()))
	assert.NoError(t, m.Stop())
}

func TestWorkerManager_ContextCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	ctx, cancel := context.WithCancel(context.Background())
	m := worker.NewWorkerManager(zap.NewNop(), time.Second)
	w := newBlockingWorker("ctx")
	m.Register(w)

	require.NoError(t, m.Start(ctx))
	waitStarted(t, w)
	cancel()

	require.NoError(t, m.Stop())
}

func TestWorkerManager_ShutdownTimeout(t *testing.T) {
	defer goleak.VerifyNone(t)

	m := worker.NewWorkerManager(zap.NewNop(), 20*time.Millisecond)
	w := newBlockingWorker("stuck")
	w.release = make(chan struct{})
	m.Register(w)

	require.NoError(t, m.Start(context.Background()))
	waitStarted(t, w)

	err := m.Stop()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "timed out")

	close(w.release)
}
