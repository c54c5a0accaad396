package worker_test

import (
	"errors"
	"sync"
	"testing"

	"github.com/hbomb79/ClipSheet/pkg/worker"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type countdownTask struct {
	mutex     sync.Mutex
	remaining int
	executed  int
	err       error
}

func (task *countdownTask) Execute(_ worker.Worker) (bool, error) {
	task.mutex.Lock()
	defer task.mutex.Unlock()

	if task.remaining == 0 {
		return false, nil
	}

	task.remaining--
	task.executed++
	return true, task.err
}

func Test_Pool_DrainsSharedTask(t *testing.T) {
	t.Parallel()

	task := &countdownTask{remaining: 25}
	pool := worker.NewWorkerPool()
	for i := 0; i < 4; i++ {
		require.NoError(t, pool.PushWorker(worker.NewWorker("test-worker", task)))
	}

	require.NoError(t, pool.Start())
	pool.Wait()

	assert.Equal(t, 25, task.executed)
	assert.Equal(t, 0, task.remaining)
	assert.Equal(t, 4, pool.Size())
}

func Test_Pool_TaskErrorsDoNotStopWorkers(t *testing.T) {
	t.Parallel()

	task := &countdownTask{remaining: 10, err: errors.New("transient")}
	pool := worker.NewWorkerPool()
	require.NoError(t, pool.PushWorker(worker.NewWorker("test-worker", task)))

	require.NoError(t, pool.Start())
	pool.Wait()

	assert.Equal(t, 10, task.executed, "an erroring task must still be driven until drained")
}

func Test_Pool_LifecycleGuards(t *testing.T) {
	t.Parallel()

	pool := worker.NewWorkerPool()
	require.NoError(t, pool.PushWorker(worker.NewWorker("test-worker", &countdownTask{})))
	require.NoError(t, pool.Start())

	assert.Error(t, pool.Start(), "a pool cannot be started twice")
	assert.Error(t, pool.PushWorker(worker.NewWorker("late", &countdownTask{})), "workers cannot join a started pool")

	pool.Wait()
}
