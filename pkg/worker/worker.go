package worker

import "github.com/hbomb79/ClipSheet/pkg/logger"

var workerLogger = logger.Get("Worker")

type WorkerStatus int

const (
	Idle WorkerStatus = iota
	Working
	Finished
)

// Task is the unit of work a Worker repeatedly executes. Execute
// should claim one piece of work and process it, returning false
// when no work remains (at which point the worker stops). An error
// is logged but does not stop the worker - the remaining work is
// still attempted.
type Task interface {
	Execute(Worker) (bool, error)
}

type Worker interface {
	Start()
	Status() WorkerStatus
	Label() string
}

type taskWorker struct {
	label         string
	task          Task
	currentStatus WorkerStatus
}

func NewWorker(label string, task Task) *taskWorker {
	return &taskWorker{
		label:         label,
		task:          task,
		currentStatus: Idle,
	}
}

// Start runs this workers task in a loop until the task reports
// that no work remains. Start blocks; the owning pool calls it
// on a dedicated goroutine.
func (worker *taskWorker) Start() {
	workerLogger.Emit(logger.NEW, "Starting worker with label %v\n", worker.label)
	worker.currentStatus = Working

	for {
		more, err := worker.task.Execute(worker)
		if err != nil {
			workerLogger.Emit(logger.ERROR, "Worker with label %v has reported an error(%T): %v\n", worker.label, err, err.Error())
		}
		if !more {
			break
		}
	}

	worker.currentStatus = Finished
	workerLogger.Emit(logger.STOP, "Worker with label %v has stopped\n", worker.label)
}

// Status returns the current status of this worker
func (worker *taskWorker) Status() WorkerStatus {
	return worker.currentStatus
}

// Label returns the label for this worker
func (worker *taskWorker) Label() string {
	return worker.label
}
