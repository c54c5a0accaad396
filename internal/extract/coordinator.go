package extract

import (
	"errors"
	"fmt"
	"sync"

	"github.com/hbomb79/ClipSheet/internal/journal"
	"github.com/hbomb79/ClipSheet/internal/media"
	"github.com/hbomb79/ClipSheet/pkg/logger"
	"github.com/hbomb79/ClipSheet/pkg/worker"
	"github.com/schollz/progressbar/v3"
)

// ErrNoInput is the run-fatal condition raised when a run is started
// with no video files to process.
var ErrNoInput = errors.New("no video files to process")

type (
	// Extractor produces one record per path. *Task satisfies this.
	Extractor interface {
		Extract(path string) *media.VideoRecord
	}

	// Coordinator fans a path list out across a fixed-size worker
	// pool and fans the completed records back into the run's result
	// store. The store, the journal and the progress indicator are
	// the only shared mutable state, all guarded by the embedded
	// mutex; the lock is held for the append+journal+progress region
	// only, never while a worker is probing or capturing frames.
	Coordinator struct {
		*sync.Mutex
		extractor   Extractor
		store       *journal.Store
		journal     *journal.Journal
		workerCount int

		pending []string
		next    int
		bar     *progressbar.ProgressBar
	}
)

func NewCoordinator(workerCount int, extractor Extractor, store *journal.Store, jrnl *journal.Journal) *Coordinator {
	if workerCount < 1 {
		workerCount = 1
	}

	return &Coordinator{
		Mutex:       &sync.Mutex{},
		extractor:   extractor,
		store:       store,
		journal:     jrnl,
		workerCount: workerCount,
	}
}

// Run processes every path to completion and returns once the worker
// pool has drained. Paths which already have a completed record in
// the store (a resumed run) are skipped. Completion order is the
// order tasks finish, not the order they were submitted.
func (coordinator *Coordinator) Run(paths []string) error {
	if len(paths) == 0 {
		return ErrNoInput
	}

	pending := make([]string, 0, len(paths))
	for _, path := range paths {
		if coordinator.store.Has(path) {
			log.Emit(logger.DEBUG, "Skipping '%s', journal already holds a completed record for it\n", path)
			continue
		}

		pending = append(pending, path)
	}

	coordinator.pending = pending
	coordinator.next = 0
	coordinator.bar = progressbar.NewOptions(len(paths),
		progressbar.OptionSetDescription("Extracting"),
		progressbar.OptionShowCount(),
		progressbar.OptionSetWidth(40),
		progressbar.OptionSetRenderBlankState(true),
	)
	if resumed := len(paths) - len(pending); resumed > 0 {
		log.Emit(logger.INFO, "Resuming run: %d of %d files already journalled\n", resumed, len(paths))
		coordinator.bar.Add(resumed)
	}

	if len(pending) == 0 {
		return nil
	}

	pool := worker.NewWorkerPool()
	for i := 0; i < coordinator.workerCount; i++ {
		label := fmt.Sprintf("extract-worker-%d", i)
		pool.PushWorker(worker.NewWorker(label, coordinator))
	}

	if err := pool.Start(); err != nil {
		return err
	}
	pool.Wait()

	return nil
}

// Execute is the worker task body: claim the next pending path,
// extract it, and publish the completed record. Reports no work left
// once the path list is exhausted.
func (coordinator *Coordinator) Execute(_ worker.Worker) (bool, error) {
	path, ok := coordinator.claimNextPath()
	if !ok {
		return false, nil
	}

	record := coordinator.extractor.Extract(path)
	coordinator.complete(record)

	return true, nil
}

// claimNextPath hands out pending paths in submission order, one per
// call. Takes ownership of the mutex for the claim only.
func (coordinator *Coordinator) claimNextPath() (string, bool) {
	coordinator.Lock()
	defer coordinator.Unlock()

	if coordinator.next >= len(coordinator.pending) {
		return "", false
	}

	path := coordinator.pending[coordinator.next]
	coordinator.next++
	return path, true
}

// complete appends the record to the store, rewrites the journal with
// the full current result set and advances the progress indicator -
// one critical section, so the journal on disk always reflects a set
// of fully completed records.
func (coordinator *Coordinator) complete(record *media.VideoRecord) {
	coordinator.Lock()
	defer coordinator.Unlock()

	coordinator.store.Append(record)
	if err := coordinator.journal.Write(coordinator.store.Records()); err != nil {
		log.Emit(logger.ERROR, "Failed to journal completed work: %v\n", err)
	}
	coordinator.bar.Add(1)

	if record.Failed() {
		log.Emit(logger.WARNING, "Completed '%s' with failure: %s\n", record.Path, record.FailureReason)
	} else {
		log.Emit(logger.DEBUG, "Completed '%s' (%d thumbnails)\n", record.Path, len(record.ThumbnailPaths))
	}
}
