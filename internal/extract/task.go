package extract

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/hbomb79/ClipSheet/internal/media"
	"github.com/hbomb79/ClipSheet/pkg/logger"
)

type (
	// Clip is the read-only decoded-clip handle a task drives. The
	// concrete implementation lives in internal/ffmpeg; tests swap
	// in fakes.
	Clip interface {
		Duration() float64
		Dimensions() (int, int)
		FrameRate() float64
		VideoCodec() string
		AudioCodec() string
		BitrateBps() string
		SaveFrame(ctx context.Context, timestamp int, outputPath string) error
		Close() error
	}

	// ClipOpener opens the file at path for decoding, probing its
	// container in the process.
	ClipOpener func(path string) (Clip, error)

	TaskConfig struct {
		MaxThumbnails    int
		IncrementSeconds float64
		CaptureTimeout   time.Duration
	}

	// Task extracts one VideoRecord per input path: filesystem facts,
	// probe facts, then one watchdog-guarded frame capture per
	// scheduled timestamp. Tasks are stateless and safe for
	// concurrent use from multiple workers; each Extract call owns
	// its clip handle exclusively and captures frames sequentially.
	Task struct {
		open   ClipOpener
		config TaskConfig
	}
)

func NewTask(config TaskConfig, open ClipOpener) *Task {
	return &Task{open: open, config: config}
}

// Extract produces the record for a single video file. It never
// returns an error and never panics past its own boundary: every
// failure mode is downgraded to either a populated FailureReason
// (per-file) or an empty-string thumbnail entry (per-frame). One bad
// file must never abort the batch.
func (task *Task) Extract(path string) (record *media.VideoRecord) {
	record = media.NewVideoRecord(path)

	defer func() {
		if r := recover(); r != nil {
			log.Emit(logger.ERROR, "Extraction of '%s' panicked: %v\n", path, r)
			record.Fail(fmt.Sprintf("unexpected extraction failure: %v", r))
		}
	}()

	info, err := os.Stat(path)
	if err != nil {
		record.Fail(fmt.Sprintf("cannot stat file: %v", err))
		return record
	}
	record.SizeBytes = info.Size()
	record.Size = media.FormatSize(info.Size())

	clip, err := task.open(path)
	if err != nil {
		record.Fail(fmt.Sprintf("cannot open for decoding: %v", err))
		return record
	}
	defer func() {
		if err := clip.Close(); err != nil {
			log.Emit(logger.WARNING, "Failed to close clip '%s': %v\n", path, err)
		}
	}()

	if codec := clip.VideoCodec(); codec != "" {
		record.VideoCodec = codec
	}
	if codec := clip.AudioCodec(); codec != "" {
		record.AudioCodec = codec
	}
	if bps := clip.BitrateBps(); bps != "" {
		record.Bitrate = media.FormatBitrate(bps)
	}

	record.DurationSeconds = clip.Duration()
	record.Width, record.Height = clip.Dimensions()
	record.Fps = clip.FrameRate()

	// Captures are strictly sequential within one clip; only the
	// schedule's order decides which frame lands at which index, so
	// a failed capture keeps its slot as an empty string.
	schedule := media.Schedule(record.DurationSeconds, task.config.MaxThumbnails, task.config.IncrementSeconds)
	record.ThumbnailPaths = make([]string, 0, len(schedule))
	for index, timestamp := range schedule {
		thumbnail := CaptureFrame(clip, path, index, timestamp, task.config.CaptureTimeout)
		record.ThumbnailPaths = append(record.ThumbnailPaths, thumbnail)
	}

	return record
}
