package extract

import (
	"context"
	"fmt"
	"path/filepath"
	"time"

	"github.com/hbomb79/ClipSheet/pkg/logger"
)

var log = logger.Get("Extract")

// FrameSaver is the single decode-and-write operation the watchdog
// guards. *ffmpeg.Clip satisfies this.
type FrameSaver interface {
	SaveFrame(ctx context.Context, timestamp int, outputPath string) error
}

// CaptureFrame captures one frame of the clip at the given timestamp,
// bounded by a hard wall-clock timeout. It returns the written file
// path on success and the empty string on failure or timeout - never
// an error, and never after more than ~timeout has elapsed.
//
// On timeout the underlying capture is NOT terminated; it keeps
// running on its goroutine and its eventual result is discarded. The
// batch keeps moving at the cost of a leaked background capture.
// Capture errors (corrupt frame, out-of-range timestamp) are
// swallowed the same way, as an immediate empty-string result.
func CaptureFrame(clip FrameSaver, videoPath string, index int, timestamp int, timeout time.Duration) string {
	outputPath := ThumbnailPath(videoPath, index)

	done := make(chan error, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- fmt.Errorf("frame capture panicked: %v", r)
			}
		}()

		done <- clip.SaveFrame(context.Background(), timestamp, outputPath)
	}()

	select {
	case err := <-done:
		if err != nil {
			log.Emit(logger.WARNING, "Dropping frame %d of '%s': %v\n", index+1, videoPath, err)
			return ""
		}
		return outputPath
	case <-time.After(timeout):
		log.Emit(logger.WARNING, "Frame capture %d of '%s' at %ds exceeded %s timeout, abandoning it\n", index+1, videoPath, timestamp, timeout)
		return ""
	}
}

// ThumbnailPath is the output location for the index-th (zero based)
// thumbnail of the given video: a 'thumbnails' directory next to the
// video itself.
func ThumbnailPath(videoPath string, index int) string {
	directory := filepath.Dir(videoPath)
	filename := filepath.Base(videoPath)

	return filepath.Join(directory, "thumbnails", fmt.Sprintf("%s_thumb_%d.jpg", filename, index+1))
}
