package extract_test

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/hbomb79/ClipSheet/internal/extract"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeFrameSaver struct {
	delay time.Duration
	err   error
	panic bool
}

func (saver *fakeFrameSaver) SaveFrame(_ context.Context, _ int, _ string) error {
	if saver.panic {
		panic("decoder exploded")
	}
	if saver.delay > 0 {
		time.Sleep(saver.delay)
	}
	return saver.err
}

func Test_CaptureFrame_ReturnsOutputPathOnSuccess(t *testing.T) {
	t.Parallel()

	result := extract.CaptureFrame(&fakeFrameSaver{}, "/videos/clip.mp4", 0, 450, time.Second)
	assert.Equal(t, extract.ThumbnailPath("/videos/clip.mp4", 0), result)
}

func Test_CaptureFrame_TimeoutReturnsPromptly(t *testing.T) {
	t.Parallel()

	saver := &fakeFrameSaver{delay: 2 * time.Second}

	started := time.Now()
	result := extract.CaptureFrame(saver, "/videos/clip.mp4", 0, 450, 100*time.Millisecond)
	elapsed := time.Since(started)

	assert.Empty(t, result, "a timed out capture must yield an empty string")
	require.Less(t, elapsed, time.Second, "the caller must not be blocked past the timeout")
}

func Test_CaptureFrame_DecodeErrorIsSwallowed(t *testing.T) {
	t.Parallel()

	saver := &fakeFrameSaver{err: errors.New("corrupt frame")}
	assert.Empty(t, extract.CaptureFrame(saver, "/videos/clip.mp4", 2, 900, time.Second))
}

func Test_CaptureFrame_DecodePanicIsSwallowed(t *testing.T) {
	t.Parallel()

	assert.Empty(t, extract.CaptureFrame(&fakeFrameSaver{panic: true}, "/videos/clip.mp4", 0, 10, time.Second))
}

func Test_ThumbnailPath_NextToVideo(t *testing.T) {
	t.Parallel()

	expected := filepath.Join("/videos/season1", "thumbnails", "ep1.mkv_thumb_3.jpg")
	assert.Equal(t, expected, extract.ThumbnailPath("/videos/season1/ep1.mkv", 2))
}
