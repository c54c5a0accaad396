package extract_test

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/hbomb79/ClipSheet/internal/extract"
	"github.com/hbomb79/ClipSheet/internal/media"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeClip struct {
	duration      float64
	width, height int
	fps           float64
	videoCodec    string
	audioCodec    string
	bitrateBps    string
	failAt        map[int]error
	closed        bool
}

func (clip *fakeClip) Duration() float64 { return clip.duration }

func (clip *fakeClip) Dimensions() (int, int) { return clip.width, clip.height }

func (clip *fakeClip) FrameRate() float64 { return clip.fps }

func (clip *fakeClip) VideoCodec() string { return clip.videoCodec }

func (clip *fakeClip) AudioCodec() string { return clip.audioCodec }

func (clip *fakeClip) BitrateBps() string { return clip.bitrateBps }

func (clip *fakeClip) Close() error { clip.closed = true; return nil }

func (clip *fakeClip) SaveFrame(_ context.Context, timestamp int, _ string) error {
	if err, ok := clip.failAt[timestamp]; ok {
		return err
	}
	return nil
}

func defaultTaskConfig() extract.TaskConfig {
	return extract.TaskConfig{
		MaxThumbnails:    16,
		IncrementSeconds: 600,
		CaptureTimeout:   time.Second,
	}
}

func tempVideoFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "clip.mp4")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func Test_Extract_PopulatesRecordFromClip(t *testing.T) {
	t.Parallel()

	path := tempVideoFile(t, "fake video content")
	clip := &fakeClip{
		duration:   1800,
		width:      1920,
		height:     1080,
		fps:        23.976,
		videoCodec: "h264",
		audioCodec: "aac",
		bitrateBps: "5000000",
	}

	task := extract.NewTask(defaultTaskConfig(), func(string) (extract.Clip, error) { return clip, nil })
	record := task.Extract(path)

	require.False(t, record.Failed(), "unexpected failure: %s", record.FailureReason)
	assert.Equal(t, int64(len("fake video content")), record.SizeBytes)
	assert.Equal(t, "18 bytes", record.Size)
	assert.Equal(t, 1800.0, record.DurationSeconds)
	assert.Equal(t, "1920x1080", record.Resolution())
	assert.Equal(t, 23.976, record.Fps)
	assert.Equal(t, "h264", record.VideoCodec)
	assert.Equal(t, "aac", record.AudioCodec)
	assert.Equal(t, "5000 kbps", record.Bitrate)
	assert.True(t, clip.closed, "clip handle must be released")

	// 1800s at one capture per 600s: 3 captures at 450/900/1350.
	require.Len(t, record.ThumbnailPaths, 3)
	for i, thumbnail := range record.ThumbnailPaths {
		assert.Equal(t, extract.ThumbnailPath(path, i), thumbnail)
	}
}

func Test_Extract_FailedCaptureKeepsItsSlot(t *testing.T) {
	t.Parallel()

	path := tempVideoFile(t, "fake video content")
	clip := &fakeClip{
		duration: 1800,
		failAt:   map[int]error{900: errors.New("seek failed")},
	}

	task := extract.NewTask(defaultTaskConfig(), func(string) (extract.Clip, error) { return clip, nil })
	record := task.Extract(path)

	require.False(t, record.Failed())
	require.Len(t, record.ThumbnailPaths, 3, "a failed capture must not shrink the thumbnail list")
	assert.Equal(t, extract.ThumbnailPath(path, 0), record.ThumbnailPaths[0])
	assert.Empty(t, record.ThumbnailPaths[1], "the failed capture must occupy its slot as an empty string")
	assert.Equal(t, extract.ThumbnailPath(path, 2), record.ThumbnailPaths[2])
}

func Test_Extract_ProbeDefaultsSurviveEmptyClipFacts(t *testing.T) {
	t.Parallel()

	path := tempVideoFile(t, "x")
	clip := &fakeClip{duration: 60}

	task := extract.NewTask(defaultTaskConfig(), func(string) (extract.Clip, error) { return clip, nil })
	record := task.Extract(path)

	require.False(t, record.Failed())
	assert.Equal(t, media.UnknownCodec, record.VideoCodec)
	assert.Equal(t, media.NoAudio, record.AudioCodec)
	assert.Equal(t, media.UnknownBitrate, record.Bitrate)
}

func Test_Extract_NeverRaisesPastItsBoundary(t *testing.T) {
	t.Parallel()

	goodPath := tempVideoFile(t, "fake video content")
	unreadablePath := tempVideoFile(t, "")

	task := extract.NewTask(defaultTaskConfig(), func(path string) (extract.Clip, error) {
		if path == unreadablePath {
			return nil, errors.New("moov atom not found")
		}
		return &fakeClip{duration: 60}, nil
	})

	missingPath := filepath.Join(t.TempDir(), "does-not-exist.mp4")
	records := []*media.VideoRecord{
		task.Extract(missingPath),
		task.Extract(unreadablePath),
		task.Extract(goodPath),
	}

	require.Len(t, records, 3)
	assert.True(t, records[0].Failed(), "a nonexistent path must produce a failure record")
	assert.True(t, records[1].Failed(), "an unopenable file must produce a failure record")
	assert.False(t, records[2].Failed(), "the valid file must still extract cleanly")

	// Failure records stay minimal: no probe facts, no thumbnails.
	assert.Empty(t, records[1].ThumbnailPaths)
	assert.Equal(t, media.UnknownCodec, records[1].VideoCodec)
	assert.Equal(t, "0 bytes", records[1].Size, "size is set before the decode attempt")
}

func Test_Extract_PanicDowngradedToFailureRecord(t *testing.T) {
	t.Parallel()

	path := tempVideoFile(t, "fake video content")
	task := extract.NewTask(defaultTaskConfig(), func(string) (extract.Clip, error) {
		panic(fmt.Errorf("unexpected decoder state"))
	})

	record := task.Extract(path)
	require.True(t, record.Failed())
	assert.Contains(t, record.FailureReason, "unexpected")
	assert.Empty(t, record.ThumbnailPaths)
}
