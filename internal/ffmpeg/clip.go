package ffmpeg

import (
	"context"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/floostack/transcoder"
	"github.com/floostack/transcoder/ffmpeg"
	"github.com/hbomb79/ClipSheet/pkg/logger"
)

var log = logger.Get("FFmpeg")

// Clip is an open handle to a video file. Opening a clip probes the
// container once; the duration/dimension/frame-rate accessors read
// from that snapshot and never touch the file again. SaveFrame spawns
// one short-lived ffmpeg process per captured frame.
//
// A Clip holds no OS resources itself and must not be shared between
// extraction tasks; captures against one clip are expected to run
// sequentially.
type Clip struct {
	path     string
	config   *Config
	metadata transcoder.Metadata
}

// OpenClip probes the file at the given path and returns a handle to
// it. Files that cannot be probed (unreadable or a corrupt container)
// or that contain no streams at all are rejected here, before any
// frame capture is attempted.
func OpenClip(path string, config *Config) (*Clip, error) {
	metadata, err := ProbeFile(path, config)
	if err != nil {
		return nil, err
	}

	if len(metadata.GetStreams()) == 0 {
		return nil, fmt.Errorf("file '%s' contains no streams", path)
	}

	return &Clip{path: path, config: config, metadata: metadata}, nil
}

func (clip *Clip) Path() string { return clip.path }

// Duration returns the container duration in seconds, or 0 if the
// probe did not report one.
func (clip *Clip) Duration() float64 {
	duration, err := strconv.ParseFloat(clip.metadata.GetFormat().GetDuration(), 64)
	if err != nil {
		return 0
	}

	return duration
}

// Dimensions returns the pixel width and height of the first stream
// which reports them.
func (clip *Clip) Dimensions() (int, int) {
	for _, stream := range clip.metadata.GetStreams() {
		if stream.GetWidth() > 0 {
			return stream.GetWidth(), stream.GetHeight()
		}
	}

	return 0, 0
}

// FrameRate returns the average frame rate of the first stream which
// reports one, rounded to 3 decimal places.
func (clip *Clip) FrameRate() float64 {
	for _, stream := range clip.metadata.GetStreams() {
		if rate := parseFrameRate(stream.GetAvgFrameRate()); rate > 0 {
			return rate
		}
	}

	return 0
}

// VideoCodec returns the codec name of the first stream, defaulting
// when the probe reported nothing useful. Stream order follows the
// ffprobe output, where the video stream is conventionally first.
func (clip *Clip) VideoCodec() string {
	streams := clip.metadata.GetStreams()
	if len(streams) < 1 || streams[0].GetCodecName() == "" {
		return ""
	}

	return streams[0].GetCodecName()
}

// AudioCodec returns the codec name of the second stream, or the
// empty string for a clip with no audio.
func (clip *Clip) AudioCodec() string {
	streams := clip.metadata.GetStreams()
	if len(streams) < 2 {
		return ""
	}

	return streams[1].GetCodecName()
}

// BitrateBps returns the declared bit rate (bits per second) of the
// first stream. When the stream carries no bit_rate field - common
// for mkv containers - the 'BPS' stream tag is consulted via a second
// targeted ffprobe invocation. Returns the empty string when neither
// source yields a value.
func (clip *Clip) BitrateBps() string {
	streams := clip.metadata.GetStreams()
	if len(streams) < 1 {
		return ""
	}

	if bitrate := streams[0].GetBitRate(); bitrate != "" {
		return bitrate
	}

	bitrate, err := readStreamBpsTag(clip.path, clip.config)
	if err != nil {
		log.Emit(logger.DEBUG, "BPS tag fallback for '%s' failed: %v\n", clip.path, err)
		return ""
	}

	return bitrate
}

// SaveFrame decodes the frame at the given timestamp (seconds) and
// writes it to outputPath as a JPEG. The ffmpeg process is bound to
// the provided context; cancelling it kills the process.
func (clip *Clip) SaveFrame(ctx context.Context, timestamp int, outputPath string) error {
	if err := os.MkdirAll(filepath.Dir(outputPath), os.ModePerm); err != nil {
		return fmt.Errorf("failed to create thumbnail directory: %w", err)
	}

	seekTime := strconv.Itoa(timestamp)
	frames := 1
	skipAudio := true
	overwrite := true
	quality := clip.config.JpegQuality
	opts := ffmpeg.Options{
		SeekTime:  &seekTime,
		Vframes:   &frames,
		SkipAudio: &skipAudio,
		Overwrite: &overwrite,
		Qscale:    &quality,
	}

	_, err := ffmpeg.
		New(&ffmpeg.Config{
			FfmpegBinPath:  clip.config.FfmpegBinPath,
			FfprobeBinPath: clip.config.FfprobeBinPath,
		}).
		Input(clip.path).
		Output(outputPath).
		WithContext(&ctx).
		Start(opts)
	if err != nil {
		return fmt.Errorf("frame capture at %ds failed: %w", timestamp, err)
	}

	// ffmpeg exits zero but writes nothing when asked to seek past
	// the end of the stream; treat that as a capture failure too.
	if _, err := os.Stat(outputPath); err != nil {
		return fmt.Errorf("frame capture at %ds produced no output", timestamp)
	}

	return nil
}

// Close releases the clip handle. The handle only holds the probe
// snapshot, so this never fails; it exists so callers can treat the
// clip like any other resource.
func (clip *Clip) Close() error {
	clip.metadata = nil
	return nil
}

// parseFrameRate converts ffprobe's rational frame rate notation
// ("30000/1001") to a float rounded to 3 decimal places.
func parseFrameRate(rate string) float64 {
	num, den, found := strings.Cut(rate, "/")
	if !found {
		value, err := strconv.ParseFloat(rate, 64)
		if err != nil {
			return 0
		}
		return round3(value)
	}

	numerator, err := strconv.ParseFloat(num, 64)
	if err != nil {
		return 0
	}
	denominator, err := strconv.ParseFloat(den, 64)
	if err != nil || denominator == 0 {
		return 0
	}

	return round3(numerator / denominator)
}

func round3(value float64) float64 {
	return math.Round(value*1000) / 1000
}
