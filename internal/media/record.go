package media

import (
	"fmt"
	"strconv"
)

// Default field values used when the probe yields fewer streams
// than expected, or malformed output.
const (
	UnknownCodec   = "Unknown"
	NoAudio        = "No audio"
	UnknownBitrate = "Unknown"
)

// VideoRecord is the result of extracting one video file. A record is
// created at the start of a file's extraction task, mutated only by
// that task, appended exactly once to the run's result store and is
// immutable thereafter.
//
// A record with a non-empty FailureReason carries only the Path and
// Size fields; the per-frame fields stay at their defaults and
// ThumbnailPaths stays empty.
type VideoRecord struct {
	Path            string   `json:"path"`
	SizeBytes       int64    `json:"size_bytes"`
	Size            string   `json:"size"`
	DurationSeconds float64  `json:"duration_seconds"`
	Width           int      `json:"width"`
	Height          int      `json:"height"`
	Fps             float64  `json:"fps"`
	VideoCodec      string   `json:"video_codec"`
	AudioCodec      string   `json:"audio_codec"`
	Bitrate         string   `json:"bitrate"`
	ThumbnailPaths  []string `json:"thumbnails"`
	FailureReason   string   `json:"failure_reason,omitempty"`
}

func NewVideoRecord(path string) *VideoRecord {
	return &VideoRecord{
		Path:       path,
		VideoCodec: UnknownCodec,
		AudioCodec: NoAudio,
		Bitrate:    UnknownBitrate,
	}
}

// Fail marks this record as an unrecoverable per-file failure. Any
// thumbnails captured so far are discarded; a failed record never
// carries a partial thumbnail set.
func (record *VideoRecord) Fail(reason string) {
	record.FailureReason = reason
	record.ThumbnailPaths = nil
}

func (record *VideoRecord) Failed() bool {
	return record.FailureReason != ""
}

func (record *VideoRecord) Resolution() string {
	return fmt.Sprintf("%dx%d", record.Width, record.Height)
}

// FormatSize renders a byte count as a human string, stepping through
// bytes/KB/MB/GB at 1024 thresholds with 3 decimal places.
func FormatSize(sizeBytes int64) string {
	const unit = 1024
	switch {
	case sizeBytes < unit:
		return strconv.FormatInt(sizeBytes, 10) + " bytes"
	case sizeBytes < unit*unit:
		return formatRounded(float64(sizeBytes)/unit) + " KB"
	case sizeBytes < unit*unit*unit:
		return formatRounded(float64(sizeBytes)/(unit*unit)) + " MB"
	default:
		return formatRounded(float64(sizeBytes)/(unit*unit*unit)) + " GB"
	}
}

// FormatBitrate converts a bits-per-second string (as reported by
// ffprobe's 'bit_rate' field or 'BPS' stream tag) to whole kbps by
// integer division. A value which cannot be parsed is passed back
// unchanged so "Unknown" survives the round trip.
func FormatBitrate(bitsPerSecond string) string {
	bits, err := strconv.ParseInt(bitsPerSecond, 10, 64)
	if err != nil {
		return bitsPerSecond
	}

	return fmt.Sprintf("%d kbps", bits/1000)
}

// formatRounded trims the trailing zeroes left behind by a fixed
// 3-decimal rendering (1.500 -> 1.5), matching how the sizes read
// in the final report.
func formatRounded(value float64) string {
	return strconv.FormatFloat(round3(value), 'f', -1, 64)
}

func round3(value float64) float64 {
	return float64(int64(value*1000+0.5)) / 1000
}
