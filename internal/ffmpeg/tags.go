package ffmpeg

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os/exec"

	"github.com/mitchellh/mapstructure"
)

type probedStream struct {
	Index int `mapstructure:"index"`
	Tags  struct {
		Bps string `mapstructure:"BPS"`
	} `mapstructure:"tags"`
}

// readStreamBpsTag shells out to ffprobe for the stream tags of the
// given file and returns the 'BPS' tag (bits per second) of the first
// stream. Matroska muxers record the bit rate here rather than in the
// stream's bit_rate field, which is why the probe snapshot alone is
// not always enough.
func readStreamBpsTag(path string, config *Config) (string, error) {
	cmd := exec.Command(
		config.FfprobeBinPath,
		"-v", "error",
		"-show_streams",
		"-show_entries", "stream_tags=BPS",
		"-of", "json",
		path,
	)

	var stdout bytes.Buffer
	cmd.Stdout = &stdout
	if err := cmd.Run(); err != nil {
		return "", fmt.Errorf("ffprobe tag query failed: %w", err)
	}

	var document struct {
		Streams []map[string]interface{} `json:"streams"`
	}
	if err := json.Unmarshal(stdout.Bytes(), &document); err != nil {
		return "", fmt.Errorf("malformed ffprobe tag output: %w", err)
	}

	if len(document.Streams) == 0 {
		return "", fmt.Errorf("ffprobe reported no streams for '%s'", path)
	}

	var stream probedStream
	if err := mapstructure.Decode(document.Streams[0], &stream); err != nil {
		return "", fmt.Errorf("failed to decode ffprobe stream: %w", err)
	}

	if stream.Tags.Bps == "" {
		return "", fmt.Errorf("stream 0 of '%s' carries no BPS tag", path)
	}

	return stream.Tags.Bps, nil
}
