package ffmpeg

import (
	"fmt"

	"github.com/floostack/transcoder"
	"github.com/floostack/transcoder/ffmpeg"
)

// Config holds the paths to the ffmpeg/ffprobe binaries used for
// probing and frame capture.
type Config struct {
	FfmpegBinPath  string
	FfprobeBinPath string

	// JpegQuality is the qscale passed to ffmpeg when writing
	// thumbnail frames (2 is best, 31 is worst).
	JpegQuality uint32
}

func ProbeFile(path string, config *Config) (transcoder.Metadata, error) {
	cfg := ffmpeg.Config{
		FfmpegBinPath:  config.FfmpegBinPath,
		FfprobeBinPath: config.FfprobeBinPath,
	}

	transcoder := ffmpeg.New(&cfg).Input(path)
	metadata, err := transcoder.GetMetadata()
	if err != nil {
		return nil, fmt.Errorf("failed to extract file metadata information using ffprobe: %s", err.Error())
	}

	return metadata, nil
}
