package internal

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/hbomb79/ClipSheet/internal/extract"
	"github.com/hbomb79/ClipSheet/internal/ffmpeg"
	"github.com/hbomb79/ClipSheet/internal/journal"
	"github.com/hbomb79/ClipSheet/internal/report"
	"github.com/hbomb79/ClipSheet/internal/scan"
	"github.com/hbomb79/ClipSheet/pkg/logger"
)

var log = logger.Get("ClipSheet")

// ClipSheet ties the pipeline together for one invocation: discover
// video files under a root, extract metadata and thumbnails for each
// with a bounded worker pool, journal completed work as it lands, and
// render the PDF report from the full result set.
type ClipSheet struct {
	config *ClipSheetConfig
}

func New(config *ClipSheetConfig) *ClipSheet {
	return &ClipSheet{config: config}
}

// Run executes a full scan-extract-report cycle over rootDir. With
// resume set, records already present in the journal from an
// interrupted run are kept and their files skipped.
func (cs *ClipSheet) Run(rootDir string, resume bool) error {
	paths, err := scan.Scan(rootDir, cs.config.ExtraExtensions())
	if err != nil {
		return err
	}
	log.Emit(logger.INFO, "Discovered %d video files under '%s'\n", len(paths), rootDir)

	jrnl := journal.New(rootDir)
	store := journal.NewStore()
	if resume {
		records, err := jrnl.Load()
		if err != nil {
			return fmt.Errorf("cannot resume: %w", err)
		}

		store.Seed(records)
	}

	ffmpegConfig := &ffmpeg.Config{
		FfmpegBinPath:  cs.config.Ffmpeg.FfmpegBinaryPath,
		FfprobeBinPath: cs.config.Ffmpeg.FfprobeBinaryPath,
		JpegQuality:    cs.config.Thumbnails.JpegQuality,
	}

	task := extract.NewTask(extract.TaskConfig{
		MaxThumbnails:    cs.config.Thumbnails.MaxCount,
		IncrementSeconds: cs.config.Thumbnails.IncrementSeconds,
		CaptureTimeout:   cs.config.CaptureTimeout(),
	}, func(path string) (extract.Clip, error) {
		clip, err := ffmpeg.OpenClip(path, ffmpegConfig)
		if err != nil {
			return nil, err
		}
		return clip, nil
	})

	coordinator := extract.NewCoordinator(cs.config.Concurrent.ExtractionWorkers, task, store, jrnl)
	if err := coordinator.Run(paths); err != nil {
		if errors.Is(err, extract.ErrNoInput) {
			return fmt.Errorf("nothing to report: %w", err)
		}
		return err
	}

	records := store.Records()
	failed := 0
	for _, record := range records {
		if record.Failed() {
			failed++
		}
	}
	log.Emit(logger.INFO, "Extraction complete: %d records (%d broken)\n", len(records), failed)

	reportPath := reportPath(rootDir)
	if err := report.Render(records, reportPath); err != nil {
		return err
	}
	log.Emit(logger.SUCCESS, "Report written to '%s'\n", reportPath)

	return nil
}

// Clean removes the thumbnail directories referenced by the journal
// under rootDir, then the journal itself.
func (cs *ClipSheet) Clean(rootDir string) error {
	jrnl := journal.New(rootDir)
	records, err := jrnl.Load()
	if err != nil {
		return err
	}
	if len(records) == 0 {
		log.Emit(logger.INFO, "No journal under '%s', nothing to clean\n", rootDir)
		return nil
	}

	for _, dir := range journal.ThumbnailDirs(records) {
		if err := os.RemoveAll(dir); err != nil {
			log.Emit(logger.WARNING, "Failed to remove thumbnail directory '%s': %v\n", dir, err)
			continue
		}
		log.Emit(logger.REMOVE, "Removed thumbnail directory '%s'\n", dir)
	}

	if err := jrnl.Remove(); err != nil {
		return fmt.Errorf("failed to remove journal: %w", err)
	}
	log.Emit(logger.SUCCESS, "Cleaned up journal and thumbnails under '%s'\n", rootDir)

	return nil
}

func reportPath(rootDir string) string {
	date := time.Now().Format("2006-01-02")
	name := fmt.Sprintf("%s.report.%s.pdf", filepath.Base(filepath.Clean(rootDir)), date)
	return filepath.Join(rootDir, name)
}
