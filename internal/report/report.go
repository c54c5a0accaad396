// Package report renders the final PDF: one section per video with a
// metadata table and a thumbnail grid. Records that failed extraction
// are still rendered, flagged as broken, rather than silently
// dropped.
package report

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/go-pdf/fpdf"
	"github.com/hbomb79/ClipSheet/internal/media"
)

const (
	rowHeight      = 7.0
	thumbsPerRow   = 4
	thumbnailRatio = 9.0 / 16.0
)

// Render lays the given records out to a PDF at outputPath. The
// records are sorted by path first; the store hands them over in
// completion order, which is not stable between runs.
func Render(records []*media.VideoRecord, outputPath string) error {
	sorted := make([]*media.VideoRecord, len(records))
	copy(sorted, records)
	sort.Slice(sorted, func(i, j int) bool { return sorted[i].Path < sorted[j].Path })

	pdf := fpdf.New("P", "mm", "A4", "")
	pdf.SetAutoPageBreak(true, 15)
	addReportHeader(pdf)

	for _, record := range sorted {
		addVideoSection(pdf, record)
	}

	if err := pdf.OutputFileAndClose(outputPath); err != nil {
		return fmt.Errorf("failed to render report to '%s': %w", outputPath, err)
	}

	return nil
}

func addReportHeader(pdf *fpdf.Fpdf) {
	pdf.AddPage()
	pdf.SetFont("Helvetica", "B", 16)
	pdf.CellFormat(0, 10, "ClipSheet Report", "", 1, "C", false, 0, "")
	pdf.Ln(4)
}

func addVideoSection(pdf *fpdf.Fpdf, record *media.VideoRecord) {
	title := filepath.Base(record.Path)
	pdf.Bookmark(title, 0, -1)

	pdf.SetFont("Helvetica", "B", 12)
	pdf.CellFormat(0, 8, title, "", 1, "L", false, 0, "")

	if record.Failed() {
		addBrokenFileSection(pdf, record)
		pdf.Ln(4)
		return
	}

	addMetadataTable(pdf, record)
	pdf.Ln(2)
	addThumbnailGrid(pdf, record.ThumbnailPaths)
	pdf.Ln(4)
}

// addBrokenFileSection renders the distinguished section for a record
// with a failure reason, in place of the normal metadata table.
func addBrokenFileSection(pdf *fpdf.Fpdf, record *media.VideoRecord) {
	pdf.SetFont("Helvetica", "", 10)
	pdf.SetTextColor(180, 0, 0)
	pdf.CellFormat(0, rowHeight, fmt.Sprintf("BROKEN FILE: %s", record.FailureReason), "1", 1, "L", false, 0, "")
	pdf.SetTextColor(0, 0, 0)
	pdf.SetFont("Helvetica", "", 10)
	pdf.CellFormat(0, rowHeight, fmt.Sprintf("Path: %s    Size: %s", record.Path, record.Size), "1", 1, "L", false, 0, "")
}

// addMetadataTable lays out the metadata facts in a four column grid
// (label, value, label, value) with the path spanning the first row.
func addMetadataTable(pdf *fpdf.Fpdf, record *media.VideoRecord) {
	pdf.SetFont("Helvetica", "", 10)

	width := contentWidth(pdf)
	labelW := width / 6
	valueW := width / 3

	cell := func(w float64, text string, lineBreak int) {
		pdf.CellFormat(w, rowHeight, text, "1", lineBreak, "L", false, 0, "")
	}

	cell(labelW, "Video Path", 0)
	cell(width-labelW, record.Path, 1)

	cell(labelW, "Duration", 0)
	cell(valueW, fmt.Sprintf("%d minutes", int(record.DurationSeconds)/60), 0)
	cell(labelW, "Resolution", 0)
	cell(valueW, record.Resolution(), 1)

	cell(labelW, "Bitrate", 0)
	cell(valueW, record.Bitrate, 0)
	cell(labelW, "FPS", 0)
	cell(valueW, fmt.Sprintf("%v", record.Fps), 1)

	cell(labelW, "Video Codec", 0)
	cell(valueW, record.VideoCodec, 0)
	cell(labelW, "Audio Codec", 0)
	cell(valueW, record.AudioCodec, 1)

	cell(labelW, "Size", 0)
	cell(width-labelW, record.Size, 1)
}

// addThumbnailGrid renders the thumbnails four to a row, preserving
// each entry's position: a failed capture occupies its cell as a
// placeholder rather than shifting later thumbnails into its place.
func addThumbnailGrid(pdf *fpdf.Fpdf, thumbnails []string) {
	if len(thumbnails) == 0 {
		return
	}

	width := contentWidth(pdf)
	cellW := width / thumbsPerRow
	cellH := cellW * thumbnailRatio
	left, _, _, bottom := pdf.GetMargins()
	_, pageH := pdf.GetPageSize()

	for i := 0; i < len(thumbnails); i += thumbsPerRow {
		if pdf.GetY()+cellH > pageH-bottom {
			pdf.AddPage()
		}

		y := pdf.GetY()
		for col := 0; col < thumbsPerRow && i+col < len(thumbnails); col++ {
			x := left + float64(col)*cellW
			addThumbnailCell(pdf, thumbnails[i+col], x, y, cellW, cellH)
		}
		pdf.SetXY(left, y+cellH)
	}
}

func addThumbnailCell(pdf *fpdf.Fpdf, thumbnail string, x, y, w, h float64) {
	if thumbnail == "" || !fileExists(thumbnail) {
		pdf.SetXY(x, y)
		pdf.SetFont("Helvetica", "I", 8)
		pdf.CellFormat(w, h, "unavailable", "1", 0, "C", false, 0, "")
		return
	}

	pdf.ImageOptions(thumbnail, x, y, w, h, false, fpdf.ImageOptions{ImageType: "JPG"}, 0, "")
}

func contentWidth(pdf *fpdf.Fpdf) float64 {
	left, _, right, _ := pdf.GetMargins()
	pageW, _ := pdf.GetPageSize()
	return pageW - left - right
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
