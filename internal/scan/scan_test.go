package scan_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/hbomb79/ClipSheet/internal/scan"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func populateTree(t *testing.T, rootDir string, files []string) {
	t.Helper()
	for _, file := range files {
		path := filepath.Join(rootDir, file)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte("x"), 0o644))
	}
}

func Test_Scan_FiltersByExtensionCaseInsensitively(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	populateTree(t, rootDir, []string{
		"a.mp4",
		"b.MKV",
		"notes.txt",
		"season1/episode1.Avi",
		"season1/subtitles.srt",
		"trailer.m4v",
	})

	paths, err := scan.Scan(rootDir, nil)
	require.NoError(t, err)

	relative := make([]string, 0, len(paths))
	for _, path := range paths {
		rel, err := filepath.Rel(rootDir, path)
		require.NoError(t, err)
		relative = append(relative, rel)
	}

	assert.Equal(t, []string{"a.mp4", "b.MKV", filepath.Join("season1", "episode1.Avi"), "trailer.m4v"}, relative)
}

func Test_Scan_SortedForDeterministicOrder(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	populateTree(t, rootDir, []string{"z.mp4", "a.mp4", "m.mp4"})

	paths, err := scan.Scan(rootDir, nil)
	require.NoError(t, err)
	require.Len(t, paths, 3)
	assert.True(t, paths[0] < paths[1] && paths[1] < paths[2])
}

func Test_Scan_ExtraExtensionsWidenTheAllowList(t *testing.T) {
	t.Parallel()

	rootDir := t.TempDir()
	populateTree(t, rootDir, []string{"a.webm", "b.flv", "c.mp4"})

	paths, err := scan.Scan(rootDir, nil)
	require.NoError(t, err)
	assert.Len(t, paths, 1, "webm/flv are not on the default allow-list")

	paths, err = scan.Scan(rootDir, []string{"webm", ".FLV"})
	require.NoError(t, err)
	assert.Len(t, paths, 3)
}

func Test_Scan_MissingRootIsAnError(t *testing.T) {
	t.Parallel()

	_, err := scan.Scan(filepath.Join(t.TempDir(), "nope"), nil)
	assert.Error(t, err)
}
