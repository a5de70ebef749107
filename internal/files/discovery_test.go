package files

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeFile(t *testing.T, dir, name string, modTime time.Time) {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte("data"), 0o644))
	require.NoError(t, os.Chtimes(path, modTime, modTime))
}

func TestFindRawExtracts(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	writeFile(t, dir, "valeursfoncieres-2023.txt", base)
	writeFile(t, dir, "valeursfoncieres-2024.csv", base.Add(24*time.Hour))
	writeFile(t, dir, "notes.md", base)
	require.NoError(t, os.Mkdir(filepath.Join(dir, "archive"), 0o755))

	files, err := NewDiscovery(dir).FindRawExtracts(".")
	require.NoError(t, err)

	require.Len(t, files, 2)
	assert.Equal(t, "valeursfoncieres-2024.csv", files[0].Name, "newest first")
	assert.Equal(t, "valeursfoncieres-2023.txt", files[1].Name)
}

func TestLatestRawExtract(t *testing.T) {
	dir := t.TempDir()
	base := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	writeFile(t, dir, "old.csv", base)
	writeFile(t, dir, "new.csv", base.Add(time.Hour))

	latest, err := NewDiscovery(dir).LatestRawExtract(".")
	require.NoError(t, err)
	assert.Equal(t, "new.csv", latest.Name)
}

func TestLatestRawExtractEmptyDir(t *testing.T) {
	_, err := NewDiscovery(t.TempDir()).LatestRawExtract(".")
	assert.Error(t, err)
}
