package images

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestListFiltersToImages(t *testing.T) {
	base := t.TempDir()
	day := filepath.Join(base, "06-01-2026")
	require.NoError(t, os.MkdirAll(filepath.Join(day, "nested"), 0o755))

	for _, name := range []string{
		"alice@example.com_morning.jpg",
		"bob@example.com_evening.PNG",
		"notes.txt",
		"stats.xlsx",
		"carol@example.com_walk.heic",
	} {
		require.NoError(t, os.WriteFile(filepath.Join(day, name), []byte("x"), 0o644))
	}

	names, err := NewLister(base).List("06-01-2026")
	require.NoError(t, err)

	// os.ReadDir sorts by name, so the result order is stable.
	require.Equal(t, []string{
		"alice@example.com_morning.jpg",
		"bob@example.com_evening.PNG",
		"carol@example.com_walk.heic",
	}, names)
}

func TestListMissingFolder(t *testing.T) {
	_, err := NewLister(t.TempDir()).List("07-01-2026")
	require.ErrorIs(t, err, ErrFolderNotFound)
}

func TestListEmptyFolder(t *testing.T) {
	base := t.TempDir()
	require.NoError(t, os.Mkdir(filepath.Join(base, "06-01-2026"), 0o755))

	names, err := NewLister(base).List("06-01-2026")
	require.NoError(t, err)
	require.Empty(t, names)
}
