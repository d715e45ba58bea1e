// Package images lists the screenshot files dropped into a challenge-day
// folder.
package images

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// ErrFolderNotFound is returned when the requested day folder does not exist.
var ErrFolderNotFound = errors.New("folder not found")

var imageExtensions = map[string]struct{}{
	".jpg":  {},
	".jpeg": {},
	".png":  {},
	".webp": {},
	".bmp":  {},
	".tif":  {},
	".tiff": {},
	".heic": {},
}

// Lister scans day folders under the synced drive base directory.
type Lister struct {
	baseDir string
}

// NewLister builds a Lister rooted at baseDir.
func NewLister(baseDir string) *Lister {
	return &Lister{baseDir: baseDir}
}

// FolderPath returns the path of a day folder under the base directory.
func (l *Lister) FolderPath(folderName string) string {
	return filepath.Join(l.baseDir, folderName)
}

// List returns the names of all image files in the folder, sorted by
// filename. Non-image files are ignored. Names are returned bare because the
// filename doubles as the processed-set key and the participant identity
// source; join with FolderPath to open the file.
func (l *Lister) List(folderName string) ([]string, error) {
	dir := l.FolderPath(folderName)
	entries, err := os.ReadDir(dir)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return nil, fmt.Errorf("%w: %s", ErrFolderNotFound, dir)
		}
		return nil, fmt.Errorf("read folder %s: %w", dir, err)
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		ext := strings.ToLower(filepath.Ext(entry.Name()))
		if _, ok := imageExtensions[ext]; ok {
			names = append(names, entry.Name())
		}
	}
	return names, nil
}
