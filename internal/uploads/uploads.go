// Package uploads maps uploaded image files to product records. It owns only
// a naming policy over a single uploads directory; validating file contents
// is the transport's concern.
package uploads

import (
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"
)

// Dir is an uploads directory handed to its users as an explicit dependency.
// The directory is created at construction, not lazily per call.
type Dir struct {
	path string
}

// New creates the uploads directory if it does not exist yet and returns a
// handle to it.
func New(path string) (*Dir, error) {
	if err := os.MkdirAll(path, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create uploads directory %s: %w", path, err)
	}
	return &Dir{path: path}, nil
}

// Path returns the directory path.
func (d *Dir) Path() string {
	return d.path
}

// DestinationPath returns where a file for the given token should live:
// <dir>/<token><ext>. One file per product ID, overwritten on re-upload.
// ext must include its leading dot, as returned by filepath.Ext.
func (d *Dir) DestinationPath(token, ext string) string {
	return filepath.Join(d.path, token+ext)
}

// FallbackToken returns a unique filename token for uploads whose product ID
// is not known yet, i.e. during creation.
func (d *Dir) FallbackToken() string {
	return strconv.FormatInt(time.Now().UnixMilli(), 10)
}

// Remove deletes the file at path. Callers treat failures as best-effort:
// log and move on.
func (d *Dir) Remove(path string) error {
	if err := os.Remove(path); err != nil {
		return fmt.Errorf("failed to remove %s: %w", path, err)
	}
	return nil
}
