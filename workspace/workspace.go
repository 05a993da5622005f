package workspace

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
)

// Workspace is the scratch directory owned by one request
type Workspace struct {
	ID        string
	Dir       string
	CreatedAt time.Time
}

// Create makes a fresh workspace under root. An empty root means the
// system temp directory.
func Create(root string) (*Workspace, error) {
	id := uuid.NewString()
	dir, err := os.MkdirTemp(root, "melodistiq-"+id[:8]+"-*")
	if err != nil {
		return nil, fmt.Errorf("create workspace: %w", err)
	}
	return &Workspace{ID: id, Dir: dir, CreatedAt: time.Now()}, nil
}

// Upload names the stored copy of an uploaded file. The original name is
// reduced to its extension so client input never reaches the filesystem.
func (w *Workspace) Upload(filename string) string {
	return filepath.Join(w.Dir, "input"+filepath.Ext(filepath.Base(filename)))
}

func (w *Workspace) DecodedWAV() string { return filepath.Join(w.Dir, "decoded.wav") }
func (w *Workspace) StemsDir() string   { return filepath.Join(w.Dir, "stems") }

// Save copies r into the workspace under the upload name for filename.
func (w *Workspace) Save(filename string, r io.Reader) (string, error) {
	dst := w.Upload(filename)
	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("create upload: %w", err)
	}
	defer f.Close()
	if _, err := io.Copy(f, r); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return dst, nil
}

// Cleanup removes the workspace directory and all contents
func (w *Workspace) Cleanup() error {
	return os.RemoveAll(w.Dir)
}
