package workspace

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateAndCleanup(t *testing.T) {
	root := t.TempDir()
	w, err := Create(root)
	require.NoError(t, err)

	assert := assert.New(t)
	assert.Equal(root, filepath.Dir(w.Dir))
	assert.True(strings.HasPrefix(filepath.Base(w.Dir), "melodistiq-"))
	assert.NotEmpty(w.ID)
	assert.DirExists(w.Dir)

	path, err := w.Save("song.MID", strings.NewReader("data"))
	require.NoError(t, err)
	assert.FileExists(path)

	assert.NoError(w.Cleanup())
	_, err = os.Stat(w.Dir)
	assert.True(errors.Is(err, os.ErrNotExist))
}

func TestWorkspacesAreIsolated(t *testing.T) {
	root := t.TempDir()
	a, err := Create(root)
	require.NoError(t, err)
	b, err := Create(root)
	require.NoError(t, err)
	assert.NotEqual(t, a.Dir, b.Dir)
}

func TestUploadKeepsOnlyExtension(t *testing.T) {
	w := &Workspace{Dir: "/work"}
	assert := assert.New(t)
	assert.Equal("/work/input.mid", w.Upload("../../etc/passwd.mid"))
	assert.Equal("/work/input.wav", w.Upload("my song.wav"))
	assert.Equal("/work/input", w.Upload("noext"))
}
