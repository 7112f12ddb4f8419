package printer

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDirSpool_WriteRemove(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "spool")
	s, err := NewDirSpool(dir, nil)
	require.NoError(t, err)

	path, err := s.Write("job-1.png", []byte("PNG"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
	assert.True(t, strings.HasSuffix(path, "-job-1.png"))

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "PNG", string(data))

	s.Remove(path)
	_, err = os.Stat(path)
	assert.True(t, os.IsNotExist(err))
	s.Remove(path)
}

func TestDirSpool_NoEscapaDelDirectorio(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirSpool(dir, nil)
	require.NoError(t, err)

	path, err := s.Write("../../etc/passwd", []byte("x"))
	require.NoError(t, err)
	assert.Equal(t, dir, filepath.Dir(path))
}

func TestDirSpool_Purge(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirSpool(dir, nil)
	require.NoError(t, err)

	old, err := s.Write("old.pdf", []byte("x"))
	require.NoError(t, err)
	past := time.Now().Add(-2 * time.Hour)
	require.NoError(t, os.Chtimes(old, past, past))
	fresh, err := s.Write("fresh.pdf", []byte("x"))
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "ajeno.txt"), []byte("x"), 0o600))
	require.NoError(t, os.Chtimes(filepath.Join(dir, "ajeno.txt"), past, past))

	n, err := s.Purge(time.Hour)
	require.NoError(t, err)
	assert.Equal(t, 1, n)
	_, err = os.Stat(fresh)
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "ajeno.txt"))
	assert.NoError(t, err)
}
