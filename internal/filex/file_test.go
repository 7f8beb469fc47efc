package filex

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func write(t *testing.T, dir, name string, data []byte) string {
	t.Helper()
	p := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(p, data, 0o600))
	return p
}

func TestInspect(t *testing.T) {
	dir := t.TempDir()

	t.Run("pdf by content", func(t *testing.T) {
		p := write(t, dir, "report.bin", []byte("%PDF-1.7\n1 0 obj\n<<>>\nendobj\n"))
		fi, err := Inspect(p)
		require.NoError(t, err)
		assert.Equal(t, FileInfo{Name: "report.bin", Size: 29, Type: "application/pdf"}, fi)
	})

	t.Run("png is not pdf even when named so", func(t *testing.T) {
		png := []byte("\x89PNG\x0D\x0A\x1A\x0A\x00\x00\x00\x0DIHDR")
		fi, err := Inspect(write(t, dir, "fake.pdf", png))
		require.NoError(t, err)
		assert.Equal(t, "image/png", fi.Type)
	})

	t.Run("plain text keeps sniffed type without charset", func(t *testing.T) {
		fi, err := Inspect(write(t, dir, "notes", []byte("hello")))
		require.NoError(t, err)
		assert.Equal(t, "text/plain", fi.Type)
	})

	t.Run("empty file", func(t *testing.T) {
		fi, err := Inspect(write(t, dir, "empty.txt", nil))
		require.NoError(t, err)
		assert.Equal(t, int64(0), fi.Size)
	})

	t.Run("missing", func(t *testing.T) {
		_, err := Inspect(filepath.Join(dir, "nope"))
		assert.Error(t, err)
	})

	t.Run("directory", func(t *testing.T) {
		_, err := Inspect(dir)
		assert.Error(t, err)
	})
}

func TestEnsureParentDir(t *testing.T) {
	tmp := t.TempDir()
	target := filepath.Join(tmp, "data", "nested", "taskboard.db")

	require.NoError(t, EnsureParentDir(target))
	require.NoError(t, EnsureParentDir(target))

	fi, err := os.Stat(filepath.Dir(target))
	require.NoError(t, err)
	assert.True(t, fi.IsDir())

	require.NoError(t, EnsureParentDir("taskboard.db"))
}
