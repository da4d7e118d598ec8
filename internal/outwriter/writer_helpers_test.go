package outwriter

import (
	"errors"
	"io"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWriteWithFile(t *testing.T) {
	t.Run("writes and keeps file", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		err := writeWithFile(path, func(w io.Writer) error {
			_, err := io.WriteString(w, "ok\n")
			return err
		}, "Wrote")
		require.NoError(t, err)
		assert.FileExists(t, path)
	})

	t.Run("removes file on writer error", func(t *testing.T) {
		path := filepath.Join(t.TempDir(), "out.txt")
		boom := errors.New("boom")
		err := writeWithFile(path, func(w io.Writer) error {
			_, _ = io.WriteString(w, "partial")
			return boom
		}, "Wrote")
		assert.ErrorIs(t, err, boom)
		assert.NoFileExists(t, path)
	})
}

func TestFmtFloat(t *testing.T) {
	assert.Equal(t, "3.57", fmtFloat(3.5714, idealPrecision))
	assert.Equal(t, "0", fmtFloat(0.4, 0))
}
