package files

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	pipeerrors "avgsales/internal/errors"
)

func TestCheckAllExist(t *testing.T) {
	tempDir := t.TempDir()

	existing := filepath.Join(tempDir, "part_1.parquet")
	require.NoError(t, os.WriteFile(existing, []byte("data"), 0644))
	other := filepath.Join(tempDir, "part_2.parquet")
	require.NoError(t, os.WriteFile(other, []byte("data"), 0644))

	t.Run("all files exist", func(t *testing.T) {
		assert.NoError(t, CheckAllExist([]string{existing, other}))
	})

	t.Run("empty list", func(t *testing.T) {
		assert.NoError(t, CheckAllExist(nil))
	})

	t.Run("one missing file fails naming the path", func(t *testing.T) {
		missing := filepath.Join(tempDir, "nope.parquet")
		err := CheckAllExist([]string{existing, missing, other})

		require.Error(t, err)
		assert.True(t, pipeerrors.IsType(err, pipeerrors.ErrTypeMissingInput))
		assert.Contains(t, err.Error(), missing)
	})

	t.Run("directory is not an input file", func(t *testing.T) {
		err := CheckAllExist([]string{tempDir})

		require.Error(t, err)
		assert.True(t, pipeerrors.IsType(err, pipeerrors.ErrTypeMissingInput))
	})
}
