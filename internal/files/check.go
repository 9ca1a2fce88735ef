package files

import (
	"os"

	pipeerrors "avgsales/internal/errors"
)

// CheckAllExist verifies that every path references an existing regular file.
// It returns a MISSING_INPUT error naming the first missing path, so callers
// can fail fast before touching the database (no partial loads).
func CheckAllExist(paths []string) error {
	for _, path := range paths {
		info, err := os.Stat(path)
		if err != nil {
			return pipeerrors.MissingInput(path)
		}
		if info.IsDir() {
			return pipeerrors.MissingInput(path)
		}
	}
	return nil
}
