package export

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/bscode-watanabejun/nasreco-visiting-nursing-sub003/internal/normalize"
)

// WriteFile writes data to path through a temp file in the same directory and
// a rename, so a reader never sees a partial claim file. It returns the
// hex SHA-256 of what was written.
func WriteFile(path string, data []byte) (string, error) {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".*.tmp")
	if err != nil {
		return "", fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	cleanup := func() { os.Remove(tmpName) }

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("write %s: %w", tmpName, err)
	}
	if err := tmp.Sync(); err != nil {
		tmp.Close()
		cleanup()
		return "", fmt.Errorf("sync %s: %w", tmpName, err)
	}
	if err := tmp.Close(); err != nil {
		cleanup()
		return "", fmt.Errorf("close %s: %w", tmpName, err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		cleanup()
		return "", fmt.Errorf("rename to %s: %w", path, err)
	}
	return normalize.BytesHash(data), nil
}
