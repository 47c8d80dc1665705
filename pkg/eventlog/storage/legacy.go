package storage

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
)

// LegacyFileName is the store file name used before the project was renamed.
const LegacyFileName = "lnd_optimize.db"

// sqliteSidecars are the suffixes of files SQLite keeps next to a database.
var sqliteSidecars = []string{"-wal", "-shm"}

// DefaultLegacyPath returns where an older install kept its store: one
// directory above the directory holding path.
func DefaultLegacyPath(path string) string {
	return filepath.Join(filepath.Dir(filepath.Dir(filepath.Clean(path))), LegacyFileName)
}

// MigrateLegacy moves legacyPath to path when path does not exist and
// legacyPath does. It reports whether a file was moved. Sidecar WAL and
// shared-memory files travel with the database.
func MigrateLegacy(path, legacyPath string) (bool, error) {
	if legacyPath == "" || filepath.Clean(legacyPath) == filepath.Clean(path) {
		return false, nil
	}

	exists, err := fileExists(path)
	if err != nil || exists {
		return false, err
	}

	legacyExists, err := fileExists(legacyPath)
	if err != nil || !legacyExists {
		return false, err
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return false, fmt.Errorf("create store directory: %w", err)
	}

	if err := os.Rename(legacyPath, path); err != nil {
		return false, fmt.Errorf("rename %s to %s: %w", legacyPath, path, err)
	}

	for _, suffix := range sqliteSidecars {
		ok, err := fileExists(legacyPath + suffix)
		if err != nil {
			return true, err
		}
		if !ok {
			continue
		}
		if err := os.Rename(legacyPath+suffix, path+suffix); err != nil {
			return true, fmt.Errorf("rename %s: %w", legacyPath+suffix, err)
		}
	}

	return true, nil
}

func fileExists(path string) (bool, error) {
	_, err := os.Stat(path)
	if err == nil {
		return true, nil
	}
	if errors.Is(err, fs.ErrNotExist) {
		return false, nil
	}
	return false, err
}
