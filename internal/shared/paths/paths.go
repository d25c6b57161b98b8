package paths

import (
	"os"
	"path/filepath"
)

const appDirName = ".ruleta-overlay"

// GetDataDir returns the per-user data directory. RULETA_DATA_DIR
// overrides the default of ~/.ruleta-overlay.
func GetDataDir() string {
	if dir := os.Getenv("RULETA_DATA_DIR"); dir != "" {
		return dir
	}

	home, err := os.UserHomeDir()
	if err != nil {
		return appDirName
	}
	return filepath.Join(home, appDirName)
}

// GetDBPath returns the sqlite database path inside the data directory.
func GetDBPath() string {
	return filepath.Join(GetDataDir(), "local.db")
}

// EnsureDataDirs creates the data directory tree if missing.
func EnsureDataDirs() error {
	return os.MkdirAll(GetDataDir(), 0755)
}
