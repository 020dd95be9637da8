package config

import (
	"os"
	"path/filepath"
	"runtime"
)

func GetTonekitDir() string {
	switch runtime.GOOS {
	case "windows":
		appData := os.Getenv("APPDATA")
		if appData == "" {
			appData = filepath.Join(os.Getenv("USERPROFILE"), "AppData", "Roaming")
		}
		return filepath.Join(appData, "tonekit")
	case "darwin": // MacOS
		home, _ := os.UserHomeDir()
		return filepath.Join(home, "Library", "Application Support", "tonekit")
	default: // Linux
		configHome := os.Getenv("XDG_CONFIG_HOME")
		if configHome == "" {
			home, _ := os.UserHomeDir()
			configHome = filepath.Join(home, ".config")
		}
		return filepath.Join(configHome, "tonekit")
	}
}

// Returns directory for state files (database, lock, clipboard fallback)
func GetStateDir() string {
	return filepath.Join(GetTonekitDir(), "state")
}

// Returns directory for logs
func GetLogsDir() string {
	return filepath.Join(GetTonekitDir(), "logs")
}

// GetDBPath returns the SQLite database location
func GetDBPath() string {
	return filepath.Join(GetStateDir(), "tonekit.db")
}

// GetTokenPath returns the API bearer token file
func GetTokenPath() string {
	return filepath.Join(GetTonekitDir(), "token")
}

// GetLockPath returns the single-editor lock file
func GetLockPath() string {
	return filepath.Join(GetStateDir(), "tonekit.lock")
}

// GetPortPath holds the port of a running preview server
func GetPortPath() string {
	return filepath.Join(GetStateDir(), "port")
}

// EnsureDirs creates all required directories
func EnsureDirs() error {
	dirs := []string{GetTonekitDir(), GetStateDir(), GetLogsDir()}
	for _, dir := range dirs {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return nil
}
