package internal

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
)

const appDirName = "tubechat"

// ProfilePaths holds the per-user locations of the config file and database
type ProfilePaths struct {
	ConfigDir string // directory holding config.yaml
	DataDir   string // directory holding the SQLite profile database
}

// DetectProfilePaths resolves the config and data directories for the current OS
func DetectProfilePaths() (ProfilePaths, error) {
	home, err := os.UserHomeDir()
	if err != nil {
		return ProfilePaths{}, fmt.Errorf("failed to get home directory: %w", err)
	}

	var configBase, dataBase string
	switch runtime.GOOS {
	case "darwin":
		configBase = filepath.Join(home, "Library/Application Support")
		dataBase = configBase
	case "windows":
		configBase = os.Getenv("APPDATA")
		if configBase == "" {
			configBase = filepath.Join(home, "AppData", "Roaming")
		}
		dataBase = configBase
	default:
		configBase = os.Getenv("XDG_CONFIG_HOME")
		if configBase == "" {
			configBase = filepath.Join(home, ".config")
		}
		dataBase = os.Getenv("XDG_DATA_HOME")
		if dataBase == "" {
			dataBase = filepath.Join(home, ".local", "share")
		}
	}

	return ProfilePaths{
		ConfigDir: filepath.Join(configBase, appDirName),
		DataDir:   filepath.Join(dataBase, appDirName),
	}, nil
}

// ConfigFilePath returns the default config.yaml location
func (p ProfilePaths) ConfigFilePath() string {
	return filepath.Join(p.ConfigDir, "config.yaml")
}

// DatabasePath returns the default profile database location
func (p ProfilePaths) DatabasePath() string {
	return filepath.Join(p.DataDir, "tubechat.db")
}

// DatabaseExists reports whether the profile database has been created yet
func (p ProfilePaths) DatabaseExists() bool {
	_, err := os.Stat(p.DatabasePath())
	return err == nil
}
