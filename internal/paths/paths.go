// Package paths resolves where batchedit keeps its configuration, its model
// stores and its archives.
package paths

import (
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user directories.
const AppName = "batchedit"

// Environment variable names for directory overrides.
const (
	EnvConfigDir = "BATCHEDIT_CONFIG_DIR"
	EnvDataDir   = "BATCHEDIT_DATA_DIR"
)

// ConfigFileName is the configuration file read from the config directory.
const ConfigFileName = "config.yaml"

// archiveDirName is the default archive location below the data directory.
const archiveDirName = "archive"

// platformDir can be overridden in tests.
var platformDir = struct {
	goos          string
	homeDir       func() (string, error)
	userConfigDir func() (string, error)
}{
	goos:          runtime.GOOS,
	homeDir:       os.UserHomeDir,
	userConfigDir: os.UserConfigDir,
}

// userDir returns $xdgVar/batchedit on Linux, falling back to
// ~/<linuxFallback>/batchedit, and the OS config directory elsewhere.
func userDir(xdgVar string, linuxFallback ...string) (string, error) {
	if platformDir.goos != "linux" {
		dir, err := platformDir.userConfigDir()
		if err != nil {
			return "", err
		}
		return filepath.Join(dir, AppName), nil
	}
	if xdg := os.Getenv(xdgVar); xdg != "" {
		return filepath.Join(xdg, AppName), nil
	}
	home, err := platformDir.homeDir()
	if err != nil {
		return "", err
	}
	parts := append([]string{home}, linuxFallback...)
	return filepath.Join(append(parts, AppName)...), nil
}

// DefaultConfigDir returns the platform configuration directory.
//
// Linux:   $XDG_CONFIG_HOME/batchedit (fallback ~/.config/batchedit)
// macOS:   ~/Library/Application Support/batchedit
// Windows: %APPDATA%/batchedit
func DefaultConfigDir() (string, error) {
	return userDir("XDG_CONFIG_HOME", ".config")
}

// DefaultDataDir returns the platform data directory.
//
// Linux:   $XDG_DATA_HOME/batchedit (fallback ~/.local/share/batchedit)
// macOS and Windows: same as the config directory.
func DefaultDataDir() (string, error) {
	return userDir("XDG_DATA_HOME", ".local", "share")
}

// ResolveConfigDir applies flag > BATCHEDIT_CONFIG_DIR > platform default.
func ResolveConfigDir(flag string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if env := os.Getenv(EnvConfigDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultConfigDir()
}

// ResolveDataDir applies flag > config.yaml > BATCHEDIT_DATA_DIR > platform
// default.
func ResolveDataDir(flag, configValue string) (string, error) {
	if flag != "" {
		return filepath.Abs(flag)
	}
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	if env := os.Getenv(EnvDataDir); env != "" {
		return filepath.Abs(env)
	}
	return DefaultDataDir()
}

// ResolveArchiveDir returns configValue as an absolute path, or the archive
// directory below dataDir when it is empty.
func ResolveArchiveDir(dataDir, configValue string) (string, error) {
	if configValue != "" {
		return filepath.Abs(configValue)
	}
	return filepath.Join(dataDir, archiveDirName), nil
}
