package utils

import (
	"errors"
	"os"
	"path/filepath"
	"runtime"
)

// AppName names the per-user data directory
const AppName = "notefolio"

var errNoHome = errors.New("no home directory and no platform data directory variable set")

// GetAppDataDir returns the per-user data directory for the current OS
func GetAppDataDir() (string, error) {
	home, _ := os.UserHomeDir()
	return appDataDir(runtime.GOOS, os.Getenv, home)
}

// appDataDir resolves the data directory for goos. home may be empty when it
// cannot be determined.
func appDataDir(goos string, getenv func(string) string, home string) (string, error) {
	switch goos {
	case "windows":
		for _, key := range []string{"LOCALAPPDATA", "APPDATA"} {
			if dir := getenv(key); dir != "" {
				return filepath.Join(dir, AppName), nil
			}
		}
	case "darwin":
		if home != "" {
			return filepath.Join(home, "Library", "Application Support", AppName), nil
		}
	case "linux", "freebsd", "openbsd", "netbsd":
		if dir := getenv("XDG_DATA_HOME"); dir != "" {
			return filepath.Join(dir, AppName), nil
		}
		if home != "" {
			return filepath.Join(home, ".local", "share", AppName), nil
		}
	default:
		if home != "" {
			return filepath.Join(home, "."+AppName), nil
		}
	}
	return "", errNoHome
}
