package config

import (
	"os"
	"path/filepath"
)

const (
	appName = "changeblogger"

	// ProjectConfigFile is the optional per-repository settings file.
	ProjectConfigFile = ".changeblogger.yml"
	// ProjectConfigJSONFile is the JSON alternative to ProjectConfigFile.
	ProjectConfigJSONFile = ".changeblogger.json"
	// ProjectDotenvFile is the per-repository dotenv file. Only the
	// credential is read from it.
	ProjectDotenvFile = ".env"
)

// UserConfigPath returns the path to the global KEY=value config file.
// This follows the XDG Base Directory Specification:
// - Linux: ~/.config/changeblogger/config
// - macOS: ~/Library/Application Support/changeblogger/config
// - Windows: %APPDATA%\changeblogger\config
func UserConfigPath() (string, error) {
	dir, err := UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(dir, "config"), nil
}

// UserConfigDir returns the directory holding the global config file.
func UserConfigDir() (string, error) {
	configDir, err := os.UserConfigDir()
	if err != nil {
		return "", err
	}
	return filepath.Join(configDir, appName), nil
}

// ProjectConfigPath returns the project settings file under dir. The YAML
// file wins when both it and the JSON file exist.
func ProjectConfigPath(dir string) string {
	yml := filepath.Join(dir, ProjectConfigFile)
	if !fileExists(yml) {
		if js := filepath.Join(dir, ProjectConfigJSONFile); fileExists(js) {
			return js
		}
	}
	return yml
}

// ProjectDotenvPath returns the project .env path under dir.
func ProjectDotenvPath(dir string) string {
	return filepath.Join(dir, ProjectDotenvFile)
}

// fileExists returns true if the file exists and is readable
func fileExists(path string) bool {
	if path == "" {
		return false
	}
	_, err := os.Stat(path)
	return err == nil
}
