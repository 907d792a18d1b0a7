package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
)

// ErrEmptyCredential is returned when setup is given a blank key.
var ErrEmptyCredential = errors.New("API key cannot be empty")

// WriteGlobalCredential stores key as OPENAI_API_KEY in the KEY=value file at
// path. Other keys already in the file are kept. The directory is created with
// mode 0700 and the file is left with mode 0600.
func WriteGlobalCredential(path, key string) error {
	key = strings.TrimSpace(key)
	if key == "" {
		return ErrEmptyCredential
	}

	if err := os.MkdirAll(filepath.Dir(path), 0o700); err != nil {
		return fmt.Errorf("creating config directory: %w", err)
	}

	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		vars = map[string]string{}
	} else if err != nil {
		return fmt.Errorf("reading existing config %s: %w", path, err)
	}
	vars[CredentialEnvVar] = key

	content, err := godotenv.Marshal(vars)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}

	if err := os.WriteFile(path, []byte(content+"\n"), 0o600); err != nil {
		return fmt.Errorf("writing config %s: %w", path, err)
	}
	// WriteFile keeps the mode of an existing file.
	if err := os.Chmod(path, 0o600); err != nil {
		return fmt.Errorf("setting permissions on %s: %w", path, err)
	}

	logDebug("[config] stored credential %s in %s", Redact(key), path)
	return nil
}
