package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/joho/godotenv"
)

// ErrMissingCredential is returned when no API key is set anywhere.
var ErrMissingCredential = errors.New("no API key configured")

// ResolveCredential finds the API key without loading the rest of the
// configuration. The first non-empty value wins:
//  1. OPENAI_API_KEY in the environment
//  2. OPENAI_API_KEY in the project .env at projectDotenvPath
//  3. OPENAI_API_KEY in the global config at globalConfigPath
//
// Empty paths are skipped. Returns ErrMissingCredential when all three are unset.
func ResolveCredential(projectDotenvPath, globalConfigPath string) (string, ConfigSource, error) {
	if key := strings.TrimSpace(os.Getenv(CredentialEnvVar)); key != "" {
		return key, SourceEnv, nil
	}

	candidates := []struct {
		path   string
		source ConfigSource
	}{
		{projectDotenvPath, SourceProject},
		{globalConfigPath, SourceUser},
	}
	for _, c := range candidates {
		key, err := readCredential(c.path)
		if err != nil {
			return "", SourceNone, err
		}
		if key != "" {
			return key, c.source, nil
		}
	}

	return "", SourceNone, ErrMissingCredential
}

// readCredential returns OPENAI_API_KEY from a KEY=value file. A missing file
// yields an empty key.
func readCredential(path string) (string, error) {
	if path == "" {
		return "", nil
	}
	vars, err := godotenv.Read(path)
	if errors.Is(err, fs.ErrNotExist) {
		return "", nil
	}
	if err != nil {
		return "", fmt.Errorf("reading %s: %w", path, err)
	}
	return strings.TrimSpace(vars[CredentialEnvVar]), nil
}
