package config

import (
	"errors"
	"strings"

	"github.com/joho/godotenv"
)

const (
	// CredentialEnvVar names the API key in the environment and in dotenv files.
	CredentialEnvVar = "OPENAI_API_KEY"
	// EnvPrefix marks settings overrides, e.g. CHANGEBLOGGER_MODEL.
	EnvPrefix = "CHANGEBLOGGER_"
)

// DotenvParser is a koanf parser for KEY=value files. CHANGEBLOGGER_<NAME>
// maps to <name>; other keys, OPENAI_API_KEY included, are dropped.
type DotenvParser struct{}

// Dotenv returns a parser for the global config file.
func Dotenv() *DotenvParser {
	return &DotenvParser{}
}

// Unmarshal parses dotenv bytes into a flat koanf map.
func (p *DotenvParser) Unmarshal(b []byte) (map[string]interface{}, error) {
	vars, err := godotenv.UnmarshalBytes(b)
	if err != nil {
		return nil, err
	}

	out := make(map[string]interface{}, len(vars))
	for name, value := range vars {
		key := dotenvKey(name)
		if key == "" || value == "" {
			continue
		}
		out[key] = value
	}
	return out, nil
}

// Marshal is not supported. The setup writer edits the file with godotenv
// directly so unrelated keys survive.
func (p *DotenvParser) Marshal(map[string]interface{}) ([]byte, error) {
	return nil, errors.New("dotenv parser does not support marshalling")
}

// dotenvKey maps a variable name to a config key, or "" if it is not ours.
func dotenvKey(name string) string {
	switch {
	case name == EnvPrefix+"YES":
		return "skip_confirmations"
	case strings.HasPrefix(name, EnvPrefix):
		return strings.ToLower(strings.TrimPrefix(name, EnvPrefix))
	default:
		return ""
	}
}
