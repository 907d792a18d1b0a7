// Package config provides layered configuration for changeblogger using koanf.
// Settings are loaded with priority: CHANGEBLOGGER_* environment variables >
// project config (.changeblogger.yml) > global config
// (~/.config/changeblogger/config) > defaults. The API key follows its own
// order, see ResolveCredential.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/knadh/koanf/parsers/json"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// ConfigSource tracks where a configuration value came from
type ConfigSource string

const (
	SourceNone    ConfigSource = ""
	SourceDefault ConfigSource = "default"
	SourceUser    ConfigSource = "user"
	SourceProject ConfigSource = "project"
	SourceEnv     ConfigSource = "env"
)

// Configuration represents the changeblogger settings for one run.
type Configuration struct {
	// APIKey is the summarization service credential, filled in by
	// ResolveCredential. Never log it; use Redact.
	APIKey string `koanf:"-"`

	Model    string `koanf:"model" validate:"required"`
	Endpoint string `koanf:"endpoint" validate:"required,url"`

	// Readme is the file entries are written to, relative to the repository root
	// unless absolute.
	Readme  string `koanf:"readme" validate:"required"`
	Heading string `koanf:"heading" validate:"required"`

	MaxTokens   int           `koanf:"max_tokens" validate:"min=1,max=16384"`
	Temperature float64       `koanf:"temperature" validate:"min=0,max=2"`
	Timeout     time.Duration `koanf:"timeout" validate:"gt=0"`

	// Byte budgets for new-file bodies, per-file diffs and the whole prompt.
	// Zero means the built-in default.
	ContentBudget int `koanf:"content_budget" validate:"min=0"`
	DiffBudget    int `koanf:"diff_budget" validate:"min=0"`
	PromptBudget  int `koanf:"prompt_budget" validate:"min=0"`

	// SkipConfirmations writes without prompting (also CHANGEBLOGGER_YES).
	SkipConfirmations bool `koanf:"skip_confirmations"`

	// CredentialSource reports which layer supplied APIKey.
	CredentialSource ConfigSource `koanf:"-"`
}

// HasCredential reports whether a non-empty API key was loaded.
func (c *Configuration) HasCredential() bool {
	return strings.TrimSpace(c.APIKey) != ""
}

// LoadOptions configures where configuration is loaded from. Empty paths fall
// back to the standard locations.
type LoadOptions struct {
	// ProjectDir holds the project config and .env (default: current directory).
	ProjectDir string
	// GlobalConfigPath overrides UserConfigPath().
	GlobalConfigPath string
	// ProjectConfigPath overrides ProjectConfigPath(ProjectDir).
	ProjectConfigPath string
	// ProjectDotenvPath overrides ProjectDotenvPath(ProjectDir).
	ProjectDotenvPath string
	// SkipGlobal ignores the global config file entirely.
	SkipGlobal bool
}

func (o LoadOptions) globalPath() string {
	if o.SkipGlobal {
		return ""
	}
	if o.GlobalConfigPath != "" {
		return o.GlobalConfigPath
	}
	p, err := UserConfigPath()
	if err != nil {
		logDebug("[config] no user config dir: %v", err)
		return ""
	}
	return p
}

func (o LoadOptions) projectConfigPath() string {
	if o.ProjectConfigPath != "" {
		return o.ProjectConfigPath
	}
	return ProjectConfigPath(o.ProjectDir)
}

func (o LoadOptions) projectDotenvPath() string {
	if o.ProjectDotenvPath != "" {
		return o.ProjectDotenvPath
	}
	return ProjectDotenvPath(o.ProjectDir)
}

// originDefaults and originEnv name the layers that are not files.
const (
	originDefaults = "defaults"
	originEnv      = "environment"
)

// loader merges one koanf layer at a time and remembers which layer last
// set each key, so validation errors can name it.
type loader struct {
	k       *koanf.Koanf
	origins map[string]string
}

// Load loads settings from defaults, the global file, the project config and
// the environment, validates them, then resolves the credential with
// ResolveCredential.
func Load(opts LoadOptions) (*Configuration, error) {
	l := &loader{k: koanf.New("."), origins: make(map[string]string)}

	l.loadDefaults()

	globalPath := opts.globalPath()
	if fileExists(globalPath) {
		if err := l.merge(file.Provider(globalPath), Dotenv(), globalPath); err != nil {
			return nil, fmt.Errorf("loading global config %s: %w", globalPath, err)
		}
	}

	if err := l.loadProjectConfig(opts.projectConfigPath()); err != nil {
		return nil, err
	}

	if err := l.merge(env.ProviderWithValue(EnvPrefix, ".", envTransform), nil, originEnv); err != nil {
		return nil, fmt.Errorf("failed to load environment config: %w", err)
	}

	cfg, err := l.finalize()
	if err != nil {
		return nil, err
	}

	key, source, err := ResolveCredential(opts.projectDotenvPath(), globalPath)
	if err != nil && !errors.Is(err, ErrMissingCredential) {
		return nil, err
	}
	cfg.APIKey, cfg.CredentialSource = key, source

	logDebug("[config] loaded: model=%s endpoint=%s readme=%s key=%s (%s)",
		cfg.Model, cfg.Endpoint, cfg.Readme, Redact(cfg.APIKey), cfg.CredentialSource)
	return cfg, nil
}

// loadDefaults applies default configuration values
func (l *loader) loadDefaults() {
	for key, value := range GetDefaults() {
		l.k.Set(key, value)
	}
}

// merge loads one layer on its own, then merges it over the earlier ones.
// Every key the layer contains is attributed to origin. api_key is dropped:
// the credential has its own precedence in ResolveCredential.
func (l *loader) merge(p koanf.Provider, parser koanf.Parser, origin string) error {
	layer := koanf.New(".")
	if err := layer.Load(p, parser); err != nil {
		return err
	}
	if layer.Exists("api_key") {
		logDebug("[config] ignoring api_key in %s", origin)
		layer.Delete("api_key")
	}
	for _, key := range layer.Keys() {
		l.origins[key] = origin
	}
	return l.k.Merge(layer)
}

// loadProjectConfig loads .changeblogger.yml or .changeblogger.json.
func (l *loader) loadProjectConfig(path string) error {
	if !fileExists(path) {
		return nil
	}

	var parser koanf.Parser = yaml.Parser()
	if strings.HasSuffix(path, ".json") {
		parser = json.Parser()
	} else if err := ValidateYAMLSyntax(path); err != nil {
		return fmt.Errorf("validating YAML syntax for project config: %w", err)
	}

	if err := l.merge(file.Provider(path), parser, path); err != nil {
		return fmt.Errorf("failed to load project config %s: %w", path, err)
	}
	return nil
}

// finalize unmarshals and validates the merged layers.
func (l *loader) finalize() (*Configuration, error) {
	var cfg Configuration
	if err := l.k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := ValidateConfigValues(&cfg, l.origins); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	cfg.Readme = expandHomePath(cfg.Readme)
	return &cfg, nil
}

// envTransform converts environment variables to config keys, dropping empty
// values and names that are not ours.
// Example: CHANGEBLOGGER_MAX_TOKENS -> max_tokens
func envTransform(name, value string) (string, interface{}) {
	if value == "" {
		return "", nil
	}
	key := dotenvKey(name)
	if key == "" {
		return "", nil
	}
	return key, value
}

// expandHomePath expands ~ to the user's home directory
func expandHomePath(path string) string {
	if strings.HasPrefix(path, "~/") {
		homeDir, err := os.UserHomeDir()
		if err == nil {
			return homeDir + path[1:]
		}
	}
	return path
}

// Redact masks a secret for display, keeping the last four characters of
// long values.
func Redact(secret string) string {
	if secret == "" {
		return "(none)"
	}
	if len(secret) <= 8 {
		return "****"
	}
	return "****" + secret[len(secret)-4:]
}
