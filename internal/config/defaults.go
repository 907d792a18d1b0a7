package config

import (
	"github.com/obsoletenerd/changeblogger/internal/changelog"
	"github.com/obsoletenerd/changeblogger/internal/git"
	"github.com/obsoletenerd/changeblogger/internal/summarize"
)

// DefaultReadme is the README path, relative to the repository root.
const DefaultReadme = "README.md"

// GetDefaults returns the default configuration values as a map
// suitable for loading into koanf.
func GetDefaults() map[string]interface{} {
	return map[string]interface{}{
		"model":              summarize.DefaultModel,
		"endpoint":           summarize.DefaultEndpoint,
		"readme":             DefaultReadme,
		"heading":            changelog.DefaultHeading,
		"max_tokens":         summarize.DefaultMaxTokens,
		"temperature":        summarize.DefaultTemperature,
		"timeout":            summarize.DefaultTimeout,
		"content_budget":     git.DefaultContentBudget,
		"diff_budget":        git.DefaultDiffBudget,
		"prompt_budget":      summarize.DefaultPromptBudget,
		"skip_confirmations": false,
	}
}
