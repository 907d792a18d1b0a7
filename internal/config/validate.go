package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"reflect"
	"regexp"
	"strconv"
	"strings"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// SyntaxError reports a project config file that is not valid YAML.
type SyntaxError struct {
	Path    string
	Line    int
	Message string
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s:%d: %s", e.Path, e.Line, e.Message)
	}
	return fmt.Sprintf("%s: %s", e.Path, e.Message)
}

// FieldError reports a setting with an unusable value and the layer that
// set it: a file path, "environment" or "defaults".
type FieldError struct {
	Key     string
	Origin  string
	Message string
}

func (e *FieldError) Error() string {
	return fmt.Sprintf("%s: %s %s", e.Origin, e.Key, e.Message)
}

// yaml.v3 reports "yaml: line 3: did not find expected key".
var yamlLinePrefix = regexp.MustCompile(`^yaml: line (\d+): `)

// ValidateYAMLSyntax parses path as YAML without decoding it into settings,
// so a typo is reported with its line before koanf sees the file. A missing
// file is valid.
func ValidateYAMLSyntax(path string) error {
	data, err := os.ReadFile(path)
	if errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	if err != nil {
		return &SyntaxError{Path: path, Message: err.Error()}
	}

	var node yaml.Node
	if err := yaml.Unmarshal(data, &node); err != nil {
		msg := err.Error()
		syntaxErr := &SyntaxError{Path: path, Message: strings.TrimPrefix(msg, "yaml: ")}
		if m := yamlLinePrefix.FindStringSubmatch(msg); m != nil {
			syntaxErr.Line, _ = strconv.Atoi(m[1])
			syntaxErr.Message = msg[len(m[0]):]
		}
		return syntaxErr
	}
	return nil
}

var validate = newValidator()

// newValidator reports fields by their koanf key, the name users write.
func newValidator() *validator.Validate {
	v := validator.New()
	v.RegisterTagNameFunc(func(field reflect.StructField) string {
		name, _, _ := strings.Cut(field.Tag.Get("koanf"), ",")
		if name == "-" {
			return ""
		}
		return name
	})
	return v
}

// ValidateConfigValues checks cfg against its validate tags and returns a
// *FieldError for the first failure. origins maps koanf keys to the layer
// that last set them; keys it lacks came from the defaults.
func ValidateConfigValues(cfg *Configuration, origins map[string]string) error {
	err := validate.Struct(cfg)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) || len(fieldErrs) == 0 {
		return err
	}

	fe := fieldErrs[0]
	origin, ok := origins[fe.Field()]
	if !ok {
		origin = originDefaults
	}
	return &FieldError{Key: fe.Field(), Origin: origin, Message: describe(fe)}
}

func describe(fe validator.FieldError) string {
	switch fe.Tag() {
	case "required":
		return "is required"
	case "min":
		return "must be at least " + fe.Param()
	case "max":
		return "must be at most " + fe.Param()
	case "gt":
		return "must be greater than " + fe.Param()
	case "url":
		return "must be a valid URL"
	default:
		return "failed the " + fe.Tag() + " check"
	}
}
