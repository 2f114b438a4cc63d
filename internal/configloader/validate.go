package configloader

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/yaklabco/dashgram/pkg/config"
	"github.com/yaklabco/dashgram/pkg/scanner"
)

// ValidationError represents a configuration validation error.
type ValidationError struct {
	// Field is the path to the invalid field (e.g., "ignore[2]").
	Field string

	// Value is the invalid value.
	Value any

	// Message describes the validation error.
	Message string

	// FilePath is the config file containing the error (if known).
	FilePath string
}

// Error implements the error interface.
func (e *ValidationError) Error() string {
	var parts []string
	if e.FilePath != "" {
		parts = append(parts, e.FilePath)
	}
	if e.Field != "" {
		parts = append(parts, e.Field)
	}
	parts = append(parts, e.Message)
	return strings.Join(parts, ": ")
}

// ValidationResult contains all validation findings.
type ValidationResult struct {
	// Errors are validation failures that prevent loading.
	Errors []ValidationError

	// Warnings are non-fatal issues.
	Warnings []ValidationError
}

// Valid returns true if there are no errors.
func (r *ValidationResult) Valid() bool {
	return len(r.Errors) == 0
}

// HasWarnings returns true if there are any warnings.
func (r *ValidationResult) HasWarnings() bool {
	return len(r.Warnings) > 0
}

// AllMessages returns all error and warning messages combined.
func (r *ValidationResult) AllMessages() []string {
	messages := make([]string, 0, len(r.Errors)+len(r.Warnings))
	for _, e := range r.Errors {
		messages = append(messages, "error: "+e.Error())
	}
	for _, w := range r.Warnings {
		messages = append(messages, "warning: "+w.Error())
	}
	return messages
}

func (r *ValidationResult) fail(field string, value any, format string, args ...any) {
	r.Errors = append(r.Errors, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

func (r *ValidationResult) warn(field string, value any, format string, args ...any) {
	r.Warnings = append(r.Warnings, ValidationError{Field: field, Value: value, Message: fmt.Sprintf(format, args...)})
}

// Validate checks a configuration for errors and warnings.
func Validate(cfg *config.Config) *ValidationResult {
	result := &ValidationResult{}
	if cfg == nil {
		return result
	}

	if cfg.Flavor != "" && !cfg.Flavor.IsValid() {
		result.fail("flavor", cfg.Flavor, "invalid flavor %q; must be one of: commonmark, gfm", cfg.Flavor)
	}
	if cfg.Format != "" && !cfg.Format.IsValid() {
		result.fail("format", cfg.Format,
			"invalid format %q; must be one of: text, table, json, sarif, sexp, summary", cfg.Format)
	}
	if cfg.Color != "" && !cfg.Color.IsValid() {
		result.fail("color", cfg.Color, "invalid color mode %q; must be one of: auto, always, never", cfg.Color)
	}

	if cfg.Jobs < 0 {
		result.fail("jobs", cfg.Jobs, "jobs must be >= 0 (0 means auto)")
	}

	switch {
	case cfg.MaxDepth < 0:
		result.fail("max_depth", cfg.MaxDepth, "max_depth must be >= 0 (0 means default)")
	case cfg.MaxDepth >= scanner.MaxDepth:
		result.warn("max_depth", cfg.MaxDepth, "max_depth above %d is clamped", scanner.MaxDepth-1)
	}

	for i, ext := range cfg.Extensions {
		field := fmt.Sprintf("extensions[%d]", i)
		switch {
		case ext == "":
			result.fail(field, ext, "extension must not be empty")
		case !strings.HasPrefix(ext, "."):
			result.warn(field, ext, "extension %q does not start with a dot and will never match", ext)
		}
	}

	validatePatterns("include", cfg.Include, result)
	validatePatterns("ignore", cfg.Ignore, result)

	return result
}

// validatePatterns checks that patterns are valid globs.
func validatePatterns(name string, patterns []string, result *ValidationResult) {
	for i, pattern := range patterns {
		if _, err := filepath.Match(pattern, ""); err != nil {
			result.fail(fmt.Sprintf("%s[%d]", name, i), pattern, "invalid glob pattern: %v", err)
		}
	}
}

// ValidateWithFile validates configuration and includes file path in errors.
func ValidateWithFile(cfg *config.Config, filePath string) *ValidationResult {
	result := Validate(cfg)

	for i := range result.Errors {
		result.Errors[i].FilePath = filePath
	}
	for i := range result.Warnings {
		result.Warnings[i].FilePath = filePath
	}

	return result
}
