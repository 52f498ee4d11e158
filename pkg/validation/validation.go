// Package validation provides range checks for flight tuning and sanitization
// for user-supplied scenario names.
package validation

import (
	"errors"
	"fmt"
	"math"
	"regexp"
	"strings"
	"unicode"
	"unicode/utf8"
)

// Size and content limits for scenario documents
const (
	MaxScenarioSize = 1024 * 1024 // 1MB max scenario file
	MaxNameLen      = 64
	MaxTickRate     = 1000
)

// Allow alphanumeric, spaces, hyphens, underscores and basic punctuation in
// scenario and variant names
var validNameChars = regexp.MustCompile(`^[a-zA-Z0-9\s\-_.()]+$`)

// Checker collects range violations so a whole config can be reported at once.
type Checker struct {
	errs []error
}

// Err returns every violation joined, or nil.
func (c *Checker) Err() error {
	return errors.Join(c.errs...)
}

// Add records err if it is non-nil.
func (c *Checker) Add(err error) {
	if err != nil {
		c.errs = append(c.errs, err)
	}
}

// Finite rejects NaN and infinities
func (c *Checker) Finite(field string, value float64) {
	c.Add(ValidateFinite(field, value))
}

// Positive requires value > 0
func (c *Checker) Positive(field string, value float64) {
	c.Add(ValidatePositive(field, value))
}

// NonNegative requires value >= 0
func (c *Checker) NonNegative(field string, value float64) {
	c.Add(ValidateNonNegative(field, value))
}

// InRange requires min <= value <= max
func (c *Checker) InRange(field string, value, min, max float64) {
	c.Add(ValidateRange(field, value, min, max))
}

// Ordered requires low <= high
func (c *Checker) Ordered(lowField string, low float64, highField string, high float64) {
	if low > high {
		c.Add(fmt.Errorf("%s (%g) must not exceed %s (%g)", lowField, low, highField, high))
	}
}

// ValidateFinite rejects NaN and infinities
func ValidateFinite(field string, value float64) error {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return fmt.Errorf("%s must be a finite number", field)
	}
	return nil
}

// ValidatePositive requires value > 0
func ValidatePositive(field string, value float64) error {
	if err := ValidateFinite(field, value); err != nil {
		return err
	}
	if value <= 0 {
		return fmt.Errorf("%s must be positive: %g", field, value)
	}
	return nil
}

// ValidateNonNegative requires value >= 0
func ValidateNonNegative(field string, value float64) error {
	if err := ValidateFinite(field, value); err != nil {
		return err
	}
	if value < 0 {
		return fmt.Errorf("%s cannot be negative: %g", field, value)
	}
	return nil
}

// ValidateRange requires min <= value <= max
func ValidateRange(field string, value, min, max float64) error {
	if err := ValidateFinite(field, value); err != nil {
		return err
	}
	if value < min || value > max {
		return fmt.Errorf("%s out of range: %g (must be between %g and %g)", field, value, min, max)
	}
	return nil
}

// ValidateTickRate validates a simulation tick rate in Hz
func ValidateTickRate(rate int) error {
	if rate <= 0 || rate > MaxTickRate {
		return fmt.Errorf("invalid tick rate: %d (must be 1-%d)", rate, MaxTickRate)
	}
	return nil
}

// ValidateScenarioSize checks a scenario document against the size limit
func ValidateScenarioSize(data []byte) error {
	if len(data) == 0 {
		return fmt.Errorf("scenario is empty")
	}
	if len(data) > MaxScenarioSize {
		return fmt.Errorf("scenario too large: %d bytes (max %d)", len(data), MaxScenarioSize)
	}
	return nil
}

// ValidateName validates a scenario or variant name and returns it trimmed
func ValidateName(name string) (string, error) {
	if name == "" {
		return "", fmt.Errorf("name cannot be empty")
	}

	// Check length
	if len(name) > MaxNameLen {
		return "", fmt.Errorf("name too long: %d characters (max %d)", len(name), MaxNameLen)
	}

	// Check UTF-8 validity
	if !utf8.ValidString(name) {
		return "", fmt.Errorf("name contains invalid UTF-8 characters")
	}

	// Trim whitespace
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("name cannot be only whitespace")
	}

	// Check for control characters first
	for _, r := range trimmed {
		if unicode.IsControl(r) {
			return "", fmt.Errorf("name contains control characters")
		}
	}

	// Check for allowed character set
	if !validNameChars.MatchString(trimmed) {
		return "", fmt.Errorf("name contains invalid characters (only alphanumeric, spaces, hyphens, underscores, and basic punctuation allowed)")
	}

	return trimmed, nil
}
