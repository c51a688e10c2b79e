package humanoid

import (
	"errors"
	"fmt"
)

// ErrConfiguration matches every ConfigurationError.
var ErrConfiguration = errors.New("humanoid: invalid configuration")

// ConfigurationError is raised while building a Humanoid, before any key is sent.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("humanoid: invalid %s %v: %s", e.Field, e.Value, e.Reason)
}

// Is lets errors.Is match ErrConfiguration.
func (e *ConfigurationError) Is(target error) bool {
	return target == ErrConfiguration
}

func configError(field string, value any, reason string) error {
	return &ConfigurationError{Field: field, Value: value, Reason: reason}
}
