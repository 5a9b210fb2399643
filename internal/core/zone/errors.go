package zone

import (
	"errors"
	"fmt"
)

var (
	ErrInvalidProfile  = errors.New("invalid force profile")
	ErrDuplicateZone   = errors.New("duplicate zone name")
	ErrUnnamedZone     = errors.New("zone name is required")
	ErrInvalidBounds   = errors.New("zone bounds must have positive size")
	ErrNoZoneFilePaths = errors.New("no zone files given")
	ErrNilRegistry     = errors.New("zone needs an actor registry")
)

// ConfigurationError reports a profile parameter outside its valid range.
// It unwraps to ErrInvalidProfile.
type ConfigurationError struct {
	Field  string
	Value  any
	Reason string
}

func (e *ConfigurationError) Error() string {
	return fmt.Sprintf("%s: %s = %v: %s", ErrInvalidProfile, e.Field, e.Value, e.Reason)
}

func (e *ConfigurationError) Unwrap() error { return ErrInvalidProfile }
