package forwarding

import (
	"fmt"

	"github.com/c360/semfwd/errors"
	"github.com/c360/semfwd/record"
)

// ConfigError describes a property that could not be turned into a table.
// Member is empty when the failure concerns the property as a whole.
type ConfigError struct {
	Property string
	Member   string
	Index    int
	Reason   string
}

func (e *ConfigError) Error() string {
	if e.Member == "" {
		return fmt.Sprintf("invalid configuration: property=%s: %s", e.Property, e.Reason)
	}
	return fmt.Sprintf("invalid configuration: property=%s, member=%s, entry=%d: %s",
		e.Property, e.Member, e.Index, e.Reason)
}

func (e *ConfigError) Unwrap() error { return errors.ErrInvalidConfiguration }

// UnsupportedKindError is returned when a key field has a kind with no text rendering.
type UnsupportedKindError struct {
	Field string
	Kind  record.Kind
}

func (e *UnsupportedKindError) Error() string {
	return fmt.Sprintf("unsupported member type: %s is %s", e.Field, e.Kind)
}

func (e *UnsupportedKindError) Unwrap() error { return errors.ErrUnsupportedKind }

// KindMismatchError is returned when a record carries a key field whose kind
// differs from the descriptor cached for its input.
type KindMismatchError struct {
	Input  string
	Field  string
	Cached record.Kind
	Actual record.Kind
}

func (e *KindMismatchError) Error() string {
	return fmt.Sprintf("member %s on input %s is %s, expected %s", e.Field, e.Input, e.Actual, e.Cached)
}

func (e *KindMismatchError) Unwrap() error { return errors.ErrKindMismatch }
