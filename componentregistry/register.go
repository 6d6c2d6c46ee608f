// Package componentregistry registers every component factory shipped with semfwd.
package componentregistry

import (
	"errors"

	"github.com/c360/semfwd/component"
	pkgerrors "github.com/c360/semfwd/errors"
	"github.com/c360/semfwd/processor/forward"
)

// Register registers all semfwd components with the provided registry:
//   - forward processor (content-based record forwarding over NATS)
func Register(registry *component.Registry) error {
	// A nil registry is a programming error (fatal), not invalid input
	if registry == nil {
		return pkgerrors.WrapFatal(
			errors.New("registry cannot be nil"),
			"ComponentRegistry", "Register", "registry validation")
	}

	if err := forward.Register(registry); err != nil {
		return pkgerrors.WrapInvalid(err, "ComponentRegistry", "Register", "forward processor registration")
	}

	return nil
}
