// Package errors provides standardized error handling for semfwd.
//
// Errors fall into three classes: Transient (temporary, retryable), Invalid
// (bad input, drop it and continue) and Fatal (stop processing). The forwarding
// taxonomy maps onto those classes:
//
//   - ErrInvalidConfiguration: Fatal. Raised while building tables from properties.
//   - ErrMemberNotFound, ErrUnsupportedKind, ErrKindMismatch, ErrNoMatchFound,
//     ErrUnknownDestination: Invalid. Raised per record; the engine logs and continues.
//   - Anything else seen on the transport: Transient.
//
// Wrap errors with context following the "component.method: action failed" pattern:
//
//	if err := client.Publish(ctx, subject, data); err != nil {
//	    return errors.WrapTransient(err, "Transport", "Write", "publish")
//	}
//
// Check classification with IsTransient, IsInvalid and IsFatal, or use Reason
// for a metric label.
package errors
