package errors

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestErrorClass_String(t *testing.T) {
	tests := []struct {
		class    ErrorClass
		expected string
	}{
		{ErrorTransient, "transient"},
		{ErrorInvalid, "invalid"},
		{ErrorFatal, "fatal"},
		{ErrorClass(999), "unknown"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			assert.Equal(t, test.expected, test.class.String())
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name     string
		err      error
		expected ErrorClass
	}{
		{"invalid configuration", fmt.Errorf("forwarding_table: %w", ErrInvalidConfiguration), ErrorFatal},
		{"missing config", ErrMissingConfig, ErrorFatal},
		{"member not found", ErrMemberNotFound, ErrorInvalid},
		{"no match", fmt.Errorf("no entry found for key: connection: %w", ErrNoMatchFound), ErrorInvalid},
		{"unknown destination", ErrUnknownDestination, ErrorInvalid},
		{"kind mismatch", ErrKindMismatch, ErrorInvalid},
		{"context canceled", context.Canceled, ErrorTransient},
		{"network message", fmt.Errorf("network unreachable"), ErrorTransient},
		{"unknown", fmt.Errorf("something odd"), ErrorTransient},
		{"classified fatal", &ClassifiedError{Class: ErrorFatal, Err: fmt.Errorf("x")}, ErrorFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Equal(t, test.expected, Classify(test.err))
		})
	}
}

func TestIsTransient_DomainErrorsIgnoreMessage(t *testing.T) {
	// A routing key that happens to contain "timeout" must not make the error retryable.
	err := fmt.Errorf("no entry found for key: timeout-sensor: %w", ErrNoMatchFound)
	assert.False(t, IsTransient(err))
	assert.True(t, IsInvalid(err))
	assert.False(t, IsTransient(nil))
	assert.False(t, IsFatal(nil))
	assert.False(t, IsInvalid(nil))
}

func TestReason(t *testing.T) {
	tests := []struct {
		err      error
		expected string
	}{
		{nil, "none"},
		{fmt.Errorf("wrap: %w", ErrMemberNotFound), "member_not_found"},
		{ErrUnsupportedKind, "unsupported_kind"},
		{ErrKindMismatch, "kind_mismatch"},
		{ErrNoMatchFound, "no_match"},
		{ErrUnknownDestination, "unknown_destination"},
		{ErrInvalidConfiguration, "invalid_configuration"},
		{ErrParsingFailed, "invalid_data"},
		{errors.New("nats: connection closed"), "transport"},
	}

	for _, test := range tests {
		t.Run(test.expected, func(t *testing.T) {
			assert.Equal(t, test.expected, Reason(test.err))
		})
	}
}

func TestWrap(t *testing.T) {
	base := errors.New("boom")

	assert.Nil(t, Wrap(nil, "C", "M", "act"))

	err := Wrap(base, "Transport", "Write", "publish")
	assert.Equal(t, "Transport.Write: publish failed: boom", err.Error())
	assert.ErrorIs(t, err, base)
}

func TestWrapClassified(t *testing.T) {
	base := errors.New("boom")

	tests := []struct {
		name  string
		wrap  func(error, string, string, string) error
		class ErrorClass
	}{
		{"transient", WrapTransient, ErrorTransient},
		{"invalid", WrapInvalid, ErrorInvalid},
		{"fatal", WrapFatal, ErrorFatal},
	}

	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			assert.Nil(t, test.wrap(nil, "C", "M", "act"))

			err := test.wrap(base, "Engine", "New", "parse table")
			var ce *ClassifiedError
			if assert.ErrorAs(t, err, &ce) {
				assert.Equal(t, test.class, ce.Class)
				assert.Equal(t, "Engine", ce.Component)
				assert.Equal(t, "New", ce.Operation)
			}
			assert.ErrorIs(t, err, base)
			assert.Equal(t, "Engine.New: parse table failed: boom", err.Error())
			assert.Equal(t, test.class, Classify(err))
		})
	}
}
