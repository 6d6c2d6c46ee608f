package forwarding

import (
	"context"

	"github.com/c360/semfwd/record"
)

// Sample is one element taken from an input. Invalid samples carry no usable
// data and are skipped.
type Sample struct {
	Record record.Record
	Valid  bool
}

// Transport is the host's view of its input and output channels.
type Transport interface {
	// Inputs lists the input channel names in the order they are drained.
	Inputs() []string
	// Take removes and returns the samples currently buffered on input.
	Take(ctx context.Context, input string) ([]Sample, error)
	// Write sends rec unchanged to the named output. Unknown outputs are an error.
	Write(ctx context.Context, output string, rec record.Record) error
}
