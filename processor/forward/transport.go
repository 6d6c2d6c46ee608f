package forward

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/c360/semfwd/component"
	"github.com/c360/semfwd/errors"
	"github.com/c360/semfwd/forwarding"
	"github.com/c360/semfwd/pkg/buffer"
	"github.com/c360/semfwd/record"
)

// publisher is the subset of natsclient.Client used to write outputs.
type publisher interface {
	Publish(ctx context.Context, subject string, data []byte) error
	PublishToStream(ctx context.Context, subject string, data []byte) error
}

// natsTransport buffers payloads per input port and publishes forwarded
// records to output port subjects. Handlers call deliver; the dispatch loop
// is woken through notify, which coalesces bursts into one signal.
type natsTransport struct {
	pub    publisher
	logger *slog.Logger

	inputs  []string
	inboxes map[string]*buffer.Buffer[[]byte]
	outputs map[string]component.Port

	notify chan struct{}
}

func newNATSTransport(
	pub publisher, ports component.PortConfig, capacity int, policy buffer.OverflowPolicy,
	logger *slog.Logger, onDrop func(input string),
) *natsTransport {
	t := &natsTransport{
		pub:     pub,
		logger:  logger,
		inputs:  make([]string, 0, len(ports.Inputs)),
		inboxes: make(map[string]*buffer.Buffer[[]byte], len(ports.Inputs)),
		outputs: make(map[string]component.Port, len(ports.Outputs)),
		notify:  make(chan struct{}, 1),
	}

	for _, def := range ports.Inputs {
		input := def.Name
		t.inputs = append(t.inputs, input)
		t.inboxes[input] = buffer.NewCircularBuffer[[]byte](capacity,
			buffer.WithOverflowPolicy[[]byte](policy),
			buffer.WithDropCallback[[]byte](func([]byte) {
				if onDrop != nil {
					onDrop(input)
				}
			}),
		)
	}
	for _, port := range ports.OutputPorts() {
		t.outputs[port.Name] = port
	}
	return t
}

var _ forwarding.Transport = (*natsTransport)(nil)

// deliver queues a payload received on input and wakes the dispatch loop.
func (t *natsTransport) deliver(input string, data []byte) {
	inbox, ok := t.inboxes[input]
	if !ok {
		return
	}
	if err := inbox.Write(data); err != nil {
		t.logger.Debug("Inbox rejected payload", "input", input, "error", err)
		return
	}
	select {
	case t.notify <- struct{}{}:
	default:
	}
}

// Inputs lists input names in port declaration order.
func (t *natsTransport) Inputs() []string {
	return append([]string(nil), t.inputs...)
}

// Take drains the inbox of input. Payloads that are not JSON objects are
// returned as invalid samples.
func (t *natsTransport) Take(ctx context.Context, input string) ([]forwarding.Sample, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.WrapTransient(err, "natsTransport", "Take", "context check")
	}
	inbox, ok := t.inboxes[input]
	if !ok {
		return nil, errors.WrapInvalid(
			fmt.Errorf("%w: unknown input %s", errors.ErrInvalidData, input),
			"natsTransport", "Take", "inbox lookup")
	}

	payloads := inbox.Drain()
	samples := make([]forwarding.Sample, 0, len(payloads))
	for _, data := range payloads {
		rec, err := record.FromJSON(data)
		if err != nil {
			t.logger.Debug("Payload is not a record", "input", input, "size_bytes", len(data), "error", err)
			samples = append(samples, forwarding.Sample{})
			continue
		}
		samples = append(samples, forwarding.Sample{Record: rec, Valid: true})
	}
	return samples, nil
}

// Write publishes rec unchanged to the subject bound to output.
func (t *natsTransport) Write(ctx context.Context, output string, rec record.Record) error {
	port, ok := t.outputs[output]
	if !ok {
		return errors.WrapInvalid(
			fmt.Errorf("%w: %s", errors.ErrUnknownDestination, output),
			"natsTransport", "Write", "output lookup")
	}

	data, err := record.Encode(rec)
	if err != nil {
		return errors.WrapInvalid(err, "natsTransport", "Write", "record encoding")
	}

	switch cfg := port.Config.(type) {
	case component.JetStreamPort:
		err = t.pub.PublishToStream(ctx, port.Subject(), data)
		if err != nil {
			return errors.Wrap(err, "natsTransport", "Write", "publish to stream "+cfg.StreamName)
		}
	default:
		err = t.pub.Publish(ctx, port.Subject(), data)
		if err != nil {
			return errors.Wrap(err, "natsTransport", "Write", "publish "+port.Subject())
		}
	}
	return nil
}

// pending reports whether any inbox holds payloads.
func (t *natsTransport) pending() bool {
	for _, inbox := range t.inboxes {
		if inbox.Size() > 0 {
			return true
		}
	}
	return false
}

// drops sums overflow losses across inboxes.
func (t *natsTransport) drops() int64 {
	var n int64
	for _, inbox := range t.inboxes {
		n += inbox.Stats().Drops()
	}
	return n
}
