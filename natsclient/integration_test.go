package natsclient

import (
	"context"
	"os"
	"testing"
	"time"

	"github.com/nats-io/nats.go/jetstream"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func requireIntegration(t *testing.T) {
	t.Helper()
	if os.Getenv("INTEGRATION_TESTS") == "" {
		t.Skip("set INTEGRATION_TESTS=1 to run NATS integration tests")
	}
}

func TestIntegration_PublishSubscribe(t *testing.T) {
	requireIntegration(t)
	tc := NewTestClient(t, WithFastStartup())

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	received := make(chan []byte, 1)
	sub, err := tc.Client.Subscribe(ctx, "fwd.test", func(_ context.Context, data []byte) {
		received <- data
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, tc.Client.Publish(ctx, "fwd.test", []byte(`{"v":1}`)))

	select {
	case data := <-received:
		assert.Equal(t, `{"v":1}`, string(data))
	case <-ctx.Done():
		t.Fatal("message not received")
	}
}

func TestIntegration_JetStreamRoundTrip(t *testing.T) {
	requireIntegration(t)
	tc := NewTestClient(t, WithJetStream())

	ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
	defer cancel()

	_, err := tc.Client.EnsureStream(ctx, jetstream.StreamConfig{
		Name:     "FWD",
		Subjects: []string{"fwd.>"},
	})
	require.NoError(t, err)

	received := make(chan []byte, 1)
	sub, err := tc.Client.ConsumeStream(ctx, "FWD", "fwd.out", func(data []byte) {
		received <- data
	})
	require.NoError(t, err)
	defer sub.Unsubscribe()

	require.NoError(t, tc.Client.PublishToStream(ctx, "fwd.out", []byte("hello")))

	select {
	case data := <-received:
		assert.Equal(t, "hello", string(data))
	case <-ctx.Done():
		t.Fatal("stream message not received")
	}
}
