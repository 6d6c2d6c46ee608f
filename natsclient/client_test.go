package natsclient

import (
	"context"
	"crypto/tls"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/c360/semfwd/errors"
)

func TestNewClient_Defaults(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	assert.Equal(t, "nats://localhost:4222", c.URL())
	assert.Equal(t, StatusDisconnected, c.Status())
	assert.False(t, c.IsHealthy())
	assert.Equal(t, -1, c.maxReconnects)
	assert.Equal(t, 5*time.Second, c.timeout)
}

func TestNewClient_Options(t *testing.T) {
	c, err := NewClient("nats://a:4222,nats://b:4222",
		WithMaxReconnects(3),
		WithReconnectWait(time.Second),
		WithTimeout(time.Second),
		WithDrainTimeout(2*time.Second),
		WithCredentials("user", "pass"),
		WithName("semfwd-test"),
	)
	require.NoError(t, err)

	assert.Equal(t, 3, c.maxReconnects)
	assert.Equal(t, time.Second, c.reconnectWait)
	assert.Equal(t, 2*time.Second, c.drainTimeout)
	assert.Equal(t, "semfwd-test", c.clientName)
	assert.Len(t, c.connectionOptions(), 11)
}

func TestNewClient_TLS(t *testing.T) {
	c, err := NewClient("tls://localhost:4222", WithTLSConfig(&tls.Config{MinVersion: tls.VersionTLS13}))
	require.NoError(t, err)
	require.NotNil(t, c.tlsConfig)
	assert.Len(t, c.connectionOptions(), 10)

	c, err = NewClient("nats://localhost:4222", WithTLSConfig(nil))
	require.NoError(t, err)
	assert.Len(t, c.connectionOptions(), 9)
}

func TestNewClient_EmptyURL(t *testing.T) {
	_, err := NewClient("  ")
	require.Error(t, err)
	assert.True(t, errors.IsFatal(err))
}

func TestClient_OperationsRequireConnection(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)
	ctx := context.Background()

	assert.ErrorIs(t, c.Publish(ctx, "a", []byte("x")), errors.ErrNoConnection)
	assert.ErrorIs(t, c.PublishToStream(ctx, "a", []byte("x")), errors.ErrNoConnection)

	_, err = c.Subscribe(ctx, "a", func(context.Context, []byte) {})
	assert.ErrorIs(t, err, errors.ErrNoConnection)

	_, err = c.ConsumeStream(ctx, "S", "a", func([]byte) {})
	assert.ErrorIs(t, err, errors.ErrNoConnection)

	_, err = c.JetStream()
	assert.ErrorIs(t, err, ErrNotConnected)
}

func TestClient_ConnectCancelled(t *testing.T) {
	// Port 1 is never a NATS server; a cancelled context returns immediately.
	c, err := NewClient("nats://127.0.0.1:1", WithTimeout(100*time.Millisecond), WithMaxReconnects(0))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err = c.Connect(ctx)
	require.Error(t, err)
	assert.True(t, errors.IsTransient(err))
	assert.Equal(t, StatusDisconnected, c.Status())
}

func TestClient_CloseIsIdempotent(t *testing.T) {
	c, err := NewClient("nats://localhost:4222")
	require.NoError(t, err)

	require.NoError(t, c.Close(context.Background()))
	require.NoError(t, c.Close(context.Background()))

	err = c.Connect(context.Background())
	assert.ErrorIs(t, err, errors.ErrShuttingDown)
}

func TestSubscription_UnsubscribeOnce(t *testing.T) {
	calls := 0
	sub := &Subscription{Subject: "a", stop: func() error { calls++; return nil }}
	require.NoError(t, sub.Unsubscribe())
	require.NoError(t, sub.Unsubscribe())
	assert.Equal(t, 1, calls)
}

func TestConnectionStatus_String(t *testing.T) {
	assert.Equal(t, "connected", StatusConnected.String())
	assert.Equal(t, "reconnecting", StatusReconnecting.String())
	assert.Equal(t, "unknown", ConnectionStatus(42).String())
}
