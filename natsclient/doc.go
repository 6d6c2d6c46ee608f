// Package natsclient wraps a NATS connection with the lifecycle and
// publishing helpers semfwd components need.
//
// A Client is created with functional options, connected once and shared by
// all components through component.Dependencies:
//
//	client, err := natsclient.NewClient("nats://localhost:4222",
//	    natsclient.WithLogger(logger),
//	    natsclient.WithName("semfwd"),
//	)
//	if err != nil {
//	    return err
//	}
//	if err := client.Connect(ctx); err != nil {
//	    return err
//	}
//	defer client.Close(ctx)
//
// Core NATS subjects use Subscribe and Publish. JetStream subjects use
// EnsureStream, ConsumeStream and PublishToStream. Both subscription kinds
// return a *Subscription that the caller stops with Unsubscribe; Close stops
// any that remain and drains the connection.
//
// Connection problems are returned as transient errors from the errors
// package, so callers can retry them with pkg/retry.
//
// TestClient starts a NATS server with testcontainers for integration tests.
package natsclient
