// Package retry provides exponential backoff for operations that may fail
// transiently, such as the initial connection to NATS.
//
//	client, err := retry.DoWithResult(ctx, retry.Persistent(), func() (*natsclient.Client, error) {
//	    return natsclient.Connect(ctx, urls, opts...)
//	})
//
// Classification comes from the errors package: only transient errors are
// retried. Wrap an error with errors.WrapFatal or errors.WrapInvalid to stop
// immediately.
package retry
