// Package semfwd is a content-based forwarding service for NATS.
//
// Records arrive on named input channels. For each record a routing key is
// computed (the channel name, or the rendered value of a field inside the
// record), matched against a table of shell-style patterns, and the record
// is forwarded unchanged to the output channel bound to the first match.
//
// # Layout
//
//   - record: self-describing records and member path resolution
//   - matching: ordered wildcard pattern tables
//   - forwarding: key extractors, field descriptor cache and the engine
//   - processor/forward: the engine hosted as a NATS component
//   - component, componentregistry: component contracts and factories
//   - config: JSON/YAML service configuration with schema validation
//   - natsclient, metric, health: connection, Prometheus and health plumbing
//   - pkg/buffer, pkg/retry, pkg/security, pkg/tlsutil: shared utilities
//   - cmd/semfwd: the service binary
//
// # Quick start
//
//	semfwd --config=configs/forward.yaml --log-format=text
//
// The engine core does not depend on NATS and can be driven by any
// forwarding.Transport.
package semfwd
