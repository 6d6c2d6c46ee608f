// Package config loads the semfwd service configuration.
//
// A configuration document is JSON (.json) or YAML (.yaml, .yml). Each
// document is checked against an embedded JSON Schema, merged over the
// defaults (and over earlier layers), then overridden from the environment:
//
//	SEMFWD_NATS_URLS       comma separated NATS URLs
//	SEMFWD_NATS_USERNAME   NATS user
//	SEMFWD_NATS_PASSWORD   NATS password
//	SEMFWD_NATS_TOKEN      NATS token
//	SEMFWD_METRICS_PORT    metrics server port
//
// Example document:
//
//	version: 1.0.0
//	nats:
//	  urls: ["nats://localhost:4222"]
//	  reconnect_wait: 2s
//	metrics:
//	  port: 9090
//	components:
//	  router:
//	    type: processor
//	    name: forward
//	    enabled: true
//	    config:
//	      ports:
//	        inputs:  [{name: connection, subject: cfg.connection}]
//	        outputs: [{name: session, subject: cfg.session}]
//	      properties:
//	        forwarding_table: [{input: connection, output: session}]
//
// Usage:
//
//	loader := config.NewLoader()
//	loader.AddLayer("configs/base.yaml")
//	loader.AddLayer("configs/production.json")
//	loader.EnableValidation(true)
//	cfg, err := loader.Load()
package config
