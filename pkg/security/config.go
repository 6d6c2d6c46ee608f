// Package security provides security configuration types shared by clients
package security

import "fmt"

// ClientTLSConfig holds TLS configuration for outbound connections such as NATS.
// The system CA bundle is always trusted; CAFiles are additional trusted CAs.
type ClientTLSConfig struct {
	Enabled            bool     `json:"enabled"`
	CAFiles            []string `json:"ca_files,omitempty"`
	CertFile           string   `json:"cert_file,omitempty"` // client certificate for mTLS
	KeyFile            string   `json:"key_file,omitempty"`  // client private key for mTLS
	ServerName         string   `json:"server_name,omitempty"`
	InsecureSkipVerify bool     `json:"insecure_skip_verify,omitempty"` // DEV/TEST ONLY
	MinVersion         string   `json:"min_version,omitempty"`          // "1.2" or "1.3"
}

// MutualTLS reports whether a client certificate is configured
func (c ClientTLSConfig) MutualTLS() bool {
	return c.CertFile != "" || c.KeyFile != ""
}

// Validate checks the configuration without touching the filesystem
func (c ClientTLSConfig) Validate() error {
	if !c.Enabled {
		return nil
	}
	if (c.CertFile == "") != (c.KeyFile == "") {
		return fmt.Errorf("cert_file and key_file must be set together")
	}
	switch c.MinVersion {
	case "", "1.2", "1.3":
	default:
		return fmt.Errorf("unsupported min_version %q", c.MinVersion)
	}
	return nil
}
