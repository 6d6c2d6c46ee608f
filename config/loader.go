package config

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SEMFWD"

// Loader handles configuration loading with layers and overrides
type Loader struct {
	layers     []string
	validation bool
	envPrefix  string
	getenv     func(string) string
}

// NewLoader creates a new configuration loader reading overrides from the process environment
func NewLoader() *Loader {
	return &Loader{
		envPrefix: EnvPrefix,
		getenv:    os.Getenv,
	}
}

// WithEnv replaces the environment lookup, mainly for tests.
func (l *Loader) WithEnv(getenv func(string) string) *Loader {
	if getenv != nil {
		l.getenv = getenv
	}
	return l
}

// AddLayer adds a configuration file layer. Later layers override earlier ones.
func (l *Loader) AddLayer(path string) {
	l.layers = append(l.layers, path)
}

// EnableValidation enables or disables semantic validation after loading
func (l *Loader) EnableValidation(enable bool) {
	l.validation = enable
}

// LoadFile loads configuration from a single file
func (l *Loader) LoadFile(path string) (*Config, error) {
	l.layers = []string{path}
	return l.Load()
}

// Load loads and merges all configuration layers
func (l *Loader) Load() (*Config, error) {
	merged, err := toMap(Defaults())
	if err != nil {
		return nil, err
	}

	for _, path := range l.layers {
		data, err := safeReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		layer, err := decodeDocument(data, formatOf(path))
		if err != nil {
			return nil, fmt.Errorf("failed to load %s: %w", path, err)
		}
		merged = deepMergeMaps(merged, layer)
	}

	return l.finish(merged)
}

// LoadBytes loads a single in-memory document of the given format.
func (l *Loader) LoadBytes(data []byte, format string) (*Config, error) {
	merged, err := toMap(Defaults())
	if err != nil {
		return nil, err
	}
	layer, err := decodeDocument(data, format)
	if err != nil {
		return nil, err
	}
	return l.finish(deepMergeMaps(merged, layer))
}

func (l *Loader) finish(merged map[string]any) (*Config, error) {
	data, err := json.Marshal(merged)
	if err != nil {
		return nil, fmt.Errorf("failed to merge configuration: %w", err)
	}

	var cfg Config
	if err := json.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to decode configuration: %w", err)
	}

	if err := l.applyEnvOverrides(&cfg); err != nil {
		return nil, err
	}

	if l.validation {
		if err := cfg.Validate(); err != nil {
			return nil, fmt.Errorf("config validation failed: %w", err)
		}
	}
	return &cfg, nil
}

// decodeDocument converts a JSON or YAML document to a generic map and
// checks it against the schema.
func decodeDocument(data []byte, format string) (map[string]any, error) {
	var jsonData []byte
	switch format {
	case FormatJSON:
		jsonData = data
	case FormatYAML:
		var doc any
		if err := yaml.Unmarshal(data, &doc); err != nil {
			return nil, fmt.Errorf("invalid YAML: %w", err)
		}
		if doc == nil {
			doc = map[string]any{}
		}
		converted, err := json.Marshal(doc)
		if err != nil {
			return nil, fmt.Errorf("YAML document is not representable as JSON: %w", err)
		}
		jsonData = converted
	default:
		return nil, fmt.Errorf("unsupported config format %q", format)
	}

	if err := validateJSONDepth(jsonData); err != nil {
		return nil, fmt.Errorf("invalid JSON structure: %w", err)
	}
	if err := ValidateDocument(jsonData); err != nil {
		return nil, err
	}

	var doc map[string]any
	if err := json.Unmarshal(jsonData, &doc); err != nil {
		return nil, fmt.Errorf("invalid JSON: %w", err)
	}
	return doc, nil
}

func toMap(cfg *Config) (map[string]any, error) {
	data, err := json.Marshal(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}
	var m map[string]any
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, fmt.Errorf("failed to encode defaults: %w", err)
	}
	return m, nil
}

// deepMergeMaps recursively merges two maps, with override taking precedence
func deepMergeMaps(base, override map[string]any) map[string]any {
	result := make(map[string]any, len(base)+len(override))
	for k, v := range base {
		result[k] = v
	}

	for k, v := range override {
		if v == nil {
			continue
		}
		if baseMap, ok := base[k].(map[string]any); ok {
			if overrideMap, ok := v.(map[string]any); ok {
				result[k] = deepMergeMaps(baseMap, overrideMap)
				continue
			}
		}
		result[k] = v
	}
	return result
}

// applyEnvOverrides applies environment variable overrides
func (l *Loader) applyEnvOverrides(cfg *Config) error {
	lookup := func(name string) (string, error) {
		key := l.envPrefix + "_" + name
		val := l.getenv(key)
		if err := validateEnvVar(key, val); err != nil {
			return "", err
		}
		return val, nil
	}

	if val, err := lookup("NATS_URLS"); err != nil {
		return err
	} else if val != "" {
		var urls []string
		for _, url := range strings.Split(val, ",") {
			if url = strings.TrimSpace(url); url != "" {
				urls = append(urls, url)
			}
		}
		cfg.NATS.URLs = urls
	}

	for name, target := range map[string]*string{
		"NATS_USERNAME": &cfg.NATS.Username,
		"NATS_PASSWORD": &cfg.NATS.Password,
		"NATS_TOKEN":    &cfg.NATS.Token,
	} {
		val, err := lookup(name)
		if err != nil {
			return err
		}
		if val != "" {
			*target = val
		}
	}

	if val, err := lookup("METRICS_PORT"); err != nil {
		return err
	} else if val != "" {
		port, err := strconv.Atoi(val)
		if err != nil {
			return fmt.Errorf("%s_METRICS_PORT: %w", l.envPrefix, err)
		}
		cfg.Metrics.Port = port
	}
	return nil
}
