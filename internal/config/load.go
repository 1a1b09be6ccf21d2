package config

import (
	"fmt"
	"net/url"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Parse reads a cbfarm.yaml file without validating it.
func Parse(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	return &cfg, nil
}

// Load reads and validates a cbfarm.yaml configuration file.
func Load(path string) (*Config, error) {
	cfg, err := Parse(path)
	if err != nil {
		return nil, err
	}

	if errs := Validate(cfg); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return cfg, nil
}

// ValidationError holds multiple validation failures.
type ValidationError struct {
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("config validation failed:\n  - %s", strings.Join(e.Errors, "\n  - "))
}

// Validate checks a Config for semantic correctness.
// Returns a list of validation error messages (empty if valid).
func Validate(cfg *Config) []string {
	var errs []string

	if cfg.Version != 1 {
		errs = append(errs, fmt.Sprintf("unsupported version %d — only version 1 is supported", cfg.Version))
	}

	// Deadline.
	if cfg.Deadline.URL != "" {
		u, err := url.Parse(cfg.Deadline.URL)
		if err != nil || (u.Scheme != "http" && u.Scheme != "https") || u.Host == "" {
			errs = append(errs, fmt.Sprintf("deadline: invalid url '%s' — must be http(s)://host[:port]", cfg.Deadline.URL))
		}
	}
	if cfg.Deadline.Timeout < 0 {
		errs = append(errs, "deadline: 'timeout' must not be negative")
	}
	if cfg.Deadline.Priority < 0 || cfg.Deadline.Priority > 100 {
		errs = append(errs, fmt.Sprintf("deadline: priority %d out of range 0-100", cfg.Deadline.Priority))
	}

	// Environment.
	for i, k := range cfg.Environment.Keys {
		if strings.TrimSpace(k) == "" || strings.Contains(k, "=") {
			errs = append(errs, fmt.Sprintf("environment.keys[%d]: invalid variable name '%s'", i, k))
		}
	}
	for k := range cfg.Environment.Session {
		if k == "" || strings.Contains(k, "=") {
			errs = append(errs, fmt.Sprintf("environment.session: invalid variable name '%s'", k))
		}
	}

	errs = append(errs, validateAssets(cfg.Assets)...)
	errs = append(errs, validateAudit(cfg.Audit)...)
	errs = append(errs, validateHandoff(cfg.Handoff)...)

	// Renderers.
	seen := make(map[string]bool)
	for i, r := range cfg.Renderers {
		prefix := fmt.Sprintf("renderer[%d]", i)
		if r.Name == "" {
			errs = append(errs, fmt.Sprintf("%s: 'name' is required", prefix))
		} else if seen[r.Name] {
			errs = append(errs, fmt.Sprintf("%s: duplicate renderer name '%s'", prefix, r.Name))
		} else {
			seen[r.Name] = true
		}
		if r.Prefix == "" {
			errs = append(errs, fmt.Sprintf("%s: 'prefix' is required", prefix))
		}
	}

	return errs
}

func validateAssets(a AssetsConfig) []string {
	var errs []string

	switch a.Type {
	case "":
		if a.Path != "" || a.DatabaseURL != "" {
			errs = append(errs, "assets: 'type' is required when assets are configured — must be one of: file, postgres")
		}
	case "file":
		if a.Path == "" {
			errs = append(errs, "assets: type 'file' requires 'path' — add 'path: ./project.yaml' to the assets section")
		}
	case "postgres":
		if a.DatabaseURL == "" {
			errs = append(errs, "assets: type 'postgres' requires 'databaseURL' — add 'databaseURL: postgres://...' to the assets section")
		}
	default:
		errs = append(errs, fmt.Sprintf("assets: unknown type '%s' — must be one of: file, postgres", a.Type))
	}

	return errs
}

func validateAudit(a AuditConfig) []string {
	var errs []string

	switch a.Type {
	case "", "dir":
		// dir defaults to the user state directory
	case "minio":
		if a.MinIO.Endpoint == "" {
			errs = append(errs, "audit: type 'minio' requires 'minio.endpoint'")
		}
		if a.MinIO.Bucket == "" {
			errs = append(errs, "audit: type 'minio' requires 'minio.bucket'")
		}
	default:
		errs = append(errs, fmt.Sprintf("audit: unknown type '%s' — must be one of: dir, minio", a.Type))
	}

	return errs
}

func validateHandoff(h HandoffConfig) []string {
	var errs []string

	switch h.Type {
	case "":
	case "file":
		if h.Path == "" {
			errs = append(errs, "handoff: type 'file' requires 'path'")
		}
	case "redis":
		if h.Redis.Addr == "" {
			errs = append(errs, "handoff: type 'redis' requires 'redis.addr'")
		}
		if h.Redis.DB < 0 {
			errs = append(errs, "handoff: 'redis.db' must not be negative")
		}
	default:
		errs = append(errs, fmt.Sprintf("handoff: unknown type '%s' — must be one of: file, redis", h.Type))
	}

	return errs
}
