package config

import "time"

// Config represents the cbfarm.yaml configuration file.
type Config struct {
	Version     int               `yaml:"version"`
	Deadline    DeadlineConfig    `yaml:"deadline"`
	Project     ProjectConfig     `yaml:"project"`
	Environment EnvironmentConfig `yaml:"environment"`
	Resolver    ResolverConfig    `yaml:"resolver"`
	Assets      AssetsConfig      `yaml:"assets"`
	Audit       AuditConfig       `yaml:"audit"`
	Handoff     HandoffConfig     `yaml:"handoff"`
	Submit      SubmitConfig      `yaml:"submit"`
	Renderers   []Renderer        `yaml:"renderers,omitempty"`
}

// DeadlineConfig locates the render farm and sets per-job defaults.
type DeadlineConfig struct {
	URL      string        `yaml:"url,omitempty"`
	User     string        `yaml:"user,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	Pool     string        `yaml:"pool,omitempty"`
	Priority int           `yaml:"priority,omitempty"`
}

// ProjectConfig identifies the active project.
type ProjectConfig struct {
	Name string `yaml:"name,omitempty"`
	Root string `yaml:"root,omitempty"`
	Code string `yaml:"code,omitempty"`
}

// EnvironmentConfig controls which variables are forwarded to farm jobs.
type EnvironmentConfig struct {
	// Keys is the allow-list read from the submitting process.
	Keys []string `yaml:"keys,omitempty"`
	// Session holds pipeline-session values added after Keys.
	Session    map[string]string `yaml:"session,omitempty"`
	ToolKey    string            `yaml:"toolKey,omitempty"`
	RenderTool string            `yaml:"renderTool,omitempty"`
}

// ResolverConfig controls avalon:// resolution.
type ResolverConfig struct {
	// UsePublishPaths is a pointer so a higher layer can turn it off.
	UsePublishPaths *bool `yaml:"usePublishPaths,omitempty"`
}

// PublishPaths reports the effective usePublishPaths value.
func (r ResolverConfig) PublishPaths() bool {
	return r.UsePublishPaths != nil && *r.UsePublishPaths
}

// AssetsConfig selects the asset store backend.
type AssetsConfig struct {
	Type        string `yaml:"type,omitempty"` // "file", "postgres"
	Path        string `yaml:"path,omitempty"`
	DatabaseURL string `yaml:"databaseURL,omitempty"`
}

// AuditConfig selects where submitted payloads are archived.
type AuditConfig struct {
	Type  string      `yaml:"type,omitempty"` // "", "dir", "minio"
	Dir   string      `yaml:"dir,omitempty"`
	MinIO MinIOConfig `yaml:"minio,omitempty"`
}

// MinIOConfig configures the object store audit sink.
type MinIOConfig struct {
	Endpoint  string `yaml:"endpoint,omitempty"`
	AccessKey string `yaml:"accessKey,omitempty"`
	SecretKey string `yaml:"secretKey,omitempty"`
	Region    string `yaml:"region,omitempty"`
	UseSSL    bool   `yaml:"useSSL,omitempty"`
	Bucket    string `yaml:"bucket,omitempty"`
}

// HandoffConfig selects where render jobs are handed to the publish step.
type HandoffConfig struct {
	Type  string      `yaml:"type,omitempty"` // "", "file", "redis"
	Path  string      `yaml:"path,omitempty"`
	Redis RedisConfig `yaml:"redis,omitempty"`
}

// RedisConfig configures the redis hand-off queue.
type RedisConfig struct {
	Addr     string `yaml:"addr,omitempty"`
	Password string `yaml:"password,omitempty"`
	DB       int    `yaml:"db,omitempty"`
	Queue    string `yaml:"queue,omitempty"`
}

// SubmitConfig selects the submitter.
type SubmitConfig struct {
	Kind string `yaml:"kind,omitempty"`
}

// Renderer defines a custom renderer filename prefix or overrides a built-in.
type Renderer struct {
	Name   string `yaml:"name"`
	Prefix string `yaml:"prefix"`
}

// RendererPrefixes returns the renderer definitions as a name to prefix map.
func (c *Config) RendererPrefixes() map[string]string {
	if len(c.Renderers) == 0 {
		return nil
	}
	m := make(map[string]string, len(c.Renderers))
	for _, r := range c.Renderers {
		m[r.Name] = r.Prefix
	}
	return m
}
