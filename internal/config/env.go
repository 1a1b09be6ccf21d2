package config

import (
	"fmt"
	"os"
	"strconv"
	"time"
)

// Environment variables read by ApplyEnv.
const (
	EnvDeadlineURL     = "AVALON_DEADLINE"
	EnvProject         = "AVALON_PROJECT"
	EnvProjectsRoot    = "AVALON_PROJECTS"
	EnvDeadlineUser    = "DEADLINE_USER"
	EnvDeadlineTimeout = "CBFARM_DEADLINE_TIMEOUT"
	EnvUsePublishPaths = "CBFARM_USE_PUBLISH_PATHS"
	EnvNoInheritKey    = "CBFARM_NO_INHERIT"
)

// ApplyEnv overrides cfg with values from the process environment. Set
// variables win over every config layer.
func ApplyEnv(cfg *Config) error {
	cfg.Deadline.URL = envString(EnvDeadlineURL, cfg.Deadline.URL)
	cfg.Deadline.User = envString(EnvDeadlineUser, cfg.Deadline.User)
	cfg.Project.Name = envString(EnvProject, cfg.Project.Name)
	cfg.Project.Root = envString(EnvProjectsRoot, cfg.Project.Root)

	timeout, err := envDuration(EnvDeadlineTimeout, cfg.Deadline.Timeout)
	if err != nil {
		return err
	}
	cfg.Deadline.Timeout = timeout

	if v, ok := os.LookupEnv(EnvUsePublishPaths); ok && v != "" {
		v, err := envBool(EnvUsePublishPaths, false)
		if err != nil {
			return err
		}
		cfg.Resolver.UsePublishPaths = &v
	}

	return nil
}

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}

func envDuration(key string, def time.Duration) (time.Duration, error) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return 0, fmt.Errorf("parse %s: %w", key, err)
		}
		return d, nil
	}
	return def, nil
}

func envBool(key string, def bool) (bool, error) {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return false, fmt.Errorf("parse %s: %w", key, err)
		}
		return b, nil
	}
	return def, nil
}
