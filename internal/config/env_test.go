package config

import (
	"testing"
	"time"
)

func TestApplyEnvOverrides(t *testing.T) {
	t.Setenv(EnvDeadlineURL, "http://env-farm:8082")
	t.Setenv(EnvDeadlineUser, "envuser")
	t.Setenv(EnvProject, "envproject")
	t.Setenv(EnvProjectsRoot, "/mnt/projects")
	t.Setenv(EnvDeadlineTimeout, "2m")
	t.Setenv(EnvUsePublishPaths, "false")

	on := true
	cfg := &Config{
		Deadline: DeadlineConfig{URL: "http://cfg:8082", User: "cfguser", Timeout: time.Second},
		Project:  ProjectConfig{Name: "cfgproject", Code: "CFG"},
		Resolver: ResolverConfig{UsePublishPaths: &on},
	}
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}

	if cfg.Deadline.URL != "http://env-farm:8082" || cfg.Deadline.User != "envuser" {
		t.Errorf("deadline = %+v", cfg.Deadline)
	}
	if cfg.Deadline.Timeout != 2*time.Minute {
		t.Errorf("timeout = %v", cfg.Deadline.Timeout)
	}
	if cfg.Project.Name != "envproject" || cfg.Project.Root != "/mnt/projects" || cfg.Project.Code != "CFG" {
		t.Errorf("project = %+v", cfg.Project)
	}
	if cfg.Resolver.PublishPaths() {
		t.Error("env false should override config true")
	}
}

func TestApplyEnvUnsetKeepsConfig(t *testing.T) {
	t.Setenv(EnvDeadlineURL, "")
	t.Setenv(EnvDeadlineTimeout, "")

	cfg := &Config{Deadline: DeadlineConfig{URL: "http://cfg:8082", Timeout: time.Second}}
	if err := ApplyEnv(cfg); err != nil {
		t.Fatalf("ApplyEnv: %v", err)
	}
	if cfg.Deadline.URL != "http://cfg:8082" || cfg.Deadline.Timeout != time.Second {
		t.Errorf("deadline = %+v", cfg.Deadline)
	}
}

func TestApplyEnvInvalidValues(t *testing.T) {
	t.Setenv(EnvDeadlineTimeout, "soon")
	if err := ApplyEnv(&Config{}); err == nil {
		t.Error("expected error for invalid duration")
	}

	t.Setenv(EnvDeadlineTimeout, "")
	t.Setenv(EnvUsePublishPaths, "maybe")
	if err := ApplyEnv(&Config{}); err == nil {
		t.Error("expected error for invalid bool")
	}
}
