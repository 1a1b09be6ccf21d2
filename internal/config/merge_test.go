package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"
)

func TestMergeScalarsOverlayWins(t *testing.T) {
	base := &Config{
		Version:  1,
		Deadline: DeadlineConfig{URL: "http://base:8082", User: "farm", Timeout: time.Minute, Priority: 50},
		Project:  ProjectConfig{Name: "demo", Root: "/projects"},
	}
	overlay := &Config{
		Deadline: DeadlineConfig{URL: "http://project:8082", Priority: 80},
		Project:  ProjectConfig{Code: "DEMO"},
	}

	result, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	if result.Version != 1 {
		t.Errorf("version = %d, want 1", result.Version)
	}
	if result.Deadline.URL != "http://project:8082" {
		t.Errorf("url = %q, overlay should win", result.Deadline.URL)
	}
	if result.Deadline.User != "farm" || result.Deadline.Timeout != time.Minute {
		t.Errorf("unset overlay fields should inherit base: %+v", result.Deadline)
	}
	if result.Deadline.Priority != 80 {
		t.Errorf("priority = %d, want 80", result.Deadline.Priority)
	}
	if result.Project != (ProjectConfig{Name: "demo", Root: "/projects", Code: "DEMO"}) {
		t.Errorf("project = %+v", result.Project)
	}
}

func TestMergeEnvironmentKeysUnion(t *testing.T) {
	base := &Config{Environment: EnvironmentConfig{
		Keys:    []string{"AVALON_TOOLS", "AVALON_PROJECT"},
		Session: map[string]string{"A": "1", "B": "2"},
	}}
	overlay := &Config{Environment: EnvironmentConfig{
		Keys:    []string{"AVALON_PROJECT", "AVALON_ASSET"},
		Session: map[string]string{"B": "3"},
	}}

	result, err := Merge(base, overlay)
	if err != nil {
		t.Fatalf("Merge: %v", err)
	}

	want := []string{"AVALON_TOOLS", "AVALON_PROJECT", "AVALON_ASSET"}
	if strings.Join(result.Environment.Keys, ",") != strings.Join(want, ",") {
		t.Errorf("keys = %v, want %v", result.Environment.Keys, want)
	}
	if result.Environment.Session["A"] != "1" || result.Environment.Session["B"] != "3" {
		t.Errorf("session = %v", result.Environment.Session)
	}
}

func TestMergeUsePublishPathsExplicitFalse(t *testing.T) {
	on, off := true, false
	base := &Config{Resolver: ResolverConfig{UsePublishPaths: &on}}

	result, err := Merge(base, &Config{Resolver: ResolverConfig{UsePublishPaths: &off}})
	if err != nil {
		t.Fatal(err)
	}
	if result.Resolver.PublishPaths() {
		t.Error("explicit false in overlay should win")
	}

	result, err = Merge(base, &Config{})
	if err != nil {
		t.Fatal(err)
	}
	if !result.Resolver.PublishPaths() {
		t.Error("unset overlay should inherit true")
	}
}

func TestMergeBackendSectionsReplacedWhole(t *testing.T) {
	base := &Config{
		Assets: AssetsConfig{Type: "postgres", DatabaseURL: "postgres://db/avalon"},
		Audit:  AuditConfig{Type: "minio", MinIO: MinIOConfig{Endpoint: "minio:9000", Bucket: "b"}},
	}
	overlay := &Config{
		Assets: AssetsConfig{Type: "file", Path: "./project.yaml"},
	}

	result, err := Merge(base, overlay)
	if err != nil {
		t.Fatal(err)
	}
	if result.Assets.DatabaseURL != "" {
		t.Errorf("postgres url leaked into file backend: %+v", result.Assets)
	}
	if result.Audit.Type != "minio" {
		t.Errorf("audit should inherit base: %+v", result.Audit)
	}
}

func TestMergeRenderersByName(t *testing.T) {
	base := &Config{Renderers: []Renderer{{Name: "arnold", Prefix: "a"}, {Name: "redshift", Prefix: "r"}}}
	overlay := &Config{Renderers: []Renderer{{Name: "arnold", Prefix: "A"}}}

	result, err := Merge(base, overlay)
	if err != nil {
		t.Fatal(err)
	}
	prefixes := result.RendererPrefixes()
	if len(prefixes) != 2 || prefixes["arnold"] != "A" || prefixes["redshift"] != "r" {
		t.Errorf("renderers = %v", result.Renderers)
	}
}

func TestMergeVersionMismatch(t *testing.T) {
	_, err := Merge(&Config{Version: 1}, &Config{Version: 2})
	if err == nil || !strings.Contains(err.Error(), "version mismatch") {
		t.Fatalf("expected version mismatch, got %v", err)
	}
}

func TestMergeVersionInherit(t *testing.T) {
	tests := []struct {
		name          string
		base, overlay int
		want          int
	}{
		{"both zero", 0, 0, 0},
		{"overlay zero", 1, 0, 1},
		{"base zero", 0, 1, 1},
		{"same", 1, 1, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result, err := Merge(&Config{Version: tt.base}, &Config{Version: tt.overlay})
			if err != nil {
				t.Fatal(err)
			}
			if result.Version != tt.want {
				t.Errorf("version = %d, want %d", result.Version, tt.want)
			}
		})
	}
}

func TestMergeNilBase(t *testing.T) {
	overlay := &Config{Version: 1}
	result, err := Merge(nil, overlay)
	if err != nil || result != overlay {
		t.Errorf("nil base should return overlay")
	}
}

func TestMergeNilOverlay(t *testing.T) {
	base := &Config{Version: 1}
	result, err := Merge(base, nil)
	if err != nil || result != base {
		t.Errorf("nil overlay should return base")
	}
}

func TestMergeAllEmpty(t *testing.T) {
	_, err := MergeAll(nil)
	if err == nil {
		t.Fatal("expected error for empty configs")
	}
}

func TestMergeAllThreeLayers(t *testing.T) {
	system := &Config{Version: 1, Deadline: DeadlineConfig{URL: "http://sys:8082", Pool: "all"}}
	user := &Config{Deadline: DeadlineConfig{User: "artist"}}
	project := &Config{Deadline: DeadlineConfig{Pool: "vray"}}

	result, err := MergeAll([]*Config{system, user, project})
	if err != nil {
		t.Fatal(err)
	}
	want := DeadlineConfig{URL: "http://sys:8082", User: "artist", Pool: "vray"}
	if result.Deadline != want {
		t.Errorf("deadline = %+v, want %+v", result.Deadline, want)
	}
}

func writeFile(t *testing.T, path, content string) {
	t.Helper()
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatal(err)
	}
}

func TestLoadHierarchicalNoInherit(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "cbfarm.yaml")
	writeFile(t, path, exampleConfig)

	result, err := LoadHierarchical(HierarchicalOptions{ProjectPath: path, NoInherit: true})
	if err != nil {
		t.Fatalf("LoadHierarchical: %v", err)
	}
	if len(result.Layers) != 1 || result.Layers[0].Level != LevelProject {
		t.Errorf("layers = %+v, want project only", result.Layers)
	}
	if !result.Layers[0].Loaded {
		t.Error("project layer should be loaded")
	}
}

func TestLoadHierarchicalMergesLayers(t *testing.T) {
	dir := t.TempDir()
	sysPath := filepath.Join(dir, "system.yaml")
	writeFile(t, sysPath, `version: 1
deadline:
  url: http://farm:8082
environment:
  keys: [AVALON_TOOLS]
`)
	projPath := filepath.Join(dir, "cbfarm.yaml")
	writeFile(t, projPath, `version: 1
project:
  name: demo
environment:
  keys: [AVALON_PROJECT]
`)

	result, err := LoadHierarchical(HierarchicalOptions{
		ProjectPath:      projPath,
		SystemConfigPath: sysPath,
		UserConfigPath:   filepath.Join(dir, "nonexistent", "cbfarm.yaml"),
	})
	if err != nil {
		t.Fatalf("LoadHierarchical: %v", err)
	}

	if result.Config.Deadline.URL != "http://farm:8082" || result.Config.Project.Name != "demo" {
		t.Errorf("merged config = %+v", result.Config)
	}
	if len(result.Config.Environment.Keys) != 2 {
		t.Errorf("keys = %v", result.Config.Environment.Keys)
	}

	loaded := 0
	for _, l := range result.Layers {
		if l.Loaded {
			loaded++
		}
	}
	if loaded != 2 {
		t.Errorf("expected 2 loaded layers, got %d", loaded)
	}
}

func TestLoadHierarchicalMissingProject(t *testing.T) {
	_, err := LoadHierarchical(HierarchicalOptions{
		ProjectPath:      "/nonexistent/cbfarm.yaml",
		SystemConfigPath: "/nonexistent/system.yaml",
		UserConfigPath:   "/nonexistent/user.yaml",
	})
	if err == nil {
		t.Fatal("expected error for missing project config")
	}
}

func TestLoadHierarchicalSystemParseError(t *testing.T) {
	dir := t.TempDir()
	sysPath := filepath.Join(dir, "system.yaml")
	writeFile(t, sysPath, "invalid: [yaml: broken")
	projPath := filepath.Join(dir, "cbfarm.yaml")
	writeFile(t, projPath, "version: 1\n")

	_, err := LoadHierarchical(HierarchicalOptions{
		ProjectPath:      projPath,
		SystemConfigPath: sysPath,
		UserConfigPath:   filepath.Join(dir, "nonexistent.yaml"),
	})
	if err == nil {
		t.Fatal("expected error for broken system config")
	}
	if !strings.Contains(err.Error(), "parsing") || !strings.Contains(err.Error(), "system") {
		t.Errorf("error should mention system parse failure: %v", err)
	}
}

func TestLoadHierarchicalVersionMismatch(t *testing.T) {
	dir := t.TempDir()
	sysPath := filepath.Join(dir, "system.yaml")
	writeFile(t, sysPath, "version: 2\n")
	projPath := filepath.Join(dir, "cbfarm.yaml")
	writeFile(t, projPath, "version: 1\n")

	_, err := LoadHierarchical(HierarchicalOptions{
		ProjectPath:      projPath,
		SystemConfigPath: sysPath,
		UserConfigPath:   filepath.Join(dir, "nonexistent.yaml"),
	})
	if err == nil || !strings.Contains(err.Error(), "version mismatch") {
		t.Fatalf("expected version mismatch error, got %v", err)
	}
}
