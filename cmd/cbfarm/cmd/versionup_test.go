package cmd

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func versionUpEnv(t *testing.T) (string, *bytes.Buffer) {
	t.Helper()
	dir := t.TempDir()
	scene := filepath.Join(dir, "shot010_v006.ma")
	if err := os.WriteFile(scene, []byte("//Maya ASCII"), 0644); err != nil {
		t.Fatal(err)
	}

	oldQuiet := quiet
	quiet = true
	t.Cleanup(func() { quiet = oldQuiet })
	t.Cleanup(func() { versionUpDryRun = false })

	var out bytes.Buffer
	versionUpCmd.SetOut(&out)
	t.Cleanup(func() { versionUpCmd.SetOut(nil) })
	return scene, &out
}

func TestVersionUpCommandDryRunWritesNothing(t *testing.T) {
	scene, out := versionUpEnv(t)
	versionUpDryRun = true

	if err := versionUpCmd.RunE(versionUpCmd, []string{scene}); err != nil {
		t.Fatalf("version-up: %v", err)
	}

	next := filepath.Join(filepath.Dir(scene), "shot010_v007.ma")
	if got := strings.TrimSpace(out.String()); got != next {
		t.Errorf("output = %q, want %q", got, next)
	}
	if _, err := os.Stat(next); !os.IsNotExist(err) {
		t.Errorf("dry run created %s", next)
	}
	entries, err := os.ReadDir(filepath.Dir(scene))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("directory has %d entries, want only the scene", len(entries))
	}
}

func TestVersionUpCommandSkipsTakenVersions(t *testing.T) {
	scene, out := versionUpEnv(t)
	dir := filepath.Dir(scene)
	if err := os.WriteFile(filepath.Join(dir, "shot010_v007.ma"), []byte("manual save"), 0644); err != nil {
		t.Fatal(err)
	}

	if err := versionUpCmd.RunE(versionUpCmd, []string{scene}); err != nil {
		t.Fatalf("version-up: %v", err)
	}

	data, err := os.ReadFile(filepath.Join(dir, "shot010_v008.ma"))
	if err != nil {
		t.Fatalf("next version not written: %v", err)
	}
	if string(data) != "//Maya ASCII" {
		t.Errorf("content = %q", data)
	}
	manual, _ := os.ReadFile(filepath.Join(dir, "shot010_v007.ma"))
	if string(manual) != "manual save" {
		t.Errorf("existing version overwritten: %q", manual)
	}
	if out.Len() != 0 {
		t.Errorf("quiet run printed %q", out.String())
	}
}

func TestVersionUpCommandMissingScene(t *testing.T) {
	scene, _ := versionUpEnv(t)
	missing := filepath.Join(filepath.Dir(scene), "ghost_v001.ma")

	if err := versionUpCmd.RunE(versionUpCmd, []string{missing}); err == nil {
		t.Fatal("expected error for a missing scene")
	}
	if _, err := os.Stat(filepath.Join(filepath.Dir(scene), "ghost_v002.ma")); !os.IsNotExist(err) {
		t.Error("missing scene produced a new version")
	}
}
