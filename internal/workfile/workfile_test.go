package workfile

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/VSPipe/colorbleed-config/internal/submit"
)

func TestVersionUp(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"/work/scenes/shot010_v006.ma", "/work/scenes/shot010_v007.ma"},
		{"/work/scenes/shot010_v009.ma", "/work/scenes/shot010_v010.ma"},
		{"/work/scenes/shot010_v999.ma", "/work/scenes/shot010_v1000.ma"},
		{"/work/scenes/shot010_v1.ma", "/work/scenes/shot010_v2.ma"},
		{"/work/scenes/shot010_V012.mb", "/work/scenes/shot010_V013.mb"},
		{"/work/scenes/shot010.v003.hip", "/work/scenes/shot010.v004.hip"},
		{"/work/scenes/shot010_v003_comment.ma", "/work/scenes/shot010_v004_comment.ma"},
		{"/work/scenes/shot010.ma", "/work/scenes/shot010_v001.ma"},
		{"shot010", "shot010_v001"},
		// Last token wins.
		{"/work/v001/shot_v002.ma", "/work/v001/shot_v003.ma"},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			if got := VersionUp(tt.in); got != tt.want {
				t.Errorf("VersionUp(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestNextFreeSkipsExisting(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"shot_v001.ma", "shot_v002.ma", "shot_v003.ma"} {
		if err := os.WriteFile(filepath.Join(dir, name), nil, 0644); err != nil {
			t.Fatal(err)
		}
	}

	got := NextFree(filepath.Join(dir, "shot_v001.ma"))
	if want := filepath.Join(dir, "shot_v004.ma"); got != want {
		t.Errorf("NextFree = %q, want %q", got, want)
	}
}

func TestIncrementCopiesScene(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shot_v006.ma")
	if err := os.WriteFile(src, []byte("//Maya ASCII"), 0640); err != nil {
		t.Fatal(err)
	}

	dest, err := Increment(src, submit.StepReport{Step: "submit", Failed: false})
	if err != nil {
		t.Fatalf("Increment: %v", err)
	}
	if dest != filepath.Join(dir, "shot_v007.ma") {
		t.Errorf("dest = %q", dest)
	}

	data, err := os.ReadFile(dest)
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "//Maya ASCII" {
		t.Errorf("content = %q", data)
	}
	if _, err := os.Stat(src); err != nil {
		t.Errorf("source should remain: %v", err)
	}

	entries, _ := os.ReadDir(dir)
	if len(entries) != 2 {
		t.Errorf("expected 2 files (no temp leftovers), got %d", len(entries))
	}
}

func TestIncrementRefusesAfterFailedSubmission(t *testing.T) {
	dir := t.TempDir()
	src := filepath.Join(dir, "shot_v006.ma")
	if err := os.WriteFile(src, nil, 0644); err != nil {
		t.Fatal(err)
	}

	_, err := Increment(src, submit.StepReport{Step: "submit", Failed: true, Reason: "farm rejected"})
	if !errors.Is(err, submit.ErrUpstreamFailed) {
		t.Fatalf("expected ErrUpstreamFailed, got %v", err)
	}
	if _, err := os.Stat(filepath.Join(dir, "shot_v007.ma")); !os.IsNotExist(err) {
		t.Error("no new version should be written")
	}
}

func TestIncrementMissingFile(t *testing.T) {
	_, err := Increment(filepath.Join(t.TempDir(), "missing_v001.ma"))
	if err == nil {
		t.Fatal("expected error for missing file")
	}
}
