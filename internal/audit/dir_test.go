package audit

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestDirSinkRecord(t *testing.T) {
	dir := t.TempDir()
	s, err := NewDirSink(filepath.Join(dir, "audit"))
	if err != nil {
		t.Fatalf("NewDirSink: %v", err)
	}

	rec := Record{
		SubmissionID: "sub-1",
		Kind:         "export",
		Job:          "Export shot.ma - CHARS [1-10]",
		Payload:      json.RawMessage(`{"JobInfo":{}}`),
		Response:     json.RawMessage(`{"_id":"abc"}`),
	}
	if err := s.Record(context.Background(), rec); err != nil {
		t.Fatalf("Record: %v", err)
	}

	data, err := os.ReadFile(s.Path(rec))
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	var got Record
	if err := json.Unmarshal(data, &got); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if got.Job != rec.Job || got.Time.IsZero() {
		t.Errorf("got %+v", got)
	}
	if filepath.Base(filepath.Dir(s.Path(rec))) != "sub-1" {
		t.Errorf("path = %s", s.Path(rec))
	}

	// No temp files left behind.
	entries, err := os.ReadDir(filepath.Dir(s.Path(rec)))
	if err != nil {
		t.Fatal(err)
	}
	if len(entries) != 1 {
		t.Errorf("expected 1 file, got %d", len(entries))
	}
}

func TestDirSinkOverwrite(t *testing.T) {
	s, err := NewDirSink(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	rec := Record{SubmissionID: "sub", Kind: "render", Error: "first"}
	if err := s.Record(context.Background(), rec); err != nil {
		t.Fatal(err)
	}
	rec.Error = "second"
	if err := s.Record(context.Background(), rec); err != nil {
		t.Fatal(err)
	}

	data, _ := os.ReadFile(s.Path(rec))
	var got Record
	_ = json.Unmarshal(data, &got)
	if got.Error != "second" {
		t.Errorf("error = %q", got.Error)
	}
}

func TestDirSinkRequiresKey(t *testing.T) {
	s, err := NewDirSink(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Record(context.Background(), Record{Kind: "export"}); err == nil {
		t.Fatal("expected error without submission id")
	}
}

func TestDefaultDirXDG(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	if got := DefaultDir(); got != filepath.Join("/state", "cbfarm", "audit") {
		t.Errorf("DefaultDir() = %q", got)
	}
}
