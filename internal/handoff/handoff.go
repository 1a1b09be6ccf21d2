// Package handoff passes accepted render jobs to the downstream publish step.
package handoff

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"time"
)

// Job is the record consumed by the publish step.
type Job struct {
	SubmissionID string          `json:"submission_id"`
	Item         string          `json:"item"`
	BatchName    string          `json:"batch_name"`
	ExportJobID  string          `json:"export_job_id"`
	RenderJobID  string          `json:"render_job_id"`
	OutputDir    string          `json:"output_dir"`
	Response     json.RawMessage `json:"response"`
	Time         time.Time       `json:"time"`
}

// Sink receives hand-off records.
type Sink interface {
	Publish(ctx context.Context, job Job) error
}

// Nop drops hand-off records.
type Nop struct{}

func (Nop) Publish(context.Context, Job) error { return nil }

// FileSink appends records as JSON lines to a file.
type FileSink struct {
	Path string
}

func (s *FileSink) Publish(_ context.Context, job Job) error {
	if job.Time.IsZero() {
		job.Time = time.Now().UTC()
	}
	line, err := json.Marshal(job)
	if err != nil {
		return fmt.Errorf("encoding hand-off record: %w", err)
	}
	line = append(line, '\n')

	if err := os.MkdirAll(filepath.Dir(s.Path), 0755); err != nil {
		return fmt.Errorf("creating hand-off directory: %w", err)
	}
	f, err := os.OpenFile(s.Path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return fmt.Errorf("opening hand-off file %s: %w", s.Path, err)
	}
	if _, err := f.Write(line); err != nil {
		_ = f.Close()
		return fmt.Errorf("writing hand-off file %s: %w", s.Path, err)
	}
	return f.Close()
}
