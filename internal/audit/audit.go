// Package audit records the payload and farm response of every submitted job.
package audit

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"time"
)

// Record is one submission attempt.
type Record struct {
	SubmissionID string          `json:"submission_id"`
	Kind         string          `json:"kind"`
	Job          string          `json:"job"`
	Payload      json.RawMessage `json:"payload"`
	Response     json.RawMessage `json:"response,omitempty"`
	Error        string          `json:"error,omitempty"`
	Time         time.Time       `json:"time"`
}

// Sink stores audit records.
type Sink interface {
	Record(ctx context.Context, rec Record) error
}

// Nop discards records.
type Nop struct{}

func (Nop) Record(context.Context, Record) error { return nil }

// ObjectKey is the storage key of rec: submissions/{id}/{kind}.json.
func ObjectKey(rec Record) string {
	return "submissions/" + rec.SubmissionID + "/" + rec.Kind + ".json"
}

func encode(rec Record) ([]byte, error) {
	if rec.Time.IsZero() {
		rec.Time = time.Now().UTC()
	}
	return json.MarshalIndent(rec, "", "  ")
}

// ComputeHash returns the hex SHA256 of content.
func ComputeHash(content []byte) string {
	h := sha256.Sum256(content)
	return hex.EncodeToString(h[:])
}
