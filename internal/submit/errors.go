package submit

import (
	"errors"
	"fmt"
)

var (
	// ErrUpstreamFailed means a prerequisite step failed and nothing was submitted.
	ErrUpstreamFailed = errors.New("upstream step failed")

	// ErrHandoff means both jobs were accepted but the publish hand-off failed.
	ErrHandoff = errors.New("publish hand-off failed")
)

// StepReport is the outcome of a pipeline step that must succeed before
// submission.
type StepReport struct {
	Step   string
	Failed bool
	Reason string
}

// UpstreamError names the failed prerequisite.
type UpstreamError struct {
	Step   string
	Reason string
}

func (e *UpstreamError) Error() string {
	msg := fmt.Sprintf("skipping submission because %q failed", e.Step)
	if e.Reason != "" {
		msg += ": " + e.Reason
	}
	return msg
}

func (e *UpstreamError) Unwrap() error { return ErrUpstreamFailed }

// CheckUpstream returns an *UpstreamError for the first failed report.
func CheckUpstream(reports []StepReport) error {
	for _, r := range reports {
		if r.Failed {
			return &UpstreamError{Step: r.Step, Reason: r.Reason}
		}
	}
	return nil
}
