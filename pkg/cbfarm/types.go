package cbfarm

import (
	"github.com/VSPipe/colorbleed-config/internal/config"
	"github.com/VSPipe/colorbleed-config/internal/deadline"
	"github.com/VSPipe/colorbleed-config/internal/job"
	"github.com/VSPipe/colorbleed-config/internal/resolve"
	"github.com/VSPipe/colorbleed-config/internal/submit"
)

// Type aliases re-export internal types as the public API so host plugins can
// name them.

type Config = config.Config
type WorkItem = job.WorkItem
type WorkContext = job.Context
type StepReport = submit.StepReport
type Result = submit.Result
type State = submit.State
type Session = resolve.Session
type Key = resolve.Key

// Submission states.
const (
	StateIdle            = submit.StateIdle
	StateExportSubmitted = submit.StateExportSubmitted
	StateRenderSubmitted = submit.StateRenderSubmitted
	StateDone            = submit.StateDone
	StateSuspended       = submit.StateSuspended
	StateSkipped         = submit.StateSkipped
	StateFailed          = submit.StateFailed
)

// Sentinel errors for errors.Is.
var (
	ErrSubmissionRejected = deadline.ErrSubmissionRejected
	ErrUpstreamFailed     = submit.ErrUpstreamFailed
	ErrMissingAsset       = resolve.ErrMissingAsset
)
