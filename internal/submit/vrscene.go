// Package submit chains the export and render jobs of a work item on the farm.
package submit

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/VSPipe/colorbleed-config/internal/audit"
	"github.com/VSPipe/colorbleed-config/internal/deadline"
	"github.com/VSPipe/colorbleed-config/internal/handoff"
	"github.com/VSPipe/colorbleed-config/internal/job"
	"github.com/google/uuid"
)

// KindVrscene selects VrsceneSubmitter in a Registry.
const KindVrscene = "vrscene"

// JobPoster submits one payload to the farm.
type JobPoster interface {
	Submit(ctx context.Context, payload *deadline.Payload) (*deadline.Response, error)
}

// Result describes how far a chain got.
type Result struct {
	SubmissionID string
	State        State
	SkipReason   string

	ExportPayload *deadline.Payload
	ExportJobID   string
	ExportFile    string

	RenderPayload *deadline.Payload
	RenderJobID   string
	OutputDir     string

	// PublishJob is set when the render job was handed to the publish step.
	PublishJob *handoff.Job
}

// VrsceneSubmitter exports vrscene files in one job and renders them in a
// second job that depends on the first.
type VrsceneSubmitter struct {
	Farm    JobPoster
	Builder *job.Builder
	Audit   audit.Sink
	Handoff handoff.Sink
	Logger  *slog.Logger
}

// Submit runs the chain. Suspending the render job ends the chain after the
// export job without error. An error always comes with a Result whose State is
// Skipped, Failed, or RenderSubmitted (hand-off failure).
func (s *VrsceneSubmitter) Submit(ctx context.Context, item job.WorkItem, reports ...StepReport) (*Result, error) {
	res := &Result{SubmissionID: uuid.NewString(), State: StateIdle}
	log := s.logger().With("submission", res.SubmissionID, "item", item.Name)

	if err := CheckUpstream(reports); err != nil {
		res.State = StateSkipped
		res.SkipReason = err.Error()
		log.Warn("submission skipped", "reason", res.SkipReason)
		return res, err
	}

	exp, err := s.Builder.ExportPayload(item)
	if err != nil {
		return s.fail(res, log, fmt.Errorf("building export job: %w", err))
	}
	res.ExportPayload = exp.Payload
	res.ExportFile = exp.FirstFile

	log.Info("submitting export job", "job", exp.Payload.JobInfo.Name)
	expResp, err := s.post(ctx, res, "export", exp.Payload)
	if err != nil {
		return s.fail(res, log, err)
	}
	res.ExportJobID = expResp.ID
	if err := res.transition(StateExportSubmitted); err != nil {
		return res, err
	}

	if item.SuspendRenderJob {
		log.Info("skipping render job and publish job", "export_job", res.ExportJobID)
		return res, res.transition(StateSuspended)
	}

	render, err := s.Builder.RenderPayload(item, expResp.ID, exp.FirstFile)
	if err != nil {
		return s.fail(res, log, fmt.Errorf("building render job: %w", err))
	}
	res.RenderPayload = render.Payload
	res.OutputDir = render.OutputDir

	log.Info("submitting render job", "job", render.Payload.JobInfo.Name, "depends_on", expResp.ID, "output", render.OutputDir)
	renderResp, err := s.post(ctx, res, "render", render.Payload)
	if err != nil {
		return s.fail(res, log, err)
	}
	res.RenderJobID = renderResp.ID
	if err := res.transition(StateRenderSubmitted); err != nil {
		return res, err
	}

	if !item.SuspendPublishJob {
		pj := handoff.Job{
			SubmissionID: res.SubmissionID,
			Item:         item.Name,
			BatchName:    render.Payload.JobInfo.BatchName,
			ExportJobID:  res.ExportJobID,
			RenderJobID:  res.RenderJobID,
			OutputDir:    render.OutputDir,
			Response:     renderResp.Raw,
			Time:         time.Now().UTC(),
		}
		if s.Handoff != nil {
			if err := s.Handoff.Publish(ctx, pj); err != nil {
				log.Error("publish hand-off failed", "error", err)
				return res, fmt.Errorf("%w: %w", ErrHandoff, err)
			}
		}
		res.PublishJob = &pj
	}

	log.Info("submission complete", "export_job", res.ExportJobID, "render_job", res.RenderJobID)
	return res, res.transition(StateDone)
}

// post submits payload and writes the audit record. Audit failures are logged
// only.
func (s *VrsceneSubmitter) post(ctx context.Context, res *Result, kind string, payload *deadline.Payload) (*deadline.Response, error) {
	resp, err := s.Farm.Submit(ctx, payload)

	if s.Audit != nil {
		rec := audit.Record{SubmissionID: res.SubmissionID, Kind: kind, Job: payload.JobInfo.Name, Time: time.Now().UTC()}
		if body, mErr := json.Marshal(payload); mErr == nil {
			rec.Payload = body
		}
		if resp != nil {
			rec.Response = resp.Raw
		}
		if err != nil {
			rec.Error = err.Error()
		}
		if aErr := s.Audit.Record(ctx, rec); aErr != nil {
			s.logger().Warn("audit record failed", "submission", res.SubmissionID, "kind", kind, "error", aErr)
		}
	}

	return resp, err
}

func (s *VrsceneSubmitter) fail(res *Result, log *slog.Logger, err error) (*Result, error) {
	if tErr := res.transition(StateFailed); tErr != nil {
		return res, errors.Join(err, tErr)
	}
	log.Error("submission failed", "error", err)
	return res, err
}

func (s *VrsceneSubmitter) logger() *slog.Logger {
	if s.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return s.Logger
}
