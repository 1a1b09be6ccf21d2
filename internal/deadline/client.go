package deadline

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// DefaultURL is used when no farm URL is configured.
const DefaultURL = "http://localhost:8082"

// ErrSubmissionRejected marks a job the farm did not accept.
var ErrSubmissionRejected = errors.New("submission rejected")

// SubmissionError carries the farm's response for a rejected job.
type SubmissionError struct {
	Job    string
	Status int
	Body   string
	Err    error
}

func (e *SubmissionError) Error() string {
	msg := fmt.Sprintf("%s: %s", e.Job, ErrSubmissionRejected)
	if e.Status != 0 {
		msg += fmt.Sprintf(" (HTTP %d)", e.Status)
	}
	if e.Err != nil {
		msg += ": " + e.Err.Error()
	}
	if e.Body != "" {
		msg += ": " + e.Body
	}
	return msg
}

func (e *SubmissionError) Is(target error) bool { return target == ErrSubmissionRejected }

func (e *SubmissionError) Unwrap() error { return e.Err }

// HTTPClient abstracts HTTP operations for testing.
type HTTPClient interface {
	Do(req *http.Request) (*http.Response, error)
}

// Response is a successful submission.
type Response struct {
	// ID is the farm-assigned job id, usable as a dependency.
	ID string
	// Raw is the complete response body.
	Raw json.RawMessage
}

// Client posts jobs to the farm.
type Client struct {
	BaseURL string
	HTTP    HTTPClient
	// Timeout bounds each request (0 = no extra timeout beyond context).
	Timeout time.Duration
	Logger  *slog.Logger
}

// JobsURL returns the submission endpoint.
func (c *Client) JobsURL() string {
	base := c.BaseURL
	if base == "" {
		base = DefaultURL
	}
	return strings.TrimRight(base, "/") + "/api/jobs"
}

// Submit posts payload and returns the created job. Any non-2xx status yields a
// *SubmissionError with the response body. A sent request is never withdrawn.
func (c *Client) Submit(ctx context.Context, payload *Payload) (*Response, error) {
	name := payload.JobInfo.Name

	body, err := json.Marshal(payload)
	if err != nil {
		return nil, fmt.Errorf("encoding job %q: %w", name, err)
	}

	if c.Timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, c.Timeout)
		defer cancel()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.JobsURL(), bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("creating request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	client := c.HTTP
	if client == nil {
		client = http.DefaultClient
	}

	c.logger().Info("submitting job", "job", name, "plugin", payload.JobInfo.Plugin, "url", req.URL.String())

	resp, err := client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("posting job %q to %s: %w", name, c.JobsURL(), err)
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("reading response for job %q: %w", name, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return nil, &SubmissionError{Job: name, Status: resp.StatusCode, Body: string(raw)}
	}

	var decoded struct {
		ID string `json:"_id"`
	}
	if err := json.Unmarshal(raw, &decoded); err != nil {
		return nil, &SubmissionError{Job: name, Status: resp.StatusCode, Body: string(raw), Err: fmt.Errorf("decoding response: %w", err)}
	}
	if decoded.ID == "" {
		return nil, &SubmissionError{Job: name, Status: resp.StatusCode, Body: string(raw), Err: errors.New("response has no _id")}
	}

	c.logger().Info("job accepted", "job", name, "id", decoded.ID)
	return &Response{ID: decoded.ID, Raw: json.RawMessage(raw)}, nil
}

func (c *Client) logger() *slog.Logger {
	if c.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return c.Logger
}
