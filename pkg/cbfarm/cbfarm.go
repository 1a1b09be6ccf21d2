// Package cbfarm provides the public Go library API for cbfarm.
//
// cbfarm submits vrscene export and render jobs to a Deadline farm as a
// dependency chain and resolves avalon:// references to file paths. This
// package is meant for embedding in DCC host plugins and pipeline services.
//
// # Basic Usage
//
//	client, err := cbfarm.New(cbfarm.Options{ConfigPath: "cbfarm.yaml"})
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer client.Close()
//
//	// Submit export + render jobs for one render layer
//	result, err := client.Submit(ctx, item)
//
//	// Resolve asset references for one save
//	session, err := client.BeginSave(ctx, client.UsePublishPaths())
//	path, err := session.Resolve(ctx, cbfarm.Key{Raw: "avalon://hero/modelDefault.abc"})
//	session.EndSave()
package cbfarm

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"

	"github.com/VSPipe/colorbleed-config/internal/config"
	"github.com/VSPipe/colorbleed-config/internal/deadline"
	"github.com/VSPipe/colorbleed-config/internal/job"
	"github.com/VSPipe/colorbleed-config/internal/resolve"
	"github.com/VSPipe/colorbleed-config/internal/submit"
)

// Options configures a cbfarm client.
type Options struct {
	// ConfigPath is the project config file. Default: "cbfarm.yaml".
	ConfigPath string

	// Config, when set, is used as-is instead of loading ConfigPath.
	Config *Config

	// NoInherit skips the system and user config layers.
	NoInherit bool

	// SystemConfigPath and UserConfigPath override the default layer paths.
	SystemConfigPath string
	UserConfigPath   string

	// Lookup reads the submitting process environment. Default: os.LookupEnv.
	Lookup func(key string) (string, bool)

	// HTTP is the farm HTTP client. Default: http.DefaultClient.
	HTTP deadline.HTTPClient

	// Logger receives structured logs. Default: discard.
	Logger *slog.Logger
}

// Client is the main entry point for the cbfarm library.
type Client struct {
	cfg       *config.Config
	registry  *submit.Registry
	processor *resolve.Processor
	renderers *job.RendererMap
	closers   []io.Closer
}

// New creates a new cbfarm Client.
func New(opts Options) (*Client, error) {
	cfg := opts.Config
	if cfg == nil {
		var err error
		cfg, err = loadConfig(opts)
		if err != nil {
			return nil, err
		}
	} else {
		if errs := config.Validate(cfg); len(errs) > 0 {
			return nil, &config.ValidationError{Errors: errs}
		}
		cp := *cfg
		cfg = &cp
	}
	applyDefaults(cfg)

	logger := opts.Logger
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	lookup := opts.Lookup
	if lookup == nil {
		lookup = os.LookupEnv
	}

	c := &Client{cfg: cfg, renderers: job.NewRendererMap(cfg.RendererPrefixes())}

	store, closer, err := newStore(context.Background(), cfg.Assets, cfg.Project.Name)
	if err != nil {
		return nil, err
	}
	c.addCloser(closer)

	auditSink, err := newAuditSink(cfg.Audit)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initializing audit: %w", err)
	}

	handoffSink, closer, err := newHandoffSink(cfg.Handoff)
	if err != nil {
		_ = c.Close()
		return nil, fmt.Errorf("initializing hand-off: %w", err)
	}
	c.addCloser(closer)

	farm := &deadline.Client{
		BaseURL: cfg.Deadline.URL,
		HTTP:    opts.HTTP,
		Timeout: cfg.Deadline.Timeout,
		Logger:  logger,
	}
	c.registry = newRegistry(farm, newBuilder(cfg, lookup, logger), auditSink, handoffSink, logger)
	c.processor = &resolve.Processor{
		Store:   store,
		Root:    cfg.Project.Root,
		Project: cfg.Project.Name,
		Logger:  logger,
	}

	return c, nil
}

func loadConfig(opts Options) (*config.Config, error) {
	hr, err := config.LoadHierarchical(config.HierarchicalOptions{
		ProjectPath:      opts.ConfigPath,
		SystemConfigPath: opts.SystemConfigPath,
		UserConfigPath:   opts.UserConfigPath,
		NoInherit:        opts.NoInherit,
	})
	if err != nil {
		return nil, err
	}

	if err := config.ApplyEnv(hr.Config); err != nil {
		return nil, fmt.Errorf("applying environment: %w", err)
	}
	if errs := config.Validate(hr.Config); len(errs) > 0 {
		return nil, &config.ValidationError{Errors: errs}
	}
	return hr.Config, nil
}

func (c *Client) addCloser(cl io.Closer) {
	if cl != nil {
		c.closers = append(c.closers, cl)
	}
}

// Config returns the effective configuration, defaults applied.
func (c *Client) Config() *Config {
	return c.cfg
}

// UsePublishPaths returns the configured resolver mode.
func (c *Client) UsePublishPaths() bool {
	return c.cfg.Resolver.PublishPaths()
}

// ValidateRenderSettings checks the item's renderer prefix and padding.
func (c *Client) ValidateRenderSettings(item WorkItem) []string {
	return c.renderers.ValidateRenderSettings(item)
}

// Submit validates the item's render settings and submits it with the
// configured submitter. Failed render settings count as a failed upstream
// step, so nothing is sent.
func (c *Client) Submit(ctx context.Context, item WorkItem, reports ...StepReport) (*Result, error) {
	if errs := c.ValidateRenderSettings(item); len(errs) > 0 {
		reports = append(reports, StepReport{
			Step:   "validate render settings",
			Failed: true,
			Reason: strings.Join(errs, "; "),
		})
	}

	s, err := c.registry.Get(c.cfg.Submit.Kind)
	if err != nil {
		return nil, err
	}
	return s.Submit(ctx, item, reports...)
}

// BeginSave starts a resolution session for one save.
func (c *Client) BeginSave(ctx context.Context, usePublishPaths bool) (*Session, error) {
	return c.processor.BeginSave(ctx, usePublishPaths)
}

// Close releases database and queue connections.
func (c *Client) Close() error {
	var errs []error
	for _, cl := range c.closers {
		if err := cl.Close(); err != nil {
			errs = append(errs, err)
		}
	}
	c.closers = nil
	return errors.Join(errs...)
}
