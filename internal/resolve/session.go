// Package resolve maps asset references to file paths during a scene save.
//
// A Processor is long-lived and holds the project wiring; each save creates a
// Session with BeginSave and discards it with EndSave. Results are memoized
// per Session only, since the template and publish-path mode are re-read for
// every save.
package resolve

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/VSPipe/colorbleed-config/internal/asset"
	"github.com/VSPipe/colorbleed-config/internal/uri"
	"github.com/google/uuid"
)

// Key identifies one resolution request within a session.
type Key struct {
	Raw          string
	IsSaveTarget bool
	IsLayer      bool
	ForSave      bool
}

// Processor creates resolution sessions.
type Processor struct {
	Store   asset.Store
	Root    string
	Project string
	Logger  *slog.Logger
}

// BeginSave starts a session. The publish template is only read when
// usePublishPaths is set; draft resolution never consults the store.
func (p *Processor) BeginSave(ctx context.Context, usePublishPaths bool) (*Session, error) {
	tr := &TemplateResolver{Store: p.Store, Root: p.Root, Project: p.Project}
	if usePublishPaths {
		if p.Store == nil {
			return nil, fmt.Errorf("publish paths requested but no asset store is configured")
		}
		tmpl, err := p.Store.PublishTemplate(ctx)
		if err != nil {
			return nil, fmt.Errorf("reading publish template: %w", err)
		}
		tr.Template = tmpl
	}
	return NewSession(tr, usePublishPaths, p.Logger), nil
}

// Session memoizes resolutions for a single save. It is not safe for
// concurrent use.
type Session struct {
	id              string
	resolver        PathResolver
	usePublishPaths bool
	cache           map[Key]string
	ended           bool
	log             *slog.Logger
}

// NewSession returns an active session backed by resolver.
func NewSession(resolver PathResolver, usePublishPaths bool, logger *slog.Logger) *Session {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	id := uuid.NewString()
	return &Session{
		id:              id,
		resolver:        resolver,
		usePublishPaths: usePublishPaths,
		cache:           make(map[Key]string),
		log:             logger.With("component", "resolve", "session", id),
	}
}

// ID returns the session identifier used in log records.
func (s *Session) ID() string { return s.id }

// Resolve returns the path for key. Strings that are not asset references are
// returned unchanged. Failed resolutions are not cached.
func (s *Session) Resolve(ctx context.Context, key Key) (string, error) {
	if s.ended {
		return "", ErrSessionEnded
	}
	if path, ok := s.cache[key]; ok {
		return path, nil
	}

	ref, ok := uri.Parse(key.Raw)
	if !ok {
		s.cache[key] = key.Raw
		return key.Raw, nil
	}

	published := s.usePublishPaths && !key.ForSave
	path, err := s.resolver.ResolvePath(ctx, ref, published)
	if err != nil {
		return "", err
	}

	s.log.Debug("resolved asset reference", "uri", key.Raw, "path", path, "published", published)
	s.cache[key] = path
	return path, nil
}

// Len reports the number of cached entries.
func (s *Session) Len() int { return len(s.cache) }

// EndSave clears the session. Further Resolve calls fail.
func (s *Session) EndSave() {
	clear(s.cache)
	s.resolver = nil
	s.usePublishPaths = false
	s.ended = true
}
