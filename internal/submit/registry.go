package submit

import (
	"context"
	"fmt"
	"sort"

	"github.com/VSPipe/colorbleed-config/internal/job"
)

// Submitter sends the farm jobs for one work item.
type Submitter interface {
	Submit(ctx context.Context, item job.WorkItem, reports ...StepReport) (*Result, error)
}

// Registry maps submission kinds to Submitter implementations.
type Registry struct {
	submitters map[string]Submitter
}

// NewRegistry creates a new empty submitter registry.
func NewRegistry() *Registry {
	return &Registry{submitters: make(map[string]Submitter)}
}

// Register adds a submitter for the given kind.
func (r *Registry) Register(kind string, s Submitter) {
	r.submitters[kind] = s
}

// Get returns the submitter for the given kind.
func (r *Registry) Get(kind string) (Submitter, error) {
	s, ok := r.submitters[kind]
	if !ok {
		return nil, fmt.Errorf("unknown submission kind '%s' — supported kinds: %s", kind, r.supportedKinds())
	}
	return s, nil
}

func (r *Registry) supportedKinds() string {
	kinds := make([]string, 0, len(r.submitters))
	for k := range r.submitters {
		kinds = append(kinds, k)
	}
	if len(kinds) == 0 {
		return "(none registered)"
	}
	sort.Strings(kinds)
	return fmt.Sprintf("%v", kinds)
}
