// Package job builds farm job payloads from render work items.
package job

import (
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// WorkItem describes one render layer to export and render.
type WorkItem struct {
	// Name is the render layer name; it replaces <Layer> in output templates.
	Name       string `yaml:"name"`
	SceneFile  string `yaml:"sceneFile"`
	StartFrame int    `yaml:"startFrame"`
	EndFrame   int    `yaml:"endFrame"`
	// FramesPerTask defaults to 1.
	FramesPerTask int      `yaml:"framesPerTask,omitempty"`
	Resolution    []int    `yaml:"resolution"`
	// Cameras[0] drives the export command line; with no cameras the export
	// job is sent without CommandLineOptions.
	Cameras       []string `yaml:"cameras,omitempty"`
	// VrsceneOutput is the export file template, e.g. <Scene>/<Scene>_<Layer>/<Layer>.
	VrsceneOutput string `yaml:"vrsceneOutput"`
	// OutputDir is the render output directory template.
	OutputDir string `yaml:"outputDir"`
	// Ext is the rendered image extension; defaults to exr.
	Ext string `yaml:"ext,omitempty"`

	SuspendRenderJob  bool `yaml:"suspendRenderJob,omitempty"`
	SuspendPublishJob bool `yaml:"suspendPublishJob,omitempty"`

	// Render settings checked by ValidateRenderSettings.
	Renderer       string `yaml:"renderer,omitempty"`
	FilenamePrefix string `yaml:"filenamePrefix,omitempty"`
	Padding        int    `yaml:"padding,omitempty"`

	Context Context `yaml:"context"`
}

// Context is the session-wide data shared by every work item of a publish.
type Context struct {
	// Code is the optional project code prefixed to batch names.
	Code         string `yaml:"code,omitempty"`
	User         string `yaml:"user,omitempty"`
	Comment      string `yaml:"comment,omitempty"`
	MayaVersion  string `yaml:"mayaVersion,omitempty"`
	WorkspaceDir string `yaml:"workspaceDir,omitempty"`
}

// Width returns the horizontal resolution, or 0 when unset.
func (w WorkItem) Width() int {
	if len(w.Resolution) < 1 {
		return 0
	}
	return w.Resolution[0]
}

// Height returns the vertical resolution, or 0 when unset.
func (w WorkItem) Height() int {
	if len(w.Resolution) < 2 {
		return 0
	}
	return w.Resolution[1]
}

// LoadWorkItem reads a YAML work item file.
func LoadWorkItem(path string) (*WorkItem, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading work item %s: %w", path, err)
	}

	var item WorkItem
	if err := yaml.Unmarshal(data, &item); err != nil {
		return nil, fmt.Errorf("parsing work item %s: %w", path, err)
	}

	if errs := Validate(&item); len(errs) > 0 {
		return nil, &ValidationError{Item: item.Name, Errors: errs}
	}
	return &item, nil
}

// ValidationError holds multiple work item problems.
type ValidationError struct {
	Item   string
	Errors []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("work item '%s' is invalid:\n  - %s", e.Item, strings.Join(e.Errors, "\n  - "))
}

// Validate checks the fields the payload builder depends on.
func Validate(item *WorkItem) []string {
	var errs []string

	if item.Name == "" {
		errs = append(errs, "'name' is required")
	}
	if item.SceneFile == "" {
		errs = append(errs, "'sceneFile' is required")
	}
	if item.EndFrame < item.StartFrame {
		errs = append(errs, fmt.Sprintf("endFrame %d is before startFrame %d", item.EndFrame, item.StartFrame))
	}
	if item.FramesPerTask < 0 {
		errs = append(errs, "'framesPerTask' must not be negative")
	}
	if item.VrsceneOutput == "" {
		errs = append(errs, "'vrsceneOutput' is required")
	}

	if item.SuspendRenderJob {
		return errs
	}
	if item.OutputDir == "" {
		errs = append(errs, "'outputDir' is required unless suspendRenderJob is set")
	}
	if len(item.Resolution) != 2 || item.Resolution[0] <= 0 || item.Resolution[1] <= 0 {
		errs = append(errs, fmt.Sprintf("'resolution' must be [width, height] with positive values, got %v", item.Resolution))
	}
	return errs
}
