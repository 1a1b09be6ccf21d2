package job

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"github.com/VSPipe/colorbleed-config/internal/deadline"
)

const (
	// ExportPlugin exports vrscene files from the scene.
	ExportPlugin = "MayaBatch"
	// RenderPlugin renders the exported vrscene files.
	RenderPlugin = "Vray"

	// DefaultToolKey is the environment variable holding the tool list.
	DefaultToolKey = "AVALON_TOOLS"
	// DefaultRenderTool is appended to the tool list of render jobs.
	DefaultRenderTool = "vrayrenderslave"

	defaultImageExt = "exr"
)

// MayaBatchInfo is the plugin block of the export job.
type MayaBatchInfo struct {
	Renderer              string `json:"Renderer"`
	Version               string `json:"Version"`
	SceneFile             string `json:"SceneFile"`
	ProjectPath           string `json:"ProjectPath,omitempty"`
	CommandLineOptions    string `json:"CommandLineOptions,omitempty"`
	SkipExistingFrames    bool   `json:"SkipExistingFrames"`
	UsingRenderLayers     bool   `json:"UsingRenderLayers"`
	UseLegacyRenderLayers bool   `json:"UseLegacyRenderLayers"`
}

// VrayInfo is the plugin block of the render job.
type VrayInfo struct {
	InputFilename         string `json:"InputFilename"`
	OutputFilename        string `json:"OutputFilename"`
	SeparateFilesPerFrame bool   `json:"SeparateFilesPerFrame"`
	VRayEngine            string `json:"VRayEngine"`
	Width                 int    `json:"Width"`
	Height                int    `json:"Height"`
}

// DirMaker creates directories.
type DirMaker interface {
	MkdirAll(path string, perm os.FileMode) error
}

// OSFS creates directories on the real filesystem.
type OSFS struct{}

func (OSFS) MkdirAll(path string, perm os.FileMode) error { return os.MkdirAll(path, perm) }

// Builder turns work items into export and render payloads. Both payloads of
// one item share the batch name and base environment.
type Builder struct {
	// Environment is the base environment; it is never modified.
	Environment *deadline.Environment
	// ToolKey and RenderTool select the tool appended for render jobs.
	ToolKey    string
	RenderTool string
	// DefaultUser is used when the item context has no user.
	DefaultUser string
	Pool        string
	Priority    int
	FS          DirMaker
	// Logger defaults to discarding.
	Logger      *slog.Logger
}

// Export is a built export job.
type Export struct {
	Payload *deadline.Payload
	// FirstFile is the export file of the first frame; it is the render job's input.
	FirstFile string
}

// Render is a built render job.
type Render struct {
	Payload *deadline.Payload
	// OutputDir is the resolved render output directory; it exists on disk.
	OutputDir string
}

// BatchName groups the jobs of one scene: "[code - ]scene.ma - (vrscene)".
func BatchName(sceneFile, code string) string {
	name := fmt.Sprintf("%s - (vrscene)", sceneBase(sceneFile))
	if code != "" {
		name = fmt.Sprintf("%s - %s", code, name)
	}
	return name
}

// ExportPayload builds the job that writes per-frame vrscene files.
func (b *Builder) ExportPayload(item WorkItem) (*Export, error) {
	if errs := Validate(&item); len(errs) > 0 {
		return nil, &ValidationError{Item: item.Name, Errors: errs}
	}

	firstFile := FormatOutput(item.VrsceneOutput, item.SceneFile, item.Name, item.StartFrame, false)

	framesPerTask := item.FramesPerTask
	if framesPerTask == 0 {
		framesPerTask = 1
	}

	info := b.jobInfo(item, "Export", ExportPlugin)
	info.FramesPerTask = framesPerTask
	info.Comment = item.Context.Comment
	info.OutputDirectories = []string{dirOf(firstFile)}
	info.Environment = b.Environment.Clone()

	plugin := MayaBatchInfo{
		Renderer:              "vray",
		Version:               item.Context.MayaVersion,
		SceneFile:             item.SceneFile,
		ProjectPath:           item.Context.WorkspaceDir,
		SkipExistingFrames:    true,
		UsingRenderLayers:     true,
		UseLegacyRenderLayers: true,
	}
	if cmd, err := ExportCommand(item); err == nil {
		plugin.CommandLineOptions = cmd
	} else {
		b.logger().Debug("export job has no command line", "item", item.Name, "error", err)
	}

	return &Export{
		Payload:   &deadline.Payload{JobInfo: info, PluginInfo: plugin, AuxFiles: []string{}},
		FirstFile: firstFile,
	}, nil
}

// RenderPayload builds the job that renders exported files. It depends on
// dependencyID and creates the output directory before returning.
func (b *Builder) RenderPayload(item WorkItem, dependencyID, inputFile string) (*Render, error) {
	if dependencyID == "" {
		return nil, fmt.Errorf("render job for '%s' requires the export job id", item.Name)
	}
	if errs := Validate(&item); len(errs) > 0 {
		return nil, &ValidationError{Item: item.Name, Errors: errs}
	}
	if item.SuspendRenderJob {
		return nil, fmt.Errorf("render job for '%s' is suspended", item.Name)
	}

	outputDir := FormatOutput(item.OutputDir, item.SceneFile, item.Name, item.StartFrame, true)

	fs := b.FS
	if fs == nil {
		fs = OSFS{}
	}
	if err := fs.MkdirAll(filepath.FromSlash(outputDir), 0755); err != nil {
		return nil, fmt.Errorf("creating render output directory %s: %w", outputDir, err)
	}

	ext := item.Ext
	if ext == "" {
		ext = defaultImageExt
	}
	outputFile := strings.TrimSuffix(outputDir, "/") + "/" + item.Name + "." + ext

	toolKey := b.ToolKey
	if toolKey == "" {
		toolKey = DefaultToolKey
	}
	renderTool := b.RenderTool
	if renderTool == "" {
		renderTool = DefaultRenderTool
	}

	no := false
	info := b.jobInfo(item, "Render", RenderPlugin)
	info.Dependencies = []string{dependencyID}
	info.OverrideTaskExtraInfoNames = &no
	info.OutputDirectories = []string{outputDir}
	info.Environment = WithTool(b.Environment, toolKey, renderTool)

	plugin := VrayInfo{
		InputFilename:         inputFile,
		OutputFilename:        outputFile,
		SeparateFilesPerFrame: true,
		VRayEngine:            "V-Ray",
		Width:                 item.Width(),
		Height:                item.Height(),
	}

	return &Render{
		Payload:   &deadline.Payload{JobInfo: info, PluginInfo: plugin, AuxFiles: []string{}},
		OutputDir: outputDir,
	}, nil
}

// ExportCommand returns the Render.exe arguments that export vrscene files for
// item's layer through its first camera.
func ExportCommand(item WorkItem) (string, error) {
	if len(item.Cameras) == 0 {
		return "", fmt.Errorf("work item '%s' has no camera", item.Name)
	}
	return fmt.Sprintf("-r vray -proj %s -cam %s -noRender -s %d -e %d -rl %s -exportFramesSeparate",
		item.Context.WorkspaceDir, item.Cameras[0], item.StartFrame, item.EndFrame, item.Name), nil
}

func (b *Builder) logger() *slog.Logger {
	if b.Logger == nil {
		return slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	return b.Logger
}

func (b *Builder) jobInfo(item WorkItem, verb, plugin string) deadline.JobInfo {
	user := item.Context.User
	if user == "" {
		user = b.DefaultUser
	}
	return deadline.JobInfo{
		Name:      fmt.Sprintf("%s %s - %s [%d-%d]", verb, sceneBase(item.SceneFile), item.Name, item.StartFrame, item.EndFrame),
		BatchName: BatchName(item.SceneFile, item.Context.Code),
		UserName:  user,
		Plugin:    plugin,
		Frames:    fmt.Sprintf("%d-%d", item.StartFrame, item.EndFrame),
		Pool:      b.Pool,
		Priority:  b.Priority,
	}
}

func sceneBase(sceneFile string) string {
	return filepath.Base(strings.ReplaceAll(sceneFile, "\\", "/"))
}
