package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"runtime"
	"strings"
)

// DefaultProjectFile is the project config read when --config is not set.
const DefaultProjectFile = "cbfarm.yaml"

// windowsProgramData is used when %ProgramData% is unset.
const windowsProgramData = `C:\ProgramData`

// Level is the precedence of a config layer, lowest first.
type Level string

const (
	LevelSystem  Level = "system"
	LevelUser    Level = "user"
	LevelProject Level = "project"
)

// Layer is one config file considered by LoadHierarchical.
type Layer struct {
	Err    error // set when the file exists but failed to load
	Path   string
	Level  Level
	Loaded bool
}

// HierarchicalOptions controls LoadHierarchical.
type HierarchicalOptions struct {
	// ProjectPath defaults to DefaultProjectFile.
	ProjectPath string

	// SystemConfigPath and UserConfigPath override the per-machine and
	// per-user files. A path that does not exist skips the layer.
	SystemConfigPath string
	UserConfigPath   string

	// NoInherit loads the project config only. When false, CBFARM_NO_INHERIT
	// can still turn it on.
	NoInherit bool
}

// HierarchicalResult is the merged config plus the status of every layer.
type HierarchicalResult struct {
	Config *Config
	Layers []Layer
}

// LoadHierarchical loads the system, user and project configs, merges them in
// that order and validates the result. Missing system and user files are
// skipped; the project file is required.
func LoadHierarchical(opts HierarchicalOptions) (*HierarchicalResult, error) {
	noInherit := opts.NoInherit
	if !noInherit {
		v, err := envBool(EnvNoInheritKey, false)
		if err != nil {
			return nil, err
		}
		noInherit = v
	}

	layers := layerPaths(opts, noInherit, systemConfigPath(runtime.GOOS, os.Getenv), userConfigPath())

	var configs []*Config
	for i := range layers {
		l := &layers[i]
		cfg, err := Parse(l.Path)
		if err != nil {
			if l.Level != LevelProject && errors.Is(err, fs.ErrNotExist) {
				continue
			}
			l.Err = err
			return nil, fmt.Errorf("loading %s config: %w", l.Level, err)
		}
		l.Loaded = true
		configs = append(configs, cfg)
	}

	merged, err := MergeAll(configs)
	if err != nil {
		return nil, err
	}

	if errs := Validate(merged); len(errs) > 0 {
		return nil, &ValidationError{Errors: errs}
	}

	return &HierarchicalResult{Config: merged, Layers: layers}, nil
}

// layerPaths orders the layers to read. sysDefault and userDefault fill the
// unset overrides. A layer naming the same file as a later one is dropped so
// running from the config directory does not read a file twice.
func layerPaths(opts HierarchicalOptions, noInherit bool, sysDefault, userDefault string) []Layer {
	project := opts.ProjectPath
	if project == "" {
		project = DefaultProjectFile
	}
	if noInherit {
		return []Layer{{Path: project, Level: LevelProject}}
	}

	candidates := []Layer{
		{Path: firstNonEmpty(opts.SystemConfigPath, sysDefault), Level: LevelSystem},
		{Path: firstNonEmpty(opts.UserConfigPath, userDefault), Level: LevelUser},
		{Path: project, Level: LevelProject},
	}

	var layers []Layer
	for i, c := range candidates {
		if c.Path == "" || sameFileAsLater(c.Path, candidates[i+1:]) {
			continue
		}
		layers = append(layers, c)
	}
	return layers
}

func sameFileAsLater(path string, later []Layer) bool {
	for _, l := range later {
		if l.Path != "" && absPath(l.Path) == absPath(path) {
			return true
		}
	}
	return false
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}

// systemConfigPath is the per-machine config. Render nodes and workstations
// run Windows and share %ProgramData%\cbfarm\cbfarm.yaml; elsewhere it lives
// in /etc/cbfarm.
func systemConfigPath(goos string, getenv func(string) string) string {
	if goos == "windows" {
		root := strings.TrimRight(getenv("ProgramData"), `\/`)
		if root == "" {
			root = windowsProgramData
		}
		return root + `\cbfarm\` + DefaultProjectFile
	}
	return "/etc/cbfarm/" + DefaultProjectFile
}

// userConfigPath is the per-user config under os.UserConfigDir, which is
// %AppData% on Windows.
func userConfigPath() string {
	dir, err := os.UserConfigDir()
	if err != nil {
		return ""
	}
	return filepath.Join(dir, "cbfarm", DefaultProjectFile)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
