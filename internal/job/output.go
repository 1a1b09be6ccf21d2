package job

import (
	"fmt"
	"path/filepath"
	"strings"
)

// Tokens recognized in output templates.
const (
	SceneToken = "<Scene>"
	LayerToken = "<Layer>"
)

// exportExt is the extension of the per-frame export files.
const exportExt = "vrscene"

// FormatOutput substitutes <Scene> with the scene's base name (extension
// stripped, leading dots never count as one) and <Layer> with layer. For a
// directory the result is returned with forward slashes; for a file,
// _NNNN.vrscene for startFrame is appended.
//
// Example: "<Scene>/<Scene>_<Layer>/<Layer>" with shot010_v006.ma and CHARS
// gives "shot010_v006/shot010_v006_CHARS/CHARS_1001.vrscene".
func FormatOutput(template, sceneFile, layer string, startFrame int, dir bool) string {
	base := filepath.Base(strings.ReplaceAll(sceneFile, "\\", "/"))
	scene := base
	if stem := strings.TrimSuffix(base, filepath.Ext(base)); strings.TrimLeft(stem, ".") != "" {
		scene = stem
	}

	out := strings.ReplaceAll(template, SceneToken, scene)
	out = strings.ReplaceAll(out, LayerToken, layer)

	if !dir {
		out = fmt.Sprintf("%s_%04d.%s", out, startFrame, exportExt)
	}
	return strings.ReplaceAll(out, "\\", "/")
}

// dirOf returns the directory of a forward-slash path.
func dirOf(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i < 0 {
		return "."
	}
	if i == 0 {
		return "/"
	}
	return p[:i]
}
