package job

import "testing"

func TestFormatOutput(t *testing.T) {
	tests := []struct {
		name     string
		template string
		scene    string
		layer    string
		start    int
		dir      bool
		want     string
	}{
		{"file", "<Scene>/<Scene>_<Layer>/<Layer>", "/work/shot010_v006.ma", "CHARS", 1001, false, "shot010_v006/shot010_v006_CHARS/CHARS_1001.vrscene"},
		{"file pads frame", "vrscene/<Scene>/<Layer>", "shot010_v006.mb", "BG", 1, false, "vrscene/shot010_v006/BG_0001.vrscene"},
		{"dir", "/renders/<Scene>/<Layer>", "shot010_v006.ma", "CHARS", 1001, true, "/renders/shot010_v006/CHARS"},
		{"backslashes", `P:\proj\vrscene\<Scene>\<Layer>`, `P:\proj\scenes\shot010_v006.ma`, "FX", 7, false, "P:/proj/vrscene/shot010_v006/FX_0007.vrscene"},
		{"dir backslashes", `P:\renders\<Scene>`, "shot.ma", "FX", 1, true, "P:/renders/shot"},
		{"dot-only scene name", "<Scene>/<Layer>", "/w/.ma", "L", 1, true, ".ma/L"},
		{"leading dots kept", "<Scene>", "/w/..shot.ma", "L", 1, true, "..shot"},
		{"no tokens", "/renders/static", "shot.ma", "FX", 1, true, "/renders/static"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := FormatOutput(tt.template, tt.scene, tt.layer, tt.start, tt.dir)
			if got != tt.want {
				t.Errorf("FormatOutput() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDirOf(t *testing.T) {
	tests := map[string]string{
		"a/b/c.vrscene": "a/b",
		"/c.vrscene":    "/",
		"c.vrscene":     ".",
	}
	for in, want := range tests {
		if got := dirOf(in); got != want {
			t.Errorf("dirOf(%q) = %q, want %q", in, got, want)
		}
	}
}
