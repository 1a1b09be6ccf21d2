// Package uri parses project-scoped asset references of the form
// avalon://{asset}/{subset}.{ext}.
package uri

import (
	"regexp"
	"strings"
)

// Scheme prefixes every asset reference.
const Scheme = "avalon://"

var pattern = regexp.MustCompile(`^avalon://(?P<asset>[^/.]+)/(?P<subset>[^/]+)\.(?P<ext>[^/.]+)$`)

// Reference is the structured form of an asset reference.
type Reference struct {
	Asset  string
	Subset string
	Ext    string
}

// Parse returns the reference encoded in raw. The second return value is false
// when raw is not an asset reference; ordinary file paths land there.
func Parse(raw string) (Reference, bool) {
	if !strings.HasPrefix(raw, Scheme) {
		return Reference{}, false
	}
	m := pattern.FindStringSubmatch(raw)
	if m == nil {
		return Reference{}, false
	}
	return Reference{
		Asset:  m[pattern.SubexpIndex("asset")],
		Subset: m[pattern.SubexpIndex("subset")],
		Ext:    m[pattern.SubexpIndex("ext")],
	}, true
}

// String formats the reference back into its URI form.
func (r Reference) String() string {
	return Scheme + r.Asset + "/" + r.Subset + "." + r.Ext
}

// DraftName is the session-local filename used for save targets and when
// publish paths are disabled.
func (r Reference) DraftName() string {
	return r.Asset + "_" + r.Subset + "." + r.Ext
}
