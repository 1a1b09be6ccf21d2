package resolve

import (
	"context"
	"errors"
	"strings"

	"github.com/VSPipe/colorbleed-config/internal/asset"
	"github.com/VSPipe/colorbleed-config/internal/uri"
)

// stubVersion is formatted into the template; its folder is replaced by master.
const stubVersion = 0

// PathResolver turns a parsed reference into a path.
type PathResolver interface {
	ResolvePath(ctx context.Context, ref uri.Reference, published bool) (string, error)
}

// TemplateResolver resolves references against the project's publish template.
//
// The template must nest the version folder directly beneath the subset
// folder, with the file inside the version folder:
// .../{subset}/v{version}/{file}. The two trailing components are replaced by
// master/{subset}.{ext}.
type TemplateResolver struct {
	Store    asset.Store
	Root     string
	Project  string
	Template string
}

func (r *TemplateResolver) ResolvePath(ctx context.Context, ref uri.Reference, published bool) (string, error) {
	if !published {
		return ref.DraftName(), nil
	}
	return r.MasterPath(ctx, ref)
}

// MasterPath returns the unversioned master file path for ref.
func (r *TemplateResolver) MasterPath(ctx context.Context, ref uri.Reference) (string, error) {
	rec, err := r.Store.FindAsset(ctx, ref.Asset)
	if errors.Is(err, asset.ErrAssetNotFound) {
		return "", &MissingAssetError{Asset: ref.Asset, Err: err}
	}
	if err != nil {
		return "", err
	}

	formatted, err := Format(r.Template, map[string]any{
		"root":           r.Root,
		"project":        r.Project,
		"silo":           rec.Silo,
		"asset":          rec.Name,
		"subset":         ref.Subset,
		"representation": ref.Ext,
		"version":        stubVersion,
	})
	if err != nil {
		return "", err
	}
	formatted = NormalizeSlashes(formatted)

	subsetDir := dirname(dirname(formatted))
	if subsetDir == "" {
		return "", &TemplateError{Template: r.Template, Msg: "expected at least three path components to strip the version folder"}
	}
	return subsetDir + "/master/" + ref.Subset + "." + ref.Ext, nil
}

// NormalizeSlashes converts backslashes to forward slashes.
func NormalizeSlashes(p string) string {
	return strings.ReplaceAll(p, "\\", "/")
}

// dirname drops the last slash-separated component; "" when there is none.
func dirname(p string) string {
	i := strings.LastIndexByte(p, '/')
	if i <= 0 {
		return ""
	}
	return p[:i]
}
