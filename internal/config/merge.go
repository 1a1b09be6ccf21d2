package config

import "fmt"

// Merge combines two configs where overlay takes precedence over base.
// This implements the hierarchical merge semantics:
//   - version: must agree if both declare it (non-zero); fatal error on mismatch
//   - scalar fields: overlay wins when set
//   - environment.keys: union, base order first
//   - environment.session: deep merge, overlay keys win
//   - renderers: merge by name, same name in overlay replaces base entry
func Merge(base, overlay *Config) (*Config, error) {
	if base == nil {
		return overlay, nil
	}
	if overlay == nil {
		return base, nil
	}

	result := &Config{}

	if err := mergeVersion(base.Version, overlay.Version, &result.Version); err != nil {
		return nil, err
	}

	result.Deadline = DeadlineConfig{
		URL:      pick(base.Deadline.URL, overlay.Deadline.URL),
		User:     pick(base.Deadline.User, overlay.Deadline.User),
		Timeout:  pick(base.Deadline.Timeout, overlay.Deadline.Timeout),
		Pool:     pick(base.Deadline.Pool, overlay.Deadline.Pool),
		Priority: pick(base.Deadline.Priority, overlay.Deadline.Priority),
	}

	result.Project = ProjectConfig{
		Name: pick(base.Project.Name, overlay.Project.Name),
		Root: pick(base.Project.Root, overlay.Project.Root),
		Code: pick(base.Project.Code, overlay.Project.Code),
	}

	result.Environment = EnvironmentConfig{
		Keys:       unionKeys(base.Environment.Keys, overlay.Environment.Keys),
		Session:    mergeVariables(base.Environment.Session, overlay.Environment.Session),
		ToolKey:    pick(base.Environment.ToolKey, overlay.Environment.ToolKey),
		RenderTool: pick(base.Environment.RenderTool, overlay.Environment.RenderTool),
	}

	result.Resolver.UsePublishPaths = base.Resolver.UsePublishPaths
	if overlay.Resolver.UsePublishPaths != nil {
		result.Resolver.UsePublishPaths = overlay.Resolver.UsePublishPaths
	}

	// Backend sections are replaced as a whole when the overlay picks a type,
	// so fields of a different backend never leak through.
	result.Assets = base.Assets
	if overlay.Assets != (AssetsConfig{}) {
		result.Assets = overlay.Assets
	}
	result.Audit = base.Audit
	if overlay.Audit != (AuditConfig{}) {
		result.Audit = overlay.Audit
	}
	result.Handoff = base.Handoff
	if overlay.Handoff != (HandoffConfig{}) {
		result.Handoff = overlay.Handoff
	}

	result.Submit.Kind = pick(base.Submit.Kind, overlay.Submit.Kind)

	result.Renderers = mergeNamedRenderers(base.Renderers, overlay.Renderers)

	return result, nil
}

// MergeAll merges multiple configs in order (lowest precedence first).
// Returns an error if any version mismatch is found.
func MergeAll(configs []*Config) (*Config, error) {
	if len(configs) == 0 {
		return nil, fmt.Errorf("no configs to merge")
	}

	result := configs[0]
	for i := 1; i < len(configs); i++ {
		var err error
		result, err = Merge(result, configs[i])
		if err != nil {
			return nil, err
		}
	}
	return result, nil
}

func mergeVersion(base, overlay int, out *int) error {
	switch {
	case base == 0 && overlay == 0:
		*out = 0 // neither declares; validation will catch this
	case base == 0:
		*out = overlay
	case overlay == 0:
		*out = base
	case base == overlay:
		*out = base
	default:
		return fmt.Errorf("config version mismatch: one layer declares version %d, another declares version %d — all config layers must agree on version", base, overlay)
	}
	return nil
}

func pick[T comparable](base, overlay T) T {
	var zero T
	if overlay != zero {
		return overlay
	}
	return base
}

func unionKeys(base, overlay []string) []string {
	if len(base) == 0 {
		return overlay
	}
	if len(overlay) == 0 {
		return base
	}

	seen := make(map[string]bool, len(base)+len(overlay))
	var result []string
	for _, list := range [][]string{base, overlay} {
		for _, k := range list {
			if !seen[k] {
				seen[k] = true
				result = append(result, k)
			}
		}
	}
	return result
}

func mergeVariables(base, overlay map[string]string) map[string]string {
	if len(base) == 0 && len(overlay) == 0 {
		return nil
	}

	result := make(map[string]string, len(base)+len(overlay))
	for k, v := range base {
		result[k] = v
	}
	for k, v := range overlay {
		result[k] = v // overlay wins
	}
	return result
}

func mergeNamedRenderers(base, overlay []Renderer) []Renderer {
	if len(base) == 0 {
		return overlay
	}
	if len(overlay) == 0 {
		return base
	}

	overlayNames := make(map[string]bool, len(overlay))
	for _, r := range overlay {
		overlayNames[r.Name] = true
	}

	var result []Renderer
	for _, r := range base {
		if !overlayNames[r.Name] {
			result = append(result, r)
		}
	}

	result = append(result, overlay...)

	return result
}
