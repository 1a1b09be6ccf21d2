package resolve

import (
	"errors"
	"fmt"
)

var (
	// ErrMissingAsset marks published-path resolution of an asset the store
	// does not know.
	ErrMissingAsset = errors.New("missing asset record")

	// ErrSessionEnded is returned by Resolve after EndSave.
	ErrSessionEnded = errors.New("resolution session ended")

	// ErrTemplate marks a publish template that cannot produce a master path.
	ErrTemplate = errors.New("invalid publish template")
)

// MissingAssetError reports the asset name that could not be found.
type MissingAssetError struct {
	Asset string
	Err   error
}

func (e *MissingAssetError) Error() string {
	return fmt.Sprintf("invalid asset name '%s': %s", e.Asset, e.Err)
}

func (e *MissingAssetError) Is(target error) bool { return target == ErrMissingAsset }

func (e *MissingAssetError) Unwrap() error { return e.Err }

// TemplateError reports why a publish template could not be used.
type TemplateError struct {
	Template string
	Msg      string
}

func (e *TemplateError) Error() string {
	return fmt.Sprintf("%s %q: %s", ErrTemplate, e.Template, e.Msg)
}

func (e *TemplateError) Unwrap() error { return ErrTemplate }
