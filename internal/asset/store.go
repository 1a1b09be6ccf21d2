// Package asset provides read-only lookups against the project asset store:
// asset records by name and the project's publish path template.
package asset

import (
	"context"
	"errors"
)

// ErrAssetNotFound is returned when no asset record matches the requested name.
var ErrAssetNotFound = errors.New("asset not found")

// Record is the subset of an asset document the resolver needs.
type Record struct {
	Name string `yaml:"name"`
	Silo string `yaml:"silo"`
}

// Store looks up project data.
type Store interface {
	// FindAsset returns the asset record named name, or ErrAssetNotFound.
	FindAsset(ctx context.Context, name string) (Record, error)

	// PublishTemplate returns the project's publish path template.
	PublishTemplate(ctx context.Context) (string, error)
}
