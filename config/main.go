package config

import (
	"errors"
	"fmt"

	"github.com/hashicorp/hcl/v2/gohcl"
	"github.com/hashicorp/hcl/v2/hclparse"
)

// Options tune how a topology is converted.
type Options struct {
	// SightDistance is how far before a signal it must be visible.
	SightDistance float64 `json:"sight-distance" hcl:"sight_distance,optional"`
	// AllPathsLength is the length of the paths enumerated for the path
	// cache.
	AllPathsLength float64 `json:"all-paths-length" hcl:"all_paths_length,optional"`
	// CheckInvariants runs structural checks on the finished graph and fails
	// the conversion if they don't hold.
	CheckInvariants bool `json:"check-invariants" hcl:"check_invariants,optional"`
}

func Default() Options {
	return Options{
		SightDistance:  200,
		AllPathsLength: 100,
	}
}

func (o Options) Validate() error {
	if o.SightDistance < 0 {
		return errors.New("sight_distance must not be negative")
	}
	if o.AllPathsLength < 0 {
		return errors.New("all_paths_length must not be negative")
	}
	return nil
}

// LoadFile reads options from an HCL file. Attributes not in the file keep
// their default values.
func LoadFile(path string) (Options, error) {
	o := Default()
	parser := hclparse.NewParser()
	file, diags := parser.ParseHCLFile(path)
	if diags.HasErrors() {
		return Options{}, fmt.Errorf("parse %s: %s", path, diags.Error())
	}
	diags = gohcl.DecodeBody(file.Body, nil, &o)
	if diags.HasErrors() {
		return Options{}, fmt.Errorf("decode %s: %s", path, diags.Error())
	}
	if err := o.Validate(); err != nil {
		return Options{}, fmt.Errorf("%s: %w", path, err)
	}
	return o, nil
}
