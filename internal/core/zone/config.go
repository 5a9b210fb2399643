package zone

import (
	"context"
	"fmt"
	"io"
	"os"

	"golang.org/x/sync/errgroup"
	"gopkg.in/yaml.v3"
)

// Bounds is an axis aligned rectangle in the XY plane, given by its
// top-left corner.
type Bounds struct {
	X      float64 `json:"x" yaml:"x"`
	Y      float64 `json:"y" yaml:"y"`
	Width  float64 `json:"width" yaml:"width"`
	Height float64 `json:"height" yaml:"height"`
}

// Definition describes one zone in a zone file.
type Definition struct {
	Name    string        `json:"name" yaml:"name"`
	Bounds  Bounds        `json:"bounds" yaml:"bounds"`
	Profile ProfileConfig `json:"profile" yaml:"profile"`
}

// UnmarshalYAML lets a definition omit its profile entirely.
func (d *Definition) UnmarshalYAML(node *yaml.Node) error {
	type plain Definition
	*d = Definition{Profile: DefaultProfileConfig()}
	return node.Decode((*plain)(d))
}

// File is the top level document of a zone file.
type File struct {
	Zones []Definition `json:"zones" yaml:"zones"`
}

// LoadYAML decodes a zone file and validates it.
func LoadYAML(r io.Reader) (*File, error) {
	var f File
	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&f); err != nil && err != io.EOF {
		return nil, err
	}
	if err := f.Validate(); err != nil {
		return nil, err
	}
	return &f, nil
}

// LoadFile reads a zone file from disk.
func LoadFile(path string) (*File, error) {
	fh, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer fh.Close()

	f, err := LoadYAML(fh)
	if err != nil {
		return nil, fmt.Errorf("zone file %s: %w", path, err)
	}
	return f, nil
}

// LoadFiles reads every path concurrently and merges the definitions in
// path order. Zone names must be unique across all files.
func LoadFiles(ctx context.Context, paths ...string) ([]Definition, error) {
	if len(paths) == 0 {
		return nil, ErrNoZoneFilePaths
	}

	files := make([]*File, len(paths))
	g, ctx := errgroup.WithContext(ctx)
	for i, path := range paths {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			f, err := LoadFile(path)
			if err != nil {
				return err
			}
			files[i] = f
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	merged := File{}
	for _, f := range files {
		merged.Zones = append(merged.Zones, f.Zones...)
	}
	if err := merged.Validate(); err != nil {
		return nil, err
	}
	return merged.Zones, nil
}

// Validate checks names, bounds and profiles of every definition.
func (f *File) Validate() error {
	seen := make(map[string]struct{}, len(f.Zones))
	for i, d := range f.Zones {
		if d.Name == "" {
			return fmt.Errorf("zone %d: %w", i, ErrUnnamedZone)
		}
		if _, dup := seen[d.Name]; dup {
			return fmt.Errorf("zone %q: %w", d.Name, ErrDuplicateZone)
		}
		seen[d.Name] = struct{}{}
		if err := d.Validate(); err != nil {
			return err
		}
	}
	return nil
}

func (b Bounds) Validate() error {
	if b.Width <= 0 || b.Height <= 0 {
		return ErrInvalidBounds
	}
	return nil
}

func (d Definition) Validate() error {
	if err := d.Bounds.Validate(); err != nil {
		return fmt.Errorf("zone %q: %w", d.Name, err)
	}
	if err := d.Profile.Validate(); err != nil {
		return fmt.Errorf("zone %q: %w", d.Name, err)
	}
	return nil
}
