// Package config loads the declarative YAML build spec: everything the
// build subcommand takes as flags, in a file that can be versioned
// alongside the data.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/go-playground/validator/v10"
	"gopkg.in/yaml.v3"
)

// Spec is one catalog build described declaratively.
//
//	collection: cmip6
//	roots:
//	  - /glade/collections/cmip/CMIP6
//	jobs: 8
//	catalog: cmip6.csv
type Spec struct {
	// Collection names a registered parser.
	Collection string   `yaml:"collection" validate:"required"`
	Roots      []string `yaml:"roots" validate:"required,min=1,dive,required"`

	// Ext is the include pattern for candidate files.
	Ext     string   `yaml:"ext"`
	Depth   int      `yaml:"depth" validate:"gte=-1"`
	Exclude []string `yaml:"exclude"`

	Jobs      int     `yaml:"jobs" validate:"gte=0"`
	Timeout   string  `yaml:"timeout"`
	RateLimit float64 `yaml:"rate_limit" validate:"gte=0"`

	Catalog     string `yaml:"catalog"`
	ID          string `yaml:"id"`
	Description string `yaml:"description"`

	PathColumn     string   `yaml:"path_column"`
	VariableColumn string   `yaml:"variable_column"`
	DataFormat     string   `yaml:"data_format" validate:"omitempty,oneof=netcdf zarr"`
	FormatColumn   string   `yaml:"format_column"`
	GroupbyAttrs   []string `yaml:"groupby_attrs"`
}

var validate = validator.New()

// Load reads and validates a build spec, applying defaults for fields
// the file leaves unset.
func Load(path string) (*Spec, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config %s: %w", path, err)
	}
	spec, err := Parse(raw)
	if err != nil {
		return nil, fmt.Errorf("config %s: %w", path, err)
	}
	return spec, nil
}

// Parse decodes and validates a build spec document.
func Parse(raw []byte) (*Spec, error) {
	spec := Spec{
		Ext:        "*.nc",
		Depth:      -1,
		Jobs:       1,
		PathColumn: "path",
	}
	if err := yaml.Unmarshal(raw, &spec); err != nil {
		return nil, fmt.Errorf("parse yaml: %w", err)
	}
	if spec.DataFormat != "" && spec.FormatColumn != "" {
		return nil, errors.New("data_format and format_column are mutually exclusive")
	}
	if spec.DataFormat == "" && spec.FormatColumn == "" {
		spec.DataFormat = "netcdf"
	}
	if err := validate.Struct(&spec); err != nil {
		return nil, err
	}
	if spec.Timeout != "" {
		if _, err := time.ParseDuration(spec.Timeout); err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
	}
	return &spec, nil
}

// ParseTimeout returns the per-asset parse timeout, zero when unset.
func (s *Spec) ParseTimeout() time.Duration {
	if s.Timeout == "" {
		return 0
	}
	d, _ := time.ParseDuration(s.Timeout)
	return d
}
