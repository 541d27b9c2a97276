package cmd

import (
	"fmt"
	"path/filepath"
	"time"

	"github.com/go-git/go-billy/v5/osfs"
	"github.com/spf13/cobra"

	"github.com/ncar-xdev/ecgtools/internal/catalog"
	"github.com/ncar-xdev/ecgtools/internal/config"
	"github.com/ncar-xdev/ecgtools/internal/emit"
	"github.com/ncar-xdev/ecgtools/internal/parsers"
)

var (
	buildConfigPath string
	buildOutputDir  string
	buildSpec       config.Spec
	buildTimeout    string
)

func init() {
	f := buildCmd.Flags()
	f.StringVarP(&buildConfigPath, "config", "c", "", "YAML build spec (replaces the positional form)")
	f.StringVar(&buildSpec.Ext, "ext", "*.nc", "Include pattern for candidate files")
	f.IntVar(&buildSpec.Depth, "depth", -1, "Directory levels to descend below each root (-1 for no limit)")
	f.StringArrayVar(&buildSpec.Exclude, "exclude", nil, "Exclude pattern, repeatable")
	f.IntVarP(&buildSpec.Jobs, "jobs", "j", 1, "Parallel parse workers")
	f.StringVar(&buildTimeout, "timeout", "", "Per-asset parse timeout (e.g. 30s)")
	f.Float64Var(&buildSpec.RateLimit, "rate-limit", 0, "Max file opens per second, 0 for unlimited")
	f.StringVarP(&buildSpec.Catalog, "catalog", "o", "", "Catalog output path; .db selects SQLite (default <collection>.csv)")
	f.StringVar(&buildOutputDir, "output-dir", ".", "Directory for relative catalog paths")
	f.StringVar(&buildSpec.ID, "id", "", "Collection identifier")
	f.StringVar(&buildSpec.Description, "description", "", "Collection description")
	f.StringVar(&buildSpec.PathColumn, "path-column", "path", "Column holding asset paths")
	f.StringVar(&buildSpec.VariableColumn, "variable-column", "variable", "Column holding variable names")
	f.StringVar(&buildSpec.DataFormat, "data-format", "netcdf", "Asset data format (netcdf or zarr)")
	f.StringVar(&buildSpec.FormatColumn, "format-column", "", "Column holding per-asset formats (replaces --data-format)")
	f.StringSliceVar(&buildSpec.GroupbyAttrs, "groupby", nil, "Columns identifying one aggregatable dataset")
	rootCmd.AddCommand(buildCmd)
}

var buildCmd = &cobra.Command{
	Use:   "build [collection] [root]...",
	Short: "Walk directory trees and build a catalog with the named parser",
	Args:  cobra.ArbitraryArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		spec, err := resolveBuildSpec(cmd, args)
		if err != nil {
			return err
		}

		parser, err := parsers.Lookup(spec.Collection)
		if err != nil {
			return err
		}

		roots := make([]string, len(spec.Roots))
		for i, root := range spec.Roots {
			if roots[i], err = filepath.Abs(root); err != nil {
				return fmt.Errorf("resolve root %s: %w", root, err)
			}
		}

		builder, err := catalog.New(osfs.New("/"), parser, catalog.Options{
			Roots:   roots,
			Depth:   spec.Depth,
			Include: []string{spec.Ext},
			Exclude: spec.Exclude,
			DispatchOptions: catalog.DispatchOptions{
				Workers:   spec.Jobs,
				Timeout:   spec.ParseTimeout(),
				RateLimit: spec.RateLimit,
			},
		})
		if err != nil {
			return err
		}

		result, err := builder.Build(cmd.Context())
		if err != nil {
			return err
		}

		catalogPath := spec.Catalog
		if catalogPath == "" {
			catalogPath = spec.Collection + ".csv"
		}
		if !filepath.IsAbs(catalogPath) {
			catalogPath = filepath.Join(buildOutputDir, catalogPath)
		}

		id := spec.ID
		if id == "" {
			id = spec.Collection
		}
		if err := emit.Save(catalogPath, result, emit.Options{
			SpecOptions: emit.SpecOptions{
				ID:             id,
				Description:    spec.Description,
				PathColumn:     spec.PathColumn,
				VariableColumn: spec.VariableColumn,
				DataFormat:     spec.DataFormat,
				FormatColumn:   spec.FormatColumn,
				GroupbyAttrs:   spec.GroupbyAttrs,
			},
		}); err != nil {
			return err
		}

		s := result.Summary()
		fmt.Fprintf(cmd.OutOrStdout(), "discovered %d assets: %d cataloged, %d invalid\n",
			s.Discovered, s.Succeeded, s.Failed)
		return nil
	},
}

// resolveBuildSpec merges the two invocation forms: a YAML spec via
// --config, or <collection> <root>... positionals shaped by flags.
func resolveBuildSpec(cmd *cobra.Command, args []string) (*config.Spec, error) {
	if buildConfigPath != "" {
		if len(args) > 0 {
			return nil, fmt.Errorf("--config and positional arguments are mutually exclusive")
		}
		return config.Load(buildConfigPath)
	}
	if len(args) < 2 {
		return nil, fmt.Errorf("usage: build <collection> <root>... (or --config <file>)")
	}

	buildSpec.Collection = args[0]
	buildSpec.Roots = args[1:]
	buildSpec.Timeout = buildTimeout
	// A format column replaces the fixed-format default.
	if buildSpec.FormatColumn != "" && !cmd.Flags().Changed("data-format") {
		buildSpec.DataFormat = ""
	}
	if buildSpec.Timeout != "" {
		if _, err := time.ParseDuration(buildSpec.Timeout); err != nil {
			return nil, fmt.Errorf("timeout: %w", err)
		}
	}
	return &buildSpec, nil
}
