package parsers

import (
	"context"
	"fmt"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/batchatco/go-native-netcdf/netcdf"

	"github.com/ncar-xdev/ecgtools/api"
)

const versionRegex = `v\d{4}\d{2}\d{2}|v\d{1}`

// cmip6Keys are the CMIP6 global attributes harvested into catalog
// columns, in column order.
var cmip6Keys = []string{
	"activity_id",
	"branch_method",
	"branch_time_in_child",
	"branch_time_in_parent",
	"experiment",
	"experiment_id",
	"frequency",
	"grid",
	"grid_label",
	"institution_id",
	"nominal_resolution",
	"parent_activity_id",
	"parent_experiment_id",
	"parent_source_id",
	"parent_time_units",
	"parent_variant_label",
	"product",
	"realm",
	"source_id",
	"source_type",
	"sub_experiment",
	"sub_experiment_id",
	"table_id",
	"variable_id",
	"variant_label",
}

// ParseCMIP6 harvests CMIP6 metadata by opening the file and reading
// its global and variable attributes.
func ParseCMIP6(ctx context.Context, file string) (*api.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	g, err := netcdf.Open(file)
	if err != nil {
		return nil, fmt.Errorf("open %s: %w", file, err)
	}
	defer g.Close()

	entry := api.NewEntry()
	attrs := g.Attributes()
	for _, key := range cmip6Keys {
		entry.Set(key, attrString(attrs, key))
	}
	entry.Set("member_id", attrString(attrs, "variant_label"))

	variableID := attrString(attrs, "variable_id")
	if variableID != "" {
		vg, err := g.GetVarGetter(variableID)
		if err != nil {
			return nil, fmt.Errorf("%s: variable %q not found: %w", file, variableID, err)
		}
		varAttrs := vg.Attributes()
		for _, attr := range []string{"standard_name", "long_name", "units"} {
			entry.Set(attr, attrString(varAttrs, attr))
		}
	}

	entry.Set("vertical_levels", verticalLevels(g))

	var initYear any
	if sub := attrString(attrs, "sub_experiment_id"); sub != "" {
		if y := ExtractWithRegex(sub, `\d{4}`, ""); y != "" {
			if n, err := strconv.Atoi(y); err == nil {
				initYear = n
			}
		}
	}
	entry.Set("init_year", initYear)

	start, end, ok := timeEndpoints(g)
	entry.Set("start_time", start)
	entry.Set("end_time", end)
	if ok {
		entry.Set("time_range", start+"-"+end)
	} else {
		entry.Set("time_range", "")
	}

	entry.Set("path", file)
	version := ExtractWithRegex(file, versionRegex, "")
	if version == "" {
		version = "v0"
	}
	entry.Set("version", version)
	return entry, nil
}

// ParseCMIP6DRS extracts CMIP6 metadata purely from the Data Reference
// Syntax encoded in the file's name and directory structure, without
// opening the file.
//
// Directory structure:
//
//	<mip_era>/<activity_id>/<institution_id>/<source_id>/<experiment_id>/
//	  <member_id>/<table_id>/<variable_id>/<grid_label>/<version>
//
// File name:
//
//	<variable_id>_<table_id>_<source_id>_<experiment_id>_<member_id>_<grid_label>[_<time_range>].nc
func ParseCMIP6DRS(ctx context.Context, file string) (*api.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := ReverseTemplate(filepath.Base(file),
		"{variable_id}_{table_id}_{source_id}_{experiment_id}_{member_id}_{grid_label}_{time_range}.nc",
		"{variable_id}_{table_id}_{source_id}_{experiment_id}_{member_id}_{grid_label}.nc",
	)
	if fields == nil {
		return nil, fmt.Errorf("%s does not match the CMIP6 DRS filename templates", file)
	}

	parent := filepath.ToSlash(filepath.Dir(file))
	before, _, found := strings.Cut(parent, "/"+fields["source_id"]+"/")
	if !found {
		return nil, fmt.Errorf("%s: source_id %q not present in directory structure", file, fields["source_id"])
	}
	parts := strings.Split(strings.Trim(before, "/"), "/")
	if len(parts) < 2 {
		return nil, fmt.Errorf("%s: directory structure too shallow for the CMIP6 DRS", file)
	}

	entry := api.NewEntry()
	for _, key := range []string{"variable_id", "table_id", "source_id", "experiment_id", "grid_label", "time_range"} {
		entry.Set(key, fields[key])
	}
	entry.Set("activity_id", parts[len(parts)-2])
	entry.Set("institution_id", parts[len(parts)-1])

	version := ExtractWithRegex(parent, versionRegex, "")
	if version == "" {
		version = "v0"
	}
	entry.Set("version", version)
	entry.Set("path", file)

	// DCPP members encode the initialization year: s1960-r2i1p1f1.
	memberID := fields["member_id"]
	if strings.HasPrefix(memberID, "s") && strings.Contains(memberID, "-") {
		init, rest, _ := strings.Cut(memberID, "-")
		if year, err := strconv.Atoi(strings.TrimPrefix(init, "s")); err == nil {
			entry.Set("dcpp_init_year", year)
			memberID = rest
		}
	} else {
		entry.Set("dcpp_init_year", nil)
	}
	entry.Set("member_id", memberID)
	return entry, nil
}

// ParseCMIP5DRS extracts CMIP5 metadata from the CMIP5 Data Reference
// Syntax, without opening the file.
func ParseCMIP5DRS(ctx context.Context, file string) (*api.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	fields := ReverseTemplate(filepath.Base(file),
		"{variable}_{mip_table}_{model}_{experiment}_{ensemble_member}_{temporal_subset}.nc",
		"{variable}_{mip_table}_{model}_{experiment}_{ensemble_member}.nc",
	)
	if fields == nil {
		return nil, fmt.Errorf("%s does not match the CMIP5 DRS filename templates", file)
	}

	entry := api.NewEntry()
	for _, key := range []string{"variable", "mip_table", "model", "experiment", "ensemble_member", "temporal_subset"} {
		entry.Set(key, fields[key])
	}
	entry.Set("frequency", ExtractWithRegex(file, `/3hr/|/6hr/|/day/|/fx/|/mon/|/monClim/|/subhr/|/yr/`, "/"))
	entry.Set("modeling_realm", ExtractWithRegex(file, `aerosol|atmos|land|landIce|ocean|ocnBgchem|seaIce`, ""))

	version := ExtractWithRegex(file, versionRegex, "")
	if version == "" {
		version = "v0"
	}
	entry.Set("version", version)
	entry.Set("path", file)

	parent := filepath.ToSlash(filepath.Dir(file))
	before, _, found := strings.Cut(parent, fields["experiment"])
	if !found {
		return nil, fmt.Errorf("%s: experiment %q not present in directory structure", file, fields["experiment"])
	}
	parts := strings.Split(strings.Trim(before, "/"), "/")
	if len(parts) < 3 {
		return nil, fmt.Errorf("%s: directory structure too shallow for the CMIP5 DRS", file)
	}
	entry.Set("institute", parts[len(parts)-2])
	entry.Set("product_id", parts[len(parts)-3])
	return entry, nil
}
