package parsers

import (
	"fmt"

	ncapi "github.com/batchatco/go-native-netcdf/netcdf/api"
)

// attrString renders an attribute value as a string, or "" when the
// attribute is missing. NetCDF attributes come back as scalars or
// single-element slices depending on how they were written.
func attrString(attrs ncapi.AttributeMap, key string) string {
	if attrs == nil {
		return ""
	}
	v, ok := attrs.Get(key)
	if !ok || v == nil {
		return ""
	}
	switch x := v.(type) {
	case string:
		return x
	case []string:
		if len(x) > 0 {
			return x[0]
		}
		return ""
	default:
		return fmt.Sprint(x)
	}
}

// verticalDims are the dimension names commonly used for vertical
// coordinates in model output. Matching on these names covers CMIP and
// CESM collections without a full CF axis resolution.
var verticalDims = []string{"lev", "plev", "depth", "z_t", "z_w", "olevel", "nav_lev", "sdepth"}

// verticalLevels returns the size of the first vertical dimension
// found in the group, defaulting to 1 for surface fields.
func verticalLevels(g ncapi.Group) int {
	for _, name := range verticalDims {
		if size, ok := g.GetDimension(name); ok {
			return int(size)
		}
	}
	return 1
}

// timeEndpoints reads the first and last values of the group's time
// coordinate and decodes them with the coordinate's CF units string.
func timeEndpoints(g ncapi.Group) (start, end string, ok bool) {
	vg, err := g.GetVarGetter("time")
	if err != nil {
		return "", "", false
	}
	n := vg.Len()
	if n == 0 {
		return "", "", false
	}
	first, err := sliceValue(vg, 0)
	if err != nil {
		return "", "", false
	}
	last, err := sliceValue(vg, n-1)
	if err != nil {
		return "", "", false
	}
	units := attrString(vg.Attributes(), "units")
	start, sok := DecodeCFTime(first, units)
	end, eok := DecodeCFTime(last, units)
	return start, end, sok && eok
}

func sliceValue(vg ncapi.VarGetter, i int64) (float64, error) {
	raw, err := vg.GetSlice(i, i+1)
	if err != nil {
		return 0, err
	}
	switch v := raw.(type) {
	case []float64:
		if len(v) > 0 {
			return v[0], nil
		}
	case []float32:
		if len(v) > 0 {
			return float64(v[0]), nil
		}
	case []int64:
		if len(v) > 0 {
			return float64(v[0]), nil
		}
	case []int32:
		if len(v) > 0 {
			return float64(v[0]), nil
		}
	case []int16:
		if len(v) > 0 {
			return float64(v[0]), nil
		}
	}
	return 0, fmt.Errorf("time coordinate has unsupported type %T", raw)
}
