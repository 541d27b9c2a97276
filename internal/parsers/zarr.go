package parsers

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/ohler55/ojg/oj"

	"github.com/ncar-xdev/ecgtools/api"
)

// zarrArray is the Zarr V2 .zarray metadata document.
type zarrArray struct {
	Chunks     []int           `json:"chunks"`
	Compressor *zarrCompressor `json:"compressor"`
	DType      string          `json:"dtype"`
	Shape      []int           `json:"shape"`
	ZarrFormat int             `json:"zarr_format"`
}

type zarrCompressor struct {
	ID    string `json:"id"`
	Level int    `json:"level,omitempty"`
}

// zarrDTypes maps numpy-style dtype encodings to plain type names.
// Endianness is irrelevant for catalog purposes, so both byte orders
// collapse onto the same name.
var zarrDTypes = map[string]string{
	"|b1": "bool",
	"|i1": "int8",
	"|u1": "uint8",
	"<i2": "int16", ">i2": "int16",
	"<i4": "int32", ">i4": "int32",
	"<i8": "int64", ">i8": "int64",
	"<u2": "uint16", ">u2": "uint16",
	"<u4": "uint32", ">u4": "uint32",
	"<u8": "uint64", ">u8": "uint64",
	"<f4": "float32", ">f4": "float32",
	"<f8": "float64", ">f8": "float64",
}

// ParseZarr harvests metadata for one variable of a Zarr V2 store.
// The candidate path is the variable's .zarray document (enumerate
// with an include pattern of *.zarray); the sibling .zattrs document
// contributes attribute columns when present.
func ParseZarr(ctx context.Context, file string) (*api.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	raw, err := os.ReadFile(file)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", file, err)
	}
	var array zarrArray
	if err := oj.Unmarshal(raw, &array); err != nil {
		return nil, fmt.Errorf("parse %s: %w", file, err)
	}

	varDir := filepath.Dir(file)
	entry := api.NewEntry()
	entry.Set("variable", filepath.Base(varDir))
	entry.Set("store", filepath.Dir(varDir))

	dtype, ok := zarrDTypes[array.DType]
	if !ok {
		dtype = array.DType
	}
	entry.Set("dtype", dtype)
	entry.Set("shape", shapeString(array.Shape))
	entry.Set("chunks", shapeString(array.Chunks))
	entry.Set("zarr_format", array.ZarrFormat)
	if array.Compressor != nil {
		entry.Set("compressor", array.Compressor.ID)
	} else {
		entry.Set("compressor", "")
	}

	// Scalar attributes from .zattrs become columns; anything nested
	// has no tabular shape and is skipped.
	if attrsRaw, err := os.ReadFile(filepath.Join(varDir, ".zattrs")); err == nil {
		parsed, err := oj.Parse(attrsRaw)
		if err != nil {
			return nil, fmt.Errorf("parse %s/.zattrs: %w", varDir, err)
		}
		if attrs, ok := parsed.(map[string]any); ok {
			keys := make([]string, 0, len(attrs))
			for key := range attrs {
				keys = append(keys, key)
			}
			sort.Strings(keys)
			for _, key := range keys {
				switch v := attrs[key].(type) {
				case string, bool, int64, float64:
					entry.Set(key, v)
				}
			}
		}
	}

	entry.Set("path", file)
	return entry, nil
}

func shapeString(dims []int) string {
	parts := make([]string, len(dims))
	for i, d := range dims {
		parts[i] = fmt.Sprint(d)
	}
	return "(" + strings.Join(parts, ",") + ")"
}
