// Package catalog drives the build pipeline: enumerate candidate
// paths, fan the attribute parser out over them, and aggregate the
// outcomes into a rectangular table plus a failure log.
package catalog

import (
	"context"
	"fmt"
	"log/slog"

	billy "github.com/go-git/go-billy/v5"

	"github.com/ncar-xdev/ecgtools/api"
	"github.com/ncar-xdev/ecgtools/internal/walk"
)

// Options configures one build run.
type Options struct {
	// Roots, Depth, Include and Exclude are passed to the path walker.
	Roots   []string
	Depth   int
	Include []string
	Exclude []string

	DispatchOptions

	Logger *slog.Logger
}

// Builder runs the enumerate → parse → aggregate pipeline. All state
// is created fresh per Build call; a Builder may be reused.
type Builder struct {
	fs     billy.Filesystem
	parser api.Parser
	opts   Options
	log    *slog.Logger
}

// Failure records one path the parser could not handle.
type Failure struct {
	Path  string
	Error string
}

// Result is the outcome of a completed run. Every discovered path
// lands in exactly one of Table or Failures, both in discovery order.
type Result struct {
	Table      *Table
	Failures   []Failure
	Discovered int
}

// Summary reports the observable counts of a run.
type Summary struct {
	Discovered int
	Succeeded  int
	Failed     int
}

func (r *Result) Summary() Summary {
	return Summary{
		Discovered: r.Discovered,
		Succeeded:  r.Table.Len(),
		Failed:     len(r.Failures),
	}
}

// New validates configuration up front: a missing parser, empty roots,
// or a negative concurrency budget fail here, before any enumeration
// or dispatch begins.
func New(fs billy.Filesystem, parser api.Parser, opts Options) (*Builder, error) {
	if parser == nil {
		return nil, fmt.Errorf("catalog: parser is required")
	}
	if len(opts.Roots) == 0 {
		return nil, fmt.Errorf("catalog: at least one root is required")
	}
	if opts.Workers < 0 {
		return nil, fmt.Errorf("catalog: workers must not be negative, got %d", opts.Workers)
	}
	if opts.Workers == 0 {
		opts.Workers = 1
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &Builder{fs: fs, parser: parser, opts: opts, log: opts.Logger}, nil
}

// Build runs the full pipeline. Per-path parser failures are folded
// into Result.Failures and never abort the run; only enumeration of a
// root or context cancellation is fatal.
func (b *Builder) Build(ctx context.Context) (*Result, error) {
	walker, err := walk.New(b.fs, walk.Options{
		Roots:   b.opts.Roots,
		Depth:   b.opts.Depth,
		Include: b.opts.Include,
		Exclude: b.opts.Exclude,
		FanOut:  b.opts.Workers,
		Logger:  b.log,
	})
	if err != nil {
		return nil, err
	}

	paths, err := walker.Walk(ctx)
	if err != nil {
		return nil, err
	}
	b.log.Info("discovered assets", "count", len(paths), "roots", b.opts.Roots)

	results := dispatch(ctx, paths, b.parser, b.opts.DispatchOptions)
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	res := &Result{Table: NewTable(), Discovered: len(paths)}
	for _, r := range results {
		if r.Err != nil {
			res.Failures = append(res.Failures, Failure{Path: r.Path, Error: r.Err.Error()})
			continue
		}
		res.Table.Append(r.Entry)
	}

	if len(res.Failures) > 0 {
		b.log.Warn("unable to parse some assets; building a partial catalog",
			"failed", len(res.Failures), "succeeded", res.Table.Len())
	}
	return res, nil
}
