package catalog

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/ncar-xdev/ecgtools/api"
)

// result is the outcome of parsing one candidate path. Exactly one of
// Entry or Err is set.
type result struct {
	Path  string
	Entry *api.Entry
	Err   error
}

// DispatchOptions bound the parser fan-out.
type DispatchOptions struct {
	// Workers is the concurrency budget. 1 degrades to strictly
	// sequential execution with identical observable results.
	Workers int

	// Timeout bounds a single Parse call. Zero disables it.
	Timeout time.Duration

	// RateLimit caps file opens per second across all workers, for
	// shared parallel filesystems that punish metadata storms.
	// Zero disables it.
	RateLimit float64
}

// dispatch runs the parser over every path and returns one result per
// path, in input order regardless of which worker finished first.
// A parser error or panic for one path never affects its siblings.
func dispatch(ctx context.Context, paths []string, parser api.Parser, opts DispatchOptions) []result {
	out := make([]result, len(paths))
	if len(paths) == 0 {
		return out
	}

	workers := opts.Workers
	if workers > len(paths) {
		workers = len(paths)
	}

	var limiter *rate.Limiter
	if opts.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(opts.RateLimit), 1)
	}

	type job struct {
		idx  int
		path string
	}
	jobs := make(chan job)

	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := range jobs {
				out[j.idx] = parseOne(ctx, j.path, parser, limiter, opts.Timeout)
			}
		}()
	}

	for i, p := range paths {
		jobs <- job{idx: i, path: p}
	}
	close(jobs)
	wg.Wait()

	return out
}

// parseOne invokes the parser for a single path, converting errors,
// panics, and timeouts into a failure result. This is the isolation
// boundary: nothing a parser does here may escape to sibling work.
func parseOne(ctx context.Context, path string, parser api.Parser, limiter *rate.Limiter, timeout time.Duration) (res result) {
	res.Path = path
	defer func() {
		if r := recover(); r != nil {
			res.Entry = nil
			res.Err = fmt.Errorf("parser panic: %v", r)
		}
	}()

	if limiter != nil {
		if err := limiter.Wait(ctx); err != nil {
			res.Err = err
			return res
		}
	}

	parseCtx := ctx
	if timeout > 0 {
		var cancel context.CancelFunc
		parseCtx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	entry, err := parser.Parse(parseCtx, path)
	if err != nil {
		res.Err = err
		return res
	}
	if entry == nil || entry.Len() == 0 {
		res.Err = fmt.Errorf("parser returned no fields")
		return res
	}
	res.Entry = entry
	return res
}
