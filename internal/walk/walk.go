// Package walk enumerates candidate asset paths under one or more root
// directories. Enumeration is deterministic: the same tree always
// produces the same lexically ordered path list, which downstream code
// relies on for reproducible catalogs.
package walk

import (
	"context"
	"fmt"
	"log/slog"
	"sort"

	billy "github.com/go-git/go-billy/v5"
	"golang.org/x/sync/errgroup"
)

// Options configures a Walker.
type Options struct {
	// Roots are the directories to enumerate. At least one is required.
	Roots []string

	// Depth bounds recursion: 0 means the root directory only, N means
	// at most N directory levels below each root. Negative means
	// unlimited.
	Depth int

	// Include and Exclude are glob patterns applied to each regular
	// file's path (see Matcher). An empty Include list keeps all files.
	Include []string
	Exclude []string

	// FanOut caps how many roots are enumerated concurrently.
	// Zero or negative means one goroutine per root.
	FanOut int

	Logger *slog.Logger
}

// Walker lists the regular files under Options.Roots on an abstracted
// filesystem. Production callers pass an OS-backed filesystem; tests
// pass an in-memory one.
type Walker struct {
	fs      billy.Filesystem
	opts    Options
	matcher *Matcher
	log     *slog.Logger
}

func New(fs billy.Filesystem, opts Options) (*Walker, error) {
	if len(opts.Roots) == 0 {
		return nil, fmt.Errorf("walk: no roots supplied")
	}
	m, err := NewMatcher(opts.Include, opts.Exclude)
	if err != nil {
		return nil, fmt.Errorf("walk: bad pattern: %w", err)
	}
	log := opts.Logger
	if log == nil {
		log = slog.Default()
	}
	return &Walker{fs: fs, opts: opts, matcher: m, log: log}, nil
}

// Walk returns the matching file paths under every root, lexically
// sorted and deduplicated. A missing root is an error; an unreadable
// subdirectory is skipped with a warning. Zero matches is a valid
// empty result.
func (w *Walker) Walk(ctx context.Context) ([]string, error) {
	for _, root := range w.opts.Roots {
		info, err := w.fs.Stat(root)
		if err != nil {
			return nil, fmt.Errorf("walk: root %s: %w", root, err)
		}
		if !info.IsDir() {
			return nil, fmt.Errorf("walk: root %s is not a directory", root)
		}
	}

	perRoot := make([][]string, len(w.opts.Roots))
	g, gctx := errgroup.WithContext(ctx)
	if w.opts.FanOut > 0 {
		g.SetLimit(w.opts.FanOut)
	}
	for i, root := range w.opts.Roots {
		g.Go(func() error {
			found, err := w.walkDir(gctx, root, 0)
			if err != nil {
				return err
			}
			perRoot[i] = found
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	var all []string
	for _, found := range perRoot {
		all = append(all, found...)
	}
	sort.Strings(all)

	// Overlapping roots may discover the same file twice.
	deduped := all[:0]
	for i, p := range all {
		if i == 0 || p != all[i-1] {
			deduped = append(deduped, p)
		}
	}
	return deduped, nil
}

func (w *Walker) walkDir(ctx context.Context, dir string, level int) ([]string, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	entries, err := w.fs.ReadDir(dir)
	if err != nil {
		w.log.Warn("skipping unreadable directory", "path", dir, "error", err)
		return nil, nil
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Name() < entries[j].Name() })

	var found []string
	for _, entry := range entries {
		path := w.fs.Join(dir, entry.Name())
		if entry.IsDir() {
			if w.opts.Depth >= 0 && level >= w.opts.Depth {
				continue
			}
			sub, err := w.walkDir(ctx, path, level+1)
			if err != nil {
				return nil, err
			}
			found = append(found, sub...)
			continue
		}
		if !entry.Mode().IsRegular() {
			continue
		}
		if w.matcher.Match(path) {
			found = append(found, path)
		}
	}
	return found, nil
}
