package sweep

import (
	"context"
	"os"
	"path/filepath"
	"strings"
)

// matcher holds the target names folded for case-insensitive comparison.
type matcher map[string]struct{}

func newMatcher(names []string) matcher {
	m := make(matcher, len(names))
	for _, name := range names {
		name = strings.TrimSpace(name)
		if name == "" || name == "." || name == ".." || strings.ContainsAny(name, `/\`) {
			continue
		}

		m[strings.ToLower(name)] = struct{}{}
	}

	return m
}

func (m matcher) match(name string) bool {
	_, ok := m[strings.ToLower(name)]
	return ok
}

// Find returns every directory beneath root whose name matches one of names,
// ignoring case. A matched directory is not searched further, so nothing
// nested inside it is reported. Directories that cannot be listed are
// treated as empty. The only error returned is the context's.
func Find(ctx context.Context, names []string, root string) ([]string, error) {
	m := newMatcher(names)
	if len(m) == 0 {
		return nil, ctx.Err()
	}

	f := &finder{
		match: m,
		seen:  make(map[string]struct{}),
	}

	if err := f.walk(ctx, filepath.Clean(root)); err != nil {
		return f.found, err
	}

	return f.found, nil
}

type finder struct {
	match matcher
	seen  map[string]struct{}
	found []string
}

func (f *finder) walk(ctx context.Context, dir string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	for _, sub := range subdirectories(dir) {
		path := filepath.Join(dir, sub)

		if f.match.match(sub) {
			f.add(path)
			continue
		}

		if err := f.walk(ctx, path); err != nil {
			return err
		}
	}

	return nil
}

func (f *finder) add(path string) {
	if _, ok := f.seen[path]; ok {
		return
	}

	f.seen[path] = struct{}{}
	f.found = append(f.found, path)
}

// subdirectories lists the names of the immediate subdirectories of dir.
// Symbolic links are not followed. Any listing failure yields no entries.
func subdirectories(dir string) []string {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil
	}

	var names []string
	for _, entry := range entries {
		if entry.IsDir() {
			names = append(names, entry.Name())
		}
	}

	return names
}
