package sweep

import (
	"context"
	"errors"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"syscall"

	"github.com/inovacc/dcc/internal/model"
)

// ErrOutsideRoot is returned for a deletion target that does not lie strictly
// beneath the search root.
var ErrOutsideRoot = errors.New("path is outside the search root")

// removeAll is swapped in tests to simulate deletion failures.
var removeAll = os.RemoveAll

// Options configures Remove.
type Options struct {
	// Parallel is the number of concurrent deletions (default 1)
	Parallel int

	// MeasureSize sums the size of each target right before it is deleted
	MeasureSize bool

	Logger *slog.Logger
}

// Result describes what Remove did.
type Result struct {
	Root string

	// Matched is every directory the scan found
	Matched []string

	// Removed is false when nothing matched and nothing was attempted
	Removed bool

	// Deleted lists matched directories that no longer exist, including
	// ones that disappeared before their deletion was attempted
	Deleted []string

	// Warnings are permission or I/O failures; the run carried on
	Warnings []model.DeleteError

	// Failures are unexpected deletion errors, also returned as the error
	Failures []model.DeleteError

	// Completed counts targets that were deleted or already gone
	Completed int

	// Bytes is the measured size of the deleted targets
	Bytes int64

	// Canceled is true when the context ended before every target ran
	Canceled bool
}

// Warning returns the permission and I/O failures as a
// *model.PartialFailureError, or nil when there were none.
func (r *Result) Warning() error {
	if len(r.Warnings) == 0 {
		return nil
	}

	return &model.PartialFailureError{Failed: r.Warnings}
}

type outcome int

const (
	outcomeSkipped outcome = iota
	outcomeDeleted
	outcomeVanished
	outcomeWarning
	outcomeFailed
)

type attempt struct {
	outcome outcome
	err     error
	bytes   int64
}

// Remove finds every directory under root named in names and deletes each
// one independently. A target that is already gone is not an error.
// Permission and I/O failures (EIO, EBUSY, EROFS, ENOTEMPTY) are collected
// as warnings on the result; any other failure is joined into the returned
// error after all targets have been attempted. On cancellation the completed
// deletions stay and the context error is returned with the partial result.
func Remove(ctx context.Context, names []string, root string, opts Options) (*Result, error) {
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}

	root = filepath.Clean(root)
	result := &Result{Root: root}

	matched, err := Find(ctx, names, root)
	result.Matched = matched

	if err != nil {
		result.Canceled = true
		return result, err
	}

	if len(matched) == 0 {
		logger.Debug("nothing to remove", slog.String("root", root))
		return result, nil
	}

	result.Removed = true

	parallel := opts.Parallel
	if parallel < 1 {
		parallel = 1
	}

	if parallel > len(matched) {
		parallel = len(matched)
	}

	// each worker writes only its own slot
	attempts := make([]attempt, len(matched))
	workQueue := make(chan int, len(matched))

	var wg sync.WaitGroup

	for range parallel {
		wg.Go(func() {
			for i := range workQueue {
				if ctx.Err() != nil {
					continue
				}

				var size int64
				if opts.MeasureSize {
					n, err := Size(ctx, matched[i])
					if err != nil {
						continue
					}

					size = n
				}

				attempts[i] = deleteTarget(root, matched[i])
				if attempts[i].outcome == outcomeDeleted {
					attempts[i].bytes = size
				}

				logAttempt(logger, matched[i], attempts[i])
			}
		})
	}

	for i := range matched {
		workQueue <- i
	}

	close(workQueue)
	wg.Wait()

	var fatal []error

	for i, a := range attempts {
		path := matched[i]

		switch a.outcome {
		case outcomeDeleted, outcomeVanished:
			result.Deleted = append(result.Deleted, path)
			result.Completed++
			result.Bytes += a.bytes
		case outcomeWarning:
			result.Warnings = append(result.Warnings, model.DeleteError{Path: path, Err: a.err})
		case outcomeFailed:
			result.Failures = append(result.Failures, model.DeleteError{Path: path, Err: a.err})
			fatal = append(fatal, &model.DeleteError{Path: path, Err: a.err})
		case outcomeSkipped:
			result.Canceled = true
		}
	}

	if result.Canceled {
		fatal = append(fatal, ctx.Err())
	}

	return result, errors.Join(fatal...)
}

func deleteTarget(root, path string) attempt {
	if !within(root, path) {
		return attempt{outcome: outcomeFailed, err: ErrOutsideRoot}
	}

	if _, err := os.Lstat(path); errors.Is(err, fs.ErrNotExist) {
		return attempt{outcome: outcomeVanished}
	}

	err := removeAll(path)

	switch {
	case err == nil:
		return attempt{outcome: outcomeDeleted}
	case errors.Is(err, fs.ErrNotExist):
		return attempt{outcome: outcomeVanished}
	case isWarning(err):
		return attempt{outcome: outcomeWarning, err: err}
	default:
		return attempt{outcome: outcomeFailed, err: err}
	}
}

// isWarning reports whether a deletion failure is a permission or I/O
// problem the run can carry on past.
func isWarning(err error) bool {
	if errors.Is(err, fs.ErrPermission) {
		return true
	}

	var errno syscall.Errno
	if !errors.As(err, &errno) {
		return false
	}

	switch errno {
	case syscall.EIO, syscall.EBUSY, syscall.EROFS, syscall.ENOTEMPTY:
		return true
	default:
		return false
	}
}

// within reports whether path lies strictly beneath root.
func within(root, path string) bool {
	rel, err := filepath.Rel(root, filepath.Clean(path))
	if err != nil {
		return false
	}

	return rel != "." && rel != ".." && !strings.HasPrefix(rel, ".."+string(filepath.Separator)) && !filepath.IsAbs(rel)
}

func logAttempt(logger *slog.Logger, path string, a attempt) {
	switch a.outcome {
	case outcomeDeleted:
		logger.Debug("directory removed", slog.String("path", path))
	case outcomeVanished:
		logger.Debug("directory already gone", slog.String("path", path))
	case outcomeWarning:
		logger.Warn("directory not removed", slog.String("path", path), slog.Any("error", a.err))
	case outcomeFailed:
		logger.Error("directory removal failed", slog.String("path", path), slog.Any("error", a.err))
	}
}
