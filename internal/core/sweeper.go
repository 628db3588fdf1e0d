package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/inovacc/dcc/internal/encoding"
	"github.com/inovacc/dcc/internal/model"
	"github.com/inovacc/dcc/internal/notify"
	"github.com/inovacc/dcc/internal/store"
	"github.com/inovacc/dcc/internal/sweep"
)

// Target is a matched directory, optionally with its size.
type Target struct {
	Path  string `json:"path"`
	Bytes int64  `json:"bytes,omitempty"`
}

// CleanOptions configures a clean run
type CleanOptions struct {
	// DryRun lists the matches without deleting anything
	DryRun bool

	// Parallel is the number of concurrent deletions
	Parallel int

	// MeasureSize sums the size of every match; on a real run only the
	// directories that were removed count
	MeasureSize bool
}

// CleanResult is what Clean reports back to the caller.
type CleanResult struct {
	Run *model.RunRecord `json:"run"`

	// Sweep is nil for dry runs
	Sweep *sweep.Result `json:"-"`

	// FreeBefore and FreeAfter are nil when disk usage is unavailable
	FreeBefore *DiskUsage `json:"free_before,omitempty"`
	FreeAfter  *DiskUsage `json:"free_after,omitempty"`
}

// Sweeper runs cleaners against the filesystem and keeps their history.
type Sweeper struct {
	history    store.HistoryStore
	dispatcher *notify.Dispatcher
	logger     *slog.Logger
}

// NewSweeper creates a Sweeper. history and dispatcher may be nil.
func NewSweeper(history store.HistoryStore, dispatcher *notify.Dispatcher, logger *slog.Logger) *Sweeper {
	if logger == nil {
		logger = slog.Default()
	}

	return &Sweeper{history: history, dispatcher: dispatcher, logger: logger}
}

// ValidateLocation checks that the cleaner's search root is an existing
// directory.
func ValidateLocation(c model.Cleaner) error {
	if c.Location == "" {
		return &model.ValidationError{Field: "location", Reason: "must not be empty"}
	}

	if encoding.DirExists(c.Location) {
		return nil
	}

	info, err := os.Stat(c.Location)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return &model.ValidationError{Field: "location", Reason: fmt.Sprintf("%s does not exist", c.Location)}
		}

		return &model.ValidationError{Field: "location", Reason: err.Error()}
	}

	if !info.IsDir() {
		return &model.ValidationError{Field: "location", Reason: fmt.Sprintf("%s is not a directory", c.Location)}
	}

	return nil
}

// Targets returns the directories the cleaner would remove. With withSize
// each target carries the total size of the files beneath it.
func (s *Sweeper) Targets(ctx context.Context, c model.Cleaner, withSize bool) ([]Target, error) {
	if err := ValidateLocation(c); err != nil {
		return nil, &model.OpError{Op: "scan", ID: c.ID, Err: err}
	}

	paths, err := sweep.Find(ctx, c.Directories, c.Location)
	if err != nil {
		return nil, &model.OpError{Op: "scan", ID: c.ID, Err: err}
	}

	targets := make([]Target, 0, len(paths))
	for _, path := range paths {
		t := Target{Path: path}

		if withSize {
			size, err := sweep.Size(ctx, path)
			if err != nil {
				return nil, &model.OpError{Op: "scan", ID: c.ID, Err: err}
			}

			t.Bytes = size
		}

		targets = append(targets, t)
	}

	return targets, nil
}

// Scan is Targets with sizes that also announces the result.
func (s *Sweeper) Scan(ctx context.Context, c model.Cleaner) ([]Target, error) {
	targets, err := s.Targets(ctx, c, true)

	event := notify.NewEvent(notify.EventScanFinished).
		WithCleaner(c.ID, c.Name, c.Location).
		WithExtra("matched", strconv.Itoa(len(targets)))
	if err != nil {
		event.WithError(err.Error())
	}

	s.dispatcher.Dispatch(ctx, event)

	return targets, err
}

// Clean removes every directory the cleaner matches and records the run.
//
// Warnings (permission or I/O failures on individual targets) do not fail
// the run; they are reported on the record and returned as a
// *model.PartialFailureError alongside the result. Fatal deletion errors
// and cancellation are returned as an error, and the partial run is still
// recorded.
func (s *Sweeper) Clean(ctx context.Context, c model.Cleaner, opts CleanOptions) (*CleanResult, error) {
	if err := ValidateLocation(c); err != nil {
		return nil, &model.OpError{Op: "clean", ID: c.ID, Err: err}
	}

	run := &model.RunRecord{
		ID:          uuid.New().String(),
		CleanerID:   c.ID,
		CleanerName: c.Name,
		Location:    c.Location,
		DryRun:      opts.DryRun,
		StartedAt:   time.Now().UTC(),
	}

	result := &CleanResult{Run: run}
	result.FreeBefore = s.diskUsage(c.Location)

	logger := s.logger.With(slog.Int("cleaner", c.ID), slog.String("location", c.Location))
	logger.Info("clean started", slog.Bool("dry_run", opts.DryRun), slog.Int("parallel", opts.Parallel))

	var runErr error

	if opts.DryRun {
		runErr = s.dryRun(ctx, c, opts, run)
	} else {
		runErr = s.sweep(ctx, c, opts, run, result, logger)
	}

	run.FinishedAt = time.Now().UTC()

	if !opts.DryRun {
		result.FreeAfter = s.diskUsage(c.Location)
	}

	s.record(ctx, run)
	s.announce(ctx, c, run, runErr)

	logger.Info("clean finished",
		slog.Int("matched", len(run.Matched)),
		slog.Int("removed", len(run.Removed)),
		slog.Int("failed", len(run.Failed)),
		slog.Duration("duration", run.Duration()),
	)

	if runErr != nil {
		return result, &model.OpError{Op: "clean", ID: c.ID, Err: runErr}
	}

	if result.Sweep != nil {
		if warn := result.Sweep.Warning(); warn != nil {
			return result, &model.OpError{Op: "clean", ID: c.ID, Err: warn}
		}
	}

	return result, nil
}

func (s *Sweeper) dryRun(ctx context.Context, c model.Cleaner, opts CleanOptions, run *model.RunRecord) error {
	targets, err := s.Targets(ctx, c, opts.MeasureSize)
	if err != nil {
		var opErr *model.OpError
		if errors.As(err, &opErr) {
			err = opErr.Err
		}

		run.Canceled = errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded)

		return err
	}

	for _, t := range targets {
		run.Matched = append(run.Matched, t.Path)
		run.Bytes += t.Bytes
	}

	return nil
}

func (s *Sweeper) sweep(ctx context.Context, c model.Cleaner, opts CleanOptions, run *model.RunRecord, result *CleanResult, logger *slog.Logger) error {
	res, err := sweep.Remove(ctx, c.Directories, c.Location, sweep.Options{
		Parallel:    opts.Parallel,
		MeasureSize: opts.MeasureSize,
		Logger:      logger,
	})

	result.Sweep = res
	if res != nil {
		run.Matched = res.Matched
		run.Removed = res.Deleted
		run.Canceled = res.Canceled
		run.Bytes = res.Bytes

		for _, w := range res.Warnings {
			run.Failed = append(run.Failed, model.FailedTarget{Path: w.Path, Error: w.Err.Error()})
		}

		for _, f := range res.Failures {
			run.Failed = append(run.Failed, model.FailedTarget{Path: f.Path, Error: f.Err.Error(), Fatal: true})
		}
	}

	return err
}

func (s *Sweeper) record(ctx context.Context, run *model.RunRecord) {
	if s.history == nil {
		return
	}

	// the run is recorded even when ctx was canceled mid-clean
	if err := s.history.SaveRun(context.WithoutCancel(ctx), run); err != nil {
		s.logger.Warn("failed to record run", slog.String("run", run.ID), slog.Any("error", err))
	}
}

func (s *Sweeper) announce(ctx context.Context, c model.Cleaner, run *model.RunRecord, runErr error) {
	event := notify.NewEvent(notify.EventCleanFinished).
		WithCleaner(c.ID, c.Name, c.Location).
		WithExtra("run", run.ID).
		WithExtra("matched", strconv.Itoa(len(run.Matched))).
		WithExtra("removed", strconv.Itoa(len(run.Removed))).
		WithExtra("dry_run", strconv.FormatBool(run.DryRun))

	if runErr != nil {
		event.WithError(runErr.Error())
	} else if len(run.Failed) > 0 {
		event.WithError(fmt.Sprintf("%d directories could not be removed", len(run.Failed)))
	}

	s.dispatcher.Dispatch(context.WithoutCancel(ctx), event)
}

func (s *Sweeper) diskUsage(path string) *DiskUsage {
	usage, err := Usage(path)
	if err != nil {
		s.logger.Debug("disk usage unavailable", slog.String("path", path), slog.Any("error", err))
		return nil
	}

	return usage
}

// History returns recorded runs, newest first. cleanerID 0 selects every
// cleaner; limit 0 means no limit.
func (s *Sweeper) History(ctx context.Context, cleanerID, limit int) ([]model.RunRecord, error) {
	if s.history == nil {
		return nil, nil
	}

	runs, err := s.history.ListRuns(ctx, cleanerID, limit)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}

	return runs, nil
}

// ForgetHistory deletes the recorded runs of a cleaner, or of every cleaner
// when cleanerID is 0.
func (s *Sweeper) ForgetHistory(ctx context.Context, cleanerID int) (int, error) {
	if s.history == nil {
		return 0, nil
	}

	n, err := s.history.DeleteRuns(ctx, cleanerID)
	if err != nil {
		return 0, fmt.Errorf("failed to delete runs: %w", err)
	}

	return n, nil
}
