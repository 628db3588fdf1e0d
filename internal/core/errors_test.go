package core

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"testing"

	"github.com/inovacc/dcc/internal/model"
)

func TestExitCode(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want int
	}{
		{name: "nil", err: nil, want: 0},
		{name: "not found", err: &model.OpError{Op: "get", ID: 3, Err: model.ErrNotFound}, want: 2},
		{name: "conflict", err: &model.OpError{Op: "create", ID: 3, Err: model.ErrConflict}, want: 2},
		{name: "validation", err: &model.ValidationError{Field: "name", Reason: "must not be empty"}, want: 2},
		{name: "configuration", err: &model.ConfigurationError{Op: "load", Path: "x", Err: errors.New("bad")}, want: 3},
		{name: "partial failure", err: &model.OpError{Op: "clean", Err: &model.PartialFailureError{}}, want: 4},
		{name: "canceled", err: fmt.Errorf("clean: %w", context.Canceled), want: 130},
		{name: "io", err: &fs.PathError{Op: "remove", Path: "/x", Err: fs.ErrInvalid}, want: 1},
		{name: "other", err: errors.New("boom"), want: 1},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := ExitCode(tt.err); got != tt.want {
				t.Errorf("ExitCode(%v) = %d, want %d", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsWarning(t *testing.T) {
	warn := &model.OpError{Op: "clean", ID: 1, Err: &model.PartialFailureError{
		Failed: []model.DeleteError{{Path: "/root/a/bin", Err: fs.ErrPermission}},
	}}

	if !IsWarning(warn) {
		t.Error("IsWarning() = false for a partial failure")
	}

	if IsWarning(nil) {
		t.Error("IsWarning(nil) = true")
	}

	if IsWarning(errors.New("boom")) {
		t.Error("IsWarning() = true for an unrelated error")
	}
}
