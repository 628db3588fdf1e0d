package core

import "github.com/inovacc/dcc/internal/model"

// ExitCode maps an error to the process exit status used by the CLI.
//
//	0 success
//	1 unexpected failure
//	2 validation error or unknown cleaner
//	3 configuration file unusable
//	4 some directories could not be removed
//	130 interrupted
func ExitCode(err error) int {
	if err == nil {
		return 0
	}

	switch model.KindOf(err) {
	case model.KindValidation, model.KindNotFound, model.KindConflict:
		return 2
	case model.KindConfiguration:
		return 3
	case model.KindPartialFailure:
		return 4
	case model.KindCanceled:
		return 130
	default:
		return 1
	}
}

// IsWarning reports whether err only carries per-target warnings, meaning
// the run itself completed.
func IsWarning(err error) bool {
	return model.KindOf(err) == model.KindPartialFailure
}
