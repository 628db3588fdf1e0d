// Package core provides the business logic layer for dcc.
//
// It sits between the cleaner repository and the filesystem sweep and is
// free of UI concerns: functions return errors and results instead of
// printing, and the cmd package decides how to present them.
//
// # Clean Runs
//
// A [Sweeper] runs one cleaner at a time:
//
//  1. [ValidateLocation] checks the search root
//  2. [Sweeper.Targets] lists matching directories, optionally with sizes
//  3. [Sweeper.Clean] deletes them, records a run in the history store and
//     dispatches a clean.finished event
//
// Dry runs stop after step 2 and still record the run.
//
// # Configuration
//
// [ShowConfig] and [ResetConfig] operate on the raw configuration document.
package core
