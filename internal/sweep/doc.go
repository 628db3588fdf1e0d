// Package sweep finds and deletes directories by name beneath a root.
//
// [Find] walks the tree below the root and collects every directory whose
// name matches one of the target names, ignoring case. A matched directory
// is treated as a unit: its contents are never searched, so nested matches
// are not reported separately. Directories that cannot be listed are
// skipped silently.
//
// [Remove] deletes what [Find] returns, one target at a time or with a
// bounded number of workers. Each deletion is independent:
//   - a target that is already gone counts as removed
//   - permission and I/O failures become warnings on the [Result]
//   - anything else is returned as an error once every target has run
//
// Nothing outside the root is ever deleted.
package sweep
