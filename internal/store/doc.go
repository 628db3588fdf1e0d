// Package store provides the persistence layer for dcc.
//
// # Configuration
//
// [ConfigStore] owns the cleaner configuration document, a single JSON file
// in the application's private data directory. The whole document is
// rewritten on every change through an atomic temp-file rename, and
// [ConfigStore.Update] runs the read-modify-write cycle under a lock file
// so two processes never overwrite each other's changes:
//
//	cs := store.NewConfigStore(paths.ConfigFile)
//	cfg, err := cs.Update(func(cfg *model.Configuration) error {
//	    cfg.Cleaners = append(cfg.Cleaners, c)
//	    return nil
//	})
//
// # Run History
//
// The [HistoryStore] interface records clean runs. Two backends are
// available through [OpenHistory]:
//   - SQLite (default), via the sqlite subpackage
//   - BoltDB, an embedded key-value store
package store
