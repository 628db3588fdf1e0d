// Package model defines the data structures used throughout dcc.
//
// These models are shared by the configuration store, the cleaner service,
// the directory sweeper and the CLI.
//
// # Cleaner
//
// The [Cleaner] struct is one cleaning profile:
//
//	type Cleaner struct {
//	    ID          int      // Unique identifier, assigned on create
//	    Name        string   // Display name
//	    Description *string  // Optional, null when absent
//	    Directories []string // Directory names to purge
//	    Location    string   // Search root
//	}
//
// # Configuration
//
// The [Configuration] struct is the persisted document holding every
// cleaner in display order:
//
//	{ "cleaners": [ { "id": 1, "name": "...", "description": null,
//	                  "directories": ["node_modules"], "location": "/proj" } ] }
//
// # Errors
//
// Failures are classified with [KindOf] into an [ErrorKind]
// (not found, conflict, validation, configuration, partial failure, io).
package model
