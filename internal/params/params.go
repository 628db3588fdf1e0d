package params

import (
	"fmt"
	"path/filepath"

	"github.com/inovacc/dcc/internal/application"
	"github.com/inovacc/dcc/internal/encoding"
)

// Paths holds every file location dcc touches inside its private data directory.
type Paths struct {
	DataDir     string
	ConfigFile  string
	HistoryFile string
	HistoryBolt string
}

// History returns the run history file for the named backend.
func (p Paths) History(backend string) string {
	if backend == "bolt" {
		return p.HistoryBolt
	}

	return p.HistoryFile
}

// Resolve builds the paths rooted at dataDir, or at the application directory
// when dataDir is empty, and makes sure the directory exists.
func Resolve(dataDir string) (Paths, error) {
	if dataDir == "" {
		dir, err := application.GetApplicationDirectory()
		if err != nil {
			return Paths{}, err
		}

		dataDir = dir
	}

	abs, err := filepath.Abs(dataDir)
	if err != nil {
		return Paths{}, fmt.Errorf("failed to resolve data directory: %w", err)
	}

	if err := encoding.EnsureDir(abs); err != nil {
		return Paths{}, err
	}

	return Paths{
		DataDir:     abs,
		ConfigFile:  filepath.Join(abs, application.ConfigurationFileName),
		HistoryFile: filepath.Join(abs, application.HistoryFileName),
		HistoryBolt: filepath.Join(abs, application.HistoryBoltFileName),
	}, nil
}
