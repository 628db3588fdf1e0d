package application

import (
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"sync"
)

const (
	// AppName is the application name used for directories and identification
	AppName = "dcc"

	// AppExeName is the executable name (without extension)
	AppExeName = "dcc"

	// AppExeNameWindows is the executable name on Windows
	AppExeNameWindows = "dcc.exe"

	// ConfigurationFileName is the cleaner profile document inside the data directory
	ConfigurationFileName = "dcc.configuration.json"

	// HistoryFileName is the SQLite database holding the clean run log
	HistoryFileName = "dcc.history.db"

	// HistoryBoltFileName is the run log when the bolt backend is selected
	HistoryBoltFileName = "dcc.history.bolt"

	// DataDirEnv overrides the data directory when set
	DataDirEnv = "DCC_DATA_DIR"
)

var (
	once   sync.Once
	appDir string
	errDir error
)

// GetApplicationDirectory returns the dcc data directory path.
// Linux: ~/.config/dcc (via os.UserConfigDir)
// Windows: C:\Users\{username}\AppData\Local\dcc (via os.UserCacheDir)
// The DCC_DATA_DIR environment variable takes precedence over both.
func GetApplicationDirectory() (string, error) {
	once.Do(lazyLoad)

	if errDir != nil {
		return "", errDir
	}

	return appDir, errDir
}

func lazyLoad() {
	if dir := os.Getenv(DataDirEnv); dir != "" {
		appDir, errDir = filepath.Abs(dir)
		return
	}

	var (
		baseDir string
		err     error
	)

	switch runtime.GOOS {
	case "windows":
		// Windows: use AppData\Local (via UserCacheDir)
		baseDir, err = os.UserCacheDir()
	default:
		// Linux/others: use ~/.config (via UserConfigDir)
		baseDir, err = os.UserConfigDir()
	}

	if err != nil {
		errDir = fmt.Errorf("failed to get config directory: %w", err)
		return
	}

	appDir = filepath.Join(baseDir, AppName)
}
