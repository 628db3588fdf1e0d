package core

import (
	"fmt"

	"github.com/shirou/gopsutil/v4/disk"
)

// DiskUsage describes the volume a cleaner location lives on.
type DiskUsage struct {
	Path  string `json:"path"`
	Total uint64 `json:"total"`
	Free  uint64 `json:"free"`
}

// Usage reports total and free bytes of the volume holding path.
func Usage(path string) (*DiskUsage, error) {
	stat, err := disk.Usage(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read disk usage for %s: %w", path, err)
	}

	return &DiskUsage{Path: stat.Path, Total: stat.Total, Free: stat.Free}, nil
}

// Reclaimed is the growth in free space between two measurements. It is 0
// when either measurement is missing or free space shrank.
func Reclaimed(before, after *DiskUsage) uint64 {
	if before == nil || after == nil || after.Free <= before.Free {
		return 0
	}

	return after.Free - before.Free
}
