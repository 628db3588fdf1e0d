package sweep

import (
	"context"
	"io/fs"
	"path/filepath"
)

// Size returns the total size in bytes of the regular files beneath path.
// Entries that cannot be read are skipped.
func Size(ctx context.Context, path string) (int64, error) {
	var total int64

	err := filepath.WalkDir(path, func(_ string, d fs.DirEntry, err error) error {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}

		if err != nil {
			// Continue walking
			return nil
		}

		if !d.Type().IsRegular() {
			return nil
		}

		if info, infoErr := d.Info(); infoErr == nil {
			total += info.Size()
		}

		return nil
	})

	return total, err
}
