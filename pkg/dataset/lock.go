package dataset

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/gofrs/flock"
	"github.com/rxtech-lab/intraday-dataset/pkg/errors"
)

const lockRetryDelay = 100 * time.Millisecond

// LockPath returns the advisory lock file guarding the dataset at path.
func LockPath(path string) string {
	return path + ".lock"
}

// Lock takes an exclusive advisory lock on the dataset at path, waiting up to timeout
// (or until ctx is done when timeout is zero). The returned function releases it.
func Lock(ctx context.Context, path string, timeout time.Duration) (unlock func() error, err error) {
	lockPath := LockPath(path)
	if err := os.MkdirAll(filepath.Dir(lockPath), 0o755); err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDatasetLockFailed, err, "failed to create directory for %s", lockPath)
	}

	if timeout > 0 {
		var cancel context.CancelFunc

		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	fileLock := flock.New(lockPath)

	locked, err := fileLock.TryLockContext(ctx, lockRetryDelay)
	if err != nil {
		return nil, errors.Wrapf(errors.ErrCodeDatasetLockFailed, err, "failed to lock %s", lockPath)
	}

	if !locked {
		return nil, errors.Newf(errors.ErrCodeDatasetLockFailed, "dataset %s is locked by another process", path)
	}

	return fileLock.Unlock, nil
}
