package dataset

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"time"

	"github.com/cenkalti/backoff/v4"
)

// UnreadableFileError reports an export that could not be opened or read.
type UnreadableFileError struct {
	Path string
	Err  error
}

func (e *UnreadableFileError) Error() string {
	return fmt.Sprintf("unreadable file %s: %v", e.Path, e.Err)
}

func (e *UnreadableFileError) Unwrap() error { return e.Err }

// ReadSource reads an export, retrying transient failures (files still
// syncing from a shared drive) for up to maxElapsed. Missing files,
// permission errors and directories fail at once. maxElapsed <= 0 means a
// single attempt.
func ReadSource(path string, maxElapsed time.Duration) ([]byte, error) {
	var data []byte
	op := func() error {
		info, err := os.Stat(path)
		if err != nil {
			if errors.Is(err, fs.ErrNotExist) || errors.Is(err, fs.ErrPermission) {
				return backoff.Permanent(err)
			}
			return err
		}
		if info.IsDir() {
			return backoff.Permanent(fmt.Errorf("%s is a directory", path))
		}
		b, err := os.ReadFile(path)
		if err != nil {
			if errors.Is(err, fs.ErrPermission) {
				return backoff.Permanent(err)
			}
			return err
		}
		data = b
		return nil
	}

	var b backoff.BackOff = &backoff.StopBackOff{}
	if maxElapsed > 0 {
		eb := backoff.NewExponentialBackOff()
		eb.MaxElapsedTime = maxElapsed
		b = eb
	}
	if err := backoff.Retry(op, b); err != nil {
		return nil, &UnreadableFileError{Path: path, Err: err}
	}
	return data, nil
}
