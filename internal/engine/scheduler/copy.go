package scheduler

import (
	"io"
	"os"
	"path/filepath"

	"go.trai.ch/tgr/internal/core/domain"
	"go.trai.ch/zerr"
)

// copyFileAtomic copies src to dest through a temporary file in dest's
// directory, so readers never observe a partially written destination.
func copyFileAtomic(src, dest string) (err error) {
	dir := filepath.Dir(dest)
	if err := os.MkdirAll(dir, domain.DirPerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCopyFailed.Error()), "path", dir)
	}

	in, err := os.Open(src) //nolint:gosec // src is a cache path derived by the engine
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCopyFailed.Error()), "path", src)
	}
	defer in.Close() //nolint:errcheck // read-only file

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(dest)+".tmp-*")
	if err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCopyFailed.Error()), "path", dest)
	}
	defer func() {
		if err != nil {
			_ = os.Remove(tmp.Name())
		}
	}()

	if _, err = io.Copy(tmp, in); err != nil {
		_ = tmp.Close()
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCopyFailed.Error()), "path", dest)
	}
	if err = tmp.Close(); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCopyFailed.Error()), "path", dest)
	}
	if err = os.Chmod(tmp.Name(), domain.FilePerm); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCopyFailed.Error()), "path", dest)
	}
	if err = os.Rename(tmp.Name(), dest); err != nil {
		return zerr.With(zerr.Wrap(err, domain.ErrOutputCopyFailed.Error()), "path", dest)
	}
	return nil
}
