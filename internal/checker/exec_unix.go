//go:build !windows

package checker

import (
	"github.com/spf13/afero"
	"golang.org/x/sys/unix"
)

// isExecutable reports whether path is a regular file the current user may
// execute. Only the real OS filesystem can answer access(2); other
// filesystems fall back to the mode bits.
func isExecutable(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	if err != nil || info.IsDir() {
		return false
	}
	if _, ok := fs.(*afero.OsFs); ok {
		return unix.Access(path, unix.X_OK) == nil
	}
	return info.Mode().Perm()&0o111 != 0
}
