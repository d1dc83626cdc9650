//go:build windows

package checker

import "github.com/spf13/afero"

// isExecutable reports whether path exists as a file; commands already carry
// their .exe/.cmd suffix.
func isExecutable(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && !info.IsDir()
}
