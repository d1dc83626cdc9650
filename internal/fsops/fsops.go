package fsops

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/spf13/afero"
)

// ErrSymlinkUnsupported is returned for filesystems that cannot hold symlinks,
// such as afero's in-memory filesystem.
var ErrSymlinkUnsupported = errors.New("filesystem does not support symlinks")

// EnsureDir ensures a directory exists with the given permissions
func EnsureDir(fs afero.Fs, path string, perm os.FileMode) error {
	if err := fs.MkdirAll(path, perm); err != nil {
		return fmt.Errorf("ensure directory: %w", err)
	}
	return nil
}

// Exists checks if a path exists, without following a final symlink when the
// filesystem can tell.
func Exists(fs afero.Fs, path string) bool {
	if lstater, ok := fs.(afero.Lstater); ok {
		_, _, err := lstater.LstatIfPossible(path)
		return err == nil
	}
	_, err := fs.Stat(path)
	return err == nil
}

// IsRegularFile reports whether path is a plain file.
func IsRegularFile(fs afero.Fs, path string) bool {
	info, err := fs.Stat(path)
	return err == nil && info.Mode().IsRegular()
}

// CopyFile copies a file from src to dst, keeping its permission bits and
// creating dst's directory.
func CopyFile(fs afero.Fs, src, dst string) error {
	srcFile, err := fs.Open(src)
	if err != nil {
		return fmt.Errorf("open source: %w", err)
	}
	defer srcFile.Close()

	info, err := srcFile.Stat()
	if err != nil {
		return fmt.Errorf("stat source: %w", err)
	}

	if err := EnsureDir(fs, filepath.Dir(dst), 0755); err != nil {
		return err
	}

	dstFile, err := fs.OpenFile(dst, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, info.Mode().Perm())
	if err != nil {
		return fmt.Errorf("create destination: %w", err)
	}

	if _, err := io.Copy(dstFile, srcFile); err != nil {
		dstFile.Close()
		return fmt.Errorf("write destination: %w", err)
	}
	return dstFile.Close()
}

// Symlink creates newname pointing at oldname.
func Symlink(fs afero.Fs, oldname, newname string) error {
	linker, ok := fs.(afero.Linker)
	if !ok {
		return ErrSymlinkUnsupported
	}
	if err := linker.SymlinkIfPossible(oldname, newname); err != nil {
		return fmt.Errorf("create symlink: %w", err)
	}
	return nil
}

// LinksTo reports whether path is a symlink whose target is target.
func LinksTo(fs afero.Fs, path, target string) bool {
	reader, ok := fs.(afero.LinkReader)
	if !ok {
		return false
	}
	got, err := reader.ReadlinkIfPossible(path)
	return err == nil && filepath.Clean(got) == filepath.Clean(target)
}
