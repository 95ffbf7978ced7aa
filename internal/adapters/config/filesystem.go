package config

import (
	"io/fs"
	"os"
)

// FileSystem abstracts the filesystem reads the loader performs.
type FileSystem interface {
	// Stat returns file info for the given path.
	Stat(path string) (fs.FileInfo, error)
	// ReadFile reads the entire file at path.
	ReadFile(path string) ([]byte, error)
}

// OSFS implements FileSystem using the standard library.
type OSFS struct{}

// Stat returns file info for the given path.
func (OSFS) Stat(path string) (fs.FileInfo, error) {
	return os.Stat(path)
}

// ReadFile reads the entire file at path.
func (OSFS) ReadFile(path string) ([]byte, error) {
	// #nosec G304 -- path is built from the config file name
	return os.ReadFile(path)
}
