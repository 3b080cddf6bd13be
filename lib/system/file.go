package system

import (
	"io/ioutil"
	"os"
	"path/filepath"
	"sort"

	"github.com/gravitational/uitest/lib/constants"

	"github.com/gravitational/trace"
	log "github.com/sirupsen/logrus"
)

// WriteFile writes data to path atomically using SharedReadWriteMask as permissions.
func WriteFile(path string, data []byte) error {
	return WriteFileWithPerms(path, data, constants.SharedReadWriteMask)
}

// WriteFileWithPerms writes data to path atomically.
// If path does not exist, WriteFileWithPerms creates it with permissions perm.
// If the write fails, an existing file at path is preserved.
func WriteFileWithPerms(path string, data []byte, perm os.FileMode) error {
	tmp, err := ioutil.TempFile(filepath.Dir(path), ".tmp-")
	if err != nil {
		return trace.ConvertSystemError(err)
	}

	cleanup := func() {
		err := os.Remove(tmp.Name())
		if err != nil {
			log.Warnf("Failed to remove %v: %v.", tmp.Name(), err)
		}
	}

	_, err = tmp.Write(data)
	if err != nil {
		tmp.Close()
		cleanup()
		return trace.ConvertSystemError(err)
	}
	if err = tmp.Close(); err != nil {
		cleanup()
		return trace.ConvertSystemError(err)
	}
	if err = os.Chmod(tmp.Name(), perm); err != nil {
		cleanup()
		return trace.ConvertSystemError(err)
	}
	err = os.Rename(tmp.Name(), path)
	if err != nil {
		cleanup()
		return trace.ConvertSystemError(err)
	}
	return nil
}

// EnsureDir creates dir and its parents if they do not exist
func EnsureDir(dir string) error {
	return trace.ConvertSystemError(os.MkdirAll(dir, constants.SharedDirMask))
}

// RemoveContents removes everything inside dir but keeps dir itself
func RemoveContents(dir string) error {
	d, err := os.Open(dir)
	if err != nil {
		return trace.ConvertSystemError(err)
	}
	defer d.Close()
	names, err := d.Readdirnames(-1)
	if err != nil {
		return trace.ConvertSystemError(err)
	}
	for _, name := range names {
		err = os.RemoveAll(filepath.Join(dir, name))
		if err != nil {
			return trace.ConvertSystemError(err)
		}
	}
	return nil
}

// File describes a regular file found by ListFiles
type File struct {
	// Path is the path of the file relative to the listed directory
	Path string
	// Size is the file size in bytes
	Size int64
}

// ListFiles returns all regular files under dir, sorted by path
func ListFiles(dir string) (files []File, err error) {
	err = filepath.Walk(dir, func(path string, fi os.FileInfo, err error) error {
		if err != nil {
			return trace.ConvertSystemError(err)
		}
		if !fi.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(dir, path)
		if err != nil {
			return trace.Wrap(err)
		}
		files = append(files, File{Path: filepath.ToSlash(rel), Size: fi.Size()})
		return nil
	})
	if err != nil {
		return nil, trace.Wrap(err)
	}
	sort.Slice(files, func(i, j int) bool { return files[i].Path < files[j].Path })
	return files, nil
}
