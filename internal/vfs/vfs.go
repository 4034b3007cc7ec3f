// Package vfs provides the FileObject abstraction the storage layer uses
// for durable file I/O: atomic-create, open, random-access read, and size.
//
// Reference: RocksDB v10.7.5 include/rocksdb/file_system.h, trimmed to the
// subset the on-disk format actually requires — no sequential writer, no
// directory listing, no locking; block/SST files are written once in full
// and read back at arbitrary offsets thereafter.
package vfs

import (
	"fmt"
	"os"

	"github.com/kvsst/sstcore/internal/errs"
)

// FileObject is a read-only view of a file backing an SST: random-access
// reads at an offset plus its total size. It owns the underlying file
// handle.
type FileObject struct {
	f    *os.File
	size int64
}

// Create atomically writes data to path: it writes to a temporary sibling
// file, fsyncs it, then renames it into place, so a crash mid-write never
// leaves a truncated file visible at path. It returns a FileObject opened
// for reading the just-written content.
func Create(path string, data []byte) (*FileObject, error) {
	tmp := path + ".tmp"
	f, err := os.OpenFile(tmp, os.O_CREATE|os.O_TRUNC|os.O_WRONLY, 0o644)
	if err != nil {
		return nil, fmt.Errorf("%w: create temp file: %v", errs.ErrIO, err)
	}
	if _, err := f.Write(data); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("%w: write: %v", errs.ErrIO, err)
	}
	if err := f.Sync(); err != nil {
		_ = f.Close()
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("%w: fsync: %v", errs.ErrIO, err)
	}
	if err := f.Close(); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("%w: close: %v", errs.ErrIO, err)
	}
	if err := os.Rename(tmp, path); err != nil {
		_ = os.Remove(tmp)
		return nil, fmt.Errorf("%w: rename: %v", errs.ErrIO, err)
	}
	return Open(path)
}

// Open opens an existing file for random-access reads.
func Open(path string) (*FileObject, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("%w: open: %v", errs.ErrIO, err)
	}
	info, err := f.Stat()
	if err != nil {
		_ = f.Close()
		return nil, fmt.Errorf("%w: stat: %v", errs.ErrIO, err)
	}
	return &FileObject{f: f, size: info.Size()}, nil
}

// Read returns the length bytes starting at offset.
func (fo *FileObject) Read(offset int64, length int) ([]byte, error) {
	buf := make([]byte, length)
	if _, err := fo.f.ReadAt(buf, offset); err != nil {
		return nil, fmt.Errorf("%w: read at %d: %v", errs.ErrIO, offset, err)
	}
	return buf, nil
}

// Size returns the total byte length of the file.
func (fo *FileObject) Size() int64 { return fo.size }

// Close releases the underlying file handle.
func (fo *FileObject) Close() error { return fo.f.Close() }
