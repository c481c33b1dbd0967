package model

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
)

// UnknownSize marks a file whose length is not known before it is read
const UnknownSize int64 = -1

// ErrNoPayload is returned when a SelectedFile has no way to open its content
var ErrNoPayload = errors.New("file has no payload")

// SelectedFile is a file handle picked by the user: a name plus a way to read
// the binary payload. It carries no identity beyond its position in a FileList.
type SelectedFile struct {
	Name string
	Size int64 // bytes, UnknownSize if not known in advance
	Path string // local path when the file lives on disk

	open func() (io.ReadCloser, error)
}

// NewFileFromPath creates a SelectedFile backed by a file on disk
func NewFileFromPath(path string) (SelectedFile, error) {
	info, err := os.Stat(path)
	if err != nil {
		return SelectedFile{}, fmt.Errorf("failed to stat %s: %w", path, err)
	}
	if info.IsDir() {
		return SelectedFile{}, fmt.Errorf("%s is a directory", path)
	}

	return SelectedFile{
		Name: filepath.Base(path),
		Size: info.Size(),
		Path: path,
		open: func() (io.ReadCloser, error) {
			return os.Open(path)
		},
	}, nil
}

// NewFileFromBytes creates a SelectedFile holding its content in memory
func NewFileFromBytes(name string, data []byte) SelectedFile {
	return SelectedFile{
		Name: name,
		Size: int64(len(data)),
		open: func() (io.ReadCloser, error) {
			return io.NopCloser(bytes.NewReader(data)), nil
		},
	}
}

// NewFileFromOpener creates a SelectedFile whose content comes from open.
// Pass UnknownSize when the length cannot be determined up front.
func NewFileFromOpener(name string, size int64, open func() (io.ReadCloser, error)) SelectedFile {
	return SelectedFile{
		Name: name,
		Size: size,
		open: open,
	}
}

// Open returns a reader over the file payload. The caller closes it.
func (f SelectedFile) Open() (io.ReadCloser, error) {
	if f.open == nil {
		return nil, ErrNoPayload
	}
	return f.open()
}

// HasKnownSize reports whether Size can be used for progress reporting
func (f SelectedFile) HasKnownSize() bool {
	return f.Size >= 0
}

// FileList is the ordered collection of files selected for one submission.
// Insertion order is selection order; duplicates are allowed.
// It is not safe for concurrent use; its owner serializes access.
type FileList struct {
	files []SelectedFile
	keys  []uint64 // entry identity, parallel to files
	next  uint64
}

// Selection is a point-in-time copy of a FileList
type Selection struct {
	Files []SelectedFile
	keys  []uint64
}

// NewFileList creates an empty file list
func NewFileList() *FileList {
	return &FileList{files: make([]SelectedFile, 0)}
}

// Add appends files in the order given
func (l *FileList) Add(files ...SelectedFile) {
	for _, f := range files {
		l.next++
		l.files = append(l.files, f)
		l.keys = append(l.keys, l.next)
	}
}

// Remove deletes the file at index and keeps the order of the rest.
// It returns false and leaves the list untouched if index is out of range.
func (l *FileList) Remove(index int) bool {
	if index < 0 || index >= len(l.files) {
		return false
	}
	l.files = append(l.files[:index], l.files[index+1:]...)
	l.keys = append(l.keys[:index], l.keys[index+1:]...)
	return true
}

// Len returns the number of selected files
func (l *FileList) Len() int {
	return len(l.files)
}

// IsEmpty reports whether no files are selected
func (l *FileList) IsEmpty() bool {
	return len(l.files) == 0
}

// Files returns a copy of the current selection
func (l *FileList) Files() []SelectedFile {
	out := make([]SelectedFile, len(l.files))
	copy(out, l.files)
	return out
}

// Snapshot copies the current selection
func (l *FileList) Snapshot() Selection {
	sel := Selection{
		Files: make([]SelectedFile, len(l.files)),
		keys:  make([]uint64, len(l.keys)),
	}
	copy(sel.Files, l.files)
	copy(sel.keys, l.keys)
	return sel
}

// Discard removes the entries captured by sel that are still in the list.
// Files added after the snapshot are kept. It returns the number removed.
func (l *FileList) Discard(sel Selection) int {
	if len(sel.keys) == 0 {
		return 0
	}
	drop := make(map[uint64]struct{}, len(sel.keys))
	for _, k := range sel.keys {
		drop[k] = struct{}{}
	}

	files := l.files[:0]
	keys := l.keys[:0]
	for i, k := range l.keys {
		if _, ok := drop[k]; ok {
			continue
		}
		files = append(files, l.files[i])
		keys = append(keys, k)
	}
	removed := len(l.files) - len(files)
	clear(l.files[len(files):])
	l.files, l.keys = files, keys
	return removed
}

// TotalSize returns the summed payload size and whether every size is known
func (l *FileList) TotalSize() (int64, bool) {
	var total int64
	for _, f := range l.files {
		if !f.HasKnownSize() {
			return 0, false
		}
		total += f.Size
	}
	return total, true
}
