package scribe

import (
	"os"
	"path"
	"path/filepath"
)

// StagedFile is the single-owner handle for an uploaded audio file.
// Exactly one of two things happens to it: Discard removes the backing
// file on any failure path, or Release marks it as the note's durable
// audio artifact on full pipeline success.
type StagedFile struct {
	path     string
	name     string
	released bool
}

func NewStagedFile(filePath string) *StagedFile {
	return &StagedFile{
		path: filePath,
		name: filepath.Base(filePath),
	}
}

// Path is the staged file's location on disk.
func (f *StagedFile) Path() string {
	return f.path
}

// Name is the staged file's base name.
func (f *StagedFile) Name() string {
	return f.name
}

// URL is the root-relative public reference the file will have once
// released.
func (f *StagedFile) URL() string {
	return path.Join("/uploads", f.name)
}

// Release transfers ownership to the persisted note. A released file is
// never removed by Discard.
func (f *StagedFile) Release() {
	f.released = true
}

// Discard removes the backing file. Removal errors are swallowed so
// cleanup can never mask the failure that triggered it.
func (f *StagedFile) Discard() {
	if f == nil || f.released {
		return
	}
	_ = os.Remove(f.path)
}
