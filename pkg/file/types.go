package file

import (
	"errors"
	"time"
)

// Groups accepted by GetList. Any other value lists everything.
const (
	GroupAll      = "all"
	GroupOriginal = "original"
	GroupRenamed  = "renamed"
)

// File types reported in listings.
const (
	TypeOriginal = "original"
	TypeRenamed  = "renamed"
)

// File is one entry of a listing.
type File struct {
	ID         int       `json:"id"`
	FileName   string    `json:"fileName"`
	Src        string    `json:"src"`
	Path       string    `json:"path"`
	FileType   string    `json:"fileType"`
	CreateTime time.Time `json:"createTime"`
	UpdateTime time.Time `json:"updateTime"`
}

// ListResult is the decoded reply of List.
type ListResult struct {
	Files []File
	Count int64
}

// DeleteResult carries the warnings reported when some files could not be
// removed from disk. The records are deleted regardless.
type DeleteResult struct {
	Warnings []string `json:"warnings,omitempty"`
	Message  string   `json:"message,omitempty"`
}

// RenameOptions tunes Rename. A nil value renames without overwriting.
type RenameOptions struct {
	// Force overwrites an existing file with the same name.
	Force bool
}

// RenameResult is returned by Rename. Conflict is set when the target name
// is taken and Force was not requested; nothing was renamed in that case.
type RenameResult struct {
	Conflict   bool   `json:"conflict,omitempty"`
	Message    string `json:"message,omitempty"`
	TargetPath string `json:"targetPath,omitempty"`
}

var (
	// ErrNotFound indicates the file id is unknown to the service.
	ErrNotFound = errors.New("file: not found")
)
