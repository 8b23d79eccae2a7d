// Package devseed loads seed files describing the initial state of the
// in-memory file service used by tests, examples and the sandbox.
package devseed

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// FileSeedEntry describes one file known to the mock service.
//
// Path is relative to the upload root, e.g. "2024/5/1/a1b2.png" or
// "managed_user1/report.pdf". FileName defaults to the base name of Path.
// DiskOnly entries exist on disk but have no record until a refresh;
// Missing entries have a record whose file is absent from disk.
type FileSeedEntry struct {
	Path      string     `json:"path" yaml:"path"`
	FileName  string     `json:"file_name,omitempty" yaml:"file_name,omitempty"`
	CreatedAt *time.Time `json:"created_at,omitempty" yaml:"created_at,omitempty"`
	DiskOnly  bool       `json:"disk_only,omitempty" yaml:"disk_only,omitempty"`
	Missing   bool       `json:"missing,omitempty" yaml:"missing,omitempty"`
}

// LoadFileSeed reads a JSON or YAML (by extension) list of entries.
func LoadFileSeed(path string) ([]FileSeedEntry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("devseed: read %s: %w", path, err)
	}

	var entries []FileSeedEntry
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		err = yaml.Unmarshal(data, &entries)
	default:
		err = json.Unmarshal(data, &entries)
	}
	if err != nil {
		return nil, fmt.Errorf("devseed: decode %s: %w", path, err)
	}

	for i, e := range entries {
		if strings.TrimSpace(e.Path) == "" {
			return nil, fmt.Errorf("devseed: entry %d missing path", i)
		}
		if e.DiskOnly && e.Missing {
			return nil, fmt.Errorf("devseed: entry %d (%s) cannot be both disk_only and missing", i, e.Path)
		}
	}
	return entries, nil
}
