// Package mock provides an in-memory file service that answers the same
// requests as the real backend. It implements request.Transport, so a
// file.API built over it behaves like one talking to a live server.
package mock

import (
	"context"
	"fmt"
	"path"
	"sort"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/panelhub/file_sdk_go/internal/devseed"
	"github.com/panelhub/file_sdk_go/pkg/file"
)

const (
	// DefaultRoot is the upload directory the service stores files under.
	DefaultRoot = "./uploads"

	managedPrefix = "managed_user"
	gitKeep       = ".gitkeep"
)

type record struct {
	id        int
	fileName  string
	src       string
	createdAt time.Time
	updatedAt time.Time
}

// Mock keeps file records and a simulated upload directory for one user.
type Mock struct {
	mu      sync.RWMutex
	root    string
	userID  int
	records map[int]*record
	disk    map[string]struct{}
	nextID  int
	now     func() time.Time
}

// Option configures a Mock.
type Option func(*Mock)

// WithRoot sets the upload directory (default DefaultRoot).
func WithRoot(root string) Option {
	return func(m *Mock) {
		if strings.TrimSpace(root) != "" {
			m.root = root
		}
	}
}

// WithUserID sets the id of the user owning the files (default 1).
func WithUserID(id int) Option {
	return func(m *Mock) {
		m.userID = id
	}
}

// WithClock overrides the time source.
func WithClock(now func() time.Time) Option {
	return func(m *Mock) {
		if now != nil {
			m.now = now
		}
	}
}

// New constructs an empty service.
func New(opts ...Option) *Mock {
	m := &Mock{
		root:    DefaultRoot,
		userID:  1,
		records: make(map[int]*record),
		disk:    make(map[string]struct{}),
		now: func() time.Time {
			return time.Now().UTC()
		},
	}
	for _, opt := range opts {
		opt(m)
	}
	m.root = cleanRoot(m.root)
	return m
}

// Seed loads records and disk entries.
func (m *Mock) Seed(entries []devseed.FileSeedEntry) error {
	m.mu.Lock()
	defer m.mu.Unlock()

	for _, e := range entries {
		rel := strings.Trim(strings.TrimSpace(e.Path), "/")
		if rel == "" {
			return fmt.Errorf("mock file: seed entry missing path")
		}
		key := m.root + "/" + rel
		if !e.Missing {
			m.disk[key] = struct{}{}
		}
		if e.DiskOnly {
			continue
		}
		name := e.FileName
		if name == "" {
			name = path.Base(rel)
		}
		created := m.now()
		if e.CreatedAt != nil {
			created = e.CreatedAt.UTC()
		}
		m.addRecordLocked(name, key, created)
	}
	return nil
}

// AddFile stores an upload the way the service does: under
// <root>/<year>/<month>/<day>/ with a generated name keeping the extension.
func (m *Mock) AddFile(ctx context.Context, fileName string) (*file.File, error) {
	if strings.TrimSpace(fileName) == "" {
		return nil, fmt.Errorf("mock file: file name is required")
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()

	now := m.now()
	ext := strings.ToLower(path.Ext(fileName))
	stored := strings.ReplaceAll(uuid.NewString(), "-", "") + ext
	key := fmt.Sprintf("%s/%d/%d/%d/%s", m.root, now.Year(), int(now.Month()), now.Day(), stored)
	m.disk[key] = struct{}{}
	rec := m.addRecordLocked(fileName, key, now)
	f := m.toFile(rec)
	return &f, nil
}

// WriteDiskFile places a file on the simulated disk without recording it,
// as if it had been copied into the upload directory by hand.
func (m *Mock) WriteDiskFile(rel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.disk[m.root+"/"+strings.Trim(rel, "/")] = struct{}{}
}

// RemoveDiskFile deletes a file from the simulated disk, leaving any record.
func (m *Mock) RemoveDiskFile(rel string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.disk, m.root+"/"+strings.Trim(rel, "/"))
}

// DiskFiles lists the simulated disk, relative to the root.
func (m *Mock) DiskFiles() []string {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]string, 0, len(m.disk))
	for key := range m.disk {
		out = append(out, strings.TrimPrefix(key, m.root+"/"))
	}
	sort.Strings(out)
	return out
}

// List returns the records of a group, newest first. Unknown groups list all.
func (m *Mock) List(ctx context.Context, group string) ([]file.File, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.RLock()
	defer m.mu.RUnlock()

	recs := make([]*record, 0, len(m.records))
	for _, rec := range m.records {
		renamed := isRenamed(rec.src)
		switch group {
		case file.GroupRenamed:
			if !renamed {
				continue
			}
		case file.GroupOriginal:
			if renamed {
				continue
			}
		}
		recs = append(recs, rec)
	}
	sort.Slice(recs, func(i, j int) bool {
		if !recs[i].createdAt.Equal(recs[j].createdAt) {
			return recs[i].createdAt.After(recs[j].createdAt)
		}
		return recs[i].id > recs[j].id
	})

	files := make([]file.File, 0, len(recs))
	for _, rec := range recs {
		files = append(files, m.toFile(rec))
	}
	return files, nil
}

// Delete removes the records with the given ids and their files. Records
// whose file is already gone are still removed and reported as warnings.
func (m *Mock) Delete(ctx context.Context, ids []int) (*file.DeleteResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	var warnings []string
	for _, id := range ids {
		rec, ok := m.records[id]
		if !ok {
			continue
		}
		key := srcToKey(rec.src)
		if _, onDisk := m.disk[key]; onDisk {
			delete(m.disk, key)
		} else {
			warnings = append(warnings, fmt.Sprintf("Failed to delete file %s: remove %s: no such file or directory", rec.fileName, key))
		}
		delete(m.records, id)
	}

	if len(warnings) == 0 {
		return nil, nil
	}
	return &file.DeleteResult{
		Warnings: warnings,
		Message:  "Some files could not be physically removed but database records were deleted",
	}, nil
}

// Rename moves file id into the user's managed directory under newFileName,
// keeping the original extension when newFileName has none. If the target
// exists and force is false nothing changes and a conflict is returned.
func (m *Mock) Rename(ctx context.Context, id int, newFileName string, force bool) (*file.RenameResult, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	rec, ok := m.records[id]
	if !ok {
		return nil, fmt.Errorf("%w: id %d", file.ErrNotFound, id)
	}
	srcKey := srcToKey(rec.src)
	if _, onDisk := m.disk[srcKey]; !onDisk {
		return nil, fmt.Errorf("Source file not found: %s", strings.ReplaceAll(rec.src, "/./", "/"))
	}

	name := newFileName
	if path.Ext(name) == "" {
		name += path.Ext(rec.src)
	}
	target := fmt.Sprintf("%s/%s%d/%s", m.root, managedPrefix, m.userID, name)

	if _, exists := m.disk[target]; exists && !force {
		return &file.RenameResult{
			Conflict:   true,
			Message:    "File with this name already exists",
			TargetPath: keyToSrc(target),
		}, nil
	}

	delete(m.disk, srcKey)
	m.disk[target] = struct{}{}
	for otherID, other := range m.records {
		if otherID != id && srcToKey(other.src) == target {
			delete(m.records, otherID)
		}
	}
	rec.fileName = newFileName
	rec.src = rootedSrc(target)
	rec.updatedAt = m.now()
	return nil, nil
}

// Refresh drops every record and rebuilds them from the files found in the
// managed directory and in <year>/<month>/<day> directories.
func (m *Mock) Refresh(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	managedDir := fmt.Sprintf("%s%d", managedPrefix, m.userID)
	var managed, dated []string
	for key := range m.disk {
		rel := strings.TrimPrefix(key, m.root+"/")
		if rel == key {
			continue
		}
		parts := strings.Split(rel, "/")
		if parts[len(parts)-1] == gitKeep {
			continue
		}
		switch {
		case len(parts) == 2 && parts[0] == managedDir:
			managed = append(managed, key)
		case len(parts) == 4 && isYear(parts[0]):
			dated = append(dated, key)
		}
	}
	sort.Strings(managed)
	sort.Strings(dated)

	m.records = make(map[int]*record)
	now := m.now()
	for _, key := range append(managed, dated...) {
		rec := m.addRecordLocked(path.Base(key), key, now)
		rec.src = rootedSrc(key)
	}
	return nil
}

func (m *Mock) addRecordLocked(name, key string, created time.Time) *record {
	m.nextID++
	rec := &record{
		id:        m.nextID,
		fileName:  name,
		src:       keyToSrc(key),
		createdAt: created,
		updatedAt: created,
	}
	m.records[rec.id] = rec
	return rec
}

func (m *Mock) toFile(rec *record) file.File {
	fileType := file.TypeOriginal
	if isRenamed(rec.src) {
		fileType = file.TypeRenamed
	}
	return file.File{
		ID:         rec.id,
		FileName:   rec.fileName,
		Src:        rec.src[1:],
		Path:       rec.src,
		FileType:   fileType,
		CreateTime: rec.createdAt,
		UpdateTime: rec.updatedAt,
	}
}

func isRenamed(src string) bool {
	return strings.Contains(src, "/"+managedPrefix)
}

func isYear(s string) bool {
	n, err := strconv.Atoi(s)
	return err == nil && n >= 1000 && n <= 9999
}

// cleanRoot normalises the root to a slash path without "./" or trailing "/".
func cleanRoot(root string) string {
	root = path.Clean(strings.TrimSpace(root))
	return strings.TrimPrefix(root, "./")
}

// keyToSrc renders a disk key the way the service stores uploaded files.
func keyToSrc(key string) string {
	if strings.HasPrefix(key, "/") {
		return key
	}
	return "./" + key
}

// rootedSrc is the form the service stores for renamed and rescanned files:
// always led by "/", so a relative root reads "/./uploads/...".
func rootedSrc(key string) string {
	return "/" + strings.TrimPrefix(keyToSrc(key), "/")
}

func srcToKey(src string) string {
	if strings.HasPrefix(src, "/./") {
		src = src[1:]
	}
	return strings.TrimPrefix(src, "./")
}
