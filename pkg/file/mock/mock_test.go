package mock_test

import (
	"context"
	"errors"
	"net/http"
	"testing"
	"time"

	qt "github.com/frankban/quicktest"

	"github.com/panelhub/file_sdk_go/internal/devseed"
	"github.com/panelhub/file_sdk_go/pkg/file"
	"github.com/panelhub/file_sdk_go/pkg/file/mock"
	"github.com/panelhub/file_sdk_go/pkg/request"
)

type fakeClock struct {
	t time.Time
}

func (f *fakeClock) now() time.Time {
	f.t = f.t.Add(time.Minute)
	return f.t
}

func newSeeded(c *qt.C) (*mock.Mock, *file.API) {
	clock := &fakeClock{t: time.Date(2024, 6, 1, 8, 0, 0, 0, time.UTC)}
	m := mock.New(mock.WithClock(clock.now))
	t1 := time.Date(2024, 5, 1, 9, 0, 0, 0, time.UTC)
	t2 := time.Date(2024, 5, 2, 9, 0, 0, 0, time.UTC)
	t3 := time.Date(2024, 5, 3, 9, 0, 0, 0, time.UTC)
	err := m.Seed([]devseed.FileSeedEntry{
		{Path: "2024/5/1/aaa.png", FileName: "holiday.png", CreatedAt: &t1},
		{Path: "2024/5/2/bbb.pdf", FileName: "invoice.pdf", CreatedAt: &t2},
		{Path: "managed_user1/notes.txt", CreatedAt: &t3},
	})
	c.Assert(err, qt.IsNil)
	return m, file.NewWithTransport(m)
}

func ids(files []file.File) []int {
	out := make([]int, 0, len(files))
	for _, f := range files {
		out = append(out, f.ID)
	}
	return out
}

func TestListGroups(t *testing.T) {
	c := qt.New(t)
	_, api := newSeeded(c)
	ctx := context.Background()

	all, err := api.List(ctx, "")
	c.Assert(err, qt.IsNil)
	c.Assert(ids(all.Files), qt.DeepEquals, []int{3, 2, 1})
	c.Assert(all.Count, qt.Equals, int64(3))

	renamed, err := api.List(ctx, file.GroupRenamed)
	c.Assert(err, qt.IsNil)
	c.Assert(ids(renamed.Files), qt.DeepEquals, []int{3})
	c.Assert(renamed.Files[0].FileType, qt.Equals, file.TypeRenamed)
	c.Assert(renamed.Files[0].Path, qt.Equals, "./uploads/managed_user1/notes.txt")
	c.Assert(renamed.Files[0].Src, qt.Equals, "/uploads/managed_user1/notes.txt")

	original, err := api.List(ctx, file.GroupOriginal)
	c.Assert(err, qt.IsNil)
	c.Assert(ids(original.Files), qt.DeepEquals, []int{2, 1})

	other, err := api.List(ctx, "whatever")
	c.Assert(err, qt.IsNil)
	c.Assert(other.Count, qt.Equals, int64(3))
}

func TestDeleteWithWarnings(t *testing.T) {
	c := qt.New(t)
	m, api := newSeeded(c)
	ctx := context.Background()

	res, err := api.Delete(ctx, []int{1, 99})
	c.Assert(err, qt.IsNil)
	c.Assert(res.Warnings, qt.HasLen, 0)
	c.Assert(m.DiskFiles(), qt.DeepEquals, []string{"2024/5/2/bbb.pdf", "managed_user1/notes.txt"})

	m.RemoveDiskFile("2024/5/2/bbb.pdf")
	res, err = api.Delete(ctx, []int{2})
	c.Assert(err, qt.IsNil)
	c.Assert(res.Warnings, qt.HasLen, 1)
	c.Assert(res.Warnings[0], qt.Matches, `Failed to delete file invoice.pdf: .*`)

	left, err := api.List(ctx, file.GroupAll)
	c.Assert(err, qt.IsNil)
	c.Assert(ids(left.Files), qt.DeepEquals, []int{3})
}

func TestRenameKeepsExtensionAndDetectsConflicts(t *testing.T) {
	c := qt.New(t)
	m, api := newSeeded(c)
	ctx := context.Background()

	res, err := api.Rename(ctx, 1, "beach", nil)
	c.Assert(err, qt.IsNil)
	c.Assert(res.Conflict, qt.IsFalse)
	c.Assert(m.DiskFiles(), qt.DeepEquals, []string{"2024/5/2/bbb.pdf", "managed_user1/beach.png", "managed_user1/notes.txt"})

	renamed, err := api.List(ctx, file.GroupRenamed)
	c.Assert(err, qt.IsNil)
	c.Assert(renamed.Files, qt.HasLen, 2)
	var beach file.File
	for _, f := range renamed.Files {
		if f.ID == 1 {
			beach = f
		}
	}
	c.Assert(beach.FileName, qt.Equals, "beach")
	c.Assert(beach.Path, qt.Equals, "/./uploads/managed_user1/beach.png")
	c.Assert(beach.Src, qt.Equals, "./uploads/managed_user1/beach.png")
	c.Assert(beach.UpdateTime.After(beach.CreateTime), qt.IsTrue)

	conflict, err := api.Rename(ctx, 2, "beach.png", nil)
	c.Assert(err, qt.IsNil)
	c.Assert(conflict.Conflict, qt.IsTrue)
	c.Assert(conflict.Message, qt.Equals, "File with this name already exists")
	c.Assert(conflict.TargetPath, qt.Equals, "./uploads/managed_user1/beach.png")
	c.Assert(m.DiskFiles(), qt.Contains, "2024/5/2/bbb.pdf")

	forced, err := api.Rename(ctx, 2, "beach.png", &file.RenameOptions{Force: true})
	c.Assert(err, qt.IsNil)
	c.Assert(forced.Conflict, qt.IsFalse)
	c.Assert(m.DiskFiles(), qt.DeepEquals, []string{"managed_user1/beach.png", "managed_user1/notes.txt"})

	all, err := api.List(ctx, file.GroupAll)
	c.Assert(err, qt.IsNil)
	c.Assert(ids(all.Files), qt.DeepEquals, []int{3, 2})
}

func TestRenameErrors(t *testing.T) {
	c := qt.New(t)
	m, api := newSeeded(c)
	ctx := context.Background()

	_, err := api.Rename(ctx, 42, "x", nil)
	var apiErr *request.APIError
	c.Assert(errors.As(err, &apiErr), qt.IsTrue)
	c.Assert(apiErr.Msg, qt.Equals, "data not found")

	_, err = m.Rename(ctx, 42, "x", false)
	c.Assert(errors.Is(err, file.ErrNotFound), qt.IsTrue)

	m.RemoveDiskFile("2024/5/1/aaa.png")
	_, err = api.Rename(ctx, 1, "x", nil)
	c.Assert(errors.As(err, &apiErr), qt.IsTrue)
	c.Assert(apiErr.Msg, qt.Equals, "Source file not found: ./uploads/2024/5/1/aaa.png")
}

func TestRefreshRebuildsFromDisk(t *testing.T) {
	c := qt.New(t)
	m, api := newSeeded(c)
	ctx := context.Background()

	m.RemoveDiskFile("2024/5/2/bbb.pdf")
	m.WriteDiskFile("2023/12/31/late.jpg")
	m.WriteDiskFile("2023/12/31/.gitkeep")
	m.WriteDiskFile("managed_user1/.gitkeep")
	m.WriteDiskFile("managed_user2/other.txt")
	m.WriteDiskFile("misc/loose.txt")
	m.WriteDiskFile("abcd/1/1/nope.txt")

	c.Assert(api.Refresh(ctx), qt.IsNil)

	all, err := api.List(ctx, file.GroupAll)
	c.Assert(err, qt.IsNil)
	names := make([]string, 0, len(all.Files))
	for _, f := range all.Files {
		names = append(names, f.Path)
	}
	c.Assert(names, qt.DeepEquals, []string{
		"/./uploads/2024/5/1/aaa.png",
		"/./uploads/2023/12/31/late.jpg",
		"/./uploads/managed_user1/notes.txt",
	})
	c.Assert(ids(all.Files), qt.DeepEquals, []int{6, 5, 4})
	c.Assert(all.Files[0].FileName, qt.Equals, "aaa.png")
	c.Assert(all.Files[0].Src, qt.Equals, "./uploads/2024/5/1/aaa.png")

	// rescanned records still resolve to their disk entries
	res, err := api.Delete(ctx, []int{6})
	c.Assert(err, qt.IsNil)
	c.Assert(res.Warnings, qt.HasLen, 0)
	c.Assert(m.DiskFiles(), qt.Not(qt.Contains), "2024/5/1/aaa.png")

	_, err = api.Rename(ctx, 5, "early", nil)
	c.Assert(err, qt.IsNil)
	c.Assert(m.DiskFiles(), qt.Contains, "managed_user1/early.jpg")
}

func TestAddFileAndCancelledContext(t *testing.T) {
	c := qt.New(t)
	m := mock.New(mock.WithRoot("/srv/uploads"), mock.WithUserID(7), mock.WithClock(func() time.Time {
		return time.Date(2025, 1, 2, 3, 4, 5, 0, time.UTC)
	}))
	ctx := context.Background()

	f, err := m.AddFile(ctx, "Photo.JPG")
	c.Assert(err, qt.IsNil)
	c.Assert(f.FileName, qt.Equals, "Photo.JPG")
	c.Assert(f.Path, qt.Matches, `/srv/uploads/2025/1/2/[0-9a-f]{32}\.jpg`)
	c.Assert(f.FileType, qt.Equals, file.TypeOriginal)

	res, err := m.Rename(ctx, f.ID, "cover", false)
	c.Assert(err, qt.IsNil)
	c.Assert(res, qt.IsNil)
	list, err := m.List(ctx, file.GroupRenamed)
	c.Assert(err, qt.IsNil)
	c.Assert(list, qt.HasLen, 1)
	c.Assert(list[0].Path, qt.Equals, "/srv/uploads/managed_user7/cover.jpg")

	_, err = m.AddFile(ctx, " ")
	c.Assert(err, qt.ErrorMatches, `mock file: file name is required`)

	cancelled, cancel := context.WithCancel(ctx)
	cancel()
	_, err = m.List(cancelled, "")
	c.Assert(err, qt.Equals, context.Canceled)
	_, err = file.RefreshFiles[any](cancelled, file.NewWithTransport(m))
	c.Assert(errors.Is(err, context.Canceled), qt.IsTrue)
}

func TestTransportRejectsBadRequests(t *testing.T) {
	c := qt.New(t)
	m := mock.New()
	ctx := context.Background()

	_, err := m.Post(ctx, request.Options{URL: "/file/upload"})
	var httpErr *request.HTTPError
	c.Assert(errors.As(err, &httpErr), qt.IsTrue)
	c.Assert(httpErr.StatusCode, qt.Equals, http.StatusNotFound)

	_, err = m.Post(ctx, request.Options{URL: file.PathDeletes})
	var apiErr *request.APIError
	c.Assert(errors.As(err, &apiErr), qt.IsTrue)
	c.Assert(apiErr.Msg, qt.Matches, `param format error: .*`)

	var noCtx context.Context
	_, err = m.Post(noCtx, request.Options{URL: file.PathRefresh})
	c.Assert(err, qt.IsNil)

	raw, err := request.Post[request.Response[request.ListData[file.File]]](ctx, m, request.Options{URL: file.PathGetList})
	c.Assert(err, qt.IsNil)
	c.Assert(raw.Msg, qt.Equals, "OK")
	c.Assert(raw.Data.List, qt.HasLen, 0)
}
