package file

import (
	"context"
	"fmt"

	"github.com/panelhub/file_sdk_go/pkg/request"
)

// Endpoint paths, relative to the service base URL.
const (
	PathGetList = "/file/getList"
	PathDeletes = "/file/deletes"
	PathRename  = "/file/rename"
	PathRefresh = "/file/refresh"
)

// API binds the file endpoints to a request.Transport.
type API struct {
	transport request.Transport
}

// New constructs an API over an HTTP transport for baseURL.
func New(baseURL string, opts ...request.Option) (*API, error) {
	cl, err := request.New(baseURL, opts...)
	if err != nil {
		return nil, err
	}
	return NewWithTransport(cl), nil
}

// NewWithTransport allows callers to supply any Transport (e.g., mocks).
func NewWithTransport(t request.Transport) *API {
	return &API{transport: t}
}

type listPayload struct {
	Group string `json:"group"`
}

type deletesPayload struct {
	IDs []int `json:"ids"`
}

type renamePayload struct {
	ID       int    `json:"id"`
	FileName string `json:"fileName"`
	Force    bool   `json:"force"`
}

// GetList posts to /file/getList. An empty group sends no body, which the
// service treats as "all".
func GetList[T any](ctx context.Context, api *API, group string) (T, error) {
	opts := request.Options{URL: PathGetList}
	if group != "" {
		opts.Data = listPayload{Group: group}
	}
	return post[T](ctx, api, opts)
}

// Deletes posts the ids to /file/deletes in the given order. The call is
// never retried: a repeat would lose the first attempt's warnings.
func Deletes[T any](ctx context.Context, api *API, ids []int) (T, error) {
	if ids == nil {
		ids = []int{}
	}
	return post[T](ctx, api, request.Options{
		URL:     PathDeletes,
		Data:    deletesPayload{IDs: ids},
		NoRetry: true,
	})
}

// Rename posts to /file/rename. With nil opts the rename does not overwrite.
// The call is never retried, since the file has moved once it is applied.
func Rename[T any](ctx context.Context, api *API, id int, newFileName string, opts *RenameOptions) (T, error) {
	force := false
	if opts != nil {
		force = opts.Force
	}
	return post[T](ctx, api, request.Options{
		URL:     PathRename,
		Data:    renamePayload{ID: id, FileName: newFileName, Force: force},
		NoRetry: true,
	})
}

// RefreshFiles posts to /file/refresh with no body.
func RefreshFiles[T any](ctx context.Context, api *API) (T, error) {
	return post[T](ctx, api, request.Options{URL: PathRefresh})
}

func post[T any](ctx context.Context, api *API, opts request.Options) (T, error) {
	if api == nil || api.transport == nil {
		var zero T
		return zero, fmt.Errorf("file: client is nil")
	}
	return request.Post[T](ctx, api.transport, opts)
}

// List returns the files of the given group.
func (a *API) List(ctx context.Context, group string) (*ListResult, error) {
	resp, err := GetList[request.Response[request.ListData[File]]](ctx, a, group)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	return &ListResult{Files: resp.Data.List, Count: resp.Data.Count}, nil
}

// Delete removes the files with the given ids.
func (a *API) Delete(ctx context.Context, ids []int) (*DeleteResult, error) {
	resp, err := Deletes[request.Response[*DeleteResult]](ctx, a, ids)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return &DeleteResult{}, nil
	}
	return resp.Data, nil
}

// Rename renames file id to newFileName. A name conflict is not an error:
// the returned result has Conflict set.
func (a *API) Rename(ctx context.Context, id int, newFileName string, opts *RenameOptions) (*RenameResult, error) {
	resp, err := Rename[request.Response[*RenameResult]](ctx, a, id, newFileName, opts)
	if err != nil {
		return nil, err
	}
	if err := resp.Err(); err != nil {
		return nil, err
	}
	if resp.Data == nil {
		return &RenameResult{}, nil
	}
	return resp.Data, nil
}

// Refresh asks the service to rebuild the file list from disk.
func (a *API) Refresh(ctx context.Context) error {
	resp, err := RefreshFiles[request.Response[any]](ctx, a)
	if err != nil {
		return err
	}
	return resp.Err()
}
