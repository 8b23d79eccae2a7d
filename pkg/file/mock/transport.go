package mock

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/panelhub/file_sdk_go/internal/envelope"
	"github.com/panelhub/file_sdk_go/pkg/file"
	"github.com/panelhub/file_sdk_go/pkg/request"
)

var _ request.Transport = (*Mock)(nil)

// Post answers a file service request from memory. Replies with a non-zero
// envelope code are returned as *request.APIError, and unknown paths as a
// 404 *request.HTTPError, matching request.Client defaults.
func (m *Mock) Post(ctx context.Context, opts request.Options) ([]byte, error) {
	if m == nil {
		return nil, errors.New("mock file: mock is nil")
	}
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var body []byte
	if opts.Data != nil {
		encoded, err := envelope.Marshal(opts.Data)
		if err != nil {
			return nil, err
		}
		body = encoded
	}

	reply, ok := m.Handle(ctx, opts.URL, body)
	if !ok {
		return nil, &request.HTTPError{
			StatusCode: http.StatusNotFound,
			Body:       []byte("404 page not found"),
		}
	}
	data, err := envelope.Marshal(reply)
	if err != nil {
		return nil, err
	}
	if err := envelope.Check(data); err != nil {
		return nil, err
	}
	return data, nil
}

// Handle runs one request against the store and builds the reply envelope.
// ok is false when path is not a file service endpoint.
func (m *Mock) Handle(ctx context.Context, path string, body []byte) (reply envelope.Reply, ok bool) {
	switch path {
	case file.PathGetList:
		var req struct {
			Group string `json:"group"`
		}
		if len(body) == 0 || json.Unmarshal(body, &req) != nil {
			req.Group = file.GroupAll
		}
		files, err := m.List(ctx, req.Group)
		if err != nil {
			return ErrorReply(err), true
		}
		return envelope.List(files, int64(len(files))), true

	case file.PathDeletes:
		var req struct {
			IDs []int `json:"ids"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return ParamErrorReply(err), true
		}
		res, err := m.Delete(ctx, req.IDs)
		if err != nil {
			return ErrorReply(err), true
		}
		if res == nil {
			return envelope.Success(nil), true
		}
		return envelope.Success(res), true

	case file.PathRename:
		var req struct {
			ID       int    `json:"id"`
			FileName string `json:"fileName"`
			Force    bool   `json:"force"`
		}
		if err := json.Unmarshal(body, &req); err != nil {
			return ParamErrorReply(err), true
		}
		res, err := m.Rename(ctx, req.ID, req.FileName, req.Force)
		if err != nil {
			return ErrorReply(err), true
		}
		if res == nil {
			return envelope.Success(nil), true
		}
		return envelope.Success(res), true

	case file.PathRefresh:
		if err := m.Refresh(ctx); err != nil {
			return ErrorReply(err), true
		}
		return envelope.Success(nil), true
	}
	return envelope.Reply{}, false
}

// ErrorReply converts a store error into the envelope the service sends.
func ErrorReply(err error) envelope.Reply {
	if errors.Is(err, file.ErrNotFound) {
		return envelope.Fail(envelope.CodeError, "data not found")
	}
	return envelope.Fail(envelope.CodeError, err.Error())
}

// ParamErrorReply is sent when a request body cannot be decoded.
func ParamErrorReply(err error) envelope.Reply {
	return envelope.Fail(envelope.CodeError, "param format error: "+err.Error())
}
