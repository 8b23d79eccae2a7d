package request

import (
	"encoding/json"

	"github.com/panelhub/file_sdk_go/internal/envelope"
)

// Response is the envelope every file service reply is wrapped in.
type Response[D any] struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data D      `json:"data"`
}

// Err returns an *APIError when the reply carries a non-success code.
func (r Response[D]) Err() error {
	if r.Code == envelope.CodeSuccess {
		return nil
	}
	apiErr := &APIError{Code: r.Code, Msg: r.Msg}
	if data, err := json.Marshal(r.Data); err == nil {
		apiErr.Data = data
	}
	return apiErr
}

// ListData is the data payload of listing replies.
type ListData[E any] struct {
	List  []E   `json:"list"`
	Count int64 `json:"count"`
}
