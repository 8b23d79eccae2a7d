// Package envelope handles the {"code","msg","data"} wrapper the file
// service puts around every JSON reply.
package envelope

import (
	"bytes"
	"encoding/json"
	"fmt"
)

const (
	// CodeSuccess marks a successful reply.
	CodeSuccess = 0
	// CodeError is the generic failure code used by the service.
	CodeError = -1
)

// Message texts the service pairs with its codes.
const (
	MsgOK = "OK"
)

// Reply is the wire shape of a service response.
type Reply struct {
	Code int    `json:"code"`
	Msg  string `json:"msg"`
	Data any    `json:"data"`
}

// APIError is a well-formed reply whose code is not CodeSuccess.
type APIError struct {
	Code int
	Msg  string
	Data json.RawMessage
}

func (e *APIError) Error() string {
	if e == nil {
		return "<nil>"
	}
	return fmt.Sprintf("api error: code=%d msg=%s", e.Code, e.Msg)
}

// Check inspects body and returns an *APIError when it is an envelope
// carrying a non-success code. Bodies that are not JSON objects, or that
// have no "code" field, pass unchanged.
func Check(body []byte) error {
	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 || trimmed[0] != '{' {
		return nil
	}

	var head struct {
		Code *int            `json:"code"`
		Msg  string          `json:"msg"`
		Data json.RawMessage `json:"data"`
	}
	if err := json.Unmarshal(trimmed, &head); err != nil || head.Code == nil {
		return nil
	}
	if *head.Code == CodeSuccess {
		return nil
	}
	return &APIError{
		Code: *head.Code,
		Msg:  head.Msg,
		Data: append(json.RawMessage(nil), head.Data...),
	}
}

// Success wraps data in a success reply.
func Success(data any) Reply {
	return Reply{Code: CodeSuccess, Msg: MsgOK, Data: data}
}

// Fail builds an error reply.
func Fail(code int, msg string) Reply {
	return Reply{Code: code, Msg: msg, Data: nil}
}

// List wraps a listing the way the service does: data is {"list","count"}.
func List(list any, count int64) Reply {
	return Success(map[string]any{
		"list":  list,
		"count": count,
	})
}

// Marshal encodes v without HTML escaping and without a trailing newline.
func Marshal(v any) ([]byte, error) {
	buf := &bytes.Buffer{}
	enc := json.NewEncoder(buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(v); err != nil {
		return nil, err
	}
	return bytes.TrimRight(buf.Bytes(), "\n"), nil
}
