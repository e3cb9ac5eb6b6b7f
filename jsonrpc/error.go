package jsonrpc

import "fmt"

// Reserved JSON-RPC 2.0 error codes. The numeric values are fixed by the
// specification and clients match on them, so they must never change.
const (
	CodeParseError     = -32700
	CodeInvalidRequest = -32600
	CodeMethodNotFound = -32601
	CodeInvalidParams  = -32602
	CodeInternalError  = -32603
)

// Error is the JSON-RPC 2.0 error object carried inside a failure response.
type Error struct {
	Code    int         `json:"code"`
	Message string      `json:"message"`
	Data    interface{} `json:"data,omitempty"`
}

// NewError returns an Error with the given code and message.
func NewError(code int, message string) *Error {
	return &Error{Code: code, Message: message}
}

// WithData returns a copy of the error carrying additional diagnostic data.
func (e *Error) WithData(data interface{}) *Error {
	if e == nil {
		return nil
	}
	clone := *e
	clone.Data = data
	return &clone
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("json-rpc error %d: %s", e.Code, e.Message)
}
