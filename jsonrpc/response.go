package jsonrpc

import "encoding/json"

// Response is the JSON-RPC 2.0 response envelope. Exactly one of Result and
// Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
	ID      *ID             `json:"id,omitempty"`
}

// NewSuccess returns a success response echoing the request's id.
func NewSuccess(id *ID, result json.RawMessage) Response {
	return Response{JSONRPC: Version, Result: result, ID: id}
}

// NewFailure returns a failure response. The id may be nil when the failure
// was discovered before the request's id was known.
func NewFailure(id *ID, rpcErr *Error) Response {
	return Response{JSONRPC: Version, Error: rpcErr, ID: id}
}
