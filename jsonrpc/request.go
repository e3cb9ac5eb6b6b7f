package jsonrpc

import (
	"bytes"
	"encoding/json"
	"errors"
)

// Version is the protocol version accepted and emitted by this package.
const Version = "2.0"

// ID is a JSON-RPC request identifier. The specification allows a string or
// a number; anything else fails to unmarshal.
type ID struct {
	raw json.RawMessage
}

// StringID returns an ID holding the given string.
func StringID(s string) ID {
	raw, _ := json.Marshal(s)
	return ID{raw: raw}
}

// Int64ID returns an ID holding the given number.
func Int64ID(n int64) ID {
	raw, _ := json.Marshal(n)
	return ID{raw: raw}
}

func (id ID) MarshalJSON() ([]byte, error) {
	if len(id.raw) == 0 {
		return []byte("null"), nil
	}
	return id.raw, nil
}

func (id *ID) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return errors.New("json-rpc id must be a string or a number")
	}
	if trimmed[0] == '"' {
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return err
		}
	} else {
		var n json.Number
		if err := json.Unmarshal(trimmed, &n); err != nil {
			return errors.New("json-rpc id must be a string or a number")
		}
	}
	id.raw = append(json.RawMessage(nil), trimmed...)
	return nil
}

func (id ID) String() string {
	if len(id.raw) == 0 {
		return ""
	}
	return string(id.raw)
}

// Request is the JSON-RPC 2.0 request envelope. A nil ID marks the request
// as a notification.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
	ID      *ID             `json:"id,omitempty"`
}

// IsNotification reports whether the request carries no id. Per the JSON-RPC
// specification no response may be sent for such a request.
func (r *Request) IsNotification() bool {
	return r.ID == nil
}
