package jsonrpc

import (
	"encoding/json"
	"testing"
)

func TestIDAcceptsStringAndNumber(t *testing.T) {
	var id ID
	if err := json.Unmarshal([]byte(`"abc"`), &id); err != nil {
		t.Fatalf("string id rejected: %v", err)
	}
	if id.String() != `"abc"` {
		t.Fatalf("unexpected id %q", id.String())
	}
	if err := json.Unmarshal([]byte(`42`), &id); err != nil {
		t.Fatalf("numeric id rejected: %v", err)
	}
	if id.String() != "42" {
		t.Fatalf("unexpected id %q", id.String())
	}
}

func TestIDRejectsOtherTypes(t *testing.T) {
	for _, raw := range []string{"null", "true", "[1]", `{"a":1}`} {
		var id ID
		if err := json.Unmarshal([]byte(raw), &id); err == nil {
			t.Fatalf("id %s should be rejected", raw)
		}
	}
}

func TestRequestNotificationDetection(t *testing.T) {
	var req Request
	if err := json.Unmarshal([]byte(`{"jsonrpc":"2.0","method":"info_get_status"}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if !req.IsNotification() {
		t.Fatal("request without id should be a notification")
	}

	if err := json.Unmarshal([]byte(`{"jsonrpc":"2.0","method":"info_get_status","id":7}`), &req); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if req.IsNotification() {
		t.Fatal("request with id should not be a notification")
	}
}

func TestResponseConstructorsEchoID(t *testing.T) {
	id := Int64ID(5)
	success := NewSuccess(&id, json.RawMessage(`"ok"`))
	if success.ID == nil || success.ID.String() != "5" {
		t.Fatalf("success did not echo id: %+v", success.ID)
	}
	if success.Error != nil {
		t.Fatal("success must not carry an error")
	}

	rpcErr := NewError(CodeMethodNotFound, "nope")
	failure := NewFailure(&id, rpcErr)
	if failure.Error != rpcErr {
		t.Fatalf("failure did not carry the error: %+v", failure.Error)
	}
	if failure.Result != nil {
		t.Fatal("failure must not carry a result")
	}

	encoded, err := json.Marshal(failure)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var decoded Response
	if err := json.Unmarshal(encoded, &decoded); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if decoded.JSONRPC != Version {
		t.Fatalf("unexpected version %q", decoded.JSONRPC)
	}
	if decoded.Error == nil || decoded.Error.Code != CodeMethodNotFound {
		t.Fatalf("error not preserved: %+v", decoded.Error)
	}
}

func TestFailureWithoutID(t *testing.T) {
	failure := NewFailure(nil, NewError(CodeInvalidRequest, "bad"))
	encoded, err := json.Marshal(failure)
	if err != nil {
		t.Fatalf("marshal: %v", err)
	}
	var generic map[string]json.RawMessage
	if err := json.Unmarshal(encoded, &generic); err != nil {
		t.Fatalf("unmarshal: %v", err)
	}
	if _, present := generic["id"]; present {
		t.Fatal("id should be omitted when unknown")
	}
}
