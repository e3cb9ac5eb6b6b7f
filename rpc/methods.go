package rpc

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"

	"sidecar/jsonrpc"
)

// JSON-RPC method names served by the two variants. Names are case-sensitive
// and part of the public API.
const (
	MethodPutDeploy          = "account_put_deploy"
	MethodPutTransaction     = "account_put_transaction"
	MethodGetBlock           = "chain_get_block"
	MethodGetBlockTransfers  = "chain_get_block_transfers"
	MethodGetStateRootHash   = "chain_get_state_root_hash"
	MethodGetEraSummary      = "chain_get_era_summary"
	MethodGetDeploy          = "info_get_deploy"
	MethodGetTransaction     = "info_get_transaction"
	MethodGetStatus          = "info_get_status"
	MethodGetPeers           = "info_get_peers"
	MethodGetChainspec       = "info_get_chainspec"
	MethodGetBalance         = "state_get_balance"
	MethodQueryBalance       = "query_balance"
	MethodSpeculativeExec    = "speculative_exec"
	MethodSpeculativeExecTxn = "speculative_exec_txn"
	MethodDiscover           = "rpc.discover"
)

// currentAPIVersion is echoed in every result so clients can detect schema
// changes.
const currentAPIVersion = "1.0.0"

// registerMethod binds one method to its handler and, when the limits table
// names the method, installs its token-bucket limiter. Carrying the limit
// through the registration call keeps one consistent per-method
// rate-limiting strategy across both serving variants.
func registerMethod[T any](b *jsonrpc.HandlersBuilder, ml *jsonrpc.MethodLimits, limits map[string]jsonrpc.ConfigLimit, method string, handler func(context.Context, json.RawMessage) (T, *jsonrpc.Error)) {
	if limit, ok := limits[method]; ok {
		ml.Set(method, limit)
	}
	jsonrpc.RegisterHandler(b, method, handler)
}

func paramsAbsent(params json.RawMessage) bool {
	return len(params) == 0 || bytes.Equal(bytes.TrimSpace(params), []byte("null"))
}

// decodeParams unmarshals the request params into dst, mapping failures to
// an InvalidParams error. Absent params leave dst at its zero value so
// methods with optional params work unchanged.
func decodeParams(params json.RawMessage, dst interface{}) *jsonrpc.Error {
	if paramsAbsent(params) {
		return nil
	}
	if err := json.Unmarshal(params, dst); err != nil {
		return jsonrpc.NewError(jsonrpc.CodeInvalidParams, fmt.Sprintf("invalid params: %v", err))
	}
	return nil
}

// requireParams is decodeParams for methods whose params are mandatory.
func requireParams(params json.RawMessage, dst interface{}) *jsonrpc.Error {
	if paramsAbsent(params) {
		return jsonrpc.NewError(jsonrpc.CodeInvalidParams, "params required")
	}
	return decodeParams(params, dst)
}

// rejectParams guards methods that take no params at all.
func rejectParams(params json.RawMessage) *jsonrpc.Error {
	if !paramsAbsent(params) {
		return jsonrpc.NewError(jsonrpc.CodeInvalidParams, "no params expected")
	}
	return nil
}
