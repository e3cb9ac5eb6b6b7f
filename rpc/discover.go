package rpc

import (
	"context"
	"encoding/json"
	"sort"

	"sidecar/jsonrpc"
)

// DiscoverResult lists the method names this serving variant accepts.
type DiscoverResult struct {
	APIVersion string   `json:"apiVersion"`
	Methods    []string `json:"methods"`
}

// registerDiscover must be called after every other method so the snapshot
// it serves is complete.
func registerDiscover(b *jsonrpc.HandlersBuilder, ml *jsonrpc.MethodLimits, limits map[string]jsonrpc.ConfigLimit) {
	methods := append(b.Methods(), MethodDiscover)
	sort.Strings(methods)
	registerMethod(b, ml, limits, MethodDiscover, func(_ context.Context, params json.RawMessage) (*DiscoverResult, *jsonrpc.Error) {
		if rpcErr := rejectParams(params); rpcErr != nil {
			return nil, rpcErr
		}
		return &DiscoverResult{APIVersion: currentAPIVersion, Methods: methods}, nil
	})
}
