package rpc

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"sidecar/jsonrpc"
	"sidecar/node"
)

type speculativeAPI struct {
	node node.Client
}

type SpeculativeExecParams struct {
	Deploy *node.Deploy `json:"deploy"`
}

type SpeculativeExecTxnParams struct {
	Transaction *node.Transaction `json:"transaction"`
}

type SpeculativeExecResult struct {
	APIVersion      string                `json:"apiVersion"`
	ExecutionResult *node.ExecutionResult `json:"executionResult"`
}

func (api *speculativeAPI) execDeploy(ctx context.Context, params json.RawMessage) (*SpeculativeExecResult, *jsonrpc.Error) {
	var p SpeculativeExecParams
	if rpcErr := requireParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.Deploy == nil {
		return nil, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "deploy is required")
	}
	if p.Deploy.Hash == (common.Hash{}) {
		return nil, jsonrpc.NewError(CodeInvalidDeploy, "deploy hash is empty")
	}

	result, err := api.node.SpeculativeExec(ctx, p.Deploy)
	if err != nil {
		return nil, jsonrpc.NewError(CodeSpeculativeExecFailed, err.Error())
	}
	return &SpeculativeExecResult{APIVersion: currentAPIVersion, ExecutionResult: result}, nil
}

func (api *speculativeAPI) execTransaction(ctx context.Context, params json.RawMessage) (*SpeculativeExecResult, *jsonrpc.Error) {
	var p SpeculativeExecTxnParams
	if rpcErr := requireParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.Transaction == nil {
		return nil, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "transaction is required")
	}
	if p.Transaction.Hash == (common.Hash{}) {
		return nil, jsonrpc.NewError(CodeInvalidTransaction, "transaction hash is empty")
	}

	result, err := api.node.SpeculativeExecTxn(ctx, p.Transaction)
	if err != nil {
		return nil, jsonrpc.NewError(CodeSpeculativeExecFailed, err.Error())
	}
	return &SpeculativeExecResult{APIVersion: currentAPIVersion, ExecutionResult: result}, nil
}
