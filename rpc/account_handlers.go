package rpc

import (
	"context"
	"encoding/json"

	"github.com/ethereum/go-ethereum/common"

	"sidecar/jsonrpc"
	"sidecar/node"
)

type accountAPI struct {
	node  node.Client
	token string
}

type PutDeployParams struct {
	Deploy *node.Deploy `json:"deploy"`
}

type PutDeployResult struct {
	APIVersion string      `json:"apiVersion"`
	DeployHash common.Hash `json:"deployHash"`
}

type PutTransactionParams struct {
	Transaction *node.Transaction `json:"transaction"`
}

type PutTransactionResult struct {
	APIVersion      string      `json:"apiVersion"`
	TransactionHash common.Hash `json:"transactionHash"`
}

func (api *accountAPI) putDeploy(ctx context.Context, params json.RawMessage) (*PutDeployResult, *jsonrpc.Error) {
	if rpcErr := requireAuth(ctx, api.token); rpcErr != nil {
		return nil, rpcErr
	}
	var p PutDeployParams
	if rpcErr := requireParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.Deploy == nil {
		return nil, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "deploy is required")
	}
	if p.Deploy.Hash == (common.Hash{}) {
		return nil, jsonrpc.NewError(CodeInvalidDeploy, "deploy hash is empty")
	}
	if len(p.Deploy.Approvals) == 0 {
		return nil, jsonrpc.NewError(CodeInvalidDeploy, "deploy carries no approvals")
	}

	hash, err := api.node.PutDeploy(ctx, p.Deploy)
	if err != nil {
		return nil, jsonrpc.NewError(CodeInvalidDeploy, err.Error())
	}
	return &PutDeployResult{APIVersion: currentAPIVersion, DeployHash: hash}, nil
}

func (api *accountAPI) putTransaction(ctx context.Context, params json.RawMessage) (*PutTransactionResult, *jsonrpc.Error) {
	if rpcErr := requireAuth(ctx, api.token); rpcErr != nil {
		return nil, rpcErr
	}
	var p PutTransactionParams
	if rpcErr := requireParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if p.Transaction == nil {
		return nil, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "transaction is required")
	}
	if p.Transaction.Hash == (common.Hash{}) {
		return nil, jsonrpc.NewError(CodeInvalidTransaction, "transaction hash is empty")
	}
	if len(p.Transaction.Approvals) == 0 {
		return nil, jsonrpc.NewError(CodeInvalidTransaction, "transaction carries no approvals")
	}

	hash, err := api.node.PutTransaction(ctx, p.Transaction)
	if err != nil {
		return nil, jsonrpc.NewError(CodeInvalidTransaction, err.Error())
	}
	return &PutTransactionResult{APIVersion: currentAPIVersion, TransactionHash: hash}, nil
}
