package rpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"sidecar/jsonrpc"
	"sidecar/node"
)

type infoAPI struct {
	node node.Client
}

type GetStatusResult struct {
	APIVersion string       `json:"apiVersion"`
	Status     *node.Status `json:"status"`
}

type GetPeersResult struct {
	APIVersion string      `json:"apiVersion"`
	Peers      []node.Peer `json:"peers"`
}

type GetChainspecResult struct {
	APIVersion string              `json:"apiVersion"`
	Chainspec  *node.ChainspecInfo `json:"chainspec"`
}

type GetDeployParams struct {
	DeployHash common.Hash `json:"deployHash"`
}

type GetDeployResult struct {
	APIVersion string       `json:"apiVersion"`
	Deploy     *node.Deploy `json:"deploy"`
}

type GetTransactionParams struct {
	TransactionHash common.Hash `json:"transactionHash"`
}

type GetTransactionResult struct {
	APIVersion  string            `json:"apiVersion"`
	Transaction *node.Transaction `json:"transaction"`
}

func (api *infoAPI) getStatus(ctx context.Context, params json.RawMessage) (*GetStatusResult, *jsonrpc.Error) {
	if rpcErr := rejectParams(params); rpcErr != nil {
		return nil, rpcErr
	}
	status, err := api.node.Status(ctx)
	if err != nil {
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return &GetStatusResult{APIVersion: currentAPIVersion, Status: status}, nil
}

func (api *infoAPI) getPeers(ctx context.Context, params json.RawMessage) (*GetPeersResult, *jsonrpc.Error) {
	if rpcErr := rejectParams(params); rpcErr != nil {
		return nil, rpcErr
	}
	peers, err := api.node.Peers(ctx)
	if err != nil {
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return &GetPeersResult{APIVersion: currentAPIVersion, Peers: peers}, nil
}

func (api *infoAPI) getChainspec(ctx context.Context, params json.RawMessage) (*GetChainspecResult, *jsonrpc.Error) {
	if rpcErr := rejectParams(params); rpcErr != nil {
		return nil, rpcErr
	}
	chainspec, err := api.node.Chainspec(ctx)
	if err != nil {
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return &GetChainspecResult{APIVersion: currentAPIVersion, Chainspec: chainspec}, nil
}

func (api *infoAPI) getDeploy(ctx context.Context, params json.RawMessage) (*GetDeployResult, *jsonrpc.Error) {
	var p GetDeployParams
	if rpcErr := requireParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	deploy, err := api.node.Deploy(ctx, p.DeployHash)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return nil, jsonrpc.NewError(CodeNoSuchDeploy, "deploy not found")
		}
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return &GetDeployResult{APIVersion: currentAPIVersion, Deploy: deploy}, nil
}

func (api *infoAPI) getTransaction(ctx context.Context, params json.RawMessage) (*GetTransactionResult, *jsonrpc.Error) {
	var p GetTransactionParams
	if rpcErr := requireParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	tx, err := api.node.Transaction(ctx, p.TransactionHash)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return nil, jsonrpc.NewError(CodeNoSuchTransaction, "transaction not found")
		}
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return &GetTransactionResult{APIVersion: currentAPIVersion, Transaction: tx}, nil
}
