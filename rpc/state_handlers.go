package rpc

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"

	"sidecar/jsonrpc"
	"sidecar/node"
)

type stateAPI struct {
	node node.Client
}

type GetBalanceParams struct {
	StateRootHash *common.Hash `json:"stateRootHash,omitempty"`
	Purse         string       `json:"purse"`
}

type GetBalanceResult struct {
	APIVersion string       `json:"apiVersion"`
	Balance    *hexutil.Big `json:"balance"`
}

type QueryBalanceParams struct {
	Purse string `json:"purse"`
}

func (api *stateAPI) getBalance(ctx context.Context, params json.RawMessage) (*GetBalanceResult, *jsonrpc.Error) {
	var p GetBalanceParams
	if rpcErr := requireParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	if strings.TrimSpace(p.Purse) == "" {
		return nil, jsonrpc.NewError(jsonrpc.CodeInvalidParams, "purse is required")
	}

	root := common.Hash{}
	if p.StateRootHash != nil {
		root = *p.StateRootHash
	} else {
		latest, err := api.node.StateRootHash(ctx, nil)
		if err != nil {
			return nil, jsonrpc.NewError(CodeServerError, err.Error())
		}
		root = latest
	}

	balance, err := api.node.Balance(ctx, root, p.Purse)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return nil, jsonrpc.NewError(CodeServerError, "purse not found")
		}
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return &GetBalanceResult{APIVersion: currentAPIVersion, Balance: (*hexutil.Big)(balance)}, nil
}

// queryBalance is the convenience form of getBalance that always reads
// against the latest state root.
func (api *stateAPI) queryBalance(ctx context.Context, params json.RawMessage) (*GetBalanceResult, *jsonrpc.Error) {
	var p QueryBalanceParams
	if rpcErr := requireParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	encoded, err := json.Marshal(GetBalanceParams{Purse: p.Purse})
	if err != nil {
		return nil, jsonrpc.NewError(jsonrpc.CodeInternalError, err.Error())
	}
	return api.getBalance(ctx, encoded)
}
