package rpc

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/ethereum/go-ethereum/common"

	"sidecar/jsonrpc"
	"sidecar/node"
)

type chainAPI struct {
	node node.Client
}

// BlockIdentifier selects a block by hash or by height; leaving both unset
// selects the latest block.
type BlockIdentifier struct {
	Hash   *common.Hash `json:"hash,omitempty"`
	Height *uint64      `json:"height,omitempty"`
}

type GetBlockParams struct {
	BlockIdentifier *BlockIdentifier `json:"blockIdentifier,omitempty"`
}

type GetBlockResult struct {
	APIVersion string      `json:"apiVersion"`
	Block      *node.Block `json:"block"`
}

type GetBlockTransfersResult struct {
	APIVersion string          `json:"apiVersion"`
	BlockHash  common.Hash     `json:"blockHash"`
	Transfers  []node.Transfer `json:"transfers"`
}

type GetStateRootHashParams struct {
	BlockHash *common.Hash `json:"blockHash,omitempty"`
}

type GetStateRootHashResult struct {
	APIVersion    string      `json:"apiVersion"`
	StateRootHash common.Hash `json:"stateRootHash"`
}

type GetEraSummaryParams struct {
	BlockHash *common.Hash `json:"blockHash,omitempty"`
}

type GetEraSummaryResult struct {
	APIVersion string           `json:"apiVersion"`
	EraSummary *node.EraSummary `json:"eraSummary"`
}

func (api *chainAPI) resolveBlock(ctx context.Context, ident *BlockIdentifier) (*node.Block, *jsonrpc.Error) {
	var (
		block *node.Block
		err   error
	)
	switch {
	case ident == nil:
		block, err = api.node.LatestBlock(ctx)
	case ident.Hash != nil:
		block, err = api.node.BlockByHash(ctx, *ident.Hash)
	case ident.Height != nil:
		block, err = api.node.BlockByHeight(ctx, *ident.Height)
	default:
		block, err = api.node.LatestBlock(ctx)
	}
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return nil, jsonrpc.NewError(CodeNoSuchBlock, "block not found")
		}
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return block, nil
}

func (api *chainAPI) getBlock(ctx context.Context, params json.RawMessage) (*GetBlockResult, *jsonrpc.Error) {
	var p GetBlockParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	block, rpcErr := api.resolveBlock(ctx, p.BlockIdentifier)
	if rpcErr != nil {
		return nil, rpcErr
	}
	return &GetBlockResult{APIVersion: currentAPIVersion, Block: block}, nil
}

func (api *chainAPI) getBlockTransfers(ctx context.Context, params json.RawMessage) (*GetBlockTransfersResult, *jsonrpc.Error) {
	var p GetBlockParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	block, rpcErr := api.resolveBlock(ctx, p.BlockIdentifier)
	if rpcErr != nil {
		return nil, rpcErr
	}
	transfers, err := api.node.BlockTransfers(ctx, block.Hash)
	if err != nil {
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return &GetBlockTransfersResult{
		APIVersion: currentAPIVersion,
		BlockHash:  block.Hash,
		Transfers:  transfers,
	}, nil
}

func (api *chainAPI) getStateRootHash(ctx context.Context, params json.RawMessage) (*GetStateRootHashResult, *jsonrpc.Error) {
	var p GetStateRootHashParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	root, err := api.node.StateRootHash(ctx, p.BlockHash)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return nil, jsonrpc.NewError(CodeNoSuchBlock, "block not found")
		}
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return &GetStateRootHashResult{APIVersion: currentAPIVersion, StateRootHash: root}, nil
}

func (api *chainAPI) getEraSummary(ctx context.Context, params json.RawMessage) (*GetEraSummaryResult, *jsonrpc.Error) {
	var p GetEraSummaryParams
	if rpcErr := decodeParams(params, &p); rpcErr != nil {
		return nil, rpcErr
	}
	summary, err := api.node.EraSummary(ctx, p.BlockHash)
	if err != nil {
		if errors.Is(err, node.ErrNotFound) {
			return nil, jsonrpc.NewError(CodeNoSuchBlock, "block not found")
		}
		return nil, jsonrpc.NewError(CodeServerError, err.Error())
	}
	return &GetEraSummaryResult{APIVersion: currentAPIVersion, EraSummary: summary}, nil
}
