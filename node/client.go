package node

import (
	"context"
	"errors"
	"math/big"

	"github.com/ethereum/go-ethereum/common"
)

// ErrNotFound is returned by query methods when the requested entity does
// not exist on the node.
var ErrNotFound = errors.New("not found")

// Client is the sidecar's view of the node's internal query API.
// Implementations must be shareable across concurrently executing handlers.
type Client interface {
	Status(ctx context.Context) (*Status, error)
	Peers(ctx context.Context) ([]Peer, error)
	Chainspec(ctx context.Context) (*ChainspecInfo, error)

	LatestBlock(ctx context.Context) (*Block, error)
	BlockByHash(ctx context.Context, hash common.Hash) (*Block, error)
	BlockByHeight(ctx context.Context, height uint64) (*Block, error)
	BlockTransfers(ctx context.Context, blockHash common.Hash) ([]Transfer, error)
	StateRootHash(ctx context.Context, blockHash *common.Hash) (common.Hash, error)
	EraSummary(ctx context.Context, blockHash *common.Hash) (*EraSummary, error)

	Deploy(ctx context.Context, hash common.Hash) (*Deploy, error)
	Transaction(ctx context.Context, hash common.Hash) (*Transaction, error)
	Balance(ctx context.Context, stateRoot common.Hash, purse string) (*big.Int, error)

	PutDeploy(ctx context.Context, deploy *Deploy) (common.Hash, error)
	PutTransaction(ctx context.Context, tx *Transaction) (common.Hash, error)

	SpeculativeExec(ctx context.Context, deploy *Deploy) (*ExecutionResult, error)
	SpeculativeExecTxn(ctx context.Context, tx *Transaction) (*ExecutionResult, error)
}
