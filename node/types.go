package node

import (
	"encoding/json"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// Block is a finalized block as reported by the node.
type Block struct {
	Hash          common.Hash   `json:"hash"`
	ParentHash    common.Hash   `json:"parentHash"`
	Height        uint64        `json:"height"`
	EraID         uint64        `json:"eraId"`
	Timestamp     time.Time     `json:"timestamp"`
	StateRootHash common.Hash   `json:"stateRootHash"`
	Proposer      hexutil.Bytes `json:"proposer"`
	Transactions  []common.Hash `json:"transactions"`
}

// Transfer is a native-token transfer executed inside a block.
type Transfer struct {
	TransactionHash common.Hash   `json:"transactionHash"`
	From            hexutil.Bytes `json:"from"`
	To              hexutil.Bytes `json:"to,omitempty"`
	Amount          *hexutil.Big  `json:"amount"`
}

// Deploy is the legacy transaction format still accepted by the node.
type Deploy struct {
	Hash      common.Hash     `json:"hash"`
	Account   hexutil.Bytes   `json:"account"`
	ChainName string          `json:"chainName"`
	Timestamp time.Time       `json:"timestamp"`
	Payment   json.RawMessage `json:"payment"`
	Session   json.RawMessage `json:"session"`
	Approvals []Approval      `json:"approvals"`
}

// Transaction is the current transaction format.
type Transaction struct {
	Hash      common.Hash     `json:"hash"`
	Initiator hexutil.Bytes   `json:"initiator"`
	ChainName string          `json:"chainName"`
	Timestamp time.Time       `json:"timestamp"`
	Body      json.RawMessage `json:"body"`
	Approvals []Approval      `json:"approvals"`
}

// Approval is a signature over a deploy or transaction.
type Approval struct {
	Signer    hexutil.Bytes `json:"signer"`
	Signature hexutil.Bytes `json:"signature"`
}

// Status summarises the node's current view of the chain.
type Status struct {
	ChainName       string      `json:"chainName"`
	LatestBlockHash common.Hash `json:"latestBlockHash"`
	Height          uint64      `json:"height"`
	PeerCount       int         `json:"peerCount"`
	BuildVersion    string      `json:"buildVersion"`
	UptimeSeconds   uint64      `json:"uptimeSeconds"`
}

// Peer is one entry of the node's connected peer set.
type Peer struct {
	NodeID  string `json:"nodeId"`
	Address string `json:"address"`
}

// ChainspecInfo carries the raw chainspec the node was launched with.
type ChainspecInfo struct {
	Name  string        `json:"name"`
	Bytes hexutil.Bytes `json:"bytes"`
}

// EraSummary describes the era containing a given block.
type EraSummary struct {
	BlockHash     common.Hash     `json:"blockHash"`
	EraID         uint64          `json:"eraId"`
	StateRootHash common.Hash     `json:"stateRootHash"`
	StoredValue   json.RawMessage `json:"storedValue"`
}

// ExecutionResult is the outcome of running a deploy or transaction against
// a speculative, non-committing ledger state.
type ExecutionResult struct {
	BlockHash    common.Hash     `json:"blockHash"`
	Cost         *hexutil.Big    `json:"cost"`
	ErrorMessage string          `json:"errorMessage,omitempty"`
	Effects      json.RawMessage `json:"effects,omitempty"`
}
