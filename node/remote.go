package node

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"math/big"
	"net/http"
	"strings"
	"time"

	"github.com/ethereum/go-ethereum/common"
	"github.com/ethereum/go-ethereum/common/hexutil"
)

// remoteNotFoundCode is the error code the node's internal API uses for
// missing entities.
const remoteNotFoundCode = -32001

// RemoteConfig controls how the RemoteClient connects to the node's
// internal query endpoint.
type RemoteConfig struct {
	BaseURL        string
	RequestTimeout time.Duration
}

// RemoteClient implements Client against the node's internal HTTP JSON
// endpoint. It is safe for concurrent use.
type RemoteClient struct {
	baseURL string
	http    *http.Client
}

// NewRemoteClient constructs a RemoteClient from the provided configuration.
func NewRemoteClient(cfg RemoteConfig) (*RemoteClient, error) {
	baseURL := strings.TrimSpace(cfg.BaseURL)
	if baseURL == "" {
		return nil, fmt.Errorf("node base url is required")
	}
	timeout := cfg.RequestTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	return &RemoteClient{
		baseURL: baseURL,
		http:    &http.Client{Timeout: timeout},
	}, nil
}

type remoteRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      int    `json:"id"`
	Method  string `json:"method"`
	Params  any    `json:"params,omitempty"`
}

type remoteResponse struct {
	Result json.RawMessage `json:"result"`
	Error  *remoteError    `json:"error"`
}

type remoteError struct {
	Code    int    `json:"code"`
	Message string `json:"message"`
}

func (e *remoteError) Error() string {
	if e == nil {
		return ""
	}
	return fmt.Sprintf("node error %d: %s", e.Code, e.Message)
}

func (c *RemoteClient) call(ctx context.Context, method string, params, result any) error {
	reqBody := remoteRequest{JSONRPC: "2.0", ID: 1, Method: method, Params: params}
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(reqBody); err != nil {
		return fmt.Errorf("encode request: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL, &buf)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := c.http.Do(httpReq)
	if err != nil {
		return fmt.Errorf("call node: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return fmt.Errorf("node call failed with status %s", resp.Status)
	}

	var nodeResp remoteResponse
	if err := json.NewDecoder(resp.Body).Decode(&nodeResp); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	if nodeResp.Error != nil {
		if nodeResp.Error.Code == remoteNotFoundCode {
			return ErrNotFound
		}
		return nodeResp.Error
	}
	if result != nil && nodeResp.Result != nil {
		if err := json.Unmarshal(nodeResp.Result, result); err != nil {
			return fmt.Errorf("decode result: %w", err)
		}
	}
	return nil
}

func (c *RemoteClient) Status(ctx context.Context) (*Status, error) {
	status := new(Status)
	if err := c.call(ctx, "node_status", nil, status); err != nil {
		return nil, err
	}
	return status, nil
}

func (c *RemoteClient) Peers(ctx context.Context) ([]Peer, error) {
	var peers []Peer
	if err := c.call(ctx, "node_peers", nil, &peers); err != nil {
		return nil, err
	}
	return peers, nil
}

func (c *RemoteClient) Chainspec(ctx context.Context) (*ChainspecInfo, error) {
	info := new(ChainspecInfo)
	if err := c.call(ctx, "node_chainspec", nil, info); err != nil {
		return nil, err
	}
	return info, nil
}

func (c *RemoteClient) LatestBlock(ctx context.Context) (*Block, error) {
	block := new(Block)
	if err := c.call(ctx, "node_get_block", nil, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *RemoteClient) BlockByHash(ctx context.Context, hash common.Hash) (*Block, error) {
	block := new(Block)
	params := map[string]common.Hash{"hash": hash}
	if err := c.call(ctx, "node_get_block", params, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *RemoteClient) BlockByHeight(ctx context.Context, height uint64) (*Block, error) {
	block := new(Block)
	params := map[string]uint64{"height": height}
	if err := c.call(ctx, "node_get_block", params, block); err != nil {
		return nil, err
	}
	return block, nil
}

func (c *RemoteClient) BlockTransfers(ctx context.Context, blockHash common.Hash) ([]Transfer, error) {
	var transfers []Transfer
	params := map[string]common.Hash{"blockHash": blockHash}
	if err := c.call(ctx, "node_get_block_transfers", params, &transfers); err != nil {
		return nil, err
	}
	return transfers, nil
}

func (c *RemoteClient) StateRootHash(ctx context.Context, blockHash *common.Hash) (common.Hash, error) {
	var root common.Hash
	params := map[string]*common.Hash{}
	if blockHash != nil {
		params["blockHash"] = blockHash
	}
	if err := c.call(ctx, "node_get_state_root_hash", params, &root); err != nil {
		return common.Hash{}, err
	}
	return root, nil
}

func (c *RemoteClient) EraSummary(ctx context.Context, blockHash *common.Hash) (*EraSummary, error) {
	summary := new(EraSummary)
	params := map[string]*common.Hash{}
	if blockHash != nil {
		params["blockHash"] = blockHash
	}
	if err := c.call(ctx, "node_get_era_summary", params, summary); err != nil {
		return nil, err
	}
	return summary, nil
}

func (c *RemoteClient) Deploy(ctx context.Context, hash common.Hash) (*Deploy, error) {
	deploy := new(Deploy)
	params := map[string]common.Hash{"hash": hash}
	if err := c.call(ctx, "node_get_deploy", params, deploy); err != nil {
		return nil, err
	}
	return deploy, nil
}

func (c *RemoteClient) Transaction(ctx context.Context, hash common.Hash) (*Transaction, error) {
	tx := new(Transaction)
	params := map[string]common.Hash{"hash": hash}
	if err := c.call(ctx, "node_get_transaction", params, tx); err != nil {
		return nil, err
	}
	return tx, nil
}

func (c *RemoteClient) Balance(ctx context.Context, stateRoot common.Hash, purse string) (*big.Int, error) {
	var balance hexutil.Big
	params := map[string]string{
		"stateRootHash": stateRoot.Hex(),
		"purse":         purse,
	}
	if err := c.call(ctx, "node_get_balance", params, &balance); err != nil {
		return nil, err
	}
	return balance.ToInt(), nil
}

func (c *RemoteClient) PutDeploy(ctx context.Context, deploy *Deploy) (common.Hash, error) {
	var hash common.Hash
	if err := c.call(ctx, "node_put_deploy", deploy, &hash); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (c *RemoteClient) PutTransaction(ctx context.Context, tx *Transaction) (common.Hash, error) {
	var hash common.Hash
	if err := c.call(ctx, "node_put_transaction", tx, &hash); err != nil {
		return common.Hash{}, err
	}
	return hash, nil
}

func (c *RemoteClient) SpeculativeExec(ctx context.Context, deploy *Deploy) (*ExecutionResult, error) {
	result := new(ExecutionResult)
	if err := c.call(ctx, "node_speculative_exec", deploy, result); err != nil {
		return nil, err
	}
	return result, nil
}

func (c *RemoteClient) SpeculativeExecTxn(ctx context.Context, tx *Transaction) (*ExecutionResult, error) {
	result := new(ExecutionResult)
	if err := c.call(ctx, "node_speculative_exec_txn", tx, result); err != nil {
		return nil, err
	}
	return result, nil
}
