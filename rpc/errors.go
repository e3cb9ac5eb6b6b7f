package rpc

// Method-specific error codes returned inside failure envelopes, beyond the
// reserved JSON-RPC 2.0 range. Values are stable; clients match on them.
const (
	CodeServerError           = -32000
	CodeUnauthorized          = -32001
	CodeNoSuchBlock           = -32003
	CodeNoSuchDeploy          = -32004
	CodeNoSuchTransaction     = -32005
	CodeInvalidDeploy         = -32008
	CodeInvalidTransaction    = -32009
	CodeSpeculativeExecFailed = -32010
)
