package mcp

import (
	"bytes"
	"encoding/json"
)

// Request is one JSON-RPC 2.0 envelope. ID is absent for notifications.
type Request struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id,omitempty"`
	Method  string          `json:"method"`
	Params  json.RawMessage `json:"params,omitempty"`
}

// IsNotification reports whether the envelope carries no id.
func (r Request) IsNotification() bool {
	return len(r.ID) == 0
}

// Response is one JSON-RPC 2.0 reply. Exactly one of Result or Error is set.
type Response struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      json.RawMessage `json:"id"`
	Result  any             `json:"result,omitempty"`
	Error   *Error          `json:"error,omitempty"`
}

// NewResult builds a success response. A nil result becomes an empty object.
func NewResult(id json.RawMessage, result any) Response {
	if result == nil {
		result = struct{}{}
	}
	return Response{JSONRPC: JSONRPCVersion, ID: normalizeID(id), Result: result}
}

// NewErrorResponse builds an error response.
func NewErrorResponse(id json.RawMessage, err *Error) Response {
	return Response{JSONRPC: JSONRPCVersion, ID: normalizeID(id), Error: err}
}

func normalizeID(id json.RawMessage) json.RawMessage {
	if len(bytes.TrimSpace(id)) == 0 {
		return json.RawMessage("null")
	}
	return id
}

// ClientInfo identifies the connecting client.
type ClientInfo struct {
	Name    string `json:"name"`
	Version string `json:"version,omitempty"`
}

type InitializeParams struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities,omitempty"`
	ClientInfo      ClientInfo     `json:"clientInfo"`
}

// ServerInfo is the static identity of this server.
type ServerInfo struct {
	Name         string `json:"name"`
	Version      string `json:"version"`
	Instructions string `json:"-"`
}

type InitializeResult struct {
	ProtocolVersion string         `json:"protocolVersion"`
	Capabilities    map[string]any `json:"capabilities"`
	ServerInfo      ServerInfo     `json:"serverInfo"`
	Instructions    string         `json:"instructions,omitempty"`
}

// ParseClientInfo extracts clientInfo from initialize params, tolerating junk.
func ParseClientInfo(params json.RawMessage) ClientInfo {
	var p InitializeParams
	if len(params) == 0 {
		return ClientInfo{}
	}
	_ = json.Unmarshal(params, &p)
	return p.ClientInfo
}
