package http

import (
	"time"
)

type statusResp struct {
	Name            string         `json:"name"`
	Version         string         `json:"version"`
	ProtocolVersion string         `json:"protocol_version"`
	Transport       string         `json:"transport"`
	Endpoint        string         `json:"endpoint"`
	Capabilities    map[string]any `json:"capabilities"`
}

type deleteResp struct {
	Status    string `json:"status"`
	SessionID string `json:"session_id"`
}

type errorResp struct {
	Error string `json:"error"`
}

type connectedData struct {
	SessionID string `json:"session_id"`
}

type heartbeatData struct {
	Timestamp string `json:"timestamp"`
}

func newHeartbeatData(t time.Time) heartbeatData {
	return heartbeatData{Timestamp: t.UTC().Format(time.RFC3339Nano)}
}
