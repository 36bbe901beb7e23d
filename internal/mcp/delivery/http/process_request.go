package http

import (
	"bytes"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/gin-gonic/gin"

	"context-gateway/internal/mcp"
)

// envelope is one slot of a POST body. Err is set when the slot could not be
// decoded into a valid request.
type envelope struct {
	Req mcp.Request
	Err *mcp.Error
}

// processPostReq reads the body and splits it into envelopes. A non-nil
// *mcp.Error means the whole body is rejected with the returned status.
func (h *handler) processPostReq(c *gin.Context) ([]envelope, bool, int, *mcp.Error) {
	body, err := io.ReadAll(http.MaxBytesReader(c.Writer, c.Request.Body, h.cfg.MaxBodyBytes))
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, false, http.StatusRequestEntityTooLarge, mcp.ErrInvalidRequest("body too large")
		}
		return nil, false, http.StatusBadRequest, mcp.ErrParse()
	}

	body = bytes.TrimSpace(body)
	if len(body) > 0 && body[0] == '[' {
		var raws []json.RawMessage
		if err := json.Unmarshal(body, &raws); err != nil {
			return nil, true, http.StatusBadRequest, mcp.ErrParse()
		}
		if len(raws) == 0 {
			return nil, true, http.StatusBadRequest, mcp.ErrInvalidRequest("empty batch")
		}
		envs := make([]envelope, len(raws))
		for i, raw := range raws {
			envs[i] = decodeEnvelope(raw)
		}
		return envs, true, http.StatusOK, nil
	}

	if !json.Valid(body) {
		return nil, false, http.StatusBadRequest, mcp.ErrParse()
	}
	return []envelope{decodeEnvelope(body)}, false, http.StatusOK, nil
}

func decodeEnvelope(raw json.RawMessage) envelope {
	var req mcp.Request
	if err := json.Unmarshal(raw, &req); err != nil {
		return envelope{Err: mcp.ErrInvalidRequest("not a request object")}
	}
	if req.JSONRPC != mcp.JSONRPCVersion {
		return envelope{Req: req, Err: mcp.ErrInvalidRequest(`jsonrpc must be "2.0"`)}
	}
	if req.Method == "" {
		return envelope{Req: req, Err: mcp.ErrInvalidRequest("method is required")}
	}
	return envelope{Req: req}
}
