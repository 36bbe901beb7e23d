package http

import (
	"context"
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"context-gateway/internal/mcp"
	"context-gateway/internal/middleware"
	"context-gateway/internal/model"
	"context-gateway/internal/session"
	pkgLog "context-gateway/pkg/log"
	"context-gateway/pkg/response"
)

// postState carries the session across the envelopes of one POST.
type postState struct {
	headerID string
	sess     *session.Session
	created  bool
	err      error
}

// Post godoc
// @Summary     Send JSON-RPC messages
// @Description Accepts one JSON-RPC request or a batch. initialize returns a new session id in the Mcp-Session-Id header.
// @Tags        MCP
// @Accept      json
// @Produce     json
// @Param       Mcp-Session-Id header string false "Session id returned by initialize"
// @Success     200 {object} mcp.Response
// @Success     202 "Notification accepted"
// @Failure     400 {object} mcp.Response "Parse error or empty batch"
// @Failure     401 {object} response.Resp "Bearer token required"
// @Router      /mcp [POST]
func (h *handler) Post(c *gin.Context) {
	ctx := c.Request.Context()
	sc := middleware.GetScope(c)

	envs, batch, status, rpcErr := h.processPostReq(c)
	if rpcErr != nil {
		h.l.Warnf(ctx, "internal.mcp.delivery.http.Post: rejected body: %s", rpcErr.Message)
		c.JSON(status, mcp.NewErrorResponse(nil, rpcErr))
		return
	}

	st := &postState{headerID: c.GetHeader(headerSessionID)}
	responses := make([]mcp.Response, len(envs))
	for i, env := range envs {
		responses[i] = h.processEnvelope(ctx, sc, st, env)
	}

	if st.created {
		c.Header(headerSessionID, st.sess.ID)
	}

	if !batch {
		resp := responses[0]
		if envs[0].Err == nil && envs[0].Req.IsNotification() {
			if resp.Error == nil {
				c.Status(http.StatusAccepted)
				return
			}
			c.JSON(http.StatusBadRequest, resp)
			return
		}
		c.JSON(http.StatusOK, resp)
		return
	}
	c.JSON(http.StatusOK, responses)
}

func (h *handler) processEnvelope(ctx context.Context, sc model.Scope, st *postState, env envelope) mcp.Response {
	req := env.Req
	if env.Err != nil {
		return mcp.NewErrorResponse(req.ID, env.Err)
	}

	if req.Method == mcp.MethodInitialize {
		return h.initialize(ctx, sc, st, req)
	}

	sess, err := h.requireSession(ctx, sc, st)
	if err != nil {
		rpcErr := mapSessionError(err)
		if rpcErr.Code == mcp.ErrInternal().Code {
			h.l.Errorf(ctx, "internal.mcp.delivery.http.Post: session check: %v", err)
		} else {
			h.l.Warnf(ctx, "internal.mcp.delivery.http.Post: %s without session: %v", req.Method, err)
		}
		return mcp.NewErrorResponse(req.ID, rpcErr)
	}

	sc.ClientName = sess.ClientName
	ctx = pkgLog.WithFields(model.SetScopeToContext(ctx, sc), "client", sc.ClientName)
	result, rpcErr := h.uc.Handle(ctx, sc, req)
	if rpcErr != nil {
		return mcp.NewErrorResponse(req.ID, rpcErr)
	}
	return mcp.NewResult(req.ID, result)
}

func (h *handler) initialize(ctx context.Context, sc model.Scope, st *postState, req mcp.Request) mcp.Response {
	result, rpcErr := h.uc.Handle(ctx, sc, req)
	if rpcErr != nil {
		return mcp.NewErrorResponse(req.ID, rpcErr)
	}

	if !st.created {
		sc.ClientName = mcp.ParseClientInfo(req.Params).Name
		sess, err := h.sessions.Create(ctx, sc)
		if err != nil {
			h.l.Errorf(ctx, "internal.mcp.delivery.http.initialize: sessions.Create: %v", err)
			return mcp.NewErrorResponse(req.ID, mcp.ErrInternal())
		}
		st.sess, st.created, st.err = &sess, true, nil
	}
	return mcp.NewResult(req.ID, result)
}

// requireSession validates the header session once per POST. A session
// created earlier in the same batch wins over the header.
func (h *handler) requireSession(ctx context.Context, sc model.Scope, st *postState) (session.Session, error) {
	if st.sess != nil {
		return *st.sess, nil
	}
	if st.err != nil {
		return session.Session{}, st.err
	}
	if st.headerID == "" {
		st.err = errSessionIDRequired
		return session.Session{}, st.err
	}

	sess, err := h.sessions.Validate(ctx, st.headerID)
	if err != nil {
		if errors.Is(err, session.ErrSessionNotFound) {
			st.err = err
		}
		return session.Session{}, err
	}
	if sess.OwnerID != sc.UserID {
		st.err = errOwnerMismatch
		return session.Session{}, st.err
	}
	st.sess = &sess
	return sess, nil
}

// Get godoc
// @Summary     Open the server event stream
// @Description With Accept: text/event-stream and a valid session, streams connected and heartbeat events. Otherwise returns server status.
// @Tags        MCP
// @Produce     json
// @Produce     text/event-stream
// @Param       Mcp-Session-Id header string false "Session id"
// @Success     200 {object} statusResp
// @Failure     400 {object} mcp.Response "Session required"
// @Router      /mcp [GET]
func (h *handler) Get(c *gin.Context) {
	ctx := c.Request.Context()

	if !strings.Contains(c.GetHeader("Accept"), mimeEventStream) {
		info := h.uc.ServerInfo()
		c.JSON(http.StatusOK, statusResp{
			Name:            info.Name,
			Version:         info.Version,
			ProtocolVersion: mcp.LatestProtocolVersion,
			Transport:       transportName,
			Endpoint:        h.cfg.Endpoint,
			Capabilities:    mcp.Capabilities(),
		})
		return
	}

	st := &postState{headerID: c.GetHeader(headerSessionID)}
	sess, err := h.requireSession(ctx, middleware.GetScope(c), st)
	if err != nil {
		h.l.Warnf(ctx, "internal.mcp.delivery.http.Get: stream refused: %v", err)
		c.JSON(http.StatusBadRequest, mcp.NewErrorResponse(nil, mapSessionError(err)))
		return
	}

	h.stream(c, sess)
}

// Delete godoc
// @Summary     Terminate a session
// @Tags        MCP
// @Produce     json
// @Param       Mcp-Session-Id header string true "Session id"
// @Success     200 {object} deleteResp
// @Failure     400 {object} errorResp
// @Router      /mcp [DELETE]
func (h *handler) Delete(c *gin.Context) {
	ctx := c.Request.Context()

	id := c.GetHeader(headerSessionID)
	if id == "" {
		c.JSON(http.StatusBadRequest, errorResp{Error: errSessionIDRequired.Error()})
		return
	}

	sess, err := h.sessions.Lookup(ctx, id)
	if errors.Is(err, session.ErrSessionNotFound) || (err == nil && sess.OwnerID != middleware.GetScope(c).UserID) {
		c.JSON(http.StatusBadRequest, errorResp{Error: errSessionNotFound.Error()})
		return
	}
	if err != nil {
		h.l.Errorf(ctx, "internal.mcp.delivery.http.Delete: sessions.Lookup: %v", err)
		response.InternalError(c, err)
		return
	}

	existed, err := h.sessions.Terminate(ctx, id)
	if err != nil {
		h.l.Errorf(ctx, "internal.mcp.delivery.http.Delete: sessions.Terminate: %v", err)
		response.InternalError(c, err)
		return
	}
	if !existed {
		c.JSON(http.StatusBadRequest, errorResp{Error: errSessionNotFound.Error()})
		return
	}

	h.l.Infof(ctx, "internal.mcp.delivery.http.Delete: session terminated")
	c.JSON(http.StatusOK, deleteResp{Status: "terminated", SessionID: id})
}

// Options answers preflight requests that reach the handler.
func (h *handler) Options(c *gin.Context) {
	c.Status(http.StatusNoContent)
}
