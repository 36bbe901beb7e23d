package http

import (
	"context"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-contrib/sse"
	"github.com/gin-gonic/gin"

	"context-gateway/internal/session"
	"context-gateway/pkg/metrics"
)

const disconnectTimeout = 5 * time.Second

// stream holds the connection open, sending connected and then heartbeat
// events. It ends on client disconnect, local termination, or when the
// session is gone at heartbeat time. A client disconnect terminates the session.
func (h *handler) stream(c *gin.Context, sess session.Session) {
	ctx := c.Request.Context()

	terminated, unwatch := h.sessions.Watch(sess.ID)
	defer unwatch()

	metrics.StreamOpened()
	defer metrics.StreamClosed()

	c.Header("Content-Type", mimeEventStream)
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")
	c.Status(http.StatusOK)

	var seq int64
	h.writeEvent(c, seq, eventConnected, connectedData{SessionID: sess.ID})
	h.l.Infof(ctx, "internal.mcp.delivery.http.stream: opened")

	ticker := time.NewTicker(h.cfg.HeartbeatInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			h.l.Infof(ctx, "internal.mcp.delivery.http.stream: client disconnected, terminating session")
			tctx, cancel := context.WithTimeout(context.WithoutCancel(ctx), disconnectTimeout)
			if _, err := h.sessions.Terminate(tctx, sess.ID); err != nil {
				h.l.Warnf(tctx, "internal.mcp.delivery.http.stream: terminate: %v", err)
			}
			cancel()
			return

		case <-terminated:
			h.l.Infof(ctx, "internal.mcp.delivery.http.stream: session terminated")
			return

		case t := <-ticker.C:
			if _, err := h.sessions.Lookup(ctx, sess.ID); err != nil {
				h.l.Infof(ctx, "internal.mcp.delivery.http.stream: session gone: %v", err)
				return
			}
			seq++
			h.writeEvent(c, seq, eventHeartbeat, newHeartbeatData(t))
		}
	}
}

func (h *handler) writeEvent(c *gin.Context, seq int64, event string, data any) {
	c.Render(-1, sse.Event{
		Id:    strconv.FormatInt(seq, 10),
		Event: event,
		Data:  data,
	})
	c.Writer.Flush()
}
