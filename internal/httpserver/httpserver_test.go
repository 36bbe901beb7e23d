package httpserver

import (
	"context"
	"errors"
	"net"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"context-gateway/internal/middleware"
	"context-gateway/pkg/log"
)

type fakeMCP struct {
	streamEnded chan struct{}
}

func (f *fakeMCP) Post(c *gin.Context)    { c.JSON(http.StatusOK, gin.H{"handler": "post"}) }
func (f *fakeMCP) Delete(c *gin.Context)  { c.Status(http.StatusOK) }
func (f *fakeMCP) Options(c *gin.Context) { c.Status(http.StatusNoContent) }
func (f *fakeMCP) Get(c *gin.Context) {
	c.Status(http.StatusOK)
	c.Writer.Flush()
	<-c.Request.Context().Done()
	close(f.streamEnded)
}

type orderedStopper struct {
	name  string
	mu    *sync.Mutex
	order *[]string
	err   error
}

func (s orderedStopper) Stop(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	*s.order = append(*s.order, s.name)
	return s.err
}

func newTestServer(t *testing.T, cfg Config) (*HTTPServer, *fakeMCP) {
	t.Helper()
	l := log.NewNop()
	fake := &fakeMCP{streamEnded: make(chan struct{})}
	cfg.Logger = l
	cfg.Port = 8080
	cfg.Mode = gin.TestMode
	cfg.MCPHandler = fake
	cfg.MCPEndpoint = "/mcp"
	cfg.Middleware = middleware.New(l, middleware.Config{AuthMode: "none", DefaultOwner: "local"})

	srv, err := New(l, cfg)
	require.NoError(t, err)
	return srv, fake
}

func TestNewValidation(t *testing.T) {
	l := log.NewNop()
	tests := []struct {
		name string
		cfg  Config
	}{
		{"missing mode", Config{Port: 1, MCPHandler: &fakeMCP{}}},
		{"missing port", Config{Mode: gin.TestMode, MCPHandler: &fakeMCP{}}},
		{"missing mcp handler", Config{Mode: gin.TestMode, Port: 1}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(l, tt.cfg)
			assert.Error(t, err)
		})
	}

	_, err := New(nil, Config{Mode: gin.TestMode, Port: 1, MCPHandler: &fakeMCP{}})
	assert.Error(t, err)
}

func TestSystemRoutes(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	for _, path := range []string{PathHealth, PathReady, PathLive, PathMetrics} {
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, path, nil))
		assert.Equal(t, http.StatusOK, w.Code, path)
	}

	srv.draining.Store(true)
	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodGet, PathReady, nil))
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestMCPRouteAndRequestID(t *testing.T) {
	srv, _ := newTestServer(t, Config{})

	w := httptest.NewRecorder()
	srv.Handler().ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/mcp", nil))
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "post")
	assert.NotEmpty(t, w.Header().Get(middleware.HeaderRequestID))
}

func TestServeShutdownOrder(t *testing.T) {
	var (
		mu    sync.Mutex
		order []string
	)
	srv, fake := newTestServer(t, Config{
		ShutdownTimeout: time.Second,
		Scheduler:       orderedStopper{name: "scheduler", mu: &mu, order: &order},
		Worker:          orderedStopper{name: "worker", mu: &mu, order: &order, err: errors.New("slow")},
	})

	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln) }()

	resp, err := http.Get("http://" + ln.Addr().String() + "/mcp")
	require.NoError(t, err)
	defer resp.Body.Close()
	assert.Equal(t, http.StatusOK, resp.StatusCode)

	cancel()

	select {
	case err := <-done:
		assert.ErrorContains(t, err, "worker")
	case <-time.After(3 * time.Second):
		t.Fatal("Serve did not return")
	}

	select {
	case <-fake.streamEnded:
	case <-time.After(time.Second):
		t.Fatal("stream was not ended by shutdown")
	}

	mu.Lock()
	defer mu.Unlock()
	assert.Equal(t, []string{"scheduler", "worker"}, order)
}
