package httpserver

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"strconv"
)

// Run serves until ctx is cancelled, then drains the listener and stops the
// background components in order.
func (srv HTTPServer) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", ":"+strconv.Itoa(srv.port))
	if err != nil {
		return fmt.Errorf("httpserver.Run: listen: %w", err)
	}
	return srv.Serve(ctx, ln)
}

// Serve is Run on an existing listener.
func (srv HTTPServer) Serve(ctx context.Context, ln net.Listener) error {
	// Open SSE streams never finish on their own; cancelling the base
	// context on shutdown ends them.
	baseCtx, cancelBase := context.WithCancel(context.WithoutCancel(ctx))
	defer cancelBase()

	httpSrv := &http.Server{
		Handler:           srv.gin,
		ReadHeaderTimeout: readHeaderTimeout,
		BaseContext:       func(net.Listener) context.Context { return baseCtx },
	}
	httpSrv.RegisterOnShutdown(cancelBase)

	errCh := make(chan error, 1)
	go func() {
		srv.l.Infof(ctx, "HTTP server listening on %s", ln.Addr())
		errCh <- httpSrv.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if !errors.Is(err, http.ErrServerClosed) {
			srv.stopBackground(context.WithoutCancel(ctx))
			return fmt.Errorf("httpserver.Serve: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	srv.draining.Store(true)
	srv.l.Infof(ctx, "Shutting down HTTP server")

	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), srv.shutdownTimeout)
	defer cancel()

	var errs []error
	if err := httpSrv.Shutdown(shutdownCtx); err != nil {
		srv.l.Warnf(ctx, "HTTP shutdown: %v", err)
		errs = append(errs, fmt.Errorf("http: %w", err))
	}
	if err := srv.stopBackground(shutdownCtx); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}

func (srv HTTPServer) stopBackground(ctx context.Context) error {
	var errs []error
	for _, b := range srv.background {
		if err := b.s.Stop(ctx); err != nil {
			srv.l.Warnf(ctx, "Stopping %s: %v", b.name, err)
			errs = append(errs, fmt.Errorf("%s: %w", b.name, err))
			continue
		}
		srv.l.Infof(ctx, "Stopped %s", b.name)
	}
	return errors.Join(errs...)
}
