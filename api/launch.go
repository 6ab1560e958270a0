package api

import (
	"context"
	"net"
	"net/http"

	"golang.org/x/net/netutil"
	"golang.org/x/xerrors"

	"github.com/illuscio-dev/apiwire-go/config"
	"github.com/illuscio-dev/apiwire-go/logging"
)

// Launch listens on the address of server and serves handler until ctx is done.
func Launch(ctx context.Context, server config.ServerConfig, handler http.Handler) error {
	listener, err := net.Listen("tcp", server.Addr())
	if err != nil {
		return xerrors.Errorf("error listening on %s: %w", server.Addr(), err)
	}
	return Serve(ctx, listener, server, handler)
}

// Serve serves handler on listener, accepting at most server.Threads connections at
// once. When ctx is done the server stops accepting connections and waits up to
// server.ShutdownTimeout for in-flight requests. The listener is closed on return.
func Serve(
	ctx context.Context,
	listener net.Listener,
	server config.ServerConfig,
	handler http.Handler,
) error {
	logger := logging.WithComponent("server")

	if server.Threads > 0 {
		listener = netutil.LimitListener(listener, server.Threads)
	}

	httpServer := &http.Server{
		Handler:           handler,
		ReadHeaderTimeout: server.ReadHeaderTimeout,
		BaseContext: func(net.Listener) context.Context {
			return logging.ContextWithLogger(context.Background(), logging.Base())
		},
	}

	serveErr := make(chan error, 1)
	go func() {
		serveErr <- httpServer.Serve(listener)
	}()
	logger.Info().Str("addr", listener.Addr().String()).Msg("listening")

	select {
	case err := <-serveErr:
		if err != nil && err != http.ErrServerClosed {
			return xerrors.Errorf("error serving: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	logger.Info().Msg("shutting down")
	shutdownCtx := context.Background()
	if server.ShutdownTimeout > 0 {
		var cancel context.CancelFunc
		shutdownCtx, cancel = context.WithTimeout(shutdownCtx, server.ShutdownTimeout)
		defer cancel()
	}

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		return xerrors.Errorf("error shutting down: %w", err)
	}
	<-serveErr
	return nil
}
