package network

import (
	"context"
	"fmt"
	"net/http"

	"github.com/dripnet/internal/dripnet/config"
	"github.com/dripnet/internal/dripnet/events"
	"github.com/dripnet/internal/dripnet/logger"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

func netlogger() *zap.SugaredLogger {
	return logger.Named("network")
}

// SetUpHttp starts the rpc endpoint, the websocket event stream and the
// metrics handler. The server runs until the process exits.
func SetUpHttp(ctx context.Context, cfg *config.Config, rpc *RPC, bus *events.Bus) {
	mux := http.NewServeMux()
	mux.HandleFunc("/", HandleRequest(ctx, rpc))
	mux.HandleFunc("/ws", HandleWebSocketRequest(ctx))
	mux.Handle("/metrics", promhttp.Handler())

	go ForwardEvents(bus.Subscribe())

	addr := fmt.Sprintf(":%d", cfg.NetCfg.RPC)
	go func() {
		if cfg.SEC.HTTP.TLS {
			netlogger().Infow("Serving rpc with TLS", "addr", addr)
			if err := http.ListenAndServeTLS(addr, "./server.crt", "./server.key", mux); err != nil {
				netlogger().Errorw("TLS server stopped", "err", err)
			}
		} else {
			netlogger().Infow("Serving rpc", "addr", addr)
			if err := http.ListenAndServe(addr, mux); err != nil {
				netlogger().Errorw("Server stopped", "err", err)
			}
		}
	}()
}
