package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"github.com/benbjohnson/clock"
	"github.com/dripnet/internal/dripnet/config"
	"github.com/dripnet/internal/dripnet/events"
	"github.com/dripnet/internal/dripnet/faucet"
	"github.com/dripnet/internal/dripnet/ledger"
	"github.com/dripnet/internal/dripnet/logger"
	"github.com/dripnet/internal/dripnet/network"
	"github.com/dripnet/internal/dripnet/token"
	"github.com/dripnet/internal/dripnet/types"
	"github.com/dripnet/internal/dripnet/wallet"
)

type dripnet struct {
	f *faucet.Faucet
	t *token.Token
	l *ledger.Ledger
	w *wallet.Wallet
}

func main() {
	listenRpcPortParam := flag.Int("r", -1, "rpc port to listen")
	keyPathFlag := flag.String("key", "", "path to pem key")
	logPathFlag := flag.String("logto", "", "file path to log to, empty for stdout only")
	flag.Parse()

	cfg := config.GenerateConfig()
	cfg.SetPorts(*listenRpcPortParam)
	cfg.SetNodeKey(*keyPathFlag)
	if *logPathFlag != "" {
		cfg.LOG.PATH = *logPathFlag
	}

	if _, err := logger.Init(logger.Config{
		Path:    cfg.LOG.PATH,
		Level:   cfg.LOG.LEVEL,
		Console: cfg.LOG.CONSOLE,
	}); err != nil {
		panic(err)
	}
	defer logger.Sync()

	log := logger.Named("main")
	log.Infow("Starting dripnet", "version", cfg.GetVersion(), "admin", cfg.NetCfg.ADDR.Hex())

	ctx, _ := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	bus := events.NewBus()

	tkn := token.New(cfg, cfg.NetCfg.ADDR, bus)

	ldgr, err := ledger.New(cfg, types.FloatToBigInt(cfg.Faucet.MAX_CLAIM))
	if err != nil {
		log.Fatalw("Failed to init ledger", "err", err)
	}

	fct := faucet.New(cfg, ldgr, tkn, bus, clock.New())
	if err := tkn.SetFaucetAddress(cfg.NetCfg.ADDR, fct.Address()); err != nil {
		log.Fatalw("Failed to set faucet address", "err", err)
	}

	d := dripnet{
		f: fct,
		t: tkn,
		l: ldgr,
		w: wallet.New(),
	}

	rpc := network.NewRPC(d.f, d.t, d.w)
	network.SetUpHttp(ctx, cfg, rpc, bus)

	<-ctx.Done()
	log.Infow("Shutting down")
	if err := d.l.Close(); err != nil {
		log.Errorw("Ledger close failed", "err", err)
	}
}
