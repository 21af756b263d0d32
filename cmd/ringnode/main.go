package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"google.golang.org/grpc"

	"ringscrape/internal/auth"
	"ringscrape/internal/bootstrap"
	"ringscrape/internal/client"
	"ringscrape/internal/config"
	"ringscrape/internal/discovery"
	"ringscrape/internal/domain"
	"ringscrape/internal/frontdoor"
	"ringscrape/internal/logger"
	zapfactory "ringscrape/internal/logger/zap"
	"ringscrape/internal/replicate"
	"ringscrape/internal/ring"
	"ringscrape/internal/scraper"
	"ringscrape/internal/server"
	"ringscrape/internal/storage"
	"ringscrape/internal/telemetry"
	"ringscrape/internal/telemetry/lookuptrace"
)

var defaultConfigPath = "config/node/config.yaml"

func main() {
	configPath := flag.String("config", defaultConfigPath, "path to configuration file")
	flag.Parse()

	cfg, err := config.LoadConfig(*configPath)
	if err != nil {
		log.Fatalf("failed to load configuration from %q: %v", *configPath, err)
	}
	cfg.ApplyEnvOverrides()
	if err := cfg.ValidateConfig(); err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	var lgr logger.Logger
	if cfg.Logger.Active {
		zapLog, err := zapfactory.New(cfg.Logger)
		if err != nil {
			log.Fatalf("failed to initialize logger: %v", err)
		}
		defer func() { _ = zapLog.Sync() }()
		lgr = zapfactory.NewZapAdapter(zapLog)
	} else {
		lgr = &logger.NopLogger{}
	}
	cfg.LogConfig(lgr)

	lis, advertised, err := server.Listen("private", cfg.Node.Bind, cfg.Node.Host, cfg.Node.RPCPort)
	if err != nil {
		lgr.Error("failed to initialize listener", logger.F("err", err))
		os.Exit(1)
	}
	defer func() { _ = lis.Close() }()
	lgr.Debug("created listener", logger.F("addr", lis.Addr().String()))

	var id domain.ID
	if cfg.Node.Id == "" {
		id = domain.Hash(advertised)
	} else {
		id, err = domain.FromHex(cfg.Node.Id)
		if err != nil {
			lgr.Error("invalid node id in configuration", logger.F("err", err))
			os.Exit(1)
		}
	}
	self := domain.Node{ID: id, Addr: advertised}
	lgr = lgr.Named("node").WithNode(self)
	lgr.Info("node initializing")

	shutdownTracer := telemetry.InitTracer(cfg.Telemetry, "ringscrape-node", id)
	defer func() { _ = shutdownTracer(context.Background()) }()

	table := ring.NewTable(self, ring.WithTableLogger(lgr.Named("routingtable")))

	pool := client.New(
		5*time.Second,
		cfg.Ring.FailureTimeout,
		5*time.Minute,
		client.WithLogger(lgr.Named("clientpool")),
	)
	defer func() { _ = pool.Close() }()

	mirror, err := storage.NewFileMirror(filepath.Join(cfg.Storage.DataDir, advertised))
	if err != nil {
		lgr.Error("failed to initialize file mirror", logger.F("err", err))
		os.Exit(1)
	}
	store := storage.New(storage.WithLogger(lgr.Named("storage")), storage.WithFileMirror(mirror))

	n := ring.New(table, pool, ring.WithLogger(lgr))

	var grpcOpts []grpc.ServerOption
	if cfg.Telemetry.Tracing.Enabled {
		grpcOpts = append(grpcOpts, grpc.ChainUnaryInterceptor(lookuptrace.ServerInterceptor()))
		lgr.Debug("gRPC tracing enabled (lookup-only)")
	}
	grpcServer := server.New(lis, n, grpcOpts, server.WithLogger(lgr.Named("server")))

	serveErr := make(chan error, 1)
	go func() { serveErr <- grpcServer.Start() }()
	lgr.Debug("grpc server started")

	issuer := auth.NewIssuer(cfg.Auth.JWTSecret, cfg.Auth.TokenTTL)
	scr := scraper.New(30 * time.Second)
	front := frontdoor.New(n, store, scr, issuer, cfg.Node.HTTPPort, frontdoor.WithLogger(lgr.Named("frontdoor")))
	httpAddr := advertisedHTTPAddr(cfg)
	httpErr := make(chan error, 1)
	go func() { httpErr <- front.ListenAndServeOn(httpAddr) }()
	lgr.Debug("http front door started", logger.F("addr", httpAddr))

	var register bootstrap.Bootstrap
	switch cfg.Bootstrap.Mode {
	case "static":
		register = bootstrap.NewStaticBootstrap(cfg.Bootstrap.Peers)
	case "route53":
		register, err = bootstrap.NewRoute53Bootstrap(cfg.Bootstrap.Register)
		if err != nil {
			lgr.Error("failed to initialize route53 bootstrap", logger.F("err", err))
			grpcServer.Stop()
			os.Exit(1)
		}
	case "lan":
		disc := discovery.New(cfg.Discovery, self.Addr, discovery.WithLogger(lgr.Named("discovery")))
		register = discovery.NewLanBootstrap(disc)
	default:
		lgr.Error("unsupported bootstrap mode", logger.F("mode", cfg.Bootstrap.Mode))
		grpcServer.Stop()
		os.Exit(1)
	}

	discoverCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	peers, err := register.Discover(discoverCtx)
	cancel()
	if err != nil {
		lgr.Error("failed to resolve bootstrap peers", logger.F("err", err))
		grpcServer.Stop()
		os.Exit(1)
	}
	lgr.Info("resolved bootstrap peers", logger.F("peers", peers))

	joinCtx, joinCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if len(peers) != 0 {
		if err := n.Join(joinCtx, peers[0]); err != nil {
			lgr.Error("failed to join ring", logger.F("err", err))
			joinCancel()
			grpcServer.Stop()
			os.Exit(1)
		}
		lgr.Debug("joined ring")
	} else {
		n.CreateRing()
		lgr.Debug("new ring created")
	}
	joinCancel()

	registerCtx, registerCancel := context.WithTimeout(context.Background(), 10*time.Second)
	if err := register.Register(registerCtx, &self); err != nil {
		lgr.Warn("failed to register node", logger.F("err", err))
	} else {
		lgr.Info("node registered")
	}
	registerCancel()
	defer func() {
		deregCtx, deregCancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer deregCancel()
		if err := register.Deregister(deregCtx, &self); err != nil {
			lgr.Warn("failed to deregister node", logger.F("err", err))
		}
	}()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)

	n.StartStabilizers(ctx, cfg.Ring)
	lgr.Debug("stabilization workers started")

	repl := replicate.New(n, store, cfg.Replication.Interval, cfg.Node.HTTPPort, replicate.WithLogger(lgr.Named("replicate")))
	go repl.Start(ctx)
	lgr.Debug("replication worker started")

	select {
	case <-ctx.Done():
		lgr.Info("shutdown signal received, stopping gracefully")
		stop()

		shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()
		_ = front.Shutdown(shutdownCtx)

		done := make(chan struct{})
		go func() {
			grpcServer.GracefulStop()
			close(done)
		}()
		select {
		case <-done:
			lgr.Info("grpc server stopped gracefully")
		case <-shutdownCtx.Done():
			lgr.Warn("graceful stop timed out, forcing shutdown")
			grpcServer.Stop()
		}

		if err := store.Wipe(); err != nil {
			lgr.Warn("failed to wipe storage", logger.F("err", err))
		}

	case err := <-serveErr:
		lgr.Error("grpc server terminated unexpectedly", logger.F("err", err))
		stop()
		os.Exit(1)

	case err := <-httpErr:
		lgr.Error("http front door terminated unexpectedly", logger.F("err", err))
		stop()
		os.Exit(1)
	}
}

func advertisedHTTPAddr(cfg *config.Config) string {
	bind := cfg.Node.Bind
	if bind == "" {
		bind = "0.0.0.0"
	}
	return fmt.Sprintf("%s:%d", bind, cfg.Node.HTTPPort)
}
