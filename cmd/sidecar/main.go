package main

import (
	"context"
	"flag"
	"log/slog"
	"os"
	"os/signal"
	"strings"
	"syscall"
	"time"

	"sidecar/config"
	"sidecar/node"
	"sidecar/observability/logging"
	"sidecar/rpc"
)

const (
	envName     = "SIDECAR_ENV"
	rpcTokenEnv = "SIDECAR_RPC_TOKEN"
)

func main() {
	configFile := flag.String("config", "./config.toml", "Path to the configuration file")
	logRequests := flag.Bool("log-requests", false, "Log every HTTP request at debug level")
	flag.Parse()

	env := strings.TrimSpace(os.Getenv(envName))
	logger := logging.Setup("sidecar", env)

	cfg, err := config.Load(*configFile)
	if err != nil {
		logger.Error("failed to load config", slog.Any("error", err))
		os.Exit(1)
	}

	client, err := node.NewRemoteClient(node.RemoteConfig{
		BaseURL:        cfg.Node.Address,
		RequestTimeout: time.Duration(cfg.Node.RequestTimeoutSeconds) * time.Second,
	})
	if err != nil {
		logger.Error("failed to build node client", slog.Any("error", err))
		os.Exit(1)
	}

	authToken := strings.TrimSpace(os.Getenv(rpcTokenEnv))

	var servers []*rpc.Server
	if cfg.RPC.Enabled {
		servers = append(servers, rpc.NewServer(client, logger, rpc.ServerConfig{
			Address:      cfg.RPC.Address,
			QPSLimit:     cfg.RPC.QPSLimit,
			MaxBodyBytes: cfg.RPC.MaxBodyBytes,
			CorsOrigin:   cfg.RPC.CorsOrigin,
			AuthToken:    authToken,
			MethodLimits: cfg.RPC.Limits,
			LogRequests:  *logRequests,
		}))
	}
	if cfg.SpeculativeExec.Enabled {
		servers = append(servers, rpc.NewSpeculativeServer(client, logger, rpc.ServerConfig{
			Address:      cfg.SpeculativeExec.Address,
			MaxBodyBytes: cfg.SpeculativeExec.MaxBodyBytes,
			CorsOrigin:   cfg.SpeculativeExec.CorsOrigin,
			MethodLimits: cfg.SpeculativeExec.Limits,
			LogRequests:  *logRequests,
		}))
	}
	if len(servers) == 0 {
		logger.Error("no servers enabled, nothing to do")
		os.Exit(1)
	}

	errCh := make(chan error, len(servers))
	for _, srv := range servers {
		srv := srv
		go func() {
			errCh <- srv.Start()
		}()
	}

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-sigCh:
		logger.Info("shutting down", "signal", sig.String())
	case err := <-errCh:
		if err != nil {
			logger.Error("server failed", slog.Any("error", err))
		}
	}

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	for _, srv := range servers {
		if err := srv.Shutdown(ctx); err != nil {
			logger.Error("shutdown failed", slog.Any("error", err))
		}
	}
}
