// Package main runs the wallet-activity proxy: the HTTP API over the
// freshness-tiered retrieval engine, the token-metadata resolver and the
// Telegram notification relay.
package main

import (
	"context"
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"solana-proxy/internal/activity"
	"solana-proxy/internal/cache"
	"solana-proxy/internal/config"
	"solana-proxy/internal/helius"
	"solana-proxy/internal/httpapi"
	"solana-proxy/internal/metadata"
	"solana-proxy/internal/notify"
	"solana-proxy/internal/solana"
)

func main() {
	cfg := config.Load()

	// Flags override the environment.
	port := flag.Int("port", cfg.Port, "HTTP listen port")
	rpcEndpoint := flag.String("rpc-endpoint", cfg.RPCEndpoint, "Solana RPC HTTP endpoint")
	cacheMaxWallets := flag.Int("cache-max-wallets", cfg.CacheMaxWallets, "Maximum wallets tracked by the activity cache")
	flag.Parse()

	logger, err := zap.NewProduction()
	if err != nil {
		os.Exit(1)
	}
	defer logger.Sync()

	if !cfg.HasCredential() {
		logger.Warn("HELIUS_API_KEY not set, wallet activity endpoints will reject requests")
	}

	rpc := solana.NewHTTPClient(*rpcEndpoint)
	history := helius.NewClient(cfg.HeliusAPIKey)
	store := cache.NewStore(*cacheMaxWallets)

	orchestrator := activity.New(activity.Options{
		RPC:           rpc,
		History:       history,
		Store:         store,
		Logger:        logger.Named("activity"),
		HasCredential: cfg.HasCredential(),
	})

	resolver := metadata.New(metadata.Options{
		Assets:      rpc,
		Jupiter:     metadata.NewJupiterClient(""),
		Solscan:     metadata.NewSolscanClient(""),
		DexScreener: metadata.NewDexScreenerClient(""),
		TokenList:   metadata.NewTokenListClient(""),
		Logger:      logger.Named("metadata"),
	})

	var sender notify.Sender
	if cfg.HasNotifier() {
		sender = notify.NewTelegramSender(cfg.TelegramBotToken, cfg.TelegramChatID)
	}
	notifier := notify.New(sender, logger.Named("notify"))

	server := httpapi.New(httpapi.Options{
		Port:          *port,
		RPCEndpoint:   *rpcEndpoint,
		HasCredential: cfg.HasCredential(),
		Activity:      orchestrator,
		Resolver:      resolver,
		Notifier:      notifier,
		Logger:        logger.Named("http"),
	})

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger.Info("starting",
		zap.Int("port", *port),
		zap.String("rpc_endpoint", *rpcEndpoint),
		zap.Bool("has_credential", cfg.HasCredential()),
		zap.Bool("notifier_configured", notifier.Configured()),
	)

	if err := server.ListenAndServe(ctx); err != nil {
		logger.Fatal("server error", zap.Error(err))
	}
	logger.Info("shutdown complete")
}
