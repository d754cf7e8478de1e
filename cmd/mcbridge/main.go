package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"

	"github.com/EgorLis/mcbridge/internal/bot"
	"github.com/EgorLis/mcbridge/internal/discord"
	"github.com/EgorLis/mcbridge/internal/keepalive"
	"github.com/EgorLis/mcbridge/internal/mcagent"
	"github.com/EgorLis/mcbridge/pkg/logger"
)

func main() {
	if err := godotenv.Load(); err != nil {
		// .env опционален: в проде всё приходит из окружения
		logger.Log.Info("no .env file found")
	}
	logger.Init()

	cfg := bot.FromEnv()
	if cfg.DiscordToken == "" {
		logger.Log.Fatal("DISCORD_TOKEN is required")
	}

	dc, err := discord.New(cfg.DiscordToken)
	if err != nil {
		logger.Log.WithError(err).Fatal("discord init failed")
	}

	agentCfg := mcagent.Config{
		AgentURL: cfg.AgentURL,
		Host:     cfg.MCHost,
		Port:     cfg.MCPort,
		Username: cfg.MCUsername,
		Password: cfg.MCPassword,
		Auth:     cfg.MCAuth,
		Version:  cfg.MCVersion,
	}

	bridge := bot.New(cfg, dc, func() mcagent.Session {
		return mcagent.New(agentCfg)
	})
	dc.OnMessage(bridge.HandleMessage)

	// единственная фатальная ошибка — не смогли войти в Discord
	if err := dc.Open(); err != nil {
		logger.Log.WithError(err).Fatal("discord login failed")
	}
	defer dc.Close()

	ka := keepalive.New(cfg.HTTPPort, cfg.SelfPingURL)
	ka.Start()
	defer ka.Stop()

	if err := bridge.Start(); err != nil {
		logger.Log.WithError(err).Fatal("bridge start failed")
	}
	defer bridge.Stop()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logger.Log.Info("running… press Ctrl+C to stop")
	<-ctx.Done()
}
