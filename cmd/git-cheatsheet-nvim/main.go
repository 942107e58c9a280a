package main

import (
	"log"

	"git-cheatsheet/internal/config"
	"git-cheatsheet/internal/host"
	"git-cheatsheet/internal/logging"

	"github.com/neovim/go-client/nvim/plugin"
	"go.uber.org/zap"
)

// Set up the connection to Neovim
// Take the plugin object we register commands
// Keep the connection alive and listen for request
func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("[git-cheatsheet] %v", err)
	}

	logger, err := logging.New(cfg.LogLevel, cfg.LogFile)
	if err != nil {
		log.Fatalf("[git-cheatsheet] %v", err)
	}
	defer func() { _ = logger.Sync() }()

	plugin.Main(func(p *plugin.Plugin) error {
		logger.Info("registering handlers", zap.String("addr", cfg.Addr), zap.String("clipboard", cfg.Clipboard))
		return host.Register(p, cfg, logger)
	})
}
