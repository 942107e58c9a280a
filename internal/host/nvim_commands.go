package host

import (
	"fmt"
	"strings"

	"git-cheatsheet/internal/app"
	"git-cheatsheet/internal/clipboard"
	"git-cheatsheet/internal/config"
	"git-cheatsheet/internal/relay"
	httptransport "git-cheatsheet/internal/transport/http"

	"github.com/neovim/go-client/nvim"
	"github.com/neovim/go-client/nvim/plugin"
	"go.uber.org/zap"
)

const (
	// CommandOpen opens a new cheatsheet panel.
	CommandOpen = "GitCheatsheet"
	// CommandStop disposes every panel and stops the panel server.
	CommandStop = "GitCheatsheetStop"

	logPrefix = "[git-cheatsheet]"
)

// openURLLua opens the URL passed as the first argument with the system handler.
const openURLLua = `local url = ...
vim.ui.open(url)`

// Commands is a state container for Neovim command handlers.
type Commands struct {
	cfg        config.Config
	cheatsheet *app.Cheatsheet
	logger     *zap.Logger
}

func NewCommands(v *nvim.Nvim, cfg config.Config, logger *zap.Logger) *Commands {
	if logger == nil {
		logger = zap.NewNop()
	}

	panels := httptransport.NewPanelServer(cfg.Addr,
		httptransport.WithLogger(logger.Named("panels")),
		httptransport.WithDisposeGrace(cfg.DisposeGrace),
		httptransport.WithAttachTimeout(cfg.AttachTimeout),
	)
	r := relay.New(newClipboard(cfg, v), &Notifier{v: v}, logger.Named("relay"))

	return &Commands{
		cfg:        cfg,
		cheatsheet: app.NewCheatsheet(panels, r, logger),
		logger:     logger,
	}
}

// Register registers Neovim command handlers.
func Register(p *plugin.Plugin, cfg config.Config, logger *zap.Logger) error {
	commands := NewCommands(p.Nvim, cfg, logger)

	p.Handle("poll", func() (string, error) {
		return "ok", nil
	})

	p.HandleCommand(&plugin.CommandOptions{
		Name: CommandOpen,
	}, commands.GitCheatsheet)

	p.HandleCommand(&plugin.CommandOptions{
		Name: CommandStop,
	}, commands.GitCheatsheetStop)

	return nil
}

// GitCheatsheet opens a new panel and shows it to the user.
func (c *Commands) GitCheatsheet(v *nvim.Nvim) error {
	panel, err := c.cheatsheet.Open()
	if err != nil {
		return err
	}

	if c.cfg.OpenBrowser {
		if err := v.ExecLua(openURLLua, nil, panel.URL()); err != nil {
			c.logger.Warn("could not open browser", zap.String("url", panel.URL()), zap.Error(err))
		}
	}

	return v.Command(echoCommand(fmt.Sprintf("%s: %s", panel.Title(), panel.URL())))
}

func (c *Commands) GitCheatsheetStop(v *nvim.Nvim) error {
	if err := c.cheatsheet.Stop(); err != nil {
		return err
	}
	return v.Command(echoCommand("stopped"))
}

// newClipboard picks the clipboard backend named by cfg.
func newClipboard(cfg config.Config, v *nvim.Nvim) relay.Clipboard {
	if cfg.Clipboard == config.ClipboardSystem {
		return clipboard.NewSystem()
	}
	return &RegisterClipboard{v: v, name: "+"}
}

// echoCommand builds an :echom of msg with the plugin prefix.
func echoCommand(msg string) string {
	quoted := strings.ReplaceAll(logPrefix+" "+msg, `\`, `\\`)
	quoted = strings.ReplaceAll(quoted, `"`, `\"`)
	return `echom "` + quoted + `"`
}
