package app

import (
	"context"
	"fmt"
	"sync"

	"git-cheatsheet/internal/catalog"
	"git-cheatsheet/internal/relay"
	"git-cheatsheet/internal/render"
	httptransport "git-cheatsheet/internal/transport/http"

	"go.uber.org/zap"
)

// PanelTitle is the title of every cheatsheet panel.
const PanelTitle = "Git Cheatsheet"

// Cheatsheet is a coordinator between the catalog renderer, the panel server
// and the clipboard relay.
type Cheatsheet struct {
	renderer *render.Renderer
	panels   *httptransport.PanelServer
	relay    *relay.Relay
	logger   *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     sync.WaitGroup
}

func NewCheatsheet(panels *httptransport.PanelServer, r *relay.Relay, logger *zap.Logger) *Cheatsheet {
	if logger == nil {
		logger = zap.NewNop()
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Cheatsheet{
		renderer: render.NewRenderer(),
		panels:   panels,
		relay:    r,
		logger:   logger,
		ctx:      ctx,
		cancel:   cancel,
	}
}

// Open creates a new panel showing the git cheatsheet and starts relaying
// its messages. Every call yields an independent panel.
func (c *Cheatsheet) Open() (*httptransport.Panel, error) {
	sheet, err := catalog.Default()
	if err != nil {
		return nil, fmt.Errorf("load catalog: %w", err)
	}

	document, err := c.renderer.RenderPage(sheet)
	if err != nil {
		return nil, fmt.Errorf("render cheatsheet: %w", err)
	}

	panel, err := c.panels.Open(PanelTitle, document)
	if err != nil {
		return nil, fmt.Errorf("open panel: %w", err)
	}

	c.wg.Add(1)
	go c.serve(panel)

	c.logger.Info("cheatsheet opened", zap.String("url", panel.URL()))
	return panel, nil
}

// Stop disposes all panels and waits for their relay loops to exit.
func (c *Cheatsheet) Stop() error {
	err := c.panels.Stop()
	c.wg.Wait()
	return err
}

// Close stops the cheatsheet for good.
func (c *Cheatsheet) Close() error {
	c.cancel()
	return c.Stop()
}

// serve relays the panel's messages one at a time until it is disposed.
func (c *Cheatsheet) serve(panel *httptransport.Panel) {
	defer c.wg.Done()

	for {
		select {
		case <-panel.Done():
			c.logger.Debug("relay stopped", zap.String("panel", panel.ID()))
			return
		case <-c.ctx.Done():
			return
		case raw := <-panel.Messages():
			result := c.relay.Handle(c.ctx, raw)
			c.logger.Debug("panel message handled",
				zap.String("panel", panel.ID()),
				zap.Stringer("result", result))
		}
	}
}
