package main

import (
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"git-cheatsheet/internal/app"
	"git-cheatsheet/internal/clipboard"
	"git-cheatsheet/internal/config"
	"git-cheatsheet/internal/relay"
	httptransport "git-cheatsheet/internal/transport/http"

	"github.com/spf13/cobra"
)

var serveAddr string

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Serve a cheatsheet panel and copy commands to the OS clipboard",
	Args:  cobra.NoArgs,
	RunE:  runServe,
}

func init() {
	serveCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default $GIT_CHEATSHEET_ADDR)")
}

// printNotifier shows confirmations on the terminal running serve.
type printNotifier struct {
	out io.Writer
}

func (n *printNotifier) Notify(_ context.Context, message string) error {
	_, err := fmt.Fprintln(n.out, message)
	return err
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	addr := cfg.Addr
	if serveAddr != "" {
		addr = serveAddr
	}

	panels := httptransport.NewPanelServer(addr,
		httptransport.WithLogger(logger.Named("panels")),
		httptransport.WithDisposeGrace(cfg.DisposeGrace),
	)
	r := relay.New(clipboard.NewSystem(), &printNotifier{out: cmd.OutOrStdout()}, logger.Named("relay"))
	cheatsheet := app.NewCheatsheet(panels, r, logger)
	defer func() { _ = cheatsheet.Close() }()

	panel, err := cheatsheet.Open()
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "%s: %s\n", panel.Title(), panel.URL())

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	select {
	case <-ctx.Done():
	case <-panel.Done():
		fmt.Fprintln(cmd.OutOrStdout(), "panel closed")
	}
	return nil
}
