package main

import (
	"fmt"

	"git-cheatsheet/internal/catalog"
	"git-cheatsheet/internal/render"

	"github.com/spf13/cobra"
)

var (
	showWidth int
	showStyle string
)

var showCmd = &cobra.Command{
	Use:   "show",
	Short: "Print the cheatsheet in the terminal",
	Args:  cobra.NoArgs,
	RunE:  runShow,
}

func init() {
	showCmd.Flags().IntVarP(&showWidth, "width", "w", 100, "wrap width")
	showCmd.Flags().StringVar(&showStyle, "style", "", "glamour style (dark, light, notty, ...); detected when empty")
}

func runShow(cmd *cobra.Command, args []string) error {
	sheet, err := catalog.Default()
	if err != nil {
		return err
	}

	out, err := render.RenderTerminal(sheet, showWidth, showStyle)
	if err != nil {
		return err
	}
	_, err = fmt.Fprint(cmd.OutOrStdout(), out)
	return err
}
