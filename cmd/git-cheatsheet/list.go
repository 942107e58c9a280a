package main

import (
	"fmt"
	"io"
	"text/tabwriter"

	"git-cheatsheet/internal/catalog"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var listCategory string

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List the cheatsheet commands by category",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

func init() {
	listCmd.Flags().StringVarP(&listCategory, "category", "c", "", "only list this category")
}

var headingStyle = lipgloss.NewStyle().Bold(true)

func runList(cmd *cobra.Command, args []string) error {
	sheet, err := catalog.Default()
	if err != nil {
		return err
	}

	categories := sheet.Categories
	if listCategory != "" {
		c, ok := sheet.Category(listCategory)
		if !ok {
			return fmt.Errorf("unknown category %q", listCategory)
		}
		categories = []catalog.Category{c}
	}

	return writeList(cmd.OutOrStdout(), categories)
}

func writeList(w io.Writer, categories []catalog.Category) error {
	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	for i, c := range categories {
		if i > 0 {
			fmt.Fprintln(tw)
		}
		fmt.Fprintf(tw, "%s (%d)\n", headingStyle.Render(fmt.Sprintf("#%d %s", c.Anchor, c.Title)), len(c.Entries))
		for _, e := range c.Entries {
			fmt.Fprintf(tw, "  %s\t%s\n", e.Command, e.Description)
		}
	}
	return tw.Flush()
}
