package render

import (
	"fmt"

	"git-cheatsheet/internal/catalog"

	"github.com/charmbracelet/glamour"
)

// RenderTerminal renders sheet as styled terminal text wrapped at width
// columns. An empty style picks one from the terminal background.
func RenderTerminal(sheet *catalog.Sheet, width int, style string) (string, error) {
	if width <= 0 {
		width = 80
	}

	styleOpt := glamour.WithAutoStyle()
	if style != "" {
		styleOpt = glamour.WithStandardStyle(style)
	}

	renderer, err := glamour.NewTermRenderer(styleOpt, glamour.WithWordWrap(width))
	if err != nil {
		return "", fmt.Errorf("create terminal renderer: %w", err)
	}

	out, err := renderer.Render(string(sheet.Source()))
	if err != nil {
		return "", fmt.Errorf("render terminal: %w", err)
	}
	return out, nil
}
