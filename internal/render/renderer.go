package render

import (
	"bytes"
	_ "embed"
	"fmt"
	"html/template"
	"strconv"

	"git-cheatsheet/internal/catalog"
	"git-cheatsheet/internal/contracts"

	chromahtml "github.com/alecthomas/chroma/formatters/html"
	"github.com/alecthomas/chroma/styles"
	"github.com/yuin/goldmark"
	highlighting "github.com/yuin/goldmark-highlighting"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/extension"
	"github.com/yuin/goldmark/parser"
	"github.com/yuin/goldmark/renderer/html"
	"github.com/yuin/goldmark/text"
	"github.com/yuin/goldmark/util"
	alertcallouts "github.com/zmtcreative/gm-alert-callouts"
)

const (
	// commandAttribute carries the literal command from the AST walk to the
	// code block wrapper.
	commandAttribute = "data-command"

	highlightStyle = "github"
)

//go:embed page.html
var pageSource string

var pageTemplate = template.Must(template.New("page").Parse(pageSource))

// Renderer is a wrapper around the Goldmark markdown parser with pre-configured extensions
type Renderer struct {
	md  goldmark.Markdown
	css string
}

type tocItem struct {
	Anchor int
	Title  string
	Count  int
}

type pageData struct {
	Title        string
	MessageType  string
	HighlightCSS template.CSS
	Preamble     template.HTML
	TOC          []tocItem
	Body         template.HTML
}

func NewRenderer() *Renderer {
	md := goldmark.New(
		goldmark.WithExtensions(
			alertcallouts.AlertCallouts,
			extension.GFM,
			highlighting.NewHighlighting(
				highlighting.WithStyle(highlightStyle),
				highlighting.WithWrapperRenderer(renderCommandWrapper),
				highlighting.WithFormatOptions(
					chromahtml.WithClasses(true),
				),
			),
		),
		goldmark.WithParserOptions(
			parser.WithAutoHeadingID(),
		),
		goldmark.WithRendererOptions(html.WithUnsafe()),
	)
	return &Renderer{md: md, css: highlightCSS()}
}

// RenderPage returns the complete panel document for sheet: the preamble,
// a table of contents with per-category counts, and every category with a
// Copy button per command.
//
// The output depends only on the sheet, so repeated calls return identical
// documents.
func (r *Renderer) RenderPage(sheet *catalog.Sheet) (string, error) {
	source := sheet.Source()
	doc := r.md.Parser().Parse(text.NewReader(source))

	parsed, err := catalog.FromDocument(doc, source)
	if err != nil {
		return "", err
	}
	if err := decorateAST(doc, parsed); err != nil {
		return "", err
	}

	preamble := splitPreamble(doc)

	var pre, body bytes.Buffer
	if err := r.md.Renderer().Render(&pre, source, preamble); err != nil {
		return "", err
	}
	if err := r.md.Renderer().Render(&body, source, doc); err != nil {
		return "", err
	}

	data := pageData{
		Title:        parsed.Title,
		MessageType:  contracts.MessageTypeCopyToClipboard,
		HighlightCSS: template.CSS(r.css),
		Preamble:     template.HTML(pre.String()),
		TOC:          tableOfContents(parsed),
		Body:         template.HTML(body.String()),
	}

	var out bytes.Buffer
	if err := pageTemplate.Execute(&out, data); err != nil {
		return "", fmt.Errorf("execute page template: %w", err)
	}
	return out.String(), nil
}

// decorateAST gives category headings their numeric anchor ids and tags each
// command block with its literal command for the wrapper renderer.
func decorateAST(doc ast.Node, sheet *catalog.Sheet) error {
	entries := sheet.Entries()
	category, entry := 0, 0

	return ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch {
		case catalog.IsCategoryHeading(n):
			if category >= len(sheet.Categories) {
				return ast.WalkStop, fmt.Errorf("heading %d has no category", category+1)
			}
			n.SetAttributeString("id", []byte(strconv.Itoa(sheet.Categories[category].Anchor)))
			category++
			return ast.WalkSkipChildren, nil

		case catalog.IsEntryBlock(n):
			if entry >= len(entries) {
				return ast.WalkStop, fmt.Errorf("command block %d has no entry", entry+1)
			}
			n.SetAttributeString(commandAttribute, []byte(entries[entry].Command))
			entry++
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
}

// splitPreamble moves every top-level node before the first category into a
// document of its own so the table of contents can sit between the two.
func splitPreamble(doc ast.Node) ast.Node {
	preamble := ast.NewDocument()

	n := doc.FirstChild()
	for n != nil && !catalog.IsCategoryHeading(n) {
		next := n.NextSibling()
		doc.RemoveChild(doc, n)
		preamble.AppendChild(preamble, n)
		n = next
	}

	return preamble
}

func tableOfContents(sheet *catalog.Sheet) []tocItem {
	items := make([]tocItem, 0, len(sheet.Categories))
	for _, c := range sheet.Categories {
		items = append(items, tocItem{Anchor: c.Anchor, Title: c.Title, Count: len(c.Entries)})
	}
	return items
}

// highlightCSS returns the stylesheet matching the class names chroma emits.
func highlightCSS() string {
	var buf bytes.Buffer
	formatter := chromahtml.New(chromahtml.WithClasses(true))
	if err := formatter.WriteCSS(&buf, styles.Get(highlightStyle)); err != nil {
		return ""
	}
	return buf.String()
}

// renderCommandWrapper wraps highlighted command blocks in a div and appends
// the Copy button that carries the literal command.
func renderCommandWrapper(w util.BufWriter, context highlighting.CodeBlockContext, entering bool) {
	command, ok := codeBlockCommand(context)
	if !ok {
		return
	}

	if entering {
		_, _ = w.WriteString(`<div class="command">`)
		return
	}

	_, _ = w.WriteString(`<button type="button" class="copy" `)
	_, _ = w.WriteString(commandAttribute)
	_, _ = w.WriteString(`="`)
	_, _ = w.Write(util.EscapeHTML([]byte(command)))
	_, _ = w.WriteString(`">Copy</button></div>`)
}

// codeBlockCommand extracts the command attribute set during decorateAST.
func codeBlockCommand(context highlighting.CodeBlockContext) (string, bool) {
	if context == nil {
		return "", false
	}

	attrs := context.Attributes()
	if attrs == nil {
		return "", false
	}

	v, ok := attrs.GetString(commandAttribute)
	if !ok {
		return "", false
	}

	switch typed := v.(type) {
	case string:
		return typed, typed != ""
	case []byte:
		if len(typed) == 0 {
			return "", false
		}
		return string(typed), true
	default:
		return "", false
	}
}
