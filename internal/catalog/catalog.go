// Package catalog holds the git command reference shown in the cheatsheet panel.
//
// The content is authored as a markdown asset (git.md) and parsed once into
// categories of command entries. Each category is a level-two heading; each
// entry is a list item whose text is the description followed by a fenced
// code block holding the literal command.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"
)

//go:embed git.md
var gitSource []byte

var (
	// ErrNoCategory is returned when a command block appears before the first category heading.
	ErrNoCategory = errors.New("command outside of a category")
	// ErrEmptyCategory is returned when a category heading has no commands under it.
	ErrEmptyCategory = errors.New("category has no commands")
	// ErrMalformedEntry is returned when a command block is not a single line
	// preceded by a description.
	ErrMalformedEntry = errors.New("malformed command entry")
	// ErrNoCategories is returned for a document without any category heading.
	ErrNoCategories = errors.New("no categories")
)

// Entry is one command of the cheatsheet.
type Entry struct {
	// Description is inline markdown.
	Description string
	// Command is the literal text copied to the clipboard.
	Command string
}

// Category is an ordered group of entries. Anchor is the 1-based in-page
// navigation id.
type Category struct {
	Anchor  int
	Title   string
	Entries []Entry
}

// Sheet is a parsed cheatsheet document.
type Sheet struct {
	Title      string
	Categories []Category

	source []byte
}

var defaultSheet = sync.OnceValues(func() (*Sheet, error) {
	return Parse(gitSource)
})

// Default returns the embedded git cheatsheet. The result is shared and must
// not be modified.
func Default() (*Sheet, error) {
	return defaultSheet()
}

// Parse reads a cheatsheet markdown document.
func Parse(source []byte) (*Sheet, error) {
	doc := goldmark.DefaultParser().Parse(text.NewReader(source))
	return FromDocument(doc, source)
}

// FromDocument builds a sheet from an already parsed markdown tree. Renderers
// use it to stay aligned with the nodes they decorate.
func FromDocument(doc ast.Node, source []byte) (*Sheet, error) {
	sheet := &Sheet{source: source}
	current := -1

	err := ast.Walk(doc, func(n ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}

		switch node := n.(type) {
		case *ast.Heading:
			switch {
			case IsCategoryHeading(node):
				sheet.Categories = append(sheet.Categories, Category{
					Anchor: len(sheet.Categories) + 1,
					Title:  plainText(node, source),
				})
				current = len(sheet.Categories) - 1
			case node.Level == 1 && sheet.Title == "":
				sheet.Title = plainText(node, source)
			}
			return ast.WalkSkipChildren, nil

		case *ast.FencedCodeBlock:
			if !IsEntryBlock(node) {
				return ast.WalkSkipChildren, nil
			}
			if current < 0 {
				return ast.WalkStop, fmt.Errorf("line %d: %w", lineOf(node, source), ErrNoCategory)
			}
			entry, err := readEntry(node, source)
			if err != nil {
				return ast.WalkStop, err
			}
			sheet.Categories[current].Entries = append(sheet.Categories[current].Entries, entry)
			return ast.WalkSkipChildren, nil
		}

		return ast.WalkContinue, nil
	})
	if err != nil {
		return nil, err
	}

	if len(sheet.Categories) == 0 {
		return nil, ErrNoCategories
	}
	for _, c := range sheet.Categories {
		if len(c.Entries) == 0 {
			return nil, fmt.Errorf("%q: %w", c.Title, ErrEmptyCategory)
		}
	}

	return sheet, nil
}

// IsCategoryHeading reports whether n opens a category.
func IsCategoryHeading(n ast.Node) bool {
	h, ok := n.(*ast.Heading)
	return ok && h.Level == 2
}

// IsEntryBlock reports whether n is the command block of an entry.
func IsEntryBlock(n ast.Node) bool {
	if n.Kind() != ast.KindFencedCodeBlock {
		return false
	}
	parent := n.Parent()
	return parent != nil && parent.Kind() == ast.KindListItem
}

// Source returns the markdown the sheet was parsed from.
func (s *Sheet) Source() []byte {
	return s.source
}

// Len returns the number of entries across all categories.
func (s *Sheet) Len() int {
	n := 0
	for _, c := range s.Categories {
		n += len(c.Entries)
	}
	return n
}

// Entries returns every entry in document order.
func (s *Sheet) Entries() []Entry {
	out := make([]Entry, 0, s.Len())
	for _, c := range s.Categories {
		out = append(out, c.Entries...)
	}
	return out
}

// Category looks a category up by title, ignoring case.
func (s *Sheet) Category(title string) (Category, bool) {
	for _, c := range s.Categories {
		if strings.EqualFold(c.Title, title) {
			return c, true
		}
	}
	return Category{}, false
}

func readEntry(block *ast.FencedCodeBlock, source []byte) (Entry, error) {
	line := lineOf(block, source)

	lines := block.Lines()
	if lines.Len() != 1 {
		return Entry{}, fmt.Errorf("line %d: want exactly one command line, got %d: %w", line, lines.Len(), ErrMalformedEntry)
	}
	seg := lines.At(0)
	command := strings.TrimRight(string(seg.Value(source)), "\r\n")
	if strings.TrimSpace(command) == "" {
		return Entry{}, fmt.Errorf("line %d: empty command: %w", line, ErrMalformedEntry)
	}

	desc := block.PreviousSibling()
	if desc == nil || (desc.Kind() != ast.KindParagraph && desc.Kind() != ast.KindTextBlock) {
		return Entry{}, fmt.Errorf("line %d: missing description: %w", line, ErrMalformedEntry)
	}

	return Entry{
		Description: joinLines(desc.Lines(), source),
		Command:     command,
	}, nil
}

// joinLines returns the raw markdown of a block, one space per line break.
func joinLines(lines *text.Segments, source []byte) string {
	parts := make([]string, 0, lines.Len())
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		parts = append(parts, strings.TrimSpace(string(seg.Value(source))))
	}
	return strings.Join(parts, " ")
}

// plainText concatenates the text of n's inline children.
func plainText(n ast.Node, source []byte) string {
	var buf bytes.Buffer
	_ = ast.Walk(n, func(c ast.Node, entering bool) (ast.WalkStatus, error) {
		if !entering {
			return ast.WalkContinue, nil
		}
		switch t := c.(type) {
		case *ast.Text:
			buf.Write(t.Segment.Value(source))
			if t.SoftLineBreak() {
				buf.WriteByte(' ')
			}
		case *ast.String:
			buf.Write(t.Value)
		}
		return ast.WalkContinue, nil
	})
	return strings.TrimSpace(buf.String())
}

// lineOf returns the 1-based source line of a block, or 0 when unknown.
func lineOf(n ast.Node, source []byte) int {
	lines := n.Lines()
	if lines == nil || lines.Len() == 0 {
		return 0
	}
	offset := lines.At(0).Start
	if offset > len(source) {
		offset = len(source)
	}
	return bytes.Count(source[:offset], []byte{'\n'}) + 1
}
