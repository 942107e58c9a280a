package render

import (
	"strconv"
	"strings"
	"testing"

	"git-cheatsheet/internal/catalog"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
	"golang.org/x/net/html"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m, goleak.IgnoreTopFunction("github.com/dlclark/regexp2.runClock"))
}

func attr(n *html.Node, key string) (string, bool) {
	for _, a := range n.Attr {
		if a.Key == key {
			return a.Val, true
		}
	}
	return "", false
}

func hasClass(n *html.Node, class string) bool {
	v, _ := attr(n, "class")
	for _, c := range strings.Fields(v) {
		if c == class {
			return true
		}
	}
	return false
}

func findAll(root *html.Node, match func(*html.Node) bool) []*html.Node {
	var out []*html.Node
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.ElementNode && match(n) {
			out = append(out, n)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(root)
	return out
}

func textOf(n *html.Node) string {
	var b strings.Builder
	var walk func(*html.Node)
	walk = func(n *html.Node) {
		if n.Type == html.TextNode {
			b.WriteString(n.Data)
		}
		for c := n.FirstChild; c != nil; c = c.NextSibling {
			walk(c)
		}
	}
	walk(n)
	return strings.TrimSpace(b.String())
}

func renderDefault(t *testing.T) (*catalog.Sheet, string, *html.Node) {
	t.Helper()
	sheet, err := catalog.Default()
	require.NoError(t, err)

	page, err := NewRenderer().RenderPage(sheet)
	require.NoError(t, err)

	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	return sheet, page, doc
}

func TestRenderPageCopyButtonsCarryLiteralCommands(t *testing.T) {
	sheet, _, doc := renderDefault(t)

	buttons := findAll(doc, func(n *html.Node) bool {
		return n.Data == "button" && hasClass(n, "copy")
	})

	entries := sheet.Entries()
	require.Len(t, buttons, len(entries))
	for i, b := range buttons {
		got, ok := attr(b, commandAttribute)
		require.True(t, ok)
		assert.Equal(t, entries[i].Command, got)
		assert.Equal(t, "Copy", textOf(b))
	}

	var quoted []string
	for _, b := range buttons {
		v, _ := attr(b, commandAttribute)
		if strings.Contains(v, `"`) {
			quoted = append(quoted, v)
		}
	}
	assert.Equal(t, []string{
		`git commit -m "message"`,
		`git commit -am "message"`,
		`git tag -a <tag-name> -m "message"`,
	}, quoted)
}

func TestRenderPageTableOfContents(t *testing.T) {
	sheet, _, doc := renderDefault(t)

	items := findAll(doc, func(n *html.Node) bool {
		return n.Data == "a" && hasClass(n, "toc-item")
	})
	require.Len(t, items, len(sheet.Categories))

	for i, item := range items {
		c := sheet.Categories[i]
		href, _ := attr(item, "href")
		assert.Equal(t, "#"+strconv.Itoa(c.Anchor), href)

		title := findAll(item, func(n *html.Node) bool { return hasClass(n, "toc-title") })
		count := findAll(item, func(n *html.Node) bool { return hasClass(n, "toc-count") })
		require.Len(t, title, 1)
		require.Len(t, count, 1)
		assert.Equal(t, c.Title, textOf(title[0]))
		assert.Equal(t, strconv.Itoa(len(c.Entries)), textOf(count[0]))
	}

	assert.Equal(t, "14", textOf(findAll(items[0], func(n *html.Node) bool { return hasClass(n, "toc-count") })[0]))
	assert.Equal(t, "9", textOf(findAll(items[1], func(n *html.Node) bool { return hasClass(n, "toc-count") })[0]))
}

func TestRenderPageCategoryAnchors(t *testing.T) {
	sheet, _, doc := renderDefault(t)

	headings := findAll(doc, func(n *html.Node) bool { return n.Data == "h2" })
	require.Len(t, headings, len(sheet.Categories))
	for i, h := range headings {
		id, ok := attr(h, "id")
		require.True(t, ok)
		assert.Equal(t, strconv.Itoa(i+1), id)
		assert.Equal(t, sheet.Categories[i].Title, textOf(h))
	}
}

func TestRenderPageLayout(t *testing.T) {
	_, page, doc := renderDefault(t)

	titles := findAll(doc, func(n *html.Node) bool { return n.Data == "title" })
	require.Len(t, titles, 1)
	assert.Equal(t, "Git Cheatsheet", textOf(titles[0]))

	h1 := strings.Index(page, "<h1")
	nav := strings.Index(page, `<nav class="toc-container">`)
	h2 := strings.Index(page, "<h2")
	outro := strings.Index(page, "This cheat sheet covers")
	require.True(t, h1 >= 0 && nav >= 0 && h2 >= 0 && outro >= 0)
	assert.Less(t, h1, nav)
	assert.Less(t, nav, h2)
	assert.Less(t, h2, outro)

	assert.Contains(t, page, `command: "copyToClipboard"`)
	assert.Contains(t, page, ".chroma")
}

func TestRenderPageQueuesClicksUntilConnected(t *testing.T) {
	_, _, doc := renderDefault(t)

	scripts := findAll(doc, func(n *html.Node) bool { return n.Data == "script" })
	require.Len(t, scripts, 1)
	script := textOf(scripts[0])

	// A click is queued unconditionally and flushed on open, so no click is
	// lost to a connecting or dropped socket.
	assert.Contains(t, script, `pending.push(JSON.stringify({ command: "copyToClipboard", text: button.dataset.command }))`)
	assert.Contains(t, script, `addEventListener("open"`)
	assert.Contains(t, script, "setTimeout(connect")
	assert.NotContains(t, script, "readyState !== WebSocket.OPEN")
}

func TestRenderPageIsDeterministic(t *testing.T) {
	sheet, err := catalog.Default()
	require.NoError(t, err)

	r := NewRenderer()
	first, err := r.RenderPage(sheet)
	require.NoError(t, err)
	second, err := r.RenderPage(sheet)
	require.NoError(t, err)
	third, err := NewRenderer().RenderPage(sheet)
	require.NoError(t, err)

	assert.Equal(t, first, second)
	assert.Equal(t, first, third)
}

func TestRenderPageDescriptionsKeepInlineCode(t *testing.T) {
	_, page, _ := renderDefault(t)
	assert.Contains(t, page, "alternative to <code>checkout</code>")
}

func TestRenderPageCustomSheet(t *testing.T) {
	sheet, err := catalog.Parse([]byte("# Mini\n\n## Only\n\n- Say hi.\n  ```sh\n  echo \"hi\" && echo '<b>'\n  ```\n"))
	require.NoError(t, err)

	page, err := NewRenderer().RenderPage(sheet)
	require.NoError(t, err)

	doc, err := html.Parse(strings.NewReader(page))
	require.NoError(t, err)
	buttons := findAll(doc, func(n *html.Node) bool { return n.Data == "button" && hasClass(n, "copy") })
	require.Len(t, buttons, 1)
	v, _ := attr(buttons[0], commandAttribute)
	assert.Equal(t, `echo "hi" && echo '<b>'`, v)
}

func TestRenderTerminal(t *testing.T) {
	sheet, err := catalog.Default()
	require.NoError(t, err)

	out, err := RenderTerminal(sheet, 100, "notty")
	require.NoError(t, err)
	assert.Contains(t, out, "Basic Git Commands")
	assert.Contains(t, out, `git commit -m "message"`)
	assert.Contains(t, out, "Submodules")
}
