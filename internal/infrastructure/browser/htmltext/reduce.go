// Package htmltext reduces raw page HTML to the textual observation the
// model consumes: visible text plus the list of elements annotated with a
// browsemind-id attribute.
package htmltext

import (
	"strconv"
	"strings"

	"golang.org/x/net/html"

	"browsemind/internal/domain/entity"
)

// IDAttr is the per-session attribute that keys interactable elements.
const IDAttr = "browsemind-id"

// Tags whose subtrees carry no visible text.
var skipTags = map[string]bool{
	"script":   true,
	"style":    true,
	"noscript": true,
	"svg":      true,
	"iframe":   true,
	"head":     true,
}

// Reduce parses rawHTML and returns the visible text and the ordered
// interactable element list. A parse failure falls back to the raw input as
// text so the agent still sees something.
func Reduce(rawHTML string) (string, []entity.InteractableElement) {
	doc, err := html.Parse(strings.NewReader(rawHTML))
	if err != nil {
		return rawHTML, nil
	}

	var textSb strings.Builder
	var elements []entity.InteractableElement
	collect(doc, &textSb, &elements)

	return normalizeSpace(textSb.String()), elements
}

func collect(n *html.Node, sb *strings.Builder, elements *[]entity.InteractableElement) {
	switch n.Type {
	case html.CommentNode:
		return
	case html.TextNode:
		sb.WriteString(n.Data)
		return
	case html.ElementNode:
		if skipTags[n.Data] {
			return
		}
		if id, ok := elementID(n); ok {
			*elements = append(*elements, entity.InteractableElement{
				ID:    id,
				Tag:   n.Data,
				Label: elementLabel(n),
			})
		}
	}

	for c := n.FirstChild; c != nil; c = c.NextSibling {
		collect(c, sb, elements)
	}

	// Block-ish elements break the text flow.
	if n.Type == html.ElementNode {
		sb.WriteString("\n")
	}
}

func elementID(n *html.Node) (int, bool) {
	for _, attr := range n.Attr {
		if attr.Key == IDAttr {
			id, err := strconv.Atoi(attr.Val)
			if err != nil || id <= 0 {
				return 0, false
			}
			return id, true
		}
	}
	return 0, false
}

// elementLabel picks the most descriptive short text for an element: its
// trimmed text content, else placeholder, value or aria-label.
func elementLabel(n *html.Node) string {
	var sb strings.Builder
	var walk func(*html.Node)
	walk = func(c *html.Node) {
		if c.Type == html.TextNode {
			sb.WriteString(c.Data)
		}
		for gc := c.FirstChild; gc != nil; gc = gc.NextSibling {
			walk(gc)
		}
	}
	walk(n)

	if label := strings.TrimSpace(normalizeSpace(sb.String())); label != "" {
		return label
	}

	for _, key := range []string{"placeholder", "value", "aria-label", "title", "alt"} {
		for _, attr := range n.Attr {
			if attr.Key == key && strings.TrimSpace(attr.Val) != "" {
				return strings.TrimSpace(attr.Val)
			}
		}
	}
	return ""
}

// normalizeSpace collapses runs of blank lines and trims trailing spaces,
// keeping single newlines so structure survives.
func normalizeSpace(s string) string {
	lines := strings.Split(s, "\n")
	out := make([]string, 0, len(lines))
	blank := false
	for _, line := range lines {
		line = strings.TrimSpace(line)
		if line == "" {
			if !blank && len(out) > 0 {
				out = append(out, "")
			}
			blank = true
			continue
		}
		blank = false
		out = append(out, line)
	}
	for len(out) > 0 && out[len(out)-1] == "" {
		out = out[:len(out)-1]
	}
	return strings.Join(out, "\n")
}
