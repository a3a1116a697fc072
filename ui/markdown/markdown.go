// Package markdown renders the markdown subset answers use into styled
// terminal text. Parsing is done by goldmark; styling by lipgloss.
package markdown

import (
	"fmt"
	"strings"

	"github.com/yuin/goldmark"
	"github.com/yuin/goldmark/ast"
	"github.com/yuin/goldmark/text"

	"github.com/Rorical/EcoChat/ui/styles"
)

var md = goldmark.New()

// Render converts markdown source to terminal text. Unknown nodes fall back
// to their plain text.
func Render(source string) string {
	src := []byte(source)
	doc := md.Parser().Parse(text.NewReader(src))
	r := renderer{src: src}
	return strings.TrimRight(r.blocks(doc), "\n")
}

type renderer struct {
	src []byte
}

// blocks renders every child block of n, one per line group.
func (r renderer) blocks(n ast.Node) string {
	var parts []string
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		if s := r.block(child); s != "" {
			parts = append(parts, s)
		}
	}
	return strings.Join(parts, "\n")
}

func (r renderer) block(n ast.Node) string {
	switch node := n.(type) {
	case *ast.Heading:
		if node.Level <= 2 {
			return styles.TitleStyle().Render(r.inline(node))
		}
		return styles.SubtitleStyle().Render(r.inline(node))
	case *ast.Paragraph, *ast.TextBlock:
		return r.inline(node)
	case *ast.FencedCodeBlock:
		return r.code(node.Lines())
	case *ast.CodeBlock:
		return r.code(node.Lines())
	case *ast.List:
		return r.list(node)
	case *ast.Blockquote:
		return prefixLines(styles.QuoteStyle().Render(r.blocks(node)), "│ ", "│ ")
	case *ast.ThematicBreak:
		return "───"
	case *ast.HTMLBlock:
		return r.lines(node.Lines())
	default:
		return r.blocks(node)
	}
}

func (r renderer) list(list *ast.List) string {
	var items []string
	index := list.Start
	for item := list.FirstChild(); item != nil; item = item.NextSibling() {
		marker := "• "
		if list.IsOrdered() {
			marker = fmt.Sprintf("%d. ", index)
			index++
		}
		body := r.blocks(item)
		items = append(items, prefixLines(body, marker, strings.Repeat(" ", len(marker))))
	}
	return strings.Join(items, "\n")
}

func (r renderer) code(lines *text.Segments) string {
	body := strings.TrimRight(r.lines(lines), "\n")
	var out []string
	for _, line := range strings.Split(body, "\n") {
		out = append(out, styles.CodeBlockStyle().Render(line))
	}
	return strings.Join(out, "\n")
}

func (r renderer) lines(lines *text.Segments) string {
	var b strings.Builder
	for i := 0; i < lines.Len(); i++ {
		seg := lines.At(i)
		b.Write(seg.Value(r.src))
	}
	return b.String()
}

func (r renderer) inline(n ast.Node) string {
	var b strings.Builder
	for child := n.FirstChild(); child != nil; child = child.NextSibling() {
		switch node := child.(type) {
		case *ast.Text:
			b.Write(node.Segment.Value(r.src))
			switch {
			case node.HardLineBreak():
				b.WriteString("\n")
			case node.SoftLineBreak():
				b.WriteString(" ")
			}
		case *ast.String:
			b.Write(node.Value)
		case *ast.CodeSpan:
			b.WriteString(styles.CodeStyle().Render(r.inline(node)))
		case *ast.Emphasis:
			if node.Level >= 2 {
				b.WriteString(styles.BoldStyle().Render(r.inline(node)))
			} else {
				b.WriteString(styles.ItalicStyle().Render(r.inline(node)))
			}
		case *ast.Link:
			b.WriteString(styles.LinkStyle().Render(r.inline(node)))
		case *ast.AutoLink:
			b.WriteString(styles.LinkStyle().Render(string(node.URL(r.src))))
		case *ast.RawHTML:
			for i := 0; i < node.Segments.Len(); i++ {
				seg := node.Segments.At(i)
				b.Write(seg.Value(r.src))
			}
		default:
			b.WriteString(r.inline(node))
		}
	}
	return b.String()
}

// prefixLines puts first before the first line and rest before the others.
func prefixLines(s, first, rest string) string {
	lines := strings.Split(s, "\n")
	for i := range lines {
		if i == 0 {
			lines[i] = first + lines[i]
		} else {
			lines[i] = rest + lines[i]
		}
	}
	return strings.Join(lines, "\n")
}
