package rewrite

import (
	"strings"

	"github.com/tidyfmt/tidyfmt/internal/shape"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// flattenChain walks n's left-nested receiver chain down to its root
// (the first node that isn't itself a KindMethodCall/KindFieldAccess)
// and returns the root plus the ordered list of link nodes applied to it.
func flattenChain(n *syntax.Node) (*syntax.Node, []*syntax.Node) {
	var links []*syntax.Node
	cur := n
	for cur.Kind == syntax.KindMethodCall || cur.Kind == syntax.KindFieldAccess {
		links = append(links, cur)
		cur = cur.Children[0]
	}
	// links were collected innermost-last; reverse to source order.
	for i, j := 0, len(links)-1; i < j; i, j = i+1, j-1 {
		links[i], links[j] = links[j], links[i]
	}
	return cur, links
}

func (c *Context) rewriteChain(n *syntax.Node, s shape.Shape) Result {
	root, links := flattenChain(n)
	rootText := c.render(root, s)

	linkTexts := make([]string, len(links))
	for i, link := range links {
		linkTexts[i] = c.renderChainLink(link, s)
	}

	inline := rootText
	for _, lt := range linkTexts {
		inline += lt
	}
	if len(links) <= 1 || (!shape.HasMultipleLines(inline) && int(shape.DisplayWidth(inline))+int(s.Offset) <= s.Width) {
		return Ok(inline)
	}

	// Block-indent layout: one link per continuation line, per spec
	// §4.6's default (visual alignment under the receiver is not
	// attempted here — it only pays off when the receiver itself is
	// short, and block-indent is always a safe fallback).
	inner := s.BlockIndent(c.Cfg.TabSpaces)
	indent := c.indentStr(inner)
	var b strings.Builder
	b.WriteString(rootText)
	for _, link := range links {
		b.WriteByte('\n')
		b.WriteString(indent)
		b.WriteString(c.renderChainLink(link, inner))
	}
	return Ok(b.String())
}

// renderChainLink renders a single `.field`, `.await`, or
// `.method(args)` segment. The receiver (Children[0]) is never
// re-rendered here — flattenChain already consumed it into root.
func (c *Context) renderChainLink(link *syntax.Node, s shape.Shape) string {
	if link.Kind == syntax.KindFieldAccess {
		return "." + link.Name
	}
	if link.Name == "await" {
		return ".await"
	}
	args := link.Children[1:]
	return "." + link.Name + c.renderArgList(args, s.SubWidth(uint32(len(link.Name)+1)))
}
