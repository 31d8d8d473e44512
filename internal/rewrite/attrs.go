package rewrite

import (
	"strings"

	"github.com/tidyfmt/tidyfmt/internal/shape"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// renderAttrs renders an item's (already derive-merged) attribute list,
// one `#[...]` per line at the item's indent, normalizing `=`-form doc
// attributes to `///` when configured (see isDocEqualsForm).
func (c *Context) renderAttrs(attrs []*syntax.Node, s shape.Shape) string {
	attrs = mergeDerives(attrs)
	var b strings.Builder
	indent := c.indentStr(s)
	for _, a := range attrs {
		if c.Cfg.NormalizeDocAttributes && a.Name == "doc" && isDocEqualsForm(a.Text) {
			b.WriteString(indent)
			b.WriteString("///")
			b.WriteString(docAttrContent(a.Text))
			b.WriteByte('\n')
			continue
		}
		b.WriteString(indent)
		b.WriteString("#[")
		b.WriteString(a.Name)
		if a.Text != "" {
			b.WriteByte('(')
			b.WriteString(a.Text)
			b.WriteByte(')')
		}
		b.WriteString("]\n")
	}
	return b.String()
}

// mergeDerives implements the derive-merge safe rewrite: consecutive
// `#[derive(...)]` attributes on one item are combined into a single
// attribute, insertion order preserved (the original tool does not
// sort derive arguments, so neither does this).
func mergeDerives(attrs []*syntax.Node) []*syntax.Node {
	var merged []*syntax.Node
	var pendingArgs []string
	flush := func() {
		if pendingArgs == nil {
			return
		}
		merged = append(merged, &syntax.Node{
			Kind: syntax.KindAttribute,
			Name: "derive",
			Text: strings.Join(pendingArgs, ", "),
		})
		pendingArgs = nil
	}

	for _, a := range attrs {
		if a.Name != "derive" {
			flush()
			merged = append(merged, a)
			continue
		}
		for _, arg := range splitTopLevelCommas(a.Text) {
			arg = strings.TrimSpace(arg)
			if arg != "" {
				pendingArgs = append(pendingArgs, arg)
			}
		}
	}
	flush()
	return merged
}

func splitTopLevelCommas(s string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(s); i++ {
		switch s[i] {
		case '(', '<', '[':
			depth++
		case ')', '>', ']':
			depth--
		case ',':
			if depth == 0 {
				parts = append(parts, s[start:i])
				start = i + 1
			}
		}
	}
	parts = append(parts, s[start:])
	return parts
}

// isDocEqualsForm reports whether a `doc` attribute's argument text is
// the `= "..."` form (`#[doc = "text"]`) that normalize_doc_attributes
// rewrites to `/// text`. syntax.parseAttr accepts only `#[path]` and
// `#[path(args)]`, so a `#[doc = "..."]` attribute is a parse error and
// a parsed attribute never carries `=`-form text; the conversion is
// therefore not applied to any input the parser accepts.
func isDocEqualsForm(text string) bool {
	t := strings.TrimSpace(text)
	return strings.HasPrefix(t, "=")
}

func docAttrContent(text string) string {
	t := strings.TrimSpace(text)
	t = strings.TrimPrefix(t, "=")
	t = strings.TrimSpace(t)
	t = strings.TrimPrefix(t, "\"")
	t = strings.TrimSuffix(t, "\"")
	if t == "" {
		return ""
	}
	return " " + t
}
