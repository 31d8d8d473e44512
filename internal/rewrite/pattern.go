package rewrite

import (
	"strings"

	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// renderPattern renders a pattern node to text. Patterns in this
// grammar subset are always rendered inline: tuple/slice/struct-variant
// sub-patterns are joined with ", " directly, not through the List
// Formatter, so a pattern never wraps across lines.
func (c *Context) renderPattern(n *syntax.Node) string {
	switch n.Kind {
	case syntax.KindPatRest:
		return ".."
	case syntax.KindPatWildcard:
		return "_"
	case syntax.KindPatLit:
		return n.Text
	case syntax.KindPatIdent:
		prefix := ""
		if n.Mutable {
			prefix = "mut "
		}
		return prefix + n.Name
	case syntax.KindPatOr:
		parts := make([]string, len(n.Children))
		for i, sub := range n.Children {
			parts[i] = c.renderPattern(sub)
		}
		return strings.Join(parts, " | ")
	case syntax.KindPatTuple:
		return "(" + c.renderPatternSeq(n.Children, true) + ")"
	case syntax.KindPatSlice:
		return "[" + c.renderPatternSeq(n.Children, false) + "]"
	case syntax.KindPatPath:
		if len(n.Children) == 0 {
			return n.Name
		}
		if isStructFieldPatSeq(n.Children) {
			return n.Name + " { " + c.renderFieldPatSeq(n.Children) + " }"
		}
		return n.Name + "(" + c.renderPatternSeq(n.Children, true) + ")"
	default:
		return n.Text
	}
}

// renderPatternSeq renders a comma-joined pattern list, applying
// condense_wildcard_suffixes when enabled: a trailing run of bare `_`
// patterns (never a leading or interior run, per the original
// implementation's patterns.rs) collapses to a single `..`.
func (c *Context) renderPatternSeq(pats []*syntax.Node, condenseEligible bool) string {
	pats = c.maybeCondenseWildcardSuffix(pats, condenseEligible)
	parts := make([]string, len(pats))
	for i, p := range pats {
		parts[i] = c.renderPattern(p)
	}
	return strings.Join(parts, ", ")
}

func (c *Context) maybeCondenseWildcardSuffix(pats []*syntax.Node, eligible bool) []*syntax.Node {
	if !eligible || !c.Cfg.CondenseWildcardSuffixes || len(pats) < 2 {
		return pats
	}
	// Find the longest trailing run of bare wildcards.
	end := len(pats)
	start := end
	for start > 0 && pats[start-1].Kind == syntax.KindPatWildcard {
		start--
	}
	runLen := end - start
	if runLen < 2 {
		return pats
	}
	out := make([]*syntax.Node, 0, start+1)
	out = append(out, pats[:start]...)
	out = append(out, &syntax.Node{Kind: syntax.KindPatRest})
	return out
}

func isStructFieldPatSeq(children []*syntax.Node) bool {
	for _, ch := range children {
		if ch.Kind != syntax.KindStructField && ch.Kind != syntax.KindPatRest {
			return false
		}
	}
	return len(children) > 0
}

func (c *Context) renderFieldPatSeq(fields []*syntax.Node) string {
	parts := make([]string, len(fields))
	for i, f := range fields {
		if f.Kind == syntax.KindPatRest {
			parts[i] = ".."
			continue
		}
		sub := f.Children[0]
		if sub.Kind == syntax.KindPatIdent && sub.Name == f.Name && !sub.Mutable {
			parts[i] = f.Name
			continue
		}
		parts[i] = f.Name + ": " + c.renderPattern(sub)
	}
	return strings.Join(parts, ", ")
}
