package rewrite

import (
	"sort"
	"strings"

	"github.com/tidyfmt/tidyfmt/internal/lists"
	"github.com/tidyfmt/tidyfmt/internal/shape"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// RenderUseTree renders one already-parsed use path back to source
// form unchanged; single-use rendering needs no layout decisions since
// the grammar subset captures the whole tree (including any `{...}`
// group or `as` rename) as one raw string.
func RenderUseTree(path string) string {
	return "use " + path + ";"
}

// useGroup is one contiguous run of KindUse items with no non-use item
// between them — the unit merge/reorder operates over. Blank lines
// between use items do not split a group.
type useGroup struct {
	start, end int // index range into the parent item slice, [start, end)
}

// RewriteUseGroups finds every contiguous run of KindUse siblings in
// items and, for each, returns the merged/reordered replacement text
// block (one `use` line per resulting statement, already
// newline-joined) keyed by
// the first item's index — the Document Assembler substitutes this
// block for the whole group's original per-item emission.
func (c *Context) RewriteUseGroups(items []*syntax.Node) map[int]string {
	out := make(map[int]string)
	groups := findUseGroups(items)
	for _, g := range groups {
		paths := make([]string, 0, g.end-g.start)
		for i := g.start; i < g.end; i++ {
			paths = append(paths, items[i].Name)
		}
		rendered := c.renderUseGroup(paths)
		out[g.start] = rendered
	}
	return out
}

func findUseGroups(items []*syntax.Node) []useGroup {
	var groups []useGroup
	i := 0
	for i < len(items) {
		if items[i].Kind != syntax.KindUse {
			i++
			continue
		}
		start := i
		for i < len(items) && items[i].Kind == syntax.KindUse {
			i++
		}
		groups = append(groups, useGroup{start: start, end: i})
	}
	return groups
}

// renderUseGroup merges (if merge_imports) and sorts (if
// reorder_imports) a group of use paths, then renders one `use`
// statement per resulting top-level prefix.
func (c *Context) renderUseGroup(paths []string) string {
	if c.Cfg.MergeImports {
		paths = c.mergeUsePaths(paths)
	}
	if c.Cfg.ReorderImports {
		sort.Strings(paths)
	}
	lines := make([]string, len(paths))
	for i, p := range paths {
		lines[i] = RenderUseTree(p)
	}
	return strings.Join(lines, "\n")
}

// mergeUsePaths collapses use paths sharing a common prefix up to the
// last `::` into one nested-brace form, e.g. `a::b`, `a::c` => `a::{b, c}`.
// Paths that are already a `{...}` group are expanded by one level
// before regrouping so a later merge pass can fold them together.
func (c *Context) mergeUsePaths(paths []string) []string {
	leaves := map[string][]string{}
	var order []string
	for _, p := range paths {
		prefix, leaf := splitUsePath(p)
		if _, ok := leaves[prefix]; !ok {
			order = append(order, prefix)
		}
		leaves[prefix] = append(leaves[prefix], leaf...)
	}

	out := make([]string, 0, len(order))
	for _, prefix := range order {
		segs := dedupStrings(leaves[prefix])
		sort.Strings(segs)
		if len(segs) == 1 {
			if prefix == "" {
				out = append(out, segs[0])
			} else {
				out = append(out, prefix+"::"+segs[0])
			}
			continue
		}
		group := c.renderImportBraceGroup(prefix, segs)
		if prefix == "" {
			out = append(out, group)
		} else {
			out = append(out, prefix+"::"+group)
		}
	}
	return out
}

// renderImportBraceGroup lays a merged group's braced tail out through
// the List Formatter — the single combinator every other delimited
// sequence in this engine goes through — driven by imports_layout and
// imports_indent, instead of an unchecked strings.Join that can emit an
// arbitrarily long line with no width check at all.
func (c *Context) renderImportBraceGroup(prefix string, segs []string) string {
	items := make([]lists.Item, len(segs))
	for i, seg := range segs {
		items[i] = lists.Item{Text: seg}
	}

	tactic := lists.Mixed
	switch c.Cfg.ImportsLayout {
	case "Horizontal":
		tactic = lists.Horizontal
	case "HorizontalVertical":
		tactic = lists.HorizontalVertical
	case "Vertical":
		tactic = lists.Vertical
	}

	head := "use "
	if prefix != "" {
		head += prefix + "::"
	}
	col := uint32(len(head))

	visual := c.Cfg.ImportsIndent == "Visual"
	indent := shape.Indent{BlockIndent: c.Cfg.TabSpaces}
	if visual {
		indent = shape.Indent{Alignment: col + 1}
	}
	s := shape.Shape{Width: int(c.Cfg.MaxWidth) - int(col), Indent: indent, Offset: col}

	opts := c.listOptions(tactic, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "{", "}", false, !visual)
	out, _ := lists.Format(s, items, opts)
	return out
}

// splitUsePath splits a path into its prefix (everything up to the
// last `::`) and its leaf segment(s). A path already ending in a
// `{...}` group yields each inner segment as a separate leaf so it can
// be regrouped alongside sibling single-segment uses.
func splitUsePath(p string) (string, []string) {
	if idx := strings.LastIndex(p, "::"); idx >= 0 {
		prefix, tail := p[:idx], p[idx+2:]
		if strings.HasPrefix(tail, "{") && strings.HasSuffix(tail, "}") {
			inner := tail[1 : len(tail)-1]
			var leaves []string
			for _, part := range splitTopLevelCommas(inner) {
				leaves = append(leaves, strings.TrimSpace(part))
			}
			return prefix, leaves
		}
		return prefix, []string{tail}
	}
	return "", []string{p}
}

func dedupStrings(in []string) []string {
	seen := map[string]bool{}
	var out []string
	for _, s := range in {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	return out
}
