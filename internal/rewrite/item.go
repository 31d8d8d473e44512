package rewrite

import (
	"sort"
	"strings"

	"github.com/tidyfmt/tidyfmt/internal/lists"
	"github.com/tidyfmt/tidyfmt/internal/shape"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// visPrefix renders an item's visibility modifier followed by a
// trailing space, or the empty string for private items.
func visPrefix(n *syntax.Node) string {
	if n.Visibility == "" {
		return ""
	}
	return n.Visibility + " "
}

// braceOpener renders the `{` that opens a block-bodied item per
// brace_style: AlwaysNextLine always puts it on its own line at the
// item's own indent; SameLineWhere (the default) does the same but
// only when the item carries a where-clause, matching the way a
// where-clause already ends its own line; PreferSameLine always keeps
// it on the signature's line.
func (c *Context) braceOpener(s shape.Shape, hasWhere bool) string {
	switch c.Cfg.BraceStyle {
	case "AlwaysNextLine":
		return "\n" + c.indentStr(s) + "{"
	case "SameLineWhere":
		if hasWhere {
			return "\n" + c.indentStr(s) + "{"
		}
		return " {"
	default: // "PreferSameLine"
		return " {"
	}
}

// lastLineWidth returns the display width of text after its final
// newline (or the whole text, if it has none) — the column a
// subsequent fixed token would start at if appended directly.
func lastLineWidth(text string) uint32 {
	if idx := strings.LastIndexByte(text, '\n'); idx >= 0 {
		return shape.DisplayWidth(text[idx+1:])
	}
	return shape.DisplayWidth(text)
}

// renderGenerics renders an item's optional `<...>` generic parameter
// list by re-laying its raw captured text out through the List
// Formatter instead of passing it through verbatim, so a long
// parameter list participates in the width budget (and indent_style)
// like every other delimited sequence instead of silently overflowing
// or vanishing. col is the column the opening `<` would start at, used
// to align continuation lines under it when indent_style is Visual.
func (c *Context) renderGenerics(raw string, col uint32, s shape.Shape) string {
	if raw == "" {
		return ""
	}
	parts := splitTopLevelCommas(raw)
	items := make([]lists.Item, len(parts))
	for i, p := range parts {
		items[i] = lists.Item{Text: strings.TrimSpace(p)}
	}
	visual := c.Cfg.IndentStyle == "Visual"
	inner := s.BlockIndent(c.Cfg.TabSpaces)
	if visual {
		inner = s.VisualIndent(col + 1)
	}
	opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "<", ">", false, !visual)
	out, _ := lists.Format(inner, items, opts)
	return out
}

// renderWhereClause renders an item's optional where-clause: always on
// one line after the signature when where_single_line is set, else on
// that line when it fits horizontally, otherwise one predicate per line
// indented under a standalone "where", rustfmt's own layout for a
// clause that doesn't fit.
func (c *Context) renderWhereClause(raw string, s shape.Shape) string {
	if raw == "" {
		return ""
	}
	parts := splitTopLevelCommas(raw)
	items := make([]lists.Item, len(parts))
	for i, p := range parts {
		parts[i] = strings.TrimSpace(p)
		items[i] = lists.Item{Text: parts[i]}
	}
	if c.Cfg.WhereSingleLine {
		return " where " + strings.Join(parts, ", ")
	}
	inner := s.BlockIndent(c.Cfg.TabSpaces)
	opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "", "", false, false)
	out, _ := lists.Format(inner, items, opts)
	if strings.Contains(out, "\n") {
		return "\n" + c.indentStr(s) + "where" + out
	}
	return " where " + out
}

func (c *Context) rewriteFn(n *syntax.Node, s shape.Shape) Result {
	var params []*syntax.Node
	var ret *syntax.Node
	var body *syntax.Node
	for _, ch := range n.Children {
		switch {
		case ch.Kind == syntax.KindTypePath && ch.Name == "->":
			ret = ch
		case ch.Kind == syntax.KindBlock:
			body = ch
		default:
			params = append(params, ch)
		}
	}

	var sig strings.Builder
	sig.WriteString(c.renderAttrs(n.Attrs, s))
	sig.WriteString(c.indentStr(s))
	sig.WriteString(visPrefix(n))
	if n.Async {
		sig.WriteString("async ")
	}
	if n.Unsafe {
		sig.WriteString("unsafe ")
	}
	sig.WriteString("fn ")
	sig.WriteString(n.Name)
	sig.WriteString(c.renderGenerics(n.Generics, lastLineWidth(sig.String()), s))
	sig.WriteString(c.renderParamList(params, s))
	if ret != nil {
		sig.WriteString(" -> ")
		sig.WriteString(c.renderType(ret.Text))
	}
	sig.WriteString(c.renderWhereClause(n.Where, s))

	if body == nil {
		sig.WriteString(";")
		return Ok(sig.String())
	}

	if line, ok := c.tryFnSingleLine(n, sig.String(), body, s); ok {
		return Ok(line)
	}

	sig.WriteString(c.braceOpener(s, n.Where != ""))
	bodyText := c.render(body, s)
	bodyText = strings.TrimPrefix(bodyText, "{")
	sig.WriteString(bodyText)
	return Ok(sig.String())
}

// tryFnSingleLine collapses `fn foo() -> T { expr }` onto one line when
// fn_single_line is set, the body is a single tail expression (no
// trailing semicolon, no trailing statement), the fn has no
// where-clause (which always forces its own line), and the result fits
// the width budget.
func (c *Context) tryFnSingleLine(n *syntax.Node, sig string, body *syntax.Node, s shape.Shape) (string, bool) {
	if !c.Cfg.FnSingleLine || n.Where != "" {
		return "", false
	}
	if len(body.Children) != 1 {
		return "", false
	}
	stmt := body.Children[0]
	if stmt.Kind != syntax.KindExprStmt || stmt.Text != "" {
		return "", false
	}
	exprText := c.render(stmt.Children[0], s)
	if shape.HasMultipleLines(exprText) {
		return "", false
	}
	line := sig + " { " + exprText + " }"
	if int(shape.DisplayWidth(line))+int(s.Offset) > s.Width {
		return "", false
	}
	return line, true
}

// renderParamList lays out a fn's parameter list per fn_args_density:
// Compressed uses the Horizontal tactic (one line, falling back to one
// parameter per line when that line does not fit), Vertical puts one
// parameter per line (a single parameter that fits stays inline), and
// Tall (the default) uses HorizontalVertical: the whole list on one
// line when it fits, otherwise one parameter per line.
func (c *Context) renderParamList(params []*syntax.Node, s shape.Shape) string {
	items := make([]lists.Item, len(params))
	for i, p := range params {
		items[i] = lists.Item{Text: renderParam(c, p)}
	}
	tactic := lists.HorizontalVertical
	switch c.Cfg.FnArgsDensity {
	case "Compressed":
		tactic = lists.Horizontal
	case "Vertical":
		tactic = lists.Vertical
	}
	opts := c.listOptions(tactic, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "(", ")", false, false)
	out, _ := lists.Format(s, items, opts)
	return out
}

func renderParam(c *Context, p *syntax.Node) string {
	if p.Text == "" {
		if p.Mutable {
			return "&mut " + p.Name
		}
		return p.Name
	}
	mut := ""
	if p.Mutable {
		mut = "mut "
	}
	return mut + p.Name + c.colonSep() + c.renderType(p.Text)
}

func (c *Context) rewriteStruct(n *syntax.Node, s shape.Shape) Result {
	attrs := c.renderAttrs(n.Attrs, s)
	indent := c.indentStr(s)
	head := attrs + indent + visPrefix(n) + "struct " + n.Name
	head += c.renderGenerics(n.Generics, lastLineWidth(head), s)

	if len(n.Children) == 0 {
		return Ok(head + c.renderWhereClause(n.Where, s) + ";")
	}
	if n.Children[0].Kind == syntax.KindTupleField {
		items := make([]lists.Item, len(n.Children))
		for i, f := range n.Children {
			items[i] = lists.Item{Text: visPrefix(f) + c.renderType(f.Text)}
		}
		opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "(", ")", false, false)
		out, _ := lists.Format(s, items, opts)
		return Ok(head + out + c.renderWhereClause(n.Where, s) + ";")
	}

	inner := s.BlockIndent(c.Cfg.TabSpaces)
	pad := fieldNamePadding(n.Children, c.Cfg.StructFieldAlignThreshold)
	items := make([]lists.Item, len(n.Children))
	for i, f := range n.Children {
		items[i] = lists.Item{Text: c.renderStructField(f, inner, pad)}
	}
	opts := c.listOptions(lists.Vertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "{", "}", true, true)
	out, _ := lists.Format(inner, items, opts)
	return Ok(head + c.renderWhereClause(n.Where, s) + " " + out)
}

// fieldNamePadding returns the common column every named field's `:`
// (or named variant discriminant's `=`) should line up under when the
// group's longest-to-shortest name-length gap is within threshold, or
// 0 when threshold is 0, the group is too small, or any member has no
// name to pad (tuple fields). Alignment works on the bare name only —
// visibility/attribute prefixes are not accounted for.
func fieldNamePadding(fields []*syntax.Node, threshold uint32) int {
	if threshold == 0 || len(fields) < 2 {
		return 0
	}
	minLen, maxLen := -1, 0
	for _, f := range fields {
		if f.Name == "" {
			return 0
		}
		l := len(f.Name)
		if minLen < 0 || l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}
	if uint32(maxLen-minLen) > threshold {
		return 0
	}
	return maxLen
}

// renderStructField renders one named field, aligning the `:` to a
// common column across the field group when pad (derived from
// struct_field_align_threshold) exceeds the field's own name length.
func (c *Context) renderStructField(f *syntax.Node, s shape.Shape, pad int) string {
	name := f.Name
	if pad > len(name) {
		name += strings.Repeat(" ", pad-len(name))
	}
	return c.renderAttrsInline(f.Attrs) + visPrefix(f) + name + c.colonSep() + c.renderType(f.Text)
}

func (c *Context) renderAttrsInline(attrs []*syntax.Node) string {
	if len(attrs) == 0 {
		return ""
	}
	var b strings.Builder
	for _, a := range mergeDerives(attrs) {
		b.WriteString("#[")
		b.WriteString(a.Name)
		if a.Text != "" {
			b.WriteByte('(')
			b.WriteString(a.Text)
			b.WriteByte(')')
		}
		b.WriteString("] ")
	}
	return b.String()
}

func (c *Context) rewriteEnum(n *syntax.Node, s shape.Shape) Result {
	attrs := c.renderAttrs(n.Attrs, s)
	indent := c.indentStr(s)
	head := attrs + indent + visPrefix(n) + "enum " + n.Name
	head += c.renderGenerics(n.Generics, lastLineWidth(head), s)
	head += c.renderWhereClause(n.Where, s)

	inner := s.BlockIndent(c.Cfg.TabSpaces)
	pad := discrimPadding(n.Children, c.Cfg.EnumDiscrimAlignThreshold)
	items := make([]lists.Item, len(n.Children))
	for i, v := range n.Children {
		items[i] = lists.Item{Text: c.renderEnumVariant(v, inner, pad)}
	}
	opts := c.listOptions(lists.Vertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "{", "}", true, true)
	out, _ := lists.Format(inner, items, opts)
	return Ok(head + " " + out)
}

// discrimPadding returns the column every unit variant with an
// explicit `= value` discriminant should pad its name to before the
// `=`, mirroring fieldNamePadding but scoped to discriminant-bearing
// variants only — variants with struct/tuple payloads don't carry a
// discriminant and don't participate in the threshold comparison.
func discrimPadding(variants []*syntax.Node, threshold uint32) int {
	if threshold == 0 {
		return 0
	}
	minLen, maxLen := -1, 0
	for _, v := range variants {
		if len(v.Children) != 0 || v.Text == "" {
			continue
		}
		l := len(v.Name)
		if minLen < 0 || l < minLen {
			minLen = l
		}
		if l > maxLen {
			maxLen = l
		}
	}
	if minLen < 0 || uint32(maxLen-minLen) > threshold {
		return 0
	}
	return maxLen
}

func (c *Context) renderEnumVariant(v *syntax.Node, s shape.Shape, pad int) string {
	if len(v.Children) == 0 {
		name := v.Name
		if v.Text != "" && pad > len(name) {
			name += strings.Repeat(" ", pad-len(name))
		}
		prefix := c.renderAttrsInline(v.Attrs) + name
		if v.Text != "" {
			return prefix + " = " + v.Text
		}
		return prefix
	}
	prefix := c.renderAttrsInline(v.Attrs) + v.Name
	if v.Children[0].Kind == syntax.KindStructField {
		items := make([]lists.Item, len(v.Children))
		for i, f := range v.Children {
			items[i] = lists.Item{Text: f.Name + c.colonSep() + c.renderType(f.Text)}
		}
		opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "{ ", " }", false, false)
		out, _ := lists.Format(s, items, opts)
		return prefix + " " + out
	}
	items := make([]lists.Item, len(v.Children))
	for i, f := range v.Children {
		items[i] = lists.Item{Text: c.renderType(f.Text)}
	}
	opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "(", ")", false, false)
	out, _ := lists.Format(s, items, opts)
	return prefix + out
}

func (c *Context) rewriteTypeAlias(n *syntax.Node, s shape.Shape) Result {
	attrs := c.renderAttrs(n.Attrs, s)
	head := attrs + c.indentStr(s) + visPrefix(n) + "type " + n.Name
	head += c.renderGenerics(n.Generics, lastLineWidth(head), s)
	return Ok(head + " = " + c.renderType(n.Text) + c.renderWhereClause(n.Where, s) + ";")
}

func (c *Context) rewriteMod(n *syntax.Node, s shape.Shape) Result {
	indent := c.indentStr(s)
	head := indent + visPrefix(n) + "mod " + n.Name
	if len(n.Children) == 0 {
		return Ok(head + ";")
	}
	return Ok(head + c.renderMemberBody(n.Children, s, false))
}

func (c *Context) rewriteConstOrStatic(n *syntax.Node, s shape.Shape) Result {
	kw := "const"
	if n.Kind == syntax.KindStatic {
		kw = "static"
	}
	mut := ""
	if n.Mutable {
		mut = "mut "
	}
	attrs := c.renderAttrs(n.Attrs, s)
	head := attrs + c.indentStr(s) + visPrefix(n) + kw + " " + mut + n.Name + c.colonSep() + c.renderType(n.Text) + " = "
	return Ok(head + c.render(n.Children[0], s.AddOffset(uint32(len(head)))) + ";")
}

func (c *Context) rewriteTrait(n *syntax.Node, s shape.Shape) Result {
	indent := c.indentStr(s)
	head := c.renderAttrs(n.Attrs, s) + indent + visPrefix(n) + "trait " + n.Name
	head += c.renderGenerics(n.Generics, lastLineWidth(head), s)
	head += c.renderWhereClause(n.Where, s)
	return Ok(head + c.renderMemberBody(n.Children, s, n.Where != ""))
}

func (c *Context) rewriteImpl(n *syntax.Node, s shape.Shape) Result {
	indent := c.indentStr(s)
	head := indent + "impl"
	head += c.renderGenerics(n.Generics, lastLineWidth(head), s)
	head += " " + n.Name
	head += c.renderWhereClause(n.Where, s)
	children := n.Children
	if c.Cfg.ReorderImplItems {
		children = reorderImplItems(children)
	}
	return Ok(head + c.renderMemberBody(children, s, n.Where != ""))
}

// reorderImplItems groups an impl block's members by kind — associated
// constants, then type aliases, then functions — preserving each
// group's relative order (a stable insertion sort by kind rank).
func reorderImplItems(items []*syntax.Node) []*syntax.Node {
	rank := func(n *syntax.Node) int {
		switch n.Kind {
		case syntax.KindConst, syntax.KindStatic:
			return 0
		case syntax.KindTypeAlias:
			return 1
		default:
			return 2
		}
	}
	out := make([]*syntax.Node, len(items))
	copy(out, items)
	for i := 1; i < len(out); i++ {
		for j := i; j > 0 && rank(out[j-1]) > rank(out[j]); j-- {
			out[j-1], out[j] = out[j], out[j-1]
		}
	}
	return out
}

// ReorderTopLevelOrder returns a permutation of items' indices with
// every maximal contiguous run of `mod` declarations sorted by name —
// an intervening non-mod item is a boundary, not merged across, the
// same contiguous-run scoping findUseGroups applies to use statements.
// Callers must render items in this permuted order but still look up
// trivia (blank lines, same-line trailing comments) by each item's
// original index, since the Trivia Extractor keys by byte offset over
// the source-ordered spans, not by render position.
func ReorderTopLevelOrder(items []*syntax.Node) []int {
	order := make([]int, len(items))
	for i := range order {
		order[i] = i
	}
	i := 0
	for i < len(items) {
		if items[i].Kind != syntax.KindMod {
			i++
			continue
		}
		j := i
		for j < len(items) && items[j].Kind == syntax.KindMod {
			j++
		}
		run := append([]int{}, order[i:j]...)
		sort.SliceStable(run, func(a, b int) bool {
			return items[run[a]].Name < items[run[b]].Name
		})
		copy(order[i:j], run)
		i = j
	}
	return order
}

func (c *Context) rewriteExternBlock(n *syntax.Node, s shape.Shape) Result {
	indent := c.indentStr(s)
	abi := ""
	if c.Cfg.ForceExplicitAbi || n.Name != "" {
		abi = n.Name + " "
	}
	head := indent + "extern " + abi
	return Ok(head + c.renderMemberBody(n.Children, s, false))
}

// renderMemberBody renders a trait/impl/extern/mod body: with no
// members and empty_item_single_line set, the braces collapse onto the
// header's own line (or its own line after a where-clause, per
// brace_style); otherwise each member goes on its own blank-line-
// separated block at the nested indent, same as always.
func (c *Context) renderMemberBody(items []*syntax.Node, s shape.Shape, hasWhere bool) string {
	if len(items) == 0 && c.Cfg.EmptyItemSingleLine {
		if hasWhere {
			return "\n" + c.indentStr(s) + "{}"
		}
		return " {}"
	}
	indent := c.indentStr(s)
	return c.braceOpener(s, hasWhere) + c.renderItemList(items, s) + "\n" + indent + "}"
}

// renderItemList renders a sequence of top-level-shaped items (trait
// members, impl members, extern-block members, inline module bodies)
// one per blank-line-separated block at the nested indent.
func (c *Context) renderItemList(items []*syntax.Node, s shape.Shape) string {
	inner := s.BlockIndent(c.Cfg.TabSpaces)
	var b strings.Builder
	for _, it := range items {
		b.WriteByte('\n')
		b.WriteString(c.render(it, inner))
		b.WriteByte('\n')
	}
	return strings.TrimSuffix(b.String(), "\n")
}
