package rewrite

import (
	"strings"

	"github.com/rivo/uniseg"
	"github.com/tidwall/btree"

	"github.com/tidyfmt/tidyfmt/internal/lists"
	"github.com/tidyfmt/tidyfmt/internal/shape"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// render is the common "rewrite a child, fall back to its original
// bytes on Failure" path every composite rewriter uses — per spec §7,
// the engine prefers producing some output to aborting on a child
// failure.
func (c *Context) render(n *syntax.Node, s shape.Shape) string {
	if n == nil {
		return ""
	}
	r := c.Rewrite(n, s)
	return mustOk(r, c.originalText(n))
}

func (c *Context) rewriteLit(n *syntax.Node, s shape.Shape) Result {
	if !c.Cfg.FormatStrings || !strings.HasPrefix(n.Text, "\"") {
		return Ok(n.Text)
	}
	return Ok(splitLongString(n.Text, int(s.Width)))
}

// splitLongString breaks a string literal that overflows width into
// concatenated adjacent literals on separate lines, splitting only at
// grapheme-cluster boundaries (never mid multi-byte rune, never mid
// combining-mark cluster) so format_strings can never corrupt content.
func splitLongString(lit string, width int) string {
	if width <= 2 || shape.DisplayWidth(lit) <= uint32(width) {
		return lit
	}
	inner := strings.TrimSuffix(strings.TrimPrefix(lit, "\""), "\"")

	var lines []string
	var cur strings.Builder
	curWidth := 0
	gr := uniseg.NewGraphemes(inner)
	for gr.Next() {
		cl := gr.Str()
		clWidth := int(shape.DisplayWidth(cl))
		if curWidth+clWidth > width-2 && cur.Len() > 0 {
			lines = append(lines, cur.String())
			cur.Reset()
			curWidth = 0
		}
		cur.WriteString(cl)
		curWidth += clWidth
	}
	if cur.Len() > 0 {
		lines = append(lines, cur.String())
	}
	for i, l := range lines {
		lines[i] = "\"" + l + "\""
	}
	return strings.Join(lines, "\n")
}

func (c *Context) rewriteBinary(n *syntax.Node, s shape.Shape) Result {
	chain := flattenBinaryChain(n)
	operands := make([]string, len(chain.operands))
	for i, op := range chain.operands {
		operands[i] = c.render(op, s)
	}

	inline := operands[0]
	for i := 1; i < len(operands); i++ {
		inline += " " + chain.ops[i-1] + " " + operands[i]
	}
	if !shape.HasMultipleLines(inline) && int(shape.DisplayWidth(inline))+int(s.Offset) <= s.Width {
		return Ok(inline)
	}

	front := c.Cfg.BinopSeparator != "Back"
	indent := c.indentStr(s.BlockIndent(c.Cfg.TabSpaces))
	var b strings.Builder
	b.WriteString(operands[0])
	for i := 1; i < len(operands); i++ {
		op := chain.ops[i-1]
		if front {
			b.WriteByte('\n')
			b.WriteString(indent)
			b.WriteString(op)
			b.WriteByte(' ')
			b.WriteString(operands[i])
		} else {
			b.WriteByte(' ')
			b.WriteString(op)
			b.WriteByte('\n')
			b.WriteString(indent)
			b.WriteString(operands[i])
		}
	}
	return Ok(b.String())
}

type binaryChain struct {
	operands []*syntax.Node
	ops      []string
}

// flattenBinaryChain walks a left-leaning run of same-precedence binary
// nodes (the parser's binaryLevel always builds left-leaning trees) into
// a flat operand/operator sequence so the List Formatter's front/back
// separator convention applies uniformly across the whole chain instead
// of recursing operator-by-operator.
func flattenBinaryChain(n *syntax.Node) binaryChain {
	var operands []*syntax.Node
	var ops []string
	var walk func(*syntax.Node)
	walk = func(n *syntax.Node) {
		if n.Kind == syntax.KindBinary && len(n.Children) == 2 && n.Children[0].Kind == syntax.KindBinary && n.Children[0].Name == n.Name {
			walk(n.Children[0])
			ops = append(ops, n.Name)
			operands = append(operands, n.Children[1])
			return
		}
		if n.Kind == syntax.KindBinary && len(n.Children) == 2 {
			operands = append(operands, n.Children[0])
			ops = append(ops, n.Name)
			operands = append(operands, n.Children[1])
			return
		}
		operands = append(operands, n)
	}
	walk(n)
	return binaryChain{operands: operands, ops: ops}
}

func (c *Context) rewriteUnary(n *syntax.Node, s shape.Shape) Result {
	operand := c.render(n.Children[0], s.SubWidth(uint32(len(n.Name))))
	sep := ""
	if n.Name == "&mut" {
		sep = " "
	}
	return Ok(n.Name + sep + operand)
}

func (c *Context) rewriteCall(n *syntax.Node, s shape.Shape) Result {
	callee := c.render(n.Children[0], s)
	args := n.Children[1:]
	return Ok(callee + c.renderArgList(args, s.SubWidth(uint32(len(callee)))))
}

// renderArgList lays out a call/method-call argument list, applying
// the overflow-last-argument heuristic (spec §4.4, narrowed per the
// original implementation's overflow.rs per SPEC_FULL.md §10): the
// single trailing argument may extend past the list's own closing
// delimiter when it is block-like and every earlier argument already
// fit on the opening line.
func (c *Context) renderArgList(args []*syntax.Node, s shape.Shape) string {
	if len(args) == 0 {
		return "()"
	}

	if c.Cfg.OverflowDelimitedExpr {
		if out, ok := c.tryOverflowLastArg(args, s); ok {
			return out
		}
	}

	items := make([]lists.Item, len(args))
	for i, a := range args {
		items[i] = lists.Item{Text: c.render(a, s.BlockIndent(c.Cfg.TabSpaces))}
	}
	opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "(", ")", false, false)
	out, err := lists.Format(s, items, opts)
	if err != nil {
		return formatVerticalFallback(c, items, s)
	}
	return out
}

// tryOverflowLastArg renders every argument but the last inline; if
// those fit on the opening line and the last argument is block-like
// (closure, array, struct literal, or macro call with brace delimiter),
// it renders the last argument with a fresh full-width Shape so it can
// extend past the call's own closing paren instead of forcing the
// whole list vertical.
func (c *Context) tryOverflowLastArg(args []*syntax.Node, s shape.Shape) (string, bool) {
	last := args[len(args)-1]
	if !isBlockLike(last) {
		return "", false
	}
	head := args[:len(args)-1]

	headTexts := make([]string, len(head))
	width := 1 // opening paren
	for i, a := range head {
		t := c.render(a, s)
		if shape.HasMultipleLines(t) {
			return "", false
		}
		headTexts[i] = t
		width += int(shape.DisplayWidth(t)) + 2 // ", "
	}
	if width > s.Width {
		return "", false
	}

	lastRendered := c.render(last, s.SubWidth(uint32(width)))
	var b strings.Builder
	b.WriteByte('(')
	for i, t := range headTexts {
		if i > 0 {
			b.WriteString(", ")
		}
		b.WriteString(t)
	}
	if len(headTexts) > 0 {
		b.WriteString(", ")
	}
	b.WriteString(lastRendered)
	b.WriteByte(')')

	inline := b.String()
	if !shape.HasMultipleLines(inline) && int(shape.DisplayWidth(inline)) > s.Width {
		return "", false
	}
	return inline, true
}

func isBlockLike(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindClosure, syntax.KindArray, syntax.KindStructLit, syntax.KindBlock:
		return true
	case syntax.KindMacroCall:
		return n.Delim == "{"
	}
	return false
}

func formatVerticalFallback(c *Context, items []lists.Item, s shape.Shape) string {
	opts := c.listOptions(lists.Vertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "(", ")", true, true)
	out, _ := lists.Format(s, items, opts)
	return out
}

func (c *Context) rewriteIf(n *syntax.Node, s shape.Shape) Result {
	if n.Name == "let" {
		pat, rhs, then := n.Children[0], n.Children[1], n.Children[2]
		head := "if let " + c.renderPattern(pat) + " = " + c.render(rhs, s)
		out := head + c.controlBodySep(c.render(then, s), s)
		if len(n.Children) > 3 {
			out += c.renderElse(n.Children[3], s)
		}
		return Ok(out)
	}

	cond, then := n.Children[0], n.Children[1]
	head := "if " + c.render(cond, s)
	out := head + c.controlBodySep(c.render(then, s), s)
	if len(n.Children) > 2 {
		out += c.renderElse(n.Children[2], s)
	}
	return Ok(out)
}

// controlBodySep renders the separator between a control-flow head
// (`if cond`, `while cond`, `for pat in iter`, `loop`) and its block
// body per control_brace_style: AlwaysNextLine moves the body's `{`
// onto its own line at the head's indent; anything else keeps it on
// the head's line (the closing `}` is already always on its own line,
// regardless of this setting).
func (c *Context) controlBodySep(body string, s shape.Shape) string {
	if c.Cfg.ControlBraceStyle != "AlwaysNextLine" {
		return " " + body
	}
	idx := strings.IndexByte(body, '{')
	if idx < 0 {
		return " " + body
	}
	return " " + strings.TrimRight(body[:idx], " ") + "\n" + c.indentStr(s) + body[idx:]
}

// renderElse renders the `else` keyword and its arm. control_brace_style
// ClosingNextLine and AlwaysNextLine both put "else" on its own line
// after the preceding block's closing brace; AlwaysSameLine (the
// default) keeps it on the same line as that brace.
func (c *Context) renderElse(elseNode *syntax.Node, s shape.Shape) string {
	if c.Cfg.ControlBraceStyle == "ClosingNextLine" || c.Cfg.ControlBraceStyle == "AlwaysNextLine" {
		return "\n" + c.indentStr(s) + "else " + c.render(elseNode, s)
	}
	return " else " + c.render(elseNode, s)
}

func (c *Context) rewriteWhile(n *syntax.Node, s shape.Shape) Result {
	if n.Name == "let" {
		pat, rhs, body := n.Children[0], n.Children[1], n.Children[2]
		head := "while let " + c.renderPattern(pat) + " = " + c.render(rhs, s)
		return Ok(head + c.controlBodySep(c.render(body, s), s))
	}
	cond, body := n.Children[0], n.Children[1]
	return Ok("while " + c.render(cond, s) + c.controlBodySep(c.render(body, s), s))
}

func (c *Context) rewriteLoop(n *syntax.Node, s shape.Shape) Result {
	return Ok("loop" + c.controlBodySep(c.render(n.Children[0], s), s))
}

func (c *Context) rewriteFor(n *syntax.Node, s shape.Shape) Result {
	pat, iter, body := n.Children[0], n.Children[1], n.Children[2]
	head := "for " + c.renderPattern(pat) + " in " + c.render(iter, s)
	return Ok(head + c.controlBodySep(c.render(body, s), s))
}

func (c *Context) rewriteMatch(n *syntax.Node, s shape.Shape) Result {
	scrutinee := n.Children[0]
	arms := n.Children[1:]
	body := s.BlockIndent(c.Cfg.TabSpaces)
	indent := c.indentStr(body)

	var b strings.Builder
	b.WriteString("match ")
	b.WriteString(c.render(scrutinee, s))
	b.WriteString(" {")
	for _, arm := range arms {
		b.WriteByte('\n')
		b.WriteString(indent)
		armText := c.renderMatchArm(arm, body)
		b.WriteString(armText)
		if c.Cfg.MatchBlockTrailingComma || !strings.HasSuffix(armText, "}") {
			b.WriteByte(',')
		}
	}
	b.WriteByte('\n')
	b.WriteString(c.indentStr(s))
	b.WriteByte('}')
	return Ok(b.String())
}

// renderMatchArm renders one `pattern [if guard] => body` arm. When
// match_arm_blocks is set and a non-block body either spans multiple
// lines or overflows the width budget on this line, it gets wrapped in
// its own `{ }` block instead of being left to overflow unbounded.
func (c *Context) renderMatchArm(arm *syntax.Node, s shape.Shape) string {
	pat := arm.Children[0]
	bodyIdx := 1
	var guard string
	if len(arm.Children) == 3 {
		guard = " if " + c.render(arm.Children[1], s)
		bodyIdx = 2
	}
	body := arm.Children[bodyIdx]
	prefix := c.renderPattern(pat) + guard + " => "
	bodyText := c.render(body, s)

	if c.Cfg.MatchArmBlocks && body.Kind != syntax.KindBlock {
		line := prefix + bodyText
		if shape.HasMultipleLines(bodyText) || int(shape.DisplayWidth(line))+int(s.Offset) > s.Width {
			inner := s.BlockIndent(c.Cfg.TabSpaces)
			wrapped := c.render(body, inner)
			return prefix + "{\n" + c.indentStr(inner) + wrapped + "\n" + c.indentStr(s) + "}"
		}
	}
	return prefix + bodyText
}

func (c *Context) rewriteBlock(n *syntax.Node, s shape.Shape) Result {
	prefix := ""
	if n.Unsafe {
		prefix = "unsafe "
	}
	if len(n.Children) == 0 {
		return Ok(prefix + "{}")
	}

	inner := s.BlockIndent(c.Cfg.TabSpaces)
	indent := c.indentStr(inner)

	trivia := extractStmtTrivia(c.File, n)

	var b strings.Builder
	b.WriteString(prefix)
	b.WriteString("{")
	for _, stmt := range n.Children {
		tr := trivia.Get(stmt.Span.Lo)
		blanks := clampInt(tr.LeadingBlankLines, int(c.Cfg.BlankLinesLowerBound), int(c.Cfg.BlankLinesUpperBound))
		for _, cm := range tr.LeadingComments {
			b.WriteByte('\n')
			b.WriteString(indent)
			b.WriteString(cm.Text)
		}
		for j := 0; j < blanks; j++ {
			b.WriteByte('\n')
		}
		b.WriteByte('\n')
		b.WriteString(indent)
		b.WriteString(c.render(stmt, inner))
	}
	b.WriteByte('\n')
	b.WriteString(c.indentStr(s))
	b.WriteByte('}')
	return Ok(b.String())
}

func clampInt(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}

// extractStmtTrivia builds a one-off stmtTrivia lookup over a block's
// direct statement spans. It's intentionally not cached across calls
// (blocks are rewritten once, top-to-bottom, per the engine's
// single-threaded recursive-descent control flow). It does not use
// internal/trivia's Map: stmtTrivia keeps its own btree index and
// classifies each gap with classifyGapSimple.
func extractStmtTrivia(f *syntax.File, block *syntax.Node) *stmtTrivia {
	if f == nil || len(block.Children) == 0 {
		return &stmtTrivia{}
	}
	spans := make([]syntax.Span, len(block.Children))
	for i, ch := range block.Children {
		spans[i] = ch.Span
	}
	return &stmtTrivia{spans: spans, src: f.Source(), lo: block.Span.Lo + 1}
}

// stmtTrivia is a minimal adapter so expr.go need not import
// internal/trivia directly for this narrow "leading comments/blanks per
// statement" query; internal/format's assembler uses the full
// trivia.Map/Extract API for the document-level (item) pass.
type stmtTrivia struct {
	spans []syntax.Span
	src   string
	lo    int // first byte after the block's opening brace
	cache *btree.Map[int, stmtLead]
}

type stmtLead struct {
	LeadingBlankLines int
	LeadingComments   []stmtComment
}

type stmtComment struct{ Text string }

func (t *stmtTrivia) Get(start int) stmtLead {
	if t.cache == nil {
		t.build()
	}
	v, _ := t.cache.Get(start)
	return v
}

func (t *stmtTrivia) build() {
	t.cache = &btree.Map[int, stmtLead]{}
	prevHi := t.lo
	for _, sp := range t.spans {
		gap := t.src[prevHi:sp.Lo]
		t.cache.Set(sp.Lo, classifyGapSimple(gap))
		prevHi = sp.Hi
	}
}

// classifyGapSimple is a narrow, block-scoped re-implementation of the
// blank-line/leading-comment half of internal/trivia's classifyGap: it
// skips same-line trailing-comment detection, so a `// comment` after a
// statement on that statement's own line is returned as a leading
// comment of the next statement (an accepted simplification, see
// DESIGN.md).
func classifyGapSimple(gap string) stmtLead {
	var out stmtLead
	lines := strings.Split(gap, "\n")
	for i, line := range lines {
		t := strings.TrimSpace(line)
		if t == "" {
			// The first piece is the end of the previous line and the last
			// is the indentation before the statement; only whole lines
			// between them are blank lines.
			if i > 0 && i < len(lines)-1 {
				out.LeadingBlankLines++
			}
			continue
		}
		if strings.HasPrefix(t, "//") || strings.HasPrefix(t, "/*") {
			out.LeadingComments = append(out.LeadingComments, stmtComment{Text: t})
		}
	}
	return out
}

func (c *Context) rewriteClosure(n *syntax.Node, s shape.Shape) Result {
	params := n.Children[:len(n.Children)-1]
	body := n.Children[len(n.Children)-1]

	parts := make([]string, len(params))
	for i, p := range params {
		if p.Text == "" {
			parts[i] = p.Name
		} else {
			parts[i] = p.Name + c.colonSep() + c.renderType(p.Text)
		}
	}

	prefix := ""
	if n.Name == "move" {
		prefix = "move "
	}
	ret := ""
	if n.Text != "" {
		ret = " -> " + c.renderType(n.Text) + " "
	}

	bodyText := c.render(body, s)
	if ret == "" && c.Cfg.ForceMultilineBlocks && shape.HasMultipleLines(bodyText) && body.Kind != syntax.KindBlock {
		bodyText = "{ " + bodyText + " }"
	}

	return Ok(prefix + "|" + strings.Join(parts, ", ") + "|" + ret + bodyText)
}

func (c *Context) rewriteTuple(n *syntax.Node, s shape.Shape) Result {
	items := make([]lists.Item, len(n.Children))
	for i, e := range n.Children {
		items[i] = lists.Item{Text: c.render(e, s)}
	}
	opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, lists.VerticalOnly, "(", ")", false, false)
	out, err := lists.Format(s, items, opts)
	if err != nil {
		return Fail(WidthExceeded)
	}
	return Ok(out)
}

func (c *Context) rewriteArray(n *syntax.Node, s shape.Shape) Result {
	if n.Name == "repeat" {
		return Ok("[" + c.render(n.Children[0], s) + "; " + c.render(n.Children[1], s) + "]")
	}
	items := make([]lists.Item, len(n.Children))
	for i, e := range n.Children {
		items[i] = lists.Item{Text: c.render(e, s)}
	}
	opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), "[", "]", false, false)
	out, err := lists.Format(s, items, opts)
	if err != nil {
		return Fail(WidthExceeded)
	}
	return Ok(out)
}

func (c *Context) rewriteStructLit(n *syntax.Node, s shape.Shape) Result {
	fields := n.Children
	items := make([]lists.Item, len(fields))
	for i, f := range fields {
		items[i] = lists.Item{Text: c.renderFieldInit(f, s)}
	}

	inner := s.BlockIndent(c.Cfg.TabSpaces)
	opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, trailingPolicy(c.Cfg.TrailingComma), n.Name+" { ", " }", false, false)
	if c.Cfg.UseSmallHeuristics == "Off" {
		opts.Tactic = lists.Vertical
	}

	out, err := lists.Format(inner, items, opts)
	if err != nil {
		return Fail(WidthExceeded)
	}
	return Ok(out)
}

func (c *Context) renderFieldInit(f *syntax.Node, s shape.Shape) string {
	if f.Name == ".." {
		return ".." + c.render(f.Children[0], s)
	}
	val := f.Children[0]
	if c.Cfg.UseFieldInitShorthand && val.Kind == syntax.KindPath && val.Name == f.Name {
		return f.Name
	}
	return f.Name + ": " + c.render(val, s)
}

func (c *Context) rewriteRange(n *syntax.Node, s shape.Shape) Result {
	pad := ""
	if c.Cfg.SpacesAroundRanges {
		pad = " "
	}
	lo, hi := "", ""
	if len(n.Children) == 2 {
		lo, hi = c.render(n.Children[0], s), c.render(n.Children[1], s)
	} else if len(n.Children) == 1 {
		lo = c.render(n.Children[0], s)
	}
	return Ok(lo + pad + n.Name + pad + hi)
}

func (c *Context) rewriteCast(n *syntax.Node, s shape.Shape) Result {
	return Ok(c.render(n.Children[0], s) + " as " + c.renderType(n.Text))
}

func (c *Context) rewriteAssign(n *syntax.Node, s shape.Shape) Result {
	lhs := c.render(n.Children[0], s)
	rhs := c.render(n.Children[1], s.AddOffset(uint32(len(lhs)+3)))
	return Ok(lhs + " " + n.Name + " " + rhs)
}

func (c *Context) rewriteTry(n *syntax.Node, s shape.Shape) Result {
	return Ok(c.render(n.Children[0], s) + "?")
}

// rewriteJump renders return/break/continue, owning its own trailing
// semicolon per trailing_semicolon rather than deferring to the
// enclosing KindExprStmt — rewriteExprStmt skips its own semicolon for
// a jump child so the two never double up.
func (c *Context) rewriteJump(n *syntax.Node, s shape.Shape) Result {
	kw := map[syntax.Kind]string{syntax.KindReturn: "return", syntax.KindBreak: "break", syntax.KindContinue: "continue"}[n.Kind]
	out := kw
	if len(n.Children) > 0 {
		out += " " + c.render(n.Children[0], s)
	}
	if c.Cfg.TrailingSemicolon {
		out += ";"
	}
	return Ok(out)
}

func (c *Context) rewriteParen(n *syntax.Node, s shape.Shape) Result {
	inner := n.Children[0]
	if c.Cfg.RemoveNestedParens && !needsParens(inner) {
		return Ok(c.render(inner, s))
	}
	return Ok("(" + c.render(inner, s) + ")")
}

func needsParens(n *syntax.Node) bool {
	switch n.Kind {
	case syntax.KindBinary, syntax.KindCast, syntax.KindRange, syntax.KindAssign, syntax.KindUnary:
		return true
	default:
		return false
	}
}

func (c *Context) rewriteLet(n *syntax.Node, s shape.Shape) Result {
	pat := c.renderPattern(n.Children[0])
	tyPart := ""
	if n.Text != "" {
		tyPart = c.colonSep() + c.renderType(n.Text)
	}
	if len(n.Children) == 1 {
		return Ok("let " + pat + tyPart + ";")
	}
	init := n.Children[1]
	head := "let " + pat + tyPart + " = "
	return Ok(head + c.render(init, s.AddOffset(uint32(len(head)))) + ";")
}

func (c *Context) rewriteExprStmt(n *syntax.Node, s shape.Shape) Result {
	inner := n.Children[0]
	rendered := c.render(inner, s)
	switch inner.Kind {
	case syntax.KindReturn, syntax.KindBreak, syntax.KindContinue:
		return Ok(rendered)
	default:
		return Ok(rendered + n.Text)
	}
}

func (c *Context) rewriteIndex(n *syntax.Node, s shape.Shape) Result {
	return Ok(c.render(n.Children[0], s) + "[" + c.render(n.Children[1], s) + "]")
}
