package format

import (
	"runtime"
	"strings"

	"github.com/muesli/reflow/wordwrap"

	"github.com/tidyfmt/tidyfmt/internal/config"
	"github.com/tidyfmt/tidyfmt/internal/rewrite"
	"github.com/tidyfmt/tidyfmt/internal/shape"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
	"github.com/tidyfmt/tidyfmt/internal/trivia"
)

// Result is what FormatSource returns: spec.md §6's
// `{ rendered, diagnostics, had_errors }` public API shape.
type Result struct {
	Rendered    string
	Diagnostics []Diagnostic
	HadErrors   bool
}

// FormatSource runs the whole pipeline — parse, extract trivia, apply
// skip directives, rewrite every top-level item, reassemble with
// clamped blank lines, normalize line endings — over one compilation
// unit. A parse error aborts the run with Failure(Unparseable) per
// spec.md §6, reported as the run's only diagnostic.
func FormatSource(source []byte, filename string, cfg *config.Config) Result {
	if cfg.DisableAllFormatting {
		return Result{Rendered: string(source)}
	}

	file, err := syntax.Parse(filename, source)
	if err != nil {
		return Result{
			Rendered:  string(source),
			HadErrors: true,
			Diagnostics: []Diagnostic{{
				Kind:    Unparseable,
				Message: err.Error(),
			}},
		}
	}

	for _, item := range file.Items {
		trivia.ApplySkipDirectives(item)
	}

	spans := make([]syntax.Span, len(file.Items))
	for i, item := range file.Items {
		spans[i] = item.Span
	}
	src := file.Source()
	trivMap, findings := trivia.Extract(src, spans, len(source), cfg.TodoMarkers)

	ctx := &rewrite.Context{Cfg: cfg, File: file}
	useBlocks := ctx.RewriteUseGroups(file.Items)

	var out strings.Builder
	var diags []Diagnostic
	hadErrors := false

	skipGroupMember := inUseGroupTail(file.Items, useBlocks)

	// order is a permutation of file.Items' indices, not a physical
	// reordering: the Trivia Extractor's gaps were computed over the
	// original source-ordered spans, so every trivia/comment lookup
	// below still uses the original index oi, even while the render
	// loop itself visits items in permuted order.
	order := identityOrder(len(file.Items))
	if cfg.ReorderModules {
		order = rewrite.ReorderTopLevelOrder(file.Items)
	}

	for pos, oi := range order {
		item := file.Items[oi]
		if skipGroupMember[oi] {
			continue
		}

		lead := trivMap.Get(item.Span.Lo)
		emitLeadingTrivia(&out, lead, cfg, pos > 0)

		if rendered, ok := useBlocks[oi]; ok {
			out.WriteString(rendered)
		} else {
			text, diag := renderItem(ctx, item)
			out.WriteString(text)
			if diag != nil {
				diags = append(diags, *diag)
				if diag.Kind == WidthExceeded && cfg.ErrorOnLineOverflow {
					hadErrors = true
				}
			}
		}

		writeSameLineTrailing(&out, nextTrailingComments(file.Items, oi, trivMap))
		out.WriteByte('\n')
	}

	if len(file.Items) == 0 {
		// No item's line absorbed Tail's same-line comment via
		// nextTrailingComments, so it must be written here instead.
		writeSameLineTrailing(&out, trivMap.Tail.TrailingComments)
		if len(trivMap.Tail.TrailingComments) > 0 {
			out.WriteByte('\n')
		}
	}
	emitTailTrivia(&out, trivMap.Tail, cfg)

	for _, f := range findings {
		diags = append(diags, markerDiagnostic(f.Span, f.Marker, f.Text))
	}

	rendered := finalizeNewlines(out.String(), cfg.NewlineStyle, source)
	if cfg.ErrorOnUnformatted && rendered != string(source) {
		hadErrors = true
	}

	return Result{Rendered: rendered, Diagnostics: diags, HadErrors: hadErrors}
}

// CheckSource reports whether FormatSource would return source
// unchanged, the secondary operation spec.md §6 names.
func CheckSource(source []byte, filename string, cfg *config.Config) bool {
	return FormatSource(source, filename, cfg).Rendered == string(source)
}

// renderItem invokes the item rewriter at the file-root Shape and
// falls back to the node's original bytes on failure, recording a
// diagnostic either way a Failure result comes back.
func renderItem(ctx *rewrite.Context, item *syntax.Node) (string, *Diagnostic) {
	root := shape.Root(ctx.Cfg.MaxWidth)
	result := ctx.Rewrite(item, root)
	if result.IsOk() {
		return result.Text(), nil
	}
	diag := failureDiagnostic(result.Reason(), item.Span, itemDesc(item))
	return ctx.File.TextAt(item.Span), &diag
}

func itemDesc(n *syntax.Node) string {
	if n.Name != "" {
		return n.Name
	}
	return "item"
}

// identityOrder returns [0, 1, ..., n-1], the render order used when
// reorder_modules is off.
func identityOrder(n int) []int {
	order := make([]int, n)
	for i := range order {
		order[i] = i
	}
	return order
}

// inUseGroupTail marks every item index that is a non-leading member
// of a contiguous use-group RewriteUseGroups already collapsed into
// one rendered block, so the main loop skips re-emitting them.
func inUseGroupTail(items []*syntax.Node, groups map[int]string) []bool {
	skip := make([]bool, len(items))
	for start := range groups {
		i := start + 1
		for i < len(items) && items[i].Kind == syntax.KindUse {
			skip[i] = true
			i++
		}
	}
	return skip
}

// emitLeadingTrivia writes a node's recovered leading blank-line run
// (clamped to [lower, upper], and only between items — a file's first
// item gets no lower-bound padding) and leading comments, word-wrapped
// to cfg.CommentWidth when cfg.WrapComments is set.
func emitLeadingTrivia(out *strings.Builder, t trivia.Trivia, cfg *config.Config, betweenItems bool) {
	blanks := t.LeadingBlankLines
	if uint32(blanks) > cfg.BlankLinesUpperBound {
		blanks = int(cfg.BlankLinesUpperBound)
	}
	if betweenItems && uint32(blanks) < cfg.BlankLinesLowerBound {
		blanks = int(cfg.BlankLinesLowerBound)
	}
	for i := 0; i < blanks; i++ {
		out.WriteByte('\n')
	}
	for _, c := range t.LeadingComments {
		out.WriteString(renderComment(c, cfg))
		out.WriteByte('\n')
	}
}

// nextTrailingComments returns the same-line comment(s) attached to
// item i's own line — recorded as the TrailingComments half of the
// trivia gap leading into item i+1, or, for the last item, the gap
// leading into end-of-file (m.Tail).
func nextTrailingComments(items []*syntax.Node, i int, m *trivia.Map) []trivia.Comment {
	if i+1 < len(items) {
		return m.Get(items[i+1].Span.Lo).TrailingComments
	}
	return m.Tail.TrailingComments
}

// writeSameLineTrailing appends each comment on the current output
// line, space-separated, without its own newline.
func writeSameLineTrailing(out *strings.Builder, comments []trivia.Comment) {
	for _, c := range comments {
		out.WriteByte(' ')
		out.WriteString(c.Text)
	}
}

// emitTailTrivia writes whatever comments follow the last item on
// their own line (the last item's same-line trailing comment, if any,
// is already handled by the main loop via nextTrailingComments).
// Blank-line clamping does not apply at file boundaries (spec.md §4.8).
func emitTailTrivia(out *strings.Builder, t trivia.Trivia, cfg *config.Config) {
	for _, c := range t.LeadingComments {
		out.WriteString(renderComment(c, cfg))
		out.WriteByte('\n')
	}
}

// renderComment applies word-wrapping to a standalone Line/Doc/InnerDoc
// comment's body when cfg.WrapComments is set, re-prefixing every
// wrapped line with the comment's own marker. Block comments (`/* */`)
// and disabled wrapping pass the text through verbatim. When
// normalize_comments is set, a single-line non-doc block comment is
// first rewritten to `// ...` form — doc comments (Doc/InnerDoc) keep
// their own `/** */`/`/*! */` spelling untouched either way.
func renderComment(c trivia.Comment, cfg *config.Config) string {
	if cfg.NormalizeComments && c.Kind == trivia.Block && !strings.Contains(c.Text, "\n") {
		c = trivia.Comment{Kind: trivia.Line, Text: normalizeBlockComment(c.Text), OriginalIndent: c.OriginalIndent}
	}
	if !cfg.WrapComments {
		return c.Text
	}
	prefix, body, ok := commentBody(c)
	if !ok || cfg.CommentWidth <= uint32(len(prefix)) {
		return c.Text
	}
	wrapped := wordwrap.String(body, int(cfg.CommentWidth)-len(prefix))
	lines := strings.Split(wrapped, "\n")
	for i, l := range lines {
		lines[i] = prefix + strings.TrimRight(l, " ")
	}
	return strings.Join(lines, "\n")
}

// normalizeBlockComment rewrites a single-line `/* ... */` comment into
// `// ...` form.
func normalizeBlockComment(text string) string {
	inner := strings.TrimSuffix(strings.TrimPrefix(text, "/*"), "*/")
	return "// " + strings.TrimSpace(inner)
}

// commentBody splits a Line/Doc/InnerDoc comment into its marker
// prefix and text body; Block comments return ok=false since their
// multi-line `/* ... */` delimiters aren't safe to reflow blindly.
func commentBody(c trivia.Comment) (prefix, body string, ok bool) {
	switch c.Kind {
	case trivia.Doc:
		if strings.HasPrefix(c.Text, "///") {
			return "/// ", strings.TrimSpace(strings.TrimPrefix(c.Text, "///")), true
		}
		return "", "", false
	case trivia.InnerDoc:
		return "//! ", strings.TrimSpace(strings.TrimPrefix(c.Text, "//!")), true
	case trivia.Line:
		return "// ", strings.TrimSpace(strings.TrimPrefix(c.Text, "//")), true
	default:
		return "", "", false
	}
}

// finalizeNewlines applies the newline_style final pass (spec.md
// §4.8): Auto detects the dominant line ending already present in the
// input, Native picks by host OS, Unix/Windows force a spelling. The
// assembler itself always builds with bare "\n"; this is the one place
// "\r\n" gets introduced.
func finalizeNewlines(rendered, style string, original []byte) string {
	rendered = strings.TrimRight(rendered, "\n") + "\n"

	switch style {
	case "Unix":
		return rendered
	case "Windows":
		return toCRLF(rendered)
	case "Native":
		if runtime.GOOS == "windows" {
			return toCRLF(rendered)
		}
		return rendered
	default: // "Auto"
		if strings.Contains(string(original), "\r\n") {
			return toCRLF(rendered)
		}
		return rendered
	}
}

func toCRLF(s string) string {
	s = strings.ReplaceAll(s, "\r\n", "\n")
	return strings.ReplaceAll(s, "\n", "\r\n")
}
