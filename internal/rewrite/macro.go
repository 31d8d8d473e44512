package rewrite

import (
	"strings"

	"github.com/tidyfmt/tidyfmt/internal/lists"
	"github.com/tidyfmt/tidyfmt/internal/shape"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// closerFor returns the delimiter matching opener, the inverse of what
// the parser already knows at capture time but this package only sees
// through Node.Delim.
func closerFor(opener string) string {
	switch opener {
	case "(":
		return ")"
	case "[":
		return "]"
	default:
		return "}"
	}
}

// rewriteMacroCall applies use_try_shorthand when the call is eligible,
// otherwise lays out the macro's comma-separated arguments through the
// List Formatter when format_macro_bodies is enabled, falling back to
// the raw captured text verbatim (spec §4.7's "macro bodies are
// formatted on a best-effort basis" contract).
func (c *Context) rewriteMacroCall(n *syntax.Node, s shape.Shape) Result {
	if c.Cfg.UseTryShorthand && n.Name == "try" && len(n.Children) == 1 {
		return Ok(c.render(n.Children[0], s) + "?")
	}

	if !c.Cfg.FormatMacroBodies {
		return Ok(n.Name + "!" + n.Delim + n.Text + closerFor(n.Delim))
	}

	args := splitTopLevelCommas(n.Text)
	allBlank := true
	for _, a := range args {
		if strings.TrimSpace(a) != "" {
			allBlank = false
			break
		}
	}
	if allBlank {
		return Ok(n.Name + "!" + n.Delim + closerFor(n.Delim))
	}

	items := make([]lists.Item, len(args))
	for i, a := range args {
		items[i] = lists.Item{Text: strings.TrimSpace(a)}
	}
	opts := c.listOptions(lists.HorizontalVertical, ",", lists.Back, lists.Never, n.Delim, closerFor(n.Delim), false, false)
	out, _ := lists.Format(s.SubWidth(uint32(len(n.Name)+1)), items, opts)
	return Ok(n.Name + "!" + out)
}

// renderMacroRules reformats a macro_rules! definition's matcher/body
// pairs when format_macro_matchers or format_macro_bodies is enabled.
// The parser captures the whole definition as opaque token soup
// (syntax.parseMacroRules), so reformatting here is limited to
// splitting the rules on their top-level `;` separators and re-emitting
// each trimmed rule on its own line, rather than a full re-parse of
// each matcher's fragment grammar.
func (c *Context) renderMacroRules(n *syntax.Node) string {
	if !c.Cfg.FormatMacroMatchers && !c.Cfg.FormatMacroBodies {
		return n.Text
	}
	body := strings.TrimSpace(strings.TrimSuffix(n.Text[strings.Index(n.Text, "{")+1:], "}"))
	rules := splitTopLevelRules(body)
	var b strings.Builder
	b.WriteString("macro_rules! ")
	b.WriteString(n.Name)
	b.WriteString(" {\n")
	for _, r := range rules {
		r = strings.TrimSpace(r)
		if r == "" {
			continue
		}
		b.WriteString("    ")
		b.WriteString(r)
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

// splitTopLevelRules splits a macro_rules! body into its individual
// `(matcher) => {body}` rules on top-level `;` separators.
func splitTopLevelRules(body string) []string {
	var parts []string
	depth := 0
	start := 0
	for i := 0; i < len(body); i++ {
		switch body[i] {
		case '(', '[', '{':
			depth++
		case ')', ']', '}':
			depth--
		case ';':
			if depth == 0 {
				parts = append(parts, body[start:i])
				start = i + 1
			}
		}
	}
	if strings.TrimSpace(body[start:]) != "" {
		parts = append(parts, body[start:])
	}
	return parts
}
