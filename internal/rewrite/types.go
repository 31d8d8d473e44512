package rewrite

import "strings"

// renderType normalizes a raw captured type string's punctuation
// density: spacing around top-level `+` (trait-bound combination,
// e.g. `dyn Trait + Send`) and `=` (associated-type binding, e.g.
// `Item = u32`) follows type_punctuation_density; nesting inside
// `<...>`, `(...)`, or `[...]` is left untouched since those
// punctuation marks belong to a nested type, not this one's own
// density.
func (c *Context) renderType(raw string) string {
	wide := c.Cfg.TypePunctuationDensity != "Compressed"
	var b strings.Builder
	depth := 0
	i := 0
	for i < len(raw) {
		ch := raw[i]
		switch ch {
		case '<', '(', '[':
			depth++
			b.WriteByte(ch)
			i++
		case '>', ')', ']':
			depth--
			b.WriteByte(ch)
			i++
		case '+', '=':
			if depth != 0 {
				b.WriteByte(ch)
				i++
				continue
			}
			trimTrailingSpace(&b)
			if wide {
				b.WriteByte(' ')
				b.WriteByte(ch)
				b.WriteByte(' ')
			} else {
				b.WriteByte(ch)
			}
			i++
			for i < len(raw) && raw[i] == ' ' {
				i++
			}
		default:
			b.WriteByte(ch)
			i++
		}
	}
	return b.String()
}

func trimTrailingSpace(b *strings.Builder) {
	s := strings.TrimRight(b.String(), " ")
	b.Reset()
	b.WriteString(s)
}

// colonSep renders the `:` separator used between a name and its type
// (fn params, let bindings, struct fields), honoring
// space_before_colon/space_after_colon.
func (c *Context) colonSep() string {
	s := ""
	if c.Cfg.SpaceBeforeColon {
		s += " "
	}
	s += ":"
	if c.Cfg.SpaceAfterColon {
		s += " "
	}
	return s
}
