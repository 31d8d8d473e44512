package syntax

// parseType captures a type's raw source text, tracking <>/()/[] nesting
// depth so a type's own commas/arrows don't get mistaken for the
// enclosing construct's delimiters. Types are kept as text rather than
// structured further: the handful of config options that care about
// type layout (type_punctuation_density, space_before_colon) operate as
// text-level spacing passes over this capture in internal/rewrite, since
// rustfmt itself treats most of a type's interior as "reformat spacing,
// don't restructure."
func (p *parser) parseType() *Node {
	start := p.cur().Span.Lo
	depth := 0
	consumed := false

	if p.isIdent("dyn") || p.isIdent("impl") {
		p.bump()
		consumed = true
	}
	if p.isPunct("&") {
		p.bump()
		if p.isIdent("mut") {
			p.bump()
		}
		consumed = true
	}

	for {
		t := p.cur()
		if t.Kind == TokEOF {
			p.fail("unexpected EOF inside type")
		}
		if t.Kind == TokPunct {
			switch t.Text {
			case "<", "(", "[":
				depth++
			case ">", ")", "]":
				if depth == 0 {
					goto done
				}
				depth--
			case ">>":
				// The lexer emits ">>" as one token; in a type it closes
				// two generic levels (`Vec<Box<T>>`).
				if depth < 2 {
					goto done
				}
				depth -= 2
			case ",", ";", "=", "{", "->":
				if depth == 0 {
					goto done
				}
			case "+":
				// Trait-bound combinator inside a type, e.g. `dyn A + B`;
				// keep scanning at the current depth.
			}
		}
		p.bump()
		consumed = true
	}

done:
	if !consumed {
		p.fail("expected a type")
	}
	end := p.toks[p.pos-1].Span.Hi
	return &Node{Kind: KindTypePath, Text: p.src[start:end], Span: Span{Lo: start, Hi: end}}
}
