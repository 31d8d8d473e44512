package syntax

// parsePattern parses a single pattern. Or-patterns (`a | b`) are
// assembled by the caller (parseMatch) since only match arms permit a
// bare top-level `|`; function parameters, `let`, and `for` all bind a
// single pattern.
func (p *parser) parsePattern() *Node {
	switch {
	case p.isPunct(".."):
		p.bump()
		return &Node{Kind: KindPatRest}

	case p.cur().Kind == TokIdent && p.cur().Text == "_":
		p.bump()
		return &Node{Kind: KindPatWildcard}

	case p.isIdent("ref") || p.isIdent("mut"):
		mut := false
		for p.isIdent("ref") || p.isIdent("mut") {
			if p.isIdent("mut") {
				mut = true
			}
			p.bump()
		}
		name := p.expectIdent().Text
		return &Node{Kind: KindPatIdent, Name: name, Mutable: mut}

	case p.cur().Kind == TokInt || p.cur().Kind == TokFloat || p.cur().Kind == TokString || p.cur().Kind == TokChar:
		t := p.bump()
		return &Node{Kind: KindPatLit, Text: t.Text}

	case p.isIdent("true") || p.isIdent("false"):
		t := p.bump()
		return &Node{Kind: KindPatLit, Text: t.Text}

	case p.isPunct("-"):
		p.bump()
		t := p.bump()
		return &Node{Kind: KindPatLit, Text: "-" + t.Text}

	case p.isPunct("("):
		p.bump()
		var elems []*Node
		for !p.isPunct(")") {
			elems = append(elems, p.parsePattern())
			if p.isPunct(",") {
				p.bump()
			}
		}
		p.bump()
		return &Node{Kind: KindPatTuple, Children: elems}

	case p.isPunct("["):
		p.bump()
		var elems []*Node
		for !p.isPunct("]") {
			elems = append(elems, p.parsePattern())
			if p.isPunct(",") {
				p.bump()
			}
		}
		p.bump()
		return &Node{Kind: KindPatSlice, Children: elems}

	case p.cur().Kind == TokIdent:
		name := p.parsePathText()
		switch {
		case p.isPunct("("):
			p.bump()
			var elems []*Node
			for !p.isPunct(")") {
				elems = append(elems, p.parsePattern())
				if p.isPunct(",") {
					p.bump()
				}
			}
			p.bump()
			return &Node{Kind: KindPatPath, Name: name, Children: elems}
		case p.isPunct("{"):
			p.bump()
			var fields []*Node
			for !p.isPunct("}") {
				if p.isPunct("..") {
					p.bump()
					fields = append(fields, &Node{Kind: KindPatRest})
					break
				}
				fname := p.expectIdent().Text
				var sub *Node
				if p.isPunct(":") {
					p.bump()
					sub = p.parsePattern()
				} else {
					sub = &Node{Kind: KindPatIdent, Name: fname}
				}
				fields = append(fields, &Node{Kind: KindStructField, Name: fname, Children: []*Node{sub}})
				if p.isPunct(",") {
					p.bump()
				}
			}
			p.bump()
			return &Node{Kind: KindPatPath, Name: name, Children: fields}
		default:
			return &Node{Kind: KindPatIdent, Name: name}
		}

	default:
		p.fail("expected pattern, found " + p.cur().Text)
		return nil
	}
}
