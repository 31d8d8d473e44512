package syntax

import (
	"fmt"
	"strings"
)

// ParseError reports a syntactic failure. Per spec §7, an Unparseable
// source aborts the whole run before the core executes — there is no
// partial/recovered AST for a file that fails to parse.
type ParseError struct {
	Pos     int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("syntax: %s (at byte %d)", e.Message, e.Pos)
}

// Parse lexes and parses src into a File named name. It returns a
// *ParseError if src does not match the supported grammar.
func Parse(name string, src []byte) (*File, error) {
	p := &parser{src: string(src)}
	p.fill()

	var items []*Node

	// Parsing errors are reported via panic(*ParseError) internally to
	// avoid threading an error return through every recursive descent
	// helper; recovered here at the single entry point.
	err := func() (err error) {
		defer func() {
			if r := recover(); r != nil {
				if pe, ok := r.(*ParseError); ok {
					err = pe
					return
				}
				panic(r)
			}
		}()
		for p.cur().Kind != TokEOF {
			items = append(items, p.parseItem())
		}
		return nil
	}()
	if err != nil {
		return nil, err
	}

	return &File{Name: name, Bytes: []byte(src), Items: items}, nil
}

type parser struct {
	src         string
	toks        []Token
	pos         int
	noStructLit bool
}

func (p *parser) fill() {
	lx := NewLexer(p.src)
	for {
		t := lx.Next()
		p.toks = append(p.toks, t)
		if t.Kind == TokEOF {
			break
		}
	}
}

func (p *parser) cur() Token  { return p.toks[p.pos] }
func (p *parser) at(n int) Token {
	if p.pos+n >= len(p.toks) {
		return p.toks[len(p.toks)-1]
	}
	return p.toks[p.pos+n]
}

func (p *parser) bump() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) isPunct(s string) bool {
	return p.cur().Kind == TokPunct && p.cur().Text == s
}

func (p *parser) isIdent(s string) bool {
	return p.cur().Kind == TokIdent && p.cur().Text == s
}

func (p *parser) fail(msg string) {
	panic(&ParseError{Pos: p.cur().Span.Lo, Message: msg})
}

func (p *parser) expectPunct(s string) Token {
	if !p.isPunct(s) {
		p.fail(fmt.Sprintf("expected %q, found %q", s, p.cur().Text))
	}
	return p.bump()
}

func (p *parser) expectIdent() Token {
	if p.cur().Kind != TokIdent {
		p.fail(fmt.Sprintf("expected identifier, found %q", p.cur().Text))
	}
	return p.bump()
}

// ---- items ----

func (p *parser) parseItem() *Node {
	start := p.cur().Span.Lo
	attrs := p.parseOuterAttrs()
	vis := p.parseVisibility()

	var n *Node
	switch {
	case p.isIdent("fn"):
		n = p.parseFn(false, false)
	case p.isIdent("async") && p.at(1).Kind == TokIdent && p.at(1).Text == "fn":
		p.bump()
		n = p.parseFn(true, false)
	case p.isIdent("unsafe") && p.at(1).Kind == TokIdent && p.at(1).Text == "fn":
		p.bump()
		n = p.parseFn(false, true)
	case p.isIdent("struct"):
		n = p.parseStruct()
	case p.isIdent("enum"):
		n = p.parseEnum()
	case p.isIdent("type"):
		n = p.parseTypeAlias()
	case p.isIdent("use"):
		n = p.parseUse()
	case p.isIdent("mod"):
		n = p.parseMod()
	case p.isIdent("const"):
		n = p.parseConstOrStatic(KindConst)
	case p.isIdent("static"):
		n = p.parseConstOrStatic(KindStatic)
	case p.isIdent("trait"):
		n = p.parseTrait()
	case p.isIdent("impl"):
		n = p.parseImpl()
	case p.isIdent("extern") && p.at(1).Kind == TokString:
		n = p.parseExternBlock()
	case p.isIdent("macro_rules"):
		n = p.parseMacroRules(start)
	default:
		p.fail(fmt.Sprintf("unexpected token %q starting an item", p.cur().Text))
		return nil
	}

	n.Attrs = attrs
	n.Visibility = vis
	n.Span.Lo = start
	n.Span.Hi = p.toks[p.pos-1].Span.Hi
	return n
}

func (p *parser) parseOuterAttrs() []*Node {
	var attrs []*Node
	for p.isPunct("#") {
		attrs = append(attrs, p.parseAttr())
	}
	return attrs
}

// parseAttr parses `#[path(args)]` or `#[path]` into a KindAttribute
// node. Name is the dotted/`::`-joined path; Text is the raw inner
// parenthesized argument text (empty if there were none).
func (p *parser) parseAttr() *Node {
	start := p.cur().Span.Lo
	p.expectPunct("#")
	p.expectPunct("[")

	name := p.parseAttrPath()

	text := ""
	if p.isPunct("(") {
		text = p.captureBalanced("(", ")")
	}

	p.expectPunct("]")
	return &Node{Kind: KindAttribute, Name: name, Text: text, Span: Span{Lo: start, Hi: p.toks[p.pos-1].Span.Hi}}
}

func (p *parser) parseAttrPath() string {
	s := p.expectIdent().Text
	for p.isPunct("::") {
		p.bump()
		s += "::" + p.expectIdent().Text
	}
	return s
}

// captureBalanced assumes the current token is open and returns the raw
// source text strictly between the matching open/close pair, advancing
// past the closer.
func (p *parser) captureBalanced(open, close string) string {
	startTok := p.expectPunct(open)
	depth := 1
	var innerLo, innerHi int
	innerLo = startTok.Span.Hi
	for depth > 0 {
		if p.cur().Kind == TokEOF {
			p.fail("unexpected EOF inside balanced group")
		}
		if p.isPunct(open) {
			depth++
		} else if p.isPunct(close) {
			depth--
			if depth == 0 {
				innerHi = p.cur().Span.Lo
				p.bump()
				break
			}
		}
		p.bump()
	}
	return p.src[innerLo:innerHi]
}

func (p *parser) parseVisibility() string {
	if !p.isIdent("pub") {
		return ""
	}
	p.bump()
	if p.isPunct("(") {
		inner := p.captureBalanced("(", ")")
		return "pub(" + inner + ")"
	}
	return "pub"
}

func (p *parser) parseFn(isAsync, isUnsafe bool) *Node {
	p.bump() // "fn"
	name := p.expectIdent().Text
	generics := p.captureGenericParams()
	p.expectPunct("(")
	var params []*Node
	for !p.isPunct(")") {
		params = append(params, p.parseParam())
		if p.isPunct(",") {
			p.bump()
		}
	}
	p.bump() // ")"

	var ret *Node
	if p.isPunct("->") {
		p.bump()
		ret = p.parseType()
	}

	where := p.captureWhereClause()

	body := p.parseBlock()

	n := &Node{Kind: KindFn, Name: name, Async: isAsync, Unsafe: isUnsafe, Generics: generics, Where: where}
	n.Children = append([]*Node{}, params...)
	if ret != nil {
		n.Children = append(n.Children, &Node{Kind: KindTypePath, Name: "->", Text: ret.Text, Span: ret.Span})
	}
	n.Children = append(n.Children, body)
	return n
}

func (p *parser) parseParam() *Node {
	start := p.cur().Span.Lo
	if p.isPunct("&") {
		// &self / &mut self receiver — capture verbatim.
		lo := p.cur().Span.Lo
		p.bump()
		if p.isIdent("mut") {
			p.bump()
		}
		name := p.expectIdent().Text
		return &Node{Kind: KindParam, Name: name, Span: Span{Lo: lo, Hi: p.toks[p.pos-1].Span.Hi}}
	}
	if p.isIdent("self") {
		t := p.bump()
		return &Node{Kind: KindParam, Name: "self", Span: t.Span}
	}
	mut := false
	if p.isIdent("mut") {
		p.bump()
		mut = true
	}
	name := p.expectIdent().Text
	p.expectPunct(":")
	ty := p.parseType()
	return &Node{Kind: KindParam, Name: name, Mutable: mut, Text: ty.Text, Span: Span{Lo: start, Hi: p.toks[p.pos-1].Span.Hi}}
}

// captureGenericParams captures the raw text between an optional
// `<...>` generic parameter list's brackets (exclusive), so the
// rewriter can re-lay it out instead of discarding it. The lexer
// tokenizes ">>" as a single punct (needed to shift-reduce nested
// generics like `Vec<Box<T>>`), so closing one counts as two levels of
// depth here. Returns "" if there is no generic parameter list.
func (p *parser) captureGenericParams() string {
	if !p.isPunct("<") {
		return ""
	}
	p.bump() // "<"
	lo := p.cur().Span.Lo
	depth := 1
	for depth > 0 {
		if p.cur().Kind == TokEOF {
			p.fail("unexpected EOF inside generic parameter list")
		}
		switch {
		case p.isPunct("<"):
			depth++
			p.bump()
		case p.isPunct(">>"):
			depth -= 2
			p.bump()
		default:
			if p.isPunct(">") {
				depth--
			}
			p.bump()
		}
	}
	hi := p.toks[p.pos-1].Span.Lo
	if p.toks[p.pos-1].Kind == TokPunct && p.toks[p.pos-1].Text == ">>" {
		// The closing ">>" belongs half to this list and half to an
		// enclosing one; only the first ">" is ours.
		hi++
	}
	return strings.TrimSpace(p.src[lo:hi])
}

// captureWhereClause captures the raw text of an optional where-clause
// (the leading "where" keyword stripped), stopping before the `{` or
// `;` that ends the clause. Returns "" if there is no where-clause.
func (p *parser) captureWhereClause() string {
	if !p.isIdent("where") {
		return ""
	}
	p.bump() // "where"
	lo := p.cur().Span.Lo
	for !p.isPunct("{") && !p.isPunct(";") {
		if p.cur().Kind == TokEOF {
			p.fail("unexpected EOF inside where clause")
		}
		p.bump()
	}
	hi := p.toks[p.pos-1].Span.Hi
	return strings.TrimSpace(p.src[lo:hi])
}

func (p *parser) parseStruct() *Node {
	p.bump() // "struct"
	name := p.expectIdent().Text
	generics := p.captureGenericParams()
	where := p.captureWhereClause()

	n := &Node{Kind: KindStruct, Name: name, Generics: generics, Where: where}

	switch {
	case p.isPunct("{"):
		p.bump()
		for !p.isPunct("}") {
			attrs := p.parseOuterAttrs()
			vis := p.parseVisibility()
			fname := p.expectIdent().Text
			p.expectPunct(":")
			ty := p.parseType()
			field := &Node{Kind: KindStructField, Name: fname, Text: ty.Text, Visibility: vis, Attrs: attrs}
			n.Children = append(n.Children, field)
			if p.isPunct(",") {
				p.bump()
			}
		}
		p.bump() // "}"
	case p.isPunct("("):
		p.bump()
		for !p.isPunct(")") {
			vis := p.parseVisibility()
			ty := p.parseType()
			n.Children = append(n.Children, &Node{Kind: KindTupleField, Text: ty.Text, Visibility: vis})
			if p.isPunct(",") {
				p.bump()
			}
		}
		p.bump() // ")"
		p.expectPunct(";")
	case p.isPunct(";"):
		p.bump()
	default:
		p.fail("expected struct body")
	}

	return n
}

func (p *parser) parseEnum() *Node {
	p.bump() // "enum"
	name := p.expectIdent().Text
	generics := p.captureGenericParams()
	where := p.captureWhereClause()
	p.expectPunct("{")

	n := &Node{Kind: KindEnum, Name: name, Generics: generics, Where: where}
	for !p.isPunct("}") {
		attrs := p.parseOuterAttrs()
		vname := p.expectIdent().Text
		variant := &Node{Kind: KindEnumVariant, Name: vname, Attrs: attrs}

		switch {
		case p.isPunct("{"):
			p.bump()
			for !p.isPunct("}") {
				fname := p.expectIdent().Text
				p.expectPunct(":")
				ty := p.parseType()
				variant.Children = append(variant.Children, &Node{Kind: KindStructField, Name: fname, Text: ty.Text})
				if p.isPunct(",") {
					p.bump()
				}
			}
			p.bump()
		case p.isPunct("("):
			p.bump()
			for !p.isPunct(")") {
				ty := p.parseType()
				variant.Children = append(variant.Children, &Node{Kind: KindTupleField, Text: ty.Text})
				if p.isPunct(",") {
					p.bump()
				}
			}
			p.bump()
		case p.isPunct("="):
			p.bump()
			disc := p.parseExpr()
			variant.Text = disc.Text
		}

		n.Children = append(n.Children, variant)
		if p.isPunct(",") {
			p.bump()
		}
	}
	p.bump() // "}"
	return n
}

func (p *parser) parseTypeAlias() *Node {
	p.bump() // "type"
	name := p.expectIdent().Text
	generics := p.captureGenericParams()
	p.expectPunct("=")
	ty := p.parseType()
	where := p.captureWhereClause()
	p.expectPunct(";")
	return &Node{Kind: KindTypeAlias, Name: name, Text: ty.Text, Generics: generics, Where: where}
}

func (p *parser) parseUse() *Node {
	p.bump() // "use"
	path := p.parseUseTree()
	p.expectPunct(";")
	return &Node{Kind: KindUse, Name: path}
}

// parseUseTree captures the raw text of a use-path, including any
// `{...}` nested group or `as` rename, verbatim — import merge/reorder
// (internal/rewrite/imports.go) re-parses this text into segments
// itself rather than this parser pre-structuring it, since merge needs
// to operate across sibling Use nodes, not within one.
func (p *parser) parseUseTree() string {
	start := p.cur().Span.Lo
	depth := 0
	for {
		if p.isPunct("{") {
			depth++
		} else if p.isPunct("}") {
			depth--
		}
		if depth == 0 && p.isPunct(";") {
			break
		}
		if p.cur().Kind == TokEOF {
			p.fail("unexpected EOF inside use declaration")
		}
		p.bump()
	}
	return p.src[start:p.toks[p.pos-1].Span.Hi]
}

func (p *parser) parseMod() *Node {
	p.bump() // "mod"
	name := p.expectIdent().Text
	n := &Node{Kind: KindMod, Name: name}
	if p.isPunct(";") {
		p.bump()
		return n
	}
	p.expectPunct("{")
	for !p.isPunct("}") {
		n.Children = append(n.Children, p.parseItem())
	}
	p.bump()
	return n
}

func (p *parser) parseConstOrStatic(kind Kind) *Node {
	p.bump() // "const"/"static"
	mut := false
	if p.isIdent("mut") {
		p.bump()
		mut = true
	}
	name := p.expectIdent().Text
	p.expectPunct(":")
	ty := p.parseType()
	p.expectPunct("=")
	val := p.parseExpr()
	p.expectPunct(";")
	n := &Node{Kind: kind, Name: name, Text: ty.Text, Mutable: mut}
	n.Children = []*Node{val}
	return n
}

func (p *parser) parseTrait() *Node {
	p.bump() // "trait"
	name := p.expectIdent().Text
	generics := p.captureGenericParams()
	if p.isPunct(":") {
		for !p.isPunct("{") && !p.isIdent("where") {
			p.bump()
		}
	}
	where := p.captureWhereClause()
	p.expectPunct("{")
	n := &Node{Kind: KindTrait, Name: name, Generics: generics, Where: where}
	for !p.isPunct("}") {
		n.Children = append(n.Children, p.parseItem())
	}
	p.bump()
	return n
}

func (p *parser) parseImpl() *Node {
	p.bump() // "impl"
	generics := p.captureGenericParams()
	first := p.parseType()
	n := &Node{Kind: KindImpl, Generics: generics}
	if p.isIdent("for") {
		p.bump()
		target := p.parseType()
		n.Name = first.Text + " for " + target.Text
	} else {
		n.Name = first.Text
	}
	n.Where = p.captureWhereClause()
	p.expectPunct("{")
	for !p.isPunct("}") {
		n.Children = append(n.Children, p.parseItem())
	}
	p.bump()
	return n
}

func (p *parser) parseExternBlock() *Node {
	p.bump() // "extern"
	abi := p.bump().Text // string literal
	n := &Node{Kind: KindExternBlock, Name: abi}
	p.expectPunct("{")
	for !p.isPunct("}") {
		n.Children = append(n.Children, p.parseItem())
	}
	p.bump()
	return n
}

// parseMacroRules treats a whole macro_rules! definition as an opaque
// passthrough item: its body is a balanced-brace token soup the parser
// never looks inside, per macro_rules! formatting being governed by
// format_macro_matchers/format_macro_bodies toggles the rewriter, not
// the parser, is responsible for honoring.
func (p *parser) parseMacroRules(start int) *Node {
	p.bump() // "macro_rules"
	p.expectPunct("!")
	name := p.expectIdent().Text
	depth := 0
	for {
		if p.isPunct("{") {
			depth++
		} else if p.isPunct("}") {
			depth--
			if depth == 0 {
				p.bump()
				break
			}
		}
		if p.cur().Kind == TokEOF {
			p.fail("unexpected EOF inside macro_rules! body")
		}
		p.bump()
	}
	end := p.toks[p.pos-1].Span.Hi
	return &Node{Kind: KindMacroDef, Name: name, Text: p.src[start:end], Span: Span{Lo: start, Hi: end}}
}
