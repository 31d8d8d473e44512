package syntax

// TokKind classifies a lexical token. Comments and blank lines are never
// tokens — they are trivia, recovered separately by internal/trivia from
// the raw source bytes between two token/node spans, per the contract
// that every source byte lands in exactly one of: token text, trivia, or
// intra-node whitespace regenerated by a rewriter.
type TokKind int

const (
	TokEOF TokKind = iota
	TokIdent
	TokInt
	TokFloat
	TokString
	TokChar
	TokLifetime // 'a
	TokPunct    // any operator/punctuation lexeme, see punctuation table.
)

// Span is a half-open byte range [Lo, Hi) into the original source.
type Span struct {
	Lo, Hi int
}

// Len returns the number of bytes the span covers.
func (s Span) Len() int { return s.Hi - s.Lo }

// Union returns the smallest span covering both s and other.
func (s Span) Union(other Span) Span {
	lo, hi := s.Lo, s.Hi
	if other.Lo < lo {
		lo = other.Lo
	}
	if other.Hi > hi {
		hi = other.Hi
	}
	return Span{Lo: lo, Hi: hi}
}

// Token is one lexical unit with its source span.
type Token struct {
	Kind TokKind
	Text string
	Span Span
}

// keywords recognized by the lexer. Keywords lex as TokIdent (the
// parser decides significance from Text) — this mirrors how a real
// systems-language lexer usually treats keywords as a subset of
// identifiers rather than a disjoint token class, and keeps the lexer
// itself free of grammar knowledge.
var keywords = map[string]bool{
	"fn": true, "struct": true, "enum": true, "impl": true, "trait": true,
	"let": true, "mut": true, "const": true, "static": true, "type": true,
	"use": true, "mod": true, "pub": true, "crate": true, "self": true,
	"Self": true, "super": true, "if": true, "else": true, "match": true,
	"while": true, "loop": true, "for": true, "in": true, "return": true,
	"break": true, "continue": true, "as": true, "where": true, "move": true,
	"async": true, "await": true, "unsafe": true, "extern": true, "dyn": true,
	"ref": true, "true": true, "false": true, "macro_rules": true,
}
