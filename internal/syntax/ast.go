// Package syntax is the parser the shaping engine treats as an external
// collaborator (spec §1, §6's "Parser interface (consumed)"): it turns
// source bytes into a tree of typed nodes, each exposing its byte span.
// The core packages (internal/shape, internal/lists, internal/trivia,
// internal/rewrite, internal/format) only ever depend on Node/Kind/Span
// — never on the lexer or parser's internals — so a different front end
// could stand in as long as it produces the same node shape.
package syntax

// Kind identifies a node's syntactic category. The union is closed and
// known at build time; rewriters dispatch on Kind with an exhaustive
// switch rather than any form of dynamic type test (spec §9's "Dynamic
// dispatch on rewriters" design note).
type Kind int

const (
	KindFile Kind = iota

	// Items.
	KindFn
	KindStruct
	KindEnum
	KindTypeAlias
	KindUse
	KindMod
	KindConst
	KindStatic
	KindTrait
	KindImpl
	KindExternBlock
	KindMacroDef
	KindRawItem // unsupported/unrecognized item, passed through verbatim.

	// Supporting item substructures.
	KindStructField  // a `name: Type` field in a struct/struct variant.
	KindTupleField   // a bare `Type` field in a tuple struct/tuple variant.
	KindEnumVariant
	KindParam // fn/closure parameter.
	KindWherePredicate
	KindGenericParam

	// Patterns.
	KindPatIdent
	KindPatWildcard
	KindPatTuple
	KindPatSlice
	KindPatLit
	KindPatPath
	KindPatOr
	KindPatRest // `..` inside a tuple/slice pattern.

	// Types.
	KindTypePath
	KindTypeTuple
	KindTypeRef
	KindTypeArray

	// Attributes.
	KindAttribute

	// Expressions.
	KindLit
	KindPath
	KindBinary
	KindUnary
	KindCall
	KindMethodCall
	KindFieldAccess
	KindIf
	KindWhile
	KindLoop
	KindFor
	KindMatch
	KindMatchArm
	KindBlock
	KindClosure
	KindTuple
	KindArray
	KindStructLit
	KindFieldInit
	KindRange
	KindCast
	KindAssign
	KindMacroCall
	KindTry
	KindReturn
	KindBreak
	KindContinue
	KindParen
	KindLet // `let pat = expr;` statement.
	KindExprStmt
	KindIndex
)

// Node is a single element of the parsed tree. Not every field applies
// to every Kind — this mirrors the teacher's own NodeFields design
// (internal/parser.NodeFields in the teacher repo): one record carries
// all type-specific data, and rewriters read only the fields their Kind
// defines, per the teacher's own convention of one flat fields struct
// per node rather than one Go type per AST variant.
type Node struct {
	Kind Kind
	Span Span

	// Name is the primary identifier: fn/struct/enum/trait/mod name,
	// variant name, field name, path text, binary/unary/cast/range
	// operator spelling, macro name — whatever is singular for Kind.
	Name string

	// Text carries literal token text (KindLit), raw fallback text
	// (KindRawItem, unrecognized macro bodies), or a path's full
	// dotted/`::`-joined spelling when Children isn't used to hold
	// segments.
	Text string

	// Children holds Kind-specific ordered sub-nodes: binary
	// left/right, call callee+args, if cond/then/else, block
	// statements, etc. See each rewriter for the exact convention used
	// for its Kind.
	Children []*Node

	// Attrs holds outer attributes attached to this node (only
	// meaningful on items and enum variants/struct fields).
	Attrs []*Node

	// Visibility is "pub", "pub(crate)", or "" for items that support
	// one.
	Visibility string

	Mutable bool
	Async   bool
	Unsafe  bool

	// Delim is the opening delimiter character — "(", "[", or "{" —
	// for a KindMacroCall; empty for every other Kind. The matching
	// closer is implied by the opener and isn't stored separately.
	Delim string

	// Skip is true when the Trivia Extractor found a skip directive
	// attached to this node; the Document Assembler must then emit the
	// node's original bytes unchanged instead of invoking a rewriter.
	Skip bool

	// Generics is the raw, unparsed text of an optional `<...>` generic
	// parameter list (angle brackets stripped), for fn/struct/enum/
	// trait/impl/type-alias items. Empty when the item has none.
	Generics string

	// Where is the raw, unparsed text of an optional where-clause (the
	// `where` keyword stripped, terminator not included), for the same
	// Kinds as Generics. Empty when the item has none.
	Where string
}

// File is the unit the parser hands the core: a resolved filename, the
// original bytes (needed by the Trivia Extractor, which works directly
// on raw source), and the parsed top-level items in source order.
type File struct {
	Name  string
	Bytes []byte
	Items []*Node
}

// Source returns the original bytes as a string, for span slicing.
func (f *File) Source() string { return string(f.Bytes) }

// TextAt returns the literal source text covered by span.
func (f *File) TextAt(span Span) string {
	if span.Lo < 0 || span.Hi > len(f.Bytes) || span.Lo > span.Hi {
		return ""
	}
	return string(f.Bytes[span.Lo:span.Hi])
}
