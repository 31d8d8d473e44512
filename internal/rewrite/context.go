package rewrite

import (
	"github.com/tidyfmt/tidyfmt/internal/config"
	"github.com/tidyfmt/tidyfmt/internal/lists"
	"github.com/tidyfmt/tidyfmt/internal/shape"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// Context threads the read-only state every rewriter needs: the
// resolved configuration record and the source file being formatted.
// Per spec §5, both are shared-immutable across the whole run — no
// rewriter ever mutates a Context field.
type Context struct {
	Cfg  *config.Config
	File *syntax.File
}

// Rewrite dispatches on n.Kind, the single large match this engine
// uses in place of a virtual-dispatch registry. A Skip-marked node
// (set by trivia.ApplySkipDirectives before rewriting starts) is
// always emitted as its original bytes, regardless of where in the
// tree it appears.
func (c *Context) Rewrite(n *syntax.Node, s shape.Shape) Result {
	if n == nil {
		return Ok("")
	}
	if n.Skip {
		return Ok(c.originalText(n))
	}

	switch n.Kind {
	// Items.
	case syntax.KindFn:
		return c.rewriteFn(n, s)
	case syntax.KindStruct:
		return c.rewriteStruct(n, s)
	case syntax.KindEnum:
		return c.rewriteEnum(n, s)
	case syntax.KindTypeAlias:
		return c.rewriteTypeAlias(n, s)
	case syntax.KindUse:
		return Ok(RenderUseTree(n.Name))
	case syntax.KindMod:
		return c.rewriteMod(n, s)
	case syntax.KindConst, syntax.KindStatic:
		return c.rewriteConstOrStatic(n, s)
	case syntax.KindTrait:
		return c.rewriteTrait(n, s)
	case syntax.KindImpl:
		return c.rewriteImpl(n, s)
	case syntax.KindExternBlock:
		return c.rewriteExternBlock(n, s)
	case syntax.KindMacroDef:
		return Ok(c.renderMacroRules(n))
	case syntax.KindRawItem:
		return Ok(c.originalText(n))

	// Expressions.
	case syntax.KindLit:
		return c.rewriteLit(n, s)
	case syntax.KindPath:
		return Ok(n.Name)
	case syntax.KindBinary:
		return c.rewriteBinary(n, s)
	case syntax.KindUnary:
		return c.rewriteUnary(n, s)
	case syntax.KindCall:
		return c.rewriteCall(n, s)
	case syntax.KindMethodCall, syntax.KindFieldAccess:
		return c.rewriteChain(n, s)
	case syntax.KindIf:
		return c.rewriteIf(n, s)
	case syntax.KindWhile:
		return c.rewriteWhile(n, s)
	case syntax.KindLoop:
		return c.rewriteLoop(n, s)
	case syntax.KindFor:
		return c.rewriteFor(n, s)
	case syntax.KindMatch:
		return c.rewriteMatch(n, s)
	case syntax.KindBlock:
		return c.rewriteBlock(n, s)
	case syntax.KindClosure:
		return c.rewriteClosure(n, s)
	case syntax.KindTuple:
		return c.rewriteTuple(n, s)
	case syntax.KindArray:
		return c.rewriteArray(n, s)
	case syntax.KindStructLit:
		return c.rewriteStructLit(n, s)
	case syntax.KindRange:
		return c.rewriteRange(n, s)
	case syntax.KindCast:
		return c.rewriteCast(n, s)
	case syntax.KindAssign:
		return c.rewriteAssign(n, s)
	case syntax.KindMacroCall:
		return c.rewriteMacroCall(n, s)
	case syntax.KindTry:
		return c.rewriteTry(n, s)
	case syntax.KindReturn, syntax.KindBreak, syntax.KindContinue:
		return c.rewriteJump(n, s)
	case syntax.KindParen:
		return c.rewriteParen(n, s)
	case syntax.KindLet:
		return c.rewriteLet(n, s)
	case syntax.KindExprStmt:
		return c.rewriteExprStmt(n, s)
	case syntax.KindIndex:
		return c.rewriteIndex(n, s)

	// Patterns.
	case syntax.KindPatIdent, syntax.KindPatWildcard, syntax.KindPatTuple,
		syntax.KindPatSlice, syntax.KindPatLit, syntax.KindPatPath, syntax.KindPatOr, syntax.KindPatRest:
		return Ok(c.renderPattern(n))

	default:
		return Fail(UnformattableNode)
	}
}

// originalText returns n's original bytes verbatim, the fallback used
// both for Skip-protected nodes and for node kinds this engine does
// not recognize (spec §7's Unformattable taxonomy entry: "fallback is
// to emit the node's original bytes").
func (c *Context) originalText(n *syntax.Node) string {
	if c.File == nil {
		return n.Text
	}
	return c.File.TextAt(n.Span)
}

// mustOk unwraps a Result, falling back to the caller-supplied text
// instead of ever calling Text() on a Failure.
func mustOk(r Result, fallback string) string {
	if r.IsOk() {
		return r.Text()
	}
	return fallback
}

func (c *Context) listOptions(tactic lists.Tactic, sep string, sepPlace lists.SeparatorPlace, trailing lists.TrailingSeparatorPolicy, opener, closer string, openerOwnLine, closerOwnLine bool) lists.Options {
	return lists.Options{
		Tactic:            tactic,
		Separator:         sep,
		SeparatorPlace:    sepPlace,
		TrailingSeparator: trailing,
		Opener:            opener,
		Closer:            closer,
		OpenerOwnLine:     openerOwnLine,
		CloserOwnLine:     closerOwnLine,
		HardTabs:          c.Cfg.HardTabs,
		TabSpaces:         c.Cfg.TabSpaces,
	}
}

func trailingPolicy(mode string) lists.TrailingSeparatorPolicy {
	switch mode {
	case "Always":
		return lists.Always
	case "Never":
		return lists.Never
	default: // "Vertical"
		return lists.VerticalOnly
	}
}

func (c *Context) indentStr(s shape.Shape) string {
	return s.IndentString(c.Cfg.HardTabs, c.Cfg.TabSpaces)
}
