// Package rewrite holds the Node Rewriters: one function per syntactic
// construct, each taking a node and a Shape and returning a
// RewriteResult. The dispatch is a single large switch over Kind
// (internal/syntax.Kind) rather than a virtual-dispatch registry, per
// the closed-variant-set design note this engine follows.
package rewrite

import "fmt"

// Reason classifies why a rewrite could not produce its preferred
// layout. A collected diagnostic's Kind is a separate type,
// format.DiagKind, which has one kind for each Reason.
type Reason int

const (
	WidthExceeded Reason = iota
	UnformattableNode
	CommentLost
	Unparseable
	ConfigInvalid
)

func (r Reason) String() string {
	switch r {
	case WidthExceeded:
		return "WidthExceeded"
	case UnformattableNode:
		return "UnformattableNode"
	case CommentLost:
		return "CommentLost"
	case Unparseable:
		return "Unparseable"
	case ConfigInvalid:
		return "ConfigInvalid"
	default:
		return "Unknown"
	}
}

// Result is the Ok(str) | Failure(Reason) sum type every rewriter
// returns. Rewriters consume their children's Results to decide
// whether to escalate to a wider layout or propagate failure upward.
type Result struct {
	text   string
	ok     bool
	reason Reason
}

func Ok(text string) Result { return Result{text: text, ok: true} }

func Fail(reason Reason) Result { return Result{reason: reason} }

func (r Result) IsOk() bool { return r.ok }

// Text returns the rendered text and panics if the result is a
// failure; callers must check IsOk first. This mirrors the teacher's
// own "fetch after check" convention for its rule Format results.
func (r Result) Text() string {
	if !r.ok {
		panic(fmt.Sprintf("rewrite: Text() called on Failure(%s)", r.reason))
	}
	return r.text
}

func (r Result) Reason() Reason { return r.reason }
