// Package format implements the Document Assembler: it drives the
// parser and the Node Rewriters over a whole compilation unit and
// produces the two public operations this engine exposes,
// FormatSource and CheckSource.
package format

import (
	"encoding/json"
	"fmt"

	"github.com/tidyfmt/tidyfmt/internal/rewrite"
	"github.com/tidyfmt/tidyfmt/internal/syntax"
)

// DiagKind classifies one collected Diagnostic. The first five mirror
// rewrite.Reason exactly (a rewrite failure, surfaced one level up);
// Marker is a supplemented informational kind for report_todo/
// report_fixme findings, which are never failures.
type DiagKind int

const (
	WidthExceeded DiagKind = iota
	UnformattableNode
	CommentLost
	Unparseable
	ConfigInvalid
	Marker
)

func fromReason(r rewrite.Reason) DiagKind {
	switch r {
	case rewrite.WidthExceeded:
		return WidthExceeded
	case rewrite.UnformattableNode:
		return UnformattableNode
	case rewrite.CommentLost:
		return CommentLost
	case rewrite.Unparseable:
		return Unparseable
	default:
		return ConfigInvalid
	}
}

func (k DiagKind) String() string {
	switch k {
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
		return "Marker"
	}
}

// MarshalJSON renders a DiagKind as its name, for -json diagnostic output.
func (k DiagKind) MarshalJSON() ([]byte, error) {
	return json.Marshal(k.String())
}

// Diagnostic is a supplemented data-model piece (spec.md leaves
// "diagnostics" as a bare list in its public API signature): it
// carries enough to point a caller at the exact byte range a rewrite
// problem or a report_todo/report_fixme finding came from.
type Diagnostic struct {
	Kind    DiagKind    `json:"kind"`
	Span    syntax.Span `json:"span"`
	Message string      `json:"message"`
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s at [%d,%d): %s", d.Kind, d.Span.Lo, d.Span.Hi, d.Message)
}

func failureDiagnostic(reason rewrite.Reason, span syntax.Span, itemDesc string) Diagnostic {
	msg := fmt.Sprintf("%s could not be rewritten (%s); emitted original bytes", itemDesc, reason)
	return Diagnostic{Kind: fromReason(reason), Span: span, Message: msg}
}

func markerDiagnostic(span syntax.Span, marker, text string) Diagnostic {
	return Diagnostic{Kind: Marker, Span: span, Message: fmt.Sprintf("%s: %s", marker, text)}
}
