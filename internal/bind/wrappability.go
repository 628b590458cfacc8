// Package bind is the translation engine: it turns a classdesc.Class into
// generated C source text exposing that class to a scripting runtime. The
// package is organized leaf-first, matching spec.md §2: wrappability
// filtering, overload pruning, emitter primitives, method synthesis, and
// class assembly.
package bind

import (
	log "github.com/golang/glog"

	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/typetag"
)

// reservedNames can never be wrapped regardless of their signature
// (spec.md §4.3 rule 2): they collide with the scripting runtime's own
// construction/destruction protocol, which the Class Assembler
// synthesizes separately (§4.7).
var reservedNames = map[string]bool{"New": true, "Delete": true}

// Wrappable reports whether m can be represented and dispatched at all,
// applying each of the twelve rules of spec.md §4.3 in order. It never
// mutates m.
func Wrappable(m *classdesc.Method) bool {
	reason, ok := wrappabilityReason(m)
	if !ok {
		log.V(1).Infof("skipping %s: %s", debugName(m), reason)
	}
	return ok
}

func debugName(m *classdesc.Method) string {
	if m.HasName() {
		return m.NameOr()
	}
	return "<unnamed>"
}

// wrappabilityReason is Wrappable's implementation, additionally
// returning the failing rule's description for logging.
func wrappabilityReason(m *classdesc.Method) (reason string, ok bool) {
	// Rule 1.
	if m.IsOperator {
		return "operator overload", false
	}
	if m.HasArrayFailure {
		return "array failure flagged by parser", false
	}
	if !m.IsPublic {
		return "not public", false
	}
	if !m.HasName() {
		return "no name (already tombstoned)", false
	}

	// Rule 2.
	if reservedNames[m.NameOr()] {
		return "reserved constructor/destructor name", false
	}

	if reason, ok := argumentsWrappable(m); !ok {
		return reason, false
	}

	// Rule 10.
	if !baseKindWrappable(m.ReturnType) {
		return "return type has an unrecognized base kind", false
	}
	if !indirectionWrappable(m.ReturnType) {
		return "return type has an unsupported indirection", false
	}

	// Rule 11.
	if typetag.IsPointer(m.ReturnType) && typetag.IsNumeric(m.ReturnType) && m.Hint == nil {
		return "numeric pointer return without a size hint", false
	}

	// Rule 12.
	if typetag.IsCharPtr(m.ReturnType) && m.Hint != nil && m.Hint.Size > 0 {
		return "char* return contradicted by a positive hint size", false
	}

	return "", true
}

// argumentsWrappable applies rules 3-9, which are per-argument, plus the
// "function pointer must be the sole argument" clause of rule 3.
func argumentsWrappable(m *classdesc.Method) (string, bool) {
	for _, a := range m.Arguments {
		t := a.Tag

		// Rule 3 (function-pointer solitude check).
		if typetag.IsFunction(t) && len(m.Arguments) != 1 {
			return "function-pointer argument is not the sole argument", false
		}
		if !typetag.IsFunction(t) && !baseKindWrappable(t) {
			return "argument has an unrecognized base kind", false
		}

		// Rule 4.
		if !indirectionWrappable(t) {
			return "argument has an unsupported indirection", false
		}

		// Rule 5.
		if typetag.IsReference(t) && t.Base != typetag.Object && !t.Const {
			return "non-const reference to a non-object argument", false
		}

		// Rule 6.
		if typetag.IsCharPtr(t) && a.ArrayCount > 0 {
			return "char* argument with a positive array_count is ambiguous", false
		}

		// Rule 7.
		if typetag.IsInteger(t) && t.Unsigned && typetag.IsPointer(t) {
			return "unsigned integer pointer argument has no unambiguous encoding", false
		}

		// Rule 8.
		if (typetag.IsString(t) || typetag.IsUnicode(t)) && typetag.IsPointer(t) {
			return "pointer to string/unicode_string argument is unsupported", false
		}

		// Rule 9.
		if typetag.IsPointer(t) && typetag.IsNumeric(t) && a.ArrayCount <= 0 &&
			!typetag.IsObject(t) && !typetag.IsCharPtr(t) && !typetag.IsVoidPtr(t) {
			return "numeric pointer argument of unknown extent", false
		}
	}
	return "", true
}

// baseKindWrappable applies the base-kind half of rules 3 and 10.
func baseKindWrappable(t typetag.Tag) bool {
	return typetag.IsSupportedBaseKind(t.Base) && t.Base != typetag.Unknown
}

// indirectionWrappable applies the indirection half of rules 4 and 10: an
// argument or return type's indirection must be none, pointer, or
// reference (pointer-to-pointer and pointer-reference are never
// wrappable).
func indirectionWrappable(t typetag.Tag) bool {
	switch t.Indirection {
	case typetag.None, typetag.Pointer, typetag.Reference:
		return true
	default:
		return false
	}
}
