// Package classdesc holds the input data model the engine consumes: the
// ClassDescription produced by the (out of scope) C++ parser. Values are
// produced externally and are read-only during generation, except that the
// overload pruner tombstones Method.Name and the method synthesizer appends
// docstring text to a surviving method (spec.md §3 "Lifecycle").
package classdesc

import "github.com/kitware/vtkwrap/internal/typetag"

// Class is a single C++ class as seen by the wrapper: its name, its
// inheritance chain, and its methods in declaration order.
type Class struct {
	Name string

	// Supers is the ordered sequence of superclass names; index 0 is the
	// primary base.
	Supers []string

	// IsVTKObject is true when the class derives, transitively, from the
	// scripting runtime's refcounted base class.
	IsVTKObject bool

	IsAbstract bool

	NameComment string
	Description string
	Caveats     string
	SeeAlso     string

	Methods []*Method
}

// Hint is parser-supplied metadata giving the element count of a
// fixed-size numeric pointer return, without which such returns are
// unwrappable (spec.md §4.3 rule 11, glossary "Hint").
type Hint struct {
	Tag  typetag.Tag
	Size int
}

// Argument is one formal parameter of a Method.
type Argument struct {
	Tag  typetag.Tag
	Name string // optional; empty when the parser had no name for it

	// ArrayCount is > 0 exactly when this argument is a fixed-length
	// numeric array passed as a pointer with a known extent (spec.md §3
	// invariant).
	ArrayCount int
}

// Method is a single overload of a class member function.
type Method struct {
	// Name is nullable; the overload pruner clears it to tombstone a
	// dominated overload (spec.md §3 "Lifecycle", §4.4).
	Name *string

	// Signature is the original C++ declaration text, retained for
	// docstring generation.
	Signature string
	Comment   string

	ReturnType  typetag.Tag
	ReturnClass string // set when ReturnType is object-kind

	Arguments []Argument

	IsPublic        bool
	IsOperator      bool
	IsPureVirtual   bool
	IsLegacy        bool
	IsStatic        bool
	HasArrayFailure bool

	Hint *Hint

	// extraSignatures accumulates the signature text of tombstoned
	// siblings sharing this method's name, for docstring aggregation
	// (spec.md §3 "Lifecycle", §4.6 step 4).
	extraSignatures []string
}

// HasName reports whether m currently carries a (non-tombstoned) name.
func (m *Method) HasName() bool { return m.Name != nil && *m.Name != "" }

// NameOr returns the method's name, or "" if it has been tombstoned.
func (m *Method) NameOr() string {
	if m.Name == nil {
		return ""
	}
	return *m.Name
}

// Tombstone clears m's name, marking it as eliminated by the overload
// pruner. The original name is preserved in the signature text.
func (m *Method) Tombstone() {
	m.Name = nil
}

// AppendDocSignature records extra signature text (from a tombstoned
// sibling) for inclusion in the surviving overload's aggregated docstring.
func (m *Method) AppendDocSignature(sig string) {
	m.extraSignatures = append(m.extraSignatures, sig)
}

// DocSignatures returns m's own signature followed by any tombstoned
// siblings' signatures that were folded into it, in the order recorded.
func (m *Method) DocSignatures() []string {
	return append([]string{m.Signature}, m.extraSignatures...)
}

// IsConstructor reports whether m constructs Name-less-qualified instances
// of class (i.e. its name equals the class name).
func IsConstructor(class *Class, m *Method) bool {
	return m.HasName() && *m.Name == class.Name
}
