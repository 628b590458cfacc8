// Package schemaio decodes the one concrete, documented external
// serialization of a class description this module accepts: JSON,
// matching the fixed shape of classdesc.Class/classdesc.Method/
// typetag.Tag. The C++ parser that produces this JSON is out of scope;
// this package is purely the boundary between that external format and
// the engine's internal data model.
//
// encoding/json is used directly rather than a pack third-party
// library: this is a fixed, module-owned schema with no protobuf,
// YAML, or other wire format anywhere in its pipeline, so none of the
// pack's serialization libraries (all proto-oriented) have a role to
// play here. See DESIGN.md for the full justification.
package schemaio

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/errutil"
	"github.com/kitware/vtkwrap/internal/typetag"
)

// wireTag is the JSON shape of a typetag.Tag. Fields use the snake_case
// names spec.md §3/§6 use for the schema ("base_kind", "is_unsigned",
// ...), not typetag.Tag's Go field names.
type wireTag struct {
	BaseKind    string `json:"base_kind"`
	Unsigned    bool   `json:"is_unsigned,omitempty"`
	Indirection string `json:"indirection,omitempty"`
	Const       bool   `json:"is_const,omitempty"`
	Static      bool   `json:"is_static,omitempty"`
}

var baseKindByName = map[string]typetag.BaseKind{
	"void": typetag.Void, "bool": typetag.Bool, "char": typetag.Char,
	"signed_char": typetag.SignedChar, "short": typetag.Short,
	"int": typetag.Int, "long": typetag.Long, "long_long": typetag.LongLong,
	"int64": typetag.Int64, "id_type": typetag.IDType,
	"float": typetag.Float, "double": typetag.Double,
	"string": typetag.String, "unicode_string": typetag.UnicodeString,
	"object": typetag.Object, "function": typetag.Function,
}

var indirectionByName = map[string]typetag.Indirection{
	"": typetag.None, "*": typetag.Pointer, "&": typetag.Reference,
	"**": typetag.PointerToPointer, "*&": typetag.PointerReference,
}

func (w wireTag) toTag() (typetag.Tag, error) {
	base, ok := baseKindByName[w.BaseKind]
	if !ok {
		base = typetag.Unknown
	}
	ind, ok := indirectionByName[w.Indirection]
	if !ok {
		return typetag.Tag{}, fmt.Errorf("unrecognized indirection %q", w.Indirection)
	}
	return typetag.Tag{Base: base, Unsigned: w.Unsigned, Indirection: ind, Const: w.Const, Static: w.Static}, nil
}

type wireHint struct {
	Tag  wireTag `json:"tag"`
	Size int     `json:"size"`
}

type wireArgument struct {
	Tag        wireTag `json:"tag"`
	Name       string  `json:"name,omitempty"`
	ArrayCount int     `json:"array_count,omitempty"`
}

type wireMethod struct {
	Name            string         `json:"name"`
	Signature       string         `json:"signature"`
	Comment         string         `json:"comment,omitempty"`
	ReturnType      wireTag        `json:"return_type"`
	ReturnClass     string         `json:"return_class,omitempty"`
	Arguments       []wireArgument `json:"arguments,omitempty"`
	IsPublic        bool           `json:"is_public"`
	IsOperator      bool           `json:"is_operator,omitempty"`
	IsPureVirtual   bool           `json:"is_pure_virtual,omitempty"`
	IsLegacy        bool           `json:"is_legacy,omitempty"`
	IsStatic        bool           `json:"is_static,omitempty"`
	HasArrayFailure bool           `json:"has_array_failure,omitempty"`
	Hint            *wireHint      `json:"hint,omitempty"`
}

type wireClass struct {
	Name        string       `json:"name"`
	Supers      []string     `json:"supers,omitempty"`
	IsVTKObject bool         `json:"is_vtk_object"`
	IsAbstract  bool         `json:"is_abstract,omitempty"`
	NameComment string       `json:"name_comment,omitempty"`
	Description string       `json:"description,omitempty"`
	Caveats     string       `json:"caveats,omitempty"`
	SeeAlso     string       `json:"see_also,omitempty"`
	Methods     []wireMethod `json:"methods,omitempty"`
}

// Decode reads one class-description document from r and returns its
// internal representation. A method whose name is empty decodes as
// already-tombstoned (classdesc.Method.Name == nil), matching the
// engine's lifecycle rule that only the pruner/synthesizer may clear a
// name (spec.md §3 "Lifecycle") — the external format simply never
// produces a tombstoned method in practice, but decoding tolerates one.
func Decode(r io.Reader) (class *classdesc.Class, err error) {
	defer errutil.Annotatef(&err, "schemaio: decoding class description")

	var w wireClass
	dec := json.NewDecoder(r)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&w); err != nil {
		return nil, err
	}
	return w.toClass()
}

func (w wireClass) toClass() (*classdesc.Class, error) {
	c := &classdesc.Class{
		Name:        w.Name,
		Supers:      w.Supers,
		IsVTKObject: w.IsVTKObject,
		IsAbstract:  w.IsAbstract,
		NameComment: w.NameComment,
		Description: w.Description,
		Caveats:     w.Caveats,
		SeeAlso:     w.SeeAlso,
	}
	for _, wm := range w.Methods {
		m, err := wm.toMethod()
		if err != nil {
			return nil, fmt.Errorf("method %q: %w", wm.Name, err)
		}
		c.Methods = append(c.Methods, m)
	}
	return c, nil
}

func (w wireMethod) toMethod() (*classdesc.Method, error) {
	ret, err := w.ReturnType.toTag()
	if err != nil {
		return nil, fmt.Errorf("return_type: %w", err)
	}

	m := &classdesc.Method{
		Signature:       w.Signature,
		Comment:         w.Comment,
		ReturnType:      ret,
		ReturnClass:     w.ReturnClass,
		IsPublic:        w.IsPublic,
		IsOperator:      w.IsOperator,
		IsPureVirtual:   w.IsPureVirtual,
		IsLegacy:        w.IsLegacy,
		IsStatic:        w.IsStatic,
		HasArrayFailure: w.HasArrayFailure,
	}
	if w.Name != "" {
		name := w.Name
		m.Name = &name
	}
	if w.Hint != nil {
		hintTag, err := w.Hint.Tag.toTag()
		if err != nil {
			return nil, fmt.Errorf("hint.tag: %w", err)
		}
		m.Hint = &classdesc.Hint{Tag: hintTag, Size: w.Hint.Size}
	}
	for i, wa := range w.Arguments {
		tag, err := wa.Tag.toTag()
		if err != nil {
			return nil, fmt.Errorf("arguments[%d]: %w", i, err)
		}
		m.Arguments = append(m.Arguments, classdesc.Argument{Tag: tag, Name: wa.Name, ArrayCount: wa.ArrayCount})
	}
	return m, nil
}
