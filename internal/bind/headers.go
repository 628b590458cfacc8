package bind

import (
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"

	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/typetag"
)

// stringHeader and unicodeHeader are the canonical headers for the
// string/unicode scalar types, which aren't classes in classdesc's
// model and so never appear in a class-name exception lookup (spec.md
// §4.7.1).
const (
	stringHeader  = "vtkStdString.h"
	unicodeHeader = "vtkUnicodeString.h"
)

// headerExceptions maps certain class names to the header that actually
// declares them, for types whose name doesn't match their defining
// header 1:1 (spec.md §4.7.1: "iterator/handle/typedef names defined
// inside enclosing classes"). Classes absent from this table use the
// default "<Name>.h" convention.
var headerExceptions = map[string]string{
	"vtkCellArrayIterator":      "vtkCellArray.h",
	"vtkCollectionIterator":     "vtkCollection.h",
	"vtkDataArrayIteratorMacro": "vtkDataArray.h",
}

func headerFor(className string) string {
	if h, ok := headerExceptions[className]; ok {
		return h
	}
	return className + ".h"
}

// DiscoverHeaders scans every wrappable method of class (arguments and
// return type) for referenced object/string/unicode classes and returns
// the distinct, sorted set of headers the Class Assembler's prologue
// must include, excluding the subject class's own header (spec.md
// §4.7.1).
func DiscoverHeaders(class *classdesc.Class, methods []*classdesc.Method) []string {
	own := headerFor(class.Name)
	set := map[string]bool{}

	record := func(t typetag.Tag, referencedClass string) {
		switch {
		case typetag.IsObject(t):
			name := referencedClass
			if name == "" {
				name = "vtkObjectBase"
			}
			set[headerFor(name)] = true
		case typetag.IsString(t):
			set[stringHeader] = true
		case typetag.IsUnicode(t):
			set[unicodeHeader] = true
		}
	}

	for _, m := range methods {
		if !Wrappable(m) {
			continue
		}
		record(m.ReturnType, m.ReturnClass)
		for _, a := range m.Arguments {
			record(a.Tag, a.Name)
		}
	}

	delete(set, own)

	headers := maps.Keys(set)
	slices.Sort(headers)
	return headers
}
