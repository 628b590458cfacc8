package bind_test

import (
	"testing"

	"github.com/kitware/vtkwrap/internal/bind"
	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/typetag"
)

func name(s string) *string { return &s }

func baseMethod() *classdesc.Method {
	return &classdesc.Method{
		Name:       name("DoThing"),
		IsPublic:   true,
		ReturnType: typetag.Tag{Base: typetag.Void},
	}
}

func TestWrappableAcceptsSimpleMethod(t *testing.T) {
	m := baseMethod()
	m.Arguments = []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Int}}}
	if !bind.Wrappable(m) {
		t.Error("a simple public int-argument method should be wrappable")
	}
}

func TestWrappabilityRules(t *testing.T) {
	tests := []struct {
		name string
		fn   func(m *classdesc.Method)
	}{
		{"rule1 operator", func(m *classdesc.Method) { m.IsOperator = true }},
		{"rule1 array failure", func(m *classdesc.Method) { m.HasArrayFailure = true }},
		{"rule1 not public", func(m *classdesc.Method) { m.IsPublic = false }},
		{"rule1 no name", func(m *classdesc.Method) { m.Name = nil }},
		{"rule2 New", func(m *classdesc.Method) { m.Name = name("New") }},
		{"rule2 Delete", func(m *classdesc.Method) { m.Name = name("Delete") }},
		{"rule3 unknown base kind", func(m *classdesc.Method) {
			m.Arguments = []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Unknown}}}
		}},
		{"rule3 function pointer not the sole argument", func(m *classdesc.Method) {
			m.Arguments = []classdesc.Argument{
				{Tag: typetag.Tag{Base: typetag.Function}},
				{Tag: typetag.Tag{Base: typetag.Int}},
			}
		}},
		{"rule4 pointer to pointer", func(m *classdesc.Method) {
			m.Arguments = []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Int, Indirection: typetag.PointerToPointer}}}
		}},
		{"rule5 non-const reference to non-object", func(m *classdesc.Method) {
			m.Arguments = []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Int, Indirection: typetag.Reference}}}
		}},
		{"rule6 char* with array count", func(m *classdesc.Method) {
			m.Arguments = []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Char, Indirection: typetag.Pointer}, ArrayCount: 4}}
		}},
		{"rule7 unsigned int pointer", func(m *classdesc.Method) {
			m.Arguments = []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Int, Unsigned: true, Indirection: typetag.Pointer}, ArrayCount: 4}}
		}},
		{"rule8 string pointer", func(m *classdesc.Method) {
			m.Arguments = []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.String, Indirection: typetag.Pointer}}}
		}},
		{"rule9 numeric pointer unknown extent", func(m *classdesc.Method) {
			m.Arguments = []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Double, Indirection: typetag.Pointer}, ArrayCount: 0}}
		}},
		{"rule10 return unknown base kind", func(m *classdesc.Method) {
			m.ReturnType = typetag.Tag{Base: typetag.Unknown}
		}},
		{"rule10 return bad indirection", func(m *classdesc.Method) {
			m.ReturnType = typetag.Tag{Base: typetag.Int, Indirection: typetag.PointerReference}
		}},
		{"rule11 numeric pointer return without hint", func(m *classdesc.Method) {
			m.ReturnType = typetag.Tag{Base: typetag.Double, Indirection: typetag.Pointer}
			m.Hint = nil
		}},
		{"rule12 char* return with positive hint", func(m *classdesc.Method) {
			m.ReturnType = typetag.Tag{Base: typetag.Char, Indirection: typetag.Pointer}
			m.Hint = &classdesc.Hint{Size: 4}
		}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			m := baseMethod()
			tc.fn(m)
			if bind.Wrappable(m) {
				t.Errorf("%s: expected Wrappable to reject, got accepted: %+v", tc.name, m)
			}
		})
	}
}

func TestWrappableRule11AcceptsWithHint(t *testing.T) {
	m := baseMethod()
	m.ReturnType = typetag.Tag{Base: typetag.Double, Indirection: typetag.Pointer}
	m.Hint = &classdesc.Hint{Tag: typetag.Tag{Base: typetag.Double}, Size: 3}
	if !bind.Wrappable(m) {
		t.Error("a hinted numeric-array return should be wrappable")
	}
}

func TestWrappableStability(t *testing.T) {
	// Clearing an unrelated field on an unwrappable method must keep it
	// unwrappable (spec.md §8 property 3); only fixing the actual cause
	// should flip it.
	m := baseMethod()
	m.IsOperator = true
	m.Comment = "irrelevant"
	if bind.Wrappable(m) {
		t.Fatal("expected method to remain unwrappable")
	}
	m.Comment = ""
	if bind.Wrappable(m) {
		t.Fatal("clearing an unrelated field should not change wrappability")
	}
	m.IsOperator = false
	if !bind.Wrappable(m) {
		t.Fatal("fixing the actual cause should flip wrappability")
	}
}
