package bind_test

import (
	"strings"
	"testing"

	"github.com/kitware/vtkwrap/internal/bind"
	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/target"
	"github.com/kitware/vtkwrap/internal/typetag"
)

func widgetClass() *classdesc.Class {
	return &classdesc.Class{Name: "Widget", IsVTKObject: true, Supers: []string{"vtkObjectBase"}}
}

func TestSynthesizeSingleOverloadNoMaster(t *testing.T) {
	class := widgetClass()
	methods := []*classdesc.Method{{
		Name:       name("SetName"),
		IsPublic:   true,
		ReturnType: typetag.Tag{Base: typetag.Void},
		Arguments:  []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Char, Indirection: typetag.Pointer}}},
	}}

	groups := bind.Synthesize(class, methods, target.Default)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	g := groups[0]
	if len(g.Overloads) != 1 {
		t.Fatalf("expected one dispatcher, got %d", len(g.Overloads))
	}
	if g.Overloads[0].Descriptor != "@z" {
		t.Fatalf("descriptor = %q, want %q", g.Overloads[0].Descriptor, "@z")
	}
	if g.Master != "" {
		t.Fatal("expected no master dispatcher for a single overload")
	}
	if g.Table != "" {
		t.Fatal("expected no method table for a single non-constructor overload")
	}
	if !strings.Contains(g.Overloads[0].Source, "dispatch_Widget_SetName(") {
		t.Fatalf("dispatcher source missing expected function name: %s", g.Overloads[0].Source)
	}
}

func TestSynthesizeDisjointOverloadsBothSurviveWithMaster(t *testing.T) {
	class := widgetClass()
	methods := []*classdesc.Method{
		{Name: name("Set"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Int}}}},
		{Name: name("Set"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Double}}}},
	}

	groups := bind.Synthesize(class, methods, target.Default)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	g := groups[0]
	if len(g.Overloads) != 2 {
		t.Fatalf("expected both disjoint overloads to survive, got %d", len(g.Overloads))
	}
	if g.Master == "" {
		t.Fatal("expected a master dispatcher for a multi-signature name")
	}
	if g.Table == "" {
		t.Fatal("expected a method table for a multi-signature name")
	}
	if g.Overloads[0].FunctionName == g.Overloads[1].FunctionName {
		t.Fatal("expected distinct dispatcher function names per overload")
	}
}

func TestSynthesizeDominatedOverloadTombstoned(t *testing.T) {
	class := widgetClass()
	methods := []*classdesc.Method{
		{Name: name("F"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Float}}}},
		{Name: name("F"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Double}}}},
	}

	groups := bind.Synthesize(class, methods, target.Default)
	if len(groups) != 1 {
		t.Fatalf("expected one group, got %d", len(groups))
	}
	g := groups[0]
	if len(g.Overloads) != 1 {
		t.Fatalf("expected only the double overload to survive, got %d", len(g.Overloads))
	}
	if g.Master != "" {
		t.Fatal("expected no master dispatcher once pruning leaves a single survivor")
	}
}

func TestSynthesizeSkipsUnwrappableMethods(t *testing.T) {
	class := widgetClass()
	methods := []*classdesc.Method{
		{Name: name("BadOp"), IsOperator: true, IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void}},
	}
	groups := bind.Synthesize(class, methods, target.Default)
	if len(groups) != 0 {
		t.Fatalf("expected an unwrappable method to produce no groups, got %d", len(groups))
	}
}

func TestSynthesizeObjectValueArgumentDereferencesResolvedPointer(t *testing.T) {
	class := widgetClass()
	methods := []*classdesc.Method{{
		Name:       name("SetOrigin"),
		IsPublic:   true,
		ReturnType: typetag.Tag{Base: typetag.Void},
		Arguments:  []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Object}, Name: "vtkVector3d"}},
	}}

	groups := bind.Synthesize(class, methods, target.Default)
	if len(groups) != 1 || len(groups[0].Overloads) != 1 {
		t.Fatalf("expected one dispatcher, got %+v", groups)
	}
	src := groups[0].Overloads[0].Source
	if !strings.Contains(src, "vtkVector3d* temp0 = nullptr;") {
		t.Fatalf("expected a pointer temp declaration for the by-value-object argument, got:\n%s", src)
	}
	if !strings.Contains(src, "SetOrigin(*temp0)") {
		t.Fatalf("expected the call site to dereference the resolved object-value argument, got:\n%s", src)
	}
}

func TestSynthesizeFoldsTombstonedSignatureIntoSurvivor(t *testing.T) {
	class := widgetClass()
	a := &classdesc.Method{Name: name("F"), IsPublic: true, Signature: "void F(float)",
		ReturnType: typetag.Tag{Base: typetag.Void}, Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Float}}}}
	b := &classdesc.Method{Name: name("F"), IsPublic: true, Signature: "void F(double)",
		ReturnType: typetag.Tag{Base: typetag.Void}, Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Double}}}}
	bind.Synthesize(class, []*classdesc.Method{a, b}, target.Default)

	var survivor *classdesc.Method
	if a.HasName() {
		survivor = a
	} else {
		survivor = b
	}
	sigs := survivor.DocSignatures()
	if len(sigs) != 2 {
		t.Fatalf("expected survivor to carry both signatures, got %v", sigs)
	}
}
