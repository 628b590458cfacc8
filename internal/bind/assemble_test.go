package bind_test

import (
	"strings"
	"testing"

	"github.com/kylelemons/godebug/diff"

	"github.com/kitware/vtkwrap/internal/bind"
	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/golden"
	"github.com/kitware/vtkwrap/internal/target"
	"github.com/kitware/vtkwrap/internal/typetag"
)

func TestAssembleObjectKindSingleMethod(t *testing.T) {
	class := &classdesc.Class{Name: "Widget", IsVTKObject: true, Supers: []string{"vtkObjectBase"}}
	methods := []*classdesc.Method{{
		Name:       name("SetName"),
		IsPublic:   true,
		ReturnType: typetag.Tag{Base: typetag.Void},
		Arguments:  []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Char, Indirection: typetag.Pointer}}},
	}}

	asm := bind.Assemble(class, methods, target.Default)
	if len(asm.Groups) != 1 || len(asm.Groups[0].Overloads) != 1 {
		t.Fatalf("expected exactly one dispatcher, got %+v", asm.Groups)
	}
	if !strings.Contains(asm.Source, "Factory_Widget") {
		t.Error("expected a factory function in the generated source")
	}
	if !strings.Contains(asm.Source, "Superclass: vtkObjectBase") {
		t.Error("expected the docstring to name the superclass")
	}
	if !strings.Contains(asm.Source, "Factory_vtkObjectBase(moduleName)") {
		t.Error("expected the factory to chain to its superclass")
	}
}

func TestAssembleMultiOverloadEmitsMasterInClassTable(t *testing.T) {
	class := &classdesc.Class{Name: "Widget", IsVTKObject: true}
	methods := []*classdesc.Method{
		{Name: name("Set"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Int}}}},
		{Name: name("Set"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Double}}}},
	}
	asm := bind.Assemble(class, methods, target.Default)
	if !strings.Contains(asm.Source, "dispatch_Widget_Set(") {
		t.Error("expected a master dispatcher function for a multi-signature name")
	}
	wantEntry := `{ "Set", dispatch_Widget_Set },`
	if !strings.Contains(asm.Source, wantEntry) {
		var gotEntry string
		for _, line := range strings.Split(asm.Source, "\n") {
			if strings.Contains(line, `"Set"`) {
				gotEntry = strings.TrimSpace(line)
			}
		}
		t.Errorf("class-table entry mismatch:\n%s", diff.Diff(wantEntry, gotEntry))
	}
}

func TestAssembleAbstractNonObjectFactoryReturnsNull(t *testing.T) {
	class := &classdesc.Class{Name: "Abstract", IsVTKObject: false, IsAbstract: true}
	asm := bind.Assemble(class, nil, target.Default)
	if !strings.Contains(asm.Source, "return nullptr;") {
		t.Errorf("expected an abstract non-object factory to return null, got:\n%s", asm.Source)
	}
}

func TestAssembleValueKindEmitsShims(t *testing.T) {
	class := &classdesc.Class{Name: "Value", IsVTKObject: false}
	methods := []*classdesc.Method{{
		Name:       name("Value"),
		IsPublic:   true,
		ReturnType: typetag.Tag{Base: typetag.Void},
		Arguments:  []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Int}}},
	}}
	asm := bind.Assemble(class, methods, target.Default)
	for _, want := range []string{"Copy_Value", "Delete_Value", "Print_Value", "specialMethods_Value"} {
		if !strings.Contains(asm.Source, want) {
			t.Errorf("expected value-kind shim %q in generated source", want)
		}
	}
}

func TestAssembleVtkObjectOverlayReplacesAddObserver(t *testing.T) {
	class := &classdesc.Class{Name: "vtkObject", IsVTKObject: true}
	methods := []*classdesc.Method{{
		Name:       name("AddObserver"),
		IsPublic:   true,
		ReturnType: typetag.Tag{Base: typetag.Void},
	}}
	asm := bind.Assemble(class, methods, target.Default)
	if len(asm.Groups) != 0 {
		t.Fatalf("expected the parsed AddObserver to be tombstoned by the overlay, got groups %+v", asm.Groups)
	}
	if !strings.Contains(asm.Source, "dispatch_vtkObject_AddObserver") {
		t.Error("expected the overlay's hand-written AddObserver dispatcher in the generated source")
	}
}

// TestAssembleIsDeterministic re-runs Assemble over the same class twice
// and requires byte-identical output: a batch run over unchanged class
// descriptions must not produce spurious diffs in checked-in generated
// source between builds.
func TestAssembleIsDeterministic(t *testing.T) {
	class := &classdesc.Class{Name: "Widget", IsVTKObject: true, Supers: []string{"vtkObjectBase"}}
	methods := []*classdesc.Method{
		{Name: name("Set"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Int}}}},
		{Name: name("Set"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Double}}}},
	}

	first := bind.Assemble(class, methods, target.Default).Source

	methods = []*classdesc.Method{
		{Name: name("Set"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Int}}}},
		{Name: name("Set"), IsPublic: true, ReturnType: typetag.Tag{Base: typetag.Void},
			Arguments: []classdesc.Argument{{Tag: typetag.Tag{Base: typetag.Double}}}},
	}
	second := bind.Assemble(class, methods, target.Default).Source

	d, err := golden.Diff([]byte(first), []byte(second))
	if err != nil {
		t.Fatalf("golden.Diff: %v", err)
	}
	if d != nil {
		t.Errorf("expected identical output across two runs over equivalent input, got a diff:\n%s", d)
	}
}
