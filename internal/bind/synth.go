package bind

import (
	"fmt"
	"strings"

	log "github.com/golang/glog"

	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/target"
	"github.com/kitware/vtkwrap/internal/typetag"
)

// Overload is one surviving, dispatcher-emitting signature for a method
// name, with the generated function text and the descriptor the method
// table and master dispatcher need to select it at runtime (spec.md
// §4.6 step 1).
type Overload struct {
	Method       *classdesc.Method
	FunctionName string
	Descriptor   string
	Source       string
}

// Group is the synthesizer's output for one surviving method name: the
// per-overload dispatcher functions, and the method table / master
// dispatcher text when the name needed either (spec.md §4.6 steps 2-3).
type Group struct {
	Name      string
	Overloads []Overload
	Table     string // "" when not emitted
	Master    string // "" when not emitted
}

// Synthesize partitions methods into SKIPPED and EMIT_* per the state
// machine of spec.md §4.6: unwrappable methods are dropped first, the
// remainder is grouped by name and pruned, and each surviving group
// gets its dispatcher functions and (when needed) its table and master
// dispatcher. Declaration order of each name's first wrappable
// appearance is preserved in the returned slice.
func Synthesize(class *classdesc.Class, methods []*classdesc.Method, p target.Profile) []Group {
	var order []string
	byName := map[string][]*classdesc.Method{}

	for _, m := range methods {
		if !Wrappable(m) {
			continue // SKIPPED
		}
		n := m.NameOr()
		if _, seen := byName[n]; !seen {
			order = append(order, n)
		}
		byName[n] = append(byName[n], m)
	}

	var groups []Group
	for _, n := range order {
		group := byName[n]
		PruneOverloads(group) // tombstones dominated siblings -> SKIPPED

		var survivors []*classdesc.Method
		for _, m := range group {
			if m.HasName() {
				survivors = append(survivors, m)
			}
		}
		if len(survivors) == 0 {
			continue
		}

		foldTombstonedSiblings(survivors[0], group)
		setGroupLegacyFlag(survivors)

		g := Group{Name: n}
		for i, m := range survivors {
			fn := dispatcherName(class.Name, n, i+1, len(survivors))
			g.Overloads = append(g.Overloads, Overload{
				Method:       m,
				FunctionName: fn,
				Descriptor:   EmitArgCheckDescriptor(m, isInstanceMethod(class, m), p),
				Source:       synthesizeOverload(class, m, fn, p),
			})
		}
		if len(survivors) > 1 || classdesc.IsConstructor(class, survivors[0]) {
			g.Table = emitMethodTable(class, n, g.Overloads)
		}
		if len(survivors) > 1 {
			g.Master = emitMasterDispatcher(class, n, g.Overloads)
		}
		groups = append(groups, g)
	}
	return groups
}

// foldTombstonedSiblings implements the docstring-aggregation half of
// spec.md §4.6 step 4: every tombstoned method in group (i.e. every
// method other than into) has its signature text folded into into, in
// declaration order.
func foldTombstonedSiblings(into *classdesc.Method, group []*classdesc.Method) {
	for _, m := range group {
		if m == into || m.HasName() {
			continue
		}
		into.AppendDocSignature(m.Signature)
		log.V(1).Infof("folded tombstoned signature %q into survivor %s", m.Signature, into.NameOr())
	}
}

// setGroupLegacyFlag implements the other half of step 4: the surviving
// signatures' IsLegacy flags are ANDed together and stamped back onto
// every survivor, since a multi-signature name is only wholly legacy
// when none of its surviving overloads are current API.
func setGroupLegacyFlag(survivors []*classdesc.Method) {
	legacy := true
	for _, m := range survivors {
		legacy = legacy && m.IsLegacy
	}
	for _, m := range survivors {
		m.IsLegacy = legacy
	}
}

func dispatcherName(class, name string, index, total int) string {
	if total <= 1 {
		return fmt.Sprintf("dispatch_%s_%s", class, name)
	}
	return fmt.Sprintf("dispatch_%s_%s_s%d", class, name, index)
}

func isInstanceMethod(class *classdesc.Class, m *classdesc.Method) bool {
	return class.IsVTKObject && !m.IsStatic && !classdesc.IsConstructor(class, m)
}

// synthesizeOverload emits the full dispatcher function body for one
// surviving overload, following the call sequence of spec.md §4.6 step
// 1: parse, resolve, invoke, write back arrays, marshal the return
// value, and release any handles.
func synthesizeOverload(class *classdesc.Class, m *classdesc.Method, fn string, p target.Profile) string {
	var b strings.Builder

	guarded := m.IsLegacy
	if guarded {
		fmt.Fprintf(&b, "#if !VTK_LEGACY_REMOVE\n")
	}

	fmt.Fprintf(&b, "static rt_Value* %s(rt_Object* self, rt_Value* args) {\n", fn)

	instance := isInstanceMethod(class, m)
	isCtor := classdesc.IsConstructor(class, m)
	if instance || (class.IsVTKObject && !isCtor) {
		fmt.Fprintf(&b, "  %s* op = nullptr;\n", class.Name)
	}

	var temps []TempVar
	hasObjectValueArg := false
	for i := range m.Arguments {
		tv := EmitTempVariable(m, i, class.Name)
		temps = append(temps, tv)
		b.WriteString("  " + tv.Decl + "\n")
		for _, aux := range tv.Aux {
			b.WriteString("  " + aux + "\n")
		}
		if typeArgNeedsHandle(m, i) {
			hasObjectValueArg = true
		}
	}
	rv := EmitTempVariable(m, ReturnIndex, class.Name)
	b.WriteString("  " + rv.Decl + "\n")
	for _, aux := range rv.Aux {
		b.WriteString("  " + aux + "\n")
	}
	b.WriteString("  rt_Value* result = nullptr;\n")

	if m.IsPureVirtual && class.IsVTKObject {
		fmt.Fprintf(&b, "  if (rt_IsClassObject(self)) { rt_SetTypeError(\"pure virtual method %s has no class-level implementation\"); return nullptr; }\n", m.NameOr())
	}

	format := EmitParseFormat(m, p)
	parseArgs := parseCallArgs(temps)
	failReturn := "return nullptr;"
	if hasObjectValueArg {
		failReturn = "goto cleanup_fail;"
	}
	fmt.Fprintf(&b, "  if (!rt_ParseTuple(args, %q%s)) { %s }\n", format, parseArgs, failReturn)

	for i, a := range m.Arguments {
		if line := resolveArgument(a, temps[i]); line != "" {
			b.WriteString("  " + line + "\n")
		}
	}

	b.WriteString(invocationLines(class, m, temps, rv.Name))

	for i, a := range m.Arguments {
		if isNonConstNumericArray(a) {
			fmt.Fprintf(&b, "  if (!rt_CheckArray(args, %d, %s, %d)) { goto cleanup_fail; }\n", i, temps[i].Name, a.ArrayCount)
		}
	}

	b.WriteString("  " + EmitReturnMarshal(m, rv.Name, m.ReturnClass) + "\n")

	if hasObjectValueArg {
		b.WriteString("  goto cleanup_ok;\ncleanup_fail:\n  result = nullptr;\ncleanup_ok:\n")
		for i := range m.Arguments {
			if typeArgNeedsHandle(m, i) {
				fmt.Fprintf(&b, "  rt_ReleaseHandle(handle_%s);\n", temps[i].Name)
			}
		}
	}
	b.WriteString("  return result;\n}\n")

	if guarded {
		b.WriteString("#endif\n")
	}
	return b.String()
}

func parseCallArgs(temps []TempVar) string {
	if len(temps) == 0 {
		return ""
	}
	var names []string
	for _, t := range temps {
		names = append(names, "&"+t.Name)
	}
	return ", " + strings.Join(names, ", ")
}

func typeArgNeedsHandle(m *classdesc.Method, i int) bool {
	t := m.Arguments[i].Tag
	return typetag.IsObjectValue(t) || typetag.IsObjectRef(t)
}

func isNonConstNumericArray(a classdesc.Argument) bool {
	return a.ArrayCount > 0 && !a.Tag.Const
}

// resolveArgument emits the per-argument resolution statement of spec.md
// §4.6 step 1's "Resolve" bullet.
func resolveArgument(a classdesc.Argument, tv TempVar) string {
	t := a.Tag
	switch {
	case typetag.IsObjectPtr(t):
		return fmt.Sprintf("%s = rt_ObjectFromValue(%s);", tv.Name, tv.Name)
	case typetag.IsObjectValue(t) || typetag.IsObjectRef(t):
		return fmt.Sprintf("handle_%s = rt_SpecialObjectFromValue(%s, &%s);", tv.Name, tv.Name, tv.Name)
	case t.Base == typetag.Bool:
		return fmt.Sprintf("%s = rt_IsTrue(%s);", tv.Name, tv.Name)
	case typetag.IsUnicode(t):
		return fmt.Sprintf("utf8_%s = rt_DecodeUTF8(raw_u_%s); %s = utf8_%s;", tv.Name, tv.Name, tv.Name, tv.Name)
	case typetag.IsVoidPtr(t):
		return fmt.Sprintf("%s = rt_UnmangleAndCheckSize(%s, size_%s);", tv.Name, tv.Name, tv.Name)
	case typetag.IsFunction(t):
		return fmt.Sprintf("if (!rt_IsCallable(%s)) { return nullptr; } rt_IncRef(%s);", tv.Name, tv.Name)
	default:
		return ""
	}
}

func invocationLines(class *classdesc.Class, m *classdesc.Method, temps []TempVar, rv string) string {
	var b strings.Builder
	callArgs := callExpr(m, temps)

	switch {
	case classdesc.IsConstructor(class, m):
		fmt.Fprintf(&b, "  %s = new %s(%s);\n", rv, class.Name, callArgs)
	case m.IsStatic:
		fmt.Fprintf(&b, "  %s = %s::%s(%s);\n", rv, class.Name, m.NameOr(), callArgs)
	case class.IsVTKObject:
		fmt.Fprintf(&b, "  if (rt_IsClassObject(self)) { %s = op->%s::%s(%s); } else { %s = op->%s(%s); }\n",
			rv, class.Name, m.NameOr(), callArgs, rv, m.NameOr(), callArgs)
	default:
		fmt.Fprintf(&b, "  %s = op->%s(%s);\n", rv, m.NameOr(), callArgs)
	}

	return b.String()
}

func callExpr(m *classdesc.Method, temps []TempVar) string {
	var parts []string
	for i, a := range m.Arguments {
		n := temps[i].Name
		if typetag.IsReference(a.Tag) || typetag.IsObjectValue(a.Tag) {
			n = "*" + n
		}
		parts = append(parts, n)
	}
	return strings.Join(parts, ", ")
}

// emitMethodTable builds the per-name `(descriptor_string,
// dispatcher_pointer)` table of spec.md §4.6 step 2, gating
// legacy-flagged entries individually.
func emitMethodTable(class *classdesc.Class, name string, overloads []Overload) string {
	var b strings.Builder
	fmt.Fprintf(&b, "static const rt_MethodEntry methodTable_%s_%s[] = {\n", class.Name, name)
	for _, o := range overloads {
		if o.Method.IsLegacy {
			b.WriteString("#if !VTK_LEGACY_REMOVE\n")
		}
		fmt.Fprintf(&b, "  { %q, %s },\n", o.Descriptor, o.FunctionName)
		if o.Method.IsLegacy {
			b.WriteString("#endif\n")
		}
	}
	b.WriteString("  { nullptr, nullptr },\n};\n")
	return b.String()
}

// emitMasterDispatcher builds the thin dispatch-by-descriptor function
// of spec.md §4.6 step 3.
func emitMasterDispatcher(class *classdesc.Class, name string, overloads []Overload) string {
	return fmt.Sprintf(
		"static rt_Value* dispatch_%s_%s(rt_Object* self, rt_Value* args) {\n"+
			"  return rt_DispatchOverload(self, args, methodTable_%s_%s);\n"+
			"}\n",
		class.Name, name, class.Name, name)
}
