package bind

import (
	"fmt"
	"strings"

	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/target"
	"github.com/kitware/vtkwrap/internal/textutil"
)

// Assembly is the complete generated C source text for one class,
// plus the pieces a caller (a batch driver, a test) might want without
// re-parsing the text (spec.md §4.7).
type Assembly struct {
	ClassName string
	Source    string
	Groups    []Group
	Headers   []string
}

// masterDispatcherFor decides which function pointer represents a
// surviving name in the class-level method table:
// the sole dispatcher when it has exactly one surviving signature, or
// the master dispatcher when it has more (spec.md §4.6 step 3, §4.7
// "Body").
func masterDispatcherFor(className string, g Group) string {
	if len(g.Overloads) == 1 {
		return g.Overloads[0].FunctionName
	}
	return fmt.Sprintf("dispatch_%s_%s", className, g.Name)
}

// Assemble runs the full Class Assembler pipeline of spec.md §4.7:
// inject root overlays, synthesize instance methods, discover headers,
// and emit the prologue, class method table, docstring, and factory
// (plus value-type shims when applicable).
func Assemble(class *classdesc.Class, methods []*classdesc.Method, p target.Profile) Assembly {
	ApplyOverlay(class.Name, methods)

	groups := Synthesize(class, methods, p)
	headers := DiscoverHeaders(class, methods)
	overlay, hasOverlay := OverlayFor(class.Name)

	var b strings.Builder
	b.WriteString(prologue(class, headers))
	b.WriteString("\n")

	if hasOverlay {
		for _, src := range overlay.ExtraDispatchers {
			b.WriteString(src)
			b.WriteString("\n")
		}
	}

	for _, g := range groups {
		for _, o := range g.Overloads {
			b.WriteString(o.Source)
			b.WriteString("\n")
		}
		if g.Table != "" {
			b.WriteString(g.Table)
			b.WriteString("\n")
		}
		if g.Master != "" {
			b.WriteString(g.Master)
			b.WriteString("\n")
		}
	}

	b.WriteString(emitDocstringArray(class, groups))

	b.WriteString(classMethodTable(class, groups, overlay, hasOverlay))
	b.WriteString("\n")
	b.WriteString(factory(class, groups))

	return Assembly{ClassName: class.Name, Source: b.String(), Groups: groups, Headers: headers}
}

// prologue emits the wrapping macros, includes, factory declaration,
// and superclass forward declarations of spec.md §4.7's first bullet.
func prologue(class *classdesc.Class, headers []string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "// Generated wrapper for %s. Do not edit.\n", class.Name)
	b.WriteString("#define RT_WRAPPING_CPP\n")
	b.WriteString("#include \"rt_runtime.h\"\n")
	b.WriteString("#include \"rt_util.h\"\n")
	for _, h := range headers {
		fmt.Fprintf(&b, "#include \"%s\"\n", h)
	}
	fmt.Fprintf(&b, "#include \"%s.h\"\n", class.Name)
	fmt.Fprintf(&b, "\nextern \"C\" rt_Object* Factory_%s(const char* moduleName);\n", class.Name)
	for _, super := range class.Supers {
		fmt.Fprintf(&b, "extern \"C\" rt_Object* Factory_%s(const char* moduleName);\n", super)
	}
	return b.String()
}

// DocstringWidth and DocstringChunkBytes are the column width and
// maximum per-literal byte size spec.md §4.7 names explicitly for the
// class docstring array.
const (
	DocstringWidth      = 70
	DocstringChunkBytes = 400
)

// docstringLines builds the ordered content of the class docstring
// array: the class name, a Superclass line for object-kind classes, the
// description/caveats/see-also text reflowed to DocstringWidth and
// chunked into DocstringChunkBytes-byte string literals, and, for
// value-kind classes, one reflowed constructor signature per surviving
// overload (spec.md §4.7 "Docstring").
func docstringLines(class *classdesc.Class, groups []Group) []string {
	lines := []string{class.Name}
	if class.IsVTKObject && len(class.Supers) > 0 {
		lines = append(lines, "Superclass: "+class.Supers[0])
	}

	var prose []string
	for _, s := range []string{class.Description, class.Caveats, class.SeeAlso} {
		if s != "" {
			prose = append(prose, s)
		}
	}
	if len(prose) > 0 {
		reflowed := textutil.ReflowComment(strings.Join(prose, "\n\n"), DocstringWidth)
		lines = append(lines, chunkDocstring(reflowed, DocstringChunkBytes)...)
	}

	if !class.IsVTKObject {
		for _, g := range groups {
			for _, o := range g.Overloads {
				if classdesc.IsConstructor(class, o.Method) {
					lines = append(lines, textutil.ReflowSignature(o.Method.Signature, DocstringWidth))
				}
			}
		}
	}
	return lines
}

// emitDocstringArray renders docstringLines as the NUL-terminated array
// of string constants spec.md §4.7 describes.
func emitDocstringArray(class *classdesc.Class, groups []Group) string {
	var b strings.Builder
	fmt.Fprintf(&b, "static const char* classDoc_%s[] = {\n", class.Name)
	for _, line := range docstringLines(class, groups) {
		fmt.Fprintf(&b, "  \"%s\",\n", textutil.QuoteForStringLiteral(line, 4096))
	}
	b.WriteString("  nullptr,\n};\n")
	return b.String()
}

// chunkDocstring splits s into a sequence of chunks no longer than max
// bytes, breaking only at line boundaries so a chunk never splits a
// reflowed line in half.
func chunkDocstring(s string, max int) []string {
	if s == "" {
		return nil
	}
	var chunks []string
	var cur strings.Builder
	for _, line := range strings.Split(s, "\n") {
		if cur.Len() > 0 && cur.Len()+1+len(line) > max {
			chunks = append(chunks, cur.String())
			cur.Reset()
		}
		if cur.Len() > 0 {
			cur.WriteByte('\n')
		}
		cur.WriteString(line)
	}
	if cur.Len() > 0 {
		chunks = append(chunks, cur.String())
	}
	return chunks
}

// classMethodTable builds the class-level (name -> dispatcher) table:
// one entry per surviving method name, plus any overlay's manually
// added entries (spec.md §4.7 "Body", and the root-overlay bullet).
func classMethodTable(class *classdesc.Class, groups []Group, overlay Overlay, hasOverlay bool) string {
	var b strings.Builder
	fmt.Fprintf(&b, "static const rt_MethodEntry classMethodTable_%s[] = {\n", class.Name)
	for _, g := range groups {
		fmt.Fprintf(&b, "  { %q, %s },\n", g.Name, masterDispatcherFor(class.Name, g))
	}
	if hasOverlay {
		for _, entry := range overlay.ExtraTableEntries {
			fmt.Fprintf(&b, "  %s,\n", entry)
		}
	}
	b.WriteString("  { nullptr, nullptr },\n};\n")
	return b.String()
}

// factory emits Factory_<Class>(module_name): the recursive object-kind
// chain to the base class, or the value-type shim bundle, or a
// null-returning stub for an abstract non-object class (spec.md §4.7
// "Factory").
func factory(class *classdesc.Class, groups []Group) string {
	switch {
	case class.IsVTKObject:
		return objectFactory(class)
	case class.IsAbstract:
		return fmt.Sprintf("extern \"C\" rt_Object* Factory_%s(const char* moduleName) {\n  return nullptr;\n}\n", class.Name)
	default:
		return valueFactory(class, groups)
	}
}

func objectFactory(class *classdesc.Class) string {
	var b strings.Builder
	fmt.Fprintf(&b, "extern \"C\" rt_Object* Factory_%s(const char* moduleName) {\n", class.Name)
	base := "nullptr"
	if len(class.Supers) > 0 {
		base = fmt.Sprintf("Factory_%s(moduleName)", class.Supers[0])
	}
	fmt.Fprintf(&b, "  return rt_NewClassObject(moduleName, %q, classMethodTable_%s, %s);\n", class.Name, class.Name, base)
	b.WriteString("}\n")
	return b.String()
}

// valueFactory emits the Copy/Delete/Print shims, the opt-in Compare
// and Hash shims, a SpecialMethods bundle, and the factory that binds
// them all (spec.md §4.7 "Factory", value-kind bullet).
func valueFactory(class *classdesc.Class, groups []Group) string {
	var b strings.Builder
	name := class.Name

	fmt.Fprintf(&b, "static void* Copy_%s(void* src) { return new %s(*(%s*)src); }\n", name, name, name)
	fmt.Fprintf(&b, "static void Delete_%s(void* self) { delete (%s*)self; }\n", name, name)
	fmt.Fprintf(&b, "static rt_Value* Print_%s(void* self) { rt_OStream out; ((%s*)self)->Print(out); return rt_FromString(rt_OStreamString(&out)); }\n", name, name)

	mode := CompareModeFor(name)
	if mode != CompareNone {
		b.WriteString(CompareShimSource(name, mode))
	}
	if HashEnabled(name) {
		b.WriteString(HashShimSource(name))
	}

	fmt.Fprintf(&b, "static const rt_SpecialMethods specialMethods_%s = {\n", name)
	fmt.Fprintf(&b, "  Copy_%s, Delete_%s, Print_%s,\n", name, name, name)
	if mode != CompareNone {
		fmt.Fprintf(&b, "  Compare_%s,\n", name)
	} else {
		b.WriteString("  nullptr,\n")
	}
	if HashEnabled(name) {
		fmt.Fprintf(&b, "  Hash_%s,\n", name)
	} else {
		b.WriteString("  nullptr,\n")
	}
	b.WriteString("};\n")

	var ctorGroup *Group
	for i := range groups {
		if classdesc.IsConstructor(class, groups[i].Overloads[0].Method) {
			ctorGroup = &groups[i]
			break
		}
	}
	ctorTable := "nullptr"
	if ctorGroup != nil && ctorGroup.Table != "" {
		ctorTable = fmt.Sprintf("methodTable_%s_%s", name, ctorGroup.Name)
	}

	fmt.Fprintf(&b, "extern \"C\" rt_Object* Factory_%s(const char* moduleName) {\n", name)
	fmt.Fprintf(&b, "  return rt_NewValueTypeObject(moduleName, %q, &specialMethods_%s, %s);\n", name, name, ctorTable)
	b.WriteString("}\n")
	return b.String()
}
