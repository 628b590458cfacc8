package bind

import (
	"fmt"
	"strings"

	"github.com/kitware/vtkwrap/internal/classdesc"
	"github.com/kitware/vtkwrap/internal/target"
	"github.com/kitware/vtkwrap/internal/typetag"
)

// ReturnIndex is the sentinel argument index emitTempVariable and friends
// use to mean "the return value" rather than a real argument position
// (spec.md §4.5).
const ReturnIndex = -1

// formatCode is the single per-argument descriptor spec.md §9's "design
// note" asks for: the tuple-parser format character(s) and, when the
// format code alone is ambiguous, the extra hint text the arg-check
// descriptor appends. Deriving both emit_parse_format and
// emit_arg_check_descriptor from this one value keeps the two paths from
// drifting apart.
type formatCode struct {
	code string // e.g. "O", "f", "d", "i", "z", "s#", "(ddd)"
	hint string // "", "bool", "unicode", "<Class>", "&<Class>", "*<Class>"
}

// scalarCode returns the bare tuple-parser format character for t's base
// kind, ignoring indirection (used both directly and as the element code
// inside an array tuple). p resolves the host-dependent 64-bit-integer
// choice (spec.md §4.5).
func scalarCode(t typetag.Tag, p target.Profile) string {
	switch t.Base {
	case typetag.Float:
		return "f"
	case typetag.Double:
		return "d"
	case typetag.Short:
		return "h"
	case typetag.Long:
		return "l"
	case typetag.Int64:
		if p.SupportsInt64 {
			return "L"
		}
		return "l"
	case typetag.IDType:
		if p.IDsAre64Bit && p.SupportsInt64 {
			return "L"
		}
		return "l"
	case typetag.SignedChar:
		return "b"
	case typetag.Char:
		if t.Unsigned {
			return "b"
		}
		return "c"
	case typetag.Int:
		return "i"
	case typetag.Bool:
		return "i" // only used as an array element code; scalar bool is "O"
	default:
		return "i"
	}
}

// argFormat computes the format descriptor for one argument, per the
// mapping table in spec.md §4.5.
func argFormat(a classdesc.Argument, p target.Profile) formatCode {
	t := a.Tag

	if typetag.IsArray(t, a.ArrayCount) {
		elem := scalarCode(typetag.Tag{Base: t.Base}, p)
		if t.Base == typetag.Bool {
			elem = "i"
		}
		return formatCode{code: "(" + strings.Repeat(elem, a.ArrayCount) + ")"}
	}

	switch {
	case typetag.IsObjectPtr(t):
		return formatCode{code: "O", hint: "*" + objectHintClass(a)}
	case typetag.IsObjectRef(t):
		return formatCode{code: "O", hint: "&" + objectHintClass(a)}
	case typetag.IsObjectValue(t):
		return formatCode{code: "O", hint: objectHintClass(a)}
	case t.Base == typetag.Bool:
		return formatCode{code: "O", hint: "bool"}
	case typetag.IsUnicode(t):
		return formatCode{code: "O", hint: "unicode"}
	case typetag.IsString(t):
		return formatCode{code: "s"}
	case typetag.IsCharPtr(t):
		return formatCode{code: "z"}
	case typetag.IsVoidPtr(t):
		return formatCode{code: "s#"}
	case typetag.IsFunction(t):
		return formatCode{code: "O"}
	default:
		return formatCode{code: scalarCode(t, p)}
	}
}

// objectHintClass names the class an object-kind argument refers to. The
// concrete class name is carried on classdesc.Argument.Name by convention
// when the parser describes an object type; callers that don't have it
// available fall back to a placeholder so format-string generation never
// panics.
func objectHintClass(a classdesc.Argument) string {
	if a.Name != "" {
		return a.Name
	}
	return "vtkObject"
}

// EmitParseFormat returns the format descriptor string consumed by the
// runtime's tuple-parsing entry point for every argument of m, in order
// (spec.md §4.5).
func EmitParseFormat(m *classdesc.Method, p target.Profile) string {
	var b strings.Builder
	for _, a := range m.Arguments {
		b.WriteString(argFormat(a, p).code)
	}
	return b.String()
}

// EmitArgCheckDescriptor returns the descriptor used by the overloaded-
// method dispatcher to select among sibling overloads at runtime: the
// parse format, prefixed with "@" when the call is dispatched on an
// instance, followed by space-separated disambiguation hints (spec.md
// §4.5).
func EmitArgCheckDescriptor(m *classdesc.Method, isInstanceMethod bool, p target.Profile) string {
	var format strings.Builder
	var hints []string
	for _, a := range m.Arguments {
		fc := argFormat(a, p)
		format.WriteString(fc.code)
		if fc.hint != "" {
			hints = append(hints, fc.hint)
		}
	}
	desc := format.String()
	if isInstanceMethod {
		desc = "@" + desc
	}
	for _, h := range hints {
		desc += " " + h
	}
	return desc
}

// TempVar describes one declared temporary, plus any auxiliary
// temporaries the argument's representation requires (spec.md §4.5).
type TempVar struct {
	Name string
	Decl string
	Aux  []string
}

func tempName(index int) string {
	if index == ReturnIndex {
		return "rv"
	}
	return fmt.Sprintf("temp%d", index)
}

// cDeclType renders the C declaration type for t, decaying Reference to a
// plain value/pointer the way the synthesizer's call sites then
// dereference explicitly (spec.md §4.5: "decays reference to pointer").
func cDeclType(t typetag.Tag, className string) string {
	base := cBaseTypeName(t, className)
	switch t.Indirection {
	case typetag.Pointer, typetag.Reference:
		return base + "*"
	case typetag.PointerToPointer:
		return base + "**"
	case typetag.PointerReference:
		return base + "**"
	default:
		return base
	}
}

func cBaseTypeName(t typetag.Tag, className string) string {
	if t.Base == typetag.Object {
		if className == "" {
			className = "vtkObjectBase"
		}
		return className
	}
	names := map[typetag.BaseKind]string{
		typetag.Void: "void", typetag.Bool: "bool", typetag.Char: "char",
		typetag.SignedChar: "signed char", typetag.Short: "short",
		typetag.Int: "int", typetag.Long: "long", typetag.LongLong: "long long",
		typetag.Int64: "vtkTypeInt64", typetag.IDType: "vtkIdType",
		typetag.Float: "float", typetag.Double: "double",
		typetag.String: "vtkStdString", typetag.UnicodeString: "vtkUnicodeString",
		typetag.Function: "void*",
	}
	name := names[t.Base]
	if t.Unsigned && typetag.IsInteger(t) && t.Base != typetag.IDType {
		name = "unsigned " + name
	}
	if t.Const {
		name = "const " + name
	}
	return name
}

// EmitTempVariable declares the temporary for argument index (or the
// return value, when index is ReturnIndex), including the auxiliary
// temporaries spec.md §4.5 lists: a void* size companion, an object
// handle, a decoded bool pair, a string C-string holder, a decoded
// unicode pair, or a char two-byte return buffer.
func EmitTempVariable(m *classdesc.Method, index int, className string) TempVar {
	var t typetag.Tag
	var argc int
	var argClass string
	if index == ReturnIndex {
		t = m.ReturnType
		if m.Hint != nil {
			argc = m.Hint.Size
		}
		argClass = m.ReturnClass
	} else {
		a := m.Arguments[index]
		t = a.Tag
		argc = a.ArrayCount
		argClass = a.Name
	}

	n := tempName(index)
	tv := TempVar{Name: n}

	switch {
	case typetag.IsArray(t, argc):
		tv.Decl = fmt.Sprintf("%s %s[%d] = {0};", cBaseTypeName(typetag.Unqualified(t), ""), n, argc)
	case t.Base == typetag.Bool:
		tv.Decl = fmt.Sprintf("bool %s = false;", n)
		tv.Aux = append(tv.Aux, fmt.Sprintf("rt_Value* raw_b_%s = nullptr;", n), fmt.Sprintf("int bool_%s = 0;", n))
	case typetag.IsObjectPtr(t) || typetag.IsObjectRef(t):
		tv.Decl = fmt.Sprintf("%s %s = nullptr;", cDeclType(t, orDefault(argClass, className)), n)
		if !typetag.IsObjectPtr(t) {
			tv.Aux = append(tv.Aux, fmt.Sprintf("rt_Handle handle_%s = nullptr;", n))
		}
	case typetag.IsObjectValue(t) && index == ReturnIndex:
		// A by-value object return is marshalled by address
		// (EmitReturnMarshal's "&rv"), so it is default-constructed
		// in place rather than declared as a pointer.
		tv.Decl = fmt.Sprintf("%s %s;", cBaseTypeName(t, orDefault(argClass, className)), n)
	case typetag.IsObjectValue(t):
		tv.Decl = fmt.Sprintf("%s* %s = nullptr;", cBaseTypeName(t, orDefault(argClass, className)), n)
		tv.Aux = append(tv.Aux, fmt.Sprintf("rt_Handle handle_%s = nullptr;", n))
	case typetag.IsString(t):
		tv.Decl = fmt.Sprintf("%s %s;", cBaseTypeName(typetag.Unqualified(t), ""), n)
		tv.Aux = append(tv.Aux, fmt.Sprintf("const char* c_str_%s = nullptr;", n))
	case typetag.IsUnicode(t):
		tv.Decl = fmt.Sprintf("%s %s;", cBaseTypeName(typetag.Unqualified(t), ""), n)
		tv.Aux = append(tv.Aux, fmt.Sprintf("rt_Value* raw_u_%s = nullptr;", n), fmt.Sprintf("const char* utf8_%s = nullptr;", n))
	case typetag.IsVoidPtr(t):
		tv.Decl = fmt.Sprintf("void* %s = nullptr;", n)
		tv.Aux = append(tv.Aux, fmt.Sprintf("int size_%s = 0;", n))
	case index == ReturnIndex && t.Base == typetag.Char && t.Indirection == typetag.None:
		tv.Decl = fmt.Sprintf("char %s = 0;", n)
		tv.Aux = append(tv.Aux, fmt.Sprintf("char ch_buf[2] = {0, 0};"))
	default:
		tv.Decl = fmt.Sprintf("%s %s = %s;", cDeclType(t, className), n, zeroValue(t))
	}
	return tv
}

func orDefault(a, b string) string {
	if a != "" {
		return a
	}
	return b
}

func zeroValue(t typetag.Tag) string {
	if t.Indirection != typetag.None {
		return "nullptr"
	}
	return "0"
}

// EmitReturnMarshal writes the C statement that builds the runtime value
// from the C++ call result held in "rv", per the rules of spec.md §4.5.
// rvExpr is the already-dereferenced C++ expression (the synthesizer
// dereferences reference returns before calling this).
func EmitReturnMarshal(m *classdesc.Method, rvExpr string, className string) string {
	t := m.ReturnType
	switch {
	case t.Base == typetag.Void && t.Indirection == typetag.None:
		return "result = rt_None();"
	case typetag.IsCharPtr(t):
		return fmt.Sprintf("result = (%s == nullptr) ? rt_None() : rt_FromString(%s);", rvExpr, rvExpr)
	case typetag.IsObjectPtr(t):
		return fmt.Sprintf("result = rt_FromObjectPointer(%s);", rvExpr)
	case typetag.IsObjectValue(t) || typetag.IsObjectRef(t):
		cls := className
		if m.ReturnClass != "" {
			cls = m.ReturnClass
		}
		return fmt.Sprintf("result = rt_FromSpecialObject(&%s, %q);", rvExpr, cls)
	case typetag.IsVoidPtr(t):
		return fmt.Sprintf("result = (%s == nullptr) ? rt_None() : rt_FromMangledPointer(%s, \"void_p\");", rvExpr, rvExpr)
	case typetag.IsPointer(t) && typetag.IsNumeric(t) && m.Hint != nil:
		elem := scalarCode(typetag.Tag{Base: m.Hint.Tag.Base}, target.Default)
		return fmt.Sprintf("result = (%s == nullptr) ? rt_None() : rt_FromArray(%s, %d, %q);", rvExpr, rvExpr, m.Hint.Size, elem)
	case typetag.IsFloating(t):
		return fmt.Sprintf("result = rt_FromDouble(%s);", rvExpr)
	case t.Base == typetag.Bool:
		return fmt.Sprintf("result = rt_FromBool(%s);", rvExpr)
	case typetag.IsInteger(t):
		if t.Unsigned {
			return fmt.Sprintf("result = rt_FromUnsignedLong(%s);", rvExpr)
		}
		return fmt.Sprintf("result = rt_FromLong(%s);", rvExpr)
	case t.Base == typetag.Char:
		return fmt.Sprintf("ch_buf[0] = %s; result = rt_FromString(ch_buf);", rvExpr)
	case typetag.IsString(t):
		return fmt.Sprintf("result = rt_FromString(%s.c_str());", rvExpr)
	case typetag.IsUnicode(t):
		return fmt.Sprintf("result = rt_FromUTF8(%s.utf8_str());", rvExpr)
	default:
		return "result = rt_None();"
	}
}
