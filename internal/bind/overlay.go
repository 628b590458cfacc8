package bind

import (
	"fmt"

	"github.com/kitware/vtkwrap/internal/classdesc"
)

// Overlay is a hand-written addition the Class Assembler injects before
// the general synthesizer runs, keyed by class name rather than
// expressed as an `if class_name == "..."` branch (spec.md §4.7, §9
// REDESIGN FLAG "Hand-written overlays via identity-match on class
// name"). Conflicts are resolved by predicate rather than literal name
// comparison so a future overlay doesn't need to special-case every
// caller of Tombstones.
type Overlay struct {
	// Tombstones reports whether a parsed method conflicts with this
	// overlay and must be removed before synthesis sees it.
	Tombstones func(m *classdesc.Method) bool

	// ExtraDispatchers is hand-written dispatcher source text emitted
	// alongside (not instead of) the synthesizer's own output.
	ExtraDispatchers []string

	// ExtraTableEntries is appended to the class method table verbatim,
	// each a (method name, function name) pair already formatted as a C
	// initializer.
	ExtraTableEntries []string
}

// rootOverlays is the registry of object-hierarchy root overlays, keyed
// by class name. Populated with the two concrete overlays spec.md §4.7
// names; a class with no entry here gets no overlay treatment.
var rootOverlays = map[string]Overlay{
	"vtkObject": {
		Tombstones: func(m *classdesc.Method) bool { return m.HasName() && m.NameOr() == "AddObserver" },
		ExtraDispatchers: []string{
			"static rt_Value* dispatch_vtkObject_AddObserver(rt_Object* self, rt_Value* args) {\n" +
				"  vtkObject* op = nullptr;\n" +
				"  rt_Value* callable = nullptr;\n" +
				"  const char* eventName = nullptr;\n" +
				"  double priority = 1.0;\n" +
				"  if (!rt_ParseTuple(args, \"sO|d\", &eventName, &callable, &priority)) { return nullptr; }\n" +
				"  if (!rt_IsCallable(callable)) { rt_SetTypeError(\"AddObserver requires a callable\"); return nullptr; }\n" +
				"  rt_IncRef(callable);\n" +
				"  op = (vtkObject*)rt_ObjectFromValue(self);\n" +
				"  unsigned long tag = op->AddObserver(eventName, rt_NewCommandTrampoline(callable), priority);\n" +
				"  return rt_FromUnsignedLong(tag);\n" +
				"}\n",
		},
		ExtraTableEntries: []string{`{ "AddObserver", dispatch_vtkObject_AddObserver }`},
	},
	"vtkObjectBase": {
		Tombstones: func(m *classdesc.Method) bool {
			return m.HasName() && (m.NameOr() == "GetAddressAsString" || m.NameOr() == "PrintRevisions")
		},
		ExtraDispatchers: []string{
			"static rt_Value* dispatch_vtkObjectBase_GetAddressAsString(rt_Object* self, rt_Value* args) {\n" +
				"  vtkObjectBase* op = (vtkObjectBase*)rt_ObjectFromValue(self);\n" +
				"  char buf[256];\n" +
				"  rt_FormatAddress(buf, sizeof(buf), op);\n" +
				"  return rt_FromString(buf);\n" +
				"}\n",
			"static rt_Value* dispatch_vtkObjectBase_PrintRevisions(rt_Object* self, rt_Value* args) {\n" +
				"  vtkObjectBase* op = (vtkObjectBase*)rt_ObjectFromValue(self);\n" +
				"  rt_OStream out;\n" +
				"  op->PrintRevisions(out);\n" +
				"  return rt_FromString(rt_OStreamString(&out));\n" +
				"}\n",
		},
		ExtraTableEntries: []string{
			`{ "GetAddressAsString", dispatch_vtkObjectBase_GetAddressAsString }`,
			`{ "PrintRevisions", dispatch_vtkObjectBase_PrintRevisions }`,
		},
	},
}

// OverlayFor returns the overlay registered for className and true, or
// the zero Overlay and false when the class has none.
func OverlayFor(className string) (Overlay, bool) {
	o, ok := rootOverlays[className]
	return o, ok
}

// ApplyOverlay tombstones every method in methods that the overlay for
// className claims, returning the count removed. It is a no-op when
// className has no registered overlay.
func ApplyOverlay(className string, methods []*classdesc.Method) int {
	o, ok := OverlayFor(className)
	if !ok {
		return 0
	}
	removed := 0
	for _, m := range methods {
		if o.Tombstones(m) {
			m.Tombstone()
			removed++
		}
	}
	return removed
}

// CompareMode is a value-type class's opt-in level for a Compare shim
// (spec.md §4.7 Factory bullet, §9 "hash opt-in / compare opt-in lists
// are hard-coded per class name... kept as data, not inferred").
type CompareMode int

const (
	// CompareNone means no Compare(a, b, op) shim is emitted.
	CompareNone CompareMode = iota
	// CompareOrdered means only strict-less and strict-greater are
	// supported (no equality/inequality/ge/le).
	CompareOrdered
	// CompareFull means all six comparison operators are supported.
	CompareFull
)

// compareRegistry and hashRegistry are the per-class opt-in lists.
// Entries are added by hand as classes are confirmed to support value
// semantics; the engine never infers membership from a class's shape.
var (
	compareRegistry = map[string]CompareMode{}
	hashRegistry    = map[string]bool{}
)

// CompareModeFor reports the Compare shim level class opts into.
func CompareModeFor(class string) CompareMode { return compareRegistry[class] }

// HashEnabled reports whether class opts into a Hash shim.
func HashEnabled(class string) bool { return hashRegistry[class] }

// RegisterCompare and RegisterHash let callers (e.g. a configuration
// loader) extend the opt-in registries without touching engine code.
func RegisterCompare(class string, mode CompareMode) { compareRegistry[class] = mode }
func RegisterHash(class string, enabled bool)        { hashRegistry[class] = enabled }

// CompareShimSource emits the Compare(a, b, op) shim for a value-type
// class at the opt-in level mode (spec.md §4.7).
func CompareShimSource(class string, mode CompareMode) string {
	switch mode {
	case CompareFull:
		return fmt.Sprintf(
			"static int Compare_%s(const %s& a, const %s& b, int op) {\n"+
				"  switch (op) {\n"+
				"    case RT_LT: return a < b;\n"+
				"    case RT_LE: return a <= b;\n"+
				"    case RT_EQ: return a == b;\n"+
				"    case RT_NE: return a != b;\n"+
				"    case RT_GT: return a > b;\n"+
				"    case RT_GE: return a >= b;\n"+
				"    default: return 0;\n"+
				"  }\n"+
				"}\n",
			class, class, class)
	case CompareOrdered:
		return fmt.Sprintf(
			"static int Compare_%s(const %s& a, const %s& b, int op) {\n"+
				"  switch (op) {\n"+
				"    case RT_LT: return a < b;\n"+
				"    case RT_GT: return b < a;\n"+
				"    default: rt_SetTypeError(\"unsupported comparison\"); return -1;\n"+
				"  }\n"+
				"}\n",
			class, class, class)
	default:
		return ""
	}
}

// HashShimSource emits the Hash(self, &immutable) shim (spec.md §4.7).
func HashShimSource(class string) string {
	return fmt.Sprintf(
		"static long Hash_%s(const %s& self, bool* immutable) {\n"+
			"  *immutable = true;\n"+
			"  return rt_HashBytes(&self, sizeof(self));\n"+
			"}\n",
		class, class)
}
