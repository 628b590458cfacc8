// Package target holds the ambient, compile-time capabilities of the host
// scripting runtime that the emitter must branch on (spec.md §6
// "Configuration recognized", §9 "C-preprocessor feature gates").
//
// The original wrapper inlined "#if" blocks at the call site of every
// capability check. Lifting the checks into a Profile value makes the
// branch a data lookup instead of a textual macro: one emitter invocation
// bakes one host's answers in statically, the same way the teacher's own
// resolved-at-generate-time configuration works (spec.md §9 permits
// resolving these toggles at generation time rather than re-deriving them
// from preprocessor state in the emitted file).
package target

// Profile is the set of ambient compile-time toggles named in spec.md §6.
type Profile struct {
	// SupportsLongLong: host C++ compiler has "long long".
	SupportsLongLong bool
	// SupportsInt64: host exposes a 64-bit integer type distinct from
	// long/long long (e.g. a typedef'd fixed-width integer).
	SupportsInt64 bool
	// IDsAre64Bit: the scripting-runtime "id" type underlying IDType is
	// 64 bits wide on this host.
	IDsAre64Bit bool
	// UnsignedIntMatchesLongInWidth: host's unsigned int and long share a
	// width. The emitter does not consult it: unsigned int always uses
	// the "i" format code.
	UnsignedIntMatchesLongInWidth bool
	// UnicodeEnabled: the host scripting runtime was built with Unicode
	// string support.
	UnicodeEnabled bool
	// LegacyRemoved: legacy (deprecated) API surface has been compiled
	// out of the host. The emitter does not consult it: methods flagged
	// IsLegacy are always emitted inside an "#if !VTK_LEGACY_REMOVE"
	// guard, whatever this field says.
	LegacyRemoved bool
}

// Default is a reasonable modern-host profile: 64-bit ids, long long and a
// distinct int64 type available, Unicode enabled, legacy API still present.
var Default = Profile{
	SupportsLongLong:              true,
	SupportsInt64:                 true,
	IDsAre64Bit:                   true,
	UnsignedIntMatchesLongInWidth: false,
	UnicodeEnabled:                true,
	LegacyRemoved:                 false,
}
