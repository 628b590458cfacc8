package textutil_test

import (
	"strings"
	"testing"

	"github.com/kitware/vtkwrap/internal/textutil"
)

func TestQuoteForStringLiteralEscaping(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"plain", "hello", "hello"},
		{"quote", `say "hi"`, `say \"hi\"`},
		{"backslash", `a\b`, `a\\b`},
		{"newline", "a\nb", `a\nb`},
		{"non-ascii", "a\x01b", `a\001b`},
	}
	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := textutil.QuoteForStringLiteral(tc.in, 4096); got != tc.want {
				t.Errorf("QuoteForStringLiteral(%q) = %q, want %q", tc.in, got, tc.want)
			}
		})
	}
}

func TestQuoteForStringLiteralTruncates(t *testing.T) {
	in := strings.Repeat("x", 1000)
	got := textutil.QuoteForStringLiteral(in, 64)
	if len(got) > 64 {
		t.Errorf("QuoteForStringLiteral result length %d exceeds maxLen 64", len(got))
	}
	if !strings.HasSuffix(got, " ...\n [Truncated]\n") {
		t.Errorf("QuoteForStringLiteral(%d x's, 64) = %q, want truncation suffix", len(in), got)
	}
}

func TestQuoteForStringLiteralPanicsBelowMin(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Error("QuoteForStringLiteral(_, 10) did not panic")
		}
	}()
	textutil.QuoteForStringLiteral("x", 10)
}

func TestReflowSignatureStripsPureVirtual(t *testing.T) {
	got := textutil.ReflowSignature("virtual void Foo() = 0;", 80)
	if strings.Contains(got, "= 0") {
		t.Errorf("ReflowSignature did not strip pure-virtual suffix: %q", got)
	}
}

func TestReflowSignatureEscapesQuotes(t *testing.T) {
	got := textutil.ReflowSignature(`void Foo(const char* s = "x")`, 80)
	if !strings.Contains(got, `\"x\"`) {
		t.Errorf("ReflowSignature did not escape embedded quotes: %q", got)
	}
}

func TestReflowSignatureIdempotent(t *testing.T) {
	in := `virtual double* GetRange(const char *name, int index = 0) = 0;`
	const w = 24
	once := textutil.ReflowSignature(in, w)
	twice := textutil.ReflowSignature(once, w)
	if once != twice {
		t.Errorf("ReflowSignature not idempotent:\nonce:  %q\ntwice: %q", once, twice)
	}
}

func TestReflowCommentCollapsesWhitespaceAndWraps(t *testing.T) {
	in := "This   is\n\na   long sentence   that should definitely wrap across more than one output line."
	got := textutil.ReflowComment(in, 20)
	if strings.Contains(got, "  a") {
		t.Errorf("ReflowComment did not collapse internal whitespace: %q", got)
	}
	if !strings.Contains(got, "\n") {
		t.Errorf("ReflowComment(%q, 20) did not wrap: %q", in, got)
	}
}

func TestReflowCommentSectionMarker(t *testing.T) {
	got := textutil.ReflowComment(".SECTION Caveats\nDo not call this twice.", 40)
	if !strings.Contains(got, "Caveats:") {
		t.Errorf("ReflowComment(%q) = %q, want a %q heading", ".SECTION Caveats...", got, "Caveats:")
	}
}

func TestReflowCommentBlockCommand(t *testing.T) {
	got := textutil.ReflowComment(`\param name the thing to set`, 40)
	if !strings.Contains(got, "Parameter:") {
		t.Errorf("ReflowComment(%q) = %q, want a %q label", `\param ...`, got, "Parameter:")
	}
}

func TestReflowCommentVerbatimIsNotReflowed(t *testing.T) {
	in := "\\verbatim\nline one\n   line two, extra spaces kept\n\\endverbatim"
	got := textutil.ReflowComment(in, 10)
	if !strings.Contains(got, "   line two, extra spaces kept") {
		t.Errorf("ReflowComment collapsed a verbatim block: %q", got)
	}
}

func TestReflowCommentIdempotent(t *testing.T) {
	in := "Sets the @a Name of the widget.\n\n.SECTION Caveats\nMust be called before Render()."
	const w = 30
	once := textutil.ReflowComment(in, w)
	twice := textutil.ReflowComment(once, w)
	if once != twice {
		t.Errorf("ReflowComment not idempotent:\nonce:\n%s\ntwice:\n%s", once, twice)
	}
}
