package jnikit

import (
	"errors"
	"testing"
)

// =============================================================================
// Descriptor Composition
// =============================================================================

func TestMethodSig(t *testing.T) {
	tests := []struct {
		name string
		got  string
		want string
	}{
		{"no args void", MethodSig(SigVoid), "()V"},
		{"primitives", MethodSig(SigInt, SigLong, SigBoolean), "(JZ)I"},
		{
			"log call",
			MethodSig(SigInt, SigObject("java/lang/String"), SigObject("java/lang/String")),
			"(Ljava/lang/String;Ljava/lang/String;)I",
		},
		{
			"load class",
			MethodSig(SigObject("java/lang/Class"), SigObject("java/lang/String")),
			"(Ljava/lang/String;)Ljava/lang/Class;",
		},
		{
			"array arg",
			MethodSig(SigVoid, SigArray(SigByte), SigInt),
			"([BI)V",
		},
		{
			"array return",
			MethodSig(SigArray(SigObject("java/lang/String"))),
			"()[Ljava/lang/String;",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.got != tt.want {
				t.Errorf("expected %q, got %q", tt.want, tt.got)
			}
		})
	}
}

func TestSigObjectAcceptsDottedNames(t *testing.T) {
	dotted := SigObject("java.lang.String")
	slashed := SigObject("java/lang/String")
	if dotted != slashed {
		t.Errorf("expected both spellings to agree, got %q and %q", dotted.String(), slashed.String())
	}
	if s := dotted.String(); s != "Ljava/lang/String;" {
		t.Errorf("expected 'Ljava/lang/String;', got %q", s)
	}
}

func TestSigArrayNests(t *testing.T) {
	if s := SigArray(SigInt).String(); s != "[I" {
		t.Errorf("expected '[I', got %q", s)
	}
	if s := SigArray(SigArray(SigInt)).String(); s != "[[I" {
		t.Errorf("expected '[[I', got %q", s)
	}
	if s := SigArray(SigObject("java/lang/String")).String(); s != "[Ljava/lang/String;" {
		t.Errorf("expected '[Ljava/lang/String;', got %q", s)
	}
}

func TestSigVoid(t *testing.T) {
	if !SigVoid.IsVoid() {
		t.Error("expected SigVoid to report void")
	}
	if SigInt.IsVoid() {
		t.Error("expected SigInt to not report void")
	}
}

// =============================================================================
// Descriptor Parsing
// =============================================================================

func TestParseTypeSig(t *testing.T) {
	valid := []string{
		"Z", "B", "C", "S", "I", "J", "F", "D",
		"Ljava/lang/String;",
		"[I",
		"[[Ljava/lang/String;",
	}
	for _, desc := range valid {
		ts, err := ParseTypeSig(desc)
		if err != nil {
			t.Errorf("ParseTypeSig(%q) failed: %v", desc, err)
			continue
		}
		if ts.String() != desc {
			t.Errorf("expected %q back, got %q", desc, ts.String())
		}
	}
}

func TestParseTypeSigInvalid(t *testing.T) {
	// Void field types, unknown type characters, empty or dotted or
	// unterminated class names, trailing characters, truncated arrays,
	// and void element types are all malformed.
	invalid := []string{
		"",
		"V",
		"X",
		"L;",
		"Ljava/lang/String",
		"Ljava.lang.String;",
		"II",
		"[",
		"[V",
	}
	for _, desc := range invalid {
		if _, err := ParseTypeSig(desc); !errors.Is(err, ErrBadSignature) {
			t.Errorf("ParseTypeSig(%q): expected ErrBadSignature, got %v", desc, err)
		}
	}
}

func TestParseMethodSig(t *testing.T) {
	params, ret, err := ParseMethodSig("(ILjava/lang/String;[B)Ljava/lang/Class;")
	if err != nil {
		t.Fatalf("ParseMethodSig failed: %v", err)
	}
	want := []string{"I", "Ljava/lang/String;", "[B"}
	if len(params) != len(want) {
		t.Fatalf("expected %d params, got %d", len(want), len(params))
	}
	for i, p := range params {
		if p.String() != want[i] {
			t.Errorf("param %d: expected %q, got %q", i, want[i], p.String())
		}
	}
	if ret.String() != "Ljava/lang/Class;" {
		t.Errorf("expected return 'Ljava/lang/Class;', got %q", ret.String())
	}

	params, ret, err = ParseMethodSig("()V")
	if err != nil {
		t.Fatalf("ParseMethodSig failed: %v", err)
	}
	if len(params) != 0 {
		t.Errorf("expected no params, got %d", len(params))
	}
	if !ret.IsVoid() {
		t.Errorf("expected a void return, got %q", ret.String())
	}
}

func TestParseMethodSigInvalid(t *testing.T) {
	// Missing or unterminated parameter lists, void parameters, missing
	// return types, and trailing characters are all malformed.
	invalid := []string{
		"",
		"I",
		"(IV)V",
		"(I",
		"(I)",
		"(I)VX",
		"(I)[V",
		"(L;)V",
		"(I)V;",
	}
	for _, sig := range invalid {
		if _, _, err := ParseMethodSig(sig); !errors.Is(err, ErrBadSignature) {
			t.Errorf("ParseMethodSig(%q): expected ErrBadSignature, got %v", sig, err)
		}
	}
}

func TestParseMethodSigRoundTrip(t *testing.T) {
	sigs := []string{
		"()V",
		"(I)I",
		"(Ljava/lang/String;Ljava/lang/String;)I",
		"([[Ljava/lang/String;J)[B",
	}
	for _, sig := range sigs {
		params, ret, err := ParseMethodSig(sig)
		if err != nil {
			t.Fatalf("ParseMethodSig(%q) failed: %v", sig, err)
		}
		if back := MethodSig(ret, params...); back != sig {
			t.Errorf("expected %q back, got %q", sig, back)
		}
	}
}

// =============================================================================
// Cache Keys
// =============================================================================

func TestMemberKey(t *testing.T) {
	if k := memberKey("i", "(Ljava/lang/String;)I", true); k != "static:i(Ljava/lang/String;)I" {
		t.Errorf("expected the static prefix, got %q", k)
	}
	if k := memberKey("i", "(Ljava/lang/String;)I", false); k != "i(Ljava/lang/String;)I" {
		t.Errorf("expected no prefix, got %q", k)
	}
}

func TestClassMemberKeyScopesByClass(t *testing.T) {
	a := &Class{name: "com/example/A"}
	b := &Class{name: "com/example/B"}
	key := memberKey("run", "()V", false)
	if classMemberKey(a, key) == classMemberKey(b, key) {
		t.Error("expected distinct keys for distinct classes")
	}
	if classMemberKey(a, key) != classMemberKey(a, key) {
		t.Error("expected a stable key for one class")
	}
}

func TestCanonicalClassName(t *testing.T) {
	if n := canonicalClassName("java.lang.String"); n != "java/lang/String" {
		t.Errorf("expected 'java/lang/String', got %q", n)
	}
	if n := canonicalClassName("java/lang/String"); n != "java/lang/String" {
		t.Errorf("expected 'java/lang/String', got %q", n)
	}
	if n := canonicalClassName("android/os/Build$VERSION"); n != "android/os/Build$VERSION" {
		t.Errorf("expected the nested class marker kept, got %q", n)
	}
}

func TestBinaryClassName(t *testing.T) {
	if n := binaryClassName("java/lang/String"); n != "java.lang.String" {
		t.Errorf("expected 'java.lang.String', got %q", n)
	}
}
