package jnikit

import (
	"fmt"
	"strings"
)

// TypeSig is a JVM type descriptor held in its wire form. Values are
// built from the primitive constants and the SigObject/SigArray
// constructors, which keeps composed descriptors well formed as long
// as class names are sane. Use ParseTypeSig to validate descriptors
// received from elsewhere.
type TypeSig struct {
	desc string
}

// Primitive and void descriptors.
var (
	SigBoolean = TypeSig{"Z"}
	SigByte    = TypeSig{"B"}
	SigChar    = TypeSig{"C"}
	SigShort   = TypeSig{"S"}
	SigInt     = TypeSig{"I"}
	SigLong    = TypeSig{"J"}
	SigFloat   = TypeSig{"F"}
	SigDouble  = TypeSig{"D"}
	SigVoid    = TypeSig{"V"}
)

// SigObject returns the descriptor of a reference type. The class name
// may use dots or slashes; "java.lang.String" and "java/lang/String"
// produce the same descriptor.
func SigObject(class string) TypeSig {
	return TypeSig{"L" + canonicalClassName(class) + ";"}
}

// SigArray returns the descriptor of an array of elem.
func SigArray(elem TypeSig) TypeSig {
	return TypeSig{"[" + elem.desc}
}

// String returns the descriptor in wire form, e.g. "Ljava/lang/String;".
func (t TypeSig) String() string { return t.desc }

// IsVoid reports whether t is the void descriptor.
func (t TypeSig) IsVoid() bool { return t.desc == "V" }

// MethodSig composes a method descriptor from a return type and
// parameter types, e.g.
//
//	MethodSig(SigObject("java/lang/String"), SigInt)  // "(I)Ljava/lang/String;"
func MethodSig(ret TypeSig, params ...TypeSig) string {
	var b strings.Builder
	b.WriteByte('(')
	for _, p := range params {
		b.WriteString(p.desc)
	}
	b.WriteByte(')')
	b.WriteString(ret.desc)
	return b.String()
}

// ParseTypeSig validates a single field descriptor and returns it as a
// TypeSig.
func ParseTypeSig(desc string) (TypeSig, error) {
	end, err := scanType(desc, 0, false)
	if err != nil {
		return TypeSig{}, fmt.Errorf("%w: %q: %v", ErrBadSignature, desc, err)
	}
	if end != len(desc) {
		return TypeSig{}, fmt.Errorf("%w: %q: trailing characters", ErrBadSignature, desc)
	}
	return TypeSig{desc}, nil
}

// ParseMethodSig splits a method descriptor into its parameter types
// and return type.
func ParseMethodSig(sig string) (params []TypeSig, ret TypeSig, err error) {
	fail := func(msg string) ([]TypeSig, TypeSig, error) {
		return nil, TypeSig{}, fmt.Errorf("%w: %q: %s", ErrBadSignature, sig, msg)
	}
	if len(sig) == 0 || sig[0] != '(' {
		return fail("missing parameter list")
	}
	i := 1
	for i < len(sig) && sig[i] != ')' {
		end, serr := scanType(sig, i, false)
		if serr != nil {
			return fail(serr.Error())
		}
		params = append(params, TypeSig{sig[i:end]})
		i = end
	}
	if i >= len(sig) {
		return fail("unterminated parameter list")
	}
	i++
	end, serr := scanType(sig, i, true)
	if serr != nil {
		return fail(serr.Error())
	}
	if end != len(sig) {
		return fail("trailing characters")
	}
	return params, TypeSig{sig[i:end]}, nil
}

// scanType walks one type descriptor starting at i and returns the
// index just past it. Void is only legal where allowVoid says so: as a
// return type, never as a parameter or array element.
func scanType(s string, i int, allowVoid bool) (int, error) {
	if i >= len(s) {
		return 0, fmt.Errorf("truncated descriptor")
	}
	switch s[i] {
	case 'Z', 'B', 'C', 'S', 'I', 'J', 'F', 'D':
		return i + 1, nil
	case 'V':
		if !allowVoid {
			return 0, fmt.Errorf("void not allowed at position %d", i)
		}
		return i + 1, nil
	case 'L':
		rest := s[i+1:]
		end := strings.IndexByte(rest, ';')
		switch {
		case end < 0:
			return 0, fmt.Errorf("unterminated class name at position %d", i)
		case end == 0:
			return 0, fmt.Errorf("empty class name at position %d", i)
		}
		if strings.IndexByte(rest[:end], '.') >= 0 {
			return 0, fmt.Errorf("dotted class name at position %d", i)
		}
		return i + 1 + end + 1, nil
	case '[':
		return scanType(s, i+1, false)
	}
	return 0, fmt.Errorf("unknown type character %q at position %d", s[i], i)
}
