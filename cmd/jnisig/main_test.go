package main

import (
	"testing"

	"github.com/swifdroid/jnikit"
)

func TestTypeFromName(t *testing.T) {
	cases := []struct {
		name      string
		allowVoid bool
		want      string
	}{
		{"int", false, "I"},
		{"byte[]", false, "[B"},
		{"java.lang.String", false, "Ljava/lang/String;"},
		{"java/lang/String", false, "Ljava/lang/String;"},
		{"Ljava/lang/String;", false, "Ljava/lang/String;"},
		{"[B", false, "[B"},
		{"int[][]", false, "[[I"},
		{"void", true, "V"},
		{"V", true, "V"},
	}
	for _, tc := range cases {
		got, err := typeFromName(tc.name, tc.allowVoid)
		if err != nil {
			t.Errorf("typeFromName(%q) failed: %v", tc.name, err)
			continue
		}
		if got.String() != tc.want {
			t.Errorf("typeFromName(%q) = %q, want %q", tc.name, got.String(), tc.want)
		}
	}
}

func TestTypeFromNameRejected(t *testing.T) {
	cases := []struct {
		name      string
		allowVoid bool
	}{
		// Void where only value types belong, in both spellings.
		{"void", false},
		{"V", false},
		{"void[]", true},
		{"V[]", true},
		{"", false},
		{"bad;name", false},
	}
	for _, tc := range cases {
		if _, err := typeFromName(tc.name, tc.allowVoid); err == nil {
			t.Errorf("typeFromName(%q) accepted an invalid type", tc.name)
		}
	}
}

func TestFriendly(t *testing.T) {
	cases := []struct {
		sig  jnikit.TypeSig
		want string
	}{
		{jnikit.SigInt, "int"},
		{jnikit.SigVoid, "void"},
		{jnikit.SigArray(jnikit.SigByte), "byte[]"},
		{jnikit.SigObject("java.lang.String"), "java.lang.String"},
		{jnikit.SigArray(jnikit.SigArray(jnikit.SigObject("java/lang/Object"))), "java.lang.Object[][]"},
	}
	for _, tc := range cases {
		if got := friendly(tc.sig); got != tc.want {
			t.Errorf("friendly(%q) = %q, want %q", tc.sig.String(), got, tc.want)
		}
	}
}
