//go:build !jni

package jni

import "unsafe"

// WrapJavaVM reports ErrUnavailable: the native binding is only
// compiled in with the "jni" build tag. Tests use the in-memory VM from
// the jnitest package instead.
func WrapJavaVM(ptr unsafe.Pointer) (VM, error) {
	return nil, ErrUnavailable
}

// WrapEnv reports ErrUnavailable: the native binding is only compiled
// in with the "jni" build tag.
func WrapEnv(ptr unsafe.Pointer) (Env, error) {
	return nil, ErrUnavailable
}
