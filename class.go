package jnikit

import (
	"strings"

	"github.com/swifdroid/jnikit/jni"
)

// Class is a cached class descriptor: the canonical class name plus a
// global reference to the class object. Descriptors are created by
// ResolveClass, owned by the cache that memoized them, and stay valid
// until the bridge is closed. Callers use the handle freely and never
// release it, which is why the underlying ref is not exposed.
type Class struct {
	name string
	ref  *GlobalRef
}

// Name returns the canonical slash-separated class name, e.g.
// "java/lang/String".
func (c *Class) Name() string { return c.name }

// Handle returns the class reference for native calls.
func (c *Class) Handle() jni.Class { return jni.Class(c.ref.Handle()) }

// canonicalClassName maps a class name to the slash-separated form used
// as the cache key and in native lookups. Dots and slashes are accepted
// interchangeably on input.
func canonicalClassName(name string) string {
	return strings.ReplaceAll(name, ".", "/")
}

// binaryClassName maps a canonical name to the dot-separated binary
// form that ClassLoader.loadClass expects.
func binaryClassName(name string) string {
	return strings.ReplaceAll(name, "/", ".")
}
