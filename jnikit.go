package jnikit

import (
	"sync"

	"github.com/swifdroid/jnikit/jni"
)

// The process-wide bridge. Almost every host has exactly one VM, so
// the package exposes its operations as plain functions over a single
// shared instance, installed once from JNI_OnLoad.
var (
	defaultMu sync.Mutex
	defaultBr *Bridge
)

func defaultBridge() *Bridge {
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultBr == nil {
		defaultBr = New(nil)
	}
	return defaultBr
}

// InitVM installs the VM handle for the package-level bridge. The
// first successful call wins; later calls and nil handles are no-ops
// that return false. Until InitVM succeeds, package-level operations
// fail with ErrNotAttached rather than touching a half-configured VM.
func InitVM(vm jni.VM, opts ...Option) bool {
	if vm == nil {
		return false
	}
	defaultMu.Lock()
	defer defaultMu.Unlock()
	if defaultBr != nil && defaultBr.vm != nil {
		return false
	}
	defaultBr = New(vm, opts...)
	return true
}

// Default returns the process-wide bridge.
func Default() *Bridge { return defaultBridge() }

// ResolveClass resolves a class through the default bridge.
func ResolveClass(name string) (*Class, error) {
	return defaultBridge().ResolveClass(name)
}

// ResolveMethod resolves a method through the default bridge.
func ResolveMethod(cls *Class, name, sig string, static bool) (jni.MethodID, error) {
	return defaultBridge().ResolveMethod(cls, name, sig, static)
}

// ResolveField resolves a field through the default bridge.
func ResolveField(cls *Class, name, sig string, static bool) (jni.FieldID, error) {
	return defaultBridge().ResolveField(cls, name, sig, static)
}

// RegisterClassLoader installs a class loader on the default bridge.
func RegisterClassLoader(loader *GlobalRef) error {
	return defaultBridge().RegisterClassLoader(loader)
}

// AttachCurrentThread attaches the calling thread via the default
// bridge.
func AttachCurrentThread() (jni.Env, error) {
	return defaultBridge().AttachCurrentThread()
}

// DetachCurrentThread detaches the calling thread via the default
// bridge.
func DetachCurrentThread() {
	defaultBridge().DetachCurrentThread()
}

// WithEnv runs fn with a thread-pinned environment from the default
// bridge.
func WithEnv(fn func(env jni.Env) error) error {
	return defaultBridge().WithEnv(fn)
}

// Preload warms the default bridge's class cache.
func Preload(names ...string) error {
	return defaultBridge().Preload(names...)
}

// CacheStats returns cache counters of the default bridge.
func CacheStats() Stats {
	return defaultBridge().Stats()
}
