package jnikit

import (
	"fmt"
	"runtime"
	"sync"

	"github.com/swifdroid/jnikit/jni"
	"github.com/swifdroid/jnikit/logcat"
)

// Bridge ties a VM handle to a resolution cache, a thread attachment
// policy, and an optional class loader. Most programs use the package
// default instance through InitVM and the package-level functions;
// isolated instances exist so tests and multi-VM hosts can keep
// independent caches.
//
// All methods are safe for concurrent use. A Bridge constructed
// without a VM handle is inert: every operation that needs the VM
// reports ErrNotAttached.
type Bridge struct {
	vm   jni.VM
	opts Options
	log  *logcat.Logger

	mu        sync.Mutex
	loader    *GlobalRef
	loadClass jni.MethodID
	retired   []*GlobalRef // loaders displaced by re-registration, held until Close

	cache *referenceCache
}

// New returns a Bridge bound to vm. Classes listed in the options'
// Preload are resolved immediately; preload failures are logged, not
// fatal, so one missing optional class cannot take startup down.
func New(vm jni.VM, opts ...Option) *Bridge {
	b := &Bridge{vm: vm, opts: DefaultOptions()}
	for _, opt := range opts {
		opt(b)
	}
	if b.opts.LogTag == "" {
		b.opts.LogTag = "jnikit"
	}
	if b.opts.NegativeCacheSize < 0 {
		b.opts.NegativeCacheSize = 0
	}
	if b.log == nil {
		level, err := logcat.ParseLevel(b.opts.LogLevel)
		if err != nil {
			level = logcat.LevelWarn
		}
		b.log = logcat.New(b.opts.LogTag, level)
	}
	b.cache = newReferenceCache(b.opts.NegativeCacheSize)
	if vm != nil && len(b.opts.Preload) > 0 {
		if err := b.Preload(b.opts.Preload...); err != nil {
			b.log.W("preload incomplete", "err", err)
		}
	}
	return b
}

// VM returns the underlying VM handle, or nil for an inert bridge.
// Callers that need raw operations beyond the bridge surface go
// through it directly.
func (b *Bridge) VM() jni.VM { return b.vm }

// AttachCurrentThread returns the environment of the calling thread,
// attaching it to the VM first if needed. Attachment is sticky: the
// thread stays attached until DetachCurrentThread. The fast path is a
// single environment lookup, so calling this on every operation is
// cheap.
//
// The returned environment is only valid on the calling thread. Pin
// the goroutine with runtime.LockOSThread, or use WithEnv which does
// so itself, when the environment outlives a single call.
func (b *Bridge) AttachCurrentThread() (jni.Env, error) {
	if b.vm == nil {
		return nil, fmt.Errorf("attach current thread: no vm installed: %w", ErrNotAttached)
	}
	env, st := b.vm.CurrentEnv()
	if st.OK() {
		return env, nil
	}
	if st != jni.StatusDetached {
		b.log.W("environment lookup failed", "status", st.String())
		return nil, fmt.Errorf("attach current thread: %s: %w", st, ErrNotAttached)
	}
	if b.opts.AttachAsDaemon {
		env, st = b.vm.AttachCurrentThreadAsDaemon()
	} else {
		env, st = b.vm.AttachCurrentThread()
	}
	if !st.OK() {
		b.log.W("attach failed", "status", st.String(), "daemon", b.opts.AttachAsDaemon)
		return nil, fmt.Errorf("attach current thread: %s: %w", st, ErrNotAttached)
	}
	b.log.V("thread attached", "daemon", b.opts.AttachAsDaemon)
	return env, nil
}

// DetachCurrentThread detaches the calling thread from the VM. It is
// safe to call on a thread that was never attached, and safe to call
// repeatedly; a thread may re-attach afterwards. Detaching invalidates
// every environment and local reference the thread held.
func (b *Bridge) DetachCurrentThread() {
	if b.vm == nil {
		return
	}
	if st := b.vm.DetachCurrentThread(); !st.OK() {
		b.log.V("detach skipped", "status", st.String())
	} else {
		b.log.V("thread detached")
	}
}

// WithEnv pins the calling goroutine to its OS thread, attaches it,
// and runs fn with the thread's environment. The environment must not
// escape fn: it belongs to the pinned thread and stops being safe to
// use once WithEnv returns. The thread stays attached afterwards.
func (b *Bridge) WithEnv(fn func(env jni.Env) error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	env, err := b.AttachCurrentThread()
	if err != nil {
		return err
	}
	return fn(env)
}

// Stats returns a snapshot of the bridge's cache counters.
func (b *Bridge) Stats() Stats { return b.cache.snapshot() }

// Close releases everything the bridge owns: the registered class
// loader, loaders displaced by re-registration, and every cached class
// reference. The bridge must not be used afterwards. Intended for VM
// teardown and tests; on Android the process usually dies with the VM
// and never calls this.
func (b *Bridge) Close() error {
	if b.vm == nil {
		return nil
	}
	// The release batch spans many calls on one environment, so it
	// runs under WithEnv to stay on a single OS thread throughout.
	err := b.WithEnv(func(env jni.Env) error {
		b.mu.Lock()
		loaders := b.retired
		if b.loader != nil {
			loaders = append(loaders, b.loader)
		}
		b.loader = nil
		b.loadClass = 0
		b.retired = nil
		b.mu.Unlock()
		for _, ref := range loaders {
			ref.Release(env)
		}
		for _, cls := range b.cache.drainClasses() {
			cls.ref.Release(env)
		}
		return nil
	})
	if err != nil {
		return fmt.Errorf("close: %w", err)
	}
	b.log.D("bridge closed")
	return nil
}
