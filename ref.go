package jnikit

import (
	"fmt"
	"sync/atomic"

	"github.com/swifdroid/jnikit/jni"
)

// GlobalRef owns a global JVM reference and guarantees it is deleted at
// most once, no matter how many times Release is called or from how
// many goroutines. The zero value behaves like a released reference.
//
// A GlobalRef is either owning or an alias. Owning refs come from
// NewGlobalRef or AdoptGlobalRef and delete the underlying reference on
// Release. Aliases come from Alias, share the same handle for viewing
// an object under another type, and never delete anything; their
// lifetime is bounded by the ref they were derived from.
type GlobalRef struct {
	handle atomic.Uintptr
	owned  bool
}

// NewGlobalRef promotes a call-scoped local reference to a global one
// and consumes the local: it is deleted whether or not the promotion
// succeeds. On failure no reference is leaked and any pending exception
// is cleared.
func NewGlobalRef(env jni.Env, local jni.Object) (*GlobalRef, error) {
	if env == nil {
		return nil, fmt.Errorf("promote reference: %w", ErrNotAttached)
	}
	if local.IsNull() {
		return nil, fmt.Errorf("promote null reference: %w", ErrMisuse)
	}
	g := env.NewGlobalRef(local)
	env.DeleteLocalRef(local)
	if g.IsNull() {
		env.ExceptionClear()
		return nil, ErrPromotionFailed
	}
	return AdoptGlobalRef(g), nil
}

// AdoptGlobalRef wraps an existing global reference, taking ownership
// of it. The handle must have come from the VM as a global reference,
// for example one received through a native method parameter and
// promoted by other means.
func AdoptGlobalRef(handle jni.Object) *GlobalRef {
	r := &GlobalRef{owned: true}
	r.handle.Store(uintptr(handle))
	return r
}

// Alias returns a non-owning view of the same reference, used to hand
// the object to code that wants a differently typed wrapper around the
// same handle. Releasing an alias is a no-op; the receiver stays
// releasable exactly once.
func (r *GlobalRef) Alias() *GlobalRef {
	a := &GlobalRef{owned: false}
	a.handle.Store(r.handle.Load())
	return a
}

// Handle returns the underlying reference, or the null reference after
// Release.
func (r *GlobalRef) Handle() jni.Object {
	return jni.Object(r.handle.Load())
}

// Owned reports whether the ref deletes the underlying reference on
// Release.
func (r *GlobalRef) Owned() bool { return r.owned }

// Released reports whether the underlying reference is gone.
func (r *GlobalRef) Released() bool { return r.handle.Load() == 0 }

// Release deletes the underlying global reference. It is idempotent,
// safe under concurrent calls, and a no-op on aliases. A nil env leaves
// the ref untouched.
func (r *GlobalRef) Release(env jni.Env) {
	if !r.owned || env == nil {
		return
	}
	h := r.handle.Swap(0)
	if h == 0 {
		return
	}
	env.DeleteGlobalRef(jni.Object(h))
}

// ReleaseWith is Release for callers that hold a bridge rather than an
// environment: it attaches the calling thread through b and releases.
// The error reports an attach failure; the release itself cannot fail.
func (r *GlobalRef) ReleaseWith(b *Bridge) error {
	if b == nil {
		return fmt.Errorf("release reference: nil bridge: %w", ErrMisuse)
	}
	env, err := b.AttachCurrentThread()
	if err != nil {
		return fmt.Errorf("release reference: %w", err)
	}
	r.Release(env)
	return nil
}
