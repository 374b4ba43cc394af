package jnikit_test

import (
	"errors"
	"testing"

	"github.com/swifdroid/jnikit"
	"github.com/swifdroid/jnikit/jni"
	"github.com/swifdroid/jnikit/jnitest"
	"github.com/swifdroid/jnikit/logcat"
)

// quiet silences bridge logging so failure-path tests keep test output
// clean.
func quiet() jnikit.Option {
	return jnikit.WithLogger(logcat.NewNop())
}

// =============================================================================
// Thread Attachment
// =============================================================================

func TestAttachIsSticky(t *testing.T) {
	vm := jnitest.NewVM()
	b := jnikit.New(vm, quiet())
	defer b.Close()

	env1, err := b.AttachCurrentThread()
	if err != nil {
		t.Fatalf("AttachCurrentThread failed: %v", err)
	}
	env2, err := b.AttachCurrentThread()
	if err != nil {
		t.Fatalf("second AttachCurrentThread failed: %v", err)
	}

	c := vm.Counters()
	if c.Attach != 1 {
		t.Errorf("expected 1 attach call, got %d", c.Attach)
	}
	if c.GetEnv != 2 {
		t.Errorf("expected 2 environment lookups, got %d", c.GetEnv)
	}

	// Both handles operate on the same attached thread.
	if cls := env1.FindClass("java/lang/String"); cls.IsNull() {
		t.Error("env1 lookup failed")
	}
	if cls := env2.FindClass("java/lang/String"); cls.IsNull() {
		t.Error("env2 lookup failed")
	}
	if vm.DetachedUses() != 0 {
		t.Errorf("expected no detached environment uses, got %d", vm.DetachedUses())
	}
}

func TestDetachThenReattach(t *testing.T) {
	vm := jnitest.NewVM()
	b := jnikit.New(vm, quiet())
	defer b.Close()

	if _, err := b.ResolveClass("java/lang/String"); err != nil {
		t.Fatalf("ResolveClass failed: %v", err)
	}
	b.DetachCurrentThread()
	if vm.Attached() {
		t.Fatal("expected thread to be detached")
	}

	// Resolution attaches again on demand.
	if _, err := b.ResolveClass("java/lang/Object"); err != nil {
		t.Fatalf("ResolveClass after detach failed: %v", err)
	}
	if c := vm.Counters(); c.Attach != 2 {
		t.Errorf("expected 2 attach calls, got %d", c.Attach)
	}
}

func TestDetachWithoutAttachIsSafe(t *testing.T) {
	vm := jnitest.NewVM()
	b := jnikit.New(vm, quiet())
	defer b.Close()

	b.DetachCurrentThread()
	b.DetachCurrentThread()

	if _, err := b.ResolveClass("java/lang/String"); err != nil {
		t.Fatalf("bridge unusable after spurious detach: %v", err)
	}
}

func TestAttachFailure(t *testing.T) {
	vm := jnitest.NewVM()
	b := jnikit.New(vm, quiet())
	defer b.Close()

	vm.FailAttach(true)
	_, err := b.ResolveClass("java/lang/String")
	if !errors.Is(err, jnikit.ErrNotAttached) {
		t.Fatalf("expected ErrNotAttached, got %v", err)
	}

	// The failure is not sticky.
	vm.FailAttach(false)
	if _, err := b.ResolveClass("java/lang/String"); err != nil {
		t.Fatalf("ResolveClass after attach recovery failed: %v", err)
	}
}

func TestDaemonAttach(t *testing.T) {
	vm := jnitest.NewVM()
	opts := jnikit.DefaultOptions()
	opts.AttachAsDaemon = true
	b := jnikit.New(vm, jnikit.WithOptions(opts), quiet())
	defer b.Close()

	if _, err := b.AttachCurrentThread(); err != nil {
		t.Fatalf("AttachCurrentThread failed: %v", err)
	}
	c := vm.Counters()
	if c.AttachDaemon != 1 || c.Attach != 0 {
		t.Errorf("expected 1 daemon attach and no plain attach, got %d and %d", c.AttachDaemon, c.Attach)
	}
}

func TestNoVMFailsClosed(t *testing.T) {
	b := jnikit.New(nil, quiet())

	if _, err := b.AttachCurrentThread(); !errors.Is(err, jnikit.ErrNotAttached) {
		t.Errorf("AttachCurrentThread: expected ErrNotAttached, got %v", err)
	}
	if _, err := b.ResolveClass("java/lang/String"); !errors.Is(err, jnikit.ErrNotAttached) {
		t.Errorf("ResolveClass: expected ErrNotAttached, got %v", err)
	}
	if err := b.Close(); err != nil {
		t.Errorf("Close of an inert bridge failed: %v", err)
	}
}

func TestWithEnv(t *testing.T) {
	vm := jnitest.NewVM()
	b := jnikit.New(vm, quiet())
	defer b.Close()

	var seen jni.Env
	err := b.WithEnv(func(env jni.Env) error {
		seen = env
		if cls := env.FindClass("java/lang/String"); cls.IsNull() {
			t.Error("lookup inside WithEnv failed")
		}
		return nil
	})
	if err != nil {
		t.Fatalf("WithEnv failed: %v", err)
	}
	if seen == nil {
		t.Fatal("WithEnv did not hand an environment to fn")
	}

	wantErr := errors.New("boom")
	if err := b.WithEnv(func(jni.Env) error { return wantErr }); !errors.Is(err, wantErr) {
		t.Errorf("expected fn error to propagate, got %v", err)
	}
}

// =============================================================================
// Teardown
// =============================================================================

func TestBridgeClose(t *testing.T) {
	vm := jnitest.NewVM()
	vm.AddClass("android/util/Log", jnitest.ClassDef{})
	b := jnikit.New(vm, quiet())

	if _, err := b.ResolveClass("android/util/Log"); err != nil {
		t.Fatalf("ResolveClass failed: %v", err)
	}
	if _, err := b.ResolveClass("java/lang/String"); err != nil {
		t.Fatalf("ResolveClass failed: %v", err)
	}
	loader := jnikit.AdoptGlobalRef(vm.NewLoaderObject())
	if err := b.RegisterClassLoader(loader); err != nil {
		t.Fatalf("RegisterClassLoader failed: %v", err)
	}
	if vm.LiveGlobalRefs() == 0 {
		t.Fatal("expected live global references before close")
	}

	if err := b.Close(); err != nil {
		t.Fatalf("Close failed: %v", err)
	}
	if n := vm.LiveGlobalRefs(); n != 0 {
		t.Errorf("expected all global references released, %d still live", n)
	}
	if n := vm.DoubleDeletes(); n != 0 {
		t.Errorf("expected no double deletes, got %d", n)
	}
	if s := b.Stats(); s.CachedClasses != 0 || s.CachedMembers != 0 {
		t.Errorf("expected empty cache after close, got %d classes and %d members",
			s.CachedClasses, s.CachedMembers)
	}
}
