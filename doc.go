// Package jnikit provides an embeddable bridge between Go code and a
// Java virtual machine hosting it.
//
// # Overview
//
// jnikit is the lifetime and lookup core that Java interop layers are
// built on. It provides:
//
//   - Global reference ownership with exactly-once release
//   - Memoized class and member resolution with identity-stable descriptors
//   - Thread attachment that is sticky, cheap, and safe to repeat
//   - Class loader aware resolution for classes invisible to FindClass
//   - A typed composer and parser for JVM type signatures
//
// The package speaks to the VM through the small jni.VM and jni.Env
// interfaces. Built with the "jni" tag those are backed by the real
// native interface; tests run against the in-memory VM from the
// jnitest package.
//
// # Quick Start
//
// The VM hands its handle to JNI_OnLoad when the host loads the shared
// library. Install it once, then resolve from anywhere:
//
//	//export JNI_OnLoad
//	func JNI_OnLoad(vm *C.JavaVM, reserved unsafe.Pointer) C.jint {
//	    handle, err := jni.WrapJavaVM(unsafe.Pointer(vm))
//	    if err != nil {
//	        return C.jint(jni.StatusError)
//	    }
//	    jnikit.InitVM(handle)
//	    return C.jint(jni.Version16)
//	}
//
//	func stringClassDemo() error {
//	    cls, err := jnikit.ResolveClass("java/lang/String")
//	    if err != nil {
//	        return err
//	    }
//	    valueOf, err := jnikit.ResolveMethod(cls, "valueOf",
//	        jnikit.MethodSig(jnikit.SigObject("java/lang/String"), jnikit.SigInt), true)
//	    if err != nil {
//	        return err
//	    }
//	    _ = valueOf // invoke through your call layer
//	    return nil
//	}
//
// # Threads
//
// An environment is only valid on the thread that obtained it.
// AttachCurrentThread attaches the calling thread on first use and is
// a single native call afterwards, so resolution helpers simply call
// it every time. Goroutines that hold an environment across calls must
// pin themselves with runtime.LockOSThread; WithEnv bundles the pin,
// the attach, and the scoped use:
//
//	err := jnikit.WithEnv(func(env jni.Env) error {
//	    return jnikit.WithLocalFrame(env, 16, func() error {
//	        // lookups and calls; locals freed on return
//	        return nil
//	    })
//	})
//
// # References and Ownership
//
// Local references die with the call that produced them. NewGlobalRef
// promotes a local to a GlobalRef that owns the underlying reference
// and deletes it exactly once, however many times Release runs.
// Alias produces a non-owning view for retyping the same object;
// releasing an alias does nothing. Class descriptors returned by
// ResolveClass are owned by the cache and are never released by
// callers.
//
// # Resolution and Class Loaders
//
// ResolveClass consults the cache, then the registered class loader,
// and only without one the thread's bootstrap lookup. Application
// classes on Android are invisible to the bootstrap lookup from
// attached native threads, so register the application's loader once
// at startup:
//
//	loaderRef, _ := jnikit.NewGlobalRef(env, loaderLocal)
//	jnikit.RegisterClassLoader(loaderRef)
//
// A miss from the registered loader is authoritative and reports
// ErrNotFound; resolution never falls back to the bootstrap lookup
// behind the loader's back. Absences are negatively cached until a
// loader registration makes earlier answers stale. Probing for
// optional APIs is therefore cheap:
//
//	if _, err := jnikit.ResolveClass("android/window/BackEvent"); errors.Is(err, jnikit.ErrNotFound) {
//	    // older platform, take the fallback path
//	}
//
// # Configuration
//
// Bridges run with DefaultOptions. Hosts that want tuning pass Options
// or a TOML file:
//
//	opts, err := jnikit.LoadOptions("jnikit.toml")
//	if err != nil {
//	    return err
//	}
//	jnikit.InitVM(handle, jnikit.WithOptions(opts))
package jnikit
