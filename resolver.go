package jnikit

import (
	"errors"
	"fmt"

	"github.com/swifdroid/jnikit/jni"
)

// loadClassSig is the descriptor of ClassLoader.loadClass.
const loadClassSig = "(Ljava/lang/String;)Ljava/lang/Class;"

// ResolveClass resolves a class by name and returns its cached
// descriptor. The name may use dots or slashes; both forms map to the
// same cache entry, so repeated resolutions return the identical
// descriptor without touching the VM.
//
// Resolution consults, in order: the cache, the registered class
// loader, or, when no loader is registered, the bootstrap lookup of
// the current thread. A miss from a registered loader is final and
// reports ErrNotFound; it does not fall through to the bootstrap
// lookup, because the two can disagree and a silent fallthrough would
// resolve a different class than the application sees.
//
// Under concurrent first resolution of the same name every caller
// receives the same descriptor; losing racers release their extra
// promotion.
func (b *Bridge) ResolveClass(name string) (*Class, error) {
	key := canonicalClassName(name)
	if key == "" {
		return nil, fmt.Errorf("resolve class: empty name: %w", ErrMisuse)
	}
	if cls, ok := b.cache.lookupClass(key); ok {
		return cls, nil
	}
	if b.cache.negClassHit(key) {
		return nil, fmt.Errorf("resolve class %s: %w", key, ErrNotFound)
	}
	epoch := b.cache.currentEpoch()
	env, err := b.AttachCurrentThread()
	if err != nil {
		return nil, fmt.Errorf("resolve class %s: %w", key, err)
	}
	b.cache.countClassMiss()

	var local jni.Object
	if loader, loadClass := b.currentLoader(); loader != nil {
		local, err = b.loadViaLoader(env, loader, loadClass, key, epoch)
	} else {
		local, err = b.loadViaBootstrap(env, key, epoch)
	}
	if err != nil {
		return nil, err
	}

	global := env.NewGlobalRef(local)
	env.DeleteLocalRef(local)
	if global.IsNull() {
		env.ExceptionClear()
		b.log.W("class promotion failed", "class", key)
		return nil, fmt.Errorf("resolve class %s: %w", key, ErrPromotionFailed)
	}

	cls := &Class{name: key, ref: AdoptGlobalRef(global)}
	winner, won := b.cache.storeClass(key, cls)
	if !won {
		// Another goroutine published first. Drop our promotion and
		// hand out the winner so descriptor identity stays stable.
		env.DeleteGlobalRef(global)
		b.log.V("class resolution race lost", "class", key)
		return winner, nil
	}
	b.log.D("class resolved", "class", key)
	return cls, nil
}

// loadViaBootstrap asks the thread's default lookup for the class and
// returns a local reference to it.
func (b *Bridge) loadViaBootstrap(env jni.Env, key string, epoch uint64) (jni.Object, error) {
	cls := env.FindClass(key)
	if cls.IsNull() {
		env.ExceptionClear()
		b.cache.noteClassMiss(key, epoch)
		b.log.D("class not found", "class", key)
		return 0, fmt.Errorf("resolve class %s: %w", key, ErrNotFound)
	}
	return cls.Object(), nil
}

// loadViaLoader asks the registered class loader for the class. The
// loader's answer is authoritative: a thrown ClassNotFoundException or
// a null result is absence, full stop.
func (b *Bridge) loadViaLoader(env jni.Env, loader *GlobalRef, loadClass jni.MethodID, key string, epoch uint64) (jni.Object, error) {
	name := env.NewStringUTF(binaryClassName(key))
	if name.IsNull() {
		env.ExceptionClear()
		return 0, fmt.Errorf("resolve class %s: allocate name string: %w", key, jni.ErrNoMemory)
	}
	defer env.DeleteLocalRef(name)

	cls := env.CallObjectMethod(loader.Handle(), loadClass, name)
	if env.ExceptionCheck() {
		env.ExceptionClear()
		b.cache.noteClassMiss(key, epoch)
		b.log.D("loader reported class missing", "class", key)
		return 0, fmt.Errorf("resolve class %s: %w", key, ErrNotFound)
	}
	if cls.IsNull() {
		b.cache.noteClassMiss(key, epoch)
		b.log.D("loader returned null class", "class", key)
		return 0, fmt.Errorf("resolve class %s: %w", key, ErrNotFound)
	}
	return cls, nil
}

// RegisterClassLoader installs loader as the authority for subsequent
// class resolution and takes ownership of the reference; it is
// released when the bridge closes. Registering typically happens once,
// right after startup, with the application's context class loader.
//
// A replaced loader is retained, not released: a resolution that
// picked it up before the switch may still be calling into it, and
// deleting the reference under that call would hand the VM a dead
// handle. Retained loaders are released by Close.
//
// Negative resolution results recorded so far are discarded, since the
// new loader may serve classes the previous chain could not. Cached
// descriptors are kept: resolved classes do not change identity when
// the loader changes.
func (b *Bridge) RegisterClassLoader(loader *GlobalRef) error {
	if loader == nil || loader.Handle().IsNull() {
		return fmt.Errorf("register class loader: nil or released reference: %w", ErrMisuse)
	}
	// Resolve the loadClass entry point through the current chain
	// before switching over, so the switch itself never recurses into
	// the loader being installed.
	clClass, err := b.ResolveClass("java/lang/ClassLoader")
	if err != nil {
		return fmt.Errorf("register class loader: %w", err)
	}
	loadClass, err := b.ResolveMethod(clClass, "loadClass", loadClassSig, false)
	if err != nil {
		return fmt.Errorf("register class loader: %w", err)
	}
	b.mu.Lock()
	if previous := b.loader; previous != nil {
		b.retired = append(b.retired, previous)
	}
	b.loader = loader
	b.loadClass = loadClass
	b.mu.Unlock()
	b.cache.invalidateNegatives()
	b.log.I("class loader registered")
	return nil
}

// currentLoader returns the registered loader and its loadClass id, or
// nil when resolution should use the bootstrap lookup.
func (b *Bridge) currentLoader() (*GlobalRef, jni.MethodID) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.loader, b.loadClass
}

// Preload resolves a batch of classes ahead of use, typically from
// JNI_OnLoad for the classes an application touches on every startup.
// The batch runs under WithEnv, since the frame spans many calls and
// the environment must stay on one OS thread for all of them; lookups
// share one local frame so transient references from the loader path
// cannot pile up. Each failure is reported per class and does not stop
// the rest of the batch.
func (b *Bridge) Preload(names ...string) error {
	if len(names) == 0 {
		return nil
	}
	var errs []error
	err := b.WithEnv(func(env jni.Env) error {
		return WithLocalFrame(env, len(names)+4, func() error {
			for _, name := range names {
				if _, err := b.ResolveClass(name); err != nil {
					errs = append(errs, err)
				}
			}
			return nil
		})
	})
	if err != nil {
		return fmt.Errorf("preload: %w", err)
	}
	return errors.Join(errs...)
}
