package jnikit

import "errors"

var (
	// ErrNotFound reports that a class or member does not exist from
	// the resolver's point of view: the bootstrap lookup or the
	// registered class loader was asked and answered no. Callers
	// probing for optional platform APIs test for it with errors.Is.
	ErrNotFound = errors.New("jnikit: class or member not found")

	// ErrNotAttached reports that an operation needed a thread
	// environment but none could be obtained, either because no VM
	// handle has been installed or because attaching the current
	// thread failed.
	ErrNotAttached = errors.New("jnikit: vm not available or thread not attached")

	// ErrPromotionFailed reports that the VM refused to promote a
	// local reference to a global one, typically because the global
	// reference table is exhausted.
	ErrPromotionFailed = errors.New("jnikit: global reference promotion failed")

	// ErrMisuse reports an invalid use of the API that the type system
	// could not rule out, such as registering a nil class loader or
	// resolving a member on a nil class.
	ErrMisuse = errors.New("jnikit: invalid use")

	// ErrBadSignature reports a malformed JVM type or method
	// descriptor.
	ErrBadSignature = errors.New("jnikit: malformed signature")
)
