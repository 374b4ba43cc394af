// Package jni defines the thin surface through which the rest of the
// module talks to a Java virtual machine.
//
// The package deliberately stays close to the native calling
// convention: lookups return a zero handle on failure (with a Java
// exception left pending, which the caller must clear), and
// thread-level operations report a Status code. Policy decisions such
// as caching, reference ownership, and error mapping live one level up,
// in the root jnikit package.
//
// Two implementations exist. Building with the "jni" tag produces a
// cgo-backed binding against a real VM, obtained via WrapJavaVM from
// the JavaVM pointer the runtime hands to JNI_OnLoad. Without the tag,
// WrapJavaVM reports ErrUnavailable and tests use the in-memory VM from
// the jnitest package instead.
package jni

import "errors"

// Object is an opaque reference to a Java object. The zero value is the
// null reference.
type Object uintptr

// Class is an opaque reference to a loaded Java class. The zero value
// is the null reference.
type Class uintptr

// MethodID identifies a resolved method within its declaring class. It
// is not a reference and is never released.
type MethodID uintptr

// FieldID identifies a resolved field within its declaring class. It is
// not a reference and is never released.
type FieldID uintptr

// IsNull reports whether o is the null reference.
func (o Object) IsNull() bool { return o == 0 }

// IsNull reports whether c is the null reference.
func (c Class) IsNull() bool { return c == 0 }

// Object converts the class handle to a plain object handle. Class
// references participate in the same lifetime rules as any other
// object reference.
func (c Class) Object() Object { return Object(c) }

// IsNull reports whether m identifies no method.
func (m MethodID) IsNull() bool { return m == 0 }

// IsNull reports whether f identifies no field.
func (f FieldID) IsNull() bool { return f == 0 }

// Version16 is the interface version this module requests from the VM.
const Version16 = 0x00010006

// Status is the result code of a VM-level operation.
type Status int32

const (
	StatusOK         Status = 0
	StatusError      Status = -1
	StatusDetached   Status = -2
	StatusBadVersion Status = -3
	StatusNoMemory   Status = -4
	StatusExists     Status = -5
	StatusInvalid    Status = -6
)

var (
	// ErrDetached is reported when the current thread has no
	// environment because it was never attached, or was detached.
	ErrDetached = errors.New("jni: current thread not attached")

	// ErrNoMemory is reported when the VM cannot satisfy an
	// allocation, for example a new reference table slot.
	ErrNoMemory = errors.New("jni: out of memory")

	// ErrBadVersion is reported when the VM does not support the
	// requested interface version.
	ErrBadVersion = errors.New("jni: unsupported interface version")

	// ErrUnavailable is reported by WrapJavaVM when the module was
	// built without the "jni" tag and no native binding exists.
	ErrUnavailable = errors.New("jni: native binding not compiled in (build with -tags jni)")
)

// OK reports whether s is StatusOK.
func (s Status) OK() bool { return s == StatusOK }

// String returns the conventional name of the status code.
func (s Status) String() string {
	switch s {
	case StatusOK:
		return "OK"
	case StatusError:
		return "ERR"
	case StatusDetached:
		return "EDETACHED"
	case StatusBadVersion:
		return "EVERSION"
	case StatusNoMemory:
		return "ENOMEM"
	case StatusExists:
		return "EEXIST"
	case StatusInvalid:
		return "EINVAL"
	}
	return "UNKNOWN"
}

// Err returns nil for StatusOK and a descriptive error otherwise.
// Detached, memory, and version failures map to the package sentinels
// so callers can test them with errors.Is.
func (s Status) Err() error {
	switch s {
	case StatusOK:
		return nil
	case StatusDetached:
		return ErrDetached
	case StatusNoMemory:
		return ErrNoMemory
	case StatusBadVersion:
		return ErrBadVersion
	}
	return errors.New("jni: status " + s.String())
}

// Env is the per-thread environment handle. An Env is only valid on the
// thread that obtained it and must not be stored or shared across
// threads; acquire a fresh one on each thread through a VM.
//
// Lookup methods follow the native convention: they return the zero
// handle when the target does not exist and leave the corresponding
// Java exception pending. Callers are responsible for clearing it via
// ExceptionClear before issuing further calls.
type Env interface {
	// FindClass locates a class by its slash-separated name using the
	// lookup rules of the caller's context, typically the
	// bootstrap/system loader.
	FindClass(name string) Class

	// GetObjectClass returns the concrete class of obj.
	GetObjectClass(obj Object) Class

	// NewGlobalRef promotes any reference to a global one that stays
	// valid across calls and threads until explicitly deleted. It
	// returns the null reference if the VM cannot create the global.
	NewGlobalRef(obj Object) Object

	// DeleteGlobalRef releases a global reference.
	DeleteGlobalRef(obj Object)

	// DeleteLocalRef releases a call-scoped local reference before its
	// enclosing frame ends.
	DeleteLocalRef(obj Object)

	// GetMethodID resolves an instance method by name and type
	// signature.
	GetMethodID(cls Class, name, sig string) MethodID

	// GetStaticMethodID resolves a static method by name and type
	// signature.
	GetStaticMethodID(cls Class, name, sig string) MethodID

	// GetFieldID resolves an instance field by name and type signature.
	GetFieldID(cls Class, name, sig string) FieldID

	// GetStaticFieldID resolves a static field by name and type
	// signature.
	GetStaticFieldID(cls Class, name, sig string) FieldID

	// CallObjectMethod invokes an instance method that returns an
	// object. A null result is ambiguous: check ExceptionCheck to
	// distinguish a thrown exception from a legitimate null return.
	CallObjectMethod(obj Object, method MethodID, args ...Object) Object

	// NewStringUTF creates a Java string from a Go string.
	NewStringUTF(s string) Object

	// ExceptionCheck reports whether a Java exception is pending on
	// this thread.
	ExceptionCheck() bool

	// ExceptionClear clears any pending Java exception.
	ExceptionClear()

	// PushLocalFrame opens a new local reference frame with room for at
	// least capacity references.
	PushLocalFrame(capacity int) Status

	// PopLocalFrame closes the current frame, freeing every local
	// created in it. A non-null result is re-homed into the previous
	// frame and returned.
	PopLocalFrame(result Object) Object

	// JavaVM returns the VM this environment belongs to.
	JavaVM() (VM, Status)
}

// VM is the process-wide virtual machine handle. Unlike Env it is valid
// on every thread.
type VM interface {
	// CurrentEnv returns the environment of the calling thread, or
	// StatusDetached if the thread is not attached.
	CurrentEnv() (Env, Status)

	// AttachCurrentThread attaches the calling thread to the VM and
	// returns its environment. Attaching an already attached thread
	// succeeds and returns the existing environment.
	AttachCurrentThread() (Env, Status)

	// AttachCurrentThreadAsDaemon is AttachCurrentThread except the
	// thread does not block VM shutdown.
	AttachCurrentThreadAsDaemon() (Env, Status)

	// DetachCurrentThread detaches the calling thread. Local
	// references and environments obtained on this thread become
	// invalid.
	DetachCurrentThread() Status
}
