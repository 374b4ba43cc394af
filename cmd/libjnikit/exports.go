//go:build jni

// Command libjnikit builds as a c-shared library whose JNI_OnLoad
// installs the package-level bridge, for hosts that load the bridge on
// its own rather than linked into a larger native library.
//
// Build with:
//
//	CGO_CFLAGS="-I$JAVA_HOME/include -I$JAVA_HOME/include/linux" \
//	go build -tags jni -buildmode=c-shared -o libjnikit.so ./cmd/libjnikit
//
// When the VM loads the library it calls JNI_OnLoad, which wraps the
// VM handle and initializes jnikit. Set JNIKIT_CONFIG to a TOML file
// path to tune the bridge; a missing or broken file falls back to
// defaults rather than failing the load.
package main

/*
#include <jni.h>
*/
import "C"

import (
	"os"
	"unsafe"

	"github.com/swifdroid/jnikit"
	"github.com/swifdroid/jnikit/jni"
)

//export JNI_OnLoad
func JNI_OnLoad(vm *C.JavaVM, reserved unsafe.Pointer) C.jint {
	handle, err := jni.WrapJavaVM(unsafe.Pointer(vm))
	if err != nil {
		return C.jint(jni.StatusError)
	}
	if path := os.Getenv("JNIKIT_CONFIG"); path != "" {
		if opts, err := jnikit.LoadOptions(path); err == nil {
			jnikit.InitVM(handle, jnikit.WithOptions(opts))
			return C.jint(jni.Version16)
		}
	}
	jnikit.InitVM(handle)
	return C.jint(jni.Version16)
}

//export JNI_OnUnload
func JNI_OnUnload(vm *C.JavaVM, reserved unsafe.Pointer) {
	// Best effort: the VM is going away along with every reference the
	// bridge holds.
	_ = jnikit.Default().Close()
}

func main() {}
