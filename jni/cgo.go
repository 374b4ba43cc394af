//go:build jni

package jni

// Native binding against a real VM. The JNI calling convention is a
// table of function pointers behind JNIEnv/JavaVM, which cgo cannot
// invoke directly, so the preamble defines one static C wrapper per
// call. Point CGO_CFLAGS at the jni.h of your JDK or NDK sysroot, e.g.
//
//	CGO_CFLAGS="-I$JAVA_HOME/include -I$JAVA_HOME/include/linux" \
//	go build -tags jni ./...
//
// No -l flag is needed: every call goes through the function table the
// hosting VM hands us, so the binding links against nothing.

/*
#include <stdlib.h>
#include <jni.h>

static jclass jk_find_class(JNIEnv *env, const char *name) {
	return (*env)->FindClass(env, name);
}

static jclass jk_get_object_class(JNIEnv *env, jobject obj) {
	return (*env)->GetObjectClass(env, obj);
}

static jobject jk_new_global_ref(JNIEnv *env, jobject obj) {
	return (*env)->NewGlobalRef(env, obj);
}

static void jk_delete_global_ref(JNIEnv *env, jobject obj) {
	(*env)->DeleteGlobalRef(env, obj);
}

static void jk_delete_local_ref(JNIEnv *env, jobject obj) {
	(*env)->DeleteLocalRef(env, obj);
}

static jmethodID jk_get_method_id(JNIEnv *env, jclass cls, const char *name, const char *sig) {
	return (*env)->GetMethodID(env, cls, name, sig);
}

static jmethodID jk_get_static_method_id(JNIEnv *env, jclass cls, const char *name, const char *sig) {
	return (*env)->GetStaticMethodID(env, cls, name, sig);
}

static jfieldID jk_get_field_id(JNIEnv *env, jclass cls, const char *name, const char *sig) {
	return (*env)->GetFieldID(env, cls, name, sig);
}

static jfieldID jk_get_static_field_id(JNIEnv *env, jclass cls, const char *name, const char *sig) {
	return (*env)->GetStaticFieldID(env, cls, name, sig);
}

static jobject jk_call_object_method(JNIEnv *env, jobject obj, jmethodID method, const jvalue *args) {
	return (*env)->CallObjectMethodA(env, obj, method, args);
}

static jobject jk_new_string_utf(JNIEnv *env, const char *s) {
	return (*env)->NewStringUTF(env, s);
}

static jboolean jk_exception_check(JNIEnv *env) {
	return (*env)->ExceptionCheck(env);
}

static void jk_exception_clear(JNIEnv *env) {
	(*env)->ExceptionClear(env);
}

static jint jk_push_local_frame(JNIEnv *env, jint capacity) {
	return (*env)->PushLocalFrame(env, capacity);
}

static jobject jk_pop_local_frame(JNIEnv *env, jobject result) {
	return (*env)->PopLocalFrame(env, result);
}

static jint jk_get_java_vm(JNIEnv *env, JavaVM **vm) {
	return (*env)->GetJavaVM(env, vm);
}

static jint jk_get_env(JavaVM *vm, JNIEnv **env, jint version) {
	return (*vm)->GetEnv(vm, (void **)env, version);
}

/* The JDK's jni.h declares the attach out-parameter as void**, the
   Android NDK's as JNIEnv**. A void* argument converts to either
   without a diagnostic; GetEnv is void** in both headers. */
static jint jk_attach_current_thread(JavaVM *vm, JNIEnv **env) {
	return (*vm)->AttachCurrentThread(vm, (void *)env, NULL);
}

static jint jk_attach_current_thread_as_daemon(JavaVM *vm, JNIEnv **env) {
	return (*vm)->AttachCurrentThreadAsDaemon(vm, (void *)env, NULL);
}

static jint jk_detach_current_thread(JavaVM *vm) {
	return (*vm)->DetachCurrentThread(vm);
}
*/
import "C"

import (
	"errors"
	"unsafe"
)

// WrapJavaVM wraps the JavaVM pointer the runtime passes to JNI_OnLoad.
func WrapJavaVM(ptr unsafe.Pointer) (VM, error) {
	if ptr == nil {
		return nil, errors.New("jni: nil JavaVM pointer")
	}
	return &cgoVM{p: (*C.JavaVM)(ptr)}, nil
}

// WrapEnv wraps the JNIEnv pointer passed to an exported native method.
// The result is only valid on the calling thread for the duration of
// that native call.
func WrapEnv(ptr unsafe.Pointer) (Env, error) {
	if ptr == nil {
		return nil, errors.New("jni: nil JNIEnv pointer")
	}
	return &cgoEnv{p: (*C.JNIEnv)(ptr)}, nil
}

type cgoVM struct {
	p *C.JavaVM
}

type cgoEnv struct {
	p *C.JNIEnv
}

func (v *cgoVM) CurrentEnv() (Env, Status) {
	var e *C.JNIEnv
	st := Status(C.jk_get_env(v.p, &e, C.jint(Version16)))
	if !st.OK() {
		return nil, st
	}
	return &cgoEnv{p: e}, StatusOK
}

func (v *cgoVM) AttachCurrentThread() (Env, Status) {
	var e *C.JNIEnv
	st := Status(C.jk_attach_current_thread(v.p, &e))
	if !st.OK() {
		return nil, st
	}
	return &cgoEnv{p: e}, StatusOK
}

func (v *cgoVM) AttachCurrentThreadAsDaemon() (Env, Status) {
	var e *C.JNIEnv
	st := Status(C.jk_attach_current_thread_as_daemon(v.p, &e))
	if !st.OK() {
		return nil, st
	}
	return &cgoEnv{p: e}, StatusOK
}

func (v *cgoVM) DetachCurrentThread() Status {
	return Status(C.jk_detach_current_thread(v.p))
}

func (e *cgoEnv) FindClass(name string) Class {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	return wrapClass(C.jk_find_class(e.p, cname))
}

func (e *cgoEnv) GetObjectClass(obj Object) Class {
	return wrapClass(C.jk_get_object_class(e.p, cObject(obj)))
}

func (e *cgoEnv) NewGlobalRef(obj Object) Object {
	return wrapObject(C.jk_new_global_ref(e.p, cObject(obj)))
}

func (e *cgoEnv) DeleteGlobalRef(obj Object) {
	C.jk_delete_global_ref(e.p, cObject(obj))
}

func (e *cgoEnv) DeleteLocalRef(obj Object) {
	C.jk_delete_local_ref(e.p, cObject(obj))
}

func (e *cgoEnv) GetMethodID(cls Class, name, sig string) MethodID {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	csig := C.CString(sig)
	defer C.free(unsafe.Pointer(csig))
	return MethodID(uintptr(unsafe.Pointer(C.jk_get_method_id(e.p, cClass(cls), cname, csig))))
}

func (e *cgoEnv) GetStaticMethodID(cls Class, name, sig string) MethodID {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	csig := C.CString(sig)
	defer C.free(unsafe.Pointer(csig))
	return MethodID(uintptr(unsafe.Pointer(C.jk_get_static_method_id(e.p, cClass(cls), cname, csig))))
}

func (e *cgoEnv) GetFieldID(cls Class, name, sig string) FieldID {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	csig := C.CString(sig)
	defer C.free(unsafe.Pointer(csig))
	return FieldID(uintptr(unsafe.Pointer(C.jk_get_field_id(e.p, cClass(cls), cname, csig))))
}

func (e *cgoEnv) GetStaticFieldID(cls Class, name, sig string) FieldID {
	cname := C.CString(name)
	defer C.free(unsafe.Pointer(cname))
	csig := C.CString(sig)
	defer C.free(unsafe.Pointer(csig))
	return FieldID(uintptr(unsafe.Pointer(C.jk_get_static_field_id(e.p, cClass(cls), cname, csig))))
}

func (e *cgoEnv) CallObjectMethod(obj Object, method MethodID, args ...Object) Object {
	var argp *C.jvalue
	if len(args) > 0 {
		vals := make([]C.jvalue, len(args))
		for i, a := range args {
			*(*C.jobject)(unsafe.Pointer(&vals[i])) = cObject(a)
		}
		argp = &vals[0]
	}
	mid := C.jmethodID(unsafe.Pointer(uintptr(method)))
	return wrapObject(C.jk_call_object_method(e.p, cObject(obj), mid, argp))
}

func (e *cgoEnv) NewStringUTF(s string) Object {
	cs := C.CString(s)
	defer C.free(unsafe.Pointer(cs))
	return wrapObject(C.jk_new_string_utf(e.p, cs))
}

func (e *cgoEnv) ExceptionCheck() bool {
	return C.jk_exception_check(e.p) != 0
}

func (e *cgoEnv) ExceptionClear() {
	C.jk_exception_clear(e.p)
}

func (e *cgoEnv) PushLocalFrame(capacity int) Status {
	return Status(C.jk_push_local_frame(e.p, C.jint(capacity)))
}

func (e *cgoEnv) PopLocalFrame(result Object) Object {
	return wrapObject(C.jk_pop_local_frame(e.p, cObject(result)))
}

func (e *cgoEnv) JavaVM() (VM, Status) {
	var vm *C.JavaVM
	st := Status(C.jk_get_java_vm(e.p, &vm))
	if !st.OK() {
		return nil, st
	}
	return &cgoVM{p: vm}, StatusOK
}

func cObject(o Object) C.jobject {
	return C.jobject(unsafe.Pointer(uintptr(o)))
}

func cClass(c Class) C.jclass {
	return C.jclass(unsafe.Pointer(uintptr(c)))
}

func wrapObject(o C.jobject) Object {
	return Object(uintptr(unsafe.Pointer(o)))
}

func wrapClass(c C.jclass) Class {
	return Class(uintptr(unsafe.Pointer(c)))
}
