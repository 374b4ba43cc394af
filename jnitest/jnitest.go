// Package jnitest provides an in-memory VM implementing the jni
// interfaces, for testing bridge code without a running Java VM.
//
// The fake serves classes and members from tables declared up front
// with AddClass, tallies every call it receives, and can inject the
// failure modes a real VM exhibits: attach refusal, global-reference
// exhaustion, and local-frame overflow. Reference bookkeeping is
// strict: deleting a reference twice or using a stale handle is
// recorded and can be asserted to be zero.
//
// Attachment state is process-wide. The fake does not distinguish OS
// threads; tests that need a detached state call DetachCurrentThread
// explicitly.
package jnitest

import (
	"strings"
	"sync"

	"github.com/swifdroid/jnikit/jni"
)

// Member declares one method or field of a class definition. Sig is a
// JVM type descriptor, e.g. "(I)Ljava/lang/String;" for a method or
// "I" for a field.
type Member struct {
	Name string
	Sig  string
}

// ClassDef declares the members of a class served by the VM. Instance
// and static members live in separate namespaces, as they do in the
// native interface.
type ClassDef struct {
	Methods       []Member
	StaticMethods []Member
	Fields        []Member
	StaticFields  []Member

	// LoaderOnly hides the class from FindClass. It is still served
	// through the loadClass method of a loader object, which is how
	// application classes behave on Android.
	LoaderOnly bool
}

// Counters is a snapshot of the calls the VM has served.
type Counters struct {
	FindClass         int
	GetObjectClass    int
	GetMethodID       int
	GetStaticMethodID int
	GetFieldID        int
	GetStaticFieldID  int
	NewGlobalRef      int
	DeleteGlobalRef   int
	DeleteLocalRef    int
	NewStringUTF      int
	CallObjectMethod  int
	LoadClass         int
	GetEnv            int
	Attach            int
	AttachDaemon      int
	Detach            int
}

type refKind uint8

const (
	refLocal refKind = iota + 1
	refGlobal
)

type refEntry struct {
	kind     refKind
	class    *classEntry // class of the referenced object
	denotes  *classEntry // set when the handle is a jclass
	str      string      // set when the object came from NewStringUTF
	isStr    bool
	loader   bool // object responds to loadClass
	released bool
}

type classEntry struct {
	name          string
	loaderOnly    bool
	methods       map[string]jni.MethodID
	staticMethods map[string]jni.MethodID
	fields        map[string]jni.FieldID
	staticFields  map[string]jni.FieldID
}

// VM is an in-memory jni.VM. The zero value is not usable; construct
// with NewVM.
type VM struct {
	mu       sync.Mutex
	classes  map[string]*classEntry
	refs     map[jni.Object]*refEntry
	frames   [][]jni.Object
	nextRef  uintptr
	nextID   uintptr
	attached bool
	pending  bool
	counters Counters

	failAttach     bool
	failPushFrame  bool
	failGlobalRefs int

	doubleDeletes int
	badHandles    int
	detachedUses  int

	classClass  *classEntry
	stringClass *classEntry
	objectClass *classEntry
	loaderClass *classEntry
	loadClassID jni.MethodID
}

// NewVM returns a VM preloaded with the classes the bridge itself
// depends on: java/lang/Object, java/lang/Class, java/lang/String, and
// java/lang/ClassLoader with its loadClass method.
func NewVM() *VM {
	v := &VM{
		classes: make(map[string]*classEntry),
		refs:    make(map[jni.Object]*refEntry),
		frames:  [][]jni.Object{nil},
		nextRef: 0x1000,
	}
	v.AddClass("java/lang/Object", ClassDef{})
	v.AddClass("java/lang/Class", ClassDef{
		Methods: []Member{{Name: "getName", Sig: "()Ljava/lang/String;"}},
	})
	v.AddClass("java/lang/String", ClassDef{})
	v.AddClass("java/lang/ClassLoader", ClassDef{
		Methods: []Member{{Name: "loadClass", Sig: "(Ljava/lang/String;)Ljava/lang/Class;"}},
	})
	v.classClass = v.classes["java/lang/Class"]
	v.stringClass = v.classes["java/lang/String"]
	v.objectClass = v.classes["java/lang/Object"]
	v.loaderClass = v.classes["java/lang/ClassLoader"]
	v.loadClassID = v.loaderClass.methods["loadClass(Ljava/lang/String;)Ljava/lang/Class;"]
	return v
}

// AddClass declares a class. The name may use dots or slashes;
// redeclaring a name replaces the previous definition.
func (v *VM) AddClass(name string, def ClassDef) {
	slash := strings.ReplaceAll(name, ".", "/")
	v.mu.Lock()
	defer v.mu.Unlock()
	ce := &classEntry{
		name:          slash,
		loaderOnly:    def.LoaderOnly,
		methods:       make(map[string]jni.MethodID),
		staticMethods: make(map[string]jni.MethodID),
		fields:        make(map[string]jni.FieldID),
		staticFields:  make(map[string]jni.FieldID),
	}
	for _, m := range def.Methods {
		v.nextID++
		ce.methods[m.Name+m.Sig] = jni.MethodID(v.nextID)
	}
	for _, m := range def.StaticMethods {
		v.nextID++
		ce.staticMethods[m.Name+m.Sig] = jni.MethodID(v.nextID)
	}
	for _, f := range def.Fields {
		v.nextID++
		ce.fields[f.Name+f.Sig] = jni.FieldID(v.nextID)
	}
	for _, f := range def.StaticFields {
		v.nextID++
		ce.staticFields[f.Name+f.Sig] = jni.FieldID(v.nextID)
	}
	v.classes[slash] = ce
}

// NewLoaderObject creates a ClassLoader instance and returns a global
// reference to it. Passing it to CallObjectMethod with the loadClass
// method id serves classes from the VM's tables, including LoaderOnly
// ones.
func (v *VM) NewLoaderObject() jni.Object {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.newRefLocked(refGlobal, refEntry{class: v.loaderClass, loader: true})
}

// FailAttach makes subsequent attach calls fail until called again
// with false.
func (v *VM) FailAttach(fail bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failAttach = fail
}

// FailPushFrame makes subsequent PushLocalFrame calls report
// StatusNoMemory until called again with false.
func (v *VM) FailPushFrame(fail bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failPushFrame = fail
}

// FailGlobalRefs makes the next n NewGlobalRef calls return the null
// reference with an exception pending.
func (v *VM) FailGlobalRefs(n int) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.failGlobalRefs = n
}

// Counters returns a snapshot of the call tallies.
func (v *VM) Counters() Counters {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.counters
}

// LiveGlobalRefs returns the number of undeleted global references.
func (v *VM) LiveGlobalRefs() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, re := range v.refs {
		if re.kind == refGlobal && !re.released {
			n++
		}
	}
	return n
}

// LiveLocalRefs returns the number of undeleted local references.
func (v *VM) LiveLocalRefs() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	n := 0
	for _, re := range v.refs {
		if re.kind == refLocal && !re.released {
			n++
		}
	}
	return n
}

// DoubleDeletes returns how many times a reference was deleted twice.
func (v *VM) DoubleDeletes() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.doubleDeletes
}

// BadHandleUses returns how many times a call received a handle the VM
// never issued, or one of the wrong kind.
func (v *VM) BadHandleUses() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.badHandles
}

// DetachedUses returns how many environment calls were served while no
// thread was attached. A correct bridge keeps this at zero.
func (v *VM) DetachedUses() int {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.detachedUses
}

// ExceptionPending reports whether an exception is pending.
func (v *VM) ExceptionPending() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending
}

// Attached reports whether the ambient thread is attached.
func (v *VM) Attached() bool {
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.attached
}

// CurrentEnv implements jni.VM.
func (v *VM) CurrentEnv() (jni.Env, jni.Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counters.GetEnv++
	if !v.attached {
		return nil, jni.StatusDetached
	}
	return &env{vm: v}, jni.StatusOK
}

// AttachCurrentThread implements jni.VM.
func (v *VM) AttachCurrentThread() (jni.Env, jni.Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counters.Attach++
	if v.failAttach {
		return nil, jni.StatusError
	}
	v.attached = true
	return &env{vm: v}, jni.StatusOK
}

// AttachCurrentThreadAsDaemon implements jni.VM.
func (v *VM) AttachCurrentThreadAsDaemon() (jni.Env, jni.Status) {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counters.AttachDaemon++
	if v.failAttach {
		return nil, jni.StatusError
	}
	v.attached = true
	return &env{vm: v}, jni.StatusOK
}

// DetachCurrentThread implements jni.VM. Detaching releases every
// local reference, as a real VM does when the thread leaves.
func (v *VM) DetachCurrentThread() jni.Status {
	v.mu.Lock()
	defer v.mu.Unlock()
	v.counters.Detach++
	if !v.attached {
		return jni.StatusError
	}
	v.attached = false
	for _, frame := range v.frames {
		for _, id := range frame {
			if re := v.refs[id]; re != nil {
				re.released = true
			}
		}
	}
	v.frames = [][]jni.Object{nil}
	return jni.StatusOK
}

func (v *VM) newRefLocked(kind refKind, proto refEntry) jni.Object {
	v.nextRef++
	id := jni.Object(v.nextRef)
	proto.kind = kind
	if proto.class == nil {
		proto.class = v.objectClass
	}
	v.refs[id] = &proto
	if kind == refLocal {
		top := len(v.frames) - 1
		v.frames[top] = append(v.frames[top], id)
	}
	return id
}

func (v *VM) liveRefLocked(obj jni.Object) *refEntry {
	re := v.refs[obj]
	if re == nil || re.released {
		v.badHandles++
		return nil
	}
	return re
}

func (v *VM) noteUseLocked() {
	if !v.attached {
		v.detachedUses++
	}
}

type env struct {
	vm *VM
}

func (e *env) FindClass(name string) jni.Class {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.FindClass++
	ce := v.classes[name]
	if ce == nil || ce.loaderOnly {
		v.pending = true
		return 0
	}
	return jni.Class(v.newRefLocked(refLocal, refEntry{class: v.classClass, denotes: ce}))
}

func (e *env) GetObjectClass(obj jni.Object) jni.Class {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.GetObjectClass++
	re := v.liveRefLocked(obj)
	if re == nil {
		return 0
	}
	return jni.Class(v.newRefLocked(refLocal, refEntry{class: v.classClass, denotes: re.class}))
}

func (e *env) NewGlobalRef(obj jni.Object) jni.Object {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.NewGlobalRef++
	if v.failGlobalRefs > 0 {
		v.failGlobalRefs--
		v.pending = true
		return 0
	}
	re := v.liveRefLocked(obj)
	if re == nil {
		return 0
	}
	clone := *re
	clone.released = false
	return v.newRefLocked(refGlobal, clone)
}

func (e *env) DeleteGlobalRef(obj jni.Object) {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.DeleteGlobalRef++
	re := v.refs[obj]
	if re == nil || re.kind != refGlobal {
		v.badHandles++
		return
	}
	if re.released {
		v.doubleDeletes++
		return
	}
	re.released = true
}

func (e *env) DeleteLocalRef(obj jni.Object) {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.DeleteLocalRef++
	re := v.refs[obj]
	if re == nil || re.kind != refLocal {
		v.badHandles++
		return
	}
	if re.released {
		v.doubleDeletes++
		return
	}
	re.released = true
}

func (e *env) GetMethodID(cls jni.Class, name, sig string) jni.MethodID {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.GetMethodID++
	ce := v.denotedLocked(cls)
	if ce == nil {
		return 0
	}
	id, ok := ce.methods[name+sig]
	if !ok {
		v.pending = true
		return 0
	}
	return id
}

func (e *env) GetStaticMethodID(cls jni.Class, name, sig string) jni.MethodID {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.GetStaticMethodID++
	ce := v.denotedLocked(cls)
	if ce == nil {
		return 0
	}
	id, ok := ce.staticMethods[name+sig]
	if !ok {
		v.pending = true
		return 0
	}
	return id
}

func (e *env) GetFieldID(cls jni.Class, name, sig string) jni.FieldID {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.GetFieldID++
	ce := v.denotedLocked(cls)
	if ce == nil {
		return 0
	}
	id, ok := ce.fields[name+sig]
	if !ok {
		v.pending = true
		return 0
	}
	return id
}

func (e *env) GetStaticFieldID(cls jni.Class, name, sig string) jni.FieldID {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.GetStaticFieldID++
	ce := v.denotedLocked(cls)
	if ce == nil {
		return 0
	}
	id, ok := ce.staticFields[name+sig]
	if !ok {
		v.pending = true
		return 0
	}
	return id
}

// denotedLocked resolves a class handle to the class entry it denotes.
func (v *VM) denotedLocked(cls jni.Class) *classEntry {
	re := v.liveRefLocked(jni.Object(cls))
	if re == nil {
		return nil
	}
	if re.denotes == nil {
		v.badHandles++
		return nil
	}
	return re.denotes
}

func (e *env) CallObjectMethod(obj jni.Object, method jni.MethodID, args ...jni.Object) jni.Object {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.CallObjectMethod++
	re := v.liveRefLocked(obj)
	if re == nil {
		return 0
	}
	if re.loader && method == v.loadClassID {
		v.counters.LoadClass++
		if len(args) != 1 {
			v.pending = true
			return 0
		}
		se := v.liveRefLocked(args[0])
		if se == nil || !se.isStr {
			v.pending = true
			return 0
		}
		slash := strings.ReplaceAll(se.str, ".", "/")
		ce := v.classes[slash]
		if ce == nil {
			v.pending = true
			return 0
		}
		return v.newRefLocked(refLocal, refEntry{class: v.classClass, denotes: ce})
	}
	return 0
}

func (e *env) NewStringUTF(s string) jni.Object {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	v.counters.NewStringUTF++
	return v.newRefLocked(refLocal, refEntry{class: v.stringClass, str: s, isStr: true})
}

func (e *env) ExceptionCheck() bool {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	return v.pending
}

func (e *env) ExceptionClear() {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.pending = false
}

func (e *env) PushLocalFrame(capacity int) jni.Status {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	if v.failPushFrame {
		return jni.StatusNoMemory
	}
	v.frames = append(v.frames, nil)
	return jni.StatusOK
}

func (e *env) PopLocalFrame(result jni.Object) jni.Object {
	v := e.vm
	v.mu.Lock()
	defer v.mu.Unlock()
	v.noteUseLocked()
	if len(v.frames) == 1 {
		return result
	}
	top := len(v.frames) - 1
	for _, id := range v.frames[top] {
		if id == result {
			continue
		}
		if re := v.refs[id]; re != nil && !re.released {
			re.released = true
		}
	}
	v.frames = v.frames[:top]
	if !result.IsNull() {
		outer := len(v.frames) - 1
		v.frames[outer] = append(v.frames[outer], result)
	}
	return result
}

func (e *env) JavaVM() (jni.VM, jni.Status) {
	return e.vm, jni.StatusOK
}
