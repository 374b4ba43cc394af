package jnikit

import (
	"fmt"

	"github.com/swifdroid/jnikit/jni"
)

// memberKey builds the cache key for a member within its class. Static
// members carry a prefix so a static and an instance member with the
// same name and signature stay distinct entries.
func memberKey(name, sig string, static bool) string {
	if static {
		return "static:" + name + sig
	}
	return name + sig
}

// classMemberKey scopes a member key to its class. Class names cannot
// contain NUL, so the separator cannot collide.
func classMemberKey(cls *Class, key string) string {
	return cls.name + "\x00" + key
}

// ResolveMethod returns the id of a method of cls, consulting the
// member cache first. Method ids are plain tokens, not references;
// they are cached forever and never released. A missing method reports
// ErrNotFound, which callers probing optional APIs treat as a normal
// answer.
func (b *Bridge) ResolveMethod(cls *Class, name, sig string, static bool) (jni.MethodID, error) {
	if cls == nil {
		return 0, fmt.Errorf("resolve method %s%s: nil class: %w", name, sig, ErrMisuse)
	}
	key := classMemberKey(cls, memberKey(name, sig, static))
	if id, ok := b.cache.lookupMethod(key); ok {
		return id, nil
	}
	if b.cache.negMemberHit(key) {
		return 0, fmt.Errorf("resolve method %s.%s%s: %w", cls.name, name, sig, ErrNotFound)
	}
	env, err := b.AttachCurrentThread()
	if err != nil {
		return 0, fmt.Errorf("resolve method %s.%s%s: %w", cls.name, name, sig, err)
	}
	b.cache.countMemberMiss()
	var id jni.MethodID
	if static {
		id = env.GetStaticMethodID(cls.Handle(), name, sig)
	} else {
		id = env.GetMethodID(cls.Handle(), name, sig)
	}
	if id.IsNull() {
		env.ExceptionClear()
		b.cache.noteMemberMiss(key)
		b.log.D("method not found", "class", cls.name, "name", name, "sig", sig, "static", static)
		return 0, fmt.Errorf("resolve method %s.%s%s: %w", cls.name, name, sig, ErrNotFound)
	}
	b.cache.storeMethod(key, id)
	b.log.V("method resolved", "class", cls.name, "name", name, "sig", sig, "static", static)
	return id, nil
}

// ResolveField returns the id of a field of cls. Semantics match
// ResolveMethod: cached forever, never released, absence is
// ErrNotFound.
func (b *Bridge) ResolveField(cls *Class, name, sig string, static bool) (jni.FieldID, error) {
	if cls == nil {
		return 0, fmt.Errorf("resolve field %s %s: nil class: %w", name, sig, ErrMisuse)
	}
	key := classMemberKey(cls, memberKey(name, sig, static))
	if id, ok := b.cache.lookupField(key); ok {
		return id, nil
	}
	if b.cache.negMemberHit(key) {
		return 0, fmt.Errorf("resolve field %s.%s %s: %w", cls.name, name, sig, ErrNotFound)
	}
	env, err := b.AttachCurrentThread()
	if err != nil {
		return 0, fmt.Errorf("resolve field %s.%s %s: %w", cls.name, name, sig, err)
	}
	b.cache.countMemberMiss()
	var id jni.FieldID
	if static {
		id = env.GetStaticFieldID(cls.Handle(), name, sig)
	} else {
		id = env.GetFieldID(cls.Handle(), name, sig)
	}
	if id.IsNull() {
		env.ExceptionClear()
		b.cache.noteMemberMiss(key)
		b.log.D("field not found", "class", cls.name, "name", name, "sig", sig, "static", static)
		return 0, fmt.Errorf("resolve field %s.%s %s: %w", cls.name, name, sig, ErrNotFound)
	}
	b.cache.storeField(key, id)
	b.log.V("field resolved", "class", cls.name, "name", name, "sig", sig, "static", static)
	return id, nil
}
