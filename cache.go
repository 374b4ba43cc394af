package jnikit

import (
	"sync/atomic"

	lru "github.com/hashicorp/golang-lru/v2"
	cmap "github.com/orcaman/concurrent-map/v2"

	"github.com/swifdroid/jnikit/jni"
)

// referenceCache memoizes resolution results for the lifetime of the
// bridge. Positive entries are never evicted: a cached class pins its
// global reference and cached member ids stay valid as long as their
// class does, so eviction would only force the VM to answer the same
// question again.
//
// Negative results live in small bounded LRUs so that capability
// probes for absent APIs stop hitting the VM. Negative class entries
// are stamped with the loader epoch and die when a class loader is
// registered, since a new loader can make previously missing classes
// resolvable. Negative member entries have no epoch: a resolved class
// never grows members.
type referenceCache struct {
	classes cmap.ConcurrentMap[string, *Class]
	methods cmap.ConcurrentMap[string, jni.MethodID]
	fields  cmap.ConcurrentMap[string, jni.FieldID]

	negClasses *lru.Cache[string, uint64]
	negMembers *lru.Cache[string, struct{}]
	epoch      atomic.Uint64

	classHits    atomic.Uint64
	classMisses  atomic.Uint64
	memberHits   atomic.Uint64
	memberMisses atomic.Uint64
	negativeHits atomic.Uint64
}

func newReferenceCache(negSize int) *referenceCache {
	c := &referenceCache{
		classes: cmap.New[*Class](),
		methods: cmap.New[jni.MethodID](),
		fields:  cmap.New[jni.FieldID](),
	}
	if negSize > 0 {
		c.negClasses, _ = lru.New[string, uint64](negSize)
		c.negMembers, _ = lru.New[string, struct{}](negSize)
	}
	return c
}

// currentEpoch returns the loader epoch to stamp on negative results
// observed from this point on.
func (c *referenceCache) currentEpoch() uint64 { return c.epoch.Load() }

func (c *referenceCache) lookupClass(key string) (*Class, bool) {
	if cls, ok := c.classes.Get(key); ok {
		c.classHits.Add(1)
		return cls, true
	}
	return nil, false
}

// storeClass publishes a freshly resolved descriptor and returns the
// one that is cached afterwards. The first insertion wins; a losing
// caller receives the winner from the same locked operation and must
// release its own promotion.
func (c *referenceCache) storeClass(key string, cls *Class) (*Class, bool) {
	winner := c.classes.Upsert(key, cls, func(exist bool, valueInMap, newValue *Class) *Class {
		if exist {
			return valueInMap
		}
		return newValue
	})
	return winner, winner == cls
}

func (c *referenceCache) negClassHit(key string) bool {
	if c.negClasses == nil {
		return false
	}
	if epoch, ok := c.negClasses.Get(key); ok && epoch == c.epoch.Load() {
		c.negativeHits.Add(1)
		return true
	}
	return false
}

// noteClassMiss records an absence observed under the given epoch. The
// record is dropped if a loader was registered while the lookup was in
// flight, because that loader may serve the class.
func (c *referenceCache) noteClassMiss(key string, epoch uint64) {
	if c.negClasses == nil || epoch != c.epoch.Load() {
		return
	}
	c.negClasses.Add(key, epoch)
}

func (c *referenceCache) countClassMiss() { c.classMisses.Add(1) }

func (c *referenceCache) lookupMethod(key string) (jni.MethodID, bool) {
	if id, ok := c.methods.Get(key); ok {
		c.memberHits.Add(1)
		return id, true
	}
	return 0, false
}

func (c *referenceCache) storeMethod(key string, id jni.MethodID) {
	c.methods.SetIfAbsent(key, id)
}

func (c *referenceCache) lookupField(key string) (jni.FieldID, bool) {
	if id, ok := c.fields.Get(key); ok {
		c.memberHits.Add(1)
		return id, true
	}
	return 0, false
}

func (c *referenceCache) storeField(key string, id jni.FieldID) {
	c.fields.SetIfAbsent(key, id)
}

func (c *referenceCache) negMemberHit(key string) bool {
	if c.negMembers == nil {
		return false
	}
	if _, ok := c.negMembers.Get(key); ok {
		c.negativeHits.Add(1)
		return true
	}
	return false
}

func (c *referenceCache) noteMemberMiss(key string) {
	if c.negMembers == nil {
		return
	}
	c.negMembers.Add(key, struct{}{})
}

func (c *referenceCache) countMemberMiss() { c.memberMisses.Add(1) }

// invalidateNegatives retires every negative class entry. Called when
// the resolution chain changes.
func (c *referenceCache) invalidateNegatives() {
	c.epoch.Add(1)
	if c.negClasses != nil {
		c.negClasses.Purge()
	}
}

// drainClasses empties the cache and returns the descriptors that were
// cached, so the caller can release their references.
func (c *referenceCache) drainClasses() []*Class {
	items := c.classes.Items()
	out := make([]*Class, 0, len(items))
	for _, cls := range items {
		out = append(out, cls)
	}
	c.classes.Clear()
	c.methods.Clear()
	c.fields.Clear()
	if c.negMembers != nil {
		c.negMembers.Purge()
	}
	c.invalidateNegatives()
	return out
}

func (c *referenceCache) snapshot() Stats {
	return Stats{
		ClassHits:     c.classHits.Load(),
		ClassMisses:   c.classMisses.Load(),
		MemberHits:    c.memberHits.Load(),
		MemberMisses:  c.memberMisses.Load(),
		NegativeHits:  c.negativeHits.Load(),
		CachedClasses: c.classes.Count(),
		CachedMembers: c.methods.Count() + c.fields.Count(),
	}
}
