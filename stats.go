package jnikit

// Stats is a point-in-time snapshot of resolution cache effectiveness.
// Hits are lookups answered from the cache, misses are lookups that
// had to consult the VM, and negative hits are absences answered from
// the negative cache without a native round trip.
type Stats struct {
	ClassHits    uint64
	ClassMisses  uint64
	MemberHits   uint64
	MemberMisses uint64
	NegativeHits uint64

	CachedClasses int
	CachedMembers int
}

// Lookups returns the total number of resolutions served.
func (s Stats) Lookups() uint64 {
	return s.ClassHits + s.ClassMisses + s.MemberHits + s.MemberMisses + s.NegativeHits
}

// HitRate returns the fraction of lookups answered without a native
// round trip, between 0 and 1. It is 0 when nothing has been resolved.
func (s Stats) HitRate() float64 {
	total := s.Lookups()
	if total == 0 {
		return 0
	}
	return float64(s.ClassHits+s.MemberHits+s.NegativeHits) / float64(total)
}
