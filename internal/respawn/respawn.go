// Package respawn defines the predicate an invoker consults after each
// firing to decide whether to wait for readiness again.
package respawn

// Policy decides, given the number of calls completed so far, whether an
// invoker should continue watching its vertex for readiness. The zero
// Policy never continues; use Forever or Bounded to build a real one.
type Policy struct {
	forever bool
	bounded bool
	limit   uint64
}

// Continue reports whether another firing should be attempted after
// ncalls completed calls.
func (p Policy) Continue(ncalls uint64) bool {
	switch {
	case p.forever:
		return true
	case p.bounded:
		return ncalls < p.limit
	default:
		return false
	}
}

// Limit reports the call limit a Bounded policy was built with, and
// whether p is bounded at all.
func (p Policy) Limit() (uint64, bool) {
	return p.limit, p.bounded
}

// Forever never stops respawning. A module under this policy keeps
// firing for as long as its vertex keeps becoming ready.
func Forever() Policy {
	return Policy{forever: true}
}

// Bounded stops respawning once ncalls reaches n. It is the documented
// guard against a runaway busy-loop on a vertex with no edges at all,
// which would otherwise be ready on every check.
func Bounded(n uint64) Policy {
	return Policy{bounded: true, limit: n}
}
