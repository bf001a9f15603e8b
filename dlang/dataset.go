package dlang

import "sort"

// dataSet is a bucketed set of Data values. Values are bucketed by Key, and
// membership/removal walk the bucket with Equal so that NaN-like values
// (same bucket, never equal to anything) behave correctly.
type dataSet struct {
	buckets map[string][]Data
}

func newDataSet(initial ...Data) dataSet {
	s := dataSet{buckets: make(map[string][]Data)}
	for _, d := range initial {
		s.add(d)
	}
	return s
}

func (s dataSet) clone() dataSet {
	out := dataSet{buckets: make(map[string][]Data, len(s.buckets))}
	for k, v := range s.buckets {
		cp := make([]Data, len(v))
		copy(cp, v)
		out.buckets[k] = cp
	}
	return out
}

func (s dataSet) contains(d Data) bool {
	for _, existing := range s.buckets[d.Key()] {
		if existing.Equal(d) {
			return true
		}
	}
	return false
}

func (s dataSet) add(d Data) {
	if s.contains(d) {
		return
	}
	k := d.Key()
	s.buckets[k] = append(s.buckets[k], d)
}

func (s dataSet) remove(d Data) {
	k := d.Key()
	bucket := s.buckets[k]
	for i, existing := range bucket {
		if existing.Equal(d) {
			s.buckets[k] = append(bucket[:i], bucket[i+1:]...)
			return
		}
	}
}

func (s dataSet) len() int {
	n := 0
	for _, v := range s.buckets {
		n += len(v)
	}
	return n
}

// items returns the set's elements in a stable, deterministic order (sorted
// by key) so that downstream iteration, and ultimately query output, does
// not depend on Go's randomized map order.
func (s dataSet) items() []Data {
	keys := make([]string, 0, len(s.buckets))
	for k := range s.buckets {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	out := make([]Data, 0, s.len())
	for _, k := range keys {
		out = append(out, s.buckets[k]...)
	}
	return out
}

func (s dataSet) isSubsetOf(other dataSet) bool {
	for _, d := range s.items() {
		if !other.contains(d) {
			return false
		}
	}
	return true
}

func (s dataSet) equalItems(other dataSet) bool {
	a, b := s.items(), other.items()
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if !a[i].Equal(b[i]) {
			return false
		}
	}
	return true
}

// setKind mirrors VarLiteral's four variants.
type setKind int

const (
	kindEmptySet setKind = iota
	kindFullSet
	kindSet
	kindAntiSet
)

// ValueSet is the four-variant constraint domain on a single argument
// position: EmptySet (contradiction), FullSet (wildcard universe), Set (one
// of these values), AntiSet (any value but these).
type ValueSet struct {
	kind setKind
	set  dataSet
}

// EmptySet is the contradictory/unsatisfiable value-set.
func EmptySet() ValueSet { return ValueSet{kind: kindEmptySet} }

// FullSet is the universe value-set, matched by the wildcard `_`.
func FullSet() ValueSet { return ValueSet{kind: kindFullSet} }

// Singleton is a Set containing exactly one value.
func Singleton(d Data) ValueSet { return ValueSet{kind: kindSet, set: newDataSet(d)} }

// NewSet builds a Set value-set from the given values.
func NewSet(ds ...Data) ValueSet { return ValueSet{kind: kindSet, set: newDataSet(ds...)} }

// NewAntiSet builds an AntiSet value-set (anything except the given values).
func NewAntiSet(ds ...Data) ValueSet { return ValueSet{kind: kindAntiSet, set: newDataSet(ds...)} }

func (v ValueSet) Kind() setKind { return v.kind }

// Add widens the value-set toward including d.
func (v ValueSet) Add(d Data) ValueSet {
	switch v.kind {
	case kindEmptySet:
		return Singleton(d)
	case kindFullSet:
		return v
	case kindSet:
		ns := v.set.clone()
		ns.add(d)
		return ValueSet{kind: kindSet, set: ns}
	case kindAntiSet:
		ns := v.set.clone()
		ns.remove(d)
		return ValueSet{kind: kindAntiSet, set: ns}
	default:
		panic("dlang: unreachable ValueSet kind")
	}
}

// Remove narrows the value-set to exclude d.
func (v ValueSet) Remove(d Data) ValueSet {
	switch v.kind {
	case kindEmptySet:
		return v
	case kindFullSet:
		return ValueSet{kind: kindAntiSet, set: newDataSet(d)}
	case kindAntiSet:
		ns := v.set.clone()
		ns.add(d)
		return ValueSet{kind: kindAntiSet, set: ns}
	case kindSet:
		ns := v.set.clone()
		ns.remove(d)
		return ValueSet{kind: kindSet, set: ns}
	default:
		panic("dlang: unreachable ValueSet kind")
	}
}

// IsSingleton reports whether the value-set denotes exactly one value, and
// returns it.
func (v ValueSet) IsSingleton() (Data, bool) {
	if v.kind != kindSet {
		return Data{}, false
	}
	items := v.set.items()
	if len(items) != 1 {
		return Data{}, false
	}
	return items[0], true
}

// Contains is value-set membership.
func (v ValueSet) Contains(d Data) bool {
	switch v.kind {
	case kindEmptySet:
		return false
	case kindFullSet:
		return true
	case kindSet:
		return v.set.contains(d)
	case kindAntiSet:
		return !v.set.contains(d)
	default:
		return false
	}
}

// SetEq is extensional equality under the four-variant algebra: two
// value-sets are equal only if they are the same variant with the same
// elements (Full/Empty always match their own kind).
func (v ValueSet) SetEq(o ValueSet) bool {
	switch {
	case v.kind == kindFullSet && o.kind == kindFullSet:
		return true
	case v.kind == kindEmptySet && o.kind == kindEmptySet:
		return true
	case v.kind == kindSet && o.kind == kindSet:
		return v.set.equalItems(o.set)
	case v.kind == kindAntiSet && o.kind == kindAntiSet:
		return v.set.equalItems(o.set)
	default:
		return false
	}
}

// ContainsSet reports whether o denotes a subset of v (v contains every
// value o could denote).
func (v ValueSet) ContainsSet(o ValueSet) bool {
	switch {
	case v.kind == kindFullSet:
		return true
	case v.kind == kindEmptySet:
		return o.kind == kindEmptySet
	case o.kind == kindEmptySet:
		return true
	case o.kind == kindFullSet:
		return false
	case o.kind == kindSet && v.kind == kindSet:
		return o.set.isSubsetOf(v.set)
	case o.kind == kindAntiSet && v.kind == kindSet:
		return false
	case o.kind == kindAntiSet && v.kind == kindAntiSet:
		// container = U\v.set, contained = U\o.set; contained subset of
		// container iff v.set subset of o.set.
		return v.set.isSubsetOf(o.set)
	case o.kind == kindSet && v.kind == kindAntiSet:
		// every element of o must not be excluded by v.
		for _, d := range o.set.items() {
			if v.set.contains(d) {
				return false
			}
		}
		return true
	default:
		return false
	}
}

// Intersect computes the set-algebra intersection of two value-sets, used by
// VarContext.Extend to merge an existing binding with a new one.
func Intersect(a, b ValueSet) ValueSet {
	switch {
	case a.kind == kindEmptySet || b.kind == kindEmptySet:
		return EmptySet()
	case a.kind == kindFullSet:
		return b
	case b.kind == kindFullSet:
		return a
	case a.kind == kindSet && b.kind == kindSet:
		ns := newDataSet()
		for _, d := range a.set.items() {
			if b.set.contains(d) {
				ns.add(d)
			}
		}
		if ns.len() == 0 {
			return EmptySet()
		}
		return ValueSet{kind: kindSet, set: ns}
	case a.kind == kindAntiSet && b.kind == kindAntiSet:
		ns := a.set.clone()
		for _, d := range b.set.items() {
			ns.add(d)
		}
		return ValueSet{kind: kindAntiSet, set: ns}
	case a.kind == kindSet && b.kind == kindAntiSet:
		ns := newDataSet()
		for _, d := range a.set.items() {
			if !b.set.contains(d) {
				ns.add(d)
			}
		}
		if ns.len() == 0 {
			return EmptySet()
		}
		return ValueSet{kind: kindSet, set: ns}
	case a.kind == kindAntiSet && b.kind == kindSet:
		return Intersect(b, a)
	default:
		return EmptySet()
	}
}

// String renders a value-set for diagnostics (verbose logging, error text).
func (v ValueSet) String() string {
	switch v.kind {
	case kindEmptySet:
		return "{}"
	case kindFullSet:
		return "_"
	case kindSet:
		if d, ok := v.IsSingleton(); ok {
			return d.String()
		}
		items := v.set.items()
		s := "{"
		for i, d := range items {
			if i > 0 {
				s += ", "
			}
			s += d.String()
		}
		return s + "}"
	case kindAntiSet:
		items := v.set.items()
		s := "!{"
		for i, d := range items {
			if i > 0 {
				s += ", "
			}
			s += d.String()
		}
		return s + "}"
	default:
		return "?"
	}
}
