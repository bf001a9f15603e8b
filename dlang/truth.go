package dlang

import (
	"sort"
	"strings"
)

// Truth is a ground tuple: a relation id paired with fully-literalized
// argument values, every one of which is a singleton Set.
type Truth struct {
	Rel  RelId
	Args []ValueSet
}

// Equal is positional equality.
func (t Truth) Equal(o Truth) bool {
	if t.Rel != o.Rel || len(t.Args) != len(o.Args) {
		return false
	}
	for i := range t.Args {
		if !t.Args[i].SetEq(o.Args[i]) {
			return false
		}
	}
	return true
}

// key returns a canonical string for deduplicating truth lists.
func (t Truth) key() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Rel.Name + "/" + strings.Join(parts, ",")
}

func (t Truth) String() string {
	parts := make([]string, len(t.Args))
	for i, a := range t.Args {
		parts[i] = a.String()
	}
	return t.Rel.Name + "(" + strings.Join(parts, ", ") + ")"
}

// Completeness tags a derived result as possibly approximate: MissingInfo
// means the query's result changed between the configured recursion depth
// and one level shallower, so more tuples might exist (set by
// Engine.runQuery); ExtraInfo means an Or branch filled an unbound variable with
// FullSet, so a reported tuple may be a super-approximation.
type Completeness struct {
	MissingInfo bool
	ExtraInfo   bool
}

// Merge ORs two completeness tags together.
func (c Completeness) Merge(o Completeness) Completeness {
	return Completeness{
		MissingInfo: c.MissingInfo || o.MissingInfo,
		ExtraInfo:   c.ExtraInfo || o.ExtraInfo,
	}
}

// TruthList is a completeness-tagged collection of derived ground tuples.
type TruthList struct {
	Truths       []Truth
	Completeness Completeness
}

// dedupTruths removes structurally-equal duplicates and sorts what remains
// into a fixed row order (sortTruths), so that a relation's facts-plus-rule-
// derivations produce the same formatted output regardless of assertion or
// rule-application order: fact order never affects results.
func dedupTruths(in []Truth) []Truth {
	seen := make(map[string]bool, len(in))
	out := make([]Truth, 0, len(in))
	for _, t := range in {
		k := t.key()
		if seen[k] {
			continue
		}
		seen[k] = true
		out = append(out, t)
	}
	sortTruths(out)
	return out
}

// sortTruths orders truths positionally by their argument values (Data.Less)
// left to right, an ascending-by-first-differing-column order (e.g. "(0, 1)"
// before "(\"hola\", 1)", "(3, [2,1])" before "(6, [5,2])").
func sortTruths(ts []Truth) {
	sort.SliceStable(ts, func(i, j int) bool {
		a, b := ts[i].Args, ts[j].Args
		for k := 0; k < len(a) && k < len(b); k++ {
			da, aok := a[k].IsSingleton()
			db, bok := b[k].IsSingleton()
			if !aok || !bok {
				continue
			}
			if da.Equal(db) {
				continue
			}
			return da.Less(db)
		}
		return false
	})
}
