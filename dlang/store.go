package dlang

// Store is the relation table surface the unifier and query evaluator
// consume. The engine's own table implements it directly; Hypothetical
// statements layer a copy-on-write shadowStore over whatever Store they were
// given, leaving the base untouched.
type Store interface {
	// relation returns the relation for id, or ok=false if none has ever
	// been touched (an unknown RelId queries as empty, not an error).
	relation(id RelId) (*Relation, bool)

	// ensureRelation returns the relation for id, creating an empty one on
	// first use.
	ensureRelation(id RelId) *Relation
}

// Relation holds one relation's extensional facts and intensional rules.
type Relation struct {
	id    RelId
	facts []Truth
	rules []ConditionalTruth
}

func newRelation(id RelId) *Relation {
	return &Relation{id: id}
}

// AddFact inserts tuple as a fact, or removes any fact whose arguments equal
// tuple when negated is true. Retraction never touches rules.
func (r *Relation) AddFact(args []ValueSet, negated bool) {
	t := Truth{Rel: r.id, Args: args}
	if negated {
		out := r.facts[:0:0]
		for _, f := range r.facts {
			if !f.Equal(t) {
				out = append(out, f)
			}
		}
		r.facts = out
		return
	}
	for _, f := range r.facts {
		if f.Equal(t) {
			return
		}
	}
	r.facts = append(r.facts, t)
}

// AddRule inserts a conditional truth. Rules are set-valued: a
// structurally-identical rule added twice collapses to one.
func (r *Relation) AddRule(ct ConditionalTruth) {
	for _, existing := range r.rules {
		if existing.Equal(ct) {
			return
		}
	}
	r.rules = append(r.rules, ct)
}

// allTruths collects facts plus every rule's derivations under filter,
// mirroring original_source/src/engine/relation.rs's get_all_truths: the
// filter is threaded into each rule's deduction as a pre-unification seed,
// an optimization only; FilteredTruths re-checks every candidate regardless.
func (r *Relation) allTruths(filter []Expr, store Store, tally RecursionTally) (TruthList, error) {
	out := make([]Truth, 0, len(r.facts))
	out = append(out, r.facts...)
	comp := Completeness{}

	for _, rule := range r.rules {
		sub, ok := tally.GoDeeper(r.id)
		if !ok {
			// Recursion budget spent on this branch: stop unfolding this
			// rule silently; see DESIGN.md for why completeness is not
			// flagged here.
			continue
		}
		td, err := rule.GetDeductions(filter, store, sub)
		if err != nil {
			return TruthList{}, err
		}
		comp = comp.Merge(td.Completeness)
		out = append(out, td.Truths...)
	}
	return TruthList{Truths: out, Completeness: comp}, nil
}

// FilteredTruths returns the facts and rule-derivations of r that fit
// filter, each re-checked with fitsFilter against a fresh context.
func (r *Relation) FilteredTruths(filter []Expr, store Store, tally RecursionTally) (TruthList, error) {
	all, err := r.allTruths(filter, store, tally)
	if err != nil {
		return TruthList{}, err
	}
	out := make([]Truth, 0, len(all.Truths))
	for _, t := range all.Truths {
		_, ok, err := fitsFilter(t, filter, NewVarContext())
		if err != nil {
			return TruthList{}, err
		}
		if ok {
			out = append(out, t)
		}
	}
	return TruthList{Truths: dedupTruths(out), Completeness: all.Completeness}, nil
}

// engineStore is the base, mutable relation table owned by an Engine.
type engineStore struct {
	relations map[RelId]*Relation
}

func newEngineStore() *engineStore {
	return &engineStore{relations: map[RelId]*Relation{}}
}

func (s *engineStore) relation(id RelId) (*Relation, bool) {
	r, ok := s.relations[id]
	return r, ok
}

func (s *engineStore) ensureRelation(id RelId) *Relation {
	r, ok := s.relations[id]
	if !ok {
		r = newRelation(id)
		s.relations[id] = r
	}
	return r
}

// shadowStore is the copy-on-write overlay a Hypothetical evaluates its tail
// against: reads fall through to base except for relations this shadow has
// touched, and writes never reach base.
type shadowStore struct {
	base    Store
	overlay map[RelId]*Relation
}

func newShadowStore(base Store) *shadowStore {
	return &shadowStore{base: base, overlay: map[RelId]*Relation{}}
}

func (s *shadowStore) relation(id RelId) (*Relation, bool) {
	if r, ok := s.overlay[id]; ok {
		return r, true
	}
	return s.base.relation(id)
}

func (s *shadowStore) ensureRelation(id RelId) *Relation {
	if r, ok := s.overlay[id]; ok {
		return r
	}
	cloned := newRelation(id)
	if base, ok := s.base.relation(id); ok {
		cloned.facts = append([]Truth{}, base.facts...)
		cloned.rules = append([]ConditionalTruth{}, base.rules...)
	}
	s.overlay[id] = cloned
	return cloned
}

// applyAssumptions builds a shadow store over base holding every assumption
// true, without mutating base.
func applyAssumptions(base Store, assumptions []Assumption) (Store, error) {
	if len(assumptions) == 0 {
		return base, nil
	}
	shadow := newShadowStore(base)
	for _, a := range assumptions {
		if a.IsRule {
			shadow.ensureRelation(a.Rule.Head.Rel).AddRule(a.Rule)
			continue
		}
		args, err := literalizeGroundArgs(a.Fact.Args)
		if err != nil {
			return nil, wrapf(err, "assumption %s", a.Fact.Rel)
		}
		shadow.ensureRelation(a.Fact.Rel).AddFact(args, a.Fact.Negated)
	}
	return shadow, nil
}

func literalizeGroundArgs(args []Expr) ([]ValueSet, error) {
	out := make([]ValueSet, len(args))
	for i, a := range args {
		v, err := literalize(a, NewVarContext())
		if err != nil {
			return nil, wrapf(err, "argument %d", i)
		}
		if _, ok := v.IsSingleton(); !ok {
			return nil, wrapf(ErrNonGround, "argument %d is not ground", i)
		}
		out[i] = v
	}
	return out, nil
}
