package dlang

// ConditionalTruth is a rule: a head pattern plus a body statement that,
// when solved, yields the contexts under which the head's arguments become a
// derived ground tuple.
type ConditionalTruth struct {
	Head RelPattern
	Body Statement
}

// Equal is a syntactic comparison used to collapse duplicate rules on
// assertion: rules are set-valued.
func (ct ConditionalTruth) Equal(o ConditionalTruth) bool {
	return ct.Head.Rel == o.Head.Rel && ct.String() == o.String()
}

func (ct ConditionalTruth) String() string {
	return relPatternString(ct.Head) + " :- " + ct.Body.String()
}

func relPatternString(p RelPattern) string {
	s := ""
	if p.Negated {
		s += "!"
	}
	s += p.Rel.Name + "("
	for i, a := range p.Args {
		if i > 0 {
			s += ","
		}
		s += a.String()
	}
	return s + ")"
}

// GetDeductions produces the ground tuples this rule derives, using filter
// only to narrow the search (results are not re-checked against filter here;
// Relation.FilteredTruths does that):
//  1. pre-unify the head's bare-variable positions against filter to seed a
//     context;
//  2. solve the body under that seed;
//  3. literalize the head under every solution, keeping only fully-ground
//     results.
func (ct ConditionalTruth) GetDeductions(filter []Expr, store Store, tally RecursionTally) (TruthList, error) {
	seed := NewVarContext()
	for i, he := range ct.Head.Args {
		v, ok := he.(VarExpr)
		if !ok || i >= len(filter) {
			continue
		}
		fv, err := literalize(filter[i], NewVarContext())
		if err != nil || fv.Kind() == kindFullSet {
			continue
		}
		ns, err := seed.Extend(v.Name, fv)
		if err != nil {
			// Caller's filter is incompatible with this rule's head shape:
			// no derivation can possibly match, not a malformed program.
			return TruthList{}, nil
		}
		seed = ns
	}

	shadowed, err := applyAssumptions(store, ct.Head.Assumptions)
	if err != nil {
		return TruthList{}, err
	}

	sols, comp, err := solveStatement(ct.Body, seed, shadowed, tally)
	if err != nil {
		return TruthList{}, err
	}

	truths := make([]Truth, 0, len(sols))
	for _, sol := range sols {
		args := make([]ValueSet, len(ct.Head.Args))
		ground := true
		for i, he := range ct.Head.Args {
			v, lerr := literalize(he, sol)
			if lerr != nil {
				ground = false
				break
			}
			d, ok := v.IsSingleton()
			if !ok {
				ground = false
				break
			}
			args[i] = Singleton(d)
		}
		if !ground {
			continue
		}
		truths = append(truths, Truth{Rel: ct.Head.Rel, Args: args})
	}
	return TruthList{Truths: truths, Completeness: comp}, nil
}
