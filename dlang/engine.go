package dlang

import (
	"strings"

	"github.com/hashicorp/go-hclog"
)

// Engine owns the relation table and is the sole unit of mutable state:
// every mutation passes through Input; sub-evaluators see the store by
// read-only interface.
type Engine struct {
	store          *engineStore
	recursionLimit int
	log            hclog.Logger
}

// NewEngine builds an empty engine.
func NewEngine(opts ...EngineOption) *Engine {
	e := &Engine{
		store:          newEngineStore(),
		recursionLimit: DefaultRecursionLimit,
		log:            hclog.NewNullLogger(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Input lexes, parses, and executes a program, returning the concatenation
// of each query's formatted output. verbose raises the logger to Debug for the duration of this call and logs
// each fact and rule dispatch, each query, and each query's result count and
// completeness tag, the way Nomad's scheduler logs plan decisions.
func (e *Engine) Input(program string, verbose bool) (string, error) {
	log := e.log
	if verbose {
		log = log.Named("dlang")
		prev := log.GetLevel()
		log.SetLevel(hclog.Debug)
		defer log.SetLevel(prev)
	}

	if ParseProgram == nil {
		return "", wrapf(ErrParse, "no parser registered: blank-import internal/parser")
	}
	prog, err := ParseProgram(program)
	if err != nil {
		return "", wrapf(ErrParse, "%s", err)
	}

	var out strings.Builder
	for _, line := range prog {
		switch n := line.(type) {
		case FactLine:
			if err := e.runFact(n, log); err != nil {
				return out.String(), err
			}
		case RuleLine:
			e.runRule(n, log)
		case QueryLine:
			result, err := e.runQuery(n, log)
			if err != nil {
				return out.String(), err
			}
			out.WriteString(result)
		}
	}
	return out.String(), nil
}

func (e *Engine) runFact(n FactLine, log hclog.Logger) error {
	args, err := literalizeGroundArgs(n.Args)
	if err != nil {
		return wrapf(ErrParse, "fact %s: %s", n.Rel, err)
	}
	log.Debug("assert", "rel", n.Rel.Name, "arity", n.Rel.Arity, "negated", n.Negated)
	e.store.ensureRelation(n.Rel).AddFact(args, n.Negated)
	return nil
}

func (e *Engine) runRule(n RuleLine, log hclog.Logger) {
	log.Debug("rule", "rel", n.Head.Rel.Name, "arity", n.Head.Rel.Arity)
	e.store.ensureRelation(n.Head.Rel).AddRule(ConditionalTruth{Head: n.Head, Body: n.Body})
}

func (e *Engine) runQuery(n QueryLine, log hclog.Logger) (string, error) {
	log.Debug("query", "rel", n.Rel.Rel.Name, "arity", n.Rel.Rel.Arity)

	store, err := applyAssumptions(e.store, n.Rel.Assumptions)
	if err != nil {
		return "", err
	}

	rel, ok := store.relation(n.Rel.Rel)
	if !ok {
		return formatQueryResult(TruthList{}), nil
	}

	tally := NewRecursionTally(e.recursionLimit)
	tl, err := rel.FilteredTruths(n.Rel.Args, store, tally)
	if err != nil {
		return "", err
	}
	tl.Completeness.MissingInfo = e.recursionTruncated(rel, n.Rel.Args, store, tl)

	log.Debug("query result", "count", len(tl.Truths), "missing_info", tl.Completeness.MissingInfo, "extra_info", tl.Completeness.ExtraInfo)
	return formatQueryResult(tl), nil
}

// recursionTruncated reports whether tl (computed at the engine's configured
// recursion depth) would plausibly grow with one more unit of recursion
// budget: it recomputes the same query one level shallower and compares the
// resulting truth sets. Equal sets mean the recursion already reached its
// fixpoint before the budget ran out; this is a heuristic, not a proof of
// completeness (see DESIGN.md).
func (e *Engine) recursionTruncated(rel *Relation, pattern []Expr, store Store, tl TruthList) bool {
	if e.recursionLimit < 1 {
		return false
	}
	shallower, err := rel.FilteredTruths(pattern, store, NewRecursionTally(e.recursionLimit-1))
	if err != nil {
		return false
	}
	return !truthsEqual(tl.Truths, shallower.Truths)
}

func truthsEqual(a, b []Truth) bool {
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
