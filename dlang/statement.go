package dlang

// Statement is a boolean formula over atomic subgoals: the body of a rule,
// or (via Hypothetical) a query guard.
type Statement interface {
	String() string
	stmtNode()
}

type EmptyStmt struct{}

func (EmptyStmt) stmtNode()     {}
func (EmptyStmt) String() string { return "" }

type AndStmt struct{ L, R Statement }

func (AndStmt) stmtNode() {}
func (s AndStmt) String() string { return "(" + s.L.String() + " && " + s.R.String() + ")" }

type OrStmt struct{ L, R Statement }

func (OrStmt) stmtNode() {}
func (s OrStmt) String() string { return "(" + s.L.String() + " || " + s.R.String() + ")" }

type NotStmt struct{ S Statement }

func (NotStmt) stmtNode() {}
func (s NotStmt) String() string { return "!" + s.S.String() }

// ArithStmt is an equation (Op == OpEq) or a comparison guard.
type ArithStmt struct {
	Lhs, Rhs Expr
	Op       Op
}

func (ArithStmt) stmtNode() {}
func (s ArithStmt) String() string { return s.Lhs.String() + " " + s.Op.String() + " " + s.Rhs.String() }

// RelationStmt is a subgoal referencing another (or the same) relation.
type RelationStmt struct {
	Rel     RelId
	Pattern []Expr
}

func (RelationStmt) stmtNode() {}
func (s RelationStmt) String() string {
	str := s.Rel.Name + "("
	for i, a := range s.Pattern {
		if i > 0 {
			str += ","
		}
		str += a.String()
	}
	return str + ")"
}

// HypotheticalStmt assumes a list of facts/rules locally, then evaluates
// Tail against the resulting shadow store.
type HypotheticalStmt struct {
	Assumptions []Assumption
	Tail        Statement
}

func (HypotheticalStmt) stmtNode() {}
func (s HypotheticalStmt) String() string { return "{...} => " + s.Tail.String() }

// solveStatement is the structural recursion over a rule body. It returns
// every context under which s holds, starting from ctx, plus a merged
// completeness tag. Per-solution failures (unbound variables, unresolvable
// arithmetic, empty relation lookups) are pruned silently: they simply
// contribute no solutions. Only Parse-adjacent malformed-program errors
// (UnsafeNegation, a genuine TypeMismatch on operands that were supposed to
// be ground) propagate.
func solveStatement(s Statement, ctx VarContext, store Store, tally RecursionTally) ([]VarContext, Completeness, error) {
	switch n := s.(type) {
	case EmptyStmt:
		return []VarContext{ctx}, Completeness{}, nil

	case AndStmt:
		return solveAndConjuncts(flattenAnd(n), ctx, store, tally)

	case OrStmt:
		return solveOr(n, ctx, store, tally)

	case NotStmt:
		return solveNot(n, ctx, store, tally)

	case ArithStmt:
		return solveArithStmt(n, ctx)

	case RelationStmt:
		return solveRelation(n, ctx, store, tally)

	case HypotheticalStmt:
		shadow, err := applyAssumptions(store, n.Assumptions)
		if err != nil {
			return nil, Completeness{}, err
		}
		return solveStatement(n.Tail, ctx, shadow, tally)

	default:
		return nil, Completeness{}, wrapf(ErrParse, "unrecognized statement %T", s)
	}
}

// flattenAnd unrolls a left- or right-nested chain of AndStmt nodes into its
// ordered leaf conjuncts, preserving source order. Non-And children (an Or,
// a Not, a single arithmetic/relation leaf, a Hypothetical) are kept opaque;
// only the And spine itself is unrolled.
func flattenAnd(n AndStmt) []Statement {
	var out []Statement
	var walk func(Statement)
	walk = func(s Statement) {
		if a, ok := s.(AndStmt); ok {
			walk(a.L)
			walk(a.R)
			return
		}
		out = append(out, s)
	}
	walk(n)
	return out
}

// solveAndConjuncts solves a flattened And chain by picking, at each step,
// the first conjunct (in source order) that can be definitively evaluated
// under the context accumulated so far, rather than strictly the first
// conjunct in the list. A conjunct can report itself "deferred" (needs more
// bindings than are currently available, not yet false) via solveConjunct;
// deferred conjuncts are skipped and retried after their neighbors have had
// a chance to bind shared variables. This is what makes `a = suc-1 &&
// rel(a)` produce the same bindings as `rel(a) && a = suc-1`, even though
// bindings otherwise flow strictly left-to-right.
func solveAndConjuncts(conjuncts []Statement, ctx VarContext, store Store, tally RecursionTally) ([]VarContext, Completeness, error) {
	if len(conjuncts) == 0 {
		return []VarContext{ctx}, Completeness{}, nil
	}
	for i, stmt := range conjuncts {
		sols, comp, deferred, err := solveConjunct(stmt, ctx, store, tally)
		if err != nil {
			return nil, Completeness{}, err
		}
		if deferred {
			continue
		}
		rest := make([]Statement, 0, len(conjuncts)-1)
		rest = append(rest, conjuncts[:i]...)
		rest = append(rest, conjuncts[i+1:]...)
		var out []VarContext
		for _, sol := range sols {
			rsols, rc, rerr := solveAndConjuncts(rest, sol, store, tally)
			if rerr != nil {
				return nil, Completeness{}, rerr
			}
			comp = comp.Merge(rc)
			out = append(out, rsols...)
		}
		return out, comp, nil
	}
	// Every remaining conjunct is mutually stuck waiting on the others: no
	// amount of reordering resolves it, so this branch contributes nothing.
	return nil, Completeness{}, nil
}

// solveConjunct evaluates a single And-chain member, reporting whether it is
// merely deferred (needs bindings a sibling conjunct hasn't produced yet)
// rather than solved or definitively false. Only ArithStmt can be deferred;
// every other statement kind either succeeds, fails, or errors immediately.
func solveConjunct(stmt Statement, ctx VarContext, store Store, tally RecursionTally) (sols []VarContext, comp Completeness, deferred bool, err error) {
	arith, ok := stmt.(ArithStmt)
	if !ok {
		sols, comp, err = solveStatement(stmt, ctx, store, tally)
		return sols, comp, false, err
	}
	if arith.Op == OpEq {
		sols, deferred, err = solveEq(arith.Lhs, arith.Rhs, ctx)
		return sols, Completeness{}, deferred, err
	}

	lv, lerr := literalize(arith.Lhs, ctx)
	rv, rerr := literalize(arith.Rhs, ctx)
	if lerr != nil || rerr != nil {
		if isMissingInfo(lerr) && isMissingInfo(rerr) {
			return nil, Completeness{}, true, nil
		}
		if IsKind(lerr, ErrTypeMismatch) {
			return nil, Completeness{}, false, lerr
		}
		if IsKind(rerr, ErrTypeMismatch) {
			return nil, Completeness{}, false, rerr
		}
		if lerr != nil && !isMissingInfo(lerr) {
			return nil, Completeness{}, false, nil
		}
		if rerr != nil && !isMissingInfo(rerr) {
			return nil, Completeness{}, false, nil
		}
		return nil, Completeness{}, true, nil
	}
	ld, lok := lv.IsSingleton()
	rd, rok := rv.IsSingleton()
	if !lok || !rok {
		return nil, Completeness{}, true, nil
	}
	result, aerr := applyOp(arith.Op, ld, rd)
	if aerr != nil {
		if IsKind(aerr, ErrTypeMismatch) {
			return nil, Completeness{}, false, aerr
		}
		return nil, Completeness{}, false, nil
	}
	if result.Number() != 0 {
		return []VarContext{ctx}, Completeness{}, false, nil
	}
	return nil, Completeness{}, false, nil
}

// isMissingInfo reports whether err reflects a lack of bindings (Unbound or
// NonGround) rather than a malformed program (TypeMismatch) or nil.
func isMissingInfo(err error) bool {
	return err != nil && (IsKind(err, ErrUnbound) || IsKind(err, ErrNonGround))
}

func solveOr(n OrStmt, ctx VarContext, store Store, tally RecursionTally) ([]VarContext, Completeness, error) {
	lsols, lc, err := solveStatement(n.L, ctx, store, tally)
	if err != nil {
		return nil, Completeness{}, err
	}
	rsols, rc, err := solveStatement(n.R, ctx, store, tally)
	if err != nil {
		return nil, Completeness{}, err
	}
	comp := lc.Merge(rc)

	// Names newly bound by either branch beyond what ctx already carried;
	// a branch that left one of these unbound gets it filled with FullSet,
	// and the result is tagged ExtraInfo since the fill-in is a
	// super-approximation.
	newNames := map[string]bool{}
	for _, sol := range append(append([]VarContext{}, lsols...), rsols...) {
		for _, name := range sol.Names() {
			if _, already := ctx.Get(name); !already {
				newNames[name] = true
			}
		}
	}

	fill := func(sols []VarContext) []VarContext {
		out := make([]VarContext, 0, len(sols))
		for _, sol := range sols {
			filled := sol
			extraInfo := false
			for name := range newNames {
				if _, ok := filled.Get(name); !ok {
					nc, err := filled.Extend(name, FullSet())
					if err != nil {
						continue
					}
					filled = nc
					extraInfo = true
				}
			}
			if extraInfo {
				comp.ExtraInfo = true
			}
			out = append(out, filled)
		}
		return out
	}

	all := append(fill(lsols), fill(rsols)...)
	return dedupContexts(all), comp, nil
}

func dedupContexts(in []VarContext) []VarContext {
	out := make([]VarContext, 0, len(in))
	for _, c := range in {
		dup := false
		for _, seen := range out {
			if c.Equal(seen) {
				dup = true
				break
			}
		}
		if !dup {
			out = append(out, c)
		}
	}
	return out
}

func solveNot(n NotStmt, ctx VarContext, store Store, tally RecursionTally) ([]VarContext, Completeness, error) {
	for _, name := range freeVars(n.S) {
		if _, ok := ctx.Get(name); !ok {
			return nil, Completeness{}, wrapf(ErrUnsafeNegation, "variable %q is unbound under negation", name)
		}
	}
	sols, comp, err := solveStatement(n.S, ctx, store, tally)
	if err != nil {
		return nil, Completeness{}, err
	}
	if len(sols) == 0 {
		return []VarContext{ctx}, comp, nil
	}
	return nil, comp, nil
}

func solveArithStmt(n ArithStmt, ctx VarContext) ([]VarContext, Completeness, error) {
	if n.Op == OpEq {
		sols, _, err := solveEq(n.Lhs, n.Rhs, ctx)
		if err != nil {
			return nil, Completeness{}, err
		}
		return sols, Completeness{}, nil
	}

	lv, lerr := literalize(n.Lhs, ctx)
	rv, rerr := literalize(n.Rhs, ctx)
	if lerr != nil || rerr != nil {
		return nil, Completeness{}, nil
	}
	ld, lok := lv.IsSingleton()
	rd, rok := rv.IsSingleton()
	if !lok || !rok {
		return nil, Completeness{}, nil
	}
	result, err := applyOp(n.Op, ld, rd)
	if err != nil {
		if IsKind(err, ErrTypeMismatch) {
			return nil, Completeness{}, err
		}
		return nil, Completeness{}, nil
	}
	if result.Number() != 0 {
		return []VarContext{ctx}, Completeness{}, nil
	}
	return nil, Completeness{}, nil
}

func solveRelation(n RelationStmt, ctx VarContext, store Store, tally RecursionTally) ([]VarContext, Completeness, error) {
	rel, ok := store.relation(n.Rel)
	if !ok {
		return nil, Completeness{}, nil
	}
	tl, err := rel.FilteredTruths(n.Pattern, store, tally)
	if err != nil {
		return nil, Completeness{}, err
	}
	var sols []VarContext
	for _, t := range tl.Truths {
		nc, ok, err := fitsFilter(t, n.Pattern, ctx)
		if err != nil {
			return nil, Completeness{}, err
		}
		if ok {
			sols = append(sols, nc)
		}
	}
	return sols, tl.Completeness, nil
}

// freeVars collects the variable names referenced by a statement's
// Relation/Arithmetic leaves, recursing through the boolean connectives and
// Hypothetical's tail. Used by solveNot's negation safety check.
func freeVars(s Statement) []string {
	seen := map[string]bool{}
	var walkExpr func(Expr)
	walkExpr = func(e Expr) {
		switch n := e.(type) {
		case VarExpr:
			seen[n.Name] = true
		case ArithExpr:
			walkExpr(n.Lhs)
			walkExpr(n.Rhs)
		case ListExpr:
			for _, el := range n.Elems {
				walkExpr(el)
			}
			if n.Rest != nil {
				seen[*n.Rest] = true
			}
		}
	}
	var walk func(Statement)
	walk = func(s Statement) {
		switch n := s.(type) {
		case AndStmt:
			walk(n.L)
			walk(n.R)
		case OrStmt:
			walk(n.L)
			walk(n.R)
		case NotStmt:
			walk(n.S)
		case ArithStmt:
			walkExpr(n.Lhs)
			walkExpr(n.Rhs)
		case RelationStmt:
			for _, a := range n.Pattern {
				walkExpr(a)
			}
		case HypotheticalStmt:
			walk(n.Tail)
		}
	}
	walk(s)
	names := make([]string, 0, len(seen))
	for n := range seen {
		names = append(names, n)
	}
	return names
}
