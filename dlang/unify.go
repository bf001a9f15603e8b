package dlang

// fitsFilter is the pattern-fitting unifier: given a ground truth and a
// pattern vector, it walks positions pairwise, extending
// ctx as it goes, and reports whether the whole tuple fits.
func fitsFilter(truth Truth, filter []Expr, ctx VarContext) (VarContext, bool, error) {
	if len(filter) != len(truth.Args) {
		return ctx, false, nil
	}
	cur := ctx
	for i, fe := range filter {
		d, ok := truth.Args[i].IsSingleton()
		if !ok {
			return ctx, false, wrapf(ErrNonGround, "truth argument %d is not ground", i)
		}
		nc, matched, err := matchOne(fe, d, cur)
		if err != nil {
			return ctx, false, err
		}
		if !matched {
			return ctx, false, nil
		}
		cur = nc
	}
	return cur, true, nil
}

// matchOne matches a single filter expression against a single concrete
// value, extending ctx on success. A bare Var matches and binds unless d
// conflicts with the variable's existing binding; a
// list pattern destructures element-by-element plus an optional RestOfList
// tail; anything else first tries plain literalize-and-contains, then falls
// back to solving it as an equation against d so that arithmetic patterns
// with one free variable (e.g. `rel(suc-1)` matched against the fact
// `rel(0)`) unify in either direction.
func matchOne(e Expr, d Data, ctx VarContext) (VarContext, bool, error) {
	switch n := e.(type) {
	case VarExpr:
		nc, err := ctx.Extend(n.Name, Singleton(d))
		if err != nil {
			return ctx, false, nil
		}
		return nc, true, nil
	case ListExpr:
		if d.Kind() != KindList {
			return ctx, false, nil
		}
		elems := d.List()
		if n.Rest == nil {
			if len(elems) != len(n.Elems) {
				return ctx, false, nil
			}
		} else if len(elems) < len(n.Elems) {
			return ctx, false, nil
		}
		cur := ctx
		for i, el := range n.Elems {
			nc, ok, err := matchOne(el, elems[i], cur)
			if err != nil {
				return ctx, false, err
			}
			if !ok {
				return ctx, false, nil
			}
			cur = nc
		}
		if n.Rest != nil {
			tail := append([]Data{}, elems[len(n.Elems):]...)
			nc, err := cur.Extend(*n.Rest, Singleton(NewList(tail)))
			if err != nil {
				return ctx, false, nil
			}
			cur = nc
		}
		return cur, true, nil
	default:
		v, err := literalize(e, ctx)
		if err == nil {
			if !v.Contains(d) {
				return ctx, false, nil
			}
			return ctx, true, nil
		}
		sols, _, ierr := solveEq(e, Lit(d), ctx)
		if ierr != nil {
			return ctx, false, ierr
		}
		if len(sols) == 0 {
			return ctx, false, nil
		}
		return sols[0], true, nil
	}
}
