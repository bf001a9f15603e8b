package dlang

// solveEq implements the bidirectional equation solver: given `lhs = rhs`,
// if both sides are already ground it succeeds iff they are equal;
// otherwise it tries to invert whichever side has exactly one free
// variable, given the other side's ground value. Two free variables (or
// any inversion the arithmetic can't support) yields no solutions, not an
// error, since the caller may still bind the missing variable from a later
// conjunct. Only a type mismatch met while inverting is returned as an
// error.
//
// The third return value reports whether the equation is merely deferred
// (neither side could yet be reduced for lack of bindings, so a sibling
// conjunct solved first might still ground it) as opposed to definitively
// false (both sides already ground and unequal). solveAndConjuncts uses this
// to retry a conjunct after its neighbors instead of a fixed left-to-right
// pass, which is what makes `a = suc-1 && rel(a)` and `rel(a) && a = suc-1`
// equivalent regardless of which conjunct grounds which variable.
func solveEq(lhs, rhs Expr, ctx VarContext) (sols []VarContext, deferred bool, err error) {
	lv, lerr := literalize(lhs, ctx)
	rv, rerr := literalize(rhs, ctx)

	if lerr == nil && rerr == nil {
		ld, lok := lv.IsSingleton()
		rd, rok := rv.IsSingleton()
		if lok && rok {
			if ld.Equal(rd) {
				return []VarContext{ctx}, false, nil
			}
			return nil, false, nil
		}
	}

	if rerr == nil {
		if rd, ok := rv.IsSingleton(); ok {
			name, val, ierr := invert(lhs, ctx, rd)
			if ierr != nil {
				if IsKind(ierr, ErrTypeMismatch) {
					return nil, false, ierr
				}
			} else {
				nc, cerr := ctx.Extend(name, Singleton(val))
				if cerr != nil {
					return nil, false, nil
				}
				return []VarContext{nc}, false, nil
			}
		}
	}

	if lerr == nil {
		if ld, ok := lv.IsSingleton(); ok {
			name, val, ierr := invert(rhs, ctx, ld)
			if ierr != nil {
				if IsKind(ierr, ErrTypeMismatch) {
					return nil, false, ierr
				}
			} else {
				nc, cerr := ctx.Extend(name, Singleton(val))
				if cerr != nil {
					return nil, false, nil
				}
				return []VarContext{nc}, false, nil
			}
		}
	}

	// Neither side reduced to a singleton or an invertible shape: this
	// equation needs more bindings than are currently available, not a
	// contradiction.
	return nil, true, nil
}

// invert solves `e == target` for e's single free variable, recursing
// through nested arithmetic. Supported inversions: addition/subtraction, and
// multiplication/division by a known non-zero operand.
func invert(e Expr, ctx VarContext, target Data) (string, Data, error) {
	switch n := e.(type) {
	case VarExpr:
		if _, bound := ctx.Get(n.Name); bound {
			return "", Data{}, wrapf(ErrUnresolvable, "variable %q already bound", n.Name)
		}
		return n.Name, target, nil
	case ArithExpr:
		lv, lerr := literalize(n.Lhs, ctx)
		if lerr == nil {
			ld, ok := lv.IsSingleton()
			if !ok {
				return "", Data{}, wrapf(ErrUnresolvable, "lhs of %s is not ground", n.Op)
			}
			nextTarget, err := invertRhs(n.Op, ld, target)
			if err != nil {
				return "", Data{}, err
			}
			return invert(n.Rhs, ctx, nextTarget)
		}
		rv, rerr := literalize(n.Rhs, ctx)
		if rerr == nil {
			rd, ok := rv.IsSingleton()
			if !ok {
				return "", Data{}, wrapf(ErrUnresolvable, "rhs of %s is not ground", n.Op)
			}
			nextTarget, err := invertLhs(n.Op, rd, target)
			if err != nil {
				return "", Data{}, err
			}
			return invert(n.Lhs, ctx, nextTarget)
		}
		return "", Data{}, wrapf(ErrUnresolvable, "both operands of %s are unbound", n.Op)
	default:
		return "", Data{}, wrapf(ErrUnresolvable, "cannot invert %T", e)
	}
}

// invertRhs solves `l OP x = target` for x.
func invertRhs(op Op, l, target Data) (Data, error) {
	switch op {
	case OpAdd:
		return subData(target, l)
	case OpSub:
		return subData(l, target)
	case OpMul:
		return divNonZero(target, l)
	case OpDiv:
		if l.Kind() == KindNumber && l.Number() == 0 {
			return Data{}, wrapf(ErrUnresolvable, "cannot invert division with a zero operand")
		}
		return divNonZero(l, target)
	default:
		return Data{}, wrapf(ErrUnresolvable, "%s is not invertible", op)
	}
}

// invertLhs solves `x OP r = target` for x.
func invertLhs(op Op, r, target Data) (Data, error) {
	switch op {
	case OpAdd:
		return subData(target, r)
	case OpSub:
		return addNum(target, r)
	case OpMul:
		return divNonZero(target, r)
	case OpDiv:
		if r.Kind() == KindNumber && r.Number() == 0 {
			return Data{}, wrapf(ErrUnresolvable, "division by zero while inverting")
		}
		return mulNum(target, r)
	default:
		return Data{}, wrapf(ErrUnresolvable, "%s is not invertible", op)
	}
}

func subData(a, b Data) (Data, error) {
	if a.Kind() != KindNumber || b.Kind() != KindNumber {
		return Data{}, wrapf(ErrTypeMismatch, "equation inversion requires numeric operands")
	}
	return NewNumber(a.Number() - b.Number()), nil
}

func addNum(a, b Data) (Data, error) {
	if a.Kind() != KindNumber || b.Kind() != KindNumber {
		return Data{}, wrapf(ErrTypeMismatch, "equation inversion requires numeric operands")
	}
	return NewNumber(a.Number() + b.Number()), nil
}

func mulNum(a, b Data) (Data, error) {
	if a.Kind() != KindNumber || b.Kind() != KindNumber {
		return Data{}, wrapf(ErrTypeMismatch, "equation inversion requires numeric operands")
	}
	return NewNumber(a.Number() * b.Number()), nil
}

func divNonZero(a, b Data) (Data, error) {
	if a.Kind() != KindNumber || b.Kind() != KindNumber {
		return Data{}, wrapf(ErrTypeMismatch, "equation inversion requires numeric operands")
	}
	if b.Number() == 0 {
		return Data{}, wrapf(ErrUnresolvable, "division by zero while inverting")
	}
	return NewNumber(a.Number() / b.Number()), nil
}
