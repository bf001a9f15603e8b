package dlang

// Op is a closed enumeration of the arithmetic/comparison operators an
// Arith node can carry. Per Design Notes §9, this replaces a stored function
// pointer with a tagged value a central evaluator/inverter can switch on.
type Op int

const (
	OpAdd Op = iota
	OpSub
	OpMul
	OpDiv
	OpEq
	OpLt
	OpGt
	OpLe
	OpGe
	OpNe
)

func (op Op) String() string {
	switch op {
	case OpAdd:
		return "+"
	case OpSub:
		return "-"
	case OpMul:
		return "*"
	case OpDiv:
		return "/"
	case OpEq:
		return "="
	case OpLt:
		return "<"
	case OpGt:
		return ">"
	case OpLe:
		return "<="
	case OpGe:
		return ">="
	case OpNe:
		return "!="
	default:
		return "?"
	}
}

// Expr is a term that may not yet be fully known: a concrete value-set, a
// named variable, an arithmetic combination of sub-expressions, a
// list-tail-binding pattern, or an absent argument placeholder.
type Expr interface {
	String() string
	exprNode()
}

// LiteralExpr wraps an already-known ValueSet.
type LiteralExpr struct{ Value ValueSet }

func (LiteralExpr) exprNode() {}
func (e LiteralExpr) String() string { return e.Value.String() }

// VarExpr names a variable to be looked up in a VarContext.
type VarExpr struct{ Name string }

func (VarExpr) exprNode() {}
func (e VarExpr) String() string { return e.Name }

// ArithExpr is a binary operation over two sub-expressions.
type ArithExpr struct {
	Lhs, Rhs Expr
	Op       Op
}

func (ArithExpr) exprNode() {}
func (e ArithExpr) String() string { return e.Lhs.String() + " " + e.Op.String() + " " + e.Rhs.String() }

// ListExpr is a list pattern: a fixed prefix of element expressions, plus an
// optional trailing "...name" that binds the remaining tail.
type ListExpr struct {
	Elems []Expr
	Rest  *string // nil if there is no "...name" tail
}

func (ListExpr) exprNode() {}
func (e ListExpr) String() string {
	s := "["
	for i, el := range e.Elems {
		if i > 0 {
			s += ","
		}
		s += el.String()
	}
	if e.Rest != nil {
		if len(e.Elems) > 0 {
			s += ","
		}
		s += "..." + *e.Rest
	}
	return s + "]"
}

// RestOfListExpr only has meaning as the trailing element of a ListExpr; it
// is kept as its own Expr type, but the parser only ever produces it by way
// of ListExpr.Rest.
type RestOfListExpr struct{ Name string }

func (RestOfListExpr) exprNode() {}
func (e RestOfListExpr) String() string { return "..." + e.Name }

// EmptyExpr marks an absent argument placeholder.
type EmptyExpr struct{}

func (EmptyExpr) exprNode() {}
func (EmptyExpr) String() string { return "<empty>" }

// Wildcard is the `_` pattern: a FullSet literal.
func Wildcard() Expr { return LiteralExpr{Value: FullSet()} }

// Lit is a convenience constructor for a concrete-Data literal expression.
func Lit(d Data) Expr { return LiteralExpr{Value: Singleton(d)} }

// literalize walks an expression under a context, producing the ValueSet it
// denotes, or failing if it cannot be reduced.
func literalize(e Expr, ctx VarContext) (ValueSet, error) {
	switch n := e.(type) {
	case LiteralExpr:
		return n.Value, nil
	case VarExpr:
		v, ok := ctx.Get(n.Name)
		if !ok {
			return ValueSet{}, wrapf(ErrUnbound, "variable %q", n.Name)
		}
		return v, nil
	case ArithExpr:
		return literalizeArith(n, ctx)
	case ListExpr:
		return literalizeList(n, ctx)
	case RestOfListExpr:
		return ValueSet{}, wrapf(ErrNonGround, "...%s outside of a list context", n.Name)
	case EmptyExpr:
		return ValueSet{}, wrapf(ErrNonGround, "empty argument placeholder")
	default:
		return ValueSet{}, wrapf(ErrNonGround, "unrecognized expression %T", e)
	}
}

func literalizeArith(n ArithExpr, ctx VarContext) (ValueSet, error) {
	lhs, lerr := literalize(n.Lhs, ctx)
	if lerr == nil && lhs.Kind() == kindFullSet {
		return FullSet(), nil
	}
	rhs, rerr := literalize(n.Rhs, ctx)
	if rerr == nil && rhs.Kind() == kindFullSet {
		return FullSet(), nil
	}
	if lerr != nil {
		return ValueSet{}, wrapf(lerr, "literalize lhs of %s", n.Op)
	}
	if rerr != nil {
		return ValueSet{}, wrapf(rerr, "literalize rhs of %s", n.Op)
	}
	ld, lok := lhs.IsSingleton()
	rd, rok := rhs.IsSingleton()
	if !lok || !rok {
		return ValueSet{}, wrapf(ErrNonGround, "operands of %s are not both singletons", n.Op)
	}
	result, err := applyOp(n.Op, ld, rd)
	if err != nil {
		return ValueSet{}, err
	}
	return Singleton(result), nil
}

func literalizeList(n ListExpr, ctx VarContext) (ValueSet, error) {
	elems := make([]Data, 0, len(n.Elems))
	for _, el := range n.Elems {
		v, err := literalize(el, ctx)
		if err != nil {
			return ValueSet{}, wrapf(err, "literalize list element")
		}
		d, ok := v.IsSingleton()
		if !ok {
			return ValueSet{}, wrapf(ErrNonGround, "list element is not a singleton")
		}
		elems = append(elems, d)
	}
	if n.Rest == nil {
		return Singleton(NewList(elems)), nil
	}
	tail, ok := ctx.Get(*n.Rest)
	if !ok {
		return ValueSet{}, wrapf(ErrUnbound, "list rest variable %q", *n.Rest)
	}
	tailData, ok := tail.IsSingleton()
	if !ok || tailData.Kind() != KindList {
		return ValueSet{}, wrapf(ErrNonGround, "list rest variable %q is not a ground list", *n.Rest)
	}
	return Singleton(NewList(append(append([]Data{}, elems...), tailData.List()...))), nil
}

// applyOp is the central arithmetic/comparison evaluator, total over
// compatible typed singletons.
func applyOp(op Op, a, b Data) (Data, error) {
	switch op {
	case OpAdd:
		return addData(a, b)
	case OpSub:
		return numOp(op, a, b, func(x, y float64) float64 { return x - y })
	case OpMul:
		return numOp(op, a, b, func(x, y float64) float64 { return x * y })
	case OpDiv:
		return numOp(op, a, b, func(x, y float64) float64 { return x / y })
	case OpEq:
		return boolData(a.Equal(b)), nil
	case OpNe:
		return boolData(!a.Equal(b)), nil
	case OpLt, OpGt, OpLe, OpGe:
		return compareData(op, a, b)
	default:
		return Data{}, wrapf(ErrTypeMismatch, "unsupported operator %s", op)
	}
}

func boolData(b bool) Data {
	if b {
		return NewNumber(1)
	}
	return NewNumber(0)
}

func addData(a, b Data) (Data, error) {
	if a.Kind() != b.Kind() {
		return Data{}, wrapf(ErrTypeMismatch, "cannot add %v and %v", a, b)
	}
	switch a.Kind() {
	case KindNumber:
		return NewNumber(a.Number() + b.Number()), nil
	case KindString:
		return NewString(a.Text() + b.Text()), nil
	case KindList:
		out := append(append([]Data{}, a.List()...), b.List()...)
		return NewList(out), nil
	default:
		return Data{}, wrapf(ErrTypeMismatch, "cannot add values of kind %v", a.Kind())
	}
}

func numOp(op Op, a, b Data, f func(x, y float64) float64) (Data, error) {
	if a.Kind() != KindNumber || b.Kind() != KindNumber {
		return Data{}, wrapf(ErrTypeMismatch, "%s requires numeric operands, got %v and %v", op, a, b)
	}
	return NewNumber(f(a.Number(), b.Number())), nil
}

func compareData(op Op, a, b Data) (Data, error) {
	if a.Kind() != b.Kind() {
		return Data{}, wrapf(ErrTypeMismatch, "cannot compare %v and %v", a, b)
	}
	var less, greater bool
	switch a.Kind() {
	case KindNumber:
		less, greater = a.Number() < b.Number(), a.Number() > b.Number()
	case KindString:
		less, greater = a.Text() < b.Text(), a.Text() > b.Text()
	default:
		return Data{}, wrapf(ErrTypeMismatch, "%s requires orderable operands", op)
	}
	switch op {
	case OpLt:
		return boolData(less), nil
	case OpGt:
		return boolData(greater), nil
	case OpLe:
		return boolData(less || (!less && !greater)), nil
	case OpGe:
		return boolData(greater || (!less && !greater)), nil
	default:
		return Data{}, wrapf(ErrTypeMismatch, "unsupported comparison %s", op)
	}
}
