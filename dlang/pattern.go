package dlang

// RelId identifies a relation by name and arity. Two relations with the same
// name but different arity are unrelated.
type RelId struct {
	Name  string
	Arity int
}

func (id RelId) String() string { return id.Name }

// RelPattern is the "deferred relation" surface form: a relation reference
// that may carry a local negation flag and a list of assumptions to hold
// true only while the pattern itself is being resolved. Rule heads and
// queries are both RelPatterns; plain fact lines are not (see FactLine).
type RelPattern struct {
	Negated     bool
	Assumptions []Assumption
	Rel         RelId
	Args        []Expr
}

// FactLine is a ground assertion or retraction: `ident(args)` or
// `!ident(args)`. Facts never carry assumptions; every argument must
// literalize to a ground singleton under the empty context.
type FactLine struct {
	Negated bool
	Rel     RelId
	Args    []Expr
}

// Assumption is one element of a Hypothetical's assumption list: either a
// ground fact or a rule, held true only for the statement it qualifies.
type Assumption struct {
	IsRule bool
	Fact   FactLine
	Rule   ConditionalTruth
}
