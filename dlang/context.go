package dlang

// VarContext is an immutable mapping from variable name to ValueSet. It
// grows only by functional extension: Extend returns a new context, never
// mutating the receiver, so a context can be shared freely across the
// branching search the query evaluator performs.
type VarContext struct {
	bindings map[string]ValueSet
}

// NewVarContext returns the empty context.
func NewVarContext() VarContext {
	return VarContext{bindings: map[string]ValueSet{}}
}

// Get looks up a variable's current binding.
func (c VarContext) Get(name string) (ValueSet, bool) {
	v, ok := c.bindings[name]
	return v, ok
}

// Extend returns a new context with name bound to the intersection of its
// previous binding (FullSet if unbound) and v. It fails with ErrUnsatisfiable
// if that intersection is empty.
func (c VarContext) Extend(name string, v ValueSet) (VarContext, error) {
	merged := v
	if existing, ok := c.bindings[name]; ok {
		merged = Intersect(existing, v)
	}
	if merged.Kind() == kindEmptySet {
		return VarContext{}, wrapf(ErrUnsatisfiable, "extend %s with %s", name, v)
	}
	next := make(map[string]ValueSet, len(c.bindings)+1)
	for k, val := range c.bindings {
		next[k] = val
	}
	next[name] = merged
	return VarContext{bindings: next}, nil
}

// Names returns the bound variable names, used by Or to find the names a
// branch newly bound.
func (c VarContext) Names() []string {
	names := make([]string, 0, len(c.bindings))
	for k := range c.bindings {
		names = append(names, k)
	}
	return names
}

// Len reports how many variables are bound.
func (c VarContext) Len() int { return len(c.bindings) }

// Equal is structural equality between two contexts, used to collapse
// duplicate solutions produced by Or.
func (c VarContext) Equal(o VarContext) bool {
	if len(c.bindings) != len(o.bindings) {
		return false
	}
	for k, v := range c.bindings {
		ov, ok := o.bindings[k]
		if !ok || !v.SetEq(ov) {
			return false
		}
	}
	return true
}
