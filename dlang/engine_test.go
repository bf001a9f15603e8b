package dlang

import (
	"testing"

	_ "github.com/jaimegonzalezfabregas/datalang/internal/parser"
	"github.com/stretchr/testify/require"
)

// End-to-end scenarios covering ground facts, wildcards, disjunction,
// bidirectional arithmetic, bounded recursion, and list destructuring.
func TestEngineInputSpecScenarios(t *testing.T) {
	testCases := []struct {
		name     string
		program  string
		expected string
	}{
		{
			name:     "ground fact and wildcard",
			program:  "rel(0,1) rel(_,_)?",
			expected: "\n(0, 1)\n",
		},
		{
			name:     "filter on first argument",
			program:  `rel("clave",1) rel("filtro",1) rel("filtro",_)?`,
			expected: "\n(\"filtro\", 1)\n",
		},
		{
			name:     "disjunctive view",
			program:  "rel(0,1) rel(2,3) test(a) :- rel(a,_) || rel(_,a) test(_)?",
			expected: "\n(0)\n(1)\n(2)\n(3)\n",
		},
		{
			name:     "bidirectional arithmetic",
			program:  "rel(0) relSuc(suc) :- rel(a) && a = suc-1 relSuc(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "bidirectional arithmetic, equation reversed",
			program:  "rel(0) relSuc(suc) :- a = suc-1 && rel(a) relSuc(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "recursion bounded by guard",
			program:  "test(a+1) :- test(a) && a < 5 test(0) test(_)?",
			expected: "\n(0)\n(1)\n(2)\n(3)\n(4)\n(5)\n",
		},
		{
			name:     "list destructuring with rest",
			program:  "rel([1,2,3]) rel([6,5,2]) rel([3,2,1]) test(a,b) :- rel([a,...b]) && a > 2 test(_,_)?",
			expected: "\n(3, [2,1])\n(6, [5,2])\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			out, err := e.Input(tc.program, false)
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

// Additional scenarios pulled from original_source/src/tests.rs, exercising
// retraction, column padding across types, And/Or combinations, and
// equation solving from either operand.
func TestEngineInputAdditionalScenarios(t *testing.T) {
	testCases := []struct {
		name     string
		program  string
		expected string
	}{
		{
			name:     "column padding across number and string",
			program:  `rel(0,1) rel("hola",1) rel(_,_)?`,
			expected: "\n(0     , 1)\n(\"hola\", 1)\n",
		},
		{
			name:     "retraction idempotence",
			program:  "rel(4,4) rel(0,1) rel(2,3) rel(2,2) !rel(2,2) rel(3,3) test(a) :- rel(a,a) test(_)?",
			expected: "\n(3)\n(4)\n",
		},
		{
			name:     "equation solved from the rhs variable",
			program:  "rel(0) relSuc(suc) :- rel(a) && a+1 = suc relSuc(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "equation with the unknown on the left",
			program:  "rel(0) relSuc(suc) :- a+1 = suc && rel(a) relSuc(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "body pattern arithmetic solved for the head variable",
			program:  "rel(0) relSuc(suc) :- rel(suc-1) relSuc(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "head expression derived from a bare body variable",
			program:  "rel(0) relSuc(a+1) :- rel(a) relSuc(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "conjunction across two relations",
			program:  "rel1(0) rel1(1) rel2(1) rel2(2) test(a) :- rel1(a) && rel2(a) test(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "conjunction with intermediate shared variables",
			program:  "rel1(0) rel1(1) rel2(1) rel2(2) test(a) :- rel1(b) && rel2(c) && b=c && a=b test(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "conjunction with equations ordered before the relations that ground them",
			program:  "rel1(0) rel1(1) rel2(1) rel2(2) test(a) :- b=c && a=b && rel1(b) && rel2(c) test(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "bare equation guard",
			program:  "test(x) :- 0 = x - 1 test(_)?",
			expected: "\n(1)\n",
		},
		{
			name:     "multiple queries in one buffer, including an empty result",
			program:  "rel(1) rel(2) rel(3) rel(4) inner(x) :- rel(x) && rel(x+1) && rel(x-1) inner(2)? inner(4)? inner(_)?",
			expected: "\n(2)\n\nEmpty Result\n\n(2)\n(3)\n",
		},
		{
			name:     "conjunction over a shared variable",
			program:  "a(0) a(1) a(2) a(3) b(0) b(2) b(4) b(6) ayb(x) :- a(x) && b(x) ayb(_)?",
			expected: "\n(0)\n(2)\n",
		},
		{
			name:     "disjunction over a shared variable",
			program:  "a(0) a(1) a(2) a(3) b(0) b(2) b(4) b(6) ayb(x) :- a(x) || b(x) ayb(_)?",
			expected: "\n(0)\n(1)\n(2)\n(3)\n(4)\n(6)\n",
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			e := NewEngine()
			out, err := e.Input(tc.program, false)
			require.NoError(t, err)
			require.Equal(t, tc.expected, out)
		})
	}
}

func TestEngineInputEmptyResult(t *testing.T) {
	e := NewEngine()
	out, err := e.Input("rel(1)? ", false)
	require.NoError(t, err)
	require.Equal(t, "\nEmpty Result\n", out)
}

func TestEngineInputUnknownRelationIsEmptyNotError(t *testing.T) {
	e := NewEngine()
	out, err := e.Input("neverAsserted(_)?", false)
	require.NoError(t, err)
	require.Equal(t, "\nEmpty Result\n", out)
}

func TestEngineInputFactOrderDoesNotAffectResult(t *testing.T) {
	a := NewEngine()
	outA, err := a.Input(`rel(1) rel(2) rel(_)?`, false)
	require.NoError(t, err)

	b := NewEngine()
	outB, err := b.Input(`rel(2) rel(1) rel(_)?`, false)
	require.NoError(t, err)

	require.Equal(t, outA, outB)
}

func TestEngineInputRecursionLimitTagsIncomplete(t *testing.T) {
	e := NewEngine(WithRecursionLimit(2))
	out, err := e.Input("test(a+1) :- test(a) && a < 5 test(0) test(_)?", false)
	require.NoError(t, err)
	require.Contains(t, out, incompleteMarker)
}

func TestEngineInputHypothetical(t *testing.T) {
	e := NewEngine()
	out, err := e.Input(`{rel(1)} => rel(_)?`, false)
	require.NoError(t, err)
	require.Equal(t, "\n(1)\n", out)

	// The base store must be untouched once the hypothetical block exits.
	out, err = e.Input("rel(_)?", false)
	require.NoError(t, err)
	require.Equal(t, "\nEmpty Result\n", out)
}

func TestEngineInputUnsafeNegationSurfacesAsError(t *testing.T) {
	e := NewEngine()
	_, err := e.Input("rel(1) test(x) :- !rel(x) test(_)?", false)
	require.Error(t, err)
	require.True(t, IsKind(err, ErrUnsafeNegation))
}

func TestEngineInputParseErrorSurfaces(t *testing.T) {
	e := NewEngine()
	_, err := e.Input("rel(1 2)?", false)
	require.Error(t, err)
}
