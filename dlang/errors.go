package dlang

import "github.com/pkg/errors"

// Sentinel error kinds. Every internal failure wraps one of
// these with github.com/pkg/errors so that a surfaced error carries a
// parent-failure chain back to the sentinel (errors.Cause / errors.Is both
// work against these).
var (
	ErrParse          = errors.New("parse error")
	ErrUnbound        = errors.New("unbound variable")
	ErrUnsatisfiable  = errors.New("unsatisfiable binding")
	ErrNonGround      = errors.New("expression is not ground")
	ErrUnresolvable   = errors.New("arithmetic equation is unresolvable")
	ErrTypeMismatch   = errors.New("arithmetic type mismatch")
	ErrUnsafeNegation = errors.New("negation over a non-ground subgoal")
)

// wrapf wraps a sentinel with a formatted operation description, matching
// the errors.Wrapf(err, "funcName()") convention used throughout
// _examples/aretext-aretext.
func wrapf(sentinel error, format string, args ...interface{}) error {
	return errors.Wrapf(sentinel, format, args...)
}

// IsKind reports whether err's chain bottoms out at sentinel.
func IsKind(err, sentinel error) bool {
	return errors.Is(err, sentinel)
}
