package dlang

import "github.com/hashicorp/go-hclog"

// EngineOption configures an Engine at construction time, following the
// small functional-options pattern used by _examples/hashicorp-nomad's
// client/config constructors.
type EngineOption func(*Engine)

// WithRecursionLimit overrides the per-relation recursion depth cap.
// Defaults to DefaultRecursionLimit.
func WithRecursionLimit(n int) EngineOption {
	return func(e *Engine) { e.recursionLimit = n }
}

// WithLogger overrides the engine's structured logger. Defaults to a null
// logger; Input's verbose flag raises it to Debug for that call.
func WithLogger(l hclog.Logger) EngineOption {
	return func(e *Engine) { e.log = l }
}
