package dlang

// ParseProgram turns program source into a Program. dlang itself has no
// lexer/parser dependency; internal/parser registers this hook in its
// init(), the way database/sql drivers register themselves, so that dlang
// and the parser that builds its AST don't import each other. Callers of
// Engine.Input must import internal/parser (directly or blank) once,
// typically from cmd/dlang's main or a test file's imports.
var ParseProgram func(src string) (Program, error)
