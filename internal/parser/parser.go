// Package parser is a recursive-descent parser over internal/lexer's token
// stream, producing github.com/jaimegonzalezfabregas/datalang/dlang AST
// values. It mirrors the per-production state-machine style of
// original_source/src/parser/*.rs (one method per grammar rule) while
// following ordinary Go recursive descent rather than an explicit
// state-enum per production.
package parser

import (
	"fmt"

	"github.com/jaimegonzalezfabregas/datalang/dlang"
	"github.com/jaimegonzalezfabregas/datalang/internal/lexer"
)

func init() {
	dlang.ParseProgram = Parse
}

// Parse lexes and parses src into a Program.
func Parse(src string) (dlang.Program, error) {
	toks, err := lexer.Lex(src)
	if err != nil {
		return nil, err
	}
	p := &parser{toks: toks}
	var prog dlang.Program
	for p.cur().Kind != lexer.EOF {
		line, err := p.parseLine()
		if err != nil {
			return nil, err
		}
		prog = append(prog, line)
	}
	return prog, nil
}

type parser struct {
	toks []lexer.Token
	pos  int
}

func (p *parser) cur() lexer.Token { return p.toks[p.pos] }

func (p *parser) advance() lexer.Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) expect(k lexer.Kind, what string) (lexer.Token, error) {
	if p.cur().Kind != k {
		return lexer.Token{}, fmt.Errorf("position %d: expected %s", p.cur().Pos, what)
	}
	return p.advance(), nil
}

// parseLine parses fact | rule | query, distinguished by the token that
// follows a parsed `deferred`.
func (p *parser) parseLine() (dlang.Line, error) {
	rp, err := p.parseDeferred()
	if err != nil {
		return nil, err
	}
	switch p.cur().Kind {
	case lexer.Query:
		p.advance()
		return dlang.QueryLine{Rel: rp}, nil
	case lexer.ColonDash:
		p.advance()
		body, err := p.parseOrStmt()
		if err != nil {
			return nil, err
		}
		return dlang.RuleLine{Head: rp, Body: body}, nil
	default:
		if len(rp.Assumptions) > 0 {
			return nil, fmt.Errorf("position %d: facts cannot carry assumptions", p.cur().Pos)
		}
		return dlang.FactLine{Negated: rp.Negated, Rel: rp.Rel, Args: rp.Args}, nil
	}
}

// parseDeferred parses `[ "{" asmt ("," asmt)* "}" "=>" ] [ "!" ] ident "("
// args ")"`.
func (p *parser) parseDeferred() (dlang.RelPattern, error) {
	var assumptions []dlang.Assumption
	if p.cur().Kind == lexer.LBrace {
		p.advance()
		if p.cur().Kind != lexer.RBrace {
			for {
				a, err := p.parseAssumption()
				if err != nil {
					return dlang.RelPattern{}, err
				}
				assumptions = append(assumptions, a)
				if p.cur().Kind == lexer.Comma {
					p.advance()
					continue
				}
				break
			}
		}
		if _, err := p.expect(lexer.RBrace, "'}'"); err != nil {
			return dlang.RelPattern{}, err
		}
		if _, err := p.expect(lexer.Arrow, "'=>'"); err != nil {
			return dlang.RelPattern{}, err
		}
	}

	negated := false
	if p.cur().Kind == lexer.Bang {
		p.advance()
		negated = true
	}
	name, err := p.expect(lexer.Ident, "relation name")
	if err != nil {
		return dlang.RelPattern{}, err
	}
	if _, err := p.expect(lexer.LParen, "'('"); err != nil {
		return dlang.RelPattern{}, err
	}
	args, err := p.parseArgs()
	if err != nil {
		return dlang.RelPattern{}, err
	}
	if _, err := p.expect(lexer.RParen, "')'"); err != nil {
		return dlang.RelPattern{}, err
	}
	return dlang.RelPattern{
		Negated:     negated,
		Assumptions: assumptions,
		Rel:         dlang.RelId{Name: name.Text, Arity: len(args)},
		Args:        args,
	}, nil
}

// parseAssumption parses `asmt := fact | deferred | rule`.
func (p *parser) parseAssumption() (dlang.Assumption, error) {
	rp, err := p.parseDeferred()
	if err != nil {
		return dlang.Assumption{}, err
	}
	if p.cur().Kind == lexer.ColonDash {
		p.advance()
		body, err := p.parseOrStmt()
		if err != nil {
			return dlang.Assumption{}, err
		}
		return dlang.Assumption{IsRule: true, Rule: dlang.ConditionalTruth{Head: rp, Body: body}}, nil
	}
	if len(rp.Assumptions) > 0 {
		return dlang.Assumption{}, fmt.Errorf("position %d: nested assumption-qualified facts are not supported", p.cur().Pos)
	}
	return dlang.Assumption{Fact: dlang.FactLine{Negated: rp.Negated, Rel: rp.Rel, Args: rp.Args}}, nil
}

// parseArgs parses `expr ("," expr)*`, possibly empty.
func (p *parser) parseArgs() ([]dlang.Expr, error) {
	if p.cur().Kind == lexer.RParen {
		return nil, nil
	}
	var args []dlang.Expr
	for {
		e, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		args = append(args, e)
		if p.cur().Kind == lexer.Comma {
			p.advance()
			continue
		}
		break
	}
	return args, nil
}

// parseOrStmt/parseAndStmt/parseUnaryStmt/parseAtomStmt implement stmt's
// grammar with || binding loosest, then &&, then unary "!", then atoms.
func (p *parser) parseOrStmt() (dlang.Statement, error) {
	lhs, err := p.parseAndStmt()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.OrOr {
		p.advance()
		rhs, err := p.parseAndStmt()
		if err != nil {
			return nil, err
		}
		lhs = dlang.OrStmt{L: lhs, R: rhs}
	}
	return lhs, nil
}

func (p *parser) parseAndStmt() (dlang.Statement, error) {
	lhs, err := p.parseUnaryStmt()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.AndAnd {
		p.advance()
		rhs, err := p.parseUnaryStmt()
		if err != nil {
			return nil, err
		}
		lhs = dlang.AndStmt{L: lhs, R: rhs}
	}
	return lhs, nil
}

func (p *parser) parseUnaryStmt() (dlang.Statement, error) {
	if p.cur().Kind == lexer.Bang {
		p.advance()
		s, err := p.parseUnaryStmt()
		if err != nil {
			return nil, err
		}
		return dlang.NotStmt{S: s}, nil
	}
	return p.parseAtomStmt()
}

func (p *parser) parseAtomStmt() (dlang.Statement, error) {
	if p.cur().Kind == lexer.LParen {
		p.advance()
		s, err := p.parseOrStmt()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, "')'"); err != nil {
			return nil, err
		}
		return s, nil
	}
	if p.cur().Kind == lexer.Ident && p.toks[p.pos+1].Kind == lexer.LParen {
		name := p.advance()
		p.advance() // '('
		args, err := p.parseArgs()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RParen, "')'"); err != nil {
			return nil, err
		}
		return dlang.RelationStmt{Rel: dlang.RelId{Name: name.Text, Arity: len(args)}, Pattern: args}, nil
	}

	lhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	op, err := p.parseRelOp()
	if err != nil {
		return nil, err
	}
	rhs, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	return dlang.ArithStmt{Lhs: lhs, Rhs: rhs, Op: op}, nil
}

func (p *parser) parseRelOp() (dlang.Op, error) {
	switch p.cur().Kind {
	case lexer.Eq:
		p.advance()
		return dlang.OpEq, nil
	case lexer.Lt:
		p.advance()
		return dlang.OpLt, nil
	case lexer.Gt:
		p.advance()
		return dlang.OpGt, nil
	case lexer.Le:
		p.advance()
		return dlang.OpLe, nil
	case lexer.Ge:
		p.advance()
		return dlang.OpGe, nil
	case lexer.Ne:
		p.advance()
		return dlang.OpNe, nil
	default:
		return 0, fmt.Errorf("position %d: expected a relational operator", p.cur().Pos)
	}
}

// parseExpr/parseTerm/parseFactor implement expr's arithmetic grammar:
// "+"/"-" bind loosest, "*"/"/" tighter, left-associative.
func (p *parser) parseExpr() (dlang.Expr, error) {
	lhs, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Plus || p.cur().Kind == lexer.Minus {
		op := dlang.OpAdd
		if p.cur().Kind == lexer.Minus {
			op = dlang.OpSub
		}
		p.advance()
		rhs, err := p.parseTerm()
		if err != nil {
			return nil, err
		}
		lhs = dlang.ArithExpr{Lhs: lhs, Rhs: rhs, Op: op}
	}
	return lhs, nil
}

func (p *parser) parseTerm() (dlang.Expr, error) {
	lhs, err := p.parseFactor()
	if err != nil {
		return nil, err
	}
	for p.cur().Kind == lexer.Star || p.cur().Kind == lexer.Slash {
		op := dlang.OpMul
		if p.cur().Kind == lexer.Slash {
			op = dlang.OpDiv
		}
		p.advance()
		rhs, err := p.parseFactor()
		if err != nil {
			return nil, err
		}
		lhs = dlang.ArithExpr{Lhs: lhs, Rhs: rhs, Op: op}
	}
	return lhs, nil
}

func (p *parser) parseFactor() (dlang.Expr, error) {
	switch p.cur().Kind {
	case lexer.Number:
		t := p.advance()
		return dlang.Lit(dlang.NewNumber(t.Num)), nil
	case lexer.String:
		t := p.advance()
		return dlang.Lit(dlang.NewString(t.Text)), nil
	case lexer.Underscore:
		p.advance()
		return dlang.Wildcard(), nil
	case lexer.Ident:
		t := p.advance()
		return dlang.VarExpr{Name: t.Text}, nil
	case lexer.LBracket:
		p.advance()
		list, err := p.parseList()
		if err != nil {
			return nil, err
		}
		if _, err := p.expect(lexer.RBracket, "']'"); err != nil {
			return nil, err
		}
		return list, nil
	default:
		return nil, fmt.Errorf("position %d: expected a value", p.cur().Pos)
	}
}

// parseList parses `expr ("," expr)* [ "," "..." ident ]`, including the
// degenerate all-rest form `[...tail]`.
func (p *parser) parseList() (dlang.ListExpr, error) {
	if p.cur().Kind == lexer.Dots {
		p.advance()
		name, err := p.expect(lexer.Ident, "identifier after '...'")
		if err != nil {
			return dlang.ListExpr{}, err
		}
		n := name.Text
		return dlang.ListExpr{Rest: &n}, nil
	}
	if p.cur().Kind == lexer.RBracket {
		return dlang.ListExpr{}, nil
	}
	var elems []dlang.Expr
	var rest *string
	for {
		e, err := p.parseExpr()
		if err != nil {
			return dlang.ListExpr{}, err
		}
		elems = append(elems, e)
		if p.cur().Kind != lexer.Comma {
			break
		}
		p.advance()
		if p.cur().Kind == lexer.Dots {
			p.advance()
			name, err := p.expect(lexer.Ident, "identifier after '...'")
			if err != nil {
				return dlang.ListExpr{}, err
			}
			n := name.Text
			rest = &n
			break
		}
	}
	return dlang.ListExpr{Elems: elems, Rest: rest}, nil
}
