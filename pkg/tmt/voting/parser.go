package voting

import (
	"strings"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

// parser is a small recursive-descent parser for the voting expression
// language (spec.md §4.5): atoms, arithmetic, comparisons, logical
// combination, ternary conditional, list literals, and the aggregate
// functions (sum/max/count/filter/avg/reciprocal_rank/real_reciprocal_rank).
type parser struct {
	lex  *lexer
	tok  token
	peek *token
}

func newParser(src string) (*parser, error) {
	p := &parser{lex: newLexer(src)}
	if err := p.advance(); err != nil {
		return nil, err
	}
	return p, nil
}

func (p *parser) advance() error {
	t, err := p.lex.next()
	if err != nil {
		return err
	}
	p.tok = t
	return nil
}

func (p *parser) expect(k tokenKind, what string) error {
	if p.tok.kind != k {
		return internalerr.NewAt(internalerr.Parse, Span(p.lex, p.tok.pos), "expected %s, got %q", what, p.tok.text)
	}
	return p.advance()
}

// ParseSource parses source text into a named, registered-lookup-capable
// Voting. Source may optionally begin with "<name> = " naming the voting
// being declared (the name PyVoting.register lifts); name is returned
// separately so callers can register it.
func ParseSource(src string) (name string, v Voting, err error) {
	src = strings.TrimSpace(src)
	if eq := strings.Index(src, "="); eq >= 0 && !strings.HasPrefix(src[eq+1:], "=") {
		candidate := strings.TrimSpace(src[:eq])
		if candidate != "" && isIdentifierLiteral(candidate) {
			name = candidate
			src = src[eq+1:]
		}
	}
	p, err := newParser(src)
	if err != nil {
		return "", nil, err
	}
	e, err := p.parseTernary()
	if err != nil {
		return "", nil, err
	}
	if p.tok.kind != tokEOF {
		return "", nil, internalerr.NewAt(internalerr.Parse, Span(p.lex, p.tok.pos), "unexpected trailing input %q", p.tok.text)
	}
	return name, &parsedVoting{expr: e}, nil
}

// Parse parses source into a Voting bound to registry for identifier
// fallback (spec.md's PyVoting.parse(source, registry?)). registry may be
// nil, in which case unbound identifiers fail evaluation instead of
// resolving to a named sub-voting.
func Parse(source string, registry *Registry) (Voting, error) {
	_, v, err := ParseSource(source)
	if err != nil {
		return nil, err
	}
	v.(*parsedVoting).registry = registry
	return v, nil
}

func isIdentifierLiteral(s string) bool {
	if s == "" || !isIdentStart(s[0]) {
		return false
	}
	for i := 1; i < len(s); i++ {
		if !isIdentPart(s[i]) {
			return false
		}
	}
	return true
}

// parsedVoting is a user-authored expression bound to an evalState at
// Evaluate time; used_voters is always the full input list. A `filter(...)`
// call does not narrow it, and an expression whose result is a list (such as
// a top-level `filter(...)`) fails evaluation with an Eval error.
type parsedVoting struct {
	expr         expr
	declaredName string
	registry     *Registry // set once registered, so nested identifier/registry lookups work
}

func (pv *parsedVoting) Evaluate(global *Context, voters []*Voter) (float64, []*Voter, error) {
	return pv.evaluateInflight(global, voters, map[string]bool{})
}

// evaluateInflight shares the caller's inflight set so a chain of nested
// registry lookups (A references B references A) is detected as a cycle
// instead of recursing until the stack overflows.
func (pv *parsedVoting) evaluateInflight(global *Context, voters []*Voter, inflight map[string]bool) (float64, []*Voter, error) {
	s := &evalState{global: global, voters: voters, registry: pv.registry, inflight: inflight}
	v, err := pv.expr.eval(s)
	if err != nil {
		return 0, nil, err
	}
	f, err := asFloat(v)
	if err != nil {
		return 0, nil, err
	}
	return f, voters, nil
}

func (p *parser) parseTernary() (expr, error) {
	cond, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokQuestion {
		if err := p.advance(); err != nil {
			return nil, err
		}
		then, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokColon, "':'"); err != nil {
			return nil, err
		}
		els, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		return &ternaryExpr{cond: cond, then: then, els: els}, nil
	}
	return cond, nil
}

func (p *parser) parseOr() (expr, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && p.tok.text == "||" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: "||", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAnd() (expr, error) {
	left, err := p.parseEquality()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && p.tok.text == "&&" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseEquality()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: "&&", left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseEquality() (expr, error) {
	left, err := p.parseComparison()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "==" || p.tok.text == "!=") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseComparison()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseComparison() (expr, error) {
	left, err := p.parseAdditive()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "<" || p.tok.text == "<=" || p.tok.text == ">" || p.tok.text == ">=") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseAdditive()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseAdditive() (expr, error) {
	left, err := p.parseMultiplicative()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "+" || p.tok.text == "-") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parseMultiplicative()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parseMultiplicative() (expr, error) {
	left, err := p.parsePow()
	if err != nil {
		return nil, err
	}
	for p.tok.kind == tokOp && (p.tok.text == "*" || p.tok.text == "/" || p.tok.text == "%") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePow()
		if err != nil {
			return nil, err
		}
		left = &binaryExpr{op: op, left: left, right: right}
	}
	return left, nil
}

func (p *parser) parsePow() (expr, error) {
	left, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.tok.kind == tokOp && p.tok.text == "**" {
		if err := p.advance(); err != nil {
			return nil, err
		}
		right, err := p.parsePow() // right-associative
		if err != nil {
			return nil, err
		}
		return &binaryExpr{op: "**", left: left, right: right}, nil
	}
	return left, nil
}

func (p *parser) parseUnary() (expr, error) {
	if p.tok.kind == tokOp && (p.tok.text == "-" || p.tok.text == "!") {
		op := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		operand, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &unaryExpr{op: op, operand: operand}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (expr, error) {
	switch p.tok.kind {
	case tokNumber:
		v := p.tok.num
		if err := p.advance(); err != nil {
			return nil, err
		}
		return numberLit(v), nil
	case tokString:
		v := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		return stringLit(v), nil
	case tokIdent:
		name := p.tok.text
		if err := p.advance(); err != nil {
			return nil, err
		}
		switch name {
		case "true":
			return boolLit(true), nil
		case "false":
			return boolLit(false), nil
		case "null":
			return nullLit{}, nil
		}
		if p.tok.kind == tokLParen {
			if err := p.advance(); err != nil {
				return nil, err
			}
			var args []expr
			for p.tok.kind != tokRParen {
				arg, err := p.parseTernary()
				if err != nil {
					return nil, err
				}
				args = append(args, arg)
				if p.tok.kind == tokComma {
					if err := p.advance(); err != nil {
						return nil, err
					}
					continue
				}
				break
			}
			if err := p.expect(tokRParen, "')'"); err != nil {
				return nil, err
			}
			return &callExpr{name: name, args: args}, nil
		}
		return identExpr(name), nil
	case tokLParen:
		if err := p.advance(); err != nil {
			return nil, err
		}
		e, err := p.parseTernary()
		if err != nil {
			return nil, err
		}
		if err := p.expect(tokRParen, "')'"); err != nil {
			return nil, err
		}
		return e, nil
	case tokLBracket:
		if err := p.advance(); err != nil {
			return nil, err
		}
		var items listLit
		for p.tok.kind != tokRBracket {
			item, err := p.parseTernary()
			if err != nil {
				return nil, err
			}
			items = append(items, item)
			if p.tok.kind == tokComma {
				if err := p.advance(); err != nil {
					return nil, err
				}
				continue
			}
			break
		}
		if err := p.expect(tokRBracket, "']'"); err != nil {
			return nil, err
		}
		return items, nil
	default:
		return nil, internalerr.NewAt(internalerr.Parse, Span(p.lex, p.tok.pos), "unexpected token %q", p.tok.text)
	}
}
