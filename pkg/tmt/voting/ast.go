package voting

import (
	"math"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

// evalState is the scope an AST node evaluates against: the shared global
// context, the full voter list (for aggregate calls), a registry for
// identifier fallback (§4.5's "identifiers not bound in the context are
// resolved against the registry"), and — inside an aggregate call's
// per-voter iteration — the current voter's context.
type evalState struct {
	global   *Context
	voters   []*Voter
	registry *Registry
	current  *Context // nil outside a per-voter iteration
	inflight map[string]bool
}

func (s *evalState) lookup(name string) (Value, error) {
	if s.current != nil && s.current.Has(name) {
		return s.current.Get(name)
	}
	if s.global.Has(name) {
		return s.global.Get(name)
	}
	if s.registry != nil {
		if v, ok := s.registry.getParsed(name); ok {
			if s.inflight[name] {
				return nil, internalerr.New(internalerr.Parse, "cyclic voting reference: %s", name)
			}
			s.inflight[name] = true
			defer delete(s.inflight, name)
			var score float64
			var err error
			if pv, ok := v.(*parsedVoting); ok {
				score, _, err = pv.evaluateInflight(s.global, s.voters, s.inflight)
			} else {
				score, _, err = v.Evaluate(s.global, s.voters)
			}
			if err != nil {
				return nil, err
			}
			return score, nil
		}
	}
	return nil, internalerr.New(internalerr.Eval, "undefined identifier %q", name)
}

// expr is a parsed voting-expression AST node.
type expr interface {
	eval(s *evalState) (Value, error)
}

type numberLit float64

func (n numberLit) eval(*evalState) (Value, error) { return float64(n), nil }

type stringLit string

func (v stringLit) eval(*evalState) (Value, error) { return string(v), nil }

type boolLit bool

func (b boolLit) eval(*evalState) (Value, error) { return bool(b), nil }

type nullLit struct{}

func (nullLit) eval(*evalState) (Value, error) { return nil, nil }

type listLit []expr

func (l listLit) eval(s *evalState) (Value, error) {
	out := make(List, len(l))
	for i, e := range l {
		v, err := e.eval(s)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}

type identExpr string

func (id identExpr) eval(s *evalState) (Value, error) { return s.lookup(string(id)) }

type unaryExpr struct {
	op      string
	operand expr
}

func (u *unaryExpr) eval(s *evalState) (Value, error) {
	v, err := u.operand.eval(s)
	if err != nil {
		return nil, err
	}
	switch u.op {
	case "-":
		f, err := asFloat(v)
		if err != nil {
			return nil, err
		}
		return -f, nil
	case "!":
		return !isTruthy(v), nil
	default:
		return nil, internalerr.New(internalerr.Eval, "unknown unary operator %q", u.op)
	}
}

type binaryExpr struct {
	op          string
	left, right expr
}

func (b *binaryExpr) eval(s *evalState) (Value, error) {
	if b.op == "&&" {
		l, err := b.left.eval(s)
		if err != nil {
			return nil, err
		}
		if !isTruthy(l) {
			return false, nil
		}
		r, err := b.right.eval(s)
		if err != nil {
			return nil, err
		}
		return isTruthy(r), nil
	}
	if b.op == "||" {
		l, err := b.left.eval(s)
		if err != nil {
			return nil, err
		}
		if isTruthy(l) {
			return true, nil
		}
		r, err := b.right.eval(s)
		if err != nil {
			return nil, err
		}
		return isTruthy(r), nil
	}

	lv, err := b.left.eval(s)
	if err != nil {
		return nil, err
	}
	rv, err := b.right.eval(s)
	if err != nil {
		return nil, err
	}

	switch b.op {
	case "==":
		return valuesEqual(lv, rv), nil
	case "!=":
		return !valuesEqual(lv, rv), nil
	}

	lf, lerr := asFloat(lv)
	rf, rerr := asFloat(rv)
	switch b.op {
	case "+":
		if ls, ok := lv.(string); ok {
			rs, ok2 := rv.(string)
			if !ok2 {
				return nil, internalerr.New(internalerr.Eval, "cannot add string and %T", rv)
			}
			return ls + rs, nil
		}
		if lerr != nil {
			return nil, lerr
		}
		if rerr != nil {
			return nil, rerr
		}
		return lf + rf, nil
	}
	if lerr != nil {
		return nil, lerr
	}
	if rerr != nil {
		return nil, rerr
	}
	eps := epsilonOf(s.global)
	switch b.op {
	case "-":
		return lf - rf, nil
	case "*":
		return lf * rf, nil
	case "/":
		return safeDiv(lf, rf, eps), nil
	case "%":
		if rf == 0 {
			return eps, nil
		}
		return math.Mod(lf, rf), nil
	case "**":
		return math.Pow(lf, rf), nil
	case "<":
		return lf < rf, nil
	case "<=":
		return lf <= rf, nil
	case ">":
		return lf > rf, nil
	case ">=":
		return lf >= rf, nil
	default:
		return nil, internalerr.New(internalerr.Eval, "unknown binary operator %q", b.op)
	}
}

type ternaryExpr struct {
	cond, then, els expr
}

func (t *ternaryExpr) eval(s *evalState) (Value, error) {
	c, err := t.cond.eval(s)
	if err != nil {
		return nil, err
	}
	if isTruthy(c) {
		return t.then.eval(s)
	}
	return t.els.eval(s)
}

type callExpr struct {
	name string
	args []expr
}

func (c *callExpr) eval(s *evalState) (Value, error) {
	switch c.name {
	case "sum", "max", "count", "filter", "avg":
		if len(c.args) != 1 {
			return nil, internalerr.New(internalerr.Eval, "%s() takes exactly one argument", c.name)
		}
		return evalAggregate(c.name, c.args[0], s)
	case "reciprocal_rank":
		return evalAggregate("sum", identExpr(VarReciprocalRank), s)
	case "real_reciprocal_rank":
		return evalAggregate("sum", identExpr(VarRealReciprocalRank), s)
	default:
		return nil, internalerr.New(internalerr.Eval, "unknown function %q", c.name)
	}
}

func evalAggregate(kind string, arg expr, s *evalState) (Value, error) {
	switch kind {
	case "sum", "avg":
		total := 0.0
		for _, v := range s.voters {
			sub := *s
			sub.current = v.Ctx
			val, err := arg.eval(&sub)
			if err != nil {
				return nil, err
			}
			f, err := asFloat(val)
			if err != nil {
				return nil, err
			}
			total += f
		}
		if kind == "avg" {
			if len(s.voters) == 0 {
				return 0.0, nil
			}
			return total / float64(len(s.voters)), nil
		}
		return total, nil
	case "max":
		best := 0.0
		for i, v := range s.voters {
			sub := *s
			sub.current = v.Ctx
			val, err := arg.eval(&sub)
			if err != nil {
				return nil, err
			}
			f, err := asFloat(val)
			if err != nil {
				return nil, err
			}
			if i == 0 || f > best {
				best = f
			}
		}
		return best, nil
	case "count":
		n := 0.0
		for _, v := range s.voters {
			sub := *s
			sub.current = v.Ctx
			val, err := arg.eval(&sub)
			if err != nil {
				return nil, err
			}
			if isTruthy(val) {
				n++
			}
		}
		return n, nil
	case "filter":
		var kept List
		for _, v := range s.voters {
			sub := *s
			sub.current = v.Ctx
			val, err := arg.eval(&sub)
			if err != nil {
				return nil, err
			}
			if isTruthy(val) {
				kept = append(kept, float64(v.ID))
			}
		}
		return kept, nil
	default:
		return nil, internalerr.New(internalerr.Eval, "unknown aggregate %q", kind)
	}
}
