package voting

import (
	"fmt"
	"math"

	"github.com/cognicore/tmt/pkg/tmt/internalerr"
)

// Value is a PyExprValue: recursively a number, string, bool, null, or list
// of the same. Go's dynamic typing already gives us the recursive union, so
// Value is plain interface{}; the helpers below enforce the closed set and
// produce Eval errors (not panics) on a type mismatch.
type Value = interface{}

// List is the concrete representation of a Value list literal or any
// function returning a sequence of values.
type List []Value

func asFloat(v Value) (float64, error) {
	switch n := v.(type) {
	case float64:
		return n, nil
	case int:
		return float64(n), nil
	case bool:
		if n {
			return 1, nil
		}
		return 0, nil
	default:
		return 0, internalerr.New(internalerr.Eval, "expected number, got %T", v)
	}
}

func asBool(v Value) (bool, error) {
	switch b := v.(type) {
	case bool:
		return b, nil
	case float64:
		return b != 0, nil
	case nil:
		return false, nil
	default:
		return false, internalerr.New(internalerr.Eval, "expected bool, got %T", v)
	}
}

func asString(v Value) (string, error) {
	s, ok := v.(string)
	if !ok {
		return "", internalerr.New(internalerr.Eval, "expected string, got %T", v)
	}
	return s, nil
}

func asList(v Value) (List, error) {
	l, ok := v.(List)
	if !ok {
		return nil, internalerr.New(internalerr.Eval, "expected list, got %T", v)
	}
	return l, nil
}

func valuesEqual(a, b Value) bool {
	af, aIsNum := numeric(a)
	bf, bIsNum := numeric(b)
	if aIsNum && bIsNum {
		return af == bf
	}
	return fmt.Sprintf("%v", a) == fmt.Sprintf("%v", b) && sameKind(a, b)
}

func sameKind(a, b Value) bool {
	switch a.(type) {
	case string:
		_, ok := b.(string)
		return ok
	case bool:
		_, ok := b.(bool)
		return ok
	case nil:
		return b == nil
	default:
		return false
	}
}

func numeric(v Value) (float64, bool) {
	switch n := v.(type) {
	case float64:
		return n, true
	case int:
		return float64(n), true
	default:
		return 0, false
	}
}

// isTruthy mirrors the engine's loose boolean coercion for ternary
// conditions and logical operators: null and zero are falsy, everything
// else (including non-empty strings/lists) is truthy.
func isTruthy(v Value) bool {
	switch x := v.(type) {
	case nil:
		return false
	case bool:
		return x
	case float64:
		return x != 0
	case string:
		return x != ""
	case List:
		return len(x) != 0
	default:
		return true
	}
}

// safeDiv applies the engine's zero-guard: division by zero yields epsilon
// rather than +/-Inf or NaN.
func safeDiv(a, b, epsilon float64) float64 {
	if b == 0 {
		return epsilon
	}
	r := a / b
	if math.IsNaN(r) || math.IsInf(r, 0) {
		return epsilon
	}
	return r
}
