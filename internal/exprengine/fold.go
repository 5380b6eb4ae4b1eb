package exprengine

import (
	"math"
	"math/big"

	"github.com/occa-go/okl/internal/token"
)

// Evaluate computes the compile-time constant value of n, composing
// through LeftUnary, RightUnary, Binary, Ternary, Parentheses and Pair per
// spec.md §3; a Sizeof node is never evaluated. It is pure: it never mutates n (spec.md §8
// property 6) and returns NaN (never panics) on e.g. division by zero.
// The second return mirrors CanEvaluate; callers should still check it
// since some non-evaluable nodes return a zero Value rather than NaN.
func Evaluate(n Node) (Value, bool) {
	if !n.CanEvaluate() {
		return Value{}, false
	}
	switch t := n.(type) {
	case *PrimitiveNode:
		return t.Value, true
	case *ParenthesesNode:
		return Evaluate(t.Child)
	case *PairNode:
		return Evaluate(t.Child)
	case *SizeofNode:
		return Value{}, false
	case *LeftUnaryNode:
		return evalLeftUnary(t)
	case *RightUnaryNode:
		return evalUnaryPassthrough(t.Child)
	case *BinaryNode:
		return evalBinary(t)
	case *TernaryNode:
		cond, _ := Evaluate(t.Cond)
		if cond.Truthy() {
			return Evaluate(t.Then)
		}
		return Evaluate(t.Else)
	default:
		return Value{}, false
	}
}

func evalUnaryPassthrough(child Node) (Value, bool) { return Evaluate(child) }

func evalLeftUnary(n *LeftUnaryNode) (Value, bool) {
	v, ok := Evaluate(n.Child)
	if !ok {
		return Value{}, false
	}
	switch n.Op.Symbol {
	case "-":
		if v.IsFloat {
			return FloatValue(-v.Float), true
		}
		return Value{Int: new(big.Int).Neg(v.Int), Width: v.Width, Unsigned: v.Unsigned}, true
	case "+":
		return v, true
	case "!":
		if v.Truthy() {
			return IntValue(0), true
		}
		return IntValue(1), true
	case "~":
		if v.IsFloat {
			return NaN(), true
		}
		return Value{Int: new(big.Int).Not(v.Int), Width: v.Width, Unsigned: v.Unsigned}, true
	default:
		return Value{}, false
	}
}

// evalBinary implements the promotion table and the division-by-zero
// contract of spec.md §4.D.
func evalBinary(n *BinaryNode) (Value, bool) {
	l, lok := Evaluate(n.Left)
	r, rok := Evaluate(n.Right)
	if !lok || !rok {
		return Value{}, false
	}
	width, isFloat, unsigned := widerWidth(l, r)

	if isFloat {
		lf, rf := l.AsFloat(), r.AsFloat()
		switch n.Op.Symbol {
		case "+":
			return FloatValue(lf + rf), true
		case "-":
			return FloatValue(lf - rf), true
		case "*":
			return FloatValue(lf * rf), true
		case "/":
			if rf == 0 {
				return NaN(), true
			}
			return FloatValue(lf / rf), true
		case "==":
			return boolValue(lf == rf), true
		case "!=":
			return boolValue(lf != rf), true
		case "<":
			return boolValue(lf < rf), true
		case "<=":
			return boolValue(lf <= rf), true
		case ">":
			return boolValue(lf > rf), true
		case ">=":
			return boolValue(lf >= rf), true
		case "&&":
			return boolValue(l.Truthy() && r.Truthy()), true
		case "||":
			return boolValue(l.Truthy() || r.Truthy()), true
		default:
			return NaN(), true
		}
	}

	li, ri := l.AsInt(), r.AsInt()
	switch n.Op.Symbol {
	case "+":
		return intResult(new(big.Int).Add(li, ri), width, unsigned), true
	case "-":
		return intResult(new(big.Int).Sub(li, ri), width, unsigned), true
	case "*":
		return intResult(new(big.Int).Mul(li, ri), width, unsigned), true
	case "/":
		if ri.Sign() == 0 {
			return NaN(), true
		}
		return intResult(new(big.Int).Quo(li, ri), width, unsigned), true
	case "%":
		if ri.Sign() == 0 {
			return NaN(), true
		}
		return intResult(new(big.Int).Rem(li, ri), width, unsigned), true
	case "&":
		return intResult(new(big.Int).And(li, ri), width, unsigned), true
	case "|":
		return intResult(new(big.Int).Or(li, ri), width, unsigned), true
	case "^":
		return intResult(new(big.Int).Xor(li, ri), width, unsigned), true
	case "<<":
		return intResult(new(big.Int).Lsh(li, uint(ri.Int64())), width, unsigned), true
	case ">>":
		return intResult(new(big.Int).Rsh(li, uint(ri.Int64())), width, unsigned), true
	case "==":
		return boolValue(li.Cmp(ri) == 0), true
	case "!=":
		return boolValue(li.Cmp(ri) != 0), true
	case "<":
		return boolValue(li.Cmp(ri) < 0), true
	case "<=":
		return boolValue(li.Cmp(ri) <= 0), true
	case ">":
		return boolValue(li.Cmp(ri) > 0), true
	case ">=":
		return boolValue(li.Cmp(ri) >= 0), true
	case "&&":
		return boolValue(l.Truthy() && r.Truthy()), true
	case "||":
		return boolValue(l.Truthy() || r.Truthy()), true
	default:
		return Value{}, false
	}
}

func boolValue(b bool) Value {
	if b {
		return IntValue(1)
	}
	return IntValue(0)
}

// intResult tags a computed integer with its promoted width/sign; overflow
// in a 32-bit signed context (spec.md §8: `1 << 31` diagnoses while
// `1LL << 31` evaluates to 2147483648) is left for the caller to diagnose
// via Fits32, since the engine itself never throws.
func intResult(v *big.Int, width token.NumberWidth, unsigned bool) Value {
	return Value{Int: v, Width: width, Unsigned: unsigned}
}

// Fits32 reports whether v's integer value fits in a signed 32-bit int,
// used by callers that need to diagnose `1 << 31`-style overflow in a
// 32-bit signed context (spec.md §8 boundary).
func Fits32(v Value) bool {
	if v.IsFloat || v.Int == nil {
		return true
	}
	return v.Int.Cmp(big.NewInt(math.MinInt32)) >= 0 && v.Int.Cmp(big.NewInt(math.MaxInt32)) <= 0
}
