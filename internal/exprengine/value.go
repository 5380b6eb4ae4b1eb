package exprengine

import (
	"math"
	"math/big"
	"strconv"

	"github.com/occa-go/okl/internal/token"
)

// Value is the result of evaluating a compile-time constant expression: a
// C-like integer (arbitrary precision, promoted/truncated per Width) or a
// floating-point value. NaN floats signal an evaluation failure (e.g.
// division by zero) without the engine ever panicking, per spec.md §4.D.
type Value struct {
	IsFloat  bool
	Int      *big.Int
	Float    float64
	Width    token.NumberWidth
	Unsigned bool
}

func IntValue(i int64) Value {
	return Value{Int: big.NewInt(i)}
}

func FloatValue(f float64) Value {
	return Value{IsFloat: true, Float: f, Width: token.WidthDouble}
}

// NaN is the sentinel returned on evaluation failures such as division by
// zero (spec.md §4.D: "returns NaN with a diagnostic but does not throw").
func NaN() Value {
	return Value{IsFloat: true, Float: math.NaN()}
}

func (v Value) IsNaN() bool { return v.IsFloat && math.IsNaN(v.Float) }

func (v Value) String() string {
	if v.IsFloat {
		if math.IsNaN(v.Float) {
			return "nan"
		}
		return strconv.FormatFloat(v.Float, 'g', -1, 64)
	}
	if v.Int == nil {
		return "0"
	}
	return v.Int.String()
}

// AsFloat returns the value widened to float64 regardless of IsFloat.
func (v Value) AsFloat() float64 {
	if v.IsFloat {
		return v.Float
	}
	if v.Int == nil {
		return 0
	}
	f, _ := new(big.Float).SetInt(v.Int).Float64()
	return f
}

// AsInt returns the value narrowed to an arbitrary-precision integer,
// truncating a float per C conversion rules.
func (v Value) AsInt() *big.Int {
	if !v.IsFloat {
		if v.Int == nil {
			return big.NewInt(0)
		}
		return v.Int
	}
	bf := big.NewFloat(v.Float)
	i, _ := bf.Int(nil)
	return i
}

// Truthy reports whether v is the C-style "true" value, used by `? :` and
// logical operators.
func (v Value) Truthy() bool {
	if v.IsFloat {
		return v.Float != 0
	}
	return v.Int != nil && v.Int.Sign() != 0
}

// widerWidth implements the "wider/signed-unsigned promotion table" of
// spec.md §4.D: float beats int; wider width wins; unsigned wins a tie.
func widerWidth(a, b Value) (width token.NumberWidth, isFloat, unsigned bool) {
	isFloat = a.IsFloat || b.IsFloat
	switch {
	case a.Width > b.Width:
		width, unsigned = a.Width, a.Unsigned
	case b.Width > a.Width:
		width, unsigned = b.Width, b.Unsigned
	default:
		width, unsigned = a.Width, a.Unsigned || b.Unsigned
	}
	return
}
