package over

import "math/big"

// unaryOp applies a prefix '+' or '-'. Only Int and Frac accept them.
func unaryOp(v Value, op rune) (Value, error) {
	switch v.Kind() {
	case KindInt:
		if op == '-' {
			return intOwned(new(big.Int).Neg(v.i)), nil
		}
		return v, nil
	case KindFrac:
		if op == '-' {
			return fracOwned(new(big.Rat).Neg(v.f)), nil
		}
		return v, nil
	}
	return Value{}, newError(ErrUnaryOperator, "could not apply unary operator %c to type %s", op, v.Type())
}

// binaryOp evaluates a op b. An Int meeting a Frac is promoted first, and
// Int / Int yields a Frac.
func binaryOp(a, b Value, op rune) (Value, error) {
	a, b = promote(a, b)

	switch op {
	case '+':
		switch {
		case a.Kind() == KindStr && b.Kind() == KindStr:
			return Str(a.s + b.s), nil
		case a.Kind() == KindArr && b.Kind() == KindArr:
			arr, err := a.arr.Concat(b.arr)
			if err != nil {
				return Value{}, binaryOpError(a, b, op)
			}
			return FromArr(arr), nil
		}
		return arith(a, b, op, (*big.Int).Add, (*big.Rat).Add)
	case '-':
		return arith(a, b, op, (*big.Int).Sub, (*big.Rat).Sub)
	case '*':
		return arith(a, b, op, (*big.Int).Mul, (*big.Rat).Mul)
	case '/':
		switch {
		case a.Kind() == KindInt && b.Kind() == KindInt:
			if b.i.Sign() == 0 {
				return Value{}, divideByZero()
			}
			return fracOwned(new(big.Rat).SetFrac(a.i, b.i)), nil
		case a.Kind() == KindFrac && b.Kind() == KindFrac:
			if b.f.Sign() == 0 {
				return Value{}, divideByZero()
			}
			return fracOwned(new(big.Rat).Quo(a.f, b.f)), nil
		}
	case '%':
		if a.Kind() == KindInt && b.Kind() == KindInt {
			if b.i.Sign() == 0 {
				return Value{}, divideByZero()
			}
			return intOwned(new(big.Int).Rem(a.i, b.i)), nil
		}
	}
	return Value{}, binaryOpError(a, b, op)
}

func arith(a, b Value, op rune,
	intFn func(z, x, y *big.Int) *big.Int,
	ratFn func(z, x, y *big.Rat) *big.Rat,
) (Value, error) {
	switch {
	case a.Kind() == KindInt && b.Kind() == KindInt:
		return intOwned(intFn(new(big.Int), a.i, b.i)), nil
	case a.Kind() == KindFrac && b.Kind() == KindFrac:
		return fracOwned(ratFn(new(big.Rat), a.f, b.f)), nil
	}
	return Value{}, binaryOpError(a, b, op)
}

// promote lifts an Int to a Frac when the other operand is a Frac.
func promote(a, b Value) (Value, Value) {
	switch {
	case a.Kind() == KindInt && b.Kind() == KindFrac:
		a = fracOwned(new(big.Rat).SetInt(a.i))
	case a.Kind() == KindFrac && b.Kind() == KindInt:
		b = fracOwned(new(big.Rat).SetInt(b.i))
	}
	return a, b
}

func binaryOpError(a, b Value, op rune) *Error {
	return newError(ErrBinaryOperator, "could not apply operator %c on types %s and %s", op, a.Type(), b.Type())
}

func divideByZero() *Error {
	return newError(ErrDivideByZero, "attempted division by zero")
}
