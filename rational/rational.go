// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

// Package rational implements the exact scalar arithmetic used by the linopt
// engine: arbitrary-precision rationals, and rationals extended with
// infinities and a symbolic infinitesimal.
package rational

import (
	"math/big"
)

// Rational is an arbitrary-precision rational number.
//
// The zero value is 0. Methods follow the usual z.Op(x, y) convention: the
// receiver is set to the result and returned for chaining. Aliasing the
// receiver with an operand is allowed.
//
// A Rational must not be copied by plain assignment once it holds a value;
// use Set. This is the same contract as math/big.
type Rational struct {
	r big.Rat
}

// Set z = x and returns z.
func (z *Rational) Set(x *Rational) *Rational {
	z.r.Set(&x.r)
	return z
}

// SetZero z = 0
func (z *Rational) SetZero() *Rational {
	z.r.SetInt64(0)
	return z
}

// SetOne z = 1
func (z *Rational) SetOne() *Rational {
	z.r.SetInt64(1)
	return z
}

// SetInt64 z = v
func (z *Rational) SetInt64(v int64) *Rational {
	z.r.SetInt64(v)
	return z
}

// SetFrac64 z = num/den. den must be nonzero.
func (z *Rational) SetFrac64(num, den int64) *Rational {
	z.r.SetFrac64(num, den)
	return z
}

// Add z = x + y
func (z *Rational) Add(x, y *Rational) *Rational {
	z.r.Add(&x.r, &y.r)
	return z
}

// Sub z = x - y
func (z *Rational) Sub(x, y *Rational) *Rational {
	z.r.Sub(&x.r, &y.r)
	return z
}

// Mul z = x * y
func (z *Rational) Mul(x, y *Rational) *Rational {
	z.r.Mul(&x.r, &y.r)
	return z
}

// Div z = x / y. y must be nonzero.
func (z *Rational) Div(x, y *Rational) *Rational {
	z.r.Quo(&x.r, &y.r)
	return z
}

// Neg z = -x
func (z *Rational) Neg(x *Rational) *Rational {
	z.r.Neg(&x.r)
	return z
}

// Abs z = |x|
func (z *Rational) Abs(x *Rational) *Rational {
	z.r.Abs(&x.r)
	return z
}

// Inverse z = 1/x. x must be nonzero.
func (z *Rational) Inverse(x *Rational) *Rational {
	z.r.Inv(&x.r)
	return z
}

// Cmp compares z and x and returns -1, 0 or +1.
func (z *Rational) Cmp(x *Rational) int {
	return z.r.Cmp(&x.r)
}

// Equal returns z == x
func (z *Rational) Equal(x *Rational) bool {
	return z.r.Cmp(&x.r) == 0
}

// Sign returns the sign of z: -1, 0 or +1.
func (z *Rational) Sign() int {
	return z.r.Sign()
}

// IsZero returns z == 0
func (z *Rational) IsZero() bool {
	return z.r.Sign() == 0
}

// BigRat returns a copy of z as a math/big.Rat.
func (z *Rational) BigRat() *big.Rat {
	return new(big.Rat).Set(&z.r)
}

// String returns z in the form "a/b" or "a" if b == 1.
func (z *Rational) String() string {
	return z.r.RatString()
}

// MarshalBinary implements encoding.BinaryMarshaler.
func (z Rational) MarshalBinary() ([]byte, error) {
	return z.r.GobEncode()
}

// UnmarshalBinary implements encoding.BinaryUnmarshaler.
func (z *Rational) UnmarshalBinary(data []byte) error {
	return z.r.GobDecode(data)
}
