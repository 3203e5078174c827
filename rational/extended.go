// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package rational

import (
	"strings"
)

// Extended is a rational augmented with infinities and a symbolic
// infinitesimal ε: it represents r + eps·ε, +∞ or -∞, where ε is a positive
// quantity smaller than every positive rational.
//
// Extended values are immutable; unlike Rational they may be copied freely.
type Extended struct {
	r   Rational
	eps int8 // sign of the infinitesimal term: -1, 0 or +1
	inf int8 // -1, 0 or +1; when nonzero r and eps are meaningless
}

// NewExtended returns the finite value x.
func NewExtended(x *Rational) Extended {
	var e Extended
	e.r.Set(x)
	return e
}

// NewExtendedEps returns x + sign(eps)·ε.
func NewExtendedEps(x *Rational, eps int) Extended {
	var e Extended
	e.r.Set(x)
	e.eps = int8(sign(eps))
	return e
}

// Infinity returns +∞.
func Infinity() Extended {
	return Extended{inf: 1}
}

// NegInfinity returns -∞.
func NegInfinity() Extended {
	return Extended{inf: -1}
}

// IsInfinite returns true for +∞ and -∞.
func (e Extended) IsInfinite() bool {
	return e.inf != 0
}

// InfSign returns the sign of the infinite part: -1, 0 or +1.
func (e Extended) InfSign() int {
	return int(e.inf)
}

// Rat returns a copy of the rational part. It is meaningless for infinite
// values.
func (e Extended) Rat() Rational {
	var r Rational
	r.Set(&e.r)
	return r
}

// EpsSign returns the sign of the infinitesimal term: -1, 0 or +1.
func (e Extended) EpsSign() int {
	return int(e.eps)
}

// Cmp compares e and x and returns -1, 0 or +1, ordering by the infinite
// part, then the rational part, then the infinitesimal.
func (e Extended) Cmp(x Extended) int {
	if c := int(e.inf) - int(x.inf); c != 0 {
		return sign(c)
	}
	if e.inf != 0 {
		return 0
	}
	if c := e.r.Cmp(&x.r); c != 0 {
		return c
	}
	return sign(int(e.eps) - int(x.eps))
}

func (e Extended) String() string {
	switch {
	case e.inf > 0:
		return "+oo"
	case e.inf < 0:
		return "-oo"
	}
	var sbb strings.Builder
	sbb.WriteString(e.r.String())
	switch {
	case e.eps > 0:
		sbb.WriteString(" + e")
	case e.eps < 0:
		sbb.WriteString(" - e")
	}
	return sbb.String()
}

func sign(v int) int {
	switch {
	case v < 0:
		return -1
	case v > 0:
		return 1
	}
	return 0
}
