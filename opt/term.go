// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package opt

import (
	"strings"

	"github.com/consensys/linopt/rational"
)

// Relation relates a row to zero.
type Relation uint8

const (
	Eq Relation = iota // = 0
	Lt                 // < 0
	Le                 // <= 0
)

func (rel Relation) String() string {
	switch rel {
	case Eq:
		return " = "
	case Lt:
		return " < "
	case Le:
		return " <= "
	}
	return ""
}

// Term represents coeff * variable in a row.
type Term struct {
	VID   uint32
	Coeff rational.Rational
}

// NewTerm returns coeff·v as a Term. The coefficient is copied.
func NewTerm(coeff *rational.Rational, v uint32) Term {
	t := Term{VID: v}
	t.Coeff.Set(coeff)
	return t
}

// NewTermInt64 returns coeff·v as a Term.
func NewTermInt64(coeff int64, v uint32) Term {
	t := Term{VID: v}
	t.Coeff.SetInt64(coeff)
	return t
}

// A LinearExpression is a linear combination of Term
type LinearExpression []Term

// Clone returns a deep copy of the expression; the coefficients are copied,
// not shared.
func (l LinearExpression) Clone() LinearExpression {
	res := make(LinearExpression, len(l))
	for i := range l {
		res[i].VID = l[i].VID
		res[i].Coeff.Set(&l[i].Coeff)
	}
	return res
}

func (l LinearExpression) String() string {
	var sbb strings.Builder
	writeLinearExpression(&sbb, l)
	return sbb.String()
}
