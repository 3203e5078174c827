// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package opt

import (
	"github.com/consensys/linopt/rational"
)

// Row is a linear constraint (Σ coeff·v) + Constant REL 0.
//
// Terms are strictly sorted by variable id and never carry a zero
// coefficient. Value caches the evaluation of the row under the current
// model. Dead rows (Alive == false) are logically removed but keep their slot
// so row ids stay stable.
type Row struct {
	Terms    LinearExpression
	Constant rational.Rational
	Rel      Relation
	Value    rational.Rational
	Alive    bool
}

func (r *Row) clone() Row {
	c := Row{
		Terms: r.Terms.Clone(),
		Rel:   r.Rel,
		Alive: r.Alive,
	}
	c.Constant.Set(&r.Constant)
	c.Value.Set(&r.Value)
	return c
}
