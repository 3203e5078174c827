// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package opt

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/consensys/linopt/internal/debug"
	"github.com/consensys/linopt/logger"
	"github.com/consensys/linopt/rational"
)

// Maximize returns the supremum of the objective over the feasible region:
// a finite rational, value - ε when the bound derives from a strict
// inequality and is not attained, or +∞ when the objective is unbounded.
// The model is updated to witness the optimum (or to approach it within ε).
//
// One variable of the objective is eliminated per iteration: the tightest
// bound row under the current model becomes the pivot, every other row
// mentioning the variable is resolved against it, the pivot is folded into
// the objective and marked dead, and (variable, pivot) is pushed on the
// bound trail. Once the objective is variable-free the trail is replayed in
// reverse to rebuild a witnessing model.
func (m *Optimizer) Maximize() rational.Extended {
	if debugChecks {
		debug.Assert(m.invariant(), "tableau invariant broken on entry to Maximize")
	}
	log := logger.Logger()
	if e := log.Trace(); e.Enabled() {
		e.Str("tableau", m.String()).Msg("maximize")
	}
	var boundTrail, boundVars []uint32
	for len(m.objective().Terms) > 0 {
		t := &m.objective().Terms[len(m.objective().Terms)-1]
		x := t.VID
		var cx rational.Rational
		cx.Set(&t.Coeff)
		pivot, pivotCoeff, ok := m.findBound(x, cx.Sign() > 0)
		if !ok {
			// unbounded in the direction of x, nothing to resolve against
			log.Debug().Uint32("v", x).Msg("objective unbounded")
			m.updateValues(boundVars, boundTrail)
			return rational.Infinity()
		}
		debug.Assert(!pivotCoeff.IsZero(), "bound row with a zero coefficient")
		for _, id := range m.above {
			m.resolve(pivot, &pivotCoeff, id, x)
		}
		for _, id := range m.below {
			m.resolve(pivot, &pivotCoeff, id, x)
		}
		// cx*x + objective <= ub and a*x + t <= 0
		// => objective - t*cx/a <= ub
		var c rational.Rational
		c.Div(&cx, &pivotCoeff)
		c.Neg(&c)
		m.mulAdd(false, objectiveID, &c, pivot)
		m.rows[pivot].Alive = false
		boundTrail = append(boundTrail, pivot)
		boundVars = append(boundVars, x)
	}

	// update the evaluation of variables to satisfy the bound.
	m.updateValues(boundVars, boundTrail)

	var value rational.Rational
	value.Set(&m.objective().Value)
	if m.objective().Rel == Lt {
		return rational.NewExtendedEps(&value, -1)
	}
	return rational.NewExtended(&value)
}

// findBound classifies the live rows mentioning x. Rows whose coefficient
// sign matches isPos, and equality rows, supply candidate bounds; the
// candidate value is the value x would take if the row were tight. The
// tightest candidate under the current model wins: least upper bound when x
// is pushed up, greatest lower bound otherwise, a strict row displacing a
// non-strict one on ties. Every non-winning candidate lands in m.above and
// every opposite-signed inequality in m.below; both must be resolved against
// the winner.
func (m *Optimizer) findBound(x uint32, isPos bool) (pivot uint32, pivotCoeff rational.Rational, ok bool) {
	var boundVal, value rational.Rational
	xVal := &m.var2value[x]
	m.above = m.above[:0]
	m.below = m.below[:0]
	visited := bitset.New(uint(len(m.rows)))
	for _, rowID := range m.var2rows[x] {
		debug.Assert(rowID != objectiveID, "objective in the row index")
		if visited.Test(uint(rowID)) {
			continue
		}
		visited.Set(uint(rowID))
		r := &m.rows[rowID]
		if !r.Alive {
			continue
		}
		a := m.coefficient(rowID, x)
		switch {
		case a.IsZero():
			// stale index entry
		case (a.Sign() > 0) == isPos || r.Rel == Eq:
			value.Div(&r.Value, &a)
			value.Sub(xVal, &value)
			if !ok {
				boundVal.Set(&value)
				pivot = rowID
				pivotCoeff.Set(&a)
				ok = true
			} else if (value.Equal(&boundVal) && r.Rel == Lt) ||
				(isPos && value.Cmp(&boundVal) < 0) ||
				(!isPos && value.Cmp(&boundVal) > 0) {
				m.above = append(m.above, pivot)
				boundVal.Set(&value)
				pivot = rowID
				pivotCoeff.Set(&a)
			} else {
				m.above = append(m.above, rowID)
			}
		default:
			m.below = append(m.below, rowID)
		}
	}
	return pivot, pivotCoeff, ok
}

// updateValues replays the bound trail in reverse and rebuilds a witnessing
// model: each trail variable is solved from its pivot row, every other
// variable of the pivot having been repaired already. A strict pivot demands
// a perturbation of ε = min(1, |old-new|/2) in the direction given by the
// sign of the variable's coefficient. The value cache of every row touching
// a trail variable is then refreshed.
func (m *Optimizer) updateValues(boundVars, boundTrail []uint32) {
	var one rational.Rational
	one.SetOne()
	for i := len(boundTrail) - 1; i >= 0; i-- {
		x := boundVars[i]
		r := &m.rows[boundTrail[i]]
		var val, xCoeff, t rational.Rational
		val.Set(&r.Constant)
		for j := range r.Terms {
			v := &r.Terms[j]
			if v.VID == x {
				xCoeff.Set(&v.Coeff)
			} else {
				t.Mul(&v.Coeff, &m.var2value[v.VID])
				val.Add(&val, &t)
			}
		}
		debug.Assert(!xCoeff.IsZero(), "trail variable missing from its pivot row")
		var newX rational.Rational
		newX.Div(&val, &xCoeff)
		newX.Neg(&newX)

		if r.Rel == Lt {
			var eps rational.Rational
			eps.Sub(&m.var2value[x], &newX)
			eps.Abs(&eps)
			eps.Mul(&eps, new(rational.Rational).SetFrac64(1, 2))
			if eps.Cmp(&one) > 0 {
				eps.SetOne()
			}
			debug.Assert(!eps.IsZero(), "strict pivot row was tight under the old model")

			//     ax + t < 0  <=>  x < -t/a   <=>  x := -t/a - ε
			//    -ax + t < 0  <=>  x > t/a    <=>  x := t/a + ε
			if xCoeff.Sign() > 0 {
				newX.Sub(&newX, &eps)
			} else {
				newX.Add(&newX, &eps)
			}
		}
		m.var2value[x].Set(&newX)
		r.Value = m.rowValue(r)
	}

	// refresh the cached value of all other affected rows.
	for i := len(boundTrail) - 1; i >= 0; i-- {
		x := boundVars[i]
		for _, rowID := range m.var2rows[x] {
			r := &m.rows[rowID]
			r.Value = m.rowValue(r)
			if debugChecks {
				debug.Assert(m.rowInvariant(rowID), "model repair broke a row invariant")
			}
		}
	}
	if debugChecks {
		debug.Assert(m.invariant(), "tableau invariant broken after model repair")
	}
}
