// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package opt

import (
	"github.com/bits-and-blooms/bitset"

	"github.com/consensys/linopt/internal/debug"
	"github.com/consensys/linopt/logger"
	"github.com/consensys/linopt/rational"
)

// Project eliminates the given variables from the constraint system, in
// order, preserving satisfiability under the current model.
func (m *Optimizer) Project(vs ...uint32) {
	for _, v := range vs {
		m.projectVar(v)
	}
}

// projectVar eliminates x by model-based projection.
//
// A live equality mentioning x short-circuits: x is solved out of every
// other row through it. Otherwise the live rows split into upper bounds
// (positive coefficient) and lower bounds (negative coefficient); within
// each bucket the row that is tightest under the current model is chosen,
// and the representative comes from the smaller bucket, so that only
// N-1+M resolvents are generated instead of the N·M of full
// Fourier-Motzkin:
//   - for N inequalities t <= x and M inequalities x <= s with N < M, keep
//     t <= t0 for each t other than the glb t0, and t0 <= s for each s;
//   - symmetric when N >= M.
//
// If one of the buckets is empty, x is unconstrained on that side and every
// row mentioning it is simply dropped.
func (m *Optimizer) projectVar(x uint32) {
	lubIndex, glbIndex := -1, -1
	lubStrict, glbStrict := false, false
	var lubVal, glbVal, value rational.Rational
	xVal := &m.var2value[x]
	m.lub = m.lub[:0]
	m.glb = m.glb[:0]
	visited := bitset.New(uint(len(m.rows)))
	// select the lub and glb.
	for _, rowID := range m.var2rows[x] {
		if visited.Test(uint(rowID)) {
			continue
		}
		visited.Set(uint(rowID))
		r := &m.rows[rowID]
		if !r.Alive {
			continue
		}
		a := m.coefficient(rowID, x)
		if a.IsZero() {
			continue
		}
		if r.Rel == Eq {
			m.solveFor(rowID, x)
			return
		}
		value.Div(&r.Value, &a)
		value.Sub(xVal, &value)
		if a.Sign() > 0 {
			if len(m.lub) == 0 ||
				value.Cmp(&lubVal) < 0 ||
				(value.Equal(&lubVal) && r.Rel == Lt && !lubStrict) {
				lubVal.Set(&value)
				lubIndex = int(rowID)
				lubStrict = r.Rel == Lt
			}
			m.lub = append(m.lub, rowID)
		} else {
			if len(m.glb) == 0 ||
				value.Cmp(&glbVal) > 0 ||
				(value.Equal(&glbVal) && r.Rel == Lt && !glbStrict) {
				glbVal.Set(&value)
				glbIndex = int(rowID)
				glbStrict = r.Rel == Lt
			}
			m.glb = append(m.glb, rowID)
		}
	}
	repr := glbIndex
	if len(m.lub) <= len(m.glb) {
		repr = lubIndex
	}
	m.glb = append(m.glb, m.lub...)
	if repr < 0 {
		// x is unbounded on the chosen side; every row mentioning it goes.
		for _, rowID := range m.glb {
			debug.Assert(m.rows[rowID].Alive, "dead row selected for projection")
			m.rows[rowID].Alive = false
		}
		return
	}
	l := logger.Logger()
	l.Trace().Uint32("v", x).Int("rows", len(m.glb)).Msg("project")
	coeff := m.coefficient(uint32(repr), x)
	for _, rowID := range m.glb {
		if rowID != uint32(repr) {
			m.resolve(uint32(repr), &coeff, rowID, x)
		}
	}
	m.rows[repr].Alive = false
}

// solveFor resolves x out of every other row mentioning it through the live
// equality row eq, then marks eq dead.
func (m *Optimizer) solveFor(eq, x uint32) {
	a := m.coefficient(eq, x)
	debug.Assert(!a.IsZero(), "solveFor on a row not mentioning the variable")
	debug.Assert(m.rows[eq].Rel == Eq, "solveFor on a non-equality row")
	debug.Assert(m.rows[eq].Alive, "solveFor on a dead row")
	visited := bitset.New(uint(len(m.rows)))
	visited.Set(uint(eq))
	for _, rowID := range m.var2rows[x] {
		if !visited.Test(uint(rowID)) {
			visited.Set(uint(rowID))
			m.resolve(eq, &a, rowID, x)
		}
	}
	m.rows[eq].Alive = false
}
