// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package opt

import (
	"github.com/bits-and-blooms/bitset"
	"golang.org/x/exp/slices"

	"github.com/consensys/linopt/internal/debug"
	"github.com/consensys/linopt/rational"
)

// objectiveID is the reserved id of the row holding the objective.
const objectiveID uint32 = 0

// Optimizer is a tableau of constraint rows over rational variables,
// together with a model satisfying every live row.
//
// An Optimizer is single-threaded and non-reentrant; callers that need
// parallelism replicate the state with Clone.
type Optimizer struct {
	rows []Row

	// model: current value of each variable, indexed by variable id.
	var2value []rational.Rational

	// var2rows[v] lists the rows mentioning v. Entries are appended, never
	// removed: an id is authoritative only if the row still carries a
	// nonzero coefficient on v; stale entries are skipped at read time.
	var2rows [][]uint32

	// scratch buffers, reused across calls.
	above, below []uint32
	lub, glb     []uint32
	newTerms     LinearExpression
}

// New returns an empty Optimizer. Row 0 is reserved for the objective,
// initially the trivially true constraint 0 <= 0.
func New() *Optimizer {
	m := &Optimizer{}
	m.rows = append(m.rows, Row{Rel: Le, Alive: true})
	return m
}

func (m *Optimizer) objective() *Row {
	return &m.rows[objectiveID]
}

// AddVar registers a new variable with the given initial model value and
// returns its id. Ids are dense and assigned in creation order.
func (m *Optimizer) AddVar(value *rational.Rational) uint32 {
	v := uint32(len(m.var2value))
	var val rational.Rational
	val.Set(value)
	m.var2value = append(m.var2value, val)
	m.var2rows = append(m.var2rows, nil)
	return v
}

// Value returns the current model value of v.
func (m *Optimizer) Value(v uint32) rational.Rational {
	var val rational.Rational
	val.Set(&m.var2value[v])
	return val
}

// SetValue moves the model value of v and delta-corrects the cached value of
// every row mentioning v. The new model must still satisfy all live rows.
func (m *Optimizer) SetValue(v uint32, value *rational.Rational) {
	var old, delta, d rational.Rational
	old.Set(&m.var2value[v])
	m.var2value[v].Set(value)
	delta.Sub(value, &old)
	// a duplicate index entry must not apply the delta twice
	visited := bitset.New(uint(len(m.rows)))
	for _, rowID := range m.var2rows[v] {
		if visited.Test(uint(rowID)) {
			continue
		}
		visited.Set(uint(rowID))
		coeff := m.coefficient(rowID, v)
		if coeff.IsZero() {
			continue
		}
		r := &m.rows[rowID]
		d.Mul(&coeff, &delta)
		r.Value.Add(&r.Value, &d)
		if debugChecks {
			debug.Assert(m.rowInvariant(rowID), "SetValue broke a row invariant")
		}
	}
	// the objective never enters the row index
	if coeff := m.coefficient(objectiveID, v); !coeff.IsZero() {
		d.Mul(&coeff, &delta)
		m.objective().Value.Add(&m.objective().Value, &d)
	}
}

// AddConstraint appends the constraint (Σ terms) + k REL 0 as a new row and
// registers it in the row index. The current model must satisfy it.
func (m *Optimizer) AddConstraint(terms LinearExpression, k *rational.Rational, rel Relation) {
	id := uint32(len(m.rows))
	m.rows = append(m.rows, Row{})
	m.setRow(id, terms, k, rel)
	for i := range terms {
		m.var2rows[terms[i].VID] = append(m.var2rows[terms[i].VID], id)
	}
}

// SetObjective overwrites row 0 with (Σ terms) + k, recorded as <= 0. It
// must be called at most once, before Maximize.
func (m *Optimizer) SetObjective(terms LinearExpression, k *rational.Rational) {
	m.setRow(objectiveID, terms, k, Le)
}

func (m *Optimizer) setRow(id uint32, terms LinearExpression, k *rational.Rational, rel Relation) {
	r := &m.rows[id]
	debug.Assert(len(r.Terms) == 0, "row already set")
	r.Terms = terms.Clone()
	slices.SortFunc(r.Terms, func(a, b Term) int {
		switch {
		case a.VID < b.VID:
			return -1
		case a.VID > b.VID:
			return 1
		}
		return 0
	})
	r.Constant.Set(k)
	r.Rel = rel
	r.Alive = true
	r.Value = m.rowValue(r)
	if debugChecks {
		debug.Assert(m.rowInvariant(id), "model does not satisfy the new row")
	}
}

// coefficient returns the coefficient of variable v in the given row, or 0
// if the row does not mention v. Binary search on the sorted term list.
func (m *Optimizer) coefficient(rowID, v uint32) rational.Rational {
	var res rational.Rational
	terms := m.rows[rowID].Terms
	lo, hi := 0, len(terms)
	for lo < hi {
		mid := lo + (hi-lo)/2
		switch {
		case terms[mid].VID == v:
			res.Set(&terms[mid].Coeff)
			return res
		case terms[mid].VID < v:
			lo = mid + 1
		default:
			hi = mid
		}
	}
	return res
}

// rowValue evaluates the row under the current model.
func (m *Optimizer) rowValue(r *Row) rational.Rational {
	var val, t rational.Rational
	val.Set(&r.Constant)
	for i := range r.Terms {
		t.Mul(&r.Terms[i].Coeff, &m.var2value[r.Terms[i].VID])
		val.Add(&val, &t)
	}
	return val
}

// mulAdd replaces row dst by dst + c·src, merging the two sorted term lists
// in one pass; terms whose coefficient cancels are dropped. The destination's
// constant and cached value are updated algebraically, so the value cache
// stays exact without re-evaluation. The row index picks up an entry for
// every variable newly introduced into dst, except when dst is the objective
// (the objective never serves as a bound, so the entries would never be
// read).
//
// Strictness of the combined row: resolving rows whose pivot coefficients
// have opposite signs (sameSign == false) propagates strictness from src;
// adding two strict rows of the same sign leaves a non-strict bound on the
// remaining variables.
func (m *Optimizer) mulAdd(sameSign bool, dst uint32, c *rational.Rational, src uint32) {
	if c.IsZero() {
		return
	}
	m.newTerms = m.newTerms[:0]
	r1 := &m.rows[dst]
	r2 := &m.rows[src]
	i, j := 0, 0
	for i < len(r1.Terms) || j < len(r2.Terms) {
		switch {
		case j == len(r2.Terms):
			m.newTerms = append(m.newTerms, r1.Terms[i:]...)
			i = len(r1.Terms)
		case i == len(r1.Terms):
			t := Term{VID: r2.Terms[j].VID}
			t.Coeff.Mul(c, &r2.Terms[j].Coeff)
			m.newTerms = append(m.newTerms, t)
			if dst != objectiveID {
				m.var2rows[t.VID] = append(m.var2rows[t.VID], dst)
			}
			j++
		case r1.Terms[i].VID == r2.Terms[j].VID:
			t := Term{VID: r1.Terms[i].VID}
			t.Coeff.Mul(c, &r2.Terms[j].Coeff)
			t.Coeff.Add(&t.Coeff, &r1.Terms[i].Coeff)
			i++
			j++
			if !t.Coeff.IsZero() {
				m.newTerms = append(m.newTerms, t)
			}
		case r1.Terms[i].VID < r2.Terms[j].VID:
			m.newTerms = append(m.newTerms, r1.Terms[i])
			i++
		default:
			t := Term{VID: r2.Terms[j].VID}
			t.Coeff.Mul(c, &r2.Terms[j].Coeff)
			m.newTerms = append(m.newTerms, t)
			if dst != objectiveID {
				m.var2rows[t.VID] = append(m.var2rows[t.VID], dst)
			}
			j++
		}
	}
	var tmp rational.Rational
	tmp.Mul(c, &r2.Constant)
	r1.Constant.Add(&r1.Constant, &tmp)
	tmp.Mul(c, &r2.Value)
	r1.Value.Add(&r1.Value, &tmp)
	r1.Terms, m.newTerms = m.newTerms, r1.Terms

	if !sameSign && r2.Rel == Lt {
		r1.Rel = Lt
	} else if sameSign && r1.Rel == Lt && r2.Rel == Lt {
		r1.Rel = Le
	}
	if debugChecks {
		debug.Assert(m.rowInvariant(dst), "mulAdd broke a row invariant")
	}
}

// resolve eliminates x from row dst using the pivot row src, whose
// coefficient on x is a1. Dead rows are left untouched. Resolving against
// the objective always counts as opposite-signed, which is how strictness
// leaks into the objective's bound.
func (m *Optimizer) resolve(src uint32, a1 *rational.Rational, dst, x uint32) {
	debug.Assert(!a1.IsZero(), "resolve with a zero pivot coefficient")
	debug.Assert(src != dst, "resolve with src == dst")

	if !m.rows[dst].Alive {
		return
	}
	a2 := m.coefficient(dst, x)
	var c rational.Rational
	c.Div(&a2, a1)
	c.Neg(&c)
	m.mulAdd(dst != objectiveID && a1.Sign() == a2.Sign(), dst, &c, src)
}

// LiveRows returns a copy of every live row, the objective included. Row
// slots are not shared with the engine.
func (m *Optimizer) LiveRows() []Row {
	var rows []Row
	for i := range m.rows {
		if m.rows[i].Alive {
			rows = append(rows, m.rows[i].clone())
		}
	}
	return rows
}

// Clone returns a deep copy of the engine, sharing no state with the
// original. It is the supported way to fan work out to several goroutines.
func (m *Optimizer) Clone() *Optimizer {
	c := &Optimizer{
		rows:      make([]Row, len(m.rows)),
		var2value: make([]rational.Rational, len(m.var2value)),
		var2rows:  make([][]uint32, len(m.var2rows)),
	}
	for i := range m.rows {
		c.rows[i] = m.rows[i].clone()
	}
	for i := range m.var2value {
		c.var2value[i].Set(&m.var2value[i])
	}
	for i := range m.var2rows {
		c.var2rows[i] = slices.Clone(m.var2rows[i])
	}
	return c
}

func (m *Optimizer) invariant() bool {
	for i := range m.rows {
		if !m.rowInvariant(uint32(i)) {
			return false
		}
	}
	return true
}

// rowInvariant checks the row canonical form (terms strictly sorted by id,
// no zero coefficient), the cached value, and that the model satisfies the
// row. Satisfaction is not required of the objective or of dead rows.
func (m *Optimizer) rowInvariant(id uint32) bool {
	r := &m.rows[id]
	for i := range r.Terms {
		if i+1 < len(r.Terms) && r.Terms[i].VID >= r.Terms[i+1].VID {
			return false
		}
		if r.Terms[i].Coeff.IsZero() {
			return false
		}
	}
	val := m.rowValue(r)
	if !r.Value.Equal(&val) {
		return false
	}
	if !r.Alive {
		return true
	}
	if r.Rel == Eq && !r.Value.IsZero() {
		return false
	}
	if id != objectiveID {
		if r.Rel == Lt && r.Value.Sign() >= 0 {
			return false
		}
		if r.Rel == Le && r.Value.Sign() > 0 {
			return false
		}
	}
	return true
}
