// Copyright 2025 Consensys Software Inc.
// Licensed under the Apache License, Version 2.0. See the LICENSE file for details.

package opt

import (
	"strconv"
	"strings"
)

func writeLinearExpression(sbb *strings.Builder, l LinearExpression) {
	for i := range l {
		if i > 0 && l[i].Coeff.Sign() > 0 {
			sbb.WriteString("+ ")
		}
		sbb.WriteString(l[i].Coeff.String())
		sbb.WriteString("*v")
		sbb.WriteString(strconv.FormatUint(uint64(l[i].VID), 10))
		sbb.WriteByte(' ')
	}
}

// String renders the row as "+ 2*v0 + 3*v1 -4  <= 0; value: -1"; a leading
// "-" marks a dead row.
func (r *Row) String() string {
	var sbb strings.Builder
	if r.Alive {
		sbb.WriteString("+ ")
	} else {
		sbb.WriteString("- ")
	}
	writeLinearExpression(&sbb, r.Terms)
	if r.Constant.Sign() > 0 {
		sbb.WriteString(" + ")
		sbb.WriteString(r.Constant.String())
		sbb.WriteByte(' ')
	} else if r.Constant.Sign() < 0 {
		sbb.WriteString(r.Constant.String())
		sbb.WriteByte(' ')
	}
	sbb.WriteString(r.Rel.String())
	sbb.WriteString("0; value: ")
	sbb.WriteString(r.Value.String())
	return sbb.String()
}

// String renders the whole tableau followed by the row index.
func (m *Optimizer) String() string {
	var sbb strings.Builder
	for i := range m.rows {
		sbb.WriteString(m.rows[i].String())
		sbb.WriteByte('\n')
	}
	for v := range m.var2rows {
		sbb.WriteString(strconv.Itoa(v))
		sbb.WriteString(": ")
		for _, id := range m.var2rows[v] {
			sbb.WriteString(strconv.FormatUint(uint64(id), 10))
			sbb.WriteByte(' ')
		}
		sbb.WriteByte('\n')
	}
	return sbb.String()
}
