// Package linopt provides model-based optimization and quantifier elimination
// for linear arithmetic over the rationals.
//
// The engine keeps a small dense tableau of linear constraints together with a
// model (an assignment of exact rational values to the variables) that
// satisfies them. Two primitive operations are supported:
//   - Maximize: compute the supremum of a linear objective over the feasible
//     region, or report unboundedness, and update the model to witness the
//     optimum;
//   - Project: eliminate a variable from the constraint system while
//     preserving satisfiability, using the model to pick a single
//     representative bound (model-based projection).
//
// The engine lives in the opt subpackage; exact scalar arithmetic is provided
// by the rational subpackage.
package linopt

import (
	"github.com/blang/semver/v4"
)

var Version = semver.MustParse("0.1.0")
