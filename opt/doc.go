// Package opt implements model-based optimization and projection for linear
// arithmetic over the rationals.
//
// An Optimizer holds a dense tableau of constraint rows;
//   - Each row is a LinearExpression of Term plus a constant, related to zero
//     by =, < or <=
//   - A Term is an association between a rational coefficient and a variable
//
// The tableau carries a model (a rational value per variable) satisfying
// every live row, and the engine keeps it satisfying through every mutation.
// Row 0 is reserved for the objective.
package opt
