// Package model provides the geometric primitives shared by the content
// stream interpreter and the preflight rules.
//
// # Transformations
//
// [Matrix] is a 2D affine transformation stored as the six coefficients
// a b c d e f of the homogeneous matrix
//
//	| a b 0 |
//	| c d 0 |
//	| e f 1 |
//
// Points are row vectors, so a point is mapped as p' = p × M. The product
// m.Multiply(n) therefore maps a point through m first and n second. This is
// the order PDF uses for the cm operator: the new CTM is the operand matrix
// multiplied by the existing CTM.
//
//	ctm := model.Identity()
//	ctm = model.Scale(72, 72).Multiply(ctm)  // 72 0 0 72 0 0 cm
//	p := ctm.Transform(model.Point{X: 1, Y: 1})
//
// Matrices are values. Every operation returns a new matrix.
//
// # Boxes
//
// [BBox] describes page boundary boxes (MediaBox, TrimBox and friends) in
// default user space.
package model
