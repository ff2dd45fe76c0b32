// Package core provides the PDF object types that appear as content stream
// operands.
//
// Content streams can carry every direct PDF object type except streams and
// indirect references, all implemented as types satisfying the [Object]
// interface:
//
//   - [Null] - represents the PDF null object
//   - [Bool] - represents PDF boolean values (true/false)
//   - [Int] - represents PDF integers
//   - [Real] - represents PDF real numbers (floating point)
//   - [String] - represents PDF string objects (literal or hexadecimal)
//   - [Name] - represents PDF name objects (e.g., /Im1, /F1)
//   - [Array] - represents PDF arrays (TJ operands)
//   - [Dict] - represents PDF dictionaries (inline image and marked content
//     property lists)
//
// Numeric operands may be written as either integers or reals; use
// [ToFloat] to read them without caring which.
package core
