// Package contentstream parses PDF content streams and replays them to
// observers.
//
// Content streams contain the instructions for painting a page. The parser
// turns the raw, decoded bytes into a sequence of operations:
//
//	parser := contentstream.NewParser(streamData)
//	ops, err := parser.Parse()
//	for _, op := range ops {
//	    fmt.Printf("Operator: %s, Operands: %v\n", op.Operator, op.Operands)
//	}
//
// The parser is lenient by default. A malformed token is skipped and
// recorded in [Parser.Errors] instead of aborting the whole stream; pass
// [WithStrict] to turn the first syntax error into a returned error.
// Inline images (BI ... ID ... EI) come back as a single BI operation whose
// only operand is the image dictionary; the binary payload is skipped.
//
// # Dispatching
//
// A [Dispatcher] feeds operations to any number of observers. Observers opt
// in to the operators they care about by implementing small capability
// interfaces:
//
//   - [StateSaver] - q
//   - [StateRestorer] - Q
//   - [MatrixConcatenator] - cm
//   - [XObjectInvoker] - Do
//   - [OperationObserver] - every operation, whatever the operator
//
// Embed [NopObserver] to get no-op defaults for all of them. Handlers for
// further operators are added with [Dispatcher.Register] without touching
// existing observers:
//
//	d := contentstream.NewDispatcher()
//	err := d.ReplayBytes(content, minPPI, otherRule)
//
// Operations with the wrong operands (cm without six numbers, Do without a
// name) are skipped with a debug log. Unknown operators are ignored.
package contentstream
