package contentstream

import (
	"errors"
	"fmt"

	"github.com/tsawler/preflight/core"
	"github.com/tsawler/preflight/logger"
)

// ErrMalformedOperation is returned by a handler when an operation does not
// carry the operands its operator requires.
var ErrMalformedOperation = errors.New("malformed operation")

// StateSaver is notified of the q operator.
type StateSaver interface {
	SaveGraphicsState()
}

// StateRestorer is notified of the Q operator.
type StateRestorer interface {
	RestoreGraphicsState()
}

// MatrixConcatenator is notified of the cm operator with its six coefficients.
type MatrixConcatenator interface {
	ConcatenateMatrix(a, b, c, d, e, f float64)
}

// XObjectInvoker is notified of the Do operator with the resource name.
type XObjectInvoker interface {
	InvokeXObject(name string)
}

// OperationObserver sees every operation before its operator handler runs.
type OperationObserver interface {
	ObserveOperation(op Operation)
}

// NopObserver implements every observer capability with no-ops. Embed it to
// pick only the notifications you need.
type NopObserver struct{}

func (NopObserver) SaveGraphicsState()                         {}
func (NopObserver) RestoreGraphicsState()                      {}
func (NopObserver) ConcatenateMatrix(a, b, c, d, e, f float64) {}
func (NopObserver) InvokeXObject(name string)                  {}
func (NopObserver) ObserveOperation(op Operation)              {}

// HandlerFunc handles one operation for one observer. Observers without the
// capability the handler needs are ignored.
type HandlerFunc func(obs any, op Operation) error

// Option configures a Dispatcher.
type Option func(*Dispatcher)

// WithMaxOperations caps the number of operations replayed per call.
// Zero means no limit.
func WithMaxOperations(n int) Option {
	return func(d *Dispatcher) {
		d.maxOperations = n
	}
}

// WithParserOptions sets the options ReplayBytes passes to the parser.
func WithParserOptions(opts ...ParserOption) Option {
	return func(d *Dispatcher) {
		d.parserOpts = append(d.parserOpts, opts...)
	}
}

// Dispatcher routes content stream operations to observers by operator.
type Dispatcher struct {
	handlers      map[string]HandlerFunc
	maxOperations int
	parserOpts    []ParserOption
}

// NewDispatcher creates a dispatcher with handlers for q, Q, cm and Do.
func NewDispatcher(opts ...Option) *Dispatcher {
	d := &Dispatcher{
		handlers: map[string]HandlerFunc{
			"q":  handleSave,
			"Q":  handleRestore,
			"cm": handleConcat,
			"Do": handleInvoke,
		},
	}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Register adds or replaces the handler for operator. A nil handler removes it.
func (d *Dispatcher) Register(operator string, h HandlerFunc) {
	if h == nil {
		delete(d.handlers, operator)
		return
	}
	d.handlers[operator] = h
}

// Replay feeds ops to the observers in order. Each operation is delivered to
// every observer before the next operation is processed.
func (d *Dispatcher) Replay(ops []Operation, observers ...any) error {
	if d.maxOperations > 0 && len(ops) > d.maxOperations {
		logger.Debug("operation limit reached, skipping rest of stream",
			"limit", d.maxOperations, "skipped", len(ops)-d.maxOperations)
		ops = ops[:d.maxOperations]
	}

	for i, op := range ops {
		h := d.handlers[op.Operator]
		for _, obs := range observers {
			if o, ok := obs.(OperationObserver); ok {
				o.ObserveOperation(op)
			}
			if h == nil {
				continue
			}
			if err := h(obs, op); err != nil {
				if errors.Is(err, ErrMalformedOperation) {
					logger.Debug("skipping operation", "index", i, "operator", op.Operator, "error", err)
					continue
				}
				return fmt.Errorf("operation %d (%s): %w", i, op.Operator, err)
			}
		}
	}
	return nil
}

// ReplayBytes parses data as a content stream and replays it.
func (d *Dispatcher) ReplayBytes(data []byte, observers ...any) error {
	p := NewParser(data, d.parserOpts...)
	ops, err := p.Parse()
	if err != nil {
		return fmt.Errorf("parsing content stream: %w", err)
	}
	for _, e := range p.Errors() {
		logger.Debug("skipped malformed content", "error", e)
	}
	return d.Replay(ops, observers...)
}

func handleSave(obs any, _ Operation) error {
	if s, ok := obs.(StateSaver); ok {
		s.SaveGraphicsState()
	}
	return nil
}

func handleRestore(obs any, _ Operation) error {
	if r, ok := obs.(StateRestorer); ok {
		r.RestoreGraphicsState()
	}
	return nil
}

func handleConcat(obs any, op Operation) error {
	c, ok := obs.(MatrixConcatenator)
	if !ok {
		return nil
	}
	if len(op.Operands) != 6 {
		return fmt.Errorf("%w: cm needs 6 operands, got %d", ErrMalformedOperation, len(op.Operands))
	}
	var m [6]float64
	for i, operand := range op.Operands {
		v, ok := core.ToFloat(operand)
		if !ok {
			return fmt.Errorf("%w: cm operand %d is %s", ErrMalformedOperation, i, operand.Type())
		}
		m[i] = v
	}
	c.ConcatenateMatrix(m[0], m[1], m[2], m[3], m[4], m[5])
	return nil
}

func handleInvoke(obs any, op Operation) error {
	x, ok := obs.(XObjectInvoker)
	if !ok {
		return nil
	}
	if len(op.Operands) != 1 {
		return fmt.Errorf("%w: Do needs 1 operand, got %d", ErrMalformedOperation, len(op.Operands))
	}
	name, ok := op.Operands[0].(core.Name)
	if !ok {
		return fmt.Errorf("%w: Do operand is %s", ErrMalformedOperation, op.Operands[0].Type())
	}
	x.InvokeXObject(string(name))
	return nil
}
