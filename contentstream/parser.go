package contentstream

import (
	"bytes"
	"errors"
	"fmt"
	"strconv"

	"github.com/tsawler/preflight/core"
)

// Operation represents a single content stream operation consisting of an
// operator and its operands. Operands are PDF objects that precede the operator.
type Operation struct {
	Operator string        // The operator (e.g., "cm", "Do", "q")
	Operands []core.Object // The operands
}

// SyntaxError describes a malformed token in a content stream.
type SyntaxError struct {
	Offset int
	Err    error
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("content stream offset %d: %v", e.Offset, e.Err)
}

func (e *SyntaxError) Unwrap() error { return e.Err }

// errDanglingOperands is recorded when operands are left over at the end of
// the stream without an operator to consume them.
var errDanglingOperands = errors.New("operands without operator")

// ParserOption configures a Parser.
type ParserOption func(*Parser)

// WithStrict makes Parse fail on the first syntax error instead of skipping
// the offending token.
func WithStrict() ParserOption {
	return func(p *Parser) {
		p.strict = true
	}
}

// Parser parses PDF content streams into a sequence of operations.
// Each operation consists of an operator and its operands.
type Parser struct {
	data     []byte
	pos      int
	ops      []Operation
	operands []core.Object // pending operands, consumed by the next operator
	strict   bool
	errs     []error
}

// NewParser creates a new content stream parser for the given data.
func NewParser(data []byte, opts ...ParserOption) *Parser {
	p := &Parser{
		data: data,
		pos:  0,
		ops:  make([]Operation, 0),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Parse parses the content stream and returns all operations in order.
func (p *Parser) Parse() ([]Operation, error) {
	for p.pos < len(p.data) {
		p.skipWhitespaceAndComments()

		if p.pos >= len(p.data) {
			break
		}

		if err := p.parseNext(); err != nil {
			if p.strict {
				return nil, err
			}
			p.errs = append(p.errs, err)
		}
	}

	if len(p.operands) > 0 {
		err := &SyntaxError{Offset: p.pos, Err: fmt.Errorf("%w: %d left", errDanglingOperands, len(p.operands))}
		p.operands = nil
		if p.strict {
			return nil, err
		}
		p.errs = append(p.errs, err)
	}

	return p.ops, nil
}

// Errors returns the syntax errors skipped during a lenient Parse.
func (p *Parser) Errors() []error {
	return p.errs
}

// parseNext parses the next token, which is either an operand (pushed onto the
// stack) or an operator (which consumes the operand stack and creates an Operation).
func (p *Parser) parseNext() error {
	start := p.pos

	c := p.data[p.pos]

	if isOperatorStart(c) {
		return p.parseOperator()
	}

	operand, err := p.parseOperand()
	if err != nil {
		p.resync(start)
		return &SyntaxError{Offset: start, Err: err}
	}

	p.operands = append(p.operands, operand)
	return nil
}

// resync moves past a malformed token to the next whitespace or delimiter.
func (p *Parser) resync(start int) {
	if p.pos <= start {
		p.pos = start + 1
	}
	for p.pos < len(p.data) && !isWhitespace(p.data[p.pos]) && !isDelimiter(p.data[p.pos]) {
		p.pos++
	}
}

// parseOperator parses an operator and creates an operation with the current
// operand stack, then clears the stack. The keywords true, false and null
// look like operators but are operands.
func (p *Parser) parseOperator() error {
	start := p.pos

	for p.pos < len(p.data) && isOperatorChar(p.data[p.pos]) {
		p.pos++
	}

	operator := string(p.data[start:p.pos])

	switch operator {
	case "true":
		p.operands = append(p.operands, core.Bool(true))
		return nil
	case "false":
		p.operands = append(p.operands, core.Bool(false))
		return nil
	case "null":
		p.operands = append(p.operands, core.Null{})
		return nil
	case "ID":
		return p.parseInlineImage(start)
	}

	p.emit(operator)
	return nil
}

// emit appends an operation holding the pending operands.
func (p *Parser) emit(operator string) {
	operation := Operation{
		Operator: operator,
		Operands: make([]core.Object, len(p.operands)),
	}
	copy(operation.Operands, p.operands)

	p.ops = append(p.ops, operation)
	p.operands = p.operands[:0]
}

// parseInlineImage handles the ID operator. The key/value operands collected
// since BI become the image dictionary of a single BI operation, and the
// binary data up to EI is skipped.
func (p *Parser) parseInlineImage(start int) error {
	// Drop the BI operation emitted earlier; it is replaced below.
	if n := len(p.ops); n > 0 && p.ops[n-1].Operator == "BI" && len(p.ops[n-1].Operands) == 0 {
		p.ops = p.ops[:n-1]
	}

	dict := make(core.Dict)
	for i := 0; i+1 < len(p.operands); i += 2 {
		if key, ok := p.operands[i].(core.Name); ok {
			dict[string(key)] = p.operands[i+1]
		}
	}
	p.operands = p.operands[:0]
	p.operands = append(p.operands, dict)
	p.emit("BI")

	// A single whitespace byte separates ID from the data.
	if p.pos < len(p.data) && isWhitespace(p.data[p.pos]) {
		p.pos++
	}

	for i := p.pos; i+1 < len(p.data); i++ {
		if p.data[i] != 'E' || p.data[i+1] != 'I' {
			continue
		}
		before := i == 0 || isWhitespace(p.data[i-1])
		after := i+2 == len(p.data) || isWhitespace(p.data[i+2]) || isDelimiter(p.data[i+2])
		if before && after {
			p.pos = i + 2
			return nil
		}
	}

	p.pos = len(p.data)
	return &SyntaxError{Offset: start, Err: errors.New("inline image without EI")}
}

// parseOperand parses a single operand, which can be a number, string, name,
// array, dictionary, boolean, or null.
func (p *Parser) parseOperand() (core.Object, error) {
	p.skipWhitespaceAndComments()

	if p.pos >= len(p.data) {
		return nil, fmt.Errorf("unexpected end of stream")
	}

	c := p.data[p.pos]

	// Number (int or real)
	if c == '-' || c == '+' || c == '.' || (c >= '0' && c <= '9') {
		return p.parseNumber()
	}

	// String (literal)
	if c == '(' {
		return p.parseString()
	}

	// Hex string
	if c == '<' && (p.pos+1 >= len(p.data) || p.data[p.pos+1] != '<') {
		return p.parseHexString()
	}

	// Name
	if c == '/' {
		return p.parseName()
	}

	// Array
	if c == '[' {
		return p.parseArray()
	}

	// Dictionary (marked content property lists)
	if c == '<' && p.pos+1 < len(p.data) && p.data[p.pos+1] == '<' {
		return p.parseDict()
	}

	// Keywords inside arrays and dictionaries
	if isLetter(c) {
		end := p.pos
		for end < len(p.data) && isOperatorChar(p.data[end]) {
			end++
		}
		switch string(p.data[p.pos:end]) {
		case "true":
			p.pos = end
			return core.Bool(true), nil
		case "false":
			p.pos = end
			return core.Bool(false), nil
		case "null":
			p.pos = end
			return core.Null{}, nil
		}
	}

	return nil, fmt.Errorf("unexpected character %q", c)
}

// parseNumber parses an integer or real number operand.
func (p *Parser) parseNumber() (core.Object, error) {
	start := p.pos
	hasDecimal := false

	// Handle sign
	if p.data[p.pos] == '+' || p.data[p.pos] == '-' {
		p.pos++
	}

	// Read digits and decimal point
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if c >= '0' && c <= '9' {
			p.pos++
		} else if c == '.' && !hasDecimal {
			hasDecimal = true
			p.pos++
		} else {
			break
		}
	}

	numStr := string(p.data[start:p.pos])

	if hasDecimal {
		val, err := strconv.ParseFloat(numStr, 64)
		if err != nil {
			return nil, fmt.Errorf("invalid real number %q: %w", numStr, err)
		}
		return core.Real(val), nil
	}

	val, err := strconv.ParseInt(numStr, 10, 64)
	if errors.Is(err, strconv.ErrRange) {
		// Too large for an integer; keep the magnitude as a real.
		f, ferr := strconv.ParseFloat(numStr, 64)
		if ferr == nil {
			return core.Real(f), nil
		}
	}
	if err != nil {
		return nil, fmt.Errorf("invalid integer %q: %w", numStr, err)
	}
	return core.Int(val), nil
}

// parseString parses a literal string (...) with escape sequence handling.
func (p *Parser) parseString() (core.Object, error) {
	p.pos++ // skip '('

	var result bytes.Buffer
	depth := 1 // Track parenthesis nesting

	for p.pos < len(p.data) && depth > 0 {
		c := p.data[p.pos]

		switch {
		case c == '\\' && p.pos+1 < len(p.data):
			p.pos++
			p.parseEscape(&result)
		case c == '(':
			depth++
			result.WriteByte(c)
			p.pos++
		case c == ')':
			depth--
			if depth > 0 {
				result.WriteByte(c)
			}
			p.pos++
		default:
			result.WriteByte(c)
			p.pos++
		}
	}

	if depth != 0 {
		return nil, fmt.Errorf("unclosed string")
	}

	return core.String(result.String()), nil
}

// parseEscape decodes the escape sequence starting at p.pos (just after the
// backslash) into result.
func (p *Parser) parseEscape(result *bytes.Buffer) {
	next := p.data[p.pos]
	switch next {
	case 'n':
		result.WriteByte('\n')
	case 'r':
		result.WriteByte('\r')
	case 't':
		result.WriteByte('\t')
	case 'b':
		result.WriteByte('\b')
	case 'f':
		result.WriteByte('\f')
	case '\r':
		// Line continuation
		if p.pos+1 < len(p.data) && p.data[p.pos+1] == '\n' {
			p.pos++
		}
	case '\n':
		// Line continuation
	case '0', '1', '2', '3', '4', '5', '6', '7':
		// Octal escape sequence: \ddd (1-3 octal digits)
		octalVal := int(next - '0')
		for i := 0; i < 2 && p.pos+1 < len(p.data); i++ {
			digit := p.data[p.pos+1]
			if digit < '0' || digit > '7' {
				break
			}
			octalVal = octalVal*8 + int(digit-'0')
			p.pos++
		}
		result.WriteByte(byte(octalVal & 0xFF))
	default:
		// (, ), \ and unknown escapes: the backslash is dropped
		result.WriteByte(next)
	}
	p.pos++
}

// parseHexString parses a hexadecimal string <...>.
func (p *Parser) parseHexString() (core.Object, error) {
	p.pos++ // skip '<'

	var digits []byte
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		p.pos++

		if c == '>' {
			if len(digits)%2 == 1 {
				// Odd number of digits - assume trailing 0
				digits = append(digits, '0')
			}
			out := make([]byte, len(digits)/2)
			for i := range out {
				out[i] = hexValue(digits[2*i])<<4 | hexValue(digits[2*i+1])
			}
			return core.String(out), nil
		}

		if isWhitespace(c) {
			continue
		}

		if !isHexDigit(c) {
			return nil, fmt.Errorf("invalid hex digit: %c", c)
		}
		digits = append(digits, c)
	}

	return nil, fmt.Errorf("unclosed hex string")
}

// parseName parses a name object /Name with # escape handling.
func (p *Parser) parseName() (core.Object, error) {
	p.pos++ // skip '/'

	var result bytes.Buffer

	for p.pos < len(p.data) {
		c := p.data[p.pos]

		// Name ends at whitespace or delimiter
		if isWhitespace(c) || isDelimiter(c) {
			break
		}

		// Handle # escape
		if c == '#' && p.pos+2 < len(p.data) && isHexDigit(p.data[p.pos+1]) && isHexDigit(p.data[p.pos+2]) {
			result.WriteByte((hexValue(p.data[p.pos+1]) << 4) | hexValue(p.data[p.pos+2]))
			p.pos += 3
			continue
		}

		result.WriteByte(c)
		p.pos++
	}

	return core.Name(result.String()), nil
}

// parseArray parses an array [...] of operands.
func (p *Parser) parseArray() (core.Object, error) {
	p.pos++ // skip '['

	arr := core.Array{}

	for {
		p.skipWhitespaceAndComments()

		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed array")
		}

		if p.data[p.pos] == ']' {
			p.pos++
			return arr, nil
		}

		obj, err := p.parseOperand()
		if err != nil {
			return nil, err
		}

		arr = append(arr, obj)
	}
}

// parseDict parses a dictionary <<...>>.
func (p *Parser) parseDict() (core.Object, error) {
	p.pos += 2 // skip '<<'

	dict := make(core.Dict)

	for {
		p.skipWhitespaceAndComments()

		if p.pos >= len(p.data) {
			return nil, fmt.Errorf("unclosed dictionary")
		}

		if p.pos+1 < len(p.data) && p.data[p.pos] == '>' && p.data[p.pos+1] == '>' {
			p.pos += 2
			return dict, nil
		}

		// Parse key (must be a name)
		if p.data[p.pos] != '/' {
			return nil, fmt.Errorf("dictionary key must be a name")
		}

		key, err := p.parseName()
		if err != nil {
			return nil, err
		}

		value, err := p.parseOperand()
		if err != nil {
			return nil, err
		}

		dict[string(key.(core.Name))] = value
	}
}

// skipWhitespaceAndComments advances past PDF whitespace and % comments.
func (p *Parser) skipWhitespaceAndComments() {
	for p.pos < len(p.data) {
		c := p.data[p.pos]
		if isWhitespace(c) {
			p.pos++
			continue
		}
		if c == '%' {
			for p.pos < len(p.data) && p.data[p.pos] != '\n' && p.data[p.pos] != '\r' {
				p.pos++
			}
			continue
		}
		return
	}
}

// Helper functions

// isWhitespace reports whether c is a PDF whitespace character.
func isWhitespace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n' || c == '\f' || c == 0
}

// isLetter reports whether c is an ASCII letter.
func isLetter(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// isOperatorStart reports whether c can begin an operator (letters, plus the
// ' and " text operators).
func isOperatorStart(c byte) bool {
	return isLetter(c) || c == '\'' || c == '"'
}

// isOperatorChar reports whether c can continue an operator, e.g. T* or d0.
func isOperatorChar(c byte) bool {
	return isOperatorStart(c) || c == '*' || (c >= '0' && c <= '9')
}

// isDelimiter reports whether c is a PDF delimiter character.
func isDelimiter(c byte) bool {
	return c == '(' || c == ')' || c == '<' || c == '>' ||
		c == '[' || c == ']' || c == '{' || c == '}' ||
		c == '/' || c == '%'
}

// isHexDigit reports whether c is a hexadecimal digit.
func isHexDigit(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// hexValue returns the numeric value of a hexadecimal digit.
func hexValue(c byte) byte {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10
	}
	return 0
}
