package compiler

import (
	"fmt"
	"strconv"

	"github.com/roach88/tangent/internal/model"
)

// Expression grammar, precedence climbing:
//
//	expr    = term   { ("+" | "-") term }
//	term    = power  { ("*" | "/") power }
//	power   = unary  [ "^" power ]          (right-associative)
//	unary   = "-" unary | primary
//	primary = number | ident | ident "(" expr ")" | "(" expr ")"
//
// The grammar is deliberately tiny: numeric literals, variable
// references, the five binary operators the dual-number engine
// dispatches, and unary function calls. Function names are resolved
// later by ValidateModel, not here.

// ParseError reports a syntax error at a byte offset in the source.
type ParseError struct {
	Offset  int
	Message string
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("parse error at offset %d: %s", e.Offset, e.Message)
}

// ParseExpr parses an expression string into a model.Expr.
func ParseExpr(src string) (model.Expr, error) {
	p := &parser{src: src}
	expr, err := p.parseExpr()
	if err != nil {
		return nil, err
	}
	p.skipSpace()
	if p.pos < len(p.src) {
		return nil, &ParseError{Offset: p.pos, Message: fmt.Sprintf("unexpected %q", p.src[p.pos])}
	}
	return expr, nil
}

type parser struct {
	src string
	pos int
}

func (p *parser) skipSpace() {
	for p.pos < len(p.src) && (p.src[p.pos] == ' ' || p.src[p.pos] == '\t') {
		p.pos++
	}
}

// peek returns the next non-space byte without consuming it, or 0 at
// end of input.
func (p *parser) peek() byte {
	p.skipSpace()
	if p.pos >= len(p.src) {
		return 0
	}
	return p.src[p.pos]
}

func (p *parser) parseExpr() (model.Expr, error) {
	left, err := p.parseTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '+':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &model.BinaryExpr{Op: model.OpAdd, Left: left, Right: right}
		case '-':
			p.pos++
			right, err := p.parseTerm()
			if err != nil {
				return nil, err
			}
			left = &model.BinaryExpr{Op: model.OpSub, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseTerm() (model.Expr, error) {
	left, err := p.parsePower()
	if err != nil {
		return nil, err
	}
	for {
		switch p.peek() {
		case '*':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &model.BinaryExpr{Op: model.OpMul, Left: left, Right: right}
		case '/':
			p.pos++
			right, err := p.parsePower()
			if err != nil {
				return nil, err
			}
			left = &model.BinaryExpr{Op: model.OpDiv, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parsePower() (model.Expr, error) {
	base, err := p.parseUnary()
	if err != nil {
		return nil, err
	}
	if p.peek() == '^' {
		p.pos++
		// Right-associative: x^y^z parses as x^(y^z).
		exp, err := p.parsePower()
		if err != nil {
			return nil, err
		}
		return &model.BinaryExpr{Op: model.OpPow, Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *parser) parseUnary() (model.Expr, error) {
	if p.peek() == '-' {
		p.pos++
		arg, err := p.parseUnary()
		if err != nil {
			return nil, err
		}
		return &model.NegExpr{Arg: arg}, nil
	}
	return p.parsePrimary()
}

func (p *parser) parsePrimary() (model.Expr, error) {
	c := p.peek()
	switch {
	case c == 0:
		return nil, &ParseError{Offset: p.pos, Message: "unexpected end of expression"}
	case c == '(':
		p.pos++
		expr, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, &ParseError{Offset: p.pos, Message: "missing closing parenthesis"}
		}
		p.pos++
		return expr, nil
	case c >= '0' && c <= '9' || c == '.':
		return p.parseNumber()
	case isIdentStart(c):
		return p.parseIdentOrCall()
	default:
		return nil, &ParseError{Offset: p.pos, Message: fmt.Sprintf("unexpected %q", c)}
	}
}

func (p *parser) parseNumber() (model.Expr, error) {
	start := p.pos
	for p.pos < len(p.src) && isNumberByte(p.src[p.pos]) {
		// Exponent sign: only valid directly after e/E.
		if (p.src[p.pos] == '+' || p.src[p.pos] == '-') &&
			!(p.pos > start && (p.src[p.pos-1] == 'e' || p.src[p.pos-1] == 'E')) {
			break
		}
		p.pos++
	}
	text := p.src[start:p.pos]
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return nil, &ParseError{Offset: start, Message: fmt.Sprintf("invalid number %q", text)}
	}
	return model.NumLit(f), nil
}

func (p *parser) parseIdentOrCall() (model.Expr, error) {
	start := p.pos
	for p.pos < len(p.src) && isIdentByte(p.src[p.pos]) {
		p.pos++
	}
	name := p.src[start:p.pos]

	if p.peek() == '(' {
		p.pos++
		arg, err := p.parseExpr()
		if err != nil {
			return nil, err
		}
		if p.peek() != ')' {
			return nil, &ParseError{Offset: p.pos, Message: fmt.Sprintf("missing closing parenthesis in call to %s", name)}
		}
		p.pos++
		return &model.CallExpr{Func: name, Arg: arg}, nil
	}
	return model.VarRef(name), nil
}

func isIdentStart(c byte) bool {
	return c == '_' || c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z'
}

func isIdentByte(c byte) bool {
	return isIdentStart(c) || c >= '0' && c <= '9'
}

func isNumberByte(c byte) bool {
	return c >= '0' && c <= '9' || c == '.' || c == 'e' || c == 'E' || c == '+' || c == '-'
}
