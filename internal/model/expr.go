package model

import (
	"fmt"
	"strconv"
	"strings"
)

// Expr is a sealed interface representing a parsed output expression.
// Only NumLit, VarRef, BinaryExpr, CallExpr and NegExpr implement it.
type Expr interface {
	expr() // Sealed - only these types implement it

	// String renders the expression in source form, fully
	// parenthesized, for diagnostics.
	String() string
}

// NumLit is a numeric literal.
type NumLit float64

func (NumLit) expr() {}

// String implements Expr.
func (n NumLit) String() string {
	return strconv.FormatFloat(float64(n), 'g', -1, 64)
}

// VarRef references a model variable by name.
type VarRef string

func (VarRef) expr() {}

// String implements Expr.
func (v VarRef) String() string { return string(v) }

// BinaryOp identifies a binary operator in an expression.
type BinaryOp string

// Binary operators recognized by the expression grammar.
const (
	OpAdd BinaryOp = "+"
	OpSub BinaryOp = "-"
	OpMul BinaryOp = "*"
	OpDiv BinaryOp = "/"
	OpPow BinaryOp = "^"
)

// BinaryExpr applies a binary operator to two subexpressions.
type BinaryExpr struct {
	Op    BinaryOp
	Left  Expr
	Right Expr
}

func (*BinaryExpr) expr() {}

// String implements Expr.
func (b *BinaryExpr) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left, b.Op, b.Right)
}

// CallExpr applies a named unary function to an argument.
type CallExpr struct {
	Func string
	Arg  Expr
}

func (*CallExpr) expr() {}

// String implements Expr.
func (c *CallExpr) String() string {
	return fmt.Sprintf("%s(%s)", c.Func, c.Arg)
}

// NegExpr negates a subexpression (unary minus).
type NegExpr struct {
	Arg Expr
}

func (*NegExpr) expr() {}

// String implements Expr.
func (n *NegExpr) String() string {
	return fmt.Sprintf("(-%s)", n.Arg)
}

// Variables returns the distinct variable names referenced by e, in
// first-appearance order.
func Variables(e Expr) []string {
	var names []string
	seen := make(map[string]struct{})
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case NumLit:
		case VarRef:
			if _, ok := seen[string(x)]; !ok {
				seen[string(x)] = struct{}{}
				names = append(names, string(x))
			}
		case *BinaryExpr:
			walk(x.Left)
			walk(x.Right)
		case *CallExpr:
			walk(x.Arg)
		case *NegExpr:
			walk(x.Arg)
		default:
			panic(fmt.Sprintf("model: Expr kind outside the sealed set: %T", e))
		}
	}
	walk(e)
	return names
}

// Functions returns the distinct function names referenced by e, in
// first-appearance order.
func Functions(e Expr) []string {
	var names []string
	seen := make(map[string]struct{})
	var walk func(Expr)
	walk = func(e Expr) {
		switch x := e.(type) {
		case NumLit, VarRef:
		case *BinaryExpr:
			walk(x.Left)
			walk(x.Right)
		case *CallExpr:
			if _, ok := seen[x.Func]; !ok {
				seen[x.Func] = struct{}{}
				names = append(names, x.Func)
			}
			walk(x.Arg)
		case *NegExpr:
			walk(x.Arg)
		default:
			panic(fmt.Sprintf("model: Expr kind outside the sealed set: %T", e))
		}
	}
	walk(e)
	return names
}

// ValidIdentifier reports whether s is a legal variable or function
// name: a letter or underscore followed by letters, digits or
// underscores.
func ValidIdentifier(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_', r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
			if i == 0 {
				return false
			}
		default:
			return false
		}
	}
	return true
}

// FormatFloat renders a float the way canonical JSON and the CLI text
// output do: shortest round-trip decimal form.
func FormatFloat(f float64) string {
	s := strconv.FormatFloat(f, 'g', -1, 64)
	// Normalize negative zero; it only confuses diffs.
	if s == "-0" {
		return "0"
	}
	return strings.ToLower(s)
}
