// Package formula evaluates salary component formulas.
//
// Only arithmetic over decimal literals and named variables is accepted:
// + - * /, unary sign and parentheses. Function calls, selectors, indexing
// and every other construct are rejected at parse time, so a stored formula
// can never do more than combine numbers.
package formula

import (
	"errors"
	"fmt"
	"go/ast"
	"go/parser"
	"go/token"
	"sort"
	"strings"

	"github.com/shopspring/decimal"
)

var (
	ErrEmpty           = errors.New("formula is empty")
	ErrSyntax          = errors.New("formula syntax error")
	ErrUnsupported     = errors.New("unsupported formula construct")
	ErrUnknownVariable = errors.New("unknown variable")
	ErrDivisionByZero  = errors.New("division by zero")
)

// Expression is a parsed, checked formula. It is safe for concurrent use.
type Expression struct {
	source string
	root   ast.Expr
	idents []string
}

// Parse parses and checks src.
func Parse(src string) (*Expression, error) {
	if strings.TrimSpace(src) == "" {
		return nil, ErrEmpty
	}

	root, err := parser.ParseExpr(src)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrSyntax, err)
	}

	seen := make(map[string]struct{})
	if err := check(root, seen); err != nil {
		return nil, err
	}

	idents := make([]string, 0, len(seen))
	for name := range seen {
		idents = append(idents, name)
	}
	sort.Strings(idents)

	return &Expression{source: src, root: root, idents: idents}, nil
}

// Validate parses src and verifies every variable it references is allowed.
func Validate(src string, allowed map[string]struct{}) error {
	expr, err := Parse(src)
	if err != nil {
		return err
	}
	for _, name := range expr.idents {
		if _, ok := allowed[name]; !ok {
			return fmt.Errorf("%w: %s", ErrUnknownVariable, name)
		}
	}
	return nil
}

func (e *Expression) String() string {
	return e.source
}

// Identifiers returns the sorted, de-duplicated variable names used.
func (e *Expression) Identifiers() []string {
	out := make([]string, len(e.idents))
	copy(out, e.idents)
	return out
}

// Evaluate computes the expression using vars. No intermediate rounding is applied.
func (e *Expression) Evaluate(vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	return eval(e.root, vars)
}

func check(node ast.Expr, seen map[string]struct{}) error {
	switch n := node.(type) {
	case *ast.BasicLit:
		if n.Kind != token.INT && n.Kind != token.FLOAT {
			return fmt.Errorf("%w: literal %s", ErrUnsupported, n.Value)
		}
		if _, err := decimal.NewFromString(n.Value); err != nil {
			return fmt.Errorf("%w: invalid number %s", ErrSyntax, n.Value)
		}
		return nil
	case *ast.Ident:
		seen[n.Name] = struct{}{}
		return nil
	case *ast.ParenExpr:
		return check(n.X, seen)
	case *ast.UnaryExpr:
		if n.Op != token.ADD && n.Op != token.SUB {
			return fmt.Errorf("%w: operator %s", ErrUnsupported, n.Op)
		}
		return check(n.X, seen)
	case *ast.BinaryExpr:
		switch n.Op {
		case token.ADD, token.SUB, token.MUL, token.QUO:
		default:
			return fmt.Errorf("%w: operator %s", ErrUnsupported, n.Op)
		}
		if err := check(n.X, seen); err != nil {
			return err
		}
		return check(n.Y, seen)
	default:
		return fmt.Errorf("%w: %T", ErrUnsupported, node)
	}
}

func eval(node ast.Expr, vars map[string]decimal.Decimal) (decimal.Decimal, error) {
	switch n := node.(type) {
	case *ast.BasicLit:
		return decimal.NewFromString(n.Value)
	case *ast.Ident:
		v, ok := vars[n.Name]
		if !ok {
			return decimal.Zero, fmt.Errorf("%w: %s", ErrUnknownVariable, n.Name)
		}
		return v, nil
	case *ast.ParenExpr:
		return eval(n.X, vars)
	case *ast.UnaryExpr:
		v, err := eval(n.X, vars)
		if err != nil {
			return decimal.Zero, err
		}
		if n.Op == token.SUB {
			return v.Neg(), nil
		}
		return v, nil
	case *ast.BinaryExpr:
		l, err := eval(n.X, vars)
		if err != nil {
			return decimal.Zero, err
		}
		r, err := eval(n.Y, vars)
		if err != nil {
			return decimal.Zero, err
		}
		switch n.Op {
		case token.ADD:
			return l.Add(r), nil
		case token.SUB:
			return l.Sub(r), nil
		case token.MUL:
			return l.Mul(r), nil
		case token.QUO:
			if r.IsZero() {
				return decimal.Zero, ErrDivisionByZero
			}
			return l.Div(r), nil
		}
	}
	return decimal.Zero, fmt.Errorf("%w: %T", ErrUnsupported, node)
}
