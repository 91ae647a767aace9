// ==============================================================================================
// FILE: evaluator/evaluator_unit_test.go
// ==============================================================================================
// PURPOSE: Unit tests for single-expression evaluation: literals, unary/binary operators,
//          short-circuit logical operators, ternary, and name resolution.
// ==============================================================================================

package evaluator

import (
	"testing"

	"apollo/ast"
	"apollo/object"
	"apollo/token"
)

func tok(typ token.TokenType, lexeme string) token.Token {
	return token.Token{Type: typ, Lexeme: lexeme, Line: 1}
}

func lit(v interface{}) *ast.Literal {
	return &ast.Literal{Value: v}
}

func newEvaluator() *Evaluator {
	return New(object.NewGlobals())
}

func TestEval_Literals(t *testing.T) {
	tests := []struct {
		value    interface{}
		expected object.Object
	}{
		{int64(5), &object.Integer{Value: 5}},
		{3.5, &object.Float{Value: 3.5}},
		{"hi", &object.String{Value: "hi"}},
		{true, TRUE},
		{false, FALSE},
		{nil, NULL},
	}
	e := newEvaluator()
	for _, tt := range tests {
		got := e.eval(lit(tt.value), e.env)
		if got.Inspect() != tt.expected.Inspect() {
			t.Errorf("lit(%v): got %s, want %s", tt.value, got.Inspect(), tt.expected.Inspect())
		}
	}
}

func TestEval_UnaryMinus(t *testing.T) {
	e := newEvaluator()
	got := e.eval(&ast.Unary{Operator: tok(token.MINUS, "-"), Right: lit(int64(5))}, e.env)
	i, ok := got.(*object.Integer)
	if !ok || i.Value != -5 {
		t.Errorf("expected -5, got %v", got.Inspect())
	}
}

func TestEval_UnaryNot(t *testing.T) {
	e := newEvaluator()
	got := e.eval(&ast.Unary{Operator: tok(token.NOT, "not"), Right: lit(false)}, e.env)
	if got != TRUE {
		t.Errorf("expected TRUE, got %v", got.Inspect())
	}
}

func TestEval_BinaryArithmetic(t *testing.T) {
	e := newEvaluator()
	expr := &ast.Binary{Left: lit(int64(4)), Operator: tok(token.PLUS, "+"), Right: lit(int64(3))}
	got := e.eval(expr, e.env)
	if i, ok := got.(*object.Integer); !ok || i.Value != 7 {
		t.Errorf("expected 7, got %v", got.Inspect())
	}
}

func TestEval_DivisionByZero(t *testing.T) {
	e := newEvaluator()
	expr := &ast.Binary{Left: lit(int64(1)), Operator: tok(token.SLASH, "/"), Right: lit(int64(0))}
	got := e.eval(expr, e.env)
	errObj, ok := got.(*object.Error)
	if !ok {
		t.Fatalf("expected an error, got %T", got)
	}
	rtErr, ok := errObj.Err.(*RuntimeError)
	if !ok {
		t.Fatalf("expected *RuntimeError, got %T", errObj.Err)
	}
	if rtErr.Token.Type != token.SLASH {
		t.Errorf("expected the SLASH token attached, got %v", rtErr.Token)
	}
}

func TestEval_TypeMismatchIsRuntimeError(t *testing.T) {
	e := newEvaluator()
	expr := &ast.Binary{Left: lit(int64(1)), Operator: tok(token.PLUS, "+"), Right: lit("x")}
	got := e.eval(expr, e.env)
	if _, ok := got.(*object.Error); !ok {
		t.Fatalf("expected an error for int+string, got %T", got)
	}
}

func TestEval_LogicalShortCircuit(t *testing.T) {
	e := newEvaluator()

	// False and <right never evaluated> -> returns left (FALSE) untouched.
	and := &ast.Logical{Left: lit(false), Operator: tok(token.AND, "and"), Right: lit(int64(99))}
	if got := e.eval(and, e.env); got != FALSE {
		t.Errorf("and short-circuit: expected FALSE, got %v", got.Inspect())
	}

	// 7 (truthy) or <right never evaluated> -> returns left verbatim.
	or := &ast.Logical{Left: lit(int64(7)), Operator: tok(token.OR, "or"), Right: lit(int64(99))}
	got := e.eval(or, e.env)
	if i, ok := got.(*object.Integer); !ok || i.Value != 7 {
		t.Errorf("or short-circuit: expected 7 (the raw left operand), got %v", got.Inspect())
	}
}

func TestEval_LogicalReturnsOperandNotBool(t *testing.T) {
	e := newEvaluator()
	and := &ast.Logical{Left: lit(int64(1)), Operator: tok(token.AND, "and"), Right: lit(int64(2))}
	got := e.eval(and, e.env)
	if i, ok := got.(*object.Integer); !ok || i.Value != 2 {
		t.Errorf("expected the raw right operand 2, got %v", got.Inspect())
	}
}

func TestEval_Ternary(t *testing.T) {
	e := newEvaluator()
	truthy := &ast.Ternary{Then: lit(int64(1)), Cond: lit(true), Otherwise: lit(int64(5))}
	if got := e.eval(truthy, e.env); got.Inspect() != "1" {
		t.Errorf("expected 1, got %s", got.Inspect())
	}
	falsy := &ast.Ternary{Then: lit(int64(1)), Cond: lit(false), Otherwise: lit(int64(5))}
	if got := e.eval(falsy, e.env); got.Inspect() != "5" {
		t.Errorf("expected 5, got %s", got.Inspect())
	}
}

func TestEval_VariableNameNotFound(t *testing.T) {
	e := newEvaluator()
	got := e.eval(&ast.Variable{Name: tok(token.IDENTIFIER, "missing")}, e.env)
	errObj, ok := got.(*object.Error)
	if !ok {
		t.Fatalf("expected an error, got %T", got)
	}
	if _, ok := errObj.Err.(*NameNotFoundError); !ok {
		t.Errorf("expected *NameNotFoundError, got %T", errObj.Err)
	}
}

func TestEval_AssignmentThenLookup(t *testing.T) {
	e := newEvaluator()
	e.exec(&ast.AssignmentStatement{Name: tok(token.IDENTIFIER, "a"), Value: lit(int64(1))}, e.env)
	got := e.eval(&ast.Variable{Name: tok(token.IDENTIFIER, "a")}, e.env)
	if got.Inspect() != "1" {
		t.Errorf("expected 1, got %s", got.Inspect())
	}
}

func TestEval_CommaExpressionOrdersValues(t *testing.T) {
	e := newEvaluator()
	comma := &ast.CommaExpression{Items: []ast.Expression{lit(int64(1)), lit(int64(2)), lit(int64(3))}}
	got := e.eval(comma, e.env)
	cr, ok := got.(*commaResult)
	if !ok || len(cr.Values) != 3 {
		t.Fatalf("expected a 3-element commaResult, got %v", got)
	}
	if cr.Values[0].Inspect() != "1" || cr.Values[2].Inspect() != "3" {
		t.Errorf("values out of order: %v", cr.Values)
	}
}

func TestEval_Truthiness(t *testing.T) {
	tests := []struct {
		obj      object.Object
		expected bool
	}{
		{&object.Null{}, false},
		{&object.Boolean{Value: false}, false},
		{&object.Integer{Value: 0}, false},
		{&object.Integer{Value: 1}, true},
		{&object.String{Value: ""}, false},
		{&object.String{Value: "x"}, true},
	}
	for _, tt := range tests {
		if isTruthy(tt.obj) != tt.expected {
			t.Errorf("isTruthy(%v) = %v, want %v", tt.obj.Inspect(), !tt.expected, tt.expected)
		}
	}
}
