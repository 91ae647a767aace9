// ==============================================================================================
// FILE: evaluator/evaluator.go
// ==============================================================================================
// PACKAGE: evaluator
// PURPOSE: Implements the runtime execution engine.
//          It walks the AST produced by the parser and produces side effects (IO) or results
//          (Objects). It handles variable scoping, control flow, and error propagation.
// ==============================================================================================

package evaluator

import (
	"fmt"

	"github.com/rs/zerolog"

	"apollo/ast"
	"apollo/object"
	"apollo/token"
)

// Singletons for performance (avoid allocating new true/false/null objects constantly).
var (
	NULL  = &object.Null{}
	TRUE  = &object.Boolean{Value: true}
	FALSE = &object.Boolean{Value: false}
)

// log is a quiet structured logger, used only to record the NameNotFoundError
// occurrences that propagation policy asks to log before re-raising.
var log = zerolog.Nop()

// SetLogger installs the logger used for name-resolution failures. The
// cmd/apollo driver wires a real writer; tests leave the default no-op.
func SetLogger(l zerolog.Logger) {
	log = l
}

// Evaluator owns the two environments the evaluation contract describes:
// globals, seeded with host built-ins, and env, the current scope statements
// execute against.
type Evaluator struct {
	globals *object.Environment
	env     *object.Environment
}

// New builds an Evaluator whose env starts as a fresh scope enclosing the
// supplied globals.
func New(globals *object.Environment) *Evaluator {
	return &Evaluator{
		globals: globals,
		env:     object.NewEnclosedEnvironment(globals),
	}
}

// Interpret executes each statement in order against e's current
// environment, collecting the value produced by every ExpressionStatement
// (statements that produce no value contribute nothing to the result list).
// A name-resolution or runtime failure aborts the remainder of the batch.
func (e *Evaluator) Interpret(statements []ast.Statement) ([]object.Object, error) {
	var results []object.Object
	for _, stmt := range statements {
		val := e.execTopLevel(stmt)
		if isError(val) {
			return results, val.(*object.Error)
		}
		if _, ok := stmt.(*ast.ExpressionStatement); ok {
			results = append(results, val)
		}
	}
	return results, nil
}

// execTopLevel runs one top-level statement. The parser accepts a bare
// `return` outside any function, so a returnSignal can reach here with no
// call site left to consume it; it is converted into an ordinary runtime
// error instead of escaping as a process-killing panic.
func (e *Evaluator) execTopLevel(stmt ast.Statement) (result object.Object) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(*returnSignal)
			if !ok {
				panic(r)
			}
			result = newRuntimeError(sig.Keyword, "'return' outside function")
		}
	}()
	return e.exec(stmt, e.env)
}

// NameNotFoundError reports a failed environment lookup.
type NameNotFoundError struct {
	Name string
}

func (e *NameNotFoundError) Error() string {
	return fmt.Sprintf("name '%s' is not defined", e.Name)
}

// RuntimeError reports an evaluator-level failure: a type mismatch or
// division by zero in a Unary/Binary expression, a call of a non-callable
// value, or a `return` outside any function. Token is the offending operator,
// call paren, or `return` keyword, carried for diagnostics.
type RuntimeError struct {
	Token token.Token
	Msg   string
}

func (e *RuntimeError) Error() string { return e.Msg }

// returnSignal is the internal control-flow marker used to unwind from a
// ReturnStmt to the Call site that is waiting for it. It is never exposed as
// an object.Object to user code. Keyword is the `return` token, kept so a
// signal that escapes every call site can still be diagnosed with a line.
type returnSignal struct {
	Value   object.Object
	Keyword token.Token
}

func newError(format string, a ...interface{}) *object.Error {
	return &object.Error{Err: fmt.Errorf(format, a...)}
}

func newRuntimeError(op token.Token, format string, a ...interface{}) *object.Error {
	return &object.Error{Err: &RuntimeError{Token: op, Msg: fmt.Sprintf("%s: %s", op.Lexeme, fmt.Sprintf(format, a...))}}
}

func isError(obj object.Object) bool {
	if obj == nil {
		return false
	}
	_, ok := obj.(*object.Error)
	return ok
}

// ------------------------------------------------------------------------------------------
// STATEMENTS
// ------------------------------------------------------------------------------------------

// exec executes a Statement for effect, returning its value (for
// ExpressionStatement) or NULL otherwise. Errors travel back up as ordinary
// *object.Error return values. The internal returnSignal travels by panic and
// is recovered at the Call boundary (see unwrapCall) or, for a return outside
// any function, at the top by execTopLevel.
func (e *Evaluator) exec(stmt ast.Statement, env *object.Environment) (result object.Object) {
	switch node := stmt.(type) {
	case *ast.ExpressionStatement:
		return e.eval(node.Expr, env)

	case *ast.AssignmentStatement:
		val := e.eval(node.Value, env)
		if isError(val) {
			return val
		}
		env.Set(node.Name.Lexeme, val)
		return val

	case *ast.Block:
		return e.execBlock(node, env)

	case *ast.IfStmt:
		return e.execIf(node, env)

	case *ast.WhileStmt:
		return e.execWhile(node, env)

	case *ast.FunctionDefinition:
		fn := &object.Function{
			Parameters: node.Params,
			Body:       node.Body,
			Env:        env,
		}
		env.Set(node.Name.Lexeme, fn)
		return NULL

	case *ast.ReturnStmt:
		var val object.Object = NULL
		if node.Value != nil {
			val = e.eval(node.Value, env)
			if isError(val) {
				return val
			}
		}
		panic(&returnSignal{Value: val, Keyword: node.Keyword})
	}
	return newError("unknown statement type: %T", stmt)
}

func (e *Evaluator) execBlock(block *ast.Block, env *object.Environment) object.Object {
	var result object.Object = NULL
	for _, stmt := range block.Statements {
		result = e.exec(stmt, env)
		if isError(result) {
			return result
		}
	}
	return result
}

func (e *Evaluator) execIf(node *ast.IfStmt, env *object.Environment) object.Object {
	cond := e.eval(node.Cond, env)
	if isError(cond) {
		return cond
	}
	if isTruthy(cond) {
		return e.execBlock(node.Then, env)
	}
	if node.Elif != nil {
		return e.execIf(node.Elif, env)
	}
	if node.Else != nil {
		return e.execBlock(node.Else, env)
	}
	return NULL
}

func (e *Evaluator) execWhile(node *ast.WhileStmt, env *object.Environment) object.Object {
	var result object.Object = NULL
	for {
		cond := e.eval(node.Cond, env)
		if isError(cond) {
			return cond
		}
		if !isTruthy(cond) {
			break
		}
		result = e.execBlock(node.Body, env)
		if isError(result) {
			return result
		}
	}
	if node.Else != nil {
		return e.execBlock(node.Else, env)
	}
	return result
}

// ------------------------------------------------------------------------------------------
// EXPRESSIONS
// ------------------------------------------------------------------------------------------

func (e *Evaluator) eval(node ast.Expression, env *object.Environment) object.Object {
	switch node := node.(type) {
	case *ast.Literal:
		return evalLiteral(node)

	case *ast.Grouping:
		return e.eval(node.Inner, env)

	case *ast.Variable:
		val, ok := env.Get(node.Name.Lexeme)
		if !ok {
			err := &NameNotFoundError{Name: node.Name.Lexeme}
			log.Debug().Str("name", node.Name.Lexeme).Int("line", node.Name.Line).Msg("name not found")
			return &object.Error{Err: err}
		}
		return val

	case *ast.Unary:
		right := e.eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalUnary(node.Operator, right)

	case *ast.Binary:
		left := e.eval(node.Left, env)
		if isError(left) {
			return left
		}
		right := e.eval(node.Right, env)
		if isError(right) {
			return right
		}
		return e.evalBinary(node.Operator, left, right)

	case *ast.Logical:
		left := e.eval(node.Left, env)
		if isError(left) {
			return left
		}
		if node.Operator.Type == token.AND {
			if !isTruthy(left) {
				return left
			}
			return e.eval(node.Right, env)
		}
		// OR
		if isTruthy(left) {
			return left
		}
		return e.eval(node.Right, env)

	case *ast.Ternary:
		cond := e.eval(node.Cond, env)
		if isError(cond) {
			return cond
		}
		if isTruthy(cond) {
			return e.eval(node.Then, env)
		}
		return e.eval(node.Otherwise, env)

	case *ast.CommaExpression:
		values := make([]object.Object, 0, len(node.Items))
		for _, item := range node.Items {
			val := e.eval(item, env)
			if isError(val) {
				return val
			}
			values = append(values, val)
		}
		return &commaResult{Values: values}

	case *ast.Call:
		return e.evalCall(node, env)
	}
	return newError("unknown expression type: %T", node)
}

// commaResult is the internal vehicle for a CommaExpression's ordered
// values. It is only ever produced as the intermediate Args of a Call and is
// never visible as a standalone result; the language has no user-facing
// sequence type.
type commaResult struct {
	Values []object.Object
}

func (c *commaResult) Type() object.ObjectType { return "COMMA_OBJ" }
func (c *commaResult) Inspect() string         { return fmt.Sprintf("%v", c.Values) }

func evalLiteral(node *ast.Literal) object.Object {
	switch v := node.Value.(type) {
	case nil:
		return NULL
	case bool:
		return nativeBoolToBooleanObject(v)
	case int64:
		return &object.Integer{Value: v}
	case float64:
		return &object.Float{Value: v}
	case string:
		return &object.String{Value: v}
	default:
		return newError("unsupported literal value: %v", v)
	}
}

func (e *Evaluator) evalUnary(op token.Token, right object.Object) object.Object {
	switch op.Type {
	case token.MINUS:
		switch r := right.(type) {
		case *object.Integer:
			return &object.Integer{Value: -r.Value}
		case *object.Float:
			return &object.Float{Value: -r.Value}
		default:
			return newRuntimeError(op, "unsupported operand type for unary minus: %s", right.Type())
		}
	case token.BANG, token.NOT:
		return nativeBoolToBooleanObject(!isTruthy(right))
	default:
		return newRuntimeError(op, "unknown unary operator")
	}
}

func (e *Evaluator) evalBinary(op token.Token, left, right object.Object) object.Object {
	switch {
	case isNumeric(left) && isNumeric(right):
		return evalNumericBinary(op, left, right)
	case isString(left) && isString(right):
		return evalStringBinary(op, left.(*object.String), right.(*object.String))
	default:
		switch op.Type {
		case token.EQUAL:
			return nativeBoolToBooleanObject(objectsEqual(left, right))
		case token.NEQUAL:
			return nativeBoolToBooleanObject(!objectsEqual(left, right))
		}
		return newRuntimeError(op, "unsupported operand types: %s and %s", left.Type(), right.Type())
	}
}

func isNumeric(obj object.Object) bool {
	switch obj.(type) {
	case *object.Integer, *object.Float:
		return true
	}
	return false
}

func isString(obj object.Object) bool {
	_, ok := obj.(*object.String)
	return ok
}

func asFloat(obj object.Object) float64 {
	switch v := obj.(type) {
	case *object.Integer:
		return float64(v.Value)
	case *object.Float:
		return v.Value
	}
	return 0
}

func bothInteger(left, right object.Object) bool {
	_, lok := left.(*object.Integer)
	_, rok := right.(*object.Integer)
	return lok && rok
}

func evalNumericBinary(op token.Token, left, right object.Object) object.Object {
	if bothInteger(left, right) {
		l := left.(*object.Integer).Value
		r := right.(*object.Integer).Value
		switch op.Type {
		case token.PLUS:
			return &object.Integer{Value: l + r}
		case token.MINUS:
			return &object.Integer{Value: l - r}
		case token.STAR:
			return &object.Integer{Value: l * r}
		case token.SLASH:
			if r == 0 {
				return newRuntimeError(op, "division by zero")
			}
			return &object.Integer{Value: l / r}
		case token.LESSER:
			return nativeBoolToBooleanObject(l < r)
		case token.LEQUAL:
			return nativeBoolToBooleanObject(l <= r)
		case token.GREATER:
			return nativeBoolToBooleanObject(l > r)
		case token.GEQUAL:
			return nativeBoolToBooleanObject(l >= r)
		case token.EQUAL:
			return nativeBoolToBooleanObject(l == r)
		case token.NEQUAL:
			return nativeBoolToBooleanObject(l != r)
		}
		return newRuntimeError(op, "unknown integer operator")
	}

	l, r := asFloat(left), asFloat(right)
	switch op.Type {
	case token.PLUS:
		return &object.Float{Value: l + r}
	case token.MINUS:
		return &object.Float{Value: l - r}
	case token.STAR:
		return &object.Float{Value: l * r}
	case token.SLASH:
		if r == 0 {
			return newRuntimeError(op, "division by zero")
		}
		return &object.Float{Value: l / r}
	case token.LESSER:
		return nativeBoolToBooleanObject(l < r)
	case token.LEQUAL:
		return nativeBoolToBooleanObject(l <= r)
	case token.GREATER:
		return nativeBoolToBooleanObject(l > r)
	case token.GEQUAL:
		return nativeBoolToBooleanObject(l >= r)
	case token.EQUAL:
		return nativeBoolToBooleanObject(l == r)
	case token.NEQUAL:
		return nativeBoolToBooleanObject(l != r)
	}
	return newRuntimeError(op, "unknown float operator")
}

func evalStringBinary(op token.Token, left, right *object.String) object.Object {
	switch op.Type {
	case token.PLUS:
		return &object.String{Value: left.Value + right.Value}
	case token.EQUAL:
		return nativeBoolToBooleanObject(left.Value == right.Value)
	case token.NEQUAL:
		return nativeBoolToBooleanObject(left.Value != right.Value)
	case token.LESSER:
		return nativeBoolToBooleanObject(left.Value < right.Value)
	case token.LEQUAL:
		return nativeBoolToBooleanObject(left.Value <= right.Value)
	case token.GREATER:
		return nativeBoolToBooleanObject(left.Value > right.Value)
	case token.GEQUAL:
		return nativeBoolToBooleanObject(left.Value >= right.Value)
	}
	return newRuntimeError(op, "unsupported operand types: STRING and STRING")
}

func objectsEqual(left, right object.Object) bool {
	if left.Type() != right.Type() {
		return false
	}
	switch l := left.(type) {
	case *object.Boolean:
		return l.Value == right.(*object.Boolean).Value
	case *object.Null:
		return true
	}
	return left.Inspect() == right.Inspect()
}

func (e *Evaluator) evalCall(node *ast.Call, env *object.Environment) object.Object {
	callee := e.eval(node.Callee, env)
	if isError(callee) {
		return callee
	}

	var args []object.Object
	switch a := node.Args.(type) {
	case nil:
		// no arguments
	case *ast.CommaExpression:
		val := e.eval(a, env)
		if isError(val) {
			return val
		}
		args = val.(*commaResult).Values
	default:
		val := e.eval(a, env)
		if isError(val) {
			return val
		}
		args = []object.Object{val}
	}

	return e.applyFunction(callee, args, node.Paren)
}

// applyFunction binds parameters positionally. Arity is not checked: excess
// arguments are simply ignored, and a parameter left without a matching
// argument is never bound at all, so it only fails later — as an ordinary
// NameNotFoundError — if the body actually references it.
func (e *Evaluator) applyFunction(fn object.Object, args []object.Object, paren token.Token) object.Object {
	switch fn := fn.(type) {
	case *object.Builtin:
		return fn.Fn(args...)

	case *object.Function:
		callEnv := object.NewEnclosedEnvironment(e.globals)
		for i, param := range fn.Parameters {
			if i >= len(args) {
				break
			}
			callEnv.Set(param.Name.Lexeme, args[i])
		}
		return e.unwrapCall(fn.Body, callEnv)

	default:
		return newRuntimeError(paren, "not callable: %s", fn.Type())
	}
}

// unwrapCall executes a function body, converting a returnSignal panic into
// the call's result value. This is the language-neutral replacement for the
// source interpreter's exception-based non-local return: the panic/recover
// pair never escapes applyFunction.
func (e *Evaluator) unwrapCall(body *ast.Block, env *object.Environment) (result object.Object) {
	defer func() {
		if r := recover(); r != nil {
			sig, ok := r.(*returnSignal)
			if !ok {
				panic(r)
			}
			result = sig.Value
		}
	}()
	result = e.execBlock(body, env)
	if isError(result) {
		return result
	}
	return NULL
}

func nativeBoolToBooleanObject(b bool) *object.Boolean {
	if b {
		return TRUE
	}
	return FALSE
}

// isTruthy mirrors Python-like truthiness: false, None, zero, and the empty
// string are falsy; everything else is truthy.
func isTruthy(obj object.Object) bool {
	switch o := obj.(type) {
	case *object.Null:
		return false
	case *object.Boolean:
		return o.Value
	case *object.Integer:
		return o.Value != 0
	case *object.Float:
		return o.Value != 0
	case *object.String:
		return o.Value != ""
	default:
		return true
	}
}
