// ==============================================================================================
// FILE: ast/ast.go
// ==============================================================================================
// PACKAGE: ast
// PURPOSE: Defines the Abstract Syntax Tree produced by the Parser and walked by the Evaluator.
//          Expression and Statement are tagged sum types: each concrete node implements one of
//          the two marker interfaces and knows how to render itself back to source-like text.
// ==============================================================================================

package ast

import (
	"bytes"
	"fmt"
	"strings"

	"apollo/token"
)

// Node is the root interface every AST node satisfies.
type Node interface {
	TokenLiteral() string
	String() string
}

// Expression is any node that evaluates to a runtime value.
type Expression interface {
	Node
	expressionNode()
}

// Statement is any node executed for effect.
type Statement interface {
	Node
	statementNode()
}

// Program is the root node: an ordered list of top-level statements.
type Program struct {
	Statements []Statement
}

func (p *Program) TokenLiteral() string {
	if len(p.Statements) > 0 {
		return p.Statements[0].TokenLiteral()
	}
	return ""
}

func (p *Program) String() string {
	var out bytes.Buffer
	for _, s := range p.Statements {
		out.WriteString(s.String())
	}
	return out.String()
}

// ------------------------------------------------------------------------------------------
// EXPRESSIONS
// ------------------------------------------------------------------------------------------

// Literal holds a constant value produced directly by a NUMBER, STRING, True,
// False, or None token. Value is one of int64, float64, string, bool, or nil
// (the None literal).
type Literal struct {
	Token token.Token
	Value interface{}
}

func (l *Literal) expressionNode()      {}
func (l *Literal) TokenLiteral() string { return l.Token.Lexeme }
func (l *Literal) String() string {
	switch v := l.Value.(type) {
	case nil:
		return "None"
	case string:
		return fmt.Sprintf("%q", v)
	default:
		return fmt.Sprintf("%v", v)
	}
}

// Variable is a reference to a bound name.
type Variable struct {
	Name token.Token
}

func (v *Variable) expressionNode()      {}
func (v *Variable) TokenLiteral() string { return v.Name.Lexeme }
func (v *Variable) String() string       { return v.Name.Lexeme }

// Unary is a prefix operator applied to a single operand: `-x`, `not x`, `!x`.
type Unary struct {
	Operator token.Token
	Right    Expression
}

func (u *Unary) expressionNode()      {}
func (u *Unary) TokenLiteral() string { return u.Operator.Lexeme }
func (u *Unary) String() string {
	return fmt.Sprintf("(%s%s)", u.Operator.Lexeme, u.Right.String())
}

// Binary is an arithmetic or comparison operator with two operands.
type Binary struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (b *Binary) expressionNode()      {}
func (b *Binary) TokenLiteral() string { return b.Operator.Lexeme }
func (b *Binary) String() string {
	return fmt.Sprintf("(%s %s %s)", b.Left.String(), b.Operator.Lexeme, b.Right.String())
}

// Logical is `and`/`or`; evaluated with short-circuiting, never coerced to bool.
type Logical struct {
	Left     Expression
	Operator token.Token
	Right    Expression
}

func (l *Logical) expressionNode()      {}
func (l *Logical) TokenLiteral() string { return l.Operator.Lexeme }
func (l *Logical) String() string {
	return fmt.Sprintf("(%s %s %s)", l.Left.String(), l.Operator.Lexeme, l.Right.String())
}

// Grouping is a parenthesized sub-expression, kept distinct so precedence is
// visible when printed back.
type Grouping struct {
	Inner Expression
}

func (g *Grouping) expressionNode()      {}
func (g *Grouping) TokenLiteral() string { return "(" }
func (g *Grouping) String() string       { return fmt.Sprintf("(%s)", g.Inner.String()) }

// Ternary is `Then if Cond else Otherwise`. IfTok/ElseTok are retained for
// diagnostics even though evaluation never needs them.
type Ternary struct {
	Then      Expression
	IfTok     token.Token
	Cond      Expression
	ElseTok   token.Token
	Otherwise Expression
}

func (t *Ternary) expressionNode()      {}
func (t *Ternary) TokenLiteral() string { return t.IfTok.Lexeme }
func (t *Ternary) String() string {
	return fmt.Sprintf("(%s if %s else %s)", t.Then.String(), t.Cond.String(), t.Otherwise.String())
}

// CommaExpression is a left-to-right sequence of expressions joined by `,`.
// It only appears when at least one comma was actually consumed; a single
// expression never gets wrapped in one.
type CommaExpression struct {
	Items []Expression
}

func (c *CommaExpression) expressionNode()      {}
func (c *CommaExpression) TokenLiteral() string { return "," }
func (c *CommaExpression) String() string {
	parts := make([]string, 0, len(c.Items))
	for _, item := range c.Items {
		parts = append(parts, item.String())
	}
	return strings.Join(parts, ", ")
}

// Call applies Callee to Args. Args is nil for a no-argument call, a single
// Expression for one positional argument, or a *CommaExpression for more
// than one. Paren is kept for diagnostics.
type Call struct {
	Callee Expression
	Paren  token.Token
	Args   Expression
}

func (c *Call) expressionNode()      {}
func (c *Call) TokenLiteral() string { return c.Paren.Lexeme }
func (c *Call) String() string {
	args := ""
	if c.Args != nil {
		args = c.Args.String()
	}
	return fmt.Sprintf("%s(%s)", c.Callee.String(), args)
}

// ------------------------------------------------------------------------------------------
// STATEMENTS
// ------------------------------------------------------------------------------------------

// ExpressionStatement wraps an expression evaluated for its value at the top
// level of a block (e.g. a bare call, or the REPL's result-producing line).
type ExpressionStatement struct {
	Expr Expression
}

func (e *ExpressionStatement) statementNode()     {}
func (e *ExpressionStatement) TokenLiteral() string {
	if e.Expr != nil {
		return e.Expr.TokenLiteral()
	}
	return ""
}
func (e *ExpressionStatement) String() string {
	if e.Expr != nil {
		return e.Expr.String()
	}
	return ""
}

// AssignmentStatement binds Value under Name in the current environment.
type AssignmentStatement struct {
	Name  token.Token
	Value Expression
}

func (a *AssignmentStatement) statementNode()      {}
func (a *AssignmentStatement) TokenLiteral() string { return a.Name.Lexeme }
func (a *AssignmentStatement) String() string {
	return fmt.Sprintf("%s = %s", a.Name.Lexeme, a.Value.String())
}

// Block is a sequence of statements bracketed by INDENT/DEDENT at a shared
// indent level.
type Block struct {
	Statements []Statement
}

func (b *Block) statementNode()      {}
func (b *Block) TokenLiteral() string { return "block" }
func (b *Block) String() string {
	var out bytes.Buffer
	for _, s := range b.Statements {
		out.WriteString("    ")
		out.WriteString(s.String())
		out.WriteString("\n")
	}
	return out.String()
}

// IfStmt is `if Cond: Then` optionally chained through Elif (itself an
// IfStmt) or terminated by Else. Elif and Else are mutually exclusive.
type IfStmt struct {
	Keyword token.Token
	Cond    Expression
	Then    *Block
	Elif    *IfStmt
	Else    *Block
}

func (i *IfStmt) statementNode()      {}
func (i *IfStmt) TokenLiteral() string { return i.Keyword.Lexeme }
func (i *IfStmt) String() string {
	var out bytes.Buffer
	out.WriteString("if ")
	out.WriteString(i.Cond.String())
	out.WriteString(":\n")
	out.WriteString(i.Then.String())
	if i.Elif != nil {
		out.WriteString("el")
		out.WriteString(i.Elif.String())
	} else if i.Else != nil {
		out.WriteString("else:\n")
		out.WriteString(i.Else.String())
	}
	return out.String()
}

// WhileStmt is `while Cond: Body` with an optional `else` block that runs
// after the loop exits naturally (there is no break/continue to short it).
type WhileStmt struct {
	Keyword token.Token
	Cond    Expression
	Body    *Block
	Else    *Block
}

func (w *WhileStmt) statementNode()      {}
func (w *WhileStmt) TokenLiteral() string { return w.Keyword.Lexeme }
func (w *WhileStmt) String() string {
	var out bytes.Buffer
	out.WriteString("while ")
	out.WriteString(w.Cond.String())
	out.WriteString(":\n")
	out.WriteString(w.Body.String())
	if w.Else != nil {
		out.WriteString("else:\n")
		out.WriteString(w.Else.String())
	}
	return out.String()
}

// FunctionDefinition binds a Function value under Name. Params only ever
// contains IDENTIFIER-kind Variables.
type FunctionDefinition struct {
	Name   token.Token
	Params []*Variable
	Body   *Block
}

func (f *FunctionDefinition) statementNode()      {}
func (f *FunctionDefinition) TokenLiteral() string { return f.Name.Lexeme }
func (f *FunctionDefinition) String() string {
	params := make([]string, 0, len(f.Params))
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	var out bytes.Buffer
	out.WriteString("def ")
	out.WriteString(f.Name.Lexeme)
	out.WriteString("(")
	out.WriteString(strings.Join(params, ", "))
	out.WriteString("):\n")
	out.WriteString(f.Body.String())
	return out.String()
}

// ReturnStmt unwinds the enclosing call with Value, or none if Value is nil.
type ReturnStmt struct {
	Keyword token.Token
	Value   Expression
}

func (r *ReturnStmt) statementNode()      {}
func (r *ReturnStmt) TokenLiteral() string { return r.Keyword.Lexeme }
func (r *ReturnStmt) String() string {
	if r.Value == nil {
		return "return"
	}
	return fmt.Sprintf("return %s", r.Value.String())
}
