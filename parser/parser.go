// ==============================================================================================
// FILE: parser/parser.go
// ==============================================================================================
// PACKAGE: parser
// PURPOSE: Recursive-descent parser. Consumes the Lexer's token stream and builds the
//          Expression/Statement AST the evaluator walks: a fixed precedence ladder for
//          expressions and INDENT/DEDENT-delimited blocks for statements.
// ==============================================================================================

package parser

import (
	"fmt"

	"apollo/ast"
	"apollo/lexer"
	"apollo/token"
)

// ParseError is a syntactic failure. It carries the offending token so a
// driver can render "[line N] Error at end: MSG" / "[line N] Error at TYPE
// LEXEME: MSG" diagnostics.
type ParseError struct {
	Token token.Token
	Msg   string
}

func (e *ParseError) Error() string {
	if e.Token.Type == token.EOF {
		return fmt.Sprintf("[line %d] Error at end: %s", e.Token.Line, e.Msg)
	}
	return fmt.Sprintf("[line %d] Error at %s %s: %s", e.Token.Line, e.Token.Type, e.Token.Lexeme, e.Msg)
}

// Parser is a recursive-descent parser with one token of lookahead over a
// Lexer's token stream.
type Parser struct {
	l *lexer.Lexer

	cur  token.Token
	peek token.Token

	lexErr error
	errors []*ParseError
}

// New constructs a Parser and primes cur/peek from l.
func New(l *lexer.Lexer) *Parser {
	p := &Parser{l: l}
	p.advance()
	p.advance()
	return p
}

// advance shifts peek into cur and pulls the next token from the lexer,
// returning the token that was current before the shift. Once a lexer error
// has been observed, advance stops pulling further tokens and parks the
// stream at a synthetic EOF so parsing can unwind instead of looping.
func (p *Parser) advance() token.Token {
	prev := p.cur
	p.cur = p.peek
	if p.lexErr != nil {
		p.peek = token.Token{Type: token.EOF, Line: p.cur.Line}
		return prev
	}
	tok, err := p.l.NextToken()
	if err != nil {
		p.lexErr = err
		p.peek = token.Token{Type: token.EOF, Line: p.cur.Line}
		return prev
	}
	p.peek = tok
	return prev
}

// isAtEnd reports end-of-stream: EOF, or any DEDENT in the run the lexer's
// handleEOF queues before its own EOF when one or more indentation levels
// are still open at end of input. A DEDENT can only reach here without a
// preceding NEWLINE when the lexer synthesized it while closing out the file
// (see lexer.Lexer.handleEOF); in an error-free parse a mid-program DEDENT is
// always consumed by the Block it closes before control returns this far up,
// so treating every DEDENT as "at end" is safe regardless of how many levels
// close at once. The one exception is a DEDENT that synchronize stops on after
// an error inside a block; Parse steps over that one at top level.
func (p *Parser) isAtEnd() bool {
	return p.cur.Type == token.EOF || p.cur.Type == token.DEDENT
}

// skipBlankLines consumes stray NEWLINE tokens produced by blank or
// comment-only source lines. The lexer emits a NEWLINE for every newline
// character it sees; without this filter a blank line between two statements
// would dead-end the parser on a bare NEWLINE where a statement was
// expected.
func (p *Parser) skipBlankLines() {
	for p.cur.Type == token.NEWLINE {
		p.advance()
	}
}

func (p *Parser) fail(format string, a ...interface{}) {
	panic(&ParseError{Token: p.cur, Msg: fmt.Sprintf(format, a...)})
}

// expect requires the current token to have type t, consumes it, and
// returns it; otherwise it fails with the current token as the offender.
func (p *Parser) expect(t token.TokenType, format string, a ...interface{}) token.Token {
	if p.cur.Type != t {
		p.fail(format, a...)
	}
	tok := p.cur
	p.advance()
	return tok
}

// Errors returns every parse error recovered during the most recent Parse
// call, in encounter order. The public Parse operation still re-raises the
// first one; Errors exists for tools that want the full list.
func (p *Parser) Errors() []*ParseError { return p.errors }

// Parse returns the program's top-level statements. A lexer failure aborts
// immediately with no recovery. A parse failure is recovered past via
// synchronize so multiple errors can be collected (see Errors), but Parse
// itself still surfaces the first one.
func (p *Parser) Parse() ([]ast.Statement, error) {
	var statements []ast.Statement

	for {
		p.skipBlankLines()
		// Blocks consume their own DEDENT, so one seen here was left behind by
		// synchronize; skip it so later statements are still parsed.
		if p.cur.Type == token.DEDENT {
			p.advance()
			continue
		}
		if p.isAtEnd() {
			break
		}
		if p.lexErr != nil {
			return statements, p.lexErr
		}
		if stmt := p.parseStatementRecovering(); stmt != nil {
			statements = append(statements, stmt)
		}
	}

	if p.lexErr != nil {
		return statements, p.lexErr
	}
	if len(p.errors) > 0 {
		return statements, p.errors[0]
	}
	return statements, nil
}

func (p *Parser) parseStatementRecovering() (stmt ast.Statement) {
	defer func() {
		if r := recover(); r != nil {
			perr, ok := r.(*ParseError)
			if !ok {
				panic(r)
			}
			p.errors = append(p.errors, perr)
			p.synchronize()
			stmt = nil
		}
	}()
	return p.parseStatement()
}

// synchronize advances past the offending token, then consumes tokens until
// either the token just consumed was a NEWLINE or the current token starts a
// new statement.
func (p *Parser) synchronize() {
	last := p.advance()
	for !p.isAtEnd() {
		if last.Type == token.NEWLINE {
			return
		}
		switch p.cur.Type {
		case token.CLASS, token.DEF, token.FOR, token.IF, token.WHILE, token.RETURN:
			return
		}
		last = p.advance()
	}
}

// ------------------------------------------------------------------------------------------
// STATEMENTS
// ------------------------------------------------------------------------------------------

func (p *Parser) parseStatement() ast.Statement {
	if p.cur.Type == token.IDENTIFIER && p.peek.Type == token.ASSIGN {
		return p.parseAssignment()
	}
	switch p.cur.Type {
	case token.IF:
		return p.parseIfStmt()
	case token.WHILE:
		return p.parseWhile()
	case token.DEF:
		return p.parseDef()
	case token.RETURN:
		return p.parseReturn()
	default:
		return p.parseExpressionStatement()
	}
}

// consumeStatementEnd requires a NEWLINE terminator, except when the parser
// is already at end-of-stream, so files that end without a final newline
// still parse.
func (p *Parser) consumeStatementEnd() {
	if p.isAtEnd() {
		return
	}
	p.expect(token.NEWLINE, "expect newline after statement")
}

func (p *Parser) parseAssignment() ast.Statement {
	name := p.cur
	p.advance() // IDENTIFIER
	p.advance() // ASSIGN
	value := p.parseExpression()
	p.consumeStatementEnd()
	return &ast.AssignmentStatement{Name: name, Value: value}
}

func (p *Parser) parseExpressionStatement() ast.Statement {
	expr := p.parseExpression()
	p.consumeStatementEnd()
	return &ast.ExpressionStatement{Expr: expr}
}

// parseIfStmt parses `if Cond: Block`, optionally chained through `elif`
// (itself a nested IfStmt) or terminated by a mutually exclusive `else`.
func (p *Parser) parseIfStmt() *ast.IfStmt {
	keyword := p.cur
	p.advance() // IF or ELIF
	cond := p.parseCondition()
	p.expect(token.COLON, "expect ':' after condition")
	then := p.parseBlock()

	stmt := &ast.IfStmt{Keyword: keyword, Cond: cond, Then: then}
	switch p.cur.Type {
	case token.ELIF:
		stmt.Elif = p.parseIfStmt()
	case token.ELSE:
		p.advance()
		p.expect(token.COLON, "expect ':' after else")
		stmt.Else = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseWhile() ast.Statement {
	keyword := p.cur
	p.advance() // WHILE
	cond := p.parseCondition()
	p.expect(token.COLON, "expect ':' after condition")
	body := p.parseBlock()

	stmt := &ast.WhileStmt{Keyword: keyword, Cond: cond, Body: body}
	if p.cur.Type == token.ELSE {
		p.advance()
		p.expect(token.COLON, "expect ':' after else")
		stmt.Else = p.parseBlock()
	}
	return stmt
}

func (p *Parser) parseDef() ast.Statement {
	p.advance() // DEF
	name := p.expect(token.IDENTIFIER, "expect function name after 'def'")
	p.expect(token.LPAREN, "expect '(' after function name")
	params := p.parseParams()
	p.expect(token.RPAREN, "expect ')' after parameters")
	p.expect(token.COLON, "expect ':' after function signature")
	body := p.parseBlock()
	return &ast.FunctionDefinition{Name: name, Params: params, Body: body}
}

func (p *Parser) parseParams() []*ast.Variable {
	var params []*ast.Variable
	if p.cur.Type == token.RPAREN {
		return params
	}
	params = append(params, &ast.Variable{Name: p.expect(token.IDENTIFIER, "expect parameter name")})
	for p.cur.Type == token.COMMA {
		p.advance()
		params = append(params, &ast.Variable{Name: p.expect(token.IDENTIFIER, "expect parameter name")})
	}
	return params
}

func (p *Parser) parseReturn() ast.Statement {
	keyword := p.cur
	p.advance() // RETURN
	var value ast.Expression
	if p.cur.Type != token.NEWLINE && !p.isAtEnd() {
		value = p.parseExpression()
	}
	p.consumeStatementEnd()
	return &ast.ReturnStmt{Keyword: keyword, Value: value}
}

// parseBlock parses `NEWLINE INDENT statement+ DEDENT`, consuming the
// closing DEDENT itself.
func (p *Parser) parseBlock() *ast.Block {
	p.expect(token.NEWLINE, "expect newline before indented block")
	p.skipBlankLines()
	p.expect(token.INDENT, "expect an indented block")

	block := &ast.Block{}
	for {
		p.skipBlankLines()
		if p.cur.Type == token.DEDENT || p.isAtEnd() {
			break
		}
		if stmt := p.parseStatement(); stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}
	p.expect(token.DEDENT, "expect dedent to close block")
	return block
}

// ------------------------------------------------------------------------------------------
// EXPRESSIONS — the precedence ladder, low to high:
// disjunction, conjunction, expression (comma), ternary, equality,
// comparison, term, factor, unary, call, primary.
// ------------------------------------------------------------------------------------------

// parseExpression is the general "full expression" entry point used for
// assignment/return values, plain expression statements, parenthesized
// groups, and call arguments. It reaches every level including `and`/`or`
// and top-level commas.
func (p *Parser) parseExpression() ast.Expression {
	return p.parseDisjunction()
}

func (p *Parser) parseDisjunction() ast.Expression {
	left := p.parseConjunction()
	for p.cur.Type == token.OR {
		op := p.cur
		p.advance()
		right := p.parseConjunction()
		left = &ast.Logical{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseConjunction() ast.Expression {
	left := p.parseCommaExpr()
	for p.cur.Type == token.AND {
		op := p.cur
		p.advance()
		right := p.parseCommaExpr()
		left = &ast.Logical{Left: left, Operator: op, Right: right}
	}
	return left
}

// parseCommaExpr implements the "expression" row of the table: a
// left-to-right run of ternaries joined by `,`, collapsing to the single
// ternary when no comma was consumed.
func (p *Parser) parseCommaExpr() ast.Expression {
	first := p.parseTernary()
	if p.cur.Type != token.COMMA {
		return first
	}
	items := []ast.Expression{first}
	for p.cur.Type == token.COMMA {
		p.advance()
		items = append(items, p.parseTernary())
	}
	return &ast.CommaExpression{Items: items}
}

// parseCondition is the restricted entry point used by `if`/`while`:
// disjunction and conjunction still apply, but conjunction's operands are
// parsed at the ternary level directly, skipping the comma production. A
// bare comma in a condition is therefore a syntax error; a parenthesized
// comma expression is still fine.
func (p *Parser) parseCondition() ast.Expression {
	left := p.parseConditionConjunction()
	for p.cur.Type == token.OR {
		op := p.cur
		p.advance()
		right := p.parseConditionConjunction()
		left = &ast.Logical{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseConditionConjunction() ast.Expression {
	left := p.parseTernary()
	for p.cur.Type == token.AND {
		op := p.cur
		p.advance()
		right := p.parseTernary()
		left = &ast.Logical{Left: left, Operator: op, Right: right}
	}
	return left
}

// parseTernary: `equality (if equality else equality)?`. The condition and
// both branches are equality-level — a ternary's subparts cannot themselves
// contain a bare `if`.
func (p *Parser) parseTernary() ast.Expression {
	then := p.parseEquality()
	if p.cur.Type != token.IF {
		return then
	}
	ifTok := p.cur
	p.advance()
	cond := p.parseEquality()
	elseTok := p.expect(token.ELSE, "expect 'else' in ternary expression")
	otherwise := p.parseEquality()
	return &ast.Ternary{Then: then, IfTok: ifTok, Cond: cond, ElseTok: elseTok, Otherwise: otherwise}
}

func (p *Parser) parseEquality() ast.Expression {
	left := p.parseComparison()
	for p.cur.Type == token.EQUAL || p.cur.Type == token.NEQUAL {
		op := p.cur
		p.advance()
		right := p.parseComparison()
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseComparison() ast.Expression {
	left := p.parseTerm()
	for isComparisonOp(p.cur.Type) {
		op := p.cur
		p.advance()
		right := p.parseTerm()
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

func isComparisonOp(t token.TokenType) bool {
	switch t {
	case token.LESSER, token.LEQUAL, token.GREATER, token.GEQUAL:
		return true
	}
	return false
}

func (p *Parser) parseTerm() ast.Expression {
	left := p.parseFactor()
	for p.cur.Type == token.PLUS || p.cur.Type == token.MINUS {
		op := p.cur
		p.advance()
		right := p.parseFactor()
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

// parseFactor is `unary (('*' | '/') unary)*`. PERCENT is tokenized but not
// consumed by any production — a stray `%` surfaces as an ordinary parse
// error wherever it appears.
func (p *Parser) parseFactor() ast.Expression {
	left := p.parseUnary()
	for p.cur.Type == token.STAR || p.cur.Type == token.SLASH {
		op := p.cur
		p.advance()
		right := p.parseUnary()
		left = &ast.Binary{Left: left, Operator: op, Right: right}
	}
	return left
}

func (p *Parser) parseUnary() ast.Expression {
	if p.cur.Type == token.BANG || p.cur.Type == token.MINUS || p.cur.Type == token.NOT {
		op := p.cur
		p.advance()
		right := p.parseUnary()
		return &ast.Unary{Operator: op, Right: right}
	}
	return p.parseCall()
}

// parseCall consumes at most one `(args?)` suffix per primary — chained
// calls like `f()()` are unsupported.
func (p *Parser) parseCall() ast.Expression {
	expr := p.parsePrimary()
	if p.cur.Type == token.LPAREN {
		paren := p.cur
		p.advance()
		var args ast.Expression
		if p.cur.Type != token.RPAREN {
			args = p.parseExpression()
		}
		p.expect(token.RPAREN, "expect ')' after arguments")
		expr = &ast.Call{Callee: expr, Paren: paren, Args: args}
	}
	return expr
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.cur
	switch tok.Type {
	case token.TRUE:
		p.advance()
		return &ast.Literal{Token: tok, Value: true}
	case token.FALSE:
		p.advance()
		return &ast.Literal{Token: tok, Value: false}
	case token.NONE:
		p.advance()
		return &ast.Literal{Token: tok, Value: nil}
	case token.NUMBER, token.STRING:
		p.advance()
		return &ast.Literal{Token: tok, Value: tok.Literal}
	case token.IDENTIFIER:
		p.advance()
		return &ast.Variable{Name: tok}
	case token.LPAREN:
		p.advance()
		inner := p.parseExpression()
		p.expect(token.RPAREN, "expect ')' after expression")
		return &ast.Grouping{Inner: inner}
	}
	p.fail("expect expression")
	return nil // unreachable: fail panics
}
