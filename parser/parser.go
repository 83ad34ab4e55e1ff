package parser

import (
	"strconv"

	"scopejs/lexer"
)

type (
	unaryParser  func() Expr
	binaryParser func(Expr) Expr
)

type Parser struct {
	filename      string
	tokens        []lexer.Token
	Errors        []ParserError
	curr          int // how many we have consumed.
	unaryParsers  map[lexer.TokenType]unaryParser
	binaryParsers map[lexer.TokenType]binaryParser
	precedences   map[lexer.TokenType]int
}

const (
	PREC_LOWEST  = iota
	PREC_ASSIGN  // =, +=, -=
	PREC_OR      // ||
	PREC_AND     // &&
	PREC_EQ      // ==, !=, ===, !==
	PREC_CMP     // <=, <, >, >=
	PREC_SUM     // +, -
	PREC_PRODUCT // *, /, %
	PREC_UNARY   // !, -, +, typeof, delete, ++x
	PREC_POSTFIX // x++
	PREC_CALL    // (), ., []
)

// ====
// init
// ====

func New(fn string, tokens []lexer.Token) *Parser {
	p := &Parser{
		filename: fn,
		tokens:   tokens,
		Errors:   []ParserError{},
		curr:     0,
	}
	p.unaryParsers = map[lexer.TokenType]unaryParser{
		lexer.LEFT_PAREN:  p.grouping,
		lexer.LEFT_BRACE:  p.object,
		lexer.FUNCTION:    p.functionExpr,
		lexer.IDENTIFIER:  p.identifier,
		lexer.THIS:        p.this,
		lexer.NUMBER:      p.literal,
		lexer.STRING:      p.literal,
		lexer.TRUE:        p.literal,
		lexer.FALSE:       p.literal,
		lexer.NULL:        p.literal,
		lexer.BANG:        p.unary,
		lexer.MINUS:       p.unary,
		lexer.PLUS:        p.unary,
		lexer.TYPEOF:      p.unary,
		lexer.DELETE:      p.unary,
		lexer.PLUS_PLUS:   p.prefixUpdate,
		lexer.MINUS_MINUS: p.prefixUpdate,
	}
	// note: need to make sure that every entry in binaryParsers
	// has a corresponding entry in precedences.
	p.binaryParsers = map[lexer.TokenType]binaryParser{
		lexer.EQUAL:             p.assign,
		lexer.PLUS_EQUAL:        p.assign,
		lexer.MINUS_EQUAL:       p.assign,
		lexer.OR:                p.logical,
		lexer.AND:               p.logical,
		lexer.EQUAL_EQUAL:       p.binary,
		lexer.BANG_EQUAL:        p.binary,
		lexer.EQUAL_EQUAL_EQUAL: p.binary,
		lexer.BANG_EQUAL_EQUAL:  p.binary,
		lexer.GREATER:           p.binary,
		lexer.GREATER_EQUAL:     p.binary,
		lexer.LESS:              p.binary,
		lexer.LESS_EQUAL:        p.binary,
		lexer.PLUS:              p.binary,
		lexer.MINUS:             p.binary,
		lexer.STAR:              p.binary,
		lexer.SLASH:             p.binary,
		lexer.PERCENT:           p.binary,
		lexer.PLUS_PLUS:         p.postfixUpdate,
		lexer.MINUS_MINUS:       p.postfixUpdate,
		lexer.DOT:               p.get,
		lexer.LEFT_BRACKET:      p.index,
		lexer.LEFT_PAREN:        p.call,
	}
	p.precedences = map[lexer.TokenType]int{
		lexer.EQUAL:             PREC_ASSIGN,
		lexer.PLUS_EQUAL:        PREC_ASSIGN,
		lexer.MINUS_EQUAL:       PREC_ASSIGN,
		lexer.OR:                PREC_OR,
		lexer.AND:               PREC_AND,
		lexer.EQUAL_EQUAL:       PREC_EQ,
		lexer.BANG_EQUAL:        PREC_EQ,
		lexer.EQUAL_EQUAL_EQUAL: PREC_EQ,
		lexer.BANG_EQUAL_EQUAL:  PREC_EQ,
		lexer.GREATER:           PREC_CMP,
		lexer.GREATER_EQUAL:     PREC_CMP,
		lexer.LESS:              PREC_CMP,
		lexer.LESS_EQUAL:        PREC_CMP,
		lexer.PLUS:              PREC_SUM,
		lexer.MINUS:             PREC_SUM,
		lexer.STAR:              PREC_PRODUCT,
		lexer.SLASH:             PREC_PRODUCT,
		lexer.PERCENT:           PREC_PRODUCT,
		lexer.PLUS_PLUS:         PREC_POSTFIX,
		lexer.MINUS_MINUS:       PREC_POSTFIX,
		lexer.DOT:               PREC_CALL,
		lexer.LEFT_BRACKET:      PREC_CALL,
		lexer.LEFT_PAREN:        PREC_CALL,
	}
	return p
}

// =====
// utils
// =====

// consume consumes one token
func (p *Parser) consume() lexer.Token {
	if !p.isAtEnd() {
		p.curr++
	}
	return p.previous()
}

// previous returns the most recently consumed token
func (p *Parser) previous() lexer.Token {
	if p.curr == 0 {
		return p.tokens[0]
	}
	return p.tokens[p.curr-1]
}

// peek returns the token to be consumed
func (p *Parser) peek() lexer.Token { return p.tokens[p.curr] }

// isAtEnd returns true if the current token is an EOF token
func (p *Parser) isAtEnd() bool { return p.peek().Type == lexer.EOF }

// check returns if the peek token matches the given type
func (p *Parser) check(t lexer.TokenType) bool {
	return !p.isAtEnd() && p.peek().Type == t
}

// match consumes the token if it matches any of the given types
func (p *Parser) match(types ...lexer.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.consume()
			return true
		}
	}
	return false
}

// newline reports whether a line break separates the previous
// token from the next one.
func (p *Parser) newline() bool {
	return p.curr > 0 && p.peek().Line > p.previous().Line
}

// semicolon ends a statement. The semicolon may be left out before
// a }, at the end of input or at a line break.
func (p *Parser) semicolon(what string) {
	if p.match(lexer.SEMICOLON) {
		return
	}
	if p.isAtEnd() || p.check(lexer.RIGHT_BRACE) || p.newline() {
		return
	}
	p.error("expected ; after %s", what)
}

// ===========
// entry point
// ===========

// program → declaration*

func (p *Parser) Parse() *Program {
	program := &Program{Filename: p.filename, Body: []Stmt{}}
	for !p.isAtEnd() {
		if stmt := p.declaration(); stmt != nil {
			program.Body = append(program.Body, stmt)
		}
	}
	return program
}

// =================
// statement parsing
// =================
//
// lexical declarations are only allowed where a list of statements
// is expected; this is to disallow e.g.:
//   if (expr) let x = 1;
//
// the main entry point is the declaration rule:
//
//   declaration → let | const | function | statement
//   statement   → var | for | while | if | block | break | continue
//               | return | with | throw | try | ";" | exprStmt
//   var      → ("var" | "let" | "const") binding ("," binding)* ";"
//   binding  → IDENT ( "=" expression )?
//   function → "function" IDENT "(" params ")" "{" declaration* "}"
//   for      → "for" "(" (var | exprStmt | ";") expression? ";" expression? ")" statement
//   while    → "while" "(" expr ")" statement
//   if       → "if" "(" expr ")" statement ( "else" statement )?
//   block    → "{" declaration* "}"
//   return   → "return" expression? ";"
//   with     → "with" "(" expr ")" statement
//   throw    → "throw" expression ";"
//   try      → "try" block "catch" "(" IDENT ")" block
//
// note: since most of the if,for,... are keywords in Go,
// they are named __Stmt().

func (p *Parser) declaration() (stmt Stmt) {
	defer func() {
		// This will be called repeatedly as we parse statements, so
		// this is a good place to synchronize(). We have to make
		// sure that all top-level calls to parse statements/expressions
		// have a recover.
		if rv := recover(); rv != nil {
			if _, ok := rv.(ParserError); ok {
				p.synchronize()
				stmt = nil
				return
			}
			panic(rv)
		}
	}()
	switch {
	case p.check(lexer.LET), p.check(lexer.CONST):
		return p.varStmt()
	case p.check(lexer.FUNCTION):
		return p.functionStmt()
	}
	return p.statement()
}

// block parses declarations up to a closing brace.
func (p *Parser) block() []Stmt {
	stmts := []Stmt{}
	for !p.isAtEnd() && !p.check(lexer.RIGHT_BRACE) {
		if stmt := p.declaration(); stmt != nil {
			stmts = append(stmts, stmt)
		}
	}
	p.expect(lexer.RIGHT_BRACE, "unmatched {")
	return stmts
}

func (p *Parser) statement() Stmt {
	switch p.peek().Type {
	case lexer.VAR:
		return p.varStmt()
	case lexer.LET, lexer.CONST:
		p.error("lexical declaration cannot appear in a single-statement context")
	case lexer.FUNCTION:
		p.error("function declaration cannot appear in a single-statement context")
	case lexer.FOR:
		return p.forStmt()
	case lexer.WHILE:
		return p.whileStmt()
	case lexer.IF:
		return p.ifStmt()
	case lexer.LEFT_BRACE:
		return p.blockStmt()
	case lexer.CONTINUE:
		tok := p.consume()
		p.semicolon("continue")
		return &Continue{token{tok}}
	case lexer.BREAK:
		tok := p.consume()
		p.semicolon("break")
		return &Break{token{tok}}
	case lexer.RETURN:
		return p.returnStmt()
	case lexer.WITH:
		return p.withStmt()
	case lexer.THROW:
		return p.throwStmt()
	case lexer.TRY:
		return p.tryStmt()
	case lexer.SEMICOLON:
		return &Empty{token{p.consume()}}
	}
	return p.exprStmt()
}

func (p *Parser) varStmt() Stmt {
	decl := p.varDecl()
	p.semicolon("variable declaration")
	return decl
}

func (p *Parser) varDecl() *VarDecl {
	tok := p.consume()
	decl := &VarDecl{token: token{tok}, Kind: tok.Type}
	for {
		name := newIdentifier(p.expect(lexer.IDENTIFIER, "expected an identifier"))
		d := &Declarator{Name: name}
		if p.match(lexer.EQUAL) {
			d.Init = p.precedence(PREC_ASSIGN - 1)
		} else if tok.Type == lexer.CONST {
			p.report(name.Tok(), "missing initializer in const declaration")
		}
		decl.Decls = append(decl.Decls, d)
		if !p.match(lexer.COMMA) {
			break
		}
	}
	return decl
}

func (p *Parser) functionStmt() Stmt {
	tok := p.peek()
	fn := p.function(true)
	return &FunctionDecl{token{tok}, fn}
}

// function parses a function literal; the name is required for
// declarations.
func (p *Parser) function(named bool) *FunctionLit {
	tok := p.consume() // the 'function' token
	fn := &FunctionLit{token: token{tok}, Params: []*Identifier{}}
	if p.match(lexer.IDENTIFIER) {
		fn.Name = newIdentifier(p.previous())
	} else if named {
		p.error("expected a function name")
	}
	p.expect(lexer.LEFT_PAREN, "expected ( after function")
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			fn.Params = append(fn.Params, newIdentifier(p.expect(lexer.IDENTIFIER, "expected a parameter name")))
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	p.expect(lexer.LEFT_BRACE, "expected { before function body")
	fn.Body = p.block()
	return fn
}

func (p *Parser) forStmt() Stmt {
	tok := p.consume() // the 'for' token
	stmt := &For{token: token{tok}}
	p.expect(lexer.LEFT_PAREN, "expected (")
	switch {
	case p.match(lexer.SEMICOLON):
	case p.check(lexer.VAR), p.check(lexer.LET), p.check(lexer.CONST):
		stmt.Init = p.varDecl()
		p.expect(lexer.SEMICOLON, "expected ; after for initializer")
	default:
		expr := p.expression()
		stmt.Init = &ExprStmt{token{expr.Tok()}, expr}
		p.expect(lexer.SEMICOLON, "expected ; after for initializer")
	}
	if !p.check(lexer.SEMICOLON) {
		stmt.Cond = p.expression()
	}
	p.expect(lexer.SEMICOLON, "expected ; after for condition")
	if !p.check(lexer.RIGHT_PAREN) {
		stmt.Update = p.expression()
	}
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	stmt.Body = p.statement()
	return stmt
}

func (p *Parser) whileStmt() Stmt {
	tok := p.consume()
	p.expect(lexer.LEFT_PAREN, "expected (")
	cond := p.expression()
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	body := p.statement()
	return &While{token{tok}, cond, body}
}

func (p *Parser) ifStmt() Stmt {
	tok := p.consume()
	p.expect(lexer.LEFT_PAREN, "expected (")
	cond := p.expression()
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	then := p.statement()
	var elseStmt Stmt = nil
	if p.match(lexer.ELSE) {
		elseStmt = p.statement()
	}
	return &If{token{tok}, cond, then, elseStmt}
}

func (p *Parser) blockStmt() Stmt {
	tok := p.consume()
	return &Block{token{tok}, p.block()}
}

func (p *Parser) returnStmt() Stmt {
	tok := p.consume()
	stmt := &Return{token: token{tok}}
	if !p.check(lexer.SEMICOLON) && !p.check(lexer.RIGHT_BRACE) && !p.isAtEnd() && !p.newline() {
		stmt.Value = p.expression()
	}
	p.semicolon("return")
	return stmt
}

func (p *Parser) withStmt() Stmt {
	tok := p.consume()
	p.expect(lexer.LEFT_PAREN, "expected (")
	obj := p.expression()
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	body := p.statement()
	return &With{token{tok}, obj, body}
}

func (p *Parser) throwStmt() Stmt {
	tok := p.consume()
	if p.isAtEnd() || p.newline() {
		p.error("expected an expression after throw")
	}
	value := p.expression()
	p.semicolon("throw")
	return &Throw{token{tok}, value}
}

func (p *Parser) tryStmt() Stmt {
	tok := p.consume()
	p.expect(lexer.LEFT_BRACE, "expected { after try")
	body := &Block{token{p.previous()}, p.block()}
	p.expect(lexer.CATCH, "expected catch after try block")
	p.expect(lexer.LEFT_PAREN, "expected ( after catch")
	param := newIdentifier(p.expect(lexer.IDENTIFIER, "expected an identifier"))
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	p.expect(lexer.LEFT_BRACE, "expected { after catch")
	handler := &Block{token{p.previous()}, p.block()}
	return &Try{token{tok}, body, param, handler}
}

func (p *Parser) exprStmt() Stmt {
	expr := p.expression()
	p.semicolon("expression statement")
	return &ExprStmt{token{expr.Tok()}, expr}
}

// ==================
// expression parsing
// ==================

// expression matches a single expression.
func (p *Parser) expression() Expr { return p.precedence(PREC_LOWEST) }
func (p *Parser) precedence(prec int) Expr {
	unary, ok := p.unaryParsers[p.peek().Type]
	if !ok {
		if p.isAtEnd() {
			p.error("unexpected end of input")
		}
		p.error("not an expression: %s", p.peek().Type)
	}
	expr := unary()
	for prec < p.peekPrecedence() {
		expr = p.binaryParsers[p.peek().Type](expr)
	}
	return expr
}

func (p *Parser) peekPrecedence() int {
	typ := p.peek().Type
	if (typ == lexer.PLUS_PLUS || typ == lexer.MINUS_MINUS) && p.newline() {
		// a++ cannot span lines; the ++ starts the next statement.
		return PREC_LOWEST
	}
	if prec, ok := p.precedences[typ]; ok {
		return prec
	}
	return PREC_LOWEST
}

func (p *Parser) unary() Expr {
	tok := p.consume()
	return &Unary{token{tok}, tok.Type, p.precedence(PREC_UNARY - 1)}
}

func (p *Parser) prefixUpdate() Expr {
	tok := p.consume()
	target := p.precedence(PREC_UNARY - 1)
	p.checkTarget(target, "invalid update target")
	return &Update{token{tok}, tok.Type, true, target}
}

func (p *Parser) postfixUpdate(left Expr) Expr {
	tok := p.consume()
	p.checkTarget(left, "invalid update target")
	return &Update{token{tok}, tok.Type, false, left}
}

func (p *Parser) grouping() Expr {
	p.consume()
	expr := p.expression()
	p.expect(lexer.RIGHT_PAREN, "unmatched (")
	return expr
}

// checkTarget reports, without unwinding, expressions which cannot
// be assigned to.
func (p *Parser) checkTarget(target Expr, msg string) {
	switch target.(type) {
	case *Identifier, *Member:
	default:
		// this is not an error worth panicking over.
		// just move along -- we will put it in `.Errors'.
		p.report(target.Tok(), msg)
	}
}

func (p *Parser) assign(left Expr) Expr {
	tok := p.consume()
	right := p.precedence(PREC_ASSIGN - 1)
	p.checkTarget(left, "invalid assignment target")
	return &Assign{token{tok}, tok.Type, left, right}
}

func (p *Parser) get(left Expr) Expr {
	tok := p.consume()
	// we allow any names, including reserved words
	name := p.consume()
	if name.Type != lexer.IDENTIFIER && !lexer.IsKeyword(name.Type) {
		panic(p.report(name, "expected an identifier after ."))
	}
	return &Member{token: token{tok}, Object: left, Name: name.Lexeme}
}

func (p *Parser) index(left Expr) Expr {
	tok := p.consume()
	prop := p.expression()
	p.expect(lexer.RIGHT_BRACKET, "unmatched [")
	return &Member{token: token{tok}, Object: left, Property: prop, Computed: true}
}

func (p *Parser) call(left Expr) Expr {
	tok := p.consume()
	args := []Expr{}
	if !p.check(lexer.RIGHT_PAREN) {
		for {
			args = append(args, p.precedence(PREC_ASSIGN-1))
			if !p.match(lexer.COMMA) {
				break
			}
		}
	}
	p.expect(lexer.RIGHT_PAREN, "unclosed (")
	return &Call{token{tok}, left, args}
}

func (p *Parser) binary(left Expr) Expr {
	tok := p.consume()
	return &Binary{token{tok}, tok.Type, left, p.precedence(p.precedences[tok.Type])}
}

func (p *Parser) logical(left Expr) Expr {
	tok := p.consume()
	return &Logical{token{tok}, tok.Type, left, p.precedence(p.precedences[tok.Type])}
}

func (p *Parser) object() Expr {
	tok := p.consume()
	obj := &ObjectLit{token: token{tok}, Keys: []string{}, Values: []Expr{}}
	for !p.check(lexer.RIGHT_BRACE) {
		key := p.consume()
		switch {
		case key.Type == lexer.IDENTIFIER, lexer.IsKeyword(key.Type):
			obj.Keys = append(obj.Keys, key.Lexeme)
		case key.Type == lexer.STRING:
			obj.Keys = append(obj.Keys, key.Literal.(string))
		case key.Type == lexer.NUMBER:
			obj.Keys = append(obj.Keys, strconv.FormatFloat(key.Literal.(float64), 'f', -1, 64))
		default:
			panic(p.report(key, "expected a property name"))
		}
		p.expect(lexer.COLON, "expected : after property name")
		obj.Values = append(obj.Values, p.precedence(PREC_ASSIGN-1))
		if !p.match(lexer.COMMA) {
			break
		}
	}
	p.expect(lexer.RIGHT_BRACE, "unmatched {")
	return obj
}

func (p *Parser) functionExpr() Expr { return p.function(false) }

func (p *Parser) identifier() Expr { return newIdentifier(p.consume()) }
func (p *Parser) this() Expr       { return &This{token{p.consume()}} }

func (p *Parser) literal() Expr {
	tok := p.consume()
	lit := &Literal{token: token{tok}}
	switch tok.Type {
	case lexer.NUMBER, lexer.STRING:
		lit.Value = tok.Literal
	case lexer.TRUE:
		lit.Value = true
	case lexer.FALSE:
		lit.Value = false
	}
	return lit
}
