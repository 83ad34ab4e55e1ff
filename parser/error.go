package parser

import (
	"fmt"

	"scopejs/lexer"
)

// Represents a parsing error. We use this internally to signal
// that we cannot continue parsing some expression/statement --
// as opposed to minor errors like assigning to a literal.
type ParserError struct {
	Filename string
	Token    lexer.Token
	Message  string
}

func (e ParserError) Error() string { return e.String() }
func (e ParserError) String() string {
	return fmt.Sprintf("%s:%d:%d: %s", e.Filename, e.Token.Line, e.Token.Column, e.Message)
}

// ErrorList returns the parser errors as a slice of error values.
func (p *Parser) ErrorList() []error {
	errs := make([]error, len(p.Errors))
	for i, e := range p.Errors {
		errs[i] = e
	}
	return errs
}

// report records an error without unwinding.
func (p *Parser) report(tok lexer.Token, s string, args ...interface{}) ParserError {
	err := ParserError{
		Filename: p.filename,
		Token:    tok,
		Message:  fmt.Sprintf(s, args...),
	}
	p.Errors = append(p.Errors, err)
	return err
}

// error records an error at the next token and unwinds to the
// closest declaration().
func (p *Parser) error(s string, args ...interface{}) {
	panic(p.report(p.peek(), s, args...))
}

func (p *Parser) expect(typ lexer.TokenType, s string, args ...interface{}) lexer.Token {
	if !p.match(typ) {
		p.error(s, args...)
	}
	return p.previous()
}

// synchronize synchronizes the parser by discarding tokens
// until we reach a token which starts a statement. This means
// that cascading errors are discarded, and we still report as
// many errors as possible.
func (p *Parser) synchronize() {
	p.consume()
	for !p.isAtEnd() {
		if p.previous().Type == lexer.SEMICOLON {
			return
		}
		switch p.peek().Type {
		case lexer.VAR, lexer.LET, lexer.CONST, lexer.FUNCTION,
			lexer.IF, lexer.FOR, lexer.WHILE, lexer.RETURN,
			lexer.THROW, lexer.TRY, lexer.WITH:
			return
		}
		p.consume()
	}
}
