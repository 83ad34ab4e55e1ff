package lexer_test

import (
	"testing"

	"scopejs/lexer"
)

func TestLexer(t *testing.T) {
	lex := lexer.New("", `
var counter = Object.freeze({ n: 1 });
let name = "阿福";
/* block
   comment */
21.50 === 2.10; // trailing
function f(a, b) { return a !== b && !a || typeof b == 'x' }`)
	lex.ScanTokens()
	if len(lex.Errors) != 0 {
		t.Errorf("failed: expected no errors, got:")
		for _, x := range lex.Errors {
			t.Log(x)
		}
	}
	t.Log(lex.Tokens)
}

func TestLexerTokenTypes(t *testing.T) {
	tests := []struct {
		input string
		types []lexer.TokenType
	}{
		{"a += 1", []lexer.TokenType{lexer.IDENTIFIER, lexer.PLUS_EQUAL, lexer.NUMBER}},
		{"i++ --j", []lexer.TokenType{lexer.IDENTIFIER, lexer.PLUS_PLUS, lexer.MINUS_MINUS, lexer.IDENTIFIER}},
		{"a == b != c", []lexer.TokenType{lexer.IDENTIFIER, lexer.EQUAL_EQUAL, lexer.IDENTIFIER, lexer.BANG_EQUAL, lexer.IDENTIFIER}},
		{"a === b !== c", []lexer.TokenType{lexer.IDENTIFIER, lexer.EQUAL_EQUAL_EQUAL, lexer.IDENTIFIER, lexer.BANG_EQUAL_EQUAL, lexer.IDENTIFIER}},
		{"x<=y>=z<w>v", []lexer.TokenType{
			lexer.IDENTIFIER, lexer.LESS_EQUAL, lexer.IDENTIFIER, lexer.GREATER_EQUAL,
			lexer.IDENTIFIER, lexer.LESS, lexer.IDENTIFIER, lexer.GREATER, lexer.IDENTIFIER,
		}},
		{"with (o) delete o.p", []lexer.TokenType{
			lexer.WITH, lexer.LEFT_PAREN, lexer.IDENTIFIER, lexer.RIGHT_PAREN,
			lexer.DELETE, lexer.IDENTIFIER, lexer.DOT, lexer.IDENTIFIER,
		}},
		{"try {} catch (e) { throw e }", []lexer.TokenType{
			lexer.TRY, lexer.LEFT_BRACE, lexer.RIGHT_BRACE, lexer.CATCH, lexer.LEFT_PAREN,
			lexer.IDENTIFIER, lexer.RIGHT_PAREN, lexer.LEFT_BRACE, lexer.THROW, lexer.IDENTIFIER, lexer.RIGHT_BRACE,
		}},
		{"const $x_1 = this[0] % 2", []lexer.TokenType{
			lexer.CONST, lexer.IDENTIFIER, lexer.EQUAL, lexer.THIS, lexer.LEFT_BRACKET,
			lexer.NUMBER, lexer.RIGHT_BRACKET, lexer.PERCENT, lexer.NUMBER,
		}},
		{"// only a comment", []lexer.TokenType{}},
		{"null/*x*/true", []lexer.TokenType{lexer.NULL, lexer.TRUE}},
	}
	for i, test := range tests {
		lex := lexer.New("<test>", test.input)
		lex.ScanTokens()
		if len(lex.Errors) != 0 {
			t.Errorf("tests[%d] (%q) failed: unexpected errors %v", i, test.input, lex.Errors)
			continue
		}
		got := lex.Tokens[:len(lex.Tokens)-1]
		if len(got) != len(test.types) {
			t.Errorf("tests[%d] (%q) failed: expected %d tokens, got %v", i, test.input, len(test.types), got)
			continue
		}
		for j, tok := range got {
			if tok.Type != test.types[j] {
				t.Errorf("tests[%d] (%q) failed: token %d expected %s, got %s", i, test.input, j, test.types[j], tok.Type)
			}
		}
		if last := lex.Tokens[len(lex.Tokens)-1]; last.Type != lexer.EOF {
			t.Errorf("tests[%d] (%q) failed: expected EOF, got %s", i, test.input, last)
		}
	}
}

func TestLexerLiterals(t *testing.T) {
	tests := []struct {
		input   string
		literal interface{}
	}{
		{"12", 12.0},
		{"1.5", 1.5},
		{".25", 0.25},
		{"1e3", 1000.0},
		{"2E-2", 0.02},
		{`"a\tb"`, "a\tb"},
		{`'it\'s'`, "it's"},
		{`"say \"hi\""`, `say "hi"`},
		{`'\\n'`, `\n`},
	}
	for i, test := range tests {
		lex := lexer.New("<test>", test.input)
		lex.ScanTokens()
		if len(lex.Errors) != 0 || len(lex.Tokens) != 2 {
			t.Errorf("tests[%d] (%q) failed: got %v %v", i, test.input, lex.Tokens, lex.Errors)
			continue
		}
		if lex.Tokens[0].Literal != test.literal {
			t.Errorf("tests[%d] (%q) failed: expected %#v, got %#v", i, test.input, test.literal, lex.Tokens[0].Literal)
		}
	}
}

func TestLexerPositions(t *testing.T) {
	lex := lexer.New("pos.js", "var a\n  = 1;")
	lex.ScanTokens()
	expected := [][2]int{{1, 1}, {1, 5}, {2, 3}, {2, 5}, {2, 6}}
	for i, pos := range expected {
		tok := lex.Tokens[i]
		if tok.Line != pos[0] || tok.Column != pos[1] {
			t.Errorf("tokens[%d] %s: expected %d:%d", i, tok, pos[0], pos[1])
		}
	}
}

func TestLexerBad(t *testing.T) {
	badInputs := []string{
		"\"ab\n\" def ghi",
		"def | holy moly",
		"abc & adhkfsai",
		"\"abraca\xc3\x28 dabra\"",
		"\xc3\x28",
		"abc def \xf0\x28\x8c\xbc uu \xc3\x28 omg",
		"abc def || omg &| abrac",
		"'unterminated",
		"/* never closed",
		"a # b",
		`"\q"`,
	}
	for i, input := range badInputs {
		lex := lexer.New("<test>", input)
		lex.ScanTokens()
		if len(lex.Errors) == 0 {
			t.Errorf("tests[%d] (%q) failed", i, input)
			t.Errorf("expected errors, got none")
		}
		for _, x := range lex.Errors {
			t.Logf("%s\n", x)
		}
	}
}

func TestErrorFormat(t *testing.T) {
	err := lexer.Error{Filename: "f.js", Line: 3, Column: 7, Message: "boom"}
	if err.Error() != "f.js:3:7: boom" {
		t.Errorf("unexpected format %q", err.Error())
	}
	if lexer.EQUAL_EQUAL_EQUAL.String() != "===" || lexer.WITH.String() != "with" {
		t.Errorf("unexpected token names")
	}
	if !lexer.IsKeyword(lexer.TYPEOF) || lexer.IsKeyword(lexer.IDENTIFIER) {
		t.Errorf("IsKeyword misclassified")
	}
}
