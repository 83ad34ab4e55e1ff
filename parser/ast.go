package parser

import "scopejs/lexer"

type Node interface {
	Tok() lexer.Token
	String() string
	node()
}

type Expr interface {
	Node
	expr()
}

type Stmt interface {
	Node
	stmt()
}

// token is embedded by every node and records where it begins.
type token struct{ tok lexer.Token }

func (t token) Tok() lexer.Token { return t.tok }
func (token) node()              {}

// Program is the root of a parsed script. Strict is filled in by
// the resolver after a "use strict" directive prologue is seen.
type Program struct {
	Filename string
	Body     []Stmt
	Strict   bool
}

// ==========
// statements
// ==========

type (
	// VarDecl covers var, let and const; Kind is the keyword.
	VarDecl struct {
		token
		Kind  lexer.TokenType
		Decls []*Declarator
	}

	Declarator struct {
		Name *Identifier
		Init Expr // nil if there was no initialiser
	}

	FunctionDecl struct {
		token
		Func *FunctionLit
	}

	Return struct {
		token
		Value Expr // may be nil
	}

	If struct {
		token
		Cond Expr
		Then Stmt
		Else Stmt // may be nil
	}

	While struct {
		token
		Cond Expr
		Body Stmt
	}

	For struct {
		token
		Init   Stmt // *VarDecl, *ExprStmt or nil
		Cond   Expr // may be nil
		Update Expr // may be nil
		Body   Stmt
	}

	Break    struct{ token }
	Continue struct{ token }

	Block struct {
		token
		Body []Stmt
	}

	ExprStmt struct {
		token
		Expr Expr
	}

	With struct {
		token
		Object Expr
		Body   Stmt
	}

	Throw struct {
		token
		Value Expr
	}

	Try struct {
		token
		Block   *Block
		Param   *Identifier
		Handler *Block
	}

	Empty struct{ token }
)

func (*VarDecl) stmt()      {}
func (*FunctionDecl) stmt() {}
func (*Return) stmt()       {}
func (*If) stmt()           {}
func (*While) stmt()        {}
func (*For) stmt()          {}
func (*Break) stmt()        {}
func (*Continue) stmt()     {}
func (*Block) stmt()        {}
func (*ExprStmt) stmt()     {}
func (*With) stmt()         {}
func (*Throw) stmt()        {}
func (*Try) stmt()          {}
func (*Empty) stmt()        {}

// IsLexical reports whether the declaration creates block scoped
// bindings.
func (node *VarDecl) IsLexical() bool { return node.Kind != lexer.VAR }

// ===========
// expressions
// ===========

type (
	Identifier struct {
		token
		Name string
	}

	// Literal holds a float64, string, bool or nil (null).
	Literal struct {
		token
		Value interface{}
	}

	This struct{ token }

	ObjectLit struct {
		token
		Keys   []string
		Values []Expr
	}

	FunctionLit struct {
		token
		Name   *Identifier // nil for anonymous functions
		Params []*Identifier
		Body   []Stmt
		Strict bool
	}

	Unary struct {
		token
		Op    lexer.TokenType
		Right Expr
	}

	Update struct {
		token
		Op     lexer.TokenType
		Prefix bool
		Target Expr
	}

	Binary struct {
		token
		Op    lexer.TokenType
		Left  Expr
		Right Expr
	}

	Logical struct {
		token
		Op    lexer.TokenType
		Left  Expr
		Right Expr
	}

	Assign struct {
		token
		Op     lexer.TokenType
		Target Expr
		Value  Expr
	}

	// Member is o.name when Computed is false, o[Property] otherwise.
	Member struct {
		token
		Object   Expr
		Name     string
		Property Expr
		Computed bool
	}

	Call struct {
		token
		Callee Expr
		Args   []Expr
	}
)

func (*Identifier) expr()  {}
func (*Literal) expr()     {}
func (*This) expr()        {}
func (*ObjectLit) expr()   {}
func (*FunctionLit) expr() {}
func (*Unary) expr()       {}
func (*Update) expr()      {}
func (*Binary) expr()      {}
func (*Logical) expr()     {}
func (*Assign) expr()      {}
func (*Member) expr()      {}
func (*Call) expr()        {}

// DisplayName is the function's own name, or "" when anonymous.
func (node *FunctionLit) DisplayName() string {
	if node.Name == nil {
		return ""
	}
	return node.Name.Name
}

func newIdentifier(tok lexer.Token) *Identifier {
	return &Identifier{token{tok}, tok.Lexeme}
}
