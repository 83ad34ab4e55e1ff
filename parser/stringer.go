package parser

import (
	"bytes"
	"strconv"
	"strings"

	"scopejs/lexer"
)

func (node *Program) String() string {
	stmts := []string{}
	for _, stmt := range node.Body {
		stmts = append(stmts, stmt.String())
	}
	return strings.Join(stmts, "\n")
}

// Statements

func (node *VarDecl) String() string { return node.declString() + ";" }

func (node *VarDecl) declString() string {
	var buf bytes.Buffer
	buf.WriteString(node.Tok().Lexeme)
	buf.WriteString(" ")
	for i, d := range node.Decls {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(d.Name.Name)
		if d.Init != nil {
			buf.WriteString(" = ")
			buf.WriteString(d.Init.String())
		}
	}
	return buf.String()
}

func (node *FunctionDecl) String() string { return node.Func.String() }

func (node *Return) String() string {
	if node.Value == nil {
		return "return;"
	}
	return "return " + node.Value.String() + ";"
}

func (node *If) String() string {
	var buf bytes.Buffer
	buf.WriteString("if (")
	buf.WriteString(node.Cond.String())
	buf.WriteString(") ")
	buf.WriteString(node.Then.String())
	if node.Else != nil {
		buf.WriteString(" else ")
		buf.WriteString(node.Else.String())
	}
	return buf.String()
}

func (node *While) String() string {
	var buf bytes.Buffer
	buf.WriteString("while (")
	buf.WriteString(node.Cond.String())
	buf.WriteString(") ")
	buf.WriteString(node.Body.String())
	return buf.String()
}

func (node *For) String() string {
	var buf bytes.Buffer
	buf.WriteString("for (")
	switch init := node.Init.(type) {
	case *VarDecl:
		buf.WriteString(init.declString())
	case *ExprStmt:
		buf.WriteString(init.Expr.String())
	}
	buf.WriteString(";")
	if node.Cond != nil {
		buf.WriteString(" ")
		buf.WriteString(node.Cond.String())
	}
	buf.WriteString(";")
	if node.Update != nil {
		buf.WriteString(" ")
		buf.WriteString(node.Update.String())
	}
	buf.WriteString(") ")
	buf.WriteString(node.Body.String())
	return buf.String()
}

func (node *Block) String() string { return "{" + joinStmts(node.Body) + "}" }

func (node *ExprStmt) String() string { return node.Expr.String() + ";" }

func (node *With) String() string {
	return "with (" + node.Object.String() + ") " + node.Body.String()
}

func (node *Throw) String() string { return "throw " + node.Value.String() + ";" }

func (node *Try) String() string {
	var buf bytes.Buffer
	buf.WriteString("try ")
	buf.WriteString(node.Block.String())
	buf.WriteString(" catch (")
	buf.WriteString(node.Param.Name)
	buf.WriteString(") ")
	buf.WriteString(node.Handler.String())
	return buf.String()
}

func (node *Break) String() string    { return "break;" }
func (node *Continue) String() string { return "continue;" }
func (node *Empty) String() string    { return ";" }

// Expressions

func (node *FunctionLit) String() string {
	var buf bytes.Buffer
	buf.WriteString("function")
	if node.Name != nil {
		buf.WriteString(" ")
		buf.WriteString(node.Name.Name)
	}
	buf.WriteString("(")
	for i, param := range node.Params {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(param.Name)
	}
	buf.WriteString(") {")
	buf.WriteString(joinStmts(node.Body))
	buf.WriteString("}")
	return buf.String()
}

func (node *ObjectLit) String() string {
	var buf bytes.Buffer
	buf.WriteString("{")
	for i, key := range node.Keys {
		if i > 0 {
			buf.WriteString(", ")
		}
		buf.WriteString(key)
		buf.WriteString(": ")
		buf.WriteString(node.Values[i].String())
	}
	buf.WriteString("}")
	return buf.String()
}

func (node *Assign) String() string  { return infix(node.Target, node.Tok().Lexeme, node.Value) }
func (node *Binary) String() string  { return infix(node.Left, node.Tok().Lexeme, node.Right) }
func (node *Logical) String() string { return infix(node.Left, node.Tok().Lexeme, node.Right) }

func (node *Unary) String() string {
	op := node.Tok().Lexeme
	if node.Op == lexer.TYPEOF || node.Op == lexer.DELETE {
		op += " "
	}
	return "(" + op + node.Right.String() + ")"
}

func (node *Update) String() string {
	if node.Prefix {
		return "(" + node.Tok().Lexeme + node.Target.String() + ")"
	}
	return "(" + node.Target.String() + node.Tok().Lexeme + ")"
}

func (node *Member) String() string {
	if node.Computed {
		return "(" + node.Object.String() + "[" + node.Property.String() + "])"
	}
	return "(" + node.Object.String() + "." + node.Name + ")"
}

func (node *Call) String() string {
	args := make([]string, len(node.Args))
	for i, arg := range node.Args {
		args[i] = arg.String()
	}
	return node.Callee.String() + "(" + strings.Join(args, ", ") + ")"
}

func (node *Identifier) String() string { return node.Name }
func (node *This) String() string       { return "this" }

func (node *Literal) String() string {
	switch v := node.Value.(type) {
	case string:
		return strconv.Quote(v)
	case float64:
		return strconv.FormatFloat(v, 'f', -1, 64)
	}
	return node.Tok().Lexeme
}

func infix(left Expr, op string, right Expr) string {
	return "(" + left.String() + " " + op + " " + right.String() + ")"
}

func joinStmts(stmts []Stmt) string {
	var buf bytes.Buffer
	for _, stmt := range stmts {
		buf.WriteString(stmt.String())
	}
	return buf.String()
}
