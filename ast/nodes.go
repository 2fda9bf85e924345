package ast

import (
	"github.com/LiCHH/luna/lexer"
	"github.com/LiCHH/luna/source"
)

// Node is a generic node in the abstract syntax tree. Every node carries
// enough source.Pos/Span data for the code generator to attribute a line
// number to every instruction it emits from that node.
type Node interface {
	Pos() source.Pos
	End() source.Pos
}

// Stmt is a Node that produces no value of its own; it may only be used at
// block level.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is a Node that produces (or may produce) a value and can appear
// inside an ExpressionList.
type Expr interface {
	Node
	exprNode()
}

/*
 * ROOT / BLOCK NODES
 */

// Chunk is the AST root for a single compilation unit: a module name plus
// the top-level Block.
type Chunk struct {
	Name string
	Body *Block
}

func (c *Chunk) Pos() source.Pos { return c.Body.Pos() }
func (c *Chunk) End() source.Pos { return c.Body.End() }

// Block is an ordered sequence of statements with an optional trailing
// return statement.
type Block struct {
	Statements []Stmt
	Return     *ReturnStmt // nil if the block has no explicit return
	StartTok   lexer.Token
	EndTok     lexer.Token
}

func (b *Block) Pos() source.Pos { return b.StartTok.Span.Start }
func (b *Block) End() source.Pos { return b.EndTok.Span.End }

/*
 * LIST HELPERS
 */

// NameList is a flat list of identifier tokens, e.g. the left side of
// `local a, b, c = ...` or the index/name pair of a generic for.
type NameList struct {
	Names []lexer.Token
}

func (n *NameList) Pos() source.Pos {
	if len(n.Names) == 0 {
		return source.Pos{}
	}
	return n.Names[0].Span.Start
}
func (n *NameList) End() source.Pos {
	if len(n.Names) == 0 {
		return source.Pos{}
	}
	return n.Names[len(n.Names)-1].Span.End
}

// ParamList is the formal parameter list of a FunctionBody.
type ParamList struct {
	Names []lexer.Token
}

func (p *ParamList) Pos() source.Pos {
	if len(p.Names) == 0 {
		return source.Pos{}
	}
	return p.Names[0].Span.Start
}
func (p *ParamList) End() source.Pos {
	if len(p.Names) == 0 {
		return source.Pos{}
	}
	return p.Names[len(p.Names)-1].Span.End
}

// VarList is a list of assignable expressions: the left side of an
// Assignment. Each entry is an Id Terminator, an IndexAccessor or a
// MemberAccessor.
type VarList struct {
	Vars []Expr
}

func (v *VarList) Pos() source.Pos {
	if len(v.Vars) == 0 {
		return source.Pos{}
	}
	return v.Vars[0].Pos()
}
func (v *VarList) End() source.Pos {
	if len(v.Vars) == 0 {
		return source.Pos{}
	}
	return v.Vars[len(v.Vars)-1].End()
}

// ExpressionList is an ordered list of expressions, where only the final
// expression may expand to multiple values ("multret").
type ExpressionList struct {
	Exprs []Expr
}

func (e *ExpressionList) Pos() source.Pos {
	if len(e.Exprs) == 0 {
		return source.Pos{}
	}
	return e.Exprs[0].Pos()
}
func (e *ExpressionList) End() source.Pos {
	if len(e.Exprs) == 0 {
		return source.Pos{}
	}
	return e.Exprs[len(e.Exprs)-1].End()
}

// FuncCallArgsKind distinguishes the three surface syntaxes Lua-family
// languages allow for call arguments.
type FuncCallArgsKind int

const (
	ArgsExpList FuncCallArgsKind = iota
	ArgsString
	ArgsTable
)

// FuncCallArgs is the argument clause of a call: `(a, b)`, a bare string
// literal, or a bare table constructor.
type FuncCallArgs struct {
	Kind    FuncCallArgsKind
	ExpList *ExpressionList // Kind == ArgsExpList
	Str     *Terminator     // Kind == ArgsString
	Table   *TableDefine    // Kind == ArgsTable
	StartTok lexer.Token
	EndTok   lexer.Token
}

func (f *FuncCallArgs) Pos() source.Pos { return f.StartTok.Span.Start }
func (f *FuncCallArgs) End() source.Pos { return f.EndTok.Span.End }

// FunctionName is the (possibly dotted, possibly method) name a
// `function foo.bar:baz() ... end` declaration binds.
type FunctionName struct {
	Path   []lexer.Token
	Method *lexer.Token // non-nil for `function a:b()` declarations
}

func (f *FunctionName) Pos() source.Pos {
	if len(f.Path) == 0 {
		return source.Pos{}
	}
	return f.Path[0].Span.Start
}
func (f *FunctionName) End() source.Pos {
	if f.Method != nil {
		return f.Method.Span.End
	}
	if len(f.Path) == 0 {
		return source.Pos{}
	}
	return f.Path[len(f.Path)-1].Span.End
}

/*
 * STATEMENT NODES
 */

// LocalNameListStmt is `local a, b, c [= e1, e2, ...]`.
type LocalNameListStmt struct {
	Names *NameList
	Inits *ExpressionList // nil if no initializer list was given
	Tok   lexer.Token
}

func (s *LocalNameListStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *LocalNameListStmt) End() source.Pos {
	if s.Inits != nil {
		return s.Inits.End()
	}
	return s.Names.End()
}
func (*LocalNameListStmt) stmtNode() {}

// AssignmentStmt is `v1, v2 = e1, e2`.
type AssignmentStmt struct {
	Targets *VarList
	Values  *ExpressionList
}

func (s *AssignmentStmt) Pos() source.Pos { return s.Targets.Pos() }
func (s *AssignmentStmt) End() source.Pos { return s.Values.End() }
func (*AssignmentStmt) stmtNode()         {}

// ReturnStmt is the optional terminal statement of a Block.
type ReturnStmt struct {
	Values *ExpressionList // nil for a bare `return`
	Tok    lexer.Token
}

func (s *ReturnStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *ReturnStmt) End() source.Pos {
	if s.Values != nil {
		return s.Values.End()
	}
	return s.Tok.Span.End
}
func (*ReturnStmt) stmtNode() {}

// ExprStmt is a call expression used as a statement, the only expression
// form this grammar permits at statement level; its value (if any) is
// discarded.
type ExprStmt struct {
	Expr Expr
}

func (s *ExprStmt) Pos() source.Pos { return s.Expr.Pos() }
func (s *ExprStmt) End() source.Pos { return s.Expr.End() }
func (*ExprStmt) stmtNode()         {}

// BreakStmt exits the innermost enclosing loop.
type BreakStmt struct {
	Tok lexer.Token
}

func (s *BreakStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *BreakStmt) End() source.Pos { return s.Tok.Span.End }
func (*BreakStmt) stmtNode()         {}

// DoStmt introduces an anonymous scoped block: `do ... end`.
type DoStmt struct {
	Body    *Block
	DoTok   lexer.Token
	EndTok  lexer.Token
}

func (s *DoStmt) Pos() source.Pos { return s.DoTok.Span.Start }
func (s *DoStmt) End() source.Pos { return s.EndTok.Span.End }
func (*DoStmt) stmtNode()         {}

// WhileStmt is `while cond do ... end`.
type WhileStmt struct {
	Cond   Expr
	Body   *Block
	Tok    lexer.Token
	EndTok lexer.Token
}

func (s *WhileStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *WhileStmt) End() source.Pos { return s.EndTok.Span.End }
func (*WhileStmt) stmtNode()         {}

// RepeatStmt is `repeat ... until cond`. The condition is evaluated in the
// scope of the body, unlike While's condition.
type RepeatStmt struct {
	Body Block
	Cond Expr
	Tok  lexer.Token
}

func (s *RepeatStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *RepeatStmt) End() source.Pos { return s.Cond.End() }
func (*RepeatStmt) stmtNode()         {}

// ElseIfClause is one `elseif cond then ...` arm of an IfStmt.
type ElseIfClause struct {
	Cond Expr
	Body *Block
	Tok  lexer.Token
}

// IfStmt is `if cond then ... [elseif cond then ...]* [else ...] end`.
type IfStmt struct {
	Cond       Expr
	Then       *Block
	ElseIfs    []*ElseIfClause
	Else       *Block // nil if no else clause
	Tok        lexer.Token
	EndTok     lexer.Token
}

func (s *IfStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *IfStmt) End() source.Pos { return s.EndTok.Span.End }
func (*IfStmt) stmtNode()         {}

// NumericForStmt is `for name = start, stop [, step] do ... end`.
type NumericForStmt struct {
	Name   lexer.Token
	Start  Expr
	Stop   Expr
	Step   Expr // nil if no step expression was given
	Body   *Block
	Tok    lexer.Token
	EndTok lexer.Token
}

func (s *NumericForStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *NumericForStmt) End() source.Pos { return s.EndTok.Span.End }
func (*NumericForStmt) stmtNode()         {}

// GenericForStmt is `for n1, n2, ... in e1, e2, ... do ... end`.
type GenericForStmt struct {
	Names  *NameList
	Exprs  *ExpressionList
	Body   *Block
	Tok    lexer.Token
	EndTok lexer.Token
}

func (s *GenericForStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *GenericForStmt) End() source.Pos { return s.EndTok.Span.End }
func (*GenericForStmt) stmtNode()         {}

// FunctionDeclStmt is `function name.path:method(params) ... end`.
type FunctionDeclStmt struct {
	Name *FunctionName
	Body *FunctionBody
	Tok  lexer.Token
}

func (s *FunctionDeclStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *FunctionDeclStmt) End() source.Pos { return s.Body.End() }
func (*FunctionDeclStmt) stmtNode()         {}

// LocalFunctionDeclStmt is `local function name(params) ... end`: the name
// is bound as a local before the body is compiled so the function may call
// itself recursively.
type LocalFunctionDeclStmt struct {
	Name lexer.Token
	Body *FunctionBody
	Tok  lexer.Token
}

func (s *LocalFunctionDeclStmt) Pos() source.Pos { return s.Tok.Span.Start }
func (s *LocalFunctionDeclStmt) End() source.Pos { return s.Body.End() }
func (*LocalFunctionDeclStmt) stmtNode()         {}

/*
 * EXPRESSION NODES
 */

// Terminator wraps a single leaf token: a Number, String or Id.
type Terminator struct {
	Tok lexer.Token
}

func (t *Terminator) Pos() source.Pos { return t.Tok.Span.Start }
func (t *Terminator) End() source.Pos { return t.Tok.Span.End }
func (*Terminator) exprNode()         {}

// BinaryExpr is a two-operand operator expression.
type BinaryExpr struct {
	Op    lexer.Token
	Left  Expr
	Right Expr
}

func (b *BinaryExpr) Pos() source.Pos { return b.Left.Pos() }
func (b *BinaryExpr) End() source.Pos { return b.Right.End() }
func (*BinaryExpr) exprNode()         {}

// UnaryExpr is a single-operand prefix operator expression (`-x`, `not x`,
// `#x`).
type UnaryExpr struct {
	Op      lexer.Token
	Operand Expr
}

func (u *UnaryExpr) Pos() source.Pos { return u.Op.Span.Start }
func (u *UnaryExpr) End() source.Pos { return u.Operand.End() }
func (*UnaryExpr) exprNode()         {}

// FunctionBody is the `(params) ... end` shared by function-declaration
// statements and anonymous function expressions.
type FunctionBody struct {
	Params *ParamList
	Body   *Block
	Tok    lexer.Token
	EndTok lexer.Token
}

func (f *FunctionBody) Pos() source.Pos { return f.Tok.Span.Start }
func (f *FunctionBody) End() source.Pos { return f.EndTok.Span.End }
func (*FunctionBody) exprNode()         {}

// TableField is a `name = expr` entry in a table constructor.
type TableField struct {
	Name lexer.Token
	Expr Expr
}

// TableIndexField is a `[expr] = expr` entry in a table constructor.
type TableIndexField struct {
	Index Expr
	Expr  Expr
}

// TableDefine is a table constructor: `{e1, e2, name = e3, [e4] = e5}`.
type TableDefine struct {
	ArrayItems  []Expr
	NamedFields []*TableField
	IndexFields []*TableIndexField
	Tok         lexer.Token
	EndTok      lexer.Token
}

func (t *TableDefine) Pos() source.Pos { return t.Tok.Span.Start }
func (t *TableDefine) End() source.Pos { return t.EndTok.Span.End }
func (*TableDefine) exprNode()         {}

// IndexAccessor is `object[index]`.
type IndexAccessor struct {
	Object Expr
	Index  Expr
	EndTok lexer.Token
}

func (i *IndexAccessor) Pos() source.Pos { return i.Object.Pos() }
func (i *IndexAccessor) End() source.Pos { return i.EndTok.Span.End }
func (*IndexAccessor) exprNode()         {}

// MemberAccessor is `object.member`.
type MemberAccessor struct {
	Object Expr
	Member lexer.Token
}

func (m *MemberAccessor) Pos() source.Pos { return m.Object.Pos() }
func (m *MemberAccessor) End() source.Pos { return m.Member.Span.End }
func (*MemberAccessor) exprNode()         {}

// NormalFuncCall is `callee(args)`.
type NormalFuncCall struct {
	Callee Expr
	Args   *FuncCallArgs
}

func (n *NormalFuncCall) Pos() source.Pos { return n.Callee.Pos() }
func (n *NormalFuncCall) End() source.Pos { return n.Args.End() }
func (*NormalFuncCall) exprNode()         {}

// MemberFuncCall is `object:method(args)`, sugar for passing `object` as
// the method's first argument.
type MemberFuncCall struct {
	Object Expr
	Method lexer.Token
	Args   *FuncCallArgs
}

func (m *MemberFuncCall) Pos() source.Pos { return m.Object.Pos() }
func (m *MemberFuncCall) End() source.Pos { return m.Args.End() }
func (*MemberFuncCall) exprNode()         {}
