// Package codegen lowers a parsed AST into the bytecode and constant pools
// a Function prototype carries, per the register-allocation and
// value-count-stack disciplines described for this runtime's core.
package codegen

import (
	"fmt"

	"github.com/LiCHH/luna/ast"
	"github.com/LiCHH/luna/lexer"
	"github.com/LiCHH/luna/runtime"
	"github.com/LiCHH/luna/source"
)

// generator holds the transient state of a single Generate call: the
// source file (for error spans), the shared State (GC/interner/env), and
// the currently active function being emitted into.
type generator struct {
	file  *source.File
	state *State
	fs    *funcState
}

// Generate lowers chunk into a top-level Function prototype and wraps it
// in a Closure whose sole upvalue is the global environment table. On any
// CodegenError the partial prototype is discarded and the error is
// returned; there is no partial-success case.
func Generate(file *source.File, state *State, chunk *ast.Chunk) (proto *runtime.Function, closure *runtime.Closure, err error) {
	g := &generator{file: file, state: state}

	defer func() {
		if r := recover(); r != nil {
			a, ok := r.(abort)
			if !ok {
				panic(r)
			}
			proto, closure, err = nil, nil, a.err
		}
	}()

	proto = g.genChunk(chunk)

	closure = state.GC.NewClosure(proto)
	closure.Upvalues = []*runtime.Upvalue{{Value: runtime.TableValue(state.Env)}}
	proto.Upvalues = []runtime.UpvalueDescriptor{{Kind: runtime.UpvalueStack, Index: ENVUpvalueIndex}}

	return proto, closure, nil
}

func (g *generator) emit(inst runtime.Instruction) {
	g.fs.proto.Instructions = append(g.fs.proto.Instructions, inst)
}

// genChunk allocates a new prototype for chunk, links it under the
// currently active function (if any), and walks its body block.
func (g *generator) genChunk(chunk *ast.Chunk) *runtime.Function {
	var superior *runtime.Function
	if g.fs != nil {
		superior = g.fs.proto
	}

	proto := g.state.GC.NewFunction(chunk.Name, 0, superior)

	parent := g.fs
	g.fs = newFuncState(proto, parent)
	defer func() { g.fs = parent }()

	g.genBlock(chunk.Body)

	return proto
}

// genBlock walks block's statements inside a fresh scope, then releases
// whatever temporary registers the scope accumulated.
func (g *generator) genBlock(block *ast.Block) {
	rec := g.fs.enterScope()
	defer g.fs.exitScope(rec)

	r := g.fs.proto.GetNextRegister()

	for _, stmt := range block.Statements {
		g.genStatement(stmt)
	}
	if block.Return != nil {
		g.genStatement(block.Return)
	}

	g.fs.proto.SetNextRegister(r)
	g.emit(runtime.SetTopInst(r, block.End().Line))
}

// declareNameList binds every name in names within the current scope,
// returning the number of names processed.
func (g *generator) declareNameList(names *ast.NameList) int {
	for _, tok := range names.Names {
		g.fs.declareInScope(g.fs.scopes, tok.Lexeme)
	}
	return len(names.Names)
}

func (g *generator) genStatement(stmt ast.Stmt) {
	switch s := stmt.(type) {
	case *ast.LocalNameListStmt:
		g.genLocalNameList(s)
	case *ast.ExprStmt:
		g.genExprStmt(s)
	case *ast.AssignmentStmt:
		g.fail(unsupported(g.file, s, "assignment statements"))
	case *ast.ReturnStmt:
		g.fail(unsupported(g.file, s, "return statements"))
	case *ast.BreakStmt:
		g.fail(unsupported(g.file, s, "break statements"))
	case *ast.DoStmt:
		g.fail(unsupported(g.file, s, "do blocks"))
	case *ast.WhileStmt:
		g.fail(unsupported(g.file, s, "while loops"))
	case *ast.RepeatStmt:
		g.fail(unsupported(g.file, s, "repeat loops"))
	case *ast.IfStmt:
		g.fail(unsupported(g.file, s, "if statements"))
	case *ast.NumericForStmt:
		g.fail(unsupported(g.file, s, "numeric for loops"))
	case *ast.GenericForStmt:
		g.fail(unsupported(g.file, s, "generic for loops"))
	case *ast.FunctionDeclStmt:
		g.fail(unsupported(g.file, s, "function declarations"))
	case *ast.LocalFunctionDeclStmt:
		g.fail(unsupported(g.file, s, "local function declarations"))
	default:
		g.fail(internal(g.file, stmt, "unrecognized statement node %T", stmt))
	}
}

// genLocalNameList lowers a local declaration with an initializer list.
//
// Names are declared first, claiming fresh registers starting at the
// statement's entry watermark; the watermark is then rolled back to that
// same base before the initializer list is evaluated, so initializer
// temporaries land in the identical register window the names just
// claimed and the subsequent Move is a same-register copy. The final
// watermark restore targets the register just past the declared locals
// rather than the statement's entry watermark, so the locals remain live
// registers for the rest of the enclosing block.
func (g *generator) genLocalNameList(s *ast.LocalNameListStmt) {
	r := g.fs.proto.GetNextRegister()

	before := len(g.fs.pending)
	n := g.declareNameList(s.Names)
	declared := append([]nameEntry(nil), g.fs.pending[before:before+n]...)
	g.fs.pending = g.fs.pending[:before]

	if s.Inits != nil {
		g.fs.pushExpListValueCount(n)
		g.fs.proto.SetNextRegister(r)
		g.genExpressionList(s.Inits)
	}

	for i, entry := range declared {
		line := s.Names.Names[i].Line()
		g.emit(runtime.MoveInst(entry.register, r+runtime.RegisterAddress(i), line))
	}

	g.fs.proto.SetNextRegister(r + runtime.RegisterAddress(n))
	g.emit(runtime.SetTopInst(r+runtime.RegisterAddress(n), s.Tok.Line()))
}

func (g *generator) genExprStmt(s *ast.ExprStmt) {
	g.fs.pushExpValueCount(0)
	g.genExpr(s.Expr)
}

// genExpressionList lowers an expression list, fanning the final
// expression out to however many values the caller asked for while every
// earlier expression is truncated to a single value. The caller must have
// already pushed the list's exp_list_value_count.
func (g *generator) genExpressionList(list *ast.ExpressionList) {
	v := g.fs.popExpListValueCount()
	n := len(list.Exprs)

	for i, expr := range list.Exprs {
		last := i == n-1

		var cnt int
		switch {
		case v == 0:
			cnt = 0
		case last:
			cnt = v
		default:
			cnt = 1
		}

		g.fs.pushExpValueCount(cnt)
		g.genExpr(expr)

		if v != 0 && v != runtime.ExpValueCountAny {
			v -= cnt
		}
	}
}

// genExpr dispatches on the concrete expression node. Every AST form
// without a lowering raises Unsupported rather than silently falling
// through.
func (g *generator) genExpr(e ast.Expr) {
	switch n := e.(type) {
	case *ast.Terminator:
		g.genTerminator(n)
	case *ast.NormalFuncCall:
		g.genNormalFuncCall(n)
	case *ast.BinaryExpr:
		g.fail(unsupported(g.file, n, "binary operator expressions"))
	case *ast.UnaryExpr:
		g.fail(unsupported(g.file, n, "unary operator expressions"))
	case *ast.FunctionBody:
		g.fail(unsupported(g.file, n, "anonymous function expressions"))
	case *ast.TableDefine:
		g.fail(unsupported(g.file, n, "table constructors"))
	case *ast.IndexAccessor:
		g.fail(unsupported(g.file, n, "index accessor expressions"))
	case *ast.MemberAccessor:
		g.fail(unsupported(g.file, n, "member accessor expressions"))
	case *ast.MemberFuncCall:
		g.fail(unsupported(g.file, n, "method call expressions"))
	default:
		g.fail(internal(g.file, e, "unrecognized expression node %T", e))
	}
}

// genTerminator lowers a number, string, or identifier literal.
func (g *generator) genTerminator(t *ast.Terminator) {
	cnt := g.fs.popExpValueCount()

	switch t.Tok.Kind {
	case lexer.Number:
		idx := g.fs.proto.InternNumber(t.Tok.Num)
		if cnt != 0 {
			reg := g.fs.proto.AllocaNextRegister()
			g.emit(runtime.LoadConstInst(reg, idx, runtime.ConstNumber, t.Tok.Line()))
		}
	case lexer.String:
		str := g.state.Interner.Intern(t.Tok.Lexeme)
		idx := g.fs.proto.InternString(str)
		g.state.GC.SetBarrier(g.fs.proto)
		if cnt != 0 {
			reg := g.fs.proto.AllocaNextRegister()
			g.emit(runtime.LoadConstInst(reg, idx, runtime.ConstString, t.Tok.Line()))
		}
	case lexer.Id:
		g.genIdTerminator(t, cnt)
	default:
		g.fail(unsupported(g.file, t, fmt.Sprintf("%q literals", t.Tok.Kind)))
	}
}

func (g *generator) genIdTerminator(t *ast.Terminator, cnt int) {
	name := t.Tok.Lexeme

	if srcReg, found := g.fs.lookupLocal(name); found {
		if cnt != 0 {
			dst := g.fs.proto.AllocaNextRegister()
			g.emit(runtime.MoveInst(dst, srcReg, t.Tok.Line()))
		}
		return
	}

	if g.fs.parent != nil {
		g.fail(unsupported(g.file, t, fmt.Sprintf("upvalue reference to enclosing function's %q", name)))
	}

	// Not found anywhere: a global, resolved off the env upvalue.
	if cnt == 0 {
		return
	}
	str := g.state.Interner.Intern(name)
	idx := g.fs.proto.InternString(str)
	g.state.GC.SetBarrier(g.fs.proto)
	reg := g.fs.proto.AllocaNextRegister()
	g.emit(runtime.LoadConstInst(reg, idx, runtime.ConstString, t.Tok.Line()))
	g.emit(runtime.GetUpTableInst(reg, ENVUpvalueIndex, reg, t.Tok.Line()))
}

// genNormalFuncCall lowers a function call, placing the callee at the
// statement's current watermark and emitting Call with the caller's
// expected result count.
func (g *generator) genNormalFuncCall(call *ast.NormalFuncCall) {
	r := g.fs.proto.GetNextRegister()
	resultCount := g.fs.popExpValueCount()

	g.fs.pushExpValueCount(1)
	g.genExpr(call.Callee)

	g.genFuncCallArgs(call.Args)

	g.emit(runtime.CallInst(r, resultCount, call.Pos().Line))
}

// genFuncCallArgs lowers a call's argument form (a single string, a single
// table constructor, or an expression list), propagating multi-value mode
// into an expression list's final element.
func (g *generator) genFuncCallArgs(args *ast.FuncCallArgs) {
	switch args.Kind {
	case ast.ArgsString:
		g.fs.pushExpValueCount(1)
		g.genExpr(args.Str)
	case ast.ArgsTable:
		g.fs.pushExpValueCount(1)
		g.genExpr(args.Table)
	case ast.ArgsExpList:
		if args.ExpList != nil {
			g.fs.pushExpListValueCount(runtime.ExpValueCountAny)
			g.genExpressionList(args.ExpList)
		}
	default:
		g.fail(internal(g.file, args, "unrecognized call args kind %d", args.Kind))
	}
}
