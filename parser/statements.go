package parser

import (
	"fmt"

	"github.com/LiCHH/luna/ast"
	"github.com/LiCHH/luna/feedback"
	"github.com/LiCHH/luna/lexer"
)

// blockEndsAt reports whether kind terminates the block currently being
// parsed (a keyword like `end`/`else`/`elseif`/`until`, or EOF for the
// top-level chunk).
func blockEndsAt(kind lexer.Kind, terminators ...lexer.Kind) bool {
	for _, t := range terminators {
		if kind == t {
			return true
		}
	}
	return false
}

// parseBlock parses statements (and an optional trailing return) until one
// of the given terminator kinds is encountered. The terminator itself is
// NOT consumed.
func (p *Parser) parseBlock(terminators ...lexer.Kind) (*ast.Block, feedback.Message) {
	startTok := p.peek()
	block := &ast.Block{StartTok: startTok}

	for !blockEndsAt(p.peek().Kind, terminators...) {
		if p.peek().Kind == lexer.KwReturn {
			ret, msg := p.parseReturn()
			if msg != nil {
				return nil, msg
			}
			block.Return = ret
			break
		}

		stmt, msg := p.parseStatement()
		if msg != nil {
			return nil, msg
		}
		if stmt != nil {
			block.Statements = append(block.Statements, stmt)
		}
	}

	block.EndTok = p.peek()
	return block, nil
}

func (p *Parser) parseReturn() (*ast.ReturnStmt, feedback.Message) {
	tok := p.next() // 'return'

	stmt := &ast.ReturnStmt{Tok: tok}

	if p.peek().Kind != lexer.Semi && !isBlockTerminator(p.peek().Kind) {
		list, msg := p.parseExpressionList()
		if msg != nil {
			return nil, msg
		}
		stmt.Values = list
	}

	if p.peek().Kind == lexer.Semi {
		p.next()
	}

	return stmt, nil
}

func isBlockTerminator(kind lexer.Kind) bool {
	switch kind {
	case lexer.KwEnd, lexer.KwElse, lexer.KwElseif, lexer.KwUntil, lexer.EOF:
		return true
	}
	return false
}

func (p *Parser) parseStatement() (ast.Stmt, feedback.Message) {
	tok := p.peek()

	switch tok.Kind {
	case lexer.Semi:
		p.next()
		return nil, nil
	case lexer.KwLocal:
		return p.parseLocal()
	case lexer.KwBreak:
		p.next()
		return &ast.BreakStmt{Tok: tok}, nil
	case lexer.KwDo:
		return p.parseDo()
	case lexer.KwWhile:
		return p.parseWhile()
	case lexer.KwRepeat:
		return p.parseRepeat()
	case lexer.KwIf:
		return p.parseIf()
	case lexer.KwFor:
		return p.parseFor()
	case lexer.KwFunction:
		return p.parseFunctionDecl()
	default:
		return p.parseExprStatement()
	}
}

func (p *Parser) parseLocal() (ast.Stmt, feedback.Message) {
	tok := p.next() // 'local'

	if p.peek().Kind == lexer.KwFunction {
		p.next()
		name, msg := p.expect(lexer.Id)
		if msg != nil {
			return nil, msg
		}
		body, msg := p.parseFunctionBody(tok)
		if msg != nil {
			return nil, msg
		}
		return &ast.LocalFunctionDeclStmt{Name: name, Body: body, Tok: tok}, nil
	}

	names, msg := p.parseNameList()
	if msg != nil {
		return nil, msg
	}

	stmt := &ast.LocalNameListStmt{Names: names, Tok: tok}

	if p.peek().Kind == lexer.OpAssign {
		p.next()
		list, msg := p.parseExpressionList()
		if msg != nil {
			return nil, msg
		}
		stmt.Inits = list
	}

	return stmt, nil
}

func (p *Parser) parseNameList() (*ast.NameList, feedback.Message) {
	list := &ast.NameList{}

	name, msg := p.expect(lexer.Id)
	if msg != nil {
		return nil, msg
	}
	list.Names = append(list.Names, name)

	for p.peek().Kind == lexer.Comma {
		p.next()
		name, msg = p.expect(lexer.Id)
		if msg != nil {
			return nil, msg
		}
		list.Names = append(list.Names, name)
	}

	return list, nil
}

func (p *Parser) parseDo() (ast.Stmt, feedback.Message) {
	doTok := p.next()
	body, msg := p.parseBlock(lexer.KwEnd)
	if msg != nil {
		return nil, msg
	}
	end, msg := p.expect(lexer.KwEnd)
	if msg != nil {
		return nil, msg
	}
	return &ast.DoStmt{Body: body, DoTok: doTok, EndTok: end}, nil
}

func (p *Parser) parseWhile() (ast.Stmt, feedback.Message) {
	tok := p.next()
	cond, msg := p.ParseExpression(precLowest)
	if msg != nil {
		return nil, msg
	}
	if _, msg := p.expect(lexer.KwDo); msg != nil {
		return nil, msg
	}
	body, msg := p.parseBlock(lexer.KwEnd)
	if msg != nil {
		return nil, msg
	}
	end, msg := p.expect(lexer.KwEnd)
	if msg != nil {
		return nil, msg
	}
	return &ast.WhileStmt{Cond: cond, Body: body, Tok: tok, EndTok: end}, nil
}

func (p *Parser) parseRepeat() (ast.Stmt, feedback.Message) {
	tok := p.next()
	body, msg := p.parseBlock(lexer.KwUntil)
	if msg != nil {
		return nil, msg
	}
	if _, msg := p.expect(lexer.KwUntil); msg != nil {
		return nil, msg
	}
	cond, msg := p.ParseExpression(precLowest)
	if msg != nil {
		return nil, msg
	}
	return &ast.RepeatStmt{Body: *body, Cond: cond, Tok: tok}, nil
}

func (p *Parser) parseIf() (ast.Stmt, feedback.Message) {
	tok := p.next()
	cond, msg := p.ParseExpression(precLowest)
	if msg != nil {
		return nil, msg
	}
	if _, msg := p.expect(lexer.KwThen); msg != nil {
		return nil, msg
	}
	then, msg := p.parseBlock(lexer.KwEnd, lexer.KwElse, lexer.KwElseif)
	if msg != nil {
		return nil, msg
	}

	stmt := &ast.IfStmt{Cond: cond, Then: then, Tok: tok}

	for p.peek().Kind == lexer.KwElseif {
		elifTok := p.next()
		elifCond, msg := p.ParseExpression(precLowest)
		if msg != nil {
			return nil, msg
		}
		if _, msg := p.expect(lexer.KwThen); msg != nil {
			return nil, msg
		}
		elifBody, msg := p.parseBlock(lexer.KwEnd, lexer.KwElse, lexer.KwElseif)
		if msg != nil {
			return nil, msg
		}
		stmt.ElseIfs = append(stmt.ElseIfs, &ast.ElseIfClause{Cond: elifCond, Body: elifBody, Tok: elifTok})
	}

	if p.peek().Kind == lexer.KwElse {
		p.next()
		elseBody, msg := p.parseBlock(lexer.KwEnd)
		if msg != nil {
			return nil, msg
		}
		stmt.Else = elseBody
	}

	end, msg := p.expect(lexer.KwEnd)
	if msg != nil {
		return nil, msg
	}
	stmt.EndTok = end

	return stmt, nil
}

func (p *Parser) parseFor() (ast.Stmt, feedback.Message) {
	tok := p.next()

	firstName, msg := p.expect(lexer.Id)
	if msg != nil {
		return nil, msg
	}

	if p.peek().Kind == lexer.OpAssign {
		p.next()
		start, msg := p.ParseExpression(precLowest)
		if msg != nil {
			return nil, msg
		}
		if _, msg := p.expect(lexer.Comma); msg != nil {
			return nil, msg
		}
		stop, msg := p.ParseExpression(precLowest)
		if msg != nil {
			return nil, msg
		}

		var step ast.Expr
		if p.peek().Kind == lexer.Comma {
			p.next()
			step, msg = p.ParseExpression(precLowest)
			if msg != nil {
				return nil, msg
			}
		}

		if _, msg := p.expect(lexer.KwDo); msg != nil {
			return nil, msg
		}
		body, msg := p.parseBlock(lexer.KwEnd)
		if msg != nil {
			return nil, msg
		}
		end, msg := p.expect(lexer.KwEnd)
		if msg != nil {
			return nil, msg
		}

		return &ast.NumericForStmt{Name: firstName, Start: start, Stop: stop, Step: step, Body: body, Tok: tok, EndTok: end}, nil
	}

	names := &ast.NameList{Names: []lexer.Token{firstName}}
	for p.peek().Kind == lexer.Comma {
		p.next()
		name, msg := p.expect(lexer.Id)
		if msg != nil {
			return nil, msg
		}
		names.Names = append(names.Names, name)
	}

	if _, msg := p.expect(lexer.KwIn); msg != nil {
		return nil, msg
	}

	exprs, msg := p.parseExpressionList()
	if msg != nil {
		return nil, msg
	}

	if _, msg := p.expect(lexer.KwDo); msg != nil {
		return nil, msg
	}
	body, msg := p.parseBlock(lexer.KwEnd)
	if msg != nil {
		return nil, msg
	}
	end, msg := p.expect(lexer.KwEnd)
	if msg != nil {
		return nil, msg
	}

	return &ast.GenericForStmt{Names: names, Exprs: exprs, Body: body, Tok: tok, EndTok: end}, nil
}

func (p *Parser) parseFunctionDecl() (ast.Stmt, feedback.Message) {
	tok := p.next()

	name, msg := p.expect(lexer.Id)
	if msg != nil {
		return nil, msg
	}
	fname := &ast.FunctionName{Path: []lexer.Token{name}}

	for p.peek().Kind == lexer.Dot {
		p.next()
		part, msg := p.expect(lexer.Id)
		if msg != nil {
			return nil, msg
		}
		fname.Path = append(fname.Path, part)
	}

	if p.peek().Kind == lexer.Colon {
		p.next()
		method, msg := p.expect(lexer.Id)
		if msg != nil {
			return nil, msg
		}
		fname.Method = &method
	}

	body, msg := p.parseFunctionBody(tok)
	if msg != nil {
		return nil, msg
	}

	return &ast.FunctionDeclStmt{Name: fname, Body: body, Tok: tok}, nil
}

// parseExprStatement parses either a bare call expression used as a
// statement, or an assignment whose left side is a VarList of lvalues.
func (p *Parser) parseExprStatement() (ast.Stmt, feedback.Message) {
	first, msg := p.ParseExpression(precLowest)
	if msg != nil {
		return nil, msg
	}

	if p.peek().Kind == lexer.OpAssign || p.peek().Kind == lexer.Comma {
		targets := &ast.VarList{Vars: []ast.Expr{first}}

		for p.peek().Kind == lexer.Comma {
			p.next()
			next, msg := p.ParseExpression(precLowest)
			if msg != nil {
				return nil, msg
			}
			targets.Vars = append(targets.Vars, next)
		}

		if _, msg := p.expect(lexer.OpAssign); msg != nil {
			return nil, msg
		}

		values, msg := p.parseExpressionList()
		if msg != nil {
			return nil, msg
		}

		return &ast.AssignmentStmt{Targets: targets, Values: values}, nil
	}

	switch first.(type) {
	case *ast.NormalFuncCall, *ast.MemberFuncCall:
		return &ast.ExprStmt{Expr: first}, nil
	default:
		return nil, p.syntaxError(p.peek(), fmt.Sprintf("unexpected expression used as statement"))
	}
}
