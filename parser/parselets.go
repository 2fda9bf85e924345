package parser

import (
	"github.com/LiCHH/luna/ast"
	"github.com/LiCHH/luna/feedback"
	"github.com/LiCHH/luna/lexer"
)

func literalParselet(p *Parser, tok lexer.Token) (ast.Expr, feedback.Message) {
	return &ast.Terminator{Tok: tok}, nil
}

func identParselet(p *Parser, tok lexer.Token) (ast.Expr, feedback.Message) {
	return &ast.Terminator{Tok: tok}, nil
}

func groupParselet(p *Parser, lparen lexer.Token) (ast.Expr, feedback.Message) {
	inner, msg := p.ParseExpression(precLowest)
	if msg != nil {
		return nil, msg
	}
	if _, msg := p.expect(lexer.RParen); msg != nil {
		return nil, msg
	}
	return inner, nil
}

func unaryParselet(p *Parser, op lexer.Token) (ast.Expr, feedback.Message) {
	operand, msg := p.ParseExpression(precUnary)
	if msg != nil {
		return nil, msg
	}
	return &ast.UnaryExpr{Op: op, Operand: operand}, nil
}

func binaryParselet(p *Parser, left ast.Expr, op lexer.Token) (ast.Expr, feedback.Message) {
	precedence := p.prec[op.Kind]
	// '^' and '..' are right-associative: parse the right side at one
	// precedence lower than this operator so a chain like `a^b^c` nests as
	// `a^(b^c)`.
	if op.Kind == lexer.OpCaret || op.Kind == lexer.OpConcat {
		precedence--
	}

	right, msg := p.ParseExpression(precedence)
	if msg != nil {
		return nil, msg
	}
	return &ast.BinaryExpr{Op: op, Left: left, Right: right}, nil
}

func memberParselet(p *Parser, obj ast.Expr, dot lexer.Token) (ast.Expr, feedback.Message) {
	name, msg := p.expect(lexer.Id)
	if msg != nil {
		return nil, msg
	}
	return &ast.MemberAccessor{Object: obj, Member: name}, nil
}

func indexParselet(p *Parser, obj ast.Expr, lbracket lexer.Token) (ast.Expr, feedback.Message) {
	index, msg := p.ParseExpression(precLowest)
	if msg != nil {
		return nil, msg
	}
	end, msg := p.expect(lexer.RBracket)
	if msg != nil {
		return nil, msg
	}
	return &ast.IndexAccessor{Object: obj, Index: index, EndTok: end}, nil
}

func callParselet(p *Parser, callee ast.Expr, startTok lexer.Token) (ast.Expr, feedback.Message) {
	p.pushBack(startTok)
	args, msg := p.parseCallArgs(startTok)
	if msg != nil {
		return nil, msg
	}
	return &ast.NormalFuncCall{Callee: callee, Args: args}, nil
}

func methodCallParselet(p *Parser, obj ast.Expr, colon lexer.Token) (ast.Expr, feedback.Message) {
	method, msg := p.expect(lexer.Id)
	if msg != nil {
		return nil, msg
	}
	startTok := p.peek()
	args, msg := p.parseCallArgs(startTok)
	if msg != nil {
		return nil, msg
	}
	return &ast.MemberFuncCall{Object: obj, Method: method, Args: args}, nil
}

// parseCallArgs parses the argument clause of a call whose opening token
// ('(', a bare string, or '{' for a table constructor) is startTok and is
// still the next token in the stream. callParselet's opening token was
// already consumed by the infix dispatch, so it re-queues it first.
func (p *Parser) parseCallArgs(startTok lexer.Token) (*ast.FuncCallArgs, feedback.Message) {
	switch startTok.Kind {
	case lexer.String:
		p.next()
		return &ast.FuncCallArgs{
			Kind:     ast.ArgsString,
			Str:      &ast.Terminator{Tok: startTok},
			StartTok: startTok,
			EndTok:   startTok,
		}, nil
	case lexer.LBrace:
		table, msg := p.ParseExpression(precCall)
		if msg != nil {
			return nil, msg
		}
		tableDefine := table.(*ast.TableDefine)
		return &ast.FuncCallArgs{
			Kind:     ast.ArgsTable,
			Table:    tableDefine,
			StartTok: startTok,
			EndTok:   tableDefine.EndTok,
		}, nil
	case lexer.LParen:
		p.next()
		list := &ast.ExpressionList{}
		if p.peek().Kind != lexer.RParen {
			var msg feedback.Message
			list, msg = p.parseExpressionList()
			if msg != nil {
				return nil, msg
			}
		}
		end, msg := p.expect(lexer.RParen)
		if msg != nil {
			return nil, msg
		}
		return &ast.FuncCallArgs{
			Kind:     ast.ArgsExpList,
			ExpList:  list,
			StartTok: startTok,
			EndTok:   end,
		}, nil
	default:
		return nil, p.syntaxError(startTok, "expected call arguments")
	}
}

func (p *Parser) parseExpressionList() (*ast.ExpressionList, feedback.Message) {
	list := &ast.ExpressionList{}

	expr, msg := p.ParseExpression(precLowest)
	if msg != nil {
		return nil, msg
	}
	list.Exprs = append(list.Exprs, expr)

	for p.peek().Kind == lexer.Comma {
		p.next()
		expr, msg = p.ParseExpression(precLowest)
		if msg != nil {
			return nil, msg
		}
		list.Exprs = append(list.Exprs, expr)
	}

	return list, nil
}

func tableParselet(p *Parser, lbrace lexer.Token) (ast.Expr, feedback.Message) {
	table := &ast.TableDefine{Tok: lbrace}

	for p.peek().Kind != lexer.RBrace {
		if p.peek().Kind == lexer.LBracket {
			p.next()
			index, msg := p.ParseExpression(precLowest)
			if msg != nil {
				return nil, msg
			}
			if _, msg := p.expect(lexer.RBracket); msg != nil {
				return nil, msg
			}
			if _, msg := p.expect(lexer.OpAssign); msg != nil {
				return nil, msg
			}
			value, msg := p.ParseExpression(precLowest)
			if msg != nil {
				return nil, msg
			}
			table.IndexFields = append(table.IndexFields, &ast.TableIndexField{Index: index, Expr: value})
		} else if p.peek().Kind == lexer.Id && p.secondIsAssign() {
			name := p.next()
			p.next() // consume '='
			value, msg := p.ParseExpression(precLowest)
			if msg != nil {
				return nil, msg
			}
			table.NamedFields = append(table.NamedFields, &ast.TableField{Name: name, Expr: value})
		} else {
			item, msg := p.ParseExpression(precLowest)
			if msg != nil {
				return nil, msg
			}
			table.ArrayItems = append(table.ArrayItems, item)
		}

		if p.peek().Kind == lexer.Comma || p.peek().Kind == lexer.Semi {
			p.next()
			continue
		}
		break
	}

	end, msg := p.expect(lexer.RBrace)
	if msg != nil {
		return nil, msg
	}
	table.EndTok = end
	return table, nil
}

// secondIsAssign peeks past the current identifier token (without
// consuming anything) to see whether a table field is `name = expr` versus
// a bare array-item expression that happens to start with an identifier.
func (p *Parser) secondIsAssign() bool {
	// The lexer only buffers one token of lookahead, so resolving this
	// requires peeking the identifier and then checking the follow token;
	// since Next()/Peek() only expose one slot, the identifier is consumed
	// and then re-queued through the lexer's PushBack.
	id := p.next()
	isAssign := p.peek().Kind == lexer.OpAssign
	p.pushBack(id)
	return isAssign
}

// pushBack re-queues a token that was spuriously consumed while
// disambiguating a grammar choice.
func (p *Parser) pushBack(tok lexer.Token) {
	p.Lexer.PushBack(tok)
}

func functionExprParselet(p *Parser, fnTok lexer.Token) (ast.Expr, feedback.Message) {
	return p.parseFunctionBody(fnTok)
}

func (p *Parser) parseFunctionBody(fnTok lexer.Token) (*ast.FunctionBody, feedback.Message) {
	if _, msg := p.expect(lexer.LParen); msg != nil {
		return nil, msg
	}

	params := &ast.ParamList{}
	for p.peek().Kind != lexer.RParen {
		name, msg := p.expect(lexer.Id)
		if msg != nil {
			return nil, msg
		}
		params.Names = append(params.Names, name)

		if p.peek().Kind == lexer.Comma {
			p.next()
			continue
		}
		break
	}

	if _, msg := p.expect(lexer.RParen); msg != nil {
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

	return &ast.FunctionBody{Params: params, Body: body, Tok: fnTok, EndTok: end}, nil
}
