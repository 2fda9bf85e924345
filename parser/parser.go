package parser

import (
	"fmt"

	"github.com/LiCHH/luna/ast"
	"github.com/LiCHH/luna/feedback"
	"github.com/LiCHH/luna/lexer"
	"github.com/LiCHH/luna/source"
)

// prefixParselet parses an expression that begins with tok (the token has
// already been consumed).
type prefixParselet func(p *Parser, tok lexer.Token) (ast.Expr, feedback.Message)

// infixParselet parses the continuation of an expression given the
// already-parsed left operand and the just-consumed operator token.
type infixParselet func(p *Parser, left ast.Expr, tok lexer.Token) (ast.Expr, feedback.Message)

// Parser is a Pratt (precedence-climbing) expression parser plus a
// recursive-descent statement parser, following the same two-table
// parselet scheme as the frontend this package was adapted from.
type Parser struct {
	File   *source.File
	Lexer  *lexer.Lexer
	prefix map[lexer.Kind]prefixParselet
	infix  map[lexer.Kind]infixParselet
	prec   map[lexer.Kind]int
}

const (
	precLowest = iota
	precOr
	precAnd
	precCompare
	precConcat
	precAdd
	precMul
	precUnary
	precPow
	precCall
)

// NewParser constructs a Parser wired with the full expression-parselet
// table for the language's grammar.
func NewParser(file *source.File) *Parser {
	p := &Parser{
		File:   file,
		Lexer:  lexer.NewLexer(file),
		prefix: make(map[lexer.Kind]prefixParselet),
		infix:  make(map[lexer.Kind]infixParselet),
		prec:   make(map[lexer.Kind]int),
	}

	p.prefix[lexer.Number] = literalParselet
	p.prefix[lexer.String] = literalParselet
	p.prefix[lexer.Id] = identParselet
	p.prefix[lexer.KwNil] = literalParselet
	p.prefix[lexer.KwTrue] = literalParselet
	p.prefix[lexer.KwFalse] = literalParselet
	p.prefix[lexer.LParen] = groupParselet
	p.prefix[lexer.LBrace] = tableParselet
	p.prefix[lexer.KwFunction] = functionExprParselet
	p.prefix[lexer.OpMinus] = unaryParselet
	p.prefix[lexer.KwNot] = unaryParselet
	p.prefix[lexer.OpHash] = unaryParselet

	p.addInfix(lexer.KwOr, precOr, binaryParselet)
	p.addInfix(lexer.KwAnd, precAnd, binaryParselet)
	p.addInfix(lexer.OpLT, precCompare, binaryParselet)
	p.addInfix(lexer.OpGT, precCompare, binaryParselet)
	p.addInfix(lexer.OpLTEq, precCompare, binaryParselet)
	p.addInfix(lexer.OpGTEq, precCompare, binaryParselet)
	p.addInfix(lexer.OpEq, precCompare, binaryParselet)
	p.addInfix(lexer.OpNeq, precCompare, binaryParselet)
	p.addInfix(lexer.OpConcat, precConcat, binaryParselet)
	p.addInfix(lexer.OpPlus, precAdd, binaryParselet)
	p.addInfix(lexer.OpMinus, precAdd, binaryParselet)
	p.addInfix(lexer.OpStar, precMul, binaryParselet)
	p.addInfix(lexer.OpSlash, precMul, binaryParselet)
	p.addInfix(lexer.OpPercent, precMul, binaryParselet)
	p.addInfix(lexer.OpCaret, precPow, binaryParselet)

	p.addInfix(lexer.LParen, precCall, callParselet)
	p.addInfix(lexer.String, precCall, callParselet)
	p.addInfix(lexer.LBrace, precCall, callParselet)
	p.addInfix(lexer.Dot, precCall, memberParselet)
	p.addInfix(lexer.LBracket, precCall, indexParselet)
	p.addInfix(lexer.Colon, precCall, methodCallParselet)

	return p
}

func (p *Parser) addInfix(kind lexer.Kind, precedence int, fn infixParselet) {
	p.infix[kind] = fn
	p.prec[kind] = precedence
}

func (p *Parser) peek() lexer.Token { return p.Lexer.Peek() }
func (p *Parser) next() lexer.Token { return p.Lexer.Next() }

func (p *Parser) expect(kind lexer.Kind) (lexer.Token, feedback.Message) {
	tok := p.peek()
	if tok.Kind != kind {
		return tok, p.syntaxError(tok, fmt.Sprintf("expected `%s`, found `%s`", kind, tok.Kind))
	}
	return p.next(), nil
}

func (p *Parser) syntaxError(tok lexer.Token, desc string) feedback.Message {
	return feedback.Error{
		Classification: feedback.SyntaxError,
		File:           p.File,
		What: feedback.Selection{
			Description: desc,
			Span:        tok.Span,
		},
	}
}

func (p *Parser) currentPrecedence() int {
	if prec, ok := p.prec[p.peek().Kind]; ok {
		return prec
	}
	return precLowest
}

// ParseExpression parses a single expression honoring operator precedence,
// stopping once the next infix operator binds no tighter than precedence.
func (p *Parser) ParseExpression(precedence int) (ast.Expr, feedback.Message) {
	tok := p.next()

	prefix, ok := p.prefix[tok.Kind]
	if !ok {
		return nil, p.syntaxError(tok, fmt.Sprintf("unexpected token `%s`", tok.Lexeme))
	}

	left, msg := prefix(p, tok)
	if msg != nil {
		return nil, msg
	}

	for precedence < p.currentPrecedence() {
		opTok := p.next()
		infix := p.infix[opTok.Kind]

		left, msg = infix(p, left, opTok)
		if msg != nil {
			return nil, msg
		}
	}

	return left, nil
}

// Parse parses the full file as a Chunk.
func Parse(file *source.File) (chunk *ast.Chunk, msgs []feedback.Message) {
	p := NewParser(file)

	block, msg := p.parseBlock(lexer.EOF)
	if msg != nil {
		msgs = append(msgs, msg)
	}

	return &ast.Chunk{Name: file.Filename, Body: block}, msgs
}
