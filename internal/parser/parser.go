// Package parser builds an ast.Contract from macro-assembler source text.
// It sits upstream of the code-generation core, producing a Contract with
// unique macro/constant names and well-formed invocation argument lists,
// and is kept intentionally small.
package parser

import (
	"fmt"
	"math/big"

	"github.com/huffgo/huffc/internal/ast"
	"github.com/huffgo/huffc/internal/lexer"
	"github.com/huffgo/huffc/internal/opcodes"
)

// Error is a syntax error raised while parsing, carrying the source
// position of the offending token.
type Error struct {
	Message string
	Span    ast.Span
}

func (e *Error) Error() string {
	return fmt.Sprintf("%s:%d: %s", e.Span.File, e.Span.Start, e.Message)
}

type parser struct {
	file   string
	tokens []lexer.Token
	pos    int
}

// Parse lexes and parses src (attributed to file for diagnostics) into a
// Contract. The entry macro is the one named by an explicit "#entry NAME"
// directive if present, otherwise the macro named "MAIN", otherwise the
// first macro declared in source order.
func Parse(file, src string) (*ast.Contract, error) {
	p := &parser{file: file, tokens: lexer.New(src).Tokenize()}

	contract := &ast.Contract{
		Macros: map[string]*ast.MacroDefinition{},
	}
	var macroOrder []string
	explicitEntry := ""

	for !p.at(lexer.EOF) {
		if err := p.expect(lexer.HASH); err != nil {
			return nil, err
		}
		kw, err := p.identLiteral()
		if err != nil {
			return nil, err
		}
		switch kw {
		case "define":
			sub, err := p.identLiteral()
			if err != nil {
				return nil, err
			}
			switch sub {
			case "constant":
				c, err := p.parseConstant()
				if err != nil {
					return nil, err
				}
				for _, prev := range contract.Constants {
					if prev.Name == c.Name {
						return nil, p.errorf("duplicate constant definition %q", c.Name)
					}
				}
				contract.Constants = append(contract.Constants, c)
			case "macro":
				m, err := p.parseMacro()
				if err != nil {
					return nil, err
				}
				if _, dup := contract.Macros[m.Name]; dup {
					return nil, p.errorf("duplicate macro definition %q", m.Name)
				}
				contract.Macros[m.Name] = m
				macroOrder = append(macroOrder, m.Name)
			default:
				return nil, p.errorf("unknown #define kind %q", sub)
			}
		case "entry":
			name, err := p.identLiteral()
			if err != nil {
				return nil, err
			}
			explicitEntry = name
		default:
			return nil, p.errorf("unknown directive %q", kw)
		}
	}

	switch {
	case explicitEntry != "":
		contract.Entry = explicitEntry
	case contract.Macros["MAIN"] != nil:
		contract.Entry = "MAIN"
	case len(macroOrder) > 0:
		contract.Entry = macroOrder[0]
	}

	return contract, nil
}

func (p *parser) parseConstant() (*ast.ConstantDefinition, error) {
	name, err := p.identLiteral()
	if err != nil {
		return nil, err
	}
	startSpan := p.span()
	if err := p.expect(lexer.EQUALS); err != nil {
		return nil, err
	}
	if p.at(lexer.IDENT) && p.cur().Literal == "FREE_STORAGE_POINTER" {
		p.advance()
		if err := p.expect(lexer.LPAREN); err != nil {
			return nil, err
		}
		if err := p.expect(lexer.RPAREN); err != nil {
			return nil, err
		}
		return &ast.ConstantDefinition{Name: name, Value: ast.ConstVal{IsFreeStoragePointer: true}, Span: ast.AstSpan{startSpan}}, nil
	}
	lit, err := p.expectNumber()
	if err != nil {
		return nil, err
	}
	return &ast.ConstantDefinition{Name: name, Value: ast.ConstVal{Literal: lit}, Span: ast.AstSpan{startSpan}}, nil
}

func (p *parser) parseMacro() (*ast.MacroDefinition, error) {
	name, err := p.identLiteral()
	if err != nil {
		return nil, err
	}
	span := p.span()

	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var params []ast.Parameter
	for !p.at(lexer.RPAREN) {
		pname, err := p.identLiteral()
		if err != nil {
			return nil, err
		}
		params = append(params, ast.Parameter{Name: pname})
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.EQUALS); err != nil {
		return nil, err
	}
	if err := p.skipTakesReturns(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.LBRACE); err != nil {
		return nil, err
	}
	body, err := p.parseBody()
	if err != nil {
		return nil, err
	}
	if err := p.expect(lexer.RBRACE); err != nil {
		return nil, err
	}
	return &ast.MacroDefinition{Name: name, Parameters: params, Body: body, Span: ast.AstSpan{span}}, nil
}

func (p *parser) skipTakesReturns() error {
	for _, kw := range []string{"takes", "returns"} {
		got, err := p.identLiteral()
		if err != nil {
			return err
		}
		if got != kw {
			return p.errorf("expected %q, got %q", kw, got)
		}
		if err := p.expect(lexer.LPAREN); err != nil {
			return err
		}
		if _, err := p.expectNumber(); err != nil {
			return err
		}
		if err := p.expect(lexer.RPAREN); err != nil {
			return err
		}
	}
	return nil
}

func (p *parser) parseBody() ([]ast.BodyStatement, error) {
	var stmts []ast.BodyStatement
	for !p.at(lexer.RBRACE) && !p.at(lexer.EOF) {
		stmt, err := p.parseStatement()
		if err != nil {
			return nil, err
		}
		stmts = append(stmts, stmt)
	}
	return stmts, nil
}

func (p *parser) parseStatement() (ast.BodyStatement, error) {
	span := ast.AstSpan{p.span()}

	switch {
	case p.at(lexer.LBRACKET):
		p.advance()
		name, err := p.identLiteral()
		if err != nil {
			return ast.BodyStatement{}, err
		}
		if err := p.expect(lexer.RBRACKET); err != nil {
			return ast.BodyStatement{}, err
		}
		return ast.BodyStatement{Kind: ast.StmtConstRef, Name: name, Span: span}, nil

	case p.at(lexer.LANGLE):
		p.advance()
		name, err := p.identLiteral()
		if err != nil {
			return ast.BodyStatement{}, err
		}
		if err := p.expect(lexer.RANGLE); err != nil {
			return ast.BodyStatement{}, err
		}
		return ast.BodyStatement{Kind: ast.StmtArgRef, Name: name, Span: span}, nil

	case p.at(lexer.NUMBER):
		lit, err := p.expectNumber()
		if err != nil {
			return ast.BodyStatement{}, err
		}
		return ast.BodyStatement{Kind: ast.StmtLiteralPush, Literal: lit, Span: span}, nil

	case p.at(lexer.IDENT):
		name, err := p.identLiteral()
		if err != nil {
			return ast.BodyStatement{}, err
		}
		switch {
		case p.at(lexer.COLON):
			p.advance()
			return ast.BodyStatement{Kind: ast.StmtLabelDef, Name: name, Span: span}, nil
		case p.at(lexer.LPAREN):
			args, err := p.parseInvocationArgs()
			if err != nil {
				return ast.BodyStatement{}, err
			}
			return ast.BodyStatement{
				Kind:       ast.StmtInvoke,
				Invocation: ast.MacroInvocation{MacroName: name, Args: args, Span: span},
				Span:       span,
			}, nil
		default:
			if _, ok := opcodes.ResolveOpcode(name); ok {
				return ast.BodyStatement{Kind: ast.StmtOpcode, Opcode: name, Span: span}, nil
			}
			return ast.BodyStatement{Kind: ast.StmtLabelRef, Name: name, Span: span}, nil
		}

	default:
		return ast.BodyStatement{}, p.errorf("unexpected token %q in macro body", p.cur().Literal)
	}
}

func (p *parser) parseInvocationArgs() ([]ast.MacroArg, error) {
	if err := p.expect(lexer.LPAREN); err != nil {
		return nil, err
	}
	var args []ast.MacroArg
	for !p.at(lexer.RPAREN) {
		arg, err := p.parseMacroArg()
		if err != nil {
			return nil, err
		}
		args = append(args, arg)
		if p.at(lexer.COMMA) {
			p.advance()
		}
	}
	if err := p.expect(lexer.RPAREN); err != nil {
		return nil, err
	}
	return args, nil
}

func (p *parser) parseMacroArg() (ast.MacroArg, error) {
	switch {
	case p.at(lexer.NUMBER):
		lit, err := p.expectNumber()
		if err != nil {
			return ast.MacroArg{}, err
		}
		return ast.MacroArg{Kind: ast.ArgLiteral, Literal: lit}, nil
	case p.at(lexer.LANGLE):
		p.advance()
		name, err := p.identLiteral()
		if err != nil {
			return ast.MacroArg{}, err
		}
		if err := p.expect(lexer.RANGLE); err != nil {
			return ast.MacroArg{}, err
		}
		return ast.MacroArg{Kind: ast.ArgCallKind, Name: name}, nil
	case p.at(lexer.IDENT):
		name, err := p.identLiteral()
		if err != nil {
			return ast.MacroArg{}, err
		}
		return ast.MacroArg{Kind: ast.ArgIdent, Name: name}, nil
	default:
		return ast.MacroArg{}, p.errorf("unexpected token %q in macro invocation arguments", p.cur().Literal)
	}
}

// --- token-stream helpers ---

func (p *parser) cur() lexer.Token { return p.tokens[p.pos] }

func (p *parser) at(t lexer.TokenType) bool { return p.cur().Type == t }

func (p *parser) advance() lexer.Token {
	tok := p.cur()
	if p.pos < len(p.tokens)-1 {
		p.pos++
	}
	return tok
}

func (p *parser) span() ast.Span {
	t := p.cur()
	return ast.Span{File: p.file, Start: t.Offset, End: t.Offset + len(t.Literal)}
}

func (p *parser) expect(t lexer.TokenType) error {
	if !p.at(t) {
		return p.errorf("unexpected token %q", p.cur().Literal)
	}
	p.advance()
	return nil
}

func (p *parser) identLiteral() (string, error) {
	if !p.at(lexer.IDENT) {
		return "", p.errorf("expected identifier, got %q", p.cur().Literal)
	}
	return p.advance().Literal, nil
}

func (p *parser) expectNumber() ([32]byte, error) {
	var out [32]byte
	if !p.at(lexer.NUMBER) {
		return out, p.errorf("expected number, got %q", p.cur().Literal)
	}
	lit := p.advance().Literal
	n := new(big.Int)
	if len(lit) > 2 && (lit[1] == 'x' || lit[1] == 'X') {
		n.SetString(lit[2:], 16)
	} else {
		n.SetString(lit, 10)
	}
	n.FillBytes(out[:])
	return out, nil
}

func (p *parser) errorf(format string, args ...interface{}) error {
	return &Error{Message: fmt.Sprintf(format, args...), Span: p.span()}
}
