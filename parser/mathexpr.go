package parser

import (
	"strconv"
	"strings"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/ir"
)

// funcNames is the single-argument math function vocabulary (spec
// §4.3.3). "sq", "sqr", and "square" are synonyms of the same function.
var funcNames = map[string]string{
	"sin": "sin", "cos": "cos", "tan": "tan",
	"asin": "asin", "acos": "acos", "atan": "atan",
	"sinh": "sinh", "cosh": "cosh", "tanh": "tanh",
	"exp": "exp", "log": "log", "log10": "log10", "sqrt": "sqrt",
	"sq": "square", "sqr": "square", "square": "square",
	"abs": "abs", "floor": "floor", "ceil": "ceil",
}

// parseMathExpr parses the additive level of the arithmetic sub-grammar
// (spec §4.3.3). The same grammar serves both the pure-numeric and mixed
// forms; whether the result is scalar or vector falls out of which leaf
// nodes it touches (ir.Expr.Type).
func (p *parser) parseMathExpr() (ir.Expr, error) {
	left, err := p.parseMathTerm()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case TokenPlus, TokenMinus:
			op := p.advance().Literal
			right, err := p.parseMathTerm()
			if err != nil {
				return nil, err
			}
			left = &ir.BinOp{Op: op, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

func (p *parser) parseMathTerm() (ir.Expr, error) {
	left, err := p.parseMathPower()
	if err != nil {
		return nil, err
	}
	for {
		switch p.cur().Type {
		case TokenStar, TokenSlash, TokenSlash2, TokenPercent:
			op := p.advance().Literal
			right, err := p.parseMathPower()
			if err != nil {
				return nil, err
			}
			left = &ir.BinOp{Op: op, Left: left, Right: right}
		default:
			return left, nil
		}
	}
}

// parseMathPower is right-associative: 2 ** 3 ** 2 == 2 ** (3 ** 2).
func (p *parser) parseMathPower() (ir.Expr, error) {
	base, err := p.parseMathUnary()
	if err != nil {
		return nil, err
	}
	if p.cur().Type == TokenStarStar {
		p.advance()
		exp, err := p.parseMathPower()
		if err != nil {
			return nil, err
		}
		return &ir.BinOp{Op: "**", Left: base, Right: exp}, nil
	}
	return base, nil
}

func (p *parser) parseMathUnary() (ir.Expr, error) {
	if p.cur().Type == TokenMinus {
		p.advance()
		operand, err := p.parseMathUnary()
		if err != nil {
			return nil, err
		}
		return &ir.Neg{Operand: operand}, nil
	}
	return p.parseMathAtom()
}

func (p *parser) parseMathAtom() (ir.Expr, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenNumber:
		p.advance()
		return parseNumLit(tok.Literal)
	case TokenDollar:
		p.advance()
		nameTok := p.cur()
		if nameTok.Type != TokenIdent {
			return nil, &errs.ParseError{Position: nameTok.Pos, Got: nameTok.String(), Expected: "a variable name after '$'"}
		}
		p.advance()
		return &ir.VarRef{Name: nameTok.Literal}, nil
	case TokenLParen:
		p.advance()
		inner, err := p.parseMathExpr()
		if err != nil {
			return nil, err
		}
		if p.cur().Type != TokenRParen {
			return nil, &errs.ParseError{Position: p.cur().Pos, Got: p.cur().String(), Expected: ")"}
		}
		p.advance()
		return inner, nil
	case TokenIdent:
		lower := strings.ToLower(tok.Literal)
		switch lower {
		case "pi":
			p.advance()
			return &ir.Const{Kind: ir.ConstPi}, nil
		case "e":
			p.advance()
			return &ir.Const{Kind: ir.ConstE}, nil
		}
		if fn, ok := funcNames[lower]; ok {
			p.advance()
			if p.cur().Type != TokenLParen {
				return nil, &errs.ParseError{Position: p.cur().Pos, Got: p.cur().String(), Expected: "("}
			}
			p.advance()
			arg, err := p.parseMathExpr()
			if err != nil {
				return nil, err
			}
			if p.cur().Type != TokenRParen {
				return nil, &errs.ParseError{Position: p.cur().Pos, Got: p.cur().String(), Expected: ")"}
			}
			p.advance()
			return &ir.FuncCall{Name: fn, Arg: arg}, nil
		}
		canon, ok := p.g.KeywordNames[tok.Literal]
		if !ok {
			canon, ok = p.g.KeywordNames[lower]
		}
		if ok {
			p.advance()
			return &ir.FieldRef{Keyword: canon}, nil
		}
		return nil, &errs.ParseError{Position: tok.Pos, Got: tok.Literal, Expected: "a number, constant, function call, or keyword"}
	default:
		return nil, &errs.ParseError{Position: tok.Pos, Got: tok.String(), Expected: "a math expression"}
	}
}

func parseNumLit(lit string) (*ir.NumLit, error) {
	if !strings.ContainsAny(lit, ".eE") {
		if iv, err := strconv.ParseInt(lit, 10, 64); err == nil {
			return &ir.NumLit{Value: float64(iv), IsInt: true}, nil
		}
	}
	fv, err := strconv.ParseFloat(lit, 64)
	if err != nil {
		return nil, &errs.ParseError{Got: lit, Expected: "a numeric literal"}
	}
	return &ir.NumLit{Value: fv, IsInt: false}, nil
}
