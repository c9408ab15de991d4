package parser

import (
	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/ir"
)

// itemStartsNext reports whether the current token can begin another
// property-selection item (spec §4.3.2): a number, a quoted string of
// any of the three kinds, or a bare identifier that is not claimed by
// the grammar's reserved vocabulary.
func (p *parser) itemStartsNext() bool {
	tok := p.cur()
	switch tok.Type {
	case TokenNumber, TokenMinus, TokenStringDouble, TokenStringSingle, TokenStringRaw:
		return true
	case TokenIdent:
		return p.g.IsBareWord(tok.Literal)
	default:
		return false
	}
}

// parseItems parses one or more items (spec §4.3.2's "items+").
func (p *parser) parseItems() ([]ir.Item, error) {
	var items []ir.Item
	for p.itemStartsNext() {
		item, err := p.parseItem()
		if err != nil {
			return nil, err
		}
		items = append(items, item)
	}
	if len(items) == 0 {
		return nil, &errs.ParseError{Position: p.cur().Pos, Got: p.cur().String(), Expected: "at least one selection item"}
	}
	return items, nil
}

func (p *parser) parseItem() (ir.Item, error) {
	tok := p.cur()
	switch tok.Type {
	case TokenStringDouble:
		p.advance()
		return &ir.RegexItem{Pattern: tok.Literal}, nil
	case TokenStringSingle:
		p.advance()
		return &ir.StringItem{Value: tok.Literal, Quote: ir.QuoteSingle}, nil
	case TokenStringRaw:
		p.advance()
		return &ir.StringItem{Value: tok.Literal, Quote: ir.QuoteRaw}, nil
	case TokenIdent:
		p.advance()
		return &ir.StringItem{Value: tok.Literal, Quote: ir.QuoteBare}, nil
	default:
		return p.parseNumberOrRangeItem()
	}
}

// parseNumberOrRangeItem parses "a", "a to b", "a:b", or "a:b:c" (spec
// §4.3.2). The range forms share a common prefix (a numeric/math
// operand) so the first operand is parsed once and dispatched on what
// follows it.
func (p *parser) parseNumberOrRangeItem() (ir.Item, error) {
	lo, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}

	if tok := p.cur(); tok.Type == TokenIdent && tok.Literal == "to" {
		p.advance()
		hi, err := p.parseMathExpr()
		if err != nil {
			return nil, err
		}
		return &ir.RangeItem{Lo: lo, Hi: hi}, nil
	}

	if p.cur().Type == TokenColon {
		p.advance()
		hi, err := p.parseMathExpr()
		if err != nil {
			return nil, err
		}
		var step ir.Expr
		if p.cur().Type == TokenColon {
			p.advance()
			step, err = p.parseMathExpr()
			if err != nil {
				return nil, err
			}
		}
		return &ir.RangeItem{Lo: lo, Hi: hi, Step: step}, nil
	}

	return &ir.NumberItem{Value: lo}, nil
}
