// File: parser/parser.go
//
// Package parser implements the MolSelect recursive-descent parser
// (spec §4.3). The whole query is tokenized up front (lexer.go) into a
// slice rather than read as a stream, because the "(" math_expr ")"
// items+ property-selection form and the "(" predicate ")" logical
// grouping form share an opening token and can only be told apart by
// looking past the matching close paren — far simpler against a
// materialized token slice than a classic two-token lookahead reader.
package parser

import (
	"strings"

	"github.com/dangerclosesec/molselect/errs"
	"github.com/dangerclosesec/molselect/grammar"
	"github.com/dangerclosesec/molselect/ir"
)

type parser struct {
	toks  []Token
	pos   int
	g     *grammar.Grammar
	query string
}

// Parse tokenizes and parses query against g, producing a typed IR
// tree (spec §4.3). The parser never evaluates; macro expansion and
// evaluation are separate stages.
func Parse(g *grammar.Grammar, query string) (ir.Pred, error) {
	toks, err := tokenize(query)
	if err != nil {
		if pe, ok := err.(*errs.ParseError); ok {
			pe.Query = query
		}
		return nil, err
	}
	p := &parser{toks: toks, g: g, query: query}

	pred, err := p.parseOr()
	if err != nil {
		return nil, annotate(err, query)
	}
	if p.cur().Type != TokenEOF {
		return nil, &errs.ParseError{Query: query, Position: p.cur().Pos, Got: p.cur().String(), Expected: "end of query"}
	}
	return pred, nil
}

func annotate(err error, query string) error {
	if pe, ok := err.(*errs.ParseError); ok && pe.Query == "" {
		pe.Query = query
	}
	return err
}

func (p *parser) cur() Token {
	return p.toks[p.pos]
}

func (p *parser) peek(n int) Token {
	i := p.pos + n
	if i >= len(p.toks) {
		return p.toks[len(p.toks)-1] // EOF sentinel
	}
	return p.toks[i]
}

func (p *parser) advance() Token {
	t := p.toks[p.pos]
	if p.pos < len(p.toks)-1 {
		p.pos++
	}
	return t
}

func (p *parser) mark() int { return p.pos }

func (p *parser) reset(mark int) { p.pos = mark }

func (p *parser) identLower() (string, bool) {
	if p.cur().Type != TokenIdent {
		return "", false
	}
	return strings.ToLower(p.cur().Literal), true
}

// --- Logical layer: OR < XOR < AND < NOT (spec §4.3.1) ---

func (p *parser) parseOr() (ir.Pred, error) {
	left, err := p.parseXor()
	if err != nil {
		return nil, err
	}
	for p.isOrToken() {
		p.advance()
		right, err := p.parseXor()
		if err != nil {
			return nil, err
		}
		left = &ir.Or{Left: left, Right: right}
	}
	return left, nil
}

func (p *parser) isOrToken() bool {
	if p.cur().Type == TokenPipePipe {
		return true
	}
	lit, ok := p.identLower()
	return ok && lit == "or"
}

func (p *parser) parseXor() (ir.Pred, error) {
	left, err := p.parseAnd()
	if err != nil {
		return nil, err
	}
	for {
		lit, ok := p.identLower()
		if !ok || lit != "xor" {
			return left, nil
		}
		p.advance()
		right, err := p.parseAnd()
		if err != nil {
			return nil, err
		}
		left = &ir.Xor{Left: left, Right: right}
	}
}

func (p *parser) parseAnd() (ir.Pred, error) {
	left, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	for {
		explicit := p.isAndToken()
		if explicit {
			p.advance()
		} else if !p.startsUnit() {
			return left, nil
		}
		right, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		left = &ir.And{Left: left, Right: right}
	}
}

func (p *parser) isAndToken() bool {
	if p.cur().Type == TokenAmpAmp {
		return true
	}
	lit, ok := p.identLower()
	return ok && lit == "and"
}

// startsUnit reports whether the current token can begin a new
// predicate unit, used to recognize implicit AND from bare
// juxtaposition ("A B" means "A and B", spec §4.3.1) while not
// mistaking a logical operator, a closing paren, or EOF for one.
func (p *parser) startsUnit() bool {
	switch p.cur().Type {
	case TokenEOF, TokenRParen:
		return false
	case TokenLParen, TokenAt, TokenNumber, TokenMinus, TokenDollar,
		TokenStringDouble, TokenStringSingle, TokenStringRaw:
		return true
	case TokenBang:
		return true
	}
	lit, ok := p.identLower()
	if !ok {
		return false
	}
	switch lit {
	case "or", "xor", "and", "to", "as", "of":
		return false
	}
	return true
}

func (p *parser) parseNot() (ir.Pred, error) {
	if p.cur().Type == TokenBang {
		p.advance()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ir.Not{Inner: inner}, nil
	}
	if lit, ok := p.identLower(); ok && lit == "not" {
		p.advance()
		inner, err := p.parseNot()
		if err != nil {
			return nil, err
		}
		return &ir.Not{Inner: inner}, nil
	}
	return p.parseUnit()
}

// parseUnit parses one predicate form (spec §4.3.2): a parenthesized
// group, a spatial/bonded/sequence/same-as form, a bare boolean flag,
// or the generic math-expression-rooted dispatch that covers property
// selection, comparison chains, regex selection, and keyword flags.
func (p *parser) parseUnit() (ir.Pred, error) {
	tok := p.cur()

	if tok.Type == TokenLParen {
		return p.parseParenForm()
	}
	if tok.Type == TokenAt {
		p.advance()
		nameTok := p.cur()
		if nameTok.Type != TokenIdent {
			return nil, &errs.ParseError{Position: nameTok.Pos, Got: nameTok.String(), Expected: "a macro name after '@'"}
		}
		canon, ok := p.g.MacroNames[nameTok.Literal]
		if !ok {
			return nil, &errs.ParseError{Position: nameTok.Pos, Got: nameTok.Literal, Expected: "a registered macro name"}
		}
		p.advance()
		return &ir.BoolFlag{Kind: ir.FlagMacro, Name: canon}, nil
	}

	if lit, ok := p.identLower(); ok {
		switch lit {
		case "all", "everything":
			p.advance()
			return &ir.BoolFlag{Kind: ir.FlagAll}, nil
		case "none", "nothing":
			p.advance()
			return &ir.BoolFlag{Kind: ir.FlagNone}, nil
		case "within", "exwithin":
			return p.parseSpatial(lit)
		case "bonded", "exbonded":
			return p.parseBonded(lit)
		case "sequence":
			return p.parseSequence()
		case "same":
			return p.parseSameAs()
		}
		if canon, ok := p.g.MacroNames[p.cur().Literal]; ok {
			p.advance()
			return &ir.BoolFlag{Kind: ir.FlagMacro, Name: canon}, nil
		}
	}

	return p.parseFieldRooted()
}

// parseFieldRooted parses the generic "math_expr-first" forms: property
// selection, comparison chains, regex selection, and the bare-keyword
// boolean flag (spec §4.3.2/§4.3.3).
func (p *parser) parseFieldRooted() (ir.Pred, error) {
	lhs, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}

	if op, ok := compareOpOf(p.cur()); ok {
		return p.parseCompareChain(lhs, op)
	}
	if p.cur().Type == TokenRegexOp {
		p.advance()
		pat := p.cur()
		if pat.Type != TokenStringDouble {
			return nil, &errs.ParseError{Position: pat.Pos, Got: pat.String(), Expected: `a double-quoted regex pattern`}
		}
		p.advance()
		return &ir.RegexSel{Field: lhs, Pattern: pat.Literal}, nil
	}
	if p.itemStartsNext() {
		items, err := p.parseItems()
		if err != nil {
			return nil, err
		}
		return &ir.PropertySel{Field: lhs, Items: items}, nil
	}
	if fr, ok := lhs.(*ir.FieldRef); ok {
		return &ir.BoolFlag{Kind: ir.FlagKeyword, Name: fr.Keyword}, nil
	}
	return nil, &errs.ParseError{Position: p.cur().Pos, Got: p.cur().String(), Expected: "a comparison, selection items, or '=~'"}
}

func compareOpOf(tok Token) (ir.CompareOp, bool) {
	switch tok.Type {
	case TokenLE:
		return ir.OpLE, true
	case TokenGE:
		return ir.OpGE, true
	case TokenEQ:
		return ir.OpEQ, true
	case TokenNE:
		return ir.OpNE, true
	case TokenLT:
		return ir.OpLT, true
	case TokenGT:
		return ir.OpGT, true
	}
	if tok.Type == TokenIdent {
		switch tok.Literal {
		case "le":
			return ir.OpLE, true
		case "ge":
			return ir.OpGE, true
		case "eq":
			return ir.OpEQ, true
		case "ne":
			return ir.OpNE, true
		case "lt":
			return ir.OpLT, true
		case "gt":
			return ir.OpGT, true
		}
	}
	return 0, false
}

// parseCompareChain parses "a op b (op c)*" (spec §4.3.2): a chain of
// two or more comparands means each adjacent pair must satisfy its
// operator. A chain whose every comparand is scalar would produce a
// single boolean, not a mask, so it is statically rejected here
// (errs.PureNumericMaskError) rather than at evaluation time.
func (p *parser) parseCompareChain(first ir.Expr, firstOp ir.CompareOp) (ir.Pred, error) {
	comparands := []ir.Expr{first}
	ops := []ir.CompareOp{}

	op := firstOp
	for {
		p.advance() // consume the operator token
		next, err := p.parseMathExpr()
		if err != nil {
			return nil, err
		}
		comparands = append(comparands, next)
		ops = append(ops, op)

		var ok bool
		op, ok = compareOpOf(p.cur())
		if !ok {
			break
		}
	}

	allScalar := true
	for _, c := range comparands {
		if c.Type() == ir.TypeVector {
			allScalar = false
			break
		}
	}
	if allScalar {
		return nil, &errs.PureNumericMaskError{Expression: (&ir.CompareSel{Comparands: comparands, Ops: ops}).String()}
	}
	return &ir.CompareSel{Comparands: comparands, Ops: ops}, nil
}

// parseParenForm resolves the "(" predicate ")" vs "(" math_expr ")"
// items+ ambiguity (spec §4.3.2) by first attempting the math-expr
// interpretation and checking whether an item follows its closing
// paren; if that fails or no item follows, it backtracks and parses
// the contents as a full grouped predicate instead.
func (p *parser) parseParenForm() (ir.Pred, error) {
	start := p.mark()
	p.advance() // consume "("

	if expr, ok := p.tryParsePropertySelParen(); ok {
		items, err := p.parseItems()
		if err != nil {
			return nil, err
		}
		return &ir.PropertySel{Field: expr, Items: items}, nil
	}

	p.reset(start)
	p.advance() // consume "("
	inner, err := p.parseOr()
	if err != nil {
		return nil, err
	}
	if p.cur().Type != TokenRParen {
		return nil, &errs.ParseError{Position: p.cur().Pos, Got: p.cur().String(), Expected: ")"}
	}
	p.advance()
	return inner, nil
}

// tryParsePropertySelParen attempts the "(" math_expr ")" items+
// reading. It only commits (returns ok=true) if a complete math
// expression, a closing paren, and at least one following item are all
// present; any failure leaves the caller free to backtrack.
func (p *parser) tryParsePropertySelParen() (ir.Expr, bool) {
	mark := p.mark()
	expr, err := p.parseMathExpr()
	if err != nil {
		p.reset(mark)
		return nil, false
	}
	if p.cur().Type != TokenRParen {
		p.reset(mark)
		return nil, false
	}
	p.advance()
	if !p.itemStartsNext() {
		p.reset(mark)
		return nil, false
	}
	return expr, true
}

// parseSpatial parses "within N of EXPR" / "exwithin N of EXPR" (spec
// §4.3.2). EXPR binds at unit precedence: a compound inner selection
// needs explicit parentheses ("within 5 of (protein or water)").
func (p *parser) parseSpatial(kw string) (ir.Pred, error) {
	p.advance() // consume within/exwithin
	dist, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}
	if lit, ok := p.identLower(); !ok || lit != "of" {
		return nil, &errs.ParseError{Position: p.cur().Pos, Got: p.cur().String(), Expected: "'of'"}
	}
	p.advance()
	inner, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	op := ir.OpWithin
	if kw == "exwithin" {
		op = ir.OpExWithin
	}
	return &ir.WithinSel{Op: op, Distance: dist, Inner: inner}, nil
}

// parseBonded parses "bonded N to EXPR" / "exbonded N to EXPR".
func (p *parser) parseBonded(kw string) (ir.Pred, error) {
	p.advance() // consume bonded/exbonded
	hops, err := p.parseMathExpr()
	if err != nil {
		return nil, err
	}
	if lit, ok := p.identLower(); !ok || lit != "to" {
		return nil, &errs.ParseError{Position: p.cur().Pos, Got: p.cur().String(), Expected: "'to'"}
	}
	p.advance()
	inner, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	op := ir.OpBonded
	if kw == "exbonded" {
		op = ir.OpExBonded
	}
	return &ir.BondedSel{Op: op, Hops: hops, Inner: inner}, nil
}

// parseSequence parses "sequence PATTERN" where PATTERN is any of the
// three quoted item forms or a bare word (spec §4.3.2). The quote kind
// decides the matching mode: a double-quoted pattern is a regex
// (IsRegex), every other form is a literal substring.
func (p *parser) parseSequence() (ir.Pred, error) {
	p.advance() // consume "sequence"
	tok := p.cur()
	switch tok.Type {
	case TokenStringDouble:
		p.advance()
		return &ir.SequenceSel{Pattern: tok.Literal, IsRegex: true}, nil
	case TokenStringSingle, TokenStringRaw:
		p.advance()
		return &ir.SequenceSel{Pattern: tok.Literal}, nil
	case TokenIdent:
		p.advance()
		return &ir.SequenceSel{Pattern: tok.Literal}, nil
	default:
		return nil, &errs.ParseError{Position: tok.Pos, Got: tok.String(), Expected: "a sequence pattern"}
	}
}

// parseSameAs parses "same KEYWORD as EXPR" (spec §4.3.2).
func (p *parser) parseSameAs() (ir.Pred, error) {
	p.advance() // consume "same"
	kwTok := p.cur()
	if kwTok.Type != TokenIdent {
		return nil, &errs.ParseError{Position: kwTok.Pos, Got: kwTok.String(), Expected: "a grouping keyword"}
	}
	canon, ok := p.g.KeywordNames[kwTok.Literal]
	if !ok {
		return nil, &errs.UnknownFieldError{Field: kwTok.Literal}
	}
	p.advance()
	if lit, ok := p.identLower(); !ok || lit != "as" {
		return nil, &errs.ParseError{Position: p.cur().Pos, Got: p.cur().String(), Expected: "'as'"}
	}
	p.advance()
	inner, err := p.parseNot()
	if err != nil {
		return nil, err
	}
	return &ir.SameAsSel{Grouping: canon, Inner: inner}, nil
}
