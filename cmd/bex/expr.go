package main

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/oisee/boolex/pkg/bdd"
	"github.com/oisee/boolex/pkg/nid"
	"github.com/oisee/boolex/pkg/vid"
)

// tokKind enumerates the tiny expression lexer's token kinds.
type tokKind int

const (
	tokEOF tokKind = iota
	tokIdent
	tokNumber
	tokAnd
	tokOr
	tokXor
	tokNot
	tokLParen
	tokRParen
	tokComma
)

type token struct {
	kind tokKind
	text string
}

func lex(s string) ([]token, error) {
	var toks []token
	i := 0
	for i < len(s) {
		c := s[i]
		switch {
		case c == ' ' || c == '\t' || c == '\n':
			i++
		case c == '&':
			toks = append(toks, token{tokAnd, "&"})
			i++
		case c == '|':
			toks = append(toks, token{tokOr, "|"})
			i++
		case c == '^':
			toks = append(toks, token{tokXor, "^"})
			i++
		case c == '!':
			toks = append(toks, token{tokNot, "!"})
			i++
		case c == '(':
			toks = append(toks, token{tokLParen, "("})
			i++
		case c == ')':
			toks = append(toks, token{tokRParen, ")"})
			i++
		case c == ',':
			toks = append(toks, token{tokComma, ","})
			i++
		case isIdentStart(c):
			j := i + 1
			for j < len(s) && isIdentCont(s[j]) {
				j++
			}
			toks = append(toks, token{tokIdent, s[i:j]})
			i = j
		default:
			return nil, errors.Errorf("bex: lex: unexpected character %q at offset %d in %q", c, i, s)
		}
	}
	toks = append(toks, token{tokEOF, ""})
	return toks, nil
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '0' || c == '1'
}

func isIdentCont(c byte) bool {
	return (c >= '0' && c <= '9') || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z')
}

// exprParser is a recursive-descent parser for a tiny Boolean expression
// grammar over real variables x0..xN, building the result directly in a
// *bdd.Store: the same role cmd/z80opt's parseAssembly plays for assembly
// text, adapted to this domain's expression language instead.
//
//	expr   := or
//	or     := xor ('|' xor)*
//	xor    := and ('^' and)*
//	and    := not ('&' not)*
//	not    := '!' not | atom
//	atom   := '(' expr ')' | 'ite' '(' expr ',' expr ',' expr ')' | IDENT
type exprParser struct {
	toks  []token
	pos   int
	store *bdd.Store
}

// ParseExpr parses s and builds the resulting NID in store.
func ParseExpr(store *bdd.Store, s string) (nid.NID, error) {
	toks, err := lex(s)
	if err != nil {
		return 0, err
	}
	p := &exprParser{toks: toks, store: store}
	n, err := p.parseOr()
	if err != nil {
		return 0, err
	}
	if p.cur().kind != tokEOF {
		return 0, errors.Errorf("bex: parse: trailing input at %q", p.cur().text)
	}
	return n, nil
}

func (p *exprParser) cur() token  { return p.toks[p.pos] }
func (p *exprParser) advance()    { p.pos++ }
func (p *exprParser) eat(k tokKind, what string) error {
	if p.cur().kind != k {
		return errors.Errorf("bex: parse: expected %s, got %q", what, p.cur().text)
	}
	p.advance()
	return nil
}

func (p *exprParser) parseOr() (nid.NID, error) {
	n, err := p.parseXor()
	if err != nil {
		return 0, err
	}
	for p.cur().kind == tokOr {
		p.advance()
		m, err := p.parseXor()
		if err != nil {
			return 0, err
		}
		n = p.store.Or(n, m)
	}
	return n, nil
}

func (p *exprParser) parseXor() (nid.NID, error) {
	n, err := p.parseAnd()
	if err != nil {
		return 0, err
	}
	for p.cur().kind == tokXor {
		p.advance()
		m, err := p.parseAnd()
		if err != nil {
			return 0, err
		}
		n = p.store.Xor(n, m)
	}
	return n, nil
}

func (p *exprParser) parseAnd() (nid.NID, error) {
	n, err := p.parseNot()
	if err != nil {
		return 0, err
	}
	for p.cur().kind == tokAnd {
		p.advance()
		m, err := p.parseNot()
		if err != nil {
			return 0, err
		}
		n = p.store.And(n, m)
	}
	return n, nil
}

func (p *exprParser) parseNot() (nid.NID, error) {
	if p.cur().kind == tokNot {
		p.advance()
		n, err := p.parseNot()
		if err != nil {
			return 0, err
		}
		return nid.Not(n), nil
	}
	return p.parseAtom()
}

func (p *exprParser) parseAtom() (nid.NID, error) {
	t := p.cur()
	switch t.kind {
	case tokLParen:
		p.advance()
		n, err := p.parseOr()
		if err != nil {
			return 0, err
		}
		if err := p.eat(tokRParen, "')'"); err != nil {
			return 0, err
		}
		return n, nil
	case tokIdent:
		if strings.EqualFold(t.text, "ite") && p.pos+1 < len(p.toks) && p.toks[p.pos+1].kind == tokLParen {
			return p.parseIte()
		}
		return p.parseIdent(t.text)
	default:
		return 0, errors.Errorf("bex: parse: unexpected token %q", t.text)
	}
}

func (p *exprParser) parseIte() (nid.NID, error) {
	p.advance() // "ite"
	if err := p.eat(tokLParen, "'('"); err != nil {
		return 0, err
	}
	i, err := p.parseOr()
	if err != nil {
		return 0, err
	}
	if err := p.eat(tokComma, "','"); err != nil {
		return 0, err
	}
	then, err := p.parseOr()
	if err != nil {
		return 0, err
	}
	if err := p.eat(tokComma, "','"); err != nil {
		return 0, err
	}
	els, err := p.parseOr()
	if err != nil {
		return 0, err
	}
	if err := p.eat(tokRParen, "')'"); err != nil {
		return 0, err
	}
	return p.store.Ite(i, then, els), nil
}

func (p *exprParser) parseIdent(text string) (nid.NID, error) {
	p.advance()
	switch text {
	case "0":
		return nid.O, nil
	case "1":
		return nid.I, nil
	}
	if !strings.HasPrefix(text, "x") {
		return 0, errors.Errorf("bex: parse: unrecognized identifier %q", text)
	}
	ix, err := strconv.ParseUint(text[1:], 16, 32)
	if err != nil {
		return 0, errors.Wrapf(err, "bex: parse: bad variable %q", text)
	}
	return nid.FromVid(vid.Var(uint32(ix))), nil
}

// countVars returns 1 + the highest real variable index textually present
// in s, a quick-and-dirty default for --vars when the flag is omitted.
func countVars(s string) int {
	hi := -1
	toks, err := lex(s)
	if err != nil {
		return 0
	}
	for _, t := range toks {
		if t.kind != tokIdent || !strings.HasPrefix(t.text, "x") {
			continue
		}
		ix, err := strconv.ParseUint(t.text[1:], 16, 32)
		if err == nil && int(ix) > hi {
			hi = int(ix)
		}
	}
	return hi + 1
}
