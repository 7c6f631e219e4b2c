package ui

import (
	"errors"
	"fmt"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

var ErrInvalidAmount = errors.New("invalid amount")

// ParseAmount reads a money amount written as a number or as an arithmetic
// expression (+, -, *, /, parentheses). Numbers may carry a k or m suffix
// (1.5k = 1500). Arithmetic is exact decimal arithmetic; divisions are rounded
// to 16 places.
func ParseAmount(s string) (decimal.Decimal, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, fmt.Errorf("%w: empty", ErrInvalidAmount)
	}
	if d, err := decimal.NewFromString(s); err == nil {
		return d, nil
	}
	p := &parser{lex: &lexer{s: s}}
	val, err := p.parseExpr()
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w: %q: %s", ErrInvalidAmount, s, err)
	}
	if p.tok.kind != tokEOF {
		return decimal.Zero, fmt.Errorf("%w: %q: unexpected input at position %d", ErrInvalidAmount, s, p.lex.pos)
	}
	return val, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokAdd
	tokSub
	tokMul
	tokDiv
	tokLparen
	tokRparen
	tokEOF
)

var operators = map[byte]tokenKind{
	'+': tokAdd,
	'-': tokSub,
	'*': tokMul,
	'/': tokDiv,
	'(': tokLparen,
	')': tokRparen,
}

var suffixes = map[byte]decimal.Decimal{
	'k': decimal.NewFromInt(1_000),
	'K': decimal.NewFromInt(1_000),
	'm': decimal.NewFromInt(1_000_000),
	'M': decimal.NewFromInt(1_000_000),
}

type token struct {
	kind tokenKind
	val  decimal.Decimal
}

type lexer struct {
	s   string
	pos int
}

func (l *lexer) peek() byte {
	if l.pos >= len(l.s) {
		return 0
	}
	return l.s[l.pos]
}

func (l *lexer) digits() {
	for l.pos < len(l.s) && (unicode.IsDigit(rune(l.s[l.pos])) || l.s[l.pos] == '_') {
		l.pos++
	}
}

func (l *lexer) readNumber() (decimal.Decimal, error) {
	start := l.pos
	l.digits()
	if l.peek() == '.' {
		l.pos++
		l.digits()
	}
	if c := l.peek(); c == 'e' || c == 'E' {
		l.pos++
		if c := l.peek(); c == '+' || c == '-' {
			l.pos++
		}
		l.digits()
	}
	raw := strings.ReplaceAll(l.s[start:l.pos], "_", "")
	d, err := decimal.NewFromString(raw)
	if err != nil {
		return decimal.Zero, fmt.Errorf("invalid number %q", raw)
	}
	if mult, ok := suffixes[l.peek()]; ok {
		l.pos++
		d = d.Mul(mult)
	}
	return d, nil
}

func (l *lexer) next() (token, error) {
	for l.pos < len(l.s) && (l.s[l.pos] == ' ' || l.s[l.pos] == '\t') {
		l.pos++
	}
	if l.pos >= len(l.s) {
		return token{kind: tokEOF}, nil
	}
	if kind, ok := operators[l.peek()]; ok {
		l.pos++
		return token{kind: kind}, nil
	}
	if unicode.IsDigit(rune(l.peek())) || l.peek() == '.' {
		d, err := l.readNumber()
		if err != nil {
			return token{}, err
		}
		return token{kind: tokNumber, val: d}, nil
	}
	return token{}, fmt.Errorf("unexpected character %q at position %d", l.peek(), l.pos)
}

type parser struct {
	lex *lexer
	tok token
}

func (p *parser) advance() (err error) {
	p.tok, err = p.lex.next()
	return err
}

func (p *parser) parseExpr() (decimal.Decimal, error) {
	if err := p.advance(); err != nil {
		return decimal.Zero, err
	}
	return p.parseSum()
}

func (p *parser) parseSum() (decimal.Decimal, error) {
	val, err := p.parseTerm()
	if err != nil {
		return decimal.Zero, err
	}
	for p.tok.kind == tokAdd || p.tok.kind == tokSub {
		op := p.tok.kind
		if err := p.advance(); err != nil {
			return decimal.Zero, err
		}
		rhs, err := p.parseTerm()
		if err != nil {
			return decimal.Zero, err
		}
		if op == tokAdd {
			val = val.Add(rhs)
		} else {
			val = val.Sub(rhs)
		}
	}
	return val, nil
}

func (p *parser) parseTerm() (decimal.Decimal, error) {
	val, err := p.parseFactor()
	if err != nil {
		return decimal.Zero, err
	}
	for p.tok.kind == tokMul || p.tok.kind == tokDiv {
		op := p.tok.kind
		if err := p.advance(); err != nil {
			return decimal.Zero, err
		}
		rhs, err := p.parseFactor()
		if err != nil {
			return decimal.Zero, err
		}
		if op == tokMul {
			val = val.Mul(rhs)
			continue
		}
		if rhs.IsZero() {
			return decimal.Zero, fmt.Errorf("division by zero")
		}
		val = val.DivRound(rhs, 16)
	}
	return val, nil
}

func (p *parser) parseFactor() (decimal.Decimal, error) {
	switch p.tok.kind {
	case tokNumber:
		val := p.tok.val
		return val, p.advance()
	case tokLparen:
		if err := p.advance(); err != nil {
			return decimal.Zero, err
		}
		val, err := p.parseSum()
		if err != nil {
			return decimal.Zero, err
		}
		if p.tok.kind != tokRparen {
			return decimal.Zero, fmt.Errorf("missing closing parenthesis")
		}
		return val, p.advance()
	case tokSub:
		if err := p.advance(); err != nil {
			return decimal.Zero, err
		}
		val, err := p.parseFactor()
		return val.Neg(), err
	default:
		return decimal.Zero, fmt.Errorf("unexpected token at position %d", p.lex.pos)
	}
}
