// Package eval implements a constrained arithmetic expression evaluator.
//
// Only numbers, + - * /, unary minus and parentheses are accepted. User
// input is never handed to any dynamic evaluation facility.
package eval

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// Evaluate parses and computes an arithmetic expression.
func Evaluate(expr string) (float64, error) {
	tokens, err := tokenize(expr)
	if err != nil {
		return 0, err
	}
	if len(tokens) == 0 {
		return 0, fmt.Errorf("empty expression")
	}

	p := &parser{tokens: tokens}
	v, err := p.parseExpr()
	if err != nil {
		return 0, err
	}
	if !p.done() {
		return 0, fmt.Errorf("unexpected token %q", p.peek().text)
	}
	return v, nil
}

type tokenKind int

const (
	tokNumber tokenKind = iota
	tokPlus
	tokMinus
	tokStar
	tokSlash
	tokLParen
	tokRParen
)

type token struct {
	kind  tokenKind
	text  string
	value float64
}

func tokenize(expr string) ([]token, error) {
	var tokens []token
	runes := []rune(expr)

	for i := 0; i < len(runes); {
		r := runes[i]
		switch {
		case unicode.IsSpace(r):
			i++
		case r == '+':
			tokens = append(tokens, token{kind: tokPlus, text: "+"})
			i++
		case r == '-':
			tokens = append(tokens, token{kind: tokMinus, text: "-"})
			i++
		case r == '*':
			tokens = append(tokens, token{kind: tokStar, text: "*"})
			i++
		case r == '/':
			tokens = append(tokens, token{kind: tokSlash, text: "/"})
			i++
		case r == '(':
			tokens = append(tokens, token{kind: tokLParen, text: "("})
			i++
		case r == ')':
			tokens = append(tokens, token{kind: tokRParen, text: ")"})
			i++
		case unicode.IsDigit(r) || r == '.':
			start := i
			for i < len(runes) && (unicode.IsDigit(runes[i]) || runes[i] == '.') {
				i++
			}
			text := string(runes[start:i])
			if strings.Count(text, ".") > 1 {
				return nil, fmt.Errorf("malformed number %q", text)
			}
			v, err := strconv.ParseFloat(text, 64)
			if err != nil {
				return nil, fmt.Errorf("malformed number %q", text)
			}
			tokens = append(tokens, token{kind: tokNumber, text: text, value: v})
		default:
			return nil, fmt.Errorf("unexpected character %q", string(r))
		}
	}

	return tokens, nil
}

// parser is a recursive-descent parser with the usual precedence:
// expr -> term (('+' | '-') term)*, term -> unary (('*' | '/') unary)*.
type parser struct {
	tokens []token
	pos    int
}

func (p *parser) done() bool {
	return p.pos >= len(p.tokens)
}

func (p *parser) peek() token {
	return p.tokens[p.pos]
}

func (p *parser) next() token {
	t := p.tokens[p.pos]
	p.pos++
	return t
}

func (p *parser) parseExpr() (float64, error) {
	left, err := p.parseTerm()
	if err != nil {
		return 0, err
	}

	for !p.done() {
		op := p.peek().kind
		if op != tokPlus && op != tokMinus {
			break
		}
		p.next()

		right, err := p.parseTerm()
		if err != nil {
			return 0, err
		}
		if op == tokPlus {
			left += right
		} else {
			left -= right
		}
	}

	return left, nil
}

func (p *parser) parseTerm() (float64, error) {
	left, err := p.parseUnary()
	if err != nil {
		return 0, err
	}

	for !p.done() {
		op := p.peek().kind
		if op != tokStar && op != tokSlash {
			break
		}
		p.next()

		right, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		if op == tokStar {
			left *= right
		} else {
			if right == 0 {
				return 0, fmt.Errorf("division by zero")
			}
			left /= right
		}
	}

	return left, nil
}

func (p *parser) parseUnary() (float64, error) {
	if p.done() {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	if p.peek().kind == tokMinus {
		p.next()
		v, err := p.parseUnary()
		if err != nil {
			return 0, err
		}
		return -v, nil
	}

	return p.parsePrimary()
}

func (p *parser) parsePrimary() (float64, error) {
	if p.done() {
		return 0, fmt.Errorf("unexpected end of expression")
	}

	t := p.next()
	switch t.kind {
	case tokNumber:
		return t.value, nil

	case tokLParen:
		v, err := p.parseExpr()
		if err != nil {
			return 0, err
		}
		if p.done() || p.peek().kind != tokRParen {
			return 0, fmt.Errorf("missing closing parenthesis")
		}
		p.next()
		return v, nil

	default:
		return 0, fmt.Errorf("unexpected token %q", t.text)
	}
}

// Format renders a result the way the chat surface shows it: integers
// without a decimal point, everything else in shortest float form.
func Format(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
