// Package expr evaluates integer expressions over a fixed capacity token
// buffer.
//
// Evaluation runs in four passes over the buffer:
//   - tokenize: literals and variables become values, resolved immediately
//   - unary: prefix + - ! are folded into the value that follows them
//   - precedence: operators are ranked, parentheses raise the rank of
//     everything between them and are then discarded
//   - reduce: the highest ranked operator is applied until one value remains
//
// No pass allocates; the buffer is allocated once by New.
package expr

import (
	"strconv"
)

// DefaultMaxTokens is the token capacity used when none is specified.
const DefaultMaxTokens = 64

// MaxNesting is the deepest parenthesis nesting accepted.
const MaxNesting = 30

// nestStep is the rank added to operators by each enclosing parenthesis; it
// must exceed the largest operator rank.
const nestStep = 4

const (
	precBitwise = 1 + iota
	precAdditive
	precMultiplicative
)

// Evaluator reduces expression source text to a single value.
type Evaluator struct {
	toks []Token

	// Trace, if not nil, is called after each pass with the pass name and
	// the current tokens.
	Trace func(pass string, toks []Token)
}

// New creates an Evaluator able to hold maxTokens tokens.
func New(maxTokens int) *Evaluator {
	if maxTokens <= 0 {
		maxTokens = DefaultMaxTokens
	}
	return &Evaluator{toks: make([]Token, 0, maxTokens)}
}

// Cap returns the token capacity.
func (ev *Evaluator) Cap() int { return cap(ev.toks) }

// Eval evaluates src, reading variables from vars.
// All variables are read during tokenization, before any operator is applied.
func (ev *Evaluator) Eval(src []byte, vars *Vars) (int32, error) {
	ev.toks = ev.toks[:0]
	if err := ev.tokenize(src, vars); err != nil {
		return 0, err
	}
	ev.trace("tokenize")
	if err := ev.unary(); err != nil {
		return 0, err
	}
	ev.trace("unary")
	if err := ev.precedence(); err != nil {
		return 0, err
	}
	ev.trace("precedence")
	if err := ev.reduce(); err != nil {
		return 0, err
	}
	ev.trace("reduce")
	return ev.toks[0].Value, nil
}

func (ev *Evaluator) trace(pass string) {
	if ev.Trace != nil {
		ev.Trace(pass, ev.toks)
	}
}

func (ev *Evaluator) push(tok Token) error {
	if len(ev.toks) == cap(ev.toks) {
		return ErrOverflow
	}
	ev.toks = append(ev.toks, tok)
	return nil
}

func (ev *Evaluator) erase(i, n int) {
	ev.toks = append(ev.toks[:i], ev.toks[i+n:]...)
}

func (ev *Evaluator) tokenize(src []byte, vars *Vars) error {
	for i := 0; i < len(src); i++ {
		c := src[i]
		switch {
		case c == ' ' || c == '\t':
			continue

		case isDigit(c):
			j := i + 1
			for j < len(src) && isAlnum(src[j]) {
				j++
			}
			val, err := parseLiteral(src[i:j])
			if err != nil {
				return err
			}
			if err := ev.push(Token{Kind: Value, Value: val}); err != nil {
				return err
			}
			i = j - 1

		case IsVar(c):
			if err := ev.push(Token{Kind: Value, Value: vars.Get(c)}); err != nil {
				return err
			}

		default:
			kind := operators[c]
			if kind == Value {
				return TokenError{Offset: i, Char: c}
			}
			if err := ev.push(Token{Kind: kind}); err != nil {
				return err
			}
		}
	}
	return nil
}

// parseLiteral parses a numeric literal, selecting its radix by prefix:
// 0x hexadecimal, 0b binary, 0 octal, otherwise decimal. Values are 32 bits
// wide; hexadecimal, binary, and octal literals may set the sign bit.
func parseLiteral(lit []byte) (int32, error) {
	s, base := string(lit), 10
	if len(s) > 1 && s[0] == '0' {
		switch s[1] {
		case 'x', 'X':
			s, base = s[2:], 16
		case 'b', 'B':
			s, base = s[2:], 2
		default:
			s, base = s[1:], 8
		}
	}
	if s == "" {
		return 0, LiteralError(lit)
	}
	if base == 10 {
		n, err := strconv.ParseInt(s, 10, 32)
		if err != nil {
			return 0, LiteralError(lit)
		}
		return int32(n), nil
	}
	n, err := strconv.ParseUint(s, base, 32)
	if err != nil {
		return 0, LiteralError(lit)
	}
	return int32(uint32(n)), nil
}

// unary folds prefix operators, scanning right to left so that stacked
// prefixes like "- - 5" apply innermost first. An operator is a prefix when
// it does not follow a value or a closing parenthesis.
func (ev *Evaluator) unary() error {
	for i := len(ev.toks) - 1; i >= 0; i-- {
		switch ev.toks[i].Kind {
		case Add, Sub, Invert:
		default:
			continue
		}
		if i > 0 {
			if prior := ev.toks[i-1].Kind; prior == Value || prior == Close {
				continue
			}
		}
		if i+1 >= len(ev.toks) || ev.toks[i+1].Kind != Value {
			return ErrMalformed
		}
		switch ev.toks[i].Kind {
		case Sub:
			ev.toks[i+1].Value = -ev.toks[i+1].Value
		case Invert:
			ev.toks[i+1].Value = ^ev.toks[i+1].Value
		}
		ev.erase(i, 1)
	}
	return nil
}

func (ev *Evaluator) precedence() error {
	depth := 0
	for i := range ev.toks {
		tok := &ev.toks[i]
		switch tok.Kind {
		case Open:
			if depth += nestStep; depth > MaxNesting*nestStep {
				return ErrNesting
			}
		case Close:
			if depth -= nestStep; depth < 0 {
				return ErrUnbalanced
			}
		case And, Or, Xor:
			tok.Prec = uint8(depth + precBitwise)
		case Add, Sub:
			tok.Prec = uint8(depth + precAdditive)
		case Mul, Div, Rem:
			tok.Prec = uint8(depth + precMultiplicative)
		}
	}
	if depth != 0 {
		return ErrUnbalanced
	}

	// parentheses have been fully captured by operator ranks
	j := 0
	for _, tok := range ev.toks {
		if tok.Kind != Open && tok.Kind != Close {
			ev.toks[j] = tok
			j++
		}
	}
	ev.toks = ev.toks[:j]
	if j == 0 {
		return ErrMalformed
	}
	return nil
}

func (ev *Evaluator) reduce() error {
	for len(ev.toks) > 1 {
		at, prec := 0, uint8(0)
		for i, tok := range ev.toks {
			if tok.Prec > prec {
				at, prec = i, tok.Prec
			}
		}
		if prec == 0 {
			return ErrMalformed
		}
		if at == 0 || at == len(ev.toks)-1 ||
			ev.toks[at-1].Kind != Value ||
			ev.toks[at+1].Kind != Value {
			return ErrMalformed
		}
		val, err := apply(ev.toks[at].Kind, ev.toks[at-1].Value, ev.toks[at+1].Value)
		if err != nil {
			return err
		}
		ev.toks[at-1].Value = val
		ev.erase(at, 2)
	}
	if ev.toks[0].Kind != Value {
		return ErrMalformed
	}
	return nil
}

// apply computes a binary operation with Go's wrapping int32 semantics;
// division and remainder truncate toward zero.
func apply(op Kind, a, b int32) (int32, error) {
	switch op {
	case Add:
		return a + b, nil
	case Sub:
		return a - b, nil
	case Mul:
		return a * b, nil
	case Div:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a / b, nil
	case Rem:
		if b == 0 {
			return 0, ErrDivideByZero
		}
		return a % b, nil
	case And:
		return a & b, nil
	case Or:
		return a | b, nil
	case Xor:
		return a ^ b, nil
	}
	return 0, ErrMalformed
}

func isDigit(c byte) bool { return '0' <= c && c <= '9' }
func isAlnum(c byte) bool { return isDigit(c) || IsVar(c) }
