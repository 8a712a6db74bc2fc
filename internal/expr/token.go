package expr

import (
	"strconv"
	"strings"
)

// Kind identifies what a Token represents.
type Kind uint8

// Token kinds; every kind but Value is an operator or parenthesis.
const (
	Value Kind = iota
	Add
	Sub
	Mul
	Div
	Rem
	And
	Or
	Xor
	Invert
	Open
	Close
)

var kindNames = [...]string{
	Value:  "value",
	Add:    "+",
	Sub:    "-",
	Mul:    "*",
	Div:    "/",
	Rem:    "%",
	And:    "&",
	Or:     "|",
	Xor:    "^",
	Invert: "!",
	Open:   "(",
	Close:  ")",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) {
		return kindNames[k]
	}
	return "Kind(" + strconv.Itoa(int(k)) + ")"
}

// operators maps source bytes to operator kinds.
var operators = [256]Kind{
	'+': Add,
	'-': Sub,
	'*': Mul,
	'/': Div,
	'%': Rem,
	'&': And,
	'|': Or,
	'^': Xor,
	'!': Invert,
	'(': Open,
	')': Close,
}

// Token is one lexical unit of an expression. Prec is only meaningful for
// binary operators once precedence has been assigned.
type Token struct {
	Kind  Kind
	Prec  uint8
	Value int32
}

func (tok Token) String() string {
	if tok.Kind == Value {
		return strconv.Itoa(int(tok.Value))
	}
	if tok.Prec != 0 {
		return tok.Kind.String() + "@" + strconv.Itoa(int(tok.Prec))
	}
	return tok.Kind.String()
}

// Tokens formats a token sequence for tracing.
func Tokens(toks []Token) string {
	var sb strings.Builder
	for i, tok := range toks {
		if i > 0 {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok.String())
	}
	return sb.String()
}

// Vars is the variable table: one signed slot per letter A-Z.
type Vars [26]int32

// Get returns the value of the variable named by letter, case-insensitive.
func (vars *Vars) Get(letter byte) int32 { return vars[varIndex(letter)] }

// Set assigns the variable named by letter, case-insensitive.
func (vars *Vars) Set(letter byte, value int32) { vars[varIndex(letter)] = value }

// Reset zeroes all variables.
func (vars *Vars) Reset() { *vars = Vars{} }

// IsVar returns true if c names a variable.
func IsVar(c byte) bool { return 'A' <= c && c <= 'Z' || 'a' <= c && c <= 'z' }

func varIndex(letter byte) int { return int(letter&^0x20) - 'A' }
