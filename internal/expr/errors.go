package expr

import (
	"errors"
	"fmt"
)

var (
	ErrOverflow     = errors.New("expression too long")
	ErrMalformed    = errors.New("malformed expression")
	ErrUnbalanced   = errors.New("unbalanced parentheses")
	ErrNesting      = errors.New("parentheses nested too deep")
	ErrDivideByZero = errors.New("division by zero")

	// ErrLiteral is matched by any LiteralError.
	ErrLiteral = errors.New("malformed literal")

	// ErrToken is matched by any TokenError.
	ErrToken = errors.New("unrecognized token")
)

// LiteralError reports a numeric literal containing a digit outside of its
// radix, or one too large for 32 bits.
type LiteralError string

func (lit LiteralError) Error() string      { return fmt.Sprintf("malformed literal %q", string(lit)) }
func (LiteralError) Is(target error) bool { return target == ErrLiteral }

// TokenError reports a byte that cannot start any token.
type TokenError struct {
	Offset int
	Char   byte
}

func (err TokenError) Error() string {
	return fmt.Sprintf("unrecognized token %q at offset %v", err.Char, err.Offset)
}

// Is matches ErrToken.
func (TokenError) Is(target error) bool { return target == ErrToken }
