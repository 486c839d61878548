package engine

import (
	"errors"
	"io"
)

// Kind represents token kinds from a generic source.
type Kind int

const (
	KindBeginObject Kind = iota
	KindEndObject
	KindBeginArray
	KindEndArray
	KindKey
	KindString
	KindNumber
	KindBool
	KindNull
)

// String returns a short name for the kind, used in issue hints.
func (k Kind) String() string {
	switch k {
	case KindBeginObject:
		return "begin_object"
	case KindEndObject:
		return "end_object"
	case KindBeginArray:
		return "begin_array"
	case KindEndArray:
		return "end_array"
	case KindKey:
		return "key"
	case KindString:
		return "string"
	case KindNumber:
		return "number"
	case KindBool:
		return "bool"
	case KindNull:
		return "null"
	default:
		return "unknown"
	}
}

// Token represents a streaming token with approximate input offset.
type Token struct {
	Kind   Kind
	String string
	Number string // kept as text; value types decide how to interpret it
	Bool   bool
	Offset int64
}

// IsScalar reports whether the token is a complete value on its own.
func (t Token) IsScalar() bool {
	switch t.Kind {
	case KindString, KindNumber, KindBool, KindNull:
		return true
	}
	return false
}

// TokenSource is a minimal interface required by the engine.
type TokenSource interface {
	NextToken() (Token, error)
	Location() int64
}

// ErrUnexpectedToken is returned when a token appears where a value was expected.
var ErrUnexpectedToken = errors.New("engine: unexpected token")

// Skip consumes the remainder of the value that begins with first. Scalars
// are complete already; containers are drained up to their matching end.
func Skip(src TokenSource, first Token) error {
	if first.IsScalar() {
		return nil
	}
	if first.Kind != KindBeginObject && first.Kind != KindBeginArray {
		return ErrUnexpectedToken
	}
	depth := 1
	for depth > 0 {
		tok, err := src.NextToken()
		if err != nil {
			if err == io.EOF {
				return io.ErrUnexpectedEOF
			}
			return err
		}
		switch tok.Kind {
		case KindBeginObject, KindBeginArray:
			depth++
		case KindEndObject, KindEndArray:
			depth--
		}
	}
	return nil
}

// Drain reads src until io.EOF. It reports whether any token was left over.
func Drain(src TokenSource) (bool, error) {
	left := false
	for {
		_, err := src.NextToken()
		if err == io.EOF {
			return left, nil
		}
		if err != nil {
			return left, err
		}
		left = true
	}
}
