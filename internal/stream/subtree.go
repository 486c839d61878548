package stream

import (
	"io"

	eng "github.com/reoring/taskmap/internal/engine"
)

// ValueSource exposes exactly one value from an underlying token stream. The
// first token of the value has already been read by the caller and is served
// first; afterwards tokens are pulled from inner until the matching container
// end, then io.EOF is returned. Value decoders therefore cannot read past the
// value they were handed.
type ValueSource struct {
	inner  eng.TokenSource
	first  eng.Token
	served bool
	depth  int
	done   bool
}

// NewValueSource constructs a ValueSource over the value starting with first.
func NewValueSource(inner eng.TokenSource, first eng.Token) *ValueSource {
	return &ValueSource{inner: inner, first: first}
}

func (p *ValueSource) NextToken() (eng.Token, error) {
	if p.done {
		return eng.Token{}, io.EOF
	}
	var tok eng.Token
	if !p.served {
		p.served = true
		tok = p.first
	} else {
		t, err := p.inner.NextToken()
		if err != nil {
			if err == io.EOF {
				return eng.Token{}, io.ErrUnexpectedEOF
			}
			return eng.Token{}, err
		}
		tok = t
	}
	switch tok.Kind {
	case eng.KindBeginObject, eng.KindBeginArray:
		p.depth++
	case eng.KindEndObject, eng.KindEndArray:
		p.depth--
	}
	if p.depth <= 0 {
		p.done = true
	}
	return tok, nil
}

func (p *ValueSource) Location() int64 { return p.inner.Location() }

// Done reports whether the whole value has been consumed.
func (p *ValueSource) Done() bool { return p.done }

// Finish consumes whatever the value decoder left unread so the underlying
// stream is positioned after the value. It reports whether tokens were left.
func (p *ValueSource) Finish() (bool, error) {
	if p.done {
		return false, nil
	}
	return eng.Drain(p)
}
