package taskmap

import (
	"io"
	"sync"

	eng "github.com/reoring/taskmap/internal/engine"
	str "github.com/reoring/taskmap/internal/stream"
	jsonsrc "github.com/reoring/taskmap/source/json"
)

// TokenKind enumerates JSON token kinds.
type TokenKind = eng.Kind

const (
	TokenBeginObject TokenKind = eng.KindBeginObject
	TokenEndObject   TokenKind = eng.KindEndObject
	TokenBeginArray  TokenKind = eng.KindBeginArray
	TokenEndArray    TokenKind = eng.KindEndArray
	TokenKey         TokenKind = eng.KindKey
	TokenString      TokenKind = eng.KindString
	TokenNumber      TokenKind = eng.KindNumber
	TokenBool        TokenKind = eng.KindBool
	TokenNull        TokenKind = eng.KindNull
)

// Token describes a token in the input stream. Offset records the byte position
// when known (-1 otherwise). Numbers are kept as text.
type Token = eng.Token

// Source abstracts over polymorphic input sources.
type Source interface {
	NextToken() (Token, error)
	Location() int64 // byte offset; -1 if unknown
}

// JSONDriver converts JSON input into a Source via a pluggable SPI. The default
// implementation is based on encoding/json and may be swapped with SetJSONDriver.
type JSONDriver interface {
	NewReader(r io.Reader) Source
	NewBytes(b []byte) Source
	Name() string
}

var (
	jsonDriverMu      sync.RWMutex
	currentJSONDriver JSONDriver = defaultJSONDriver{}
)

// SetJSONDriver replaces the global JSON driver; nil values are ignored.
func SetJSONDriver(d JSONDriver) {
	if d == nil {
		return
	}
	jsonDriverMu.Lock()
	currentJSONDriver = d
	jsonDriverMu.Unlock()
}

// UseDefaultJSONDriver restores the default encoding/json-backed driver.
func UseDefaultJSONDriver() {
	jsonDriverMu.Lock()
	currentJSONDriver = defaultJSONDriver{}
	jsonDriverMu.Unlock()
}

// CurrentJSONDriver returns the driver used by JSONReader and JSONBytes.
func CurrentJSONDriver() JSONDriver {
	jsonDriverMu.RLock()
	d := currentJSONDriver
	jsonDriverMu.RUnlock()
	return d
}

// DefaultDriverName is the name of the built-in driver.
const DefaultDriverName = "encoding/json"

type defaultJSONDriver struct{}

func (defaultJSONDriver) NewReader(r io.Reader) Source { return jsonsrc.NewReader(r) }
func (defaultJSONDriver) NewBytes(b []byte) Source     { return jsonsrc.NewBytes(b) }
func (defaultJSONDriver) Name() string                 { return DefaultDriverName }

// JSONReader wraps an io.Reader as a JSON Source.
func JSONReader(r io.Reader) Source { return CurrentJSONDriver().NewReader(r) }

// JSONBytes wraps a byte slice as a JSON Source.
func JSONBytes(b []byte) Source { return CurrentJSONDriver().NewBytes(b) }

// EnforceSource wraps a Source with runtime enforcement (duplicate keys, depth,
// bytes). Duplicate key warnings are forwarded to opt.OnWarning. The original
// Source is returned when nothing is enabled.
func EnforceSource(s Source, opt DecodeOpt) Source {
	eo := eng.EnforceOptions{
		OnDuplicate: toEngineDup(opt.Strictness.OnDuplicateKey),
		MaxDepth:    opt.MaxDepth,
		MaxBytes:    opt.MaxBytes,
	}
	if !eo.Enabled() {
		return s
	}
	if opt.OnWarning != nil {
		eo.IssueSink = func(si eng.SimpleIssue) {
			opt.OnWarning(Issue{Path: si.Path, Code: si.Code, Message: si.Message, Offset: s.Location()})
		}
	}
	return eng.WrapWithEnforcement(s, eo)
}

func toEngineDup(s Severity) eng.DuplicateStrictness {
	switch s {
	case Error:
		return eng.DupError
	case Warn:
		return eng.DupWarn
	default:
		return eng.DupIgnore
	}
}

// ValueSource is a Source bounded to a single value.
type ValueSource interface {
	Source
	// Finish consumes whatever was left unread and reports whether anything was.
	Finish() (bool, error)
}

// BoundValue returns a Source that yields exactly the value beginning with
// first (already read from src) and then io.EOF.
func BoundValue(src Source, first Token) ValueSource {
	return str.NewValueSource(src, first)
}

// SkipValue consumes the remainder of the value beginning with first.
func SkipValue(src Source, first Token) error {
	return eng.Skip(src, first)
}

// ExpectEOF reports a parse error when src still has tokens.
func ExpectEOF(src Source) error {
	tok, err := src.NextToken()
	if err == io.EOF {
		return nil
	}
	if err != nil {
		return IssuesFrom("/", err)
	}
	return Issues{{Path: "/", Code: CodeParseError, Message: "unexpected data after top-level value", Hint: tok.Kind.String(), Offset: src.Location()}}
}
