package taskmap

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	eng "github.com/reoring/taskmap/internal/engine"
)

// Issue codes.
const (
	CodeUnknownType      = "unknown_type"
	CodeRequired         = "required"
	CodeNullValue        = "null_value"
	CodeValidation       = "validation_failed"
	CodeUnsupportedValue = "unsupported_value"
	CodeInvalidType      = "invalid_type"
	CodeInvalidFormat    = "invalid_format"
	CodeOverflow         = "overflow"
	CodeInvalidSchema    = "invalid_schema"
	CodeMissingField     = "missing_field"
	CodeFrozen           = "frozen"
	CodeUnknownKind      = "unknown_kind"
	CodeDuplicateKey     = eng.CodeDuplicateKey
	CodeParseError       = eng.CodeParseError
	CodeTruncated        = eng.CodeTruncated
)

// Issue represents a single decode, encode or schema error.
type Issue struct {
	Path    string // JSON Pointer of the offending wire key (for example: /bar).
	Code    string // One of the codes listed above.
	Message string
	Hint    string // Optional remediation hint.
	Cause   error  // Optional underlying error.
	Offset  int64  // Byte offset in the input source (-1 when unknown).
	// Params carries structured parameters (e.g., {"name":"bogus"}).
	Params map[string]any
}

// Issues is a collection of issues that implements error. Any non-empty
// Issues aborts the call that produced it.
type Issues []Issue

// Error summarizes the first few issues.
func (iss Issues) Error() string {
	if len(iss) == 0 {
		return ""
	}
	const maxShown = 3
	b := &strings.Builder{}
	lim := min(len(iss), maxShown)
	for i := 0; i < lim; i++ {
		if i > 0 {
			b.WriteString("; ")
		}
		it := iss[i]
		b.WriteString(it.Code)
		if it.Path != "" {
			fmt.Fprintf(b, " at %s", it.Path)
		}
		if it.Message != "" {
			fmt.Fprintf(b, ": %s", it.Message)
		}
	}
	if n := len(iss); n > lim {
		fmt.Fprintf(b, "; ... (total %d)", n)
	}
	return b.String()
}

// Unwrap exposes the issue causes to errors.Is and errors.As.
func (iss Issues) Unwrap() []error {
	var out []error
	for _, it := range iss {
		if it.Cause != nil {
			out = append(out, it.Cause)
		}
	}
	return out
}

// Codes returns the issue codes in order.
func (iss Issues) Codes() []string {
	out := make([]string, len(iss))
	for i, it := range iss {
		out[i] = it.Code
	}
	return out
}

// AppendIssues appends issues to the destination, initializing the slice when
// needed.
func AppendIssues(dst Issues, more ...Issue) Issues {
	if dst == nil {
		dst = Issues{}
	}
	return append(dst, more...)
}

// AsIssues extracts Issues from an error using errors.As internally.
func AsIssues(err error) (Issues, bool) {
	if err == nil {
		return nil, false
	}
	var iss Issues
	if errors.As(err, &iss) {
		return iss, true
	}
	return nil, false
}

// HasCode reports whether err carries an issue with the given code.
func HasCode(err error, code string) bool {
	iss, ok := AsIssues(err)
	if !ok {
		return false
	}
	for _, it := range iss {
		if it.Code == code {
			return true
		}
	}
	return false
}

// NewIssues returns a single-issue Issues.
func NewIssues(code, path, msg string) Issues {
	return Issues{{Path: path, Code: code, Message: msg, Offset: -1}}
}

// IssuesFrom converts any error into Issues. Engine enforcement errors keep
// their code and path; stream errors become parse errors at path.
func IssuesFrom(path string, err error) Issues {
	if err == nil {
		return nil
	}
	if iss, ok := AsIssues(err); ok {
		return iss
	}
	var ie eng.IssueError
	if errors.As(err, &ie) {
		return Issues{{Path: ie.Path, Code: ie.Code, Message: ie.Message, Offset: -1}}
	}
	msg := err.Error()
	switch {
	case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
		msg = "unexpected end of input"
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		msg = "decode interrupted: " + err.Error()
	}
	return Issues{{Path: path, Code: CodeParseError, Message: msg, Cause: err, Offset: -1}}
}

// RebaseIssues prefixes child issue paths with base, handling empty or root
// paths.
func RebaseIssues(base string, child Issues) Issues {
	out := make(Issues, 0, len(child))
	for _, it := range child {
		p := it.Path
		switch {
		case p == "" || p == "/":
			p = base
		case p[0] == '/':
			p = base + p
		default:
			p = base + "/" + p
		}
		it.Path = p
		out = append(out, it)
	}
	return out
}
