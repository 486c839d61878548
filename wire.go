package taskmap

import (
	"bytes"
	"fmt"
	"io"
	"math"
	"sort"
	"strconv"

	gojson "github.com/goccy/go-json"
)

// Pair is one member of a WireObject.
type Pair struct {
	Key   string
	Value any
}

// WireObject is an ordered JSON object. Values are nil, bool, string, numbers
// (int64, float64 or Number), []any, WireObject or map[string]any.
type WireObject []Pair

// Number is an opaque JSON number kept as text.
type Number = gojson.Number

// Get returns the value of the first member with the given key.
func (w WireObject) Get(key string) (any, bool) {
	for _, p := range w {
		if p.Key == key {
			return p.Value, true
		}
	}
	return nil, false
}

// Keys returns member keys in order.
func (w WireObject) Keys() []string {
	out := make([]string, len(w))
	for i, p := range w {
		out[i] = p.Key
	}
	return out
}

// MarshalJSON writes members in order.
func (w WireObject) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	if err := appendJSON(&buf, w); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// UnmarshalJSON reads an object keeping member order and duplicates.
func (w *WireObject) UnmarshalJSON(b []byte) error {
	src := JSONBytes(b)
	v, err := ReadValue(src)
	if err != nil {
		return err
	}
	obj, ok := v.(WireObject)
	if !ok {
		return NewIssues(CodeInvalidType, "/", "expected JSON object")
	}
	if err := ExpectEOF(src); err != nil {
		return err
	}
	*w = obj
	return nil
}

func appendJSON(buf *bytes.Buffer, v any) error {
	switch t := v.(type) {
	case WireObject:
		buf.WriteByte('{')
		for i, p := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			kb, err := gojson.Marshal(p.Key)
			if err != nil {
				return err
			}
			buf.Write(kb)
			buf.WriteByte(':')
			if err := appendJSON(buf, p.Value); err != nil {
				return fmt.Errorf("%s: %w", p.Key, err)
			}
		}
		buf.WriteByte('}')
	case []any:
		buf.WriteByte('[')
		for i, e := range t {
			if i > 0 {
				buf.WriteByte(',')
			}
			if err := appendJSON(buf, e); err != nil {
				return fmt.Errorf("[%d]: %w", i, err)
			}
		}
		buf.WriteByte(']')
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return fmt.Errorf("non-finite number %v", t)
		}
		buf.WriteString(strconv.FormatFloat(t, 'g', -1, 64))
	default:
		b, err := gojson.Marshal(t)
		if err != nil {
			return err
		}
		buf.Write(b)
	}
	return nil
}

// ReadValue reads one complete value from src. Objects become WireObject,
// arrays []any and numbers Number.
func ReadValue(src Source) (any, error) {
	tok, err := src.NextToken()
	if err != nil {
		return nil, IssuesFrom("/", err)
	}
	return readValue(src, tok, "")
}

func readValue(src Source, tok Token, path string) (any, error) {
	switch tok.Kind {
	case TokenBeginObject:
		obj := WireObject{}
		for {
			kt, err := src.NextToken()
			if err != nil {
				return nil, IssuesFrom(path, err)
			}
			if kt.Kind == TokenEndObject {
				return obj, nil
			}
			if kt.Kind != TokenKey {
				return nil, Issues{{Path: path, Code: CodeParseError, Message: "expected object key", Hint: kt.Kind.String(), Offset: kt.Offset}}
			}
			vt, err := src.NextToken()
			if err != nil {
				return nil, IssuesFrom(path, err)
			}
			v, err := readValue(src, vt, path+"/"+kt.String)
			if err != nil {
				return nil, err
			}
			obj = append(obj, Pair{Key: kt.String, Value: v})
		}
	case TokenBeginArray:
		arr := []any{}
		for {
			et, err := src.NextToken()
			if err != nil {
				return nil, IssuesFrom(path, err)
			}
			if et.Kind == TokenEndArray {
				return arr, nil
			}
			v, err := readValue(src, et, path+"/"+strconv.Itoa(len(arr)))
			if err != nil {
				return nil, err
			}
			arr = append(arr, v)
		}
	case TokenString:
		return tok.String, nil
	case TokenNumber:
		return Number(tok.Number), nil
	case TokenBool:
		return tok.Bool, nil
	case TokenNull:
		return nil, nil
	default:
		return nil, Issues{{Path: path, Code: CodeParseError, Message: "unexpected token", Hint: tok.Kind.String(), Offset: tok.Offset}}
	}
}

// ObjectSource streams an in-memory wire value as tokens, so values built in
// memory go through exactly the same decode path as JSON input.
func ObjectSource(v any) Source {
	s := &objectSource{}
	s.err = s.emit(v)
	return s
}

type objectSource struct {
	toks []Token
	i    int
	err  error
}

func (s *objectSource) NextToken() (Token, error) {
	if s.err != nil {
		return Token{}, s.err
	}
	if s.i >= len(s.toks) {
		return Token{}, io.EOF
	}
	t := s.toks[s.i]
	s.i++
	return t, nil
}

func (s *objectSource) Location() int64 { return -1 }

func (s *objectSource) push(t Token) {
	t.Offset = -1
	s.toks = append(s.toks, t)
}

func (s *objectSource) emit(v any) error {
	switch t := v.(type) {
	case nil:
		s.push(Token{Kind: TokenNull})
	case bool:
		s.push(Token{Kind: TokenBool, Bool: t})
	case string:
		s.push(Token{Kind: TokenString, String: t})
	case int:
		s.push(Token{Kind: TokenNumber, Number: strconv.Itoa(t)})
	case int32:
		s.push(Token{Kind: TokenNumber, Number: strconv.FormatInt(int64(t), 10)})
	case int64:
		s.push(Token{Kind: TokenNumber, Number: strconv.FormatInt(t, 10)})
	case float32:
		s.push(Token{Kind: TokenNumber, Number: strconv.FormatFloat(float64(t), 'g', -1, 32)})
	case float64:
		if math.IsNaN(t) || math.IsInf(t, 0) {
			return NewIssues(CodeUnsupportedValue, "", fmt.Sprintf("non-finite number %v", t))
		}
		s.push(Token{Kind: TokenNumber, Number: strconv.FormatFloat(t, 'g', -1, 64)})
	case Number:
		s.push(Token{Kind: TokenNumber, Number: string(t)})
	case WireObject:
		s.push(Token{Kind: TokenBeginObject})
		for _, p := range t {
			s.push(Token{Kind: TokenKey, String: p.Key})
			if err := s.emit(p.Value); err != nil {
				return err
			}
		}
		s.push(Token{Kind: TokenEndObject})
	case map[string]any:
		keys := make([]string, 0, len(t))
		for k := range t {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		s.push(Token{Kind: TokenBeginObject})
		for _, k := range keys {
			s.push(Token{Kind: TokenKey, String: k})
			if err := s.emit(t[k]); err != nil {
				return err
			}
		}
		s.push(Token{Kind: TokenEndObject})
	case []any:
		s.push(Token{Kind: TokenBeginArray})
		for _, e := range t {
			if err := s.emit(e); err != nil {
				return err
			}
		}
		s.push(Token{Kind: TokenEndArray})
	default:
		return NewIssues(CodeUnsupportedValue, "", fmt.Sprintf("unsupported wire value of type %T", v))
	}
	return nil
}
