// Package gojson provides a token driver backed by goccy/go-json. Select it
// with taskmap.SetJSONDriver(gojson.Driver()). Byte offsets are not reported.
package gojson

import (
	"bytes"
	"io"
	"strconv"

	j "github.com/goccy/go-json"

	"github.com/reoring/taskmap"
	eng "github.com/reoring/taskmap/internal/engine"
)

// DriverName is the name reported by the go-json driver.
const DriverName = "go-json"

// Driver returns a taskmap.JSONDriver backed by goccy/go-json.
func Driver() taskmap.JSONDriver { return driverGoJSON{} }

type driverGoJSON struct{}

func (driverGoJSON) NewReader(r io.Reader) taskmap.Source { return NewReader(r) }
func (driverGoJSON) NewBytes(b []byte) taskmap.Source     { return NewBytes(b) }
func (driverGoJSON) Name() string                         { return DriverName }

type source struct {
	dec  *j.Decoder
	keys eng.KeyTracker
}

// NewReader wraps an io.Reader into an engine.TokenSource for JSON using go-json.
func NewReader(r io.Reader) eng.TokenSource {
	dec := j.NewDecoder(r)
	dec.UseNumber()
	return &source{dec: dec}
}

// NewBytes wraps a byte slice into an engine.TokenSource for JSON using go-json.
func NewBytes(b []byte) eng.TokenSource { return NewReader(bytes.NewReader(b)) }

func (s *source) NextToken() (eng.Token, error) {
	tok, err := s.dec.Token()
	if err != nil {
		return eng.Token{}, err
	}
	t := eng.Token{Offset: -1}
	switch v := tok.(type) {
	case j.Delim:
		switch v {
		case '{':
			s.keys.Open(true)
			t.Kind = eng.KindBeginObject
		case '}':
			s.keys.Close()
			t.Kind = eng.KindEndObject
		case '[':
			s.keys.Open(false)
			t.Kind = eng.KindBeginArray
		case ']':
			s.keys.Close()
			t.Kind = eng.KindEndArray
		}
		return t, nil
	case string:
		t.String = v
		if s.keys.IsKey() {
			t.Kind = eng.KindKey
		} else {
			t.Kind = eng.KindString
		}
		return t, nil
	case bool:
		t.Kind, t.Bool = eng.KindBool, v
	case j.Number:
		t.Kind, t.Number = eng.KindNumber, string(v)
	case float64:
		t.Kind, t.Number = eng.KindNumber, strconv.FormatFloat(v, 'g', -1, 64)
	default:
		t.Kind = eng.KindNull
	}
	s.keys.Value()
	return t, nil
}

func (s *source) Location() int64 { return -1 }
