package cli

import (
	"bytes"
	"fmt"
	"io"

	gojson "github.com/goccy/go-json"

	"github.com/reoring/taskmap"
)

// writeJSON writes v as indented JSON followed by a newline. Ordered wire
// objects keep their member order.
func writeJSON(w io.Writer, v any) error {
	raw, err := gojson.Marshal(v)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := gojson.Indent(&buf, raw, "", "  "); err != nil {
		return err
	}
	buf.WriteByte('\n')
	_, err = w.Write(buf.Bytes())
	return err
}

// printError writes one line per issue, or the error text.
func printError(w io.Writer, err error) {
	if iss, ok := taskmap.AsIssues(err); ok {
		for _, it := range iss {
			fmt.Fprintf(w, "error: %s at %s: %s\n", it.Code, it.Path, it.Message)
		}
		return
	}
	fmt.Fprintf(w, "error: %v\n", err)
}
