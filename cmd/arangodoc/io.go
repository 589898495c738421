package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"
	"os"

	"github.com/aretw0/arangodoc"
)

// readPayload reads a JSON object from --file (- for stdin), the inline
// argument, or stdin, in that order.
func readPayload(in io.Reader, inline []string, file string) (map[string]any, error) {
	var data []byte
	var err error

	switch {
	case file == "-":
		data, err = io.ReadAll(in)
	case file != "":
		data, err = os.ReadFile(file)
	case len(inline) > 0:
		data = []byte(inline[0])
	default:
		data, err = io.ReadAll(in)
	}
	if err != nil {
		return nil, fmt.Errorf("read document: %w", err)
	}
	return decodeObject(data)
}

func decodeObject(data []byte) (map[string]any, error) {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	var obj map[string]any
	if err := dec.Decode(&obj); err != nil {
		return nil, fmt.Errorf("document must be a JSON object: %w", err)
	}
	if obj == nil {
		return nil, fmt.Errorf("document must be a JSON object, got null")
	}
	return obj, nil
}

func printJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// writeSummary flattens a write result for printing. Silent results yield nil.
func writeSummary[T any](resp arangodoc.DocumentResponse[T]) map[string]any {
	v, ok := resp.(arangodoc.Verbose[T])
	if !ok {
		return nil
	}

	out := map[string]any{}
	if v.Header != nil {
		out["_id"] = v.Header.ID
		out["_key"] = v.Header.Key
		out["_rev"] = v.Header.Rev
	}
	if v.OldRev != "" {
		out["_oldRev"] = v.OldRev
	}
	if v.New != nil {
		out["new"] = v.New
	}
	if v.Old != nil {
		out["old"] = v.Old
	}
	return out
}

func printResult[T any](w io.Writer, resp arangodoc.DocumentResponse[T]) error {
	summary := writeSummary[T](resp)
	if summary == nil {
		return nil
	}
	return printJSON(w, summary)
}
