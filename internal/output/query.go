// Package output renders response bodies as JSON, optionally filtered
// through a jq expression.
package output

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/itchyny/gojq"
)

// PrintJSON writes the JSON body to w, pretty-printed unless compact is
// set. When query is non-empty the body is filtered through gojq first,
// emitting one document per query result.
func PrintJSON(w io.Writer, body []byte, query string, compact bool) error {
	var data any
	if len(body) > 0 {
		if err := json.Unmarshal(body, &data); err != nil {
			return fmt.Errorf("response is not valid JSON: %w", err)
		}
	}

	enc := json.NewEncoder(w)
	enc.SetEscapeHTML(false)
	if !compact {
		enc.SetIndent("", "  ")
	}

	if query == "" {
		return enc.Encode(data)
	}
	return runQuery(enc, query, data)
}

// runQuery parses, compiles and runs a gojq query against data and writes
// every result through enc.
func runQuery(enc *json.Encoder, query string, data any) error {
	parsed, err := gojq.Parse(query)
	if err != nil {
		return fmt.Errorf("invalid jq query: %w", err)
	}
	code, err := gojq.Compile(parsed)
	if err != nil {
		return fmt.Errorf("invalid jq query: %w", err)
	}

	iter := code.Run(data)
	for {
		v, ok := iter.Next()
		if !ok {
			break
		}
		if queryErr, isErr := v.(error); isErr {
			return fmt.Errorf("query error: %s", queryErr)
		}
		if err := enc.Encode(v); err != nil {
			return err
		}
	}
	return nil
}
