package halyard

import (
	"encoding/json"
	"errors"

	"github.com/tidwall/jsonc"
)

// parseDocument strips comments (and trailing commas) from raw and decodes
// the result. It returns both the comment-stripped document bytes, which
// later feed default application, and the decoded value. jsonc.ToJSON
// replaces comments with whitespace, so byte offsets in the stripped
// document still point at the original source.
func parseDocument(raw string) ([]byte, any, error) {
	doc := jsonc.ToJSON([]byte(raw))

	var value any
	if err := json.Unmarshal(doc, &value); err != nil {
		var syn *json.SyntaxError
		if errors.As(err, &syn) {
			line, column := lineColumn(doc, syn.Offset)
			return nil, nil, failWith(MsgInvalidJSON, map[string]any{
				"line":   line,
				"column": column,
			})
		}
		// No recognizable position; report without coordinates rather
		// than inventing them.
		return nil, nil, fail(MsgInvalidJSON)
	}

	return doc, value, nil
}

// lineColumn converts a json.SyntaxError offset (one past the offending
// byte) into a 0-based line and column.
func lineColumn(doc []byte, offset int64) (int, int) {
	pos := int(offset) - 1
	if pos > len(doc) {
		pos = len(doc)
	}
	if pos < 0 {
		pos = 0
	}

	line, column := 0, 0
	for _, b := range doc[:pos] {
		if b == '\n' {
			line++
			column = 0
		} else {
			column++
		}
	}
	return line, column
}
