package store

import (
	"bytes"
	"encoding/json"
	"os"
)

var (
	escapedLineSeparator      = []byte(`\u2028`)
	escapedParagraphSeparator = []byte(`\u2029`)
)

// unescapeLineTerminators turns the \u2028 and \u2029 escapes that
// encoding/json always emits back into the literal characters. An escape
// is only replaced when its backslash is not itself escaped.
func unescapeLineTerminators(encoded []byte) []byte {
	if !bytes.Contains(encoded, escapedLineSeparator) && !bytes.Contains(encoded, escapedParagraphSeparator) {
		return encoded
	}

	out := make([]byte, 0, len(encoded))
	for i := 0; i < len(encoded); i++ {
		rest := encoded[i:]
		var literal string
		switch {
		case bytes.HasPrefix(rest, escapedLineSeparator):
			literal = "\u2028"
		case bytes.HasPrefix(rest, escapedParagraphSeparator):
			literal = "\u2029"
		default:
			out = append(out, encoded[i])
			continue
		}

		backslashes := 0
		for j := i - 1; j >= 0 && encoded[j] == '\\'; j-- {
			backslashes++
		}
		if backslashes%2 == 1 {
			out = append(out, encoded[i])
			continue
		}
		out = append(out, literal...)
		i += len(escapedLineSeparator) - 1
	}
	return out
}

// WriteJSON serializes `v` to `path` with a 2 space indent, non-ascii text and
// html characters are written as is.
func WriteJSON(path string, v any) error {
	var buffer bytes.Buffer
	encoder := json.NewEncoder(&buffer)
	encoder.SetEscapeHTML(false)
	encoder.SetIndent("", "  ")
	err := encoder.Encode(v)
	if err != nil {
		return err
	}
	return os.WriteFile(path, unescapeLineTerminators(buffer.Bytes()), 0644)
}
