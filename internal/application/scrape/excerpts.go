package scrape

import (
	"bytes"
	"encoding/json"
)

// Excerpts maps a leader's disambiguated name to its excerpt, it remembers
// the order keys were first set in.
type Excerpts struct {
	keys   []string
	values map[string]string
}

func NewExcerpts() *Excerpts {
	return &Excerpts{values: map[string]string{}}
}

// Set adds or overwrites `key`, an overwritten key keeps its position.
func (e *Excerpts) Set(key, value string) {
	if _, exists := e.values[key]; !exists {
		e.keys = append(e.keys, key)
	}
	e.values[key] = value
}

func (e *Excerpts) Get(key string) (string, bool) {
	value, ok := e.values[key]
	return value, ok
}

func (e *Excerpts) Len() int {
	return len(e.keys)
}

func (e *Excerpts) Keys() []string {
	return append([]string(nil), e.keys...)
}

// Map returns a copy of the excerpts as a plain map.
func (e *Excerpts) Map() map[string]string {
	out := make(map[string]string, len(e.values))
	for k, v := range e.values {
		out[k] = v
	}
	return out
}

func encodeString(buffer *bytes.Buffer, s string) error {
	encoder := json.NewEncoder(buffer)
	encoder.SetEscapeHTML(false)
	err := encoder.Encode(s)
	if err != nil {
		return err
	}
	// Encode terminates every value with a newline
	buffer.Truncate(buffer.Len() - 1)
	return nil
}

func (e *Excerpts) MarshalJSON() ([]byte, error) {
	var buffer bytes.Buffer
	buffer.WriteByte('{')
	for i, key := range e.keys {
		if i > 0 {
			buffer.WriteByte(',')
		}
		err := encodeString(&buffer, key)
		if err != nil {
			return nil, err
		}
		buffer.WriteByte(':')
		err = encodeString(&buffer, e.values[key])
		if err != nil {
			return nil, err
		}
	}
	buffer.WriteByte('}')
	return buffer.Bytes(), nil
}
