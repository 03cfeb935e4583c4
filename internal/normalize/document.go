package normalize

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io"
)

// Document is the untyped key/value tree of one provider response.
// Numbers are kept as json.Number so no precision is lost before decimal parsing.
type Document map[string]any

var errNotObject = errors.New("response root is not a JSON object")

// ReadDocument parses a provider response body into a Document.
func ReadDocument(r io.Reader) (Document, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var root any
	if err := dec.Decode(&root); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	obj, ok := root.(map[string]any)
	if !ok {
		return nil, errNotObject
	}
	return Document(obj), nil
}

// ParseDocument is ReadDocument for an in-memory body.
func ParseDocument(raw []byte) (Document, error) {
	return ReadDocument(bytes.NewReader(raw))
}

// object returns the nested object stored under key.
// ok is false when the key is absent or holds anything other than an object.
func (d Document) object(key string) (map[string]any, bool) {
	v, present := d[key]
	if !present {
		return nil, false
	}
	obj, ok := v.(map[string]any)
	return obj, ok
}
