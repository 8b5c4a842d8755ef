package messagebag

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// MarshalJSON encodes the messages as an object of key to message list,
// keeping key insertion order. The heading is not part of the encoding.
func (b *Bag) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, key := range b.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		k, err := json.Marshal(key)
		if err != nil {
			return nil, err
		}
		v, err := json.Marshal(b.messages[key])
		if err != nil {
			return nil, err
		}
		buf.Write(k)
		buf.WriteByte(':')
		buf.Write(v)
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}

// UnmarshalJSON decodes messages in document order into the bag.
// Existing messages are kept; decoded ones are merged with Add semantics.
func (b *Bag) UnmarshalJSON(data []byte) error {
	if b.messages == nil {
		b.messages = make(map[string][]string)
	}
	if b.headingKey == "" {
		b.headingKey = DefaultHeadingKey
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	tok, err := dec.Token()
	if err != nil {
		return err
	}
	if tok == nil {
		return nil
	}
	if d, ok := tok.(json.Delim); !ok || d != '{' {
		return fmt.Errorf("messagebag: expected object, got %v", tok)
	}

	for dec.More() {
		tok, err := dec.Token()
		if err != nil {
			return err
		}
		key, ok := tok.(string)
		if !ok {
			return fmt.Errorf("messagebag: expected string key, got %v", tok)
		}
		var values []string
		if err := dec.Decode(&values); err != nil {
			return fmt.Errorf("messagebag: key %q: %w", key, err)
		}
		for _, message := range values {
			b.Add(key, message)
		}
	}

	_, err = dec.Token()
	return err
}
