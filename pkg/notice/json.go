package notice

import (
	"encoding/json"
	"errors"

	"github.com/codenest/ahem/pkg/messagebag"
)

// ErrInvalidRecord is returned when a serialized notice lacks its identity.
var ErrInvalidRecord = errors.New("notice.invalid_record")

// record is the serialized form of a notice.
type record struct {
	ID         ID              `json:"id"`
	Type       string          `json:"type"`
	Settings   Settings        `json:"settings"`
	HeadingKey string          `json:"heading_key,omitempty"`
	Heading    string          `json:"heading,omitempty"`
	Messages   *messagebag.Bag `json:"messages"`
}

// MarshalJSON encodes the notice as
// {id, type, settings, heading_key, heading?, messages}.
func (n *Notice) MarshalJSON() ([]byte, error) {
	return json.Marshal(record{
		ID:         n.id,
		Type:       n.typ,
		Settings:   n.settings,
		HeadingKey: n.messages.HeadingKey(),
		Heading:    n.messages.RawHeading(),
		Messages:   n.messages,
	})
}

// UnmarshalJSON restores a notice from its serialized form. Decoded notices
// are flashable since only flashable notices are ever persisted.
func (n *Notice) UnmarshalJSON(data []byte) error {
	var rec struct {
		ID         ID              `json:"id"`
		Type       string          `json:"type"`
		Settings   Settings        `json:"settings"`
		HeadingKey string          `json:"heading_key"`
		Heading    string          `json:"heading"`
		Messages   json.RawMessage `json:"messages"`
	}
	if err := json.Unmarshal(data, &rec); err != nil {
		return err
	}
	if rec.Type == "" {
		return ErrInvalidRecord
	}

	bag := messagebag.New(rec.HeadingKey)
	if len(rec.Messages) > 0 {
		if err := json.Unmarshal(rec.Messages, bag); err != nil {
			return err
		}
	}
	bag.SetHeading(rec.Heading)

	n.typ = rec.Type
	n.id = rec.ID
	n.flashable = true
	n.settings = rec.Settings
	n.messages = bag
	return nil
}

// UnmarshalJSON accepts both string and integer ids.
func (id *ID) UnmarshalJSON(data []byte) error {
	var n json.Number
	if err := json.Unmarshal(data, &n); err == nil {
		*id = ID(n.String())
		return nil
	}
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	*id = ID(s)
	return nil
}
