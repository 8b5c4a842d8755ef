package messagebag

import (
	"slices"
	"sort"
	"strings"
)

const (
	// DefaultKey groups messages that were added without a key.
	DefaultKey = ""

	// DefaultHeadingKey is used when New is called with an empty heading key.
	DefaultHeadingKey = "heading"

	messagePlaceholder = ":message"
	headingPlaceholder = ":heading"
)

// Bag is an ordered, deduplicating collection of messages grouped by key,
// plus one optional heading.
//
// Messages submitted under the heading key never land in the collection,
// they replace the heading instead. Not safe for concurrent use.
type Bag struct {
	headingKey string
	heading    string
	keys       []string
	messages   map[string][]string
}

// New creates an empty bag that diverts headingKey into the heading.
func New(headingKey string) *Bag {
	if headingKey == "" {
		headingKey = DefaultHeadingKey
	}
	return &Bag{
		headingKey: headingKey,
		messages:   make(map[string][]string),
	}
}

// NewFrom creates a bag pre-filled with messages.
func NewFrom(headingKey string, messages map[string][]string) *Bag {
	return New(headingKey).Merge(messages)
}

// Add appends message under key unless the pair is already present.
// If key is the heading key, the heading is replaced instead.
func (b *Bag) Add(key, message string) *Bag {
	if key == b.headingKey {
		return b.SetHeading(message)
	}
	if b.contains(key, message) {
		return b
	}
	if _, ok := b.messages[key]; !ok {
		b.keys = append(b.keys, key)
	}
	b.messages[key] = append(b.messages[key], message)
	return b
}

// AddMessage appends an untagged message.
func (b *Bag) AddMessage(message string) *Bag {
	return b.Add(DefaultKey, message)
}

// Merge unions messages into the bag key by key.
// The heading key is extracted first. Keys not yet present are appended in
// ascending order since map iteration order is undefined.
func (b *Bag) Merge(messages map[string][]string) *Bag {
	if len(messages) == 0 {
		return b
	}
	if values, ok := messages[b.headingKey]; ok && len(values) > 0 {
		b.SetHeading(values[0])
	}

	keys := make([]string, 0, len(messages))
	for key := range messages {
		if key != b.headingKey {
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		for _, message := range messages[key] {
			b.Add(key, message)
		}
	}
	return b
}

// MergeBag unions other into b in other's key order and adopts its heading
// when it has one.
func (b *Bag) MergeBag(other *Bag) *Bag {
	if other == nil {
		return b
	}
	for _, key := range other.keys {
		for _, message := range other.messages[key] {
			b.Add(key, message)
		}
	}
	if other.HasHeading() {
		b.SetHeading(other.heading)
	}
	return b
}

// HeadingKey returns the key currently diverted into the heading.
func (b *Bag) HeadingKey() string {
	return b.headingKey
}

// SetHeadingKey changes the heading key. Messages already stored under the
// new key migrate into the heading and the key is removed.
func (b *Bag) SetHeadingKey(key string) *Bag {
	if key == "" {
		return b
	}
	b.headingKey = key
	if values, ok := b.messages[key]; ok {
		if len(values) > 0 {
			b.heading = values[0]
		}
		b.Destroy(key)
	}
	return b
}

// SetHeading replaces the heading.
func (b *Bag) SetHeading(heading string) *Bag {
	b.heading = heading
	return b
}

// HasHeading reports whether a non-empty heading is set.
func (b *Bag) HasHeading() bool {
	return b.heading != ""
}

// Heading returns the heading substituted into format's :heading
// placeholder, or an empty string when no heading is set.
func (b *Bag) Heading(format string) string {
	if !b.HasHeading() {
		return ""
	}
	if format == "" {
		format = headingPlaceholder
	}
	return strings.ReplaceAll(format, headingPlaceholder, b.heading)
}

// RawHeading returns the heading without formatting.
func (b *Bag) RawHeading() string {
	return b.heading
}

// Count returns the number of stored messages. The heading is not counted.
func (b *Bag) Count() int {
	n := 0
	for _, values := range b.messages {
		n += len(values)
	}
	return n
}

// Any reports whether the bag holds at least one message.
func (b *Bag) Any() bool {
	return b.Count() > 0
}

// IsEmpty reports whether the bag holds no messages.
func (b *Bag) IsEmpty() bool {
	return !b.Any()
}

// Has reports whether at least one message is stored under key.
func (b *Bag) Has(key string) bool {
	return len(b.messages[key]) > 0
}

// Keys returns message keys in insertion order.
func (b *Bag) Keys() []string {
	return slices.Clone(b.keys)
}

// First returns the first message of the bag, formatted.
func (b *Bag) First(format string) string {
	for _, key := range b.keys {
		if values := b.messages[key]; len(values) > 0 {
			return transform(values[0], format)
		}
	}
	return ""
}

// FirstOf returns the first message stored under key, formatted.
func (b *Bag) FirstOf(key, format string) string {
	values := b.messages[key]
	if len(values) == 0 {
		return ""
	}
	return transform(values[0], format)
}

// Get returns all messages stored under key, formatted.
func (b *Bag) Get(key, format string) []string {
	values := b.messages[key]
	out := make([]string, 0, len(values))
	for _, message := range values {
		out = append(out, transform(message, format))
	}
	return out
}

// All returns every message in key order, formatted.
func (b *Bag) All(format string) []string {
	out := make([]string, 0, b.Count())
	for _, key := range b.keys {
		for _, message := range b.messages[key] {
			out = append(out, transform(message, format))
		}
	}
	return out
}

// Destroy removes every message stored under key.
func (b *Bag) Destroy(key string) *Bag {
	if _, ok := b.messages[key]; !ok {
		return b
	}
	delete(b.messages, key)
	b.keys = slices.DeleteFunc(b.keys, func(k string) bool { return k == key })
	return b
}

// Messages returns a copy of the raw messages.
func (b *Bag) Messages() map[string][]string {
	out := make(map[string][]string, len(b.messages))
	for key, values := range b.messages {
		out[key] = slices.Clone(values)
	}
	return out
}

// Clone returns a deep copy of the bag.
func (b *Bag) Clone() *Bag {
	c := New(b.headingKey)
	c.heading = b.heading
	c.keys = slices.Clone(b.keys)
	for key, values := range b.messages {
		c.messages[key] = slices.Clone(values)
	}
	return c
}

func (b *Bag) contains(key, message string) bool {
	return slices.Contains(b.messages[key], message)
}

func transform(message, format string) string {
	if format == "" {
		return message
	}
	return strings.ReplaceAll(format, messagePlaceholder, message)
}
