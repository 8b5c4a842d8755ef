package settings

import (
	_ "embed"
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/codenest/ahem/pkg/notice"
)

//go:embed defaults.yaml
var defaultDocument []byte

// document mirrors the settings file layout.
type document struct {
	SessionKey string `yaml:"session_key"`
	Headings   struct {
		DefaultKey string `yaml:"default_key"`
	} `yaml:"headings"`
	Settings yaml.Node `yaml:"settings"`
}

type typeEntry struct {
	notice.Overrides `yaml:",inline"`
	HeadingKey       string `yaml:"heading_key,omitempty"`
}

// Default returns the resolver for the built-in settings: the success, info,
// warning and error types over alert-box markup.
func Default() *Resolver {
	r, err := Parse(defaultDocument)
	if err != nil {
		panic(fmt.Sprintf("settings: embedded defaults: %v", err))
	}
	return r
}

// LoadFile reads and parses a YAML settings file.
func LoadFile(path string) (*Resolver, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Join(ErrRead, err)
	}
	return Parse(data)
}

// Parse builds a Resolver from a YAML settings document. Type order in the
// document is preserved. Fields missing from default_settings are empty;
// nothing is inherited from the built-in defaults.
func Parse(data []byte) (*Resolver, error) {
	var doc document
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, errors.Join(ErrParse, err)
	}

	r := New(WithStoreKey(doc.SessionKey), WithHeadingKey(doc.Headings.DefaultKey))

	node := &doc.Settings
	if node.Kind == 0 {
		return r, nil
	}
	if node.Kind != yaml.MappingNode {
		return nil, fmt.Errorf("%w: settings must be a mapping", ErrParse)
	}

	for i := 0; i+1 < len(node.Content); i += 2 {
		name := node.Content[i].Value
		var entry typeEntry
		if err := node.Content[i+1].Decode(&entry); err != nil {
			return nil, errors.Join(ErrParse, fmt.Errorf("type %q: %w", name, err))
		}

		if name == DefaultSettingsType {
			r.defaults = notice.Settings{}.Overlay(entry.Overrides)
			if entry.HeadingKey != "" {
				r.headingKey = entry.HeadingKey
			}
			continue
		}

		r.addType(name, entry.Overrides)
		if entry.HeadingKey != "" {
			r.headingKeys[name] = entry.HeadingKey
		}
	}

	return r, nil
}
