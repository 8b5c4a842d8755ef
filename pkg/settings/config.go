package settings

// Config holds settings resolver configuration
type Config struct {
	// File is an optional YAML settings file; the built-in settings are used when empty
	File string `env:"AHEM_SETTINGS_FILE" envDefault:""`

	// StoreKey overrides the flash key from the settings file
	StoreKey string `env:"AHEM_STORE_KEY" envDefault:""`

	// HeadingKey overrides the default heading key from the settings file
	HeadingKey string `env:"AHEM_HEADING_KEY" envDefault:""`
}

// DefaultConfig returns default resolver configuration
func DefaultConfig() Config {
	return Config{}
}

// NewFromConfig creates a Resolver from the provided Config.
// Non-empty StoreKey and HeadingKey take precedence over the file.
func NewFromConfig(cfg Config, opts ...Option) (*Resolver, error) {
	base := Default()
	if cfg.File != "" {
		r, err := LoadFile(cfg.File)
		if err != nil {
			return nil, err
		}
		base = r
	}

	configOpts := []Option{
		WithStoreKey(cfg.StoreKey),
		WithHeadingKey(cfg.HeadingKey),
	}
	configOpts = append(configOpts, opts...)

	return base.With(configOpts...), nil
}
