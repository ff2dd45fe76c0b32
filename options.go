package preflight

import "github.com/tsawler/preflight/profile"

// clone returns a copy of the configuration.
func (cfg *Config) clone() *Config {
	newCfg := *cfg
	return &newCfg
}

// profileOptions translates the configuration into options for one
// profile check.
func (cfg *Config) profileOptions() []profile.Option {
	opts := []profile.Option{
		profile.WithMaxPages(cfg.MaxPages),
		profile.WithMaxOperations(cfg.MaxOperations),
	}
	if cfg.ParsingMode == Strict {
		opts = append(opts, profile.WithStrict())
	}
	return opts
}
