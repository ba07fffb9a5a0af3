package config

import (
	"github.com/zhubert/chatstate/internal/kv"
	"github.com/zhubert/chatstate/internal/state"
)

// DefaultConfig returns the settings used when no config file exists.
func DefaultConfig() (*Config, error) {
	dir, err := Dir()
	if err != nil {
		return nil, err
	}
	delay := Duration{state.DefaultActClearDelay}

	return &Config{
		Backend:       kv.BackendFile,
		DataDir:       dir,
		FallbackModel: state.DefaultModel,
		ActClearDelay: &delay,
	}, nil
}

// Merge fills in missing values in partial from defaults.
// partial takes precedence; defaults fill gaps. Session maps are not merged:
// a partial session replaces the default one.
func Merge(partial, defaults *Config) *Config {
	result := *partial

	if result.Backend == "" {
		result.Backend = defaults.Backend
	}
	if result.DataDir == "" {
		result.DataDir = defaults.DataDir
	}
	if result.FallbackModel == "" {
		result.FallbackModel = defaults.FallbackModel
	}
	if result.ActClearDelay == nil {
		result.ActClearDelay = defaults.ActClearDelay
	}
	if result.RecentExpire == nil {
		result.RecentExpire = defaults.RecentExpire
	}
	if result.LogFile == "" {
		result.LogFile = defaults.LogFile
	}
	if result.Session == nil {
		result.Session = defaults.Session
	}
	// debug is additive
	result.Debug = result.Debug || defaults.Debug

	return &result
}
