// Package config loads cartstore settings.
//
// Settings come from CARTSTORE_* environment variables with built-in
// defaults; command-line flags are applied on top by the caller:
//
//	┌─────────────────────────────┐
//	│  3. Command Line Arguments  │  ← Highest priority
//	├─────────────────────────────┤
//	│  2. Environment Variables   │
//	├─────────────────────────────┤
//	│  1. Built-in Defaults       │  ← Lowest priority
//	└─────────────────────────────┘
//
// # Basic Usage
//
//	cfg, err := config.Load()
//	if err != nil {
//	    return err
//	}
//	cfg.HistoryLimit = 50 // override from a flag
//	if err := cfg.Validate(); err != nil {
//	    return err
//	}
package config
