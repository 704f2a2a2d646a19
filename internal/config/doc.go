// Package config loads, normalizes, and validates callgrade configuration.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, and honours environment fallbacks such as
// OPENAI_API_KEY and DEEPGRAM_API_KEY. The Config type centralizes every knob
// the CLI and pipeline need, so API credentials, intake limits, and logging
// preferences are discovered in one pass.
//
// Always obtain settings through this package so downstream code receives
// sanitized values and clear validation errors.
package config
