// Package config loads, normalizes, and validates vidnotes configuration data.
//
// It supplies repository defaults, expands user paths (including tilde
// shortcuts), reads TOML files, applies a working-directory .env file, and
// honours environment fallbacks such as OPENAI_API_KEY. The Config value is
// passed explicitly to every component that needs it.
package config
