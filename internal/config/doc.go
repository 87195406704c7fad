// Package config handles configuration loading, parsing, and validation
// from environment variables (CONSTITUTION_ prefix) and an optional
// config.yaml in the working directory. It provides type-safe access to
// settings for the server, storage, answer sessions and the scoring engine.
package config
