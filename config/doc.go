// Package config loads engine tunables from a TOML file, the process
// environment, and JSON fragments. Later sources override earlier
// ones: defaults, then file, then TEXTMARK_-prefixed environment
// variables, then any JSON overlay the embedding host applies.
package config
