// Package config handles configuration management for yawms.
// It layers the embedded defaults, the user's TOML config file, YAWMS_*
// environment variables and command-line overrides, in that order.
package config
