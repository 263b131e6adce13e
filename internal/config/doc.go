// Package config loads, normalizes, and validates bioprep configuration.
//
// Defaults carry the lab's established constants (padding, offsets, STFT
// frame and hop sizes, directory layout). A TOML file
// may override any of them, BIOPREP_* environment variables override tool
// locations and logging, and command-line flags override both.
package config
