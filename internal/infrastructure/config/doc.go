// Package config loads service configuration from the environment with
// envconfig. Every key has a default, so an empty environment is valid.
package config
