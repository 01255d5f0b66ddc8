// Package config holds the proxy's own server configuration: the listen
// address and request timeout it boots with, loaded from a YAML file.
package config

import "time"

// ServerConfig configures the rewrite server process.
type ServerConfig struct {
	// ListenAddr is the address the HTTP server binds to.
	ListenAddr string `json:"listenAddr" yaml:"listenAddr"`

	// RequestTimeoutSeconds bounds how long the upstream forwarder will wait
	// for a single forwarded exchange.
	RequestTimeoutSeconds int `json:"requestTimeoutSeconds" yaml:"requestTimeoutSeconds"`

	// LogLevel is one of "debug", "info", "warn", "error".
	LogLevel string `json:"logLevel" yaml:"logLevel"`

	// LogFormat is "text" or "json".
	LogFormat string `json:"logFormat" yaml:"logFormat"`

	// RulesDir is the directory the admin API writes a "<clientId>.json"
	// snapshot of a client's rules into after each accepted PUT.
	RulesDir string `json:"rulesDir" yaml:"rulesDir"`
}

// RequestTimeout converts RequestTimeoutSeconds to a time.Duration.
func (c ServerConfig) RequestTimeout() time.Duration {
	return time.Duration(c.RequestTimeoutSeconds) * time.Second
}

// DefaultConfig returns sensible defaults for running locally.
func DefaultConfig() ServerConfig {
	return ServerConfig{
		ListenAddr:            ":4280",
		RequestTimeoutSeconds: 30,
		LogLevel:              "info",
		LogFormat:             "text",
		RulesDir:              ".",
	}
}
