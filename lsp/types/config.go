package types

import "bennypowers.dev/lupls/internal/workspace"

// ServerConfig is the configuration the client and the project files supply.
type ServerConfig = workspace.Config

// DefaultConfig returns the default server configuration
func DefaultConfig() ServerConfig {
	return workspace.DefaultConfig()
}
