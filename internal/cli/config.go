package cli

import (
	"fmt"
	"os"
)

// Config holds CLI configuration
type Config struct {
	// ServerAddr is the game server's UDP host:port
	ServerAddr string
	// APIURL is the base URL of the status HTTP API
	APIURL string
	// Username is the name to join matches under
	Username string
	Output   string
	Verbose  bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerAddr: getEnvOrDefault("MAZEWARS_SERVER", "localhost:2025"),
		APIURL:     getEnvOrDefault("MAZEWARS_API", "http://localhost:8080"),
		Username:   os.Getenv("MAZEWARS_USERNAME"),
		Output:     "text",
		Verbose:    false,
	}
}

// RequireUsername rejects commands that join a match without a name
func (c *Config) RequireUsername() error {
	if c.Username == "" {
		return fmt.Errorf("a username is required (--username or MAZEWARS_USERNAME)")
	}
	return nil
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
