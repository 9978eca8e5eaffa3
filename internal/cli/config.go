package cli

import (
	"os"
	"time"

	"github.com/mcoot/cybersnake/internal/session"
)

// Config holds CLI configuration
type Config struct {
	ServerURL       string
	CredentialsFile string
	Output          string
	Timeout         time.Duration
	Verbose         bool
}

// DefaultConfig returns a Config with default values
func DefaultConfig() *Config {
	return &Config{
		ServerURL:       getEnvOrDefault("CYBERSNAKE_SERVER", "http://localhost:3000"),
		CredentialsFile: getEnvOrDefault("CYBERSNAKE_CREDENTIALS_FILE", session.DefaultCredentialsFile()),
		Output:          "text",
		Timeout:         10 * time.Second,
		Verbose:         false,
	}
}

// Credentials returns the store for the saved name and password
func (c *Config) Credentials() *session.FileCredentialStore {
	return session.NewFileCredentialStore(c.CredentialsFile)
}

func getEnvOrDefault(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}
