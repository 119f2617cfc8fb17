package server

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const DefaultTokenTTL = 12 * time.Hour

// ServerConfig is the labeld daemon configuration.
type ServerConfig struct {
	// port to listen on
	ServerPort string `yaml:"port"`

	// connection string for the catalog database
	DBURI string `yaml:"dbURI"`

	// path to the schema repository directory
	SchemaRepository string `yaml:"schemaRepository"`

	// path to the file holding the session token secret
	TokenSecretFile string `yaml:"tokenSecretFile"`

	// session token lifetime, like "12h". default = 12h
	TokenTTL string `yaml:"tokenTTL,omitempty"`
}

// TokenLifetime parses TokenTTL, falling back to DefaultTokenTTL.
func (c *ServerConfig) TokenLifetime() (time.Duration, error) {
	if c.TokenTTL == "" {
		return DefaultTokenTTL, nil
	}
	ttl, err := time.ParseDuration(c.TokenTTL)
	if err != nil {
		return 0, fmt.Errorf("malformed tokenTTL: %w", err)
	}
	return ttl, nil
}

func LoadServerConfig(filepath string) (*ServerConfig, error) {
	content, err := os.ReadFile(filepath)
	if err != nil {
		return nil, err
	}
	return Unmarshal(content)
}

func Unmarshal(conf []byte) (*ServerConfig, error) {
	var out ServerConfig
	if err := yaml.Unmarshal(conf, &out); err != nil {
		return nil, err
	}
	return &out, nil
}
