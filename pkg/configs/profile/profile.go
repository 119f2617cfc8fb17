// Package profile holds the client-side configuration of labelctl.
package profile

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Profile is loaded from a TOML file.
type Profile struct {
	Server   ServerProfile   `toml:"server"`
	Database DatabaseProfile `toml:"database"`
}

// ServerProfile points at a running labeld.
type ServerProfile struct {
	URL   string `toml:"url"`
	Token string `toml:"token"`
}

// DatabaseProfile is used by commands which bypass labeld
// and speak to the database directly.
type DatabaseProfile struct {
	URI              string `toml:"uri"`
	SchemaRepository string `toml:"schema_repository"`
}

// Load reads and parses a profile from the given path.
func Load(path string) (*Profile, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read profile: %w", err)
	}

	p := &Profile{}
	if err := toml.Unmarshal(data, p); err != nil {
		return nil, fmt.Errorf("failed to parse profile: %w", err)
	}

	return p, nil
}
