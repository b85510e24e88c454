// Package relayconfig loads the server's runtime settings from a TOML file,
// following frankkopp-FrankyGo's internal/config pattern: a Settings struct
// decoded with github.com/BurntSushi/toml and returned by Load, falling back
// to defaults when the file is absent (SPEC_FULL.md §3.3).
package relayconfig

import (
	"fmt"
	"os"

	"github.com/BurntSushi/toml"
)

// Settings is the server's full runtime configuration.
type Settings struct {
	Listen      ListenConfig
	AppService  AppServiceConfig
}

// ListenConfig is the server's bind address.
type ListenConfig struct {
	Host string
	Port int
}

// Addr returns the host:port listen address.
func (l ListenConfig) Addr() string {
	return fmt.Sprintf("%s:%d", l.Host, l.Port)
}

// AppServiceConfig is the External App Service endpoint and retry tuning.
type AppServiceConfig struct {
	BaseURL             string
	RetryAttempts       int
	RetryBaseDelaySecs  float64
}

// Default returns the baseline configuration used when no file is present.
func Default() Settings {
	return Settings{
		Listen: ListenConfig{Host: "0.0.0.0", Port: 8765},
		AppService: AppServiceConfig{
			BaseURL:            "http://localhost:8000/graphql",
			RetryAttempts:      3,
			RetryBaseDelaySecs: 0.2,
		},
	}
}

// Load decodes path into Settings layered over Default(), matching
// config.Setup()'s "config file not found -> use defaults" fallback.
func Load(path string) (Settings, error) {
	s := Default()
	if path == "" {
		return s, nil
	}
	if _, err := os.Stat(path); os.IsNotExist(err) {
		return s, nil
	}
	if _, err := toml.DecodeFile(path, &s); err != nil {
		return Settings{}, fmt.Errorf("relayconfig: decode %v: %w", path, err)
	}
	return s, nil
}
