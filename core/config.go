package core

import (
	"fmt"
	"net/url"
	"strings"
	"time"
)

const (
	DefaultAudience   = "https://payware.eu"
	DefaultAPIVersion = "1"
	DefaultBaseURL    = "https://api.payware.eu/api"
)

type TransportConfig struct {
	BaseURL string        `koanf:"base_url" mapstructure:"base_url"`
	Timeout time.Duration `koanf:"timeout" mapstructure:"timeout"`
}

type Config struct {
	ServiceName     string          `koanf:"service_name" mapstructure:"service_name"`
	Audience        string          `koanf:"audience" mapstructure:"audience"`
	DigestAlgorithm string          `koanf:"digest_algorithm" mapstructure:"digest_algorithm"`
	APIVersion      string          `koanf:"api_version" mapstructure:"api_version"`
	Transport       TransportConfig `koanf:"transport" mapstructure:"transport"`
}

func DefaultConfig() Config {
	return Config{
		ServiceName:     "payware",
		Audience:        DefaultAudience,
		DigestAlgorithm: string(DigestSHA256),
		APIVersion:      DefaultAPIVersion,
		Transport: TransportConfig{
			BaseURL: DefaultBaseURL,
			Timeout: 30 * time.Second,
		},
	}
}

func (c Config) Validate() error {
	if strings.TrimSpace(c.ServiceName) == "" {
		return fmt.Errorf("core: service_name is required")
	}
	if strings.TrimSpace(c.Audience) == "" {
		return fmt.Errorf("core: audience is required")
	}
	if _, err := ParseDigestAlgorithm(c.DigestAlgorithm); err != nil {
		return fmt.Errorf("core: invalid digest_algorithm %q", c.DigestAlgorithm)
	}
	if base := strings.TrimSpace(c.Transport.BaseURL); base != "" {
		parsed, err := url.Parse(base)
		if err != nil || parsed.Scheme == "" || parsed.Host == "" {
			return fmt.Errorf("core: invalid transport.base_url %q", base)
		}
	}
	if c.Transport.Timeout < 0 {
		return fmt.Errorf("core: transport.timeout must be >= 0")
	}
	return nil
}

// DefaultDigestAlgorithm resolves the configured algorithm, falling back to
// SHA-256 when the value is empty or unknown.
func (c Config) DefaultDigestAlgorithm() DigestAlgorithm {
	alg, err := ParseDigestAlgorithm(c.DigestAlgorithm)
	if err != nil {
		return DigestSHA256
	}
	return alg
}
