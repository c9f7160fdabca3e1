package main

import (
	"os"
	"strings"

	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

const envPrefix = "AUTHAPI_"

// AppConfig is the process configuration: defaults, then an optional YAML
// file, then AUTHAPI_* environment variables. The signing key has no
// default and must be provisioned out of band.
type AppConfig struct {
	Server      ServerConfig      `koanf:"server"`
	Auth        AuthConfig        `koanf:"auth"`
	Persistence PersistenceConfig `koanf:"persistence"`
}

type ServerConfig struct {
	Addr string `koanf:"addr"`
}

type AuthConfig struct {
	SigningKey      string `koanf:"signing_key"`
	Issuer          string `koanf:"issuer"`
	TokenExpiration int    `koanf:"token_expiration"`
	ContextKey      string `koanf:"context_key"`
	AuthScheme      string `koanf:"auth_scheme"`
}

type PersistenceConfig struct {
	DSN  string `koanf:"dsn"`
	Seed bool   `koanf:"seed"`
}

func (a AppConfig) GetAuth() AuthConfig { return a.Auth }

// AuthConfig satisfies authapi.Config.
func (c AuthConfig) GetSigningKey() string   { return c.SigningKey }
func (c AuthConfig) GetIssuer() string       { return c.Issuer }
func (c AuthConfig) GetTokenExpiration() int { return c.TokenExpiration }
func (c AuthConfig) GetContextKey() string   { return c.ContextKey }
func (c AuthConfig) GetAuthScheme() string   { return c.AuthScheme }

// Redacted returns a copy safe for logging.
func (a AppConfig) Redacted() AppConfig {
	out := a
	if out.Auth.SigningKey != "" {
		out.Auth.SigningKey = "[REDACTED]"
	}
	return out
}

func LoadConfig(path string) (*AppConfig, error) {
	k := koanf.New(".")

	if err := k.Load(confmap.Provider(map[string]any{
		"server.addr":           ":8572",
		"auth.issuer":           "http://localhost:8572",
		"auth.token_expiration": 3600,
		"auth.context_key":      "user",
		"auth.auth_scheme":      "Bearer",
		"persistence.dsn":       "file::memory:?cache=shared",
		"persistence.seed":      false,
	}, "."), nil); err != nil {
		return nil, err
	}

	if path != "" {
		if _, err := os.Stat(path); err == nil {
			if err := k.Load(file.Provider(path), yaml.Parser()); err != nil {
				return nil, err
			}
		}
	}

	// AUTHAPI_AUTH__SIGNING_KEY maps to auth.signing_key; double underscore
	// separates levels so key names may contain single underscores.
	if err := k.Load(env.Provider(envPrefix, ".", func(s string) string {
		return strings.ReplaceAll(
			strings.ToLower(strings.TrimPrefix(s, envPrefix)), "__", ".",
		)
	}), nil); err != nil {
		return nil, err
	}

	cfg := &AppConfig{}
	if err := k.Unmarshal("", cfg); err != nil {
		return nil, err
	}

	return cfg, nil
}
