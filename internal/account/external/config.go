package external

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"gopkg.in/yaml.v3"
)

// Provider types accepted in the providers file.
const (
	TypeOIDC   = "oidc"
	TypeOAuth2 = "oauth2"
)

// ProviderConfig describes one external provider.
type ProviderConfig struct {
	Name         string   `yaml:"name"`
	Caption      string   `yaml:"caption"`
	Type         string   `yaml:"type"`
	ClientID     string   `yaml:"client_id"`
	ClientSecret string   `yaml:"client_secret"`
	Scopes       []string `yaml:"scopes"`

	// oidc
	Issuer string `yaml:"issuer"`

	// oauth2
	AuthURL     string `yaml:"auth_url"`
	TokenURL    string `yaml:"token_url"`
	UserInfoURL string `yaml:"userinfo_url"`
	IDField     string `yaml:"id_field"`
	NameField   string `yaml:"name_field"`
}

type providersFile struct {
	Providers []ProviderConfig `yaml:"providers"`
}

// LoadProviderConfigs reads the providers YAML file. An empty path means no
// external providers.
func LoadProviderConfigs(path string) ([]ProviderConfig, error) {
	if path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("external: read providers file: %w", err)
	}
	return ParseProviderConfigs(data)
}

// ParseProviderConfigs decodes and validates a providers document. Unknown
// keys are rejected so typos do not silently disable a provider setting.
func ParseProviderConfigs(data []byte) ([]ProviderConfig, error) {
	var f providersFile
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&f); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("external: parse providers file: %w", err)
	}

	for i := range f.Providers {
		if err := f.Providers[i].validate(); err != nil {
			return nil, err
		}
	}
	return f.Providers, nil
}

func (c *ProviderConfig) validate() error {
	if c.Name == "" {
		return errors.New("external: provider without name")
	}
	if c.Caption == "" {
		c.Caption = c.Name
	}
	if c.Type == "" {
		c.Type = TypeOIDC
	}
	if c.ClientID == "" {
		return fmt.Errorf("external: provider %s: client_id is required", c.Name)
	}

	switch c.Type {
	case TypeOIDC:
		if c.Issuer == "" {
			return fmt.Errorf("external: provider %s: issuer is required", c.Name)
		}
	case TypeOAuth2:
		if c.AuthURL == "" || c.TokenURL == "" || c.UserInfoURL == "" {
			return fmt.Errorf("external: provider %s: auth_url, token_url and userinfo_url are required", c.Name)
		}
	default:
		return fmt.Errorf("external: provider %s: unknown type %q", c.Name, c.Type)
	}
	return nil
}

// BuildRegistry constructs every configured provider. publicURL is the
// externally visible base URL of the service; each provider redirects back
// to publicURL + CallbackPath(name).
func BuildRegistry(ctx context.Context, cfgs []ProviderConfig, publicURL string) (*Registry, error) {
	publicURL = strings.TrimSuffix(publicURL, "/")

	providers := make([]Provider, 0, len(cfgs))
	for _, cfg := range cfgs {
		redirectURL := publicURL + CallbackPath(cfg.Name)

		var (
			p   Provider
			err error
		)
		switch cfg.Type {
		case TypeOAuth2:
			p = NewOAuth2Provider(cfg, redirectURL)
		default:
			p, err = NewOIDCProvider(ctx, cfg, redirectURL)
		}
		if err != nil {
			return nil, err
		}
		providers = append(providers, p)
	}
	return NewRegistry(providers...)
}
