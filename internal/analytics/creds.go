package analytics

import (
	"context"
	"fmt"
	"os"

	"golang.org/x/oauth2/google"
	"google.golang.org/api/sheets/v4"
)

// CredentialProvider yields service-account JSON from one source.
// Providers that have nothing to offer return (nil, nil).
type CredentialProvider interface {
	Name() string
	Credentials() ([]byte, error)
}

// EnvProvider serves credentials passed verbatim in an environment
// variable.
type EnvProvider struct {
	Value string
}

func (p EnvProvider) Name() string { return "env" }

func (p EnvProvider) Credentials() ([]byte, error) {
	if p.Value == "" {
		return nil, nil
	}
	return []byte(p.Value), nil
}

// FileProvider serves credentials from a local JSON file.
type FileProvider struct {
	Path string
}

func (p FileProvider) Name() string { return "file" }

func (p FileProvider) Credentials() ([]byte, error) {
	if p.Path == "" {
		return nil, nil
	}
	data, err := os.ReadFile(p.Path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("read credentials file: %w", err)
	}
	return data, nil
}

// ResolveCredentials tries the providers in order and returns the first
// parseable service-account JSON along with the name of the provider
// that supplied it, for diagnostics. An empty chain result is not an
// error: it disables the sink.
func ResolveCredentials(ctx context.Context, providers ...CredentialProvider) ([]byte, string, error) {
	for _, p := range providers {
		data, err := p.Credentials()
		if err != nil {
			return nil, "", fmt.Errorf("provider %s: %w", p.Name(), err)
		}
		if len(data) == 0 {
			continue
		}
		if _, err := google.CredentialsFromJSON(ctx, data, sheets.SpreadsheetsScope); err != nil {
			return nil, "", fmt.Errorf("provider %s: parse credentials: %w", p.Name(), err)
		}
		return data, p.Name(), nil
	}
	return nil, "", nil
}
