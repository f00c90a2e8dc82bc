package sentry

import (
	"fmt"
	"net/url"
	"strings"
)

// DSN identifies a Sentry project endpoint, in the form
// {scheme}://{public_key}:{secret_key}@{host}/{path}{project_id}.
// The secret key is optional for protocol version 7 and later.
type DSN struct {
	Scheme    string
	PublicKey string
	SecretKey string
	Host      string
	Path      string
	ProjectId string
}

func ParseDSN(raw string) (*DSN, error) {
	u, err := url.Parse(strings.TrimSpace(raw))
	if err != nil {
		return nil, fmt.Errorf("Error parsing the dsn: %w", err)
	}

	if u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("Invalid dsn: missing scheme or host")
	}

	if u.User == nil || u.User.Username() == "" {
		return nil, fmt.Errorf("Invalid dsn: missing public key")
	}
	publicKey := u.User.Username()
	secretKey, _ := u.User.Password()

	path := strings.TrimSuffix(u.Path, "/")
	idx := strings.LastIndex(path, "/")
	if idx < 0 || path[idx+1:] == "" {
		return nil, fmt.Errorf("Invalid dsn: missing project id")
	}

	return &DSN{
		Scheme:    u.Scheme,
		PublicKey: publicKey,
		SecretKey: secretKey,
		Host:      u.Host,
		Path:      path[:idx],
		ProjectId: path[idx+1:],
	}, nil
}

// StoreEndpoint returns the event ingestion URL for the project.
func (d *DSN) StoreEndpoint() string {
	return fmt.Sprintf("%s://%s%s/api/%s/store/", d.Scheme, d.Host, d.Path, d.ProjectId)
}
